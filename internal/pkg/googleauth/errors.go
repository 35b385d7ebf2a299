package googleauth

import "errors"

var (
	// ErrNoRefreshToken means the user never connected Google Calendar or the
	// stored refresh token has been revoked. Remediation is a fresh OAuth consent.
	ErrNoRefreshToken = errors.New("no refresh token available")

	// ErrTokenRefreshExpired means the credential is invalid for reasons other
	// than revocation (provider rejected the exchange, or the API returned 401).
	ErrTokenRefreshExpired = errors.New("token refresh failed")

	// ErrDecryptionFailed means the stored ciphertext cannot be decrypted under
	// the current encryption key. This signals a key rotation mismatch and is an
	// operational problem, not something the user can fix.
	ErrDecryptionFailed = errors.New("token decryption failed")
)
