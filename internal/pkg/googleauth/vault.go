package googleauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"

	"github.com/dobosmarton/gaffer-app/app/repository"
	"github.com/dobosmarton/gaffer-app/internal/pkg/cache"
	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

const (
	// Google access tokens live ~60 minutes; cache slightly short so we never
	// hand out a token about to expire.
	accessTokenTTL = 50 * time.Minute

	accessTokenKeyFormat = "google:access_token:%s"

	defaultTokenURL = "https://oauth2.googleapis.com/token"
)

// Config carries the OAuth client credentials and the token vault secret
type Config struct {
	ClientID      string
	ClientSecret  string
	TokenURL      string
	EncryptionKey string
}

// ConfigFromEnv reads the vault configuration from the environment
func ConfigFromEnv() Config {
	return Config{
		ClientID:      env.GetEnv("GOOGLE_CLIENT_ID", ""),
		ClientSecret:  env.GetEnv("GOOGLE_CLIENT_SECRET", ""),
		TokenURL:      env.GetEnv("GOOGLE_TOKEN_URL", defaultTokenURL),
		EncryptionKey: env.GetEnv("TOKEN_ENCRYPTION_KEY", ""),
	}
}

// Vault manages Google OAuth credentials: refresh tokens encrypted in the
// database, access tokens cached with a short TTL.
type Vault struct {
	tokens     repository.GoogleTokenRepository
	cache      *cache.Service
	cipher     *tokenCipher
	httpClient *http.Client
	config     Config
}

// NewVault creates a credential vault
func NewVault(tokens repository.GoogleTokenRepository, cacheService *cache.Service, config Config) (*Vault, error) {
	tc, err := newTokenCipher(config.EncryptionKey)
	if err != nil {
		return nil, err
	}
	if config.TokenURL == "" {
		config.TokenURL = defaultTokenURL
	}
	return &Vault{
		tokens:     tokens,
		cache:      cacheService,
		cipher:     tc,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		config:     config,
	}, nil
}

// StoreRefreshToken encrypts and upserts the refresh token for a user
func (v *Vault) StoreRefreshToken(userID, refreshToken string) error {
	encrypted, err := v.cipher.Encrypt(refreshToken)
	if err != nil {
		return fmt.Errorf("failed to encrypt refresh token: %w", err)
	}
	if err := v.tokens.Upsert(userID, encrypted); err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	log.Infof("[GoogleAuth] Stored refresh token for user %s", shortID(userID))
	return nil
}

// GetRefreshToken retrieves and decrypts the stored refresh token
func (v *Vault) GetRefreshToken(userID string) (string, error) {
	token, err := v.tokens.Get(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrNoRefreshToken
	}
	if err != nil {
		return "", err
	}

	plaintext, err := v.cipher.Decrypt(token.RefreshToken)
	if err != nil {
		log.Errorf("[GoogleAuth] Failed to decrypt token for user %s - encryption key may have changed", shortID(userID))
		return "", err
	}
	return plaintext, nil
}

// HasRefreshToken reports whether the user has connected Google Calendar
func (v *Vault) HasRefreshToken(userID string) (bool, error) {
	return v.tokens.Exists(userID)
}

// GetAccessToken returns a valid bearer token for the Google Calendar API.
// Cached tokens are returned without any network call; otherwise the stored
// refresh token is exchanged, the result cached, and a rotated refresh token
// persisted when Google issues one.
func (v *Vault) GetAccessToken(ctx context.Context, userID string) (string, error) {
	cacheKey := fmt.Sprintf(accessTokenKeyFormat, userID)
	if token, ok := v.cache.Get(ctx, cacheKey); ok {
		return token, nil
	}

	refreshToken, err := v.GetRefreshToken(userID)
	if err != nil {
		return "", err
	}

	accessToken, newRefreshToken, err := v.exchangeRefreshToken(ctx, refreshToken)
	if err != nil {
		// Whatever was cached for this user is no longer trustworthy
		v.cache.Delete(ctx, cacheKey)
		return "", err
	}

	v.cache.Set(ctx, cacheKey, accessToken, accessTokenTTL)
	log.Infof("[GoogleAuth] Refreshed and cached access token for user %s", shortID(userID))

	// Google may rotate the refresh token on exchange; keep the vault in step
	if newRefreshToken != "" && newRefreshToken != refreshToken {
		log.Infof("[GoogleAuth] Google issued new refresh token for user %s, updating", shortID(userID))
		if err := v.StoreRefreshToken(userID, newRefreshToken); err != nil {
			return "", err
		}
	}

	return accessToken, nil
}

// EvictAccessToken drops the cached access token so the next call re-derives it
func (v *Vault) EvictAccessToken(ctx context.Context, userID string) {
	v.cache.Delete(ctx, fmt.Sprintf(accessTokenKeyFormat, userID))
}

// RevokeTokens removes the cached access token and the stored refresh token.
// Revoking a user who has no tokens is a no-op.
func (v *Vault) RevokeTokens(ctx context.Context, userID string) error {
	v.EvictAccessToken(ctx, userID)

	deleted, err := v.tokens.Delete(userID)
	if err != nil {
		return fmt.Errorf("failed to revoke tokens: %w", err)
	}
	if deleted {
		log.Infof("[GoogleAuth] Revoked tokens for user %s", shortID(userID))
	}
	return nil
}

type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	Error        string `json:"error"`
	ErrorDesc    string `json:"error_description"`
}

// exchangeRefreshToken trades the refresh token for a fresh access token.
// An invalid_grant response means the token was revoked; the stored ciphertext
// is deliberately left in place so a later re-auth simply overwrites it.
func (v *Vault) exchangeRefreshToken(ctx context.Context, refreshToken string) (string, string, error) {
	form := url.Values{
		"client_id":     {v.config.ClientID},
		"client_secret": {v.config.ClientSecret},
		"refresh_token": {refreshToken},
		"grant_type":    {"refresh_token"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.config.TokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: %v", ErrTokenRefreshExpired, err)
	}
	defer resp.Body.Close()

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", "", fmt.Errorf("%w: failed to decode token response: %v", ErrTokenRefreshExpired, err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := body.ErrorDesc
		if msg == "" {
			msg = body.Error
		}
		log.Errorf("[GoogleAuth] Token refresh failed: %s", msg)

		if body.Error == "invalid_grant" {
			return "", "", fmt.Errorf("%w: refresh token has been revoked", ErrNoRefreshToken)
		}
		return "", "", fmt.Errorf("%w: %s", ErrTokenRefreshExpired, msg)
	}

	return body.AccessToken, body.RefreshToken, nil
}

// shortID truncates a user ID for log lines
func shortID(userID string) string {
	if len(userID) > 8 {
		return userID[:8] + "..."
	}
	return userID
}
