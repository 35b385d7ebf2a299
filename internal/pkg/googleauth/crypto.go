package googleauth

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// tokenCipher encrypts refresh tokens at rest with AES-256-GCM. Every call to
// Encrypt draws a fresh random nonce, so the same plaintext never produces
// the same ciphertext twice.
type tokenCipher struct {
	aead cipher.AEAD
}

// newTokenCipher derives a 32-byte AES key from the configured secret via
// HKDF-SHA256. The secret must stay stable across restarts or every stored
// credential becomes undecryptable.
func newTokenCipher(secret string) (*tokenCipher, error) {
	if secret == "" {
		return nil, fmt.Errorf("token encryption key is not set")
	}

	key := make([]byte, 32)
	kdf := hkdf.New(sha256.New, []byte(secret), nil, []byte("gaffer-token-vault"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("failed to derive encryption key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &tokenCipher{aead: aead}, nil
}

// Encrypt returns base64(nonce||ciphertext) for the given token
func (c *tokenCipher) Encrypt(token string) (string, error) {
	nonce := make([]byte, c.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := c.aead.Seal(nonce, nonce, []byte(token), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decrypt reverses Encrypt. Any failure is reported as ErrDecryptionFailed
// because the most likely cause is an encryption key mismatch.
func (c *tokenCipher) Decrypt(encrypted string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encrypted)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	if len(raw) < c.aead.NonceSize() {
		return "", fmt.Errorf("%w: ciphertext too short", ErrDecryptionFailed)
	}
	nonce, sealed := raw[:c.aead.NonceSize()], raw[c.aead.NonceSize():]
	plaintext, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDecryptionFailed, err)
	}
	return string(plaintext), nil
}
