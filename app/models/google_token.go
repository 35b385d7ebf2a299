package models

import "time"

// GoogleToken stores a user's Google OAuth refresh token. RefreshToken holds
// the ciphertext produced by the token vault; plaintext is never persisted.
type GoogleToken struct {
	UserID       string    `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	RefreshToken string    `gorm:"type:text" json:"-"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
