package repository

import (
	"errors"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// googleTokenRepository implements the GoogleTokenRepository interface
type googleTokenRepository struct {
	db *gorm.DB
}

// NewGoogleTokenRepository creates a new Google token repository instance
func NewGoogleTokenRepository(db *gorm.DB) GoogleTokenRepository {
	return &googleTokenRepository{db: db}
}

// Upsert stores the encrypted refresh token, replacing any previous value
func (r *googleTokenRepository) Upsert(userID, encryptedToken string) error {
	token := models.GoogleToken{
		UserID:       userID,
		RefreshToken: encryptedToken,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"refresh_token", "updated_at"}),
	}).Create(&token).Error
}

// Get retrieves the stored token row for a user
func (r *googleTokenRepository) Get(userID string) (*models.GoogleToken, error) {
	var token models.GoogleToken
	err := r.db.Where("user_id = ?", userID).First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// Delete removes the stored token. Returns whether a row existed; deleting a
// missing row is not an error.
func (r *googleTokenRepository) Delete(userID string) (bool, error) {
	result := r.db.Where("user_id = ?", userID).Delete(&models.GoogleToken{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists reports whether the user has a stored refresh token
func (r *googleTokenRepository) Exists(userID string) (bool, error) {
	var token models.GoogleToken
	err := r.db.Select("user_id").Where("user_id = ?", userID).First(&token).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
