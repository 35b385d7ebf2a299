package repository

import (
	"errors"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
)

// upgradeInterestRepository implements the UpgradeInterestRepository interface
type upgradeInterestRepository struct {
	db *gorm.DB
}

// NewUpgradeInterestRepository creates a new upgrade interest repository instance
func NewUpgradeInterestRepository(db *gorm.DB) UpgradeInterestRepository {
	return &upgradeInterestRepository{db: db}
}

// Get returns the existing registration for a user, or nil if none
func (r *upgradeInterestRepository) Get(userID string) (*models.UpgradeInterest, error) {
	var interest models.UpgradeInterest
	err := r.db.Where("user_id = ?", userID).First(&interest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &interest, nil
}

// Register records upgrade interest once per user; repeated calls return the
// existing registration.
func (r *upgradeInterestRepository) Register(userID, email string) (*models.UpgradeInterest, error) {
	existing, err := r.Get(userID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	interest := models.UpgradeInterest{
		UserID: userID,
		Email:  email,
	}
	if err := interest.Validate(); err != nil {
		return nil, err
	}
	if err := r.db.Create(&interest).Error; err != nil {
		return nil, err
	}
	return &interest, nil
}
