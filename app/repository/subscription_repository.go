package repository

import (
	"errors"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
)

// subscriptionRepository implements the SubscriptionRepository interface
type subscriptionRepository struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository instance
func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

// GetOrCreate returns the user's subscription, creating a free one on first use
func (r *subscriptionRepository) GetOrCreate(userID string) (*models.UserSubscription, error) {
	var subscription models.UserSubscription
	err := r.db.Where("user_id = ?", userID).First(&subscription).Error
	if err == nil {
		return &subscription, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	subscription = models.UserSubscription{
		UserID:       userID,
		PlanType:     models.PLAN_FREE,
		MonthlyLimit: models.FreeMonthlyLimit,
	}
	if err := r.db.Create(&subscription).Error; err != nil {
		return nil, err
	}
	return &subscription, nil
}
