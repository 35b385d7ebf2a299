package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PLAN_FREE = "free"
	PLAN_PRO  = "pro"
)

// FreeMonthlyLimit is the number of speeches a free plan allows per month.
const FreeMonthlyLimit = 5

// UserSubscription stores plan information used for usage limits. The Stripe
// columns are reserved for a later billing integration; nothing writes them yet.
type UserSubscription struct {
	ID                   string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID               string    `gorm:"uniqueIndex;type:varchar(36)" json:"user_id"`
	PlanType             string    `gorm:"type:varchar(50);default:'free'" json:"plan_type"`
	MonthlyLimit         int       `gorm:"default:5" json:"monthly_limit"`
	StripeCustomerID     string    `gorm:"index;type:varchar(191);default:null" json:"-"`
	StripeSubscriptionID string    `gorm:"type:varchar(191);default:null" json:"-"`
	StripeStatus         string    `gorm:"type:varchar(50);default:null" json:"-"`
	CreatedAt            time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (s *UserSubscription) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
