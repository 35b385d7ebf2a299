package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UpgradeInterest records that a user asked to be notified about paid plans.
type UpgradeInterest struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"uniqueIndex;type:varchar(36)" json:"user_id" validate:"required"`
	Email     string    `gorm:"type:varchar(200)" json:"email" validate:"required,email"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (u *UpgradeInterest) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u *UpgradeInterest) Validate() error {
	v := validator.New()

	return v.Struct(u)
}
