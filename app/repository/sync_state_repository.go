package repository

import (
	"errors"
	"time"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// syncStateRepository implements the SyncStateRepository interface
type syncStateRepository struct {
	db *gorm.DB
}

// NewSyncStateRepository creates a new sync state repository instance
func NewSyncStateRepository(db *gorm.DB) SyncStateRepository {
	return &syncStateRepository{db: db}
}

// Get returns the sync state for a user, or nil when the user never synced
func (r *syncStateRepository) Get(userID string) (*models.CalendarSyncState, error) {
	var state models.CalendarSyncState
	err := r.db.Where("user_id = ?", userID).First(&state).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &state, nil
}

// Upsert advances the sync cursor. Called only after a sync pass has been
// reconciled completely; failed passes leave the previous cursor in place.
func (r *syncStateRepository) Upsert(userID string, lastSync time.Time) error {
	state := models.CalendarSyncState{
		UserID:   userID,
		LastSync: &lastSync,
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_sync", "updated_at"}),
	}).Create(&state).Error
}

// Delete resets the cursor so the next sync is a full one. Used when the user
// disconnects their calendar.
func (r *syncStateRepository) Delete(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CalendarSyncState{}).Error
}
