package models

import "time"

// CalendarSyncState tracks the incremental sync cursor per user. The row is
// absent until the first successful sync; LastSync only advances when a sync
// pass completes without error.
type CalendarSyncState struct {
	UserID    string     `gorm:"primaryKey;type:varchar(36)" json:"user_id"`
	LastSync  *time.Time `gorm:"type:timestamp;default:null" json:"last_sync"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
