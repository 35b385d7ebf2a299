package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CalendarEvent is the local replica of one Google Calendar event. Rows are
// written exclusively by the sync service; (UserID, GoogleEventID) is the
// natural key used for upserts.
type CalendarEvent struct {
	ID             string     `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID         string     `gorm:"index:unique_user_google_event,unique;index:idx_calendar_events_user_start,priority:1;type:varchar(36)" json:"user_id"`
	GoogleEventID  string     `gorm:"index:unique_user_google_event,unique;index;type:varchar(191)" json:"google_event_id"`
	Title          string     `gorm:"type:text" json:"title"`
	Description    string     `gorm:"type:text;default:null" json:"description,omitempty"`
	StartTime      time.Time  `gorm:"index:idx_calendar_events_user_start,priority:2;type:timestamp" json:"start_time"`
	EndTime        time.Time  `gorm:"type:timestamp" json:"end_time"`
	Location       string     `gorm:"type:text;default:null" json:"location,omitempty"`
	AttendeesCount *int       `gorm:"default:null" json:"attendees_count,omitempty"`
	Etag           string     `gorm:"type:varchar(191);default:null" json:"etag,omitempty"`
	SyncedAt       time.Time  `gorm:"type:timestamp" json:"synced_at"`
	IsDeleted      bool       `gorm:"default:false" json:"is_deleted"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *CalendarEvent) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}
