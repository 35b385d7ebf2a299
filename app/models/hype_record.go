package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	HYPE_STATUS_PENDING     = "pending"     // record created, text not yet generated
	HYPE_STATUS_TEXT_READY  = "text_ready"  // hype text generated
	HYPE_STATUS_AUDIO_READY = "audio_ready" // TTS audio uploaded
	HYPE_STATUS_ERROR       = "error"       // generation or upload failed
)

const (
	STYLE_FERGUSON  = "ferguson"
	STYLE_KLOPP     = "klopp"
	STYLE_GUARDIOLA = "guardiola"
	STYLE_MOURINHO  = "mourinho"
	STYLE_BIELSA    = "bielsa"
)

// ReadyHypeStatuses are the statuses considered presentable to the user.
var ReadyHypeStatuses = []string{HYPE_STATUS_TEXT_READY, HYPE_STATUS_AUDIO_READY}

// HypeRecord stores one generated hype speech (text and optionally audio)
// for a calendar event.
type HypeRecord struct {
	ID              string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID          string    `gorm:"index;index:idx_hype_records_user_created,priority:1;type:varchar(36)" json:"user_id"`
	CalendarEventID string    `gorm:"index;type:varchar(36);default:null" json:"calendar_event_id,omitempty"`
	GoogleEventID   string    `gorm:"index;type:varchar(191);default:null" json:"google_event_id,omitempty"`
	EventTitle      string    `gorm:"type:text" json:"event_title"`
	EventTime       time.Time `gorm:"type:timestamp" json:"event_time"`
	ManagerStyle    string    `gorm:"type:varchar(50);default:'ferguson'" json:"manager_style"`
	HypeText        string    `gorm:"type:text;default:null" json:"hype_text,omitempty"`
	AudioText       string    `gorm:"type:text;default:null" json:"-"`
	AudioURL        string    `gorm:"type:text;default:null" json:"audio_url,omitempty"`
	Status          string    `gorm:"type:varchar(50);default:'pending'" json:"status"`
	CreatedAt       time.Time `gorm:"autoCreateTime;index:idx_hype_records_user_created,priority:2" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (h *HypeRecord) BeforeCreate(tx *gorm.DB) error {
	if h.ID == "" {
		h.ID = uuid.NewString()
	}
	return nil
}

// IsValidManagerStyle reports whether the given style is one we have prompts for.
func IsValidManagerStyle(style string) bool {
	switch style {
	case STYLE_FERGUSON, STYLE_KLOPP, STYLE_GUARDIOLA, STYLE_MOURINHO, STYLE_BIELSA:
		return true
	}
	return false
}
