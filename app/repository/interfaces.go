package repository

import (
	"time"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
)

// CalendarEventRepository defines the interface for cached calendar event operations
type CalendarEventRepository interface {
	Upsert(event *models.CalendarEvent) error
	MarkDeleted(userID, googleEventID string, syncedAt time.Time) error
	FindInWindow(userID string, timeMin, timeMax time.Time, limit int) ([]models.CalendarEvent, error)
	GetByGoogleEventID(userID, googleEventID string) (*models.CalendarEvent, error)
	DeleteAllForUser(userID string) error
}

// SyncStateRepository defines the interface for per-user sync cursor bookkeeping
type SyncStateRepository interface {
	Get(userID string) (*models.CalendarSyncState, error)
	Upsert(userID string, lastSync time.Time) error
	Delete(userID string) error
}

// GoogleTokenRepository defines the interface for encrypted refresh token storage
type GoogleTokenRepository interface {
	Upsert(userID, encryptedToken string) error
	Get(userID string) (*models.GoogleToken, error)
	Delete(userID string) (bool, error)
	Exists(userID string) (bool, error)
}

// HypeRecordRepository defines the interface for hype record persistence
type HypeRecordRepository interface {
	Create(record *models.HypeRecord) error
	UpdateText(id, hypeText, audioText string) error
	UpdateAudioURL(id, audioURL string) error
	MarkError(id string) error
	GetByID(id string) (*models.HypeRecord, error)
	History(userID, googleEventID string, limit int) ([]models.HypeRecord, error)
	LatestReadyByEventIDs(userID string, googleEventIDs []string) (map[string]models.HypeRecord, error)
	CountSince(userID string, since time.Time) (int64, error)
}

// SubscriptionRepository defines the interface for user plan lookups
type SubscriptionRepository interface {
	GetOrCreate(userID string) (*models.UserSubscription, error)
}

// UpgradeInterestRepository defines the interface for upgrade interest registrations
type UpgradeInterestRepository interface {
	Get(userID string) (*models.UpgradeInterest, error)
	Register(userID, email string) (*models.UpgradeInterest, error)
}

// Repositories bundles all repository implementations
type Repositories struct {
	CalendarEvent   CalendarEventRepository
	SyncState       SyncStateRepository
	GoogleToken     GoogleTokenRepository
	HypeRecord      HypeRecordRepository
	Subscription    SubscriptionRepository
	UpgradeInterest UpgradeInterestRepository
}

// NewRepositories creates all repositories backed by the given database handle
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		CalendarEvent:   NewCalendarEventRepository(db),
		SyncState:       NewSyncStateRepository(db),
		GoogleToken:     NewGoogleTokenRepository(db),
		HypeRecord:      NewHypeRecordRepository(db),
		Subscription:    NewSubscriptionRepository(db),
		UpgradeInterest: NewUpgradeInterestRepository(db),
	}
}
