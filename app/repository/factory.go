package repository

import (
	"sync"

	"gorm.io/gorm"
)

// Factory manages repository instances and ensures they are singletons
type Factory struct {
	db    *gorm.DB
	repos *Repositories
	once  sync.Once
}

// NewFactory creates a new repository factory
func NewFactory(db *gorm.DB) *Factory {
	return &Factory{
		db: db,
	}
}

// GetRepositories returns a singleton instance of all repositories
func (f *Factory) GetRepositories() *Repositories {
	f.once.Do(func() {
		f.repos = NewRepositories(f.db)
	})
	return f.repos
}

// GetCalendarEventRepository returns the calendar event repository instance
func (f *Factory) GetCalendarEventRepository() CalendarEventRepository {
	return f.GetRepositories().CalendarEvent
}

// GetSyncStateRepository returns the sync state repository instance
func (f *Factory) GetSyncStateRepository() SyncStateRepository {
	return f.GetRepositories().SyncState
}

// GetGoogleTokenRepository returns the Google token repository instance
func (f *Factory) GetGoogleTokenRepository() GoogleTokenRepository {
	return f.GetRepositories().GoogleToken
}

// GetHypeRecordRepository returns the hype record repository instance
func (f *Factory) GetHypeRecordRepository() HypeRecordRepository {
	return f.GetRepositories().HypeRecord
}

// GetSubscriptionRepository returns the subscription repository instance
func (f *Factory) GetSubscriptionRepository() SubscriptionRepository {
	return f.GetRepositories().Subscription
}

// GetUpgradeInterestRepository returns the upgrade interest repository instance
func (f *Factory) GetUpgradeInterestRepository() UpgradeInterestRepository {
	return f.GetRepositories().UpgradeInterest
}
