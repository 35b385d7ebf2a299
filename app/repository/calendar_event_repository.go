package repository

import (
	"time"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// calendarEventRepository implements the CalendarEventRepository interface
type calendarEventRepository struct {
	db *gorm.DB
}

// NewCalendarEventRepository creates a new calendar event repository instance
func NewCalendarEventRepository(db *gorm.DB) CalendarEventRepository {
	return &calendarEventRepository{db: db}
}

// Upsert inserts the event or overwrites the existing row sharing the same
// (user_id, google_event_id). Fields are replaced wholesale; there is no
// field-level merge. Safe to apply the same event repeatedly.
func (r *calendarEventRepository) Upsert(event *models.CalendarEvent) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "google_event_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "description", "start_time", "end_time", "location",
			"attendees_count", "etag", "synced_at", "is_deleted", "updated_at",
		}),
	}).Create(event).Error
}

// MarkDeleted sets the soft-delete flag on a cached event. The row is kept
// for history; it just disappears from window queries.
func (r *calendarEventRepository) MarkDeleted(userID, googleEventID string, syncedAt time.Time) error {
	return r.db.Model(&models.CalendarEvent{}).
		Where("user_id = ? AND google_event_id = ?", userID, googleEventID).
		Updates(map[string]interface{}{"is_deleted": true, "synced_at": syncedAt}).Error
}

// FindInWindow returns non-deleted events that overlap the window: events
// still running at timeMin are included, events starting after timeMax are not.
func (r *calendarEventRepository) FindInWindow(userID string, timeMin, timeMax time.Time, limit int) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := r.db.
		Where("user_id = ? AND is_deleted = ? AND end_time > ? AND start_time <= ?", userID, false, timeMin, timeMax).
		Order("start_time ASC").
		Limit(limit).
		Find(&events).Error
	return events, err
}

// GetByGoogleEventID retrieves a single cached event by its provider ID
func (r *calendarEventRepository) GetByGoogleEventID(userID, googleEventID string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	err := r.db.Where("user_id = ? AND google_event_id = ? AND is_deleted = ?", userID, googleEventID, false).
		First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

// DeleteAllForUser hard-deletes all cached events for a user. Only used on
// account deletion; normal sync never removes rows.
func (r *calendarEventRepository) DeleteAllForUser(userID string) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.CalendarEvent{}).Error
}
