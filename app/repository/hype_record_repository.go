package repository

import (
	"time"

	"github.com/dobosmarton/gaffer-app/app/models"
	"gorm.io/gorm"
)

// hypeRecordRepository implements the HypeRecordRepository interface
type hypeRecordRepository struct {
	db *gorm.DB
}

// NewHypeRecordRepository creates a new hype record repository instance
func NewHypeRecordRepository(db *gorm.DB) HypeRecordRepository {
	return &hypeRecordRepository{db: db}
}

// Create persists a new hype record (normally with pending status)
func (r *hypeRecordRepository) Create(record *models.HypeRecord) error {
	return r.db.Create(record).Error
}

// UpdateText stores the generated speech text and moves the record to text_ready
func (r *hypeRecordRepository) UpdateText(id, hypeText, audioText string) error {
	return r.db.Model(&models.HypeRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"hype_text":  hypeText,
			"audio_text": audioText,
			"status":     models.HYPE_STATUS_TEXT_READY,
		}).Error
}

// UpdateAudioURL stores the uploaded audio location and moves the record to audio_ready
func (r *hypeRecordRepository) UpdateAudioURL(id, audioURL string) error {
	return r.db.Model(&models.HypeRecord{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"audio_url": audioURL,
			"status":    models.HYPE_STATUS_AUDIO_READY,
		}).Error
}

// MarkError flags a record whose generation or upload failed
func (r *hypeRecordRepository) MarkError(id string) error {
	return r.db.Model(&models.HypeRecord{}).Where("id = ?", id).
		Update("status", models.HYPE_STATUS_ERROR).Error
}

// GetByID retrieves a hype record by its ID
func (r *hypeRecordRepository) GetByID(id string) (*models.HypeRecord, error) {
	var record models.HypeRecord
	err := r.db.Where("id = ?", id).First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// History returns a user's hype records newest first, optionally filtered by event
func (r *hypeRecordRepository) History(userID, googleEventID string, limit int) ([]models.HypeRecord, error) {
	var records []models.HypeRecord
	query := r.db.Where("user_id = ?", userID)
	if googleEventID != "" {
		query = query.Where("google_event_id = ?", googleEventID)
	}
	err := query.Order("created_at DESC").Limit(limit).Find(&records).Error
	return records, err
}

// LatestReadyByEventIDs returns the most recent presentable hype record per
// provider event ID. Records still pending or errored are not considered.
func (r *hypeRecordRepository) LatestReadyByEventIDs(userID string, googleEventIDs []string) (map[string]models.HypeRecord, error) {
	latest := make(map[string]models.HypeRecord)
	if len(googleEventIDs) == 0 {
		return latest, nil
	}

	var records []models.HypeRecord
	err := r.db.
		Where("user_id = ? AND google_event_id IN ? AND status IN ?", userID, googleEventIDs, models.ReadyHypeStatuses).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}

	// Ordered newest first, so the first record seen per event wins
	for _, record := range records {
		if _, ok := latest[record.GoogleEventID]; !ok {
			latest[record.GoogleEventID] = record
		}
	}
	return latest, nil
}

// CountSince counts speech generations created since the given instant,
// excluding failed ones. Used for monthly quota accounting.
func (r *hypeRecordRepository) CountSince(userID string, since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&models.HypeRecord{}).
		Where("user_id = ? AND created_at >= ? AND status <> ?", userID, since, models.HYPE_STATUS_ERROR).
		Count(&count).Error
	return count, err
}
