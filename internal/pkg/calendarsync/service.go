package calendarsync

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/dobosmarton/gaffer-app/app/models"
	"github.com/dobosmarton/gaffer-app/app/repository"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googlecal"
)

// MinSyncInterval is the advisory minimum spacing between background syncs
// for one user. Forced syncs bypass it.
const MinSyncInterval = 5 * time.Minute

const defaultMaxResults = 50

// EventFetcher is the slice of the calendar client the reconciler needs
type EventFetcher interface {
	FetchEvents(ctx context.Context, userID string, updatedSince *time.Time) ([]googlecal.Event, bool, error)
}

// SyncResult reports what one sync pass did
type SyncResult struct {
	EventsAdded   int  `json:"events_added"`
	EventsUpdated int  `json:"events_updated"`
	EventsDeleted int  `json:"events_deleted"`
	IsFullSync    bool `json:"is_full_sync"`
}

// LatestHype is the newest presentable hype content for an event
type LatestHype struct {
	HypeText     string `json:"hype_text,omitempty"`
	AudioURL     string `json:"audio_url,omitempty"`
	ManagerStyle string `json:"manager_style"`
}

// CachedEvent is a cached calendar event joined with its latest hype, if any
type CachedEvent struct {
	models.CalendarEvent
	LatestHype *LatestHype `json:"latest_hype,omitempty"`
}

// Service reconciles Google Calendar events into the local cache and serves
// cached reads. The per-user sync cursor lives in CalendarSyncState and only
// advances when a whole pass succeeds, so a failed pass is retried from the
// same cursor.
type Service struct {
	fetcher   EventFetcher
	events    repository.CalendarEventRepository
	syncState repository.SyncStateRepository
	hypes     repository.HypeRecordRepository
}

// NewService creates a calendar sync service
func NewService(
	fetcher EventFetcher,
	events repository.CalendarEventRepository,
	syncState repository.SyncStateRepository,
	hypes repository.HypeRecordRepository,
) *Service {
	return &Service{
		fetcher:   fetcher,
		events:    events,
		syncState: syncState,
		hypes:     hypes,
	}
}

// HasSynced reports whether the user has ever completed a sync. Used by the
// read path to trigger the one-time first-run sync.
func (s *Service) HasSynced(userID string) (bool, error) {
	state, err := s.syncState.Get(userID)
	if err != nil {
		return false, err
	}
	return state != nil, nil
}

// ShouldSync reports whether enough time has passed since the last sync.
// Advisory only; Sync itself never refuses to run.
func (s *Service) ShouldSync(userID string) (bool, error) {
	state, err := s.syncState.Get(userID)
	if err != nil {
		return false, err
	}
	if state == nil || state.LastSync == nil {
		return true, nil
	}
	return time.Since(*state.LastSync) > MinSyncInterval, nil
}

// Sync fetches events from Google and reconciles them into the local cache.
// First-time users and forceFull get a full fetch of the bounded window;
// otherwise the fetch narrows to items updated since the last cursor.
func (s *Service) Sync(ctx context.Context, userID string, forceFull bool) (*SyncResult, error) {
	state, err := s.syncState.Get(userID)
	if err != nil {
		return nil, err
	}

	var updatedSince *time.Time
	if !forceFull && state != nil && state.LastSync != nil {
		updatedSince = state.LastSync
	}

	if updatedSince != nil {
		log.Infof("[CalendarSync] Starting incremental sync for user %s (since %s)", shortID(userID), updatedSince.Format(time.RFC3339))
	} else {
		log.Infof("[CalendarSync] Starting full sync for user %s", shortID(userID))
	}

	events, _, err := s.fetcher.FetchEvents(ctx, userID, updatedSince)
	if err != nil {
		// Cursor stays put; the next attempt covers at least the same range
		return nil, err
	}

	result, err := s.reconcile(userID, events, updatedSince != nil)
	if err != nil {
		return nil, err
	}

	if err := s.syncState.Upsert(userID, time.Now().UTC()); err != nil {
		return nil, err
	}

	log.Infof("[CalendarSync] Sync complete for user %s: added=%d, updated=%d, deleted=%d",
		shortID(userID), result.EventsAdded, result.EventsUpdated, result.EventsDeleted)
	return result, nil
}

// reconcile merges fetched items into the cache table. A malformed item is
// logged and skipped; it must not abort the batch. Storage errors do abort,
// leaving the cursor unadvanced.
func (s *Service) reconcile(userID string, events []googlecal.Event, incremental bool) (*SyncResult, error) {
	result := &SyncResult{IsFullSync: !incremental}
	now := time.Now().UTC()

	for _, event := range events {
		if event.ID == "" {
			continue
		}

		if event.IsCancelled() {
			if err := s.events.MarkDeleted(userID, event.ID, now); err != nil {
				return nil, err
			}
			result.EventsDeleted++
			continue
		}

		// All-day events have no start time to hype towards
		if event.IsAllDay() {
			continue
		}

		startTime, err := time.Parse(time.RFC3339, event.Start.DateTime)
		if err != nil {
			log.Warnf("[CalendarSync] Failed to parse event %s: %v", event.ID, err)
			continue
		}
		endTime, err := time.Parse(time.RFC3339, event.End.DateTime)
		if err != nil {
			log.Warnf("[CalendarSync] Failed to parse event %s: %v", event.ID, err)
			continue
		}

		title := event.Summary
		if title == "" {
			title = "Untitled Event"
		}

		var attendeesCount *int
		if len(event.Attendees) > 0 {
			count := len(event.Attendees)
			attendeesCount = &count
		}

		cached := models.CalendarEvent{
			UserID:         userID,
			GoogleEventID:  event.ID,
			Title:          title,
			Description:    event.Description,
			StartTime:      startTime,
			EndTime:        endTime,
			Location:       event.Location,
			AttendeesCount: attendeesCount,
			Etag:           event.Etag,
			SyncedAt:       now,
			IsDeleted:      false,
		}
		if err := s.events.Upsert(&cached); err != nil {
			return nil, err
		}

		// Insert-vs-update is inferred from the sync mode, not from a
		// pre-existing-row check
		if incremental {
			result.EventsUpdated++
		} else {
			result.EventsAdded++
		}
	}

	return result, nil
}

// GetCachedEvents returns non-deleted cached events overlapping the window,
// each joined with its latest presentable hype record. The default window is
// the next 24 hours; events already in progress are included.
func (s *Service) GetCachedEvents(userID string, timeMin, timeMax *time.Time, maxResults int) ([]CachedEvent, error) {
	min := time.Now().UTC()
	if timeMin != nil {
		min = *timeMin
	}
	max := min.Add(24 * time.Hour)
	if timeMax != nil {
		max = *timeMax
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	events, err := s.events.FindInWindow(userID, min, max, maxResults)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return []CachedEvent{}, nil
	}

	googleEventIDs := make([]string, 0, len(events))
	for _, event := range events {
		googleEventIDs = append(googleEventIDs, event.GoogleEventID)
	}

	latestHypes, err := s.hypes.LatestReadyByEventIDs(userID, googleEventIDs)
	if err != nil {
		return nil, err
	}

	cached := make([]CachedEvent, 0, len(events))
	for _, event := range events {
		item := CachedEvent{CalendarEvent: event}
		if hype, ok := latestHypes[event.GoogleEventID]; ok {
			item.LatestHype = &LatestHype{
				HypeText:     hype.HypeText,
				AudioURL:     hype.AudioURL,
				ManagerStyle: hype.ManagerStyle,
			}
		}
		cached = append(cached, item)
	}
	return cached, nil
}

func shortID(userID string) string {
	if len(userID) > 8 {
		return userID[:8] + "..."
	}
	return userID
}
