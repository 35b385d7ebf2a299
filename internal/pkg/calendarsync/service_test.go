package calendarsync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobosmarton/gaffer-app/app/models"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googlecal"
)

type fakeFetcher struct {
	events       []googlecal.Event
	err          error
	updatedSince []*time.Time
}

func (f *fakeFetcher) FetchEvents(ctx context.Context, userID string, updatedSince *time.Time) ([]googlecal.Event, bool, error) {
	f.updatedSince = append(f.updatedSince, updatedSince)
	if f.err != nil {
		return nil, false, f.err
	}
	return f.events, false, nil
}

type fakeEventRepo struct {
	upserted  []models.CalendarEvent
	deleted   []string
	stored    []models.CalendarEvent
	upsertErr error
}

func (f *fakeEventRepo) Upsert(event *models.CalendarEvent) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.upserted = append(f.upserted, *event)
	return nil
}

func (f *fakeEventRepo) MarkDeleted(userID, googleEventID string, syncedAt time.Time) error {
	f.deleted = append(f.deleted, googleEventID)
	return nil
}

func (f *fakeEventRepo) FindInWindow(userID string, timeMin, timeMax time.Time, limit int) ([]models.CalendarEvent, error) {
	var result []models.CalendarEvent
	for _, event := range f.stored {
		if event.UserID == userID && !event.IsDeleted && event.EndTime.After(timeMin) && !event.StartTime.After(timeMax) {
			result = append(result, event)
		}
	}
	return result, nil
}

func (f *fakeEventRepo) GetByGoogleEventID(userID, googleEventID string) (*models.CalendarEvent, error) {
	return nil, nil
}

func (f *fakeEventRepo) DeleteAllForUser(userID string) error { return nil }

type fakeSyncStateRepo struct {
	state   *models.CalendarSyncState
	upserts int
}

func (f *fakeSyncStateRepo) Get(userID string) (*models.CalendarSyncState, error) {
	return f.state, nil
}

func (f *fakeSyncStateRepo) Upsert(userID string, lastSync time.Time) error {
	f.upserts++
	f.state = &models.CalendarSyncState{UserID: userID, LastSync: &lastSync}
	return nil
}

func (f *fakeSyncStateRepo) Delete(userID string) error {
	f.state = nil
	return nil
}

type fakeHypeRepo struct {
	latest map[string]models.HypeRecord
}

func (f *fakeHypeRepo) Create(*models.HypeRecord) error              { return nil }
func (f *fakeHypeRepo) UpdateText(string, string, string) error      { return nil }
func (f *fakeHypeRepo) UpdateAudioURL(string, string) error          { return nil }
func (f *fakeHypeRepo) MarkError(string) error                       { return nil }
func (f *fakeHypeRepo) GetByID(string) (*models.HypeRecord, error)   { return nil, nil }
func (f *fakeHypeRepo) History(string, string, int) ([]models.HypeRecord, error) {
	return nil, nil
}
func (f *fakeHypeRepo) LatestReadyByEventIDs(userID string, googleEventIDs []string) (map[string]models.HypeRecord, error) {
	if f.latest == nil {
		return map[string]models.HypeRecord{}, nil
	}
	return f.latest, nil
}
func (f *fakeHypeRepo) CountSince(string, time.Time) (int64, error) { return 0, nil }

func timedEvent(id, title string, start time.Time) googlecal.Event {
	return googlecal.Event{
		ID:      id,
		Summary: title,
		Status:  "confirmed",
		Start:   googlecal.EventDateTime{DateTime: start.Format(time.RFC3339)},
		End:     googlecal.EventDateTime{DateTime: start.Add(time.Hour).Format(time.RFC3339)},
	}
}

func TestSyncFirstRunIsFull(t *testing.T) {
	fetcher := &fakeFetcher{events: []googlecal.Event{
		timedEvent("evt-1", "Standup", time.Now().Add(time.Hour)),
		timedEvent("evt-2", "Planning", time.Now().Add(2*time.Hour)),
	}}
	events := &fakeEventRepo{}
	state := &fakeSyncStateRepo{}
	service := NewService(fetcher, events, state, &fakeHypeRepo{})

	result, err := service.Sync(context.Background(), "user-1", false)
	require.NoError(t, err)

	assert.True(t, result.IsFullSync)
	assert.Equal(t, 2, result.EventsAdded)
	assert.Equal(t, 0, result.EventsUpdated)
	require.Len(t, fetcher.updatedSince, 1)
	assert.Nil(t, fetcher.updatedSince[0])
	assert.Equal(t, 1, state.upserts)
}

func TestSyncIncrementalUsesCursor(t *testing.T) {
	lastSync := time.Now().Add(-time.Hour).UTC()
	fetcher := &fakeFetcher{events: []googlecal.Event{
		timedEvent("evt-1", "Standup", time.Now().Add(time.Hour)),
	}}
	state := &fakeSyncStateRepo{state: &models.CalendarSyncState{UserID: "user-1", LastSync: &lastSync}}
	service := NewService(fetcher, &fakeEventRepo{}, state, &fakeHypeRepo{})

	result, err := service.Sync(context.Background(), "user-1", false)
	require.NoError(t, err)

	assert.False(t, result.IsFullSync)
	assert.Equal(t, 0, result.EventsAdded)
	assert.Equal(t, 1, result.EventsUpdated)
	require.Len(t, fetcher.updatedSince, 1)
	require.NotNil(t, fetcher.updatedSince[0])
	assert.Equal(t, lastSync, *fetcher.updatedSince[0])
}

func TestSyncForceFullIgnoresCursor(t *testing.T) {
	lastSync := time.Now().Add(-time.Hour).UTC()
	fetcher := &fakeFetcher{}
	state := &fakeSyncStateRepo{state: &models.CalendarSyncState{UserID: "user-1", LastSync: &lastSync}}
	service := NewService(fetcher, &fakeEventRepo{}, state, &fakeHypeRepo{})

	result, err := service.Sync(context.Background(), "user-1", true)
	require.NoError(t, err)

	assert.True(t, result.IsFullSync)
	require.Len(t, fetcher.updatedSince, 1)
	assert.Nil(t, fetcher.updatedSince[0])
}

func TestSyncCancelledEventsSoftDeleted(t *testing.T) {
	fetcher := &fakeFetcher{events: []googlecal.Event{
		{ID: "evt-gone", Status: "cancelled"},
		timedEvent("evt-kept", "Standup", time.Now().Add(time.Hour)),
	}}
	events := &fakeEventRepo{}
	service := NewService(fetcher, events, &fakeSyncStateRepo{}, &fakeHypeRepo{})

	result, err := service.Sync(context.Background(), "user-1", false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EventsDeleted)
	assert.Equal(t, []string{"evt-gone"}, events.deleted)
	require.Len(t, events.upserted, 1)
	assert.Equal(t, "evt-kept", events.upserted[0].GoogleEventID)
}

func TestSyncSkipsAllDayAndMalformedEvents(t *testing.T) {
	fetcher := &fakeFetcher{events: []googlecal.Event{
		{ID: "all-day", Summary: "Holiday", Start: googlecal.EventDateTime{Date: "2025-06-01"}},
		{ID: "bad-time", Summary: "Broken", Start: googlecal.EventDateTime{DateTime: "not-a-time"}},
		{ID: "", Summary: "No ID"},
		timedEvent("evt-ok", "Standup", time.Now().Add(time.Hour)),
	}}
	events := &fakeEventRepo{}
	service := NewService(fetcher, events, &fakeSyncStateRepo{}, &fakeHypeRepo{})

	result, err := service.Sync(context.Background(), "user-1", false)
	require.NoError(t, err)

	assert.Equal(t, 1, result.EventsAdded)
	require.Len(t, events.upserted, 1)
	assert.Equal(t, "evt-ok", events.upserted[0].GoogleEventID)
}

func TestSyncDefaultsUntitledEvents(t *testing.T) {
	event := timedEvent("evt-1", "", time.Now().Add(time.Hour))
	fetcher := &fakeFetcher{events: []googlecal.Event{event}}
	events := &fakeEventRepo{}
	service := NewService(fetcher, events, &fakeSyncStateRepo{}, &fakeHypeRepo{})

	_, err := service.Sync(context.Background(), "user-1", false)
	require.NoError(t, err)

	require.Len(t, events.upserted, 1)
	assert.Equal(t, "Untitled Event", events.upserted[0].Title)
}

func TestSyncFetchFailureKeepsCursor(t *testing.T) {
	fetcher := &fakeFetcher{err: googlecal.ErrRateLimited}
	state := &fakeSyncStateRepo{}
	service := NewService(fetcher, &fakeEventRepo{}, state, &fakeHypeRepo{})

	_, err := service.Sync(context.Background(), "user-1", false)
	assert.ErrorIs(t, err, googlecal.ErrRateLimited)
	assert.Equal(t, 0, state.upserts)
}

func TestSyncStorageFailureKeepsCursor(t *testing.T) {
	fetcher := &fakeFetcher{events: []googlecal.Event{
		timedEvent("evt-1", "Standup", time.Now().Add(time.Hour)),
	}}
	events := &fakeEventRepo{upsertErr: errors.New("disk full")}
	state := &fakeSyncStateRepo{}
	service := NewService(fetcher, events, state, &fakeHypeRepo{})

	_, err := service.Sync(context.Background(), "user-1", false)
	assert.Error(t, err)
	assert.Equal(t, 0, state.upserts)
}

func TestHasSynced(t *testing.T) {
	state := &fakeSyncStateRepo{}
	service := NewService(&fakeFetcher{}, &fakeEventRepo{}, state, &fakeHypeRepo{})

	synced, err := service.HasSynced("user-1")
	require.NoError(t, err)
	assert.False(t, synced)

	_, err = service.Sync(context.Background(), "user-1", false)
	require.NoError(t, err)

	synced, err = service.HasSynced("user-1")
	require.NoError(t, err)
	assert.True(t, synced)
}

func TestShouldSync(t *testing.T) {
	state := &fakeSyncStateRepo{}
	service := NewService(&fakeFetcher{}, &fakeEventRepo{}, state, &fakeHypeRepo{})

	// Never synced
	should, err := service.ShouldSync("user-1")
	require.NoError(t, err)
	assert.True(t, should)

	// Just synced
	recent := time.Now().UTC()
	state.state = &models.CalendarSyncState{UserID: "user-1", LastSync: &recent}
	should, err = service.ShouldSync("user-1")
	require.NoError(t, err)
	assert.False(t, should)

	// Synced longer ago than the minimum interval
	old := time.Now().Add(-MinSyncInterval - time.Minute).UTC()
	state.state = &models.CalendarSyncState{UserID: "user-1", LastSync: &old}
	should, err = service.ShouldSync("user-1")
	require.NoError(t, err)
	assert.True(t, should)
}

func TestGetCachedEventsJoinsLatestHype(t *testing.T) {
	now := time.Now().UTC()
	events := &fakeEventRepo{stored: []models.CalendarEvent{
		{UserID: "user-1", GoogleEventID: "evt-1", Title: "Standup", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour)},
		{UserID: "user-1", GoogleEventID: "evt-2", Title: "Planning", StartTime: now.Add(3 * time.Hour), EndTime: now.Add(4 * time.Hour)},
	}}
	hypes := &fakeHypeRepo{latest: map[string]models.HypeRecord{
		"evt-1": {GoogleEventID: "evt-1", HypeText: "Go get them!", ManagerStyle: models.STYLE_FERGUSON, Status: models.HYPE_STATUS_TEXT_READY},
	}}
	service := NewService(&fakeFetcher{}, events, &fakeSyncStateRepo{}, hypes)

	cached, err := service.GetCachedEvents("user-1", nil, nil, 0)
	require.NoError(t, err)
	require.Len(t, cached, 2)

	require.NotNil(t, cached[0].LatestHype)
	assert.Equal(t, "Go get them!", cached[0].LatestHype.HypeText)
	assert.Nil(t, cached[1].LatestHype)
}

func TestGetCachedEventsExcludesDeletedAndOutOfWindow(t *testing.T) {
	now := time.Now().UTC()
	events := &fakeEventRepo{stored: []models.CalendarEvent{
		{UserID: "user-1", GoogleEventID: "running", StartTime: now.Add(-time.Hour), EndTime: now.Add(time.Hour)},
		{UserID: "user-1", GoogleEventID: "deleted", StartTime: now.Add(time.Hour), EndTime: now.Add(2 * time.Hour), IsDeleted: true},
		{UserID: "user-1", GoogleEventID: "far-future", StartTime: now.Add(48 * time.Hour), EndTime: now.Add(49 * time.Hour)},
	}}
	service := NewService(&fakeFetcher{}, events, &fakeSyncStateRepo{}, &fakeHypeRepo{})

	cached, err := service.GetCachedEvents("user-1", nil, nil, 0)
	require.NoError(t, err)

	// Default window is the next 24 hours; in-progress events count, deleted
	// and far-future ones do not
	require.Len(t, cached, 1)
	assert.Equal(t, "running", cached[0].GoogleEventID)
}
