package usage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dobosmarton/gaffer-app/app/models"
)

type fakeSubscriptionRepo struct {
	plan string
}

func (f *fakeSubscriptionRepo) GetOrCreate(userID string) (*models.UserSubscription, error) {
	plan := f.plan
	if plan == "" {
		plan = models.PLAN_FREE
	}
	return &models.UserSubscription{
		UserID:       userID,
		PlanType:     plan,
		MonthlyLimit: models.FreeMonthlyLimit,
	}, nil
}

type fakeHypeCountRepo struct {
	count int64
	since time.Time
}

func (f *fakeHypeCountRepo) Create(*models.HypeRecord) error            { return nil }
func (f *fakeHypeCountRepo) UpdateText(string, string, string) error    { return nil }
func (f *fakeHypeCountRepo) UpdateAudioURL(string, string) error        { return nil }
func (f *fakeHypeCountRepo) MarkError(string) error                     { return nil }
func (f *fakeHypeCountRepo) GetByID(string) (*models.HypeRecord, error) { return nil, nil }
func (f *fakeHypeCountRepo) History(string, string, int) ([]models.HypeRecord, error) {
	return nil, nil
}
func (f *fakeHypeCountRepo) LatestReadyByEventIDs(string, []string) (map[string]models.HypeRecord, error) {
	return nil, nil
}
func (f *fakeHypeCountRepo) CountSince(userID string, since time.Time) (int64, error) {
	f.since = since
	return f.count, nil
}

func newTestService(plan string, used int64, now time.Time) (*Service, *fakeHypeCountRepo) {
	hypes := &fakeHypeCountRepo{count: used}
	service := NewService(&fakeSubscriptionRepo{plan: plan}, hypes)
	service.now = func() time.Time { return now }
	return service, hypes
}

func TestGetInfoFreePlan(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	service, hypes := newTestService(models.PLAN_FREE, 2, now)

	info, err := service.GetInfo("user-1")
	require.NoError(t, err)

	assert.Equal(t, models.PLAN_FREE, info.Plan)
	assert.Equal(t, int64(2), info.Used)
	require.NotNil(t, info.Limit)
	assert.Equal(t, int64(models.FreeMonthlyLimit), *info.Limit)
	require.NotNil(t, info.Remaining)
	assert.Equal(t, int64(3), *info.Remaining)
	require.NotNil(t, info.ResetsAt)
	assert.Equal(t, time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC), *info.ResetsAt)

	// Usage counted from the first of the current month
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), hypes.since)
}

func TestGetInfoProPlanHasNoLimit(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(models.PLAN_PRO, 100, now)

	info, err := service.GetInfo("user-1")
	require.NoError(t, err)

	assert.Equal(t, models.PLAN_PRO, info.Plan)
	assert.Nil(t, info.Limit)
	assert.Nil(t, info.Remaining)
	assert.Nil(t, info.ResetsAt)
}

func TestGetInfoRemainingNeverNegative(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	service, _ := newTestService(models.PLAN_FREE, int64(models.FreeMonthlyLimit)+3, now)

	info, err := service.GetInfo("user-1")
	require.NoError(t, err)
	require.NotNil(t, info.Remaining)
	assert.Equal(t, int64(0), *info.Remaining)
}

func TestCheckCanGenerate(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	service, _ := newTestService(models.PLAN_FREE, int64(models.FreeMonthlyLimit)-1, now)
	assert.NoError(t, service.CheckCanGenerate("user-1"))

	service, _ = newTestService(models.PLAN_FREE, int64(models.FreeMonthlyLimit), now)
	assert.ErrorIs(t, service.CheckCanGenerate("user-1"), ErrQuotaExceeded)

	service, _ = newTestService(models.PLAN_PRO, 1000, now)
	assert.NoError(t, service.CheckCanGenerate("user-1"))
}
