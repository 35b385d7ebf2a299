package usage

import (
	"errors"
	"time"

	"github.com/dobosmarton/gaffer-app/app/models"
	"github.com/dobosmarton/gaffer-app/app/repository"
)

// ErrQuotaExceeded signals that the user's monthly generation allowance is
// used up.
var ErrQuotaExceeded = errors.New("monthly hype limit reached")

// Info is the usage summary returned to the frontend
type Info struct {
	Plan      string     `json:"plan"`
	Used      int64      `json:"used"`
	Limit     *int64     `json:"limit"`
	Remaining *int64     `json:"remaining"`
	ResetsAt  *time.Time `json:"resets_at"`
}

// Service tracks per-user generation quotas. Usage is counted from hype
// records rather than a separate counter, so retries and failures never
// drift out of sync with reality.
type Service struct {
	subscriptions repository.SubscriptionRepository
	hypes         repository.HypeRecordRepository
	now           func() time.Time
}

func NewService(subs repository.SubscriptionRepository, hypes repository.HypeRecordRepository) *Service {
	return &Service{
		subscriptions: subs,
		hypes:         hypes,
		now:           time.Now,
	}
}

// periodStart is the first instant of the current calendar month in UTC
func (s *Service) periodStart() time.Time {
	now := s.now().UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// GetInfo returns the user's plan and how much of the monthly allowance is
// left. Pro users have no limit; their Limit and Remaining are nil.
func (s *Service) GetInfo(userID string) (*Info, error) {
	sub, err := s.subscriptions.GetOrCreate(userID)
	if err != nil {
		return nil, err
	}

	start := s.periodStart()
	used, err := s.hypes.CountSince(userID, start)
	if err != nil {
		return nil, err
	}

	info := &Info{
		Plan: sub.PlanType,
		Used: used,
	}

	if sub.PlanType == models.PLAN_FREE {
		limit := int64(sub.MonthlyLimit)
		if limit <= 0 {
			limit = int64(models.FreeMonthlyLimit)
		}
		remaining := limit - used
		if remaining < 0 {
			remaining = 0
		}
		resetsAt := start.AddDate(0, 1, 0)
		info.Limit = &limit
		info.Remaining = &remaining
		info.ResetsAt = &resetsAt
	}

	return info, nil
}

// CheckCanGenerate returns ErrQuotaExceeded when a free user has exhausted
// this month's allowance.
func (s *Service) CheckCanGenerate(userID string) error {
	info, err := s.GetInfo(userID)
	if err != nil {
		return err
	}
	if info.Limit != nil && info.Used >= *info.Limit {
		return ErrQuotaExceeded
	}
	return nil
}
