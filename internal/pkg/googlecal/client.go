package googlecal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googleauth"
)

const (
	// Time boundaries applied to every fetch. This is a cost/storage policy,
	// not a Google limitation.
	lookbackWindow  = 30 * 24 * time.Hour
	lookaheadWindow = 90 * 24 * time.Hour

	pageSize = 250

	defaultBaseURL = "https://www.googleapis.com/calendar/v3"
)

// EventDateTime is one side of an event's time span. All-day events carry
// only Date; timed events carry DateTime.
type EventDateTime struct {
	DateTime string `json:"dateTime"`
	Date     string `json:"date"`
}

// Attendee is a single invitee on an event
type Attendee struct {
	Email          string `json:"email"`
	ResponseStatus string `json:"responseStatus"`
}

// Event is a raw item from the Google Calendar events API
type Event struct {
	ID          string        `json:"id"`
	Etag        string        `json:"etag"`
	Status      string        `json:"status"`
	Summary     string        `json:"summary"`
	Description string        `json:"description"`
	Location    string        `json:"location"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
	Attendees   []Attendee    `json:"attendees"`
}

// IsCancelled reports whether Google marked the event as deleted
func (e Event) IsCancelled() bool {
	return e.Status == "cancelled"
}

// IsAllDay reports whether the event has no concrete start time
func (e Event) IsAllDay() bool {
	return e.Start.DateTime == ""
}

type eventsPage struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// TokenProvider supplies bearer tokens for the calendar API and lets the
// client drop a token the API has rejected.
type TokenProvider interface {
	GetAccessToken(ctx context.Context, userID string) (string, error)
	EvictAccessToken(ctx context.Context, userID string)
}

// Client fetches calendar events for a user with pagination and a bounded
// time window.
type Client struct {
	tokens     TokenProvider
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a calendar API client. The base URL is configurable for
// tests via GOOGLE_CALENDAR_API_URL.
func NewClient(tokens TokenProvider) *Client {
	return &Client{
		tokens:     tokens,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    env.GetEnv("GOOGLE_CALENDAR_API_URL", defaultBaseURL),
	}
}

// FetchEvents reads all single-occurrence events in [now-30d, now+90d] from
// the user's primary calendar. With updatedSince set the query narrows to
// items changed since that instant and additionally requests cancelled events
// so the caller can reconcile deletions. Returns the events and whether any
// of them are cancellations.
func (c *Client) FetchEvents(ctx context.Context, userID string, updatedSince *time.Time) ([]Event, bool, error) {
	now := time.Now().UTC()
	timeMin := now.Add(-lookbackWindow)
	timeMax := now.Add(lookaheadWindow)

	var allEvents []Event
	pageToken := ""

	for {
		// Each page request carries a fresh bearer token; the vault serves it
		// from cache unless it expired mid-pagination.
		accessToken, err := c.tokens.GetAccessToken(ctx, userID)
		if err != nil {
			return nil, false, err
		}

		params := url.Values{
			"singleEvents": {"true"},
			"orderBy":      {"startTime"},
			"maxResults":   {strconv.Itoa(pageSize)},
			"timeMin":      {timeMin.Format(time.RFC3339)},
			"timeMax":      {timeMax.Format(time.RFC3339)},
		}
		if updatedSince != nil {
			params.Set("updatedMin", updatedSince.UTC().Format(time.RFC3339))
			// Incremental sync needs tombstones to mark local deletions
			params.Set("showDeleted", "true")
		}
		if pageToken != "" {
			params.Set("pageToken", pageToken)
		}

		page, err := c.fetchPage(ctx, userID, accessToken, params)
		if err != nil {
			return nil, false, err
		}

		allEvents = append(allEvents, page.Items...)

		pageToken = page.NextPageToken
		if pageToken == "" {
			break
		}
		log.Infof("[GoogleCal] Fetching next page of events for user %s", shortID(userID))
	}

	hadCancellations := false
	for _, event := range allEvents {
		if event.IsCancelled() {
			hadCancellations = true
			break
		}
	}

	log.Infof("[GoogleCal] Fetched %d events for user %s", len(allEvents), shortID(userID))
	return allEvents, hadCancellations, nil
}

func (c *Client) fetchPage(ctx context.Context, userID, accessToken string, params url.Values) (*eventsPage, error) {
	requestURL := fmt.Sprintf("%s/calendars/primary/events?%s", c.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %v", ErrTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrProvider, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The cached token is poisoned; drop it so the next attempt forces a
		// refresh-token exchange instead of looping on the same 401.
		c.tokens.EvictAccessToken(ctx, userID)
		return nil, fmt.Errorf("%w: access token rejected", googleauth.ErrTokenRefreshExpired)
	case resp.StatusCode == http.StatusForbidden:
		return nil, ErrInsufficientScope
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		var apiErr apiError
		msg := "unknown error"
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		log.Errorf("[GoogleCal] Calendar API error: %s", msg)
		return nil, fmt.Errorf("%w: %s", ErrProvider, msg)
	}

	var page eventsPage
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("%w: failed to decode events response: %v", ErrProvider, err)
	}
	return &page, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func shortID(userID string) string {
	if len(userID) > 8 {
		return userID[:8] + "..."
	}
	return userID
}
