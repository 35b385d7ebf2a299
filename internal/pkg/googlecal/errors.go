package googlecal

import "errors"

var (
	// ErrInsufficientScope means the user granted login but not calendar read
	// access (HTTP 403). Distinct from auth failure so callers can ask for a
	// re-consent with broader scope instead of a plain re-login.
	ErrInsufficientScope = errors.New("insufficient calendar permissions")

	// ErrRateLimited means Google returned 429. This layer never retries;
	// whether and when to retry is the caller's call.
	ErrRateLimited = errors.New("calendar API rate limited")

	// ErrProvider covers any other non-2xx calendar API response
	ErrProvider = errors.New("calendar API error")

	// ErrTimeout means the request exceeded the fixed HTTP timeout
	ErrTimeout = errors.New("calendar API timeout")
)
