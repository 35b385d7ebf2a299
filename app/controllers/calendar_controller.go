package controllers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/dobosmarton/gaffer-app/internal/pkg/calendarsync"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googleauth"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googlecal"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usercontext"
)

// CalendarController serves cached calendar reads and sync triggers
type CalendarController struct {
	sync  *calendarsync.Service
	vault *googleauth.Vault
}

func NewCalendarController(sync *calendarsync.Service, vault *googleauth.Vault) *CalendarController {
	return &CalendarController{sync: sync, vault: vault}
}

// HandleGetEvents returns the user's upcoming events from the local cache.
// A user who connected but never synced gets a one-time inline full sync so
// their first page load is not empty.
func (cc *CalendarController) HandleGetEvents(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	connected, err := cc.vault.HasRefreshToken(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to check calendar connection")
	}
	if !connected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Google Calendar is not connected",
			"code":  "calendar_not_connected",
		})
	}

	timeMin, err := parseTimeQuery(c, "time_min")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "time_min must be RFC3339")
	}
	timeMax, err := parseTimeQuery(c, "time_max")
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "time_max must be RFC3339")
	}
	maxResults := c.QueryInt("max_results", 0)

	events, err := cc.sync.GetCachedEvents(userID, timeMin, timeMax, maxResults)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to load events")
	}

	if len(events) == 0 {
		synced, err := cc.sync.HasSynced(userID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to load sync state")
		}
		if !synced {
			if _, err := cc.sync.Sync(c.Context(), userID, true); err != nil {
				return cc.syncErrorResponse(c, err)
			}
			events, err = cc.sync.GetCachedEvents(userID, timeMin, timeMax, maxResults)
			if err != nil {
				return jsonError(c, fiber.StatusInternalServerError, "Failed to load events")
			}
		}
	}

	return c.JSON(fiber.Map{
		"events": events,
		"count":  len(events),
	})
}

// HandleSync triggers a sync pass. Without force=true, a sync within the
// minimum interval of the previous one is skipped.
func (cc *CalendarController) HandleSync(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	connected, err := cc.vault.HasRefreshToken(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to check calendar connection")
	}
	if !connected {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Google Calendar is not connected",
			"code":  "calendar_not_connected",
		})
	}

	force := c.QueryBool("force", false)
	if !force {
		should, err := cc.sync.ShouldSync(userID)
		if err != nil {
			return jsonError(c, fiber.StatusInternalServerError, "Failed to load sync state")
		}
		if !should {
			return c.JSON(fiber.Map{"skipped": true, "reason": "synced_recently"})
		}
	}

	result, err := cc.sync.Sync(c.Context(), userID, force)
	if err != nil {
		return cc.syncErrorResponse(c, err)
	}
	return c.JSON(result)
}

// syncErrorResponse maps calendar pipeline errors onto HTTP statuses the
// frontend can act on.
func (cc *CalendarController) syncErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, googleauth.ErrNoRefreshToken):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Google Calendar connection was revoked, please reconnect",
			"code":  "calendar_not_connected",
		})
	case errors.Is(err, googleauth.ErrTokenRefreshExpired):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Google authorization expired, please reconnect",
			"code":  "reauth_required",
		})
	case errors.Is(err, googleauth.ErrDecryptionFailed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Stored credentials are unreadable, please reconnect",
			"code":  "calendar_not_connected",
		})
	case errors.Is(err, googlecal.ErrInsufficientScope):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"error": "Calendar access was not granted, please reconnect with calendar permissions",
			"code":  "insufficient_scope",
		})
	case errors.Is(err, googlecal.ErrRateLimited):
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Google Calendar is rate limiting requests, try again shortly",
			"code":  "rate_limited",
		})
	case errors.Is(err, googlecal.ErrTimeout):
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "Google Calendar did not respond in time",
			"code":  "provider_timeout",
		})
	default:
		log.Errorf("[Calendar] Sync failed: %v", err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error": "Calendar sync failed",
			"code":  "provider_error",
		})
	}
}
