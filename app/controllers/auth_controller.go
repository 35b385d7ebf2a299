package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/dobosmarton/gaffer-app/app/repository"
	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googleauth"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usercontext"
)

// connectCookie carries the app user ID across the OAuth redirect. The
// callback arrives from Google without our bearer token, so the connect
// endpoint pins the user here first.
const connectCookie = "gaffer_connect_user"

// AuthController handles the Google Calendar connect/disconnect flow
type AuthController struct {
	vault     *googleauth.Vault
	events    repository.CalendarEventRepository
	syncState repository.SyncStateRepository
}

func NewAuthController(vault *googleauth.Vault, events repository.CalendarEventRepository, syncState repository.SyncStateRepository) *AuthController {
	return &AuthController{vault: vault, events: events, syncState: syncState}
}

// HandleGoogleConnect starts the OAuth consent flow for the authenticated user
func (ac *AuthController) HandleGoogleConnect(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)
	if userID == "" {
		return jsonError(c, fiber.StatusUnauthorized, "Not authenticated")
	}

	c.Cookie(&fiber.Cookie{
		Name:     connectCookie,
		Value:    userID,
		Expires:  time.Now().Add(10 * time.Minute),
		HTTPOnly: true,
		SameSite: "Lax",
		Secure:   !env.IsDev(),
	})

	return gothfiber.BeginAuthHandler(c)
}

// HandleGoogleCallback completes the OAuth flow and stores the refresh token
func (ac *AuthController) HandleGoogleCallback(c *fiber.Ctx) error {
	userID := c.Cookies(connectCookie)
	if userID == "" {
		return jsonError(c, fiber.StatusBadRequest, "Connect flow expired, please try again")
	}

	gothUser, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Warnf("[Auth] Google OAuth failed for user %s: %v", userID, err)
		return c.Redirect(ac.frontendURL("/settings?calendar_error=oauth_failed"), fiber.StatusSeeOther)
	}

	if gothUser.RefreshToken == "" {
		// Happens when consent was granted before without offline access;
		// the provider requests prompt=consent so this should be rare.
		log.Warnf("[Auth] Google returned no refresh token for user %s", userID)
		return c.Redirect(ac.frontendURL("/settings?calendar_error=no_refresh_token"), fiber.StatusSeeOther)
	}

	if err := ac.vault.StoreRefreshToken(userID, gothUser.RefreshToken); err != nil {
		log.Errorf("[Auth] Failed to store refresh token for user %s: %v", userID, err)
		return c.Redirect(ac.frontendURL("/settings?calendar_error=storage_failed"), fiber.StatusSeeOther)
	}

	c.ClearCookie(connectCookie)
	return c.Redirect(ac.frontendURL("/settings?calendar_connected=true"), fiber.StatusSeeOther)
}

// HandleGoogleStatus reports whether the user has a connected calendar
func (ac *AuthController) HandleGoogleStatus(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	connected, err := ac.vault.HasRefreshToken(userID)
	if err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to check connection status")
	}
	return c.JSON(fiber.Map{"connected": connected})
}

// HandleGoogleDisconnect revokes stored credentials and drops the cached
// calendar data. Disconnecting an unconnected user succeeds.
func (ac *AuthController) HandleGoogleDisconnect(c *fiber.Ctx) error {
	userID := usercontext.GetUserID(c)

	if err := ac.vault.RevokeTokens(c.Context(), userID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to disconnect calendar")
	}
	if err := ac.events.DeleteAllForUser(userID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to clear cached events")
	}
	if err := ac.syncState.Delete(userID); err != nil {
		return jsonError(c, fiber.StatusInternalServerError, "Failed to reset sync state")
	}

	return c.JSON(fiber.Map{"connected": false})
}

func (ac *AuthController) frontendURL(path string) string {
	base := strings.TrimRight(env.GetEnv("FRONTEND_URL", "http://localhost:3000"), "/")
	return fmt.Sprintf("%s%s", base, path)
}
