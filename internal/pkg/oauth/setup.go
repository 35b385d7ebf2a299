package oauth

import (
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/middleware/session"
	redisstorage "github.com/gofiber/storage/redis"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"
	gothfiber "github.com/shareed2k/goth_fiber"

	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
)

// CalendarScope is the only Google scope we request beyond the identity
// defaults. Read-only is enough; we never write to the user's calendar.
const CalendarScope = "https://www.googleapis.com/auth/calendar.readonly"

// Setup initializes the Google provider and the OAuth state session store.
// It is safe to call multiple times; the provider will just be re-registered.
func Setup() {
	base := strings.TrimRight(env.GetEnv("PUBLIC_DOMAIN", ""), "/")
	if base == "" {
		base = "http://localhost:" + env.GetEnv("APP_PORT", "4000")
	}

	provider := google.New(
		env.GetEnv("GOOGLE_CLIENT_ID", ""),
		env.GetEnv("GOOGLE_CLIENT_SECRET", ""),
		base+"/auth/google/callback",
		"email", CalendarScope,
	)
	// Offline access with forced consent so Google hands back a refresh
	// token even when the user connected before.
	provider.SetAccessType("offline")
	provider.SetPrompt("consent")
	goth.UseProviders(provider)

	// OAuth state via Redis, separate DB from the app cache
	port := 6379
	if parsed, err := strconv.Atoi(env.GetEnv("CACHE_PORT", "6379")); err == nil {
		port = parsed
	}

	gothfiber.SessionStore = session.New(session.Config{
		Storage: redisstorage.New(redisstorage.Config{
			Host:     env.GetEnv("CACHE_HOST", "127.0.0.1"),
			Port:     port,
			Password: env.GetEnv("CACHE_PASSWORD", ""),
			Database: 2,
			Reset:    false,
		}),
		KeyLookup:      "cookie:" + gothic.SessionName,
		CookieHTTPOnly: true,
		CookieSameSite: "Lax",
		CookieSecure:   !env.IsDev(),
		Expiration:     30 * time.Minute,
	})
}
