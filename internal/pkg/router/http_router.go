package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dobosmarton/gaffer-app/internal/pkg/middleware"
	"github.com/dobosmarton/gaffer-app/internal/pkg/oauth"
)

// HttpRouter installs the routes reached by browser redirects rather than by
// the frontend's API client.
type HttpRouter struct {
	deps Deps
}

func NewHttpRouter(deps Deps) *HttpRouter {
	return &HttpRouter{deps: deps}
}

func (h HttpRouter) InstallRouter(app *fiber.App) {
	// init oauth provider and state store
	oauth.Setup()

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// The connect endpoint needs the bearer token to know which user is
	// linking; the callback arrives from Google and identifies the user via
	// the connect cookie instead.
	google := app.Group("/auth/google")
	google.Get("/connect", middleware.RequireUser(h.deps.Identity), h.deps.Auth.HandleGoogleConnect)
	google.Get("/callback", h.deps.Auth.HandleGoogleCallback)
}
