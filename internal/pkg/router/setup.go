package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dobosmarton/gaffer-app/app/controllers"
	"github.com/dobosmarton/gaffer-app/internal/pkg/identity"
)

// Router installs a group of routes on the app
type Router interface {
	InstallRouter(app *fiber.App)
}

// Deps carries the wired controllers and the identity resolver used by the
// auth middleware. Everything is constructed once at startup and injected.
type Deps struct {
	Identity *identity.Client
	Auth     *controllers.AuthController
	Calendar *controllers.CalendarController
	Hype     *controllers.HypeController
	Usage    *controllers.UsageController
}

func InstallRouter(app *fiber.App, deps Deps) {
	// HttpRouter first: it initializes the OAuth providers the API routes
	// rely on for the connect flow.
	setup(app, NewHttpRouter(deps), NewApiRouter(deps))
}

func setup(app *fiber.App, router ...Router) {
	for _, r := range router {
		r.InstallRouter(app)
	}
}
