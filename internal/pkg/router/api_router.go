package router

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	"github.com/dobosmarton/gaffer-app/internal/pkg/middleware"
)

type ApiRouter struct {
	deps Deps
}

func NewApiRouter(deps Deps) *ApiRouter {
	return &ApiRouter{deps: deps}
}

func (h ApiRouter) InstallRouter(app *fiber.App) {
	api := app.Group("/api", limiter.New())

	// API v1 routes; every route requires a verified bearer token
	v1 := api.Group("/v1", middleware.RequireUser(h.deps.Identity))

	v1.Get("/auth/google/status", h.deps.Auth.HandleGoogleStatus)
	v1.Delete("/auth/google", h.deps.Auth.HandleGoogleDisconnect)

	v1.Get("/calendar/events", h.deps.Calendar.HandleGetEvents)
	v1.Post("/calendar/sync", h.deps.Calendar.HandleSync)

	v1.Get("/hype/styles", h.deps.Hype.HandleGetStyles)
	v1.Get("/hype/history", h.deps.Hype.HandleHistory)
	v1.Post("/hype/generate", h.deps.Hype.HandleGenerate)
	v1.Post("/hype/:id/audio", h.deps.Hype.HandleGenerateAudio)
	v1.Get("/hype/:id", h.deps.Hype.HandleGetHype)

	v1.Get("/usage", h.deps.Usage.HandleGetUsage)
	v1.Get("/upgrade-interest", h.deps.Usage.HandleGetUpgradeInterest)
	v1.Post("/upgrade-interest", h.deps.Usage.HandleRegisterUpgradeInterest)
}
