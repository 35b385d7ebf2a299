package main

import (
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/dobosmarton/gaffer-app/app/controllers"
	"github.com/dobosmarton/gaffer-app/app/repository"
	"github.com/dobosmarton/gaffer-app/internal/pkg/audiostore"
	"github.com/dobosmarton/gaffer-app/internal/pkg/cache"
	"github.com/dobosmarton/gaffer-app/internal/pkg/calendarsync"
	"github.com/dobosmarton/gaffer-app/internal/pkg/database"
	"github.com/dobosmarton/gaffer-app/internal/pkg/env"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googleauth"
	"github.com/dobosmarton/gaffer-app/internal/pkg/googlecal"
	"github.com/dobosmarton/gaffer-app/internal/pkg/hype"
	"github.com/dobosmarton/gaffer-app/internal/pkg/identity"
	"github.com/dobosmarton/gaffer-app/internal/pkg/ratelimit"
	"github.com/dobosmarton/gaffer-app/internal/pkg/router"
	"github.com/dobosmarton/gaffer-app/internal/pkg/tts"
	"github.com/dobosmarton/gaffer-app/internal/pkg/usage"
)

func main() {
	app := NewApplication()
	err := app.Listen(fmt.Sprintf("%s:%s", env.GetEnv("APP_HOST", "localhost"), env.GetEnv("APP_PORT", "4000")))
	log.Fatal(err)
}

func NewApplication() *fiber.App {
	env.SetupEnvFile()

	db, err := database.SetupDatabase()
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	cacheService := cache.Connect()

	repos := repository.NewFactory(db).GetRepositories()

	vault, err := googleauth.NewVault(repos.GoogleToken, cacheService, googleauth.ConfigFromEnv())
	if err != nil {
		log.Fatalf("Failed to set up token vault: %v", err)
	}

	audioConfig, err := audiostore.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load audio storage config: %v", err)
	}
	audioStore, err := audiostore.NewStore(audioConfig)
	if err != nil {
		log.Fatalf("Failed to set up audio storage: %v", err)
	}

	calendarClient := googlecal.NewClient(vault)
	syncService := calendarsync.NewService(calendarClient, repos.CalendarEvent, repos.SyncState, repos.HypeRecord)
	usageService := usage.NewService(repos.Subscription, repos.HypeRecord)
	limiter := ratelimit.NewLimiter(cacheService)

	deps := router.Deps{
		Identity: identity.NewClient(),
		Auth:     controllers.NewAuthController(vault, repos.CalendarEvent, repos.SyncState),
		Calendar: controllers.NewCalendarController(syncService, vault),
		Hype:     controllers.NewHypeController(repos.HypeRecord, usageService, hype.NewGenerator(), tts.NewClient(), audioStore, limiter),
		Usage:    controllers.NewUsageController(usageService, repos.UpgradeInterest),
	}

	// init fiber app
	app := fiber.New(fiber.Config{
		AppName: "Gaffer",
	})

	// recovery and logging
	app.Use(recover.New(), logger.New())

	// the frontend runs on its own origin and sends bearer tokens
	app.Use(cors.New(cors.Config{
		AllowOrigins: env.GetEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// fiber metrics
	app.Get("/metrics", monitor.New())

	// ROUTER
	router.InstallRouter(app, deps)

	return app
}
