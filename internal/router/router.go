package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sap-mentor-api/internal/config"
	"github.com/noah-isme/sap-mentor-api/internal/handler"
	"github.com/noah-isme/sap-mentor-api/internal/middleware"
	"github.com/noah-isme/sap-mentor-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	SubmissionHandler   *handler.MentorSubmissionHandler
	ReportHandler       *handler.MentorReportHandler
	NotificationHandler *handler.NotificationHandler
	ActivityHandler     *handler.ActivityHandler
	SeedHandler         *handler.SeedHandler
	JWTMiddleware       fiber.Handler
	RoleMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	mentor := app.Group("/api/mentor", jwtMiddleware)
	if deps.RoleMiddleware != nil {
		mentor.Use(deps.RoleMiddleware)
	}

	if deps.SubmissionHandler != nil {
		deps.SubmissionHandler.Register(mentor)
	}

	if deps.ReportHandler != nil {
		deps.ReportHandler.Register(mentor)
	}

	if deps.NotificationHandler != nil {
		notifications := mentor.Group("/notifications")
		deps.NotificationHandler.Register(notifications)
	}

	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(mentor)
	}

	if deps.SeedHandler != nil {
		seed := app.Group("/api/tools/seed", middleware.RateLimit("seed", 5, time.Minute))
		deps.SeedHandler.Register(seed)
	}
}
