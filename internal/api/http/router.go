package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/civic-report-service/internal/api/http/handlers"
	"github.com/spec-kit/civic-report-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Issues         *handlers.IssuesHandler
	StaffIssues    *handlers.StaffIssuesHandler
	Analytics      *handlers.AnalyticsHandler
	Staff          *handlers.StaffHandler
	AuthMiddleware *auth.Middleware
	UploadsDir     string
	UploadsPrefix  string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/staff/login", cfg.Staff.Login)

	app.Post("/issues", cfg.AuthMiddleware.OptionalIdentity, cfg.Issues.SubmitIssue)
	app.Get("/issues", cfg.Issues.ListIssues)
	app.Get("/issues/:id", cfg.Issues.GetIssue)
	app.Patch("/issues/:id/status", cfg.AuthMiddleware.RequireStaff, cfg.StaffIssues.UpdateStatus)

	app.Get("/analytics/summary", cfg.Analytics.Summary)

	if cfg.UploadsDir != "" && cfg.UploadsPrefix != "" {
		app.Static(cfg.UploadsPrefix, cfg.UploadsDir)
	}
}
