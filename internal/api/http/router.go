package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/logiops/ops-portal/internal/api/http/handlers"
	"github.com/logiops/ops-portal/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Reports        *handlers.ReportsHandler
	Reference      *handlers.ReferenceHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/login", cfg.Auth.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)
	protected.Post("/auth/password/change", cfg.Auth.ChangePassword)

	protected.Get("/reference", cfg.Reference.List)

	reports := protected.Group("/reports")
	reports.Get("/kpis", cfg.Reports.KPIWatch)
	reports.Get("/users", cfg.Reports.UserPerformance)
	reports.Get("/users/:id/kpis", cfg.Reports.UserKPIBreakdown)
}
