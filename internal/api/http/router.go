package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-board/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health      *handlers.HealthHandler
	Tickets     *handlers.TicketsHandler
	Users       *handlers.UsersHandler
	Preferences *handlers.PreferencesHandler
	Metrics     *handlers.MetricsHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	api := app.Group("/api")
	api.Get("/board", cfg.Tickets.Board)
	api.Get("/tickets", cfg.Tickets.ListTickets)
	api.Get("/users", cfg.Users.ListUsers)

	api.Get("/preferences", cfg.Preferences.Get)
	api.Patch("/preferences", cfg.Preferences.Update)
	api.Post("/preferences/theme/toggle", cfg.Preferences.ToggleTheme)
	api.Post("/display/toggle", cfg.Preferences.ToggleDisplay)

	app.Get("/internal/metrics", cfg.Metrics.Snapshot)
}
