package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"

	"github.com/spec-kit/event-service/internal/api/http/handlers"
	"github.com/spec-kit/event-service/internal/config"
	"github.com/spec-kit/event-service/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Users         *handlers.UsersHandler
	Events        *handlers.EventsHandler
	Registrations *handlers.RegistrationsHandler
	Metrics       *observability.Metrics
	RateLimit     config.RateLimitConfig
}

// RegisterRoutes wires HTTP routes. Authorization happens per operation in the
// services, so no route group is gated here.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(cfg.Metrics.Handler()))
	}

	authGroup := app.Group("/auth", RateLimit(cfg.RateLimit.AuthPerSecond, cfg.RateLimit.AuthBurst))
	authGroup.Post("/signup", cfg.Users.Signup)
	authGroup.Post("/login", cfg.Users.Login)

	app.Get("/events", cfg.Events.List)
	app.Post("/events", cfg.Events.Create)
	app.Get("/events/:id", cfg.Events.Get)
	app.Post("/events/:id/registrations", cfg.Registrations.Register)
	app.Get("/events/:id/attendees", cfg.Registrations.ListAttendees)

	app.Get("/me/registrations", cfg.Registrations.ListMine)
}
