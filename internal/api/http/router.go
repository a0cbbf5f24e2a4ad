package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/tour-booking-service/internal/api/http/handlers"
	"github.com/spec-kit/tour-booking-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	Tours          *handlers.ToursHandler
	Registrations  *handlers.RegistrationsHandler
	Reviews        *handlers.ReviewsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/health/metrics", cfg.Health.Metrics)

	authGroup := app.Group("/auth")
	authGroup.Post("/login", cfg.Users.Login)
	authGroup.Post("/logout", cfg.AuthMiddleware.Handle, cfg.Users.Logout)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Users.Me)

	users := app.Group("/users")
	users.Post("/register", cfg.Users.Register)
	users.Get("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Users.List)
	users.Get("/:id", cfg.AuthMiddleware.Handle, cfg.Users.Get)

	// /tours/all must register before /tours/:id so the literal segment wins.
	tours := app.Group("/tours")
	tours.Get("/", cfg.Tours.Search)
	tours.Get("/all", cfg.Tours.List)
	tours.Get("/:id", cfg.Tours.Get)
	tours.Post("/", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Tours.Create)
	tours.Patch("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Tours.Update)
	tours.Delete("/:id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Tours.Delete)

	registrations := app.Group("/registrations", cfg.AuthMiddleware.Handle)
	registrations.Post("/", cfg.Registrations.Create)
	registrations.Get("/", auth.RequireAdmin(), cfg.Registrations.ListAll)
	registrations.Get("/tour/:tourId", auth.RequireAdmin(), cfg.Registrations.ListByTour)
	registrations.Get("/user/:userId", cfg.Registrations.ListByUser)
	registrations.Patch("/status/:id", auth.RequireAdmin(), cfg.Registrations.SetStatus)
	registrations.Patch("/date/:id", cfg.Registrations.Reschedule)
	registrations.Delete("/:id", cfg.Registrations.Cancel)

	reviews := app.Group("/reviews")
	reviews.Get("/", cfg.Reviews.ListAll)
	reviews.Get("/tour/:tourId", cfg.Reviews.ListByTour)
	reviews.Post("/", cfg.AuthMiddleware.Handle, cfg.Reviews.Create)
}
