// Package router wires the HTTP surface of the portal API.
package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/dreamtoapp/admin-go-api/internal/config"
	"github.com/dreamtoapp/admin-go-api/internal/handler"
	"github.com/dreamtoapp/admin-go-api/internal/middleware"
	"github.com/dreamtoapp/admin-go-api/internal/models"
	"github.com/dreamtoapp/admin-go-api/internal/observability"
)

// Dependencies groups the handlers the router registers.
type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	TaskHandler         *handler.TaskHandler
	UserHandler         *handler.UserHandler
	WorkLogHandler      *handler.WorkLogHandler
	AttendanceHandler   *handler.AttendanceHandler
	NotificationHandler *handler.NotificationHandler
	DashboardHandler    *handler.DashboardHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.AuthHandler != nil {
		auth := api.Group("/auth", middleware.RateLimit("login", cfg.LoginRateLimit, cfg.LoginRateWindow))
		deps.AuthHandler.Register(auth)
	}

	if deps.TaskHandler != nil {
		// Admin routes are registered before the parameterised task
		// routes so /tasks/admin never matches /tasks/:id.
		admin := api.Group("/tasks/admin", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.TaskHandler.RegisterAdmin(admin)

		tasks := api.Group("/tasks", jwtMiddleware)
		deps.TaskHandler.Register(tasks)
	}

	if deps.UserHandler != nil {
		users := api.Group("/users", jwtMiddleware)
		deps.UserHandler.Register(users)
	}

	if deps.WorkLogHandler != nil {
		worklogs := api.Group("/worklogs", jwtMiddleware)
		deps.WorkLogHandler.Register(worklogs)
	}

	if deps.AttendanceHandler != nil {
		attendance := api.Group("/attendance", jwtMiddleware)
		deps.AttendanceHandler.Register(attendance)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.DashboardHandler != nil {
		dashboard := api.Group("/dashboard", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.DashboardHandler.Register(dashboard)
	}
}
