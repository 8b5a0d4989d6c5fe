package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/lms-console/internal/api/http/handlers"
	"github.com/spec-kit/lms-console/internal/gate"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health        *handlers.HealthHandler
	Auth          *handlers.AuthHandler
	Shell         *handlers.ShellHandler
	Resources     *handlers.ResourcesHandler
	Settings      *handlers.SettingsHandler
	Notifications *handlers.NotificationsHandler
	Gate          *gate.Gate
}

// RegisterRoutes wires HTTP routes. The gate middleware runs on every
// navigation; public paths pass through it untouched.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/login", cfg.Auth.Login)
	app.Post("/logout", cfg.Auth.Logout)
	app.Post("/forgot-password", cfg.Auth.ForgotPassword)
	app.Post("/reset-password", cfg.Auth.ResetPassword)

	app.Get("/notifications", cfg.Notifications.Stack)
	app.Delete("/notifications/:id", cfg.Notifications.Dismiss)

	app.Use(cfg.Gate.Middleware())

	for _, prefix := range []string{"/admin", "/instructor", "/student"} {
		group := app.Group(prefix)
		group.Get("", cfg.Shell.Home)

		if prefix == "/admin" {
			group.Get("/settings", cfg.Settings.Get)
			group.Put("/settings", cfg.Settings.Update)
		}

		group.Get("/:resource", cfg.Resources.List)
		group.Post("/:resource", cfg.Resources.Create)
		group.Put("/:resource/:id", cfg.Resources.Update)
		group.Delete("/:resource/:id", cfg.Resources.Delete)
	}
}
