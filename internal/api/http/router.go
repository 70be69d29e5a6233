package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/helpdesk/internal/api/http/handlers"
	"github.com/spec-kit/helpdesk/internal/auth"
	"github.com/spec-kit/helpdesk/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Messages       *handlers.MessagesHandler
	Companies      *handlers.CompaniesHandler
	Users          *handlers.UsersHandler
	WS             *WSHandler
	AuthMiddleware *auth.AuthMiddleware
	UploadsDir     string
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Static("/uploads", cfg.UploadsDir)

	api := app.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Post("/register", cfg.Auth.Register)
	authGroup.Post("/login", cfg.Auth.Login)
	authGroup.Get("/me", cfg.AuthMiddleware.Handle, cfg.Auth.Me)

	tickets := api.Group("/tickets", cfg.AuthMiddleware.Handle)
	tickets.Get("/", cfg.Tickets.List)
	tickets.Post("/", cfg.Tickets.Create)
	tickets.Get("/:id", cfg.Tickets.Get)
	tickets.Put("/:id", cfg.Tickets.Update)
	tickets.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Tickets.Delete)

	tickets.Get("/:ticketId/messages", cfg.Messages.List)
	tickets.Post("/:ticketId/messages", cfg.Messages.Send)
	tickets.Post("/:ticketId/messages/upload", cfg.Messages.Upload)

	api.Delete("/messages/:id", cfg.AuthMiddleware.Handle,
		auth.RequireRole(domain.RoleAdmin, domain.RoleAgent), cfg.Messages.Delete)

	companies := api.Group("/companies", cfg.AuthMiddleware.Handle)
	companies.Get("/", cfg.Companies.List)
	companies.Get("/:id", cfg.Companies.Get)
	companies.Post("/", auth.RequireRole(domain.RoleAdmin), cfg.Companies.Create)
	companies.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Companies.Update)
	companies.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Companies.Delete)

	users := api.Group("/users", cfg.AuthMiddleware.Handle)
	users.Put("/profile", cfg.Users.UpdateProfile)
	users.Get("/", auth.RequireRole(domain.RoleAdmin, domain.RoleAgent), cfg.Users.List)
	users.Get("/:id", auth.RequireRole(domain.RoleAdmin, domain.RoleAgent), cfg.Users.Get)
	users.Get("/:id/tickets", auth.RequireRole(domain.RoleAdmin, domain.RoleAgent), cfg.Users.Tickets)
	users.Put("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Update)
	users.Delete("/:id", auth.RequireRole(domain.RoleAdmin), cfg.Users.Delete)

	api.Get("/dashboard", cfg.AuthMiddleware.Handle, cfg.Tickets.Dashboard)

	if cfg.WS != nil {
		cfg.WS.Register(app)
	}
}
