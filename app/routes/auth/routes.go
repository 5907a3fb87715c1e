package auth

import "github.com/gofiber/fiber/v2"

// SetupAuthRoutes registers the unauthenticated endpoints. Login, logout
// and the identity echo never require a prior session.
func SetupAuthRoutes(app *fiber.App, h *Handler) {
	app.Post("/api/login", h.LoginAPI)
	app.Post("/api/logout", h.LogoutAPI)
	app.Get("/api/me", h.MeAPI)
}
