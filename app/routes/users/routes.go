package users

import (
	"church-attendance/app/routes/auth"
	"church-attendance/app/session"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	DB       *sqlx.DB
	Sessions session.Store
}

// Account management is admin-exclusive.
func SetupUsersRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api/users")
	api.Use(auth.Middleware(h.Sessions))
	api.Use(auth.AdminOnly)

	api.Get("/", h.GetUsersAPI)
	api.Post("/", h.CreateUserAPI)
	api.Put("/:id", h.UpdateUserAPI)
	api.Delete("/:id", h.DeleteUserAPI)
}
