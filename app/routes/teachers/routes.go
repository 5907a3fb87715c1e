package teachers

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

// Teacher management is admin-exclusive.
func SetupTeachersRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api/teachers")
	api.Use(auth.Middleware(h.Sessions))
	api.Use(auth.AdminOnly)

	api.Get("/", h.GetTeachersAPI)
	api.Post("/", h.CreateTeacherAPI)
	api.Put("/:id", h.UpdateTeacherAPI)
	api.Delete("/:id", h.DeleteTeacherAPI)
	api.Get("/:id/history", h.GetTeacherHistoryAPI)
}
