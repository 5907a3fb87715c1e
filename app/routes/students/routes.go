package students

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

func SetupStudentsRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api/students")
	api.Use(auth.Middleware(h.Sessions))

	api.Get("/", h.GetStudentsAPI)
	api.Post("/", h.CreateStudentAPI)
	api.Put("/:id", h.UpdateStudentAPI)
	api.Delete("/:id", h.DeleteStudentAPI)
	api.Get("/:id/history", h.GetStudentHistoryAPI)
}
