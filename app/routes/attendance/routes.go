package attendance

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

func SetupAttendanceRoutes(app *fiber.App, h *Handler) {
	api := app.Group("/api/attendance")
	api.Use(auth.Middleware(h.Sessions))

	api.Get("/records", h.GetAttendanceRecordsAPI)
	api.Post("/mark", h.MarkAttendanceAPI)
	api.Post("/save", h.SaveAttendanceAPI)
	api.Get("/history", h.GetAttendanceHistoryAPI)
	api.Get("/log", h.GetAttendanceLogAPI)

	// The teacher-attendance mirror is admin-exclusive.
	teacherAPI := app.Group("/api/teacher-attendance")
	teacherAPI.Use(auth.Middleware(h.Sessions))
	teacherAPI.Use(auth.AdminOnly)

	teacherAPI.Get("/records", h.GetTeacherAttendanceRecordsAPI)
	teacherAPI.Post("/mark", h.MarkTeacherAttendanceAPI)
	teacherAPI.Post("/save", h.SaveTeacherAttendanceAPI)
	teacherAPI.Get("/log", h.GetTeacherAttendanceLogAPI)
}
