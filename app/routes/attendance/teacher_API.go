package attendance

import (
	"church-attendance/app/apperr"
	"church-attendance/app/database"

	"github.com/gofiber/fiber/v2"
)

type teacherMarkRequest struct {
	TeacherID int64  `json:"teacherId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

func (h *Handler) GetTeacherAttendanceRecordsAPI(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		return apperr.Validation("Date required")
	}

	records, err := database.GetTeacherAttendanceRecords(h.DB, date)
	if err != nil {
		return err
	}
	return c.JSON(records)
}

func (h *Handler) MarkTeacherAttendanceAPI(c *fiber.Ctx) error {
	var req teacherMarkRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	if _, err := database.GetTeacherByID(h.DB, req.TeacherID); err != nil {
		return err
	}

	if err := database.MarkTeacherAttendance(h.DB, req.TeacherID, req.Date, req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

func (h *Handler) SaveTeacherAttendanceAPI(c *fiber.Ctx) error {
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	updated, err := database.SaveTeacherAttendance(h.DB, req.Date, req.Records)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

func (h *Handler) GetTeacherAttendanceLogAPI(c *fiber.Ctx) error {
	entries, err := database.GetTeacherAttendanceLog(h.DB, c.Query("date"))
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
