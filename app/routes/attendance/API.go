package attendance

import (
	"church-attendance/app/apperr"
	"church-attendance/app/database"
	"church-attendance/app/models"
	"church-attendance/app/policy"
	"church-attendance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

type markRequest struct {
	StudentID int64  `json:"studentId"`
	Date      string `json:"date"`
	Status    string `json:"status"`
}

type saveRequest struct {
	Date    string            `json:"date"`
	Records map[string]string `json:"records"`
}

// GetAttendanceRecordsAPI returns the working marks for a date, keyed by
// student id. Teachers only see their own class.
func (h *Handler) GetAttendanceRecordsAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	date := c.Query("date")
	if date == "" {
		return apperr.Validation("Date required")
	}

	if !policy.IsAdmin(s) && policy.AssignedClass(s) == "" {
		return c.JSON(map[string]string{})
	}

	records, err := database.GetAttendanceRecords(h.DB, date, policy.ScopeGrade(s, ""))
	if err != nil {
		return err
	}
	return c.JSON(records)
}

// MarkAttendanceAPI upserts one working mark. Statistics are untouched
// until the date is saved.
func (h *Handler) MarkAttendanceAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	var req markRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	student, err := database.GetStudentByID(h.DB, req.StudentID)
	if err != nil {
		return err
	}
	if err := policy.CanTouchStudent(s, student.Grade); err != nil {
		return err
	}

	if err := database.MarkAttendance(h.DB, req.StudentID, req.Date, req.Status); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// SaveAttendanceAPI commits a date's batch into statistics and the log.
func (h *Handler) SaveAttendanceAPI(c *fiber.Ctx) error {
	var req saveRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	updated, err := database.SaveAttendance(h.DB, req.Date, req.Records)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "updated": updated})
}

// GetAttendanceHistoryAPI returns the most recent 60 daily summaries.
func (h *Handler) GetAttendanceHistoryAPI(c *fiber.Ctx) error {
	summaries, err := database.GetAttendanceHistory(h.DB)
	if err != nil {
		return err
	}
	return c.JSON(summaries)
}

// GetAttendanceLogAPI queries the permanent log. Teachers are pinned to
// their own class regardless of the grade filter they pass.
func (h *Handler) GetAttendanceLogAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	if !policy.IsAdmin(s) && policy.AssignedClass(s) == "" {
		return c.JSON([]models.LogEntry{})
	}

	dateFilter := c.Query("date")
	gradeFilter := policy.ScopeGrade(s, c.Query("grade"))

	entries, err := database.GetAttendanceLog(h.DB, dateFilter, gradeFilter)
	if err != nil {
		return err
	}
	return c.JSON(entries)
}
