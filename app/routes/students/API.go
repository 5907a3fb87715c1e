package students

import (
	"strings"

	"church-attendance/app/apperr"
	"church-attendance/app/database"
	"church-attendance/app/models"
	"church-attendance/app/policy"
	"church-attendance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

type studentRequest struct {
	Name      string `json:"name"`
	Grade     string `json:"grade"`
	Whatsapp  string `json:"whatsapp"`
	Birthdate string `json:"birthdate"`
}

// GetStudentsAPI lists students. Teacher sessions are transparently
// narrowed to their assigned class.
func (h *Handler) GetStudentsAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	// A teacher account with no class yet is scoped to nothing.
	if !policy.IsAdmin(s) && policy.AssignedClass(s) == "" {
		return c.JSON([]models.Student{})
	}

	students, err := database.GetStudents(h.DB, policy.ScopeGrade(s, ""))
	if err != nil {
		return err
	}
	return c.JSON(students)
}

func (h *Handler) CreateStudentAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name required")
	}
	if req.Grade == "" {
		req.Grade = "KG1"
	}

	// A teacher always creates into their own class, whatever the payload
	// carried.
	grade := policy.ForceGrade(s, req.Grade)
	if grade == "" {
		return apperr.Forbidden("No assigned class")
	}

	student := &models.Student{
		Name:      req.Name,
		Grade:     grade,
		Whatsapp:  req.Whatsapp,
		Birthdate: req.Birthdate,
	}
	if err := database.CreateStudent(h.DB, student); err != nil {
		return err
	}

	return c.Status(201).JSON(student)
}

func (h *Handler) UpdateStudentAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid student id")
	}

	var req studentRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name required")
	}

	existing, err := database.GetStudentByID(h.DB, int64(id))
	if err != nil {
		return err
	}
	if err := policy.CanTouchStudent(s, existing.Grade); err != nil {
		return err
	}

	existing.Name = req.Name
	existing.Grade = policy.ForceGrade(s, req.Grade)
	existing.Whatsapp = req.Whatsapp
	existing.Birthdate = req.Birthdate
	if err := database.UpdateStudent(h.DB, existing); err != nil {
		return err
	}

	return c.JSON(existing)
}

func (h *Handler) DeleteStudentAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid student id")
	}

	existing, err := database.GetStudentByID(h.DB, int64(id))
	if err != nil {
		return err
	}
	if err := policy.CanTouchStudent(s, existing.Grade); err != nil {
		return err
	}

	if err := database.DeleteStudent(h.DB, int64(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}

// GetStudentHistoryAPI returns one student's committed log, most recent
// first.
func (h *Handler) GetStudentHistoryAPI(c *fiber.Ctx) error {
	s := auth.CurrentSession(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid student id")
	}

	student, err := database.GetStudentByID(h.DB, int64(id))
	if err != nil {
		return err
	}
	if err := policy.CanTouchStudent(s, student.Grade); err != nil {
		return err
	}

	history, err := database.GetStudentHistory(h.DB, int64(id))
	if err != nil {
		return err
	}
	return c.JSON(history)
}
