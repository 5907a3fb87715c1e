package teachers

import (
	"strings"

	"church-attendance/app/apperr"
	"church-attendance/app/database"
	"church-attendance/app/models"

	"github.com/gofiber/fiber/v2"
)

type teacherRequest struct {
	Name          string `json:"name"`
	Subject       string `json:"subject"`
	AssignedClass string `json:"assigned_class"`
	Whatsapp      string `json:"whatsapp"`
}

func (h *Handler) GetTeachersAPI(c *fiber.Ctx) error {
	teachers, err := database.GetTeachers(h.DB)
	if err != nil {
		return err
	}
	return c.JSON(teachers)
}

func (h *Handler) CreateTeacherAPI(c *fiber.Ctx) error {
	var req teacherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name required")
	}
	if req.Subject == "" {
		req.Subject = "عام"
	}
	if req.AssignedClass == "" {
		req.AssignedClass = "KG1"
	}

	teacher := &models.Teacher{
		Name:          req.Name,
		Subject:       req.Subject,
		AssignedClass: req.AssignedClass,
		Whatsapp:      req.Whatsapp,
	}
	if err := database.CreateTeacher(h.DB, teacher); err != nil {
		return err
	}

	return c.Status(201).JSON(teacher)
}

func (h *Handler) UpdateTeacherAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid teacher id")
	}

	var req teacherRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return apperr.Validation("Name required")
	}

	existing, err := database.GetTeacherByID(h.DB, int64(id))
	if err != nil {
		return err
	}

	existing.Name = req.Name
	existing.Subject = req.Subject
	existing.AssignedClass = req.AssignedClass
	existing.Whatsapp = req.Whatsapp
	if err := database.UpdateTeacher(h.DB, existing); err != nil {
		return err
	}

	return c.JSON(existing)
}

// GetTeacherHistoryAPI returns one teacher's committed log, most recent
// first.
func (h *Handler) GetTeacherHistoryAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid teacher id")
	}

	if _, err := database.GetTeacherByID(h.DB, int64(id)); err != nil {
		return err
	}

	history, err := database.GetTeacherHistory(h.DB, int64(id))
	if err != nil {
		return err
	}
	return c.JSON(history)
}

func (h *Handler) DeleteTeacherAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid teacher id")
	}

	if err := database.DeleteTeacher(h.DB, int64(id)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true})
}
