package users

import (
	"strings"

	"church-attendance/app/apperr"
	"church-attendance/app/database"
	"church-attendance/app/models"
	"church-attendance/app/routes/auth"

	"github.com/gofiber/fiber/v2"
)

type userRequest struct {
	Name          string  `json:"name"`
	Username      string  `json:"username"`
	Password      string  `json:"password"`
	Role          string  `json:"role"`
	AssignedClass *string `json:"assigned_class"`
}

func validateRole(role string) error {
	if role != models.RoleAdmin && role != models.RoleTeacher {
		return apperr.Validation("Unknown role: " + role)
	}
	return nil
}

// normalizeClass drops the assigned class for non-teacher roles.
func normalizeClass(role string, class *string) *string {
	if role != models.RoleTeacher {
		return nil
	}
	return class
}

func (h *Handler) GetUsersAPI(c *fiber.Ctx) error {
	users, err := database.GetUsers(h.DB)
	if err != nil {
		return err
	}
	return c.JSON(users)
}

func (h *Handler) CreateUserAPI(c *fiber.Ctx) error {
	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" || req.Username == "" || req.Password == "" {
		return apperr.Validation("Name, username and password are required")
	}
	if req.Role == "" {
		req.Role = models.RoleTeacher
	}
	if err := validateRole(req.Role); err != nil {
		return err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return err
	}

	user := &models.User{
		Name:          req.Name,
		Username:      req.Username,
		PasswordHash:  hash,
		Role:          req.Role,
		AssignedClass: normalizeClass(req.Role, req.AssignedClass),
	}
	if err := database.CreateUser(h.DB, user); err != nil {
		return err
	}

	return c.Status(201).JSON(user)
}

// UpdateUserAPI edits an account and propagates the change to any live
// session of that user, so a role or class change applies immediately.
func (h *Handler) UpdateUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid user id")
	}

	var req userRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}

	req.Name = strings.TrimSpace(req.Name)
	req.Username = strings.TrimSpace(req.Username)
	if req.Name == "" || req.Username == "" {
		return apperr.Validation("Name and username are required")
	}
	if req.Role == "" {
		req.Role = models.RoleTeacher
	}
	if err := validateRole(req.Role); err != nil {
		return err
	}

	// Empty password keeps the stored hash.
	hash := ""
	if req.Password != "" {
		hash, err = auth.HashPassword(req.Password)
		if err != nil {
			return err
		}
	}

	user := &models.User{
		ID:            int64(id),
		Name:          req.Name,
		Username:      req.Username,
		PasswordHash:  hash,
		Role:          req.Role,
		AssignedClass: normalizeClass(req.Role, req.AssignedClass),
	}
	if err := database.UpdateUser(h.DB, user); err != nil {
		return err
	}

	h.Sessions.UpdateUser(user.ID, user.Name, user.Role, user.AssignedClass)

	user.PasswordHash = ""
	return c.JSON(user)
}

func (h *Handler) DeleteUserAPI(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return apperr.Validation("Invalid user id")
	}

	if err := database.DeleteUser(h.DB, int64(id)); err != nil {
		return err
	}

	h.Sessions.DeleteUser(int64(id))
	return c.JSON(fiber.Map{"success": true})
}
