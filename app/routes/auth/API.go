package auth

import (
	"errors"

	"church-attendance/app/apperr"
	"church-attendance/app/database"
	"church-attendance/app/policy"
	"church-attendance/app/session"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
)

// SessionLocal is the Locals key under which Middleware stores the resolved
// session.
const SessionLocal = "session"

type Handler struct {
	DB       *sqlx.DB
	Sessions session.Store
}

// Middleware resolves the bearer token into a live session. Requests
// without a valid token are rejected before any handler runs.
func Middleware(sessions session.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := BearerToken(c)
		if token == "" {
			return apperr.Unauthorized("No token found")
		}

		s, ok := sessions.Get(token)
		if !ok {
			return apperr.Unauthorized("Invalid token")
		}

		c.Locals(SessionLocal, s)
		return c.Next()
	}
}

// CurrentSession returns the session stored by Middleware.
func CurrentSession(c *fiber.Ctx) *session.Session {
	return c.Locals(SessionLocal).(*session.Session)
}

// AdminOnly guards the admin-exclusive route groups. Must run after
// Middleware.
func AdminOnly(c *fiber.Ctx) error {
	if err := policy.RequireAdmin(CurrentSession(c)); err != nil {
		return err
	}
	return c.Next()
}

func (h *Handler) LoginAPI(c *fiber.Ctx) error {
	type LoginRequest struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}

	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperr.Validation("Invalid request")
	}
	if req.Username == "" || req.Password == "" {
		return apperr.Validation("Username and password are required")
	}

	// Unknown user and wrong password produce the same failure, so the
	// response never reveals which usernames exist.
	user, err := database.GetUserByUsername(h.DB, req.Username)
	if err != nil {
		var appErr *apperr.Error
		if errors.As(err, &appErr) && appErr.Kind == apperr.KindNotFound {
			return apperr.Unauthorized("Invalid username or password")
		}
		return err
	}
	if !CheckPasswordHash(req.Password, user.PasswordHash) {
		return apperr.Unauthorized("Invalid username or password")
	}

	s := &session.Session{
		Token:         session.NewToken(),
		UserID:        user.ID,
		Role:          user.Role,
		AssignedClass: user.AssignedClass,
		Name:          user.Name,
		Username:      user.Username,
	}
	h.Sessions.Put(s)

	return c.JSON(fiber.Map{
		"success":        true,
		"token":          s.Token,
		"role":           s.Role,
		"assigned_class": s.AssignedClass,
		"name":           s.Name,
	})
}

// LogoutAPI drops the session. Removing an absent token is a no-op.
func (h *Handler) LogoutAPI(c *fiber.Ctx) error {
	if token := BearerToken(c); token != "" {
		h.Sessions.Delete(token)
	}
	return c.JSON(fiber.Map{"success": true})
}

// MeAPI echoes the caller's identity. It never requires a prior session:
// an unknown token simply reports authenticated=false.
func (h *Handler) MeAPI(c *fiber.Ctx) error {
	token := BearerToken(c)
	if token == "" {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	s, ok := h.Sessions.Get(token)
	if !ok {
		return c.JSON(fiber.Map{"authenticated": false})
	}

	return c.JSON(fiber.Map{
		"authenticated":  true,
		"user_id":        s.UserID,
		"username":       s.Username,
		"name":           s.Name,
		"role":           s.Role,
		"assigned_class": s.AssignedClass,
	})
}
