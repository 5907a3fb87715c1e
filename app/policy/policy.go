// Package policy holds the pure access-control decisions. Handlers gather
// the session and the touched resource, policy answers allow/deny/scope;
// nothing here reads the database or the request.
package policy

import (
	"church-attendance/app/apperr"
	"church-attendance/app/models"
	"church-attendance/app/session"
)

func IsAdmin(s *session.Session) bool {
	return s.Role == models.RoleAdmin
}

// AssignedClass returns the teacher's class, or "" when the session has
// none. A class-less teacher account is scoped to nothing.
func AssignedClass(s *session.Session) string {
	if s.AssignedClass == nil {
		return ""
	}
	return *s.AssignedClass
}

// RequireAdmin denies teacher-role sessions outright. Teacher management,
// user management and teacher-attendance are admin-exclusive.
func RequireAdmin(s *session.Session) error {
	if !IsAdmin(s) {
		return apperr.Forbidden("Admin access required")
	}
	return nil
}

// ScopeGrade narrows a list/query grade filter: admins see what they asked
// for, teachers always see exactly their own class.
func ScopeGrade(s *session.Session, requested string) string {
	if IsAdmin(s) {
		return requested
	}
	return AssignedClass(s)
}

// CanTouchStudent rejects mutations and reads of a student outside the
// caller's class.
func CanTouchStudent(s *session.Session, grade string) error {
	if IsAdmin(s) {
		return nil
	}
	if grade != AssignedClass(s) {
		return apperr.Forbidden("Student is outside your assigned class")
	}
	return nil
}

// ForceGrade pins the grade of a created or edited student: teachers cannot
// place a student outside their own class, whatever the payload says.
func ForceGrade(s *session.Session, requested string) string {
	if IsAdmin(s) {
		return requested
	}
	return AssignedClass(s)
}
