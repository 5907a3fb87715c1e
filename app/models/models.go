package models

import "strings"

// Attendance statuses. Late counts as present for the running percentage.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusNone    = "none"
)

// ValidStatus reports whether s is one of the four known attendance statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate, StatusNone:
		return true
	}
	return false
}

// Roles for user accounts.
const (
	RoleAdmin   = "admin"
	RoleTeacher = "teacher"
)

// Student carries the running statistic block alongside the profile fields.
// attendance is an integer percentage, recomputed on every commit.
type Student struct {
	ID           int64  `json:"id" db:"id"`
	Name         string `json:"name" db:"name"`
	Grade        string `json:"grade" db:"grade"`
	Whatsapp     string `json:"whatsapp" db:"whatsapp"`
	Birthdate    string `json:"birthdate" db:"birthdate"`
	Avatar       string `json:"avatar" db:"avatar"`
	Attendance   int    `json:"attendance" db:"attendance"`
	Status       string `json:"status" db:"status"`
	TotalClasses int    `json:"total_classes" db:"total_classes"`
	PresentCount int    `json:"present_count" db:"present_count"`
	AbsentCount  int    `json:"absent_count" db:"absent_count"`
}

type Teacher struct {
	ID            int64  `json:"id" db:"id"`
	Name          string `json:"name" db:"name"`
	Subject       string `json:"subject" db:"subject"`
	AssignedClass string `json:"assigned_class" db:"assigned_class"`
	Whatsapp      string `json:"whatsapp" db:"whatsapp"`
	Avatar        string `json:"avatar" db:"avatar"`
	Attendance    int    `json:"attendance" db:"attendance"`
	Status        string `json:"status" db:"status"`
	TotalClasses  int    `json:"total_classes" db:"total_classes"`
	PresentCount  int    `json:"present_count" db:"present_count"`
	AbsentCount   int    `json:"absent_count" db:"absent_count"`
}

// User is a login account. AssignedClass is only meaningful for the teacher
// role; the password hash never leaves the server.
type User struct {
	ID            int64   `json:"id" db:"id"`
	Name          string  `json:"name" db:"name"`
	Username      string  `json:"username" db:"username"`
	PasswordHash  string  `json:"-" db:"password_hash"`
	Role          string  `json:"role" db:"role"`
	AssignedClass *string `json:"assigned_class" db:"assigned_class"`
}

// LogEntry is one committed mark joined with the student's identity.
type LogEntry struct {
	Date      string `json:"date" db:"date"`
	Status    string `json:"status" db:"status"`
	StudentID int64  `json:"student_id" db:"student_id"`
	Name      string `json:"name" db:"name"`
	Grade     string `json:"grade" db:"grade"`
}

// TeacherLogEntry mirrors LogEntry for the teacher attendance log.
type TeacherLogEntry struct {
	Date          string `json:"date" db:"date"`
	Status        string `json:"status" db:"status"`
	TeacherID     int64  `json:"teacher_id" db:"teacher_id"`
	Name          string `json:"name" db:"name"`
	Subject       string `json:"subject" db:"subject"`
	AssignedClass string `json:"assigned_class" db:"assigned_class"`
}

// HistoryEntry is one row of a person's committed log.
type HistoryEntry struct {
	Date   string `json:"date" db:"date"`
	Status string `json:"status" db:"status"`
}

// DailySummary holds the tallies of the most recent commit for a date.
type DailySummary struct {
	Date    string `json:"date" db:"date"`
	Present int    `json:"present" db:"present"`
	Absent  int    `json:"absent" db:"absent"`
	Late    int    `json:"late" db:"late"`
}

// MakeAvatar derives display initials from a name: first letters of the
// first two words, or the first two characters of a single-word name.
func MakeAvatar(name string) string {
	parts := strings.Fields(strings.TrimSpace(name))
	if len(parts) > 1 {
		return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
	}
	if len(parts) == 1 {
		r := []rune(parts[0])
		if len(r) > 2 {
			r = r[:2]
		}
		return strings.ToUpper(string(r))
	}
	return ""
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
