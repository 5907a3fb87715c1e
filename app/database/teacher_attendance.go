package database

import (
	"fmt"

	"church-attendance/app/models"

	"github.com/jmoiron/sqlx"
)

// Teacher attendance mirrors the student engine on its own tables.

func MarkTeacherAttendance(db *sqlx.DB, teacherID int64, date, status string) error {
	return markAttendance(db, teacherKind, teacherID, date, status)
}

func SaveTeacherAttendance(db *sqlx.DB, date string, records map[string]string) (int, error) {
	return saveAttendance(db, teacherKind, date, records)
}

func GetTeacherAttendanceRecords(db *sqlx.DB, date string) (map[string]string, error) {
	return getAttendanceRecords(db, teacherKind, date, "")
}

func GetTeacherHistory(db *sqlx.DB, teacherID int64) ([]models.HistoryEntry, error) {
	return getPersonHistory(db, teacherKind, teacherID)
}

// GetTeacherAttendanceLog returns the committed teacher log, optionally
// filtered by exact date.
func GetTeacherAttendanceLog(db *sqlx.DB, dateFilter string) ([]models.TeacherLogEntry, error) {
	query := `SELECT tal.record_date AS date, tal.status, t.id AS teacher_id, t.name, t.subject, t.assigned_class
		 FROM teacher_attendance_log tal
		 JOIN teachers t ON t.id = tal.teacher_id`
	args := []interface{}{}

	if dateFilter != "" {
		args = append(args, dateFilter)
		query += fmt.Sprintf(" WHERE tal.record_date = $%d", len(args))
	}
	query += ` ORDER BY tal.record_date DESC, t.name`

	entries := []models.TeacherLogEntry{}
	err := db.Select(&entries, query, args...)
	return entries, err
}
