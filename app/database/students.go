package database

import (
	"database/sql"
	"errors"

	"church-attendance/app/apperr"
	"church-attendance/app/models"

	"github.com/jmoiron/sqlx"
)

const studentColumns = `id, name, grade, whatsapp, birthdate, avatar,
	attendance, status, total_classes, present_count, absent_count`

// GetStudents returns all students, or only one grade's when grade is set.
func GetStudents(db *sqlx.DB, grade string) ([]models.Student, error) {
	students := []models.Student{}

	if grade != "" {
		err := db.Select(&students,
			`SELECT `+studentColumns+` FROM students WHERE grade = $1 ORDER BY id`, grade)
		return students, err
	}

	err := db.Select(&students,
		`SELECT `+studentColumns+` FROM students ORDER BY id`)
	return students, err
}

func GetStudentByID(db *sqlx.DB, id int64) (*models.Student, error) {
	student := &models.Student{}
	err := db.Get(student,
		`SELECT `+studentColumns+` FROM students WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Student not found")
	}
	if err != nil {
		return nil, err
	}
	return student, nil
}

// CreateStudent inserts a new student with a fresh statistic block and
// fills in the assigned id.
func CreateStudent(db *sqlx.DB, s *models.Student) error {
	s.Avatar = models.MakeAvatar(s.Name)
	s.Attendance = 100
	s.Status = models.StatusPresent

	return db.QueryRow(
		`INSERT INTO students (name, grade, whatsapp, birthdate, avatar, attendance, status, total_classes, present_count, absent_count)
		 VALUES ($1, $2, $3, $4, $5, 100, 'present', 0, 0, 0)
		 RETURNING id`,
		s.Name, s.Grade, s.Whatsapp, s.Birthdate, s.Avatar,
	).Scan(&s.ID)
}

// UpdateStudent rewrites the profile fields; the statistic block is only
// ever touched by the attendance engine.
func UpdateStudent(db *sqlx.DB, s *models.Student) error {
	s.Avatar = models.MakeAvatar(s.Name)

	res, err := db.Exec(
		`UPDATE students SET name = $1, grade = $2, whatsapp = $3, birthdate = $4, avatar = $5
		 WHERE id = $6`,
		s.Name, s.Grade, s.Whatsapp, s.Birthdate, s.Avatar, s.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Student not found")
	}
	return nil
}

// DeleteStudent removes the student together with their working records and
// committed log entries. The history loss is deliberate.
func DeleteStudent(db *sqlx.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Student not found")
	}
	if _, err := tx.Exec(`DELETE FROM attendance_records WHERE student_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM attendance_log WHERE student_id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
