package database

import (
	"database/sql"
	"errors"

	"church-attendance/app/apperr"
	"church-attendance/app/models"

	"github.com/jmoiron/sqlx"
)

const teacherColumns = `id, name, subject, assigned_class, whatsapp, avatar,
	attendance, status, total_classes, present_count, absent_count`

func GetTeachers(db *sqlx.DB) ([]models.Teacher, error) {
	teachers := []models.Teacher{}
	err := db.Select(&teachers,
		`SELECT `+teacherColumns+` FROM teachers ORDER BY id`)
	return teachers, err
}

func GetTeacherByID(db *sqlx.DB, id int64) (*models.Teacher, error) {
	teacher := &models.Teacher{}
	err := db.Get(teacher,
		`SELECT `+teacherColumns+` FROM teachers WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("Teacher not found")
	}
	if err != nil {
		return nil, err
	}
	return teacher, nil
}

func CreateTeacher(db *sqlx.DB, t *models.Teacher) error {
	t.Avatar = models.MakeAvatar(t.Name)
	t.Attendance = 100
	t.Status = models.StatusPresent

	return db.QueryRow(
		`INSERT INTO teachers (name, subject, assigned_class, whatsapp, avatar, attendance, status, total_classes, present_count, absent_count)
		 VALUES ($1, $2, $3, $4, $5, 100, 'present', 0, 0, 0)
		 RETURNING id`,
		t.Name, t.Subject, t.AssignedClass, t.Whatsapp, t.Avatar,
	).Scan(&t.ID)
}

func UpdateTeacher(db *sqlx.DB, t *models.Teacher) error {
	t.Avatar = models.MakeAvatar(t.Name)

	res, err := db.Exec(
		`UPDATE teachers SET name = $1, subject = $2, assigned_class = $3, whatsapp = $4, avatar = $5
		 WHERE id = $6`,
		t.Name, t.Subject, t.AssignedClass, t.Whatsapp, t.Avatar, t.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Teacher not found")
	}
	return nil
}

func DeleteTeacher(db *sqlx.DB, id int64) error {
	tx, err := db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.Exec(`DELETE FROM teachers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperr.NotFound("Teacher not found")
	}
	if _, err := tx.Exec(`DELETE FROM teacher_attendance_records WHERE teacher_id = $1`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM teacher_attendance_log WHERE teacher_id = $1`, id); err != nil {
		return err
	}

	return tx.Commit()
}
