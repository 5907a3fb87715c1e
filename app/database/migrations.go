package database

import (
	"log"

	"github.com/jmoiron/sqlx"
)

// RunMigrations creates the schema if it does not exist yet. Statements are
// idempotent so the command can run on every deploy.
func RunMigrations(db *sqlx.DB) error {
	log.Println("Running database migrations...")

	statements := []string{
		`CREATE TABLE IF NOT EXISTS students (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			grade TEXT NOT NULL,
			whatsapp TEXT NOT NULL DEFAULT '',
			birthdate TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			attendance INTEGER NOT NULL DEFAULT 100,
			status TEXT NOT NULL DEFAULT 'present',
			total_classes INTEGER NOT NULL DEFAULT 0,
			present_count INTEGER NOT NULL DEFAULT 0,
			absent_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS teachers (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			subject TEXT NOT NULL DEFAULT 'عام',
			assigned_class TEXT NOT NULL DEFAULT 'KG1',
			whatsapp TEXT NOT NULL DEFAULT '',
			avatar TEXT NOT NULL DEFAULT '',
			attendance INTEGER NOT NULL DEFAULT 100,
			status TEXT NOT NULL DEFAULT 'present',
			total_classes INTEGER NOT NULL DEFAULT 0,
			present_count INTEGER NOT NULL DEFAULT 0,
			absent_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_records (
			id SERIAL PRIMARY KEY,
			student_id INTEGER NOT NULL,
			record_date TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'none',
			UNIQUE (student_id, record_date)
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_attendance_records (
			id SERIAL PRIMARY KEY,
			teacher_id INTEGER NOT NULL,
			record_date TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'none',
			UNIQUE (teacher_id, record_date)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_log (
			id SERIAL PRIMARY KEY,
			student_id INTEGER NOT NULL,
			record_date TEXT NOT NULL,
			status TEXT NOT NULL,
			UNIQUE (student_id, record_date)
		)`,
		`CREATE TABLE IF NOT EXISTS teacher_attendance_log (
			id SERIAL PRIMARY KEY,
			teacher_id INTEGER NOT NULL,
			record_date TEXT NOT NULL,
			status TEXT NOT NULL,
			UNIQUE (teacher_id, record_date)
		)`,
		`CREATE TABLE IF NOT EXISTS attendance_history (
			id SERIAL PRIMARY KEY,
			record_date TEXT NOT NULL UNIQUE,
			present_count INTEGER NOT NULL DEFAULT 0,
			absent_count INTEGER NOT NULL DEFAULT 0,
			late_count INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id SERIAL PRIMARY KEY,
			name TEXT NOT NULL,
			username TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'teacher',
			assigned_class TEXT
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS users_username_lower_idx
			ON users (LOWER(username))`,
		`CREATE INDEX IF NOT EXISTS attendance_log_date_idx
			ON attendance_log (record_date)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			log.Printf("Migration failed: %v", err)
			return err
		}
	}

	log.Println("Database migrations completed successfully")
	return nil
}
