package database

import (
	"database/sql"
	"errors"

	"church-attendance/app/apperr"
	"church-attendance/app/models"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const userColumns = `id, name, username, password_hash, role, assigned_class`

// uniqueViolation is the Postgres error code raised by the case-insensitive
// username index.
const uniqueViolation = "23505"

func mapUserInsertErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return apperr.Conflict("Username already taken")
	}
	return err
}

func GetUsers(db *sqlx.DB) ([]models.User, error) {
	users := []models.User{}
	err := db.Select(&users, `SELECT `+userColumns+` FROM users ORDER BY id`)
	return users, err
}

func GetUserByID(db *sqlx.DB, id int64) (*models.User, error) {
	user := &models.User{}
	err := db.Get(user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

// GetUserByUsername looks an account up case-insensitively.
func GetUserByUsername(db *sqlx.DB, username string) (*models.User, error) {
	user := &models.User{}
	err := db.Get(user,
		`SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("User not found")
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func CreateUser(db *sqlx.DB, u *models.User) error {
	err := db.QueryRow(
		`INSERT INTO users (name, username, password_hash, role, assigned_class)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		u.Name, u.Username, u.PasswordHash, u.Role, u.AssignedClass,
	).Scan(&u.ID)
	return mapUserInsertErr(err)
}

// UpdateUser rewrites an account. An empty PasswordHash keeps the stored
// one. Demoting the last remaining admin is rejected so the system never
// ends up without one.
func UpdateUser(db *sqlx.DB, u *models.User) error {
	current, err := GetUserByID(db, u.ID)
	if err != nil {
		return err
	}

	if current.Role == models.RoleAdmin && u.Role != models.RoleAdmin {
		admins, err := CountAdmins(db)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperr.Invariant("Cannot demote the last admin account")
		}
	}

	if u.PasswordHash == "" {
		u.PasswordHash = current.PasswordHash
	}

	_, err = db.Exec(
		`UPDATE users SET name = $1, username = $2, password_hash = $3, role = $4, assigned_class = $5
		 WHERE id = $6`,
		u.Name, u.Username, u.PasswordHash, u.Role, u.AssignedClass, u.ID)
	return mapUserInsertErr(err)
}

// DeleteUser removes an account, refusing to delete the last admin.
func DeleteUser(db *sqlx.DB, id int64) error {
	user, err := GetUserByID(db, id)
	if err != nil {
		return err
	}

	if user.Role == models.RoleAdmin {
		admins, err := CountAdmins(db)
		if err != nil {
			return err
		}
		if admins <= 1 {
			return apperr.Invariant("Cannot delete the last admin account")
		}
	}

	_, err = db.Exec(`DELETE FROM users WHERE id = $1`, id)
	return err
}

func CountAdmins(db *sqlx.DB) (int, error) {
	var count int
	err := db.Get(&count, `SELECT COUNT(*) FROM users WHERE role = $1`, models.RoleAdmin)
	return count, err
}

// SeedAdmin creates the initial admin account if no users exist yet.
func SeedAdmin(db *sqlx.DB, username, passwordHash string) error {
	var count int
	if err := db.Get(&count, `SELECT COUNT(*) FROM users`); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	_, err := db.Exec(
		`INSERT INTO users (name, username, password_hash, role, assigned_class)
		 VALUES ('Administrator', $1, $2, 'admin', NULL)`,
		username, passwordHash)
	return err
}
