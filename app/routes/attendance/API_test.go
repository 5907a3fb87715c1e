package attendance

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"church-attendance/app/apperr"
	"church-attendance/app/session"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, sqlmock.Sqlmock, session.Store) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })

	sessions := session.NewMemoryStore()
	app := fiber.New(fiber.Config{ErrorHandler: apperr.ErrorHandler})
	SetupAttendanceRoutes(app, &Handler{DB: db, Sessions: sessions})
	return app, mock, sessions
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, raw
}

func teacherToken(sessions session.Store, class string) string {
	s := &session.Session{Token: session.NewToken(), UserID: 2, Role: "teacher", AssignedClass: &class}
	sessions.Put(s)
	return s.Token
}

func studentRow(id int64, grade string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "name", "grade", "whatsapp", "birthdate", "avatar",
		"attendance", "status", "total_classes", "present_count", "absent_count",
	}).AddRow(id, "Ali Hassan", grade, "", "", "AH", 100, "present", 0, 0, 0)
}

func TestRecordsRequireDate(t *testing.T) {
	app, _, sessions := newTestApp(t)
	token := teacherToken(sessions, "KG1")

	resp, raw := doJSON(t, app, "GET", "/api/attendance/records", "", token)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Contains(t, string(raw), "Date required")
}

func TestMarkOutsideClassForbidden(t *testing.T) {
	app, mock, sessions := newTestApp(t)
	token := teacherToken(sessions, "KG1")

	mock.ExpectQuery("FROM students WHERE id").
		WithArgs(int64(9)).
		WillReturnRows(studentRow(9, "KG2"))

	resp, _ := doJSON(t, app, "POST", "/api/attendance/mark",
		`{"studentId":9,"date":"2024-01-10","status":"present"}`, token)
	assert.Equal(t, 403, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkInClassSucceeds(t *testing.T) {
	app, mock, sessions := newTestApp(t)
	token := teacherToken(sessions, "KG1")

	mock.ExpectQuery("FROM students WHERE id").
		WithArgs(int64(3)).
		WillReturnRows(studentRow(3, "KG1"))
	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(int64(3), "2024-01-10", "late").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp, _ := doJSON(t, app, "POST", "/api/attendance/mark",
		`{"studentId":3,"date":"2024-01-10","status":"late"}`, token)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Any authenticated session may commit a date's batch.
func TestSaveAllowedForTeachers(t *testing.T) {
	app, mock, sessions := newTestApp(t)
	token := teacherToken(sessions, "KG1")
	date := "2024-01-10"

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE students SET present_count").
		WithArgs(1, 0, "present", int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE students SET attendance = ROUND").
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendance_log").
		WithArgs(int64(1), date, "present").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE attendance_records SET status").
		WithArgs(int64(1), date).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO attendance_history").
		WithArgs(date, 1, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	resp, raw := doJSON(t, app, "POST", "/api/attendance/save",
		`{"date":"2024-01-10","records":{"1":"present"}}`, token)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(raw), `"updated":1`)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// The teacher-attendance mirror is denied outright for teacher sessions,
// not merely filtered.
func TestTeacherAttendanceIsAdminOnly(t *testing.T) {
	app, _, sessions := newTestApp(t)
	token := teacherToken(sessions, "KG1")

	for _, probe := range []struct{ method, path string }{
		{"GET", "/api/teacher-attendance/records?date=2024-01-10"},
		{"POST", "/api/teacher-attendance/mark"},
		{"POST", "/api/teacher-attendance/save"},
		{"GET", "/api/teacher-attendance/log"},
	} {
		resp, _ := doJSON(t, app, probe.method, probe.path, "", token)
		assert.Equal(t, 403, resp.StatusCode, probe.path)
	}
}

// The log endpoint pins teacher sessions to their own class even when they
// ask for another grade.
func TestLogScopedToTeacherClass(t *testing.T) {
	app, mock, sessions := newTestApp(t)
	token := teacherToken(sessions, "KG1")

	rows := sqlmock.NewRows([]string{"date", "status", "student_id", "name", "grade"})
	mock.ExpectQuery("FROM attendance_log al").
		WithArgs("KG1").
		WillReturnRows(rows)

	resp, _ := doJSON(t, app, "GET", "/api/attendance/log?grade=KG2", "", token)
	assert.Equal(t, 200, resp.StatusCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}
