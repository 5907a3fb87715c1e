package users

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
	SetupUsersRoutes(app, &Handler{DB: db, Sessions: sessions})
	return app, mock, sessions
}

func doJSON(t *testing.T, app *fiber.App, method, path, body, token string) *http.Response {
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
	io.ReadAll(resp.Body)
	return resp
}

func adminToken(sessions session.Store) string {
	s := &session.Session{Token: session.NewToken(), UserID: 1, Role: "admin"}
	sessions.Put(s)
	return s.Token
}

func TestUsersEndpointsAreAdminOnly(t *testing.T) {
	app, _, sessions := newTestApp(t)

	class := "KG1"
	teacher := &session.Session{Token: session.NewToken(), UserID: 2, Role: "teacher", AssignedClass: &class}
	sessions.Put(teacher)

	resp := doJSON(t, app, "GET", "/api/users/", "", teacher.Token)
	assert.Equal(t, 403, resp.StatusCode)

	resp = doJSON(t, app, "GET", "/api/users/", "", "")
	assert.Equal(t, 401, resp.StatusCode)
}

// Editing an account rewrites any live session of that user in place.
func TestUpdateUserPropagatesToLiveSession(t *testing.T) {
	app, mock, sessions := newTestApp(t)
	token := adminToken(sessions)

	oldClass := "KG1"
	live := &session.Session{
		Token: session.NewToken(), UserID: 5, Role: "teacher",
		AssignedClass: &oldClass, Name: "Mina", Username: "mina",
	}
	sessions.Put(live)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash", "role", "assigned_class"}).
			AddRow(int64(5), "Mina", "mina", "oldhash", "teacher", "KG1"))
	mock.ExpectExec("UPDATE users SET").
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := doJSON(t, app, "PUT", "/api/users/5",
		`{"name":"Mina G","username":"mina","role":"teacher","assigned_class":"KG2"}`, token)
	assert.Equal(t, 200, resp.StatusCode)

	got, ok := sessions.Get(live.Token)
	require.True(t, ok)
	assert.Equal(t, "Mina G", got.Name)
	require.NotNil(t, got.AssignedClass)
	assert.Equal(t, "KG2", *got.AssignedClass)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting an account logs out any live session of that user.
func TestDeleteUserDropsLiveSessions(t *testing.T) {
	app, mock, sessions := newTestApp(t)
	token := adminToken(sessions)

	live := &session.Session{Token: session.NewToken(), UserID: 5, Role: "teacher"}
	sessions.Put(live)

	mock.ExpectQuery("FROM users WHERE id").
		WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "username", "password_hash", "role", "assigned_class"}).
			AddRow(int64(5), "Mina", "mina", "hash", "teacher", "KG1"))
	mock.ExpectExec("DELETE FROM users").
		WithArgs(int64(5)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	resp := doJSON(t, app, "DELETE", "/api/users/5", "", token)
	assert.Equal(t, 200, resp.StatusCode)

	_, ok := sessions.Get(live.Token)
	assert.False(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateUserValidation(t *testing.T) {
	app, _, sessions := newTestApp(t)
	token := adminToken(sessions)

	resp := doJSON(t, app, "POST", "/api/users/",
		`{"name":"Mina","username":"mina"}`, token)
	assert.Equal(t, 400, resp.StatusCode)

	resp = doJSON(t, app, "POST", "/api/users/",
		`{"name":"Mina","username":"mina","password":"pw123456","role":"owner"}`, token)
	assert.Equal(t, 400, resp.StatusCode)
}
