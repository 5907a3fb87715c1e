package database

import (
	"errors"
	"testing"

	"church-attendance/app/apperr"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestMarkAttendanceUpsertsWorkingRecord(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec("INSERT INTO attendance_records").
		WithArgs(int64(4), "2024-01-10", "late").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := MarkAttendance(db, 4, "2024-01-10", "late")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAttendanceRejectsUnknownStatus(t *testing.T) {
	db, mock := newMockDB(t)

	err := MarkAttendance(db, 4, "2024-01-10", "excused")
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkAttendanceRequiresDate(t *testing.T) {
	db, _ := newMockDB(t)

	err := MarkAttendance(db, 4, "", "present")
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
}

// Commit of {1: present, 2: absent, 3: late}: every person gains a class,
// late counts as present, the log is upserted, working records reset, and
// the summary carries this batch's tallies.
func TestSaveAttendanceCommitsBatch(t *testing.T) {
	db, mock := newMockDB(t)
	date := "2024-01-10"

	mock.ExpectBegin()
	expectPersonCommit(mock, "students", "attendance", 1, 1, 0, "present", date)
	expectPersonCommit(mock, "students", "attendance", 2, 0, 1, "absent", date)
	expectPersonCommit(mock, "students", "attendance", 3, 1, 0, "late", date)
	mock.ExpectExec("INSERT INTO attendance_history").
		WithArgs(date, 1, 1, 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := SaveAttendance(db, date, map[string]string{
		"1": "present",
		"2": "absent",
		"3": "late",
	})
	require.NoError(t, err)
	assert.Equal(t, 3, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func expectPersonCommit(mock sqlmock.Sqlmock, personTable, prefix string, id int64, presentInc, absentInc int, status, date string) {
	mock.ExpectExec("UPDATE " + personTable + " SET present_count").
		WithArgs(presentInc, absentInc, status, id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE " + personTable + " SET attendance = ROUND").
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO " + prefix + "_log").
		WithArgs(id, date, status).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE " + prefix + "_records SET status").
		WithArgs(id, date).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

// Entries marked none are skipped entirely, but the summary is still
// overwritten with this batch's (zero) tallies.
func TestSaveAttendanceSkipsNoneEntries(t *testing.T) {
	db, mock := newMockDB(t)
	date := "2024-01-11"

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO attendance_history").
		WithArgs(date, 0, 0, 0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	updated, err := SaveAttendance(db, date, map[string]string{"5": "none"})
	require.NoError(t, err)
	assert.Equal(t, 0, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAttendanceRejectsUnknownStatus(t *testing.T) {
	db, mock := newMockDB(t)

	_, err := SaveAttendance(db, "2024-01-10", map[string]string{"1": "sick"})
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveAttendanceRejectsBadPersonID(t *testing.T) {
	db, _ := newMockDB(t)

	_, err := SaveAttendance(db, "2024-01-10", map[string]string{"abc": "present"})
	var appErr *apperr.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperr.KindValidation, appErr.Kind)
}

// The teacher mirror commits the same way but keeps no daily summary.
func TestSaveTeacherAttendanceHasNoSummary(t *testing.T) {
	db, mock := newMockDB(t)
	date := "2024-01-12"

	mock.ExpectBegin()
	expectPersonCommit(mock, "teachers", "teacher_attendance", 2, 1, 0, "present", date)
	mock.ExpectCommit()

	updated, err := SaveTeacherAttendance(db, date, map[string]string{"2": "present"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAttendanceRecordsScopedByGrade(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"student_id", "status"}).
		AddRow(int64(1), "present").
		AddRow(int64(2), "late")
	mock.ExpectQuery("JOIN students p ON").
		WithArgs("2024-01-10", "KG1").
		WillReturnRows(rows)

	records, err := GetAttendanceRecords(db, "2024-01-10", "KG1")
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "present", "2": "late"}, records)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAttendanceLogFilters(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"date", "status", "student_id", "name", "grade"}).
		AddRow("2024-01-10", "present", int64(1), "Ali Hassan", "KG1")
	mock.ExpectQuery("FROM attendance_log al").
		WithArgs("2024-01-10", "KG1").
		WillReturnRows(rows)

	entries, err := GetAttendanceLog(db, "2024-01-10", "KG1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Ali Hassan", entries[0].Name)
	assert.Equal(t, int64(1), entries[0].StudentID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetAttendanceHistoryLimits(t *testing.T) {
	db, mock := newMockDB(t)

	rows := sqlmock.NewRows([]string{"date", "present", "absent", "late"}).
		AddRow("2024-01-11", 5, 1, 2).
		AddRow("2024-01-10", 4, 2, 0)
	mock.ExpectQuery("FROM attendance_history ORDER BY record_date DESC LIMIT 60").
		WillReturnRows(rows)

	summaries, err := GetAttendanceHistory(db)
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "2024-01-11", summaries[0].Date)
	assert.Equal(t, 5, summaries[0].Present)
}
