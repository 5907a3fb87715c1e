package database

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"church-attendance/app/apperr"
	"church-attendance/app/models"

	"github.com/jmoiron/sqlx"
)

// attendanceKind parametrizes the engine over the student tables and their
// teacher mirror. Table and column names are compile-time constants, never
// caller input.
type attendanceKind struct {
	personTable  string
	recordsTable string
	logTable     string
	idColumn     string
	writeSummary bool
}

var (
	studentKind = attendanceKind{
		personTable:  "students",
		recordsTable: "attendance_records",
		logTable:     "attendance_log",
		idColumn:     "student_id",
		writeSummary: true,
	}
	// The teacher mirror keeps no daily summary.
	teacherKind = attendanceKind{
		personTable:  "teachers",
		recordsTable: "teacher_attendance_records",
		logTable:     "teacher_attendance_log",
		idColumn:     "teacher_id",
	}
)

// Commits for the same date must appear atomic to readers, so they are
// serialized per (kind, date) on top of the enclosing transaction.
var (
	commitLocksMu sync.Mutex
	commitLocks   = map[string]*sync.Mutex{}
)

func commitLock(kind attendanceKind, date string) *sync.Mutex {
	commitLocksMu.Lock()
	defer commitLocksMu.Unlock()

	key := kind.recordsTable + "|" + date
	l, ok := commitLocks[key]
	if !ok {
		l = &sync.Mutex{}
		commitLocks[key] = l
	}
	return l
}

// markAttendance upserts the working record for one person and date.
// Statistics stay untouched until the date is committed.
func markAttendance(db *sqlx.DB, kind attendanceKind, personID int64, date, status string) error {
	if !models.ValidStatus(status) {
		return apperr.Validation("Unknown attendance status: " + status)
	}
	if date == "" {
		return apperr.Validation("Date required")
	}

	query := fmt.Sprintf(
		`INSERT INTO %s (%s, record_date, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (%s, record_date) DO UPDATE SET status = EXCLUDED.status`,
		kind.recordsTable, kind.idColumn, kind.idColumn)

	_, err := db.Exec(query, personID, date, status)
	return err
}

// saveAttendance commits a date's batch: every non-none mark updates the
// person's running statistics, is upserted into the permanent log, and has
// its working record reset to none. The daily summary is overwritten with
// this batch's tallies. Returns the number of non-none entries processed.
//
// Committing the same date twice double-counts statistics; at-most-once per
// date is the caller's contract.
func saveAttendance(db *sqlx.DB, kind attendanceKind, date string, records map[string]string) (int, error) {
	if date == "" {
		return 0, apperr.Validation("Date required")
	}

	type entry struct {
		id     int64
		status string
	}
	entries := make([]entry, 0, len(records))
	for idStr, status := range records {
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			return 0, apperr.Validation("Invalid person id: " + idStr)
		}
		if !models.ValidStatus(status) {
			return 0, apperr.Validation("Unknown attendance status: " + status)
		}
		if status == models.StatusNone {
			continue
		}
		entries = append(entries, entry{id: id, status: status})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].id < entries[j].id })

	lock := commitLock(kind, date)
	lock.Lock()
	defer lock.Unlock()

	tx, err := db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	statsQuery := fmt.Sprintf(
		`UPDATE %s SET present_count = present_count + $1, absent_count = absent_count + $2,
			total_classes = total_classes + 1, status = $3
		 WHERE id = $4`, kind.personTable)
	pctQuery := fmt.Sprintf(
		`UPDATE %s SET attendance = ROUND(present_count::numeric / NULLIF(total_classes, 0) * 100)
		 WHERE id = $1`, kind.personTable)
	logQuery := fmt.Sprintf(
		`INSERT INTO %s (%s, record_date, status)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (%s, record_date) DO UPDATE SET status = EXCLUDED.status`,
		kind.logTable, kind.idColumn, kind.idColumn)
	resetQuery := fmt.Sprintf(
		`UPDATE %s SET status = 'none' WHERE %s = $1 AND record_date = $2`,
		kind.recordsTable, kind.idColumn)

	presentC, absentC, lateC := 0, 0, 0
	for _, e := range entries {
		// Late counts as present for the running percentage.
		presentInc, absentInc := 1, 0
		if e.status == models.StatusAbsent {
			presentInc, absentInc = 0, 1
		}
		if _, err := tx.Exec(statsQuery, presentInc, absentInc, e.status, e.id); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(pctQuery, e.id); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(logQuery, e.id, date, e.status); err != nil {
			return 0, err
		}
		if _, err := tx.Exec(resetQuery, e.id, date); err != nil {
			return 0, err
		}

		switch e.status {
		case models.StatusPresent:
			presentC++
		case models.StatusAbsent:
			absentC++
		case models.StatusLate:
			lateC++
		}
	}

	if kind.writeSummary {
		_, err := tx.Exec(
			`INSERT INTO attendance_history (record_date, present_count, absent_count, late_count)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (record_date) DO UPDATE SET
				present_count = EXCLUDED.present_count,
				absent_count = EXCLUDED.absent_count,
				late_count = EXCLUDED.late_count`,
			date, presentC, absentC, lateC)
		if err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(entries), nil
}

// getAttendanceRecords returns the working marks for a date keyed by person
// id. A non-empty grade restricts the result to that class (student kind).
func getAttendanceRecords(db *sqlx.DB, kind attendanceKind, date, grade string) (map[string]string, error) {
	query := fmt.Sprintf(
		`SELECT r.%s, r.status FROM %s r WHERE r.record_date = $1`,
		kind.idColumn, kind.recordsTable)
	args := []interface{}{date}

	if grade != "" {
		query = fmt.Sprintf(
			`SELECT r.%s, r.status FROM %s r
			 JOIN %s p ON p.id = r.%s
			 WHERE r.record_date = $1 AND p.grade = $2`,
			kind.idColumn, kind.recordsTable, kind.personTable, kind.idColumn)
		args = append(args, grade)
	}

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := map[string]string{}
	for rows.Next() {
		var id int64
		var status string
		if err := rows.Scan(&id, &status); err != nil {
			return nil, err
		}
		result[strconv.FormatInt(id, 10)] = status
	}
	return result, rows.Err()
}

// getPersonHistory returns one person's committed log, most recent first.
func getPersonHistory(db *sqlx.DB, kind attendanceKind, personID int64) ([]models.HistoryEntry, error) {
	entries := []models.HistoryEntry{}
	query := fmt.Sprintf(
		`SELECT record_date AS date, status FROM %s
		 WHERE %s = $1 ORDER BY record_date DESC`,
		kind.logTable, kind.idColumn)
	err := db.Select(&entries, query, personID)
	return entries, err
}

// ── student operations ─────────────────────────────────────────────────────

func MarkAttendance(db *sqlx.DB, studentID int64, date, status string) error {
	return markAttendance(db, studentKind, studentID, date, status)
}

func SaveAttendance(db *sqlx.DB, date string, records map[string]string) (int, error) {
	return saveAttendance(db, studentKind, date, records)
}

func GetAttendanceRecords(db *sqlx.DB, date, grade string) (map[string]string, error) {
	return getAttendanceRecords(db, studentKind, date, grade)
}

func GetStudentHistory(db *sqlx.DB, studentID int64) ([]models.HistoryEntry, error) {
	return getPersonHistory(db, studentKind, studentID)
}

// GetAttendanceHistory returns the most recent 60 daily summaries.
func GetAttendanceHistory(db *sqlx.DB) ([]models.DailySummary, error) {
	summaries := []models.DailySummary{}
	err := db.Select(&summaries,
		`SELECT record_date AS date, present_count AS present, absent_count AS absent, late_count AS late
		 FROM attendance_history ORDER BY record_date DESC LIMIT 60`)
	return summaries, err
}

// GetAttendanceLog returns the committed student log, optionally filtered by
// exact date and by grade.
func GetAttendanceLog(db *sqlx.DB, dateFilter, gradeFilter string) ([]models.LogEntry, error) {
	query := `SELECT al.record_date AS date, al.status, s.id AS student_id, s.name, s.grade
		 FROM attendance_log al
		 JOIN students s ON s.id = al.student_id`
	args := []interface{}{}

	where := ""
	if dateFilter != "" {
		args = append(args, dateFilter)
		where = fmt.Sprintf(" WHERE al.record_date = $%d", len(args))
	}
	if gradeFilter != "" && gradeFilter != "all" {
		args = append(args, gradeFilter)
		if where == "" {
			where = fmt.Sprintf(" WHERE s.grade = $%d", len(args))
		} else {
			where += fmt.Sprintf(" AND s.grade = $%d", len(args))
		}
	}
	query += where + ` ORDER BY al.record_date DESC, s.grade, s.name`

	entries := []models.LogEntry{}
	err := db.Select(&entries, query, args...)
	return entries, err
}
