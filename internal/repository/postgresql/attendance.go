package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	a.user_id, a.date, a.check_in, a.check_out, a.cycle_start_date, a.cycle_end_date,
	a.attendance_type, a.created_at, a.updated_at
`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row scanner, extra ...interface{}) (attendance.Attendance, error) {
	var att attendance.Attendance
	var attType *string
	dest := []interface{}{
		&att.UserID, &att.Date, &att.CheckIn, &att.CheckOut, &att.CycleStartDate, &att.CycleEndDate,
		&attType, &att.CreatedAt, &att.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Attendance{}, err
	}
	if attType != nil {
		t := attendance.Type(*attType)
		att.AttendanceType = &t
	}
	return att, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.user_id = $1 AND a.date = $2
	`
	att, err := scanAttendance(q.QueryRow(ctx, query, userID, attendance.DateOf(date)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // No existing attendance found
		}
		return nil, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}

	return &att, nil
}

// UpsertCheckIn implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) UpsertCheckIn(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	var attType *string
	if newAttendance.AttendanceType != nil {
		s := string(*newAttendance.AttendanceType)
		attType = &s
	}

	// Concurrent check-ins for the same day converge on the first stored check_in.
	query := `
		INSERT INTO attendance AS a (user_id, date, check_in, cycle_start_date, cycle_end_date, attendance_type)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, date) DO UPDATE
		SET check_in        = COALESCE(a.check_in, EXCLUDED.check_in),
			attendance_type = COALESCE(a.attendance_type, EXCLUDED.attendance_type),
			updated_at      = CASE WHEN a.check_in IS NULL THEN NOW() ELSE a.updated_at END
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query,
		newAttendance.UserID,
		attendance.DateOf(newAttendance.Date),
		newAttendance.CheckIn,
		newAttendance.CycleStartDate,
		newAttendance.CycleEndDate,
		attType,
	))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert check-in: %w", err)
	}
	return att, nil
}

// SetCheckOut implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) SetCheckOut(ctx context.Context, userID int64, date time.Time, checkOut time.Time) (bool, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance
		SET check_out = $3, updated_at = NOW()
		WHERE user_id = $1 AND date = $2
		  AND check_in IS NOT NULL AND check_out IS NULL
	`
	tag, err := q.Exec(ctx, query, userID, attendance.DateOf(date), checkOut)
	if err != nil {
		return false, fmt.Errorf("failed to set check-out: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// ListOpenSessions implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) ListOpenSessions(ctx context.Context, onOrBefore time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.check_in IS NOT NULL AND a.check_out IS NULL AND a.date <= $1
		ORDER BY a.date ASC, a.user_id ASC
	`
	return a.list(ctx, q, query, attendance.DateOf(onOrBefore))
}

// ListByUserAndRange implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) ListByUserAndRange(ctx context.Context, userID int64, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.user_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC
	`
	return a.list(ctx, q, query, userID, attendance.DateOf(from), attendance.DateOf(to))
}

// ListByRange implements attendance.AttendanceRepository.
func (a *attendanceRepositoryImpl) ListByRange(ctx context.Context, scope access.Scope, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	scopeClause, args, argIdx := scopeCondition(scope, "u.department_id", "u.id", 1)
	query := fmt.Sprintf(`SELECT %s, u.full_name, u.username
		FROM attendance a
		JOIN users u ON u.id = a.user_id
		WHERE %s AND a.date BETWEEN $%d AND $%d
		ORDER BY u.full_name ASC, a.user_id ASC, a.date ASC
	`, attendanceColumns, scopeClause, argIdx, argIdx+1)
	args = append(args, attendance.DateOf(from), attendance.DateOf(to))

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		var fullName, username string
		att, err := scanAttendance(rows, &fullName, &username)
		if err != nil {
			return nil, err
		}
		att.FullName = &fullName
		att.Username = &username
		records = append(records, att)
	}
	return records, rows.Err()
}

func (a *attendanceRepositoryImpl) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]attendance.Attendance, error) {
	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	records := make([]attendance.Attendance, 0)
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, att)
	}
	return records, rows.Err()
}
