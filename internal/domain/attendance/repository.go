package attendance

import (
	"context"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type AttendanceRepository interface {
	// GetByUserAndDate returns nil, nil when no record exists
	GetByUserAndDate(ctx context.Context, userID int64, date time.Time) (*Attendance, error)

	// UpsertCheckIn inserts the day's record, or fills check_in on an existing
	// record that has none. An existing check_in is never overwritten; the
	// stored row is returned either way.
	UpsertCheckIn(ctx context.Context, a Attendance) (Attendance, error)

	// SetCheckOut closes an open session. It reports false when the record was
	// already closed or missing.
	SetCheckOut(ctx context.Context, userID int64, date time.Time, checkOut time.Time) (bool, error)

	// ListOpenSessions returns records on or before date with check_in set and check_out unset
	ListOpenSessions(ctx context.Context, onOrBefore time.Time) ([]Attendance, error)

	ListByUserAndRange(ctx context.Context, userID int64, from, to time.Time) ([]Attendance, error)

	// ListByRange returns records in scope with the user's name joined, ordered by name then date
	ListByRange(ctx context.Context, scope access.Scope, from, to time.Time) ([]Attendance, error)
}
