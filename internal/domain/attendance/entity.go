package attendance

import (
	"time"
)

type Type string

const (
	TypeFullDay Type = "full_day"
	TypeHalfDay Type = "half_day"
)

// Attendance is one user's record for one calendar day. Date, CycleStartDate
// and CycleEndDate are calendar dates held as UTC midnight.
type Attendance struct {
	UserID         int64
	Date           time.Time
	CheckIn        *time.Time
	CheckOut       *time.Time
	CycleStartDate time.Time
	CycleEndDate   time.Time
	AttendanceType *Type
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Join
	FullName *string
	Username *string
}

// DateOf returns the calendar date of t, in t's own location, as UTC midnight.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
