package attendance

import "time"

// Daily schedule, in the evaluation clock's location.
const (
	checkInOpensHour   = 10
	fullDayUntilMinute = 15 // 10:15:00 inclusive
	checkOutHour       = 18 // check-in closes and sessions are closed
)

type State string

const (
	StateNotTracked   State = "not_tracked"
	StateNotCheckedIn State = "not_checked_in"
	StateCheckedIn    State = "checked_in"
	StateCheckedOut   State = "checked_out"
)

// Cycle is an inclusive 26th-to-25th pay cycle.
type Cycle struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the calendar date d falls in the cycle.
func (c Cycle) Contains(d time.Time) bool {
	d = DateOf(d)
	return !d.Before(c.Start) && !d.After(c.End)
}

// PayCycle returns the cycle containing the calendar date of day.
// From the 26th the cycle runs to the 25th of next month; before it, from the
// 26th of the previous month. time.Date normalizes month 0 and 13 across years.
func PayCycle(day time.Time) Cycle {
	y, m, d := day.Date()
	if d >= 26 {
		return Cycle{
			Start: time.Date(y, m, 26, 0, 0, 0, 0, time.UTC),
			End:   time.Date(y, m+1, 25, 0, 0, 0, 0, time.UTC),
		}
	}
	return Cycle{
		Start: time.Date(y, m-1, 26, 0, 0, 0, 0, time.UTC),
		End:   time.Date(y, m, 25, 0, 0, 0, 0, time.UTC),
	}
}

func IsTracked(now time.Time) bool {
	return now.Weekday() != time.Sunday
}

func wallClock(day time.Time, hour, min int, loc *time.Location) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, hour, min, 0, 0, loc)
}

// EvaluateCheckIn decides whether a check-in at now is allowed and how it is
// classified: [10:00:00, 10:15:00] full day, (10:15:00, 18:00:00) half day.
// now is truncated to the second.
func EvaluateCheckIn(now time.Time) (Type, error) {
	if !IsTracked(now) {
		return "", ErrNotTrackedToday
	}
	now = now.Truncate(time.Second)
	loc := now.Location()

	if now.Before(wallClock(now, checkInOpensHour, 0, loc)) {
		return "", ErrCheckInNotOpen
	}
	if !now.Before(wallClock(now, checkOutHour, 0, loc)) {
		return "", ErrCheckInClosed
	}
	if !now.After(wallClock(now, checkInOpensHour, fullDayUntilMinute, loc)) {
		return TypeFullDay, nil
	}
	return TypeHalfDay, nil
}

// CheckOutTime is 18:00:00 on the calendar date of date, in loc.
func CheckOutTime(date time.Time, loc *time.Location) time.Time {
	return wallClock(date, checkOutHour, 0, loc)
}

// EvaluateAutoCheckout returns the check-out to persist for rec when it is
// open and now has reached 18:00:00 of the record's day. The check-out is the
// cutoff itself, never now. Nothing is evaluated on Sundays.
func EvaluateAutoCheckout(now time.Time, rec *Attendance) (time.Time, bool) {
	if rec == nil || rec.CheckIn == nil || rec.CheckOut != nil {
		return time.Time{}, false
	}
	if !IsTracked(now) {
		return time.Time{}, false
	}
	cutoff := CheckOutTime(rec.Date, now.Location())
	if now.Before(cutoff) {
		return time.Time{}, false
	}
	return cutoff, true
}

// Status is what a user sees for today.
type Status struct {
	State          State
	CanCheckIn     bool
	Message        string
	Date           time.Time
	AttendanceType *Type
	CheckIn        *time.Time
	CheckOut       *time.Time
	Cycle          Cycle
	// AutoCheckoutDue is set when CheckOut was derived and still has to be stored.
	AutoCheckoutDue bool
}

// Evaluate derives today's status from the clock and today's stored record,
// which may be nil. Stored values win over derived defaults.
func Evaluate(now time.Time, rec *Attendance) Status {
	st := Status{
		Date:  DateOf(now),
		Cycle: PayCycle(now),
	}
	if rec != nil {
		st.Cycle = Cycle{Start: rec.CycleStartDate, End: rec.CycleEndDate}
		st.AttendanceType = rec.AttendanceType
		st.CheckIn = rec.CheckIn
		st.CheckOut = rec.CheckOut
	}

	if !IsTracked(now) {
		st.State = StateNotTracked
		st.Message = ErrNotTrackedToday.Error()
		return st
	}

	switch {
	case rec == nil || rec.CheckIn == nil:
		st.State = StateNotCheckedIn
		typ, err := EvaluateCheckIn(now)
		if err != nil {
			st.Message = err.Error()
			return st
		}
		st.CanCheckIn = true
		if typ == TypeFullDay {
			st.Message = "check in now for a full day"
		} else {
			st.Message = "check-in now counts as a half day"
		}
	case rec.CheckOut == nil:
		if out, due := EvaluateAutoCheckout(now, rec); due {
			st.State = StateCheckedOut
			st.CheckOut = &out
			st.AutoCheckoutDue = true
			st.Message = "checked out automatically at 6:00 PM"
			return st
		}
		st.State = StateCheckedIn
		st.Message = "checked in; automatic check-out at 6:00 PM"
	default:
		st.State = StateCheckedOut
		st.Message = "checked out"
	}
	return st
}
