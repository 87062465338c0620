package attendance

import "errors"

var (
	ErrCheckInNotOpen   = errors.New("check-in opens at 10:00 AM")
	ErrCheckInClosed    = errors.New("check-in time has passed")
	ErrNotTrackedToday  = errors.New("attendance is not tracked on Sundays")
	ErrAlreadyCheckedIn = errors.New("already checked in today")
)
