package attendance

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = time.RFC3339
)

type StatusResponse struct {
	State          State   `json:"state"`
	CanCheckIn     bool    `json:"can_check_in"`
	Message        string  `json:"message"`
	Date           string  `json:"date"`
	AttendanceType *Type   `json:"attendance_type"`
	CheckIn        *string `json:"check_in"`
	CheckOut       *string `json:"check_out"`
	CycleStartDate string  `json:"cycle_start_date"`
	CycleEndDate   string  `json:"cycle_end_date"`
}

func NewStatusResponse(st Status, loc *time.Location) StatusResponse {
	return StatusResponse{
		State:          st.State,
		CanCheckIn:     st.CanCheckIn,
		Message:        st.Message,
		Date:           st.Date.Format(dateLayout),
		AttendanceType: st.AttendanceType,
		CheckIn:        formatTimeIn(st.CheckIn, loc),
		CheckOut:       formatTimeIn(st.CheckOut, loc),
		CycleStartDate: st.Cycle.Start.Format(dateLayout),
		CycleEndDate:   st.Cycle.End.Format(dateLayout),
	}
}

type AttendanceResponse struct {
	UserID         int64   `json:"user_id"`
	FullName       *string `json:"full_name,omitempty"`
	Date           string  `json:"date"`
	CheckIn        *string `json:"check_in"`
	CheckOut       *string `json:"check_out"`
	AttendanceType *Type   `json:"attendance_type"`
	CycleStartDate string  `json:"cycle_start_date"`
	CycleEndDate   string  `json:"cycle_end_date"`
}

func NewAttendanceResponse(a Attendance, loc *time.Location) AttendanceResponse {
	return AttendanceResponse{
		UserID:         a.UserID,
		FullName:       a.FullName,
		Date:           a.Date.Format(dateLayout),
		CheckIn:        formatTimeIn(a.CheckIn, loc),
		CheckOut:       formatTimeIn(a.CheckOut, loc),
		AttendanceType: a.AttendanceType,
		CycleStartDate: a.CycleStartDate.Format(dateLayout),
		CycleEndDate:   a.CycleEndDate.Format(dateLayout),
	}
}

type CycleAttendanceResponse struct {
	UserID         int64                `json:"user_id"`
	CycleStartDate string               `json:"cycle_start_date"`
	CycleEndDate   string               `json:"cycle_end_date"`
	FullDays       int                  `json:"full_days"`
	HalfDays       int                  `json:"half_days"`
	Records        []AttendanceResponse `json:"records"`
}

// CycleFilter selects the pay cycle containing Date (YYYY-MM-DD), today when empty.
type CycleFilter struct {
	Date *string `json:"date"`
}

func (f *CycleFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Date != nil {
		if _, ok := validator.IsValidDate(*f.Date); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date",
				Message: "date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Day returns the selected calendar date, or today's date per now.
func (f *CycleFilter) Day(now time.Time) time.Time {
	if f.Date != nil {
		if d, ok := validator.IsValidDate(*f.Date); ok {
			return d
		}
	}
	return DateOf(now)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateTimeLayout)
	return &s
}

func formatTimeIn(t *time.Time, loc *time.Location) *string {
	if t == nil {
		return nil
	}
	if loc != nil {
		local := t.In(loc)
		t = &local
	}
	return formatTime(t)
}
