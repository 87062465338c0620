package report

import (
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/attendance"
)

// AttendanceReportRequest selects the pay cycle containing Date, today when empty.
type AttendanceReportRequest struct {
	attendance.CycleFilter
}

type AttendanceReport struct {
	CycleStartDate string                  `json:"cycle_start_date"`
	CycleEndDate   string                  `json:"cycle_end_date"`
	GeneratedAt    string                  `json:"generated_at"`
	Users          []UserAttendanceSummary `json:"users"`
}

type UserAttendanceSummary struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	FullName     string `json:"full_name"`
	DepartmentID *int64 `json:"department_id"`
	FullDays     int    `json:"full_days"`
	HalfDays     int    `json:"half_days"`
	// OpenSessions counts check-ins still waiting for their check-out.
	OpenSessions int                             `json:"open_sessions"`
	Records      []attendance.AttendanceResponse `json:"records"`
}
