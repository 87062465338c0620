package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeCasual Type = "casual"
	TypeSick   Type = "sick"
	TypeAnnual Type = "annual"
	TypeUnpaid Type = "unpaid"
	TypeOther  Type = "other"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// LeaveRequest entity. StartDate and EndDate are calendar dates held as UTC midnight.
type LeaveRequest struct {
	ID              int64
	UserID          int64
	LeaveType       Type
	StartDate       time.Time
	EndDate         time.Time
	DaysCount       int
	Reason          *string
	Status          Status
	SalaryDeducted  decimal.Decimal
	DecidedByID     *int64
	DecidedAt       *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// Join
	UserFullName     *string
	UserDepartmentID *int64
}

func (r *LeaveRequest) IsPending() bool {
	return r.Status == StatusPending
}
