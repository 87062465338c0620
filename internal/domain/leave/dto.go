package leave

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveRequest struct {
	LeaveType string  `json:"leave_type" validate:"required,oneof=casual sick annual unpaid other"`
	StartDate string  `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string  `json:"end_date" validate:"required,datetime=2006-01-02"`
	Reason    *string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *CreateLeaveRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil && !errors.As(err, &errs) {
		return err
	}

	start, okStart := validator.IsValidDate(r.StartDate)
	end, okEnd := validator.IsValidDate(r.EndDate)
	if okStart && okEnd && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be on or after start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Dates returns the parsed range. Call after Validate.
func (r *CreateLeaveRequest) Dates() (time.Time, time.Time) {
	start, _ := validator.IsValidDate(r.StartDate)
	end, _ := validator.IsValidDate(r.EndDate)
	return start, end
}

type RejectLeaveRequest struct {
	Reason *string `json:"reason" validate:"omitempty,max=1000"`
}

func (r *RejectLeaveRequest) Validate() error {
	return validator.Struct(r)
}

type LeaveFilter struct {
	Status *string `json:"status"`
	Page   int     `json:"page"`
	Limit  int     `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	// Page validation
	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	// Limit validation
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		validStatuses := []string{"pending", "approved", "rejected"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, approved, rejected",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveResponse struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	UserFullName    *string         `json:"user_full_name,omitempty"`
	LeaveType       Type            `json:"leave_type"`
	StartDate       string          `json:"start_date"`
	EndDate         string          `json:"end_date"`
	DaysCount       int             `json:"days_count"`
	Reason          *string         `json:"reason"`
	Status          Status          `json:"status"`
	SalaryDeducted  decimal.Decimal `json:"salary_deducted"`
	DecidedByID     *int64          `json:"decided_by_id"`
	DecidedAt       *string         `json:"decided_at"`
	RejectionReason *string         `json:"rejection_reason"`
	CreatedAt       string          `json:"created_at"`
}

func NewLeaveResponse(r LeaveRequest) LeaveResponse {
	resp := LeaveResponse{
		ID:              r.ID,
		UserID:          r.UserID,
		UserFullName:    r.UserFullName,
		LeaveType:       r.LeaveType,
		StartDate:       r.StartDate.Format("2006-01-02"),
		EndDate:         r.EndDate.Format("2006-01-02"),
		DaysCount:       r.DaysCount,
		Reason:          r.Reason,
		Status:          r.Status,
		SalaryDeducted:  r.SalaryDeducted,
		DecidedByID:     r.DecidedByID,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt.Format(time.RFC3339),
	}
	if r.DecidedAt != nil {
		decided := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &decided
	}
	return resp
}

type ListLeaveResponse struct {
	TotalCount int64           `json:"total_count"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"total_pages"`
	Showing    string          `json:"showing"`
	Leaves     []LeaveResponse `json:"leaves"`
}
