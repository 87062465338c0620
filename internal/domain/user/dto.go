package user

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type UserResponse struct {
	ID             int64            `json:"id"`
	Username       string           `json:"username"`
	Email          string           `json:"email"`
	FullName       string           `json:"full_name"`
	Role           string           `json:"role"`
	DepartmentID   *int64           `json:"department_id"`
	DepartmentName *string          `json:"department_name,omitempty"`
	Salary         *decimal.Decimal `json:"salary,omitempty"`
	CreatedAt      string           `json:"created_at"`
}

// NewUserResponse renders u; the salary is included only when withSalary is set.
func NewUserResponse(u User, withSalary bool) UserResponse {
	resp := UserResponse{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		FullName:       u.FullName,
		Role:           u.Role.String(),
		DepartmentID:   u.DepartmentID,
		DepartmentName: u.DepartmentName,
		CreatedAt:      u.CreatedAt.Format(time.RFC3339),
	}
	if withSalary {
		salary := u.Salary
		resp.Salary = &salary
	}
	return resp
}

type UpdateUserRequest struct {
	FullName     *string          `json:"full_name" validate:"omitempty,min=1,max=255"`
	Email        *string          `json:"email" validate:"omitempty,email,max=254"`
	Role         *string          `json:"role"`
	DepartmentID *int64           `json:"department_id" validate:"omitempty,gt=0"`
	Salary       *decimal.Decimal `json:"salary"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil && !errors.As(err, &errs) {
		return err
	}

	if r.FullName == nil && r.Email == nil && r.Role == nil && r.DepartmentID == nil && r.Salary == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "at least one field must be provided",
		})
	}

	if r.Role != nil {
		role, err := access.ParseRole(*r.Role)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: err.Error(),
			})
		} else {
			normalized := role.String()
			r.Role = &normalized
		}
	}

	if r.Salary != nil && r.Salary.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "salary",
			Message: "salary must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasRestrictedFields reports whether the request touches role, department or salary.
func (r *UpdateUserRequest) HasRestrictedFields() bool {
	return r.Role != nil || r.DepartmentID != nil || r.Salary != nil
}

type ListUserFilter struct {
	Search       *string `json:"search"`
	Role         *string `json:"role"`
	DepartmentID *int64  `json:"department_id"`
	Page         int     `json:"page"`
	Limit        int     `json:"limit"`
}

func (f *ListUserFilter) Validate() error {
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

	if f.Role != nil {
		role, err := access.ParseRole(*f.Role)
		if err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: err.Error(),
			})
		} else {
			normalized := role.String()
			f.Role = &normalized
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListUserResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Users      []UserResponse `json:"users"`
}
