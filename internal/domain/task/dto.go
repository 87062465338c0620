package task

import (
	"errors"
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/validator"
)

type CreateTaskRequest struct {
	Title       string  `json:"title" validate:"required,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Priority    string  `json:"priority" validate:"required,oneof=critical high medium low"`
	AssigneeID  int64   `json:"assignee_id" validate:"required,gt=0"`
	DueDate     *string `json:"due_date" validate:"omitempty,datetime=2006-01-02"`
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil && !errors.As(err, &errs) {
		return err
	}
	if r.Title != "" && validator.IsEmpty(r.Title) {
		errs = append(errs, validator.ValidationError{
			Field:   "title",
			Message: "title is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedDueDate returns the due date, nil when unset. Call after Validate.
func (r *CreateTaskRequest) ParsedDueDate() *time.Time {
	if r.DueDate == nil {
		return nil
	}
	d, ok := validator.IsValidDate(*r.DueDate)
	if !ok {
		return nil
	}
	return &d
}

type UpdateTaskStatusRequest struct {
	Status  string  `json:"status" validate:"required,oneof=pending in_progress completed on_hold cancelled"`
	Comment *string `json:"comment" validate:"omitempty,min=1,max=2000"`
}

func (r *UpdateTaskStatusRequest) Validate() error {
	return validator.Struct(r)
}

type CreateCommentRequest struct {
	Body string `json:"body" validate:"required,max=2000"`
}

func (r *CreateCommentRequest) Validate() error {
	var errs validator.ValidationErrors
	if err := validator.Struct(r); err != nil && !errors.As(err, &errs) {
		return err
	}
	if r.Body != "" && validator.IsEmpty(r.Body) {
		errs = append(errs, validator.ValidationError{
			Field:   "body",
			Message: "body is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaskFilter struct {
	Status   *string `json:"status"`
	Priority *string `json:"priority"`
	Page     int     `json:"page"`
	Limit    int     `json:"limit"`
}

func (f *TaskFilter) Validate() error {
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
		validStatuses := []string{"pending", "in_progress", "completed", "on_hold", "cancelled"}
		if !validator.IsInSlice(*f.Status, validStatuses) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: pending, in_progress, completed, on_hold, cancelled",
			})
		}
	}

	if f.Priority != nil {
		validPriorities := []string{"critical", "high", "medium", "low"}
		if !validator.IsInSlice(*f.Priority, validPriorities) {
			errs = append(errs, validator.ValidationError{
				Field:   "priority",
				Message: "priority must be one of: critical, high, medium, low",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TaskResponse struct {
	ID             int64    `json:"id"`
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Status         Status   `json:"status"`
	Priority       Priority `json:"priority"`
	AssigneeID     int64    `json:"assignee_id"`
	AssigneeName   *string  `json:"assignee_name,omitempty"`
	AssignedByID   int64    `json:"assigned_by_id"`
	AssignedByName *string  `json:"assigned_by_name,omitempty"`
	DepartmentID   *int64   `json:"department_id"`
	DueDate        *string  `json:"due_date"`
	AssignedAt     string   `json:"assigned_at"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func NewTaskResponse(t Task) TaskResponse {
	resp := TaskResponse{
		ID:             t.ID,
		Title:          t.Title,
		Description:    t.Description,
		Status:         t.Status,
		Priority:       t.Priority,
		AssigneeID:     t.AssigneeID,
		AssigneeName:   t.AssigneeName,
		AssignedByID:   t.AssignedByID,
		AssignedByName: t.AssignedByName,
		DepartmentID:   t.DepartmentID,
		AssignedAt:     t.AssignedAt.Format(time.RFC3339),
		CreatedAt:      t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:      t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		due := t.DueDate.Format("2006-01-02")
		resp.DueDate = &due
	}
	return resp
}

type ListTaskResponse struct {
	TotalCount int64          `json:"total_count"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"total_pages"`
	Showing    string         `json:"showing"`
	Tasks      []TaskResponse `json:"tasks"`
}

type CommentResponse struct {
	ID           int64   `json:"id"`
	TaskID       int64   `json:"task_id"`
	UserID       int64   `json:"user_id"`
	UserFullName *string `json:"user_full_name,omitempty"`
	Body         string  `json:"body"`
	CreatedAt    string  `json:"created_at"`
}

func NewCommentResponse(c Comment) CommentResponse {
	return CommentResponse{
		ID:           c.ID,
		TaskID:       c.TaskID,
		UserID:       c.UserID,
		UserFullName: c.UserFullName,
		Body:         c.Body,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}
