package task

import (
	"time"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusCancelled  Status = "cancelled"
)

type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

type Task struct {
	ID           int64
	Title        string
	Description  *string
	Status       Status
	Priority     Priority
	AssigneeID   int64
	AssignedByID int64
	DepartmentID *int64
	DueDate      *time.Time
	AssignedAt   time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// Join
	AssigneeName   *string
	AssignedByName *string
}

// Subject returns the fields the authorization policy decides on.
func (t *Task) Subject() access.TaskSubject {
	return access.TaskSubject{
		AssigneeID:   t.AssigneeID,
		AssignedByID: t.AssignedByID,
		DepartmentID: t.DepartmentID,
	}
}

// Comment is append-only.
type Comment struct {
	ID        int64
	TaskID    int64
	UserID    int64
	Body      string
	CreatedAt time.Time

	// Join
	UserFullName *string
}
