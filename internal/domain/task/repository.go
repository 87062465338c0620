package task

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type TaskRepository interface {
	Create(ctx context.Context, newTask Task) (Task, error)
	GetByID(ctx context.Context, id int64) (Task, error)
	// List returns tasks in scope; Scope.UserID matches the assignee
	List(ctx context.Context, scope access.Scope, filter TaskFilter) ([]Task, int64, error)
	UpdateStatus(ctx context.Context, id int64, status Status) (Task, error)
}

type CommentRepository interface {
	Create(ctx context.Context, c Comment) (Comment, error)
	ListByTask(ctx context.Context, taskID int64) ([]Comment, error)
}
