package task

import (
	"context"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
)

type TaskService interface {
	Create(ctx context.Context, actor access.Actor, req CreateTaskRequest) (TaskResponse, error)
	List(ctx context.Context, actor access.Actor, filter TaskFilter) (ListTaskResponse, error)
	Get(ctx context.Context, actor access.Actor, id int64) (TaskResponse, error)
	// UpdateStatus changes the status and, when a comment is given, appends it atomically
	UpdateStatus(ctx context.Context, actor access.Actor, id int64, req UpdateTaskStatusRequest) (TaskResponse, error)
	ListComments(ctx context.Context, actor access.Actor, id int64) ([]CommentResponse, error)
	AddComment(ctx context.Context, actor access.Actor, id int64, req CreateCommentRequest) (CommentResponse, error)
}
