package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/access"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type TaskServiceImpl struct {
	tx          database.Transactor
	taskRepo    task.TaskRepository
	commentRepo task.CommentRepository
	userRepo    user.UserRepository
	mailer      email.Mailer
	frontendURL string
}

var _ task.TaskService = (*TaskServiceImpl)(nil)

func NewTaskService(
	tx database.Transactor,
	taskRepo task.TaskRepository,
	commentRepo task.CommentRepository,
	userRepo user.UserRepository,
	mailer email.Mailer,
	frontendURL string,
) *TaskServiceImpl {
	return &TaskServiceImpl{
		tx:          tx,
		taskRepo:    taskRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		mailer:      mailer,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

// Create implements task.TaskService.
func (s *TaskServiceImpl) Create(ctx context.Context, actor access.Actor, req task.CreateTaskRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	assignee, err := s.userRepo.GetByID(ctx, req.AssigneeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return task.TaskResponse{}, task.ErrAssigneeNotFound
		}
		return task.TaskResponse{}, fmt.Errorf("failed to get assignee: %w", err)
	}
	if !access.CanAssignTask(actor, assignee.Subject()) {
		return task.TaskResponse{}, task.ErrTaskAssignForbidden
	}

	created, err := s.taskRepo.Create(ctx, task.Task{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		Status:       task.StatusPending,
		Priority:     task.Priority(req.Priority),
		AssigneeID:   assignee.ID,
		AssignedByID: actor.ID,
		DepartmentID: assignee.DepartmentID,
		DueDate:      req.ParsedDueDate(),
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	s.notifyAssigned(ctx, assignee, created)
	return task.NewTaskResponse(created), nil
}

func (s *TaskServiceImpl) notifyAssigned(ctx context.Context, assignee user.User, t task.Task) {
	data := email.TaskAssignedData{
		AssigneeName: assignee.FullName,
		Title:        t.Title,
		Priority:     string(t.Priority),
		Link:         fmt.Sprintf("%s/tasks/%d", s.frontendURL, t.ID),
	}
	if t.AssignedByName != nil {
		data.AssignedByName = *t.AssignedByName
	}
	if t.DueDate != nil {
		data.DueDate = t.DueDate.Format("2006-01-02")
	}
	if err := s.mailer.SendTaskAssigned(ctx, assignee.Email, data); err != nil {
		slog.Warn("failed to send task assignment email", "task_id", t.ID, "assignee_id", assignee.ID, "error", err)
	}
}

// List implements task.TaskService.
func (s *TaskServiceImpl) List(ctx context.Context, actor access.Actor, filter task.TaskFilter) (task.ListTaskResponse, error) {
	if err := filter.Validate(); err != nil {
		return task.ListTaskResponse{}, err
	}

	tasks, total, err := s.taskRepo.List(ctx, access.ListScope(actor), filter)
	if err != nil {
		return task.ListTaskResponse{}, err
	}

	responses := make([]task.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, task.NewTaskResponse(t))
	}

	return task.ListTaskResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: utils.TotalPages(total, filter.Limit),
		Showing:    utils.Showing(filter.Page, filter.Limit, total),
		Tasks:      responses,
	}, nil
}

func (s *TaskServiceImpl) visibleTask(ctx context.Context, actor access.Actor, id int64) (task.Task, error) {
	t, err := s.taskRepo.GetByID(ctx, id)
	if err != nil {
		return task.Task{}, err
	}
	if !access.CanViewTask(actor, t.Subject()) {
		return task.Task{}, task.ErrTaskViewForbidden
	}
	return t, nil
}

// Get implements task.TaskService.
func (s *TaskServiceImpl) Get(ctx context.Context, actor access.Actor, id int64) (task.TaskResponse, error) {
	t, err := s.visibleTask(ctx, actor, id)
	if err != nil {
		return task.TaskResponse{}, err
	}
	return task.NewTaskResponse(t), nil
}

// UpdateStatus implements task.TaskService.
func (s *TaskServiceImpl) UpdateStatus(ctx context.Context, actor access.Actor, id int64, req task.UpdateTaskStatusRequest) (task.TaskResponse, error) {
	if err := req.Validate(); err != nil {
		return task.TaskResponse{}, err
	}

	var updated task.Task
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.taskRepo.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if !access.CanUpdateTaskStatus(actor, current.Subject(), req.Status) {
			return task.ErrStatusForbidden
		}

		updated, err = s.taskRepo.UpdateStatus(txCtx, id, task.Status(req.Status))
		if err != nil {
			return err
		}

		if req.Comment != nil && strings.TrimSpace(*req.Comment) != "" {
			if _, err := s.commentRepo.Create(txCtx, task.Comment{
				TaskID: id,
				UserID: actor.ID,
				Body:   strings.TrimSpace(*req.Comment),
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return task.TaskResponse{}, err
	}

	return task.NewTaskResponse(updated), nil
}

// ListComments implements task.TaskService.
func (s *TaskServiceImpl) ListComments(ctx context.Context, actor access.Actor, id int64) ([]task.CommentResponse, error) {
	if _, err := s.visibleTask(ctx, actor, id); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByTask(ctx, id)
	if err != nil {
		return nil, err
	}
	responses := make([]task.CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, task.NewCommentResponse(c))
	}
	return responses, nil
}

// AddComment implements task.TaskService.
func (s *TaskServiceImpl) AddComment(ctx context.Context, actor access.Actor, id int64, req task.CreateCommentRequest) (task.CommentResponse, error) {
	if err := req.Validate(); err != nil {
		return task.CommentResponse{}, err
	}
	if _, err := s.visibleTask(ctx, actor, id); err != nil {
		return task.CommentResponse{}, err
	}

	c, err := s.commentRepo.Create(ctx, task.Comment{
		TaskID: id,
		UserID: actor.ID,
		Body:   strings.TrimSpace(req.Body),
	})
	if err != nil {
		return task.CommentResponse{}, err
	}
	return task.NewCommentResponse(c), nil
}
