package postgresql

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/workforce-backend-go/internal/domain/task"
	"github.com/cmlabs-hris/workforce-backend-go/internal/pkg/database"
)

type commentRepositoryImpl struct {
	db *database.DB
}

func NewCommentRepository(db *database.DB) task.CommentRepository {
	return &commentRepositoryImpl{db: db}
}

// Create implements task.CommentRepository.
func (r *commentRepositoryImpl) Create(ctx context.Context, c task.Comment) (task.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		WITH inserted AS (
			INSERT INTO comments (task_id, user_id, body)
			VALUES ($1, $2, $3)
			RETURNING id, task_id, user_id, body, created_at
		)
		SELECT i.id, i.task_id, i.user_id, i.body, i.created_at, u.full_name
		FROM inserted i
		JOIN users u ON u.id = i.user_id
	`
	var created task.Comment
	err := q.QueryRow(ctx, query, c.TaskID, c.UserID, c.Body).Scan(
		&created.ID,
		&created.TaskID,
		&created.UserID,
		&created.Body,
		&created.CreatedAt,
		&created.UserFullName,
	)
	if err != nil {
		return task.Comment{}, fmt.Errorf("failed to create comment: %w", err)
	}
	return created, nil
}

// ListByTask implements task.CommentRepository.
func (r *commentRepositoryImpl) ListByTask(ctx context.Context, taskID int64) ([]task.Comment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT c.id, c.task_id, c.user_id, c.body, c.created_at, u.full_name
		FROM comments c
		JOIN users u ON u.id = c.user_id
		WHERE c.task_id = $1
		ORDER BY c.created_at ASC, c.id ASC
	`
	rows, err := q.Query(ctx, query, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := make([]task.Comment, 0)
	for rows.Next() {
		var c task.Comment
		if err := rows.Scan(&c.ID, &c.TaskID, &c.UserID, &c.Body, &c.CreatedAt, &c.UserFullName); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}
