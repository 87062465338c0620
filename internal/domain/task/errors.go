package task

import "errors"

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrAssigneeNotFound    = errors.New("assignee not found")
	ErrTaskAssignForbidden = errors.New("you cannot assign tasks to this user")
	ErrStatusForbidden     = errors.New("you cannot set this task to the requested status")
	ErrTaskViewForbidden   = errors.New("you cannot view this task")
)
