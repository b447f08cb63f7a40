package task

import "errors"

var (
	ErrTaskNotFound      = errors.New("task not found")
	ErrInvalidTransition = errors.New("task status transition not allowed")
	ErrNotTaskAssignee   = errors.New("task is not assigned to you")
	ErrInvalidAssignee   = errors.New("tasks can only be assigned to employees or freelancers")
)
