package task

import "context"

type TaskRepository interface {
	Create(ctx context.Context, task Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)
	List(ctx context.Context, filter TaskFilter) ([]Task, error)
	ListByAssignee(ctx context.Context, assigneeID string) ([]Task, error)

	// UpdateStatus moves the task from one status to another. Returns ErrInvalidTransition
	// when the stored status is no longer from.
	UpdateStatus(ctx context.Context, id string, from, to Status) (Task, error)
}
