package task

import "context"

type TaskService interface {
	Create(ctx context.Context, req CreateTaskRequest) (TaskResponse, error)
	List(ctx context.Context, filter TaskFilter) ([]TaskResponse, error)
	ListMine(ctx context.Context) ([]TaskResponse, error)

	// Get returns a task to its assignee or to an admin
	Get(ctx context.Context, id string) (TaskResponse, error)

	// Submit moves the caller's task to Review
	Submit(ctx context.Context, id string) (TaskResponse, error)

	// Review completes a task or sends it back for revision. Completing a freelancer's
	// paid task credits their wallet in the same transaction.
	Review(ctx context.Context, req ReviewTaskRequest) (TaskResponse, error)
}
