package leave

import (
	"context"
)

type LeaveService interface {
	// Create files a leave request for the authenticated user
	Create(ctx context.Context, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)

	ListMine(ctx context.Context) ([]LeaveRequestResponse, error)

	List(ctx context.Context, filter ListFilter) ([]LeaveRequestResponse, error)

	// Approve approves a pending request. A paid leave consumes one paid leave and marks
	// the day Paid Off in the same transaction.
	Approve(ctx context.Context, id string) (LeaveRequestResponse, error)

	Reject(ctx context.Context, id string) (LeaveRequestResponse, error)
}
