package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	// Create returns ErrDuplicateLeaveRequest when the user already has a pending or
	// approved request for the date.
	Create(ctx context.Context, request LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string) (LeaveRequest, error)

	// ExistsActive reports whether the user has a pending or approved request for date.
	ExistsActive(ctx context.Context, userID string, date time.Time) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]LeaveRequest, error)

	List(ctx context.Context, filter ListFilter) ([]LeaveRequest, error)

	// ListByUserBetween returns every request of the user with from <= date <= to.
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]LeaveRequest, error)

	// CountApprovedPaidBetween counts approved paid leaves with from <= date <= to.
	CountApprovedPaidBetween(ctx context.Context, userID string, from, to time.Time) (int, error)

	// Review moves a Pending request to status. Returns ErrLeaveRequestAlreadyProcessed
	// when the request is no longer Pending.
	Review(ctx context.Context, id string, status Status, reviewerID string, reviewedAt time.Time) (LeaveRequest, error)
}
