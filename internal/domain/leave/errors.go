package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrDuplicateLeaveRequest        = errors.New("a leave request for this date already exists")
	ErrInsufficientPaidLeaves       = errors.New("no paid leaves remaining")
)
