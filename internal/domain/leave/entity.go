package leave

import (
	"time"
)

// Status enum
type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// LeaveRequest asks for a single day off.
type LeaveRequest struct {
	ID     string
	UserID string
	// Date is the requested day at midnight UTC.
	Date   time.Time
	Reason string
	Status Status
	// WillWorkSunday promises to work the Sunday following Date in exchange.
	WillWorkSunday bool
	IsPaidLeave    bool
	ReviewedBy     *string
	ReviewedAt     *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// DTO
	UserName *string
}

// IsSundayPromise reports whether this is an approved leave backed by a promise to work
// the following Sunday.
func (l LeaveRequest) IsSundayPromise() bool {
	return l.Status == StatusApproved && l.WillWorkSunday
}
