package task

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status enum
type Status string

const (
	StatusPending   Status = "Pending"
	StatusReview    Status = "Review"
	StatusRevision  Status = "Revision"
	StatusCompleted Status = "Completed"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusReview, StatusRevision, StatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID            string
	Title         string
	Description   *string
	AssigneeID    string
	Status        Status
	PaymentAmount decimal.Decimal
	Deadline      *time.Time
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// DTO
	AssigneeName *string
}
