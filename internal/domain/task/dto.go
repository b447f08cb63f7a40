package task

import (
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateTaskRequest struct {
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	AssigneeID    string          `json:"assignee_id"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	Deadline      *string         `json:"deadline,omitempty"` // YYYY-MM-DD
}

func (r *CreateTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Title) {
		errs.Add("title", "title is required")
	} else if len(r.Title) > 200 {
		errs.Add("title", "title must not exceed 200 characters")
	}

	if !validator.IsValidUUID(r.AssigneeID) {
		errs.Add("assignee_id", "assignee_id must be a valid UUID")
	}

	if r.PaymentAmount.IsNegative() {
		errs.Add("payment_amount", "payment_amount must not be negative")
	}

	if r.Deadline != nil {
		if _, valid := validator.IsValidDate(*r.Deadline); !valid {
			errs.Add("deadline", "deadline must be in YYYY-MM-DD format")
		}
	}

	return errs.Err()
}

// ReviewDecision enum
type ReviewDecision string

const (
	DecisionApprove ReviewDecision = "approve"
	DecisionRevise  ReviewDecision = "revise"
)

type ReviewTaskRequest struct {
	ID       string         `json:"-"`
	Decision ReviewDecision `json:"decision"`
}

func (r *ReviewTaskRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs.Add("id", "id must be a valid UUID")
	}

	if r.Decision != DecisionApprove && r.Decision != DecisionRevise {
		errs.Add("decision", "decision must be one of: approve, revise")
	}

	return errs.Err()
}

// Target returns the status the decision moves a task in review to.
func (d ReviewDecision) Target() Status {
	if d == DecisionApprove {
		return StatusCompleted
	}
	return StatusRevision
}

type TaskFilter struct {
	Status     string `json:"status"`
	AssigneeID string `json:"assignee_id"`
}

func (f *TaskFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != "" && !Status(f.Status).IsValid() {
		errs.Add("status", "status must be one of: Pending, Review, Revision, Completed")
	}

	if f.AssigneeID != "" && !validator.IsValidUUID(f.AssigneeID) {
		errs.Add("assignee_id", "assignee_id must be a valid UUID")
	}

	return errs.Err()
}

type TaskResponse struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Description   *string         `json:"description,omitempty"`
	AssigneeID    string          `json:"assignee_id"`
	AssigneeName  *string         `json:"assignee_name,omitempty"`
	Status        Status          `json:"status"`
	PaymentAmount decimal.Decimal `json:"payment_amount"`
	Deadline      *string         `json:"deadline,omitempty"`
	CreatedBy     string          `json:"created_by"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
	// WalletCredited is set when the review paid the assignee.
	WalletCredited *decimal.Decimal `json:"wallet_credited,omitempty"`
}
