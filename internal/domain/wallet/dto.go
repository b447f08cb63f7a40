package wallet

import (
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type PayoutRequest struct {
	UserID      string          `json:"user_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
}

func (r *PayoutRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs.Add("user_id", "user_id must be a valid UUID")
	}

	if !r.Amount.IsPositive() {
		errs.Add("amount", "amount must be greater than 0")
	}

	if len(r.Description) > 255 {
		errs.Add("description", "description must not exceed 255 characters")
	}

	return errs.Err()
}

type TransactionResponse struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	TaskID      *string         `json:"task_id,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type WalletResponse struct {
	UserID   string          `json:"user_id"`
	FullName string          `json:"full_name"`
	Balance  decimal.Decimal `json:"balance"`
	// Reconciled is true when the cached balance had drifted from the ledger and was reset.
	Reconciled   bool                  `json:"reconciled"`
	Transactions []TransactionResponse `json:"transactions"`
}
