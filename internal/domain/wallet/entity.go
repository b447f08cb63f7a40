package wallet

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType enum
type TransactionType string

const (
	TransactionCredit TransactionType = "credit"
	TransactionDebit  TransactionType = "debit"
)

// Transaction is one wallet ledger entry. Amount is always positive; Type gives the sign.
type Transaction struct {
	ID          string
	UserID      string
	Type        TransactionType
	Amount      decimal.Decimal
	Description string
	TaskID      *string
	CreatedAt   time.Time
}

// Signed returns the amount with the sign implied by the type.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TransactionDebit {
		return t.Amount.Neg()
	}
	return t.Amount
}
