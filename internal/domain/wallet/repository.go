package wallet

import (
	"context"

	"github.com/shopspring/decimal"
)

type TransactionRepository interface {
	Create(ctx context.Context, transaction Transaction) (Transaction, error)

	// ListByUser returns the newest transactions first, at most limit rows.
	ListByUser(ctx context.Context, userID string, limit int) ([]Transaction, error)

	// LedgerBalance returns the signed sum of the user's transactions.
	LedgerBalance(ctx context.Context, userID string) (decimal.Decimal, error)
}
