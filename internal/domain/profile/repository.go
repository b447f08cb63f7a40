package profile

import (
	"context"

	"github.com/shopspring/decimal"
)

type ProfileRepository interface {
	GetByID(ctx context.Context, id string) (Profile, error)

	// GetByIDForUpdate locks the profile row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id string) (Profile, error)

	ListByRole(ctx context.Context, role Role) ([]Profile, error)

	// DecrementPaidLeaves takes one paid leave off the counter in a single statement and
	// returns what is left. Returns ErrNoPaidLeavesRemaining when the counter is already 0.
	DecrementPaidLeaves(ctx context.Context, id string) (int, error)

	// IncrementWalletBalance adds delta (which may be negative) to the cached balance in a
	// single statement and returns the new balance.
	IncrementWalletBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error)

	// ResetWalletBalanceToLedger overwrites the cached balance with the ledger sum.
	ResetWalletBalanceToLedger(ctx context.Context, id string) (decimal.Decimal, error)
}
