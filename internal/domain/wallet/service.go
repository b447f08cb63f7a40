package wallet

import "context"

type WalletService interface {
	GetMyWallet(ctx context.Context) (WalletResponse, error)
	GetWallet(ctx context.Context, userID string) (WalletResponse, error)

	// Payout records a debit and lowers the balance in one transaction
	Payout(ctx context.Context, req PayoutRequest) (TransactionResponse, error)

	// ReconcileAll resets every freelancer's cached balance that drifted from the
	// ledger and returns how many were corrected
	ReconcileAll(ctx context.Context) (int, error)
}
