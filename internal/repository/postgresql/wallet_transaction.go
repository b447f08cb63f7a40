package postgresql

import (
	"context"
	"fmt"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type walletTransactionRepositoryImpl struct {
	db *database.DB
}

func NewWalletTransactionRepository(db *database.DB) wallet.TransactionRepository {
	return &walletTransactionRepositoryImpl{db: db}
}

// Create implements wallet.TransactionRepository.
func (r *walletTransactionRepositoryImpl) Create(ctx context.Context, t wallet.Transaction) (wallet.Transaction, error) {
	if !t.Amount.IsPositive() {
		return wallet.Transaction{}, wallet.ErrInvalidAmount
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO wallet_transactions (user_id, type, amount, description, task_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query, t.UserID, t.Type, t.Amount, t.Description, t.TaskID).Scan(&t.ID, &t.CreatedAt)
	if err != nil {
		return wallet.Transaction{}, fmt.Errorf("failed to create wallet transaction: %w", err)
	}
	return t, nil
}

// ListByUser implements wallet.TransactionRepository.
func (r *walletTransactionRepositoryImpl) ListByUser(ctx context.Context, userID string, limit int) ([]wallet.Transaction, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, user_id, type, amount, description, task_id, created_at
		FROM wallet_transactions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := q.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	defer rows.Close()

	var transactions []wallet.Transaction
	for rows.Next() {
		var t wallet.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.Type, &t.Amount, &t.Description, &t.TaskID, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan wallet transaction: %w", err)
		}
		transactions = append(transactions, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wallet transactions: %w", err)
	}

	return transactions, nil
}

// LedgerBalance implements wallet.TransactionRepository.
func (r *walletTransactionRepositoryImpl) LedgerBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COALESCE(SUM(CASE WHEN type = 'debit' THEN -amount ELSE amount END), 0)
		FROM wallet_transactions
		WHERE user_id = $1
	`

	var balance decimal.Decimal
	if err := q.QueryRow(ctx, query, userID).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum wallet ledger: %w", err)
	}
	return balance, nil
}
