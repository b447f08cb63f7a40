package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type profileRepositoryImpl struct {
	db *database.DB
}

func NewProfileRepository(db *database.DB) profile.ProfileRepository {
	return &profileRepositoryImpl{db: db}
}

const profileColumns = `id, full_name, email, role, salary, deduction_amount, paid_leaves, wallet_balance, created_at, updated_at`

func scanProfile(row pgx.Row) (profile.Profile, error) {
	var p profile.Profile
	err := row.Scan(
		&p.ID,
		&p.FullName,
		&p.Email,
		&p.Role,
		&p.Salary,
		&p.DeductionAmount,
		&p.PaidLeaves,
		&p.WalletBalance,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

// GetByID implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByID(ctx context.Context, id string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1`

	p, err := scanProfile(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile by id: %w", err)
	}
	return p, nil
}

// GetByIDForUpdate implements profile.ProfileRepository.
func (r *profileRepositoryImpl) GetByIDForUpdate(ctx context.Context, id string) (profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE id = $1 FOR UPDATE`

	p, err := scanProfile(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return profile.Profile{}, profile.ErrProfileNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to lock profile: %w", err)
	}
	return p, nil
}

// ListByRole implements profile.ProfileRepository.
func (r *profileRepositoryImpl) ListByRole(ctx context.Context, role profile.Role) ([]profile.Profile, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + profileColumns + ` FROM profiles WHERE role = $1 ORDER BY full_name ASC`

	rows, err := q.Query(ctx, query, role)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles by role: %w", err)
	}
	defer rows.Close()

	var profiles []profile.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	return profiles, nil
}

// DecrementPaidLeaves implements profile.ProfileRepository.
func (r *profileRepositoryImpl) DecrementPaidLeaves(ctx context.Context, id string) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET paid_leaves = paid_leaves - 1, updated_at = NOW()
		WHERE id = $1 AND paid_leaves > 0
		RETURNING paid_leaves
	`

	var remaining int
	err := q.QueryRow(ctx, query, id).Scan(&remaining)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Either the profile is missing or the counter is already at zero.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return 0, getErr
			}
			return 0, profile.ErrNoPaidLeavesRemaining
		}
		return 0, fmt.Errorf("failed to decrement paid leaves: %w", err)
	}
	return remaining, nil
}

// IncrementWalletBalance implements profile.ProfileRepository.
func (r *profileRepositoryImpl) IncrementWalletBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET wallet_balance = wallet_balance + $2, updated_at = NOW()
		WHERE id = $1
		RETURNING wallet_balance
	`

	var balance decimal.Decimal
	err := q.QueryRow(ctx, query, id, delta).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, profile.ErrProfileNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to increment wallet balance: %w", err)
	}
	return balance, nil
}

// ResetWalletBalanceToLedger implements profile.ProfileRepository.
func (r *profileRepositoryImpl) ResetWalletBalanceToLedger(ctx context.Context, id string) (decimal.Decimal, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE profiles
		SET wallet_balance = (
				SELECT COALESCE(SUM(CASE WHEN type = 'debit' THEN -amount ELSE amount END), 0)
				FROM wallet_transactions
				WHERE user_id = $1
			),
			updated_at = NOW()
		WHERE id = $1
		RETURNING wallet_balance
	`

	var balance decimal.Decimal
	err := q.QueryRow(ctx, query, id).Scan(&balance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, profile.ErrProfileNotFound
		}
		return decimal.Zero, fmt.Errorf("failed to reset wallet balance: %w", err)
	}
	return balance, nil
}
