package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// transactionHistoryLimit caps the transactions returned with a wallet.
const transactionHistoryLimit = 50

type WalletServiceImpl struct {
	tx              database.Transactor
	profileRepo     profile.ProfileRepository
	transactionRepo wallet.TransactionRepository
	clock           *clock.Business
}

func NewWalletService(
	tx database.Transactor,
	profileRepo profile.ProfileRepository,
	transactionRepo wallet.TransactionRepository,
	clk *clock.Business,
) wallet.WalletService {
	return &WalletServiceImpl{
		tx:              tx,
		profileRepo:     profileRepo,
		transactionRepo: transactionRepo,
		clock:           clk,
	}
}

// GetMyWallet implements wallet.WalletService.
func (s *WalletServiceImpl) GetMyWallet(ctx context.Context) (wallet.WalletResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return wallet.WalletResponse{}, err
	}
	return s.getWallet(ctx, claims.UserID)
}

// GetWallet implements wallet.WalletService.
func (s *WalletServiceImpl) GetWallet(ctx context.Context, userID string) (wallet.WalletResponse, error) {
	if !validator.IsValidUUID(userID) {
		var errs validator.ValidationErrors
		errs.Add("user_id", "user_id must be a valid UUID")
		return wallet.WalletResponse{}, errs
	}
	return s.getWallet(ctx, userID)
}

func (s *WalletServiceImpl) getWallet(ctx context.Context, userID string) (wallet.WalletResponse, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		return wallet.WalletResponse{}, err
	}
	if p.Role != profile.RoleFreelancer {
		return wallet.WalletResponse{}, profile.ErrNotAFreelancer
	}

	balance, reconciled, err := s.reconcile(ctx, p)
	if err != nil {
		return wallet.WalletResponse{}, err
	}

	transactions, err := s.transactionRepo.ListByUser(ctx, userID, transactionHistoryLimit)
	if err != nil {
		return wallet.WalletResponse{}, fmt.Errorf("failed to list wallet transactions: %w", err)
	}

	resp := wallet.WalletResponse{
		UserID:       p.ID,
		FullName:     p.FullName,
		Balance:      balance,
		Reconciled:   reconciled,
		Transactions: make([]wallet.TransactionResponse, 0, len(transactions)),
	}
	for _, t := range transactions {
		resp.Transactions = append(resp.Transactions, s.toTransactionResponse(t))
	}
	return resp, nil
}

// reconcile compares the cached balance with the ledger and resets the cache when
// they differ. It returns the balance to report.
func (s *WalletServiceImpl) reconcile(ctx context.Context, p profile.Profile) (decimal.Decimal, bool, error) {
	ledger, err := s.transactionRepo.LedgerBalance(ctx, p.ID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to sum wallet ledger: %w", err)
	}
	if p.WalletBalance.Equal(ledger) {
		return p.WalletBalance, false, nil
	}

	slog.Warn("Wallet balance drifted from ledger, resetting",
		"user_id", p.ID,
		"cached_balance", p.WalletBalance.String(),
		"ledger_balance", ledger.String(),
	)

	reset, err := s.profileRepo.ResetWalletBalanceToLedger(ctx, p.ID)
	if err != nil {
		return decimal.Zero, false, fmt.Errorf("failed to reset wallet balance: %w", err)
	}
	return reset, true, nil
}

// Payout implements wallet.WalletService.
func (s *WalletServiceImpl) Payout(ctx context.Context, req wallet.PayoutRequest) (wallet.TransactionResponse, error) {
	if err := req.Validate(); err != nil {
		return wallet.TransactionResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return wallet.TransactionResponse{}, err
	}

	description := req.Description
	if description == "" {
		description = "Payout"
	}

	var (
		debit   wallet.Transaction
		balance decimal.Decimal
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		p, err := s.profileRepo.GetByIDForUpdate(ctx, req.UserID)
		if err != nil {
			return err
		}
		if p.Role != profile.RoleFreelancer {
			return profile.ErrNotAFreelancer
		}

		ledger, err := s.transactionRepo.LedgerBalance(ctx, p.ID)
		if err != nil {
			return fmt.Errorf("failed to sum wallet ledger: %w", err)
		}
		if req.Amount.GreaterThan(ledger) {
			return wallet.ErrInsufficientBalance
		}

		debit, err = s.transactionRepo.Create(ctx, wallet.Transaction{
			UserID:      p.ID,
			Type:        wallet.TransactionDebit,
			Amount:      req.Amount,
			Description: description,
		})
		if err != nil {
			return fmt.Errorf("failed to record payout: %w", err)
		}

		balance, err = s.profileRepo.IncrementWalletBalance(ctx, p.ID, req.Amount.Neg())
		if err != nil {
			return fmt.Errorf("failed to debit wallet: %w", err)
		}
		return nil
	})
	if err != nil {
		return wallet.TransactionResponse{}, err
	}

	slog.Info("Wallet payout recorded",
		"user_id", req.UserID,
		"admin_id", claims.UserID,
		"amount", req.Amount.String(),
		"balance", balance.String(),
	)
	return s.toTransactionResponse(debit), nil
}

// ReconcileAll implements wallet.WalletService. A failure on one profile does not stop
// the others; all failures are returned together.
func (s *WalletServiceImpl) ReconcileAll(ctx context.Context) (int, error) {
	freelancers, err := s.profileRepo.ListByRole(ctx, profile.RoleFreelancer)
	if err != nil {
		return 0, fmt.Errorf("failed to list freelancers: %w", err)
	}

	corrected := 0
	var errs []error
	for _, p := range freelancers {
		_, reconciled, err := s.reconcile(ctx, p)
		if err != nil {
			errs = append(errs, fmt.Errorf("reconcile %s: %w", p.ID, err))
			continue
		}
		if reconciled {
			corrected++
		}
	}

	return corrected, errors.Join(errs...)
}

func (s *WalletServiceImpl) toTransactionResponse(t wallet.Transaction) wallet.TransactionResponse {
	return wallet.TransactionResponse{
		ID:          t.ID,
		Type:        t.Type,
		Amount:      t.Amount,
		Description: t.Description,
		TaskID:      t.TaskID,
		CreatedAt:   t.CreatedAt.In(s.clock.Location()).Format(time.RFC3339),
	}
}
