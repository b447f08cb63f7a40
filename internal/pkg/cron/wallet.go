package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
)

const ReconcileWalletBalancesJob = "reconcile_wallet_balances"

type WalletJobs struct {
	walletService wallet.WalletService
}

func NewWalletJobs(walletService wallet.WalletService) *WalletJobs {
	return &WalletJobs{walletService: walletService}
}

func (j *WalletJobs) RegisterJobs(scheduler *Scheduler, interval time.Duration) {
	scheduler.AddJob(ReconcileWalletBalancesJob, interval, j.ReconcileWalletBalances)
}

// ReconcileWalletBalances resets cached freelancer balances that drifted from the ledger.
func (j *WalletJobs) ReconcileWalletBalances(ctx context.Context) error {
	slog.Info("Cron: Starting wallet reconciliation job")

	corrected, err := j.walletService.ReconcileAll(ctx)
	if err != nil {
		return fmt.Errorf("reconcile wallet balances: %w", err)
	}

	slog.Info("Cron: Wallet reconciliation completed", "corrected", corrected)
	return nil
}
