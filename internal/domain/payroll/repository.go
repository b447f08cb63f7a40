package payroll

import (
	"context"

	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
)

type SnapshotRepository interface {
	// Upsert writes the snapshot for (user, month), replacing any earlier one.
	Upsert(ctx context.Context, snapshot Snapshot) (Snapshot, error)
	ListByMonth(ctx context.Context, month clock.Month) ([]Snapshot, error)
}
