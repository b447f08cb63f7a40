package postgresql

import (
	"context"
	"fmt"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
)

type salarySnapshotRepositoryImpl struct {
	db *database.DB
}

func NewSalarySnapshotRepository(db *database.DB) payroll.SnapshotRepository {
	return &salarySnapshotRepositoryImpl{db: db}
}

// Upsert implements payroll.SnapshotRepository.
func (r *salarySnapshotRepositoryImpl) Upsert(ctx context.Context, s payroll.Snapshot) (payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_snapshots (
			user_id, period_year, period_month, absences_count, total_deduction, final_salary,
			working_days_count, present_count, paid_leaves_used, remaining_paid_leaves, computed_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, period_year, period_month)
		DO UPDATE SET
			absences_count = EXCLUDED.absences_count,
			total_deduction = EXCLUDED.total_deduction,
			final_salary = EXCLUDED.final_salary,
			working_days_count = EXCLUDED.working_days_count,
			present_count = EXCLUDED.present_count,
			paid_leaves_used = EXCLUDED.paid_leaves_used,
			remaining_paid_leaves = EXCLUDED.remaining_paid_leaves,
			computed_at = EXCLUDED.computed_at
		RETURNING id
	`

	err := q.QueryRow(ctx, query,
		s.UserID,
		s.Month.Year,
		int(s.Month.Month),
		s.AbsencesCount,
		s.TotalDeduction,
		s.FinalSalary,
		s.WorkingDaysCount,
		s.PresentCount,
		s.PaidLeavesUsed,
		s.RemainingPaidLeaves,
		s.ComputedAt,
	).Scan(&s.ID)
	if err != nil {
		return payroll.Snapshot{}, fmt.Errorf("failed to upsert salary snapshot: %w", err)
	}
	return s, nil
}

// ListByMonth implements payroll.SnapshotRepository.
func (r *salarySnapshotRepositoryImpl) ListByMonth(ctx context.Context, month clock.Month) ([]payroll.Snapshot, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.user_id, s.absences_count, s.total_deduction, s.final_salary,
			   s.working_days_count, s.present_count, s.paid_leaves_used, s.remaining_paid_leaves,
			   s.computed_at, p.full_name
		FROM salary_snapshots s
		INNER JOIN profiles p ON p.id = s.user_id
		WHERE s.period_year = $1 AND s.period_month = $2
		ORDER BY p.full_name ASC
	`

	rows, err := q.Query(ctx, query, month.Year, int(month.Month))
	if err != nil {
		return nil, fmt.Errorf("failed to list salary snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []payroll.Snapshot
	for rows.Next() {
		s := payroll.Snapshot{Month: month}
		var name string
		err := rows.Scan(
			&s.ID,
			&s.UserID,
			&s.AbsencesCount,
			&s.TotalDeduction,
			&s.FinalSalary,
			&s.WorkingDaysCount,
			&s.PresentCount,
			&s.PaidLeavesUsed,
			&s.RemainingPaidLeaves,
			&s.ComputedAt,
			&name,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan salary snapshot: %w", err)
		}
		s.UserName = &name
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate salary snapshots: %w", err)
	}

	return snapshots, nil
}
