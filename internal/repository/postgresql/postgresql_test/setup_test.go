package postgresql_test

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/stretchr/testify/require"
)

// schema mirrors the tables the repositories expect. Production schema is managed
// outside this repository.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS profiles (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		full_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		role TEXT NOT NULL,
		salary NUMERIC(14,2) NOT NULL DEFAULT 0,
		deduction_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		paid_leaves INT NOT NULL DEFAULT 0,
		wallet_balance NUMERIC(14,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS attendance (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		check_in TIMESTAMPTZ,
		check_out TIMESTAMPTZ,
		status TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (user_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS leave_requests (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		date DATE NOT NULL,
		reason TEXT NOT NULL,
		status TEXT NOT NULL,
		will_work_sunday BOOLEAN NOT NULL DEFAULT FALSE,
		is_paid_leave BOOLEAN NOT NULL DEFAULT FALSE,
		reviewed_by UUID,
		reviewed_at TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS leave_requests_active_uq
		ON leave_requests (user_id, date) WHERE status IN ('Pending', 'Approved')`,
	`CREATE TABLE IF NOT EXISTS holidays (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		date DATE NOT NULL UNIQUE,
		name TEXT NOT NULL,
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS tasks (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		title TEXT NOT NULL,
		description TEXT,
		assignee_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		status TEXT NOT NULL,
		payment_amount NUMERIC(14,2) NOT NULL DEFAULT 0,
		deadline DATE,
		created_by UUID NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS wallet_transactions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		type TEXT NOT NULL,
		amount NUMERIC(14,2) NOT NULL CHECK (amount > 0),
		description TEXT NOT NULL,
		task_id UUID,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS salary_snapshots (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		user_id UUID NOT NULL REFERENCES profiles(id) ON DELETE CASCADE,
		period_year INT NOT NULL,
		period_month INT NOT NULL,
		absences_count INT NOT NULL,
		total_deduction NUMERIC(14,2) NOT NULL,
		final_salary NUMERIC(14,2) NOT NULL,
		working_days_count INT NOT NULL,
		present_count INT NOT NULL,
		paid_leaves_used INT NOT NULL,
		remaining_paid_leaves INT NOT NULL,
		computed_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, period_year, period_month)
	)`,
}

var tables = []string{
	"salary_snapshots",
	"wallet_transactions",
	"tasks",
	"holidays",
	"leave_requests",
	"attendance",
	"profiles",
}

// newTestDatabase connects to TEST_DATABASE_URL, creates the schema and empties every
// table. The test is skipped when the variable is not set.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err, "failed to connect to test database")
	t.Cleanup(db.Close)

	for _, stmt := range schema {
		_, err := db.Exec(ctx, stmt)
		require.NoError(t, err)
	}
	truncateAllTables(t, db)

	return db
}

func truncateAllTables(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()

	tx, err := db.BeginTx(ctx)
	require.NoError(t, err)
	defer tx.Rollback(ctx)

	for _, table := range tables {
		_, err := tx.Exec(ctx, fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table))
		require.NoError(t, err, "failed to truncate table %s", table)
	}

	require.NoError(t, tx.Commit(ctx))
}

// createProfile inserts a profile and returns its id.
func createProfile(t *testing.T, db *database.DB, name, role string, salary, deduction string, paidLeaves int) string {
	t.Helper()

	var id string
	err := db.QueryRow(context.Background(), `
		INSERT INTO profiles (full_name, email, role, salary, deduction_amount, paid_leaves)
		VALUES ($1, $2, $3, $4::numeric, $5::numeric, $6)
		RETURNING id
	`, name, name+"@example.com", role, salary, deduction, paidLeaves).Scan(&id)
	require.NoError(t, err)
	return id
}
