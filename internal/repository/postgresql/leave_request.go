package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepositoryImpl struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepositoryImpl{db: db}
}

const leaveRequestColumns = `lr.id, lr.user_id, lr.date, lr.reason, lr.status, lr.will_work_sunday, lr.is_paid_leave,
	lr.reviewed_by, lr.reviewed_at, lr.created_at, lr.updated_at`

func scanLeaveRequest(row pgx.Row, extra ...any) (leave.LeaveRequest, error) {
	var lr leave.LeaveRequest
	dest := []any{
		&lr.ID,
		&lr.UserID,
		&lr.Date,
		&lr.Reason,
		&lr.Status,
		&lr.WillWorkSunday,
		&lr.IsPaidLeave,
		&lr.ReviewedBy,
		&lr.ReviewedAt,
		&lr.CreatedAt,
		&lr.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return leave.LeaveRequest{}, err
	}
	lr.Date = clock.Date(lr.Date)
	return lr, nil
}

// collectLeaveRequests scans rows selected with leaveRequestColumns followed by p.full_name.
func collectLeaveRequests(rows pgx.Rows) ([]leave.LeaveRequest, error) {
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		var name string
		lr, err := scanLeaveRequest(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		lr.UserName = &name
		requests = append(requests, lr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate leave requests: %w", err)
	}
	return requests, nil
}

// Create implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (user_id, date, reason, status, will_work_sunday, is_paid_leave)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.UserID,
		request.Date,
		request.Reason,
		request.Status,
		request.WillWorkSunday,
		request.IsPaidLeave,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return leave.LeaveRequest{}, leave.ErrDuplicateLeaveRequest
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests lr WHERE lr.id = $1`

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request by id: %w", err)
	}
	return lr, nil
}

// ExistsActive implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ExistsActive(ctx context.Context, userID string, date time.Time) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1 FROM leave_requests
			WHERE user_id = $1 AND date = $2 AND status IN ($3, $4)
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, userID, date, leave.StatusPending, leave.StatusApproved).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active leave request: %w", err)
	}
	return exists, nil
}

// ListByUser implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUser(ctx context.Context, userID string) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, p.full_name
		FROM leave_requests lr
		INNER JOIN profiles p ON p.id = lr.user_id
		WHERE lr.user_id = $1
		ORDER BY lr.date DESC
	`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests by user: %w", err)
	}
	return collectLeaveRequests(rows)
}

// List implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	whereClauses := []string{"1=1"}
	args := []any{}
	argIdx := 1

	if filter.Status != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.status = $%d", argIdx))
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.UserID != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("lr.user_id = $%d", argIdx))
		args = append(args, filter.UserID)
		argIdx++
	}
	if filter.Month != "" {
		month, err := clock.ParseMonth(filter.Month)
		if err != nil {
			return nil, err
		}
		whereClauses = append(whereClauses, fmt.Sprintf("lr.date BETWEEN $%d AND $%d", argIdx, argIdx+1))
		args = append(args, month.Start(), month.End())
	}

	query := `
		SELECT ` + leaveRequestColumns + `, p.full_name
		FROM leave_requests lr
		INNER JOIN profiles p ON p.id = lr.user_id
		WHERE ` + strings.Join(whereClauses, " AND ") + `
		ORDER BY lr.date DESC, lr.created_at DESC
	`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return collectLeaveRequests(rows)
}

// ListByUserBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveRequestColumns + `, p.full_name
		FROM leave_requests lr
		INNER JOIN profiles p ON p.id = lr.user_id
		WHERE lr.user_id = $1 AND lr.date BETWEEN $2 AND $3
		ORDER BY lr.date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests between dates: %w", err)
	}
	return collectLeaveRequests(rows)
}

// CountApprovedPaidBetween implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) CountApprovedPaidBetween(ctx context.Context, userID string, from, to time.Time) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM leave_requests
		WHERE user_id = $1 AND status = $2 AND is_paid_leave AND date BETWEEN $3 AND $4
	`

	var count int
	if err := q.QueryRow(ctx, query, userID, leave.StatusApproved, from, to).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count paid leaves: %w", err)
	}
	return count, nil
}

// Review implements leave.LeaveRequestRepository.
func (r *leaveRequestRepositoryImpl) Review(ctx context.Context, id string, status leave.Status, reviewerID string, reviewedAt time.Time) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests lr
		SET status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = NOW()
		WHERE lr.id = $1 AND lr.status = $5
		RETURNING ` + leaveRequestColumns

	lr, err := scanLeaveRequest(q.QueryRow(ctx, query, id, status, reviewerID, reviewedAt, leave.StatusPending))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Distinguish a missing request from one that was already reviewed.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return leave.LeaveRequest{}, getErr
			}
			return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to review leave request: %w", err)
	}
	return lr, nil
}
