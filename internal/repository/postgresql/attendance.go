package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `a.id, a.user_id, a.date, a.check_in, a.check_out, a.status, a.created_at, a.updated_at`

func scanAttendance(row pgx.Row, extra ...any) (attendance.Attendance, error) {
	var att attendance.Attendance
	dest := []any{
		&att.ID,
		&att.UserID,
		&att.Date,
		&att.CheckIn,
		&att.CheckOut,
		&att.Status,
		&att.CreatedAt,
		&att.UpdatedAt,
	}
	if err := row.Scan(append(dest, extra...)...); err != nil {
		return attendance.Attendance{}, err
	}
	att.Date = clock.Date(att.Date)
	return att, nil
}

func collectAttendance(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}
	return records, nil
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepository) Create(ctx context.Context, newAttendance attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance (user_id, date, check_in, check_out, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAttendance.UserID,
		newAttendance.Date,
		newAttendance.CheckIn,
		newAttendance.CheckOut,
		newAttendance.Status,
	).Scan(&newAttendance.ID, &newAttendance.CreatedAt, &newAttendance.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAttendance, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance a WHERE a.user_id = $1 AND a.date = $2`

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by user and date: %w", err)
	}
	return att, nil
}

// CloseSession implements attendance.AttendanceRepository.
func (r *attendanceRepository) CloseSession(ctx context.Context, id string, checkOut time.Time, status attendance.Status) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance a
		SET check_out = $2, status = $3, updated_at = NOW()
		WHERE a.id = $1 AND a.check_out IS NULL
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query, id, checkOut, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to close attendance session: %w", err)
	}
	return att, nil
}

// UpsertStatus implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpsertStatus(ctx context.Context, userID string, date time.Time, status attendance.Status) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance AS a (user_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		RETURNING ` + attendanceColumns

	att, err := scanAttendance(q.QueryRow(ctx, query, userID, date, status))
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance status: %w", err)
	}
	return att, nil
}

// UpsertStatusForUsers implements attendance.AttendanceRepository.
func (r *attendanceRepository) UpsertStatusForUsers(ctx context.Context, userIDs []string, date time.Time, status attendance.Status) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance AS a (user_id, date, status)
		SELECT u.id, $2::date, $3
		FROM unnest($1::uuid[]) AS u(id)
		ON CONFLICT (user_id, date)
		DO UPDATE SET status = EXCLUDED.status, updated_at = NOW()
		WHERE a.check_in IS NULL
	`

	tag, err := q.Exec(ctx, query, userIDs, date, status)
	if err != nil {
		return 0, fmt.Errorf("failed to upsert attendance status for users: %w", err)
	}
	return tag.RowsAffected(), nil
}

// DeleteUnattendedByDateAndStatus implements attendance.AttendanceRepository.
func (r *attendanceRepository) DeleteUnattendedByDateAndStatus(ctx context.Context, date time.Time, status attendance.Status) (int64, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		DELETE FROM attendance
		WHERE date = $1 AND status = $2 AND check_in IS NULL
	`

	tag, err := q.Exec(ctx, query, date, status)
	if err != nil {
		return 0, fmt.Errorf("failed to delete attendance by date and status: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ListByUserBetween implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendance a
		WHERE a.user_id = $1 AND a.date BETWEEN $2 AND $3
		ORDER BY a.date ASC
	`

	rows, err := q.Query(ctx, query, userID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by user: %w", err)
	}
	return collectAttendance(rows)
}

// ListByDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByDate(ctx context.Context, date time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `, p.full_name
		FROM attendance a
		INNER JOIN profiles p ON p.id = a.user_id
		WHERE a.date = $1
		ORDER BY p.full_name ASC
	`

	rows, err := q.Query(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var name string
		att, err := scanAttendance(rows, &name)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		att.UserName = &name
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendance: %w", err)
	}

	return records, nil
}

// FirstAttendanceDate implements attendance.AttendanceRepository.
func (r *attendanceRepository) FirstAttendanceDate(ctx context.Context, userID string) (*time.Time, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT MIN(date) FROM attendance WHERE user_id = $1`

	var first *time.Time
	if err := q.QueryRow(ctx, query, userID).Scan(&first); err != nil {
		return nil, fmt.Errorf("failed to get first attendance date: %w", err)
	}
	if first != nil {
		d := clock.Date(*first)
		first = &d
	}
	return first, nil
}
