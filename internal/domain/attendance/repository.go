package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are business dates at midnight UTC.
type AttendanceRepository interface {
	// Create inserts a new record. Returns ErrAlreadyCheckedIn when (user, date) exists.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByUserAndDate returns ErrAttendanceNotFound when there is no record.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (Attendance, error)

	// CloseSession sets check_out and status on a record that is still open.
	// Returns ErrAlreadyCheckedOut when the record was closed concurrently.
	CloseSession(ctx context.Context, id string, checkOut time.Time, status Status) (Attendance, error)

	// UpsertStatus creates or overwrites the status of (user, date).
	UpsertStatus(ctx context.Context, userID string, date time.Time, status Status) (Attendance, error)

	// UpsertStatusForUsers sets status for every user on date, leaving records that
	// have a check-in untouched. Returns the number of rows written.
	UpsertStatusForUsers(ctx context.Context, userIDs []string, date time.Time, status Status) (int64, error)

	// DeleteUnattendedByDateAndStatus removes records on date with the given status and no check-in.
	DeleteUnattendedByDateAndStatus(ctx context.Context, date time.Time, status Status) (int64, error)

	// ListByUserBetween returns a user's records with from <= date <= to, oldest first.
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	// ListByDate returns every record on date with UserName populated.
	ListByDate(ctx context.Context, date time.Time) ([]Attendance, error)

	// FirstAttendanceDate returns the user's earliest record date, or nil if none.
	FirstAttendanceDate(ctx context.Context, userID string) (*time.Time, error)
}
