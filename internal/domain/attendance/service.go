package attendance

import (
	"context"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the authenticated user
	CheckIn(ctx context.Context) (AttendanceResponse, error)

	// CheckOut closes today's record, downgrading short sessions to Half Day
	CheckOut(ctx context.Context) (AttendanceResponse, error)

	// SetStatus overrides the status of one user's day (admin)
	SetStatus(ctx context.Context, req SetStatusRequest) (AttendanceResponse, error)

	// GetMyAttendance retrieves the authenticated user's records for a month
	GetMyAttendance(ctx context.Context, filter MyAttendanceFilter) ([]AttendanceResponse, error)

	// ListByDate retrieves every record on a date (admin)
	ListByDate(ctx context.Context, filter DateFilter) ([]AttendanceResponse, error)

	// GetCalendar returns one entry per day of the month for a user
	GetCalendar(ctx context.Context, req CalendarRequest) (CalendarResponse, error)

	// TodaySummary counts employees per effective status today (admin)
	TodaySummary(ctx context.Context) (TodaySummaryResponse, error)
}
