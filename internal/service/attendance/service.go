package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	profile.ProfileRepository
	clock            *clock.Business
	halfDayThreshold time.Duration
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	profileRepo profile.ProfileRepository,
	clk *clock.Business,
	halfDayThreshold time.Duration,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		ProfileRepository:    profileRepo,
		clock:                clk,
		halfDayThreshold:     halfDayThreshold,
	}
}

// timePtrToString formats a timestamp in the business zone.
func (s *AttendanceServiceImpl) timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.In(s.clock.Location()).Format(time.RFC3339)
	return &formatted
}

func (s *AttendanceServiceImpl) toResponse(a attendance.Attendance, today time.Time) attendance.AttendanceResponse {
	effective := attendance.Effective(a, today)
	return attendance.AttendanceResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		UserName:       a.UserName,
		Date:           clock.DateKey(a.Date),
		CheckIn:        s.timePtrToString(a.CheckIn),
		CheckOut:       s.timePtrToString(a.CheckOut),
		Status:         effective.Status,
		RecordedStatus: a.Status,
	}
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context) (attendance.AttendanceResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now, s.clock.Location())

	_, err = s.AttendanceRepository.GetByUserAndDate(ctx, claims.UserID, today)
	if err == nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}
	if !errors.Is(err, attendance.ErrAttendanceNotFound) {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}

	checkIn := now.UTC()
	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		UserID:  claims.UserID,
		Date:    today,
		CheckIn: &checkIn,
		Status:  attendance.StatusPresent,
	})
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedIn) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to create attendance record: %w", err)
	}

	slog.Info("Checked in", "user_id", claims.UserID, "date", clock.DateKey(today))
	return s.toResponse(created, today), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context) (attendance.AttendanceResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	now := s.clock.Now()
	today := clock.DateOf(now, s.clock.Location())

	record, err := s.AttendanceRepository.GetByUserAndDate(ctx, claims.UserID, today)
	if err != nil {
		if errors.Is(err, attendance.ErrAttendanceNotFound) {
			return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	if record.CheckIn == nil {
		return attendance.AttendanceResponse{}, attendance.ErrNotCheckedIn
	}
	if record.CheckOut != nil {
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
	}

	checkOut := now.UTC()
	status := record.Status
	if checkOut.Sub(*record.CheckIn) < s.halfDayThreshold {
		status = attendance.StatusHalfDay
	}

	closed, err := s.AttendanceRepository.CloseSession(ctx, record.ID, checkOut, status)
	if err != nil {
		if errors.Is(err, attendance.ErrAlreadyCheckedOut) {
			return attendance.AttendanceResponse{}, err
		}
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to close attendance session: %w", err)
	}

	slog.Info("Checked out", "user_id", claims.UserID, "date", clock.DateKey(today), "status", status)
	return s.toResponse(closed, today), nil
}

// SetStatus implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) SetStatus(ctx context.Context, req attendance.SetStatusRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	if _, err := s.ProfileRepository.GetByID(ctx, req.UserID); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := s.AttendanceRepository.UpsertStatus(ctx, req.UserID, date, attendance.Status(req.Status))
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to set attendance status: %w", err)
	}

	slog.Info("Attendance status overridden",
		"admin_id", claims.UserID,
		"user_id", req.UserID,
		"date", req.Date,
		"status", req.Status,
	)
	return s.toResponse(record, s.clock.Today()), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyAttendanceFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	today := s.clock.Today()
	month, err := s.monthOrCurrent(filter.Month, today)
	if err != nil {
		return nil, err
	}

	records, err := s.AttendanceRepository.ListByUserBetween(ctx, claims.UserID, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.toResponse(r, today))
	}
	return responses, nil
}

// ListByDate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListByDate(ctx context.Context, filter attendance.DateFilter) ([]attendance.AttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	today := s.clock.Today()
	date := today
	if filter.Date != "" {
		parsed, err := clock.ParseDate(filter.Date)
		if err != nil {
			return nil, err
		}
		date = parsed
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by date: %w", err)
	}

	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, r := range records {
		responses = append(responses, s.toResponse(r, today))
	}
	return responses, nil
}

// GetCalendar implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetCalendar(ctx context.Context, req attendance.CalendarRequest) (attendance.CalendarResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.CalendarResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return attendance.CalendarResponse{}, err
	}
	if !claims.IsAdmin() && claims.UserID != req.UserID {
		return attendance.CalendarResponse{}, attendance.ErrUnauthorized
	}

	if _, err := s.ProfileRepository.GetByID(ctx, req.UserID); err != nil {
		return attendance.CalendarResponse{}, err
	}

	today := s.clock.Today()
	month, err := s.monthOrCurrent(req.Month, today)
	if err != nil {
		return attendance.CalendarResponse{}, err
	}

	records, err := s.AttendanceRepository.ListByUserBetween(ctx, req.UserID, month.Start(), month.End())
	if err != nil {
		return attendance.CalendarResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	byDate := make(map[string]attendance.Attendance, len(records))
	for _, r := range records {
		byDate[clock.DateKey(r.Date)] = attendance.Effective(r, today)
	}

	days := make([]attendance.CalendarDay, 0, month.Days())
	for d := month.Start(); !d.After(month.End()); d = d.AddDate(0, 0, 1) {
		day := attendance.CalendarDay{
			Date:    clock.DateKey(d),
			Weekday: d.Weekday().String(),
		}
		if r, ok := byDate[day.Date]; ok {
			day.Status = r.Status
			day.CheckIn = s.timePtrToString(r.CheckIn)
			day.CheckOut = s.timePtrToString(r.CheckOut)
		} else if d.Before(today) {
			day.Status = attendance.StatusAbsent
		}
		days = append(days, day)
	}

	return attendance.CalendarResponse{
		UserID: req.UserID,
		Month:  month.String(),
		Days:   days,
	}, nil
}

// TodaySummary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) TodaySummary(ctx context.Context) (attendance.TodaySummaryResponse, error) {
	today := s.clock.Today()

	employees, err := s.ProfileRepository.ListByRole(ctx, profile.RoleEmployee)
	if err != nil {
		return attendance.TodaySummaryResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	records, err := s.AttendanceRepository.ListByDate(ctx, today)
	if err != nil {
		return attendance.TodaySummaryResponse{}, fmt.Errorf("failed to list today's attendance: %w", err)
	}

	statusByUser := make(map[string]attendance.Status, len(records))
	for _, r := range records {
		statusByUser[r.UserID] = attendance.Effective(r, today).Status
	}

	summary := attendance.TodaySummaryResponse{
		Date:           clock.DateKey(today),
		TotalEmployees: len(employees),
		ByStatus:       make(map[attendance.Status]int, len(attendance.Statuses)),
	}
	for _, st := range attendance.Statuses {
		summary.ByStatus[st] = 0
	}
	for _, e := range employees {
		if st, ok := statusByUser[e.ID]; ok {
			summary.ByStatus[st]++
		} else {
			summary.NotCheckedIn++
		}
	}

	return summary, nil
}

func (s *AttendanceServiceImpl) monthOrCurrent(raw string, today time.Time) (clock.Month, error) {
	if raw == "" {
		return clock.MonthOf(today), nil
	}
	return clock.ParseMonth(raw)
}
