package holiday

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/holiday"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
)

type HolidayServiceImpl struct {
	tx database.Transactor
	holiday.HolidayRepository
	profile.ProfileRepository
	attendance.AttendanceRepository
	clock *clock.Business
}

func NewHolidayService(
	tx database.Transactor,
	holidayRepo holiday.HolidayRepository,
	profileRepo profile.ProfileRepository,
	attendanceRepo attendance.AttendanceRepository,
	clk *clock.Business,
) holiday.HolidayService {
	return &HolidayServiceImpl{
		tx:                   tx,
		HolidayRepository:    holidayRepo,
		ProfileRepository:    profileRepo,
		AttendanceRepository: attendanceRepo,
		clock:                clk,
	}
}

// Create implements holiday.HolidayService.
func (s *HolidayServiceImpl) Create(ctx context.Context, req holiday.CreateHolidayRequest) (holiday.HolidayResponse, error) {
	if err := req.Validate(); err != nil {
		return holiday.HolidayResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	var (
		created holiday.Holiday
		marked  int64
	)
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		h, err := s.HolidayRepository.Create(ctx, holiday.Holiday{
			Date:      date,
			Name:      req.Name,
			CreatedBy: claims.UserID,
		})
		if err != nil {
			if errors.Is(err, holiday.ErrHolidayAlreadyExists) {
				return err
			}
			return fmt.Errorf("failed to create holiday: %w", err)
		}
		created = h

		employees, err := s.ProfileRepository.ListByRole(ctx, profile.RoleEmployee)
		if err != nil {
			return fmt.Errorf("failed to list employees: %w", err)
		}
		if len(employees) == 0 {
			return nil
		}

		ids := make([]string, len(employees))
		for i, e := range employees {
			ids[i] = e.ID
		}

		marked, err = s.AttendanceRepository.UpsertStatusForUsers(ctx, ids, date, attendance.StatusOff)
		if err != nil {
			return fmt.Errorf("failed to mark employees off: %w", err)
		}
		return nil
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	slog.Info("Holiday created", "holiday_id", created.ID, "date", req.Date, "employees_marked", marked)
	resp := toResponse(created)
	resp.EmployeesMarked = &marked
	return resp, nil
}

// Delete implements holiday.HolidayService.
func (s *HolidayServiceImpl) Delete(ctx context.Context, id string) (holiday.HolidayResponse, error) {
	var (
		deleted  holiday.Holiday
		unmarked int64
	)
	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		h, err := s.HolidayRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		deleted = h

		if err := s.HolidayRepository.Delete(ctx, id); err != nil {
			return err
		}

		unmarked, err = s.AttendanceRepository.DeleteUnattendedByDateAndStatus(ctx, h.Date, attendance.StatusOff)
		if err != nil {
			return fmt.Errorf("failed to remove holiday attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		return holiday.HolidayResponse{}, err
	}

	slog.Info("Holiday deleted", "holiday_id", id, "date", clock.DateKey(deleted.Date), "employees_unmarked", unmarked)
	resp := toResponse(deleted)
	resp.EmployeesMarked = &unmarked
	return resp, nil
}

// List implements holiday.HolidayService.
func (s *HolidayServiceImpl) List(ctx context.Context, filter holiday.HolidayFilter) ([]holiday.HolidayResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	month := clock.MonthOf(s.clock.Today())
	if filter.Month != "" {
		parsed, err := clock.ParseMonth(filter.Month)
		if err != nil {
			return nil, err
		}
		month = parsed
	}

	holidays, err := s.HolidayRepository.ListBetween(ctx, month.Start(), month.End())
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}

	responses := make([]holiday.HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		responses = append(responses, toResponse(h))
	}
	return responses, nil
}

func toResponse(h holiday.Holiday) holiday.HolidayResponse {
	return holiday.HolidayResponse{
		ID:      h.ID,
		Date:    clock.DateKey(h.Date),
		Weekday: h.Date.Weekday().String(),
		Name:    h.Name,
	}
}
