package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	tx database.Transactor
	leave.LeaveRequestRepository
	profile.ProfileRepository
	attendance.AttendanceRepository
	clock *clock.Business
}

func NewLeaveService(
	tx database.Transactor,
	leaveRequestRepo leave.LeaveRequestRepository,
	profileRepo profile.ProfileRepository,
	attendanceRepo attendance.AttendanceRepository,
	clk *clock.Business,
) leave.LeaveService {
	return &LeaveServiceImpl{
		tx:                     tx,
		LeaveRequestRepository: leaveRequestRepo,
		ProfileRepository:      profileRepo,
		AttendanceRepository:   attendanceRepo,
		clock:                  clk,
	}
}

// Create implements leave.LeaveService.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateLeaveRequestRequest) (leave.LeaveRequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	p, err := s.ProfileRepository.GetByID(ctx, claims.UserID)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}
	if p.Role != profile.RoleEmployee {
		return leave.LeaveRequestResponse{}, profile.ErrNotAnEmployee
	}

	date, err := clock.ParseDate(req.Date)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	exists, err := s.LeaveRequestRepository.ExistsActive(ctx, claims.UserID, date)
	if err != nil {
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to check existing leave requests: %w", err)
	}
	if exists {
		return leave.LeaveRequestResponse{}, leave.ErrDuplicateLeaveRequest
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		UserID:         claims.UserID,
		Date:           date,
		Reason:         req.Reason,
		Status:         leave.StatusPending,
		WillWorkSunday: req.WillWorkSunday,
		IsPaidLeave:    req.IsPaidLeave,
	})
	if err != nil {
		if errors.Is(err, leave.ErrDuplicateLeaveRequest) {
			return leave.LeaveRequestResponse{}, err
		}
		return leave.LeaveRequestResponse{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	slog.Info("Leave request created",
		"leave_request_id", created.ID,
		"user_id", claims.UserID,
		"date", req.Date,
		"will_work_sunday", req.WillWorkSunday,
		"is_paid_leave", req.IsPaidLeave,
	)
	return s.toResponse(created), nil
}

// ListMine implements leave.LeaveService.
func (s *LeaveServiceImpl) ListMine(ctx context.Context) ([]leave.LeaveRequestResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.ListByUser(ctx, claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.ListFilter) ([]leave.LeaveRequestResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	requests, err := s.LeaveRequestRepository.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	return s.toResponses(requests), nil
}

// Approve implements leave.LeaveService.
func (s *LeaveServiceImpl) Approve(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	var approved leave.LeaveRequest
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		reviewed, err := s.LeaveRequestRepository.Review(ctx, id, leave.StatusApproved, claims.UserID, s.clock.Now().UTC())
		if err != nil {
			return err
		}
		approved = reviewed

		if !reviewed.IsPaidLeave {
			return nil
		}

		remaining, err := s.ProfileRepository.DecrementPaidLeaves(ctx, reviewed.UserID)
		if err != nil {
			if errors.Is(err, profile.ErrNoPaidLeavesRemaining) {
				return leave.ErrInsufficientPaidLeaves
			}
			return fmt.Errorf("failed to consume paid leave: %w", err)
		}

		if _, err := s.AttendanceRepository.UpsertStatus(ctx, reviewed.UserID, reviewed.Date, attendance.StatusPaidOff); err != nil {
			return fmt.Errorf("failed to mark paid leave attendance: %w", err)
		}

		slog.Info("Paid leave consumed", "user_id", reviewed.UserID, "remaining_paid_leaves", remaining)
		return nil
	})
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request approved", "leave_request_id", id, "reviewer_id", claims.UserID)
	return s.toResponse(approved), nil
}

// Reject implements leave.LeaveService.
func (s *LeaveServiceImpl) Reject(ctx context.Context, id string) (leave.LeaveRequestResponse, error) {
	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	rejected, err := s.LeaveRequestRepository.Review(ctx, id, leave.StatusRejected, claims.UserID, s.clock.Now().UTC())
	if err != nil {
		return leave.LeaveRequestResponse{}, err
	}

	slog.Info("Leave request rejected", "leave_request_id", id, "reviewer_id", claims.UserID)
	return s.toResponse(rejected), nil
}

func (s *LeaveServiceImpl) toResponses(requests []leave.LeaveRequest) []leave.LeaveRequestResponse {
	responses := make([]leave.LeaveRequestResponse, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.toResponse(r))
	}
	return responses
}

func (s *LeaveServiceImpl) toResponse(r leave.LeaveRequest) leave.LeaveRequestResponse {
	resp := leave.LeaveRequestResponse{
		ID:             r.ID,
		UserID:         r.UserID,
		UserName:       r.UserName,
		Date:           clock.DateKey(r.Date),
		Reason:         r.Reason,
		Status:         r.Status,
		WillWorkSunday: r.WillWorkSunday,
		IsPaidLeave:    r.IsPaidLeave,
		ReviewedBy:     r.ReviewedBy,
		CreatedAt:      r.CreatedAt.In(s.clock.Location()).Format(time.RFC3339),
	}
	if r.WillWorkSunday {
		sunday := clock.DateKey(clock.NextSunday(r.Date))
		resp.CompensatorySunday = &sunday
	}
	if r.ReviewedAt != nil {
		reviewedAt := r.ReviewedAt.In(s.clock.Location()).Format(time.RFC3339)
		resp.ReviewedAt = &reviewedAt
	}
	return resp
}
