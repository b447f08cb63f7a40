package payroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/cache"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// leaveLookback is how far before the month start leaves are loaded, so that a leave at
// the end of the previous month can still match a Sunday inside the month.
const leaveLookback = 7

// reportConcurrency bounds the number of employees computed at once.
const reportConcurrency = 8

type PayrollServiceImpl struct {
	tx             database.Transactor
	profileRepo    profile.ProfileRepository
	attendanceRepo attendance.AttendanceRepository
	leaveRepo      leave.LeaveRequestRepository
	snapshotRepo   payroll.SnapshotRepository
	calculator     *Calculator
	clock          *clock.Business
	cache          cache.Cache
	cacheTTL       time.Duration
	sf             singleflight.Group
}

// NewPayrollService wires the payroll service. reportCache may be nil, in which case
// every report is computed directly.
func NewPayrollService(
	tx database.Transactor,
	profileRepo profile.ProfileRepository,
	attendanceRepo attendance.AttendanceRepository,
	leaveRepo leave.LeaveRequestRepository,
	snapshotRepo payroll.SnapshotRepository,
	calculator *Calculator,
	clk *clock.Business,
	reportCache cache.Cache,
	cacheTTL time.Duration,
) payroll.PayrollService {
	return &PayrollServiceImpl{
		tx:             tx,
		profileRepo:    profileRepo,
		attendanceRepo: attendanceRepo,
		leaveRepo:      leaveRepo,
		snapshotRepo:   snapshotRepo,
		calculator:     calculator,
		clock:          clk,
		cache:          reportCache,
		cacheTTL:       cacheTTL,
	}
}

// ReportCacheKey is the cache key of the monthly report.
func ReportCacheKey(month clock.Month) string {
	return "payroll:report:" + month.String()
}

func (s *PayrollServiceImpl) resolveMonth(raw string) (clock.Month, error) {
	if raw == "" {
		return clock.MonthOf(s.clock.Today()), nil
	}
	return clock.ParseMonth(raw)
}

// employeeResult pairs a profile with its computed month.
type employeeResult struct {
	profile     profile.Profile
	joiningDate *time.Time
	result      payroll.SalaryComputationResult
}

func (s *PayrollServiceImpl) getEmployee(ctx context.Context, userID string) (profile.Profile, error) {
	p, err := s.profileRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, profile.ErrProfileNotFound) {
			return profile.Profile{}, payroll.ErrEmployeeNotFound
		}
		return profile.Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}
	if p.Role != profile.RoleEmployee {
		return profile.Profile{}, payroll.ErrNotAnEmployee
	}
	return p, nil
}

// compute loads one employee's month and runs the calculator.
func (s *PayrollServiceImpl) compute(ctx context.Context, p profile.Profile, month clock.Month) (employeeResult, error) {
	joiningDate, err := s.attendanceRepo.FirstAttendanceDate(ctx, p.ID)
	if err != nil {
		return employeeResult{}, fmt.Errorf("failed to get first attendance date for %s: %w", p.ID, err)
	}

	records, err := s.attendanceRepo.ListByUserBetween(ctx, p.ID, month.Start(), month.End())
	if err != nil {
		return employeeResult{}, fmt.Errorf("failed to list attendance for %s: %w", p.ID, err)
	}

	leaves, err := s.leaveRepo.ListByUserBetween(ctx, p.ID, month.Start().AddDate(0, 0, -leaveLookback), month.End())
	if err != nil {
		return employeeResult{}, fmt.Errorf("failed to list leave requests for %s: %w", p.ID, err)
	}

	result, err := s.calculator.Calculate(payroll.CalculationInput{
		BaseSalary:      p.Salary,
		DeductionAmount: p.DeductionAmount,
		Attendance:      records,
		Leaves:          leaves,
		JoiningDate:     joiningDate,
		Month:           month,
	})
	if err != nil {
		return employeeResult{}, fmt.Errorf("failed to calculate salary for %s: %w", p.ID, err)
	}

	return employeeResult{profile: p, joiningDate: joiningDate, result: result}, nil
}

// GetMyPayroll implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMyPayroll(ctx context.Context, filter payroll.MonthFilter) (payroll.EmployeePayrollResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	claims, err := auth.ClaimsFromContext(ctx)
	if err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	return s.calculateFor(ctx, claims.UserID, filter.Month)
}

// CalculateForEmployee implements payroll.PayrollService.
func (s *PayrollServiceImpl) CalculateForEmployee(ctx context.Context, req payroll.EmployeePayrollRequest) (payroll.EmployeePayrollResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	return s.calculateFor(ctx, req.UserID, req.Month)
}

func (s *PayrollServiceImpl) calculateFor(ctx context.Context, userID, rawMonth string) (payroll.EmployeePayrollResponse, error) {
	month, err := s.resolveMonth(rawMonth)
	if err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	p, err := s.getEmployee(ctx, userID)
	if err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	computed, err := s.compute(ctx, p, month)
	if err != nil {
		return payroll.EmployeePayrollResponse{}, err
	}

	return toEmployeeResponse(computed, true), nil
}

// MonthlyReport implements payroll.PayrollService.
func (s *PayrollServiceImpl) MonthlyReport(ctx context.Context, filter payroll.MonthFilter) (payroll.MonthlyReportResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.MonthlyReportResponse{}, err
	}

	month, err := s.resolveMonth(filter.Month)
	if err != nil {
		return payroll.MonthlyReportResponse{}, err
	}

	key := ReportCacheKey(month)
	if s.cache != nil {
		var cached payroll.MonthlyReportResponse
		hit, err := s.cache.GetJSON(ctx, key, &cached)
		if err != nil {
			slog.Warn("Payroll report cache read failed, computing directly", "key", key, "error", err)
		} else if hit {
			return cached, nil
		}
	}

	v, err, shared := s.sf.Do(key, func() (interface{}, error) {
		report, _, err := s.buildReport(ctx, month)
		if err != nil {
			return nil, err
		}
		s.storeReport(ctx, key, report)
		return report, nil
	})
	if err != nil {
		return payroll.MonthlyReportResponse{}, err
	}
	if shared {
		slog.Debug("Payroll report computation shared", "key", key)
	}

	return v.(payroll.MonthlyReportResponse), nil
}

func (s *PayrollServiceImpl) storeReport(ctx context.Context, key string, report payroll.MonthlyReportResponse) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, key, report, s.cacheTTL); err != nil {
		slog.Warn("Failed to cache payroll report", "key", key, "error", err)
	}
}

// buildReport computes every employee concurrently and aggregates the totals.
func (s *PayrollServiceImpl) buildReport(ctx context.Context, month clock.Month) (payroll.MonthlyReportResponse, []employeeResult, error) {
	employees, err := s.profileRepo.ListByRole(ctx, profile.RoleEmployee)
	if err != nil {
		return payroll.MonthlyReportResponse{}, nil, fmt.Errorf("failed to list employees: %w", err)
	}

	results := make([]employeeResult, len(employees))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(reportConcurrency)
	for i, p := range employees {
		i, p := i, p
		g.Go(func() error {
			computed, err := s.compute(gCtx, p, month)
			if err != nil {
				return err
			}
			results[i] = computed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return payroll.MonthlyReportResponse{}, nil, err
	}

	report := payroll.MonthlyReportResponse{
		Month:            month.String(),
		WeeklyRestPolicy: s.calculator.Policy().Name(),
		EmployeeCount:    len(results),
		TotalBaseSalary:  decimal.Zero,
		TotalDeduction:   decimal.Zero,
		TotalFinalSalary: decimal.Zero,
		GeneratedAt:      s.clock.Now().Format(time.RFC3339),
		Employees:        make([]payroll.EmployeePayrollResponse, 0, len(results)),
	}
	for _, r := range results {
		report.TotalBaseSalary = report.TotalBaseSalary.Add(r.profile.Salary)
		report.TotalDeduction = report.TotalDeduction.Add(r.result.TotalDeduction)
		report.TotalFinalSalary = report.TotalFinalSalary.Add(r.result.FinalSalary)
		report.TotalAbsences += r.result.AbsencesCount
		report.Employees = append(report.Employees, toEmployeeResponse(r, false))
	}

	slog.Info("Payroll report computed",
		"month", report.Month,
		"employees", report.EmployeeCount,
		"total_final_salary", report.TotalFinalSalary.String(),
	)
	return report, results, nil
}

// SnapshotMonth implements payroll.PayrollService.
func (s *PayrollServiceImpl) SnapshotMonth(ctx context.Context, filter payroll.MonthFilter) ([]payroll.SnapshotResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	month, err := s.resolveMonth(filter.Month)
	if err != nil {
		return nil, err
	}

	report, results, err := s.buildReport(ctx, month)
	if err != nil {
		return nil, err
	}

	computedAt := s.clock.Now().UTC()
	snapshots := make([]payroll.Snapshot, 0, len(results))
	err = s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		for _, r := range results {
			paidUsed, err := s.leaveRepo.CountApprovedPaidBetween(ctx, r.profile.ID, month.Start(), month.End())
			if err != nil {
				return fmt.Errorf("failed to count paid leaves for %s: %w", r.profile.ID, err)
			}

			saved, err := s.snapshotRepo.Upsert(ctx, payroll.Snapshot{
				UserID:              r.profile.ID,
				Month:               month,
				AbsencesCount:       r.result.AbsencesCount,
				TotalDeduction:      r.result.TotalDeduction,
				FinalSalary:         r.result.FinalSalary,
				WorkingDaysCount:    r.result.WorkingDaysCount,
				PresentCount:        r.result.PresentCount,
				PaidLeavesUsed:      paidUsed,
				RemainingPaidLeaves: r.profile.PaidLeaves,
				ComputedAt:          computedAt,
			})
			if err != nil {
				return fmt.Errorf("failed to save snapshot for %s: %w", r.profile.ID, err)
			}
			name := r.profile.FullName
			saved.UserName = &name
			snapshots = append(snapshots, saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.storeReport(ctx, ReportCacheKey(month), report)

	slog.Info("Payroll snapshots saved", "month", month.String(), "count", len(snapshots))
	return s.toSnapshotResponses(snapshots), nil
}

// ListSnapshots implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListSnapshots(ctx context.Context, filter payroll.MonthFilter) ([]payroll.SnapshotResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	month, err := s.resolveMonth(filter.Month)
	if err != nil {
		return nil, err
	}

	snapshots, err := s.snapshotRepo.ListByMonth(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("failed to list snapshots: %w", err)
	}
	return s.toSnapshotResponses(snapshots), nil
}

func (s *PayrollServiceImpl) toSnapshotResponses(snapshots []payroll.Snapshot) []payroll.SnapshotResponse {
	responses := make([]payroll.SnapshotResponse, 0, len(snapshots))
	for _, sn := range snapshots {
		responses = append(responses, payroll.SnapshotResponse{
			ID:                  sn.ID,
			UserID:              sn.UserID,
			UserName:            sn.UserName,
			Month:               sn.Month.String(),
			AbsencesCount:       sn.AbsencesCount,
			TotalDeduction:      sn.TotalDeduction,
			FinalSalary:         sn.FinalSalary,
			WorkingDaysCount:    sn.WorkingDaysCount,
			PresentCount:        sn.PresentCount,
			PaidLeavesUsed:      sn.PaidLeavesUsed,
			RemainingPaidLeaves: sn.RemainingPaidLeaves,
			PointInTime:         true,
			ComputedAt:          sn.ComputedAt.In(s.clock.Location()).Format(time.RFC3339),
		})
	}
	return responses
}

func dateKeyPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	key := clock.DateKey(*t)
	return &key
}

func toEmployeeResponse(r employeeResult, withDays bool) payroll.EmployeePayrollResponse {
	resp := payroll.EmployeePayrollResponse{
		UserID:           r.profile.ID,
		FullName:         r.profile.FullName,
		Month:            r.result.Month.String(),
		BaseSalary:       r.profile.Salary,
		DeductionAmount:  r.profile.DeductionAmount,
		AbsencesCount:    r.result.AbsencesCount,
		TotalDeduction:   r.result.TotalDeduction,
		FinalSalary:      r.result.FinalSalary,
		WorkingDaysCount: r.result.WorkingDaysCount,
		PresentCount:     r.result.PresentCount,
		WindowStart:      dateKeyPtr(r.result.WindowStart),
		WindowEnd:        dateKeyPtr(r.result.WindowEnd),
		JoiningDate:      dateKeyPtr(r.joiningDate),
	}
	if !withDays {
		return resp
	}

	resp.Days = make([]payroll.DayResponse, 0, len(r.result.Days))
	for _, d := range r.result.Days {
		day := payroll.DayResponse{
			Date:     clock.DateKey(d.Date),
			Weekday:  d.Date.Weekday().String(),
			Status:   d.Status,
			Outcome:  d.Outcome,
			Absences: d.Absences,
		}
		for _, b := range d.BrokenPromises {
			day.BrokenPromises = append(day.BrokenPromises, clock.DateKey(b))
		}
		resp.Days = append(resp.Days, day)
	}
	return resp
}
