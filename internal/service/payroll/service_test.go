package payroll

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/payroll"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTransactor struct{}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeProfileRepo struct {
	profile.ProfileRepository
	profiles []profile.Profile
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (profile.Profile, error) {
	for _, p := range f.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return profile.Profile{}, profile.ErrProfileNotFound
}

func (f *fakeProfileRepo) ListByRole(_ context.Context, role profile.Role) ([]profile.Profile, error) {
	var out []profile.Profile
	for _, p := range f.profiles {
		if p.Role == role {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	byUser map[string][]attendance.Attendance
	calls  atomic.Int32
}

func (f *fakeAttendanceRepo) ListByUserBetween(_ context.Context, userID string, _, _ time.Time) ([]attendance.Attendance, error) {
	f.calls.Add(1)
	return f.byUser[userID], nil
}

func (f *fakeAttendanceRepo) FirstAttendanceDate(_ context.Context, userID string) (*time.Time, error) {
	records := f.byUser[userID]
	if len(records) == 0 {
		return nil, nil
	}
	first := records[0].Date
	return &first, nil
}

type fakeLeaveRepo struct {
	leave.LeaveRequestRepository
	mu       sync.Mutex
	from     []time.Time
	paidUsed map[string]int
}

func (f *fakeLeaveRepo) ListByUserBetween(_ context.Context, _ string, from, _ time.Time) ([]leave.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.from = append(f.from, from)
	return nil, nil
}

func (f *fakeLeaveRepo) CountApprovedPaidBetween(_ context.Context, userID string, _, _ time.Time) (int, error) {
	return f.paidUsed[userID], nil
}

type fakeSnapshotRepo struct {
	saved []payroll.Snapshot
}

func (f *fakeSnapshotRepo) Upsert(_ context.Context, s payroll.Snapshot) (payroll.Snapshot, error) {
	s.ID = uuid.NewString()
	f.saved = append(f.saved, s)
	return s, nil
}

func (f *fakeSnapshotRepo) ListByMonth(_ context.Context, month clock.Month) ([]payroll.Snapshot, error) {
	var out []payroll.Snapshot
	for _, s := range f.saved {
		if s.Month == month {
			out = append(out, s)
		}
	}
	return out, nil
}

type fakeCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	getErr  error
	setKeys []string
	ttls    []time.Duration
}

func (f *fakeCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return false, f.getErr
	}
	raw, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (f *fakeCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = raw
	f.setKeys = append(f.setKeys, key)
	f.ttls = append(f.ttls, ttl)
	return nil
}

func (f *fakeCache) Delete(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.data, k)
	}
	return nil
}

type serviceFixture struct {
	svc         payroll.PayrollService
	attendances *fakeAttendanceRepo
	leaves      *fakeLeaveRepo
	snapshots   *fakeSnapshotRepo
	cache       *fakeCache
	asha        profile.Profile
	ravi        profile.Profile
	freelancer  profile.Profile
}

// newServiceFixture runs on 10 July 2024 with two employees who worked June:
// Asha missed the 10th and 11th, Ravi missed the 3rd.
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	f := &serviceFixture{
		asha: profile.Profile{
			ID: uuid.NewString(), FullName: "Asha", Role: profile.RoleEmployee,
			Salary: decimal.NewFromInt(30000), DeductionAmount: decimal.NewFromInt(500), PaidLeaves: 4,
		},
		ravi: profile.Profile{
			ID: uuid.NewString(), FullName: "Ravi", Role: profile.RoleEmployee,
			Salary: decimal.NewFromInt(20000), DeductionAmount: decimal.NewFromInt(1000), PaidLeaves: 1,
		},
		freelancer: profile.Profile{ID: uuid.NewString(), FullName: "Mira", Role: profile.RoleFreelancer},
	}
	f.attendances = &fakeAttendanceRepo{byUser: map[string][]attendance.Attendance{
		f.asha.ID: juneRecords(map[int]attendance.Status{10: "", 11: ""}),
		f.ravi.ID: juneRecords(map[int]attendance.Status{3: ""}),
	}}
	f.leaves = &fakeLeaveRepo{paidUsed: map[string]int{f.asha.ID: 2}}
	f.snapshots = &fakeSnapshotRepo{}
	f.cache = &fakeCache{data: map[string][]byte{}}

	profiles := &fakeProfileRepo{profiles: []profile.Profile{f.asha, f.ravi, f.freelancer}}
	calc := calculatorAt(t, time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC), nil)
	f.svc = NewPayrollService(noopTransactor{}, profiles, f.attendances, f.leaves, f.snapshots, calc, calc.clock, f.cache, 2*time.Minute)
	return f
}

func TestCalculateForEmployee(t *testing.T) {
	f := newServiceFixture(t)

	resp, err := f.svc.CalculateForEmployee(context.Background(), payroll.EmployeePayrollRequest{UserID: f.asha.ID, Month: "2024-06"})
	require.NoError(t, err)

	assert.Equal(t, "2024-06", resp.Month)
	assert.Equal(t, 2, resp.AbsencesCount)
	assert.Equal(t, "1000", resp.TotalDeduction.String())
	assert.Equal(t, "29000", resp.FinalSalary.String())
	assert.Equal(t, 30, resp.WorkingDaysCount)
	assert.Equal(t, 28, resp.PresentCount)
	require.NotNil(t, resp.JoiningDate)
	assert.Equal(t, "2024-06-01", *resp.JoiningDate)
	require.Len(t, resp.Days, 30)
	assert.Equal(t, payroll.CountedAsOneAbsence, resp.Days[9].Outcome)

	require.Len(t, f.leaves.from, 1)
	assert.Equal(t, "2024-05-25", clock.DateKey(f.leaves.from[0]), "leaves are loaded a week before the month")
}

func TestCalculateForEmployee_Errors(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.CalculateForEmployee(ctx, payroll.EmployeePayrollRequest{UserID: f.freelancer.ID})
	assert.ErrorIs(t, err, payroll.ErrNotAnEmployee)

	_, err = f.svc.CalculateForEmployee(ctx, payroll.EmployeePayrollRequest{UserID: uuid.NewString()})
	assert.ErrorIs(t, err, payroll.ErrEmployeeNotFound)

	_, err = f.svc.CalculateForEmployee(ctx, payroll.EmployeePayrollRequest{UserID: "nope", Month: "2024-6"})
	assert.Error(t, err)
}

func TestGetMyPayroll(t *testing.T) {
	f := newServiceFixture(t)

	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": f.ravi.ID,
		"role":    string(profile.RoleEmployee),
		"type":    "access",
	})
	require.NoError(t, err)
	ctx := jwtauth.NewContext(context.Background(), token, nil)

	resp, err := f.svc.GetMyPayroll(ctx, payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, f.ravi.ID, resp.UserID)
	assert.Equal(t, "19000", resp.FinalSalary.String())
}

func TestMonthlyReport_CachesResult(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	report, err := f.svc.MonthlyReport(ctx, payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.EmployeeCount)
	assert.Equal(t, "none", report.WeeklyRestPolicy)
	assert.Equal(t, "50000", report.TotalBaseSalary.String())
	assert.Equal(t, "2000", report.TotalDeduction.String())
	assert.Equal(t, "48000", report.TotalFinalSalary.String())
	assert.Equal(t, 3, report.TotalAbsences)
	for _, e := range report.Employees {
		assert.Empty(t, e.Days)
	}

	assert.Equal(t, []string{"payroll:report:2024-06"}, f.cache.setKeys)
	assert.Equal(t, []time.Duration{2 * time.Minute}, f.cache.ttls)
	calls := f.attendances.calls.Load()

	again, err := f.svc.MonthlyReport(ctx, payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, calls, f.attendances.calls.Load(), "second read is served from cache")
	assert.True(t, again.TotalFinalSalary.Equal(report.TotalFinalSalary))
}

func TestMonthlyReport_CacheFailureDegrades(t *testing.T) {
	f := newServiceFixture(t)
	f.cache.getErr = errors.New("connection refused")

	report, err := f.svc.MonthlyReport(context.Background(), payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, "48000", report.TotalFinalSalary.String())
}

func TestMonthlyReport_WithoutCache(t *testing.T) {
	f := newServiceFixture(t)
	calc := calculatorAt(t, time.Date(2024, time.July, 10, 0, 0, 0, 0, time.UTC), nil)
	svc := NewPayrollService(noopTransactor{}, &fakeProfileRepo{profiles: []profile.Profile{f.asha}}, f.attendances, f.leaves, f.snapshots, calc, calc.clock, nil, time.Minute)

	report, err := svc.MonthlyReport(context.Background(), payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)
	assert.Equal(t, "29000", report.TotalFinalSalary.String())
}

func TestSnapshotMonth(t *testing.T) {
	f := newServiceFixture(t)
	ctx := context.Background()

	snapshots, err := f.svc.SnapshotMonth(ctx, payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)
	require.Len(t, snapshots, 2)

	byUser := map[string]payroll.SnapshotResponse{}
	for _, s := range snapshots {
		assert.True(t, s.PointInTime)
		assert.Equal(t, "2024-06", s.Month)
		assert.NotEmpty(t, s.ComputedAt)
		byUser[s.UserID] = s
	}
	assert.Equal(t, 2, byUser[f.asha.ID].PaidLeavesUsed)
	assert.Equal(t, 4, byUser[f.asha.ID].RemainingPaidLeaves)
	assert.Equal(t, "29000", byUser[f.asha.ID].FinalSalary.String())
	assert.Equal(t, 0, byUser[f.ravi.ID].PaidLeavesUsed)
	require.NotNil(t, byUser[f.ravi.ID].UserName)
	assert.Equal(t, "Ravi", *byUser[f.ravi.ID].UserName)

	assert.Contains(t, f.cache.setKeys, "payroll:report:2024-06")

	listed, err := f.svc.ListSnapshots(ctx, payroll.MonthFilter{Month: "2024-06"})
	require.NoError(t, err)
	assert.Len(t, listed, 2)

	other, err := f.svc.ListSnapshots(ctx, payroll.MonthFilter{Month: "2024-05"})
	require.NoError(t, err)
	assert.Empty(t, other)
}
