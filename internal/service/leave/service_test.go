package leave

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/auth"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/leave"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/validator"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTransactor struct{}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeLeaveRepo struct {
	leave.LeaveRequestRepository
	requests map[string]leave.LeaveRequest
}

func (f *fakeLeaveRepo) Create(_ context.Context, r leave.LeaveRequest) (leave.LeaveRequest, error) {
	r.ID = uuid.NewString()
	r.CreatedAt = time.Date(2024, time.June, 3, 5, 0, 0, 0, time.UTC)
	f.requests[r.ID] = r
	return r, nil
}

func (f *fakeLeaveRepo) ExistsActive(_ context.Context, userID string, date time.Time) (bool, error) {
	for _, r := range f.requests {
		if r.UserID == userID && r.Date.Equal(date) && r.Status != leave.StatusRejected {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeLeaveRepo) ListByUser(_ context.Context, userID string) ([]leave.LeaveRequest, error) {
	var out []leave.LeaveRequest
	for _, r := range f.requests {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLeaveRepo) Review(_ context.Context, id string, status leave.Status, reviewerID string, reviewedAt time.Time) (leave.LeaveRequest, error) {
	r, ok := f.requests[id]
	if !ok {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if r.Status != leave.StatusPending {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestAlreadyProcessed
	}
	r.Status = status
	r.ReviewedBy = &reviewerID
	r.ReviewedAt = &reviewedAt
	f.requests[id] = r
	return r, nil
}

type fakeProfileRepo struct {
	profile.ProfileRepository
	profiles map[string]profile.Profile
}

func (f *fakeProfileRepo) GetByID(_ context.Context, id string) (profile.Profile, error) {
	p, ok := f.profiles[id]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeProfileRepo) DecrementPaidLeaves(_ context.Context, id string) (int, error) {
	p := f.profiles[id]
	if p.PaidLeaves == 0 {
		return 0, profile.ErrNoPaidLeavesRemaining
	}
	p.PaidLeaves--
	f.profiles[id] = p
	return p.PaidLeaves, nil
}

type upsert struct {
	userID string
	date   time.Time
	status attendance.Status
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	upserts []upsert
}

func (f *fakeAttendanceRepo) UpsertStatus(_ context.Context, userID string, date time.Time, status attendance.Status) (attendance.Attendance, error) {
	f.upserts = append(f.upserts, upsert{userID: userID, date: date, status: status})
	return attendance.Attendance{UserID: userID, Date: date, Status: status}, nil
}

type fixture struct {
	svc         leave.LeaveService
	leaves      *fakeLeaveRepo
	profiles    *fakeProfileRepo
	attendances *fakeAttendanceRepo
	empID       string
	adminID     string
}

func setup(t *testing.T, paidLeaves int) *fixture {
	t.Helper()
	f := &fixture{
		leaves:      &fakeLeaveRepo{requests: map[string]leave.LeaveRequest{}},
		attendances: &fakeAttendanceRepo{},
		empID:       uuid.NewString(),
		adminID:     uuid.NewString(),
	}
	f.profiles = &fakeProfileRepo{profiles: map[string]profile.Profile{
		f.empID:   {ID: f.empID, Role: profile.RoleEmployee, PaidLeaves: paidLeaves},
		f.adminID: {ID: f.adminID, Role: profile.RoleAdmin},
	}}
	loc, err := time.LoadLocation(clock.DefaultBusinessTimezone)
	require.NoError(t, err)
	clk := clock.NewBusinessIn(clock.Fixed(time.Date(2024, time.June, 3, 6, 0, 0, 0, time.UTC)), loc)
	f.svc = NewLeaveService(noopTransactor{}, f.leaves, f.profiles, f.attendances, clk)
	return f
}

func ctxAs(t *testing.T, userID string, role profile.Role) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": userID,
		"role":    string(role),
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestCreate(t *testing.T) {
	f := setup(t, 2)
	ctx := ctxAs(t, f.empID, profile.RoleEmployee)

	resp, err := f.svc.Create(ctx, leave.CreateLeaveRequestRequest{
		Date:           "2024-06-05",
		Reason:         "family function",
		WillWorkSunday: true,
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusPending, resp.Status)
	require.NotNil(t, resp.CompensatorySunday)
	assert.Equal(t, "2024-06-09", *resp.CompensatorySunday)
	assert.Equal(t, "2024-06-03T10:30:00+05:30", resp.CreatedAt)

	_, err = f.svc.Create(ctx, leave.CreateLeaveRequestRequest{Date: "2024-06-05", Reason: "again"})
	assert.ErrorIs(t, err, leave.ErrDuplicateLeaveRequest)

	mine, err := f.svc.ListMine(ctx)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}

func TestCreate_Validation(t *testing.T) {
	f := setup(t, 0)
	ctx := ctxAs(t, f.empID, profile.RoleEmployee)

	_, err := f.svc.Create(ctx, leave.CreateLeaveRequestRequest{Date: "2024-06-09", Reason: "rest", WillWorkSunday: true})
	var verrs validator.ValidationErrors
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "will_work_sunday")

	_, err = f.svc.Create(ctx, leave.CreateLeaveRequestRequest{Date: "06/05/2024"})
	require.True(t, errors.As(err, &verrs))
	assert.Contains(t, verrs.ToMap(), "date")
	assert.Contains(t, verrs.ToMap(), "reason")
}

func TestCreate_OnlyEmployees(t *testing.T) {
	f := setup(t, 0)
	_, err := f.svc.Create(ctxAs(t, f.adminID, profile.RoleAdmin), leave.CreateLeaveRequestRequest{Date: "2024-06-05", Reason: "x"})
	assert.ErrorIs(t, err, profile.ErrNotAnEmployee)

	_, err = f.svc.Create(context.Background(), leave.CreateLeaveRequestRequest{Date: "2024-06-05", Reason: "x"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestApprove_PaidLeave(t *testing.T) {
	f := setup(t, 1)
	created, err := f.svc.Create(ctxAs(t, f.empID, profile.RoleEmployee), leave.CreateLeaveRequestRequest{
		Date: "2024-06-05", Reason: "doctor", IsPaidLeave: true,
	})
	require.NoError(t, err)

	admin := ctxAs(t, f.adminID, profile.RoleAdmin)
	approved, err := f.svc.Approve(admin, created.ID)
	require.NoError(t, err)

	assert.Equal(t, leave.StatusApproved, approved.Status)
	require.NotNil(t, approved.ReviewedBy)
	assert.Equal(t, f.adminID, *approved.ReviewedBy)
	assert.Equal(t, 0, f.profiles.profiles[f.empID].PaidLeaves)
	require.Len(t, f.attendances.upserts, 1)
	assert.Equal(t, attendance.StatusPaidOff, f.attendances.upserts[0].status)
	assert.Equal(t, "2024-06-05", clock.DateKey(f.attendances.upserts[0].date))

	_, err = f.svc.Approve(admin, created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
	_, err = f.svc.Reject(admin, created.ID)
	assert.ErrorIs(t, err, leave.ErrLeaveRequestAlreadyProcessed)
}

func TestApprove_NoPaidLeavesLeft(t *testing.T) {
	f := setup(t, 0)
	created, err := f.svc.Create(ctxAs(t, f.empID, profile.RoleEmployee), leave.CreateLeaveRequestRequest{
		Date: "2024-06-05", Reason: "doctor", IsPaidLeave: true,
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctxAs(t, f.adminID, profile.RoleAdmin), created.ID)
	assert.ErrorIs(t, err, leave.ErrInsufficientPaidLeaves)
	assert.Empty(t, f.attendances.upserts)
}

func TestApprove_UnpaidLeaveTouchesNothingElse(t *testing.T) {
	f := setup(t, 3)
	created, err := f.svc.Create(ctxAs(t, f.empID, profile.RoleEmployee), leave.CreateLeaveRequestRequest{
		Date: "2024-06-05", Reason: "travel", WillWorkSunday: true,
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctxAs(t, f.adminID, profile.RoleAdmin), created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, f.profiles.profiles[f.empID].PaidLeaves)
	assert.Empty(t, f.attendances.upserts)
}

func TestReject(t *testing.T) {
	f := setup(t, 1)
	created, err := f.svc.Create(ctxAs(t, f.empID, profile.RoleEmployee), leave.CreateLeaveRequestRequest{
		Date: "2024-06-05", Reason: "doctor", IsPaidLeave: true,
	})
	require.NoError(t, err)

	rejected, err := f.svc.Reject(ctxAs(t, f.adminID, profile.RoleAdmin), created.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, rejected.Status)
	assert.Equal(t, 1, f.profiles.profiles[f.empID].PaidLeaves)

	_, err = f.svc.Reject(ctxAs(t, f.adminID, profile.RoleAdmin), uuid.NewString())
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}
