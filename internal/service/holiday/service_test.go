package holiday

import (
	"context"
	"testing"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/attendance"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/holiday"
	"github.com/bizops-hq/bizops-backend-go/internal/domain/profile"
	"github.com/bizops-hq/bizops-backend-go/internal/pkg/clock"
	"github.com/go-chi/jwtauth/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopTransactor struct{}

func (noopTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeHolidayRepo struct {
	holidays map[string]holiday.Holiday
}

func (f *fakeHolidayRepo) Create(_ context.Context, h holiday.Holiday) (holiday.Holiday, error) {
	for _, existing := range f.holidays {
		if existing.Date.Equal(h.Date) {
			return holiday.Holiday{}, holiday.ErrHolidayAlreadyExists
		}
	}
	h.ID = uuid.NewString()
	f.holidays[h.ID] = h
	return h, nil
}

func (f *fakeHolidayRepo) GetByID(_ context.Context, id string) (holiday.Holiday, error) {
	h, ok := f.holidays[id]
	if !ok {
		return holiday.Holiday{}, holiday.ErrHolidayNotFound
	}
	return h, nil
}

func (f *fakeHolidayRepo) Delete(_ context.Context, id string) error {
	if _, ok := f.holidays[id]; !ok {
		return holiday.ErrHolidayNotFound
	}
	delete(f.holidays, id)
	return nil
}

func (f *fakeHolidayRepo) ListBetween(_ context.Context, from, to time.Time) ([]holiday.Holiday, error) {
	var out []holiday.Holiday
	for _, h := range f.holidays {
		if !h.Date.Before(from) && !h.Date.After(to) {
			out = append(out, h)
		}
	}
	return out, nil
}

type fakeProfileRepo struct {
	profile.ProfileRepository
	employees []profile.Profile
}

func (f *fakeProfileRepo) ListByRole(_ context.Context, role profile.Role) ([]profile.Profile, error) {
	if role != profile.RoleEmployee {
		return nil, nil
	}
	return f.employees, nil
}

type fakeAttendanceRepo struct {
	attendance.AttendanceRepository
	// status by user id for the single date under test
	statuses  map[string]attendance.Status
	checkedIn map[string]bool
}

func (f *fakeAttendanceRepo) UpsertStatusForUsers(_ context.Context, userIDs []string, _ time.Time, status attendance.Status) (int64, error) {
	var n int64
	for _, id := range userIDs {
		if f.checkedIn[id] {
			continue
		}
		f.statuses[id] = status
		n++
	}
	return n, nil
}

func (f *fakeAttendanceRepo) DeleteUnattendedByDateAndStatus(_ context.Context, _ time.Time, status attendance.Status) (int64, error) {
	var n int64
	for id, s := range f.statuses {
		if s == status && !f.checkedIn[id] {
			delete(f.statuses, id)
			n++
		}
	}
	return n, nil
}

func setup(t *testing.T) (holiday.HolidayService, *fakeHolidayRepo, *fakeAttendanceRepo, []string) {
	t.Helper()
	ids := []string{uuid.NewString(), uuid.NewString(), uuid.NewString()}
	profiles := &fakeProfileRepo{}
	for _, id := range ids {
		profiles.employees = append(profiles.employees, profile.Profile{ID: id, Role: profile.RoleEmployee})
	}
	holidays := &fakeHolidayRepo{holidays: map[string]holiday.Holiday{}}
	attendances := &fakeAttendanceRepo{
		statuses:  map[string]attendance.Status{ids[0]: attendance.StatusPresent},
		checkedIn: map[string]bool{ids[0]: true},
	}
	clk := clock.NewBusinessIn(clock.Fixed(time.Date(2024, time.August, 1, 6, 0, 0, 0, time.UTC)), time.UTC)
	return NewHolidayService(noopTransactor{}, holidays, profiles, attendances, clk), holidays, attendances, ids
}

func adminCtx(t *testing.T) context.Context {
	t.Helper()
	ja := jwtauth.New("HS256", []byte("test-secret"), nil)
	token, _, err := ja.Encode(map[string]interface{}{
		"user_id": uuid.NewString(),
		"role":    string(profile.RoleAdmin),
		"type":    "access",
	})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestCreateAndDelete(t *testing.T) {
	svc, _, attendances, ids := setup(t)
	ctx := adminCtx(t)

	created, err := svc.Create(ctx, holiday.CreateHolidayRequest{Date: "2024-08-15", Name: "Independence Day"})
	require.NoError(t, err)
	assert.Equal(t, "Thursday", created.Weekday)
	require.NotNil(t, created.EmployeesMarked)
	assert.Equal(t, int64(2), *created.EmployeesMarked, "employee who already checked in keeps the record")
	assert.Equal(t, attendance.StatusPresent, attendances.statuses[ids[0]])
	assert.Equal(t, attendance.StatusOff, attendances.statuses[ids[1]])

	_, err = svc.Create(ctx, holiday.CreateHolidayRequest{Date: "2024-08-15", Name: "Duplicate"})
	assert.ErrorIs(t, err, holiday.ErrHolidayAlreadyExists)

	listed, err := svc.List(ctx, holiday.HolidayFilter{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Nil(t, listed[0].EmployeesMarked)

	deleted, err := svc.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), *deleted.EmployeesMarked)
	assert.Len(t, attendances.statuses, 1)

	_, err = svc.Delete(ctx, created.ID)
	assert.ErrorIs(t, err, holiday.ErrHolidayNotFound)
}

func TestList_OtherMonth(t *testing.T) {
	svc, _, _, _ := setup(t)
	ctx := adminCtx(t)

	_, err := svc.Create(ctx, holiday.CreateHolidayRequest{Date: "2024-10-02", Name: "Gandhi Jayanti"})
	require.NoError(t, err)

	current, err := svc.List(ctx, holiday.HolidayFilter{})
	require.NoError(t, err)
	assert.Empty(t, current)

	october, err := svc.List(ctx, holiday.HolidayFilter{Month: "2024-10"})
	require.NoError(t, err)
	assert.Len(t, october, 1)

	_, err = svc.List(ctx, holiday.HolidayFilter{Month: "October"})
	assert.Error(t, err)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, _, _ := setup(t)
	_, err := svc.Create(adminCtx(t), holiday.CreateHolidayRequest{Date: "2024-02-30"})
	assert.Error(t, err)
}
