package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/bizops-hq/bizops-backend-go/internal/domain/wallet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_RunsImmediatelyAndOnInterval(t *testing.T) {
	s := NewScheduler()
	var runs atomic.Int32
	s.AddJob("tick", 10*time.Millisecond, func(ctx context.Context) error {
		runs.Add(1)
		return nil
	})

	s.Start(context.Background())
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, runs.Load(), "no runs after Stop")
}

func TestScheduler_StopsWithParentContext(t *testing.T) {
	s := NewScheduler()
	stopped := make(chan struct{})
	s.AddJob("wait", time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		close(stopped)
		return ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	cancel()

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("job did not observe cancellation")
	}
	s.Stop()
}

func TestScheduler_RunOnceJoinsErrorsAndRecoversPanics(t *testing.T) {
	s := NewScheduler()
	boom := errors.New("boom")
	var ran []string
	s.AddJob("fails", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "fails")
		return boom
	})
	s.AddJob("panics", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "panics")
		panic("unexpected")
	})
	s.AddJob("ok", time.Hour, func(ctx context.Context) error {
		ran = append(ran, "ok")
		return nil
	})

	err := s.RunOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "panicked")
	assert.Equal(t, []string{"fails", "panics", "ok"}, ran)
}

func TestScheduler_IgnoresJobsAddedAfterStart(t *testing.T) {
	s := NewScheduler()
	s.Start(context.Background())
	defer s.Stop()

	s.AddJob("late", time.Hour, func(ctx context.Context) error { return nil })
	assert.Empty(t, s.jobs)
}

type fakeWalletService struct {
	wallet.WalletService
	corrected int
	err       error
	calls     int
}

func (f *fakeWalletService) ReconcileAll(ctx context.Context) (int, error) {
	f.calls++
	return f.corrected, f.err
}

func TestWalletJobs_Reconcile(t *testing.T) {
	svc := &fakeWalletService{corrected: 2}
	s := NewScheduler()
	NewWalletJobs(svc).RegisterJobs(s, time.Hour)

	require.Len(t, s.jobs, 1)
	assert.Equal(t, ReconcileWalletBalancesJob, s.jobs[0].Name)
	assert.Equal(t, time.Hour, s.jobs[0].Interval)

	require.NoError(t, s.RunOnce(context.Background()))
	assert.Equal(t, 1, svc.calls)

	svc.err = errors.New("db down")
	err := s.RunOnce(context.Background())
	assert.ErrorContains(t, err, "reconcile wallet balances: db down")
}
