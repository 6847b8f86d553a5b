package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/jmfarina/payments-backend/pkg/logger"
)

type fakeLock struct {
	acquired bool
	denied   bool
	err      error
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	if f.denied || f.acquired {
		return false, nil
	}
	f.acquired = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error { f.acquired = false; return nil }

type testJob struct {
	name string
	err  error
	runs int
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(context.Context) error {
	t.runs++
	return t.err
}

func newCronService(t *testing.T, registry *Registry, lock Lock, interval time.Duration) *Service {
	t.Helper()
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Registry: registry,
		Lock:     lock,
		Interval: interval,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestServiceRunCycleRunsAllJobsEvenOnFailure(t *testing.T) {
	success := &testJob{name: "success"}
	failure := &testJob{name: "fail", err: errors.New("boom")}
	service := newCronService(t, NewRegistry(success, failure), &fakeLock{}, 0)

	err := service.runCycle(context.Background())
	if err == nil {
		t.Fatal("expected the cycle to report the failed job")
	}
	if success.runs != 1 {
		t.Fatalf("expected success job to run once, ran %d", success.runs)
	}
	if failure.runs != 1 {
		t.Fatalf("expected failing job to still run once, ran %d", failure.runs)
	}
}

func TestServiceRunCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &testJob{name: "sweep"}
	service := newCronService(t, NewRegistry(job), &fakeLock{denied: true}, 0)

	if err := service.runCycle(context.Background()); err != nil {
		t.Fatalf("a skipped cycle is not a failure: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected no runs when the lock is held, got %d", job.runs)
	}
}

func TestServiceRunCyclePropagatesLockErrors(t *testing.T) {
	job := &testJob{name: "sweep"}
	lock := &fakeLock{err: errors.New("redis unreachable")}
	service := newCronService(t, NewRegistry(job), lock, 0)

	if err := service.runCycle(context.Background()); err == nil {
		t.Fatal("expected lock acquire error to propagate")
	}
	if job.runs != 0 {
		t.Fatal("jobs must not run without the lock")
	}
}

func TestServiceFailureRetryDelayIsAFractionOfTheInterval(t *testing.T) {
	service := newCronService(t, NewRegistry(), &fakeLock{}, 30*time.Second)
	if got := service.retryDelay(); got != 5*time.Second {
		t.Fatalf("expected 5s retry delay for 30s interval, got %v", got)
	}
}

func TestServiceRunStopsOnCancel(t *testing.T) {
	job := &testJob{name: "sweep"}
	service := newCronService(t, NewRegistry(job), &fakeLock{}, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- service.Run(ctx) }()

	// Give the immediate first cycle a moment, then cancel.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop after cancel")
	}
	if job.runs != 1 {
		t.Fatalf("expected exactly the immediate first cycle, got %d runs", job.runs)
	}
}
