package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu         sync.Mutex
	codeSweeps int
	userSweeps int
	codeErr    error
	cutoffs    []time.Time
}

func (f *fakeStore) DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.codeSweeps++
	if f.codeErr != nil {
		return 0, f.codeErr
	}
	return 2, nil
}

func (f *fakeStore) DeleteStaleUnverifiedUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userSweeps++
	f.cutoffs = append(f.cutoffs, cutoff)
	return 1, nil
}

func (f *fakeStore) counts() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codeSweeps, f.userSweeps
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestCleanup_SweepsImmediately(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	cleanup := NewCleanup(store, testLogger(), time.Hour, 72*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cleanup.Run(ctx) }()

	waitFor(t, func() bool {
		codes, users := store.counts()
		return codes >= 1 && users >= 1
	})

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Run returned %v, want context.Canceled", err)
	}
}

func TestCleanup_CodeErrorSkipsUserSweep(t *testing.T) {
	t.Parallel()

	store := &fakeStore{codeErr: errors.New("db down")}
	cleanup := NewCleanup(store, testLogger(), time.Hour, 72*time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- cleanup.Run(ctx) }()

	waitFor(t, func() bool {
		codes, _ := store.counts()
		return codes >= 1
	})

	cancel()
	<-done

	if _, users := store.counts(); users != 0 {
		t.Errorf("user sweep should not run after a code sweep failure, ran %d times", users)
	}
}

func TestCleanup_ShutdownWaits(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	cleanup := NewCleanup(store, testLogger(), time.Hour, 72*time.Hour)

	go func() { _ = cleanup.Run(context.Background()) }()

	waitFor(t, func() bool {
		codes, _ := store.counts()
		return codes >= 1
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := cleanup.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown failed: %v", err)
	}

	// Shutdown on a stopped worker is a no-op.
	if err := cleanup.Shutdown(ctx); err != nil {
		t.Errorf("second Shutdown failed: %v", err)
	}
}

func TestCleanup_SecondRunRejected(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	cleanup := NewCleanup(store, testLogger(), time.Hour, 72*time.Hour)

	go func() { _ = cleanup.Run(context.Background()) }()

	waitFor(t, func() bool {
		codes, _ := store.counts()
		return codes >= 1
	})

	if err := cleanup.Run(context.Background()); err == nil {
		t.Error("second Run should be rejected")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = cleanup.Shutdown(ctx)
}

func TestCleanup_DefaultsApplied(t *testing.T) {
	t.Parallel()

	cleanup := NewCleanup(&fakeStore{}, testLogger(), 0, 0)
	if cleanup.interval != DefaultInterval {
		t.Errorf("interval = %v, want %v", cleanup.interval, DefaultInterval)
	}
	if cleanup.unverifiedMaxAge != DefaultUnverifiedMaxAge {
		t.Errorf("unverifiedMaxAge = %v, want %v", cleanup.unverifiedMaxAge, DefaultUnverifiedMaxAge)
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}
