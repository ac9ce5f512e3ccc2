// Package worker provides background maintenance jobs.
package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

const (
	// DefaultInterval is how often the cleanup sweep runs.
	DefaultInterval = 1 * time.Hour

	// DefaultUnverifiedMaxAge is how long an unverified account may live
	// before it is removed.
	DefaultUnverifiedMaxAge = 72 * time.Hour
)

// Store defines the persistence operations the cleanup worker needs.
type Store interface {
	DeleteExpiredVerificationCodes(ctx context.Context, now time.Time) (int64, error)
	DeleteStaleUnverifiedUsers(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleanup periodically removes expired verification codes and stale
// unverified accounts.
type Cleanup struct {
	store            Store
	logger           *slog.Logger
	interval         time.Duration
	unverifiedMaxAge time.Duration

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex
}

// NewCleanup creates a cleanup worker. Non-positive durations fall back
// to the defaults.
func NewCleanup(store Store, logger *slog.Logger, interval, unverifiedMaxAge time.Duration) *Cleanup {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if unverifiedMaxAge <= 0 {
		unverifiedMaxAge = DefaultUnverifiedMaxAge
	}
	return &Cleanup{
		store:            store,
		logger:           logger.With("component", "worker.cleanup"),
		interval:         interval,
		unverifiedMaxAge: unverifiedMaxAge,
	}
}

// Run starts the cleanup loop. An initial sweep runs immediately; after
// that, one sweep per interval. Blocks until the context is cancelled.
func (c *Cleanup) Run(ctx context.Context) error {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return errors.New("cleanup worker already started")
	}
	c.started = true
	c.done = make(chan struct{})
	ctx, c.cancel = context.WithCancel(ctx)
	c.mu.Unlock()

	defer close(c.done)

	c.logger.Info("cleanup worker started", "interval", c.interval.String())

	c.sweep(ctx)

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.logger.Info("cleanup worker stopping")
			return ctx.Err()
		case <-ticker.C:
			c.sweep(ctx)
		}
	}
}

// Shutdown stops the worker and waits for an in-flight sweep to finish.
// It implements server.ShutdownFunc for graceful shutdown integration.
func (c *Cleanup) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	if !c.started {
		c.mu.Unlock()
		return nil
	}
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	if done != nil {
		select {
		case <-done:
			c.logger.Info("cleanup worker shutdown complete")
			return nil
		case <-ctx.Done():
			c.logger.Warn("cleanup worker shutdown timed out")
			return ctx.Err()
		}
	}
	return nil
}

// sweep runs one cleanup pass. Failures are logged and retried on the
// next tick.
func (c *Cleanup) sweep(ctx context.Context) {
	start := time.Now()
	now := start.UTC()

	codes, err := c.store.DeleteExpiredVerificationCodes(ctx, now)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("failed to delete expired codes", "error", err)
		}
		return
	}

	users, err := c.store.DeleteStaleUnverifiedUsers(ctx, now.Add(-c.unverifiedMaxAge))
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			c.logger.Error("failed to delete stale accounts", "error", err)
		}
		return
	}

	if codes > 0 || users > 0 {
		c.logger.Info("cleanup sweep finished",
			"expired_codes", codes,
			"stale_accounts", users,
			"duration_ms", float64(time.Since(start).Microseconds())/1000,
		)
	}
}
