package syncer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"searchsync/internal/lock"
	"searchsync/internal/metrics"
)

// Runner schedules synchronization passes: a periodic tick plus an external
// trigger channel. Every pass runs under the named lock, so multiple
// runner instances sharing a locker never interleave passes.
type Runner struct {
	cfg    Config
	orch   *Orchestrator
	locker lock.Locker
	logger *slog.Logger

	mu        sync.Mutex
	running   bool
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	triggerCh chan struct{}
}

// NewRunner creates a Runner around the orchestrator.
func NewRunner(cfg Config, orch *Orchestrator, locker lock.Locker, logger *slog.Logger) *Runner {
	cfg.ApplyDefaults()
	return &Runner{
		cfg:       cfg,
		orch:      orch,
		locker:    locker,
		logger:    logger.With("component", "runner"),
		triggerCh: make(chan struct{}, 1),
	}
}

// Start starts the pass loop.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	if r.running {
		r.mu.Unlock()
		return fmt.Errorf("runner already running")
	}

	runCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel
	r.running = true
	r.mu.Unlock()

	r.wg.Add(1)
	go r.loop(runCtx)

	r.logger.Info("runner started", "interval", r.cfg.Interval)
	return nil
}

// Stop stops the pass loop, waiting for an in-flight pass to finish.
func (r *Runner) Stop(ctx context.Context) error {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}

	r.cancel()
	r.running = false
	r.mu.Unlock()

	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		r.logger.Info("runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Trigger requests an immediate pass.
func (r *Runner) Trigger() {
	select {
	case r.triggerCh <- struct{}{}:
	default:
		// Already triggered
	}
}

func (r *Runner) loop(ctx context.Context) {
	defer r.wg.Done()

	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.runPass(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.runPass(ctx)
		case <-r.triggerCh:
			r.runPass(ctx)
		}
	}
}

// runPass runs one pass under the named lock. A held lock means another
// instance is synchronizing; the pass is skipped, not queued.
func (r *Runner) runPass(ctx context.Context) {
	lease, err := r.locker.Acquire(ctx, r.cfg.LockName, r.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			r.logger.Debug("pass skipped, lock held elsewhere", "lock", r.cfg.LockName)
			return
		}
		r.logger.Error("failed to acquire lock", "lock", r.cfg.LockName, "error", err)
		return
	}
	defer func() {
		if err := lease.Release(ctx); err != nil {
			r.logger.Warn("failed to release lock", "lock", r.cfg.LockName, "error", err)
		}
	}()

	start := time.Now()
	err = r.orch.Synchronize(ctx, "")
	metrics.PassDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.PassesTotal.WithLabelValues("error").Inc()
		r.logger.Error("pass failed", "error", err)
		return
	}
	metrics.PassesTotal.WithLabelValues("ok").Inc()
}
