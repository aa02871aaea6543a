package syncer

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchsync/internal/lock"
	"searchsync/internal/record"
	"searchsync/internal/registry"
	"searchsync/internal/tasklog"
)

func newTestRunner(t *testing.T, f *fixture, locker lock.Locker) *Runner {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Interval = time.Hour // passes only run via Trigger in tests
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewRunner(cfg, f.orch, locker, logger)
}

func TestRunner_TriggerRunsPass(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.define(t, registry.Definition{Name: "idx1", IncludedTypes: []string{"page"}, IndexLatest: true})
	f.recs.Put(record.Record{ID: "A", Type: "page"})
	f.appendTask(t, "A", tasklog.KindUpdate)

	r := newTestRunner(t, f, lock.NewMemoryLocker())
	require.NoError(t, r.Start(ctx))
	defer func() { _ = r.Stop(ctx) }()

	// The initial pass on start applies the pending task.
	require.Eventually(t, func() bool {
		return f.marks.Committed("idx1") == 1
	}, 5*time.Second, 10*time.Millisecond)

	f.appendTask(t, "A", tasklog.KindUpdate)
	r.Trigger()

	require.Eventually(t, func() bool {
		return f.marks.Committed("idx1") == 2
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunner_SkipsPassWhenLockHeld(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.define(t, registry.Definition{Name: "idx1", IncludedTypes: []string{"page"}, IndexLatest: true})
	f.recs.Put(record.Record{ID: "A", Type: "page"})
	f.appendTask(t, "A", tasklog.KindUpdate)

	locker := lock.NewMemoryLocker()
	held, err := locker.Acquire(ctx, DefaultConfig().LockName, time.Minute)
	require.NoError(t, err)

	r := newTestRunner(t, f, locker)
	require.NoError(t, r.Start(ctx))
	defer func() { _ = r.Stop(ctx) }()

	r.Trigger()
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, int64(0), f.marks.Committed("idx1"))

	// Once the lock is free, a new trigger goes through.
	require.NoError(t, held.Release(ctx))
	r.Trigger()
	require.Eventually(t, func() bool {
		return f.marks.Committed("idx1") == 1
	}, 5*time.Second, 10*time.Millisecond)
}

func TestRunner_StartTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	r := newTestRunner(t, f, lock.NewMemoryLocker())
	require.NoError(t, r.Start(ctx))
	assert.Error(t, r.Start(ctx))
	require.NoError(t, r.Stop(ctx))

	// Stop is idempotent.
	require.NoError(t, r.Stop(ctx))
}
