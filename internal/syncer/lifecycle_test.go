package syncer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchsync/internal/record"
	"searchsync/internal/registry"
	"searchsync/internal/tasklog"
)

func TestCreateIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	def := registry.Definition{Name: "idx1", IncludedTypes: []string{"page"}}
	require.NoError(t, f.orch.CreateIndex(ctx, def))

	stored, err := f.reg.Get(ctx, "idx1")
	require.NoError(t, err)
	require.NotNil(t, stored)

	require.Len(t, f.eng.calls, 1)
	assert.Equal(t, engineCall{op: "createIndex", index: "idx1"}, f.eng.calls[0])
	assert.Equal(t, int64(0), f.marks.Committed("idx1"))
	assert.Equal(t, 1, f.marks.Commits())
}

func TestCreateIndex_InvalidDefinition(t *testing.T) {
	f := newFixture(t)
	err := f.orch.CreateIndex(context.Background(), registry.Definition{})
	assert.ErrorIs(t, err, registry.ErrInvalidDefinition)
	assert.Empty(t, f.eng.calls)
}

func TestEditIndex_DoesNotForceResync(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.define(t, registry.Definition{Name: "idx1", IncludedTypes: []string{"page"}, IndexLatest: true})
	f.recs.Put(record.Record{ID: "A", Type: "page"})
	f.appendTask(t, "A", tasklog.KindUpdate)
	require.NoError(t, f.orch.Synchronize(ctx, ""))

	updated := registry.Definition{Name: "idx1", IncludedTypes: []string{"page", "article"}, IndexLatest: true}
	require.NoError(t, f.orch.EditIndex(ctx, updated))

	stored, err := f.reg.Get(ctx, "idx1")
	require.NoError(t, err)
	assert.Equal(t, []string{"page", "article"}, stored.IncludedTypes)

	// The watermark is untouched: tasks already skipped under the old
	// filter are not retroactively picked up.
	assert.Equal(t, int64(1), f.marks.Committed("idx1"))
	f.eng.reset()
	require.NoError(t, f.orch.Synchronize(ctx, ""))
	assert.Empty(t, f.eng.calls)
}

func TestDeleteIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	def := registry.Definition{Name: "idx1", IncludedTypes: []string{"page"}}
	require.NoError(t, f.orch.CreateIndex(ctx, def))
	f.eng.reset()

	require.NoError(t, f.orch.DeleteIndex(ctx, def))

	require.Len(t, f.eng.calls, 1)
	assert.Equal(t, engineCall{op: "deleteIndex", index: "idx1"}, f.eng.calls[0])

	stored, err := f.reg.Get(ctx, "idx1")
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Equal(t, int64(0), f.marks.Committed("idx1"))
}

func TestRebuildIndex(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.define(t, registry.Definition{Name: "idx1", IncludedTypes: []string{"page"}, IndexLatest: true})
	f.recs.Put(record.Record{ID: "A", Type: "page"})
	f.appendTask(t, "A", tasklog.KindUpdate)
	require.NoError(t, f.orch.Synchronize(ctx, ""))
	require.Equal(t, int64(1), f.marks.Committed("idx1"))
	f.eng.reset()

	require.NoError(t, f.orch.RebuildIndex(ctx, "idx1"))

	require.Len(t, f.eng.calls, 2)
	assert.Equal(t, "deleteIndex", f.eng.calls[0].op)
	assert.Equal(t, "createIndex", f.eng.calls[1].op)
	assert.Equal(t, int64(0), f.marks.Committed("idx1"))

	// The next pass repopulates from the start of the log.
	f.eng.reset()
	require.NoError(t, f.orch.Synchronize(ctx, "idx1"))
	assert.Len(t, f.eng.callsFor("idx1"), 2)
	assert.Equal(t, int64(1), f.marks.Committed("idx1"))
}

func TestRebuildIndex_Unknown(t *testing.T) {
	f := newFixture(t)
	err := f.orch.RebuildIndex(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownIndex)
	assert.Empty(t, f.eng.calls)
}

func TestResetIndex_NoEngineCalls(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.marks.Set("idx1", 42)
	require.NoError(t, f.marks.Commit(ctx))

	require.NoError(t, f.orch.ResetIndex(ctx, "idx1"))
	assert.Equal(t, int64(0), f.marks.Committed("idx1"))
	assert.Empty(t, f.eng.calls)
}
