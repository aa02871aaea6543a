package watermark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestPebbleStore(t *testing.T) *PebbleStore {
	t.Helper()
	s, err := NewPebbleStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestPebbleStore_RequiresPath(t *testing.T) {
	_, err := NewPebbleStore("")
	assert.Error(t, err)
}

func TestPebbleStore_CommitPersistsBufferedSets(t *testing.T) {
	s := newTestPebbleStore(t)
	ctx := context.Background()

	mark, err := s.Get(ctx, "idx1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), mark)

	s.Set("idx1", 100)
	s.Set("idx2", 50)

	// Buffered sets are visible before commit.
	mark, err = s.Get(ctx, "idx1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), mark)

	require.NoError(t, s.Commit(ctx))

	mark, err = s.Get(ctx, "idx2")
	require.NoError(t, err)
	assert.Equal(t, int64(50), mark)
}

func TestPebbleStore_Delete(t *testing.T) {
	s := newTestPebbleStore(t)
	ctx := context.Background()

	s.Set("idx1", 9)
	require.NoError(t, s.Commit(ctx))
	require.NoError(t, s.Delete(ctx, "idx1"))

	mark, err := s.Get(ctx, "idx1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), mark)
}

func TestPebbleStore_EmptyCommitIsNoop(t *testing.T) {
	s := newTestPebbleStore(t)
	require.NoError(t, s.Commit(context.Background()))
}
