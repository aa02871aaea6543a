package tasklog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLog_AppendAssignsIncreasingIDs(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()

	first, err := l.Append(ctx, "a", KindUpdate)
	require.NoError(t, err)
	second, err := l.Append(ctx, "b", KindDelete)
	require.NoError(t, err)

	assert.Equal(t, int64(1), first.ID)
	assert.Equal(t, int64(2), second.ID)
	assert.Equal(t, 2, l.Len())
}

func TestMemoryLog_FetchPagination(t *testing.T) {
	l := NewMemoryLog()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := l.Append(ctx, "rec", KindUpdate)
		require.NoError(t, err)
	}

	page, err := l.Fetch(ctx, 0, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, int64(1), page[0].ID)
	assert.Equal(t, int64(2), page[1].ID)

	page, err = l.Fetch(ctx, page[1].ID, 10)
	require.NoError(t, err)
	require.Len(t, page, 3)
	assert.Equal(t, int64(3), page[0].ID)

	page, err = l.Fetch(ctx, 5, 10)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestKind_IsValid(t *testing.T) {
	assert.True(t, KindUpdate.IsValid())
	assert.True(t, KindDelete.IsValid())
	assert.False(t, Kind("rename").IsValid())
}
