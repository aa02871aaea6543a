package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"searchsync/internal/docbuilder"
)

func TestMemoryEngine_StoreAndDelete(t *testing.T) {
	e := NewMemoryEngine()
	ctx := context.Background()

	require.NoError(t, e.CreateIndex(ctx, "idx1"))
	require.NoError(t, e.StoreDocuments(ctx, "idx1", []docbuilder.Document{
		{RecordID: "a", Fields: map[string]interface{}{"title": "hello"}},
	}))

	doc, ok := e.Document("idx1", "a")
	require.True(t, ok)
	assert.Equal(t, "hello", doc.Fields["title"])
	assert.Equal(t, 1, e.Count("idx1"))

	require.NoError(t, e.DeleteDocuments(ctx, "idx1", []string{"a"}))
	_, ok = e.Document("idx1", "a")
	assert.False(t, ok)
}

func TestMemoryEngine_DeleteOfAbsentIsNoop(t *testing.T) {
	e := NewMemoryEngine()
	ctx := context.Background()

	// Neither the index nor the document exists.
	require.NoError(t, e.DeleteDocuments(ctx, "idx1", []string{"a"}))

	require.NoError(t, e.CreateIndex(ctx, "idx1"))
	require.NoError(t, e.DeleteDocuments(ctx, "idx1", []string{"a"}))
}

func TestMemoryEngine_ImplicitIndexOnStore(t *testing.T) {
	e := NewMemoryEngine()
	ctx := context.Background()

	require.NoError(t, e.StoreDocuments(ctx, "idx1", []docbuilder.Document{{RecordID: "a"}}))
	assert.True(t, e.HasIndex("idx1"))
}

func TestMemoryEngine_DeleteIndex(t *testing.T) {
	e := NewMemoryEngine()
	ctx := context.Background()

	require.NoError(t, e.CreateIndex(ctx, "idx1"))
	require.NoError(t, e.DeleteIndex(ctx, "idx1"))
	assert.False(t, e.HasIndex("idx1"))

	require.NoError(t, e.DeleteIndex(ctx, "idx1"))
}
