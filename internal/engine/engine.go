// Package engine defines the physical index contract consumed by the
// synchronizer. The engine owns persistence, analysis and query execution;
// the synchronizer only creates/drops indices and stores/deletes documents.
package engine

import (
	"context"

	"searchsync/internal/docbuilder"
)

// Engine is the physical index boundary.
//
// Deleting documents that are not present must be a no-op; the
// synchronizer relies on this to collapse updates into delete + reinsert.
type Engine interface {
	CreateIndex(ctx context.Context, name string) error
	DeleteIndex(ctx context.Context, name string) error
	StoreDocuments(ctx context.Context, name string, docs []docbuilder.Document) error
	DeleteDocuments(ctx context.Context, name string, recordIDs []string) error
}
