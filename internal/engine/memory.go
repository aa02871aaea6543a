package engine

import (
	"context"
	"sync"

	"searchsync/internal/docbuilder"
)

// MemoryEngine is an in-memory index engine for tests and embedded use.
// Indices are created implicitly on first store.
type MemoryEngine struct {
	mu      sync.RWMutex
	indices map[string]map[string]docbuilder.Document
}

// NewMemoryEngine creates an empty in-memory engine.
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{indices: make(map[string]map[string]docbuilder.Document)}
}

func (e *MemoryEngine) CreateIndex(_ context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, ok := e.indices[name]; !ok {
		e.indices[name] = make(map[string]docbuilder.Document)
	}
	return nil
}

func (e *MemoryEngine) DeleteIndex(_ context.Context, name string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.indices, name)
	return nil
}

func (e *MemoryEngine) StoreDocuments(_ context.Context, name string, docs []docbuilder.Document) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.indices[name]
	if !ok {
		idx = make(map[string]docbuilder.Document)
		e.indices[name] = idx
	}
	for _, doc := range docs {
		idx[doc.RecordID] = doc
	}
	return nil
}

func (e *MemoryEngine) DeleteDocuments(_ context.Context, name string, recordIDs []string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	idx, ok := e.indices[name]
	if !ok {
		return nil
	}
	for _, id := range recordIDs {
		delete(idx, id)
	}
	return nil
}

// HasIndex reports whether the index exists.
func (e *MemoryEngine) HasIndex(name string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	_, ok := e.indices[name]
	return ok
}

// Document returns a stored document by record id.
func (e *MemoryEngine) Document(name, recordID string) (docbuilder.Document, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	doc, ok := e.indices[name][recordID]
	return doc, ok
}

// Count returns the number of documents in an index.
func (e *MemoryEngine) Count(name string) int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.indices[name])
}
