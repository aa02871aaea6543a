package record

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory record store for tests and embedded use.
type MemoryStore struct {
	mu        sync.RWMutex
	latest    map[string]Record
	published map[string]Record
}

// NewMemoryStore creates an empty in-memory record store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		latest:    make(map[string]Record),
		published: make(map[string]Record),
	}
}

// Put stores the latest working snapshot of a record.
func (s *MemoryStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[rec.ID] = rec
}

// Publish stores rec as both the latest and the published snapshot.
func (s *MemoryStore) Publish(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest[rec.ID] = rec
	s.published[rec.ID] = rec
}

// Remove drops a record entirely, so it no longer resolves.
func (s *MemoryStore) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.latest, id)
	delete(s.published, id)
}

func (s *MemoryStore) ResolveMany(_ context.Context, ids []string, latest bool) (map[string]Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	source := s.published
	if latest {
		source = s.latest
	}

	result := make(map[string]Record, len(ids))
	for _, id := range ids {
		if rec, ok := source[id]; ok {
			result[id] = rec
		}
	}
	return result, nil
}
