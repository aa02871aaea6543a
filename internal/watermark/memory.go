package watermark

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory watermark store for tests.
type MemoryStore struct {
	mu      sync.Mutex
	marks   map[string]int64
	pending map[string]int64
	commits int
	// FailCommit makes the next Commit calls fail, for failure-path tests.
	FailCommit error
}

// NewMemoryStore creates an empty in-memory watermark store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		marks:   make(map[string]int64),
		pending: make(map[string]int64),
	}
}

func (s *MemoryStore) Get(_ context.Context, index string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if taskID, ok := s.pending[index]; ok {
		return taskID, nil
	}
	return s.marks[index], nil
}

func (s *MemoryStore) Set(index string, taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[index] = taskID
}

func (s *MemoryStore) Commit(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailCommit != nil {
		s.pending = make(map[string]int64)
		return s.FailCommit
	}
	for index, taskID := range s.pending {
		s.marks[index] = taskID
	}
	s.pending = make(map[string]int64)
	s.commits++
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, index string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.pending, index)
	delete(s.marks, index)
	return nil
}

// Committed returns the committed watermark for an index, ignoring buffered sets.
func (s *MemoryStore) Committed(index string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.marks[index]
}

// Commits returns the number of successful Commit calls.
func (s *MemoryStore) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}
