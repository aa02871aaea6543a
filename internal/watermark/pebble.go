package watermark

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cockroachdb/pebble"
)

const keyPrefix = "wm/"

// PebbleStore keeps watermarks in an embedded PebbleDB, for single-node
// deployments that do not want a database round-trip per commit.
type PebbleStore struct {
	db *pebble.DB

	mu      sync.Mutex
	pending map[string]int64
}

// NewPebbleStore opens (or creates) a watermark store at path.
func NewPebbleStore(path string) (*PebbleStore, error) {
	if path == "" {
		return nil, fmt.Errorf("store path is required")
	}
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("failed to open pebble database: %w", err)
	}

	return &PebbleStore{
		db:      db,
		pending: make(map[string]int64),
	}, nil
}

func (s *PebbleStore) Get(_ context.Context, index string) (int64, error) {
	s.mu.Lock()
	if taskID, ok := s.pending[index]; ok {
		s.mu.Unlock()
		return taskID, nil
	}
	s.mu.Unlock()

	value, closer, err := s.db.Get(markKey(index))
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return 0, nil
		}
		return 0, err
	}
	defer closer.Close()

	if len(value) != 8 {
		return 0, fmt.Errorf("corrupt watermark value for %q", index)
	}
	return int64(binary.BigEndian.Uint64(value)), nil
}

func (s *PebbleStore) Set(index string, taskID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[index] = taskID
}

func (s *PebbleStore) Commit(_ context.Context) error {
	s.mu.Lock()
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	pending := s.pending
	s.pending = make(map[string]int64)
	s.mu.Unlock()

	batch := s.db.NewBatch()
	defer batch.Close()

	var buf [8]byte
	for index, taskID := range pending {
		binary.BigEndian.PutUint64(buf[:], uint64(taskID))
		if err := batch.Set(markKey(index), buf[:], nil); err != nil {
			return err
		}
	}

	return s.db.Apply(batch, pebble.Sync)
}

func (s *PebbleStore) Delete(_ context.Context, index string) error {
	s.mu.Lock()
	delete(s.pending, index)
	s.mu.Unlock()

	return s.db.Delete(markKey(index), pebble.Sync)
}

// Close closes the underlying database. Buffered sets are discarded.
func (s *PebbleStore) Close() error {
	return s.db.Close()
}

func markKey(index string) []byte {
	return []byte(keyPrefix + index)
}
