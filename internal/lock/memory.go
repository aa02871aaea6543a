package lock

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

type memLease struct {
	owner     string
	expiresAt time.Time
}

// MemoryLocker is an in-process locker for tests and single-process runs.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]memLease
}

// NewMemoryLocker creates an empty in-process locker.
func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{leases: make(map[string]memLease)}
}

func (l *MemoryLocker) Acquire(_ context.Context, name string, ttl time.Duration) (Lease, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if lease, ok := l.leases[name]; ok && lease.expiresAt.After(now) {
		return nil, ErrNotAcquired
	}

	owner := uuid.NewString()
	l.leases[name] = memLease{owner: owner, expiresAt: now.Add(ttl)}
	return &memoryLease{locker: l, name: name, owner: owner}, nil
}

type memoryLease struct {
	locker *MemoryLocker
	name   string
	owner  string
}

func (l *memoryLease) Release(_ context.Context) error {
	l.locker.mu.Lock()
	defer l.locker.mu.Unlock()

	if lease, ok := l.locker.leases[l.name]; ok && lease.owner == l.owner {
		delete(l.locker.leases, l.name)
	}
	return nil
}
