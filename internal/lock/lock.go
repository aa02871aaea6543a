// Package lock provides the named mutual exclusion required around a
// synchronization pass. The synchronizer itself is lock-free; callers hold
// a lock scoped to the index set for the duration of one pass.
package lock

import (
	"context"
	"errors"
	"time"
)

// ErrNotAcquired is returned when the lock is currently held elsewhere.
var ErrNotAcquired = errors.New("lock not acquired")

// Lease is a held lock. Release is idempotent; an expired lease releases
// nothing.
type Lease interface {
	Release(ctx context.Context) error
}

// Locker hands out named leases with an expiry, so a crashed holder cannot
// block synchronization forever.
type Locker interface {
	// Acquire takes the named lock for at most ttl. It does not block:
	// if the lock is held and unexpired, ErrNotAcquired is returned.
	Acquire(ctx context.Context, name string, ttl time.Duration) (Lease, error)
}
