package driven

import (
	"context"
	"time"
)

// DistributedLock provides lease-style locking for coordinating work across
// instances. Used to stop concurrent indexing runs from duplicating work.
type DistributedLock interface {
	// Acquire attempts to acquire a named lock with the given TTL.
	// Returns true if the lock was acquired, false if already held.
	// The lock expires on its own after TTL.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Best-effort; safe to call even if the
	// lock is not held or has expired.
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a currently held lock.
	// Returns error if the lock is not held by this instance.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy.
	Ping(ctx context.Context) error
}
