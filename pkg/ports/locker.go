package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets the attempt guard refuse a second submission while another replica
// is running one for the same list.
type DistributedLocker interface {
	// Lock tries to acquire the lock for key without waiting.
	// It returns domain.ErrLockHeld when someone else holds it. The lock expires
	// after ttl if never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
