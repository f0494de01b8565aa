package memory

import (
	"context"
	"sync"
	"time"

	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/ports"
)

type lease struct {
	token   uint64
	expires time.Time
}

// Locker implements ports.DistributedLocker inside one process.
// It is meant for tests and single-process deployments.
type Locker struct {
	mu     sync.Mutex
	leases map[string]lease
	next   uint64
	now    func() time.Time
}

// NewLocker creates an in-memory locker.
func NewLocker() *Locker {
	return &Locker{
		leases: make(map[string]lease),
		now:    time.Now,
	}
}

// Lock acquires key unless a live lease exists.
func (l *Locker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if cur, ok := l.leases[key]; ok && now.Before(cur.expires) {
		return nil, domain.ErrLockHeld
	}
	l.next++
	token := l.next
	l.leases[key] = lease{token: token, expires: now.Add(ttl)}

	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		// Only the holder of this lease may release it.
		if cur, ok := l.leases[key]; ok && cur.token == token {
			delete(l.leases, key)
		}
		return nil
	}, nil
}
