package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/ports"
	"github.com/google/uuid"
)

// DefaultLockTTL bounds how long a crashed replica can keep a key locked.
const DefaultLockTTL = 5 * time.Minute

// ReleaseFunc ends an attempt and discards its FlowState. It is idempotent.
type ReleaseFunc func()

// Manager tracks the in-flight attempts.
type Manager struct {
	mu     sync.Mutex
	active map[string]*domain.FlowState

	locker ports.DistributedLocker // Optional distributed locker
	ttl    time.Duration
	logger *slog.Logger
	newID  func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithIDGenerator replaces the uuid attempt ID generator.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		m.newID = fn
	}
}

// NewManager creates an attempt manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		active: make(map[string]*domain.FlowState),
		ttl:    DefaultLockTTL,
		logger: logging.NewNop(),
		newID:  uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin opens an attempt for key with the submitted text. It fails with
// domain.ErrAttemptInFlight, leaving the running attempt untouched, when key is
// already busy here or (with a locker) on another replica.
func (m *Manager) Begin(ctx context.Context, key, text string) (*domain.FlowState, ReleaseFunc, error) {
	m.mu.Lock()
	if _, busy := m.active[key]; busy {
		m.mu.Unlock()
		return nil, nil, domain.ErrAttemptInFlight
	}
	state := domain.NewFlowState(m.newID(), text)
	m.active[key] = state
	m.mu.Unlock()

	var unlock ports.UnlockFunc
	if m.locker != nil {
		var err error
		unlock, err = m.locker.Lock(ctx, key, m.ttl)
		if err != nil {
			m.drop(key, state)
			if errors.Is(err, domain.ErrLockHeld) {
				return nil, nil, fmt.Errorf("%w: %w", domain.ErrAttemptInFlight, err)
			}
			return nil, nil, fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
	}

	var once sync.Once
	release := func() {
		once.Do(func() {
			if unlock != nil {
				// Release with a fresh context: ctx may be the cancelled one that ended the attempt.
				if err := unlock(context.Background()); err != nil {
					m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
						"key", key,
						"err", err,
					)
				}
			}
			m.drop(key, state)
		})
	}
	m.logger.Debug("attempt started", "key", key, "attempt_id", state.AttemptID)
	return state, release, nil
}

func (m *Manager) drop(key string, state *domain.FlowState) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active[key] == state {
		delete(m.active, key)
	}
}

// Update mutates the attempt state of key under the manager lock.
// It is a no-op when no attempt is running.
func (m *Manager) Update(key string, fn func(*domain.FlowState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if state, ok := m.active[key]; ok {
		fn(state)
	}
}

// Snapshot returns a copy of the running attempt for key.
func (m *Manager) Snapshot(key string) (domain.FlowState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state, ok := m.active[key]
	if !ok {
		return domain.FlowState{}, false
	}
	return *state, true
}

// Active lists the keys with an attempt in flight.
func (m *Manager) Active() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.active))
	for k := range m.active {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
