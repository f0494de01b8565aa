package testutils

import (
	"context"
	"sync"
	"time"
)

// InstantWaiter returns immediately and records the requested durations.
type InstantWaiter struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (w *InstantWaiter) Wait(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.waits = append(w.waits, d)
	return nil
}

// Total is the sum of all waits.
func (w *InstantWaiter) Total() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	var total time.Duration
	for _, d := range w.waits {
		total += d
	}
	return total
}

// Count is the number of waits.
func (w *InstantWaiter) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.waits)
}
