package memory

import (
	"context"
	"sync"
)

// List implements ports.ItemList in memory. Items live as long as the process.
// Safe for concurrent use.
type List struct {
	items []string
	mu    sync.RWMutex
}

// NewList creates an empty in-memory list.
func NewList(items ...string) *List {
	return &List{items: append([]string(nil), items...)}
}

// Append adds text to the list.
func (l *List) Append(ctx context.Context, text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, text)
	return nil
}

// Items returns a copy of the list so callers can't mutate it.
func (l *List) Items(ctx context.Context) ([]string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	out := make([]string, len(l.items))
	copy(out, l.items)
	return out, nil
}
