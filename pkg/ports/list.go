package ports

import "context"

// ItemList receives the items that made it through the gate.
type ItemList interface {
	// Append adds text to the end of the list.
	Append(ctx context.Context, text string) error

	// Items returns the list in insertion order.
	Items(ctx context.Context) ([]string, error)
}

// Notifier reports why an attempt was turned down ("wrong answer", "too short").
type Notifier interface {
	NotifyFailure(ctx context.Context, reason string) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, reason string) error

func (f NotifierFunc) NotifyFailure(ctx context.Context, reason string) error {
	return f(ctx, reason)
}
