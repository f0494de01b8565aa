package steps

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// Func runs one step. prev is the outcome of the previous step (zero for the first).
type Func func(ctx context.Context, prev domain.Outcome) (domain.Outcome, error)

// Step is a named gate of the approval flow.
type Step struct {
	Name string
	Kind string
	Run  Func
}

// Presenter is the part of the dialog engine steps rely on.
type Presenter interface {
	Present(ctx context.Context, req domain.DialogRequest) (domain.DialogResult, error)
	Display(ctx context.Context, message string) (*dialog.Status, error)
}

// Waiter suspends a step for a fixed duration.
type Waiter interface {
	Wait(ctx context.Context, d time.Duration) error
}

// WaitFunc adapts a function to the Waiter interface.
type WaitFunc func(ctx context.Context, d time.Duration) error

func (f WaitFunc) Wait(ctx context.Context, d time.Duration) error { return f(ctx, d) }

// RealWaiter waits on the wall clock.
type RealWaiter struct{}

func (RealWaiter) Wait(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Library builds steps sharing one presenter, waiter and random source.
type Library struct {
	dialogs Presenter
	waiter  Waiter
	rng     *rand.Rand
	logger  *slog.Logger
}

// Option configures the Library.
type Option func(*Library)

// WithWaiter replaces the wall-clock waiter.
func WithWaiter(w Waiter) Option {
	return func(l *Library) {
		l.waiter = w
	}
}

// WithRand sets the random source used for challenges.
func WithRand(rng *rand.Rand) Option {
	return func(l *Library) {
		l.rng = rng
	}
}

// WithLogger configures a logger for the Library.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Library) {
		l.logger = logger
	}
}

// NewLibrary creates a step library presenting through p.
func NewLibrary(p Presenter, opts ...Option) *Library {
	l := &Library{
		dialogs: p,
		waiter:  RealWaiter{},
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Alert shows message with a single OK button and waits for it to be acknowledged.
func (l *Library) Alert(ctx context.Context, message string) error {
	_, err := l.dialogs.Present(ctx, domain.DialogRequest{
		Message:     message,
		Widgets:     []domain.WidgetSpec{domain.Button(LabelOK, true)},
		Dismissible: true,
	})
	return err
}
