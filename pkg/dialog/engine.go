package dialog

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/domain"
)

// Engine presents dialogs on a Surface, one at a time.
type Engine struct {
	surface Surface
	slot    chan struct{}
	nextID  atomic.Uint64
	logger  *slog.Logger
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger configures a logger for the Engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an Engine drawing on surface.
func NewEngine(surface Surface, opts ...Option) *Engine {
	e := &Engine{
		surface: surface,
		slot:    make(chan struct{}, 1),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Present shows req and blocks until one widget is activated (or the dialog is
// dismissed, when allowed). An invalid request fails with a *domain.ConfigurationError
// before anything is shown. ctx cancellation abandons the dialog.
func (e *Engine) Present(ctx context.Context, req domain.DialogRequest) (domain.DialogResult, error) {
	if err := req.Validate(); err != nil {
		return domain.DialogResult{}, err
	}

	release, err := e.acquire(ctx)
	if err != nil {
		return domain.DialogResult{}, err
	}
	defer release()

	f := newFrame(e.nextID.Add(1), req)
	defer func() {
		f.abandon()
		e.surface.Hide(f)
	}()

	e.logger.Debug("dialog shown", "frame", f.ID(), "widgets", len(req.Widgets))
	if err := e.surface.Show(ctx, f); err != nil {
		return domain.DialogResult{}, err
	}

	select {
	case s := <-f.result:
		if s.err != nil {
			e.logger.Debug("dialog failed", "frame", f.ID(), "err", s.err)
			return domain.DialogResult{}, s.err
		}
		e.logger.Debug("dialog resolved", "frame", f.ID(), "widget", s.res.Widget, "dismissed", s.res.Dismissed)
		return s.res, nil
	case <-ctx.Done():
		e.logger.Debug("dialog abandoned", "frame", f.ID(), "err", ctx.Err())
		return domain.DialogResult{}, ctx.Err()
	}
}

// Display shows a non-interactive status frame. The caller owns the surface
// until Status.Close is called.
func (e *Engine) Display(ctx context.Context, message string) (*Status, error) {
	release, err := e.acquire(ctx)
	if err != nil {
		return nil, err
	}

	f := newFrame(e.nextID.Add(1), domain.DialogRequest{Message: message})
	s := &Status{engine: e, frame: f, release: release}
	e.logger.Debug("status shown", "frame", f.ID())
	if err := e.surface.Show(ctx, f); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (e *Engine) acquire(ctx context.Context) (func(), error) {
	select {
	case e.slot <- struct{}{}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	var once sync.Once
	return func() {
		once.Do(func() { <-e.slot })
	}, nil
}

// Status is a handle on a non-interactive frame shown by Display.
type Status struct {
	engine  *Engine
	frame   *Frame
	release func()
	once    sync.Once
}

// Frame exposes the underlying frame.
func (s *Status) Frame() *Frame { return s.frame }

// SetMessage replaces the status message.
func (s *Status) SetMessage(msg string) {
	s.frame.setMessage(msg)
	s.engine.surface.Refresh(s.frame)
}

// SetProgress sets the progress indicator, clamped to [0,1].
func (s *Status) SetProgress(fraction float64) {
	s.frame.setProgress(fraction)
	s.engine.surface.Refresh(s.frame)
}

// Close hides the frame and gives the surface back. It is idempotent.
func (s *Status) Close() {
	s.once.Do(func() {
		s.frame.abandon()
		s.engine.surface.Hide(s.frame)
		s.engine.logger.Debug("status closed", "frame", s.frame.ID())
		s.release()
	})
}
