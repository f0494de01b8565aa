package taskgate

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/adapters/memory"
	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/flow"
	"github.com/aretw0/taskgate/pkg/ports"
	"github.com/aretw0/taskgate/pkg/registry"
	"github.com/aretw0/taskgate/pkg/schema"
	"github.com/aretw0/taskgate/pkg/session"
	"github.com/aretw0/taskgate/pkg/steps"
)

// Gate is the high-level entry point for the taskgate library.
// It wires a dialog surface, the step library, a flow and the item list.
type Gate struct {
	engine     *dialog.Engine
	library    *steps.Library
	controller *flow.Controller
	list       ports.ItemList
	file       *schema.File
	minLength  int
}

type settings struct {
	list      ports.ItemList
	file      *schema.File
	registry  *registry.Registry
	minLength int
	notifier  ports.Notifier
	sessions  *session.Manager
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	waiter    steps.Waiter
	rng       *rand.Rand
}

// Option defines a functional option for configuring the Gate.
type Option func(*settings)

// WithList sets where accepted items are committed. Defaults to an in-memory list.
func WithList(list ports.ItemList) Option {
	return func(s *settings) {
		s.list = list
	}
}

// WithFlow runs the steps of f instead of the built-in flow.
func WithFlow(f *schema.File) Option {
	return func(s *settings) {
		s.file = f
	}
}

// WithRegistry sets the step kinds available to flow files.
func WithRegistry(r *registry.Registry) Option {
	return func(s *settings) {
		s.registry = r
	}
}

// WithMinLength overrides the minimum item length, including the one of a flow file.
func WithMinLength(n int) Option {
	return func(s *settings) {
		s.minLength = n
	}
}

// WithNotifier replaces the alert shown on validation rejections.
func WithNotifier(n ports.Notifier) Option {
	return func(s *settings) {
		s.notifier = n
	}
}

// WithSessions shares an attempt manager (e.g. one backed by redis).
func WithSessions(m *session.Manager) Option {
	return func(s *settings) {
		s.sessions = m
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = hooks
	}
}

// WithLogger configures a structured logger for every component.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithWaiter replaces the wall clock used by timed steps.
func WithWaiter(w steps.Waiter) Option {
	return func(s *settings) {
		s.waiter = w
	}
}

// WithRand sets the random source of challenges.
func WithRand(rng *rand.Rand) Option {
	return func(s *settings) {
		s.rng = rng
	}
}

// New creates a Gate presenting its dialogs on surface.
func New(surface dialog.Surface, opts ...Option) (*Gate, error) {
	s := &settings{logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	if s.list == nil {
		s.list = memory.NewList()
	}
	if s.registry == nil {
		s.registry = registry.Default()
	}
	if s.file == nil {
		s.file = registry.DefaultFile()
	}

	engine := dialog.NewEngine(surface, dialog.WithLogger(s.logger))
	libOpts := []steps.Option{steps.WithLogger(s.logger)}
	if s.waiter != nil {
		libOpts = append(libOpts, steps.WithWaiter(s.waiter))
	}
	if s.rng != nil {
		libOpts = append(libOpts, steps.WithRand(s.rng))
	}
	lib := steps.NewLibrary(engine, libOpts...)

	seq, err := s.registry.BuildFlow(lib, s.file)
	if err != nil {
		return nil, fmt.Errorf("failed to build flow: %w", err)
	}

	minLength := flow.DefaultMinLength
	if s.file.MinLength > 0 {
		minLength = s.file.MinLength
	}
	if s.minLength > 0 {
		minLength = s.minLength
	}
	if s.notifier == nil {
		s.notifier = NewAlertNotifier(lib)
	}

	ctrlOpts := []flow.Option{
		flow.WithNotifier(s.notifier),
		flow.WithMinLength(minLength),
		flow.WithLifecycleHooks(s.hooks),
		flow.WithLogger(s.logger),
	}
	if s.sessions != nil {
		ctrlOpts = append(ctrlOpts, flow.WithSessions(s.sessions))
	}

	return &Gate{
		engine:     engine,
		library:    lib,
		controller: flow.NewController(seq, s.list, ctrlOpts...),
		list:       s.list,
		file:       s.file,
		minLength:  minLength,
	}, nil
}

// Submit runs one approval attempt for text.
func (g *Gate) Submit(ctx context.Context, text string) (flow.Result, error) {
	return g.controller.Submit(ctx, text)
}

// Items returns the accepted items.
func (g *Gate) Items(ctx context.Context) ([]string, error) {
	return g.list.Items(ctx)
}

// List returns the item list the gate commits to.
func (g *Gate) List() ports.ItemList { return g.list }

// Controller exposes the flow controller (status snapshot, step list).
func (g *Gate) Controller() *flow.Controller { return g.controller }

// Library exposes the step library bound to the gate's surface.
func (g *Gate) Library() *steps.Library { return g.library }

// Flow returns the flow file the gate runs.
func (g *Gate) Flow() *schema.File { return g.file }

// MinLength returns the effective minimum item length.
func (g *Gate) MinLength() int { return g.minLength }
