package flow

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/domain"
	"github.com/aretw0/taskgate/pkg/ports"
	"github.com/aretw0/taskgate/pkg/session"
	"github.com/aretw0/taskgate/pkg/steps"
)

// DefaultMinLength is the minimum number of characters of an accepted item.
// Characters are Unicode code points, so an emoji counts once.
const DefaultMinLength = 20

// DefaultKey identifies the list attempts are guarded on.
const DefaultKey = "tasks"

// Result describes how an attempt ended.
type Result struct {
	AttemptID string
	Status    domain.FlowStatus
	// Reason is the reported rejection reason; empty for silent declines.
	Reason string
	// StepsRun counts the steps that were started.
	StepsRun int
	// FailedStep names the step that rejected, empty when the final length
	// check did.
	FailedStep string
}

// Committed reports whether the item was appended to the list.
func (r Result) Committed() bool { return r.Status == domain.FlowCompleted }

// Controller runs the approval flow.
type Controller struct {
	steps     []steps.Step
	list      ports.ItemList
	notifier  ports.Notifier
	sessions  *session.Manager
	key       string
	minLength int
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option configures the Controller.
type Option func(*Controller)

// WithNotifier sets the collaborator told about validation rejections.
func WithNotifier(n ports.Notifier) Option {
	return func(c *Controller) {
		c.notifier = n
	}
}

// WithSessions shares an attempt manager (e.g. one backed by a distributed locker).
func WithSessions(m *session.Manager) Option {
	return func(c *Controller) {
		c.sessions = m
	}
}

// WithKey sets the key attempts are guarded on.
func WithKey(key string) Option {
	return func(c *Controller) {
		c.key = key
	}
}

// WithMinLength overrides DefaultMinLength.
func WithMinLength(n int) Option {
	return func(c *Controller) {
		c.minLength = n
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates a controller running seq and committing to list.
func NewController(seq []steps.Step, list ports.ItemList, opts ...Option) *Controller {
	c := &Controller{
		steps:     append([]steps.Step(nil), seq...),
		list:      list,
		notifier:  ports.NotifierFunc(func(context.Context, string) error { return nil }),
		key:       DefaultKey,
		minLength: DefaultMinLength,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.sessions == nil {
		c.sessions = session.NewManager(session.WithLogger(c.logger))
	}
	return c
}

// Steps returns the ordered step list.
func (c *Controller) Steps() []steps.Step {
	return append([]steps.Step(nil), c.steps...)
}

// Snapshot returns the state of the attempt in flight, if any.
func (c *Controller) Snapshot() (domain.FlowState, bool) {
	return c.sessions.Snapshot(c.key)
}

// Submit runs one attempt for text. Rejections are reported in the Result; an
// error means the attempt could not run properly (empty text, attempt already in
// flight, bad dialog configuration, broken surface or list).
func (c *Controller) Submit(ctx context.Context, text string) (Result, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, domain.ErrEmptySubmission
	}

	state, release, err := c.sessions.Begin(ctx, c.key, text)
	if err != nil {
		return Result{}, err
	}
	defer release()

	started := time.Now()
	res, runErr := c.run(ctx, state.AttemptID, text)

	c.sessions.Update(c.key, func(s *domain.FlowState) {
		s.Status = res.Status
	})
	c.logger.Info("attempt finished",
		"attempt_id", res.AttemptID,
		"status", res.Status,
		"reason", res.Reason,
		"steps_run", res.StepsRun,
		"err", runErr,
	)
	if c.hooks.OnFlowEnd != nil {
		c.hooks.OnFlowEnd(ctx, &domain.FlowEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventFlowEnd, AttemptID: res.AttemptID},
			Status:    res.Status,
			Reason:    res.Reason,
			StepsRun:  res.StepsRun,
			Duration:  time.Since(started),
			Err:       runErr,
		})
	}
	return res, runErr
}

func (c *Controller) run(ctx context.Context, attemptID, text string) (Result, error) {
	res := Result{AttemptID: attemptID, Status: domain.FlowRunning}

	var prev domain.Outcome
	for i, step := range c.steps {
		c.sessions.Update(c.key, func(s *domain.FlowState) {
			s.CurrentStepIndex = i
			s.CurrentStep = step.Name
		})

		out, err := c.runStep(ctx, attemptID, i, step, prev)
		res.StepsRun = i + 1
		if err != nil {
			res.Status = domain.FlowRejected
			res.FailedStep = step.Name
			return res, fmt.Errorf("step %d (%s): %w", i, step.Name, err)
		}
		if !out.Accepted() {
			res.FailedStep = step.Name
			return c.reject(ctx, res, out.Reason)
		}
		prev = out
	}

	// Completed: the length check is the last word.
	if utf8.RuneCountInString(text) < c.minLength {
		return c.reject(ctx, res, domain.ReasonTooShort)
	}
	if err := c.list.Append(ctx, text); err != nil {
		res.Status = domain.FlowRejected
		return res, fmt.Errorf("commit item: %w", err)
	}
	res.Status = domain.FlowCompleted
	return res, nil
}

func (c *Controller) runStep(ctx context.Context, attemptID string, i int, step steps.Step, prev domain.Outcome) (domain.Outcome, error) {
	ev := &domain.StepEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepStart, AttemptID: attemptID},
		Index:     i,
		StepName:  step.Name,
	}
	if c.hooks.OnStepStart != nil {
		c.hooks.OnStepStart(ctx, ev)
	}

	started := time.Now()
	out, err := step.Run(ctx, prev)

	if c.hooks.OnStepEnd != nil {
		c.hooks.OnStepEnd(ctx, &domain.StepEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStepEnd, AttemptID: attemptID},
			Index:     i,
			StepName:  step.Name,
			Verdict:   out.Verdict,
			Reason:    out.Reason,
			Duration:  time.Since(started),
			Err:       err,
		})
	}
	return out, err
}

func (c *Controller) reject(ctx context.Context, res Result, reason string) (Result, error) {
	res.Status = domain.FlowRejected
	res.Reason = reason
	if reason == "" {
		return res, nil
	}
	if err := c.notifier.NotifyFailure(ctx, reason); err != nil {
		return res, fmt.Errorf("notify failure %q: %w", reason, err)
	}
	return res, nil
}
