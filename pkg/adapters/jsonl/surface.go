// Package jsonl implements a headless dialog surface speaking JSON Lines.
//
// Every frame is announced as one JSON object per line on the writer and
// commands are read one per line from the reader. It is meant for hosts that
// drive the gate programmatically (editors, test harnesses, other processes).
package jsonl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/aretw0/taskgate/internal/lineio"
	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// Event names written by the Surface.
const (
	EventDialog  = "dialog"
	EventStatus  = "status"
	EventUpdate  = "update"
	EventControl = "control"
	EventClose   = "close"
	EventError   = "error"
	EventReady   = "ready"
	EventItems   = "items"
	EventNotice  = "notice"
)

// Actions accepted on the reader.
const (
	ActionActivate = "activate"
	ActionScroll   = "scroll"
	ActionDismiss  = "dismiss"
	ActionSubmit   = "submit"
	ActionAdd      = "add"
)

// Control describes a widget of a dialog event.
type Control struct {
	Index   int               `json:"index"`
	Kind    domain.WidgetKind `json:"kind"`
	Label   string            `json:"label"`
	Enabled bool              `json:"enabled"`
	Href    string            `json:"href,omitempty"`
	Content string            `json:"content,omitempty"`
}

// Event is one line of output.
type Event struct {
	Event       string    `json:"event"`
	Frame       uint64    `json:"frame,omitempty"`
	Message     string    `json:"message,omitempty"`
	Dismissible bool      `json:"dismissible,omitempty"`
	Controls    []Control `json:"controls,omitempty"`
	Progress    *float64  `json:"progress,omitempty"`
	Items       []string  `json:"items,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Command is one line of input.
type Command struct {
	Action  string `json:"action"`
	Control *int   `json:"control,omitempty"`
	Text    string `json:"text,omitempty"`
	Offset  int    `json:"offset,omitempty"`
	Visible int    `json:"visible,omitempty"`
	Total   int    `json:"total,omitempty"`
}

// Surface implements dialog.Surface over JSON Lines.
type Surface struct {
	in     *lineio.Reader
	mu     sync.Mutex // guards enc and last
	enc    *json.Encoder
	logger *slog.Logger

	last map[uint64]lastUpdate
}

type lastUpdate struct {
	message  string
	progress float64
}

// Option configures the Surface.
type Option func(*Surface)

// WithLogger configures a logger for the Surface.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		s.logger = logger
	}
}

// NewSurface creates a JSONL surface.
func NewSurface(in *lineio.Reader, w io.Writer, opts ...Option) *Surface {
	s := &Surface{
		in:     in,
		enc:    json.NewEncoder(w),
		logger: logging.NewNop(),
		last:   map[uint64]lastUpdate{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) emit(ev Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emitLocked(ev)
}

func (s *Surface) emitLocked(ev Event) {
	if err := s.enc.Encode(ev); err != nil {
		s.logger.Warn("failed to write event", "event", ev.Event, "err", err)
	}
}

func (s *Surface) Show(ctx context.Context, f *dialog.Frame) error {
	if !f.Interactive() {
		p := f.Progress()
		ev := Event{Event: EventStatus, Frame: f.ID(), Message: f.Message()}
		if p != dialog.NoProgress {
			ev.Progress = &p
		}
		s.mu.Lock()
		s.last[f.ID()] = lastUpdate{message: f.Message(), progress: p}
		s.emitLocked(ev)
		s.mu.Unlock()
		return nil
	}

	s.emit(Event{
		Event:       EventDialog,
		Frame:       f.ID(),
		Message:     f.Message(),
		Dismissible: f.Dismissible(),
		Controls:    describe(f.Controls()),
	})
	go s.interact(ctx, f)
	return nil
}

func (s *Surface) Refresh(f *dialog.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, ok := s.last[f.ID()]
	if !ok {
		return
	}
	next := lastUpdate{message: f.Message(), progress: f.Progress()}
	if next == prev {
		return
	}
	s.last[f.ID()] = next
	ev := Event{Event: EventUpdate, Frame: f.ID()}
	if next.message != prev.message {
		ev.Message = next.message
	}
	if next.progress != dialog.NoProgress && next.progress != prev.progress {
		p := next.progress
		ev.Progress = &p
	}
	s.emitLocked(ev)
}

func (s *Surface) Hide(f *dialog.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.last, f.ID())
	s.emitLocked(Event{Event: EventClose, Frame: f.ID()})
}

func (s *Surface) interact(ctx context.Context, f *dialog.Frame) {
	for !f.Resolved() {
		line, err := s.in.Read(ctx, f.Done())
		switch {
		case err == nil:
		case lineio.IsInvalidInput(err):
			s.fail(f, err)
			continue
		case errors.Is(err, lineio.ErrStopped), ctx.Err() != nil:
			return
		case errors.Is(err, io.EOF):
			s.logger.Debug("input closed while dialog open", "frame", f.ID())
			if !f.Dismiss() {
				f.Fail(domain.ErrSurfaceClosed)
			}
			return
		default:
			f.Fail(fmt.Errorf("%w: %w", domain.ErrSurfaceClosed, err))
			return
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := s.handle(f, parseCommand(line)); err != nil {
			s.fail(f, err)
		}
	}
}

func (s *Surface) fail(f *dialog.Frame, err error) {
	s.emit(Event{Event: EventError, Frame: f.ID(), Error: err.Error()})
}

func (s *Surface) handle(f *dialog.Frame, cmd Command) error {
	controls := f.Controls()
	switch cmd.Action {
	case ActionDismiss:
		if !f.Dismiss() {
			return errors.New("dialog cannot be dismissed")
		}
		return nil

	case ActionScroll:
		idx, err := index(cmd, controls)
		if err != nil {
			return err
		}
		before := controls[idx].Enabled
		if after := f.Scrolled(idx, cmd.Offset, cmd.Visible, cmd.Total); after != before {
			s.emit(Event{Event: EventControl, Frame: f.ID(), Controls: describe(f.Controls()[idx : idx+1])})
		}
		return nil

	case ActionActivate:
		idx, err := index(cmd, controls)
		if err != nil {
			return err
		}
		if !controls[idx].Enabled {
			return fmt.Errorf("control %d is locked", idx)
		}
		f.Activate(idx, cmd.Text)
		return nil

	case ActionSubmit, ActionAdd:
		for _, c := range controls {
			if c.Spec.Kind == domain.WidgetTextInput {
				f.Activate(c.Index, cmd.Text)
				return nil
			}
		}
		// Without a text input the text selects a control by label or number.
		for _, c := range controls {
			if strings.EqualFold(c.Spec.Label, strings.TrimSpace(cmd.Text)) {
				return s.handle(f, Command{Action: ActionActivate, Control: &c.Index})
			}
		}
		if n, err := strconv.Atoi(strings.TrimSpace(cmd.Text)); err == nil {
			n--
			return s.handle(f, Command{Action: ActionActivate, Control: &n})
		}
		return fmt.Errorf("no control matches %q", cmd.Text)

	default:
		return fmt.Errorf("unknown action %q", cmd.Action)
	}
}

func index(cmd Command, controls []dialog.Control) (int, error) {
	if cmd.Control == nil {
		return 0, fmt.Errorf("action %q requires a control", cmd.Action)
	}
	if *cmd.Control < 0 || *cmd.Control >= len(controls) {
		return 0, fmt.Errorf("control %d out of range", *cmd.Control)
	}
	return *cmd.Control, nil
}

// parseCommand accepts a Command object, a JSON string, or raw text. Strings
// and raw text become a submit.
func parseCommand(line string) Command {
	text := strings.TrimSpace(line)
	var cmd Command
	if err := json.Unmarshal([]byte(text), &cmd); err == nil && cmd.Action != "" {
		return cmd
	}
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		return Command{Action: ActionSubmit, Text: val}
	}
	return Command{Action: ActionSubmit, Text: line}
}

func describe(controls []dialog.Control) []Control {
	out := make([]Control, len(controls))
	for i, c := range controls {
		out[i] = Control{
			Index:   c.Index,
			Kind:    c.Spec.Kind,
			Label:   c.Spec.Label,
			Enabled: c.Enabled,
			Href:    c.Spec.Href,
			Content: c.Spec.Content,
		}
	}
	return out
}
