// Package testutils provides a scripted dialog surface for tests.
package testutils

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// ErrScriptExhausted is returned by Show when an interactive frame appears and
// no scripted answer is left.
var ErrScriptExhausted = errors.New("scripted surface: no answer left")

// Action plays one user gesture on a frame.
type Action func(f *dialog.Frame)

// Press activates the first control labelled label.
func Press(label string) Action {
	return func(f *dialog.Frame) {
		for _, c := range f.Controls() {
			if c.Spec.Label == label {
				f.Activate(c.Index, "")
				return
			}
		}
	}
}

// PressIndex activates control i.
func PressIndex(i int) Action {
	return func(f *dialog.Frame) { f.Activate(i, "") }
}

// Type submits text through the first text input.
func Type(text string) Action {
	return func(f *dialog.Frame) {
		for _, c := range f.Controls() {
			if c.Spec.Kind == domain.WidgetTextInput {
				f.Activate(c.Index, text)
				return
			}
		}
	}
}

// ScrollTo reports a scroll position of every scroll-gated control, for a
// region of total lines showing visible at a time.
func ScrollTo(offset, visible, total int) Action {
	return func(f *dialog.Frame) {
		for _, c := range f.Controls() {
			if c.Spec.Kind == domain.WidgetScrollGatedButton {
				f.Scrolled(c.Index, offset, visible, total)
			}
		}
	}
}

// ScrollToEnd scrolls every scroll-gated region to its end.
func ScrollToEnd() Action {
	return func(f *dialog.Frame) {
		for _, c := range f.Controls() {
			if c.Spec.Kind == domain.WidgetScrollGatedButton {
				lines := strings.Count(c.Spec.Content, "\n") + 1
				f.Scrolled(c.Index, lines, 0, lines)
			}
		}
	}
}

// Dismiss asks for an implicit dismissal.
func Dismiss() Action {
	return func(f *dialog.Frame) { f.Dismiss() }
}

// Fail reports that the surface lost its input.
func Fail(err error) Action {
	return func(f *dialog.Frame) { f.Fail(err) }
}

// Answer is the list of gestures played on one interactive frame.
type Answer []Action

// Shown records one frame as it was when shown.
type Shown struct {
	Message     string
	Controls    []dialog.Control
	Dismissible bool
	Interactive bool
}

// ScriptedSurface answers interactive frames from a script, in order.
// Non-interactive (status) frames are recorded and need no answer.
type ScriptedSurface struct {
	mu       sync.Mutex
	script   []Answer
	shown    []Shown
	statuses []string
	progress []float64
	open     int
	maxOpen  int
	hidden   int
	showErr  error
}

// NewScriptedSurface creates a surface that plays answers in order.
func NewScriptedSurface(answers ...Answer) *ScriptedSurface {
	return &ScriptedSurface{script: answers}
}

// FailShow makes every following Show fail with err.
func (s *ScriptedSurface) FailShow(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.showErr = err
}

func (s *ScriptedSurface) Show(ctx context.Context, f *dialog.Frame) error {
	s.mu.Lock()
	s.open++
	if s.open > s.maxOpen {
		s.maxOpen = s.open
	}
	s.shown = append(s.shown, Shown{
		Message:     f.Message(),
		Controls:    f.Controls(),
		Dismissible: f.Dismissible(),
		Interactive: f.Interactive(),
	})
	if s.showErr != nil {
		err := s.showErr
		s.mu.Unlock()
		return err
	}
	if !f.Interactive() {
		s.statuses = append(s.statuses, f.Message())
		s.mu.Unlock()
		return nil
	}
	if len(s.script) == 0 {
		s.mu.Unlock()
		return ErrScriptExhausted
	}
	answer := s.script[0]
	s.script = s.script[1:]
	s.mu.Unlock()

	go func() {
		for _, act := range answer {
			act(f)
		}
	}()
	return nil
}

func (s *ScriptedSurface) Refresh(f *dialog.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := f.Message()
	if len(s.statuses) == 0 || s.statuses[len(s.statuses)-1] != msg {
		s.statuses = append(s.statuses, msg)
	}
	if p := f.Progress(); p != dialog.NoProgress {
		s.progress = append(s.progress, p)
	}
}

func (s *ScriptedSurface) Hide(f *dialog.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.open--
	s.hidden++
}

// Shown returns every frame shown so far.
func (s *ScriptedSurface) Shown() []Shown {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Shown(nil), s.shown...)
}

// Messages returns the messages of the shown frames.
func (s *ScriptedSurface) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.shown))
	for i, sh := range s.shown {
		out[i] = sh.Message
	}
	return out
}

// Statuses returns the distinct successive messages of status frames.
func (s *ScriptedSurface) Statuses() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.statuses...)
}

// Progress returns every progress value reported.
func (s *ScriptedSurface) Progress() []float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]float64(nil), s.progress...)
}

// Open is the number of frames currently shown.
func (s *ScriptedSurface) Open() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.open
}

// MaxOpen is the highest number of frames ever shown at once.
func (s *ScriptedSurface) MaxOpen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.maxOpen
}

// Hidden counts Hide calls.
func (s *ScriptedSurface) Hidden() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hidden
}

// Remaining is the number of unused answers.
func (s *ScriptedSurface) Remaining() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.script)
}
