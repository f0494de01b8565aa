// Package tui implements a full-screen dialog surface with bubbletea.
//
// Each frame runs as its own tea.Program for as long as the frame is shown:
// interactive frames read keys, status frames only render. Links open in the
// system browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/browser"

	"github.com/aretw0/taskgate/internal/logging"
	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// DefaultWidth is the width of the dialog card.
const DefaultWidth = 64

// ErrInterrupted is returned when the user presses ctrl+c inside a dialog.
var ErrInterrupted = errors.New("interrupted")

// ContentRenderer transforms a message before it is shown (e.g. markdown).
type ContentRenderer func(string) (string, error)

type running struct {
	program *tea.Program
	done    chan struct{}
}

// Surface implements dialog.Surface on a terminal.
type Surface struct {
	in       io.Reader
	out      io.Writer
	renderer ContentRenderer
	opener   func(url string) error
	width    int
	logger   *slog.Logger

	mu       sync.Mutex
	programs map[uint64]running
	items    []string
	notice   string
}

// Option configures the Surface.
type Option func(*Surface)

// WithRenderer configures the content renderer.
func WithRenderer(r ContentRenderer) Option {
	return func(s *Surface) {
		s.renderer = r
	}
}

// WithOpener replaces the browser used for links.
func WithOpener(open func(url string) error) Option {
	return func(s *Surface) {
		s.opener = open
	}
}

// WithWidth sets the card width.
func WithWidth(w int) Option {
	return func(s *Surface) {
		if w >= 24 {
			s.width = w
		}
	}
}

// WithLogger configures a logger for the Surface.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		s.logger = logger
	}
}

// NewSurface creates a terminal surface reading keys from in.
func NewSurface(in io.Reader, out io.Writer, opts ...Option) *Surface {
	s := &Surface{
		in:       in,
		out:      out,
		opener:   browser.OpenURL,
		width:    DefaultWidth,
		logger:   logging.NewNop(),
		programs: map[uint64]running{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) render(msg string) string {
	if s.renderer == nil {
		return msg
	}
	out, err := s.renderer(msg)
	if err != nil {
		s.logger.Debug("render failed, showing raw message", "err", err)
		return msg
	}
	return out
}

func (s *Surface) Show(ctx context.Context, f *dialog.Frame) error {
	opts := []tea.ProgramOption{tea.WithOutput(s.out), tea.WithContext(ctx)}
	if f.Interactive() {
		opts = append(opts, tea.WithInput(s.in))
	} else {
		opts = append(opts, tea.WithInput(nil))
	}
	r := running{
		program: tea.NewProgram(newDialogModel(s, f), opts...),
		done:    make(chan struct{}),
	}

	s.mu.Lock()
	s.programs[f.ID()] = r
	s.mu.Unlock()

	go func() {
		defer close(r.done)
		if _, err := r.program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			s.logger.Warn("dialog program failed", "frame", f.ID(), "err", err)
			f.Fail(fmt.Errorf("%w: %w", domain.ErrSurfaceClosed, err))
		}
	}()
	return nil
}

func (s *Surface) Refresh(f *dialog.Frame) {
	s.mu.Lock()
	r, ok := s.programs[f.ID()]
	s.mu.Unlock()
	if ok {
		r.program.Send(refreshMsg{})
	}
}

func (s *Surface) Hide(f *dialog.Frame) {
	s.mu.Lock()
	r, ok := s.programs[f.ID()]
	delete(s.programs, f.ID())
	s.mu.Unlock()
	if !ok {
		return
	}
	r.program.Quit()
	<-r.done
}
