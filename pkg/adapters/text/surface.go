// Package text implements a line-oriented dialog surface for plain terminals,
// pipes and scripted sessions.
//
// Controls are listed with a number. A line selects a control by number, by
// "/n", or by its label; in a dialog with a text input any other line is the
// answer. An empty line scrolls the next page of scroll-gated content, and "q"
// dismisses a dismissible dialog.
package text

import (
	"context"
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
	"github.com/muesli/termenv"
)

// DefaultPageSize is the number of content lines shown per scroll step.
const DefaultPageSize = 5

// ContentRenderer transforms a message before it is printed (e.g. markdown).
type ContentRenderer func(string) (string, error)

// Surface implements dialog.Surface on a line reader and a writer.
type Surface struct {
	in       *lineio.Reader
	out      io.Writer
	mu       sync.Mutex // serializes writes
	renderer ContentRenderer
	opener   func(url string) error
	links    bool
	pageSize int
	logger   *slog.Logger

	status statusState
}

type statusState struct {
	frame   uint64
	message string
	decile  int
}

// Option configures the Surface.
type Option func(*Surface)

// WithRenderer configures the content renderer.
func WithRenderer(r ContentRenderer) Option {
	return func(s *Surface) {
		s.renderer = r
	}
}

// WithOpener sets the function used to navigate to links (e.g. browser.OpenURL).
func WithOpener(open func(url string) error) Option {
	return func(s *Surface) {
		s.opener = open
	}
}

// WithHyperlinks prints link labels as terminal hyperlinks (OSC 8).
func WithHyperlinks(enabled bool) Option {
	return func(s *Surface) {
		s.links = enabled
	}
}

// WithPageSize sets how many content lines one scroll step reveals.
func WithPageSize(n int) Option {
	return func(s *Surface) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

// WithLogger configures a logger for the Surface.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Surface) {
		s.logger = logger
	}
}

// NewSurface creates a text surface reading from in and writing to w.
func NewSurface(in *lineio.Reader, w io.Writer, opts ...Option) *Surface {
	s := &Surface{
		in:       in,
		out:      w,
		pageSize: DefaultPageSize,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Surface) printf(format string, args ...any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, format, args...)
}

func (s *Surface) render(msg string) string {
	if s.renderer == nil {
		return msg
	}
	out, err := s.renderer(msg)
	if err != nil {
		return msg
	}
	return strings.TrimSpace(out)
}

func (s *Surface) Show(ctx context.Context, f *dialog.Frame) error {
	if !f.Interactive() {
		s.mu.Lock()
		s.status = statusState{frame: f.ID(), message: f.Message(), decile: -1}
		s.mu.Unlock()
		s.printf("%s\n", s.render(f.Message()))
		return nil
	}

	st := newScrollState(f, s.pageSize)
	s.printf("\n%s\n", s.render(f.Message()))
	for _, c := range f.Controls() {
		s.printControl(c)
	}
	for _, idx := range st.indexes() {
		s.printPage(f, st, idx)
	}
	if f.Dismissible() {
		s.printf("(q to close)\n")
	}

	go s.interact(ctx, f, st)
	return nil
}

func (s *Surface) printControl(c dialog.Control) {
	n := c.Index + 1
	switch c.Spec.Kind {
	case domain.WidgetTextInput:
		hint := "type your answer"
		if c.Spec.Placeholder != "" {
			hint = c.Spec.Placeholder
		}
		s.printf("  [%d] %s (%s and press Enter)\n", n, c.Spec.Label, hint)
	case domain.WidgetLink:
		label := c.Spec.Label
		if s.links {
			label = termenv.Hyperlink(c.Spec.Href, label)
		}
		s.printf("  [%d] %s -> %s\n", n, label, c.Spec.Href)
	case domain.WidgetScrollGatedButton:
		state := "locked, scroll to the end"
		if c.Enabled {
			state = "unlocked"
		}
		s.printf("  [%d] %s (%s)\n", n, c.Spec.Label, state)
	default:
		s.printf("  [%d] %s\n", n, c.Spec.Label)
	}
}

// printPage shows the next page of a scroll-gated control and reports the new position.
func (s *Surface) printPage(f *dialog.Frame, st *scrollState, idx int) {
	lines, offset, visible, total := st.next(idx)
	for _, l := range lines {
		s.printf("  | %s\n", l)
	}
	wasEnabled := st.enabled[idx]
	st.enabled[idx] = f.Scrolled(idx, offset, visible, total)
	switch {
	case st.enabled[idx] && !wasEnabled:
		s.printf("  -- end, [%d] unlocked --\n", idx+1)
	case !st.enabled[idx]:
		s.printf("  -- %d/%d, Enter for more --\n", offset+visible, total)
	}
}

func (s *Surface) interact(ctx context.Context, f *dialog.Frame, st *scrollState) {
	for !f.Resolved() {
		line, err := s.in.Read(ctx, f.Done())
		switch {
		case err == nil:
		case lineio.IsInvalidInput(err):
			s.printf("Error: %v. Please try again.\n", err)
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
		s.handle(f, st, line)
	}
}

func (s *Surface) handle(f *dialog.Frame, st *scrollState, line string) {
	trimmed := strings.TrimSpace(line)
	controls := f.Controls()

	if f.Dismissible() && (strings.EqualFold(trimmed, "q") || strings.EqualFold(trimmed, "esc")) {
		f.Dismiss()
		return
	}

	if trimmed == "" {
		for _, idx := range st.indexes() {
			if !st.enabled[idx] {
				s.printPage(f, st, idx)
				return
			}
		}
		if input, ok := textInput(controls); !ok {
			s.printf("%s\n", choices(controls))
		} else {
			// An empty answer is still an answer.
			s.activate(f, input, line)
		}
		return
	}

	if c, ok := pick(controls, trimmed); ok {
		// For a text input, "/n" is a selector and submits an empty answer.
		s.activate(f, c, "")
		return
	}

	if input, ok := textInput(controls); ok {
		s.activate(f, input, line)
		return
	}
	s.printf("%s\n", choices(controls))
}

func (s *Surface) activate(f *dialog.Frame, c dialog.Control, text string) {
	switch c.Spec.Kind {
	case domain.WidgetLink:
		if s.opener != nil {
			if err := s.opener(c.Spec.Href); err != nil {
				s.logger.Warn("failed to open link", "href", c.Spec.Href, "err", err)
			}
		}
	case domain.WidgetScrollGatedButton:
		if !f.Controls()[c.Index].Enabled {
			s.printf("Scroll to the end first (press Enter).\n")
			return
		}
	}
	f.Activate(c.Index, text)
}

func (s *Surface) Refresh(f *dialog.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.frame != f.ID() {
		return
	}
	if msg := f.Message(); msg != s.status.message {
		s.status.message = msg
		fmt.Fprintf(s.out, "%s\n", s.render(msg))
	}
	p := f.Progress()
	if p == dialog.NoProgress {
		return
	}
	if d := int(p * 10); d != s.status.decile {
		s.status.decile = d
		fmt.Fprintf(s.out, "%s\n", ProgressBar(p, 20))
	}
}

func (s *Surface) Hide(f *dialog.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.frame == f.ID() {
		s.status = statusState{}
	}
}

// ProgressBar renders p as a bar of width cells followed by a percentage.
func ProgressBar(p float64, width int) string {
	filled := int(p * float64(width))
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(".", width-filled), int(p*100+0.5))
}

func textInput(controls []dialog.Control) (dialog.Control, bool) {
	for _, c := range controls {
		if c.Spec.Kind == domain.WidgetTextInput {
			return c, true
		}
	}
	return dialog.Control{}, false
}

// pick resolves a selector: "/n" always, a bare number or a label only when
// the dialog has no text input (there, they are answers).
func pick(controls []dialog.Control, sel string) (dialog.Control, bool) {
	if n, err := strconv.Atoi(strings.TrimPrefix(sel, "/")); err == nil && strings.HasPrefix(sel, "/") {
		return byNumber(controls, n)
	}
	if _, hasInput := textInput(controls); hasInput {
		return dialog.Control{}, false
	}
	if n, err := strconv.Atoi(sel); err == nil {
		return byNumber(controls, n)
	}
	for _, c := range controls {
		if strings.EqualFold(c.Spec.Label, sel) {
			return c, true
		}
	}
	return dialog.Control{}, false
}

func byNumber(controls []dialog.Control, n int) (dialog.Control, bool) {
	if n < 1 || n > len(controls) {
		return dialog.Control{}, false
	}
	return controls[n-1], true
}

func choices(controls []dialog.Control) string {
	parts := make([]string, len(controls))
	for i, c := range controls {
		parts[i] = fmt.Sprintf("%d=%s", i+1, c.Spec.Label)
	}
	return "Choose one of: " + strings.Join(parts, ", ")
}
