package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// captureSurface hands every shown frame to the test.
type captureSurface struct {
	frames chan *dialog.Frame
}

func (c *captureSurface) Show(_ context.Context, f *dialog.Frame) error {
	c.frames <- f
	return nil
}
func (c *captureSurface) Refresh(*dialog.Frame) {}
func (c *captureSurface) Hide(*dialog.Frame)    {}

type outcome struct {
	res domain.DialogResult
	err error
}

// open presents req and returns a model bound to the shown frame.
func open(t *testing.T, s *Surface, req domain.DialogRequest) (*dialogModel, <-chan outcome) {
	t.Helper()
	cs := &captureSurface{frames: make(chan *dialog.Frame, 1)}
	e := dialog.NewEngine(cs)
	done := make(chan outcome, 1)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		res, err := e.Present(ctx, req)
		done <- outcome{res, err}
	}()
	f := <-cs.frames
	m := newDialogModel(s, f)
	m.Init()
	return m, done
}

func key(t tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: t} }

func runes(s string) tea.KeyMsg { return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)} }

func wait(t *testing.T, done <-chan outcome) outcome {
	t.Helper()
	select {
	case o := <-done:
		return o
	case <-time.After(2 * time.Second):
		t.Fatal("dialog did not resolve")
		return outcome{}
	}
}

func newTestSurface(opts ...Option) *Surface {
	return NewSurface(strings.NewReader(""), io.Discard, opts...)
}

func TestModel_Buttons(t *testing.T) {
	m, done := open(t, newTestSurface(), domain.DialogRequest{
		Message: "Are you sure?",
		Widgets: []domain.WidgetSpec{domain.Button("Yes", true), domain.Button("No", false)},
	})
	view := m.View()
	assert.Contains(t, view, "Are you sure?")
	assert.Contains(t, view, "Yes")
	assert.Contains(t, view, "No")

	m.Update(key(tea.KeyTab))
	_, cmd := m.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)

	o := wait(t, done)
	require.NoError(t, o.err)
	assert.Equal(t, 1, o.res.Widget)
	assert.Equal(t, false, o.res.Value)
	assert.True(t, m.done)
	assert.Empty(t, m.View())
}

func TestModel_FocusWraps(t *testing.T) {
	m, _ := open(t, newTestSurface(), domain.DialogRequest{
		Message: "?",
		Widgets: []domain.WidgetSpec{domain.Button("A", 1), domain.Button("B", 2)},
	})
	m.Update(key(tea.KeyShiftTab))
	assert.Equal(t, 1, m.focus)
	m.Update(key(tea.KeyRight))
	assert.Equal(t, 0, m.focus)
	m.Update(key(tea.KeyDown))
	assert.Equal(t, 1, m.focus)
	m.frame.Activate(0, "")
}

func TestModel_TextInput(t *testing.T) {
	m, done := open(t, newTestSurface(), domain.DialogRequest{
		Message: "Solve this: 20 + 22",
		Widgets: []domain.WidgetSpec{domain.TextInput("Submit", "answer")},
	})
	m.Update(runes("42"))
	m.Update(key(tea.KeyEnter))

	o := wait(t, done)
	require.NoError(t, o.err)
	assert.Equal(t, "42", o.res.Text())
}

func TestModel_Link(t *testing.T) {
	var opened []string
	s := newTestSurface(WithOpener(func(url string) error {
		opened = append(opened, url)
		return nil
	}))
	m, done := open(t, s, domain.DialogRequest{
		Message: "Verify",
		Widgets: []domain.WidgetSpec{domain.Link("Open", "https://example.com", true)},
	})
	m.Update(key(tea.KeyEnter))

	o := wait(t, done)
	require.NoError(t, o.err)
	assert.True(t, o.res.Bool())
	assert.Equal(t, []string{"https://example.com"}, opened)
}

func TestModel_ScrollGate(t *testing.T) {
	content := strings.TrimSuffix(strings.Repeat("clause\n", 20), "\n")
	m, done := open(t, newTestSurface(), domain.DialogRequest{
		Message: "Terms",
		Widgets: []domain.WidgetSpec{domain.ScrollGatedButton("Accept", content, true)},
	})
	require.False(t, m.controls[0].Enabled)

	m.Update(key(tea.KeyEnter))
	assert.Contains(t, m.warning, "Scroll to the end")
	assert.Contains(t, m.View(), "Scroll to the end")

	m.Update(key(tea.KeyDown))
	assert.False(t, m.controls[0].Enabled)

	m.Update(key(tea.KeyEnd))
	require.True(t, m.controls[0].Enabled)

	m.Update(key(tea.KeyHome))
	assert.True(t, m.controls[0].Enabled, "stays unlocked")

	m.Update(key(tea.KeyEnter))
	o := wait(t, done)
	require.NoError(t, o.err)
	assert.True(t, o.res.Bool())
}

func TestModel_ShortContentUnlocksOnInit(t *testing.T) {
	m, _ := open(t, newTestSurface(), domain.DialogRequest{
		Message:     "Terms",
		Widgets:     []domain.WidgetSpec{domain.ScrollGatedButton("Accept", "short", true)},
		Dismissible: true,
	})
	assert.True(t, m.controls[0].Enabled)
	m.frame.Dismiss()
}

func TestModel_ScrollContentIsRendered(t *testing.T) {
	// The gate measures the rendered text, which may be longer than the source.
	s := newTestSurface(WithRenderer(func(s string) (string, error) {
		return strings.ToUpper(s) + strings.Repeat("\nwrapped", 20), nil
	}))
	m, done := open(t, s, domain.DialogRequest{
		Message:     "Terms",
		Widgets:     []domain.WidgetSpec{domain.ScrollGatedButton("Accept", "short", true)},
		Dismissible: true,
	})
	assert.False(t, m.controls[0].Enabled)
	assert.Contains(t, m.View(), "SHORT")

	m.Update(key(tea.KeyEnd))
	require.True(t, m.controls[0].Enabled)
	m.Update(key(tea.KeyEnter))
	assert.True(t, wait(t, done).res.Bool())
}

func TestModel_Escape(t *testing.T) {
	t.Run("dismissible", func(t *testing.T) {
		m, done := open(t, newTestSurface(), domain.DialogRequest{
			Message:     "Check",
			Widgets:     []domain.WidgetSpec{domain.Button("I'm not a robot", true)},
			Dismissible: true,
		})
		m.Update(key(tea.KeyEsc))
		o := wait(t, done)
		require.NoError(t, o.err)
		assert.True(t, o.res.Dismissed)
	})

	t.Run("not dismissible", func(t *testing.T) {
		m, done := open(t, newTestSurface(), domain.DialogRequest{
			Message: "Check",
			Widgets: []domain.WidgetSpec{domain.Button("OK", true)},
		})
		_, cmd := m.Update(key(tea.KeyEsc))
		assert.Nil(t, cmd)
		assert.False(t, m.frame.Resolved())
		m.Update(key(tea.KeyEnter))
		assert.True(t, wait(t, done).res.Bool())
	})
}

func TestModel_NoControls(t *testing.T) {
	m, done := open(t, newTestSurface(), domain.DialogRequest{
		Message:     "notice",
		Dismissible: true,
	})
	assert.NotPanics(t, func() {
		m.Update(runes("x"))
		m.Update(key(tea.KeyDown))
	})
	assert.False(t, m.frame.Resolved())
	assert.Contains(t, m.View(), "notice")

	m.Update(key(tea.KeyEsc))
	assert.True(t, wait(t, done).res.Dismissed)
}

func TestModel_Interrupt(t *testing.T) {
	m, done := open(t, newTestSurface(), domain.DialogRequest{
		Message: "?",
		Widgets: []domain.WidgetSpec{domain.Button("OK", true)},
	})
	m.Update(key(tea.KeyCtrlC))
	assert.ErrorIs(t, wait(t, done).err, ErrInterrupted)
}

func TestModel_RendererAndRefresh(t *testing.T) {
	s := newTestSurface(WithRenderer(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	}))
	cs := &captureSurface{frames: make(chan *dialog.Frame, 1)}
	e := dialog.NewEngine(cs)
	st, err := e.Display(context.Background(), "loading")
	require.NoError(t, err)
	defer st.Close()

	m := newDialogModel(s, <-cs.frames)
	assert.Contains(t, m.View(), "LOADING")

	st.SetMessage("almost")
	st.SetProgress(0.5)
	m.Update(refreshMsg{})
	view := m.View()
	assert.Contains(t, view, "ALMOST")
	assert.Contains(t, view, "50%")

	_, cmd := m.Update(key(tea.KeyEnter))
	assert.Nil(t, cmd, "status frames ignore keys")
}

func TestItemModel(t *testing.T) {
	m := newItemModel([]string{"Buy milk and eggs today"}, "Task is not of sufficient length", 64)
	view := m.View()
	assert.Contains(t, view, "Buy milk and eggs today")
	assert.Contains(t, view, "Task is not of sufficient length")

	next, _ := m.Update(runes("Walk"))
	next, cmd := next.Update(key(tea.KeyEnter))
	require.NotNil(t, cmd)
	assert.Equal(t, "Walk", next.(itemModel).value)

	next, _ = newItemModel(nil, "", 64).Update(key(tea.KeyEsc))
	assert.True(t, next.(itemModel).closed)
	assert.Contains(t, newItemModel(nil, "", 64).View(), "No tasks yet.")
}

func TestSurface_ItemsAndNotice(t *testing.T) {
	s := newTestSurface()
	items := []string{"a"}
	s.ShowItems(items)
	items[0] = "changed"
	s.Notice("hello")
	assert.Equal(t, []string{"a"}, s.items)
	assert.Equal(t, "hello", s.notice)
}

func TestProgressBar(t *testing.T) {
	assert.Contains(t, progressBar(0.5, 10), " 50%")
	assert.Contains(t, progressBar(0, 10), "  0%")
}
