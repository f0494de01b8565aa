package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/taskgate/pkg/dialog"
	"github.com/aretw0/taskgate/pkg/domain"
)

// maxContentHeight caps the visible lines of a scroll-gated content region.
const maxContentHeight = 8

// refreshMsg asks the model to re-read the frame's message and progress.
type refreshMsg struct{}

// dialogModel renders one frame. Interactive frames take keys; status frames
// only show the message and progress.
type dialogModel struct {
	frame    *dialog.Frame
	surface  *Surface
	message  string
	controls []dialog.Control
	focus    int
	input    textinput.Model
	hasInput bool
	views    map[int]*viewport.Model
	warning  string
	done     bool
}

func newDialogModel(s *Surface, f *dialog.Frame) *dialogModel {
	m := &dialogModel{
		frame:    f,
		surface:  s,
		message:  s.render(f.Message()),
		controls: f.Controls(),
		views:    map[int]*viewport.Model{},
	}
	for _, c := range m.controls {
		switch c.Spec.Kind {
		case domain.WidgetTextInput:
			in := textinput.New()
			in.Placeholder = c.Spec.Placeholder
			in.Prompt = "> "
			in.Width = s.width - 8
			in.Focus()
			m.input = in
			m.hasInput = true
			m.focus = c.Index
		case domain.WidgetScrollGatedButton:
			content := s.render(c.Spec.Content)
			lines := strings.Count(content, "\n") + 1
			vp := viewport.New(s.width-6, min(lines, maxContentHeight))
			vp.SetContent(content)
			m.views[c.Index] = &vp
		}
	}
	return m
}

func (m *dialogModel) Init() tea.Cmd {
	for idx := range m.views {
		m.reportScroll(idx)
	}
	if m.hasInput {
		return textinput.Blink
	}
	return nil
}

// reportScroll tells the frame where the content region of control idx is.
func (m *dialogModel) reportScroll(idx int) {
	vp := m.views[idx]
	m.frame.Scrolled(idx, vp.YOffset, vp.VisibleLineCount(), vp.TotalLineCount())
	m.controls = m.frame.Controls()
}

func (m *dialogModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshMsg:
		m.message = m.surface.render(m.frame.Message())
		return m, nil
	case tea.WindowSizeMsg:
		return m, nil
	case tea.KeyMsg:
		if !m.frame.Interactive() {
			return m, nil
		}
		return m.key(msg)
	}
	if m.hasInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *dialogModel) key(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.warning = ""
	switch msg.String() {
	case "ctrl+c":
		m.frame.Fail(ErrInterrupted)
		return m.quit()
	case "esc":
		if m.frame.Dismiss() {
			return m.quit()
		}
		return m, nil
	case "tab", "right":
		m.move(1)
		return m, nil
	case "shift+tab", "left":
		m.move(-1)
		return m, nil
	case "enter":
		return m.activate()
	}

	if len(m.controls) == 0 {
		return m, nil
	}
	c := m.controls[m.focus]
	if vp, ok := m.views[c.Index]; ok {
		switch msg.String() {
		case "up", "down", "pgup", "pgdown", "k", "j", " ", "home", "end":
			next, cmd := vp.Update(msg)
			*vp = next
			switch msg.String() {
			case "home":
				vp.GotoTop()
			case "end":
				vp.GotoBottom()
			}
			m.reportScroll(c.Index)
			return m, cmd
		}
	}
	if c.Spec.Kind == domain.WidgetTextInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	switch msg.String() {
	case "up":
		m.move(-1)
	case "down":
		m.move(1)
	}
	return m, nil
}

func (m *dialogModel) move(delta int) {
	if len(m.controls) == 0 {
		return
	}
	m.focus = (m.focus + delta + len(m.controls)) % len(m.controls)
	if m.hasInput {
		if m.controls[m.focus].Spec.Kind == domain.WidgetTextInput {
			m.input.Focus()
		} else {
			m.input.Blur()
		}
	}
}

func (m *dialogModel) activate() (tea.Model, tea.Cmd) {
	if len(m.controls) == 0 {
		return m, nil
	}
	c := m.controls[m.focus]
	if !c.Enabled {
		m.warning = "Scroll to the end to unlock " + c.Spec.Label + "."
		return m, nil
	}
	if c.Spec.Kind == domain.WidgetLink && m.surface.opener != nil {
		if err := m.surface.opener(c.Spec.Href); err != nil {
			m.surface.logger.Warn("failed to open link", "href", c.Spec.Href, "err", err)
		}
	}
	if m.frame.Activate(c.Index, m.input.Value()) {
		return m.quit()
	}
	return m, nil
}

func (m *dialogModel) quit() (tea.Model, tea.Cmd) {
	m.done = true
	return m, tea.Quit
}

func (m *dialogModel) View() string {
	if m.done {
		return ""
	}
	if !m.frame.Interactive() {
		body := m.message
		if p := m.frame.Progress(); p != dialog.NoProgress {
			body += "\n\n" + progressBar(p, m.surface.width-12)
		}
		return cardStyle.Width(m.surface.width).Render(body) + "\n"
	}

	var b strings.Builder
	b.WriteString(m.message)
	b.WriteString("\n")

	var buttons []string
	for _, c := range m.controls {
		switch c.Spec.Kind {
		case domain.WidgetTextInput:
			b.WriteString("\n" + m.input.View() + "\n")
		case domain.WidgetScrollGatedButton:
			b.WriteString("\n" + contentStyle.Render(m.views[c.Index].View()) + "\n")
		}
		buttons = append(buttons, m.renderControl(c))
	}
	b.WriteString("\n" + lipgloss.JoinHorizontal(lipgloss.Top, buttons...) + "\n")

	hint := "tab: next • enter: select"
	if len(m.views) > 0 {
		hint += " • ↑/↓: scroll"
	}
	if m.frame.Dismissible() {
		hint += " • esc: close"
	}
	if m.warning != "" {
		b.WriteString("\n" + noticeStyle.Render(m.warning))
	}
	b.WriteString("\n" + hintStyle.Render(hint))
	return cardStyle.Width(m.surface.width).Render(b.String()) + "\n"
}

func (m *dialogModel) renderControl(c dialog.Control) string {
	label := c.Spec.Label
	if c.Spec.Kind == domain.WidgetLink {
		label = linkStyle.Render(label + " ↗")
	}
	switch {
	case c.Index == m.focus:
		return focusedStyle.Render(c.Spec.Label)
	case !c.Enabled:
		return disabledStyle.Render(label + " 🔒")
	default:
		return buttonStyle.Render(label)
	}
}
