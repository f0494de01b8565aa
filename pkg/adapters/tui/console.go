package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type itemModel struct {
	input  textinput.Model
	items  []string
	notice string
	width  int
	value  string
	closed bool
}

func newItemModel(items []string, notice string, width int) itemModel {
	in := textinput.New()
	in.Placeholder = "What needs doing?"
	in.Prompt = "New task> "
	in.Width = width - 16
	in.Focus()
	return itemModel{input: in, items: items, notice: notice, width: width}
}

func (m itemModel) Init() tea.Cmd { return textinput.Blink }

func (m itemModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c", "ctrl+d", "esc":
			m.closed = true
			return m, tea.Quit
		case "enter":
			m.value = m.input.Value()
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m itemModel) View() string {
	if m.closed || m.value != "" {
		return ""
	}
	var b strings.Builder
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n\n")
	}
	if len(m.items) == 0 {
		b.WriteString(hintStyle.Render("No tasks yet.") + "\n")
	} else {
		for i, it := range m.items {
			fmt.Fprintf(&b, "%2d. %s\n", i+1, it)
		}
	}
	b.WriteString("\n" + m.input.View() + "\n")
	b.WriteString(hintStyle.Render("enter: add • esc: quit"))
	return cardStyle.Width(m.width).Render(b.String()) + "\n"
}

// ReadItem shows the list with an input line and returns what was typed.
// Leaving with esc or ctrl+c/ctrl+d returns io.EOF.
func (s *Surface) ReadItem(ctx context.Context) (string, error) {
	s.mu.Lock()
	m := newItemModel(s.items, s.notice, s.width)
	s.notice = ""
	s.mu.Unlock()

	p := tea.NewProgram(m, tea.WithInput(s.in), tea.WithOutput(s.out), tea.WithContext(ctx))
	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", err
	}
	res := final.(itemModel)
	if res.closed {
		return "", io.EOF
	}
	return res.value, nil
}

// ShowItems keeps the accepted items for the next ReadItem screen.
func (s *Surface) ShowItems(items []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]string(nil), items...)
}

// Notice shows msg above the next ReadItem screen.
func (s *Surface) Notice(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notice = msg
}
