package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#a78bfa")
	colorMuted  = lipgloss.Color("#6b7280")
	colorText   = lipgloss.Color("#e5e7eb")
	colorLink   = lipgloss.Color("#60a5fa")
	colorAlert  = lipgloss.Color("#fb7185")

	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(1, 2)

	focusedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#111827")).
			Background(colorAccent).
			Bold(true).
			Padding(0, 1)

	buttonStyle   = lipgloss.NewStyle().Foreground(colorText).Padding(0, 1)
	disabledStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	linkStyle     = lipgloss.NewStyle().Foreground(colorLink).Underline(true)
	hintStyle     = lipgloss.NewStyle().Foreground(colorMuted)
	noticeStyle   = lipgloss.NewStyle().Foreground(colorAlert).Bold(true)

	contentStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(colorMuted)
)

// progressBar renders p with lipgloss-coloured cells.
func progressBar(p float64, width int) string {
	filled := int(p * float64(width))
	if filled > width {
		filled = width
	}
	full := lipgloss.NewStyle().Foreground(colorAccent).Render(strings.Repeat("█", filled))
	empty := hintStyle.Render(strings.Repeat("░", width-filled))
	return fmt.Sprintf("%s%s %3d%%", full, empty, int(p*100+0.5))
}
