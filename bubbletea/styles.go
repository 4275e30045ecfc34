package bubbletea

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/samarthsinh2660/fluentify"
)

// Styles maps a Theme to lipgloss styles for TUI rendering.
type Styles struct {
	Title      lipgloss.Style
	Done       lipgloss.Style
	Generating lipgloss.Style
	Pending    lipgloss.Style
	Error      lipgloss.Style
	Muted      lipgloss.Style
	Accent     lipgloss.Style
	Focused    lipgloss.Style
}

// NewStyles creates Styles from a Theme.
func NewStyles(t fluentify.Theme) Styles {
	return Styles{
		Title:      lipgloss.NewStyle().Foreground(ansiColor(t.Title)).Bold(true),
		Done:       lipgloss.NewStyle().Foreground(ansiColor(t.Done)),
		Generating: lipgloss.NewStyle().Foreground(ansiColor(t.Generating)),
		Pending:    lipgloss.NewStyle().Foreground(ansiColor(t.Pending)).Faint(true),
		Error:      lipgloss.NewStyle().Foreground(ansiColor(t.Error)),
		Muted:      lipgloss.NewStyle().Foreground(ansiColor(t.Muted)).Faint(true),
		Accent:     lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Bold(true),
		Focused:    lipgloss.NewStyle().Foreground(ansiColor(t.Accent)).Reverse(true),
	}
}

func ansiColor(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
