package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	serverStyle   = boxStyle("4")
	toolCallStyle = boxStyle("3")
	responseStyle = boxStyle("6")
	errorStyle    = boxStyle("1")

	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
)

func boxStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(color)).
		Padding(0, 1)
}

// box renders text inside a styled border with an optional title line.
func box(style lipgloss.Style, title, text string) string {
	body := strings.TrimRight(text, "\n")
	if title != "" {
		head := "[ " + title + " ]"
		body = titleStyle.Render(head) + "\n" + strings.Repeat("─", lipgloss.Width(head)) + "\n" + body
	}
	return style.Render(body)
}
