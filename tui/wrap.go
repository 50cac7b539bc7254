package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// wrap breaks text at spaces so no line is wider than width cells. Only the
// first line keeps the leading indent, and a word wider than width sits on a
// line of its own.
func wrap(text string, width int) string {
	if width <= 0 || lipgloss.Width(text) <= width {
		return text
	}

	body := strings.TrimLeft(text, " ")
	line := text[:len(text)-len(body)]
	var lines []string
	for _, word := range strings.Fields(body) {
		switch {
		case strings.TrimSpace(line) == "":
			line += word
		case lipgloss.Width(line)+1+lipgloss.Width(word) > width:
			lines = append(lines, line)
			line = word
		default:
			line += " " + word
		}
	}
	return strings.Join(append(lines, line), "\n")
}
