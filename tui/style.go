package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles used throughout the TUI.
var (
	styleStatusBar = lipgloss.NewStyle().
			Background(lipgloss.Color("24")).
			Foreground(lipgloss.Color("230")).
			Bold(true)

	styleStatusBattle = lipgloss.NewStyle().
				Background(lipgloss.Color("88")).
				Foreground(lipgloss.Color("230")).
				Bold(true)

	styleInputPrompt = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleNarration = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	styleEncounter = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	styleHit = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	styleTriumph = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220")).
			Bold(true)

	styleHeader = lipgloss.NewStyle().
			Bold(true).
			Underline(true)

	styleSystem = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	styleError = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	stylePlayerInput = lipgloss.NewStyle().
				Foreground(lipgloss.Color("39"))

	styleTrace = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// lineKind identifies the type of an output line for styling.
type lineKind int

const (
	kindNarration lineKind = iota
	kindEncounter
	kindHit
	kindTriumph
	kindHeader
	kindSystem
	kindError
	kindTrace
)

// classifyLine determines what kind of output line this is from the
// phrasing the bot uses.
func classifyLine(line string) lineKind {
	switch {
	case strings.HasPrefix(line, "[trace]"):
		return kindTrace
	case strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"):
		return kindSystem
	case strings.HasPrefix(line, "A wild "):
		return kindEncounter
	case strings.HasPrefix(line, "Victory!"),
		strings.HasPrefix(line, "LEVEL UP!"),
		strings.HasPrefix(line, "You slip away!"):
		return kindTriumph
	case strings.Contains(line, " hits you for "),
		strings.HasPrefix(line, "You were defeated"),
		strings.HasPrefix(line, "You lost "):
		return kindHit
	case strings.HasSuffix(line, ":") && !strings.HasPrefix(line, " "):
		return kindHeader
	case strings.HasPrefix(line, "You're not"),
		strings.HasPrefix(line, "You're already"),
		strings.HasPrefix(line, "You can't"),
		strings.HasPrefix(line, "You haven't"),
		strings.HasPrefix(line, "There is no"),
		strings.HasPrefix(line, "I don't know"),
		strings.HasPrefix(line, "Something went wrong"):
		return kindError
	default:
		return kindNarration
	}
}

// styledPlayerInput renders the echoed player input with a "> " prefix.
func styledPlayerInput(input string) string {
	return stylePlayerInput.Render("> " + input)
}

// styledSystemMsg renders a system message in gray with brackets.
func styledSystemMsg(text string) string {
	return styleSystem.Render("[" + text + "]")
}

var kindStyles = map[lineKind]lipgloss.Style{
	kindEncounter: styleEncounter,
	kindHit:       styleHit,
	kindTriumph:   styleTriumph,
	kindHeader:    styleHeader,
	kindSystem:    styleSystem,
	kindError:     styleError,
	kindTrace:     styleTrace,
}

// kindStyle returns the style for kind, narration when it has none.
func kindStyle(kind lineKind) lipgloss.Style {
	if s, ok := kindStyles[kind]; ok {
		return s
	}
	return styleNarration
}
