package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

// RenderStatusBar renders the bottom status bar: key hints on the left,
// the scenario name and any transient message on the right.
func RenderStatusBar(width int, scenarioName, message string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Background(t.Surface).
		Width(width)

	msgStyle := lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Surface)

	left := " [?]help  [+/-]adjust  [r]eset  [q]uit"
	right := scenarioName + " "
	if message != "" {
		right = msgStyle.Render(message) + style.UnsetWidth().Render("  "+right)
	}

	gap := max(width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return style.Render(left + style.UnsetWidth().Render(strings.Repeat(" ", gap)) + right)
}
