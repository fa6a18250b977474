package components

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

// ColorForFunding returns red/orange/yellow/green as a balance approaches
// its ideal reserve. threshold is the adequate fraction.
func ColorForFunding(ratio, threshold float64) lipgloss.Color {
	t := theme.Active
	switch {
	case ratio >= 1:
		return t.Green
	case ratio >= threshold:
		return t.Yellow
	case ratio >= threshold/2:
		return t.Orange
	default:
		return t.Red
	}
}

// FundingBar renders a labeled percent-funded bar. A nil ratio means no
// projects fall in the lookahead window and renders as "n/a".
func FundingBar(label string, ratio *float64, threshold float64, labelW, barWidth int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	spaceStyle := lipgloss.NewStyle().Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	head := labelStyle.Render(fmt.Sprintf("%-*s", labelW, label)) + spaceStyle.Render(" ")
	if ratio == nil {
		return head + dimStyle.Render("nothing due in the lookahead window")
	}

	color := ColorForFunding(*ratio, threshold)
	fill := max(0, min(*ratio, 1))

	bar := progress.New(
		progress.WithSolidFill(string(color)),
		progress.WithWidth(barWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = string(t.TextDim)

	pctStyle := lipgloss.NewStyle().Foreground(color).Background(t.Surface).Bold(true)

	return head +
		bar.ViewAs(fill) +
		spaceStyle.Render(" ") +
		pctStyle.Render(fmt.Sprintf("%4.0f%%", *ratio*100))
}
