package tui

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/tui/components"
	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

// scheduleRow is one project in the escalated schedule.
type scheduleRow struct {
	name      string
	year      int
	baseCost  money.Amount
	escalated money.Amount
}

// schedule lists projects by year, keeping listing order within a year.
func (a App) schedule() []scheduleRow {
	inflation := decimal.NewFromFloat(a.params.InflationRate)
	rows := make([]scheduleRow, len(a.params.Projects))
	for i, p := range a.params.Projects {
		rows[i] = scheduleRow{
			name:      p.Name,
			year:      p.ScheduledYear,
			baseCost:  p.BaseCost,
			escalated: p.BaseCost.Escalate(inflation, p.ScheduledYear-1),
		}
	}
	slices.SortStableFunc(rows, func(x, y scheduleRow) int { return x.year - y.year })
	return rows
}

func (a App) renderProjectsTab(cw, contentH int) string {
	t := theme.Active
	rows := a.schedule()

	if len(rows) == 0 {
		return components.ContentCard("Projects",
			lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface).
				Render("No projects scheduled. Add [[projects]] or [[components]] to the scenario file."),
			cw)
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	rowStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	innerW := components.CardInnerWidth(cw)
	nameW := max(12, innerW-8-14-14-16-4)
	line := func(year, name, base, esc, bal string) string {
		return fmt.Sprintf("%-8s%-*s %14s %14s %16s", year, nameW, truncStr(name, nameW), base, esc, bal)
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(line("Year", "Project", "Base cost", "Escalated", "Balance after")))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")

	visible := max(contentH-8, 3)
	offset := max(0, min(a.projOffset, len(rows)-visible))
	end := min(len(rows), offset+visible)

	var total, totalEscalated money.Amount
	for _, r := range rows {
		total += r.baseCost
		totalEscalated += r.escalated
	}

	deficitStyle := rowStyle.Foreground(t.Red)
	for _, r := range rows[offset:end] {
		style := rowStyle
		bal := ""
		if r.year >= 1 && r.year <= len(a.results) {
			ending := a.results[r.year-1].EndingBalance
			bal = cli.FormatMoney(ending)
			if ending.IsNegative() {
				style = deficitStyle
			}
		}
		b.WriteString(style.Render(line(strconv.Itoa(r.year), r.name,
			cli.FormatMoney(r.baseCost), cli.FormatMoney(r.escalated), bal)))
		b.WriteString("\n")
	}

	b.WriteString(dimStyle.Render(strings.Repeat("─", innerW)))
	b.WriteString("\n")
	b.WriteString(headerStyle.Render(line("", "Total", cli.FormatMoney(total), cli.FormatMoney(totalEscalated), "")))
	if len(rows) > visible {
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%d-%d of %d  (j/k to scroll)", offset+1, end, len(rows))))
	}

	title := fmt.Sprintf("Escalated Schedule (%s inflation)", cli.FormatRate(a.params.InflationRate))
	return components.ContentCard(title, b.String(), cw)
}

func truncStr(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}
