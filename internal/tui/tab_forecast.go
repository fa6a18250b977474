package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/tui/components"
	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

func (a App) renderForecastTab(cw, contentH int) string {
	t := theme.Active
	sum := a.summary

	var b strings.Builder

	// Row 1: headline metrics
	required := components.Metric{Label: "Required contribution", Value: "unreachable", Color: t.Red}
	if a.requiredOK {
		required = components.Metric{
			Label: "Required contribution",
			Value: cli.FormatMoney(a.required),
			Note:  "year 1, avoids any deficit",
		}
	}
	deficit := components.Metric{Label: "First deficit", Value: "none", Color: t.Green}
	if sum.FirstDeficitYear > 0 {
		deficit = components.Metric{
			Label: "First deficit",
			Value: cli.FormatYear(sum.FirstDeficitYear),
			Note:  fmt.Sprintf("%d years in deficit", sum.YearsInDeficit),
			Color: t.Red,
		}
	}

	metrics := []components.Metric{
		{
			Label: "Final balance",
			Value: cli.FormatMoney(sum.FinalBalance),
			Note:  sum.FinalStatus.Label(),
			Color: t.Balance(sum.FinalBalance.IsNegative()),
		},
		{
			Label: "Lowest balance",
			Value: cli.FormatMoney(sum.LowestBalance),
			Note:  cli.FormatYear(sum.LowestBalanceYear),
			Color: t.Balance(sum.LowestBalance.IsNegative()),
		},
		deficit,
		required,
	}
	if a.isCompactLayout() {
		metrics = metrics[:3]
	}
	b.WriteString(components.MetricCardRow(metrics, cw))
	b.WriteString("\n")

	// Row 2: ending balance chart colored by funding status
	chartH := max(contentH-18, 6)
	chartVals := forecast.EndingBalances(a.results)
	colors := make([]lipgloss.Color, len(a.results))
	labels := make([]string, len(a.results))
	for i, r := range a.results {
		colors[i] = t.Funding(r.FundingStatus)
		labels[i] = strconv.Itoa(r.Year)
	}
	b.WriteString(components.ContentCard(
		fmt.Sprintf("Ending Balance by Year (%d years)", len(a.results)),
		components.BalanceChart(chartVals, colors, labels, components.CardInnerWidth(cw), chartH),
		cw,
	))
	b.WriteString("\n")

	// Row 3: status strip and percent funded
	halves := components.LayoutRow(cw, 2)
	stripW := components.CardInnerWidth(halves[0])
	cellW := max(1, min(3, stripW/max(len(colors), 1)))

	muted := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	var strip strings.Builder
	strip.WriteString(components.StatusStrip(colors, cellW))
	strip.WriteString("\n")
	strip.WriteString(muted.Render(fmt.Sprintf("%d fully funded  %d adequate  %d underfunded",
		sum.YearsFullyFunded, sum.YearsAdequate, sum.YearsUnderfunded)))

	barW := max(10, components.CardInnerWidth(halves[1])-18)
	var funded strings.Builder
	if len(a.results) > 0 {
		first := a.results[0]
		last := a.results[len(a.results)-1]
		funded.WriteString(components.FundingBar("Year 1", first.PercentFunded, a.opts.AdequateThreshold, 10, barW))
		funded.WriteString("\n")
		funded.WriteString(components.FundingBar(cli.FormatYear(last.Year), last.PercentFunded, a.opts.AdequateThreshold, 10, barW))
	}

	b.WriteString(components.CardRow([]string{
		components.ContentCard("Funding Status", strip.String(), halves[0]),
		components.ContentCard(fmt.Sprintf("Percent Funded (%d-yr lookahead)", a.opts.LookaheadYears), funded.String(), halves[1]),
	}))

	return b.String()
}
