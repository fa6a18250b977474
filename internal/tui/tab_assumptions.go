package tui

import (
	"cmp"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/tui/components"
	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

const (
	fieldInflation = iota
	fieldInterest
	fieldContribution
	fieldPolicy
	fieldGrowth
	fieldHorizon
	fieldThreshold
	fieldLookahead
	fieldCount // sentinel
)

// Step sizes and bounds for +/- adjustment.
const (
	rateStep         = 0.0025
	minRate          = -0.10
	maxRate          = 0.25
	contributionStep = 1000_00 // cents
	thresholdStep    = 0.05
	maxHorizon       = 100
	maxLookahead     = 30
)

var fieldLabels = [fieldCount]string{
	fieldInflation:    "Construction inflation",
	fieldInterest:     "Interest on reserves",
	fieldContribution: "Year-1 contribution",
	fieldPolicy:       "Contribution policy",
	fieldGrowth:       "Contribution growth",
	fieldHorizon:      "Horizon",
	fieldThreshold:    "Adequate threshold",
	fieldLookahead:    "Reserve lookahead",
}

// assumptionsState tracks the cursor and inline editor.
type assumptionsState struct {
	cursor  int
	editing bool
	input   textinput.Model
}

// adjust nudges the field under the cursor by dir steps and recomputes.
// It reports whether anything changed.
func (a *App) adjust(dir int) bool {
	p := a.params
	o := a.opts
	d := float64(dir)

	switch a.assume.cursor {
	case fieldInflation:
		p.InflationRate = stepRate(p.InflationRate, d)
	case fieldInterest:
		p.InterestRate = stepRate(p.InterestRate, d)
	case fieldGrowth:
		p.ContributionGrowthRate = stepRate(p.ContributionGrowthRate, d)
	case fieldContribution:
		p.AnnualContribution = max(0, p.AnnualContribution+money.Amount(dir*contributionStep))
	case fieldPolicy:
		p.ContributionPolicy = togglePolicy(p.ContributionPolicy)
	case fieldHorizon:
		p.HorizonYears = stepWithin(p.HorizonYears, p.HorizonYears+dir, minHorizon(p), maxHorizon)
	case fieldThreshold:
		o.AdequateThreshold = max(0, min(1, round4(o.AdequateThreshold+d*thresholdStep)))
	case fieldLookahead:
		o.LookaheadYears = stepWithin(o.LookaheadYears, o.LookaheadYears+dir, 1, maxLookahead)
	}

	if sameInputs(p, a.params) && o == a.opts {
		return false
	}
	a.params = p
	a.opts = o
	a.recompute()
	return true
}

// setField parses raw for the field under the cursor. Rates and the
// threshold are entered in percent.
func (a *App) setField(raw string) error {
	raw = strings.TrimSpace(raw)
	p := a.params
	o := a.opts

	switch a.assume.cursor {
	case fieldInflation, fieldInterest, fieldGrowth:
		r, err := parsePct(raw)
		if err != nil {
			return err
		}
		if r < minRate || r > maxRate {
			return fmt.Errorf("must be between %s and %s", cli.FormatRate(minRate), cli.FormatRate(maxRate))
		}
		switch a.assume.cursor {
		case fieldInflation:
			p.InflationRate = r
		case fieldInterest:
			p.InterestRate = r
		default:
			p.ContributionGrowthRate = r
		}
	case fieldContribution:
		amt, err := money.Parse(strings.ReplaceAll(strings.TrimPrefix(raw, "$"), ",", ""))
		if err != nil {
			return errors.New("must be a dollar amount")
		}
		if amt.IsNegative() {
			return errors.New("must not be negative")
		}
		p.AnnualContribution = amt
	case fieldPolicy:
		pol := scenario.ContributionPolicy(strings.ToLower(raw))
		if !pol.Valid() {
			return fmt.Errorf("must be %q or %q", scenario.ContributionTracksInflation, scenario.ContributionIndependent)
		}
		p.ContributionPolicy = pol
	case fieldHorizon:
		n, err := strconv.Atoi(raw)
		if err != nil || n < minHorizon(p) || n > maxHorizon {
			return fmt.Errorf("must be a whole number from %d to %d", minHorizon(p), maxHorizon)
		}
		p.HorizonYears = n
	case fieldThreshold:
		r, err := parsePct(raw)
		if err != nil || r < 0 || r > 1 {
			return errors.New("must be between 0 and 100")
		}
		o.AdequateThreshold = r
	case fieldLookahead:
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxLookahead {
			return fmt.Errorf("must be a whole number from 1 to %d", maxLookahead)
		}
		o.LookaheadYears = n
	}

	a.params = p
	a.opts = o
	a.recompute()
	return nil
}

func (a App) startEdit() (tea.Model, tea.Cmd) {
	ti := textinput.New()
	ti.CharLimit = 32
	ti.Width = 20
	ti.SetValue(a.rawFieldValue(a.assume.cursor))
	ti.Focus()

	a.assume.editing = true
	a.assume.input = ti
	a.message = ""
	return a, textinput.Blink
}

func (a App) updateEditInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if err := a.setField(a.assume.input.Value()); err != nil {
			a.message = fieldLabels[a.assume.cursor] + ": " + err.Error()
			return a, nil
		}
		a.assume.editing = false
		a.message = fieldLabels[a.assume.cursor] + " updated"
		return a, nil
	case "esc":
		a.assume.editing = false
		a.message = ""
		return a, nil
	}

	var cmd tea.Cmd
	a.assume.input, cmd = a.assume.input.Update(msg)
	return a, cmd
}

// fieldValue is the display form of a field.
func (a App) fieldValue(f int) string {
	switch f {
	case fieldInflation:
		return cli.FormatRate(a.params.InflationRate)
	case fieldInterest:
		return cli.FormatRate(a.params.InterestRate)
	case fieldContribution:
		return cli.FormatMoney(a.params.AnnualContribution)
	case fieldPolicy:
		if a.params.ContributionPolicy == scenario.ContributionTracksInflation {
			return "tracks inflation"
		}
		return "own growth rate"
	case fieldGrowth:
		if a.params.ContributionPolicy == scenario.ContributionTracksInflation {
			return cli.FormatRate(a.params.ContributionGrowthRate) + " (unused)"
		}
		return cli.FormatRate(a.params.ContributionGrowthRate)
	case fieldHorizon:
		return fmt.Sprintf("%d years", a.params.HorizonYears)
	case fieldThreshold:
		return fmt.Sprintf("%.0f%% of ideal", a.opts.AdequateThreshold*100)
	case fieldLookahead:
		return fmt.Sprintf("%d years", a.opts.LookaheadYears)
	}
	return ""
}

// rawFieldValue is the editable form of a field.
func (a App) rawFieldValue(f int) string {
	switch f {
	case fieldInflation:
		return formatPct(a.params.InflationRate)
	case fieldInterest:
		return formatPct(a.params.InterestRate)
	case fieldGrowth:
		return formatPct(a.params.ContributionGrowthRate)
	case fieldContribution:
		return a.params.AnnualContribution.String()
	case fieldPolicy:
		return string(a.params.ContributionPolicy)
	case fieldHorizon:
		return strconv.Itoa(a.params.HorizonYears)
	case fieldThreshold:
		return formatPct(a.opts.AdequateThreshold)
	case fieldLookahead:
		return strconv.Itoa(a.opts.LookaheadYears)
	}
	return ""
}

func (a App) renderAssumptionsTab(cw int) string {
	t := theme.Active

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	changedStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceHover).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	base := a
	base.params = a.base
	base.opts = a.baseOpts

	var b strings.Builder
	for f := range fieldCount {
		label := fmt.Sprintf("%-24s", fieldLabels[f])
		value := a.fieldValue(f)

		if f == a.assume.cursor {
			b.WriteString(selectedStyle.Render("▸ " + label))
			if a.assume.editing {
				b.WriteString(valueStyle.Render(" "))
				b.WriteString(a.assume.input.View())
			} else {
				b.WriteString(selectedStyle.Render(" " + value + " "))
			}
		} else {
			b.WriteString(labelStyle.Render("  " + label))
			if value != base.fieldValue(f) {
				b.WriteString(changedStyle.Render(" " + value))
			} else {
				b.WriteString(valueStyle.Render(" " + value))
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(hintStyle.Render("j/k select   +/- adjust   enter type a value   r reset all"))

	var impact strings.Builder
	impact.WriteString(labelStyle.Render("Final balance   "))
	impact.WriteString(a.renderAmount(a.summary.FinalBalance))
	impact.WriteString(labelStyle.Render("   was "))
	impact.WriteString(valueStyle.Render(cli.FormatMoney(a.baseSummary.FinalBalance)))
	impact.WriteString("\n")
	impact.WriteString(labelStyle.Render("Change          "))
	impact.WriteString(valueStyle.Render(cli.FormatDelta(a.summary.FinalBalance, a.baseSummary.FinalBalance)))
	impact.WriteString("\n")
	impact.WriteString(labelStyle.Render("First deficit   "))
	impact.WriteString(valueStyle.Render(cli.FormatYear(a.summary.FirstDeficitYear)))
	impact.WriteString(labelStyle.Render("   was "))
	impact.WriteString(valueStyle.Render(cli.FormatYear(a.baseSummary.FirstDeficitYear)))
	impact.WriteString("\n\n")
	impact.WriteString(components.Sparkline(forecast.EndingBalances(a.results), t.Accent))

	return components.ContentCard("Assumptions", b.String(), cw) + "\n" +
		components.ContentCard("Impact vs. loaded scenario", impact.String(), cw)
}

func togglePolicy(p scenario.ContributionPolicy) scenario.ContributionPolicy {
	if p == scenario.ContributionTracksInflation {
		return scenario.ContributionIndependent
	}
	return scenario.ContributionTracksInflation
}

// minHorizon keeps every scheduled project inside the horizon.
func minHorizon(p scenario.Params) int {
	lo := 1
	for _, pp := range p.Projects {
		lo = max(lo, pp.ScheduledYear)
	}
	return lo
}

func stepRate(r, dir float64) float64 {
	return stepWithin(r, round4(r+dir*rateStep), minRate, maxRate)
}

// stepWithin moves cur to next, stopping at the bound in the direction of
// travel. A value already outside [lo, hi] is never pulled toward the bound
// it lies beyond; it only moves back toward the range.
func stepWithin[T cmp.Ordered](cur, next, lo, hi T) T {
	if next > cur {
		return min(next, max(hi, cur))
	}
	return max(next, min(lo, cur))
}

// round4 drops float noise from repeated step arithmetic.
func round4(f float64) float64 {
	return math.Round(f*1e4) / 1e4
}

func sameInputs(a, b scenario.Params) bool {
	return a.StartingBalance == b.StartingBalance &&
		a.HorizonYears == b.HorizonYears &&
		a.AnnualContribution == b.AnnualContribution &&
		a.ContributionPolicy == b.ContributionPolicy &&
		a.ContributionGrowthRate == b.ContributionGrowthRate &&
		a.InflationRate == b.InflationRate &&
		a.InterestRate == b.InterestRate
}
