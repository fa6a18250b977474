// Package forecast projects a reserve fund scenario year by year and
// classifies how well funded each year ends.
package forecast

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

// Defaults for Options.
const (
	DefaultAdequateThreshold = 0.7
	DefaultLookaheadYears    = 5
)

// ErrInvalidOptions is wrapped by NewEngine when Options are out of range.
var ErrInvalidOptions = errors.New("invalid forecast options")

// Options tunes the funding-status classification. The projection itself
// has no tunables beyond the Scenario.
type Options struct {
	// AdequateThreshold is the fraction of the ideal reserve a balance must
	// reach to count as ADEQUATE. Must be within [0, 1].
	AdequateThreshold float64 `json:"adequate_threshold"`
	// LookaheadYears is how many following years of project costs make up
	// the ideal reserve. Must be >= 1.
	LookaheadYears int `json:"lookahead_years"`
}

// DefaultOptions returns Options{AdequateThreshold: 0.7, LookaheadYears: 5}.
func DefaultOptions() Options {
	return Options{
		AdequateThreshold: DefaultAdequateThreshold,
		LookaheadYears:    DefaultLookaheadYears,
	}
}

// Validate checks the option ranges.
func (o Options) Validate() error {
	if math.IsNaN(o.AdequateThreshold) || o.AdequateThreshold < 0 || o.AdequateThreshold > 1 {
		return fmt.Errorf("%w: adequate_threshold must be within [0, 1], got %g", ErrInvalidOptions, o.AdequateThreshold)
	}
	if o.LookaheadYears < 1 {
		return fmt.Errorf("%w: lookahead_years must be >= 1, got %d", ErrInvalidOptions, o.LookaheadYears)
	}
	return nil
}

// YearResult is the state of the fund for one forecast year.
type YearResult struct {
	Year                int          `json:"year"`
	BeginningBalance    money.Amount `json:"beginning_balance"`
	InterestEarned      money.Amount `json:"interest_earned"`
	Contribution        money.Amount `json:"contribution"`
	ProjectExpenditures money.Amount `json:"project_expenditures"`
	EndingBalance       money.Amount `json:"ending_balance"`
	FundingStatus       Status       `json:"funding_status"`

	// IdealReserve is the escalated cost of projects due in the lookahead
	// window after this year.
	IdealReserve money.Amount `json:"ideal_reserve"`
	// PercentFunded is EndingBalance / IdealReserve; nil when nothing is due.
	PercentFunded *float64 `json:"percent_funded,omitempty"`
	// ProjectsDue lists the projects paid this year, in listing order.
	ProjectsDue []string `json:"projects_due,omitempty"`
}

// Engine projects scenarios under fixed classification options.
// An Engine is a value with no mutable state; it is safe for concurrent use.
type Engine struct {
	opts      Options
	threshold decimal.Decimal
}

// NewEngine validates opts and returns an Engine.
func NewEngine(opts Options) (Engine, error) {
	if err := opts.Validate(); err != nil {
		return Engine{}, err
	}
	return Engine{
		opts:      opts,
		threshold: decimal.NewFromFloat(opts.AdequateThreshold),
	}, nil
}

var defaultEngine, _ = NewEngine(DefaultOptions())

// Project runs s through an Engine with DefaultOptions.
func Project(s scenario.Scenario) []YearResult {
	return defaultEngine.Project(s)
}

// Options returns the engine's classification options.
func (e Engine) Options() Options {
	return e.opts
}

// Project folds s over its horizon and returns one result per year.
//
// Each year: interest is earned on the beginning balance, the contribution is
// the year-1 contribution escalated by the policy's growth rate, and project
// costs are escalated from today's dollars by inflation. The balance may go
// negative; that is reported, never clamped. Amounts beyond the money range
// saturate rather than wrap.
func (e Engine) Project(s scenario.Scenario) []YearResult {
	horizon := s.HorizonYears()
	if horizon <= 0 {
		return nil
	}

	interest := decimal.NewFromFloat(s.InterestRate())
	growthStep := decimal.NewFromInt(1).Add(decimal.NewFromFloat(s.EffectiveContributionGrowth()))
	inflationStep := decimal.NewFromInt(1).Add(decimal.NewFromFloat(s.InflationRate()))

	// Escalated spend per year, index 1..horizon.
	spend := make([]money.Amount, horizon+1)
	due := make([][]string, horizon+1)
	inflation := make([]decimal.Decimal, horizon+1)
	inflation[1] = decimal.NewFromInt(1)
	for y := 2; y <= horizon; y++ {
		inflation[y] = inflation[y-1].Mul(inflationStep)
	}
	for _, p := range s.Projects() {
		y := p.ScheduledYear()
		spend[y] = money.Sum(spend[y], p.BaseCost().Mul(inflation[y]))
		due[y] = append(due[y], p.Name())
	}

	results := make([]YearResult, 0, horizon)
	balance := s.StartingBalance()
	contribFactor := decimal.NewFromInt(1)

	for year := 1; year <= horizon; year++ {
		r := YearResult{
			Year:                year,
			BeginningBalance:    balance,
			InterestEarned:      balance.Mul(interest),
			Contribution:        s.AnnualContribution().Mul(contribFactor),
			ProjectExpenditures: spend[year],
			ProjectsDue:         due[year],
		}
		r.EndingBalance = money.Sum(r.BeginningBalance, r.InterestEarned, r.Contribution, r.ProjectExpenditures.Neg())

		r.IdealReserve = e.idealReserve(spend, year)
		r.FundingStatus = e.classify(r.EndingBalance, r.IdealReserve)
		if r.IdealReserve > 0 {
			pct := r.EndingBalance.Decimal().Div(r.IdealReserve.Decimal()).InexactFloat64()
			r.PercentFunded = &pct
		}

		results = append(results, r)
		balance = r.EndingBalance
		contribFactor = contribFactor.Mul(growthStep)
	}

	return results
}

// idealReserve sums escalated spend over (year, year+lookahead].
func (e Engine) idealReserve(spend []money.Amount, year int) money.Amount {
	var total money.Amount
	last := min(year+e.opts.LookaheadYears, len(spend)-1)
	for y := year + 1; y <= last; y++ {
		total = money.Sum(total, spend[y])
	}
	return total
}

// Classify returns the funding status of balance against an ideal reserve.
func (e Engine) Classify(balance, ideal money.Amount) Status {
	return e.classify(balance, ideal)
}

func (e Engine) classify(balance, ideal money.Amount) Status {
	if balance >= ideal {
		return StatusFullyFunded
	}
	if balance.Decimal().GreaterThanOrEqual(ideal.Decimal().Mul(e.threshold)) {
		return StatusAdequate
	}
	return StatusUnderfunded
}
