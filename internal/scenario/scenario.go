// Package scenario defines the immutable inputs of one reserve fund forecast.
package scenario

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/theirongolddev/hoafund/internal/money"
)

// DefaultHorizonYears is the forecast length used when none is configured.
const DefaultHorizonYears = 30

// MaxHorizonYears is the longest forecast New accepts.
const MaxHorizonYears = 500

// MaxRate is the largest annual rate New accepts (1000%).
const MaxRate = 10.0

// ContributionPolicy selects the rate used to escalate the annual contribution.
type ContributionPolicy string

const (
	// ContributionIndependent escalates at the scenario's own contribution growth rate.
	ContributionIndependent ContributionPolicy = "independent"
	// ContributionTracksInflation escalates at the scenario's inflation rate.
	ContributionTracksInflation ContributionPolicy = "inflation"
)

// Valid reports whether p is a known policy.
func (p ContributionPolicy) Valid() bool {
	return p == ContributionIndependent || p == ContributionTracksInflation
}

// ProjectParams is the raw input for one capital project.
type ProjectParams struct {
	Name          string       `json:"name"`
	BaseCost      money.Amount `json:"base_cost"`
	ScheduledYear int          `json:"scheduled_year"`
}

// Params holds the primitive fields a Scenario is built from.
type Params struct {
	StartingBalance        money.Amount       `json:"starting_balance"`
	HorizonYears           int                `json:"horizon_years"`
	AnnualContribution     money.Amount       `json:"annual_contribution"`
	ContributionPolicy     ContributionPolicy `json:"contribution_policy"`
	ContributionGrowthRate float64            `json:"contribution_growth_rate"`
	InflationRate          float64            `json:"inflation_rate"`
	InterestRate           float64            `json:"interest_rate"`
	Projects               []ProjectParams    `json:"projects"`
}

// Project is a planned capital expenditure in today's dollars.
type Project struct {
	name          string
	baseCost      money.Amount
	scheduledYear int
}

// Name identifies the project for reporting.
func (p Project) Name() string { return p.name }

// BaseCost is the cost in year-0 dollars.
func (p Project) BaseCost() money.Amount { return p.baseCost }

// ScheduledYear is the 1-based year the expenditure occurs.
func (p Project) ScheduledYear() int { return p.scheduledYear }

// Scenario is a validated, immutable set of forecast assumptions.
// The zero value is not valid; build one with New.
type Scenario struct {
	startingBalance        money.Amount
	horizonYears           int
	annualContribution     money.Amount
	contributionPolicy     ContributionPolicy
	contributionGrowthRate float64
	inflationRate          float64
	interestRate           float64
	projects               []Project
}

// New validates p and returns the Scenario it describes. Every problem found
// is reported in a single *ValidationError; nothing is clamped or defaulted.
func New(p Params) (Scenario, error) {
	var verr ValidationError

	if p.StartingBalance < 0 {
		verr.add("starting_balance", "must not be negative, got %s", p.StartingBalance)
	}
	if p.HorizonYears <= 0 {
		verr.add("horizon_years", "must be positive, got %d", p.HorizonYears)
	} else if p.HorizonYears > MaxHorizonYears {
		verr.add("horizon_years", "must be at most %d, got %d", MaxHorizonYears, p.HorizonYears)
	}
	if p.AnnualContribution < 0 {
		verr.add("annual_contribution", "must not be negative, got %s", p.AnnualContribution)
	}
	if !p.ContributionPolicy.Valid() {
		verr.add("contribution_policy", "must be %q or %q, got %q",
			ContributionIndependent, ContributionTracksInflation, p.ContributionPolicy)
	}
	checkRate(&verr, "contribution_growth_rate", p.ContributionGrowthRate)
	checkRate(&verr, "inflation_rate", p.InflationRate)
	checkRate(&verr, "interest_rate", p.InterestRate)

	seen := make(map[string]int, len(p.Projects))
	projects := make([]Project, 0, len(p.Projects))
	for i, pp := range p.Projects {
		field := fmt.Sprintf("projects[%d]", i)
		name := strings.TrimSpace(pp.Name)
		if name == "" {
			verr.add(field+".name", "must not be empty")
		} else if first, dup := seen[name]; dup {
			verr.add(field+".name", "%q duplicates projects[%d]", name, first)
		} else {
			seen[name] = i
		}
		if pp.BaseCost < 0 {
			verr.add(field+".base_cost", "must not be negative, got %s", pp.BaseCost)
		}
		if pp.ScheduledYear < 1 || (p.HorizonYears > 0 && pp.ScheduledYear > p.HorizonYears) {
			verr.add(field+".scheduled_year", "must be within [1, %d], got %d",
				min(max(p.HorizonYears, 1), MaxHorizonYears), pp.ScheduledYear)
		}
		projects = append(projects, Project{
			name:          name,
			baseCost:      pp.BaseCost,
			scheduledYear: pp.ScheduledYear,
		})
	}

	if len(verr.Issues) > 0 {
		return Scenario{}, &verr
	}

	return Scenario{
		startingBalance:        p.StartingBalance,
		horizonYears:           p.HorizonYears,
		annualContribution:     p.AnnualContribution,
		contributionPolicy:     p.ContributionPolicy,
		contributionGrowthRate: p.ContributionGrowthRate,
		inflationRate:          p.InflationRate,
		interestRate:           p.InterestRate,
		projects:               projects,
	}, nil
}

func checkRate(verr *ValidationError, field string, rate float64) {
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		verr.add(field, "must be a finite number")
		return
	}
	if rate < -1.0 {
		verr.add(field, "must be >= -1.0 (a 100%% annual loss), got %g", rate)
	} else if rate > MaxRate {
		verr.add(field, "must be <= %g, got %g", MaxRate, rate)
	}
}

// StartingBalance is the fund balance at year 0.
func (s Scenario) StartingBalance() money.Amount { return s.startingBalance }

// HorizonYears is the number of forecast years.
func (s Scenario) HorizonYears() int { return s.horizonYears }

// AnnualContribution is the year-1 contribution.
func (s Scenario) AnnualContribution() money.Amount { return s.annualContribution }

// ContributionPolicy reports how contributions escalate.
func (s Scenario) ContributionPolicy() ContributionPolicy { return s.contributionPolicy }

// ContributionGrowthRate is the independent contribution escalation rate.
// It only applies under ContributionIndependent; see EffectiveContributionGrowth.
func (s Scenario) ContributionGrowthRate() float64 { return s.contributionGrowthRate }

// EffectiveContributionGrowth returns the rate actually used to escalate
// contributions under the scenario's policy.
func (s Scenario) EffectiveContributionGrowth() float64 {
	if s.contributionPolicy == ContributionTracksInflation {
		return s.inflationRate
	}
	return s.contributionGrowthRate
}

// InflationRate escalates project costs.
func (s Scenario) InflationRate() float64 { return s.inflationRate }

// InterestRate is earned on the balance held at the start of each year.
func (s Scenario) InterestRate() float64 { return s.interestRate }

// Projects returns a copy of the project list in listing order.
func (s Scenario) Projects() []Project {
	return slices.Clone(s.projects)
}

// ProjectsInYear returns the projects scheduled for the given year.
func (s Scenario) ProjectsInYear(year int) []Project {
	var out []Project
	for _, p := range s.projects {
		if p.scheduledYear == year {
			out = append(out, p)
		}
	}
	return out
}

// Params returns the primitive fields of s. Feeding the result to New yields
// an equal Scenario.
func (s Scenario) Params() Params {
	pp := make([]ProjectParams, len(s.projects))
	for i, p := range s.projects {
		pp[i] = ProjectParams{Name: p.name, BaseCost: p.baseCost, ScheduledYear: p.scheduledYear}
	}
	return Params{
		StartingBalance:        s.startingBalance,
		HorizonYears:           s.horizonYears,
		AnnualContribution:     s.annualContribution,
		ContributionPolicy:     s.contributionPolicy,
		ContributionGrowthRate: s.contributionGrowthRate,
		InflationRate:          s.inflationRate,
		InterestRate:           s.interestRate,
		Projects:               pp,
	}
}

// Equal reports whether two scenarios hold the same inputs, including
// project order.
func (s Scenario) Equal(o Scenario) bool {
	return s.startingBalance == o.startingBalance &&
		s.horizonYears == o.horizonYears &&
		s.annualContribution == o.annualContribution &&
		s.contributionPolicy == o.contributionPolicy &&
		s.contributionGrowthRate == o.contributionGrowthRate &&
		s.inflationRate == o.inflationRate &&
		s.interestRate == o.interestRate &&
		slices.Equal(s.projects, o.projects)
}
