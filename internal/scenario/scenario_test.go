package scenario

import (
	"errors"
	"math"
	"testing"

	"github.com/theirongolddev/hoafund/internal/money"
)

func validParams() Params {
	return Params{
		StartingBalance:    money.FromFloat(10000),
		HorizonYears:       3,
		AnnualContribution: money.FromFloat(2000),
		ContributionPolicy: ContributionIndependent,
		Projects: []ProjectParams{
			{Name: "Roof", BaseCost: money.FromFloat(15000), ScheduledYear: 2},
		},
	}
}

func mustFail(t *testing.T, p Params, field string) {
	t.Helper()
	_, err := New(p)
	if err == nil {
		t.Fatalf("New succeeded, want validation error on %s", field)
	}
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("error %T is not *ValidationError: %v", err, err)
	}
	if !verr.HasField(field) {
		t.Fatalf("validation issues %+v do not mention %s", verr.Issues, field)
	}
}

func TestNew_Valid(t *testing.T) {
	s, err := New(validParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if s.HorizonYears() != 3 {
		t.Errorf("HorizonYears = %d, want 3", s.HorizonYears())
	}
	if got := s.ProjectsInYear(2); len(got) != 1 || got[0].Name() != "Roof" {
		t.Errorf("ProjectsInYear(2) = %+v", got)
	}
	if got := s.ProjectsInYear(1); len(got) != 0 {
		t.Errorf("ProjectsInYear(1) = %+v, want none", got)
	}
}

func TestNew_HorizonZero(t *testing.T) {
	p := validParams()
	p.HorizonYears = 0
	p.Projects = nil
	mustFail(t, p, "horizon_years")
}

func TestNew_HorizonTooLong(t *testing.T) {
	for _, h := range []int{MaxHorizonYears + 1, math.MaxInt} {
		p := validParams()
		p.HorizonYears = h
		mustFail(t, p, "horizon_years")
	}

	p := validParams()
	p.HorizonYears = MaxHorizonYears
	if _, err := New(p); err != nil {
		t.Fatalf("horizon of %d should be accepted: %v", MaxHorizonYears, err)
	}
}

func TestNew_ScheduledYearZero(t *testing.T) {
	p := validParams()
	p.Projects[0].ScheduledYear = 0
	mustFail(t, p, "projects[0].scheduled_year")
}

func TestNew_ScheduledYearBeyondHorizon(t *testing.T) {
	p := validParams()
	p.Projects[0].ScheduledYear = 4
	mustFail(t, p, "projects[0].scheduled_year")
}

func TestNew_NegativeStartingBalance(t *testing.T) {
	p := validParams()
	p.StartingBalance = money.FromFloat(-1)
	mustFail(t, p, "starting_balance")
}

func TestNew_Rates(t *testing.T) {
	tests := []struct {
		name  string
		field string
		mut   func(*Params)
	}{
		{"inflation below -100%", "inflation_rate", func(p *Params) { p.InflationRate = -1.01 }},
		{"interest below -100%", "interest_rate", func(p *Params) { p.InterestRate = -2 }},
		{"growth below -100%", "contribution_growth_rate", func(p *Params) { p.ContributionGrowthRate = -1.5 }},
		{"interest NaN", "interest_rate", func(p *Params) { p.InterestRate = math.NaN() }},
		{"inflation Inf", "inflation_rate", func(p *Params) { p.InflationRate = math.Inf(1) }},
		{"interest above max", "interest_rate", func(p *Params) { p.InterestRate = MaxRate + 0.5 }},
		{"inflation above max", "inflation_rate", func(p *Params) { p.InflationRate = 1e6 }},
		{"growth above max", "contribution_growth_rate", func(p *Params) { p.ContributionGrowthRate = 11 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mut(&p)
			mustFail(t, p, tt.field)
		})
	}

	p := validParams()
	p.InflationRate = -1.0
	p.InterestRate = -1.0
	if _, err := New(p); err != nil {
		t.Fatalf("rate of exactly -1.0 should be accepted: %v", err)
	}
}

func TestNew_DuplicateAndEmptyNames(t *testing.T) {
	p := validParams()
	p.Projects = append(p.Projects, ProjectParams{Name: "Roof", BaseCost: 1, ScheduledYear: 3})
	mustFail(t, p, "projects[1].name")

	p = validParams()
	p.Projects[0].Name = "   "
	mustFail(t, p, "projects[0].name")
}

func TestNew_UnknownPolicy(t *testing.T) {
	p := validParams()
	p.ContributionPolicy = ""
	mustFail(t, p, "contribution_policy")
}

func TestNew_ReportsEveryIssue(t *testing.T) {
	p := validParams()
	p.StartingBalance = -5
	p.InterestRate = -3
	p.Projects[0].ScheduledYear = 0

	_, err := New(p)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("want *ValidationError, got %v", err)
	}
	if len(verr.Issues) != 3 {
		t.Fatalf("issues = %d (%v), want 3", len(verr.Issues), verr.Issues)
	}
}

func TestProjectsReturnsCopy(t *testing.T) {
	s, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	ps := s.Projects()
	ps[0] = Project{}
	if s.Projects()[0].Name() != "Roof" {
		t.Fatal("mutating Projects() result changed the scenario")
	}
}

func TestParamsRoundTrip(t *testing.T) {
	a, err := New(validParams())
	if err != nil {
		t.Fatal(err)
	}
	b, err := New(a.Params())
	if err != nil {
		t.Fatal(err)
	}
	if !a.Equal(b) {
		t.Fatal("scenario rebuilt from Params() is not Equal")
	}

	p := validParams()
	p.InterestRate = 0.01
	c, _ := New(p)
	if a.Equal(c) {
		t.Fatal("scenarios with different interest rates reported Equal")
	}
}

func TestEffectiveContributionGrowth(t *testing.T) {
	p := validParams()
	p.InflationRate = 0.03
	p.ContributionGrowthRate = 0.05

	p.ContributionPolicy = ContributionIndependent
	s, _ := New(p)
	if got := s.EffectiveContributionGrowth(); got != 0.05 {
		t.Errorf("independent growth = %v, want 0.05", got)
	}

	p.ContributionPolicy = ContributionTracksInflation
	s, _ = New(p)
	if got := s.EffectiveContributionGrowth(); got != 0.03 {
		t.Errorf("inflation-tracking growth = %v, want 0.03", got)
	}
}
