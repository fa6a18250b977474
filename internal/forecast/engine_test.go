package forecast

import (
	"errors"
	"reflect"
	"testing"

	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

func mustScenario(t *testing.T, p scenario.Params) scenario.Scenario {
	t.Helper()
	if p.ContributionPolicy == "" {
		p.ContributionPolicy = scenario.ContributionIndependent
	}
	s, err := scenario.New(p)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	return s
}

func dollars(f float64) money.Amount { return money.FromFloat(f) }

func TestProject_WorkedExample(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance:    dollars(10000),
		HorizonYears:       3,
		AnnualContribution: dollars(2000),
		Projects: []scenario.ProjectParams{
			{Name: "Roof", BaseCost: dollars(15000), ScheduledYear: 2},
		},
	})

	got := Project(s)
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}

	wantEnding := []money.Amount{dollars(12000), dollars(-1000), dollars(1000)}
	wantStatus := []Status{StatusAdequate, StatusUnderfunded, StatusFullyFunded}
	for i, r := range got {
		if r.Year != i+1 {
			t.Errorf("result[%d].Year = %d", i, r.Year)
		}
		if r.EndingBalance != wantEnding[i] {
			t.Errorf("year %d ending = %s, want %s", r.Year, r.EndingBalance, wantEnding[i])
		}
		if r.FundingStatus != wantStatus[i] {
			t.Errorf("year %d status = %s, want %s", r.Year, r.FundingStatus, wantStatus[i])
		}
	}

	if got[0].IdealReserve != dollars(15000) {
		t.Errorf("year 1 ideal = %s, want 15000.00", got[0].IdealReserve)
	}
	if got[1].ProjectExpenditures != dollars(15000) {
		t.Errorf("year 2 expenditures = %s, want 15000.00", got[1].ProjectExpenditures)
	}
	if !reflect.DeepEqual(got[1].ProjectsDue, []string{"Roof"}) {
		t.Errorf("year 2 projects due = %v", got[1].ProjectsDue)
	}
}

func TestProject_SingleYearInterest(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance: dollars(1000),
		HorizonYears:    1,
		InterestRate:    0.05,
	})

	got := Project(s)
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if got[0].InterestEarned != dollars(50) {
		t.Errorf("interest = %s, want 50.00", got[0].InterestEarned)
	}
	if got[0].EndingBalance != dollars(1050) {
		t.Errorf("ending = %s, want 1050.00", got[0].EndingBalance)
	}
}

func TestProject_ChainsBalances(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance:        dollars(250000),
		HorizonYears:           30,
		AnnualContribution:     dollars(40000),
		ContributionGrowthRate: 0.025,
		InflationRate:          0.031,
		InterestRate:           0.0175,
		Projects: []scenario.ProjectParams{
			{Name: "Roof", BaseCost: dollars(120000), ScheduledYear: 12},
			{Name: "Boiler", BaseCost: dollars(45000), ScheduledYear: 15},
			{Name: "Paving", BaseCost: dollars(35000), ScheduledYear: 5},
			{Name: "Paving 2", BaseCost: dollars(35000), ScheduledYear: 25},
			{Name: "Elevator", BaseCost: dollars(100000), ScheduledYear: 10},
		},
	})

	got := Project(s)
	if len(got) != s.HorizonYears() {
		t.Fatalf("len = %d, want %d", len(got), s.HorizonYears())
	}
	if got[0].BeginningBalance != s.StartingBalance() {
		t.Fatalf("year 1 beginning = %s, want starting balance", got[0].BeginningBalance)
	}
	for n := 0; n+1 < len(got); n++ {
		if got[n].EndingBalance != got[n+1].BeginningBalance {
			t.Fatalf("year %d ending %s != year %d beginning %s",
				got[n].Year, got[n].EndingBalance, got[n+1].Year, got[n+1].BeginningBalance)
		}
	}
	for _, r := range got {
		want := r.BeginningBalance + r.InterestEarned + r.Contribution - r.ProjectExpenditures
		if r.EndingBalance != want {
			t.Fatalf("year %d ending = %s, want %s", r.Year, r.EndingBalance, want)
		}
	}
}

func TestProject_Idempotent(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance:    dollars(50000),
		HorizonYears:       30,
		AnnualContribution: dollars(12000),
		ContributionPolicy: scenario.ContributionTracksInflation,
		InflationRate:      0.04,
		InterestRate:       0.03,
		Projects: []scenario.ProjectParams{
			{Name: "Roof", BaseCost: dollars(80000), ScheduledYear: 7},
			{Name: "Paint", BaseCost: dollars(25000), ScheduledYear: 7},
		},
	})

	a := Project(s)
	b := Project(s)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("two projections of the same scenario differ")
	}

	// Results are independent copies.
	a[6].ProjectsDue[0] = "changed"
	c := Project(s)
	if c[6].ProjectsDue[0] != "Roof" {
		t.Fatal("mutating one result leaked into a later projection")
	}
}

func TestProject_ZeroRates(t *testing.T) {
	projects := []scenario.ProjectParams{
		{Name: "A", BaseCost: dollars(3000), ScheduledYear: 2},
		{Name: "B", BaseCost: dollars(1234.56), ScheduledYear: 2},
		{Name: "C", BaseCost: dollars(9000), ScheduledYear: 5},
		{Name: "D", BaseCost: dollars(20000), ScheduledYear: 9},
	}
	s := mustScenario(t, scenario.Params{
		StartingBalance:    dollars(7000),
		HorizonYears:       10,
		AnnualContribution: dollars(1500),
		Projects:           projects,
	})

	got := Project(s)
	for _, r := range got {
		var spentByN money.Amount
		for _, p := range projects {
			if p.ScheduledYear <= r.Year {
				spentByN += p.BaseCost
			}
		}
		want := s.StartingBalance() + money.Amount(r.Year)*s.AnnualContribution() - spentByN
		if r.EndingBalance != want {
			t.Errorf("year %d ending = %s, want %s", r.Year, r.EndingBalance, want)
		}
	}
}

func TestProject_Escalation(t *testing.T) {
	const year = 5
	cost := dollars(10000)

	expenditure := func(rate float64) money.Amount {
		s := mustScenario(t, scenario.Params{
			HorizonYears:  year,
			InflationRate: rate,
			Projects: []scenario.ProjectParams{
				{Name: "Roof", BaseCost: cost, ScheduledYear: year},
			},
		})
		return Project(s)[year-1].ProjectExpenditures
	}

	// 10000 * 1.03^4 = 11255.0881
	if got := expenditure(0.03); got != dollars(11255.09) {
		t.Fatalf("escalated cost = %s, want 11255.09", got)
	}
	if got := expenditure(0); got != cost {
		t.Fatalf("unescalated cost = %s, want %s", got, cost)
	}

	prev := expenditure(0)
	for _, rate := range []float64{0.005, 0.01, 0.02, 0.05, 0.1} {
		got := expenditure(rate)
		if got <= prev {
			t.Fatalf("expenditure at %g = %s, not greater than %s", rate, got, prev)
		}
		prev = got
	}
}

func TestProject_FirstYearCostNotEscalated(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		HorizonYears:  3,
		InflationRate: 0.5,
		Projects: []scenario.ProjectParams{
			{Name: "Now", BaseCost: dollars(1000), ScheduledYear: 1},
		},
	})
	if got := Project(s)[0].ProjectExpenditures; got != dollars(1000) {
		t.Fatalf("year 1 cost = %s, want 1000.00", got)
	}
}

func TestProject_ContributionPolicies(t *testing.T) {
	base := scenario.Params{
		HorizonYears:           3,
		AnnualContribution:     dollars(2000),
		InflationRate:          0.03,
		ContributionGrowthRate: 0.10,
	}

	base.ContributionPolicy = scenario.ContributionTracksInflation
	got := Project(mustScenario(t, base))
	// 2000 * 1.03^2 = 2121.80
	if got[2].Contribution != dollars(2121.80) {
		t.Errorf("inflation-tracking year 3 contribution = %s, want 2121.80", got[2].Contribution)
	}

	base.ContributionPolicy = scenario.ContributionIndependent
	got = Project(mustScenario(t, base))
	if got[0].Contribution != dollars(2000) {
		t.Errorf("year 1 contribution = %s, want 2000.00", got[0].Contribution)
	}
	// 2000 * 1.1^2 = 2420
	if got[2].Contribution != dollars(2420) {
		t.Errorf("independent year 3 contribution = %s, want 2420.00", got[2].Contribution)
	}
}

func TestProject_NegativeBalanceEarnsNegativeInterest(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance: dollars(0),
		HorizonYears:    2,
		InterestRate:    0.05,
		Projects: []scenario.ProjectParams{
			{Name: "Emergency", BaseCost: dollars(1000), ScheduledYear: 1},
		},
	})
	got := Project(s)
	if got[0].EndingBalance != dollars(-1000) {
		t.Fatalf("year 1 ending = %s, want -1000.00", got[0].EndingBalance)
	}
	if got[1].InterestEarned != dollars(-50) {
		t.Fatalf("year 2 interest = %s, want -50.00", got[1].InterestEarned)
	}
}

func TestProject_ExtremeGrowthSaturates(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance:    dollars(1_000_000),
		HorizonYears:       30,
		AnnualContribution: dollars(1000),
		InterestRate:       scenario.MaxRate,
	})
	got := Project(s)
	for i := 1; i < len(got); i++ {
		if got[i].EndingBalance < got[i-1].EndingBalance {
			t.Fatalf("year %d ending %s < year %d ending %s with only positive flows",
				got[i].Year, got[i].EndingBalance, got[i-1].Year, got[i-1].EndingBalance)
		}
	}
	if last := got[len(got)-1].EndingBalance; last != money.MaxAmount {
		t.Errorf("final balance = %s, want saturated MaxAmount", last)
	}
}

func TestProject_MaxHorizonLargeCosts(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance: dollars(0),
		HorizonYears:    scenario.MaxHorizonYears,
		InflationRate:   scenario.MaxRate,
		Projects: []scenario.ProjectParams{
			{Name: "Tower", BaseCost: dollars(5_000_000), ScheduledYear: scenario.MaxHorizonYears},
			{Name: "Garage", BaseCost: dollars(5_000_000), ScheduledYear: scenario.MaxHorizonYears},
		},
	})
	got := Project(s)
	if len(got) != scenario.MaxHorizonYears {
		t.Fatalf("got %d years", len(got))
	}
	last := got[len(got)-1]
	if last.ProjectExpenditures != money.MaxAmount {
		t.Errorf("spend = %s, want saturated MaxAmount", last.ProjectExpenditures)
	}
	if last.EndingBalance != money.MinAmount {
		t.Errorf("ending = %s, want saturated MinAmount", last.EndingBalance)
	}
}

func TestClassification(t *testing.T) {
	e, err := NewEngine(Options{AdequateThreshold: 0.7, LookaheadYears: 5})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		balance, ideal float64
		want           Status
	}{
		{100, 100, StatusFullyFunded},
		{101, 100, StatusFullyFunded},
		{70, 100, StatusAdequate},
		{69.99, 100, StatusUnderfunded},
		{0, 0, StatusFullyFunded},
		{-1, 0, StatusUnderfunded},
		{-1, 100, StatusUnderfunded},
	}
	for _, tt := range tests {
		if got := e.Classify(dollars(tt.balance), dollars(tt.ideal)); got != tt.want {
			t.Errorf("Classify(%v, %v) = %s, want %s", tt.balance, tt.ideal, got, tt.want)
		}
	}
}

func TestLookaheadWindow(t *testing.T) {
	s := mustScenario(t, scenario.Params{
		StartingBalance: dollars(1000),
		HorizonYears:    10,
		Projects: []scenario.ProjectParams{
			{Name: "Near", BaseCost: dollars(100), ScheduledYear: 3},
			{Name: "Far", BaseCost: dollars(10000), ScheduledYear: 9},
		},
	})

	e, err := NewEngine(Options{AdequateThreshold: 0.5, LookaheadYears: 2})
	if err != nil {
		t.Fatal(err)
	}
	got := e.Project(s)
	// Year 1 looks at years 2-3 only.
	if got[0].IdealReserve != dollars(100) {
		t.Errorf("year 1 ideal = %s, want 100.00", got[0].IdealReserve)
	}
	if got[0].PercentFunded == nil || *got[0].PercentFunded != 10 {
		t.Errorf("year 1 percent funded = %v, want 10", got[0].PercentFunded)
	}
	// Year 7 sees the far project.
	if got[6].IdealReserve != dollars(10000) {
		t.Errorf("year 7 ideal = %s, want 10000.00", got[6].IdealReserve)
	}
	if got[6].FundingStatus != StatusUnderfunded {
		t.Errorf("year 7 status = %s, want UNDERFUNDED", got[6].FundingStatus)
	}
	if got[9].PercentFunded != nil {
		t.Errorf("final year percent funded = %v, want nil", *got[9].PercentFunded)
	}
}

func TestNewEngine_InvalidOptions(t *testing.T) {
	for _, opts := range []Options{
		{AdequateThreshold: -0.1, LookaheadYears: 5},
		{AdequateThreshold: 1.5, LookaheadYears: 5},
		{AdequateThreshold: 0.7, LookaheadYears: 0},
	} {
		if _, err := NewEngine(opts); !errors.Is(err, ErrInvalidOptions) {
			t.Errorf("NewEngine(%+v) err = %v, want ErrInvalidOptions", opts, err)
		}
	}
}

func TestStatusText(t *testing.T) {
	for _, st := range []Status{StatusUnderfunded, StatusAdequate, StatusFullyFunded} {
		text, err := st.MarshalText()
		if err != nil {
			t.Fatal(err)
		}
		var back Status
		if err := back.UnmarshalText(text); err != nil {
			t.Fatal(err)
		}
		if back != st {
			t.Errorf("round trip %s -> %s", st, back)
		}
	}
	if _, err := Status(9).MarshalText(); err == nil {
		t.Error("MarshalText accepted an unknown status")
	}
}
