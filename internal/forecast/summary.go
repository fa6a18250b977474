package forecast

import "github.com/theirongolddev/hoafund/internal/money"

// Summary holds headline figures for one projection.
type Summary struct {
	Years           int          `json:"years"`
	StartingBalance money.Amount `json:"starting_balance"`
	FinalBalance    money.Amount `json:"final_balance"`
	FinalStatus     Status       `json:"final_status"`

	LowestBalance     money.Amount `json:"lowest_balance"`
	LowestBalanceYear int          `json:"lowest_balance_year"`

	// Zero when the condition never occurs.
	FirstUnderfundedYear int `json:"first_underfunded_year"`
	FirstDeficitYear     int `json:"first_deficit_year"`

	YearsFullyFunded int `json:"years_fully_funded"`
	YearsAdequate    int `json:"years_adequate"`
	YearsUnderfunded int `json:"years_underfunded"`
	YearsInDeficit   int `json:"years_in_deficit"`

	TotalInterest      money.Amount `json:"total_interest"`
	TotalContributions money.Amount `json:"total_contributions"`
	TotalExpenditures  money.Amount `json:"total_expenditures"`
	ProjectCount       int          `json:"project_count"`
}

// Summarize computes a Summary over a projection.
func Summarize(results []YearResult) Summary {
	var s Summary
	if len(results) == 0 {
		return s
	}

	first := results[0]
	last := results[len(results)-1]
	s.Years = len(results)
	s.StartingBalance = first.BeginningBalance
	s.FinalBalance = last.EndingBalance
	s.FinalStatus = last.FundingStatus
	s.LowestBalance = first.EndingBalance
	s.LowestBalanceYear = first.Year

	for _, r := range results {
		s.TotalInterest = money.Sum(s.TotalInterest, r.InterestEarned)
		s.TotalContributions = money.Sum(s.TotalContributions, r.Contribution)
		s.TotalExpenditures = money.Sum(s.TotalExpenditures, r.ProjectExpenditures)
		s.ProjectCount += len(r.ProjectsDue)

		if r.EndingBalance < s.LowestBalance {
			s.LowestBalance = r.EndingBalance
			s.LowestBalanceYear = r.Year
		}

		switch r.FundingStatus {
		case StatusFullyFunded:
			s.YearsFullyFunded++
		case StatusAdequate:
			s.YearsAdequate++
		case StatusUnderfunded:
			s.YearsUnderfunded++
			if s.FirstUnderfundedYear == 0 {
				s.FirstUnderfundedYear = r.Year
			}
		}

		if r.EndingBalance.IsNegative() {
			s.YearsInDeficit++
			if s.FirstDeficitYear == 0 {
				s.FirstDeficitYear = r.Year
			}
		}
	}

	return s
}

// EndingBalances extracts the ending balance series in dollars, for charts.
func EndingBalances(results []YearResult) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = r.EndingBalance.Float64()
	}
	return out
}
