package forecast

import (
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

// RequiredContribution finds the smallest year-1 contribution, to the cent,
// for which no year of s ends with a negative balance. Every other input of
// s is kept. It reports false when even a contribution equal to the total
// escalated project spend leaves a deficit (e.g. a strongly negative
// contribution growth rate).
func RequiredContribution(e Engine, s scenario.Scenario) (money.Amount, bool) {
	base := s.Params()

	feasible := func(c money.Amount) bool {
		p := base
		p.AnnualContribution = c
		trial, err := scenario.New(p)
		if err != nil {
			return false
		}
		for _, r := range e.Project(trial) {
			if r.EndingBalance.IsNegative() {
				return false
			}
		}
		return true
	}

	if feasible(0) {
		return 0, true
	}

	var hi money.Amount
	for _, r := range e.Project(s) {
		hi = money.Sum(hi, r.ProjectExpenditures)
	}
	if hi <= 0 || !feasible(hi) {
		return 0, false
	}

	lo := money.Amount(0)
	for hi-lo > 1 {
		mid := lo + (hi-lo)/2
		if feasible(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return hi, true
}
