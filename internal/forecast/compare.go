package forecast

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/hoafund/internal/scenario"
)

// Case is one named what-if scenario in a comparison.
type Case struct {
	Name     string
	Scenario scenario.Scenario
}

// Outcome is the projection of one Case.
type Outcome struct {
	Name    string       `json:"name"`
	Results []YearResult `json:"results"`
	Summary Summary      `json:"summary"`
}

// Compare projects every case with e. Projections are independent and run
// in parallel on a bounded pool; outcomes keep the order of cases. A
// cancelled ctx stops cases that have not started yet.
func Compare(ctx context.Context, e Engine, cases []Case) ([]Outcome, error) {
	outcomes := make([]Outcome, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(runtime.GOMAXPROCS(0), 1))

	for i, c := range cases {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results := e.Project(c.Scenario)
			outcomes[i] = Outcome{
				Name:    c.Name,
				Results: results,
				Summary: Summarize(results),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
