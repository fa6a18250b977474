// Package inventory models a reserve study's component inventory and turns
// it into the capital projects a forecast consumes.
package inventory

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

// Component is one replaceable building element from a reserve study.
type Component struct {
	Name                string       `json:"name"`
	CurrentCost         money.Amount `json:"current_cost"`
	UsefulLife          int          `json:"useful_life"`
	RemainingUsefulLife int          `json:"remaining_useful_life"`
	Notes               string       `json:"notes,omitempty"`
}

// ReplacementYears returns the forecast years in which c is replaced:
// first at max(RemainingUsefulLife, 1), then every UsefulLife years up to
// horizon. A non-positive UsefulLife means a single replacement.
func (c Component) ReplacementYears(horizon int) []int {
	first := max(c.RemainingUsefulLife, 1)
	if first > horizon {
		return nil
	}
	if c.UsefulLife <= 0 {
		return []int{first}
	}
	var years []int
	for y := first; y <= horizon; y += c.UsefulLife {
		years = append(years, y)
	}
	return years
}

// Expand turns components into scheduled projects within horizon. A
// component replaced once keeps its name; recurring replacements are named
// "<name> (year N)". Components are emitted in input order, replacements in
// year order.
func Expand(components []Component, horizon int) []scenario.ProjectParams {
	var out []scenario.ProjectParams
	for _, c := range components {
		name := strings.TrimSpace(c.Name)
		years := c.ReplacementYears(horizon)
		for _, y := range years {
			pname := name
			if len(years) > 1 {
				pname = fmt.Sprintf("%s (year %d)", name, y)
			}
			out = append(out, scenario.ProjectParams{
				Name:          pname,
				BaseCost:      c.CurrentCost,
				ScheduledYear: y,
			})
		}
	}
	return out
}

// TotalCost sums the current replacement cost of all components.
func TotalCost(components []Component) money.Amount {
	var total money.Amount
	for _, c := range components {
		total += c.CurrentCost
	}
	return total
}
