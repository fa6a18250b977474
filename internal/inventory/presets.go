package inventory

import (
	"sort"
	"strings"

	"github.com/theirongolddev/hoafund/internal/money"
)

// Presets are typical Boston-area replacement costs, keyed by catalog name.
var Presets = map[string]Component{
	"Asphalt Roof (Large)": {
		Name: "New Asphalt Roof", CurrentCost: money.FromCents(120000_00),
		UsefulLife: 25, RemainingUsefulLife: 25, Notes: "Boston Avg",
	},
	"Rubber Roof (Flat)": {
		Name: "EPDM Rubber Roof", CurrentCost: money.FromCents(80000_00),
		UsefulLife: 20, RemainingUsefulLife: 20, Notes: "Boston Avg",
	},
	"Boiler System": {
		Name: "Commercial Boiler", CurrentCost: money.FromCents(45000_00),
		UsefulLife: 25, RemainingUsefulLife: 15, Notes: "Boston Avg",
	},
	"Elevator Modernization": {
		Name: "Elevator Mod", CurrentCost: money.FromCents(100000_00),
		UsefulLife: 25, RemainingUsefulLife: 10, Notes: "Hydraulic",
	},
	"Ext. Painting (Wood)": {
		Name: "Full Ext Paint", CurrentCost: money.FromCents(25000_00),
		UsefulLife: 6, RemainingUsefulLife: 3, Notes: "Cycles fast in NE",
	},
	"Paving Overlay": {
		Name: "Pavement Overlay", CurrentCost: money.FromCents(35000_00),
		UsefulLife: 20, RemainingUsefulLife: 5, Notes: "2 inch overlay",
	},
}

// PresetNames returns the catalog names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LookupPreset finds a catalog entry by name, ignoring case.
func LookupPreset(name string) (Component, bool) {
	if c, ok := Presets[name]; ok {
		return c, true
	}
	for k, c := range Presets {
		if strings.EqualFold(k, strings.TrimSpace(name)) {
			return c, true
		}
	}
	return Component{}, false
}
