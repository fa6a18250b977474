// Package source reads and writes scenario files: TOML documents that
// describe a reserve fund's starting position, assumptions and projects.
package source

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/theirongolddev/hoafund/internal/inventory"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

// Document is the on-disk form of a scenario. Pointer fields are optional
// and fall back to Defaults when nil.
type Document struct {
	Name                   string   `toml:"name,omitempty"`
	StartingBalance        float64  `toml:"starting_balance"`
	HorizonYears           *int     `toml:"horizon_years,omitempty"`
	AnnualContribution     float64  `toml:"annual_contribution"`
	ContributionPolicy     string   `toml:"contribution_policy,omitempty"`
	ContributionGrowthRate *float64 `toml:"contribution_growth_rate,omitempty"`
	InflationRate          *float64 `toml:"inflation_rate,omitempty"`
	InterestRate           *float64 `toml:"interest_rate,omitempty"`
	InventoryCSV           string   `toml:"inventory_csv,omitempty"`

	Projects   []ProjectEntry   `toml:"projects,omitempty"`
	Components []ComponentEntry `toml:"components,omitempty"`

	// dir resolves a relative InventoryCSV; empty means the working directory.
	dir string
}

// ProjectEntry is a [[projects]] table.
type ProjectEntry struct {
	Name          string  `toml:"name"`
	BaseCost      float64 `toml:"base_cost"`
	ScheduledYear int     `toml:"scheduled_year"`
}

// ComponentEntry is a [[components]] table.
type ComponentEntry struct {
	Name                string  `toml:"name"`
	CurrentCost         float64 `toml:"current_cost"`
	UsefulLife          int     `toml:"useful_life"`
	RemainingUsefulLife int     `toml:"remaining_useful_life"`
	Notes               string  `toml:"notes,omitempty"`
}

// Defaults supplies the values a document may leave out.
type Defaults struct {
	HorizonYears           int
	InflationRate          float64
	InterestRate           float64
	ContributionPolicy     scenario.ContributionPolicy
	ContributionGrowthRate float64
}

// Decode parses a scenario document. Unknown keys are rejected so a typo
// in a rate name does not silently fall back to a default.
func Decode(r io.Reader) (Document, error) {
	var doc Document
	md, err := toml.NewDecoder(r).Decode(&doc)
	if err != nil {
		return Document{}, fmt.Errorf("parsing scenario: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		sort.Strings(keys)
		return Document{}, fmt.Errorf("parsing scenario: unknown keys: %s", strings.Join(keys, ", "))
	}
	return doc, nil
}

// LoadFile reads a scenario document from disk. A relative inventory_csv is
// resolved against the document's directory.
func LoadFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("opening scenario: %w", err)
	}
	defer func() { _ = f.Close() }()

	doc, err := Decode(f)
	if err != nil {
		return Document{}, fmt.Errorf("%s: %w", path, err)
	}
	doc.dir = filepath.Dir(path)
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return doc, nil
}

// Encode writes doc as TOML.
func Encode(w io.Writer, doc Document) error {
	return toml.NewEncoder(w).Encode(doc)
}

// SaveFile writes doc to path, creating parent directories.
func SaveFile(path string, doc Document) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating scenario dir: %w", err)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, doc); err != nil {
		return fmt.Errorf("encoding scenario: %w", err)
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Params resolves doc into scenario parameters. Components, both inline and
// from inventory_csv, are expanded into projects across the horizon and
// appended after the explicit projects.
func (d Document) Params(defaults Defaults) (scenario.Params, error) {
	p := scenario.Params{
		StartingBalance:        money.FromFloat(d.StartingBalance),
		HorizonYears:           defaults.HorizonYears,
		AnnualContribution:     money.FromFloat(d.AnnualContribution),
		ContributionPolicy:     defaults.ContributionPolicy,
		ContributionGrowthRate: defaults.ContributionGrowthRate,
		InflationRate:          defaults.InflationRate,
		InterestRate:           defaults.InterestRate,
	}
	if d.HorizonYears != nil {
		p.HorizonYears = *d.HorizonYears
	}
	if d.ContributionPolicy != "" {
		p.ContributionPolicy = scenario.ContributionPolicy(strings.ToLower(d.ContributionPolicy))
	}
	if d.ContributionGrowthRate != nil {
		p.ContributionGrowthRate = *d.ContributionGrowthRate
	}
	if d.InflationRate != nil {
		p.InflationRate = *d.InflationRate
	}
	if d.InterestRate != nil {
		p.InterestRate = *d.InterestRate
	}

	for _, e := range d.Projects {
		p.Projects = append(p.Projects, scenario.ProjectParams{
			Name:          e.Name,
			BaseCost:      money.FromFloat(e.BaseCost),
			ScheduledYear: e.ScheduledYear,
		})
	}

	components, err := d.components()
	if err != nil {
		return scenario.Params{}, err
	}
	p.Projects = append(p.Projects, inventory.Expand(components, p.HorizonYears)...)

	return p, nil
}

func (d Document) components() ([]inventory.Component, error) {
	out := make([]inventory.Component, 0, len(d.Components))
	for _, e := range d.Components {
		out = append(out, inventory.Component{
			Name:                e.Name,
			CurrentCost:         money.FromFloat(e.CurrentCost),
			UsefulLife:          e.UsefulLife,
			RemainingUsefulLife: e.RemainingUsefulLife,
			Notes:               e.Notes,
		})
	}
	if d.InventoryCSV == "" {
		return out, nil
	}

	path := d.InventoryCSV
	if !filepath.IsAbs(path) && d.dir != "" {
		path = filepath.Join(d.dir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	defer func() { _ = f.Close() }()

	fromCSV, err := inventory.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return append(out, fromCSV...), nil
}

// FromParams builds a fully specified document from p, as written by
// "presets show --export".
func FromParams(name string, p scenario.Params) Document {
	horizon := p.HorizonYears
	growth := p.ContributionGrowthRate
	inflation := p.InflationRate
	interest := p.InterestRate

	doc := Document{
		Name:                   name,
		StartingBalance:        p.StartingBalance.Float64(),
		HorizonYears:           &horizon,
		AnnualContribution:     p.AnnualContribution.Float64(),
		ContributionPolicy:     string(p.ContributionPolicy),
		ContributionGrowthRate: &growth,
		InflationRate:          &inflation,
		InterestRate:           &interest,
	}
	for _, pp := range p.Projects {
		doc.Projects = append(doc.Projects, ProjectEntry{
			Name:          pp.Name,
			BaseCost:      pp.BaseCost.Float64(),
			ScheduledYear: pp.ScheduledYear,
		})
	}
	return doc
}
