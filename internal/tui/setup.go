package tui

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/theirongolddev/hoafund/internal/config"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

// SetupValues holds the first-run form answers as typed. Percentages are
// entered as "3" or "3%" for 0.03.
type SetupValues struct {
	Theme         string
	HorizonYears  string
	InflationPct  string
	InterestPct   string
	Policy        string
	ThresholdPct  string
	LookaheadYrs  string
	ConfirmedSave bool
}

// SetupValuesFrom seeds the form with cfg's current values.
func SetupValuesFrom(cfg config.Config) SetupValues {
	return SetupValues{
		Theme:         cfg.Appearance.Theme,
		HorizonYears:  strconv.Itoa(cfg.General.HorizonYears),
		InflationPct:  formatPct(cfg.Assumptions.InflationRate),
		InterestPct:   formatPct(cfg.Assumptions.InterestRate),
		Policy:        cfg.Assumptions.ContributionPolicy,
		ThresholdPct:  formatPct(cfg.Funding.AdequateThreshold),
		LookaheadYrs:  strconv.Itoa(cfg.Funding.LookaheadYears),
		ConfirmedSave: true,
	}
}

// Apply writes the answers into cfg. Every field is checked before cfg is
// touched.
func (v SetupValues) Apply(cfg *config.Config) error {
	horizon, err := parseCount(v.HorizonYears)
	if err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	inflation, err := parsePct(v.InflationPct)
	if err != nil {
		return fmt.Errorf("inflation: %w", err)
	}
	interest, err := parsePct(v.InterestPct)
	if err != nil {
		return fmt.Errorf("interest: %w", err)
	}
	threshold, err := parsePct(v.ThresholdPct)
	if err != nil {
		return fmt.Errorf("threshold: %w", err)
	}
	if threshold < 0 || threshold > 1 {
		return errors.New("threshold: must be between 0% and 100%")
	}
	lookahead, err := parseCount(v.LookaheadYrs)
	if err != nil {
		return fmt.Errorf("lookahead: %w", err)
	}
	if !scenario.ContributionPolicy(v.Policy).Valid() {
		return fmt.Errorf("policy: unknown %q", v.Policy)
	}

	cfg.Appearance.Theme = theme.ByName(v.Theme).Name
	cfg.General.HorizonYears = horizon
	cfg.Assumptions.InflationRate = inflation
	cfg.Assumptions.InterestRate = interest
	cfg.Assumptions.ContributionPolicy = v.Policy
	cfg.Funding.AdequateThreshold = threshold
	cfg.Funding.LookaheadYears = lookahead
	return nil
}

// NewSetupForm builds the setup wizard bound to v.
func NewSetupForm(v *SetupValues) *huh.Form {
	themeOpts := make([]huh.Option[string], 0, len(theme.All))
	for _, name := range theme.Names() {
		themeOpts = append(themeOpts, huh.NewOption(name, name))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to hoafund").
				Description("Set the defaults used when a scenario file leaves a field out.\nRun `hoafund setup` anytime to change them."),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(themeOpts...).
				Value(&v.Theme),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Forecast horizon (years)").
				Value(&v.HorizonYears).
				Validate(validateCount),
			huh.NewInput().
				Title("Construction inflation (% per year)").
				Value(&v.InflationPct).
				Validate(validatePct),
			huh.NewInput().
				Title("Interest on reserves (% per year)").
				Value(&v.InterestPct).
				Validate(validatePct),
			huh.NewSelect[string]().
				Title("Contribution increases").
				Options(
					huh.NewOption("Track inflation", string(scenario.ContributionTracksInflation)),
					huh.NewOption("Own growth rate", string(scenario.ContributionIndependent)),
				).
				Value(&v.Policy),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Adequate funding threshold (% of ideal reserve)").
				Value(&v.ThresholdPct).
				Validate(func(s string) error {
					p, err := parsePct(s)
					if err != nil {
						return err
					}
					if p < 0 || p > 1 {
						return errors.New("must be between 0 and 100")
					}
					return nil
				}),
			huh.NewInput().
				Title("Ideal reserve lookahead (years)").
				Value(&v.LookaheadYrs).
				Validate(validateCount),
			huh.NewConfirm().
				Title("Save these settings?").
				Value(&v.ConfirmedSave),
		),
	).WithShowHelp(true)
}

// SaveSetup applies v to the stored config and writes it.
func SaveSetup(v SetupValues) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		cfg = config.DefaultConfig()
	}
	if err := v.Apply(&cfg); err != nil {
		return cfg, err
	}
	if err := config.Save(cfg); err != nil {
		return cfg, fmt.Errorf("saving config: %w", err)
	}
	return cfg, nil
}

func validateCount(s string) error {
	_, err := parseCount(s)
	return err
}

func validatePct(s string) error {
	_, err := parsePct(s)
	return err
}

func parseCount(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, errors.New("must be a whole number")
	}
	if n < 1 {
		return 0, errors.New("must be at least 1")
	}
	return n, nil
}

// parsePct reads "3", "3%" or "3.5 %" as a fraction.
func parsePct(s string) (float64, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("must be a number")
	}
	return f / 100, nil
}

func formatPct(f float64) string {
	return strconv.FormatFloat(math.Round(f*1e6)/1e4, 'f', -1, 64)
}
