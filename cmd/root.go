// Package cmd implements the hoafund CLI commands.
package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/config"
	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/inventory"
	"github.com/theirongolddev/hoafund/internal/logger"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/source"
	"github.com/theirongolddev/hoafund/internal/store"
)

var (
	flagPreset       string
	flagInventory    string
	flagHorizon      int
	flagBalance      string
	flagContribution string
	flagInflation    float64
	flagInterest     float64
	flagGrowth       float64
	flagPolicy       string
	flagThreshold    float64
	flagLookahead    int
	flagQuiet        bool
	flagLogLevel     string
	flagNoColor      bool
)

// Loaded once per invocation in PersistentPreRunE.
var (
	appCfg config.Config
	log    zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "hoafund [scenario.toml]",
	Short: "HOA reserve fund forecaster",
	Long: "Project an HOA reserve fund year by year: interest, contributions and " +
		"inflation-escalated capital projects, with a funding status for every year.",
	Args:              cobra.MaximumNArgs(1),
	SilenceUsage:      true,
	PersistentPreRunE: initRuntime,
	RunE:              runForecast,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagPreset, "preset", "", "Load the scenario from a saved preset")
	pf.StringVar(&flagInventory, "inventory", "", "Component inventory CSV to expand into projects")
	pf.IntVar(&flagHorizon, "horizon", scenario.DefaultHorizonYears, "Projection horizon in years")
	pf.StringVar(&flagBalance, "balance", "0", "Starting reserve balance")
	pf.StringVar(&flagContribution, "contribution", "0", "Year-1 annual contribution")
	pf.Float64Var(&flagInflation, "inflation", 0, "Construction inflation rate (0.03 = 3%)")
	pf.Float64Var(&flagInterest, "interest", 0, "Interest rate earned on reserves")
	pf.Float64Var(&flagGrowth, "growth", 0, "Contribution growth rate (independent policy)")
	pf.StringVar(&flagPolicy, "policy", "", "Contribution policy: inflation or independent")
	pf.Float64Var(&flagThreshold, "threshold", forecast.DefaultAdequateThreshold, "Fraction of the ideal reserve counted as adequate")
	pf.IntVar(&flagLookahead, "lookahead", forecast.DefaultLookaheadYears, "Years of upcoming projects in the ideal reserve")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error, disabled")
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colored output")
}

// initRuntime loads the config and builds the logger shared by all commands.
func initRuntime(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	appCfg = cfg

	level := cfg.Log.Level
	if cmd.Flags().Changed("log-level") {
		level = flagLogLevel
	}
	if flagQuiet && !cmd.Flags().Changed("log-level") {
		level = "warn"
	}
	log = logger.New(logger.Config{Level: level, Pretty: cfg.Log.Pretty})
	logger.SetGlobalLogger(log)

	cli.ConfigureColor(flagNoColor)
	return nil
}

// scenarioDefaults are the config values a scenario file may leave out.
func scenarioDefaults() source.Defaults {
	return source.Defaults{
		HorizonYears:           appCfg.General.HorizonYears,
		InflationRate:          appCfg.Assumptions.InflationRate,
		InterestRate:           appCfg.Assumptions.InterestRate,
		ContributionPolicy:     scenario.ContributionPolicy(appCfg.Assumptions.ContributionPolicy),
		ContributionGrowthRate: appCfg.Assumptions.ContributionGrowthRate,
	}
}

// loadParams resolves the scenario for a command: a saved preset, a
// scenario file, or flags alone over the config defaults. Explicitly set
// flags override whichever source was used.
func loadParams(cmd *cobra.Command, args []string) (string, scenario.Params, error) {
	flags := cmd.Flags()
	var (
		name string
		p    scenario.Params
	)

	switch {
	case flagPreset != "" && len(args) > 0:
		return "", p, errors.New("use either --preset or a scenario file, not both")

	case flagPreset != "":
		st, err := store.Open(appCfg.PresetsDBPath())
		if err != nil {
			return "", p, err
		}
		defer func() { _ = st.Close() }()

		preset, err := st.LoadPreset(flagPreset)
		if err != nil {
			return "", p, fmt.Errorf("preset %q: %w", flagPreset, err)
		}
		name, p = preset.Name, preset.Params
		if flags.Changed("horizon") {
			p.HorizonYears = flagHorizon
		}

	case len(args) > 0:
		doc, err := source.LoadFile(args[0])
		if err != nil {
			return "", p, err
		}
		if flags.Changed("horizon") {
			doc.HorizonYears = &flagHorizon
		}
		if p, err = doc.Params(scenarioDefaults()); err != nil {
			return "", p, err
		}
		name = doc.Name
		log.Debug().Str("file", args[0]).Int("projects", len(p.Projects)).Msg("scenario loaded")

	default:
		d := scenarioDefaults()
		name = "flags"
		p = scenario.Params{
			HorizonYears:           d.HorizonYears,
			ContributionPolicy:     d.ContributionPolicy,
			ContributionGrowthRate: d.ContributionGrowthRate,
			InflationRate:          d.InflationRate,
			InterestRate:           d.InterestRate,
		}
		if flags.Changed("horizon") {
			p.HorizonYears = flagHorizon
		}
	}

	if err := applyFlagOverrides(cmd, &p); err != nil {
		return "", p, err
	}

	if flagInventory != "" {
		components, err := readInventory(flagInventory)
		if err != nil {
			return "", p, err
		}
		p.Projects = append(p.Projects, inventory.Expand(components, p.HorizonYears)...)
	}

	return name, p, nil
}

func applyFlagOverrides(cmd *cobra.Command, p *scenario.Params) error {
	flags := cmd.Flags()
	if flags.Changed("balance") {
		amt, err := money.Parse(flagBalance)
		if err != nil {
			return fmt.Errorf("--balance: %w", err)
		}
		p.StartingBalance = amt
	}
	if flags.Changed("contribution") {
		amt, err := money.Parse(flagContribution)
		if err != nil {
			return fmt.Errorf("--contribution: %w", err)
		}
		p.AnnualContribution = amt
	}
	if flags.Changed("inflation") {
		p.InflationRate = flagInflation
	}
	if flags.Changed("interest") {
		p.InterestRate = flagInterest
	}
	if flags.Changed("growth") {
		p.ContributionGrowthRate = flagGrowth
	}
	if flags.Changed("policy") {
		p.ContributionPolicy = scenario.ContributionPolicy(flagPolicy)
	}
	return nil
}

// loadScenario resolves and validates the scenario for a command.
func loadScenario(cmd *cobra.Command, args []string) (string, scenario.Scenario, error) {
	name, p, err := loadParams(cmd, args)
	if err != nil {
		return "", scenario.Scenario{}, err
	}
	sc, err := scenario.New(p)
	if err != nil {
		return "", scenario.Scenario{}, describeInvalid(name, err)
	}
	return name, sc, nil
}

// forecastOptions returns the config options with any flag overrides.
func forecastOptions(cmd *cobra.Command) forecast.Options {
	opts := appCfg.ForecastOptions()
	if cmd.Flags().Changed("threshold") {
		opts.AdequateThreshold = flagThreshold
	}
	if cmd.Flags().Changed("lookahead") {
		opts.LookaheadYears = flagLookahead
	}
	return opts
}

func newEngine(cmd *cobra.Command) (forecast.Engine, error) {
	return forecast.NewEngine(forecastOptions(cmd))
}

// describeInvalid prints each validation issue and returns a short error.
func describeInvalid(name string, err error) error {
	var verr *scenario.ValidationError
	if !errors.As(err, &verr) {
		return err
	}
	fmt.Fprintf(os.Stderr, "\n  Scenario %q is invalid:\n", name)
	for _, issue := range verr.Issues {
		fmt.Fprintf(os.Stderr, "    %-28s %s\n", issue.Field, issue.Reason)
	}
	fmt.Fprintln(os.Stderr)
	return fmt.Errorf("invalid scenario: %d issue(s)", len(verr.Issues))
}

func readInventory(path string) ([]inventory.Component, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening inventory: %w", err)
	}
	defer func() { _ = f.Close() }()

	components, err := inventory.ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return components, nil
}
