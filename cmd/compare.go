package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/source"
	"github.com/theirongolddev/hoafund/internal/store"
)

var (
	flagCompareDir     string
	flagComparePresets []string
)

var compareCmd = &cobra.Command{
	Use:   "compare [scenario.toml ...]",
	Short: "Compare scenarios side by side",
	Long: "Project several scenarios at once: files given as arguments, every " +
		"scenario under --dir, and saved presets named with --preset or --with.",
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringVar(&flagCompareDir, "dir", "", "Compare every scenario file under this directory")
	compareCmd.Flags().StringSliceVar(&flagComparePresets, "with", nil, "Saved presets to include (repeatable)")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	cases, err := compareCases(args)
	if err != nil {
		return err
	}
	if len(cases) < 2 {
		return errors.New("compare needs at least two scenarios")
	}

	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	outcomes, err := forecast.Compare(ctx, engine, cases)
	if err != nil {
		return err
	}
	log.Debug().Int("scenarios", len(outcomes)).Msg("comparison computed")

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("COMPARE  %d scenarios", len(outcomes))))
	fmt.Println()

	headers := []string{"Metric"}
	for _, o := range outcomes {
		headers = append(headers, o.Name)
	}
	metric := func(label string, f func(forecast.Summary) string) []string {
		row := []string{label}
		for _, o := range outcomes {
			row = append(row, f(o.Summary))
		}
		return row
	}

	rows := [][]string{
		metric("Horizon", func(s forecast.Summary) string { return fmt.Sprintf("%d yrs", s.Years) }),
		metric("Final balance", func(s forecast.Summary) string { return cli.RenderMoney(s.FinalBalance) }),
		metric("Final status", func(s forecast.Summary) string { return cli.RenderStatus(s.FinalStatus) }),
		metric("Lowest balance", func(s forecast.Summary) string { return cli.RenderMoney(s.LowestBalance) }),
		metric("First deficit", func(s forecast.Summary) string { return cli.FormatYear(s.FirstDeficitYear) }),
		metric("Years in deficit", func(s forecast.Summary) string { return fmt.Sprintf("%d", s.YearsInDeficit) }),
		metric("Contributions", func(s forecast.Summary) string { return cli.FormatMoneyCompact(s.TotalContributions) }),
		metric("Interest", func(s forecast.Summary) string { return cli.FormatMoneyCompact(s.TotalInterest) }),
		metric("Expenditures", func(s forecast.Summary) string { return cli.FormatMoneyCompact(s.TotalExpenditures) }),
	}
	fmt.Print(cli.RenderTable(cli.Table{Headers: headers, Rows: rows}))
	fmt.Println()

	// Ending balance trend per scenario.
	nameW := 0
	for _, o := range outcomes {
		nameW = max(nameW, len(o.Name))
	}
	for _, o := range outcomes {
		fmt.Printf("  %-*s  %s\n", nameW, o.Name, cli.RenderSparkline(forecast.EndingBalances(o.Results)))
	}
	fmt.Println()
	fmt.Println("  Final balance")
	for _, line := range finalBalanceBars(outcomes, nameW, 40) {
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}

// finalBalanceBars renders one bar per outcome, scaled to the largest final
// balance.
func finalBalanceBars(outcomes []forecast.Outcome, nameW, width int) []string {
	var top float64
	for _, o := range outcomes {
		top = max(top, o.Summary.FinalBalance.Float64())
	}
	lines := make([]string, 0, len(outcomes))
	for _, o := range outcomes {
		s := o.Summary
		lines = append(lines, fmt.Sprintf("  %-*s  %s %s", nameW, o.Name,
			cli.RenderBalanceBar(s.FinalBalance.Float64(), top, width, s.FinalStatus),
			cli.FormatMoneyCompact(s.FinalBalance)))
	}
	return lines
}

// compareCases gathers scenario files, a scenario directory and presets in
// that order. Each is validated before anything is projected.
func compareCases(args []string) ([]forecast.Case, error) {
	var cases []forecast.Case
	add := func(name string, p scenario.Params) error {
		sc, err := scenario.New(p)
		if err != nil {
			return describeInvalid(name, err)
		}
		cases = append(cases, forecast.Case{Name: name, Scenario: sc})
		return nil
	}

	docs := make([]source.Document, 0, len(args))
	for _, path := range args {
		doc, err := source.LoadFile(path)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if flagCompareDir != "" {
		fromDir, err := source.LoadDir(flagCompareDir)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fromDir...)
	}
	for _, doc := range docs {
		p, err := doc.Params(scenarioDefaults())
		if err != nil {
			return nil, err
		}
		if err := add(doc.Name, p); err != nil {
			return nil, err
		}
	}

	presets := flagComparePresets
	if flagPreset != "" {
		presets = append([]string{flagPreset}, presets...)
	}
	if len(presets) > 0 {
		st, err := store.Open(appCfg.PresetsDBPath())
		if err != nil {
			return nil, err
		}
		defer func() { _ = st.Close() }()

		for _, name := range presets {
			preset, err := st.LoadPreset(name)
			if err != nil {
				return nil, fmt.Errorf("preset %q: %w", name, err)
			}
			if err := add(preset.Name, preset.Params); err != nil {
				return nil, err
			}
		}
	}

	return cases, nil
}
