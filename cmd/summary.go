package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [scenario.toml]",
	Short: "Key metrics for a projection",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	name, sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	results := engine.Project(sc)
	sum := forecast.Summarize(results)
	required, ok := forecast.RequiredContribution(engine, sc)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RESERVE SUMMARY  %s", name)))
	fmt.Println()

	requiredStr := "unreachable"
	if ok {
		requiredStr = cli.FormatMoney(required) + "/yr"
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Metric", "Value"},
		Rows:    summaryRows(sum, requiredStr),
	}))
	fmt.Println()
	return nil
}

func summaryRows(sum forecast.Summary, required string) [][]string {
	return [][]string{
		{"Horizon", fmt.Sprintf("%d years", sum.Years)},
		{"Projects", cli.FormatNumber(int64(sum.ProjectCount))},
		{"---"},
		{"Starting balance", cli.RenderMoney(sum.StartingBalance)},
		{"Final balance", cli.RenderMoney(sum.FinalBalance)},
		{"Final status", cli.RenderStatus(sum.FinalStatus)},
		{"Lowest balance", fmt.Sprintf("%s (%s)", cli.RenderMoney(sum.LowestBalance), cli.FormatYear(sum.LowestBalanceYear))},
		{"---"},
		{"First underfunded", cli.FormatYear(sum.FirstUnderfundedYear)},
		{"First deficit", cli.FormatYear(sum.FirstDeficitYear)},
		{"Years fully funded", fmt.Sprintf("%d", sum.YearsFullyFunded)},
		{"Years adequate", fmt.Sprintf("%d", sum.YearsAdequate)},
		{"Years underfunded", fmt.Sprintf("%d", sum.YearsUnderfunded)},
		{"Years in deficit", fmt.Sprintf("%d", sum.YearsInDeficit)},
		{"---"},
		{"Total contributions", cli.FormatMoney(sum.TotalContributions)},
		{"Total interest", cli.RenderMoney(sum.TotalInterest)},
		{"Total expenditures", cli.FormatMoney(sum.TotalExpenditures)},
		{"Required contribution", required},
	}
}
