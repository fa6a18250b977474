package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

var requiredCmd = &cobra.Command{
	Use:   "required [scenario.toml]",
	Short: "Minimum year-1 contribution that avoids any deficit",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRequired,
}

func init() {
	rootCmd.AddCommand(requiredCmd)
}

func runRequired(cmd *cobra.Command, args []string) error {
	name, sc, err := loadScenario(cmd, args)
	if err != nil {
		return err
	}
	engine, err := newEngine(cmd)
	if err != nil {
		return err
	}

	current := forecast.Summarize(engine.Project(sc))
	required, ok := forecast.RequiredContribution(engine, sc)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("REQUIRED CONTRIBUTION  %s", name)))
	fmt.Println()

	if !ok {
		fmt.Println("  No year-1 contribution avoids a deficit with these assumptions.")
		fmt.Printf("  Contribution growth is %s under the %q policy.\n",
			cli.FormatRate(sc.EffectiveContributionGrowth()), sc.ContributionPolicy())
		fmt.Println()
		return nil
	}

	p := sc.Params()
	p.AnnualContribution = required
	funded, err := scenario.New(p)
	if err != nil {
		return err
	}
	after := forecast.Summarize(engine.Project(funded))

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"", "Current", "Required"},
		Rows: [][]string{
			{"Year-1 contribution", cli.FormatMoneyExact(sc.AnnualContribution()), cli.FormatMoneyExact(required)},
			{"Change", "", cli.FormatDelta(required, sc.AnnualContribution())},
			{"---"},
			{"Lowest balance", cli.RenderMoney(current.LowestBalance), cli.RenderMoney(after.LowestBalance)},
			{"First deficit", cli.FormatYear(current.FirstDeficitYear), cli.FormatYear(after.FirstDeficitYear)},
			{"Final balance", cli.RenderMoney(current.FinalBalance), cli.RenderMoney(after.FinalBalance)},
			{"Final status", cli.RenderStatus(current.FinalStatus), cli.RenderStatus(after.FinalStatus)},
		},
	}))
	fmt.Println()
	return nil
}
