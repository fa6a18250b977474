package cmd

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/forecast"
)

var flagFormat string

var forecastCmd = &cobra.Command{
	Use:   "forecast [scenario.toml]",
	Short: "Year-by-year reserve projection (default command)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runForecast,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, forecastCmd} {
		c.Flags().StringVarP(&flagFormat, "format", "f", "table", "Output format: table, csv, json")
	}
	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
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
	log.Debug().Str("scenario", name).Int("years", len(results)).
		Str("final_balance", sum.FinalBalance.String()).Msg("forecast computed")

	switch strings.ToLower(flagFormat) {
	case "json":
		return writeForecastJSON(os.Stdout, name, results, sum)
	case "csv":
		return writeForecastCSV(os.Stdout, results)
	case "table", "":
	default:
		return fmt.Errorf("unknown format %q (want table, csv or json)", flagFormat)
	}

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("RESERVE FORECAST  %s  %d years", name, len(results))))
	fmt.Println()

	rows := make([][]string, 0, len(results))
	for _, r := range results {
		rows = append(rows, []string{
			strconv.Itoa(r.Year),
			cli.FormatMoney(r.BeginningBalance),
			cli.FormatMoney(r.InterestEarned),
			cli.FormatMoney(r.Contribution),
			cli.FormatMoney(r.ProjectExpenditures),
			cli.RenderMoney(r.EndingBalance),
			cli.FormatPercent(r.PercentFunded),
			cli.RenderStatus(r.FundingStatus),
			strings.Join(r.ProjectsDue, ", "),
		})
	}
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Year", "Beginning", "Interest", "Contribution", "Projects", "Ending", "Funded", "Status", "Paid"},
		Rows:    rows,
	}))

	fmt.Println()
	fmt.Printf("  Ending balance  %s\n", cli.RenderSparkline(forecast.EndingBalances(results)))
	fmt.Printf("  Final balance   %s  (%s)\n", cli.RenderMoney(sum.FinalBalance), cli.RenderStatus(sum.FinalStatus))
	if sum.FirstDeficitYear > 0 {
		fmt.Printf("  First deficit   %s\n", cli.FormatYear(sum.FirstDeficitYear))
	}
	fmt.Println()
	return nil
}

type forecastDocument struct {
	Name    string                `json:"name"`
	Results []forecast.YearResult `json:"results"`
	Summary forecast.Summary      `json:"summary"`
}

func writeForecastJSON(w io.Writer, name string, results []forecast.YearResult, sum forecast.Summary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(forecastDocument{Name: name, Results: results, Summary: sum})
}

// writeForecastCSV writes one row per year with exact cent amounts.
func writeForecastCSV(w io.Writer, results []forecast.YearResult) error {
	cw := csv.NewWriter(w)
	header := []string{
		"year", "beginning_balance", "interest_earned", "contribution",
		"project_expenditures", "ending_balance", "ideal_reserve",
		"percent_funded", "funding_status", "projects_due",
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range results {
		pct := ""
		if r.PercentFunded != nil {
			pct = strconv.FormatFloat(*r.PercentFunded, 'f', 4, 64)
		}
		rec := []string{
			strconv.Itoa(r.Year),
			r.BeginningBalance.String(),
			r.InterestEarned.String(),
			r.Contribution.String(),
			r.ProjectExpenditures.String(),
			r.EndingBalance.String(),
			r.IdealReserve.String(),
			pct,
			r.FundingStatus.String(),
			strings.Join(r.ProjectsDue, "; "),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
