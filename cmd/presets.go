package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/scenario"
	"github.com/theirongolddev/hoafund/internal/source"
	"github.com/theirongolddev/hoafund/internal/store"
)

var flagPresetExport bool

var presetsCmd = &cobra.Command{
	Use:   "presets",
	Short: "Manage saved scenarios",
}

var presetsSaveCmd = &cobra.Command{
	Use:   "save <name> [scenario.toml]",
	Short: "Save a scenario (file or flags) under a name",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runPresetsSave,
}

var presetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved presets",
	Args:  cobra.NoArgs,
	RunE:  runPresetsList,
}

var presetsShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsShow,
}

var presetsDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a saved preset",
	Args:  cobra.ExactArgs(1),
	RunE:  runPresetsDelete,
}

func init() {
	presetsShowCmd.Flags().BoolVar(&flagPresetExport, "export", false, "Print the preset as a scenario file")

	presetsCmd.AddCommand(presetsSaveCmd, presetsListCmd, presetsShowCmd, presetsDeleteCmd)
	rootCmd.AddCommand(presetsCmd)
}

func openPresets() (*store.Store, error) {
	st, err := store.Open(appCfg.PresetsDBPath())
	if err != nil {
		return nil, fmt.Errorf("opening presets: %w", err)
	}
	return st, nil
}

func runPresetsSave(cmd *cobra.Command, args []string) error {
	name := args[0]
	if flagPreset != "" {
		return errors.New("presets save takes a scenario file or flags, not --preset")
	}

	_, p, err := loadParams(cmd, args[1:])
	if err != nil {
		return err
	}
	if _, err := scenario.New(p); err != nil {
		return describeInvalid(name, err)
	}

	st, err := openPresets()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	preset, err := st.SavePreset(name, p)
	if err != nil {
		return err
	}
	log.Info().Str("preset", preset.Name).Str("id", preset.ID).Msg("preset saved")
	if !flagQuiet {
		fmt.Printf("  Saved %q (%d projects, %d years)\n", preset.Name, len(p.Projects), p.HorizonYears)
	}
	return nil
}

func runPresetsList(_ *cobra.Command, _ []string) error {
	st, err := openPresets()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	presets, err := st.ListPresets()
	if err != nil {
		return err
	}
	if len(presets) == 0 {
		fmt.Println("\n  No saved presets.")
		fmt.Println("  Save one with `hoafund presets save <name> scenario.toml`.")
		return nil
	}

	rows := make([][]string, 0, len(presets))
	for _, pr := range presets {
		rows = append(rows, []string{
			pr.Name,
			cli.FormatMoney(pr.Params.StartingBalance),
			cli.FormatMoney(pr.Params.AnnualContribution),
			strconv.Itoa(pr.Params.HorizonYears),
			strconv.Itoa(len(pr.Params.Projects)),
			pr.UpdatedAt.Local().Format("2006-01-02 15:04"),
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Name", "Balance", "Contribution", "Years", "Projects", "Updated"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func runPresetsShow(_ *cobra.Command, args []string) error {
	st, err := openPresets()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	pr, err := st.LoadPreset(args[0])
	if err != nil {
		return fmt.Errorf("preset %q: %w", args[0], err)
	}

	if flagPresetExport {
		return source.Encode(os.Stdout, source.FromParams(pr.Name, pr.Params))
	}

	p := pr.Params
	fmt.Println()
	fmt.Println(cli.RenderTitle("PRESET  " + pr.Name))
	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Setting", "Value"},
		Rows: [][]string{
			{"Starting balance", cli.FormatMoneyExact(p.StartingBalance)},
			{"Year-1 contribution", cli.FormatMoneyExact(p.AnnualContribution)},
			{"Contribution policy", string(p.ContributionPolicy)},
			{"Contribution growth", cli.FormatRate(p.ContributionGrowthRate)},
			{"Inflation", cli.FormatRate(p.InflationRate)},
			{"Interest", cli.FormatRate(p.InterestRate)},
			{"Horizon", fmt.Sprintf("%d years", p.HorizonYears)},
			{"---"},
			{"ID", pr.ID},
			{"Created", pr.CreatedAt.Local().Format("2006-01-02 15:04")},
			{"Updated", pr.UpdatedAt.Local().Format("2006-01-02 15:04")},
		},
	}))

	if len(p.Projects) > 0 {
		rows := make([][]string, 0, len(p.Projects))
		for _, pp := range p.Projects {
			rows = append(rows, []string{pp.Name, strconv.Itoa(pp.ScheduledYear), cli.FormatMoney(pp.BaseCost)})
		}
		fmt.Println()
		fmt.Print(cli.RenderTable(cli.Table{
			Headers: []string{"Project", "Year", "Base cost"},
			Rows:    rows,
		}))
	}
	fmt.Println()
	return nil
}

func runPresetsDelete(_ *cobra.Command, args []string) error {
	st, err := openPresets()
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	if err := st.DeletePreset(args[0]); err != nil {
		if errors.Is(err, store.ErrPresetNotFound) {
			return fmt.Errorf("no preset named %q", args[0])
		}
		return err
	}
	log.Info().Str("preset", args[0]).Msg("preset deleted")
	if !flagQuiet {
		fmt.Printf("  Deleted %q\n", args[0])
	}
	return nil
}
