package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/config"
)

var flagConfigPath bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

func init() {
	configCmd.Flags().BoolVar(&flagConfigPath, "path", false, "Print only the config file path")
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	if flagConfigPath {
		fmt.Println(config.Path())
		return nil
	}
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.Path())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Horizon:        %d years\n", cfg.General.HorizonYears)
	fmt.Printf("    Presets DB:     %s\n", cfg.PresetsDBPath())
	fmt.Println()

	fmt.Println("  [Assumptions]")
	fmt.Printf("    Inflation:      %s\n", cli.FormatRate(cfg.Assumptions.InflationRate))
	fmt.Printf("    Interest:       %s\n", cli.FormatRate(cfg.Assumptions.InterestRate))
	fmt.Printf("    Policy:         %s\n", cfg.Assumptions.ContributionPolicy)
	fmt.Printf("    Growth:         %s\n", cli.FormatRate(cfg.Assumptions.ContributionGrowthRate))
	fmt.Println()

	fmt.Println("  [Funding]")
	fmt.Printf("    Adequate at:    %s of ideal reserve\n", cli.FormatRate(cfg.Funding.AdequateThreshold))
	fmt.Printf("    Lookahead:      %d years\n", cfg.Funding.LookaheadYears)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme:          %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:        %s\n", cfg.Server.Addr)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level:          %s\n", cfg.Log.Level)
	fmt.Printf("    Pretty:         %v\n", cfg.Log.Pretty)
	fmt.Println()

	fmt.Println("  Run `hoafund setup` to reconfigure.")
	return nil
}
