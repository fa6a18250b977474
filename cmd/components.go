package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/inventory"
	"github.com/theirongolddev/hoafund/internal/money"
	"github.com/theirongolddev/hoafund/internal/source"
)

var (
	flagImportOut string
	flagPresetCSV bool
)

var componentsCmd = &cobra.Command{
	Use:   "components",
	Short: "Inspect component inventories",
}

var componentsImportCmd = &cobra.Command{
	Use:   "import <inventory.csv>",
	Short: "Convert an inventory CSV into a scenario file",
	Args:  cobra.ExactArgs(1),
	RunE:  runComponentsImport,
}

var componentsListCmd = &cobra.Command{
	Use:   "list <inventory.csv>",
	Short: "List components and their replacement years",
	Args:  cobra.ExactArgs(1),
	RunE:  runComponentsList,
}

var componentsPresetsCmd = &cobra.Command{
	Use:   "presets [name...]",
	Short: "Show the built-in component cost catalog",
	Args:  cobra.ArbitraryArgs,
	RunE:  runComponentsPresets,
}

func init() {
	componentsImportCmd.Flags().StringVarP(&flagImportOut, "out", "o", "", "Write the scenario here instead of stdout")
	componentsPresetsCmd.Flags().BoolVar(&flagPresetCSV, "csv", false, "Write the catalog as an inventory CSV")

	componentsCmd.AddCommand(componentsImportCmd, componentsListCmd, componentsPresetsCmd)
	rootCmd.AddCommand(componentsCmd)
}

func runComponentsImport(cmd *cobra.Command, args []string) error {
	components, err := readInventory(args[0])
	if err != nil {
		return err
	}

	name := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	doc := source.Document{Name: name}
	flags := cmd.Flags()
	if flags.Changed("balance") {
		amt, err := money.Parse(flagBalance)
		if err != nil {
			return fmt.Errorf("--balance: %w", err)
		}
		doc.StartingBalance = amt.Float64()
	}
	if flags.Changed("contribution") {
		amt, err := money.Parse(flagContribution)
		if err != nil {
			return fmt.Errorf("--contribution: %w", err)
		}
		doc.AnnualContribution = amt.Float64()
	}
	if flags.Changed("horizon") {
		doc.HorizonYears = &flagHorizon
	}
	for _, c := range components {
		doc.Components = append(doc.Components, source.ComponentEntry{
			Name:                c.Name,
			CurrentCost:         c.CurrentCost.Float64(),
			UsefulLife:          c.UsefulLife,
			RemainingUsefulLife: c.RemainingUsefulLife,
			Notes:               c.Notes,
		})
	}

	if flagImportOut == "" {
		return source.Encode(os.Stdout, doc)
	}
	if err := source.SaveFile(flagImportOut, doc); err != nil {
		return err
	}
	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Wrote %d components to %s\n", len(components), flagImportOut)
	}
	return nil
}

func runComponentsList(cmd *cobra.Command, args []string) error {
	components, err := readInventory(args[0])
	if err != nil {
		return err
	}
	horizon := appCfg.General.HorizonYears
	if cmd.Flags().Changed("horizon") {
		horizon = flagHorizon
	}

	rows := make([][]string, 0, len(components)+2)
	replacements := 0
	for _, c := range components {
		years := c.ReplacementYears(horizon)
		replacements += len(years)
		rows = append(rows, []string{
			c.Name,
			cli.FormatMoney(c.CurrentCost),
			strconv.Itoa(c.UsefulLife),
			strconv.Itoa(c.RemainingUsefulLife),
			formatYears(years),
			c.Notes,
		})
	}
	rows = append(rows,
		[]string{"---"},
		[]string{"Total", cli.FormatMoney(inventory.TotalCost(components)), "", "", fmt.Sprintf("%d replacements", replacements), ""},
	)

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   fmt.Sprintf("Inventory  %s  (%d-year horizon)", filepath.Base(args[0]), horizon),
		Headers: []string{"Component", "Cost", "Life", "Remaining", "Replaced in", "Notes"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

// catalogEntries resolves the requested catalog names, or the whole catalog
// when none are given. Names match case-insensitively.
func catalogEntries(args []string) ([]inventory.Component, error) {
	if len(args) == 0 {
		args = inventory.PresetNames()
	}
	components := make([]inventory.Component, 0, len(args))
	for _, name := range args {
		c, ok := inventory.LookupPreset(name)
		if !ok {
			return nil, fmt.Errorf("no catalog entry %q (have: %s)", name, strings.Join(inventory.PresetNames(), ", "))
		}
		components = append(components, c)
	}
	return components, nil
}

func runComponentsPresets(_ *cobra.Command, args []string) error {
	components, err := catalogEntries(args)
	if err != nil {
		return err
	}

	if flagPresetCSV {
		return inventory.WriteCSV(os.Stdout, components)
	}

	rows := make([][]string, 0, len(components))
	for _, c := range components {
		rows = append(rows, []string{
			c.Name,
			cli.FormatMoney(c.CurrentCost),
			strconv.Itoa(c.UsefulLife),
			strconv.Itoa(c.RemainingUsefulLife),
			c.Notes,
		})
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Title:   "Component Catalog (Boston-area costs)",
		Headers: []string{"Component", "Cost", "Life", "Remaining", "Notes"},
		Rows:    rows,
	}))
	fmt.Println()
	return nil
}

func formatYears(years []int) string {
	if len(years) == 0 {
		return "beyond horizon"
	}
	parts := make([]string, len(years))
	for i, y := range years {
		parts[i] = strconv.Itoa(y)
	}
	return strings.Join(parts, ", ")
}
