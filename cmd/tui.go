package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/config"
	"github.com/theirongolddev/hoafund/internal/tui"
	"github.com/theirongolddev/hoafund/internal/tui/theme"
)

var tuiCmd = &cobra.Command{
	Use:   "tui [scenario.toml]",
	Short: "Launch the interactive what-if dashboard",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, args []string) error {
	name, p, err := loadParams(cmd, args)
	if err != nil {
		return err
	}

	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor so background styling produces ANSI codes; lipgloss
	// may otherwise pick the Ascii profile.
	lipgloss.SetColorProfile(termenv.TrueColor)

	// Invalid inputs are shown inside the dashboard rather than refused here.
	app := tui.NewApp(name, p, forecastOptions(cmd), !config.Exists(), tui.SetupValuesFrom(appCfg))
	prog := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
