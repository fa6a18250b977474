package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/theirongolddev/hoafund/internal/api"
	"github.com/theirongolddev/hoafund/internal/cli"
	"github.com/theirongolddev/hoafund/internal/scenario"
)

var (
	flagServeAddr         string
	flagServeEventsBuffer int
	flagServeNoPresets    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve forecasts over HTTP",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

var serveStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query a running server's status",
	Args:  cobra.NoArgs,
	RunE:  runServeStatus,
}

func init() {
	serveCmd.PersistentFlags().StringVar(&flagServeAddr, "addr", "", "HTTP listen address (default from config)")
	serveCmd.Flags().IntVar(&flagServeEventsBuffer, "events-buffer", 200, "Max in-memory events retained")
	serveCmd.Flags().BoolVar(&flagServeNoPresets, "no-presets", false, "Do not expose saved presets")

	serveCmd.AddCommand(serveStatusCmd)
	rootCmd.AddCommand(serveCmd)
}

func serveAddr() string {
	if flagServeAddr != "" {
		return flagServeAddr
	}
	return appCfg.Server.Addr
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg := api.Config{
		Addr:          serveAddr(),
		Options:       forecastOptions(cmd),
		DefaultPolicy: scenario.ContributionPolicy(appCfg.Assumptions.ContributionPolicy),
		Log:           log,
		EventsBuffer:  flagServeEventsBuffer,
	}

	if !flagServeNoPresets {
		st, err := openPresets()
		if err != nil {
			log.Warn().Err(err).Msg("presets unavailable")
		} else {
			defer func() { _ = st.Close() }()
			cfg.Presets = st
		}
	}

	svc, err := api.New(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("  hoafund API listening on http://%s\n", cfg.Addr)
	fmt.Printf("  Status: hoafund serve status --addr %s\n", cfg.Addr)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runServeStatus(_ *cobra.Command, _ []string) error {
	addr := serveAddr()
	fmt.Printf("  Address: http://%s\n", addr)

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get("http://" + addr + "/v1/status") //nolint:noctx // short status probe
	if err != nil {
		fmt.Printf("  API status: unreachable (%v)\n", err)
		return nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		fmt.Printf("  API status: HTTP %d\n", resp.StatusCode)
		return nil
	}

	var st api.Status
	if err := json.NewDecoder(resp.Body).Decode(&st); err != nil {
		fmt.Printf("  API status: malformed response (%v)\n", err)
		return nil
	}

	fmt.Println()
	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"Status", "Value"},
		Rows: [][]string{
			{"Up since", st.StartedAt.Local().Format(time.DateTime)},
			{"Forecasts served", cli.FormatNumber(st.Forecasts)},
			{"Rejected scenarios", cli.FormatNumber(st.ValidationErrors)},
			{"Adequate threshold", cli.FormatRate(st.AdequateThreshold)},
			{"Lookahead", fmt.Sprintf("%d years", st.LookaheadYears)},
			{"Presets", presetsLabel(st)},
			{"Buffered events", fmt.Sprintf("%d", st.EventCount)},
			{"Stream subscribers", fmt.Sprintf("%d", st.SubscriberCount)},
		},
	}))
	return nil
}

func presetsLabel(st api.Status) string {
	if !st.PresetsEnabled {
		return "disabled"
	}
	return cli.FormatNumber(int64(st.PresetCount)) + " saved"
}
