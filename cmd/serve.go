package cmd

import (
	"github.com/spf13/cobra"

	"github.com/princealiomer/Google-ads/config"
	"github.com/princealiomer/Google-ads/internal/dashboard"
)

var (
	flagServeAddr string
	flagServeDir  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the dashboard over the exported files",
	Long: `Run an HTTP dashboard that reads the newest CSV and JSON exports from
the results directory and shows advertiser totals, verification and region
breakdowns, and a filterable table.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServeAddr, "addr", "", "listen address (default: :8080)")
	serveCmd.Flags().StringVar(&flagServeDir, "dir", "", "directory holding the export files (default: results)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := config.LoadConfig()
	if cmd.Flags().Changed("addr") {
		cfg.DashboardAddr = flagServeAddr
	}
	if cmd.Flags().Changed("dir") {
		cfg.OutputDir = flagServeDir
	}

	srv := dashboard.NewServer(cfg.OutputDir)
	return srv.ListenAndServe(cfg.DashboardAddr)
}
