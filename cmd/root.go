package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "adscraper",
	Short: "Scrape advertiser listings from the Google Ads Transparency portal",
	Long: `adscraper drives a headless browser through one-letter searches on the
Google Ads Transparency portal, deduplicates the advertisers it finds, and
exports them as CSV and JSON. In advanced mode it also visits each
advertiser's detail page to collect creative-ad URLs. The serve command
runs a dashboard over the exported files.`,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
