package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/princealiomer/Google-ads/config"
	"github.com/princealiomer/Google-ads/helpers"
	"github.com/princealiomer/Google-ads/internal/browser"
	"github.com/princealiomer/Google-ads/internal/export"
	"github.com/princealiomer/Google-ads/internal/scraper"
	"github.com/princealiomer/Google-ads/logger"
	"github.com/princealiomer/Google-ads/services/cache"
	"github.com/princealiomer/Google-ads/services/publisher"
)

var (
	flagAdvanced  bool
	flagHeadless  bool
	flagQueries   string
	flagRegion    string
	flagMaxCycles int
	flagDelayMs   int
	flagOutputDir string
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Run the crawl and export the results",
	Long: `Crawl the transparency portal's search results for every configured
query letter, deduplicate the advertisers, optionally visit each detail
page for creative URLs, and write the CSV and JSON exports.

The exit code is 0 even when individual queries or advertisers failed;
those are logged and skipped. A non-zero exit means the browser could not
be launched, the configuration was invalid, or every export format failed.`,
	RunE: runScrape,
}

func init() {
	scrapeCmd.Flags().BoolVar(&flagAdvanced, "advanced", false, "visit each advertiser detail page for creative URLs")
	scrapeCmd.Flags().BoolVar(&flagHeadless, "headless", true, "run the browser headless")
	scrapeCmd.Flags().StringVar(&flagQueries, "queries", "", "query letters to crawl, e.g. \"abc\" (default: a-z)")
	scrapeCmd.Flags().StringVar(&flagRegion, "region", "", "portal region code (default: anywhere)")
	scrapeCmd.Flags().IntVar(&flagMaxCycles, "max-cycles", 0, "scroll/page-count bound per page (default: 10)")
	scrapeCmd.Flags().IntVar(&flagDelayMs, "delay-ms", 0, "inter-action delay in milliseconds (default: 2000)")
	scrapeCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "directory for export files (default: results)")
	rootCmd.AddCommand(scrapeCmd)
}

func runScrape(cmd *cobra.Command, args []string) error {
	log := logger.ForComponent("scrape")

	cfg := config.LoadConfig()
	applyFlags(cmd, &cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Portal reachability check before paying for a browser launch. The
	// portal may still serve the browser when the plain probe is blocked,
	// so this only warns.
	if err := helpers.ProbePortal(cfg.PortalURL); err != nil {
		if errors.Is(err, helpers.ErrRateLimited) {
			log.Warn().Err(err).Msg("portal is rate limiting; expect sparse results")
		} else {
			log.Warn().Err(err).Msg("portal probe failed")
		}
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	session, err := browser.NewSession(ctx, browser.Options{
		Headless:   cfg.Headless,
		NavTimeout: cfg.NavTimeout,
	})
	if err != nil {
		return err
	}
	defer session.Close()

	var cacheSvc cache.CacheService
	if cfg.MemcacheAddr != "" {
		cacheSvc = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("visit cache enabled")
	}

	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		pub = publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB,
			cfg.RedisStream, cfg.RedisStreamCount, cfg.RedisStreamMaxLength)
		defer pub.Close()
		log.Info().Str("addr", cfg.RedisAddr).Str("stream", cfg.RedisStream).Msg("record stream enabled")
	}

	opts := scraper.Options{
		PortalURL: cfg.PortalURL,
		Region:    cfg.Region,
		MaxCycles: cfg.MaxScrollCycles,
		Delay:     cfg.ActionDelay,
	}
	runner := scraper.NewRunner(session, opts, cfg.Advanced, cacheSvc, pub, cfg.VisitTTL)

	queries := scraper.Queries(cfg.QueryList())
	log.Info().
		Int("queries", len(queries)).
		Str("region", cfg.Region).
		Bool("advanced", cfg.Advanced).
		Msg("starting crawl")

	result := runner.Run(queries)

	exporter := export.NewExporter(cfg.OutputDir, cfg.CSVName, cfg.JSONName, cfg.SQLite)
	report := exporter.Export(result)

	printSummary(result, report)

	// Collected data already printed; only the loss of every format is fatal
	return report.Err()
}

// applyFlags overrides env configuration with explicitly set CLI flags
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("advanced") {
		cfg.Advanced = flagAdvanced
	}
	if cmd.Flags().Changed("headless") {
		cfg.Headless = flagHeadless
	}
	if cmd.Flags().Changed("queries") {
		cfg.Queries = flagQueries
	}
	if cmd.Flags().Changed("region") {
		cfg.Region = flagRegion
	}
	if cmd.Flags().Changed("max-cycles") {
		cfg.MaxScrollCycles = flagMaxCycles
	}
	if cmd.Flags().Changed("delay-ms") {
		cfg.ActionDelay = time.Duration(flagDelayMs) * time.Millisecond
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.OutputDir = flagOutputDir
	}
}

// printSummary renders the operator summary after a run
func printSummary(result *scraper.Result, report export.Report) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Scrape summary")
	t.AppendRows([]table.Row{
		{"Advertisers", len(result.Advertisers)},
		{"Duplicates dropped", result.Dropped},
		{"Failed queries", result.FailedQueries},
		{"Failed detail pages", result.FailedDetails},
		{"Creative URLs", totalCreatives(result)},
		{"Elapsed", result.Elapsed.Round(time.Second)},
	})
	t.AppendSeparator()
	t.AppendRow(table.Row{"CSV", exportOutcome(report.CSVPath, report.CSVErr)})
	t.AppendRow(table.Row{"JSON", exportOutcome(report.JSONPath, report.JSONErr)})
	if report.DBPath != "" || report.DBErr != nil {
		t.AppendRow(table.Row{"SQLite", exportOutcome(report.DBPath, report.DBErr)})
	}
	t.Render()

	if len(result.Advertisers) > 0 {
		sample := table.NewWriter()
		sample.SetOutputMirror(os.Stdout)
		sample.SetStyle(table.StyleRounded)
		sample.SetTitle("Sample advertisers")
		sample.AppendHeader(table.Row{"Query", "Name", "Region", "Verified", "Ads"})
		for i, rec := range result.Advertisers {
			if i >= 5 {
				break
			}
			ads := ""
			if rec.AdCount != nil {
				ads = strconv.Itoa(*rec.AdCount)
			}
			sample.AppendRow(table.Row{rec.Query, rec.Name, rec.Region, rec.Verified, ads})
		}
		sample.Render()
	}
}

func exportOutcome(path string, err error) string {
	if err != nil {
		return "FAILED: " + err.Error()
	}
	return path
}

func totalCreatives(result *scraper.Result) int {
	n := 0
	for _, urls := range result.Creatives {
		n += len(urls)
	}
	return n
}
