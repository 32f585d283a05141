package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/princealiomer/Google-ads/internal/scraper"
	"github.com/princealiomer/Google-ads/logger"
	scrapeerr "github.com/princealiomer/Google-ads/pkg/errors"
)

const timestampLayout = "2006-01-02_15-04-05"

// Exporter writes the advertiser table and creative sets to disk. Every
// format is attempted independently so an I/O failure in one does not lose
// the data held in memory for the others.
type Exporter struct {
	Dir      string
	CSVName  string // empty means a timestamped name
	JSONName string // empty means a timestamped name
	SQLite   string // empty disables the snapshot database

	log *logger.Logger
}

// NewExporter creates an exporter writing into dir
func NewExporter(dir, csvName, jsonName, sqlitePath string) *Exporter {
	return &Exporter{
		Dir:      dir,
		CSVName:  csvName,
		JSONName: jsonName,
		SQLite:   sqlitePath,
		log:      logger.ForComponent("export"),
	}
}

// Report records which output formats succeeded and which failed
type Report struct {
	CSVPath string
	CSVErr  error

	JSONPath string
	JSONErr  error

	DBPath string
	DBErr  error
}

// Err returns nil if at least one format succeeded, otherwise a fatal
// export error. Partial success is reported, not treated as failure.
func (r Report) Err() error {
	if r.CSVErr == nil || r.JSONErr == nil {
		return nil
	}
	return scrapeerr.NewExport("all", "every output format failed", fmt.Errorf("csv: %v; json: %v", r.CSVErr, r.JSONErr))
}

// Export writes all configured formats and reports per-format outcomes
func (e *Exporter) Export(result *scraper.Result) Report {
	var report Report

	if err := os.MkdirAll(e.Dir, 0o755); err != nil {
		wrapped := scrapeerr.NewExport(e.Dir, "failed to create output directory", err)
		report.CSVErr = wrapped
		report.JSONErr = wrapped
		return report
	}

	now := time.Now()

	report.CSVPath = filepath.Join(e.Dir, e.fileName(e.CSVName, "advertisers", "csv", now))
	if err := writeCSV(report.CSVPath, result); err != nil {
		report.CSVErr = scrapeerr.NewExport(report.CSVPath, "csv export failed", err)
		report.CSVPath = ""
		e.log.Error().Err(err).Msg("csv export failed")
	} else {
		e.log.Info().Str("path", report.CSVPath).Int("rows", len(result.Advertisers)).Msg("csv written")
	}

	report.JSONPath = filepath.Join(e.Dir, e.fileName(e.JSONName, "creatives", "json", now))
	if err := writeJSON(report.JSONPath, result); err != nil {
		report.JSONErr = scrapeerr.NewExport(report.JSONPath, "json export failed", err)
		report.JSONPath = ""
		e.log.Error().Err(err).Msg("json export failed")
	} else {
		e.log.Info().Str("path", report.JSONPath).Msg("json written")
	}

	if e.SQLite != "" {
		report.DBPath = e.SQLite
		if err := writeSQLite(e.SQLite, result); err != nil {
			report.DBErr = scrapeerr.NewExport(e.SQLite, "sqlite snapshot failed", err)
			report.DBPath = ""
			e.log.Error().Err(err).Msg("sqlite snapshot failed")
		} else {
			e.log.Info().Str("path", report.DBPath).Msg("sqlite snapshot written")
		}
	}

	return report
}

func (e *Exporter) fileName(configured, prefix, ext string, now time.Time) string {
	if configured != "" {
		return configured
	}
	return fmt.Sprintf("%s_%s.%s", prefix, now.Format(timestampLayout), ext)
}
