package export

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/princealiomer/Google-ads/internal/scraper"
)

// csvHeader is the tabular contract the dashboard consumes
var csvHeader = []string{"query", "name", "url", "region", "verified", "ad_count", "scraped_at"}

// writeCSV writes one advertiser per row, UTF-8 with a header row
func writeCSV(path string, result *scraper.Result) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, rec := range result.Advertisers {
		adCount := ""
		if rec.AdCount != nil {
			adCount = strconv.Itoa(*rec.AdCount)
		}
		row := []string{
			rec.Query,
			rec.Name,
			rec.DetailURL,
			rec.Region,
			strconv.FormatBool(rec.Verified),
			adCount,
			rec.ScrapedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
