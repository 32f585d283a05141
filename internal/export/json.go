package export

import (
	"encoding/json"
	"os"

	"github.com/princealiomer/Google-ads/internal/scraper"
)

// writeJSON writes the structured export. In advanced mode the document is
// a mapping from advertiser detail URL to that advertiser's ordered
// creative URL list; in basic mode it is the full advertiser record list.
func writeJSON(path string, result *scraper.Result) error {
	var doc any
	if len(result.Creatives) > 0 {
		creatives := make(map[string][]string, len(result.Creatives))
		for url, urls := range result.Creatives {
			if urls == nil {
				urls = []string{}
			}
			creatives[url] = urls
		}
		doc = creatives
	} else {
		records := result.Advertisers
		if records == nil {
			records = []scraper.AdvertiserRecord{}
		}
		doc = records
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
