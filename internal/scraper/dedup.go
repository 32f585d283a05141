package scraper

import (
	"github.com/princealiomer/Google-ads/helpers"
)

// Deduplicate merges the concatenated per-query record sequences into the
// canonical advertiser table. Records are keyed by canonical detail URL;
// the first occurrence wins and later duplicates are dropped. Relative
// order of the survivors is preserved. The second return value is the
// number of dropped duplicates.
func Deduplicate(records []AdvertiserRecord) ([]AdvertiserRecord, int) {
	unique := make([]AdvertiserRecord, 0, len(records))
	seen := make(map[string]struct{}, len(records))
	dropped := 0

	for _, rec := range records {
		key := helpers.CanonicalURL(rec.DetailURL)
		if _, ok := seen[key]; ok {
			dropped++
			continue
		}
		seen[key] = struct{}{}
		unique = append(unique, rec)
	}

	return unique, dropped
}
