package scraper

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/princealiomer/Google-ads/helpers"
	"github.com/princealiomer/Google-ads/logger"
	scrapeerr "github.com/princealiomer/Google-ads/pkg/errors"
)

// SearchExtractor pulls advertiser records out of the portal's search
// results page for one query at a time
type SearchExtractor struct {
	driver Driver
	opts   Options
}

// NewSearchExtractor creates a search extractor over a live browser session
func NewSearchExtractor(d Driver, opts Options) *SearchExtractor {
	return &SearchExtractor{
		driver: d,
		opts:   opts.withDefaults(),
	}
}

// SearchURL builds the results-page URL for a query
func (e *SearchExtractor) SearchURL(query string) string {
	return fmt.Sprintf("%s/search?region=%s&query=%s",
		strings.TrimRight(e.opts.PortalURL, "/"),
		url.QueryEscape(e.opts.Region),
		url.QueryEscape(query))
}

// Extract navigates to the results page for query and returns the rendered
// advertiser records in first-seen order. Re-rendered entries across scroll
// cycles are merged by canonical detail URL. A malformed entry is skipped
// and logged; it never fails its siblings. The returned records may still
// duplicate other queries' results; the global pass resolves that.
func (e *SearchExtractor) Extract(query string) ([]AdvertiserRecord, error) {
	log := logger.ForQuery(query)

	if err := e.driver.Navigate(e.SearchURL(query)); err != nil {
		return nil, scrapeerr.NewNavigation(query, "failed to open results page", err)
	}
	if err := e.driver.Sleep(e.opts.Delay); err != nil {
		return nil, err
	}

	var records []AdvertiserRecord
	seen := make(map[string]struct{})
	skipped := 0

	err := revealLoop(e.driver, e.opts.Selectors.ResultItem, e.opts.Selectors.LoadMoreLabel,
		e.opts.MaxCycles, e.opts.Delay, log,
		func(doc *goquery.Document) error {
			doc.Find(e.opts.Selectors.ResultItem).Each(func(i int, s *goquery.Selection) {
				rec, err := e.parseEntry(query, s)
				if err != nil {
					skipped++
					log.Debug().Err(err).Int("index", i).Msg("skipping malformed entry")
					return
				}
				key := helpers.CanonicalURL(rec.DetailURL)
				if _, ok := seen[key]; ok {
					return
				}
				seen[key] = struct{}{}
				records = append(records, *rec)
			})
			return nil
		})
	if err != nil {
		return nil, scrapeerr.NewNavigation(query, "results page extraction failed", err)
	}

	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("malformed entries skipped")
	}
	log.Info().Int("advertisers", len(records)).Msg("query done")
	return records, nil
}

// parseEntry turns one rendered result tile into an AdvertiserRecord.
// Name and the detail link are required; ad count, region and the verified
// badge are recorded only when the tile carries them.
func (e *SearchExtractor) parseEntry(query string, s *goquery.Selection) (*AdvertiserRecord, error) {
	href, ok := s.Attr("href")
	if !ok {
		href, _ = s.Find("a[href]").First().Attr("href")
	}
	href = strings.TrimSpace(href)
	if href == "" {
		return nil, fmt.Errorf("entry has no detail link")
	}

	lines := entryLines(s)
	if len(lines) == 0 {
		return nil, fmt.Errorf("entry has no text content")
	}
	name := lines[0]

	rec := &AdvertiserRecord{
		Query:     query,
		Name:      name,
		DetailURL: helpers.AbsoluteURL(e.opts.PortalURL, href),
		ScrapedAt: time.Now(),
	}

	for _, line := range lines[1:] {
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(line, e.opts.Selectors.RegionPrefix):
			rec.Region = helpers.ParseRegion(line)
		case strings.Contains(lower, e.opts.Selectors.VerifiedText):
			rec.Verified = true
		case strings.Contains(lower, "ad"):
			if n, ok := helpers.ParseAdCount(line); ok {
				rec.AdCount = &n
			}
		}
	}

	return rec, nil
}

// entryLines flattens a result tile into the text of its leaf elements, in
// document order. The portal renders name, ad count, location and the
// verified badge as sibling spans.
func entryLines(s *goquery.Selection) []string {
	var lines []string
	s.Find("*").Each(func(_ int, el *goquery.Selection) {
		if el.Children().Length() > 0 {
			return
		}
		if t := strings.TrimSpace(el.Text()); t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) == 0 {
		if t := strings.TrimSpace(s.Text()); t != "" {
			lines = append(lines, t)
		}
	}
	return lines
}
