package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/princealiomer/Google-ads/helpers"
	"github.com/princealiomer/Google-ads/logger"
	scrapeerr "github.com/princealiomer/Google-ads/pkg/errors"
)

// DetailCrawler visits one advertiser's detail page and collects the URLs
// of its creative ads, using the same reveal loop as the search extractor
// but targeting creative tiles
type DetailCrawler struct {
	driver Driver
	opts   Options
}

// NewDetailCrawler creates a detail crawler over a live browser session
func NewDetailCrawler(d Driver, opts Options) *DetailCrawler {
	return &DetailCrawler{
		driver: d,
		opts:   opts.withDefaults(),
	}
}

// Extract returns the ordered, deduplicated creative URLs rendered on the
// advertiser's detail page. A page with no creative tiles yields an empty
// slice, not an error. Running twice over the same static page yields the
// same sequence.
func (c *DetailCrawler) Extract(detailURL string) ([]string, error) {
	log := logger.ForComponent("detail").WithField("advertiser", detailURL)

	if err := c.driver.Navigate(detailURL); err != nil {
		return nil, scrapeerr.NewNavigation(detailURL, "failed to open detail page", err)
	}
	if err := c.driver.Sleep(c.opts.Delay); err != nil {
		return nil, err
	}

	urls := []string{}
	seen := make(map[string]struct{})

	err := revealLoop(c.driver, c.opts.Selectors.CreativeLink, c.opts.Selectors.LoadMoreLabel,
		c.opts.MaxCycles, c.opts.Delay, log,
		func(doc *goquery.Document) error {
			doc.Find(c.opts.Selectors.CreativeLink).Each(func(_ int, s *goquery.Selection) {
				href, ok := s.Attr("href")
				if !ok || strings.TrimSpace(href) == "" {
					return
				}
				full := helpers.AbsoluteURL(c.opts.PortalURL, strings.TrimSpace(href))
				key := helpers.CanonicalURL(full)
				if _, dup := seen[key]; dup {
					return
				}
				seen[key] = struct{}{}
				urls = append(urls, full)
			})
			return nil
		})
	if err != nil {
		return nil, scrapeerr.NewNavigation(detailURL, "detail page extraction failed", err)
	}

	log.Debug().Int("creatives", len(urls)).Msg("detail page done")
	return urls, nil
}
