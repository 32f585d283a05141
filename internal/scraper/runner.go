package scraper

import (
	"encoding/json"
	"time"

	"github.com/princealiomer/Google-ads/logger"
	"github.com/princealiomer/Google-ads/services/cache"
	"github.com/princealiomer/Google-ads/services/publisher"
)

// Result is everything one run collected, plus counters for the operator
// summary. Failed queries and advertisers are counted, never fatal.
type Result struct {
	Advertisers   []AdvertiserRecord
	Creatives     map[string][]string
	Dropped       int
	FailedQueries int
	FailedDetails int
	Elapsed       time.Duration
}

// Runner drives the whole crawl over a single browser session: one query at
// a time, then one detail page at a time, then the global dedup. The
// accumulator lives here and is returned, never shared.
type Runner struct {
	driver   Driver
	opts     Options
	advanced bool
	cache    cache.CacheService  // may be nil
	pub      publisher.Publisher // may be nil
	visitTTL time.Duration
	log      *logger.Logger
}

// NewRunner creates a runner. cache and pub are optional; passing nil
// disables the visit cache and the record stream respectively.
func NewRunner(d Driver, opts Options, advanced bool, cacheSvc cache.CacheService, pub publisher.Publisher, visitTTL time.Duration) *Runner {
	return &Runner{
		driver:   d,
		opts:     opts.withDefaults(),
		advanced: advanced,
		cache:    cacheSvc,
		pub:      pub,
		visitTTL: visitTTL,
		log:      logger.ForComponent("runner"),
	}
}

// Run crawls every query in order and returns the accumulated result. A
// failed query or advertiser is logged and skipped; Run itself never fails.
func (r *Runner) Run(queries []string) *Result {
	start := time.Now()
	result := &Result{Creatives: make(map[string][]string)}

	search := NewSearchExtractor(r.driver, r.opts)

	var all []AdvertiserRecord
	for _, query := range queries {
		records, err := search.Extract(query)
		if err != nil {
			result.FailedQueries++
			logger.ForQuery(query).Error().Err(err).Msg("query failed, continuing")
			continue
		}
		r.publish(records)
		all = append(all, records...)
	}

	result.Advertisers, result.Dropped = Deduplicate(all)
	r.log.Info().
		Int("advertisers", len(result.Advertisers)).
		Int("duplicates_dropped", result.Dropped).
		Int("failed_queries", result.FailedQueries).
		Msg("search sweep done")

	if r.advanced {
		r.crawlDetails(result)
	}

	if r.pub != nil {
		if err := r.pub.TrimStreams(); err != nil {
			r.log.Error().Err(err).Msg("stream trimming failed")
		}
	}

	result.Elapsed = time.Since(start)
	return result
}

// crawlDetails visits each deduplicated advertiser's detail page in table
// order. The visit cache short-circuits advertisers crawled within the TTL;
// a failed advertiser gets an empty creative set and the crawl moves on.
func (r *Runner) crawlDetails(result *Result) {
	detail := NewDetailCrawler(r.driver, r.opts)

	for _, rec := range result.Advertisers {
		if urls, ok := r.cachedVisit(rec.DetailURL); ok {
			result.Creatives[rec.DetailURL] = urls
			continue
		}

		urls, err := detail.Extract(rec.DetailURL)
		if err != nil {
			result.FailedDetails++
			result.Creatives[rec.DetailURL] = []string{}
			r.log.Error().Err(err).Str("advertiser", rec.DetailURL).Msg("detail crawl failed, continuing")
			continue
		}
		result.Creatives[rec.DetailURL] = urls
		r.rememberVisit(rec.DetailURL, urls)
	}

	r.log.Info().
		Int("advertisers", len(result.Creatives)).
		Int("failed_details", result.FailedDetails).
		Msg("detail crawl done")
}

// publish pushes each record onto the stream as soon as its query finishes
func (r *Runner) publish(records []AdvertiserRecord) {
	if r.pub == nil {
		return
	}
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			r.log.Error().Err(err).Str("advertiser", rec.DetailURL).Msg("marshal for publish failed")
			continue
		}
		if err := r.pub.Publish(rec.Query, data); err != nil {
			r.log.Error().Err(err).Str("advertiser", rec.DetailURL).Msg("publish failed")
		}
	}
}

func (r *Runner) cachedVisit(detailURL string) ([]string, bool) {
	if r.cache == nil {
		return nil, false
	}
	data, err := r.cache.Get(visitKey(detailURL))
	if err != nil {
		return nil, false
	}
	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return nil, false
	}
	r.log.Debug().Str("advertiser", detailURL).Msg("visit cache hit")
	return urls, true
}

func (r *Runner) rememberVisit(detailURL string, urls []string) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(urls)
	if err != nil {
		return
	}
	if err := r.cache.Set(visitKey(detailURL), data, r.visitTTL); err != nil {
		r.log.Debug().Err(err).Str("advertiser", detailURL).Msg("visit cache write failed")
	}
}

func visitKey(detailURL string) string {
	return "visited:" + detailURL
}
