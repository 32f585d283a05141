package scraper

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// mockCache is an in-memory CacheService for runner tests
type mockCache struct {
	data map[string][]byte
	sets int
	gets int
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Get(key string) ([]byte, error) {
	m.gets++
	v, ok := m.data[key]
	if !ok {
		return nil, fmt.Errorf("cache miss for key: %s", key)
	}
	return v, nil
}

func (m *mockCache) Set(key string, value []byte, _ time.Duration) error {
	m.sets++
	m.data[key] = value
	return nil
}

func (m *mockCache) Delete(key string) error {
	delete(m.data, key)
	return nil
}

// mockPublisher records published messages
type mockPublisher struct {
	published map[string][][]byte
	trimmed   bool
	closed    bool
}

func newMockPublisher() *mockPublisher {
	return &mockPublisher{published: make(map[string][][]byte)}
}

func (m *mockPublisher) Publish(key string, message []byte) error {
	m.published[key] = append(m.published[key], message)
	return nil
}

func (m *mockPublisher) TrimStreams() error {
	m.trimmed = true
	return nil
}

func (m *mockPublisher) Close() error {
	m.closed = true
	return nil
}

func TestRunnerDeduplicatesAcrossQueries(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	r := NewRunner(d, opts, false, nil, nil, 0)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Acme", "/adv/1"), optionHTML("Bravo", "/adv/2")), 2},
	}})
	d.addPage(search.SearchURL("b"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Bravo", "/adv/2"), optionHTML("Charlie", "/adv/3")), 2},
	}})

	result := r.Run([]string{"a", "b"})

	assert.Len(t, result.Advertisers, 3)
	assert.Equal(t, 1, result.Dropped)
	assert.Equal(t, 0, result.FailedQueries)
	assert.Empty(t, result.Creatives)
}

// A failed query is counted and skipped; the run continues and succeeds
func TestRunnerContinuesPastFailedQuery(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	r := NewRunner(d, opts, false, nil, nil, 0)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{navErr: fmt.Errorf("timeout")})
	d.addPage(search.SearchURL("b"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Bravo", "/adv/2")), 1},
	}})

	result := r.Run([]string{"a", "b"})

	assert.Equal(t, 1, result.FailedQueries)
	assert.Len(t, result.Advertisers, 1)
	assert.Equal(t, "Bravo", result.Advertisers[0].Name)
}

func TestRunnerAdvancedCollectsCreatives(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	r := NewRunner(d, opts, true, nil, nil, 0)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Acme", "/adv/1"), optionHTML("Bravo", "/adv/2")), 2},
	}})
	d.addPage("https://portal.test/adv/1", &fakePage{cycles: []fakeCycle{
		{detailHTML("/creative/1", "/creative/2"), 2},
	}})
	d.addPage("https://portal.test/adv/2", &fakePage{cycles: []fakeCycle{
		{detailHTML(), 0},
	}})

	result := r.Run([]string{"a"})

	assert.Equal(t, 0, result.FailedDetails)
	assert.Len(t, result.Creatives, 2)
	assert.Equal(t, []string{
		"https://portal.test/creative/1",
		"https://portal.test/creative/2",
	}, result.Creatives["https://portal.test/adv/1"])
	assert.Empty(t, result.Creatives["https://portal.test/adv/2"])
}

// A failed detail page gets an empty creative set; the crawl moves on
func TestRunnerAdvancedContinuesPastFailedDetail(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	r := NewRunner(d, opts, true, nil, nil, 0)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Acme", "/adv/1"), optionHTML("Bravo", "/adv/2")), 2},
	}})
	d.addPage("https://portal.test/adv/1", &fakePage{navErr: fmt.Errorf("timeout")})
	d.addPage("https://portal.test/adv/2", &fakePage{cycles: []fakeCycle{
		{detailHTML("/creative/7"), 1},
	}})

	result := r.Run([]string{"a"})

	assert.Equal(t, 1, result.FailedDetails)
	urls, ok := result.Creatives["https://portal.test/adv/1"]
	assert.True(t, ok, "failed advertiser still appears with an empty set")
	assert.Empty(t, urls)
	assert.Equal(t, []string{"https://portal.test/creative/7"}, result.Creatives["https://portal.test/adv/2"])
}

// A visit-cache hit reuses the cached creative URLs without navigating
func TestRunnerVisitCacheHit(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	cacheSvc := newMockCache()
	cached, _ := json.Marshal([]string{"https://portal.test/creative/1"})
	cacheSvc.data["visited:https://portal.test/adv/1"] = cached

	r := NewRunner(d, opts, true, cacheSvc, nil, time.Hour)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Acme", "/adv/1")), 1},
	}})

	result := r.Run([]string{"a"})

	assert.Equal(t, 0, result.FailedDetails)
	assert.Equal(t, []string{"https://portal.test/creative/1"}, result.Creatives["https://portal.test/adv/1"])
	// only the search page was opened
	assert.Equal(t, []string{search.SearchURL("a")}, d.navCalls)
}

func TestRunnerVisitCacheWrite(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	cacheSvc := newMockCache()
	r := NewRunner(d, opts, true, cacheSvc, nil, time.Hour)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Acme", "/adv/1")), 1},
	}})
	d.addPage("https://portal.test/adv/1", &fakePage{cycles: []fakeCycle{
		{detailHTML("/creative/1"), 1},
	}})

	r.Run([]string{"a"})

	assert.Equal(t, 1, cacheSvc.sets)
	data, err := cacheSvc.Get("visited:https://portal.test/adv/1")
	assert.NoError(t, err)

	var urls []string
	assert.NoError(t, json.Unmarshal(data, &urls))
	assert.Equal(t, []string{"https://portal.test/creative/1"}, urls)
}

func TestRunnerPublishesRecords(t *testing.T) {
	d := newFakeDriver()
	opts := testOptions()
	pub := newMockPublisher()
	r := NewRunner(d, opts, false, nil, pub, 0)

	search := NewSearchExtractor(d, opts)
	d.addPage(search.SearchURL("a"), &fakePage{cycles: []fakeCycle{
		{resultsHTML(optionHTML("Acme", "/adv/1"), optionHTML("Bravo", "/adv/2")), 2},
	}})

	r.Run([]string{"a"})

	assert.Len(t, pub.published["a"], 2)
	assert.True(t, pub.trimmed)

	var rec AdvertiserRecord
	assert.NoError(t, json.Unmarshal(pub.published["a"][0], &rec))
	assert.Equal(t, "Acme", rec.Name)
}

func TestRunnerNoQueries(t *testing.T) {
	d := newFakeDriver()
	r := NewRunner(d, testOptions(), false, nil, nil, 0)

	result := r.Run(nil)

	assert.Empty(t, result.Advertisers)
	assert.Equal(t, 0, result.FailedQueries)
	assert.Empty(t, d.navCalls)
}
