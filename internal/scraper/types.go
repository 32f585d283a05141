package scraper

import (
	"time"
)

// Driver is the capability set the scraper needs from a controlled browser.
// internal/browser provides the chromedp implementation; tests substitute a
// scripted fake.
type Driver interface {
	// Navigate loads a URL and waits for the document to be ready
	Navigate(url string) error

	// HTML returns a snapshot of the rendered document
	HTML() (string, error)

	// Count returns the number of rendered elements matching selector
	Count(selector string) (int, error)

	// ScrollToBottom scrolls the window to the bottom of the page
	ScrollToBottom() error

	// ClickButton clicks the first enabled button containing label and
	// reports whether one was found
	ClickButton(label string) (bool, error)

	// CurrentURL reports the browser's current location
	CurrentURL() (string, error)

	// Sleep blocks for the inter-action delay
	Sleep(d time.Duration) error
}

// AdvertiserRecord is one advertiser found in the portal's search results.
// Only Name and DetailURL are guaranteed; the remaining fields are best
// effort and their absence never fails the record.
type AdvertiserRecord struct {
	Query     string    `json:"query"`
	Name      string    `json:"name"`
	DetailURL string    `json:"detail_url"`
	Region    string    `json:"region,omitempty"`
	Verified  bool      `json:"verified"`
	AdCount   *int      `json:"ad_count,omitempty"`
	ScrapedAt time.Time `json:"scraped_at"`
}

// Selectors contains the CSS selectors and text markers for the portal's
// result and detail pages
type Selectors struct {
	ResultList    string
	ResultItem    string
	VerifiedText  string
	RegionPrefix  string
	LoadMoreLabel string
	CreativeLink  string
}

// DefaultSelectors returns the selector set for the transparency portal
func DefaultSelectors() Selectors {
	return Selectors{
		ResultList:    "[role='listbox']",
		ResultItem:    "[role='option']",
		VerifiedText:  "verified",
		RegionPrefix:  "Based in:",
		LoadMoreLabel: "Next",
		CreativeLink:  "a[href*='/creative/']",
	}
}

// Options configures the extraction loops
type Options struct {
	PortalURL string
	Region    string
	MaxCycles int
	Delay     time.Duration
	Selectors Selectors
}

func (o Options) withDefaults() Options {
	if o.PortalURL == "" {
		o.PortalURL = "https://adstransparency.google.com"
	}
	if o.Region == "" {
		o.Region = "anywhere"
	}
	if o.MaxCycles < 1 {
		o.MaxCycles = 10
	}
	if o.Delay == 0 {
		o.Delay = 2 * time.Second
	}
	if o.Selectors == (Selectors{}) {
		o.Selectors = DefaultSelectors()
	}
	return o
}
