package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/princealiomer/Google-ads/logger"
	scrapeerr "github.com/princealiomer/Google-ads/pkg/errors"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Options configures a browser session
type Options struct {
	Headless   bool
	NavTimeout time.Duration
	UserAgent  string
}

// Session wraps a single controlled Chrome instance. All scraping drives
// this one session sequentially; there are no parallel tabs.
type Session struct {
	ctx        context.Context
	cancels    []context.CancelFunc
	navTimeout time.Duration
	log        *logger.Logger
}

// NewSession launches Chrome and verifies it is responsive. A launch
// failure is a startup error and aborts the run before any crawling.
func NewSession(parent context.Context, opts Options) (*Session, error) {
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.NoSandbox,
		chromedp.DisableGPU,
		chromedp.WindowSize(1920, 1080),
		chromedp.UserAgent(opts.UserAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, allocOpts...)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:        browserCtx,
		cancels:    []context.CancelFunc{cancelBrowser, cancelAlloc},
		navTimeout: opts.NavTimeout,
		log:        logger.ForComponent("browser"),
	}

	// Running an empty task forces the browser to actually start
	if err := chromedp.Run(browserCtx); err != nil {
		s.Close()
		return nil, scrapeerr.NewStartup("failed to launch browser", err)
	}

	s.log.Debug().Bool("headless", opts.Headless).Msg("browser session started")
	return s, nil
}

// Close tears down the browser and its allocator
func (s *Session) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *Session) run(actions ...chromedp.Action) error {
	ctx, cancel := context.WithTimeout(s.ctx, s.navTimeout)
	defer cancel()
	return chromedp.Run(ctx, actions...)
}

// Navigate loads url and waits for the document body to be ready
func (s *Session) Navigate(url string) error {
	err := s.run(
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

// HTML returns a snapshot of the full rendered document
func (s *Session) HTML() (string, error) {
	var html string
	if err := s.run(chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("outer html: %w", err)
	}
	return html, nil
}

// Count returns the number of elements currently rendered for selector
func (s *Session) Count(selector string) (int, error) {
	var count int
	script := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := s.run(chromedp.Evaluate(script, &count)); err != nil {
		return 0, fmt.Errorf("count %q: %w", selector, err)
	}
	return count, nil
}

// ScrollToBottom scrolls the window to the bottom of the document to
// trigger lazy result rendering
func (s *Session) ScrollToBottom() error {
	script := `window.scrollTo(0, document.body.scrollHeight)`
	if err := s.run(chromedp.Evaluate(script, nil)); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

// ClickButton clicks the first enabled button whose text contains label.
// Buttons carrying aria-disabled are respected the same as the disabled
// attribute. Returns false when no such button exists.
func (s *Session) ClickButton(label string) (bool, error) {
	var clicked bool
	script := fmt.Sprintf(`(function() {
		const btns = Array.from(document.querySelectorAll("button"));
		for (const b of btns) {
			const t = (b.textContent || "").trim();
			if (t.includes(%q) && !b.disabled && b.getAttribute("aria-disabled") !== "true") {
				b.scrollIntoView({block: "center"});
				b.click();
				return true;
			}
		}
		return false;
	})()`, label)
	if err := s.run(chromedp.Evaluate(script, &clicked)); err != nil {
		return false, fmt.Errorf("click %q: %w", label, err)
	}
	return clicked, nil
}

// CurrentURL reports the browser's current location
func (s *Session) CurrentURL() (string, error) {
	var loc string
	if err := s.run(chromedp.Location(&loc)); err != nil {
		return "", fmt.Errorf("location: %w", err)
	}
	return loc, nil
}

// Sleep blocks for the configured inter-action delay. It is a plain wait on
// the single worker; the session has no event loop to multiplex.
func (s *Session) Sleep(d time.Duration) error {
	select {
	case <-s.ctx.Done():
		return s.ctx.Err()
	case <-time.After(d):
		return nil
	}
}
