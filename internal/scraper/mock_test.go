package scraper

import (
	"fmt"
	"time"
)

// fakeCycle is one reveal state of a fake page: the snapshot the driver
// serves and the rendered-item count it reports
type fakeCycle struct {
	html  string
	count int
}

// fakePage scripts one URL's behavior. Each reveal attempt (scroll or
// pagination click) advances to the next cycle; the last cycle repeats.
type fakePage struct {
	cycles    []fakeCycle
	paginated bool // whether a pagination button is rendered
	navErr    error
}

// fakeDriver implements Driver against scripted pages for tests
type fakeDriver struct {
	pages      map[string]*fakePage
	current    *fakePage
	currentURL string
	cycle      int

	navCalls   []string
	countCalls int
	scrolls    int
	clicks     int
	sleeps     int
}

var _ Driver = (*fakeDriver)(nil)

func newFakeDriver() *fakeDriver {
	return &fakeDriver{pages: make(map[string]*fakePage)}
}

func (d *fakeDriver) addPage(url string, p *fakePage) {
	d.pages[url] = p
}

func (d *fakeDriver) state() fakeCycle {
	i := d.cycle
	if i >= len(d.current.cycles) {
		i = len(d.current.cycles) - 1
	}
	return d.current.cycles[i]
}

func (d *fakeDriver) Navigate(url string) error {
	d.navCalls = append(d.navCalls, url)
	p, ok := d.pages[url]
	if !ok {
		return fmt.Errorf("no page scripted for %s", url)
	}
	if p.navErr != nil {
		return p.navErr
	}
	d.current = p
	d.currentURL = url
	d.cycle = 0
	return nil
}

func (d *fakeDriver) HTML() (string, error) {
	if d.current == nil {
		return "", fmt.Errorf("not navigated")
	}
	return d.state().html, nil
}

func (d *fakeDriver) Count(selector string) (int, error) {
	if d.current == nil {
		return 0, fmt.Errorf("not navigated")
	}
	d.countCalls++
	return d.state().count, nil
}

func (d *fakeDriver) ScrollToBottom() error {
	if d.current == nil {
		return fmt.Errorf("not navigated")
	}
	d.scrolls++
	d.cycle++
	return nil
}

func (d *fakeDriver) ClickButton(label string) (bool, error) {
	if d.current == nil {
		return false, fmt.Errorf("not navigated")
	}
	if !d.current.paginated {
		return false, nil
	}
	d.clicks++
	d.cycle++
	return true, nil
}

func (d *fakeDriver) CurrentURL() (string, error) {
	return d.currentURL, nil
}

func (d *fakeDriver) Sleep(time.Duration) error {
	d.sleeps++
	return nil
}
