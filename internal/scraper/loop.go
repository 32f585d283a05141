package scraper

import (
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/princealiomer/Google-ads/logger"
)

// revealLoop is the polling state machine shared by the search and detail
// extractors. Each cycle it snapshots the rendered document, hands it to
// onSnapshot, then tries to reveal more results by clicking the pagination
// button (falling back to a scroll) and waiting for the portal to render.
//
// Termination: the loop stops at the first cycle whose rendered-item count
// equals the previous cycle's count (no new results), or when maxCycles is
// reached. A single unchanged cycle is enough; see DESIGN.md.
func revealLoop(d Driver, itemSelector, loadMoreLabel string, maxCycles int, delay time.Duration, log *logger.Logger, onSnapshot func(doc *goquery.Document) error) error {
	lastCount := -1

	for cycle := 0; cycle < maxCycles; cycle++ {
		count, err := d.Count(itemSelector)
		if err != nil {
			return fmt.Errorf("count rendered items: %w", err)
		}

		html, err := d.HTML()
		if err != nil {
			return fmt.Errorf("snapshot document: %w", err)
		}
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
		if err != nil {
			return fmt.Errorf("parse document: %w", err)
		}
		if err := onSnapshot(doc); err != nil {
			return err
		}

		if count == lastCount {
			log.Debug().Int("cycle", cycle+1).Int("rendered", count).Msg("no new results, stopping")
			return nil
		}
		lastCount = count

		clicked, err := d.ClickButton(loadMoreLabel)
		if err != nil {
			// A failed click is not fatal; scrolling may still reveal more
			log.Warn().Err(err).Msg("pagination click failed")
			clicked = false
		}
		if !clicked {
			if err := d.ScrollToBottom(); err != nil {
				log.Warn().Err(err).Msg("scroll failed")
			}
		}

		if err := d.Sleep(delay); err != nil {
			return err
		}
	}

	log.Debug().Int("max_cycles", maxCycles).Msg("scroll bound reached")
	return nil
}
