package scrape

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/manamurah/flotilla-watch/internal/common"
)

// rowSelector matches the expandable list rows; the page renders vessels and
// incident entries through the same component, so both are captured here and
// separated later by the incident classifier.
const rowSelector = `div[class*="cursor-pointer"]:has(button)`

// Config controls browser acquisition.
type Config struct {
	URL      string
	Headless bool
	Timeout  time.Duration
}

// Scraper drives a headless browser to collect entity text blocks from the
// tracking page. It satisfies the workflow's Acquirer contract.
type Scraper struct {
	cfg    Config
	logger *common.Logger
}

// NewScraper creates a browser-backed scraper.
func NewScraper(cfg Config, logger *common.Logger) *Scraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Scraper{cfg: cfg, logger: logger}
}

// newBrowserContext builds a chromedp context with the standard headless
// flags and the configured timeout.
func (s *Scraper) newBrowserContext(parent context.Context) (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", s.cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)

	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, opts...)
	ctx, ctxCancel := chromedp.NewContext(allocCtx)
	ctx, timeoutCancel := context.WithTimeout(ctx, s.cfg.Timeout)

	cancel := func() {
		timeoutCancel()
		ctxCancel()
		allocCancel()
	}
	return ctx, cancel
}

// Acquire navigates to the tracking page, expands every candidate row, and
// returns each row's combined text block. A failure on one row is logged and
// skipped; a navigation or render failure fails the whole acquisition so the
// retry policy can take over.
func (s *Scraper) Acquire(parent context.Context) ([]Entity, error) {
	ctx, cancel := s.newBrowserContext(parent)
	defer cancel()

	// Surface page-side JS exceptions in the log; they usually precede a
	// selector mismatch when the site's frontend changes.
	chromedp.ListenTarget(ctx, func(ev interface{}) {
		if e, ok := ev.(*runtime.EventExceptionThrown); ok {
			desc := e.ExceptionDetails.Text
			if e.ExceptionDetails.Exception != nil && e.ExceptionDetails.Exception.Description != "" {
				desc = e.ExceptionDetails.Exception.Description
			}
			s.logger.Warn().Str("error", desc).Msg("page javascript exception")
		}
	})

	s.logger.Info().Str("url", s.cfg.URL).Msg("starting scrape")

	var rowCount int
	err := chromedp.Run(ctx,
		chromedp.Navigate(s.cfg.URL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		// Give the client-side renderer time to populate the list.
		chromedp.Sleep(3*time.Second),
		chromedp.Evaluate(fmt.Sprintf(`document.querySelectorAll('%s').length`, rowSelector), &rowCount),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load tracking page %s: %w", s.cfg.URL, err)
	}

	s.logger.Info().Int("rows", rowCount).Msg("found candidate rows (vessels + incidents)")

	entities := make([]Entity, 0, rowCount)

	for i := 0; i < rowCount; i++ {
		text, err := s.expandAndRead(ctx, i)
		if err != nil {
			s.logger.Warn().
				Int("row", i+1).
				Str("error", err.Error()).
				Msg("failed to read row, skipping")
			continue
		}
		entities = append(entities, Entity{Index: i + 1, Text: text})
	}

	s.logger.Info().Int("entities", len(entities)).Msg("scrape complete")
	return entities, nil
}

// expandAndRead clicks row i's expand button, captures the parent container
// text (the revealed detail panel renders as a sibling of the row), then
// collapses the row again to keep the page tidy for the next iteration.
func (s *Scraper) expandAndRead(ctx context.Context, i int) (string, error) {
	clickJS := fmt.Sprintf(`(() => {
		const row = document.querySelectorAll('%s')[%d];
		if (!row) return false;
		const btn = row.querySelector('button');
		if (!btn) return false;
		btn.click();
		return true;
	})()`, rowSelector, i)

	readJS := fmt.Sprintf(`(() => {
		const row = document.querySelectorAll('%s')[%d];
		return row && row.parentElement ? row.parentElement.innerText : '';
	})()`, rowSelector, i)

	var clicked bool
	var text string
	err := chromedp.Run(ctx,
		chromedp.Evaluate(clickJS, &clicked),
		chromedp.Sleep(1500*time.Millisecond),
		chromedp.Evaluate(readJS, &text),
	)
	if err != nil {
		return "", err
	}
	if !clicked {
		return "", fmt.Errorf("row %d has no expand button", i+1)
	}

	// Collapse; a failure here is harmless.
	_ = chromedp.Run(ctx,
		chromedp.Evaluate(clickJS, &clicked),
		chromedp.Sleep(300*time.Millisecond),
	)

	return text, nil
}
