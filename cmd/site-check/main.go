// cmd/site-check/main.go
//
// Diagnostic tool for the tracking-page scrape path. It runs one acquisition
// against a live page and prints what the extractor makes of each row, so
// selector or layout drift can be spotted without sending any email.
//
// Usage:
//   go run ./cmd/site-check
//   go run ./cmd/site-check -url https://flotilla-orpin.vercel.app/ -timeout 60s
//   go run ./cmd/site-check -raw
//   go run ./cmd/site-check -headless=false

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/manamurah/flotilla-watch/internal/common"
	"github.com/manamurah/flotilla-watch/internal/config"
	"github.com/manamurah/flotilla-watch/internal/scrape"
)

func main() {
	defaults := config.NewDefaultConfig()

	var (
		url      = flag.String("url", defaults.Scraper.URL, "Tracking page URL")
		timeout  = flag.Duration("timeout", 60*time.Second, "Acquisition timeout")
		headless = flag.Bool("headless", true, "Run the browser headless")
		raw      = flag.Bool("raw", false, "Print each row's raw text block")
	)
	flag.Parse()

	logger := common.NewDefaultLogger()

	scraper := scrape.NewScraper(scrape.Config{
		URL:      *url,
		Headless: *headless,
		Timeout:  *timeout,
	}, logger)

	entities, err := scraper.Acquire(context.Background())
	if err != nil {
		fmt.Fprintf(os.Stderr, "FAIL: acquire %s: %v\n", *url, err)
		os.Exit(1)
	}

	if *raw {
		for _, e := range entities {
			fmt.Printf("--- row %d ---\n%s\n", e.Index, e.Text)
		}
	}

	vessels := 0
	incidents := 0
	fmt.Println()
	for _, e := range entities {
		rec := scrape.ExtractRecord(e.Text, e.Index)
		if rec == nil {
			fmt.Printf("  ? row %-3d unparseable\n", e.Index)
			continue
		}
		if scrape.DefaultIncidentClassifier(rec) {
			incidents++
			fmt.Printf("  - row %-3d incident: %s\n", e.Index, rec.Name)
			continue
		}
		vessels++
		pos := "no position"
		if rec.Position != nil {
			pos = *rec.Position
		}
		fmt.Printf("  + row %-3d %-30s %-12s %s\n", e.Index, rec.Name, rec.Status, pos)
	}

	fmt.Printf("\n  %d rows: %d vessels, %d incidents\n", len(entities), vessels, incidents)

	if vessels == 0 {
		fmt.Fprintln(os.Stderr, "FAIL: no vessels extracted, selectors may have drifted")
		os.Exit(1)
	}
}
