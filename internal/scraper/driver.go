package scraper

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/article"
	"github.com/omrzgit/medium-scraper-search/internal/metrics"
)

// ReadURLList loads a newline-delimited URL list, skipping blank lines.
// A missing or empty file is reported as an error so the crawl aborts
// with a diagnostic instead of producing an empty snapshot.
func ReadURLList(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read url list %s: %w", path, err)
	}
	var urls []string
	for _, line := range strings.Split(string(data), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			urls = append(urls, line)
		}
	}
	if len(urls) == 0 {
		return nil, fmt.Errorf("url list %s: %w", path, ErrNoURLs)
	}
	return urls, nil
}

// Driver orchestrates the sequential fetch->extract pipeline with a
// mandatory politeness delay between requests. One URL at a time; the
// delay applies regardless of fetch outcome.
type Driver struct {
	fetcher   Fetcher
	extractor *Extractor
	pauser    Sleeper
	delay     time.Duration
	logger    *zap.Logger
}

// NewDriver builds a Driver.
func NewDriver(fetcher Fetcher, extractor *Extractor, pauser Sleeper, delay time.Duration, logger *zap.Logger) *Driver {
	metrics.Init()
	return &Driver{
		fetcher:   fetcher,
		extractor: extractor,
		pauser:    pauser,
		delay:     delay,
		logger:    logger,
	}
}

// Run processes urls in order and returns the extracted articles.
// Fetch failures are logged and skipped; zero successes is an error and
// no snapshot should be written.
func (d *Driver) Run(ctx context.Context, urls []string) ([]article.Article, error) {
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}

	articles := make([]article.Article, 0, len(urls))
	for i, rawURL := range urls {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("crawl canceled: %w", err)
		}
		d.logger.Info("scraping",
			zap.Int("position", i+1),
			zap.Int("total", len(urls)),
			zap.String("url", rawURL),
		)

		page, err := d.fetcher.Fetch(ctx, rawURL)
		if err != nil {
			d.logger.Warn("fetch failed, skipping URL", zap.String("url", rawURL), zap.Error(err))
			metrics.ObserveScrape(rawURL, "failed")
		} else {
			a := d.extractor.Extract(page.Body, rawURL)
			articles = append(articles, a)
			metrics.ObserveScrape(rawURL, "scraped")
			d.logger.Info("scraped", zap.String("url", rawURL), zap.String("title", a.Title))
		}

		if i < len(urls)-1 {
			d.pauser.Sleep(ctx, d.delay)
		}
	}

	if len(articles) == 0 {
		return nil, ErrNoArticles
	}
	return articles, nil
}
