// Package scraper implements the acquisition pipeline: fetching Medium
// pages under anti-bot conditions and extracting Article records from
// heterogeneous page structure.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// Page is the raw result of a successful fetch.
type Page struct {
	URL        string
	FinalURL   string
	StatusCode int
	Body       []byte
}

// Fetcher fetches a URL and returns the raw page.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (Page, error)
}

// Sleeper abstracts interruptible waits so backoff and politeness
// timing are testable without real sleeps.
type Sleeper interface {
	Sleep(ctx context.Context, d time.Duration)
}

// TimerSleeper waits on a timer, returning early when ctx is done.
type TimerSleeper struct{}

// Sleep blocks for d or until the context is canceled.
func (TimerSleeper) Sleep(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Sentinel errors surfaced by the crawl pipeline.
var (
	ErrNoURLs     = errors.New("no URLs to crawl")
	ErrNoArticles = errors.New("no articles were successfully scraped")
)

// HTTPStatusError reports a non-2xx response status.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsForbidden reports whether err is an HTTP 403 status error, the only
// condition the retry policy considers retryable.
func IsForbidden(err error) bool {
	var statusErr *HTTPStatusError
	return errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusForbidden
}
