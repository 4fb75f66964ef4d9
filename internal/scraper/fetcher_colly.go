package scraper

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/config"
)

// CollyFetcher implements Fetcher using the Colly collector with a
// browser-like header set to reduce anti-bot blocking.
type CollyFetcher struct {
	base      *colly.Collector
	transport http.RoundTripper
	headers   map[string]string
	timeout   time.Duration
	logger    *zap.Logger
}

// NewCollyFetcher constructs a configured Colly-based Fetcher.
func NewCollyFetcher(cfg config.ScraperConfig, logger *zap.Logger) *CollyFetcher {
	base := colly.NewCollector()
	base.UserAgent = cfg.UserAgent
	base.IgnoreRobotsTxt = true

	transport := newHTTPTransport()
	base.WithTransport(transport)

	return &CollyFetcher{
		base:      base,
		transport: transport,
		headers: map[string]string{
			"Accept": "text/html,application/xhtml+xml,application/xml;q=0.9," +
				"image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7",
			"Accept-Language": "en-US,en;q=0.9",
			"Referer":         cfg.Referer,
			"Connection":      "keep-alive",
		},
		timeout: cfg.Timeout(),
		logger:  logger,
	}
}

// Fetch executes a single HTTP GET. Non-2xx statuses are returned as
// *HTTPStatusError with the Page's StatusCode populated so callers can
// apply the retry policy.
func (f *CollyFetcher) Fetch(ctx context.Context, rawURL string) (Page, error) {
	var (
		page     Page
		fetchErr error
	)
	collector := f.buildCollector(rawURL, &page, &fetchErr)

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(rawURL)
	}()

	select {
	case <-ctx.Done():
		return Page{}, fmt.Errorf("fetch %s canceled: %w", rawURL, ctx.Err())
	case visitErr := <-done:
		if fetchErr != nil {
			if page.StatusCode != 0 {
				return page, &HTTPStatusError{StatusCode: page.StatusCode}
			}
			return Page{}, fmt.Errorf("fetch %s: %w", rawURL, fetchErr)
		}
		if visitErr != nil {
			return Page{}, fmt.Errorf("visit %s: %w", rawURL, visitErr)
		}
		return page, nil
	}
}

func (f *CollyFetcher) buildCollector(rawURL string, page *Page, fetchErr *error) *colly.Collector {
	collector := f.base.Clone()
	collector.AllowURLRevisit = true
	collector.SetRequestTimeout(f.timeout)
	collector.WithTransport(f.transport)

	collector.OnRequest(func(r *colly.Request) {
		for key, value := range f.headers {
			r.Headers.Set(key, value)
		}
	})

	collector.OnResponse(func(r *colly.Response) {
		*page = Page{
			URL:        rawURL,
			FinalURL:   r.Request.URL.String(),
			StatusCode: r.StatusCode,
			Body:       append([]byte(nil), r.Body...),
		}
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			page.StatusCode = r.StatusCode
		}
		*fetchErr = err
	})

	return collector
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          32,
		IdleConnTimeout:       90 * time.Second,
	}
}
