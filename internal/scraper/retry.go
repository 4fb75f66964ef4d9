package scraper

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/config"
	"github.com/omrzgit/medium-scraper-search/internal/metrics"
)

// retryState enumerates the phases of the fetch retry state machine.
type retryState int

const (
	stateAttempting retryState = iota
	stateBackingOff
	stateSucceeded
	stateExhausted
	stateFailed
)

// Client wraps a Fetcher with the 403 retry policy: linear backoff of
// backoffStep * attempt, up to maxRetries attempts. Network errors and
// other HTTP statuses fail immediately.
type Client struct {
	fetcher     Fetcher
	sleeper     Sleeper
	maxRetries  int
	backoffStep time.Duration
	logger      *zap.Logger
}

// NewClient builds a retrying fetch client.
func NewClient(fetcher Fetcher, sleeper Sleeper, cfg config.ScraperConfig, logger *zap.Logger) *Client {
	metrics.Init()
	return &Client{
		fetcher:     fetcher,
		sleeper:     sleeper,
		maxRetries:  cfg.MaxRetries,
		backoffStep: cfg.BackoffStep(),
		logger:      logger,
	}
}

// Fetch retrieves rawURL, retrying only on HTTP 403.
func (c *Client) Fetch(ctx context.Context, rawURL string) (Page, error) {
	var (
		page    Page
		lastErr error
	)
	attempt := 1
	state := stateAttempting

	for {
		switch state {
		case stateAttempting:
			page, lastErr = c.fetcher.Fetch(ctx, rawURL)
			switch {
			case lastErr == nil:
				state = stateSucceeded
			case IsForbidden(lastErr) && attempt < c.maxRetries:
				state = stateBackingOff
			case IsForbidden(lastErr):
				state = stateExhausted
			default:
				state = stateFailed
			}

		case stateBackingOff:
			delay := c.backoffStep * time.Duration(attempt)
			c.logger.Warn("403 Forbidden, backing off",
				zap.String("url", rawURL),
				zap.Int("attempt", attempt),
				zap.Duration("delay", delay),
			)
			metrics.ObserveRetry(delay)
			c.sleeper.Sleep(ctx, delay)
			if err := ctx.Err(); err != nil {
				return Page{}, fmt.Errorf("fetch %s canceled: %w", rawURL, err)
			}
			attempt++
			state = stateAttempting

		case stateSucceeded:
			return page, nil

		case stateExhausted:
			return Page{}, fmt.Errorf("fetch %s: retries exhausted after %d attempts: %w",
				rawURL, attempt, lastErr)

		case stateFailed:
			return Page{}, fmt.Errorf("fetch %s: %w", rawURL, lastErr)
		}
	}
}
