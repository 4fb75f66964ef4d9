package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/config"
)

func testScraperConfig() config.ScraperConfig {
	return config.ScraperConfig{
		UserAgent:      "test-agent/1.0",
		Referer:        "https://www.google.com/",
		TimeoutSeconds: 5,
	}
}

func TestCollyFetcherSendsBrowserHeaders(t *testing.T) {
	t.Parallel()

	var (
		mu   sync.Mutex
		seen http.Header
	)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = r.Header.Clone()
		mu.Unlock()
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	fetcher := NewCollyFetcher(testScraperConfig(), zap.NewNop())
	page, err := fetcher.Fetch(context.Background(), server.URL+"/ok")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, page.StatusCode)
	require.Contains(t, string(page.Body), "ok")
	require.Equal(t, server.URL+"/ok", page.FinalURL)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, "test-agent/1.0", seen.Get("User-Agent"))
	require.Equal(t, "https://www.google.com/", seen.Get("Referer"))
	require.Equal(t, "en-US,en;q=0.9", seen.Get("Accept-Language"))
	require.NotEmpty(t, seen.Get("Accept"))
}

func TestCollyFetcherReportsForbiddenStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := NewCollyFetcher(testScraperConfig(), zap.NewNop())
	page, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	require.True(t, IsForbidden(err))
	require.Equal(t, http.StatusForbidden, page.StatusCode)
}

func TestCollyFetcherReportsServerErrors(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	fetcher := NewCollyFetcher(testScraperConfig(), zap.NewNop())
	_, err := fetcher.Fetch(context.Background(), server.URL)
	require.Error(t, err)
	require.False(t, IsForbidden(err))
}

func TestCollyFetcherFollowsRedirects(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/old", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/new", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/new", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<html><body>moved</body></html>"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	fetcher := NewCollyFetcher(testScraperConfig(), zap.NewNop())
	page, err := fetcher.Fetch(context.Background(), server.URL+"/old")
	require.NoError(t, err)
	require.Equal(t, server.URL+"/new", page.FinalURL)
	require.Equal(t, server.URL+"/old", page.URL)
}
