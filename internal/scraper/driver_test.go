package scraper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mapFetcher struct {
	pages map[string]Page
	calls []string
}

func (f *mapFetcher) Fetch(_ context.Context, rawURL string) (Page, error) {
	f.calls = append(f.calls, rawURL)
	page, ok := f.pages[rawURL]
	if !ok {
		return Page{}, errors.New("unreachable")
	}
	return page, nil
}

func htmlPage(title string) Page {
	return Page{
		StatusCode: 200,
		Body:       []byte("<html><body><h1>" + title + "</h1></body></html>"),
	}
}

func newTestDriver(fetcher Fetcher, pauser Sleeper) *Driver {
	return NewDriver(fetcher, NewExtractor(zap.NewNop()), pauser, 10*time.Second, zap.NewNop())
}

func TestDriverSkipsFailedFetches(t *testing.T) {
	t.Parallel()

	fetcher := &mapFetcher{pages: map[string]Page{
		"https://medium.com/a": htmlPage("First"),
		"https://medium.com/c": htmlPage("Third"),
	}}
	pauser := &recordingSleeper{}
	driver := newTestDriver(fetcher, pauser)

	urls := []string{"https://medium.com/a", "https://medium.com/b", "https://medium.com/c"}
	articles, err := driver.Run(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, articles, 2)
	require.Equal(t, "First", articles[0].Title)
	require.Equal(t, "Third", articles[1].Title)
	require.Equal(t, urls, fetcher.calls)
}

func TestDriverPausesBetweenRequests(t *testing.T) {
	t.Parallel()

	fetcher := &mapFetcher{pages: map[string]Page{
		"https://medium.com/a": htmlPage("A"),
		"https://medium.com/b": htmlPage("B"),
		"https://medium.com/c": htmlPage("C"),
	}}
	pauser := &recordingSleeper{}
	driver := newTestDriver(fetcher, pauser)

	_, err := driver.Run(context.Background(),
		[]string{"https://medium.com/a", "https://medium.com/b", "https://medium.com/c"})
	require.NoError(t, err)
	// One pause between each pair of requests, none after the last.
	require.Equal(t, []time.Duration{10 * time.Second, 10 * time.Second}, pauser.delays)
}

func TestDriverPausesEvenAfterFailure(t *testing.T) {
	t.Parallel()

	fetcher := &mapFetcher{pages: map[string]Page{
		"https://medium.com/b": htmlPage("B"),
	}}
	pauser := &recordingSleeper{}
	driver := newTestDriver(fetcher, pauser)

	_, err := driver.Run(context.Background(),
		[]string{"https://medium.com/a", "https://medium.com/b"})
	require.NoError(t, err)
	require.Len(t, pauser.delays, 1)
}

func TestDriverReportsEmptyResults(t *testing.T) {
	t.Parallel()

	fetcher := &mapFetcher{pages: map[string]Page{}}
	driver := newTestDriver(fetcher, &recordingSleeper{})

	_, err := driver.Run(context.Background(), []string{"https://medium.com/a"})
	require.ErrorIs(t, err, ErrNoArticles)

	_, err = driver.Run(context.Background(), nil)
	require.ErrorIs(t, err, ErrNoURLs)
}

func TestDriverHonorsCancellation(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fetcher := &mapFetcher{pages: map[string]Page{}}
	driver := newTestDriver(fetcher, &recordingSleeper{})

	_, err := driver.Run(ctx, []string{"https://medium.com/a"})
	require.ErrorIs(t, err, context.Canceled)
	require.Empty(t, fetcher.calls)
}

func TestReadURLList(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "urls.txt")
	content := "https://medium.com/a\n\n  https://medium.com/b  \n\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	urls, err := ReadURLList(path)
	require.NoError(t, err)
	require.Equal(t, []string{"https://medium.com/a", "https://medium.com/b"}, urls)
}

func TestReadURLListMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ReadURLList(filepath.Join(t.TempDir(), "absent.txt"))
	require.Error(t, err)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadURLListEmptyFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "urls.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n\n  \n"), 0o600))

	_, err := ReadURLList(path)
	require.ErrorIs(t, err, ErrNoURLs)
}
