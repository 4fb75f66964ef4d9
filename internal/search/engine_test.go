package search

import (
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/article"
	"github.com/omrzgit/medium-scraper-search/internal/index"
)

func rankedCorpus() index.Corpus {
	titles := []struct {
		title string
		claps int
	}{
		{"Go concurrency patterns with channels", 0},
		{"Profiling Go services in production", 50},
		{"Cooking pasta for beginners", 100},
	}
	articles := make([]article.Article, len(titles))
	for i, tt := range titles {
		a := article.New(fmt.Sprintf("https://medium.com/p/%d", i+1))
		a.Title = tt.title
		a.Claps = article.ClapCount(tt.claps)
		articles[i] = a
	}
	return index.BuildCorpus(articles)
}

// expectedScore recomputes the fused score for one row the same way the
// engine does, so the assertion does not depend on hand-derived values.
func expectedScore(corpus index.Corpus, query string, row int, popularity float64) float64 {
	model := index.Fit(corpus)
	sim := index.Similarity(model.Transform(query), model.DocVector(row))
	raw := SimilarityWeight*sim + PopularityWeight*popularity
	return math.Round(raw*10000) / 10000
}

func TestRankFusesSimilarityAndPopularity(t *testing.T) {
	t.Parallel()

	corpus := rankedCorpus()
	engine := NewEngine(corpus, zap.NewNop())

	results := engine.Rank("go concurrency", 10)
	require.Len(t, results, 3)

	// The concurrency article matches the query best despite zero claps.
	assert.Equal(t, "https://medium.com/p/1", results[0].URL)
	assert.Equal(t, 0, results[0].Claps)

	// Popularity spans claps 0..100, so the scale is row claps / 100.
	wantTop := expectedScore(corpus, "go concurrency", 0, 0.0)
	assert.InDelta(t, wantTop, results[0].RelevanceScore, 1e-9)

	for i := 1; i < len(results); i++ {
		assert.GreaterOrEqual(t, results[i-1].RelevanceScore, results[i].RelevanceScore)
	}
}

func TestRankEmptyQueryOrdersByPopularity(t *testing.T) {
	t.Parallel()

	corpus := rankedCorpus()
	engine := NewEngine(corpus, zap.NewNop())

	results := engine.Rank("", 10)
	require.Len(t, results, 3)
	assert.Equal(t, []int{100, 50, 0},
		[]int{results[0].Claps, results[1].Claps, results[2].Claps})

	// Pure popularity: 0.3 * claps/100, rounded to 4 decimals.
	assert.InDelta(t, 0.3, results[0].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.15, results[1].RelevanceScore, 1e-9)
	assert.InDelta(t, 0.0, results[2].RelevanceScore, 1e-9)
}

func TestRankEqualClapsUseNeutralPopularity(t *testing.T) {
	t.Parallel()

	articles := make([]article.Article, 3)
	for i, title := range []string{"First post", "Second post", "Third post"} {
		a := article.New("https://medium.com/p")
		a.Title = title
		a.Claps = 42
		articles[i] = a
	}
	engine := NewEngine(index.BuildCorpus(articles), zap.NewNop())

	results := engine.Rank("", 10)
	require.Len(t, results, 3)
	for _, r := range results {
		assert.InDelta(t, 0.3*0.5, r.RelevanceScore, 1e-9)
	}
	// Equal scores keep corpus order.
	assert.Equal(t, "First post", results[0].Title)
	assert.Equal(t, "Second post", results[1].Title)
	assert.Equal(t, "Third post", results[2].Title)
}

func TestRankClampsTopNToCorpusSize(t *testing.T) {
	t.Parallel()

	engine := NewEngine(rankedCorpus(), zap.NewNop())

	assert.Len(t, engine.Rank("go", 2), 2)
	assert.Len(t, engine.Rank("go", 50), 3)
}

func TestRankRoundsToFourDecimals(t *testing.T) {
	t.Parallel()

	engine := NewEngine(rankedCorpus(), zap.NewNop())

	for _, r := range engine.Rank("go profiling concurrency", 10) {
		scaled := r.RelevanceScore * 10000
		assert.InDelta(t, math.Round(scaled), scaled, 1e-6)
	}
}

func TestRankEmptyCorpus(t *testing.T) {
	t.Parallel()

	engine := NewEngine(index.Corpus{}, zap.NewNop())
	assert.Empty(t, engine.Rank("anything", 10))
	assert.Zero(t, engine.Size())
}
