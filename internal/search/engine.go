// Package search answers free-text queries over a fitted corpus with a
// fused textual-similarity + popularity relevance score.
package search

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/index"
)

// Fixed fusion weights. Not user-configurable; named so tests can
// verify the fused-score arithmetic.
const (
	SimilarityWeight = 0.7
	PopularityWeight = 0.3
)

// neutralPopularity is assigned to every row when all claps values are
// equal, avoiding division by zero without biasing ties.
const neutralPopularity = 0.5

// Bounds on the top_n query parameter.
const (
	DefaultTopN = 10
	MaxTopN     = 100
)

// ScoredArticle is one ranked search result.
type ScoredArticle struct {
	Title          string  `json:"Title"`
	URL            string  `json:"URL"`
	Claps          int     `json:"Claps"`
	RelevanceScore float64 `json:"Relevance_Score"`
}

// Engine holds the immutable corpus snapshot, the fitted TF-IDF model
// and the precomputed popularity scale. Queries are pure reads and safe
// to serve concurrently.
type Engine struct {
	corpus     index.Corpus
	model      *index.Vectorizer
	popularity []float64
	logger     *zap.Logger
}

// NewEngine fits the TF-IDF model over the corpus. This is the one-time
// blocking initialization that must complete before queries are served.
func NewEngine(corpus index.Corpus, logger *zap.Logger) *Engine {
	e := &Engine{
		corpus:     corpus,
		model:      index.Fit(corpus),
		popularity: normalizePopularity(corpus),
		logger:     logger,
	}
	logger.Info("search engine ready",
		zap.Int("articles", corpus.Len()),
		zap.Int("vocabulary", e.model.VocabSize()),
	)
	return e
}

// Size returns the number of indexed articles.
func (e *Engine) Size() int {
	return e.corpus.Len()
}

// Rank scores every corpus row against the query and returns the top
// topN results, length min(topN, corpus size). Equal fused scores keep
// their original corpus row order. Scores are rounded to 4 decimals.
// An empty or out-of-vocabulary query contributes zero similarity for
// every row, so ranking reduces to pure popularity ordering.
func (e *Engine) Rank(query string, topN int) []ScoredArticle {
	queryVec := e.model.Transform(query)

	type scoredRow struct {
		row   int
		score float64
	}
	rows := make([]scoredRow, e.corpus.Len())
	for i := range e.corpus.Docs {
		sim := index.Similarity(queryVec, e.model.DocVector(i))
		rows[i] = scoredRow{
			row:   i,
			score: SimilarityWeight*sim + PopularityWeight*e.popularity[i],
		}
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].score > rows[j].score
	})

	if topN > len(rows) {
		topN = len(rows)
	}
	results := make([]ScoredArticle, 0, topN)
	for _, r := range rows[:topN] {
		doc := e.corpus.Docs[r.row]
		results = append(results, ScoredArticle{
			Title:          doc.Article.Title,
			URL:            doc.Article.URL,
			Claps:          doc.Claps,
			RelevanceScore: round4(r.score),
		})
	}
	return results
}

// normalizePopularity min-max scales claps to [0,1] across the corpus.
func normalizePopularity(corpus index.Corpus) []float64 {
	n := corpus.Len()
	out := make([]float64, n)
	if n == 0 {
		return out
	}

	minClaps, maxClaps := corpus.Docs[0].Claps, corpus.Docs[0].Claps
	for _, doc := range corpus.Docs[1:] {
		if doc.Claps < minClaps {
			minClaps = doc.Claps
		}
		if doc.Claps > maxClaps {
			maxClaps = doc.Claps
		}
	}

	if maxClaps == minClaps {
		for i := range out {
			out[i] = neutralPopularity
		}
		return out
	}
	span := float64(maxClaps - minClaps)
	for i, doc := range corpus.Docs {
		out[i] = float64(doc.Claps-minClaps) / span
	}
	return out
}

func round4(f float64) float64 {
	return math.Round(f*10000) / 10000
}
