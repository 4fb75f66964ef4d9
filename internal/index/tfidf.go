package index

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Vectorizer is a TF-IDF weighting model fitted once over a corpus
// snapshot. It is immutable after Fit and safe for concurrent reads;
// rebuilding requires reloading the whole corpus.
type Vectorizer struct {
	idf      map[string]float64
	vectors  []map[string]float64
	docCount int
}

// Fit builds the vocabulary and idf weights from the corpus search
// text and produces one L2-normalized sparse weight vector per row.
// idf uses the smoothed form ln((1+n)/(1+df)) + 1.
func Fit(corpus Corpus) *Vectorizer {
	n := corpus.Len()
	tokenized := make([][]string, n)
	df := make(map[string]int)

	for i, doc := range corpus.Docs {
		tokens := Tokenize(doc.SearchText)
		tokenized[i] = tokens
		seen := make(map[string]struct{}, len(tokens))
		for _, t := range tokens {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	idf := make(map[string]float64, len(df))
	for term, count := range df {
		idf[term] = math.Log(float64(1+n)/float64(1+count)) + 1
	}

	v := &Vectorizer{idf: idf, docCount: n}
	v.vectors = make([]map[string]float64, n)
	for i, tokens := range tokenized {
		v.vectors[i] = v.vectorize(tokens)
	}
	return v
}

// DocCount returns the number of fitted document vectors.
func (v *Vectorizer) DocCount() int {
	return v.docCount
}

// VocabSize returns the number of fitted terms.
func (v *Vectorizer) VocabSize() int {
	return len(v.idf)
}

// DocVector returns the fitted weight vector for a corpus row.
func (v *Vectorizer) DocVector(row int) map[string]float64 {
	return v.vectors[row]
}

// Transform projects free text into the fitted vocabulary space using
// the same weighting as Fit. Out-of-vocabulary terms contribute zero.
func (v *Vectorizer) Transform(text string) map[string]float64 {
	return v.vectorize(Tokenize(text))
}

func (v *Vectorizer) vectorize(tokens []string) map[string]float64 {
	counts := make(map[string]float64)
	for _, t := range tokens {
		if _, ok := v.idf[t]; ok {
			counts[t]++
		}
	}

	vec := make(map[string]float64, len(counts))
	var sumSquares float64
	for term, tf := range counts {
		w := tf * v.idf[term]
		vec[term] = w
		sumSquares += w * w
	}
	if sumSquares > 0 {
		norm := math.Sqrt(sumSquares)
		for term := range vec {
			vec[term] /= norm
		}
	}
	return vec
}

// Similarity is the dot product of two sparse vectors. Both sides are
// L2-normalized at construction, so this equals cosine similarity.
func Similarity(a, b map[string]float64) float64 {
	if len(b) < len(a) {
		a, b = b, a
	}
	var dot float64
	for term, w := range a {
		dot += w * b[term]
	}
	return dot
}

// Tokenize lowercases text and splits it into word tokens of at least
// two characters, excluding English stop words.
func Tokenize(text string) []string {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
	})
	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if utf8.RuneCountInString(w) < 2 {
			continue
		}
		if _, stop := stopWords[w]; stop {
			continue
		}
		tokens = append(tokens, w)
	}
	return tokens
}
