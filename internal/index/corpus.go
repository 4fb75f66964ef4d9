// Package index builds the searchable corpus and fits the TF-IDF term
// index over it.
package index

import (
	"github.com/omrzgit/medium-scraper-search/internal/article"
)

// Document is one corpus row: the article, its synthetic search text,
// and its coerced popularity signal.
type Document struct {
	Article    article.Article
	SearchText string
	Claps      int
}

// Corpus is an ordered document collection. Row position doubles as the
// vector index into the fitted weight matrix and stays stable for the
// lifetime of one loaded snapshot.
type Corpus struct {
	Docs []Document
}

// BuildCorpus derives the search text and coerced claps for each
// article, preserving input order.
func BuildCorpus(articles []article.Article) Corpus {
	docs := make([]Document, 0, len(articles))
	for _, a := range articles {
		claps := int(a.Claps)
		if claps < 0 {
			claps = 0
		}
		docs = append(docs, Document{
			Article:    a,
			SearchText: a.SearchText(),
			Claps:      claps,
		})
	}
	return Corpus{Docs: docs}
}

// Len returns the number of corpus rows.
func (c Corpus) Len() int {
	return len(c.Docs)
}
