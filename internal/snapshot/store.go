// Package snapshot persists the scraped corpus as a flat CSV file,
// written in one batch after the full URL list is processed.
package snapshot

import (
	"fmt"
	"os"

	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/article"
)

// Store reads and writes the CSV snapshot at a fixed path.
type Store struct {
	path   string
	logger *zap.Logger
}

// NewStore returns a Store rooted at path.
func NewStore(path string, logger *zap.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Path returns the snapshot location.
func (s *Store) Path() string {
	return s.path
}

// Write materializes the articles as one CSV snapshot. Writing an
// empty corpus is refused; callers must surface that condition instead.
func (s *Store) Write(articles []article.Article) error {
	if len(articles) == 0 {
		return fmt.Errorf("write snapshot %s: empty corpus", s.path)
	}
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("create snapshot %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("close snapshot", zap.String("path", s.path), zap.Error(cerr))
		}
	}()

	if err := gocsv.MarshalFile(&articles, f); err != nil {
		return fmt.Errorf("marshal snapshot %s: %w", s.path, err)
	}
	s.logger.Info("snapshot written",
		zap.String("path", s.path),
		zap.Int("articles", len(articles)),
	)
	return nil
}

// Read loads the snapshot back into Article records. Malformed claps
// values coerce to 0 during unmarshaling; they never fail the load.
func (s *Store) Read() ([]article.Article, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", s.path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("close snapshot", zap.String("path", s.path), zap.Error(cerr))
		}
	}()

	var articles []article.Article
	if err := gocsv.UnmarshalFile(f, &articles); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot %s: %w", s.path, err)
	}
	return articles, nil
}
