// Package article defines the scraped article record and its CSV field types.
package article

import (
	"strconv"
	"strings"
)

// NotAvailable is the sentinel written for any string field that no
// extraction layer could resolve.
const NotAvailable = "N/A"

// Article is one scraped Medium post. Every field carries a defined
// default, so a record is always complete regardless of how much of the
// page the extractor managed to resolve.
type Article struct {
	URL               string    `csv:"URL"`
	Title             string    `csv:"Title"`
	Subtitle          string    `csv:"Subtitle"`
	Text              string    `csv:"Text"`
	ImageCount        int       `csv:"No. of images"`
	ImageURLs         CommaList `csv:"Image URLs"`
	ExternalLinkCount int       `csv:"No. of external links"`
	AuthorName        string    `csv:"Author Name"`
	AuthorURL         string    `csv:"Author URL"`
	Claps             ClapCount `csv:"Claps"`
	ReadingTime       string    `csv:"Reading Time"`
	Keywords          CommaList `csv:"Keywords"`
}

// New returns an Article with every field set to its sentinel or zero
// default. Extraction layers overwrite what they can resolve.
func New(url string) Article {
	return Article{
		URL:         url,
		Title:       NotAvailable,
		Subtitle:    NotAvailable,
		Text:        NotAvailable,
		AuthorName:  NotAvailable,
		AuthorURL:   NotAvailable,
		ReadingTime: NotAvailable,
	}
}

// SearchText builds the synthetic field the index is fitted over:
// title, subtitle, text and keywords joined with single spaces.
// Sentinel values contribute an empty string so concatenation positions
// stay consistent.
func (a Article) SearchText() string {
	parts := []string{
		searchable(a.Title),
		searchable(a.Subtitle),
		searchable(a.Text),
		a.Keywords.join(),
	}
	return strings.Join(parts, " ")
}

func searchable(s string) string {
	if s == NotAvailable {
		return ""
	}
	return s
}

// CommaList is an ordered sequence of strings serialized as
// comma-joined text in the CSV snapshot.
type CommaList []string

// MarshalCSV implements gocsv custom marshaling.
func (l CommaList) MarshalCSV() (string, error) {
	return l.join(), nil
}

// UnmarshalCSV implements gocsv custom unmarshaling.
func (l *CommaList) UnmarshalCSV(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		*l = nil
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	*l = out
	return nil
}

func (l CommaList) join() string {
	return strings.Join(l, ", ")
}

// ClapCount is the popularity signal. Malformed or negative snapshot
// values coerce to 0 instead of failing the record.
type ClapCount int

// MarshalCSV implements gocsv custom marshaling.
func (c ClapCount) MarshalCSV() (string, error) {
	return strconv.Itoa(int(c)), nil
}

// UnmarshalCSV implements gocsv custom unmarshaling.
func (c *ClapCount) UnmarshalCSV(value string) error {
	*c = CoerceClaps(value)
	return nil
}

// CoerceClaps parses a claps value from untrusted snapshot text.
// Integer and float forms are accepted; anything else, including
// negative counts, becomes 0.
func CoerceClaps(value string) ClapCount {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		if n < 0 {
			return 0
		}
		return ClapCount(n)
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil {
		if f < 0 {
			return 0
		}
		return ClapCount(int(f))
	}
	return 0
}
