package scraper

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/omrzgit/medium-scraper-search/internal/article"
)

// Image sources are kept only when they point at Medium's content CDNs
// and do not carry the thumbnail size marker.
var contentCDNHosts = map[string]struct{}{
	"cdn-images-1.medium.com": {},
	"miro.medium.com":         {},
}

const thumbnailMarker = "w=40"

// Hosts whose links do not count as external: the platform itself and
// its syndication partner, including subdomains.
var sameSiteHosts = []string{"medium.com", "towardsdatascience.com"}

// Characters of page body text kept by the last-resort text fallback.
const bodyFallbackLimit = 500

// Extractor produces normalized Article records from raw page content.
// It never fails: each field is resolved by the first layer that yields
// a non-empty value, and sentinels fill whatever remains.
type Extractor struct {
	logger *zap.Logger
}

// NewExtractor builds an Extractor.
func NewExtractor(logger *zap.Logger) *Extractor {
	return &Extractor{logger: logger}
}

// resolver is one layer's attempt at resolving a single field.
// Layers are tried in order until one returns a non-empty value.
type resolver func() string

func firstNonEmpty(resolvers ...resolver) string {
	for _, r := range resolvers {
		if v := r(); v != "" {
			return v
		}
	}
	return ""
}

// Extract builds a best-effort Article from body for pageURL.
func (e *Extractor) Extract(body []byte, pageURL string) article.Article {
	a := article.New(pageURL)

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		e.logger.Warn("unparseable page, returning sentinel record",
			zap.String("url", pageURL), zap.Error(err))
		return a
	}

	h := parseHydration(doc)

	if v := firstNonEmpty(structuredTitle(h), headingText(doc, "h1")); v != "" {
		a.Title = v
	}
	if v := firstNonEmpty(structuredSubtitle(h), headingText(doc, "h2")); v != "" {
		a.Subtitle = v
	}
	if v := firstNonEmpty(structuredBody(h), mainContentText(doc), truncatedBodyText(doc)); v != "" {
		a.Text = v
	}

	if h != nil {
		if name, authorURL := h.author(); name != "" {
			a.AuthorName = name
			a.AuthorURL = authorURL
		}
		if claps := h.post.Virtuals.TotalClapCount; claps > 0 {
			a.Claps = article.ClapCount(claps)
		}
		if rt := h.post.Virtuals.ReadingTime; rt > 0 {
			a.ReadingTime = fmt.Sprintf("%d min", int(rt))
		}
		if tags := h.tagNames(); len(tags) > 0 {
			a.Keywords = tags
		}
	}

	a.ImageURLs = contentImages(doc)
	a.ImageCount = len(a.ImageURLs)
	a.ExternalLinkCount = countExternalLinks(doc, pageURL)

	return a
}

func structuredTitle(h *hydration) resolver {
	return func() string {
		if h == nil {
			return ""
		}
		return strings.TrimSpace(h.post.Title)
	}
}

func structuredSubtitle(h *hydration) resolver {
	return func() string {
		if h == nil {
			return ""
		}
		return strings.TrimSpace(h.post.Virtuals.Subtitle)
	}
}

func structuredBody(h *hydration) resolver {
	return func() string {
		if h == nil {
			return ""
		}
		return h.bodyText()
	}
}

func headingText(doc *goquery.Document, tag string) resolver {
	return func() string {
		return strings.TrimSpace(doc.Find(tag).First().Text())
	}
}

func mainContentText(doc *goquery.Document) resolver {
	return func() string {
		sel := doc.Find(`[role="main"]`).First()
		if sel.Length() == 0 {
			sel = doc.Find("article").First()
		}
		if sel.Length() == 0 {
			return ""
		}
		return normalizeSpace(sel.Text())
	}
}

func truncatedBodyText(doc *goquery.Document) resolver {
	return func() string {
		body := normalizeSpace(doc.Find("body").Text())
		if body == "" {
			return ""
		}
		runes := []rune(body)
		if len(runes) > bodyFallbackLimit {
			runes = runes[:bodyFallbackLimit]
		}
		return string(runes) + "..."
	}
}

func contentImages(doc *goquery.Document) article.CommaList {
	var urls article.CommaList
	doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		if _, ok := contentCDNHosts[hostOf(src)]; !ok {
			return
		}
		if strings.Contains(src, thumbnailMarker) {
			return
		}
		urls = append(urls, src)
	})
	return urls
}

func countExternalLinks(doc *goquery.Document, pageURL string) int {
	articleHost := hostOf(pageURL)
	count := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		host := hostOf(href)
		if host == "" || host == articleHost || isSameSiteHost(host) {
			return
		}
		count++
	})
	return count
}

func isSameSiteHost(host string) bool {
	for _, domain := range sameSiteHosts {
		if host == domain || strings.HasSuffix(host, "."+domain) {
			return true
		}
	}
	return false
}

func hostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
