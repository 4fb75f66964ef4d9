package scraper

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Medium hydrates its pages through a __NEXT_DATA__ script element.
// The payload schema is an external contract that changes without
// notice; every piece of knowledge about it lives in this file.

const authorBaseURL = "https://medium.com/@"

type nextData struct {
	Props struct {
		PageProps struct {
			PageData *nextPageData `json:"pageData"`
			Post     *nextPost     `json:"post"`
		} `json:"pageProps"`
	} `json:"props"`
}

type nextPageData struct {
	Post *nextPost `json:"post"`
	User *nextUser `json:"user"`
}

type nextPost struct {
	Title     string    `json:"title"`
	CreatorID string    `json:"creatorId"`
	Creator   *nextUser `json:"creator"`
	Virtuals  struct {
		Subtitle       string  `json:"subtitle"`
		TotalClapCount int     `json:"totalClapCount"`
		ReadingTime    float64 `json:"readingTime"`
		Tags           []struct {
			Name string `json:"name"`
		} `json:"tags"`
	} `json:"virtuals"`
	Content struct {
		BodyModel struct {
			Paragraphs []struct {
				Text string `json:"text"`
			} `json:"paragraphs"`
		} `json:"bodyModel"`
	} `json:"content"`
}

type nextUser struct {
	UserID   string `json:"userId"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// hydration is the resolved slice of the payload: the post object plus
// the companion user object, when present.
type hydration struct {
	post *nextPost
	user *nextUser
}

// parseHydration locates and decodes the embedded JSON payload.
// It returns nil when the script element is absent, the JSON is
// malformed, or neither known post path resolves; callers fall through
// to the HTML heuristic layer.
func parseHydration(doc *goquery.Document) *hydration {
	raw := strings.TrimSpace(doc.Find("script#__NEXT_DATA__").First().Text())
	if raw == "" {
		return nil
	}
	var data nextData
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil
	}

	pageProps := data.Props.PageProps
	var (
		post *nextPost
		user *nextUser
	)
	if pageProps.PageData != nil {
		post = pageProps.PageData.Post
		user = pageProps.PageData.User
	}
	if post == nil {
		post = pageProps.Post
	}
	if post == nil {
		return nil
	}
	return &hydration{post: post, user: user}
}

// author resolves the post author: the companion user object when its
// id matches the post's creator, else the embedded creator sub-object.
func (h *hydration) author() (name, url string) {
	if h.user != nil && h.user.UserID == h.post.CreatorID {
		return h.user.Name, authorBaseURL + h.user.Username
	}
	if h.post.Creator != nil {
		return h.post.Creator.Name, authorBaseURL + h.post.Creator.Username
	}
	return "", ""
}

// tagNames flattens the post's tag objects into keyword strings.
func (h *hydration) tagNames() []string {
	tags := h.post.Virtuals.Tags
	if len(tags) == 0 {
		return nil
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		if t.Name != "" {
			names = append(names, t.Name)
		}
	}
	return names
}

// bodyText concatenates the text of all paragraph entries.
func (h *hydration) bodyText() string {
	paragraphs := h.post.Content.BodyModel.Paragraphs
	if len(paragraphs) == 0 {
		return ""
	}
	texts := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		texts = append(texts, p.Text)
	}
	return strings.TrimSpace(strings.Join(texts, " "))
}
