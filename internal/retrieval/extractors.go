// internal/retrieval/extractors.go
package retrieval

import "strings"

// maxBodyExcerpt bounds the raw-body fallback so a full statute never lands
// in the prompt.
const maxBodyExcerpt = 400

// Hit is one decoded search result. The index was populated from several
// ingestion pipelines, so any of the excerpt fields may be missing.
type Hit struct {
	Source struct {
		Title            string `json:"title"`
		Snippet          string `json:"snippet"`
		ExtractiveAnswer string `json:"extractive_answer"`
		Content          string `json:"content"`
	} `json:"_source"`
	Highlight map[string][]string `json:"highlight"`
}

// Extractor locates an excerpt inside a hit. Extract returns "" when the
// field it targets is absent or empty.
type Extractor struct {
	Name    string
	Extract func(hit Hit) string
}

// DefaultExtractors is the ordered preference chain for locating an excerpt:
// highlighted fragment, extractive answer, stored snippet, then a bounded
// prefix of the raw body. The first non-empty match wins.
var DefaultExtractors = []Extractor{
	{
		Name: "highlight",
		Extract: func(hit Hit) string {
			fragments := hit.Highlight["content"]
			if len(fragments) == 0 {
				return ""
			}
			return strings.TrimSpace(fragments[0])
		},
	},
	{
		Name: "extractive_answer",
		Extract: func(hit Hit) string {
			return strings.TrimSpace(hit.Source.ExtractiveAnswer)
		},
	},
	{
		Name: "snippet",
		Extract: func(hit Hit) string {
			return strings.TrimSpace(hit.Source.Snippet)
		},
	},
	{
		Name: "content",
		Extract: func(hit Hit) string {
			body := strings.TrimSpace(hit.Source.Content)
			if len(body) > maxBodyExcerpt {
				body = body[:maxBodyExcerpt]
			}
			return body
		},
	},
}

// Excerpt runs the chain in priority order and returns the first non-empty
// match along with the extractor that produced it.
func Excerpt(hit Hit, chain []Extractor) (string, string) {
	for _, ex := range chain {
		if text := ex.Extract(hit); text != "" {
			return text, ex.Name
		}
	}
	return "", ""
}
