// internal/retrieval/extractors_test.go
package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func hitWith(title, snippet, answer, content string, highlight []string) Hit {
	var h Hit
	h.Source.Title = title
	h.Source.Snippet = snippet
	h.Source.ExtractiveAnswer = answer
	h.Source.Content = content
	if highlight != nil {
		h.Highlight = map[string][]string{"content": highlight}
	}
	return h
}

func TestExcerpt_PreferenceOrder(t *testing.T) {
	tests := []struct {
		name        string
		hit         Hit
		wantText    string
		wantVia     string
	}{
		{
			name:     "highlight wins over everything",
			hit:      hitWith("Finance Act", "snippet text", "answer text", "body text", []string{"highlighted fragment"}),
			wantText: "highlighted fragment",
			wantVia:  "highlight",
		},
		{
			name:     "extractive answer when no highlight",
			hit:      hitWith("Finance Act", "snippet text", "answer text", "body text", nil),
			wantText: "answer text",
			wantVia:  "extractive_answer",
		},
		{
			name:     "snippet when no answer",
			hit:      hitWith("Finance Act", "snippet text", "", "body text", nil),
			wantText: "snippet text",
			wantVia:  "snippet",
		},
		{
			name:     "body prefix as last resort",
			hit:      hitWith("Finance Act", "", "", "body text", nil),
			wantText: "body text",
			wantVia:  "content",
		},
		{
			name:     "empty highlight list falls through",
			hit:      hitWith("Finance Act", "snippet text", "", "", []string{}),
			wantText: "snippet text",
			wantVia:  "snippet",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, via := Excerpt(tt.hit, DefaultExtractors)
			assert.Equal(t, tt.wantText, text)
			assert.Equal(t, tt.wantVia, via)
		})
	}
}

func TestExcerpt_NothingUsable(t *testing.T) {
	text, via := Excerpt(hitWith("Finance Act", "", "", "", nil), DefaultExtractors)
	assert.Empty(t, text)
	assert.Empty(t, via)
}

func TestExcerpt_BodyPrefixBounded(t *testing.T) {
	long := strings.Repeat("x", 2*maxBodyExcerpt)
	text, via := Excerpt(hitWith("Finance Act", "", "", long, nil), DefaultExtractors)
	assert.Equal(t, "content", via)
	assert.Len(t, text, maxBodyExcerpt)
}

func TestExpandQuery(t *testing.T) {
	assert.Equal(t, "VAT deadline Nigeria", ExpandQuery("VAT deadline"))
	assert.Equal(t, "Nigerian CIT rates", ExpandQuery("  Nigerian   CIT rates "))
	assert.Equal(t, "levies in Nigeria", ExpandQuery("levies in Nigeria"))
}
