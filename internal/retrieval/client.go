// internal/retrieval/client.go
package retrieval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"betabot/internal/common/database"
	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
	"betabot/internal/models"
)

// Client searches the compliance law index.
type Client struct {
	es     *database.ElasticsearchClient
	index  string
	chain  []Extractor
	logger logger.Logger
}

// NewClient creates a search client over the given index.
func NewClient(es *database.ElasticsearchClient, index string, log logger.Logger) *Client {
	return &Client{
		es:    es,
		index: index,
		chain: DefaultExtractors,
		logger: log.With(map[string]interface{}{
			"collaborator": "search",
			"index":        index,
		}),
	}
}

// Search returns up to k evidence items in the relevance order of the index.
func (c *Client) Search(ctx context.Context, query string, k int) ([]models.EvidenceItem, error) {
	expanded := ExpandQuery(query)

	body := map[string]interface{}{
		"size": k,
		"query": map[string]interface{}{
			"match": map[string]interface{}{
				"content": map[string]interface{}{
					"query": expanded,
				},
			},
		},
		"highlight": map[string]interface{}{
			"fields": map[string]interface{}{
				"content": map[string]interface{}{},
			},
		},
	}

	buf, err := json.Marshal(body)
	if err != nil {
		return nil, stderrors.NewSearchQueryFailedError(err)
	}

	res, err := c.es.Client.Search(
		c.es.Client.Search.WithContext(ctx),
		c.es.Client.Search.WithIndex(c.index),
		c.es.Client.Search.WithBody(bytes.NewReader(buf)),
	)
	if err != nil {
		return nil, stderrors.NewSearchUnavailableError(err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, stderrors.NewSearchQueryFailedError(fmt.Errorf("search returned %s", res.Status()))
	}

	var parsed struct {
		Hits struct {
			Hits []Hit `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, stderrors.NewSearchQueryFailedError(err)
	}

	items := make([]models.EvidenceItem, 0, len(parsed.Hits.Hits))
	for i, hit := range parsed.Hits.Hits {
		excerpt, via := Excerpt(hit, c.chain)
		if excerpt == "" {
			continue
		}

		label := strings.TrimSpace(hit.Source.Title)
		if label == "" {
			label = fmt.Sprintf("Document %d", i+1)
		}

		items = append(items, models.EvidenceItem{Label: label, Content: excerpt})

		c.logger.Debug("excerpt extracted", map[string]interface{}{
			"label": label,
			"via":   via,
		})
	}

	if len(items) > k {
		items = items[:k]
	}

	c.logger.Info("search completed", map[string]interface{}{
		"query":       expanded,
		"resultCount": len(items),
	})

	return items, nil
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// ExpandQuery lightly scopes the raw question to the Nigerian domain so the
// index does not match foreign statutes. Deterministic.
func ExpandQuery(query string) string {
	expanded := strings.TrimSpace(query)
	if !strings.Contains(strings.ToLower(expanded), "nigeria") {
		expanded += " Nigeria"
	}
	return whitespaceRe.ReplaceAllString(expanded, " ")
}

// Unavailable is the explicit offline variant used when the search client
// could not be constructed at startup. Every call reports the collaborator
// as down; the orchestrator recovers with the fallback block.
type Unavailable struct {
	Err error
}

func (u Unavailable) Search(ctx context.Context, query string, k int) ([]models.EvidenceItem, error) {
	return nil, stderrors.NewSearchUnavailableError(u.Err)
}
