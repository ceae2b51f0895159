// internal/dashboard/client.go
package dashboard

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"betabot/internal/models"
)

// Client calls the BetaBot backend on behalf of the dashboard. One request at
// a time; transport failures surface to the UI as error turns, never retried.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a backend client for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// AskResult carries the decoded answer plus the raw response payload for the
// inspector panel.
type AskResult struct {
	Answer models.Answer
	Raw    string
}

// Ask posts one question and decodes the answer.
func (c *Client) Ask(ctx context.Context, question string, mode models.Mode) (*AskResult, error) {
	payload, err := json.Marshal(map[string]string{
		"query": question,
		"mode":  string(mode),
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ask", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var httpErr struct {
			Message string `json:"message"`
		}
		if json.Unmarshal(raw, &httpErr) == nil && httpErr.Message != "" {
			return nil, fmt.Errorf("backend rejected the question: %s", httpErr.Message)
		}
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	var answer models.Answer
	if err := json.Unmarshal(raw, &answer); err != nil {
		return nil, fmt.Errorf("decode answer: %w", err)
	}

	return &AskResult{Answer: answer, Raw: prettyJSON(raw)}, nil
}

// Recent lists the latest answered queries.
func (c *Client) Recent(ctx context.Context, n int) ([]models.LogEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/recent?limit=%d", c.baseURL, n), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("backend returned %s", resp.Status)
	}

	var body struct {
		Entries []models.LogEntry `json:"entries"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode listing: %w", err)
	}

	return body.Entries, nil
}

func prettyJSON(raw []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return string(raw)
	}
	return buf.String()
}
