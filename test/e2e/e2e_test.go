// test/e2e/e2e_test.go
package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"betabot/internal/common/logger"
	"betabot/internal/models"
	"betabot/internal/orchestrator"
	"betabot/internal/querylog"
	"betabot/internal/retrieval"
	"betabot/internal/server"
)

var zapLog *zap.Logger

func TestMain(m *testing.M) {
	zapLog, _ = zap.NewDevelopment()
	code := m.Run()
	_ = zapLog.Sync()
	os.Exit(code)
}

// ==========================
// Collaborator Stubs
// ==========================

type fixedSearcher struct {
	items []models.EvidenceItem
	err   error
}

func (s fixedSearcher) Search(ctx context.Context, query string, k int) ([]models.EvidenceItem, error) {
	return s.items, s.err
}

type fixedIndicators struct {
	snaps []models.EconomicSnapshot
	err   error
}

func (s fixedIndicators) Snapshot(ctx context.Context) ([]models.EconomicSnapshot, error) {
	return s.snaps, s.err
}

type scriptedGenerator struct {
	reply   string
	err     error
	prompts []string
}

func (s *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	if s.err != nil {
		return "", s.err
	}
	return s.reply, nil
}

func (s *scriptedGenerator) ModelID() string { return "e2e-model" }

// ==========================
// Harness
// ==========================

type harness struct {
	ts  *httptest.Server
	gen *scriptedGenerator
}

func newHarness(t *testing.T, search orchestrator.Searcher, ind orchestrator.Indicators, gen *scriptedGenerator, rec orchestrator.Recorder, activity server.ActivityLog) *harness {
	t.Helper()

	log := logger.NewZapAdapter(zapLog)
	engine := orchestrator.New(search, ind, gen, rec, nil, log)
	srv := server.New(engine, activity, server.Collaborators{Search: true, Generation: true}, log)

	ts := httptest.NewServer(srv.Router())
	t.Cleanup(ts.Close)

	return &harness{ts: ts, gen: gen}
}

func (h *harness) ask(t *testing.T, body string) (*http.Response, map[string]interface{}) {
	t.Helper()

	resp, err := http.Post(h.ts.URL+"/ask", "application/json", bytes.NewBufferString(body))
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	var decoded map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	return resp, decoded
}

// ==========================
// End-to-End Flows
// ==========================

func TestTaxFlowOverHTTP(t *testing.T) {
	gen := &scriptedGenerator{reply: "- VAT returns are due by the 21st of the following month."}
	h := newHarness(t,
		fixedSearcher{items: []models.EvidenceItem{{Label: "Finance Act 2023", Content: "VAT due 21st"}}},
		fixedIndicators{snaps: []models.EconomicSnapshot{{Indicator: "GDP growth (annual %)", Year: 2024, Value: 3.4}}},
		gen, querylog.NoOp{}, querylog.NoOp{})

	resp, body := h.ask(t, `{"query": "What is the VAT deadline?"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "- VAT returns are due by the 21st of the following month.", body["answer"])
	assert.Equal(t, "e2e-model", body["model_used"])
	assert.NotEmpty(t, body["request_id"])

	latency, ok := body["latency_ms"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, latency, 0.0)

	sources, ok := body["sources"].([]interface{})
	require.True(t, ok)
	require.Len(t, sources, 1)
	first := sources[0].(map[string]interface{})
	assert.Equal(t, "Finance Act 2023", first["label"])
	assert.Equal(t, "VAT due 21st", first["content"])

	assert.Contains(t, body["economic_data"], "GDP growth (annual %) (2024): 3.40")

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "VAT due 21st")
	assert.Contains(t, gen.prompts[0], "QUESTION: What is the VAT deadline?")
}

func TestTherapyFlowOverHTTP(t *testing.T) {
	gen := &scriptedGenerator{reply: "That sounds like a lot to carry."}
	h := newHarness(t,
		fixedSearcher{err: fmt.Errorf("search must not be called")},
		fixedIndicators{err: fmt.Errorf("warehouse must not be called")},
		gen, querylog.NoOp{}, querylog.NoOp{})

	resp, body := h.ask(t, `{"query": "I feel overwhelmed by my debts", "mode": "therapy"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "That sounds like a lot to carry.", body["answer"])

	// Therapy answers carry no retrieval or analytics context.
	sources, _ := body["sources"].([]interface{})
	assert.Empty(t, sources)
	_, hasEcon := body["economic_data"]
	assert.False(t, hasEcon)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], "I feel overwhelmed by my debts")
	assert.NotContains(t, gen.prompts[0], "LEGAL CONTEXT")
}

func TestFallbackKnowledgeOverHTTP(t *testing.T) {
	gen := &scriptedGenerator{reply: "The standard VAT rate is 7.5%."}
	h := newHarness(t,
		fixedSearcher{err: fmt.Errorf("index offline")},
		fixedIndicators{},
		gen, querylog.NoOp{}, querylog.NoOp{})

	resp, body := h.ask(t, `{"question": "What is the VAT rate?"}`)

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	sources, ok := body["sources"].([]interface{})
	require.True(t, ok)
	require.Len(t, sources, 1)
	first := sources[0].(map[string]interface{})
	assert.Equal(t, retrieval.FallbackLabel, first["label"])

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], retrieval.FallbackBlock)
}

func TestDegradedGenerationOverHTTP(t *testing.T) {
	gen := &scriptedGenerator{err: fmt.Errorf("model offline")}
	h := newHarness(t,
		fixedSearcher{},
		fixedIndicators{err: fmt.Errorf("warehouse offline")},
		gen, querylog.NoOp{}, querylog.NoOp{})

	resp, body := h.ask(t, `{"query": "What is CIT?"}`)

	// Collaborator failures never surface as HTTP errors.
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, orchestrator.Apology, body["answer"])
	assert.NotEmpty(t, body["answer"])
}

func TestInvalidInputOverHTTP(t *testing.T) {
	gen := &scriptedGenerator{reply: "never"}
	h := newHarness(t, fixedSearcher{}, fixedIndicators{}, gen, querylog.NoOp{}, querylog.NoOp{})

	for _, body := range []string{`{}`, `{"query": ""}`, `{"query": "  "}`, `{"mode": "tax"}`} {
		resp, decoded := h.ask(t, body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body: %s", body)
		assert.Equal(t, "INVALID_INPUT", decoded["code"], "body: %s", body)
	}

	assert.Empty(t, gen.prompts)
}

func TestEvidenceTruncationOverHTTP(t *testing.T) {
	items := make([]models.EvidenceItem, 6)
	for i := range items {
		items[i] = models.EvidenceItem{Label: fmt.Sprintf("Doc %d", i+1), Content: "excerpt"}
	}
	gen := &scriptedGenerator{reply: "answer"}
	h := newHarness(t, fixedSearcher{items: items}, fixedIndicators{}, gen, querylog.NoOp{}, querylog.NoOp{})

	_, body := h.ask(t, `{"query": "Which levies apply to my shop?"}`)

	sources, ok := body["sources"].([]interface{})
	require.True(t, ok)
	require.Len(t, sources, 3)
	assert.Equal(t, "Doc 1", sources[0].(map[string]interface{})["label"])
	assert.Equal(t, "Doc 3", sources[2].(map[string]interface{})["label"])
}

func TestQueryLogVisibleViaRecent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	store := querylog.NewStore(rdb, logger.NewZapAdapter(zapLog))
	gen := &scriptedGenerator{reply: "answer"}
	h := newHarness(t, fixedSearcher{}, fixedIndicators{}, gen, store, store)

	h.ask(t, `{"query": "What is PAYE?"}`)
	h.ask(t, `{"query": "What is a TIN?"}`)

	resp, err := http.Get(h.ts.URL + "/recent?limit=10")
	require.NoError(t, err)
	defer resp.Body.Close()

	var listing struct {
		Entries []models.LogEntry `json:"entries"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&listing))
	require.Len(t, listing.Entries, 2)

	// Newest first.
	assert.Equal(t, "What is a TIN?", listing.Entries[0].Query)
	assert.Equal(t, "What is PAYE?", listing.Entries[1].Query)
	assert.WithinDuration(t, time.Now().UTC(), listing.Entries[0].AnsweredAt, time.Minute)
}

func TestHealthAndMetricsOverHTTP(t *testing.T) {
	gen := &scriptedGenerator{reply: "answer"}
	h := newHarness(t, fixedSearcher{}, fixedIndicators{}, gen, querylog.NoOp{}, querylog.NoOp{})

	resp, err := http.Get(h.ts.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	metricsResp, err := http.Get(h.ts.URL + "/metrics")
	require.NoError(t, err)
	defer metricsResp.Body.Close()
	assert.Equal(t, http.StatusOK, metricsResp.StatusCode)
}
