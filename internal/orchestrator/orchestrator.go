// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	stderrors "betabot/internal/common/errors"
	"betabot/internal/common/logger"
	"betabot/internal/common/metrics"
	"betabot/internal/common/observability"
	"betabot/internal/models"
	"betabot/internal/retrieval"
	"betabot/internal/warehouse"
)

// MaxEvidence bounds the evidence attached to an answer.
const MaxEvidence = 3

// Searcher is the document-search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]models.EvidenceItem, error)
}

// Indicators is the analytics-warehouse collaborator.
type Indicators interface {
	Snapshot(ctx context.Context) ([]models.EconomicSnapshot, error)
}

// Generator is the text-generation collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
	ModelID() string
}

// Recorder receives best-effort activity log entries.
type Recorder interface {
	Record(ctx context.Context, entry models.LogEntry) error
}

// Orchestrator runs the query flow: mode dispatch, optional retrieval and
// analytics, prompt assembly, one generation call. Stateless; safe under
// concurrent requests.
type Orchestrator struct {
	search     Searcher
	indicators Indicators
	gen        Generator
	recorder   Recorder
	obs        *observability.Observability
	logger     logger.Logger
}

// New wires the orchestrator with its collaborators. All dependencies are
// required; use the explicit Unavailable/NoOp variants rather than nil.
func New(search Searcher, indicators Indicators, gen Generator, recorder Recorder, obs *observability.Observability, log logger.Logger) *Orchestrator {
	return &Orchestrator{
		search:     search,
		indicators: indicators,
		gen:        gen,
		recorder:   recorder,
		obs:        obs,
		logger: log.With(map[string]interface{}{
			"component": "orchestrator",
		}),
	}
}

// Ask answers one query. It fails only on invalid input; collaborator
// failures degrade the answer instead of propagating.
func (o *Orchestrator) Ask(ctx context.Context, q models.Query) (*models.Answer, error) {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		return nil, stderrors.NewInvalidInputError("query text is empty")
	}

	q = q.Normalized()
	start := time.Now()
	requestID := uuid.New().String()

	log := o.logger.With(map[string]interface{}{
		"requestId": requestID,
		"mode":      string(q.Mode),
	})
	log.Info("processing query", map[string]interface{}{
		"queryLen": len(text),
	})

	var (
		evidence []models.EvidenceItem
		econCtx  string
		prompt   string
	)

	if q.Mode == models.ModeTherapy {
		prompt = BuildTherapyPrompt(text)
	} else {
		evidence = o.gatherEvidence(ctx, text, log)
		econCtx = o.gatherEconomicContext(ctx, log)
		prompt = BuildTaxPrompt(text, econCtx, evidence)
	}

	outcome := "ok"
	answerText, err := o.gen.Generate(ctx, prompt)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("generation").Inc()
		log.WithError(err).Warn("generation failed, substituting apology", nil)
		answerText = Apology
		outcome = "degraded"
	}

	latency := time.Since(start)
	metrics.AsksTotal.WithLabelValues(string(q.Mode), outcome).Inc()
	metrics.AskDuration.WithLabelValues(string(q.Mode)).Observe(latency.Seconds())
	metrics.EvidenceItems.WithLabelValues(string(q.Mode)).Observe(float64(len(evidence)))
	if o.obs != nil {
		o.obs.RecordAsk(ctx, string(q.Mode), outcome)
		o.obs.RecordAskDuration(ctx, latency, string(q.Mode))
	}

	answer := &models.Answer{
		Text:            answerText,
		Evidence:        evidence,
		EconomicContext: econCtx,
		LatencyMs:       float64(latency.Microseconds()) / 1000.0,
		ModelID:         o.gen.ModelID(),
		RequestID:       requestID,
	}

	if err := o.recorder.Record(ctx, models.LogEntry{
		RequestID:     requestID,
		Mode:          q.Mode,
		Query:         text,
		LatencyMs:     answer.LatencyMs,
		EvidenceCount: len(evidence),
		AnsweredAt:    time.Now().UTC(),
	}); err != nil {
		log.WithError(err).Warn("query log write failed", nil)
	}

	log.Info("query answered", map[string]interface{}{
		"outcome":       outcome,
		"latencyMs":     answer.LatencyMs,
		"evidenceCount": len(evidence),
	})

	return answer, nil
}

// gatherEvidence calls the search collaborator and applies the fallback
// policy: generation never runs without some contextual text.
func (o *Orchestrator) gatherEvidence(ctx context.Context, text string, log logger.Logger) []models.EvidenceItem {
	items, err := o.search.Search(ctx, text, MaxEvidence)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("search").Inc()
		log.WithError(err).Warn("search failed, using fallback knowledge", nil)
		items = nil
	}

	if len(items) == 0 {
		return retrieval.FallbackEvidence()
	}
	if len(items) > MaxEvidence {
		items = items[:MaxEvidence]
	}
	return items
}

// gatherEconomicContext fetches the fixed indicator snapshot; failure yields
// an empty context, never an error.
func (o *Orchestrator) gatherEconomicContext(ctx context.Context, log logger.Logger) string {
	snaps, err := o.indicators.Snapshot(ctx)
	if err != nil {
		metrics.CollaboratorFailures.WithLabelValues("warehouse").Inc()
		log.WithError(err).Warn("indicator fetch failed, continuing without economic context", nil)
		return ""
	}
	return warehouse.FormatContext(snaps)
}
