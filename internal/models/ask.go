// internal/models/ask.go
package models

import "time"

// Mode selects the assistant persona for a query.
type Mode string

const (
	ModeTax     Mode = "tax"
	ModeTherapy Mode = "therapy"
)

// Query is one incoming question. Constructed per request, discarded after
// the response is written.
type Query struct {
	Text string `json:"text"`
	Mode Mode   `json:"mode"`
}

// Normalized returns the query with the default mode applied. Anything that
// is not the therapy persona is answered on the tax path.
func (q Query) Normalized() Query {
	if q.Mode != ModeTherapy {
		q.Mode = ModeTax
	}
	return q
}

// EvidenceItem is one retrieved document excerpt shown alongside the answer.
type EvidenceItem struct {
	Label   string `json:"label"`
	Content string `json:"content"`
}

// EconomicSnapshot is one (indicator, year, value) row from the warehouse.
type EconomicSnapshot struct {
	Indicator string  `json:"indicator"`
	Year      int     `json:"year"`
	Value     float64 `json:"value"`
}

// Answer is the assembled result for a single query. Transient, never
// persisted.
type Answer struct {
	Text            string         `json:"answer"`
	Evidence        []EvidenceItem `json:"sources"`
	EconomicContext string         `json:"economic_data,omitempty"`
	LatencyMs       float64        `json:"latency_ms"`
	ModelID         string         `json:"model_used"`
	RequestID       string         `json:"request_id,omitempty"`
}

// LogEntry is one answered query in the best-effort recent-activity log.
type LogEntry struct {
	RequestID     string    `json:"request_id"`
	Mode          Mode      `json:"mode"`
	Query         string    `json:"query"`
	LatencyMs     float64   `json:"latency_ms"`
	EvidenceCount int       `json:"evidence_count"`
	AnsweredAt    time.Time `json:"answered_at"`
}
