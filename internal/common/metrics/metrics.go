// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	AsksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_asks_total",
			Help: "Total number of /ask requests handled",
		},
		[]string{"mode", "outcome"},
	)

	CollaboratorFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_collaborator_failures_total",
			Help: "Total number of collaborator call failures recovered locally",
		},
		[]string{"collaborator"},
	)

	AskDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "engine_ask_duration_seconds",
			Help: "Duration of /ask handling in seconds",
		},
		[]string{"mode"},
	)

	EvidenceItems = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_evidence_items",
			Help:    "Number of evidence items attached to an answer",
			Buckets: []float64{0, 1, 2, 3},
		},
		[]string{"mode"},
	)
)
