// Package metrics records reading outcomes in a Prometheus registry and
// pushes them to a Pushgateway at the end of a run.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jsamuelsen/oracle/internal/domain"
	"github.com/jsamuelsen/oracle/internal/ports"
)

const namespace = "oracle"

// Reading outcomes.
const (
	OutcomeSuccess   = "success"
	OutcomeInvalid   = "invalid_input"
	OutcomeService   = "service_error"
	OutcomeMalformed = "malformed_response"
	OutcomeError     = "error"
)

// Interpret results.
const (
	resultSuccess = "success"
	resultError   = "error"
)

// Recorder implements ports.ReadingRecorder on its own registry.
type Recorder struct {
	registry *prometheus.Registry

	readings          *prometheus.CounterVec
	interpretDuration *prometheus.HistogramVec
	lastSuccess       prometheus.Gauge
}

var _ ports.ReadingRecorder = (*Recorder)(nil)

// NewRecorder creates a recorder with a fresh registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		readings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "readings_total",
			Help:      "Readings attempted, by deck and outcome.",
		}, []string{"deck", "outcome"}),
		interpretDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "interpret_duration_seconds",
			Help:      "Latency of the interpretation call.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		}, []string{"deck", "result"}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last successful reading.",
		}),
	}

	r.registry.MustRegister(r.readings, r.interpretDuration, r.lastSuccess)

	return r
}

// Gatherer exposes the registry for pushing or inspection.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// RecordInterpret observes one interpretation call.
func (r *Recorder) RecordInterpret(deck domain.DeckKind, elapsed time.Duration, err error) {
	result := resultSuccess
	if err != nil {
		result = resultError
	}

	r.interpretDuration.WithLabelValues(deckLabel(deck), result).Observe(elapsed.Seconds())
}

// RecordReading counts one reading under the outcome err maps to.
func (r *Recorder) RecordReading(deck domain.DeckKind, err error) {
	outcome := OutcomeFor(err)
	r.readings.WithLabelValues(deckLabel(deck), outcome).Inc()

	if outcome == OutcomeSuccess {
		r.lastSuccess.SetToCurrentTime()
	}
}

// OutcomeFor classifies a reading error for the outcome label.
func OutcomeFor(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case domain.IsValidation(err):
		return OutcomeInvalid
	case domain.IsUnavailable(err):
		return OutcomeService
	case domain.IsMalformedResponse(err):
		return OutcomeMalformed
	default:
		return OutcomeError
	}
}

// deckLabel names the deck label value; a reading rejected before its deck
// was resolved is counted as "unknown".
func deckLabel(deck domain.DeckKind) string {
	if deck == "" {
		return "unknown"
	}

	return string(deck)
}
