package forecast

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exported on /metrics.
type Metrics struct {
	submissions *prometheus.CounterVec
	latency     prometheus.Histogram
	exports     *prometheus.CounterVec
	sessions    prometheus.Gauge
}

// NewMetrics registers the forecast collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffee",
			Name:      "submissions_total",
			Help:      "Prediction submissions by outcome.",
		}, []string{"outcome"}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "coffee",
			Name:      "prediction_duration_seconds",
			Help:      "Round trip to the prediction service.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		exports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "coffee",
			Name:      "exports_total",
			Help:      "Workbook exports by outcome.",
		}, []string{"outcome"}),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "coffee",
			Name:      "sessions_open",
			Help:      "Open prediction sessions.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.latency, m.exports, m.sessions)
	}
	return m
}

// Outcome labels.
const (
	outcomeOK         = "ok"
	outcomeInvalid    = "invalid"
	outcomeBusy       = "busy"
	outcomeConnection = "connection_failure"
	outcomeService    = "service_error"
	outcomeStale      = "discarded"
	outcomeNoResult   = "no_prediction"
	outcomePermission = "permission_denied"
	outcomeWrite      = "write_failure"
)
