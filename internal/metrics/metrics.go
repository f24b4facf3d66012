package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breathify_upstream_calls_total",
			Help: "Total geocoding, pollution and weather API calls",
		},
		[]string{"api", "status"},
	)

	UpstreamLatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "breathify_upstream_latency_seconds",
			Help:    "Upstream API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"api"},
	)

	ChecksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breathify_checks_total",
			Help: "Air quality checks by outcome",
		},
		[]string{"outcome"},
	)

	PredictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breathify_predictions_total",
			Help: "Model predictions by AQI category",
		},
		[]string{"category"},
	)

	SynthesisTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "breathify_speech_synthesis_total",
			Help: "Speech synthesis requests by language and status",
		},
		[]string{"provider", "lang", "status"},
	)
)

// Status label values
const (
	StatusOK    = "ok"
	StatusError = "error"
)
