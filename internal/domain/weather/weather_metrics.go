package weather

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess = "success"
	outcomeError   = "error"
)

var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytemp",
		Subsystem: "weather",
		Name:      "requests_total",
		Help:      "Upstream weather requests by outcome.",
	}, []string{"outcome"})

	requestDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "citytemp",
		Subsystem: "weather",
		Name:      "request_duration_seconds",
		Help:      "Upstream weather request latency.",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
	})

	cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "citytemp",
		Subsystem: "weather",
		Name:      "cache_lookups_total",
		Help:      "Weather cache lookups by result (hit or miss).",
	}, []string{"result"})
)
