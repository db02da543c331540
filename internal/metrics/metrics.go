package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestLatency tracks API latency per route.
	RequestLatency = Histogram(
		"bplog_http_request_duration_seconds",
		"Latency of API requests in seconds",
		prometheus.DefBuckets,
		"route", "method",
	)

	RequestTotal = Counter(
		"bplog_http_requests_total",
		"Total number of API requests",
		"route", "method", "status",
	)

	// StatsDegraded counts stats computations that fell back to the empty
	// summary because the reading store failed.
	StatsDegraded = Counter(
		"bplog_stats_degraded_total",
		"Stats computations served as empty because the reading store failed",
		"backend",
	)

	ReadingsWritten = Counter(
		"bplog_readings_written_total",
		"Readings created, updated or deleted",
		"op",
	)
)

func Counter(name, help string, labelKeys ...string) *prometheus.CounterVec {
	return promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: name,
			Help: help,
		},
		labelKeys,
	)
}

func Inc(c *prometheus.CounterVec, labels prometheus.Labels, v float64) {
	c.With(labels).Add(v)
}

func Histogram(name, help string, buckets []float64, labelKeys ...string) *prometheus.HistogramVec {
	return promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    name,
			Help:    help,
			Buckets: buckets,
		},
		labelKeys,
	)
}

func Observe(h *prometheus.HistogramVec, labels prometheus.Labels, v float64) {
	h.With(labels).Observe(v)
}
