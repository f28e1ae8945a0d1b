// Package prometheus implements driven.Metrics with Prometheus collectors and
// exposes an HTTP handler for scraping.
package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NIT-JSR/PrivaShield-AI/internal/core/ports/driven"
)

// Namespace prefixes every metric name.
const Namespace = "privashield"

// Ensure Metrics implements the interface.
var _ driven.Metrics = (*Metrics)(nil)

// Metrics holds all Prometheus collectors for the service.
type Metrics struct {
	registry *prometheus.Registry

	IngestsTotal         *prometheus.CounterVec
	IngestDuration       *prometheus.HistogramVec
	ChunksIndexed        prometheus.Histogram
	ScanStatesTotal      *prometheus.CounterVec
	LLMCallsTotal        *prometheus.CounterVec
	LLMCallDuration      *prometheus.HistogramVec
	RetrievalDuration    prometheus.Histogram
	RetrievalChunks      prometheus.Histogram
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge
}

// New creates the collectors and registers them on a private registry
// together with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		IngestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "ingests_total",
				Help:      "Total policy ingestions by outcome (indexed, too_short, failed).",
			},
			[]string{"outcome"},
		),
		IngestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "ingest_duration_seconds",
				Help:      "Policy ingestion latency in seconds.",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"outcome"},
		),
		ChunksIndexed: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "chunks_indexed",
				Help:      "Number of chunks per indexed policy.",
				Buckets:   []float64{1, 5, 10, 25, 50, 100, 250, 500},
			},
		),
		ScanStatesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "scan_states_total",
				Help:      "Resolved cache states of analyze and chat requests (absent, indexed, stale).",
			},
			[]string{"state"},
		),
		LLMCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "llm_calls_total",
				Help:      "Total language model calls by purpose and status.",
			},
			[]string{"purpose", "status"},
		),
		LLMCallDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "llm_call_duration_seconds",
				Help:      "Language model call latency in seconds.",
				Buckets:   []float64{0.25, 0.5, 1, 2.5, 5, 10, 20, 40, 80},
			},
			[]string{"purpose"},
		),
		RetrievalDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "retrieval_duration_seconds",
				Help:      "Multi-query retrieval latency in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
			},
		),
		RetrievalChunks: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "retrieval_unique_chunks",
				Help:      "Unique chunks placed in the answer context.",
				Buckets:   []float64{0, 1, 2, 3, 4, 6, 9, 12},
			},
		),
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests by method, path, and status.",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency in seconds.",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"method", "path"},
		),
		HTTPRequestsInFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: Namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests currently being processed.",
			},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.IngestsTotal,
		m.IngestDuration,
		m.ChunksIndexed,
		m.ScanStatesTotal,
		m.LLMCallsTotal,
		m.LLMCallDuration,
		m.RetrievalDuration,
		m.RetrievalChunks,
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPRequestsInFlight,
	)

	return m
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the Prometheus scrape HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveIngest records one ingestion.
func (m *Metrics) ObserveIngest(outcome string, chunks int, duration time.Duration) {
	m.IngestsTotal.WithLabelValues(outcome).Inc()
	m.IngestDuration.WithLabelValues(outcome).Observe(duration.Seconds())
	if chunks > 0 {
		m.ChunksIndexed.Observe(float64(chunks))
	}
}

// ObserveScanState records a resolved cache state.
func (m *Metrics) ObserveScanState(state string) {
	m.ScanStatesTotal.WithLabelValues(state).Inc()
}

// ObserveLLMCall records one language model call.
func (m *Metrics) ObserveLLMCall(purpose string, err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.LLMCallsTotal.WithLabelValues(purpose, status).Inc()
	m.LLMCallDuration.WithLabelValues(purpose).Observe(duration.Seconds())
}

// ObserveRetrieval records one multi-query retrieval.
func (m *Metrics) ObserveRetrieval(_ int, uniqueChunks int, duration time.Duration) {
	m.RetrievalDuration.Observe(duration.Seconds())
	m.RetrievalChunks.Observe(float64(uniqueChunks))
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, path string, status int, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackInFlight counts a request as in flight until the returned func is called.
func (m *Metrics) TrackInFlight() func() {
	m.HTTPRequestsInFlight.Inc()
	return m.HTTPRequestsInFlight.Dec
}
