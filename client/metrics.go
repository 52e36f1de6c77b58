package client

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the search client.
type Metrics struct {
	Registry          *prometheus.Registry
	RequestsTotal     *prometheus.CounterVec
	RequestDuration   prometheus.Histogram
	DocumentsTotal    prometheus.Counter
	PagesTotal        prometheus.Counter
	DuplicateIDsTotal prometheus.Counter
	ErrorsTotal       *prometheus.CounterVec
}

// NewMetrics constructs and registers all metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dojsearch_requests_total",
			Help: "Total HTTP requests issued against the search endpoint.",
		},
		[]string{"phase"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dojsearch_request_duration_seconds",
			Help:    "HTTP request latency for search page fetches.",
			Buckets: prometheus.DefBuckets,
		},
	)
	documents := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dojsearch_documents_total",
			Help: "Total document records parsed from result pages.",
		},
	)
	pages := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dojsearch_pages_total",
			Help: "Total result pages fetched and parsed.",
		},
	)
	duplicates := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dojsearch_duplicate_ids_total",
			Help: "Repeated document IDs observed within search sessions.",
		},
	)
	errorsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dojsearch_errors_total",
			Help: "Total request errors by type.",
		},
		[]string{"error_type"},
	)

	registry.MustRegister(requests, requestDuration, documents, pages, duplicates, errorsTotal)

	return &Metrics{
		Registry:          registry,
		RequestsTotal:     requests,
		RequestDuration:   requestDuration,
		DocumentsTotal:    documents,
		PagesTotal:        pages,
		DuplicateIDsTotal: duplicates,
		ErrorsTotal:       errorsTotal,
	}
}

// IncRequest increments the requests total counter.
func (m *Metrics) IncRequest(phase string) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(phase).Inc()
}

// ObserveDuration records an HTTP request duration.
func (m *Metrics) ObserveDuration(d time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.Observe(d.Seconds())
}

// AddDocuments adds to the parsed documents counter.
func (m *Metrics) AddDocuments(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DocumentsTotal.Add(float64(n))
}

// IncPages increments the fetched pages counter.
func (m *Metrics) IncPages() {
	if m == nil {
		return
	}
	m.PagesTotal.Inc()
}

// AddDuplicates adds to the repeated document ID counter.
func (m *Metrics) AddDuplicates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.DuplicateIDsTotal.Add(float64(n))
}

// IncError increments the errors counter for a type label.
func (m *Metrics) IncError(errorType string) {
	if m == nil {
		return
	}
	m.ErrorsTotal.WithLabelValues(errorType).Inc()
}
