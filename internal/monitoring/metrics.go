// Package monitoring collects Prometheus metrics for the scrape batch and
// the query API.
package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics on a private registry, so multiple
// instances (tests, CLI subcommands) never collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	// Scrape batch metrics
	PagesFetched    *prometheus.CounterVec
	EntitiesScraped *prometheus.CounterVec
	FetchDuration   prometheus.Histogram

	// HTTP API metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		PagesFetched: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sotw_pages_fetched_total",
				Help: "Total pages fetched from the source site by outcome",
			},
			[]string{"outcome"},
		),
		EntitiesScraped: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sotw_entities_scraped_total",
				Help: "Total entity pages processed by outcome",
			},
			[]string{"outcome"},
		),
		FetchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sotw_fetch_duration_seconds",
				Help:    "Page fetch duration in seconds",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
			},
		),
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sotw_http_requests_total",
				Help: "Total number of HTTP API requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sotw_http_request_duration_seconds",
				Help:    "HTTP API request duration in seconds",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5},
			},
			[]string{"method", "path"},
		),
	}
}

// RecordFetch records a page fetch with its outcome and duration.
func (m *Metrics) RecordFetch(outcome string, duration time.Duration) {
	m.PagesFetched.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// RecordEntity records the processing outcome for one entity page.
func (m *Metrics) RecordEntity(outcome string) {
	m.EntitiesScraped.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records one API request.
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
