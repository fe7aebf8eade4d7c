// Package telemetry exports the content feed's Prometheus metrics.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "content_feed"

// Metrics holds every collector the service records to.
type Metrics struct {
	FetchTotal         *prometheus.CounterVec
	FetchDuration      prometheus.Histogram
	ResolutionsTotal   *prometheus.CounterVec
	EventsPublished    *prometheus.CounterVec
	ItemOperations     *prometheus.CounterVec
	HTTPRequests       *prometheus.CounterVec
	HTTPRequestLatency *prometheus.HistogramVec

	gatherer prometheus.Gatherer
}

// New registers the collectors on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg, reg)
}

// NewWithRegistry registers the collectors on reg. Tests pass their own
// registry so collectors do not collide between cases.
func NewWithRegistry(reg prometheus.Registerer, gatherer prometheus.Gatherer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FetchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_fetch_total",
			Help:      "Outbound metadata fetches by outcome",
		}, []string{"outcome"}),
		FetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "metadata_fetch_duration_seconds",
			Help:      "Time spent on a single outbound metadata fetch",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		ResolutionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "metadata_resolutions_total",
			Help:      "Metadata resolutions by content type and outcome",
		}, []string{"type", "outcome"}),
		EventsPublished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Lifecycle events sent to the stream by event type and outcome",
		}, []string{"event_type", "outcome"}),
		ItemOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "item_operations_total",
			Help:      "Admin operations on feed items by operation and outcome",
		}, []string{"operation", "outcome"}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		HTTPRequestLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		gatherer: gatherer,
	}
}

// ObserveFetch records one outbound fetch.
func (m *Metrics) ObserveFetch(outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.FetchTotal.WithLabelValues(outcome).Inc()
	m.FetchDuration.Observe(d.Seconds())
}

// ObserveResolution records one facade resolution.
func (m *Metrics) ObserveResolution(contentType, outcome string) {
	if m == nil {
		return
	}
	m.ResolutionsTotal.WithLabelValues(contentType, outcome).Inc()
}

// ObserveEvent records one publish attempt.
func (m *Metrics) ObserveEvent(eventType, outcome string) {
	if m == nil {
		return
	}
	m.EventsPublished.WithLabelValues(eventType, outcome).Inc()
}

// ObserveOperation records one admin workflow operation.
func (m *Metrics) ObserveOperation(operation, outcome string) {
	if m == nil {
		return
	}
	m.ItemOperations.WithLabelValues(operation, outcome).Inc()
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// GinMiddleware counts requests per matched route. Unmatched paths are
// grouped under "unmatched" to keep label cardinality bounded.
func (m *Metrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method
		m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestLatency.WithLabelValues(route, method).Observe(time.Since(start).Seconds())
	}
}
