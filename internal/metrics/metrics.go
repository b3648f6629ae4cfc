// Package metrics collects and exposes Prometheus metrics for the API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"server/internal/domain"
	"server/internal/quota"
)

// Collector registers and updates the service metrics.
type Collector struct {
	registry     *prometheus.Registry
	viewsTotal   *prometheus.CounterVec
	rollovers    prometheus.Counter
	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram
}

// NewCollector creates a Collector with all metrics registered on a fresh
// registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		viewsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "content_views_total",
			Help: "Content view decisions by content type and outcome.",
		}, []string{"content_type", "outcome"}),
		rollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ledger_rollovers_total",
			Help: "Lazy daily ledger resets performed.",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP responses by status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
	}

	c.registry.MustRegister(c.viewsTotal, c.rollovers, c.httpRequests, c.httpLatency)
	return c
}

// RecordView counts one quota decision.
func (c *Collector) RecordView(ct domain.ContentType, d quota.Decision) {
	outcome := "allowed"
	switch {
	case !d.Allowed:
		outcome = "denied"
	case d.AlreadyCounted:
		outcome = "repeat"
	}
	c.viewsTotal.WithLabelValues(string(ct), outcome).Inc()
}

// RecordRollover counts one lazy daily ledger reset.
func (c *Collector) RecordRollover() {
	c.rollovers.Inc()
}

// ObserveRequest records one completed HTTP request.
func (c *Collector) ObserveRequest(statusCode int, duration time.Duration) {
	c.httpRequests.WithLabelValues(strconv.Itoa(statusCode)).Inc()
	c.httpLatency.Observe(duration.Seconds())
}

// Handler exposes the registry in Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
