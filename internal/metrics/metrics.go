package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "notion_content_api"

// Collector owns the service's Prometheus metrics. A nil *Collector is valid
// and records nothing.
type Collector struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	sourceRequestsTotal   *prometheus.CounterVec
	sourceRequestDuration *prometheus.HistogramVec

	scopeLookupsTotal      *prometheus.CounterVec
	bodyConversionFailures prometheus.Counter
}

// New creates a collector with its own registry
func New() *Collector {
	c := &Collector{registry: prometheus.NewRegistry()}

	c.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	c.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	c.sourceRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "source_requests_total",
			Help:      "Calls made to the Notion API by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	c.sourceRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "source_request_duration_seconds",
			Help:      "Duration of Notion API operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	c.scopeLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "scope_cache_lookups_total",
			Help:      "Scope cache lookups by cache name and result",
		},
		[]string{"cache", "result"},
	)

	c.bodyConversionFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "body_conversion_failures_total",
			Help:      "Pages whose body could not be converted to Markdown",
		},
	)

	c.registry.MustRegister(
		c.httpRequestsTotal,
		c.httpRequestDuration,
		c.sourceRequestsTotal,
		c.sourceRequestDuration,
		c.scopeLookupsTotal,
		c.bodyConversionFailures,
		collectors.NewGoCollector(),
	)

	return c
}

// Registry exposes the underlying registry
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.HandlerFor(prometheus.NewRegistry(), promhttp.HandlerOpts{})
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveHTTPRequest records one served request
func (c *Collector) ObserveHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	if c == nil {
		return
	}
	c.httpRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	c.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// ObserveSourceRequest records one gateway operation started at start
func (c *Collector) ObserveSourceRequest(operation, outcome string, start time.Time) {
	if c == nil {
		return
	}
	c.sourceRequestsTotal.WithLabelValues(operation, outcome).Inc()
	c.sourceRequestDuration.WithLabelValues(operation).Observe(time.Since(start).Seconds())
}

// ScopeLookup records a scope cache hit or miss
func (c *Collector) ScopeLookup(cache string, hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.scopeLookupsTotal.WithLabelValues(cache, result).Inc()
}

// BodyConversionFailed records a page rendered without its body
func (c *Collector) BodyConversionFailed() {
	if c == nil {
		return
	}
	c.bodyConversionFailures.Inc()
}
