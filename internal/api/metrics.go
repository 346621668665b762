package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/clinical-ui-manifest/internal/manifest"
)

const metricsNamespace = "ui_manifest"

const (
	outcomeGenerated = "generated"
	outcomeInvalid   = "invalid"
	outcomeEmpty     = "empty"
	outcomeRejected  = "rejected"
)

// metrics owns a private registry so several servers can coexist in one
// process (tests included).
type metrics struct {
	registry      *prometheus.Registry
	requests      *prometheus.CounterVec
	duration      *prometheus.HistogramVec
	manifests     *prometheus.CounterVec
	manifestItems prometheus.Histogram
	skippedItems  prometheus.Counter
	schemaCache   *prometheus.CounterVec
	rateLimited   prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		manifests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "manifests_total",
			Help:      "Manifest generation requests by outcome.",
		}, []string{"outcome"}),
		manifestItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "manifest_items",
			Help:      "Number of components per generated manifest.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		skippedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "manifest_skipped_items_total",
			Help:      "Components skipped because their props could not be generated.",
		}),
		schemaCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "schema_cache_lookups_total",
			Help:      "Component schema cache lookups by result.",
		}, []string{"result"}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rate_limited_requests_total",
			Help:      "Requests rejected by the rate limiter.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.duration,
		m.manifests,
		m.manifestItems,
		m.skippedItems,
		m.schemaCache,
		m.rateLimited,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *metrics) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.requests.WithLabelValues(route, c.Request.Method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	}
}

// observeManifest records item and skip counts, one skip per warning
// emitted during generation.
func (m *metrics) observeManifest(man *manifest.Manifest) {
	if man == nil {
		return
	}
	m.manifestItems.Observe(float64(len(man.Items)))
	m.skippedItems.Add(float64(len(man.Warnings)))
}
