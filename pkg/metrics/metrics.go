// Package metrics implements the observability hooks with Prometheus.
package metrics

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/yamlviz/pkg/observability"
)

const namespace = "yamlviz"

// Registry holds all metrics for the application
type Registry struct {
	// Pipeline
	DocumentsTotal   *prometheus.CounterVec // status = ok|failed
	ParseDuration    prometheus.Histogram
	InputSizeBytes   prometheus.Histogram
	LayoutDuration   *prometheus.HistogramVec // status
	LayoutNodes      prometheus.Histogram
	ExportsTotal     *prometheus.CounterVec // format, status
	ExportDuration   *prometheus.HistogramVec
	ExportSizeBytes  *prometheus.HistogramVec

	// Cache
	CacheOpsTotal *prometheus.CounterVec // key_type, op = hit|miss|set

	// Auto-fix
	FixesTotal    *prometheus.CounterVec // source, status
	FixDuration   *prometheus.HistogramVec
	FixesInFlight prometheus.Gauge

	// Outgoing HTTP
	UpstreamRequestsTotal   *prometheus.CounterVec // host, status
	UpstreamRequestDuration *prometheus.HistogramVec

	// Server
	HTTPRequestsTotal    *prometheus.CounterVec // method, route, status
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.Gauge

	registry *prometheus.Registry
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the global metrics registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with all metrics initialized,
// plus the Go runtime and process collectors.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	r := &Registry{registry: reg}
	r.initPipelineMetrics()
	r.initCacheMetrics()
	r.initFixMetrics()
	r.initHTTPMetrics()
	return r
}

// Prometheus returns the underlying Prometheus registry
func (r *Registry) Prometheus() *prometheus.Registry { return r.registry }

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// Install registers r as the pipeline, cache, fix and HTTP hooks.
func (r *Registry) Install() {
	observability.SetPipelineHooks(r)
	observability.SetCacheHooks(r)
	observability.SetFixHooks(r)
	observability.SetHTTPHooks(r)
}

// RecordHTTPRequest records one served request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func (r *Registry) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	r.HTTPRequestsTotal.WithLabelValues(method, route, status).Inc()
	r.HTTPRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
