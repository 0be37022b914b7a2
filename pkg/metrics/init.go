package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initPipelineMetrics() {
	f := promauto.With(r.registry)

	r.DocumentsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_total",
			Help:      "Documents parsed, by outcome",
		},
		[]string{"status"},
	)
	r.ParseDuration = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "parse_duration_seconds",
		Help:      "Time to split and decode one input stream",
		Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
	})
	r.InputSizeBytes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "input_size_bytes",
		Help:      "Size of input streams",
		Buckets:   prometheus.ExponentialBuckets(64, 4, 8),
	})
	r.LayoutDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_duration_seconds",
			Help:      "Time to lay out one document",
			Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 2.5},
		},
		[]string{"status"},
	)
	r.LayoutNodes = f.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "layout_nodes",
		Help:      "Number of nodes per laid-out document",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 9),
	})
	r.ExportsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "exports_total",
			Help:      "Rendered artifacts, by format and outcome",
		},
		[]string{"format", "status"},
	)
	r.ExportDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_duration_seconds",
			Help:      "Time to render one artifact",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"format"},
	)
	r.ExportSizeBytes = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "export_size_bytes",
			Help:      "Size of rendered artifacts",
			Buckets:   prometheus.ExponentialBuckets(1024, 4, 8),
		},
		[]string{"format"},
	)
}

func (r *Registry) initCacheMetrics() {
	r.CacheOpsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_operations_total",
			Help:      "Cache lookups and writes",
		},
		[]string{"key_type", "op"},
	)
}

func (r *Registry) initFixMetrics() {
	f := promauto.With(r.registry)

	r.FixesTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fixes_total",
			Help:      "Auto-fix requests, by fixer and outcome",
		},
		[]string{"source", "status"},
	)
	r.FixDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "fix_duration_seconds",
			Help:      "Auto-fix latency",
			Buckets:   []float64{.01, .1, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"source"},
	)
	r.FixesInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "fixes_in_flight",
		Help:      "Auto-fix requests currently outstanding",
	})
}

func (r *Registry) initHTTPMetrics() {
	f := promauto.With(r.registry)

	r.UpstreamRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_requests_total",
			Help:      "Outgoing HTTP requests, by host and status",
		},
		[]string{"host", "status"},
	)
	r.UpstreamRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Outgoing HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"host"},
	)
	r.HTTPRequestsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPRequestDuration = f.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
	r.HTTPRequestsInFlight = f.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "http_requests_in_flight",
		Help:      "Current number of HTTP requests being served",
	})
}
