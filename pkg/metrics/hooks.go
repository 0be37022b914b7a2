package metrics

import (
	"context"
	"strconv"
	"time"

	"github.com/matzehuels/yamlviz/pkg/observability"
)

var (
	_ observability.PipelineHooks = (*Registry)(nil)
	_ observability.CacheHooks    = (*Registry)(nil)
	_ observability.FixHooks      = (*Registry)(nil)
	_ observability.HTTPHooks     = (*Registry)(nil)
)

func (r *Registry) OnParseStart(_ context.Context, size int) {
	r.InputSizeBytes.Observe(float64(size))
}

func (r *Registry) OnParseComplete(_ context.Context, documents, failed int, d time.Duration) {
	r.ParseDuration.Observe(d.Seconds())
	r.DocumentsTotal.WithLabelValues("ok").Add(float64(documents - failed))
	r.DocumentsTotal.WithLabelValues("failed").Add(float64(failed))
}

func (r *Registry) OnLayoutStart(_ context.Context, _ int, nodeCount int) {
	r.LayoutNodes.Observe(float64(nodeCount))
}

func (r *Registry) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	r.LayoutDuration.WithLabelValues(status(err)).Observe(d.Seconds())
}

func (r *Registry) OnExportStart(context.Context, string) {}

func (r *Registry) OnExportComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	r.ExportsTotal.WithLabelValues(format, status(err)).Inc()
	r.ExportDuration.WithLabelValues(format).Observe(d.Seconds())
	if err == nil {
		r.ExportSizeBytes.WithLabelValues(format).Observe(float64(size))
	}
}

func (r *Registry) OnCacheHit(_ context.Context, keyType string) {
	r.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (r *Registry) OnCacheMiss(_ context.Context, keyType string) {
	r.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (r *Registry) OnCacheSet(_ context.Context, keyType string, _ int) {
	r.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
}

func (r *Registry) OnFixStart(context.Context, string) {
	r.FixesInFlight.Inc()
}

func (r *Registry) OnFixComplete(_ context.Context, source string, d time.Duration, err error) {
	r.FixesInFlight.Dec()
	r.FixesTotal.WithLabelValues(source, status(err)).Inc()
	r.FixDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (r *Registry) OnRequest(context.Context, string, string, string) {}

func (r *Registry) OnResponse(_ context.Context, _, host, _ string, code int, d time.Duration) {
	r.UpstreamRequestsTotal.WithLabelValues(host, strconv.Itoa(code)).Inc()
	r.UpstreamRequestDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (r *Registry) OnError(_ context.Context, _, host, _ string, _ error) {
	r.UpstreamRequestsTotal.WithLabelValues(host, "error").Inc()
}
