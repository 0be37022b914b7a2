package metrics

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"

	"github.com/matzehuels/yamlviz/pkg/observability"
)

type writer interface{ Write(*dto.Metric) error }

func value(t *testing.T, m writer) *dto.Metric {
	t.Helper()
	var metric dto.Metric
	if err := m.Write(&metric); err != nil {
		t.Fatalf("write metric: %v", err)
	}
	return &metric
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r.DocumentsTotal == nil || r.CacheOpsTotal == nil || r.FixesTotal == nil || r.HTTPRequestsTotal == nil {
		t.Fatal("metrics not initialized")
	}
	if r.Prometheus() == nil {
		t.Error("Prometheus registry not initialized")
	}
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestPipelineHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnParseStart(ctx, 300)
	r.OnParseComplete(ctx, 3, 1, time.Millisecond)
	r.OnLayoutStart(ctx, 0, 12)
	r.OnLayoutComplete(ctx, 0, time.Millisecond, nil)
	r.OnExportComplete(ctx, "svg", 2048, time.Second, nil)
	r.OnExportComplete(ctx, "pdf", 0, time.Second, errors.New("rsvg-convert not found"))

	if got := value(t, r.DocumentsTotal.WithLabelValues("ok")).GetCounter().GetValue(); got != 2 {
		t.Errorf("ok documents = %v, want 2", got)
	}
	if got := value(t, r.DocumentsTotal.WithLabelValues("failed")).GetCounter().GetValue(); got != 1 {
		t.Errorf("failed documents = %v, want 1", got)
	}
	if got := value(t, r.ExportsTotal.WithLabelValues("pdf", "error")).GetCounter().GetValue(); got != 1 {
		t.Errorf("failed pdf exports = %v, want 1", got)
	}
	if got := value(t, r.LayoutNodes).GetHistogram().GetSampleCount(); got != 1 {
		t.Errorf("layout node samples = %v, want 1", got)
	}
}

func TestCacheAndFixHooks(t *testing.T) {
	r := NewRegistry()
	ctx := context.Background()

	r.OnCacheMiss(ctx, "result")
	r.OnCacheSet(ctx, "result", 10)
	r.OnCacheHit(ctx, "result")
	r.OnCacheHit(ctx, "result")

	if got := value(t, r.CacheOpsTotal.WithLabelValues("result", "hit")).GetCounter().GetValue(); got != 2 {
		t.Errorf("hits = %v, want 2", got)
	}

	r.OnFixStart(ctx, "remote")
	if got := value(t, r.FixesInFlight).GetGauge().GetValue(); got != 1 {
		t.Errorf("in flight = %v, want 1", got)
	}
	r.OnFixComplete(ctx, "remote", time.Second, nil)
	if got := value(t, r.FixesInFlight).GetGauge().GetValue(); got != 0 {
		t.Errorf("in flight = %v, want 0", got)
	}
	if got := value(t, r.FixesTotal.WithLabelValues("remote", "ok")).GetCounter().GetValue(); got != 1 {
		t.Errorf("fixes = %v, want 1", got)
	}
}

func TestInstall(t *testing.T) {
	defer observability.Reset()
	r := NewRegistry()
	r.Install()

	if observability.Pipeline() != observability.PipelineHooks(r) {
		t.Error("pipeline hooks not installed")
	}
	if observability.Fix() != observability.FixHooks(r) {
		t.Error("fix hooks not installed")
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordHTTPRequest("POST", "/api/visualize", "200", 10*time.Millisecond)
	r.OnResponse(context.Background(), "POST", "api.anthropic.com", "/v1/messages", 200, time.Second)

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)

	for _, want := range []string{
		`yamlviz_http_requests_total{method="POST",route="/api/visualize",status="200"} 1`,
		`yamlviz_upstream_requests_total{host="api.anthropic.com",status="200"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("exposition missing %q", want)
		}
	}
}
