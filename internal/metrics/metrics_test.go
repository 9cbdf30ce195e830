package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.RunsTotal == nil || r.SubtreeNodesLoaded == nil || r.HTTPRequestsTotal == nil {
		t.Error("metrics not initialized")
	}
	if r.registry == nil {
		t.Error("Prometheus registry not initialized")
	}
}

func TestDefaultRegistry(t *testing.T) {
	if DefaultRegistry() != DefaultRegistry() {
		t.Error("DefaultRegistry() should return the same instance")
	}
}

func TestRecordRun(t *testing.T) {
	r := NewRegistry()

	r.RecordRun("export", true, 10*time.Millisecond)
	r.RecordRun("export", true, 20*time.Millisecond)
	r.RecordRun("import", false, 5*time.Millisecond)

	counter, err := r.RunsTotal.GetMetricWithLabelValues("export", StatusSuccess)
	if err != nil {
		t.Fatalf("Failed to get metric: %v", err)
	}
	var metric dto.Metric
	if err := counter.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetCounter().GetValue(); got != 2 {
		t.Errorf("export success runs = %v, want 2", got)
	}

	failed, _ := r.RunsTotal.GetMetricWithLabelValues("import", StatusFailure)
	metric.Reset()
	failed.Write(&metric)
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Errorf("import failure runs = %v, want 1", got)
	}
}

func TestObserveSubtreeLoad(t *testing.T) {
	r := NewRegistry()

	r.ObserveSubtreeLoad(12, time.Millisecond, nil)
	r.ObserveSubtreeLoad(3, time.Millisecond, errors.New("boom"))

	var metric dto.Metric
	if err := r.SubtreeNodesLoaded.Write(&metric); err != nil {
		t.Fatalf("Failed to write metric: %v", err)
	}
	if got := metric.GetHistogram().GetSampleCount(); got != 2 {
		t.Errorf("sample count = %d, want 2", got)
	}
	if got := metric.GetHistogram().GetSampleSum(); got != 15 {
		t.Errorf("sample sum = %v, want 15", got)
	}

	metric.Reset()
	r.SubtreeLoadErrors.Write(&metric)
	if got := metric.GetCounter().GetValue(); got != 1 {
		t.Errorf("load errors = %v, want 1", got)
	}
}

func TestHandler(t *testing.T) {
	r := NewRegistry()
	r.RecordEdges(DirectionExport, 7)
	r.RecordHTTPRequest("GET", "/api/assets/{hash}", "200", time.Millisecond)

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	for _, want := range []string{
		`netsim_edges_processed_total{direction="export"} 7`,
		`netsim_http_requests_total{method="GET",route="/api/assets/{hash}",status="200"} 1`,
	} {
		if !strings.Contains(string(body), want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
