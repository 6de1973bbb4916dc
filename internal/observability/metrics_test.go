package observability

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountOutcomes(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveReplication("success", 120*time.Millisecond)
	m.ObserveReplication("success", 80*time.Millisecond)
	m.ObserveReplication("source_fetch_failed", time.Second)
	m.IncSubmission("duplicate_application")
	m.IncResumeUpload("file_too_large")

	if got := testutil.ToFloat64(m.replications.WithLabelValues("success")); got != 2 {
		t.Fatalf("replications success: want=2 got=%v", got)
	}
	if got := testutil.ToFloat64(m.replications.WithLabelValues("source_fetch_failed")); got != 1 {
		t.Fatalf("replications source_fetch_failed: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.submissions.WithLabelValues("duplicate_application")); got != 1 {
		t.Fatalf("submissions: want=1 got=%v", got)
	}
	if got := testutil.ToFloat64(m.resumeUploads.WithLabelValues("file_too_large")); got != 1 {
		t.Fatalf("resume uploads: want=1 got=%v", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/healthcheck", "200", time.Millisecond)
	m.ApiInflightInc()
	m.ObserveReplication("success", time.Millisecond)
	m.IncSubmission("success")

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil handler status: want=503 got=%d", rec.Code)
	}
}

func TestHandlerExposesAPIMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveAPI("POST", "/api/resume/download", StatusLabel(200), 50*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	want := `hirebridge_api_requests_total{method="POST",route="/api/resume/download",status="200"} 1`
	if !strings.Contains(string(body), want) {
		t.Fatalf("metrics output missing %q", want)
	}
}
