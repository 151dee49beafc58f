package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetricsMiddleware_EmitsRequestCounters verifies that wrapping a handler
// with MetricsMiddleware results in request metrics being exposed via the
// Prometheus /metrics handler.
func TestMetricsMiddleware_EmitsRequestCounters(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	MetricsMiddleware(next).ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}

	mrr := httptest.NewRecorder()
	promhttp.Handler().ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	body := mrr.Body.Bytes()
	if !bytes.Contains(body, []byte("lxllama_http_requests_total")) {
		t.Fatalf("expected to find lxllama_http_requests_total in metrics; got: %q", string(body[:min(len(body), 200)]))
	}
}

func TestMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := NewMux(&mockService{}, Options{})
	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/infer", http.MethodPost, "400"))
	postInfer(t, r, `{"prompts":[]}`)
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/infer", http.MethodPost, "400"))
	if after != before+1 {
		t.Fatalf("expected /infer counter to increase by 1, got %v -> %v", before, after)
	}
}

func TestInferFailuresCounted(t *testing.T) {
	before := testutil.ToFloat64(inferFailuresTotal.WithLabelValues("internal"))
	r := NewMux(&mockService{inferErr: http.ErrHandlerTimeout}, Options{})
	postInfer(t, r, `{"prompts":["a"]}`)
	if got := testutil.ToFloat64(inferFailuresTotal.WithLabelValues("internal")); got != before+1 {
		t.Fatalf("infer failures=%v, want %v", got, before+1)
	}
}
