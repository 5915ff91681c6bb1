package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/iho/gobooks/internal/infrastructure/metrics"
)

func newTestMetrics(t *testing.T) *metrics.Metrics {
	t.Helper()

	registry := prometheus.NewRegistry()
	origRegisterer, origGatherer := prometheus.DefaultRegisterer, prometheus.DefaultGatherer
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry
	t.Cleanup(func() {
		prometheus.DefaultRegisterer = origRegisterer
		prometheus.DefaultGatherer = origGatherer
	})

	return metrics.New()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	m := newTestMetrics(t)
	mw := NewMetricsMiddleware(m)

	handlerCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handlerCalled = true
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	mw.Wrap(next).ServeHTTP(rr, req)

	if !handlerCalled {
		t.Fatalf("next handler was not invoked")
	}

	counter := m.HTTPRequests.WithLabelValues(
		http.MethodGet, "/health", strconv.Itoa(http.StatusTeapot))
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected counter to be 1, got %v", got)
	}
}

func TestMetricsMiddlewareUsesRoutePattern(t *testing.T) {
	m := newTestMetrics(t)
	mw := NewMetricsMiddleware(m)

	r := chi.NewRouter()
	r.Use(mw.Wrap)
	r.Get("/charts/{chartID}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/charts/chart-1", nil)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	// Path parameters must not leak into the label set.
	counter := m.HTTPRequests.WithLabelValues(
		http.MethodGet, "/charts/{chartID}", strconv.Itoa(http.StatusOK))
	if got := testutil.ToFloat64(counter); got != 1 {
		t.Fatalf("expected pattern-labelled counter to be 1, got %v", got)
	}
}
