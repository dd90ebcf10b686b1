// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/tomtom215/tablesense/internal/logging"
	"github.com/tomtom215/tablesense/internal/metrics"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	var seen, correlation string
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r)
		correlation = logging.CorrelationIDFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	header := rec.Header().Get(RequestIDHeader)
	if header == "" || header != seen {
		t.Errorf("header %q, context %q", header, seen)
	}
	if len(correlation) != 8 {
		t.Errorf("correlation id = %q", correlation)
	}
}

func TestRequestID_ReusesUpstreamID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := GetRequestID(r); got != "upstream-42" {
			t.Errorf("request id = %q", got)
		}
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "upstream-42")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get(RequestIDHeader) != "upstream-42" {
		t.Errorf("echoed %q", rec.Header().Get(RequestIDHeader))
	}
}

func TestRequestID_ReplacesOversizedID(t *testing.T) {
	handler := RequestID(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get(RequestIDHeader); len(got) > maxRequestIDLength {
		t.Errorf("oversized id passed through: %d bytes", len(got))
	}
}

func newTestRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	for _, m := range mw {
		r.Use(m)
	}
	r.Get("/restaurants/{id}", func(w http.ResponseWriter, r *http.Request) {
		if chi.URLParam(r, "id") == "500" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(20 * time.Millisecond)
	})
	return r
}

func TestMetrics_LabelsByRoutePattern(t *testing.T) {
	r := newTestRouter(Metrics)
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/restaurants/{id}", "200")
	before := testutil.ToFloat64(counter)

	for _, id := range []string{"1", "2", "3"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/restaurants/"+id, nil))
	}

	if got := testutil.ToFloat64(counter) - before; got != 3 {
		t.Errorf("counter delta = %v, want 3", got)
	}
	if testutil.ToFloat64(metrics.APIActiveRequests) != 0 {
		t.Error("active request gauge not released")
	}
}

func TestMetrics_RecordsErrorStatus(t *testing.T) {
	r := newTestRouter(Metrics)
	counter := metrics.APIRequestsTotal.WithLabelValues(http.MethodGet, "/restaurants/{id}", "500")
	before := testutil.ToFloat64(counter)

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/restaurants/500", nil))

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("counter delta = %v, want 1", got)
	}
}

func TestAccessLog_PassesThrough(t *testing.T) {
	r := newTestRouter(RequestID, AccessLog)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/restaurants/7", nil))

	if rec.Code != http.StatusOK || rec.Body.String() != "ok" {
		t.Errorf("status %d body %q", rec.Code, rec.Body.String())
	}
}

func TestPerformanceMonitor_Stats(t *testing.T) {
	pm := NewPerformanceMonitor(100, 10*time.Millisecond)
	r := newTestRouter(pm.Middleware)

	for _, path := range []string{"/restaurants/1", "/restaurants/2", "/restaurants/500", "/slow"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("routes = %d, want 2: %+v", len(stats), stats)
	}
	first := stats[0]
	if first.Route != "GET /restaurants/{id}" || first.RequestCount != 3 || first.ErrorCount != 1 {
		t.Errorf("first = %+v", first)
	}
	if stats[1].Route != "GET /slow" || stats[1].MaxMs < 20 {
		t.Errorf("second = %+v", stats[1])
	}
}

func TestPerformanceMonitor_WindowWraps(t *testing.T) {
	pm := NewPerformanceMonitor(3, 0)
	for i := 0; i < 5; i++ {
		pm.record(requestSample{route: "GET /a", duration: time.Duration(i) * time.Millisecond})
	}
	stats := pm.Stats()
	if len(stats) != 1 || stats[0].RequestCount != 3 {
		t.Fatalf("stats = %+v", stats)
	}
	if stats[0].MaxMs != 4 || stats[0].P50Ms != 3 {
		t.Errorf("window kept wrong samples: %+v", stats[0])
	}
}

func TestPercentile(t *testing.T) {
	if percentile(nil, 0.5) != 0 {
		t.Error("empty input")
	}
	sorted := []int64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	if got := percentile(sorted, 0.5); got != 5 {
		t.Errorf("p50 = %d", got)
	}
	if got := percentile(sorted, 0.99); got != 9 {
		t.Errorf("p99 = %d", got)
	}
}
