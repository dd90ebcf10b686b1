// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package middleware

import (
	"net/http"
	"slices"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/tomtom215/tablesense/internal/logging"
)

// DefaultSlowRequestThreshold is used when NewPerformanceMonitor gets zero.
const DefaultSlowRequestThreshold = time.Second

// requestSample is one completed request.
type requestSample struct {
	route      string
	duration   time.Duration
	statusCode int
}

// EndpointStats aggregates the retained samples of one route.
type EndpointStats struct {
	Route        string  `json:"route"`
	RequestCount int     `json:"request_count"`
	ErrorCount   int     `json:"error_count"`
	AvgMs        float64 `json:"avg_ms"`
	P50Ms        int64   `json:"p50_ms"`
	P95Ms        int64   `json:"p95_ms"`
	P99Ms        int64   `json:"p99_ms"`
	MaxMs        int64   `json:"max_ms"`
}

// PerformanceMonitor keeps a sliding window of request latencies.
type PerformanceMonitor struct {
	mu            sync.RWMutex
	samples       []requestSample
	next          int
	full          bool
	slowThreshold time.Duration
}

// NewPerformanceMonitor keeps the last window requests.
func NewPerformanceMonitor(window int, slowThreshold time.Duration) *PerformanceMonitor {
	if window <= 0 {
		window = 1000
	}
	if slowThreshold <= 0 {
		slowThreshold = DefaultSlowRequestThreshold
	}
	return &PerformanceMonitor{
		samples:       make([]requestSample, window),
		slowThreshold: slowThreshold,
	}
}

func (pm *PerformanceMonitor) record(s requestSample) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.samples[pm.next] = s
	pm.next = (pm.next + 1) % len(pm.samples)
	if pm.next == 0 {
		pm.full = true
	}
}

// Stats returns per-route statistics, busiest route first.
func (pm *PerformanceMonitor) Stats() []EndpointStats {
	pm.mu.RLock()
	n := pm.next
	if pm.full {
		n = len(pm.samples)
	}
	byRoute := make(map[string][]requestSample)
	for _, s := range pm.samples[:n] {
		byRoute[s.route] = append(byRoute[s.route], s)
	}
	pm.mu.RUnlock()

	stats := make([]EndpointStats, 0, len(byRoute))
	for route, samples := range byRoute {
		ms := make([]int64, len(samples))
		var sum int64
		errs := 0
		for i, s := range samples {
			ms[i] = s.duration.Milliseconds()
			sum += ms[i]
			if s.statusCode >= http.StatusInternalServerError {
				errs++
			}
		}
		slices.Sort(ms)
		stats = append(stats, EndpointStats{
			Route:        route,
			RequestCount: len(ms),
			ErrorCount:   errs,
			AvgMs:        float64(sum) / float64(len(ms)),
			P50Ms:        percentile(ms, 0.50),
			P95Ms:        percentile(ms, 0.95),
			P99Ms:        percentile(ms, 0.99),
			MaxMs:        ms[len(ms)-1],
		})
	}
	slices.SortFunc(stats, func(a, b EndpointStats) int {
		if a.RequestCount != b.RequestCount {
			return b.RequestCount - a.RequestCount
		}
		if a.Route < b.Route {
			return -1
		}
		return 1
	})
	return stats
}

// Middleware records each request and warns about slow ones.
func (pm *PerformanceMonitor) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := r.Method + " " + routePattern(r)
		duration := time.Since(start)
		pm.record(requestSample{route: route, duration: duration, statusCode: status})

		if duration > pm.slowThreshold {
			logging.Ctx(r.Context()).Warn().
				Str("route", route).
				Dur("duration", duration).
				Dur("threshold", pm.slowThreshold).
				Msg("slow request")
		}
	})
}

// percentile expects sorted input.
func percentile(sorted []int64, p float64) int64 {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[int(float64(len(sorted)-1)*p)]
}
