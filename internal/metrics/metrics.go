// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Engine outcome label values.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

var (
	// Engine Metrics
	EngineRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_requests_total",
			Help: "Total number of decision engine calls",
		},
		[]string{"engine", "operation", "outcome"},
	)

	EngineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_duration_seconds",
			Help:    "Decision engine call duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"engine", "operation"},
	)

	EngineConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "engine_confidence",
			Help:    "Confidence score (0-100) reported by engine results",
			Buckets: []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"engine", "operation"},
	)

	SignalFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "engine_signal_failures_total",
			Help: "Signal generators that degraded to a neutral contribution",
		},
		[]string{"engine", "signal"},
	)

	// Pricing Metrics
	PricingAdjustmentPercent = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pricing_adjustment_percent",
			Help:    "Net percentage change of dynamic price versus original price",
			Buckets: []float64{-20, -15, -10, -5, -2, 0, 2, 5, 10, 15, 20, 25},
		},
	)

	PricingClamped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_clamped_total",
			Help: "Quotes whose summed adjustments hit the price band",
		},
		[]string{"bound"}, // "min", "max"
	)

	// Chatbot Metrics
	ChatbotIntents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chatbot_intents_total",
			Help: "Classified chatbot messages by intent",
		},
		[]string{"intent"},
	)

	ChatbotFallbacks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "chatbot_fallback_replies_total",
			Help: "Chatbot apology replies caused by engine failures",
		},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache_type"}, // "dashboard"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache_type"},
	)

	CacheSize = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache_type"},
	)

	CacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_invalidations_total",
			Help: "Total number of wholesale cache invalidations",
		},
		[]string{"cache_type"},
	)

	// Data Store Metrics
	DataStoreRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_retries_total",
			Help: "Data accessor calls retried after a failure",
		},
		[]string{"operation"},
	)

	DataStoreErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "datastore_errors_total",
			Help: "Data accessor calls surfaced as upstream unavailable",
		},
		[]string{"operation"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "postgres_query_duration_seconds",
			Help:    "Duration of Postgres queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Background Metrics
	DashboardRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_refreshes_total",
			Help: "Dashboard warm-up refreshes by result",
		},
		[]string{"result"},
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordEngineCall records the outcome and duration of one engine operation.
func RecordEngineCall(engine, operation, outcome string, duration time.Duration) {
	EngineRequests.WithLabelValues(engine, operation, outcome).Inc()
	EngineDuration.WithLabelValues(engine, operation).Observe(duration.Seconds())
}

// RecordConfidence records a confidence score, clamped to 0..100.
func RecordConfidence(engine, operation string, confidence int) {
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 100 {
		confidence = 100
	}
	EngineConfidence.WithLabelValues(engine, operation).Observe(float64(confidence))
}

// RecordSignalFailure counts a signal generator that fell back to neutral.
func RecordSignalFailure(engine, signal string) {
	SignalFailures.WithLabelValues(engine, signal).Inc()
}

// RecordPriceQuote records the net movement of a quote and whether it was clamped.
func RecordPriceQuote(originalPrice, dynamicPrice float64, clampedBound string) {
	if originalPrice > 0 {
		PricingAdjustmentPercent.Observe((dynamicPrice - originalPrice) / originalPrice * 100)
	}
	if clampedBound != "" {
		PricingClamped.WithLabelValues(clampedBound).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a Postgres query duration.
func RecordDBQuery(operation string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
