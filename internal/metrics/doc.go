// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

/*
Package metrics provides Prometheus instrumentation for the decision engines.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

Engine Metrics:
  - engine_requests_total: engine calls (counter)
    Labels: engine, operation, outcome (success, not_found, error)
  - engine_duration_seconds: engine call latency (histogram)
  - engine_confidence: confidence reported by results (histogram, 0-100)
  - engine_signal_failures_total: signal generators that fell back to neutral

Pricing Metrics:
  - pricing_adjustment_percent: net dynamic price movement (histogram)
  - pricing_clamped_total: quotes clamped to the band (counter)
    Labels: bound (floor, ceiling)

Chatbot Metrics:
  - chatbot_intents_total: classified messages (counter)
  - chatbot_fallback_replies_total: apology replies (counter)

Cache Metrics:
  - cache_hits_total, cache_misses_total, cache_entries, cache_invalidations_total
    Labels: cache_type

Data Store Metrics:
  - datastore_retries_total, datastore_errors_total
    Labels: operation
  - postgres_query_duration_seconds
  - circuit_breaker_state: 0=closed, 1=half-open, 2=open
    Labels: name

API Metrics:
  - api_requests_total, api_request_duration_seconds, api_active_requests,
    api_rate_limit_hits_total

# Usage

	start := time.Now()
	result, err := engine.GetPersonalizedRecommendations(ctx, userID, restaurantID, opts)
	metrics.RecordEngineCall("recommend", "personalized", outcome(err), time.Since(start))
*/
package metrics
