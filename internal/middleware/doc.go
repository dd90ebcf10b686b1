// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

/*
Package middleware provides the HTTP middleware shared by every API route.

All middleware uses chi's func(http.Handler) http.Handler shape and can be
passed straight to chi.Router.Use.

  - RequestID: accepts or generates X-Request-ID and adds request and
    correlation IDs to the context for logging.Ctx
  - AccessLog: one structured log line per request
  - Metrics: Prometheus request counters, durations and the in-flight gauge
  - PerformanceMonitor: in-process latency percentiles per route, served by
    the health endpoint

Routes are labelled by their chi pattern (/api/v1/restaurants/{restaurantID}/dashboard),
never by the raw path, so restaurant and customer IDs do not explode metric
cardinality.

Typical stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(middleware.Metrics)
	r.Use(monitor.Middleware)
*/
package middleware
