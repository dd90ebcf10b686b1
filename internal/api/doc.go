// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

/*
Package api exposes the decision engines over HTTP using the chi router.

Every JSON endpoint lives under /api/v1 and answers with the APIResponse
envelope:

	{"success": true, "data": {...}, "meta": {"request_id": "...", "timestamp": "..."}}
	{"success": false, "error": {"code": "NOT_FOUND", "message": "..."}, "meta": {...}}

Routes:

	GET  /api/v1/health                                 system health (503 when degraded)
	GET  /api/v1/health/live                            liveness
	GET  /api/v1/health/performance                     per-route latency percentiles
	GET  /api/v1/config                                 orchestrator configuration
	PUT  /api/v1/config                                 replace it (clears the dashboard cache)

	GET  /api/v1/users/{userID}/recommendations         personalized ranking
	GET  /api/v1/menu-items/{itemID}/similar            content-similar dishes
	GET  /api/v1/restaurants/{restaurantID}/trending    best sellers over a window
	POST /api/v1/interactions                           record a view/like/order/favorite

	GET  /api/v1/menu-items/{itemID}/price              dynamic price quote
	GET  /api/v1/restaurants/{restaurantID}/prices      quotes for the whole menu

	GET  /api/v1/restaurants/{restaurantID}/demand
	GET  /api/v1/restaurants/{restaurantID}/revenue
	GET  /api/v1/restaurants/{restaurantID}/staffing
	POST /api/v1/restaurants/{restaurantID}/staffing    custom shifts
	GET  /api/v1/restaurants/{restaurantID}/segments
	GET  /api/v1/restaurants/{restaurantID}/churn
	GET  /api/v1/restaurants/{restaurantID}/price-optimization
	GET  /api/v1/restaurants/{restaurantID}/dashboard   cached owner dashboard

	POST /api/v1/chat                                   chatbot

	GET  /metrics                                       Prometheus

Feature toggles in the orchestrator configuration gate each engine group;
a disabled group answers 503 FEATURE_DISABLED. Authentication is handled
in front of this service; callers state their role in the request.
*/
package api
