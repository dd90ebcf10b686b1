// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/tablesense/internal/middleware"
	"github.com/tomtom215/tablesense/internal/orchestrator"
)

// Router wires handlers and middleware into a chi mux.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil config uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, config *ChiMiddlewareConfig) *Router {
	return &Router{handler: handler, chiMiddleware: NewChiMiddleware(config)}
}

// SetupChi builds the HTTP handler.
func (router *Router) SetupChi() http.Handler {
	h := router.handler
	svc := h.deps.Orchestrator

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.AccessLog)
	r.Use(router.chiMiddleware.CORS())
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).NotFound("no such route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		NewResponseWriter(w, r).Error(http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed")
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Metrics)
		if h.deps.Performance != nil {
			r.Use(h.deps.Performance.Middleware)
		}

		r.Route("/health", func(r chi.Router) {
			r.Get("/", h.Health)
			r.Get("/live", h.HealthLive)
			r.Get("/performance", h.Performance)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())

			r.Get("/config", h.GetConfig)
			r.Put("/config", h.UpdateConfig)

			r.Group(func(r chi.Router) {
				r.Use(requireFeature(svc, orchestrator.FeatureRecommendations))
				r.Get("/users/{userID}/recommendations", h.Recommendations)
				r.Get("/menu-items/{itemID}/similar", h.SimilarItems)
				r.Get("/restaurants/{restaurantID}/trending", h.TrendingItems)
				r.Post("/interactions", h.TrackInteraction)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireFeature(svc, orchestrator.FeatureDynamicPricing))
				r.Get("/menu-items/{itemID}/price", h.Price)
				r.Get("/restaurants/{restaurantID}/prices", h.MenuPrices)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireFeature(svc, orchestrator.FeatureAnalytics))
				r.Get("/restaurants/{restaurantID}/demand", h.Demand)
				r.Get("/restaurants/{restaurantID}/revenue", h.Revenue)
				r.Get("/restaurants/{restaurantID}/staffing", h.Staffing)
				r.Post("/restaurants/{restaurantID}/staffing", h.StaffingCustom)
				r.Get("/restaurants/{restaurantID}/segments", h.Segments)
				r.Get("/restaurants/{restaurantID}/churn", h.Churn)
				r.Get("/restaurants/{restaurantID}/price-optimization", h.PriceOptimization)
				r.Get("/restaurants/{restaurantID}/dashboard", h.Dashboard)
			})

			r.With(
				requireFeature(svc, orchestrator.FeatureChatbot),
				router.chiMiddleware.RateLimitChat(),
			).Post("/chat", h.Chat)
		})
	})

	return r
}
