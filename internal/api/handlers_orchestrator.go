// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/tomtom215/tablesense/internal/logging"
	"github.com/tomtom215/tablesense/internal/middleware"
	"github.com/tomtom215/tablesense/internal/orchestrator"
)

// Dashboard handles GET /api/v1/restaurants/{restaurantID}/dashboard.
// refresh=true bypasses the cache.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	refresh, _ := strconv.ParseBool(r.URL.Query().Get("refresh"))

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	var d *orchestrator.Dashboard
	if refresh {
		if err = h.deps.Orchestrator.Require(orchestrator.FeatureAnalytics); err == nil {
			d, err = h.deps.Orchestrator.Refresh(ctx, restaurantID)
		}
	} else {
		d, err = h.deps.Orchestrator.GetDashboard(ctx, restaurantID)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Cached(d, d.Cached)
}

// ConfigPayload is the wire form of the orchestrator configuration.
// CacheTTL is a Go duration string such as "5m".
type ConfigPayload struct {
	CacheTTL       string                `json:"cache_ttl" validate:"required"`
	RevenueHorizon string                `json:"revenue_horizon" validate:"required,timeframe"`
	Features       orchestrator.Features `json:"features"`
}

func configPayload(cfg *orchestrator.Config) ConfigPayload {
	return ConfigPayload{
		CacheTTL:       cfg.CacheTTL.String(),
		RevenueHorizon: cfg.RevenueHorizon,
		Features:       cfg.Features,
	}
}

// GetConfig handles GET /api/v1/config.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(configPayload(h.deps.Orchestrator.Config()))
}

// UpdateConfig handles PUT /api/v1/config. The body replaces the whole
// orchestrator configuration and the dashboard cache is cleared.
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigPayload
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	ttl, err := time.ParseDuration(req.CacheTTL)
	if err != nil {
		respondError(w, r, fmt.Errorf("%w: cache_ttl must be a duration, got %q", errInvalidParam, req.CacheTTL))
		return
	}
	cfg := &orchestrator.Config{CacheTTL: ttl, RevenueHorizon: req.RevenueHorizon, Features: req.Features}
	if err := cfg.Validate(); err != nil {
		NewResponseWriter(w, r).BadRequest(err.Error())
		return
	}
	if err := h.deps.Orchestrator.UpdateConfig(cfg); err != nil {
		respondError(w, r, err)
		return
	}
	logging.Ctx(r.Context()).Info().
		Dur("cache_ttl", cfg.CacheTTL).
		Interface("features", cfg.Features).
		Msg("orchestrator configuration replaced over HTTP")
	NewResponseWriter(w, r).Success(configPayload(h.deps.Orchestrator.Config()))
}

// Health handles GET /api/v1/health. A degraded system answers 503.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	health := h.deps.Orchestrator.SystemHealth(ctx)
	status := http.StatusOK
	if health.Status != orchestrator.StatusHealthy {
		status = http.StatusServiceUnavailable
	}
	NewResponseWriter(w, r).WithStatus(status, health)
}

// HealthLive handles GET /api/v1/health/live.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]string{"status": "alive"})
}

// Performance handles GET /api/v1/health/performance.
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	stats := []middleware.EndpointStats{}
	if h.deps.Performance != nil {
		stats = h.deps.Performance.Stats()
	}
	NewResponseWriter(w, r).List(stats, len(stats))
}
