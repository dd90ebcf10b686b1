// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/tablesense/internal/analytics"
)

// forecastParams reads the restaurant, timeframe and date of a forecast request.
func (h *Handler) forecastParams(r *http.Request, defTimeframe analytics.Timeframe) (int, analytics.Timeframe, time.Time, error) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		return 0, "", time.Time{}, err
	}
	tf := defTimeframe
	if raw := r.URL.Query().Get("timeframe"); raw != "" {
		if tf, err = analytics.ParseTimeframe(raw); err != nil {
			return 0, "", time.Time{}, err
		}
	}
	date, err := parseDate(r.URL.Query().Get("date"), h.tomorrow())
	if err != nil {
		return 0, "", time.Time{}, err
	}
	return restaurantID, tf, date, nil
}

// Demand handles GET /api/v1/restaurants/{restaurantID}/demand?timeframe=&date=.
// Defaults: timeframe day, date tomorrow.
func (h *Handler) Demand(w http.ResponseWriter, r *http.Request) {
	restaurantID, tf, date, err := h.forecastParams(r, analytics.TimeframeDay)
	if err != nil {
		respondError(w, r, err)
		return
	}
	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	pred, err := h.deps.Analytics.PredictDemand(ctx, restaurantID, tf, date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(pred)
}

// Revenue handles GET /api/v1/restaurants/{restaurantID}/revenue?timeframe=&date=.
// Defaults: timeframe week, date tomorrow.
func (h *Handler) Revenue(w http.ResponseWriter, r *http.Request) {
	restaurantID, tf, date, err := h.forecastParams(r, analytics.TimeframeWeek)
	if err != nil {
		respondError(w, r, err)
		return
	}
	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	pred, err := h.deps.Analytics.PredictRevenue(ctx, restaurantID, tf, date)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(pred)
}

// Staffing handles GET /api/v1/restaurants/{restaurantID}/staffing?date=
// with the default shifts.
func (h *Handler) Staffing(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	date, err := parseDate(r.URL.Query().Get("date"), h.tomorrow())
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.staffing(w, r, restaurantID, date, nil)
}

// StaffingCustom handles POST /api/v1/restaurants/{restaurantID}/staffing
// with a StaffingRequest body.
func (h *Handler) StaffingCustom(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	var req StaffingRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}
	date, err := parseDate(req.Date, h.tomorrow())
	if err != nil {
		respondError(w, r, err)
		return
	}
	h.staffing(w, r, restaurantID, date, req.Shifts)
}

func (h *Handler) staffing(w http.ResponseWriter, r *http.Request, restaurantID int, date time.Time, shifts []analytics.Shift) {
	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	plan, err := h.deps.Analytics.PredictStaffingNeeds(ctx, restaurantID, date, shifts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(plan)
}

// restaurantList runs a per-restaurant analytics call that returns a slice.
func restaurantList[T any](h *Handler, fn func(ctx context.Context, restaurantID int) ([]T, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		restaurantID, err := pathID(r, "restaurantID")
		if err != nil {
			respondError(w, r, err)
			return
		}
		ctx, cancel := h.engineContext(r.Context())
		defer cancel()

		out, err := fn(ctx, restaurantID)
		if err != nil {
			respondError(w, r, err)
			return
		}
		if out == nil {
			out = []T{}
		}
		NewResponseWriter(w, r).List(out, len(out))
	}
}

// Segments handles GET /api/v1/restaurants/{restaurantID}/segments.
func (h *Handler) Segments(w http.ResponseWriter, r *http.Request) {
	restaurantList(h, h.deps.Analytics.AnalyzeCustomerSegments)(w, r)
}

// Churn handles GET /api/v1/restaurants/{restaurantID}/churn.
func (h *Handler) Churn(w http.ResponseWriter, r *http.Request) {
	restaurantList(h, h.deps.Analytics.PredictCustomerChurn)(w, r)
}

// PriceOptimization handles GET /api/v1/restaurants/{restaurantID}/price-optimization.
func (h *Handler) PriceOptimization(w http.ResponseWriter, r *http.Request) {
	restaurantList(h, h.deps.Analytics.OptimizeMenuPricing)(w, r)
}
