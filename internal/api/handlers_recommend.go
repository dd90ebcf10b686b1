// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"fmt"
	"net/http"
)

// Recommendations handles GET /api/v1/users/{userID}/recommendations.
//
// Query: restaurant_id (required), limit, signals=weather,price_fit,timing.
func (h *Handler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	restaurantID, err := queryInt(r, "restaurant_id", 0)
	if err == nil && restaurantID < 1 {
		err = fmt.Errorf("%w: restaurant_id is required", errInvalidParam)
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	opts, err := recommendOptions(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	result, err := h.deps.Recommend.GetPersonalizedRecommendations(ctx, userID, restaurantID, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(result)
}

// SimilarItems handles GET /api/v1/menu-items/{itemID}/similar?limit=.
func (h *Handler) SimilarItems(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	items, err := h.deps.Recommend.SimilarItems(ctx, itemID, limit)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(items, len(items))
}

// TrendingItems handles GET /api/v1/restaurants/{restaurantID}/trending?limit=&window=.
func (h *Handler) TrendingItems(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	limit, err := queryInt(r, "limit", 0)
	if err != nil {
		respondError(w, r, err)
		return
	}
	window, err := queryDuration(r, "window", h.trendingWindow)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	items, err := h.deps.Recommend.TrendingItems(ctx, restaurantID, limit, window)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(items, len(items))
}

// TrackInteraction handles POST /api/v1/interactions.
func (h *Handler) TrackInteraction(w http.ResponseWriter, r *http.Request) {
	var req InteractionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	recorded, err := h.deps.Recommend.TrackInteraction(ctx, req.toModel())
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Created(recorded)
}
