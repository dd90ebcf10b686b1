// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"fmt"
	"net/http"
)

// Price handles GET /api/v1/menu-items/{itemID}/price?restaurant_id=&factors=.
func (h *Handler) Price(w http.ResponseWriter, r *http.Request) {
	itemID, err := pathID(r, "itemID")
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
	opts, err := pricingOptions(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	quote, err := h.deps.Pricing.GetDynamicPrice(ctx, itemID, restaurantID, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).Success(quote)
}

// MenuPrices handles GET /api/v1/restaurants/{restaurantID}/prices?factors=.
func (h *Handler) MenuPrices(w http.ResponseWriter, r *http.Request) {
	restaurantID, err := pathID(r, "restaurantID")
	if err != nil {
		respondError(w, r, err)
		return
	}
	opts, err := pricingOptions(r)
	if err != nil {
		respondError(w, r, err)
		return
	}

	ctx, cancel := h.engineContext(r.Context())
	defer cancel()

	quotes, err := h.deps.Pricing.QuoteMenu(ctx, restaurantID, opts)
	if err != nil {
		respondError(w, r, err)
		return
	}
	NewResponseWriter(w, r).List(quotes, len(quotes))
}
