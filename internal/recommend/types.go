// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package recommend

import (
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

// Signal names, used as breakdown keys and weight map keys.
const (
	SignalCollaborative = "collaborative"
	SignalContent       = "content"
	SignalBehavior      = "behavior"
	SignalWeather       = "weather"
	SignalTiming        = "timing"
	SignalPriceFit      = "price_fit"
)

// AlgorithmHybrid names the weighted multi-signal ranking.
const AlgorithmHybrid = "hybrid_weighted"

// Options controls a personalized recommendation request.
type Options struct {
	// Limit is the maximum number of items returned. Zero uses the configured default.
	Limit int `json:"limit" validate:"omitempty,min=1,max=100"`

	// Weather enables the weather-context signal.
	Weather bool `json:"weather"`

	// Pricing enables the price-fit signal.
	Pricing bool `json:"pricing"`

	// Timing enables the time-of-day signal.
	Timing bool `json:"timing"`
}

// DefaultOptions enables every contextual signal.
func DefaultOptions() Options {
	return Options{Weather: true, Pricing: true, Timing: true}
}

// ScoredItem is a menu item with its combined score.
//
// Breakdown holds the weighted contribution of each signal, so the values
// sum to Score. Reasons are the human-readable notes emitted by the signals
// that touched the item.
type ScoredItem struct {
	Item      models.MenuItem    `json:"item"`
	Score     float64            `json:"score"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	Reasons   []string           `json:"reasons,omitempty"`
}

// Result is the outcome of a personalized recommendation request.
// The order of Recommendations is the definitive client ranking.
type Result struct {
	Recommendations []ScoredItem `json:"recommendations"`
	Reasoning       []string     `json:"reasoning"`
	Confidence      int          `json:"confidence"`
	Algorithm       string       `json:"algorithm"`
	SignalsUsed     []string     `json:"signals_used"`
	GeneratedAt     time.Time    `json:"generated_at"`
}

// Items returns the ranked menu items without scores.
func (r *Result) Items() []models.MenuItem {
	out := make([]models.MenuItem, len(r.Recommendations))
	for i := range r.Recommendations {
		out[i] = r.Recommendations[i].Item
	}
	return out
}

// Stats reports engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}
