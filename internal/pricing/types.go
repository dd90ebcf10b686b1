// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package pricing

import (
	"fmt"
	"time"
)

// Factor names reported in Adjustment.Factor.
const (
	FactorDemand    = "demand"
	FactorTimeOfDay = "time_of_day"
	FactorWeather   = "weather"
	FactorInventory = "inventory"
	FactorSeasonal  = "seasonal"
	FactorDayOfWeek = "day_of_week"
)

// Clamp bounds reported in Quote.Clamped.
const (
	BoundMin = "min"
	BoundMax = "max"
)

// Options selects the factors applied to a quote.
type Options struct {
	Demand    bool `json:"demand"`
	TimeOfDay bool `json:"time_of_day"`
	Weather   bool `json:"weather"`
	Inventory bool `json:"inventory"`
	Seasonal  bool `json:"seasonal"`
	DayOfWeek bool `json:"day_of_week"`
}

// DefaultOptions enables every factor.
func DefaultOptions() Options {
	return Options{Demand: true, TimeOfDay: true, Weather: true, Inventory: true, Seasonal: true, DayOfWeek: true}
}

// ParseOptions enables the named factors. A nil list enables all of them.
func ParseOptions(names []string) (Options, error) {
	if names == nil {
		return DefaultOptions(), nil
	}
	var opts Options
	for _, n := range names {
		switch n {
		case FactorDemand:
			opts.Demand = true
		case FactorTimeOfDay:
			opts.TimeOfDay = true
		case FactorWeather:
			opts.Weather = true
		case FactorInventory:
			opts.Inventory = true
		case FactorSeasonal:
			opts.Seasonal = true
		case FactorDayOfWeek:
			opts.DayOfWeek = true
		default:
			return opts, fmt.Errorf("unknown pricing factor %q", n)
		}
	}
	return opts, nil
}

// Adjustment is the contribution of one factor. Adjustment is in dollars,
// Percentage in whole percent of the original price.
type Adjustment struct {
	Factor     string  `json:"factor"`
	Adjustment float64 `json:"adjustment"`
	Percentage float64 `json:"percentage"`
	Reasoning  string  `json:"reasoning"`
}

// Quote is an advisory price. Callers must re-request after ValidUntil.
type Quote struct {
	MenuItemID    int          `json:"menu_item_id"`
	RestaurantID  int          `json:"restaurant_id"`
	ItemName      string       `json:"item_name"`
	OriginalPrice float64      `json:"original_price"`
	DynamicPrice  float64      `json:"dynamic_price"`
	Adjustments   []Adjustment `json:"adjustments"`
	Confidence    int          `json:"confidence"`
	ValidUntil    time.Time    `json:"valid_until"`
	GeneratedAt   time.Time    `json:"generated_at"`

	// Clamped is BoundMin or BoundMax when the summed adjustments left the
	// allowed band, empty otherwise.
	Clamped string `json:"clamped,omitempty"`
}

// TotalPercentage is the summed percentage of all adjustments before clamping.
func (q *Quote) TotalPercentage() float64 {
	total := 0.0
	for _, a := range q.Adjustments {
		total += a.Percentage
	}
	return total
}

// Expired reports whether the quote is stale at now.
func (q *Quote) Expired(now time.Time) bool {
	return !now.Before(q.ValidUntil)
}

// Stats reports engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}
