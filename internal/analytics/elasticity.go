// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
)

// dailySales is one day of sales for a single menu item.
type dailySales struct {
	day      time.Time
	quantity int
	revenue  float64
}

func (d dailySales) averagePrice() float64 {
	if d.quantity == 0 {
		return 0
	}
	return d.revenue / float64(d.quantity)
}

// itemSales groups order lines by menu item and calendar day. Days are
// ascending. The second map counts order lines per item.
func itemSales(orders []models.Order) (map[int][]dailySales, map[int]int) {
	type key struct {
		item int
		day  time.Time
	}
	agg := make(map[key]*dailySales)
	lines := make(map[int]int)
	for i := range orders {
		o := &orders[i]
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		t := o.CreatedAt
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
		for _, line := range o.Items {
			qty := max(line.Quantity, 1)
			k := key{item: line.MenuItemID, day: day}
			d, ok := agg[k]
			if !ok {
				d = &dailySales{day: day}
				agg[k] = d
			}
			d.quantity += qty
			d.revenue += line.UnitPrice * float64(qty)
			lines[line.MenuItemID]++
		}
	}

	out := make(map[int][]dailySales, len(lines))
	for k, d := range agg {
		out[k.item] = append(out[k.item], *d)
	}
	for id := range out {
		days := out[id]
		sort.Slice(days, func(i, j int) bool { return days[i].day.Before(days[j].day) })
	}
	return out, lines
}

// elasticitySamples returns the ratio of quantity change to price change
// between consecutive sales days whose price moved by more than minChange.
func elasticitySamples(days []dailySales, minChange float64) []float64 {
	var samples []float64
	for i := 1; i < len(days); i++ {
		prevPrice, price := days[i-1].averagePrice(), days[i].averagePrice()
		if prevPrice <= 0 || days[i-1].quantity == 0 {
			continue
		}
		priceChange := (price - prevPrice) / prevPrice
		if math.Abs(priceChange) <= minChange {
			continue
		}
		qtyChange := float64(days[i].quantity-days[i-1].quantity) / float64(days[i-1].quantity)
		samples = append(samples, qtyChange/priceChange)
	}
	return samples
}

// OptimizeMenuPricing suggests price changes for available items with
// enough order history and observable price variation. Items whose change
// would be below the minimum delta are omitted. Results are ordered by the
// size of the change, largest first.
func (e *Engine) OptimizeMenuPricing(ctx context.Context, restaurantID int) (suggestions []PriceSuggestion, err error) {
	start := e.begin()
	defer func() { e.finish("optimize_pricing", start, err) }()

	if _, err := e.accessor.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	items, err := e.accessor.GetMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}
	orders, err := e.accessor.GetRestaurantOrders(ctx, restaurantID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	cfg := e.config.Elasticity
	sales, lines := itemSales(orders)
	suggestions = make([]PriceSuggestion, 0)

	for i := range items {
		item := &items[i]
		if !item.IsAvailable || item.Price <= 0 || lines[item.ID] < cfg.MinObservations {
			continue
		}
		samples := elasticitySamples(sales[item.ID], cfg.MinPriceChange)
		if len(samples) == 0 {
			continue
		}
		s, ok := e.suggest(item, mean(samples), lines[item.ID], len(samples))
		if !ok {
			continue
		}
		suggestions = append(suggestions, s)
		metrics.RecordConfidence(engineName, "optimize_pricing", s.Confidence)
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		di, dj := math.Abs(suggestions[i].PriceChange), math.Abs(suggestions[j].PriceChange)
		if di != dj {
			return di > dj
		}
		return suggestions[i].MenuItemID < suggestions[j].MenuItemID
	})

	e.logger.Debug().Int("restaurant_id", restaurantID).Int("suggestions", len(suggestions)).Msg("menu pricing optimized")
	return suggestions, nil
}

// suggest shifts the price by -1/(2*elasticity) after bounding the
// elasticity, then bounds the shift. It reports false for changes too small
// to act on.
func (e *Engine) suggest(item *models.MenuItem, elasticity float64, observations, samples int) (PriceSuggestion, bool) {
	cfg := e.config.Elasticity
	el := math.Max(cfg.MinElasticity, math.Min(elasticity, cfg.MaxElasticity))

	shift := math.Max(-cfg.MaxDecrease, math.Min(-1/(2*el), cfg.MaxIncrease))
	suggested := round2(item.Price * (1 + shift))
	delta := round2(suggested - item.Price)
	if math.Abs(delta) <= cfg.MinDelta {
		return PriceSuggestion{}, false
	}

	applied := (suggested - item.Price) / item.Price
	revenueChange := ((1+applied)*(1+el*applied) - 1) * 100

	confidence := 40 + min(samples*5, 40)
	if observations >= cfg.RichHistoryAt {
		confidence += 10
	}

	direction := "raise"
	if delta < 0 {
		direction = "lower"
	}
	return PriceSuggestion{
		MenuItemID:            item.ID,
		Name:                  item.Name,
		CurrentPrice:          item.Price,
		SuggestedPrice:        suggested,
		PriceChange:           delta,
		Elasticity:            math.Round(el*100) / 100,
		Observations:          observations,
		Samples:               samples,
		ExpectedRevenueChange: round1(revenueChange),
		Confidence:            clampPercent(confidence),
		Reasoning: fmt.Sprintf("Demand elasticity %.2f over %d price changes suggests you %s the price by $%.2f",
			el, samples, direction, math.Abs(delta)),
	}, true
}
