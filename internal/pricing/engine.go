// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package pricing computes advisory, demand-adjusted menu prices.
//
// Every enabled factor yields a percentage of the original price. The
// percentages are applied additively (never compounded), the summed price is
// clamped to [MinMultiplier, MaxMultiplier] times the original, and the
// result is rounded to cents. A quote expires after Config.QuoteTTL.
package pricing

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/signals"
	"github.com/tomtom215/tablesense/internal/store"
)

const engineName = "pricing"

// ErrInvalidPrice is returned for menu items without a positive base price.
var ErrInvalidPrice = errors.New("menu item has no positive price")

// Engine quotes dynamic prices. It is safe for concurrent use.
type Engine struct {
	config    *Config
	accessor  store.Accessor
	weather   signals.WeatherProvider
	inventory signals.InventoryProvider
	logger    zerolog.Logger
	now       func() time.Time

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a pricing engine. Missing providers in sigs fall back to
// neutral values.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, accessor store.Accessor, sigs signals.Set, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if accessor == nil {
		return nil, errors.New("data accessor is required")
	}
	sigs = sigs.WithDefaults()

	e := &Engine{
		config:    cfg.Clone(),
		accessor:  accessor,
		weather:   sigs.Weather,
		inventory: sigs.Inventory,
		logger:    logger.With().Str("component", engineName).Logger(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the pricing policy.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns request and error counters.
func (e *Engine) Stats() Stats {
	return Stats{Requests: e.requestCount.Load(), Errors: e.errorCount.Load()}
}

func (e *Engine) finish(operation string, start time.Time, err error) {
	if err != nil && !errors.Is(err, store.ErrNotFound) && !errors.Is(err, store.ErrItemUnavailable) {
		e.errorCount.Add(1)
	}
	metrics.RecordEngineCall(engineName, operation, store.Outcome(err), time.Since(start))
}

// GetDynamicPrice quotes one menu item of a restaurant.
func (e *Engine) GetDynamicPrice(ctx context.Context, menuItemID, restaurantID int, opts Options) (quote *Quote, err error) {
	start := time.Now()
	e.requestCount.Add(1)
	defer func() { e.finish("quote", start, err) }()

	item, err := e.accessor.GetMenuItem(ctx, menuItemID)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	if item.RestaurantID != restaurantID {
		return nil, fmt.Errorf("menu item %d at restaurant %d: %w", menuItemID, restaurantID, store.ErrNotFound)
	}
	if !item.IsAvailable {
		return nil, fmt.Errorf("menu item %d: %w", menuItemID, store.ErrItemUnavailable)
	}
	if item.Price <= 0 {
		return nil, fmt.Errorf("menu item %d: %w", menuItemID, ErrInvalidPrice)
	}

	now := e.now()
	orders, err := e.demandOrders(ctx, restaurantID, now, opts)
	if err != nil {
		return nil, err
	}
	w := e.currentWeather(ctx, restaurantID, opts)
	return e.quote(ctx, item, orders, w, now, opts), nil
}

// QuoteMenu quotes every available item of a restaurant, ordered by item id.
// Items without a positive price are skipped.
func (e *Engine) QuoteMenu(ctx context.Context, restaurantID int, opts Options) (quotes []Quote, err error) {
	start := time.Now()
	e.requestCount.Add(1)
	defer func() { e.finish("quote_menu", start, err) }()

	if _, err := e.accessor.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	items, err := e.accessor.GetMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}

	now := e.now()
	orders, err := e.demandOrders(ctx, restaurantID, now, opts)
	if err != nil {
		return nil, err
	}
	w := e.currentWeather(ctx, restaurantID, opts)

	quotes = make([]Quote, 0, len(items))
	for i := range items {
		if !items[i].IsAvailable || items[i].Price <= 0 {
			continue
		}
		quotes = append(quotes, *e.quote(ctx, &items[i], orders, w, now, opts))
	}
	return quotes, nil
}

func (e *Engine) demandOrders(ctx context.Context, restaurantID int, now time.Time, opts Options) ([]models.Order, error) {
	if !opts.Demand {
		return nil, nil
	}
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	since := todayStart.AddDate(0, 0, -e.config.Demand.LookbackDays)
	orders, err := e.accessor.GetRestaurantOrders(ctx, restaurantID, since)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return orders, nil
}

func (e *Engine) currentWeather(ctx context.Context, restaurantID int, opts Options) *signals.Weather {
	if !opts.Weather {
		return nil
	}
	w, err := e.weather.CurrentWeather(ctx, restaurantID)
	if err != nil {
		e.logger.Warn().Err(err).Int("restaurant_id", restaurantID).Msg("weather unavailable, skipping weather factor")
		metrics.RecordSignalFailure(engineName, FactorWeather)
		return nil
	}
	return &w
}

// quote applies the enabled factors to item. It never fails: a factor whose
// input is missing contributes nothing.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (e *Engine) quote(ctx context.Context, item *models.MenuItem, orders []models.Order, w *signals.Weather, now time.Time, opts Options) *Quote {
	cfg := e.config
	q := &Quote{
		MenuItemID:    item.ID,
		RestaurantID:  item.RestaurantID,
		ItemName:      item.Name,
		OriginalPrice: item.Price,
		Adjustments:   make([]Adjustment, 0, 6),
		GeneratedAt:   now,
		ValidUntil:    now.Add(cfg.QuoteTTL),
	}

	add := func(factor string, pct float64, reason string) {
		if pct == 0 {
			return
		}
		q.Adjustments = append(q.Adjustments, Adjustment{
			Factor:     factor,
			Adjustment: roundCents(item.Price * pct / 100),
			Percentage: pct,
			Reasoning:  reason,
		})
	}

	if opts.Demand {
		pct, reason := demandFactor(cfg.Demand, orders, now)
		add(FactorDemand, pct, reason)
	}
	if opts.TimeOfDay {
		pct, reason := timeOfDayFactor(cfg.TimeOfDay, now)
		add(FactorTimeOfDay, pct, reason)
	}
	if opts.Weather {
		pct, reason := weatherFactor(cfg.Weather, w, item)
		add(FactorWeather, pct, reason)
	}
	if opts.Inventory {
		status, err := e.inventory.InventoryLevel(ctx, item.ID)
		if err != nil {
			e.logger.Warn().Err(err).Int("menu_item_id", item.ID).Msg("inventory unavailable, skipping inventory factor")
			metrics.RecordSignalFailure(engineName, FactorInventory)
		} else {
			pct, reason := inventoryFactor(cfg.Inventory, status)
			add(FactorInventory, pct, reason)
		}
	}
	if opts.Seasonal {
		pct, reason := seasonalFactor(cfg.Seasonal, item, now)
		add(FactorSeasonal, pct, reason)
	}
	if opts.DayOfWeek {
		pct, reason := dayOfWeekFactor(cfg.DayOfWeek, now)
		add(FactorDayOfWeek, pct, reason)
	}

	// Percentages are summed against the original price, not compounded.
	total := q.TotalPercentage()
	price := item.Price + item.Price*total/100

	low := item.Price * cfg.MinMultiplier
	high := item.Price * cfg.MaxMultiplier
	switch {
	case price < low:
		price, q.Clamped = low, BoundMin
	case price > high:
		price, q.Clamped = high, BoundMax
	}
	q.DynamicPrice = roundCents(price)
	// Rounding must not push the price outside the band.
	if q.DynamicPrice < low {
		q.DynamicPrice = math.Ceil(low*100) / 100
	}
	if q.DynamicPrice > high {
		q.DynamicPrice = math.Floor(high*100) / 100
	}
	q.Confidence = e.confidence(len(q.Adjustments), total)

	metrics.RecordPriceQuote(q.OriginalPrice, q.DynamicPrice, q.Clamped)
	metrics.RecordConfidence(engineName, "quote", q.Confidence)

	e.logger.Debug().
		Int("menu_item_id", item.ID).
		Float64("original_price", q.OriginalPrice).
		Float64("dynamic_price", q.DynamicPrice).
		Int("factors", len(q.Adjustments)).
		Str("clamped", q.Clamped).
		Msg("price quoted")

	return q
}

func (e *Engine) confidence(factors int, totalPct float64) int {
	c := e.config.Confidence
	score := c.Base + factors*c.PerFactor
	if math.Abs(totalPct) > c.LargeAdjustmentPct {
		score -= c.LargePenalty
	}
	return max(0, min(score, 100))
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
