// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/signals"
	"github.com/tomtom215/tablesense/internal/store"
)

const engineName = "recommend"

// ErrInvalidInteraction is returned by TrackInteraction for unknown kinds.
var ErrInvalidInteraction = errors.New("invalid interaction kind")

// Engine ranks menu items for a diner. It is safe for concurrent use.
type Engine struct {
	config   *Config
	accessor store.Accessor
	weather  signals.WeatherProvider
	logger   zerolog.Logger
	now      func() time.Time

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

type weightedSignal struct {
	out    *signalOutput
	weight float64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now, for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates a recommendation engine. weather may be nil, in which
// case the weather signal never fires.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, accessor store.Accessor, weather signals.WeatherProvider, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if accessor == nil {
		return nil, errors.New("data accessor is required")
	}

	e := &Engine{
		config:   cfg.Clone(),
		accessor: accessor,
		weather:  weather,
		logger:   logger.With().Str("component", engineName).Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the scoring policy.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns request and error counters.
func (e *Engine) Stats() Stats {
	return Stats{Requests: e.requestCount.Load(), Errors: e.errorCount.Load()}
}

func (e *Engine) resolveLimit(limit int) int {
	if limit <= 0 {
		return e.config.Limits.DefaultLimit
	}
	if limit > e.config.Limits.MaxLimit {
		return e.config.Limits.MaxLimit
	}
	return limit
}

func (e *Engine) finish(operation string, start time.Time, err error) {
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		e.errorCount.Add(1)
	}
	metrics.RecordEngineCall(engineName, operation, store.Outcome(err), time.Since(start))
}

// GetPersonalizedRecommendations ranks the restaurant's available menu items
// for a diner.
//
//nolint:gocritic // hugeParam: opts passed by value for immutability
func (e *Engine) GetPersonalizedRecommendations(ctx context.Context, userID, restaurantID int, opts Options) (result *Result, err error) {
	start := time.Now()
	e.requestCount.Add(1)
	defer func() { e.finish("personalized", start, err) }()

	logger := e.logger.With().Int("user_id", userID).Int("restaurant_id", restaurantID).Logger()
	limit := e.resolveLimit(opts.Limit)

	in, err := e.loadInput(ctx, userID, restaurantID)
	if err != nil {
		return nil, err
	}
	if opts.Weather {
		in.weather = e.currentWeather(ctx, restaurantID, logger)
	}

	w := e.config.Weights
	outputs := []weightedSignal{
		{collaborativeScores(e.config.Collaborative, in), w.Collaborative},
		{contentScores(e.config.Content, in), w.Content},
		{behaviorScores(e.config.Behavior, in), w.Behavior},
	}
	if opts.Weather {
		outputs = append(outputs, weightedSignal{weatherScores(e.config.Context.WeatherBonus, in), w.Weather})
	}
	if opts.Timing {
		outputs = append(outputs, weightedSignal{timingScores(e.config.Context.TimingBonus, in), w.Timing})
	}
	if opts.Pricing {
		outputs = append(outputs, weightedSignal{priceFitScores(e.config.Context.PriceFitScale, in), w.PriceFit})
	}

	acc := newAccumulator(in.items)
	reasoning := make([]string, 0, len(outputs)+1)
	for _, o := range outputs {
		if acc.apply(o.out, o.weight) && o.out.summary != "" {
			reasoning = append(reasoning, o.out.summary)
		}
	}

	confidence := e.confidence(in)
	if in.prefs == nil && len(in.interactions) == 0 {
		reasoning = append(reasoning, "Limited history available, so popular and featured dishes rank first")
	}

	result = &Result{
		Recommendations: acc.ranked(limit),
		Reasoning:       reasoning,
		Confidence:      confidence,
		Algorithm:       AlgorithmHybrid,
		SignalsUsed:     acc.used,
		GeneratedAt:     in.now,
	}
	metrics.RecordConfidence(engineName, "personalized", confidence)

	logger.Debug().
		Int("candidates", len(in.items)).
		Int("returned", len(result.Recommendations)).
		Int("confidence", confidence).
		Strs("signals", acc.used).
		Msg("recommendation complete")

	return result, nil
}

// loadInput fetches all engine inputs concurrently. Any failure aborts the
// request before scoring starts.
func (e *Engine) loadInput(ctx context.Context, userID, restaurantID int) (*scoringInput, error) {
	in := &scoringInput{now: e.now()}
	var userOrders []models.Order

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := e.accessor.GetUser(gctx, userID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		in.user = u
		return nil
	})
	g.Go(func() error {
		r, err := e.accessor.GetRestaurant(gctx, restaurantID)
		if err != nil {
			return fmt.Errorf("get restaurant: %w", err)
		}
		in.restaurant = r
		return nil
	})
	g.Go(func() error {
		p, err := e.accessor.GetUserPreferences(gctx, userID)
		if err != nil {
			return fmt.Errorf("get preferences: %w", err)
		}
		in.prefs = p
		return nil
	})
	g.Go(func() error {
		its, err := e.accessor.GetUserInteractions(gctx, userID)
		if err != nil {
			return fmt.Errorf("get interactions: %w", err)
		}
		in.interactions = its
		return nil
	})
	g.Go(func() error {
		its, err := e.accessor.GetRestaurantInteractions(gctx, restaurantID)
		if err != nil {
			return fmt.Errorf("get restaurant interactions: %w", err)
		}
		in.neighborhood = its
		return nil
	})
	g.Go(func() error {
		orders, err := e.accessor.GetUserOrders(gctx, userID)
		if err != nil {
			return fmt.Errorf("get orders: %w", err)
		}
		userOrders = orders
		return nil
	})
	g.Go(func() error {
		items, err := e.accessor.GetMenuItems(gctx, restaurantID)
		if err != nil {
			return fmt.Errorf("get menu items: %w", err)
		}
		in.items = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	in.indexItems()

	// Only this restaurant's history is comparable with its menu.
	in.orders = make([]models.Order, 0, len(userOrders))
	for _, o := range userOrders {
		if o.RestaurantID == restaurantID {
			in.orders = append(in.orders, o)
		}
	}
	mine := make([]models.UserItemInteraction, 0, len(in.interactions))
	for _, it := range in.interactions {
		if _, ok := in.itemsByID[it.MenuItemID]; ok {
			mine = append(mine, it)
		}
	}
	in.interactions = mine

	return in, nil
}

func (e *Engine) currentWeather(ctx context.Context, restaurantID int, logger zerolog.Logger) *signals.Weather {
	if e.weather == nil {
		return nil
	}
	w, err := e.weather.CurrentWeather(ctx, restaurantID)
	if err != nil {
		logger.Warn().Err(err).Msg("weather unavailable, skipping weather signal")
		metrics.RecordSignalFailure(engineName, SignalWeather)
		return nil
	}
	return &w
}

// confidence scores how much data backed the ranking, 0..100.
func (e *Engine) confidence(in *scoringInput) int {
	c := e.config.Confidence
	score := 0
	if p := in.prefs; p != nil {
		score += c.PreferencesBase
		if len(p.DietaryPreferences) > 0 {
			score += c.DietaryBonus
		}
		if len(p.FavoriteCategories) > 0 {
			score += c.CategoryBonus
		}
		if len(p.Allergens) > 0 {
			score += c.AllergenBonus
		}
	}
	score += min(len(in.interactions)*c.PerInteraction, c.InteractionCap)
	score += min(len(in.orders)*c.PerOrder, c.OrderCap)
	return max(0, min(score, 100))
}

// SimilarItems ranks available items of the same restaurant by content
// similarity to a reference item.
func (e *Engine) SimilarItems(ctx context.Context, itemID, limit int) (items []ScoredItem, err error) {
	start := time.Now()
	e.requestCount.Add(1)
	defer func() { e.finish("similar", start, err) }()

	ref, err := e.accessor.GetMenuItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}
	menu, err := e.accessor.GetMenuItems(ctx, ref.RestaurantID)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}

	cfg := e.config.Content
	refFlags := ref.DietaryFlags()
	items = make([]ScoredItem, 0, len(menu))
	for i := range menu {
		item := menu[i]
		if item.ID == ref.ID || !item.IsAvailable {
			continue
		}
		entry := ScoredItem{Item: item, Breakdown: make(map[string]float64)}
		if item.CategoryID == ref.CategoryID {
			entry.Score += cfg.SameCategoryBonus
			entry.Reasons = append(entry.Reasons, "Same category as "+ref.Name)
		}
		if math.Abs(item.Price-ref.Price) <= cfg.PriceSimilarityRange {
			entry.Score += cfg.PriceSimilarityBonus
			entry.Reasons = append(entry.Reasons, "Similar price")
		}
		for _, flag := range refFlags {
			if item.HasDietaryFlag(flag) {
				entry.Score += cfg.SharedDietaryBonus
			}
		}
		if entry.Score <= 0 {
			continue
		}
		entry.Breakdown[SignalContent] = entry.Score
		items = append(items, entry)
	}

	sortScored(items)
	if n := e.resolveLimit(limit); len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// TrendingItems ranks available items by quantity ordered within window.
// A zero window uses the configured default.
func (e *Engine) TrendingItems(ctx context.Context, restaurantID, limit int, window time.Duration) (items []ScoredItem, err error) {
	start := time.Now()
	e.requestCount.Add(1)
	defer func() { e.finish("trending", start, err) }()

	if window <= 0 {
		window = e.config.Limits.TrendingWindow
	}
	if _, err := e.accessor.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	menu, err := e.accessor.GetMenuItems(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get menu items: %w", err)
	}
	orders, err := e.accessor.GetRestaurantOrders(ctx, restaurantID, e.now().Add(-window))
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	qty := make(map[int]int)
	for _, o := range orders {
		for _, line := range o.Items {
			qty[line.MenuItemID] += max(line.Quantity, 1)
		}
	}

	items = make([]ScoredItem, 0, len(qty))
	for i := range menu {
		q := qty[menu[i].ID]
		if q == 0 || !menu[i].IsAvailable {
			continue
		}
		items = append(items, ScoredItem{
			Item:    menu[i],
			Score:   float64(q),
			Reasons: []string{fmt.Sprintf("Ordered %d times recently", q)},
		})
	}

	sortScored(items)
	if n := e.resolveLimit(limit); len(items) > n {
		items = items[:n]
	}
	return items, nil
}

// TrackInteraction validates and appends an entry to the interaction log.
// The timestamp is set from the engine clock.
//
//nolint:gocritic // hugeParam: in passed by value so the caller's copy is untouched
func (e *Engine) TrackInteraction(ctx context.Context, in models.UserItemInteraction) (out *models.UserItemInteraction, err error) {
	start := time.Now()
	defer func() { e.finish("track", start, err) }()

	if !in.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidInteraction, in.Kind)
	}
	if in.Rating != nil && (*in.Rating < 1 || *in.Rating > 5) {
		return nil, fmt.Errorf("%w: rating %d outside 1..5", ErrInvalidInteraction, *in.Rating)
	}
	if _, err := e.accessor.GetUser(ctx, in.UserID); err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if _, err := e.accessor.GetMenuItem(ctx, in.MenuItemID); err != nil {
		return nil, fmt.Errorf("get menu item: %w", err)
	}

	in.ID = 0
	in.Timestamp = e.now()
	if err := e.accessor.RecordInteraction(ctx, &in); err != nil {
		return nil, fmt.Errorf("record interaction: %w", err)
	}
	return &in, nil
}
