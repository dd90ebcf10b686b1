// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package pricing

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/signals"
	"github.com/tomtom215/tablesense/internal/store"
)

var (
	// Tuesday in spring, between lunch and the early-bird window.
	quietTuesday = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)
	saturdayNoon = time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	mondayLate   = time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
)

func newFixture() *store.Memory {
	m := store.NewMemory()
	m.AddRestaurant(models.Restaurant{ID: 1, Name: "Harbor Table"})
	m.AddRestaurant(models.Restaurant{ID: 2, Name: "Elsewhere"})
	m.AddMenuItem(models.MenuItem{ID: 1, RestaurantID: 1, Name: "House Burger", Description: "classic beef patty", Price: 20, IsAvailable: true})
	m.AddMenuItem(models.MenuItem{ID: 2, RestaurantID: 1, Name: "Iced Lemonade", Description: "refreshing citrus", Price: 4.5, IsAvailable: true})
	m.AddMenuItem(models.MenuItem{ID: 3, RestaurantID: 1, Name: "Fried Chicken", Description: "crispy and rich", Price: 20, IsAvailable: true})
	m.AddMenuItem(models.MenuItem{ID: 4, RestaurantID: 1, Name: "Sold Out Pie", Description: "apple", Price: 9, IsAvailable: false})
	m.AddMenuItem(models.MenuItem{ID: 50, RestaurantID: 2, Name: "Elsewhere Soup", Price: 6, IsAvailable: true})
	return m
}

func newTestEngine(t *testing.T, acc store.Accessor, sigs signals.Set, now time.Time, cfg *Config) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, acc, sigs, zerolog.Nop(), WithClock(func() time.Time { return now }))
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return e
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestGetDynamicPrice_NoSignals(t *testing.T) {
	e := newTestEngine(t, newFixture(), signals.Set{}, quietTuesday, nil)

	q, err := e.GetDynamicPrice(context.Background(), 1, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if q.DynamicPrice != 20 || q.OriginalPrice != 20 {
		t.Errorf("price = %v -> %v, want 20 -> 20", q.OriginalPrice, q.DynamicPrice)
	}
	if q.Adjustments == nil || len(q.Adjustments) != 0 {
		t.Errorf("adjustments = %#v, want empty non-nil", q.Adjustments)
	}
	if q.Confidence != 50 {
		t.Errorf("confidence = %d, want 50", q.Confidence)
	}
	if !q.ValidUntil.Equal(quietTuesday.Add(30 * time.Minute)) {
		t.Errorf("valid until = %v", q.ValidUntil)
	}
	if q.Expired(quietTuesday.Add(29*time.Minute)) || !q.Expired(quietTuesday.Add(30*time.Minute)) {
		t.Error("quote expiry boundary wrong")
	}
}

func TestGetDynamicPrice_AdditiveNotCompounded(t *testing.T) {
	e := newTestEngine(t, newFixture(), signals.Set{}, saturdayNoon, nil)

	q, err := e.GetDynamicPrice(context.Background(), 1, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// Weekend peak +8 and weekend day +6 on $20.
	if !approx(q.DynamicPrice, 22.80) {
		t.Errorf("dynamic price = %v, want 22.80", q.DynamicPrice)
	}
	if len(q.Adjustments) != 2 {
		t.Fatalf("adjustments = %+v", q.Adjustments)
	}
	if q.Adjustments[0].Factor != FactorTimeOfDay || !approx(q.Adjustments[0].Adjustment, 1.6) {
		t.Errorf("first adjustment = %+v", q.Adjustments[0])
	}
	if q.Adjustments[1].Factor != FactorDayOfWeek || !approx(q.Adjustments[1].Adjustment, 1.2) {
		t.Errorf("second adjustment = %+v", q.Adjustments[1])
	}
	if q.Confidence != 66 {
		t.Errorf("confidence = %d, want 66", q.Confidence)
	}
}

func busyHistory(m *store.Memory, now time.Time) {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	for d := 1; d <= 7; d++ {
		m.AddOrder(models.Order{UserID: 100, RestaurantID: 1, CreatedAt: todayStart.AddDate(0, 0, -d).Add(12 * time.Hour)})
	}
}

func TestGetDynamicPrice_ClampsToMax(t *testing.T) {
	m := newFixture()
	busyHistory(m, saturdayNoon)
	for i := 0; i < 3; i++ {
		m.AddOrder(models.Order{UserID: 100, RestaurantID: 1, CreatedAt: saturdayNoon.Add(-time.Duration(i+1) * 20 * time.Minute)})
	}
	sigs := signals.Set{
		Weather:   signals.NewStatic().SetWeather(signals.Weather{Condition: signals.ConditionHot}, nil),
		Inventory: signals.NewStatic().SetInventory(2, signals.InventoryStatus{Level: 0.1, Trend: signals.TrendDown}),
	}
	e := newTestEngine(t, m, sigs, saturdayNoon, nil)

	q, err := e.GetDynamicPrice(context.Background(), 2, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// demand +10, weekend peak +8, hot/refreshing +5, inventory +8+2, weekend +6
	if got := q.TotalPercentage(); !approx(got, 39) {
		t.Errorf("total percentage = %v, want 39", got)
	}
	if q.Clamped != BoundMax {
		t.Errorf("clamped = %q, want max", q.Clamped)
	}
	if q.DynamicPrice > 4.5*1.25 {
		t.Errorf("dynamic price %v exceeds the 25%% premium cap", q.DynamicPrice)
	}
	if !approx(q.DynamicPrice, 5.62) {
		t.Errorf("dynamic price = %v, want 5.62", q.DynamicPrice)
	}
	// 50 + 5*8 - 10
	if q.Confidence != 80 {
		t.Errorf("confidence = %d, want 80", q.Confidence)
	}
}

func TestGetDynamicPrice_ClampsToMin(t *testing.T) {
	m := newFixture()
	busyHistory(m, mondayLate)
	cfg := DefaultConfig()
	cfg.TimeOfDay.LateNightPct = -15
	sigs := signals.Set{
		Weather:   signals.NewStatic().SetWeather(signals.Weather{Condition: signals.ConditionHot}, nil),
		Inventory: signals.NewStatic().SetInventory(3, signals.InventoryStatus{Level: 0.95, Trend: signals.TrendStable}),
	}
	e := newTestEngine(t, m, sigs, mondayLate, cfg)

	q, err := e.GetDynamicPrice(context.Background(), 3, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// low demand -3, late night -15, hot/heavy -3, surplus -3, Monday -4
	if got := q.TotalPercentage(); !approx(got, -28) {
		t.Errorf("total percentage = %v, want -28 (%+v)", got, q.Adjustments)
	}
	if q.Clamped != BoundMin || !approx(q.DynamicPrice, 16) {
		t.Errorf("dynamic price = %v clamped=%q, want 16 min", q.DynamicPrice, q.Clamped)
	}
}

func TestGetDynamicPrice_BandHoldsEverywhere(t *testing.T) {
	m := newFixture()
	busyHistory(m, saturdayNoon)
	conditions := []string{signals.ConditionHot, signals.ConditionCold, signals.ConditionRainy, signals.ConditionMild}
	levels := []float64{0.05, 0.3, 0.5, 0.9}
	cfg := DefaultConfig()
	cfg.Demand.HighVelocityPct = 40
	cfg.Inventory.CriticalPct = 30

	for day := 0; day < 7; day++ {
		for hour := 0; hour < 24; hour += 3 {
			now := time.Date(2026, 7, 5+day, hour, 15, 0, 0, time.UTC)
			for _, cond := range conditions {
				for _, lvl := range levels {
					static := signals.NewStatic().
						SetWeather(signals.Weather{Condition: cond}, nil).
						SetInventory(2, signals.InventoryStatus{Level: lvl, Trend: signals.TrendDown})
					e := newTestEngine(t, m, signals.Set{Weather: static, Inventory: static}, now, cfg)

					q, err := e.GetDynamicPrice(context.Background(), 2, 1, DefaultOptions())
					if err != nil {
						t.Fatal(err)
					}
					if q.DynamicPrice < 4.5*0.80 || q.DynamicPrice > 4.5*1.25 {
						t.Fatalf("%v %s %.2f: price %v outside band", now, cond, lvl, q.DynamicPrice)
					}
					if q.Confidence < 0 || q.Confidence > 100 {
						t.Fatalf("confidence %d out of range", q.Confidence)
					}
				}
			}
		}
	}
}

func TestGetDynamicPrice_RoundingStaysInBand(t *testing.T) {
	m := store.NewMemory()
	m.AddRestaurant(models.Restaurant{ID: 1})
	m.AddMenuItem(models.MenuItem{ID: 1, RestaurantID: 1, Name: "Odd", Price: 7.33, IsAvailable: true})
	cfg := DefaultConfig()
	cfg.TimeOfDay.LateNightPct = -50
	e := newTestEngine(t, m, signals.Set{}, mondayLate, cfg)

	q, err := e.GetDynamicPrice(context.Background(), 1, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	// 7.33 * 0.8 = 5.864, which rounds below the floor.
	if q.DynamicPrice < 7.33*0.8 {
		t.Errorf("dynamic price %v below floor %v", q.DynamicPrice, 7.33*0.8)
	}
	if !approx(q.DynamicPrice, 5.87) {
		t.Errorf("dynamic price = %v, want 5.87", q.DynamicPrice)
	}
}

func TestGetDynamicPrice_Errors(t *testing.T) {
	e := newTestEngine(t, newFixture(), signals.Set{}, quietTuesday, nil)
	ctx := context.Background()

	if _, err := e.GetDynamicPrice(ctx, 404, 1, DefaultOptions()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown item: err = %v", err)
	}
	if _, err := e.GetDynamicPrice(ctx, 50, 1, DefaultOptions()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("item of another restaurant: err = %v", err)
	}
	if _, err := e.GetDynamicPrice(ctx, 4, 1, DefaultOptions()); !errors.Is(err, store.ErrItemUnavailable) {
		t.Errorf("unavailable item: err = %v", err)
	}
	if e.Stats().Errors != 0 {
		t.Errorf("caller errors must not count as engine errors, got %d", e.Stats().Errors)
	}
}

type failingOrders struct {
	*store.Memory
}

func (f failingOrders) GetRestaurantOrders(context.Context, int, time.Time) ([]models.Order, error) {
	return nil, store.ErrUpstreamUnavailable
}

func TestGetDynamicPrice_UpstreamFailure(t *testing.T) {
	e := newTestEngine(t, failingOrders{newFixture()}, signals.Set{}, quietTuesday, nil)

	if _, err := e.GetDynamicPrice(context.Background(), 1, 1, DefaultOptions()); !errors.Is(err, store.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}

	// Without the demand factor no orders are read.
	opts := DefaultOptions()
	opts.Demand = false
	if _, err := e.GetDynamicPrice(context.Background(), 1, 1, opts); err != nil {
		t.Errorf("unexpected error with demand disabled: %v", err)
	}
}

func TestGetDynamicPrice_WeatherFailureIsNeutral(t *testing.T) {
	sigs := signals.Set{Weather: signals.NewStatic().SetWeather(signals.Weather{}, errors.New("timeout"))}
	e := newTestEngine(t, newFixture(), sigs, quietTuesday, nil)

	q, err := e.GetDynamicPrice(context.Background(), 2, 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range q.Adjustments {
		if a.Factor == FactorWeather {
			t.Error("weather factor fired despite provider failure")
		}
	}
}

func TestQuoteMenu(t *testing.T) {
	e := newTestEngine(t, newFixture(), signals.Set{}, quietTuesday, nil)

	quotes, err := e.QuoteMenu(context.Background(), 1, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	want := []int{1, 2, 3}
	if len(quotes) != len(want) {
		t.Fatalf("got %d quotes, want %d", len(quotes), len(want))
	}
	for i, q := range quotes {
		if q.MenuItemID != want[i] {
			t.Errorf("quote %d is item %d, want %d", i, q.MenuItemID, want[i])
		}
	}

	if _, err := e.QuoteMenu(context.Background(), 999, DefaultOptions()); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("unknown restaurant: err = %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"min above one", func(c *Config) { c.MinMultiplier = 1.1 }},
		{"max below one", func(c *Config) { c.MaxMultiplier = 0.9 }},
		{"zero ttl", func(c *Config) { c.QuoteTTL = 0 }},
		{"zero lookback", func(c *Config) { c.Demand.LookbackDays = 0 }},
		{"service hours", func(c *Config) { c.Demand.ServiceHours = 30 }},
		{"inventory order", func(c *Config) { c.Inventory.LowLevel = 0.9 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if cfg.Validate() == nil {
				t.Error("expected validation error")
			}
		})
	}
}
