// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package pricing

import (
	"testing"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/signals"
)

func TestTimeOfDayFactor(t *testing.T) {
	cfg := DefaultConfig().TimeOfDay
	tuesday := func(h int) time.Time { return time.Date(2026, 3, 10, h, 0, 0, 0, time.UTC) }
	sunday := func(h int) time.Time { return time.Date(2026, 3, 15, h, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		now  time.Time
		want float64
	}{
		{"weekend lunch", sunday(12), 8},
		{"weekend dinner", sunday(19), 8},
		{"weekend morning", sunday(9), 0},
		{"weekend late", sunday(23), -5},
		{"weekday lunch", tuesday(11), 5},
		{"weekday dinner", tuesday(20), 5},
		{"weekday breakfast", tuesday(8), 3},
		{"early bird", tuesday(16), -3},
		{"small hours", tuesday(2), -5},
		{"mid morning", tuesday(10), 0},
		{"after lunch", tuesday(14), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := timeOfDayFactor(cfg, tt.now); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayOfWeekFactor(t *testing.T) {
	cfg := DefaultConfig().DayOfWeek
	want := map[time.Weekday]float64{
		time.Sunday: 6, time.Monday: -4, time.Tuesday: 0, time.Wednesday: -2,
		time.Thursday: 0, time.Friday: 3, time.Saturday: 6,
	}
	// 2026-03-08 is a Sunday.
	for i := 0; i < 7; i++ {
		day := time.Date(2026, 3, 8+i, 12, 0, 0, 0, time.UTC)
		if got, _ := dayOfWeekFactor(cfg, day); got != want[day.Weekday()] {
			t.Errorf("%s: got %v, want %v", day.Weekday(), got, want[day.Weekday()])
		}
	}
}

func TestInventoryFactor(t *testing.T) {
	cfg := DefaultConfig().Inventory
	tests := []struct {
		status signals.InventoryStatus
		want   float64
	}{
		{signals.InventoryStatus{Level: 0.1, Trend: signals.TrendStable}, 8},
		{signals.InventoryStatus{Level: 0.1, Trend: signals.TrendDown}, 10},
		{signals.InventoryStatus{Level: 0.3, Trend: signals.TrendStable}, 4},
		{signals.InventoryStatus{Level: 0.5, Trend: signals.TrendDown}, 2},
		{signals.InventoryStatus{Level: 0.5, Trend: signals.TrendUp}, 0},
		{signals.InventoryStatus{Level: 0.7, Trend: signals.TrendDown}, 0},
		{signals.InventoryStatus{Level: 0.9, Trend: signals.TrendStable}, -3},
	}
	for _, tt := range tests {
		if got, _ := inventoryFactor(cfg, tt.status); got != tt.want {
			t.Errorf("%+v: got %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestWeatherFactor(t *testing.T) {
	cfg := DefaultConfig().Weather
	soup := &models.MenuItem{Name: "Tomato Soup", Description: "warm and creamy"}
	smoothie := &models.MenuItem{Name: "Berry Smoothie"}

	tests := []struct {
		cond string
		item *models.MenuItem
		want float64
	}{
		{signals.ConditionHot, smoothie, 5},
		{signals.ConditionHot, soup, -3},
		{signals.ConditionCold, soup, 6},
		{signals.ConditionCold, smoothie, 0},
		{signals.ConditionRainy, soup, 4},
		{signals.ConditionMild, soup, 0},
	}
	for _, tt := range tests {
		w := &signals.Weather{Condition: tt.cond}
		if got, _ := weatherFactor(cfg, w, tt.item); got != tt.want {
			t.Errorf("%s/%s: got %v, want %v", tt.cond, tt.item.Name, got, tt.want)
		}
	}
	if got, _ := weatherFactor(cfg, nil, soup); got != 0 {
		t.Errorf("missing weather: got %v, want 0", got)
	}
}

func TestSeasonalFactor(t *testing.T) {
	cfg := DefaultConfig().Seasonal
	pie := &models.MenuItem{Name: "Pumpkin Pie"}

	if got, _ := seasonalFactor(cfg, pie, time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)); got != 4 {
		t.Errorf("fall: got %v, want 4", got)
	}
	if got, _ := seasonalFactor(cfg, pie, time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC)); got != 0 {
		t.Errorf("summer: got %v, want 0", got)
	}
}

func TestDemandFactor(t *testing.T) {
	cfg := DefaultConfig().Demand
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	todayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)

	history := func(perDay int) []models.Order {
		var out []models.Order
		for d := 1; d <= 7; d++ {
			for i := 0; i < perDay; i++ {
				out = append(out, models.Order{CreatedAt: todayStart.AddDate(0, 0, -d).Add(12 * time.Hour)})
			}
		}
		return out
	}
	at := func(orders []models.Order, stamps ...time.Time) []models.Order {
		for _, ts := range stamps {
			orders = append(orders, models.Order{CreatedAt: ts})
		}
		return orders
	}

	tests := []struct {
		name   string
		orders []models.Order
		want   float64
	}{
		{"no history", at(nil, now.Add(-time.Minute)), 0},
		{"rush", at(history(12), now.Add(-10*time.Minute), now.Add(-30*time.Minute), now.Add(-50*time.Minute), now.Add(-70*time.Minute)), 10},
		{"busy day", at(history(2), todayStart.Add(9*time.Hour), todayStart.Add(10*time.Hour), todayStart.Add(11*time.Hour)), 5},
		{"slow day", history(4), -3},
		{"steady", at(history(4), todayStart.Add(9*time.Hour), todayStart.Add(10*time.Hour)), 0},
		{"cancelled ignored", at(nil, todayStart.AddDate(0, 0, -1)), 0},
	}
	tests[5].orders[0].Status = models.OrderStatusCancelled

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, _ := demandFactor(cfg, tt.orders, now); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseOptions(t *testing.T) {
	all, err := ParseOptions(nil)
	if err != nil || all != DefaultOptions() {
		t.Errorf("ParseOptions(nil) = %+v, %v", all, err)
	}
	opts, err := ParseOptions([]string{FactorWeather, FactorDayOfWeek})
	if err != nil {
		t.Fatalf("ParseOptions: %v", err)
	}
	if !opts.Weather || !opts.DayOfWeek || opts.Demand || opts.Inventory {
		t.Errorf("opts = %+v", opts)
	}
	if _, err := ParseOptions([]string{"surge"}); err == nil {
		t.Error("expected error for unknown factor")
	}
}
