// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

func TestOLSSlope(t *testing.T) {
	tests := []struct {
		name string
		ys   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 0},
		{"flat", []float64{3, 3, 3, 3}, 0},
		{"rising", []float64{1, 2, 3, 4}, 1},
		{"falling", []float64{8, 6, 4, 2}, -2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := olsSlope(tt.ys); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("olsSlope(%v) = %v, want %v", tt.ys, got, tt.want)
			}
		})
	}
}

func TestBucketSeries(t *testing.T) {
	end := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	orders := []models.Order{
		{CreatedAt: end.Add(-210 * time.Minute)},
		{CreatedAt: end.Add(-30 * time.Minute)},
		{CreatedAt: end.Add(-30 * time.Minute), Status: models.OrderStatusCancelled},
		{CreatedAt: end},
		{CreatedAt: end.Add(-5 * time.Hour)},
	}

	series, used := bucketSeries(orders, end, time.Hour, 4, countOrder)
	if want := []float64{1, 0, 0, 1}; !reflect.DeepEqual(series, want) {
		t.Errorf("series = %v, want %v", series, want)
	}
	if used != 2 {
		t.Errorf("used = %d, want 2", used)
	}
}

func TestOrderValue(t *testing.T) {
	if got := orderValue(&models.Order{TotalPrice: 18.5}); got != 18.5 {
		t.Errorf("total price = %v, want 18.5", got)
	}
	lines := &models.Order{Items: []models.OrderItem{{Quantity: 2, UnitPrice: 5}, {Quantity: 0, UnitPrice: 3}}}
	if got := orderValue(lines); got != 13 {
		t.Errorf("line sum = %v, want 13", got)
	}
}

func TestSeasonalityFactor(t *testing.T) {
	cfg := DefaultConfig().Seasonality
	tuesday := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	saturday := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	monday := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		tf     Timeframe
		target time.Time
		want   float64
	}{
		{"tuesday day", TimeframeDay, tuesday, 0},
		{"saturday day", TimeframeDay, saturday, 0.20},
		{"monday day", TimeframeDay, monday, -0.10},
		{"saturday week", TimeframeWeek, saturday, 0},
		{"tuesday lunch hour", TimeframeHour, tuesday.Add(12 * time.Hour), 0.25},
		{"saturday dinner hour", TimeframeHour, saturday.Add(18 * time.Hour), 0.55},
		{"tuesday late shift", TimeframeShift, tuesday.Add(23 * time.Hour), -0.30},
		{"lunch hour ignored for days", TimeframeDay, tuesday.Add(12 * time.Hour), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := seasonalityFactor(cfg, tt.tf, tt.target); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("seasonalityFactor = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseTimeframe(t *testing.T) {
	for _, s := range []string{"hour", "shift", "day", "week"} {
		if _, err := ParseTimeframe(s); err != nil {
			t.Errorf("ParseTimeframe(%q): %v", s, err)
		}
	}
	_, err := ParseTimeframe("month")
	if !errors.Is(err, ErrInvalidTimeframe) {
		t.Errorf("ParseTimeframe(month) error = %v, want ErrInvalidTimeframe", err)
	}
	if !IsInvalidInput(err) {
		t.Error("invalid timeframe should be classified as invalid input")
	}
	if TimeframeShift.Duration() != 4*time.Hour {
		t.Errorf("shift duration = %v", TimeframeShift.Duration())
	}
}

func TestForecastConfidence(t *testing.T) {
	cfg := DefaultConfig().Forecast

	flat := forecast{samples: 80, baseline: 10}
	if got := flat.confidence(cfg); got != 80 {
		t.Errorf("flat confidence = %d, want 80", got)
	}

	empty := forecast{}
	if got := empty.confidence(cfg); got != 30 {
		t.Errorf("empty confidence = %d, want 30", got)
	}

	seasonal := forecast{samples: 80, baseline: 10, seasonality: 6}
	if got := seasonal.confidence(cfg); got != 70 {
		t.Errorf("seasonal confidence = %d, want 70", got)
	}
}

func TestHistoryEnd(t *testing.T) {
	now := time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		target time.Time
		d      time.Duration
		want   time.Time
	}{
		{"past target", now.Add(-3 * time.Hour), time.Hour, now.Add(-3 * time.Hour)},
		{"target is now", now, time.Hour, now},
		{"tomorrow by day", time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC), 24 * time.Hour, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)},
		{"tomorrow breakfast by shift", time.Date(2026, 3, 11, 7, 0, 0, 0, time.UTC), 4 * time.Hour, time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)},
		{"on a boundary", now.Add(2 * time.Hour), time.Hour, now},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := historyEnd(tt.target, now, tt.d); !got.Equal(tt.want) {
				t.Errorf("historyEnd = %v, want %v", got, tt.want)
			}
		})
	}
}
