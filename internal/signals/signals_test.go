// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package signals

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestStatic_NeutralDefaults(t *testing.T) {
	s := NewStatic()
	ctx := context.Background()

	w, err := s.CurrentWeather(ctx, 1)
	if err != nil || w.Condition != ConditionMild {
		t.Errorf("weather = %+v, %v; want mild", w, err)
	}
	inv, _ := s.InventoryLevel(ctx, 5)
	if inv.Level != 0.5 || inv.Trend != TrendStable {
		t.Errorf("inventory = %+v", inv)
	}
	impact, _ := s.LocalEventImpact(ctx, 1, time.Now())
	if impact != 0 {
		t.Errorf("event impact = %v, want 0", impact)
	}
	if s.IsHoliday(time.Date(2026, 12, 25, 0, 0, 0, 0, time.UTC)) {
		t.Error("static calendar should have no holidays by default")
	}
}

func TestStatic_Overrides(t *testing.T) {
	day := time.Date(2026, 7, 4, 18, 0, 0, 0, time.UTC)
	s := NewStatic().
		SetInventory(3, InventoryStatus{Level: 0.1, Trend: TrendDown}).
		SetEngagement(9, 0.1).
		AddHoliday(day)
	ctx := context.Background()

	inv, _ := s.InventoryLevel(ctx, 3)
	if inv.Level != 0.1 {
		t.Errorf("inventory level = %v, want 0.1", inv.Level)
	}
	eng, _ := s.AppEngagement(ctx, 9)
	if eng != 0.1 {
		t.Errorf("engagement = %v, want 0.1", eng)
	}
	if !s.IsHoliday(day.Add(-10 * time.Hour)) {
		t.Error("holiday should match any time on that date")
	}
}

func TestSimulated_Deterministic(t *testing.T) {
	a, b := NewSimulated(7), NewSimulated(7)
	ctx := context.Background()
	for i := 0; i < 20; i++ {
		wa, _ := a.CurrentWeather(ctx, 1)
		wb, _ := b.CurrentWeather(ctx, 1)
		if wa != wb {
			t.Fatalf("draw %d differs: %+v vs %+v", i, wa, wb)
		}
		ia, _ := a.LocalEventImpact(ctx, 1, time.Time{})
		if ia < 0 || ia >= 0.2 {
			t.Fatalf("event impact out of range: %v", ia)
		}
		_, _ = b.LocalEventImpact(ctx, 1, time.Time{})
	}
}

func TestFixedHolidays(t *testing.T) {
	h, err := NewFixedHolidays(DefaultHolidays)
	if err != nil {
		t.Fatal(err)
	}
	if !h.IsHoliday(time.Date(2027, 7, 4, 12, 0, 0, 0, time.UTC)) {
		t.Error("July 4th should be a holiday")
	}
	if h.IsHoliday(time.Date(2027, 7, 5, 12, 0, 0, 0, time.UTC)) {
		t.Error("July 5th should not be a holiday")
	}
	if _, err := NewFixedHolidays([]string{"13-45"}); err == nil {
		t.Error("expected parse error")
	}
}

func TestHTTPWeather(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"explicit condition", `{"condition":"Rainy","temperature_f":58}`, ConditionRainy},
		{"synonym", `{"condition":"thunderstorm","temperature_f":70}`, ConditionRainy},
		{"derived hot", `{"condition":"clear","temperature_f":92}`, ConditionHot},
		{"derived cold", `{"condition":"","temperature_f":30}`, ConditionCold},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Query().Get("restaurant_id") != "4" {
					t.Errorf("restaurant_id = %q", r.URL.Query().Get("restaurant_id"))
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := NewHTTPWeather(srv.URL, time.Second, zerolog.Nop())
			w, err := p.CurrentWeather(context.Background(), 4)
			if err != nil {
				t.Fatal(err)
			}
			if w.Condition != tt.want {
				t.Errorf("condition = %q, want %q", w.Condition, tt.want)
			}
		})
	}
}

func TestHTTPWeather_OpensCircuit(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewHTTPWeather(srv.URL, time.Second, zerolog.Nop())
	for i := 0; i < 8; i++ {
		if _, err := p.CurrentWeather(context.Background(), 1); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 5 {
		t.Errorf("server calls = %d, want 5 before the circuit opened", calls)
	}
}

func TestSet_WithDefaults(t *testing.T) {
	s := Set{}.WithDefaults()
	if s.Weather == nil || s.Inventory == nil || s.Events == nil || s.Engagement == nil || s.Holidays == nil {
		t.Fatal("WithDefaults left a nil provider")
	}
}
