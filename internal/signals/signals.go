// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package signals defines the external context providers consumed by the
// decision engines: weather, inventory, local events, app engagement and
// holidays.
//
// Every provider is an interface so the engines can be driven by a
// deterministic fake in tests (Static), by a seeded random source that
// mimics a mocked deployment (Simulated), or by a real integration
// (HTTPWeather). A provider error is never fatal: engines log it and treat
// the signal as neutral.
package signals

import (
	"context"
	"time"
)

// Weather conditions understood by the engines.
const (
	ConditionSunny = "sunny"
	ConditionHot   = "hot"
	ConditionCold  = "cold"
	ConditionRainy = "rainy"
	ConditionMild  = "mild"
)

// Inventory trends.
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

// Weather is the current condition at a restaurant.
type Weather struct {
	Condition    string  `json:"condition"`
	TemperatureF float64 `json:"temperature_f"`
}

// InventoryStatus is a normalized stock level (0..1) and its direction.
type InventoryStatus struct {
	Level float64 `json:"level"`
	Trend string  `json:"trend"`
}

// WeatherProvider reports current weather for a restaurant.
type WeatherProvider interface {
	CurrentWeather(ctx context.Context, restaurantID int) (Weather, error)
}

// InventoryProvider reports the stock level of a menu item.
type InventoryProvider interface {
	InventoryLevel(ctx context.Context, menuItemID int) (InventoryStatus, error)
}

// EventProvider reports the demand impact of local events as a fraction
// (0.15 means +15% demand).
type EventProvider interface {
	LocalEventImpact(ctx context.Context, restaurantID int, date time.Time) (float64, error)
}

// EngagementProvider reports app engagement of a user in 0..1.
type EngagementProvider interface {
	AppEngagement(ctx context.Context, userID int) (float64, error)
}

// HolidayCalendar reports whether a date is a public holiday.
type HolidayCalendar interface {
	IsHoliday(date time.Time) bool
}

// Set bundles all providers an engine may need.
type Set struct {
	Weather    WeatherProvider
	Inventory  InventoryProvider
	Events     EventProvider
	Engagement EngagementProvider
	Holidays   HolidayCalendar
}

// WithDefaults fills missing providers with neutral static values.
func (s Set) WithDefaults() Set {
	neutral := NewStatic()
	if s.Weather == nil {
		s.Weather = neutral
	}
	if s.Inventory == nil {
		s.Inventory = neutral
	}
	if s.Events == nil {
		s.Events = neutral
	}
	if s.Engagement == nil {
		s.Engagement = neutral
	}
	if s.Holidays == nil {
		s.Holidays = neutral
	}
	return s
}
