// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package pricing

import (
	"fmt"
	"time"
)

// Config is the pricing policy. All percentages are whole percent of the
// original price, so +10 means originalPrice * 10 / 100.
type Config struct {
	// MinMultiplier and MaxMultiplier bound the final price relative to the
	// original price. Defaults: 0.80 and 1.25.
	MinMultiplier float64 `json:"min_multiplier" koanf:"min_multiplier"`
	MaxMultiplier float64 `json:"max_multiplier" koanf:"max_multiplier"`

	// QuoteTTL is how long a quote stays valid. Default: 30 minutes.
	QuoteTTL time.Duration `json:"quote_ttl" koanf:"quote_ttl"`

	Demand     DemandConfig     `json:"demand" koanf:"demand"`
	TimeOfDay  TimeOfDayConfig  `json:"time_of_day" koanf:"time_of_day"`
	Weather    WeatherConfig    `json:"weather" koanf:"weather"`
	Inventory  InventoryConfig  `json:"inventory" koanf:"inventory"`
	Seasonal   SeasonalConfig   `json:"seasonal" koanf:"seasonal"`
	DayOfWeek  DayOfWeekConfig  `json:"day_of_week" koanf:"day_of_week"`
	Confidence ConfidenceConfig `json:"confidence" koanf:"confidence"`
}

// DemandConfig sizes the demand factor.
type DemandConfig struct {
	// LookbackDays is the history used for the daily average. Default: 7.
	LookbackDays int `json:"lookback_days" koanf:"lookback_days"`

	// RecentWindow is the velocity window. Default: 2 hours.
	RecentWindow time.Duration `json:"recent_window" koanf:"recent_window"`

	// ServiceHours converts the daily average into an hourly rate. Default: 12.
	ServiceHours float64 `json:"service_hours" koanf:"service_hours"`

	// VelocityRatio is how far the recent hourly rate must exceed the
	// average hourly rate to count as a rush. Default: 1.5.
	VelocityRatio float64 `json:"velocity_ratio" koanf:"velocity_ratio"`

	// LowDayRatio marks a slow day when today's volume is below this share
	// of the daily average. Default: 0.5.
	LowDayRatio float64 `json:"low_day_ratio" koanf:"low_day_ratio"`

	HighVelocityPct float64 `json:"high_velocity_pct" koanf:"high_velocity_pct"` // Default: +10
	AboveAveragePct float64 `json:"above_average_pct" koanf:"above_average_pct"` // Default: +5
	LowDemandPct    float64 `json:"low_demand_pct" koanf:"low_demand_pct"`       // Default: -3
}

// TimeOfDayConfig sizes the time-of-day factor.
type TimeOfDayConfig struct {
	WeekendPeakPct float64 `json:"weekend_peak_pct" koanf:"weekend_peak_pct"` // Default: +8
	WeekdayPeakPct float64 `json:"weekday_peak_pct" koanf:"weekday_peak_pct"` // Default: +5
	BreakfastPct   float64 `json:"breakfast_pct" koanf:"breakfast_pct"`       // Default: +3
	LateNightPct   float64 `json:"late_night_pct" koanf:"late_night_pct"`     // Default: -5
	EarlyBirdPct   float64 `json:"early_bird_pct" koanf:"early_bird_pct"`     // Default: -3
}

// WeatherConfig sizes the weather factor.
type WeatherConfig struct {
	HotRefreshingPct float64 `json:"hot_refreshing_pct" koanf:"hot_refreshing_pct"` // Default: +5
	HotHeavyPct      float64 `json:"hot_heavy_pct" koanf:"hot_heavy_pct"`           // Default: -3
	ColdWarmPct      float64 `json:"cold_warm_pct" koanf:"cold_warm_pct"`           // Default: +6
	RainyComfortPct  float64 `json:"rainy_comfort_pct" koanf:"rainy_comfort_pct"`   // Default: +4
}

// InventoryConfig sizes the inventory factor. Levels are 0..1.
type InventoryConfig struct {
	CriticalLevel  float64 `json:"critical_level" koanf:"critical_level"`     // Default: 0.2
	CriticalPct    float64 `json:"critical_pct" koanf:"critical_pct"`         // Default: +8
	LowLevel       float64 `json:"low_level" koanf:"low_level"`               // Default: 0.4
	LowPct         float64 `json:"low_pct" koanf:"low_pct"`                   // Default: +4
	SurplusLevel   float64 `json:"surplus_level" koanf:"surplus_level"`       // Default: 0.8
	SurplusPct     float64 `json:"surplus_pct" koanf:"surplus_pct"`           // Default: -3
	DownTrendBelow float64 `json:"down_trend_below" koanf:"down_trend_below"` // Default: 0.6
	DownTrendPct   float64 `json:"down_trend_pct" koanf:"down_trend_pct"`     // Default: +2
}

// SeasonalConfig sizes the seasonal factor per season.
type SeasonalConfig struct {
	SpringPct float64 `json:"spring_pct" koanf:"spring_pct"` // Default: +3
	SummerPct float64 `json:"summer_pct" koanf:"summer_pct"` // Default: +5
	FallPct   float64 `json:"fall_pct" koanf:"fall_pct"`     // Default: +4
	WinterPct float64 `json:"winter_pct" koanf:"winter_pct"` // Default: +5
}

// DayOfWeekConfig sizes the day-of-week factor.
type DayOfWeekConfig struct {
	WeekendPct   float64 `json:"weekend_pct" koanf:"weekend_pct"`     // Default: +6
	MondayPct    float64 `json:"monday_pct" koanf:"monday_pct"`       // Default: -4
	WednesdayPct float64 `json:"wednesday_pct" koanf:"wednesday_pct"` // Default: -2
	FridayPct    float64 `json:"friday_pct" koanf:"friday_pct"`       // Default: +3
}

// ConfidenceConfig is the quote confidence rubric.
type ConfidenceConfig struct {
	Base               int     `json:"base" koanf:"base"`                                 // Default: 50
	PerFactor          int     `json:"per_factor" koanf:"per_factor"`                     // Default: 8
	LargeAdjustmentPct float64 `json:"large_adjustment_pct" koanf:"large_adjustment_pct"` // Default: 20
	LargePenalty       int     `json:"large_penalty" koanf:"large_penalty"`               // Default: 10
}

// DefaultConfig returns the production pricing policy.
func DefaultConfig() *Config {
	return &Config{
		MinMultiplier: 0.80,
		MaxMultiplier: 1.25,
		QuoteTTL:      30 * time.Minute,
		Demand: DemandConfig{
			LookbackDays:    7,
			RecentWindow:    2 * time.Hour,
			ServiceHours:    12,
			VelocityRatio:   1.5,
			LowDayRatio:     0.5,
			HighVelocityPct: 10,
			AboveAveragePct: 5,
			LowDemandPct:    -3,
		},
		TimeOfDay: TimeOfDayConfig{
			WeekendPeakPct: 8,
			WeekdayPeakPct: 5,
			BreakfastPct:   3,
			LateNightPct:   -5,
			EarlyBirdPct:   -3,
		},
		Weather: WeatherConfig{
			HotRefreshingPct: 5,
			HotHeavyPct:      -3,
			ColdWarmPct:      6,
			RainyComfortPct:  4,
		},
		Inventory: InventoryConfig{
			CriticalLevel:  0.2,
			CriticalPct:    8,
			LowLevel:       0.4,
			LowPct:         4,
			SurplusLevel:   0.8,
			SurplusPct:     -3,
			DownTrendBelow: 0.6,
			DownTrendPct:   2,
		},
		Seasonal: SeasonalConfig{
			SpringPct: 3,
			SummerPct: 5,
			FallPct:   4,
			WinterPct: 5,
		},
		DayOfWeek: DayOfWeekConfig{
			WeekendPct:   6,
			MondayPct:    -4,
			WednesdayPct: -2,
			FridayPct:    3,
		},
		Confidence: ConfidenceConfig{
			Base:               50,
			PerFactor:          8,
			LargeAdjustmentPct: 20,
			LargePenalty:       10,
		},
	}
}

// Validate checks that the policy is usable.
func (c *Config) Validate() error {
	if c.MinMultiplier <= 0 || c.MinMultiplier > 1 {
		return fmt.Errorf("min_multiplier must be in (0, 1], got %f", c.MinMultiplier)
	}
	if c.MaxMultiplier < 1 {
		return fmt.Errorf("max_multiplier must be >= 1, got %f", c.MaxMultiplier)
	}
	if c.QuoteTTL <= 0 {
		return fmt.Errorf("quote_ttl must be positive, got %v", c.QuoteTTL)
	}
	if c.Demand.LookbackDays < 1 {
		return fmt.Errorf("demand.lookback_days must be positive, got %d", c.Demand.LookbackDays)
	}
	if c.Demand.RecentWindow <= 0 {
		return fmt.Errorf("demand.recent_window must be positive, got %v", c.Demand.RecentWindow)
	}
	if c.Demand.ServiceHours <= 0 || c.Demand.ServiceHours > 24 {
		return fmt.Errorf("demand.service_hours must be in (0, 24], got %f", c.Demand.ServiceHours)
	}
	inv := c.Inventory
	if !(inv.CriticalLevel <= inv.LowLevel && inv.LowLevel <= inv.SurplusLevel) {
		return fmt.Errorf("inventory levels must be ordered critical <= low <= surplus, got %f/%f/%f",
			inv.CriticalLevel, inv.LowLevel, inv.SurplusLevel)
	}
	return nil
}

// Clone returns a deep copy of the policy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
