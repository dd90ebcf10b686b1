// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"errors"
	"fmt"
	"time"
)

// Config is the analytics policy.
type Config struct {
	Forecast    ForecastConfig    `json:"forecast" koanf:"forecast"`
	Seasonality SeasonalityConfig `json:"seasonality" koanf:"seasonality"`
	Revenue     RevenueConfig     `json:"revenue" koanf:"revenue"`
	Staffing    StaffingConfig    `json:"staffing" koanf:"staffing"`
	Segments    SegmentConfig     `json:"segments" koanf:"segments"`
	Churn       ChurnConfig       `json:"churn" koanf:"churn"`
	Elasticity  ElasticityConfig  `json:"elasticity" koanf:"elasticity"`
}

// ForecastConfig drives the shared trend/seasonality forecaster.
type ForecastConfig struct {
	// HistoryPeriods is the number of equal-length periods before the
	// target used for the baseline and the trend. Default: 8.
	HistoryPeriods int `json:"history_periods" koanf:"history_periods"`

	// Multiplier factors applied on top of baseline + trend + seasonality.
	RainyImpact   float64 `json:"rainy_impact" koanf:"rainy_impact"`     // Default: -0.10
	ColdImpact    float64 `json:"cold_impact" koanf:"cold_impact"`       // Default: -0.05
	HotImpact     float64 `json:"hot_impact" koanf:"hot_impact"`         // Default: +0.05
	HolidayImpact float64 `json:"holiday_impact" koanf:"holiday_impact"` // Default: +0.20

	// Confidence rubric: base + min(orders, cap) - trend penalty - seasonality penalty.
	ConfidenceBase       int     `json:"confidence_base" koanf:"confidence_base"`               // Default: 30
	SampleCap            int     `json:"sample_cap" koanf:"sample_cap"`                         // Default: 50
	TrendPenaltyMax      float64 `json:"trend_penalty_max" koanf:"trend_penalty_max"`           // Default: 20
	SeasonalityPenalty   int     `json:"seasonality_penalty" koanf:"seasonality_penalty"`       // Default: 10
	SeasonalityPenaltyAt float64 `json:"seasonality_penalty_at" koanf:"seasonality_penalty_at"` // Default: 0.5
}

// SeasonalityConfig holds the additive seasonality factors, as fractions
// of the baseline.
type SeasonalityConfig struct {
	Lunch     float64 `json:"lunch" koanf:"lunch"`           // 11:00-13:59. Default: +0.25
	Dinner    float64 `json:"dinner" koanf:"dinner"`         // 17:00-20:59. Default: +0.35
	LateNight float64 `json:"late_night" koanf:"late_night"` // 22:00-04:59. Default: -0.30
	Weekend   float64 `json:"weekend" koanf:"weekend"`       // Default: +0.20
	Monday    float64 `json:"monday" koanf:"monday"`         // Default: -0.10
}

// RevenueConfig holds the revenue forecast assumptions.
type RevenueConfig struct {
	MarketGrowth        float64 `json:"market_growth" koanf:"market_growth"`               // Default: +0.02
	CompetitivePressure float64 `json:"competitive_pressure" koanf:"competitive_pressure"` // Default: -0.01

	// LoyaltyBonusMax is reached when every recent order redeemed loyalty
	// points. Default: 0.05.
	LoyaltyBonusMax float64 `json:"loyalty_bonus_max" koanf:"loyalty_bonus_max"`
}

// StaffingConfig holds staff-per-demand ratios.
type StaffingConfig struct {
	OrdersPerServer  float64 `json:"orders_per_server" koanf:"orders_per_server"`   // Default: 17
	OrdersPerKitchen float64 `json:"orders_per_kitchen" koanf:"orders_per_kitchen"` // Default: 27
	HostThreshold    int     `json:"host_threshold" koanf:"host_threshold"`         // Default: 30
	EveningStartHour int     `json:"evening_start_hour" koanf:"evening_start_hour"` // Default: 17
	HolidayFactor    float64 `json:"holiday_factor" koanf:"holiday_factor"`         // Default: 1.3
}

// SegmentConfig holds customer segment thresholds.
type SegmentConfig struct {
	VIPMinOrders   int           `json:"vip_min_orders" koanf:"vip_min_orders"`       // Default: 5
	VIPMinAvgOrder float64       `json:"vip_min_avg_order" koanf:"vip_min_avg_order"` // Default: 25
	VIPMinLoyalty  int           `json:"vip_min_loyalty" koanf:"vip_min_loyalty"`     // Default: 200
	BudgetMaxAvg   float64       `json:"budget_max_avg" koanf:"budget_max_avg"`       // Default: 20
	OccasionalMax  int           `json:"occasional_max" koanf:"occasional_max"`       // Default: 1
	RecentWindow   time.Duration `json:"recent_window" koanf:"recent_window"`         // Default: 30 days
}

// ChurnConfig holds the churn risk rubric.
type ChurnConfig struct {
	IdleHighDays  int `json:"idle_high_days" koanf:"idle_high_days"`   // Default: 60
	IdleHighScore int `json:"idle_high_score" koanf:"idle_high_score"` // Default: 40
	IdleMidDays   int `json:"idle_mid_days" koanf:"idle_mid_days"`     // Default: 30
	IdleMidScore  int `json:"idle_mid_score" koanf:"idle_mid_score"`   // Default: 25
	IdleLowDays   int `json:"idle_low_days" koanf:"idle_low_days"`     // Default: 14
	IdleLowScore  int `json:"idle_low_score" koanf:"idle_low_score"`   // Default: 10

	// FrequencyScore applies when fewer than FrequencyShare of a customer's
	// orders fall inside the last FrequencyWindowDays. Defaults: 90, 0.3, 20.
	FrequencyWindowDays int     `json:"frequency_window_days" koanf:"frequency_window_days"`
	FrequencyShare      float64 `json:"frequency_share" koanf:"frequency_share"`
	FrequencyScore      int     `json:"frequency_score" koanf:"frequency_score"`

	SpendDropRatio float64 `json:"spend_drop_ratio" koanf:"spend_drop_ratio"` // Default: 0.8
	SpendDropScore int     `json:"spend_drop_score" koanf:"spend_drop_score"` // Default: 15

	LowLoyaltyPoints int `json:"low_loyalty_points" koanf:"low_loyalty_points"` // Default: 50
	LoyaltyMinOrders int `json:"loyalty_min_orders" koanf:"loyalty_min_orders"` // Default: 5
	LowLoyaltyScore  int `json:"low_loyalty_score" koanf:"low_loyalty_score"`   // Default: 10

	LowEngagement      float64 `json:"low_engagement" koanf:"low_engagement"`             // Default: 0.3
	LowEngagementScore int     `json:"low_engagement_score" koanf:"low_engagement_score"` // Default: 15

	MediumAt int `json:"medium_at" koanf:"medium_at"` // Default: 30
	HighAt   int `json:"high_at" koanf:"high_at"`     // Default: 60
}

// ElasticityConfig holds the price optimization heuristic.
type ElasticityConfig struct {
	MinObservations int     `json:"min_observations" koanf:"min_observations"` // Default: 10
	MinPriceChange  float64 `json:"min_price_change" koanf:"min_price_change"` // Default: 0.01
	MinElasticity   float64 `json:"min_elasticity" koanf:"min_elasticity"`     // Default: -5
	MaxElasticity   float64 `json:"max_elasticity" koanf:"max_elasticity"`     // Default: -0.1
	MaxDecrease     float64 `json:"max_decrease" koanf:"max_decrease"`         // Default: 0.15
	MaxIncrease     float64 `json:"max_increase" koanf:"max_increase"`         // Default: 0.25
	MinDelta        float64 `json:"min_delta" koanf:"min_delta"`               // Default: 0.25
	RichHistoryAt   int     `json:"rich_history_at" koanf:"rich_history_at"`   // Default: 30
}

// DefaultConfig returns the production analytics policy.
func DefaultConfig() *Config {
	return &Config{
		Forecast: ForecastConfig{
			HistoryPeriods:       8,
			RainyImpact:          -0.10,
			ColdImpact:           -0.05,
			HotImpact:            0.05,
			HolidayImpact:        0.20,
			ConfidenceBase:       30,
			SampleCap:            50,
			TrendPenaltyMax:      20,
			SeasonalityPenalty:   10,
			SeasonalityPenaltyAt: 0.5,
		},
		Seasonality: SeasonalityConfig{
			Lunch:     0.25,
			Dinner:    0.35,
			LateNight: -0.30,
			Weekend:   0.20,
			Monday:    -0.10,
		},
		Revenue: RevenueConfig{
			MarketGrowth:        0.02,
			CompetitivePressure: -0.01,
			LoyaltyBonusMax:     0.05,
		},
		Staffing: StaffingConfig{
			OrdersPerServer:  17,
			OrdersPerKitchen: 27,
			HostThreshold:    30,
			EveningStartHour: 17,
			HolidayFactor:    1.3,
		},
		Segments: SegmentConfig{
			VIPMinOrders:   5,
			VIPMinAvgOrder: 25,
			VIPMinLoyalty:  200,
			BudgetMaxAvg:   20,
			OccasionalMax:  1,
			RecentWindow:   30 * 24 * time.Hour,
		},
		Churn: ChurnConfig{
			IdleHighDays:        60,
			IdleHighScore:       40,
			IdleMidDays:         30,
			IdleMidScore:        25,
			IdleLowDays:         14,
			IdleLowScore:        10,
			FrequencyWindowDays: 90,
			FrequencyShare:      0.3,
			FrequencyScore:      20,
			SpendDropRatio:      0.8,
			SpendDropScore:      15,
			LowLoyaltyPoints:    50,
			LoyaltyMinOrders:    5,
			LowLoyaltyScore:     10,
			LowEngagement:       0.3,
			LowEngagementScore:  15,
			MediumAt:            30,
			HighAt:              60,
		},
		Elasticity: ElasticityConfig{
			MinObservations: 10,
			MinPriceChange:  0.01,
			MinElasticity:   -5,
			MaxElasticity:   -0.1,
			MaxDecrease:     0.15,
			MaxIncrease:     0.25,
			MinDelta:        0.25,
			RichHistoryAt:   30,
		},
	}
}

// Validate checks that the policy is usable.
func (c *Config) Validate() error {
	if c.Forecast.HistoryPeriods < 2 {
		return fmt.Errorf("forecast.history_periods must be at least 2, got %d", c.Forecast.HistoryPeriods)
	}
	if c.Staffing.OrdersPerServer <= 0 || c.Staffing.OrdersPerKitchen <= 0 {
		return errors.New("staffing ratios must be positive")
	}
	if c.Staffing.HolidayFactor < 1 {
		return fmt.Errorf("staffing.holiday_factor must be >= 1, got %f", c.Staffing.HolidayFactor)
	}
	ch := c.Churn
	if !(ch.IdleLowDays < ch.IdleMidDays && ch.IdleMidDays < ch.IdleHighDays) {
		return errors.New("churn idle day tiers must be strictly increasing")
	}
	if !(ch.IdleLowScore <= ch.IdleMidScore && ch.IdleMidScore <= ch.IdleHighScore) {
		return errors.New("churn idle scores must not decrease with idle days")
	}
	if ch.MediumAt >= ch.HighAt {
		return fmt.Errorf("churn.medium_at must be below churn.high_at, got %d >= %d", ch.MediumAt, ch.HighAt)
	}
	el := c.Elasticity
	if el.MinElasticity >= el.MaxElasticity || el.MaxElasticity >= 0 {
		return fmt.Errorf("elasticity band must be negative and ordered, got [%f, %f]", el.MinElasticity, el.MaxElasticity)
	}
	if el.MinObservations < 2 {
		return fmt.Errorf("elasticity.min_observations must be at least 2, got %d", el.MinObservations)
	}
	return nil
}

// Clone returns a deep copy of the policy.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
