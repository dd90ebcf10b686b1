// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"fmt"
	"time"
)

// Timeframe is the length of one forecast period.
type Timeframe string

// Supported timeframes.
const (
	TimeframeHour  Timeframe = "hour"
	TimeframeShift Timeframe = "shift"
	TimeframeDay   Timeframe = "day"
	TimeframeWeek  Timeframe = "week"
)

// ParseTimeframe validates a timeframe name.
func ParseTimeframe(s string) (Timeframe, error) {
	switch tf := Timeframe(s); tf {
	case TimeframeHour, TimeframeShift, TimeframeDay, TimeframeWeek:
		return tf, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeframe, s)
	}
}

// Duration returns the period length.
func (t Timeframe) Duration() time.Duration {
	switch t {
	case TimeframeHour:
		return time.Hour
	case TimeframeShift:
		return 4 * time.Hour
	case TimeframeWeek:
		return 7 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// intraday reports whether hour-of-day seasonality applies.
func (t Timeframe) intraday() bool {
	return t == TimeframeHour || t == TimeframeShift
}

// Factor is one named multiplier contribution, as a signed fraction.
type Factor struct {
	Name   string  `json:"name"`
	Impact float64 `json:"impact"`
}

// DemandPrediction forecasts the order count of one period.
type DemandPrediction struct {
	RestaurantID    int       `json:"restaurant_id"`
	Timeframe       Timeframe `json:"timeframe"`
	TargetDate      time.Time `json:"target_date"`
	PredictedOrders int       `json:"predicted_orders"`
	Baseline        float64   `json:"baseline"`
	Trend           float64   `json:"trend"`
	Seasonality     float64   `json:"seasonality"`
	Factors         []Factor  `json:"factors"`
	History         []float64 `json:"history"`

	// ExpectedDemandChange is the signed percentage versus the baseline.
	ExpectedDemandChange float64 `json:"expected_demand_change"`
	Confidence           int     `json:"confidence"`
}

// RevenuePrediction forecasts the revenue of one period.
type RevenuePrediction struct {
	RestaurantID     int       `json:"restaurant_id"`
	Timeframe        Timeframe `json:"timeframe"`
	TargetDate       time.Time `json:"target_date"`
	PredictedRevenue float64   `json:"predicted_revenue"`
	Baseline         float64   `json:"baseline"`
	Trend            float64   `json:"trend"`
	Seasonality      float64   `json:"seasonality"`
	Factors          []Factor  `json:"factors"`
	History          []float64 `json:"history"`

	// ExpectedRevenueChange is the signed percentage versus the baseline.
	ExpectedRevenueChange float64 `json:"expected_revenue_change"`
	Confidence            int     `json:"confidence"`
}

// Shift is a staffing window starting at StartHour on the plan date.
type Shift struct {
	Name      string `json:"name" validate:"required"`
	StartHour int    `json:"start_hour" validate:"min=0,max=23"`
}

// DefaultShifts covers a typical service day.
func DefaultShifts() []Shift {
	return []Shift{
		{Name: "breakfast", StartHour: 7},
		{Name: "lunch", StartHour: 11},
		{Name: "dinner", StartHour: 17},
		{Name: "late", StartHour: 21},
	}
}

// ShiftStaffing is the recommended headcount for one shift.
type ShiftStaffing struct {
	Shift           Shift `json:"shift"`
	PredictedDemand int   `json:"predicted_demand"`
	Servers         int   `json:"servers"`
	Kitchen         int   `json:"kitchen"`
	Hosts           int   `json:"hosts"`
	Managers        int   `json:"managers"`
	Total           int   `json:"total"`
	Confidence      int   `json:"confidence"`
}

// StaffingPlan is the recommended headcount for every shift of a day.
type StaffingPlan struct {
	RestaurantID int             `json:"restaurant_id"`
	Date         time.Time       `json:"date"`
	Holiday      bool            `json:"holiday"`
	Shifts       []ShiftStaffing `json:"shifts"`
	TotalStaff   int             `json:"total_staff"`
}

// Segment names.
const (
	SegmentVIP        = "VIP"
	SegmentOccasional = "Occasional"
	SegmentBudget     = "Budget"
	SegmentNew        = "New"
)

// Segment is a named group of customers. A customer may belong to several.
type Segment struct {
	Name               string   `json:"name"`
	Criteria           string   `json:"criteria"`
	CustomerIDs        []int    `json:"customer_ids"`
	Size               int      `json:"size"`
	AverageOrderValue  float64  `json:"average_order_value"`
	RecommendedActions []string `json:"recommended_actions"`
}

// RiskLevel buckets a churn risk score.
type RiskLevel string

// Churn risk levels.
const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// ChurnRisk is the churn assessment of one customer.
type ChurnRisk struct {
	UserID             int       `json:"user_id"`
	Name               string    `json:"name"`
	RiskScore          int       `json:"risk_score"`
	RiskLevel          RiskLevel `json:"risk_level"`
	DaysSinceLastOrder int       `json:"days_since_last_order"`
	TotalOrders        int       `json:"total_orders"`
	Factors            []string  `json:"factors"`
	RecommendedActions []string  `json:"recommended_actions"`
}

// PriceSuggestion is an elasticity-based price change for one item.
type PriceSuggestion struct {
	MenuItemID     int     `json:"menu_item_id"`
	Name           string  `json:"name"`
	CurrentPrice   float64 `json:"current_price"`
	SuggestedPrice float64 `json:"suggested_price"`
	PriceChange    float64 `json:"price_change"`
	Elasticity     float64 `json:"elasticity"`
	Observations   int     `json:"observations"`
	Samples        int     `json:"samples"`

	// ExpectedRevenueChange is the signed percentage implied by the elasticity.
	ExpectedRevenueChange float64 `json:"expected_revenue_change"`
	Confidence            int     `json:"confidence"`
	Reasoning             string  `json:"reasoning"`
}

// Stats reports engine counters.
type Stats struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}
