// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
)

// historyOrders loads the restaurant's orders covering the history windows
// of forecasts for every target.
func (e *Engine) historyOrders(ctx context.Context, restaurantID int, tf Timeframe, targets ...time.Time) ([]models.Order, error) {
	if _, err := e.accessor.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	now := e.now()
	var since time.Time
	for i, target := range targets {
		start := historyEnd(target, now, tf.Duration()).Add(-time.Duration(e.config.Forecast.HistoryPeriods) * tf.Duration())
		if i == 0 || start.Before(since) {
			since = start
		}
	}
	orders, err := e.accessor.GetRestaurantOrders(ctx, restaurantID, since)
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}
	return orders, nil
}

// PredictDemand forecasts the number of orders in the period of length
// timeframe starting at target.
func (e *Engine) PredictDemand(ctx context.Context, restaurantID int, tf Timeframe, target time.Time) (pred *DemandPrediction, err error) {
	start := e.begin()
	defer func() { e.finish("demand", start, err) }()

	if _, err := ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}
	orders, err := e.historyOrders(ctx, restaurantID, tf, target)
	if err != nil {
		return nil, err
	}
	factors := e.contextFactors(ctx, restaurantID, target)
	pred = e.demandFrom(orders, restaurantID, tf, target, factors)
	metrics.RecordConfidence(engineName, "demand", pred.Confidence)
	return pred, nil
}

func (e *Engine) demandFrom(orders []models.Order, restaurantID int, tf Timeframe, target time.Time, factors []Factor) *DemandPrediction {
	f := buildForecast(e.config, orders, tf, target, e.now(), countOrder)
	predicted := max(0, int(math.Round(f.raw()*multiplier(factors))))

	return &DemandPrediction{
		RestaurantID:         restaurantID,
		Timeframe:            tf,
		TargetDate:           target,
		PredictedOrders:      predicted,
		Baseline:             round2(f.baseline),
		Trend:                round2(f.trend),
		Seasonality:          round2(f.seasonality),
		Factors:              factors,
		History:              f.history,
		ExpectedDemandChange: percentChange(float64(predicted), f.baseline),
		Confidence:           f.confidence(e.config.Forecast),
	}
}

// PredictRevenue forecasts revenue for the period of length timeframe
// starting at target.
func (e *Engine) PredictRevenue(ctx context.Context, restaurantID int, tf Timeframe, target time.Time) (pred *RevenuePrediction, err error) {
	start := e.begin()
	defer func() { e.finish("revenue", start, err) }()

	if _, err := ParseTimeframe(string(tf)); err != nil {
		return nil, err
	}
	orders, err := e.historyOrders(ctx, restaurantID, tf, target)
	if err != nil {
		return nil, err
	}

	cfg := e.config.Revenue
	factors := e.contextFactors(ctx, restaurantID, target)
	factors = append(factors,
		Factor{Name: "market_growth", Impact: cfg.MarketGrowth},
		Factor{Name: "competitive_pressure", Impact: cfg.CompetitivePressure},
	)
	if share := loyaltyShare(orders, target); share > 0 {
		factors = append(factors, Factor{Name: "loyalty_usage", Impact: share * cfg.LoyaltyBonusMax})
	}

	f := buildForecast(e.config, orders, tf, target, e.now(), orderValue)
	predicted := round2(math.Max(0, f.raw()*multiplier(factors)))

	pred = &RevenuePrediction{
		RestaurantID:          restaurantID,
		Timeframe:             tf,
		TargetDate:            target,
		PredictedRevenue:      predicted,
		Baseline:              round2(f.baseline),
		Trend:                 round2(f.trend),
		Seasonality:           round2(f.seasonality),
		Factors:               factors,
		History:               f.history,
		ExpectedRevenueChange: percentChange(predicted, f.baseline),
		Confidence:            f.confidence(e.config.Forecast),
	}
	metrics.RecordConfidence(engineName, "revenue", pred.Confidence)
	return pred, nil
}

// loyaltyShare is the fraction of orders before target that redeemed points.
func loyaltyShare(orders []models.Order, target time.Time) float64 {
	total, redeemed := 0, 0
	for i := range orders {
		o := &orders[i]
		if o.Status == models.OrderStatusCancelled || !o.CreatedAt.Before(target) {
			continue
		}
		total++
		if o.RedeemedLoyalty() {
			redeemed++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(redeemed) / float64(total)
}

// PredictStaffingNeeds sizes each shift of date from its forecast demand.
// An empty shifts slice uses DefaultShifts.
func (e *Engine) PredictStaffingNeeds(ctx context.Context, restaurantID int, date time.Time, shifts []Shift) (plan *StaffingPlan, err error) {
	start := e.begin()
	defer func() { e.finish("staffing", start, err) }()

	if len(shifts) == 0 {
		shifts = DefaultShifts()
	}
	for _, s := range shifts {
		if s.StartHour < 0 || s.StartHour > 23 {
			return nil, fmt.Errorf("%w: %q starts at hour %d", ErrInvalidShift, s.Name, s.StartHour)
		}
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	starts := make([]time.Time, len(shifts))
	for i, s := range shifts {
		starts[i] = day.Add(time.Duration(s.StartHour) * time.Hour)
	}
	orders, err := e.historyOrders(ctx, restaurantID, TimeframeShift, starts...)
	if err != nil {
		return nil, err
	}

	holiday := e.signals.Holidays.IsHoliday(day)
	plan = &StaffingPlan{
		RestaurantID: restaurantID,
		Date:         day,
		Holiday:      holiday,
		Shifts:       make([]ShiftStaffing, 0, len(shifts)),
	}
	for i, s := range shifts {
		target := starts[i]
		factors := e.contextFactors(ctx, restaurantID, target)
		demand := e.demandFrom(orders, restaurantID, TimeframeShift, target, factors)

		staffing := e.staffShift(s, demand.PredictedOrders, target, holiday)
		staffing.Confidence = demand.Confidence
		plan.Shifts = append(plan.Shifts, staffing)
		plan.TotalStaff += staffing.Total
	}
	return plan, nil
}

// staffShift applies the role ratios. Every shift gets at least one person.
func (e *Engine) staffShift(s Shift, demand int, start time.Time, holiday bool) ShiftStaffing {
	cfg := e.config.Staffing
	d := float64(demand)

	out := ShiftStaffing{
		Shift:           s,
		PredictedDemand: demand,
		Servers:         int(math.Ceil(d / cfg.OrdersPerServer)),
		Kitchen:         int(math.Ceil(d / cfg.OrdersPerKitchen)),
	}
	if demand > cfg.HostThreshold {
		out.Hosts = 1
	}
	if s.StartHour >= cfg.EveningStartHour || isWeekend(start) {
		out.Managers = 1
	}
	if holiday {
		out.Servers = int(math.Ceil(float64(out.Servers) * cfg.HolidayFactor))
		out.Kitchen = int(math.Ceil(float64(out.Kitchen) * cfg.HolidayFactor))
	}

	out.Total = out.Servers + out.Kitchen + out.Hosts + out.Managers
	if out.Total == 0 {
		out.Servers = 1
		out.Total = 1
	}
	return out
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}
