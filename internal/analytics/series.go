// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"math"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

// bucketSeries sums value over orders into n consecutive periods of length
// d ending at end (exclusive). Index 0 is the oldest period. It also
// returns how many orders fell inside the window.
func bucketSeries(orders []models.Order, end time.Time, d time.Duration, n int, value func(*models.Order) float64) ([]float64, int) {
	series := make([]float64, n)
	start := end.Add(-time.Duration(n) * d)
	used := 0
	for i := range orders {
		o := &orders[i]
		if o.Status == models.OrderStatusCancelled {
			continue
		}
		if o.CreatedAt.Before(start) || !o.CreatedAt.Before(end) {
			continue
		}
		idx := int(o.CreatedAt.Sub(start) / d)
		if idx >= n {
			idx = n - 1
		}
		series[idx] += value(o)
		used++
	}
	return series, used
}

func countOrder(*models.Order) float64 { return 1 }

// orderValue is the order total, falling back to the sum of its lines.
func orderValue(o *models.Order) float64 {
	if o.TotalPrice > 0 {
		return o.TotalPrice
	}
	total := 0.0
	for _, line := range o.Items {
		total += line.UnitPrice * float64(max(line.Quantity, 1))
	}
	return total
}

func mean(ys []float64) float64 {
	if len(ys) == 0 {
		return 0
	}
	sum := 0.0
	for _, y := range ys {
		sum += y
	}
	return sum / float64(len(ys))
}

// olsSlope is the least-squares slope of ys against their index.
func olsSlope(ys []float64) float64 {
	n := float64(len(ys))
	if n < 2 {
		return 0
	}
	xMean := (n - 1) / 2
	yMean := mean(ys)
	var num, den float64
	for i, y := range ys {
		dx := float64(i) - xMean
		num += dx * (y - yMean)
		den += dx * dx
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// seasonalityFactor is the additive seasonality as a fraction of baseline.
// Hour-of-day buckets only apply to intraday timeframes, and day-of-week
// buckets do not apply to weekly periods.
func seasonalityFactor(cfg SeasonalityConfig, tf Timeframe, target time.Time) float64 {
	f := 0.0
	if tf.intraday() {
		switch h := target.Hour(); {
		case h >= 11 && h < 14:
			f += cfg.Lunch
		case h >= 17 && h < 21:
			f += cfg.Dinner
		case h >= 22 || h < 5:
			f += cfg.LateNight
		}
	}
	if tf != TimeframeWeek {
		switch target.Weekday() {
		case time.Saturday, time.Sunday:
			f += cfg.Weekend
		case time.Monday:
			f += cfg.Monday
		}
	}
	return f
}

// forecast is the decomposed estimate of one period.
type forecast struct {
	history     []float64
	samples     int
	baseline    float64
	trend       float64
	seasonality float64
}

func (f forecast) raw() float64 {
	return f.baseline + f.trend + f.seasonality
}

// historyEnd is where the history window of a forecast for target ends:
// target itself once it has passed, otherwise the latest period boundary
// at or before now that is in phase with target.
func historyEnd(target, now time.Time, d time.Duration) time.Time {
	if !target.After(now) {
		return target
	}
	periods := int64((target.Sub(now) + d - 1) / d)
	return target.Add(-time.Duration(periods) * d)
}

// buildForecast decomposes the period starting at target. History comes
// from whole periods before now; target only drives seasonality.
func buildForecast(cfg *Config, orders []models.Order, tf Timeframe, target, now time.Time, value func(*models.Order) float64) forecast {
	end := historyEnd(target, now, tf.Duration())
	series, used := bucketSeries(orders, end, tf.Duration(), cfg.Forecast.HistoryPeriods, value)
	baseline := mean(series)
	return forecast{
		history:     series,
		samples:     used,
		baseline:    baseline,
		trend:       olsSlope(series),
		seasonality: baseline * seasonalityFactor(cfg.Seasonality, tf, target),
	}
}

// confidence grows with the sample count and shrinks with large trend and
// seasonality magnitudes.
func (f forecast) confidence(cfg ForecastConfig) int {
	score := float64(cfg.ConfidenceBase) + float64(min(f.samples, cfg.SampleCap))
	score -= math.Min(cfg.TrendPenaltyMax, math.Abs(f.trend)/math.Max(f.baseline, 1)*cfg.TrendPenaltyMax)
	if math.Abs(f.seasonality) > cfg.SeasonalityPenaltyAt*f.baseline {
		score -= float64(cfg.SeasonalityPenalty)
	}
	return clampPercent(int(math.Round(score)))
}

func percentChange(predicted, baseline float64) float64 {
	if baseline == 0 {
		return 0
	}
	return round1((predicted - baseline) / baseline * 100)
}

func clampPercent(v int) int {
	return max(0, min(v, 100))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
