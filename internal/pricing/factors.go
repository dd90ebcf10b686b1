// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/signals"
)

// Each factor returns a whole-percent adjustment and its reasoning.
// A zero percentage means the factor did not fire.

type demandCounts struct {
	history int // orders in the look-back days before today
	today   int
	recent  int
}

func countDemand(cfg DemandConfig, orders []models.Order, now time.Time) demandCounts {
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	historyStart := todayStart.AddDate(0, 0, -cfg.LookbackDays)
	recentStart := now.Add(-cfg.RecentWindow)

	var c demandCounts
	for i := range orders {
		o := &orders[i]
		if o.Status == models.OrderStatusCancelled || o.CreatedAt.After(now) {
			continue
		}
		switch {
		case o.CreatedAt.Before(historyStart):
		case o.CreatedAt.Before(todayStart):
			c.history++
		default:
			c.today++
		}
		if !o.CreatedAt.Before(recentStart) {
			c.recent++
		}
	}
	return c
}

func demandFactor(cfg DemandConfig, orders []models.Order, now time.Time) (float64, string) {
	c := countDemand(cfg, orders, now)
	if c.history == 0 {
		return 0, ""
	}

	dailyAvg := float64(c.history) / float64(cfg.LookbackDays)
	hourlyAvg := dailyAvg / cfg.ServiceHours
	velocity := float64(c.recent) / cfg.RecentWindow.Hours()

	switch {
	case velocity > cfg.VelocityRatio*hourlyAvg:
		return cfg.HighVelocityPct, fmt.Sprintf("High demand: %d orders in the last %s", c.recent, formatWindow(cfg.RecentWindow))
	case float64(c.today) > dailyAvg:
		return cfg.AboveAveragePct, fmt.Sprintf("Busier than usual: %d orders today vs %.1f daily average", c.today, dailyAvg)
	case c.recent == 0 && float64(c.today) < cfg.LowDayRatio*dailyAvg:
		return cfg.LowDemandPct, "Low demand: no recent orders"
	default:
		return 0, ""
	}
}

func formatWindow(d time.Duration) string {
	if d%time.Hour == 0 {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return d.String()
}

func isWeekend(t time.Time) bool {
	return t.Weekday() == time.Saturday || t.Weekday() == time.Sunday
}

func timeOfDayFactor(cfg TimeOfDayConfig, now time.Time) (float64, string) {
	hour := now.Hour()
	peak := (hour >= 11 && hour < 14) || (hour >= 17 && hour < 21)
	weekend := isWeekend(now)

	switch {
	case weekend && peak:
		return cfg.WeekendPeakPct, "Weekend peak hours"
	case peak:
		return cfg.WeekdayPeakPct, "Weekday lunch or dinner rush"
	case hour >= 22 || hour < 5:
		return cfg.LateNightPct, "Late night discount"
	case weekend:
		return 0, ""
	case hour >= 7 && hour < 10:
		return cfg.BreakfastPct, "Weekday breakfast rush"
	case hour >= 15 && hour < 17:
		return cfg.EarlyBirdPct, "Early bird special"
	default:
		return 0, ""
	}
}

var (
	refreshingKeywords = []string{"cold", "iced", "refreshing", "frozen", "salad", "smoothie", "lemonade", "sorbet"}
	heavyKeywords      = []string{"heavy", "fried", "stew", "hearty", "rich", "creamy"}
	warmingKeywords    = []string{"hot", "warm", "soup", "stew", "hearty", "roast", "cocoa"}
	comfortKeywords    = []string{"comfort", "soup", "pasta", "pizza", "warm", "mac"}
)

func weatherFactor(cfg WeatherConfig, w *signals.Weather, item *models.MenuItem) (float64, string) {
	if w == nil {
		return 0, ""
	}
	switch w.Condition {
	case signals.ConditionHot:
		if item.MentionsAny(refreshingKeywords) {
			return cfg.HotRefreshingPct, "Hot weather boosts demand for refreshing dishes"
		}
		if item.MentionsAny(heavyKeywords) {
			return cfg.HotHeavyPct, "Hot weather lowers demand for heavy dishes"
		}
	case signals.ConditionCold:
		if item.MentionsAny(warmingKeywords) {
			return cfg.ColdWarmPct, "Cold weather boosts demand for warm dishes"
		}
	case signals.ConditionRainy:
		if item.MentionsAny(comfortKeywords) {
			return cfg.RainyComfortPct, "Rainy weather boosts demand for comfort food"
		}
	}
	return 0, ""
}

func inventoryFactor(cfg InventoryConfig, status signals.InventoryStatus) (float64, string) {
	var pct float64
	var reasons []string

	switch {
	case status.Level < cfg.CriticalLevel:
		pct += cfg.CriticalPct
		reasons = append(reasons, "Very limited stock")
	case status.Level < cfg.LowLevel:
		pct += cfg.LowPct
		reasons = append(reasons, "Limited stock")
	case status.Level > cfg.SurplusLevel:
		pct += cfg.SurplusPct
		reasons = append(reasons, "Plenty in stock")
	}
	if status.Trend == signals.TrendDown && status.Level < cfg.DownTrendBelow {
		pct += cfg.DownTrendPct
		reasons = append(reasons, "stock is running down")
	}
	return pct, strings.Join(reasons, ", ")
}

type season struct {
	name     string
	keywords []string
}

func seasonFor(month time.Month) season {
	switch month {
	case time.March, time.April, time.May:
		return season{"spring", []string{"spring", "asparagus", "herb", "strawberry", "radish"}}
	case time.June, time.July, time.August:
		return season{"summer", []string{"summer", "berry", "watermelon", "grilled", "iced", "peach"}}
	case time.September, time.October, time.November:
		return season{"fall", []string{"pumpkin", "apple", "harvest", "squash", "cinnamon"}}
	default:
		return season{"winter", []string{"winter", "stew", "roast", "cocoa", "spiced", "hearty"}}
	}
}

func seasonalFactor(cfg SeasonalConfig, item *models.MenuItem, now time.Time) (float64, string) {
	s := seasonFor(now.Month())
	if !item.MentionsAny(s.keywords) {
		return 0, ""
	}
	var pct float64
	switch s.name {
	case "spring":
		pct = cfg.SpringPct
	case "summer":
		pct = cfg.SummerPct
	case "fall":
		pct = cfg.FallPct
	default:
		pct = cfg.WinterPct
	}
	return pct, "In season for " + s.name
}

func dayOfWeekFactor(cfg DayOfWeekConfig, now time.Time) (float64, string) {
	switch now.Weekday() {
	case time.Saturday, time.Sunday:
		return cfg.WeekendPct, "Weekend demand"
	case time.Monday:
		return cfg.MondayPct, "Slow Monday"
	case time.Wednesday:
		return cfg.WednesdayPct, "Midweek special"
	case time.Friday:
		return cfg.FridayPct, "Friday demand"
	default:
		return 0, ""
	}
}
