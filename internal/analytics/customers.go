// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
)

// customerHistory aggregates one customer's orders at a restaurant.
type customerHistory struct {
	user   models.User
	orders []models.Order // ascending by CreatedAt
	spent  float64
}

func (h *customerHistory) count() int { return len(h.orders) }

func (h *customerHistory) averageOrder() float64 {
	if len(h.orders) == 0 {
		return 0
	}
	return h.spent / float64(len(h.orders))
}

func (h *customerHistory) first() time.Time { return h.orders[0].CreatedAt }
func (h *customerHistory) last() time.Time  { return h.orders[len(h.orders)-1].CreatedAt }

// since returns the orders created at or after t.
func (h *customerHistory) since(t time.Time) []models.Order {
	i := sort.Search(len(h.orders), func(i int) bool { return !h.orders[i].CreatedAt.Before(t) })
	return h.orders[i:]
}

// loadCustomers returns the order history of every customer with at least
// one non-cancelled order, ascending by user id.
func (e *Engine) loadCustomers(ctx context.Context, restaurantID int) ([]*customerHistory, error) {
	if _, err := e.accessor.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("get restaurant: %w", err)
	}
	users, err := e.accessor.GetRestaurantCustomers(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("get customers: %w", err)
	}
	orders, err := e.accessor.GetRestaurantOrders(ctx, restaurantID, time.Time{})
	if err != nil {
		return nil, fmt.Errorf("get orders: %w", err)
	}

	byUser := make(map[int]*customerHistory, len(users))
	for _, u := range users {
		byUser[u.ID] = &customerHistory{user: u}
	}
	for i := range orders {
		o := &orders[i]
		h, ok := byUser[o.UserID]
		if !ok || o.Status == models.OrderStatusCancelled {
			continue
		}
		h.orders = append(h.orders, *o)
		h.spent += orderValue(o)
	}

	out := make([]*customerHistory, 0, len(byUser))
	for _, h := range byUser {
		if h.count() == 0 {
			continue
		}
		sort.Slice(h.orders, func(i, j int) bool { return h.orders[i].CreatedAt.Before(h.orders[j].CreatedAt) })
		out = append(out, h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].user.ID < out[j].user.ID })
	return out, nil
}

var segmentActions = map[string][]string{
	SegmentVIP: {
		"Invite to exclusive tasting events",
		"Offer priority reservations",
		"Send a personal thank-you with a complimentary dessert",
	},
	SegmentOccasional: {
		"Send a we-miss-you offer",
		"Highlight new menu items",
	},
	SegmentBudget: {
		"Promote value combos and happy hour",
		"Offer loyalty points multipliers on weekdays",
	},
	SegmentNew: {
		"Send a welcome series",
		"Offer a second-visit discount",
	},
}

// AnalyzeCustomerSegments partitions ordering customers into the VIP,
// Occasional, Budget and New segments. Segments may overlap and are always
// returned in that order, possibly empty.
func (e *Engine) AnalyzeCustomerSegments(ctx context.Context, restaurantID int) (segments []Segment, err error) {
	start := e.begin()
	defer func() { e.finish("segments", start, err) }()

	customers, err := e.loadCustomers(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	cfg := e.config.Segments
	recent := e.now().Add(-cfg.RecentWindow)
	window := fmt.Sprintf("%d days", int(cfg.RecentWindow.Hours()/24))

	type rule struct {
		name     string
		criteria string
		match    func(h *customerHistory) bool
	}
	rules := []rule{
		{SegmentVIP, fmt.Sprintf("at least %d orders, average order above $%.0f and more than %d loyalty points",
			cfg.VIPMinOrders, cfg.VIPMinAvgOrder, cfg.VIPMinLoyalty),
			func(h *customerHistory) bool {
				return h.count() >= cfg.VIPMinOrders && h.averageOrder() > cfg.VIPMinAvgOrder && h.user.LoyaltyPoints > cfg.VIPMinLoyalty
			}},
		{SegmentOccasional, fmt.Sprintf("at most %d order in the last %s", cfg.OccasionalMax, window),
			func(h *customerHistory) bool { return len(h.since(recent)) <= cfg.OccasionalMax }},
		{SegmentBudget, fmt.Sprintf("average order below $%.0f", cfg.BudgetMaxAvg),
			func(h *customerHistory) bool { return h.averageOrder() < cfg.BudgetMaxAvg }},
		{SegmentNew, "first order within the last " + window,
			func(h *customerHistory) bool { return !h.first().Before(recent) }},
	}

	segments = make([]Segment, 0, len(rules))
	for _, r := range rules {
		seg := Segment{
			Name:               r.name,
			Criteria:           r.criteria,
			CustomerIDs:        make([]int, 0),
			RecommendedActions: segmentActions[r.name],
		}
		var spent float64
		var orders int
		for _, h := range customers {
			if !r.match(h) {
				continue
			}
			seg.CustomerIDs = append(seg.CustomerIDs, h.user.ID)
			spent += h.spent
			orders += h.count()
		}
		seg.Size = len(seg.CustomerIDs)
		if orders > 0 {
			seg.AverageOrderValue = round2(spent / float64(orders))
		}
		segments = append(segments, seg)
	}

	e.logger.Debug().Int("restaurant_id", restaurantID).Int("customers", len(customers)).Msg("segments analyzed")
	return segments, nil
}

// PredictCustomerChurn scores every ordering customer, highest risk first.
// Ties are ordered by user id.
func (e *Engine) PredictCustomerChurn(ctx context.Context, restaurantID int) (risks []ChurnRisk, err error) {
	start := e.begin()
	defer func() { e.finish("churn", start, err) }()

	customers, err := e.loadCustomers(ctx, restaurantID)
	if err != nil {
		return nil, err
	}

	now := e.now()
	risks = make([]ChurnRisk, 0, len(customers))
	for _, h := range customers {
		engagement, engErr := e.signals.Engagement.AppEngagement(ctx, h.user.ID)
		if engErr != nil {
			e.logger.Warn().Err(engErr).Int("user_id", h.user.ID).Msg("engagement unavailable, skipping engagement factor")
			metrics.RecordSignalFailure(engineName, "engagement")
			engagement = -1
		}
		risks = append(risks, e.churnRisk(h, now, engagement))
	}

	sort.SliceStable(risks, func(i, j int) bool {
		if risks[i].RiskScore != risks[j].RiskScore {
			return risks[i].RiskScore > risks[j].RiskScore
		}
		return risks[i].UserID < risks[j].UserID
	})
	return risks, nil
}

// churnRisk adds the independent risk factors. A negative engagement means
// the engagement signal is unavailable.
func (e *Engine) churnRisk(h *customerHistory, now time.Time, engagement float64) ChurnRisk {
	cfg := e.config.Churn
	idle := int(now.Sub(h.last()).Hours() / 24)
	risk := ChurnRisk{
		UserID:             h.user.ID,
		Name:               h.user.Name,
		DaysSinceLastOrder: idle,
		TotalOrders:        h.count(),
		Factors:            make([]string, 0, 5),
	}
	score := 0

	switch {
	case idle >= cfg.IdleHighDays:
		score += cfg.IdleHighScore
		risk.Factors = append(risk.Factors, fmt.Sprintf("No orders in %d days", idle))
	case idle >= cfg.IdleMidDays:
		score += cfg.IdleMidScore
		risk.Factors = append(risk.Factors, fmt.Sprintf("No orders in %d days", idle))
	case idle >= cfg.IdleLowDays:
		score += cfg.IdleLowScore
		risk.Factors = append(risk.Factors, fmt.Sprintf("No orders in %d days", idle))
	}

	recent := h.since(now.AddDate(0, 0, -cfg.FrequencyWindowDays))
	if float64(len(recent))/float64(h.count()) < cfg.FrequencyShare {
		score += cfg.FrequencyScore
		risk.Factors = append(risk.Factors, "Ordering less often than before")
	}

	if len(recent) > 0 {
		var recentSpent float64
		for i := range recent {
			recentSpent += orderValue(&recent[i])
		}
		if recentSpent/float64(len(recent)) < cfg.SpendDropRatio*h.averageOrder() {
			score += cfg.SpendDropScore
			risk.Factors = append(risk.Factors, "Spending less per order")
		}
	}

	if h.user.LoyaltyPoints < cfg.LowLoyaltyPoints && h.count() > cfg.LoyaltyMinOrders {
		score += cfg.LowLoyaltyScore
		risk.Factors = append(risk.Factors, "Not engaged with the loyalty program")
	}

	if engagement >= 0 && engagement < cfg.LowEngagement {
		score += cfg.LowEngagementScore
		risk.Factors = append(risk.Factors, "Low app engagement")
	}

	risk.RiskScore = clampPercent(score)
	switch {
	case risk.RiskScore >= cfg.HighAt:
		risk.RiskLevel = RiskHigh
		risk.RecommendedActions = []string{"Send a personal win-back offer", "Offer bonus loyalty points on the next visit"}
	case risk.RiskScore >= cfg.MediumAt:
		risk.RiskLevel = RiskMedium
		risk.RecommendedActions = []string{"Send a reminder with new menu highlights"}
	default:
		risk.RiskLevel = RiskLow
		risk.RecommendedActions = []string{"Keep in regular newsletter rotation"}
	}
	return risk
}
