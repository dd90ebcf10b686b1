// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package chatbot

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
)

func (b *Bot) dispatch(ctx context.Context, msg Message, class Classification, ent Entities, menu []models.MenuItem) (*Reply, error) {
	switch class.Intent {
	case IntentMenuRecommendation:
		return b.recommendReply(ctx, msg, class, ent)
	case IntentPricingQuestion:
		return b.priceReply(ctx, msg, class, ent, menu)
	case IntentAnalyticsRequest:
		return b.analyticsReply(ctx, msg, class, ent)
	case IntentOrderInquiry:
		return b.orderReply(ctx, msg, class)
	case IntentRestaurantInfo:
		return b.infoReply(ctx, msg, class)
	case IntentReservation:
		return reservationReply(class, ent), nil
	case IntentComplaintFeedback:
		return &Reply{
			Text:        "I'm sorry to hear that. Please share what happened and a manager will follow up with you.",
			Confidence:  classConfidence(class),
			Suggestions: []string{"Talk to a manager", "Show me the menu"},
		}, nil
	case IntentGreeting:
		return b.greetingReply(ctx, msg, class), nil
	case IntentHelp:
		return helpReply(msg, class), nil
	default:
		return &Reply{
			Text:        "I'm not sure I understood. You can ask me for recommendations, prices, opening hours or your order status.",
			Confidence:  classConfidence(class),
			Suggestions: []string{"What do you recommend?", "What are your hours?", "Help"},
		}, nil
	}
}

func (b *Bot) recommendReply(ctx context.Context, msg Message, class Classification, ent Entities) (*Reply, error) {
	var (
		items      []recommend.ScoredItem
		confidence int
	)
	if msg.UserID == 0 {
		trending, err := b.recommender.TrendingItems(ctx, msg.RestaurantID, 0, b.config.TrendingWindow)
		if err != nil {
			return nil, err
		}
		items, confidence = trending, classConfidence(class)
	} else {
		res, err := b.recommender.GetPersonalizedRecommendations(ctx, msg.UserID, msg.RestaurantID, recommend.DefaultOptions())
		if err != nil {
			return nil, err
		}
		items, confidence = res.Recommendations, res.Confidence
	}

	picks := make([]models.MenuItem, 0, b.config.RecommendationLimit)
	for i := range items {
		if len(picks) == b.config.RecommendationLimit {
			break
		}
		if matchesDiet(&items[i].Item, ent.Dietary) {
			picks = append(picks, items[i].Item)
		}
	}

	label := strings.Join(ent.Dietary, " ")
	if label != "" {
		label += " "
	}
	if len(picks) == 0 {
		return &Reply{
			Text:        fmt.Sprintf("I couldn't find any %sdishes to recommend right now.", label),
			Confidence:  confidence,
			Suggestions: []string{"Show me the menu", "Help"},
		}, nil
	}

	names := make([]string, len(picks))
	for i := range picks {
		names[i] = fmt.Sprintf("%s (%s)", picks[i].Name, money(picks[i].Price))
	}
	return &Reply{
		Text:       fmt.Sprintf("Here are my top %spicks for you: %s.", label, joinList(names)),
		Confidence: confidence,
		Suggestions: []string{
			fmt.Sprintf("How much is the %s?", picks[0].Name),
			"Show vegetarian options",
			"What are your hours?",
		},
		Data: picks,
	}, nil
}

func matchesDiet(item *models.MenuItem, diets []string) bool {
	for _, d := range diets {
		if !item.HasDietaryFlag(d) {
			return false
		}
	}
	return true
}

func (b *Bot) priceReply(ctx context.Context, msg Message, class Classification, ent Entities, menu []models.MenuItem) (*Reply, error) {
	if len(ent.MenuItems) == 0 {
		suggestions := make([]string, 0, 3)
		for i := range menu {
			if len(suggestions) == 3 {
				break
			}
			if menu[i].IsAvailable {
				suggestions = append(suggestions, fmt.Sprintf("How much is the %s?", menu[i].Name))
			}
		}
		return &Reply{
			Text:        "Which dish would you like a price for?",
			Confidence:  classConfidence(class),
			Suggestions: suggestions,
		}, nil
	}

	item := ent.MenuItems[0]
	quote, err := b.pricer.GetDynamicPrice(ctx, item.ID, msg.RestaurantID, pricing.DefaultOptions())
	if err != nil {
		return nil, err
	}

	var text string
	if quote.DynamicPrice == quote.OriginalPrice {
		text = fmt.Sprintf("The %s is %s right now.", quote.ItemName, money(quote.DynamicPrice))
	} else {
		text = fmt.Sprintf("The %s is %s right now (regular price %s).",
			quote.ItemName, money(quote.DynamicPrice), money(quote.OriginalPrice))
		if adj, ok := largestAdjustment(quote.Adjustments); ok {
			text += " " + adj.Reasoning + "."
		}
	}
	return &Reply{
		Text:        text,
		Confidence:  quote.Confidence,
		Suggestions: []string{"What do you recommend?", fmt.Sprintf("Tell me about the %s", quote.ItemName)},
		Data:        quote,
	}, nil
}

func largestAdjustment(adjs []pricing.Adjustment) (pricing.Adjustment, bool) {
	if len(adjs) == 0 {
		return pricing.Adjustment{}, false
	}
	best := adjs[0]
	for _, a := range adjs[1:] {
		if math.Abs(a.Percentage) > math.Abs(best.Percentage) {
			best = a
		}
	}
	return best, true
}

func (b *Bot) analyticsReply(ctx context.Context, msg Message, class Classification, ent Entities) (*Reply, error) {
	if !msg.Role.IsStaff() {
		return &Reply{
			Text:        "Analytics are only available to restaurant staff.",
			Confidence:  classConfidence(class),
			Suggestions: []string{"What do you recommend?", "Help"},
		}, nil
	}

	now := b.now()
	date := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location()).AddDate(0, 0, 1)
	if ent.Date != nil {
		date = *ent.Date
	}
	day := date.Format("Mon Jan 2")
	lower := strings.ToLower(msg.Text)

	switch {
	case strings.Contains(lower, "staff"):
		plan, err := b.analyst.PredictStaffingNeeds(ctx, msg.RestaurantID, date, nil)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(plan.Shifts))
		confidence := 0
		for i, s := range plan.Shifts {
			parts[i] = fmt.Sprintf("%s %d", s.Shift.Name, s.Total)
			confidence += s.Confidence
		}
		if len(plan.Shifts) > 0 {
			confidence /= len(plan.Shifts)
		}
		return &Reply{
			Text:        fmt.Sprintf("For %s I recommend %d staff: %s.", day, plan.TotalStaff, joinList(parts)),
			Confidence:  confidence,
			Suggestions: []string{"Revenue forecast for " + ent.dateLabel(), "Who is likely to churn?"},
			Data:        plan,
		}, nil

	case strings.Contains(lower, "revenue") || strings.Contains(lower, "sales"):
		pred, err := b.analyst.PredictRevenue(ctx, msg.RestaurantID, analytics.TimeframeDay, date)
		if err != nil {
			return nil, err
		}
		return &Reply{
			Text: fmt.Sprintf("Expected revenue for %s is %s (%+.1f%% versus the recent average).",
				day, money(pred.PredictedRevenue), pred.ExpectedRevenueChange),
			Confidence:  pred.Confidence,
			Suggestions: []string{"Staffing for " + ent.dateLabel(), "Demand forecast for " + ent.dateLabel()},
			Data:        pred,
		}, nil

	case strings.Contains(lower, "churn"):
		risks, err := b.analyst.PredictCustomerChurn(ctx, msg.RestaurantID)
		if err != nil {
			return nil, err
		}
		high := make([]string, 0)
		for _, r := range risks {
			if r.RiskLevel == analytics.RiskHigh {
				high = append(high, fmt.Sprintf("%s (%d)", r.Name, r.RiskScore))
			}
		}
		text := "No customers are at high churn risk right now."
		if len(high) > 0 {
			text = fmt.Sprintf("%d customers are at high churn risk: %s.", len(high), joinList(high[:min(len(high), 5)]))
		}
		return &Reply{
			Text:        text,
			Confidence:  classConfidence(class),
			Suggestions: []string{"Show customer segments", "Revenue forecast for tomorrow"},
			Data:        risks,
		}, nil

	case strings.Contains(lower, "segment"):
		segments, err := b.analyst.AnalyzeCustomerSegments(ctx, msg.RestaurantID)
		if err != nil {
			return nil, err
		}
		parts := make([]string, len(segments))
		for i, s := range segments {
			parts[i] = fmt.Sprintf("%s %d", s.Name, s.Size)
		}
		return &Reply{
			Text:        fmt.Sprintf("Customer segments: %s.", joinList(parts)),
			Confidence:  classConfidence(class),
			Suggestions: []string{"Who is likely to churn?", "Demand forecast for tomorrow"},
			Data:        segments,
		}, nil

	default:
		pred, err := b.analyst.PredictDemand(ctx, msg.RestaurantID, analytics.TimeframeDay, date)
		if err != nil {
			return nil, err
		}
		return &Reply{
			Text: fmt.Sprintf("I expect about %d orders on %s (%+.1f%% versus the recent average).",
				pred.PredictedOrders, day, pred.ExpectedDemandChange),
			Confidence:  pred.Confidence,
			Suggestions: []string{"Staffing for " + ent.dateLabel(), "Revenue forecast for " + ent.dateLabel()},
			Data:        pred,
		}, nil
	}
}

// dateLabel is the phrase used in follow-up suggestions.
func (e Entities) dateLabel() string {
	if e.DateText != "" {
		return e.DateText
	}
	return "tomorrow"
}

func (b *Bot) orderReply(ctx context.Context, msg Message, class Classification) (*Reply, error) {
	if msg.UserID == 0 {
		return &Reply{
			Text:        "Please sign in so I can look up your orders.",
			Confidence:  classConfidence(class),
			Suggestions: []string{"What do you recommend?"},
		}, nil
	}
	orders, err := b.accessor.GetUserOrders(ctx, msg.UserID)
	if err != nil {
		return nil, err
	}

	here := make([]models.Order, 0, len(orders))
	for i := range orders {
		if orders[i].RestaurantID == msg.RestaurantID {
			here = append(here, orders[i])
		}
	}
	if len(here) == 0 {
		return &Reply{
			Text:        "I couldn't find any orders from you here yet.",
			Confidence:  classConfidence(class),
			Suggestions: []string{"What do you recommend?", "Show me the menu"},
		}, nil
	}
	sort.Slice(here, func(i, j int) bool { return here[i].CreatedAt.After(here[j].CreatedAt) })
	last := here[0]

	return &Reply{
		Text: fmt.Sprintf("Your most recent order #%d from %s is %s (%s).",
			last.ID, last.CreatedAt.Format("Jan 2"), last.Status, money(last.TotalPrice)),
		Confidence:  classConfidence(class),
		Suggestions: []string{"Order again", "What do you recommend?"},
		Data:        last,
	}, nil
}

func (b *Bot) infoReply(ctx context.Context, msg Message, class Classification) (*Reply, error) {
	r, err := b.accessor.GetRestaurant(ctx, msg.RestaurantID)
	if err != nil {
		return nil, err
	}

	parts := []string{fmt.Sprintf("%s is open %02d:00-%02d:00.", r.Name, r.OpenHour, r.CloseHour)}
	if r.Address != "" {
		parts = append(parts, "You can find us at "+r.Address+".")
	}
	if r.Phone != "" {
		parts = append(parts, "Call us at "+r.Phone+".")
	}
	return &Reply{
		Text:        strings.Join(parts, " "),
		Confidence:  classConfidence(class),
		Suggestions: []string{"What do you recommend?", "Book a table"},
		Data:        r,
	}, nil
}

func reservationReply(class Classification, ent Entities) *Reply {
	var details []string
	if ent.Number != nil {
		details = append(details, fmt.Sprintf("a party of %d", *ent.Number))
	}
	if ent.DateText != "" {
		details = append(details, ent.DateText)
	}
	text := "I can't book tables yet, but the restaurant team can help you by phone."
	if len(details) > 0 {
		text = fmt.Sprintf("I can't book tables yet. For %s, please call the restaurant and the team will help you.",
			strings.Join(details, " "))
	}
	return &Reply{
		Text:        text,
		Confidence:  classConfidence(class),
		Suggestions: []string{"What are your hours?", "What do you recommend?"},
	}
}

func (b *Bot) greetingReply(ctx context.Context, msg Message, class Classification) *Reply {
	greeting := "Hello!"
	if msg.UserID != 0 {
		if u, err := b.accessor.GetUser(ctx, msg.UserID); err == nil && u.Name != "" {
			greeting = fmt.Sprintf("Hello, %s!", u.Name)
		}
	}
	return &Reply{
		Text:        greeting + " I can recommend dishes, check prices and answer questions about the restaurant.",
		Confidence:  classConfidence(class),
		Suggestions: []string{"What do you recommend?", "What are your hours?", "Help"},
	}
}

func helpReply(msg Message, class Classification) *Reply {
	text := "You can ask me for dish recommendations (try \"something vegetarian\"), the price of a dish, " +
		"opening hours and location, or the status of your last order."
	suggestions := []string{"What do you recommend?", "How much is the soup?", "Where is my order?"}
	if msg.Role.IsStaff() {
		text += " As staff you can also ask for demand, revenue and staffing forecasts, churn risk and customer segments."
		suggestions = append(suggestions, "Staffing for tomorrow")
	}
	return &Reply{Text: text, Confidence: classConfidence(class), Suggestions: suggestions}
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

// joinList renders "a", "a and b" or "a, b and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " and " + items[len(items)-1]
	}
}
