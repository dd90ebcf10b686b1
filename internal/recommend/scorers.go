// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/signals"
)

// scoringInput is everything the signal generators read. It is assembled
// once per request before any scoring happens.
type scoringInput struct {
	user         *models.User
	restaurant   *models.Restaurant
	prefs        *models.UserPreference
	interactions []models.UserItemInteraction
	neighborhood []models.UserItemInteraction
	orders       []models.Order
	items        []models.MenuItem
	itemsByID    map[int]*models.MenuItem
	weather      *signals.Weather
	now          time.Time
}

func (in *scoringInput) indexItems() {
	in.itemsByID = make(map[int]*models.MenuItem, len(in.items))
	for i := range in.items {
		in.itemsByID[in.items[i].ID] = &in.items[i]
	}
}

// signalOutput is the per-item score map of one generator plus the notes
// explaining each contribution.
type signalOutput struct {
	name    string
	scores  map[int]float64
	reasons map[int][]string
	summary string
}

func newSignalOutput(name string) *signalOutput {
	return &signalOutput{
		name:    name,
		scores:  make(map[int]float64),
		reasons: make(map[int][]string),
	}
}

func (o *signalOutput) add(itemID int, delta float64, reason string) {
	o.scores[itemID] += delta
	if reason == "" {
		return
	}
	for _, r := range o.reasons[itemID] {
		if r == reason {
			return
		}
	}
	o.reasons[itemID] = append(o.reasons[itemID], reason)
}

// interactionWeight maps a neighbor interaction to its propagated weight.
func (c CollaborativeConfig) interactionWeight(kind models.InteractionKind) float64 {
	switch kind {
	case models.InteractionViewed:
		return c.ViewWeight
	case models.InteractionLiked:
		return c.LikeWeight
	case models.InteractionOrdered:
		return c.OrderWeight
	case models.InteractionFavorited:
		return c.FavoriteWeight
	default:
		return 0
	}
}

func (c BehaviorConfig) recencyBoost(kind models.InteractionKind) float64 {
	switch kind {
	case models.InteractionViewed:
		return c.ViewBoost
	case models.InteractionLiked:
		return c.LikeBoost
	case models.InteractionOrdered:
		return c.OrderBoost
	case models.InteractionFavorited:
		return c.FavoriteBoost
	default:
		return 0
	}
}

// collaborativeScores propagates the interactions of Jaccard-similar diners.
// Items the target diner already interacted with are skipped.
func collaborativeScores(cfg CollaborativeConfig, in *scoringInput) *signalOutput {
	out := newSignalOutput(SignalCollaborative)

	mine := make(map[int]struct{}, len(in.interactions))
	for _, it := range in.interactions {
		mine[it.MenuItemID] = struct{}{}
	}
	if len(mine) == 0 {
		return out
	}

	byUser := make(map[int][]models.UserItemInteraction)
	for _, it := range in.neighborhood {
		if it.UserID == in.user.ID {
			continue
		}
		byUser[it.UserID] = append(byUser[it.UserID], it)
	}

	// Sorted iteration keeps float accumulation identical across calls.
	userIDs := make([]int, 0, len(byUser))
	for id := range byUser {
		userIDs = append(userIDs, id)
	}
	sort.Ints(userIDs)

	neighbors := 0
	for _, uid := range userIDs {
		theirs := make(map[int]struct{})
		for _, it := range byUser[uid] {
			theirs[it.MenuItemID] = struct{}{}
		}
		sim := jaccard(mine, theirs)
		if sim <= cfg.MinSimilarity {
			continue
		}
		neighbors++

		for _, it := range byUser[uid] {
			if _, seen := mine[it.MenuItemID]; seen {
				continue
			}
			w := cfg.interactionWeight(it.Kind)
			if w == 0 {
				continue
			}
			out.add(it.MenuItemID, w*sim, "Popular with diners who share your taste")
		}
	}

	if neighbors > 0 {
		out.summary = fmt.Sprintf("Found %d diners with similar taste", neighbors)
	}
	return out
}

func jaccard(a, b map[int]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for id := range a {
		if _, ok := b[id]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	return float64(inter) / float64(union)
}

// positiveHistory returns the distinct menu items the diner liked, ordered
// or favorited, ascending by id.
func positiveHistory(in *scoringInput) []*models.MenuItem {
	seen := make(map[int]struct{})
	for _, it := range in.interactions {
		if it.Kind.Positive() {
			seen[it.MenuItemID] = struct{}{}
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		if _, ok := in.itemsByID[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	out := make([]*models.MenuItem, len(ids))
	for i, id := range ids {
		out[i] = in.itemsByID[id]
	}
	return out
}

// contentScores scores items against stored preferences and the dishes the
// diner already enjoyed. An allergen overlap adds a single large penalty.
func contentScores(cfg ContentConfig, in *scoringInput) *signalOutput {
	out := newSignalOutput(SignalContent)
	history := positiveHistory(in)
	if in.prefs == nil && len(history) == 0 {
		return out
	}

	var diets []string
	favorites := make(map[int]struct{})
	allergens := make(map[string]struct{})
	if p := in.prefs; p != nil {
		for _, d := range p.DietaryPreferences {
			diets = append(diets, models.NormalizeDiet(d))
		}
		for _, c := range p.FavoriteCategories {
			favorites[c] = struct{}{}
		}
		for _, a := range p.Allergens {
			allergens[strings.ToLower(strings.TrimSpace(a))] = struct{}{}
		}
	}

	for i := range in.items {
		item := &in.items[i]

		for _, d := range diets {
			if item.HasDietaryFlag(d) {
				out.add(item.ID, cfg.DietaryMatchBonus, "Matches your "+d+" preference")
			}
		}
		if _, ok := favorites[item.CategoryID]; ok {
			out.add(item.ID, cfg.FavoriteCategoryBonus, "From one of your favorite categories")
		}
		if hasAllergen(item, allergens) {
			out.add(item.ID, cfg.AllergenPenalty, "Contains an allergen you avoid")
		}

		for _, h := range history {
			if h.ID == item.ID {
				continue
			}
			if h.CategoryID == item.CategoryID {
				out.add(item.ID, cfg.SameCategoryBonus, "Similar to dishes you enjoyed")
			}
			if math.Abs(h.Price-item.Price) <= cfg.PriceSimilarityRange {
				out.add(item.ID, cfg.PriceSimilarityBonus, "")
			}
			for _, flag := range h.DietaryFlags() {
				if item.HasDietaryFlag(flag) {
					out.add(item.ID, cfg.SharedDietaryBonus, "")
				}
			}
		}
	}

	switch {
	case in.prefs != nil:
		out.summary = "Matched against your dietary preferences and favorite categories"
	case len(history) > 0:
		out.summary = fmt.Sprintf("Compared with %d dishes you enjoyed", len(history))
	}
	return out
}

func hasAllergen(item *models.MenuItem, avoid map[string]struct{}) bool {
	if len(avoid) == 0 {
		return false
	}
	for _, a := range item.Allergens {
		if _, ok := avoid[strings.ToLower(strings.TrimSpace(a))]; ok {
			return true
		}
	}
	return false
}

// behaviorScores rewards categories the diner orders from, items touched in
// the recency window, and restaurant-promoted items.
func behaviorScores(cfg BehaviorConfig, in *scoringInput) *signalOutput {
	out := newSignalOutput(SignalBehavior)

	categoryFreq := make(map[int]int)
	for _, o := range in.orders {
		for _, line := range o.Items {
			if item, ok := in.itemsByID[line.MenuItemID]; ok {
				categoryFreq[item.CategoryID] += max(line.Quantity, 1)
			}
		}
	}

	cutoff := in.now.Add(-cfg.RecencyWindow)
	recent := make(map[int]float64)
	for _, it := range in.interactions {
		if it.Timestamp.Before(cutoff) {
			continue
		}
		recent[it.MenuItemID] += cfg.recencyBoost(it.Kind)
	}

	for i := range in.items {
		item := &in.items[i]
		if f := categoryFreq[item.CategoryID]; f > 0 {
			out.add(item.ID, float64(f)*cfg.CategoryFrequencyWeight, "You often order from this category")
		}
		if r := recent[item.ID]; r > 0 {
			out.add(item.ID, r, "You showed interest recently")
		}
		if item.IsPopular {
			out.add(item.ID, cfg.PopularBoost, "Popular at this restaurant")
		}
		if item.IsFeatured {
			out.add(item.ID, cfg.FeaturedBoost, "Featured by the restaurant")
		}
	}

	if len(in.orders) > 0 {
		out.summary = fmt.Sprintf("Based on %d past orders", len(in.orders))
	}
	return out
}

var weatherKeywords = map[string][]string{
	signals.ConditionHot:   {"cold", "iced", "refreshing", "frozen", "sorbet", "salad", "smoothie", "lemonade"},
	signals.ConditionSunny: {"fresh", "light", "salad", "grilled", "iced"},
	signals.ConditionCold:  {"hot", "warm", "soup", "stew", "hearty", "cocoa", "roast"},
	signals.ConditionRainy: {"comfort", "soup", "warm", "hearty", "pasta", "pizza"},
}

func weatherScores(bonus float64, in *scoringInput) *signalOutput {
	out := newSignalOutput(SignalWeather)
	if in.weather == nil {
		return out
	}
	keywords := weatherKeywords[in.weather.Condition]
	if len(keywords) == 0 {
		return out
	}

	reason := "A good pick for " + in.weather.Condition + " weather"
	for i := range in.items {
		if in.items[i].MentionsAny(keywords) {
			out.add(in.items[i].ID, bonus, reason)
		}
	}
	out.summary = "Adjusted for " + in.weather.Condition + " weather"
	return out
}

type timeBucket struct {
	name     string
	keywords []string
}

func bucketFor(hour int) timeBucket {
	switch {
	case hour >= 6 && hour < 11:
		return timeBucket{"breakfast", []string{"breakfast", "coffee", "espresso", "egg", "pancake", "toast", "latte"}}
	case hour >= 11 && hour < 15:
		return timeBucket{"lunch", []string{"lunch", "salad", "sandwich", "soup", "light", "bowl", "wrap"}}
	case hour >= 15 && hour < 17:
		return timeBucket{"afternoon", []string{"snack", "coffee", "tea", "dessert", "appetizer"}}
	case hour >= 17 && hour < 22:
		return timeBucket{"dinner", []string{"dinner", "steak", "pasta", "grilled", "salmon", "risotto", "stew", "entree"}}
	default:
		return timeBucket{"late night", []string{"late night", "dessert", "snack", "pizza", "treat"}}
	}
}

func timingScores(bonus float64, in *scoringInput) *signalOutput {
	out := newSignalOutput(SignalTiming)
	bucket := bucketFor(in.now.Hour())

	reason := "Suited to " + bucket.name
	for i := range in.items {
		if in.items[i].MentionsAny(bucket.keywords) {
			out.add(in.items[i].ID, bonus, reason)
		}
	}
	if len(out.scores) > 0 {
		out.summary = "Suited to " + bucket.name
	}
	return out
}

// averageSpendPerItem is the quantity-weighted mean unit price the diner paid.
func averageSpendPerItem(orders []models.Order) (float64, bool) {
	var total float64
	var qty int
	for _, o := range orders {
		for _, line := range o.Items {
			q := max(line.Quantity, 1)
			total += line.UnitPrice * float64(q)
			qty += q
		}
	}
	if qty == 0 {
		return 0, false
	}
	return total / float64(qty), true
}

// priceFitScores is inversely proportional to the distance between the item
// price and the diner's usual spend per item.
func priceFitScores(scale float64, in *scoringInput) *signalOutput {
	out := newSignalOutput(SignalPriceFit)
	avg, ok := averageSpendPerItem(in.orders)
	if !ok {
		return out
	}

	for i := range in.items {
		item := &in.items[i]
		diff := math.Abs(item.Price - avg)
		reason := ""
		if diff <= 2 {
			reason = "Close to what you usually spend"
		}
		out.add(item.ID, scale/(1+diff), reason)
	}
	out.summary = fmt.Sprintf("Prices matched to your usual spend of $%.2f per item", avg)
	return out
}
