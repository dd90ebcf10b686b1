// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package recommend

import (
	"fmt"
	"time"
)

// Config is the scoring policy of the recommendation engine. Every weight,
// bonus and threshold used by the signal generators lives here.
type Config struct {
	// Weights defines the contribution of each signal to the combined score.
	// Weights are NOT renormalized: a disabled signal simply drops its term.
	Weights SignalWeights `json:"weights" koanf:"weights"`

	Collaborative CollaborativeConfig `json:"collaborative" koanf:"collaborative"`
	Content       ContentConfig       `json:"content" koanf:"content"`
	Behavior      BehaviorConfig      `json:"behavior" koanf:"behavior"`
	Context       ContextConfig       `json:"context" koanf:"context"`
	Confidence    ConfidenceConfig    `json:"confidence" koanf:"confidence"`
	Limits        LimitsConfig        `json:"limits" koanf:"limits"`
}

// SignalWeights defines the fixed weight of each signal generator.
type SignalWeights struct {
	Collaborative float64 `json:"collaborative" koanf:"collaborative"`
	Content       float64 `json:"content" koanf:"content"`
	Behavior      float64 `json:"behavior" koanf:"behavior"`
	Weather       float64 `json:"weather" koanf:"weather"`
	Timing        float64 `json:"timing" koanf:"timing"`
	PriceFit      float64 `json:"price_fit" koanf:"price_fit"`
}

// ToMap returns the weights keyed by signal name.
//
//nolint:gocritic // value receiver is intentional for immutable semantics
func (w SignalWeights) ToMap() map[string]float64 {
	return map[string]float64{
		SignalCollaborative: w.Collaborative,
		SignalContent:       w.Content,
		SignalBehavior:      w.Behavior,
		SignalWeather:       w.Weather,
		SignalTiming:        w.Timing,
		SignalPriceFit:      w.PriceFit,
	}
}

// CollaborativeConfig contains parameters for user-based collaborative filtering.
type CollaborativeConfig struct {
	// MinSimilarity is the Jaccard similarity a neighbor must exceed.
	// Default: 0.1.
	MinSimilarity float64 `json:"min_similarity" koanf:"min_similarity"`

	// Interaction weights propagated from neighbors.
	// Defaults: view 1, like 3, order 5, favorite 4.
	ViewWeight     float64 `json:"view_weight" koanf:"view_weight"`
	LikeWeight     float64 `json:"like_weight" koanf:"like_weight"`
	OrderWeight    float64 `json:"order_weight" koanf:"order_weight"`
	FavoriteWeight float64 `json:"favorite_weight" koanf:"favorite_weight"`
}

// ContentConfig contains parameters for content-based filtering.
type ContentConfig struct {
	// DietaryMatchBonus is added per matching dietary preference. Default: 15.
	DietaryMatchBonus float64 `json:"dietary_match_bonus" koanf:"dietary_match_bonus"`

	// FavoriteCategoryBonus is added when the item is in a favorite category. Default: 20.
	FavoriteCategoryBonus float64 `json:"favorite_category_bonus" koanf:"favorite_category_bonus"`

	// AllergenPenalty is added once when any allergen overlaps. Default: -100.
	AllergenPenalty float64 `json:"allergen_penalty" koanf:"allergen_penalty"`

	// Similarity to items the user liked, ordered or favorited.
	// Defaults: same category +5, price within $5 +3, each shared dietary flag +2.
	SameCategoryBonus    float64 `json:"same_category_bonus" koanf:"same_category_bonus"`
	PriceSimilarityRange float64 `json:"price_similarity_range" koanf:"price_similarity_range"`
	PriceSimilarityBonus float64 `json:"price_similarity_bonus" koanf:"price_similarity_bonus"`
	SharedDietaryBonus   float64 `json:"shared_dietary_bonus" koanf:"shared_dietary_bonus"`
}

// BehaviorConfig contains parameters for the behavioral signal.
type BehaviorConfig struct {
	// CategoryFrequencyWeight multiplies how often the user ordered from the
	// item's category. Default: 2.
	CategoryFrequencyWeight float64 `json:"category_frequency_weight" koanf:"category_frequency_weight"`

	// RecencyWindow bounds the interactions that earn recency boosts.
	// Default: 30 days.
	RecencyWindow time.Duration `json:"recency_window" koanf:"recency_window"`

	// Recency boosts per interaction kind.
	// Defaults: view +1, like +5, order +8, favorite +6.
	ViewBoost     float64 `json:"view_boost" koanf:"view_boost"`
	LikeBoost     float64 `json:"like_boost" koanf:"like_boost"`
	OrderBoost    float64 `json:"order_boost" koanf:"order_boost"`
	FavoriteBoost float64 `json:"favorite_boost" koanf:"favorite_boost"`

	// PopularBoost and FeaturedBoost apply to every user, so cold-start
	// users still receive a ranking. Defaults: 3 and 2.
	PopularBoost  float64 `json:"popular_boost" koanf:"popular_boost"`
	FeaturedBoost float64 `json:"featured_boost" koanf:"featured_boost"`
}

// ContextConfig contains parameters for the contextual nudges.
type ContextConfig struct {
	// WeatherBonus is added when an item matches the current weather. Default: 10.
	WeatherBonus float64 `json:"weather_bonus" koanf:"weather_bonus"`

	// TimingBonus is added when an item matches the time of day. Default: 10.
	TimingBonus float64 `json:"timing_bonus" koanf:"timing_bonus"`

	// PriceFitScale is the maximum price-fit score, reached when the item
	// price equals the user's average spend per item. Default: 10.
	PriceFitScale float64 `json:"price_fit_scale" koanf:"price_fit_scale"`
}

// ConfidenceConfig contains the confidence rubric.
type ConfidenceConfig struct {
	PreferencesBase int `json:"preferences_base" koanf:"preferences_base"` // Default: 30
	DietaryBonus    int `json:"dietary_bonus" koanf:"dietary_bonus"`       // Default: 10
	CategoryBonus   int `json:"category_bonus" koanf:"category_bonus"`     // Default: 10
	AllergenBonus   int `json:"allergen_bonus" koanf:"allergen_bonus"`     // Default: 5
	PerInteraction  int `json:"per_interaction" koanf:"per_interaction"`   // Default: 2
	InteractionCap  int `json:"interaction_cap" koanf:"interaction_cap"`   // Default: 30
	PerOrder        int `json:"per_order" koanf:"per_order"`               // Default: 3
	OrderCap        int `json:"order_cap" koanf:"order_cap"`               // Default: 30
}

// LimitsConfig contains operational limits.
type LimitsConfig struct {
	// DefaultLimit is used when a request does not set one. Default: 8.
	DefaultLimit int `json:"default_limit" koanf:"default_limit"`

	// MaxLimit caps any requested limit. Default: 50.
	MaxLimit int `json:"max_limit" koanf:"max_limit"`

	// TrendingWindow is the default look-back for trending items. Default: 7 days.
	TrendingWindow time.Duration `json:"trending_window" koanf:"trending_window"`
}

// DefaultConfig returns the production scoring policy.
func DefaultConfig() *Config {
	return &Config{
		Weights: SignalWeights{
			Collaborative: 0.30,
			Content:       0.25,
			Behavior:      0.20,
			Weather:       0.10,
			Timing:        0.10,
			PriceFit:      0.05,
		},
		Collaborative: CollaborativeConfig{
			MinSimilarity:  0.1,
			ViewWeight:     1,
			LikeWeight:     3,
			OrderWeight:    5,
			FavoriteWeight: 4,
		},
		Content: ContentConfig{
			DietaryMatchBonus:     15,
			FavoriteCategoryBonus: 20,
			AllergenPenalty:       -100,
			SameCategoryBonus:     5,
			PriceSimilarityRange:  5,
			PriceSimilarityBonus:  3,
			SharedDietaryBonus:    2,
		},
		Behavior: BehaviorConfig{
			CategoryFrequencyWeight: 2,
			RecencyWindow:           30 * 24 * time.Hour,
			ViewBoost:               1,
			LikeBoost:               5,
			OrderBoost:              8,
			FavoriteBoost:           6,
			PopularBoost:            3,
			FeaturedBoost:           2,
		},
		Context: ContextConfig{
			WeatherBonus:  10,
			TimingBonus:   10,
			PriceFitScale: 10,
		},
		Confidence: ConfidenceConfig{
			PreferencesBase: 30,
			DietaryBonus:    10,
			CategoryBonus:   10,
			AllergenBonus:   5,
			PerInteraction:  2,
			InteractionCap:  30,
			PerOrder:        3,
			OrderCap:        30,
		},
		Limits: LimitsConfig{
			DefaultLimit:   8,
			MaxLimit:       50,
			TrendingWindow: 7 * 24 * time.Hour,
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	for name, w := range c.Weights.ToMap() {
		if w < 0 {
			return fmt.Errorf("weights.%s must be non-negative, got %f", name, w)
		}
	}
	if c.Collaborative.MinSimilarity < 0 || c.Collaborative.MinSimilarity >= 1 {
		return fmt.Errorf("collaborative.min_similarity must be in [0, 1), got %f", c.Collaborative.MinSimilarity)
	}
	if c.Content.AllergenPenalty > 0 {
		return fmt.Errorf("content.allergen_penalty must not be positive, got %f", c.Content.AllergenPenalty)
	}
	if c.Content.PriceSimilarityRange < 0 {
		return fmt.Errorf("content.price_similarity_range must be non-negative, got %f", c.Content.PriceSimilarityRange)
	}
	if c.Behavior.RecencyWindow <= 0 {
		return fmt.Errorf("behavior.recency_window must be positive, got %v", c.Behavior.RecencyWindow)
	}
	if c.Context.PriceFitScale < 0 {
		return fmt.Errorf("context.price_fit_scale must be non-negative, got %f", c.Context.PriceFitScale)
	}
	if c.Limits.DefaultLimit < 1 {
		return fmt.Errorf("limits.default_limit must be positive, got %d", c.Limits.DefaultLimit)
	}
	if c.Limits.MaxLimit < c.Limits.DefaultLimit {
		return fmt.Errorf("limits.max_limit must be >= limits.default_limit, got %d < %d", c.Limits.MaxLimit, c.Limits.DefaultLimit)
	}
	if c.Limits.TrendingWindow <= 0 {
		return fmt.Errorf("limits.trending_window must be positive, got %v", c.Limits.TrendingWindow)
	}
	return nil
}

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	// All nested structs contain only value types.
	clone := *c
	return &clone
}
