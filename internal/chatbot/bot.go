// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package chatbot answers free-text diner and staff questions.
//
// A message is classified into one of nine intents by regex pattern voting,
// entities (menu items, dietary keywords, a relative date, a number) are
// extracted, and the message is dispatched to the recommendation, pricing
// or analytics engine. The engine result is formatted as chat text with
// suggested quick replies. The chatbot adds no scoring logic of its own.
//
// Engine failures never surface as errors: the reply becomes a fixed
// low-confidence apology with retry suggestions.
package chatbot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
	"github.com/tomtom215/tablesense/internal/store"
)

const componentName = "chatbot"

// ErrEmptyMessage is returned for blank messages.
var ErrEmptyMessage = errors.New("message is empty")

// Fallback reply sent when an engine call fails.
const (
	apologyText       = "I'm sorry, I'm having trouble getting that information right now. Please try again in a moment."
	apologyConfidence = 10
)

var apologySuggestions = []string{"Try again", "Show me the menu", "What are your hours?"}

// Recommender is the part of the recommendation engine the chatbot uses.
type Recommender interface {
	GetPersonalizedRecommendations(ctx context.Context, userID, restaurantID int, opts recommend.Options) (*recommend.Result, error)
	TrendingItems(ctx context.Context, restaurantID, limit int, window time.Duration) ([]recommend.ScoredItem, error)
}

// Pricer is the part of the pricing engine the chatbot uses.
type Pricer interface {
	GetDynamicPrice(ctx context.Context, menuItemID, restaurantID int, opts pricing.Options) (*pricing.Quote, error)
}

// Analyst is the part of the analytics engine the chatbot uses.
type Analyst interface {
	PredictDemand(ctx context.Context, restaurantID int, tf analytics.Timeframe, target time.Time) (*analytics.DemandPrediction, error)
	PredictRevenue(ctx context.Context, restaurantID int, tf analytics.Timeframe, target time.Time) (*analytics.RevenuePrediction, error)
	PredictStaffingNeeds(ctx context.Context, restaurantID int, date time.Time, shifts []analytics.Shift) (*analytics.StaffingPlan, error)
	PredictCustomerChurn(ctx context.Context, restaurantID int) ([]analytics.ChurnRisk, error)
	AnalyzeCustomerSegments(ctx context.Context, restaurantID int) ([]analytics.Segment, error)
}

// Config holds the chatbot reply policy.
type Config struct {
	// RecommendationLimit is the number of dishes suggested per reply. Default: 3.
	RecommendationLimit int `json:"recommendation_limit" koanf:"recommendation_limit"`

	// TrendingWindow is used for anonymous diners. Default: 7 days.
	TrendingWindow time.Duration `json:"trending_window" koanf:"trending_window"`
}

// DefaultConfig returns the production reply policy.
func DefaultConfig() *Config {
	return &Config{RecommendationLimit: 3, TrendingWindow: 7 * 24 * time.Hour}
}

// Validate checks the policy.
func (c *Config) Validate() error {
	if c.RecommendationLimit < 1 {
		return fmt.Errorf("recommendation_limit must be at least 1, got %d", c.RecommendationLimit)
	}
	if c.TrendingWindow <= 0 {
		return fmt.Errorf("trending_window must be positive, got %v", c.TrendingWindow)
	}
	return nil
}

// Bot dispatches chat messages to the engines. It is safe for concurrent use.
type Bot struct {
	config      Config
	accessor    store.Accessor
	recommender Recommender
	pricer      Pricer
	analyst     Analyst
	logger      zerolog.Logger
	now         func() time.Time

	messages  atomic.Int64
	fallbacks atomic.Int64
}

// Option customizes a Bot.
type Option func(*Bot)

// WithClock replaces time.Now for relative dates.
func WithClock(now func() time.Time) Option {
	return func(b *Bot) { b.now = now }
}

// New creates a chatbot over the three engines.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *Config, accessor store.Accessor, rec Recommender, pricer Pricer, analyst Analyst, logger zerolog.Logger, opts ...Option) (*Bot, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if accessor == nil || rec == nil || pricer == nil || analyst == nil {
		return nil, errors.New("accessor and all engines are required")
	}

	b := &Bot{
		config:      *cfg,
		accessor:    accessor,
		recommender: rec,
		pricer:      pricer,
		analyst:     analyst,
		logger:      logger.With().Str("component", componentName).Logger(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Stats returns message and fallback counters.
func (b *Bot) Stats() Stats {
	return Stats{Messages: b.messages.Load(), Fallbacks: b.fallbacks.Load()}
}

// Respond classifies msg and builds the reply. The only error is
// ErrEmptyMessage; engine failures become an apology reply.
func (b *Bot) Respond(ctx context.Context, msg Message) (*Reply, error) {
	if strings.TrimSpace(msg.Text) == "" {
		return nil, ErrEmptyMessage
	}
	b.messages.Add(1)

	class := Classify(msg.Text)
	metrics.ChatbotIntents.WithLabelValues(string(class.Intent)).Inc()

	menu, err := b.accessor.GetMenuItems(ctx, msg.RestaurantID)
	if err != nil {
		b.logger.Debug().Err(err).Int("restaurant_id", msg.RestaurantID).Msg("menu unavailable for entity extraction")
		menu = nil
	}
	ent := ExtractEntities(msg.Text, menu, b.now())

	reply, err := b.dispatch(ctx, msg, class, ent, menu)
	if err != nil {
		return b.apology(msg, class.Intent, ent, err), nil
	}
	reply.Intent = class.Intent
	reply.Entities = ent
	if reply.Suggestions == nil {
		reply.Suggestions = []string{}
	}

	b.logger.Debug().
		Str("intent", string(class.Intent)).
		Float64("score", class.Score).
		Int("confidence", reply.Confidence).
		Msg("chat reply")
	return reply, nil
}

func (b *Bot) apology(msg Message, intent Intent, ent Entities, cause error) *Reply {
	b.fallbacks.Add(1)
	metrics.ChatbotFallbacks.Inc()

	level := zerolog.ErrorLevel
	if errors.Is(cause, store.ErrNotFound) || errors.Is(cause, store.ErrItemUnavailable) {
		level = zerolog.WarnLevel
	}
	b.logger.WithLevel(level).Err(cause).
		Str("intent", string(intent)).
		Int("user_id", msg.UserID).
		Int("restaurant_id", msg.RestaurantID).
		Msg("engine call failed, sending apology")

	return &Reply{
		Intent:      intent,
		Text:        apologyText,
		Confidence:  apologyConfidence,
		Suggestions: append([]string(nil), apologySuggestions...),
		Entities:    ent,
	}
}

// classConfidence maps a pattern vote to a 0..100 confidence for replies
// that are not backed by an engine score.
func classConfidence(c Classification) int {
	if c.Intent == IntentGeneral {
		return 20
	}
	return min(100, 50+int(c.Score*50))
}
