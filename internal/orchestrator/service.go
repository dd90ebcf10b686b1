// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package orchestrator holds the runtime configuration of the decision
// engines and aggregates their output.
//
// The Service is the only stateful component: it keeps assembled dashboards
// in a TTL cache keyed by restaurant id and drops every entry whenever the
// configuration changes. Dashboards are built by running six analytics
// calls in parallel; a failing call is reported in Dashboard.Errors and
// does not abort the others.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/cache"
	"github.com/tomtom215/tablesense/internal/chatbot"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
	"github.com/tomtom215/tablesense/internal/store"
)

const componentName = "orchestrator"

// ErrFeatureDisabled is returned when a switched-off surface is requested.
var ErrFeatureDisabled = errors.New("feature disabled")

// Analyst is the part of the analytics engine the dashboard uses.
type Analyst interface {
	PredictDemand(ctx context.Context, restaurantID int, tf analytics.Timeframe, target time.Time) (*analytics.DemandPrediction, error)
	PredictRevenue(ctx context.Context, restaurantID int, tf analytics.Timeframe, target time.Time) (*analytics.RevenuePrediction, error)
	PredictStaffingNeeds(ctx context.Context, restaurantID int, date time.Time, shifts []analytics.Shift) (*analytics.StaffingPlan, error)
	AnalyzeCustomerSegments(ctx context.Context, restaurantID int) ([]analytics.Segment, error)
	PredictCustomerChurn(ctx context.Context, restaurantID int) ([]analytics.ChurnRisk, error)
	OptimizeMenuPricing(ctx context.Context, restaurantID int) ([]analytics.PriceSuggestion, error)
	Stats() analytics.Stats
}

// Dependencies are the collaborators of a Service. Recommend, Pricing and
// Chatbot are only read for health counters and may be nil.
type Dependencies struct {
	Accessor  store.Accessor
	Analytics Analyst
	Recommend interface{ Stats() recommend.Stats }
	Pricing   interface{ Stats() pricing.Stats }
	Chatbot   interface{ Stats() chatbot.Stats }
}

// Service is the configuration holder, dashboard cache and aggregator.
type Service struct {
	mu     sync.RWMutex
	config *Config
	// generation counts config installs. Dashboards built under an older
	// generation are never cached.
	generation uint64

	deps       Dependencies
	dashboards *cache.Cache[int, *Dashboard]
	logger     zerolog.Logger
	now        func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now for dashboard dates.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// New creates the orchestration service. Close releases the cache sweeper.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func New(cfg *Config, deps Dependencies, logger zerolog.Logger, opts ...Option) (*Service, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if deps.Accessor == nil || deps.Analytics == nil {
		return nil, errors.New("accessor and analytics engine are required")
	}

	s := &Service{
		config: cfg.Clone(),
		deps:   deps,
		logger: logger.With().Str("component", componentName).Logger(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.dashboards = cache.New[int, *Dashboard]("dashboard", cfg.CacheTTL, cache.WithClock(s.now))
	return s, nil
}

// Close stops background cache maintenance.
func (s *Service) Close() {
	s.dashboards.Close()
}

// Config returns a copy of the current configuration.
func (s *Service) Config() *Config {
	cfg, _ := s.snapshot()
	return cfg
}

func (s *Service) snapshot() (*Config, uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Clone(), s.generation
}

// storeDashboard caches d unless the config changed since generation.
func (s *Service) storeDashboard(restaurantID int, d *Dashboard, ttl time.Duration, generation uint64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.generation != generation {
		return false
	}
	s.dashboards.SetWithTTL(restaurantID, d, ttl)
	return true
}

// UpdateConfig validates and installs cfg, then drops every cached
// dashboard.
func (s *Service) UpdateConfig(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	s.mu.Lock()
	s.config = cfg.Clone()
	s.generation++
	dropped := s.dashboards.Clear()
	s.mu.Unlock()

	s.logger.Info().
		Dur("cache_ttl", cfg.CacheTTL).
		Interface("features", cfg.Features).
		Int("dropped_dashboards", dropped).
		Msg("configuration updated")
	return nil
}

// Enabled reports whether a feature is switched on.
func (s *Service) Enabled(f Feature) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config.Features.Enabled(f)
}

// Require returns ErrFeatureDisabled when f is switched off.
func (s *Service) Require(f Feature) error {
	if !s.Enabled(f) {
		return fmt.Errorf("%w: %s", ErrFeatureDisabled, f)
	}
	return nil
}

// CacheStats returns dashboard cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.dashboards.Stats()
}
