// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/signals"
	"github.com/tomtom215/tablesense/internal/store"
)

const engineName = "analytics"

var (
	// ErrInvalidTimeframe is returned for unknown forecast timeframes.
	ErrInvalidTimeframe = errors.New("invalid timeframe")

	// ErrInvalidShift is returned for shifts starting outside 0..23.
	ErrInvalidShift = errors.New("invalid shift")
)

// Engine runs the predictive analytics. It holds no state between calls
// and is safe for concurrent use.
type Engine struct {
	config   *Config
	accessor store.Accessor
	signals  signals.Set
	logger   zerolog.Logger
	now      func() time.Time

	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// Option customizes an Engine.
type Option func(*Engine)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// NewEngine creates an analytics engine. Missing providers in sigs fall back
// to neutral values.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, accessor store.Accessor, sigs signals.Set, logger zerolog.Logger, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if accessor == nil {
		return nil, errors.New("data accessor is required")
	}

	e := &Engine{
		config:   cfg.Clone(),
		accessor: accessor,
		signals:  sigs.WithDefaults(),
		logger:   logger.With().Str("component", engineName).Logger(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Config returns a copy of the analytics policy.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// Stats returns request and error counters.
func (e *Engine) Stats() Stats {
	return Stats{Requests: e.requestCount.Load(), Errors: e.errorCount.Load()}
}

func (e *Engine) begin() time.Time {
	e.requestCount.Add(1)
	return time.Now()
}

func (e *Engine) finish(operation string, start time.Time, err error) {
	if err != nil && !errors.Is(err, store.ErrNotFound) && !IsInvalidInput(err) {
		e.errorCount.Add(1)
	}
	metrics.RecordEngineCall(engineName, operation, store.Outcome(err), time.Since(start))
}

// IsInvalidInput reports whether err was caused by the caller's arguments.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidTimeframe) || errors.Is(err, ErrInvalidShift)
}

// contextFactors collects the weather, event and holiday multipliers for a
// target date. Provider failures drop the factor.
func (e *Engine) contextFactors(ctx context.Context, restaurantID int, target time.Time) []Factor {
	cfg := e.config.Forecast
	factors := make([]Factor, 0, 3)

	if w, err := e.signals.Weather.CurrentWeather(ctx, restaurantID); err != nil {
		e.logger.Warn().Err(err).Int("restaurant_id", restaurantID).Msg("weather unavailable, skipping weather factor")
		metrics.RecordSignalFailure(engineName, "weather")
	} else {
		var impact float64
		switch w.Condition {
		case signals.ConditionRainy:
			impact = cfg.RainyImpact
		case signals.ConditionCold:
			impact = cfg.ColdImpact
		case signals.ConditionHot:
			impact = cfg.HotImpact
		}
		if impact != 0 {
			factors = append(factors, Factor{Name: "weather_" + w.Condition, Impact: impact})
		}
	}

	if impact, err := e.signals.Events.LocalEventImpact(ctx, restaurantID, target); err != nil {
		e.logger.Warn().Err(err).Int("restaurant_id", restaurantID).Msg("event data unavailable, skipping event factor")
		metrics.RecordSignalFailure(engineName, "events")
	} else if impact != 0 {
		factors = append(factors, Factor{Name: "local_events", Impact: impact})
	}

	if e.signals.Holidays.IsHoliday(target) {
		factors = append(factors, Factor{Name: "holiday", Impact: cfg.HolidayImpact})
	}
	return factors
}

func multiplier(factors []Factor) float64 {
	m := 1.0
	for _, f := range factors {
		m += f.Impact
	}
	return m
}
