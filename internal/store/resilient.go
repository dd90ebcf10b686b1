// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
)

// ResilientConfig tunes the circuit breaker and retry around an Accessor.
type ResilientConfig struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// RetryDelay is the pause before the single retry.
	// Default: 50ms
	RetryDelay time.Duration

	// MinRequests before the failure ratio is evaluated.
	// Default: 10
	MinRequests uint32

	// FailureRatio that opens the circuit.
	// Default: 0.6
	FailureRatio float64

	// OpenTimeout is how long the circuit stays open before probing.
	// Default: 30s
	OpenTimeout time.Duration
}

// DefaultResilientConfig returns the production defaults.
func DefaultResilientConfig() ResilientConfig {
	return ResilientConfig{
		Name:         "data-accessor",
		RetryDelay:   50 * time.Millisecond,
		MinRequests:  10,
		FailureRatio: 0.6,
		OpenTimeout:  30 * time.Second,
	}
}

// Resilient wraps an Accessor with a circuit breaker and one retry.
//
// ErrNotFound and context cancellation pass through untouched and do not
// count against the breaker. Every other failure is retried once and then
// reported as ErrUpstreamUnavailable, so engines never see a half-read
// record set.
type Resilient struct {
	next   Accessor
	cb     *gobreaker.CircuitBreaker[interface{}]
	cfg    ResilientConfig
	logger zerolog.Logger
}

// NewResilient wraps next.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewResilient(next Accessor, cfg ResilientConfig, logger zerolog.Logger) *Resilient {
	def := DefaultResilientConfig()
	if cfg.Name == "" {
		cfg.Name = def.Name
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = def.RetryDelay
	}
	if cfg.MinRequests == 0 {
		cfg.MinRequests = def.MinRequests
	}
	if cfg.FailureRatio <= 0 {
		cfg.FailureRatio = def.FailureRatio
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = def.OpenTimeout
	}

	r := &Resilient{
		next:   next,
		cfg:    cfg,
		logger: logger.With().Str("component", "store").Str("breaker", cfg.Name).Logger(),
	}

	metrics.CircuitBreakerState.WithLabelValues(cfg.Name).Set(0)

	r.cb = gobreaker.NewCircuitBreaker[interface{}](gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			return ratio >= cfg.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) ||
				errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			r.logger.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return r
}

// State returns the breaker state name (closed, half-open, open).
func (r *Resilient) State() string {
	return r.cb.State().String()
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

// do executes fn through the breaker, retrying once on infrastructure failure.
func do[T any](ctx context.Context, r *Resilient, op string, fn func() (T, error)) (T, error) {
	var zero T

	run := func() (T, error) {
		res, err := r.cb.Execute(func() (interface{}, error) {
			return fn()
		})
		if err != nil {
			return zero, err
		}
		if res == nil {
			return zero, nil
		}
		return res.(T), nil
	}

	res, err := run()
	if err == nil || passThrough(err) {
		return res, err
	}

	if !errors.Is(err, gobreaker.ErrOpenState) && !errors.Is(err, gobreaker.ErrTooManyRequests) {
		metrics.DataStoreRetries.WithLabelValues(op).Inc()
		r.logger.Debug().Err(err).Str("operation", op).Msg("retrying data store call")

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(r.cfg.RetryDelay):
		}

		res, err = run()
		if err == nil || passThrough(err) {
			return res, err
		}
	}

	metrics.DataStoreErrors.WithLabelValues(op).Inc()
	r.logger.Warn().Err(err).Str("operation", op).Msg("data store call failed")
	return zero, fmt.Errorf("%s: %w: %w", op, ErrUpstreamUnavailable, err)
}

func passThrough(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

func (r *Resilient) GetRestaurant(ctx context.Context, restaurantID int) (*models.Restaurant, error) {
	return do(ctx, r, "get_restaurant", func() (*models.Restaurant, error) {
		return r.next.GetRestaurant(ctx, restaurantID)
	})
}

func (r *Resilient) GetUser(ctx context.Context, userID int) (*models.User, error) {
	return do(ctx, r, "get_user", func() (*models.User, error) {
		return r.next.GetUser(ctx, userID)
	})
}

func (r *Resilient) GetUserPreferences(ctx context.Context, userID int) (*models.UserPreference, error) {
	return do(ctx, r, "get_user_preferences", func() (*models.UserPreference, error) {
		return r.next.GetUserPreferences(ctx, userID)
	})
}

func (r *Resilient) GetUserInteractions(ctx context.Context, userID int) ([]models.UserItemInteraction, error) {
	return do(ctx, r, "get_user_interactions", func() ([]models.UserItemInteraction, error) {
		return r.next.GetUserInteractions(ctx, userID)
	})
}

func (r *Resilient) GetRestaurantInteractions(ctx context.Context, restaurantID int) ([]models.UserItemInteraction, error) {
	return do(ctx, r, "get_restaurant_interactions", func() ([]models.UserItemInteraction, error) {
		return r.next.GetRestaurantInteractions(ctx, restaurantID)
	})
}

func (r *Resilient) GetUserOrders(ctx context.Context, userID int) ([]models.Order, error) {
	return do(ctx, r, "get_user_orders", func() ([]models.Order, error) {
		return r.next.GetUserOrders(ctx, userID)
	})
}

func (r *Resilient) GetMenuItem(ctx context.Context, itemID int) (*models.MenuItem, error) {
	return do(ctx, r, "get_menu_item", func() (*models.MenuItem, error) {
		return r.next.GetMenuItem(ctx, itemID)
	})
}

func (r *Resilient) GetMenuItems(ctx context.Context, restaurantID int) ([]models.MenuItem, error) {
	return do(ctx, r, "get_menu_items", func() ([]models.MenuItem, error) {
		return r.next.GetMenuItems(ctx, restaurantID)
	})
}

func (r *Resilient) GetRestaurantOrders(ctx context.Context, restaurantID int, since time.Time) ([]models.Order, error) {
	return do(ctx, r, "get_restaurant_orders", func() ([]models.Order, error) {
		return r.next.GetRestaurantOrders(ctx, restaurantID, since)
	})
}

func (r *Resilient) GetRestaurantCustomers(ctx context.Context, restaurantID int) ([]models.User, error) {
	return do(ctx, r, "get_restaurant_customers", func() ([]models.User, error) {
		return r.next.GetRestaurantCustomers(ctx, restaurantID)
	})
}

// RecordInteraction is not retried: the log is append-only and a retry
// after an ambiguous failure could write the entry twice.
func (r *Resilient) RecordInteraction(ctx context.Context, in *models.UserItemInteraction) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		return nil, r.next.RecordInteraction(ctx, in)
	})
	if err == nil || passThrough(err) {
		return err
	}
	metrics.DataStoreErrors.WithLabelValues("record_interaction").Inc()
	return fmt.Errorf("record_interaction: %w: %w", ErrUpstreamUnavailable, err)
}

func (r *Resilient) Ping(ctx context.Context) error {
	return r.next.Ping(ctx)
}
