// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/orchestrator"
)

// DashboardRefresher rebuilds one restaurant dashboard.
// Satisfied by *orchestrator.Service.
type DashboardRefresher interface {
	Refresh(ctx context.Context, restaurantID int) (*orchestrator.Dashboard, error)
}

// WarmerConfig holds configuration for the dashboard warmer.
type WarmerConfig struct {
	// RestaurantIDs are refreshed on every pass.
	RestaurantIDs []int

	// Interval between passes. Default: 4m, under the dashboard TTL.
	Interval time.Duration

	// RefreshesPerSecond caps the refresh rate within a pass. Default: 2.
	RefreshesPerSecond float64

	// RefreshTimeout bounds a single dashboard build. Default: 30s.
	RefreshTimeout time.Duration
}

// Metric result labels.
const (
	refreshOK      = "success"
	refreshPartial = "partial"
	refreshFailed  = "error"
)

// DashboardWarmerService keeps owner dashboards hot under supervision.
type DashboardWarmerService struct {
	refresher DashboardRefresher
	config    WarmerConfig
	limiter   *rate.Limiter
	logger    zerolog.Logger
	name      string
}

// NewDashboardWarmerService creates the warmer. Zero config fields take defaults.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewDashboardWarmerService(refresher DashboardRefresher, cfg WarmerConfig, logger zerolog.Logger) *DashboardWarmerService {
	if cfg.Interval <= 0 {
		cfg.Interval = 4 * time.Minute
	}
	if cfg.RefreshesPerSecond <= 0 {
		cfg.RefreshesPerSecond = 2
	}
	if cfg.RefreshTimeout <= 0 {
		cfg.RefreshTimeout = 30 * time.Second
	}
	return &DashboardWarmerService{
		refresher: refresher,
		config:    cfg,
		limiter:   rate.NewLimiter(rate.Limit(cfg.RefreshesPerSecond), 1),
		logger:    logger.With().Str("service", "dashboard-warmer").Logger(),
		name:      "dashboard-warmer",
	}
}

// Serve implements suture.Service. It warms once at start, then on every tick.
func (s *DashboardWarmerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Ints("restaurant_ids", s.config.RestaurantIDs).
		Dur("interval", s.config.Interval).
		Msg("dashboard warmer starting")

	if err := s.warm(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("dashboard warmer shutting down")
			return ctx.Err()
		case <-ticker.C:
			if err := s.warm(ctx); err != nil {
				return err
			}
		}
	}
}

// warm refreshes every configured restaurant. Refresh failures are logged
// and counted; only cancellation stops the pass.
func (s *DashboardWarmerService) warm(ctx context.Context) error {
	start := time.Now()
	refreshed := 0
	for _, id := range s.config.RestaurantIDs {
		if err := s.limiter.Wait(ctx); err != nil {
			return ctx.Err()
		}

		refreshCtx, cancel := context.WithTimeout(ctx, s.config.RefreshTimeout)
		d, err := s.refresher.Refresh(refreshCtx, id)
		cancel()

		switch {
		case err != nil:
			if ctx.Err() != nil {
				return ctx.Err()
			}
			metrics.DashboardRefreshes.WithLabelValues(refreshFailed).Inc()
			s.logger.Warn().Err(err).Int("restaurant_id", id).Msg("dashboard refresh failed")
		case !d.Complete():
			metrics.DashboardRefreshes.WithLabelValues(refreshPartial).Inc()
			s.logger.Warn().Int("restaurant_id", id).Interface("errors", d.Errors).Msg("dashboard refreshed with failed branches")
		default:
			metrics.DashboardRefreshes.WithLabelValues(refreshOK).Inc()
			refreshed++
		}
	}
	s.logger.Debug().
		Int("refreshed", refreshed).
		Int("configured", len(s.config.RestaurantIDs)).
		Dur("duration", time.Since(start)).
		Msg("dashboard warm pass complete")
	return nil
}

// String returns the service name for logging.
func (s *DashboardWarmerService) String() string {
	return s.name
}
