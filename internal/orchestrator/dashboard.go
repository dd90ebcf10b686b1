// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/tablesense/internal/analytics"
)

// Dashboard branch names, used as keys of Dashboard.Errors.
const (
	BranchDemand   = "demand"
	BranchRevenue  = "revenue"
	BranchStaffing = "staffing"
	BranchSegments = "segments"
	BranchChurn    = "churn"
	BranchPricing  = "price_optimization"
)

// Dashboard aggregates the analytics of one restaurant. A nil section
// means its branch failed, with the reason in Errors, or that price
// optimization is switched off.
type Dashboard struct {
	RestaurantID     int                          `json:"restaurant_id"`
	GeneratedAt      time.Time                    `json:"generated_at"`
	Demand           *analytics.DemandPrediction  `json:"demand,omitempty"`
	Revenue          *analytics.RevenuePrediction `json:"revenue,omitempty"`
	Staffing         *analytics.StaffingPlan      `json:"staffing,omitempty"`
	Segments         []analytics.Segment          `json:"segments,omitempty"`
	Churn            []analytics.ChurnRisk        `json:"churn,omitempty"`
	PriceSuggestions []analytics.PriceSuggestion  `json:"price_suggestions,omitempty"`
	Errors           map[string]string            `json:"errors,omitempty"`
	Cached           bool                         `json:"cached"`
}

// Complete reports whether every branch succeeded.
func (d *Dashboard) Complete() bool {
	return len(d.Errors) == 0
}

// HighRiskCustomers counts churn entries at the High level.
func (d *Dashboard) HighRiskCustomers() int {
	n := 0
	for i := range d.Churn {
		if d.Churn[i].RiskLevel == analytics.RiskHigh {
			n++
		}
	}
	return n
}

// GetDashboard returns the cached dashboard of a restaurant or builds it.
// Only complete dashboards are cached.
func (s *Service) GetDashboard(ctx context.Context, restaurantID int) (*Dashboard, error) {
	if err := s.Require(FeatureAnalytics); err != nil {
		return nil, err
	}
	if d, ok := s.dashboards.Get(restaurantID); ok {
		out := *d
		out.Cached = true
		return &out, nil
	}
	return s.Refresh(ctx, restaurantID)
}

// Refresh rebuilds the dashboard of a restaurant and replaces the cached
// copy when every branch succeeded and the config did not change meanwhile.
func (s *Service) Refresh(ctx context.Context, restaurantID int) (*Dashboard, error) {
	if _, err := s.deps.Accessor.GetRestaurant(ctx, restaurantID); err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	cfg, generation := s.snapshot()
	start := s.now()
	d := s.build(ctx, restaurantID, cfg)

	cached := false
	if d.Complete() {
		cached = s.storeDashboard(restaurantID, d, cfg.CacheTTL, generation)
	}
	s.logger.Debug().
		Int("restaurant_id", restaurantID).
		Int("failed_branches", len(d.Errors)).
		Bool("cached", cached).
		Dur("duration", s.now().Sub(start)).
		Msg("dashboard built")

	out := *d
	return &out, nil
}

func (s *Service) build(ctx context.Context, restaurantID int, cfg *Config) *Dashboard {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	tomorrow := today.AddDate(0, 0, 1)

	d := &Dashboard{RestaurantID: restaurantID, GeneratedAt: now}
	var mu sync.Mutex
	fail := func(branch string, err error) {
		s.logger.Warn().Err(err).Str("branch", branch).Int("restaurant_id", restaurantID).Msg("dashboard branch failed")
		mu.Lock()
		if d.Errors == nil {
			d.Errors = make(map[string]string)
		}
		d.Errors[branch] = err.Error()
		mu.Unlock()
	}

	// Branches never return errors so one failure does not cancel the rest.
	g, gctx := errgroup.WithContext(ctx)
	an := s.deps.Analytics

	g.Go(func() error {
		p, err := an.PredictDemand(gctx, restaurantID, analytics.TimeframeDay, tomorrow)
		if err != nil {
			fail(BranchDemand, err)
			return nil
		}
		d.Demand = p
		return nil
	})
	g.Go(func() error {
		p, err := an.PredictRevenue(gctx, restaurantID, analytics.Timeframe(cfg.RevenueHorizon), tomorrow)
		if err != nil {
			fail(BranchRevenue, err)
			return nil
		}
		d.Revenue = p
		return nil
	})
	g.Go(func() error {
		p, err := an.PredictStaffingNeeds(gctx, restaurantID, tomorrow, nil)
		if err != nil {
			fail(BranchStaffing, err)
			return nil
		}
		d.Staffing = p
		return nil
	})
	g.Go(func() error {
		segs, err := an.AnalyzeCustomerSegments(gctx, restaurantID)
		if err != nil {
			fail(BranchSegments, err)
			return nil
		}
		d.Segments = segs
		return nil
	})
	g.Go(func() error {
		risks, err := an.PredictCustomerChurn(gctx, restaurantID)
		if err != nil {
			fail(BranchChurn, err)
			return nil
		}
		d.Churn = risks
		return nil
	})
	g.Go(func() error {
		if !cfg.Features.DynamicPricing {
			return nil
		}
		sugg, err := an.OptimizeMenuPricing(gctx, restaurantID)
		if err != nil {
			fail(BranchPricing, err)
			return nil
		}
		d.PriceSuggestions = sugg
		return nil
	})

	_ = g.Wait()
	return d
}
