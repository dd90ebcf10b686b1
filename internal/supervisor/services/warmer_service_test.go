// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"

	"github.com/tomtom215/tablesense/internal/orchestrator"
)

type fakeRefresher struct {
	mu      sync.Mutex
	calls   map[int]int
	failing map[int]error
	partial map[int]bool
}

func newFakeRefresher() *fakeRefresher {
	return &fakeRefresher{calls: make(map[int]int), failing: make(map[int]error), partial: make(map[int]bool)}
}

func (f *fakeRefresher) Refresh(_ context.Context, id int) (*orchestrator.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[id]++
	if err := f.failing[id]; err != nil {
		return nil, err
	}
	d := &orchestrator.Dashboard{RestaurantID: id}
	if f.partial[id] {
		d.Errors = map[string]string{orchestrator.BranchChurn: "boom"}
	}
	return d, nil
}

func (f *fakeRefresher) count(id int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[id]
}

var _ suture.Service = (*DashboardWarmerService)(nil)

func TestNewDashboardWarmerService_Defaults(t *testing.T) {
	svc := NewDashboardWarmerService(newFakeRefresher(), WarmerConfig{}, zerolog.Nop())
	if svc.config.Interval != 4*time.Minute || svc.config.RefreshesPerSecond != 2 || svc.config.RefreshTimeout != 30*time.Second {
		t.Errorf("config = %+v", svc.config)
	}
	if svc.String() != "dashboard-warmer" {
		t.Errorf("String() = %q", svc.String())
	}
}

func TestDashboardWarmer_WarmsEveryRestaurant(t *testing.T) {
	ref := newFakeRefresher()
	ref.failing[2] = errors.New("restaurant 2: not found")
	ref.partial[3] = true
	svc := NewDashboardWarmerService(ref, WarmerConfig{
		RestaurantIDs:      []int{1, 2, 3},
		RefreshesPerSecond: 1000,
	}, zerolog.Nop())

	if err := svc.warm(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}
	for _, id := range []int{1, 2, 3} {
		if ref.count(id) != 1 {
			t.Errorf("restaurant %d refreshed %d times, want 1", id, ref.count(id))
		}
	}
}

func TestDashboardWarmer_ServeRefreshesOnTicks(t *testing.T) {
	ref := newFakeRefresher()
	svc := NewDashboardWarmerService(ref, WarmerConfig{
		RestaurantIDs:      []int{1},
		Interval:           20 * time.Millisecond,
		RefreshesPerSecond: 1000,
	}, zerolog.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	err := svc.Serve(ctx)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	if ref.count(1) < 3 {
		t.Errorf("refreshes = %d, want at least 3", ref.count(1))
	}
}

func TestDashboardWarmer_StopsOnCancel(t *testing.T) {
	ref := newFakeRefresher()
	svc := NewDashboardWarmerService(ref, WarmerConfig{
		RestaurantIDs:      []int{1, 2, 3},
		RefreshesPerSecond: 1000,
	}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := svc.warm(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if ref.count(1) != 0 {
		t.Error("refreshed after cancellation")
	}
}
