// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package store

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/tablesense/internal/models"
)

// flakyAccessor fails GetUser the first `failures` times.
type flakyAccessor struct {
	*Memory
	failures int32
	calls    atomic.Int32
}

func (f *flakyAccessor) GetUser(ctx context.Context, userID int) (*models.User, error) {
	n := f.calls.Add(1)
	if n <= f.failures {
		return nil, errors.New("connection reset by peer")
	}
	return f.Memory.GetUser(ctx, userID)
}

func testResilientConfig() ResilientConfig {
	return ResilientConfig{
		Name:         "test",
		RetryDelay:   time.Millisecond,
		MinRequests:  3,
		FailureRatio: 0.5,
		OpenTimeout:  time.Minute,
	}
}

func TestResilient_RetriesOnce(t *testing.T) {
	mem := newTestMemory()
	flaky := &flakyAccessor{Memory: mem, failures: 1}
	r := NewResilient(flaky, testResilientConfig(), zerolog.Nop())

	u, err := r.GetUser(context.Background(), 7)
	if err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if u.ID != 7 {
		t.Errorf("got user %d, want 7", u.ID)
	}
	if got := flaky.calls.Load(); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestResilient_SurfacesUpstreamUnavailable(t *testing.T) {
	flaky := &flakyAccessor{Memory: newTestMemory(), failures: 100}
	r := NewResilient(flaky, testResilientConfig(), zerolog.Nop())

	_, err := r.GetUser(context.Background(), 7)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
	if got := flaky.calls.Load(); got != 2 {
		t.Errorf("expected exactly 2 attempts, got %d", got)
	}
}

func TestResilient_NotFoundPassesThrough(t *testing.T) {
	flaky := &flakyAccessor{Memory: newTestMemory()}
	r := NewResilient(flaky, testResilientConfig(), zerolog.Nop())

	for i := 0; i < 10; i++ {
		_, err := r.GetUser(context.Background(), 404)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if errors.Is(err, ErrUpstreamUnavailable) {
			t.Fatal("not found must not be reported as upstream failure")
		}
	}
	if r.State() != "closed" {
		t.Errorf("breaker state = %s, want closed", r.State())
	}
	if got := flaky.calls.Load(); got != 10 {
		t.Errorf("not found must not be retried: %d calls", got)
	}
}

func TestResilient_OpensAfterFailures(t *testing.T) {
	flaky := &flakyAccessor{Memory: newTestMemory(), failures: 1000}
	r := NewResilient(flaky, testResilientConfig(), zerolog.Nop())

	for i := 0; i < 5; i++ {
		_, _ = r.GetUser(context.Background(), 7)
	}
	if r.State() != "open" {
		t.Fatalf("breaker state = %s, want open", r.State())
	}

	before := flaky.calls.Load()
	_, err := r.GetUser(context.Background(), 7)
	if !errors.Is(err, ErrUpstreamUnavailable) {
		t.Errorf("expected ErrUpstreamUnavailable while open, got %v", err)
	}
	if flaky.calls.Load() != before {
		t.Error("open breaker must not reach the accessor")
	}
}

func TestResilient_ReadsPassThrough(t *testing.T) {
	mem := newTestMemory()
	r := NewResilient(mem, testResilientConfig(), zerolog.Nop())
	ctx := context.Background()

	items, err := r.GetMenuItems(ctx, 1)
	if err != nil || len(items) != 2 {
		t.Fatalf("GetMenuItems = %v, %v", items, err)
	}
	prefs, err := r.GetUserPreferences(ctx, 7)
	if err != nil || prefs != nil {
		t.Fatalf("expected nil preferences, got %v, %v", prefs, err)
	}
	if err := r.RecordInteraction(ctx, &models.UserItemInteraction{UserID: 7, MenuItemID: 11, Kind: models.InteractionViewed}); err != nil {
		t.Fatal(err)
	}
	if err := r.Ping(ctx); err != nil {
		t.Fatal(err)
	}
}
