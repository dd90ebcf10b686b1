// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package store defines the data accessor the decision engines read from.
//
// The accessor is a pure read/write interface over restaurants, menu items,
// users, preferences, the interaction log and orders. No scoring logic
// lives here. Two implementations exist:
//
//   - Memory: in-process maps, used for tests and the demo deployment
//   - postgres.Accessor: pgx/v5 connection pool over the platform database
//
// Either can be wrapped in Resilient, which adds a circuit breaker and a
// single retry and converts infrastructure failures into ErrUpstreamUnavailable.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
)

var (
	// ErrNotFound is returned when a referenced restaurant, menu item or
	// user does not exist. Engines propagate it to the caller.
	ErrNotFound = errors.New("not found")

	// ErrUpstreamUnavailable is returned when the backing data store failed
	// and the single retry did not help.
	ErrUpstreamUnavailable = errors.New("data store unavailable")

	// ErrItemUnavailable is returned when a price is requested for a menu
	// item that is currently switched off.
	ErrItemUnavailable = errors.New("menu item unavailable")
)

// Accessor supplies engine input records by id or foreign key.
type Accessor interface {
	GetRestaurant(ctx context.Context, restaurantID int) (*models.Restaurant, error)
	GetUser(ctx context.Context, userID int) (*models.User, error)

	// GetUserPreferences returns (nil, nil) when the user never stored preferences.
	GetUserPreferences(ctx context.Context, userID int) (*models.UserPreference, error)

	GetUserInteractions(ctx context.Context, userID int) ([]models.UserItemInteraction, error)

	// GetRestaurantInteractions returns the interaction log of every user
	// for the menu items of a restaurant.
	GetRestaurantInteractions(ctx context.Context, restaurantID int) ([]models.UserItemInteraction, error)

	GetUserOrders(ctx context.Context, userID int) ([]models.Order, error)
	GetMenuItem(ctx context.Context, itemID int) (*models.MenuItem, error)
	GetMenuItems(ctx context.Context, restaurantID int) ([]models.MenuItem, error)

	// GetRestaurantOrders returns orders created at or after since, with items.
	GetRestaurantOrders(ctx context.Context, restaurantID int, since time.Time) ([]models.Order, error)

	// GetRestaurantCustomers returns every user with at least one order at the restaurant.
	GetRestaurantCustomers(ctx context.Context, restaurantID int) ([]models.User, error)

	// RecordInteraction appends to the interaction log.
	RecordInteraction(ctx context.Context, interaction *models.UserItemInteraction) error

	Ping(ctx context.Context) error
}

// Outcome classifies err for engine metrics.
func Outcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
