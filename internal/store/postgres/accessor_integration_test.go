// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

//go:build integration

package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/store"
	"github.com/tomtom215/tablesense/internal/testinfra"
)

func setupAccessor(t *testing.T) *Accessor {
	t.Helper()
	pg := testinfra.StartPostgres(t)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	a, err := Open(ctx, &Config{URL: pg.ConnStr})
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(a.Close)

	version, err := a.EnsureSchema(ctx)
	if err != nil {
		t.Fatalf("EnsureSchema: %v", err)
	}
	// Idempotent.
	again, err := a.EnsureSchema(ctx)
	if err != nil {
		t.Fatalf("EnsureSchema (second run): %v", err)
	}
	if version != 1 || again != version {
		t.Fatalf("schema versions = %d, %d, want 1", version, again)
	}

	_, err = a.pool.Exec(ctx, `
		INSERT INTO restaurants (id, name) VALUES (1, 'Harbor Table');
		INSERT INTO users (id, name, role, loyalty_points) VALUES (10, 'Ann', 'customer', 120);
		INSERT INTO user_preferences (user_id, dietary_preferences, favorite_categories, allergens)
			VALUES (10, '{vegetarian}', '{2}', '{nuts}');
		INSERT INTO menu_items (id, restaurant_id, category_id, name, price, is_vegetarian, allergens, nutrition_info)
			VALUES (100, 1, 2, 'Soup', 7.50, TRUE, '{dairy}', '{"kcal": 320}'),
			       (101, 1, 3, 'Steak', 24.00, FALSE, '{}', '{}');
		INSERT INTO orders (id, user_id, restaurant_id, total_price, status, loyalty_points_used, created_at)
			VALUES (1, 10, 1, 31.50, 'completed', 0, now() - interval '2 days');
		INSERT INTO order_items (order_id, menu_item_id, quantity, unit_price)
			VALUES (1, 100, 1, 7.50), (1, 101, 1, 24.00);
	`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return a
}

func TestAccessor_Integration(t *testing.T) {
	a := setupAccessor(t)
	ctx := context.Background()

	if _, err := a.GetRestaurant(ctx, 999); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetRestaurant(999) = %v, want ErrNotFound", err)
	}

	u, err := a.GetUser(ctx, 10)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if u.Role != models.RoleCustomer || u.LoyaltyPoints != 120 {
		t.Errorf("unexpected user %+v", u)
	}

	p, err := a.GetUserPreferences(ctx, 10)
	if err != nil || p == nil {
		t.Fatalf("GetUserPreferences = %v, %v", p, err)
	}
	if len(p.FavoriteCategories) != 1 || p.FavoriteCategories[0] != 2 {
		t.Errorf("favorite categories = %v", p.FavoriteCategories)
	}
	if none, err := a.GetUserPreferences(ctx, 11); err != nil || none != nil {
		t.Errorf("missing preferences = %v, %v; want nil, nil", none, err)
	}

	items, err := a.GetMenuItems(ctx, 1)
	if err != nil {
		t.Fatalf("GetMenuItems: %v", err)
	}
	if len(items) != 2 || items[0].Price != 7.5 || items[0].NutritionInfo["kcal"] != 320 {
		t.Errorf("unexpected items %+v", items)
	}

	orders, err := a.GetRestaurantOrders(ctx, 1, time.Now().AddDate(0, 0, -7))
	if err != nil {
		t.Fatalf("GetRestaurantOrders: %v", err)
	}
	if len(orders) != 1 || len(orders[0].Items) != 2 {
		t.Fatalf("unexpected orders %+v", orders)
	}

	customers, err := a.GetRestaurantCustomers(ctx, 1)
	if err != nil || len(customers) != 1 || customers[0].ID != 10 {
		t.Errorf("GetRestaurantCustomers = %+v, %v", customers, err)
	}

	in := &models.UserItemInteraction{UserID: 10, MenuItemID: 100, Kind: models.InteractionLiked}
	if err := a.RecordInteraction(ctx, in); err != nil {
		t.Fatalf("RecordInteraction: %v", err)
	}
	if in.ID == 0 {
		t.Error("expected interaction id")
	}
	if err := a.RecordInteraction(ctx, &models.UserItemInteraction{UserID: 10, MenuItemID: 555, Kind: models.InteractionViewed}); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("RecordInteraction unknown item = %v, want ErrNotFound", err)
	}

	log, err := a.GetRestaurantInteractions(ctx, 1)
	if err != nil || len(log) != 1 || log[0].Kind != models.InteractionLiked {
		t.Errorf("GetRestaurantInteractions = %+v, %v", log, err)
	}
}
