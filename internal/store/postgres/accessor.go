// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package postgres implements store.Accessor over a pgx/v5 connection pool.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/store"
)

// Config holds database connection configuration.
type Config struct {
	URL             string
	MaxConnections  int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// Accessor reads engine inputs from Postgres.
type Accessor struct {
	pool *pgxpool.Pool
	url  string
}

var _ store.Accessor = (*Accessor)(nil)

// Open creates a connection pool and verifies it with a ping.
func Open(ctx context.Context, cfg *Config) (*Accessor, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConnections
	if poolConfig.MaxConns == 0 {
		poolConfig.MaxConns = 10
	}
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	if poolConfig.MaxConnLifetime == 0 {
		poolConfig.MaxConnLifetime = time.Hour
	}
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime
	if poolConfig.MaxConnIdleTime == 0 {
		poolConfig.MaxConnIdleTime = 30 * time.Minute
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Accessor{pool: pool, url: cfg.URL}, nil
}

// New wraps an existing pool. EnsureSchema is unavailable on the result.
func New(pool *pgxpool.Pool) *Accessor {
	return &Accessor{pool: pool}
}

// Close closes the connection pool.
func (a *Accessor) Close() {
	a.pool.Close()
}

func (a *Accessor) Ping(ctx context.Context) error {
	return a.pool.Ping(ctx)
}

func observe(op string, start time.Time) {
	metrics.RecordDBQuery(op, time.Since(start))
}

func notFound(err error, what string, id int) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%s %d: %w", what, id, store.ErrNotFound)
	}
	return fmt.Errorf("query %s %d: %w", what, id, err)
}

func (a *Accessor) GetRestaurant(ctx context.Context, restaurantID int) (*models.Restaurant, error) {
	defer observe("get_restaurant", time.Now())

	var r models.Restaurant
	err := a.pool.QueryRow(ctx, `
		SELECT id, name, description, cuisine, address, phone, open_hour, close_hour, owner_id, created_at
		FROM restaurants WHERE id = $1`, restaurantID,
	).Scan(&r.ID, &r.Name, &r.Description, &r.Cuisine, &r.Address, &r.Phone,
		&r.OpenHour, &r.CloseHour, &r.OwnerID, &r.CreatedAt)
	if err != nil {
		return nil, notFound(err, "restaurant", restaurantID)
	}
	return &r, nil
}

const userColumns = `id, name, email, role, loyalty_points, restaurant_id, created_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	var role string
	err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.LoyaltyPoints, &u.RestaurantID, &u.CreatedAt)
	u.Role = models.Role(role)
	return u, err
}

func (a *Accessor) GetUser(ctx context.Context, userID int) (*models.User, error) {
	defer observe("get_user", time.Now())

	u, err := scanUser(a.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, userID))
	if err != nil {
		return nil, notFound(err, "user", userID)
	}
	return &u, nil
}

func (a *Accessor) GetUserPreferences(ctx context.Context, userID int) (*models.UserPreference, error) {
	defer observe("get_user_preferences", time.Now())

	var p models.UserPreference
	err := a.pool.QueryRow(ctx, `
		SELECT user_id, dietary_preferences, favorite_categories, disliked_items, allergens,
		       taste_tags, seating_preference, occasion_preferences, last_updated
		FROM user_preferences WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.DietaryPreferences, &p.FavoriteCategories, &p.DislikedItems, &p.Allergens,
		&p.TasteTags, &p.SeatingPreference, &p.OccasionPreferences, &p.LastUpdated)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query preferences %d: %w", userID, err)
	}
	return &p, nil
}

func (a *Accessor) queryInteractions(ctx context.Context, sql string, arg int) ([]models.UserItemInteraction, error) {
	rows, err := a.pool.Query(ctx, sql, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]models.UserItemInteraction, 0)
	for rows.Next() {
		var in models.UserItemInteraction
		var kind string
		if err := rows.Scan(&in.ID, &in.UserID, &in.MenuItemID, &kind, &in.Rating, &in.Timestamp); err != nil {
			return nil, err
		}
		in.Kind = models.InteractionKind(kind)
		out = append(out, in)
	}
	return out, rows.Err()
}

func (a *Accessor) GetUserInteractions(ctx context.Context, userID int) ([]models.UserItemInteraction, error) {
	defer observe("get_user_interactions", time.Now())

	out, err := a.queryInteractions(ctx, `
		SELECT id, user_id, menu_item_id, kind, rating, created_at
		FROM user_item_interactions WHERE user_id = $1 ORDER BY id`, userID)
	if err != nil {
		return nil, fmt.Errorf("query interactions for user %d: %w", userID, err)
	}
	return out, nil
}

func (a *Accessor) GetRestaurantInteractions(ctx context.Context, restaurantID int) ([]models.UserItemInteraction, error) {
	defer observe("get_restaurant_interactions", time.Now())

	out, err := a.queryInteractions(ctx, `
		SELECT i.id, i.user_id, i.menu_item_id, i.kind, i.rating, i.created_at
		FROM user_item_interactions i
		JOIN menu_items m ON m.id = i.menu_item_id
		WHERE m.restaurant_id = $1 ORDER BY i.id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query interactions for restaurant %d: %w", restaurantID, err)
	}
	return out, nil
}

// queryOrders loads orders and attaches their items with a second query.
func (a *Accessor) queryOrders(ctx context.Context, sql string, args ...any) ([]models.Order, error) {
	rows, err := a.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}

	orders := make([]models.Order, 0)
	index := make(map[int]int)
	ids := make([]int, 0)
	for rows.Next() {
		var o models.Order
		if err := rows.Scan(&o.ID, &o.UserID, &o.RestaurantID, &o.TotalPrice, &o.Status,
			&o.LoyaltyPointsUsed, &o.CreatedAt); err != nil {
			rows.Close()
			return nil, err
		}
		index[o.ID] = len(orders)
		ids = append(ids, o.ID)
		orders = append(orders, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return orders, nil
	}

	itemRows, err := a.pool.Query(ctx, `
		SELECT order_id, menu_item_id, quantity, unit_price
		FROM order_items WHERE order_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it models.OrderItem
		if err := itemRows.Scan(&it.OrderID, &it.MenuItemID, &it.Quantity, &it.UnitPrice); err != nil {
			return nil, err
		}
		if i, ok := index[it.OrderID]; ok {
			orders[i].Items = append(orders[i].Items, it)
		}
	}
	return orders, itemRows.Err()
}

const orderColumns = `id, user_id, restaurant_id, total_price, status, loyalty_points_used, created_at`

func (a *Accessor) GetUserOrders(ctx context.Context, userID int) ([]models.Order, error) {
	defer observe("get_user_orders", time.Now())

	out, err := a.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE user_id = $1 ORDER BY created_at`, userID)
	if err != nil {
		return nil, fmt.Errorf("query orders for user %d: %w", userID, err)
	}
	return out, nil
}

func (a *Accessor) GetRestaurantOrders(ctx context.Context, restaurantID int, since time.Time) ([]models.Order, error) {
	defer observe("get_restaurant_orders", time.Now())

	out, err := a.queryOrders(ctx, `SELECT `+orderColumns+`
		FROM orders WHERE restaurant_id = $1 AND created_at >= $2 ORDER BY created_at`, restaurantID, since)
	if err != nil {
		return nil, fmt.Errorf("query orders for restaurant %d: %w", restaurantID, err)
	}
	return out, nil
}

const menuItemColumns = `id, restaurant_id, category_id, name, description, price, is_available,
	is_vegetarian, is_gluten_free, is_seafood, is_popular, is_featured, allergens, nutrition_info`

func scanMenuItem(row pgx.Row) (models.MenuItem, error) {
	var m models.MenuItem
	err := row.Scan(&m.ID, &m.RestaurantID, &m.CategoryID, &m.Name, &m.Description, &m.Price, &m.IsAvailable,
		&m.IsVegetarian, &m.IsGlutenFree, &m.IsSeafood, &m.IsPopular, &m.IsFeatured, &m.Allergens, &m.NutritionInfo)
	return m, err
}

func (a *Accessor) GetMenuItem(ctx context.Context, itemID int) (*models.MenuItem, error) {
	defer observe("get_menu_item", time.Now())

	m, err := scanMenuItem(a.pool.QueryRow(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE id = $1`, itemID))
	if err != nil {
		return nil, notFound(err, "menu item", itemID)
	}
	return &m, nil
}

func (a *Accessor) GetMenuItems(ctx context.Context, restaurantID int) ([]models.MenuItem, error) {
	defer observe("get_menu_items", time.Now())

	rows, err := a.pool.Query(ctx, `SELECT `+menuItemColumns+` FROM menu_items WHERE restaurant_id = $1 ORDER BY id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query menu items for restaurant %d: %w", restaurantID, err)
	}
	defer rows.Close()

	out := make([]models.MenuItem, 0)
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan menu item: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (a *Accessor) GetRestaurantCustomers(ctx context.Context, restaurantID int) ([]models.User, error) {
	defer observe("get_restaurant_customers", time.Now())

	rows, err := a.pool.Query(ctx, `
		SELECT `+userColumns+` FROM users
		WHERE id IN (SELECT DISTINCT user_id FROM orders WHERE restaurant_id = $1)
		ORDER BY id`, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("query customers for restaurant %d: %w", restaurantID, err)
	}
	defer rows.Close()

	out := make([]models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (a *Accessor) RecordInteraction(ctx context.Context, in *models.UserItemInteraction) error {
	defer observe("record_interaction", time.Now())

	if in.Timestamp.IsZero() {
		in.Timestamp = time.Now()
	}
	err := a.pool.QueryRow(ctx, `
		INSERT INTO user_item_interactions (user_id, menu_item_id, kind, rating, created_at)
		SELECT $1, id, $3, $4, $5 FROM menu_items WHERE id = $2
		RETURNING id`, in.UserID, in.MenuItemID, string(in.Kind), in.Rating, in.Timestamp,
	).Scan(&in.ID)
	if err != nil {
		return notFound(err, "menu item", in.MenuItemID)
	}
	return nil
}
