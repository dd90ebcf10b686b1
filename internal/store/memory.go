// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

// Memory is an in-process Accessor. It is safe for concurrent use and
// returns copies so callers cannot mutate stored records.
type Memory struct {
	mu           sync.RWMutex
	restaurants  map[int]models.Restaurant
	users        map[int]models.User
	preferences  map[int]models.UserPreference
	menuItems    map[int]models.MenuItem
	interactions []models.UserItemInteraction
	orders       []models.Order
	nextID       int
}

// NewMemory creates an empty in-memory accessor.
func NewMemory() *Memory {
	return &Memory{
		restaurants: make(map[int]models.Restaurant),
		users:       make(map[int]models.User),
		preferences: make(map[int]models.UserPreference),
		menuItems:   make(map[int]models.MenuItem),
		nextID:      1,
	}
}

// AddRestaurant stores or replaces a restaurant.
func (m *Memory) AddRestaurant(r models.Restaurant) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.restaurants[r.ID] = r
}

// AddUser stores or replaces a user.
func (m *Memory) AddUser(u models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[u.ID] = u
}

// UpsertPreferences stores a preference profile and bumps LastUpdated.
func (m *Memory) UpsertPreferences(p models.UserPreference, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p.LastUpdated = now
	m.preferences[p.UserID] = p
}

// AddMenuItem stores or replaces a menu item.
func (m *Memory) AddMenuItem(item models.MenuItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.menuItems[item.ID] = item
}

// AddOrder appends an order. The order id is assigned when zero.
func (m *Memory) AddOrder(o models.Order) models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o.ID == 0 {
		o.ID = m.nextID
		m.nextID++
	}
	for i := range o.Items {
		o.Items[i].OrderID = o.ID
	}
	m.orders = append(m.orders, o)
	return o
}

// AddInteraction appends an interaction without validation.
func (m *Memory) AddInteraction(in models.UserItemInteraction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if in.ID == 0 {
		in.ID = m.nextID
		m.nextID++
	}
	m.interactions = append(m.interactions, in)
}

func (m *Memory) GetRestaurant(_ context.Context, restaurantID int) (*models.Restaurant, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.restaurants[restaurantID]
	if !ok {
		return nil, fmt.Errorf("restaurant %d: %w", restaurantID, ErrNotFound)
	}
	return &r, nil
}

func (m *Memory) GetUser(_ context.Context, userID int) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[userID]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	return &u, nil
}

func (m *Memory) GetUserPreferences(_ context.Context, userID int) (*models.UserPreference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.preferences[userID]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *Memory) GetUserInteractions(_ context.Context, userID int) ([]models.UserItemInteraction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.UserItemInteraction, 0)
	for _, in := range m.interactions {
		if in.UserID == userID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *Memory) GetRestaurantInteractions(_ context.Context, restaurantID int) ([]models.UserItemInteraction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.UserItemInteraction, 0)
	for _, in := range m.interactions {
		if item, ok := m.menuItems[in.MenuItemID]; ok && item.RestaurantID == restaurantID {
			out = append(out, in)
		}
	}
	return out, nil
}

func (m *Memory) GetUserOrders(_ context.Context, userID int) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

func (m *Memory) GetMenuItem(_ context.Context, itemID int) (*models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	item, ok := m.menuItems[itemID]
	if !ok {
		return nil, fmt.Errorf("menu item %d: %w", itemID, ErrNotFound)
	}
	return &item, nil
}

// GetMenuItems returns the restaurant's items ordered by id.
func (m *Memory) GetMenuItems(_ context.Context, restaurantID int) ([]models.MenuItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.MenuItem, 0)
	for _, item := range m.menuItems {
		if item.RestaurantID == restaurantID {
			out = append(out, item)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) GetRestaurantOrders(_ context.Context, restaurantID int, since time.Time) ([]models.Order, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]models.Order, 0)
	for _, o := range m.orders {
		if o.RestaurantID == restaurantID && !o.CreatedAt.Before(since) {
			out = append(out, copyOrder(o))
		}
	}
	return out, nil
}

// GetRestaurantCustomers returns customers ordered by id.
func (m *Memory) GetRestaurantCustomers(_ context.Context, restaurantID int) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[int]struct{})
	out := make([]models.User, 0)
	for _, o := range m.orders {
		if o.RestaurantID != restaurantID {
			continue
		}
		if _, dup := seen[o.UserID]; dup {
			continue
		}
		seen[o.UserID] = struct{}{}
		if u, ok := m.users[o.UserID]; ok {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *Memory) RecordInteraction(_ context.Context, in *models.UserItemInteraction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.menuItems[in.MenuItemID]; !ok {
		return fmt.Errorf("menu item %d: %w", in.MenuItemID, ErrNotFound)
	}
	in.ID = m.nextID
	m.nextID++
	m.interactions = append(m.interactions, *in)
	return nil
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error {
	return nil
}

func copyOrder(o models.Order) models.Order {
	if o.Items != nil {
		items := make([]models.OrderItem, len(o.Items))
		copy(items, o.Items)
		o.Items = items
	}
	return o
}
