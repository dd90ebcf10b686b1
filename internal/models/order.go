// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package models

import "time"

// Order statuses written by the checkout flow.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusPreparing = "preparing"
	OrderStatusReady     = "ready"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

// Order is an append-only checkout record.
type Order struct {
	ID                int         `json:"id"`
	UserID            int         `json:"user_id"`
	RestaurantID      int         `json:"restaurant_id"`
	TotalPrice        float64     `json:"total_price"`
	Status            string      `json:"status"`
	LoyaltyPointsUsed int         `json:"loyalty_points_used"`
	CreatedAt         time.Time   `json:"created_at"`
	Items             []OrderItem `json:"items,omitempty"`
}

// RedeemedLoyalty reports whether loyalty points were applied to the order.
func (o *Order) RedeemedLoyalty() bool {
	return o.LoyaltyPointsUsed > 0
}

// OrderItem is a line of an order with the unit price actually charged.
type OrderItem struct {
	OrderID    int     `json:"order_id"`
	MenuItemID int     `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	UnitPrice  float64 `json:"unit_price"`
}
