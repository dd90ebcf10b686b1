// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package models

import "time"

// User is a diner, restaurant owner or platform admin.
type User struct {
	ID            int       `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email,omitempty"`
	Role          Role      `json:"role"`
	LoyaltyPoints int       `json:"loyalty_points"`
	RestaurantID  int       `json:"restaurant_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// UserPreference is the optional taste profile of a user. There is at most
// one per user; LastUpdated is bumped on every upsert.
type UserPreference struct {
	UserID              int       `json:"user_id"`
	DietaryPreferences  []string  `json:"dietary_preferences,omitempty"`
	FavoriteCategories  []int     `json:"favorite_categories,omitempty"`
	DislikedItems       []int     `json:"disliked_items,omitempty"`
	Allergens           []string  `json:"allergens,omitempty"`
	TasteTags           []string  `json:"taste_tags,omitempty"`
	SeatingPreference   string    `json:"seating_preference,omitempty"`
	OccasionPreferences []string  `json:"occasion_preferences,omitempty"`
	LastUpdated         time.Time `json:"last_updated"`
}

// InteractionKind classifies an entry in the interaction log.
type InteractionKind string

const (
	InteractionViewed    InteractionKind = "viewed"
	InteractionLiked     InteractionKind = "liked"
	InteractionOrdered   InteractionKind = "ordered"
	InteractionFavorited InteractionKind = "favorited"
	InteractionDislike   InteractionKind = "dislike"
)

// Valid reports whether k is one of the known interaction kinds.
func (k InteractionKind) Valid() bool {
	switch k {
	case InteractionViewed, InteractionLiked, InteractionOrdered, InteractionFavorited, InteractionDislike:
		return true
	default:
		return false
	}
}

// Positive reports whether the interaction signals that the user enjoyed the item.
func (k InteractionKind) Positive() bool {
	return k == InteractionLiked || k == InteractionOrdered || k == InteractionFavorited
}

// UserItemInteraction is one append-only entry of the interaction log.
// Multiple entries per (user, item) pair are expected.
type UserItemInteraction struct {
	ID         int             `json:"id"`
	UserID     int             `json:"user_id"`
	MenuItemID int             `json:"menu_item_id"`
	Kind       InteractionKind `json:"kind"`
	Rating     *int            `json:"rating,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}
