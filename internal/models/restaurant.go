// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package models defines the records the decision engines read from the
// data accessor. The engines never mutate these records; all writes belong
// to the CRUD layer except the append-only interaction log.
package models

import (
	"strings"
	"time"
)

// Role identifies what a user is allowed to see.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleOwner    Role = "owner"
	RoleAdmin    Role = "admin"
)

// IsStaff reports whether the role may view restaurant analytics.
func (r Role) IsStaff() bool {
	return r == RoleOwner || r == RoleAdmin
}

// Restaurant is a tenant of the platform.
type Restaurant struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Cuisine     string    `json:"cuisine,omitempty"`
	Address     string    `json:"address,omitempty"`
	Phone       string    `json:"phone,omitempty"`
	OpenHour    int       `json:"open_hour"`
	CloseHour   int       `json:"close_hour"`
	OwnerID     int       `json:"owner_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Category groups menu items.
type Category struct {
	ID           int    `json:"id"`
	RestaurantID int    `json:"restaurant_id"`
	Name         string `json:"name"`
}

// MenuItem is a dish offered by a restaurant.
type MenuItem struct {
	ID            int                `json:"id"`
	RestaurantID  int                `json:"restaurant_id"`
	CategoryID    int                `json:"category_id"`
	Name          string             `json:"name"`
	Description   string             `json:"description"`
	Price         float64            `json:"price"`
	IsAvailable   bool               `json:"is_available"`
	IsVegetarian  bool               `json:"is_vegetarian"`
	IsGlutenFree  bool               `json:"is_gluten_free"`
	IsSeafood     bool               `json:"is_seafood"`
	IsPopular     bool               `json:"is_popular"`
	IsFeatured    bool               `json:"is_featured"`
	Allergens     []string           `json:"allergens,omitempty"`
	NutritionInfo map[string]float64 `json:"nutrition_info,omitempty"`
}

// DietaryFlags returns the dietary tags that apply to the item.
func (m *MenuItem) DietaryFlags() []string {
	flags := make([]string, 0, 3)
	if m.IsVegetarian {
		flags = append(flags, DietVegetarian)
	}
	if m.IsGlutenFree {
		flags = append(flags, DietGlutenFree)
	}
	if m.IsSeafood {
		flags = append(flags, DietSeafood)
	}
	return flags
}

// MentionsAny reports whether the lowercased name or description contains
// any of the keywords.
func (m *MenuItem) MentionsAny(keywords []string) bool {
	text := strings.ToLower(m.Name + " " + m.Description)
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// HasDietaryFlag reports whether the item carries the given dietary tag.
func (m *MenuItem) HasDietaryFlag(flag string) bool {
	switch flag {
	case DietVegetarian:
		return m.IsVegetarian
	case DietGlutenFree:
		return m.IsGlutenFree
	case DietSeafood:
		return m.IsSeafood
	default:
		return false
	}
}

// Dietary tags understood by menu items and preferences.
const (
	DietVegetarian = "vegetarian"
	DietGlutenFree = "gluten-free"
	DietSeafood    = "seafood"
)

// NormalizeDiet maps spellings such as "Gluten_Free" or "gluten free" to the
// canonical dietary tag. Unknown tags are returned lower-cased.
func NormalizeDiet(tag string) string {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.NewReplacer("_", "-", " ", "-").Replace(t)
	switch t {
	case "veg", "veggie", "vegetarian":
		return DietVegetarian
	case "glutenfree", "gluten-free", "gf":
		return DietGlutenFree
	case "seafood", "pescatarian", "fish":
		return DietSeafood
	default:
		return t
	}
}
