// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package models

import (
	"slices"
	"testing"
)

func TestNormalizeDiet(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Vegetarian", DietVegetarian},
		{" veggie ", DietVegetarian},
		{"Gluten_Free", DietGlutenFree},
		{"gluten free", DietGlutenFree},
		{"GF", DietGlutenFree},
		{"pescatarian", DietSeafood},
		{"Halal", "halal"},
	}
	for _, tt := range tests {
		if got := NormalizeDiet(tt.in); got != tt.want {
			t.Errorf("NormalizeDiet(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMenuItem_DietaryFlags(t *testing.T) {
	item := MenuItem{Name: "Grilled Salmon", Description: "Atlantic salmon with lemon butter", IsGlutenFree: true, IsSeafood: true}

	if got := item.DietaryFlags(); !slices.Equal(got, []string{DietGlutenFree, DietSeafood}) {
		t.Errorf("DietaryFlags = %v", got)
	}
	if !item.HasDietaryFlag(DietSeafood) || item.HasDietaryFlag(DietVegetarian) || item.HasDietaryFlag("halal") {
		t.Error("HasDietaryFlag mismatch")
	}
	if !item.MentionsAny([]string{"lemon"}) {
		t.Error("description keyword not found")
	}
	if item.MentionsAny([]string{"spicy", "chili"}) {
		t.Error("unexpected keyword match")
	}
}

func TestInteractionKind(t *testing.T) {
	for _, k := range []InteractionKind{InteractionLiked, InteractionOrdered, InteractionFavorited} {
		if !k.Valid() || !k.Positive() {
			t.Errorf("%s should be valid and positive", k)
		}
	}
	for _, k := range []InteractionKind{InteractionViewed, InteractionDislike} {
		if !k.Valid() || k.Positive() {
			t.Errorf("%s should be valid and not positive", k)
		}
	}
	if InteractionKind("shared").Valid() {
		t.Error("unknown kind reported valid")
	}
}

func TestRoleAndOrderHelpers(t *testing.T) {
	if RoleCustomer.IsStaff() || !RoleOwner.IsStaff() || !RoleAdmin.IsStaff() {
		t.Error("IsStaff mismatch")
	}
	o := Order{LoyaltyPointsUsed: 50}
	if !o.RedeemedLoyalty() {
		t.Error("RedeemedLoyalty = false with points used")
	}
	if (&Order{}).RedeemedLoyalty() {
		t.Error("RedeemedLoyalty = true without points")
	}
}
