// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package store

import (
	"math"
	"math/rand"
	"time"

	"github.com/jaswdr/faker"

	"github.com/tomtom215/tablesense/internal/models"
)

// SeedOptions controls the generated demo data set.
type SeedOptions struct {
	Seed      int64
	Customers int
	Days      int
	Now       time.Time
}

// DefaultSeedOptions returns a small but complete demo data set anchored at now.
func DefaultSeedOptions(now time.Time) SeedOptions {
	return SeedOptions{Seed: 42, Customers: 40, Days: 90, Now: now}
}

type seedItem struct {
	category int
	name     string
	desc     string
	price    float64
	veg      bool
	gf       bool
	seafood  bool
	popular  bool
	featured bool
	allergen []string
}

var demoMenu = []seedItem{
	{1, "Iced Lemonade", "fresh cold refreshing citrus drink", 4.50, true, true, false, true, false, nil},
	{1, "Hot Chocolate", "warm rich cocoa topped with cream", 4.00, true, true, false, false, false, []string{"dairy"}},
	{1, "Espresso", "double shot, perfect for breakfast", 3.25, true, true, false, false, false, nil},
	{2, "Tomato Soup", "hot hearty comfort soup with basil", 7.50, true, true, false, false, true, nil},
	{2, "Caesar Salad", "light crisp romaine with parmesan", 9.00, true, false, false, true, false, []string{"dairy", "egg"}},
	{2, "Garlic Shrimp", "sizzling shrimp appetizer", 12.00, false, true, true, false, false, []string{"shellfish"}},
	{3, "Grilled Salmon", "seasonal fresh salmon with lemon", 24.00, false, true, true, true, true, []string{"fish"}},
	{3, "Beef Stew", "slow-cooked hearty winter stew", 19.50, false, false, false, false, false, nil},
	{3, "Margherita Pizza", "classic comfort pizza for dinner", 15.00, true, false, false, true, false, []string{"gluten", "dairy"}},
	{3, "Pumpkin Risotto", "creamy fall harvest risotto", 17.00, true, true, false, false, false, []string{"dairy"}},
	{3, "Spring Pea Pasta", "fresh spring pasta with mint", 16.00, true, false, false, false, false, []string{"gluten"}},
	{4, "Mango Sorbet", "frozen cool summer dessert", 6.50, true, true, false, false, false, nil},
	{4, "Chocolate Lava Cake", "warm indulgent late night treat", 8.50, true, false, false, true, false, []string{"gluten", "dairy", "egg"}},
}

// Seed fills a Memory accessor with deterministic demo data for restaurant 1.
//
// Customers follow three cohorts (regulars, lapsed, newcomers) so every
// analytics function has something to report.
func Seed(m *Memory, opts SeedOptions) {
	if opts.Customers <= 0 {
		opts.Customers = 40
	}
	if opts.Days <= 0 {
		opts.Days = 90
	}
	if opts.Now.IsZero() {
		opts.Now = time.Now()
	}
	rng := rand.New(rand.NewSource(opts.Seed)) //nolint:gosec // demo data, not security sensitive
	// Names and contact details come from their own source so the order
	// history stays identical for a given seed.
	fake := faker.NewWithSeed(rand.NewSource(opts.Seed + 1)) //nolint:gosec // demo data
	start := opts.Now.AddDate(0, 0, -opts.Days)

	m.AddRestaurant(models.Restaurant{
		ID:          1,
		Name:        "Harbor Table",
		Description: "Seasonal seafood and comfort food by the water",
		Cuisine:     "american",
		Address:     fake.Address().Address(),
		Phone:       fake.Phone().Number(),
		OpenHour:    7,
		CloseHour:   23,
		OwnerID:     1,
		CreatedAt:   start,
	})
	m.AddUser(models.User{
		ID: 1, Name: fake.Person().Name(), Email: fake.Internet().Email(),
		Role: models.RoleOwner, RestaurantID: 1, CreatedAt: start,
	})

	for i, s := range demoMenu {
		m.AddMenuItem(models.MenuItem{
			ID: i + 1, RestaurantID: 1, CategoryID: s.category,
			Name: s.name, Description: s.desc, Price: s.price,
			IsAvailable: true, IsVegetarian: s.veg, IsGlutenFree: s.gf, IsSeafood: s.seafood,
			IsPopular: s.popular, IsFeatured: s.featured, Allergens: s.allergen,
		})
	}

	for c := 0; c < opts.Customers; c++ {
		userID := 100 + c
		m.AddUser(models.User{
			ID: userID, Name: fake.Person().Name(), Email: fake.Internet().Email(),
			Role: models.RoleCustomer, LoyaltyPoints: rng.Intn(400), CreatedAt: start,
		})
		if c%3 == 0 {
			m.UpsertPreferences(models.UserPreference{
				UserID:             userID,
				DietaryPreferences: []string{[]string{models.DietVegetarian, models.DietGlutenFree, models.DietSeafood}[rng.Intn(3)]},
				FavoriteCategories: []int{1 + rng.Intn(4)},
			}, start)
		}

		// Cohort decides the active window of the customer.
		first, last := 0, opts.Days
		switch c % 4 {
		case 1: // lapsed
			last = opts.Days / 3
		case 2: // newcomer
			first = opts.Days - 20
		}

		orders := 2 + rng.Intn(8)
		for o := 0; o < orders; o++ {
			day := first + rng.Intn(max(1, last-first))
			hour := []int{8, 12, 13, 18, 19, 20}[rng.Intn(6)]
			createdAt := time.Date(start.Year(), start.Month(), start.Day()+day, hour, rng.Intn(60), 0, 0, opts.Now.Location())
			if createdAt.After(opts.Now) {
				continue
			}

			lines := 1 + rng.Intn(3)
			order := models.Order{
				UserID: userID, RestaurantID: 1, Status: models.OrderStatusCompleted, CreatedAt: createdAt,
			}
			if rng.Intn(5) == 0 {
				order.LoyaltyPointsUsed = 50
			}
			for l := 0; l < lines; l++ {
				itemIdx := rng.Intn(len(demoMenu))
				// Prices drift a few percent over time so elasticity has data.
				drift := 1 + 0.05*math.Sin(float64(day)/7)
				unit := math.Round(demoMenu[itemIdx].price*drift*100) / 100
				qty := 1 + rng.Intn(2)
				order.Items = append(order.Items, models.OrderItem{MenuItemID: itemIdx + 1, Quantity: qty, UnitPrice: unit})
				order.TotalPrice += unit * float64(qty)

				kind := []models.InteractionKind{
					models.InteractionViewed, models.InteractionLiked, models.InteractionOrdered, models.InteractionFavorited,
				}[rng.Intn(4)]
				m.AddInteraction(models.UserItemInteraction{
					UserID: userID, MenuItemID: itemIdx + 1, Kind: kind, Timestamp: createdAt,
				})
			}
			order.TotalPrice = math.Round(order.TotalPrice*100) / 100
			m.AddOrder(order)
		}
	}
}
