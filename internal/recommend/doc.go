// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package recommend ranks a restaurant's menu items for one diner.
//
// # Architecture
//
// The engine pulls the diner, their preferences, interaction log and order
// history plus the restaurant menu from the data accessor, then runs six
// independent signal generators:
//
//   - Collaborative: user-based CF over Jaccard-similar neighbors
//   - Content: dietary, favorite-category, allergen and history similarity
//   - Behavior: category purchase frequency, recent interactions, popular/featured
//   - Weather: keyword match against the current weather archetype
//   - Timing: keyword match against the time-of-day bucket
//   - Price fit: closeness to the diner's average spend per item
//
// Each generator yields a per-item score. Scores are combined with a fixed
// weighted sum (see Config.Weights); a disabled signal drops its term and the
// remaining weights are not renormalized. Items are sorted by combined score
// descending with ties broken by ascending item id, unavailable items are
// removed, and the top Limit are returned.
//
// # Failure Handling
//
// Missing data never fails a request: a generator without input returns no
// scores and confidence drops. A missing user or restaurant returns
// store.ErrNotFound. A data store failure aborts the request before any
// scoring happens, so partial score maps are never returned.
//
// # Usage
//
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), accessor, weather, logger)
//	res, err := engine.GetPersonalizedRecommendations(ctx, userID, restaurantID, recommend.DefaultOptions())
//
// # Thread Safety
//
// The engine holds no per-request state and is safe for concurrent use.
package recommend
