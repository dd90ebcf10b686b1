// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package recommend

import (
	"sort"

	"github.com/tomtom215/tablesense/internal/models"
)

// accumulator combines weighted signal outputs into one entry per menu item.
// Every menu item starts at zero so a diner without any data still gets a
// complete ranking.
type accumulator struct {
	entries map[int]*ScoredItem
	used    []string
}

func newAccumulator(items []models.MenuItem) *accumulator {
	acc := &accumulator{entries: make(map[int]*ScoredItem, len(items))}
	for i := range items {
		acc.entries[items[i].ID] = &ScoredItem{Item: items[i]}
	}
	return acc
}

// apply adds weight*score for every item the signal scored. It reports
// whether the signal contributed anything.
func (a *accumulator) apply(out *signalOutput, weight float64) bool {
	if weight <= 0 || len(out.scores) == 0 {
		return false
	}
	a.used = append(a.used, out.name)

	for itemID, score := range out.scores {
		entry, ok := a.entries[itemID]
		if !ok {
			continue
		}
		contribution := weight * score
		entry.Score += contribution
		if entry.Breakdown == nil {
			entry.Breakdown = make(map[string]float64)
		}
		entry.Breakdown[out.name] = contribution
		entry.Reasons = append(entry.Reasons, out.reasons[itemID]...)
	}
	return true
}

// ranked returns available items by descending score, ties by ascending id,
// truncated to limit.
func (a *accumulator) ranked(limit int) []ScoredItem {
	items := make([]ScoredItem, 0, len(a.entries))
	for _, e := range a.entries {
		if !e.Item.IsAvailable {
			continue
		}
		items = append(items, *e)
	}
	sortScored(items)

	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}

func sortScored(items []ScoredItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Score != items[j].Score {
			return items[i].Score > items[j].Score
		}
		return items[i].Item.ID < items[j].Item.ID
	})
}
