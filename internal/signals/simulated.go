// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package signals

import (
	"context"
	"math/rand"
	"sync"
	"time"
)

var simulatedConditions = []string{ConditionSunny, ConditionRainy, ConditionCold, ConditionHot}

// Simulated draws every signal from a seeded random source. Two instances
// with the same seed produce the same sequence.
type Simulated struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulated creates a simulated provider.
func NewSimulated(seed int64) *Simulated {
	return &Simulated{rng: rand.New(rand.NewSource(seed))} //nolint:gosec // simulation only
}

func (s *Simulated) CurrentWeather(context.Context, int) (Weather, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cond := simulatedConditions[s.rng.Intn(len(simulatedConditions))]
	temp := 40 + s.rng.Float64()*55
	return Weather{Condition: cond, TemperatureF: temp}, nil
}

func (s *Simulated) InventoryLevel(context.Context, int) (InventoryStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trend := []string{TrendUp, TrendDown, TrendStable}[s.rng.Intn(3)]
	return InventoryStatus{Level: s.rng.Float64(), Trend: trend}, nil
}

// LocalEventImpact returns an impact in [0, 0.2).
func (s *Simulated) LocalEventImpact(context.Context, int, time.Time) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64() * 0.2, nil
}

func (s *Simulated) AppEngagement(context.Context, int) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64(), nil
}
