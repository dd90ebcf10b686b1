// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package signals

import (
	"context"
	"sync"
	"time"
)

// Static returns fixed values for every provider. The zero configuration
// produced by NewStatic is neutral: mild weather, half-stocked inventory,
// no events, average engagement and no holidays.
type Static struct {
	mu          sync.RWMutex
	weather     Weather
	weatherErr  error
	inventory   map[int]InventoryStatus
	defaultInv  InventoryStatus
	eventImpact float64
	engagement  map[int]float64
	defaultEng  float64
	holidays    map[string]bool
}

// NewStatic creates a neutral static provider.
func NewStatic() *Static {
	return &Static{
		weather:    Weather{Condition: ConditionMild, TemperatureF: 65},
		inventory:  make(map[int]InventoryStatus),
		defaultInv: InventoryStatus{Level: 0.5, Trend: TrendStable},
		engagement: make(map[int]float64),
		defaultEng: 0.5,
		holidays:   make(map[string]bool),
	}
}

// SetWeather fixes the reported weather. A non-nil err is returned instead.
func (s *Static) SetWeather(w Weather, err error) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.weather, s.weatherErr = w, err
	return s
}

// SetInventory fixes the stock status of one item.
func (s *Static) SetInventory(menuItemID int, status InventoryStatus) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inventory[menuItemID] = status
	return s
}

// SetEventImpact fixes the event impact for every restaurant and date.
func (s *Static) SetEventImpact(impact float64) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.eventImpact = impact
	return s
}

// SetEngagement fixes the engagement of one user.
func (s *Static) SetEngagement(userID int, engagement float64) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.engagement[userID] = engagement
	return s
}

// AddHoliday marks a calendar date as a holiday.
func (s *Static) AddHoliday(date time.Time) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays[date.Format(time.DateOnly)] = true
	return s
}

func (s *Static) CurrentWeather(context.Context, int) (Weather, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.weather, s.weatherErr
}

func (s *Static) InventoryLevel(_ context.Context, menuItemID int) (InventoryStatus, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if st, ok := s.inventory[menuItemID]; ok {
		return st, nil
	}
	return s.defaultInv, nil
}

func (s *Static) LocalEventImpact(context.Context, int, time.Time) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.eventImpact, nil
}

func (s *Static) AppEngagement(_ context.Context, userID int) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if e, ok := s.engagement[userID]; ok {
		return e, nil
	}
	return s.defaultEng, nil
}

func (s *Static) IsHoliday(date time.Time) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.holidays[date.Format(time.DateOnly)]
}
