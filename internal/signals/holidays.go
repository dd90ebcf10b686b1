// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package signals

import (
	"fmt"
	"time"
)

// FixedHolidays is a calendar of month/day holidays that repeat every year.
type FixedHolidays struct {
	days map[monthDay]bool
}

type monthDay struct {
	month time.Month
	day   int
}

// DefaultHolidays are the fixed-date US federal holidays.
var DefaultHolidays = []string{"01-01", "06-19", "07-04", "11-11", "12-25"}

// NewFixedHolidays parses "MM-DD" entries.
func NewFixedHolidays(dates []string) (*FixedHolidays, error) {
	h := &FixedHolidays{days: make(map[monthDay]bool, len(dates))}
	for _, d := range dates {
		t, err := time.Parse("01-02", d)
		if err != nil {
			return nil, fmt.Errorf("invalid holiday %q: %w", d, err)
		}
		h.days[monthDay{t.Month(), t.Day()}] = true
	}
	return h, nil
}

// IsHoliday reports whether date falls on a configured month/day.
func (h *FixedHolidays) IsHoliday(date time.Time) bool {
	return h.days[monthDay{date.Month(), date.Day()}]
}
