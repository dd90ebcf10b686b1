// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package chatbot

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

var dietaryKeywords = newKeywordMatcher(map[string]string{
	"vegetarian":  models.DietVegetarian,
	"veggie":      models.DietVegetarian,
	"veg":         models.DietVegetarian,
	"gluten free": models.DietGlutenFree,
	"gluten-free": models.DietGlutenFree,
	"glutenfree":  models.DietGlutenFree,
	"seafood":     models.DietSeafood,
	"fish":        models.DietSeafood,
	"pescatarian": models.DietSeafood,
})

var firstNumber = regexp.MustCompile(`\d+`)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// ExtractEntities pulls menu item names, dietary keywords, a relative date
// and the first integer out of text. menu may be empty.
func ExtractEntities(text string, menu []models.MenuItem, now time.Time) Entities {
	var ent Entities

	if len(menu) > 0 {
		byName := make(map[string]MenuMention, len(menu))
		for i := range menu {
			byName[menu[i].Name] = MenuMention{ID: menu[i].ID, Name: menu[i].Name}
		}
		seen := make(map[int]bool)
		for _, m := range newKeywordMatcher(byName).find(text) {
			if !seen[m.Data.ID] {
				seen[m.Data.ID] = true
				ent.MenuItems = append(ent.MenuItems, m.Data)
			}
		}
	}

	seenDiet := make(map[string]bool)
	for _, m := range dietaryKeywords.find(text) {
		diet := models.NormalizeDiet(m.Data)
		if !seenDiet[diet] {
			seenDiet[diet] = true
			ent.Dietary = append(ent.Dietary, diet)
		}
	}

	if date, phrase, ok := relativeDate(strings.ToLower(text), now); ok {
		ent.Date = &date
		ent.DateText = phrase
	}

	if s := firstNumber.FindString(text); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			ent.Number = &n
		}
	}
	return ent
}

// relativeDate resolves phrases such as "tomorrow" or "on friday" to the
// start of that day in now's location. A weekday equal to today's is today.
func relativeDate(lower string, now time.Time) (time.Time, string, bool) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch {
	case strings.Contains(lower, "day after tomorrow"):
		return today.AddDate(0, 0, 2), "day after tomorrow", true
	case strings.Contains(lower, "tomorrow"):
		return today.AddDate(0, 0, 1), "tomorrow", true
	case strings.Contains(lower, "tonight"):
		return today, "tonight", true
	case strings.Contains(lower, "today"):
		return today, "today", true
	case strings.Contains(lower, "next week"):
		return today.AddDate(0, 0, 7), "next week", true
	case strings.Contains(lower, "weekend"):
		ahead := (int(time.Saturday) - int(today.Weekday()) + 7) % 7
		if today.Weekday() == time.Sunday {
			ahead = 0
		}
		return today.AddDate(0, 0, ahead), "this weekend", true
	}

	for _, word := range strings.FieldsFunc(lower, func(r rune) bool { return !isWordRune(r) }) {
		if wd, ok := weekdays[word]; ok {
			ahead := (int(wd) - int(today.Weekday()) + 7) % 7
			return today.AddDate(0, 0, ahead), word, true
		}
	}
	return time.Time{}, "", false
}
