// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package chatbot

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"What do you recommend?", IntentMenuRecommendation},
		{"Show me the menu", IntentMenuRecommendation},
		{"Where is my order?", IntentOrderInquiry},
		{"What are your hours?", IntentRestaurantInfo},
		{"Can I book a table for 4 tomorrow?", IntentReservation},
		{"How much is the Tomato Soup?", IntentPricingQuestion},
		{"menu prices", IntentPricingQuestion},
		{"Staffing forecast for tomorrow", IntentAnalyticsRequest},
		{"The food was cold and the waiter was rude", IntentComplaintFeedback},
		{"Hello there", IntentGreeting},
		{"help", IntentHelp},
		{"blorp", IntentGeneral},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := Classify(tt.text); got.Intent != tt.want {
				t.Errorf("Classify(%q) = %s (%.2f), want %s", tt.text, got.Intent, got.Score, tt.want)
			}
		})
	}
}

func TestClassify_Scores(t *testing.T) {
	got := Classify("Where is my order?")
	if got.Score != 0.75 {
		t.Errorf("order inquiry score = %v, want 0.75 (3 of 4 patterns)", got.Score)
	}
	if got := Classify("blorp"); got.Score != 0 {
		t.Errorf("general score = %v, want 0", got.Score)
	}
}

func TestClassify_TieGoesToEarlierBucket(t *testing.T) {
	// greeting and help both match one of three patterns
	if got := Classify("hello, help"); got.Intent != IntentGreeting {
		t.Errorf("tie resolved to %s, want %s", got.Intent, IntentGreeting)
	}
}

func TestClassConfidence(t *testing.T) {
	if got := classConfidence(Classification{Intent: IntentGeneral}); got != 20 {
		t.Errorf("general confidence = %d, want 20", got)
	}
	if got := classConfidence(Classification{Intent: IntentHelp, Score: 1}); got != 100 {
		t.Errorf("full match confidence = %d, want 100", got)
	}
	if got := classConfidence(Classification{Intent: IntentHelp, Score: 0.5}); got != 75 {
		t.Errorf("half match confidence = %d, want 75", got)
	}
}

var entityMenu = []models.MenuItem{
	{ID: 1, Name: "Tomato Soup"},
	{ID: 2, Name: "Caesar Salad"},
	{ID: 3, Name: "Grilled Salmon"},
}

// Tuesday afternoon.
var entityNow = time.Date(2026, 3, 10, 16, 0, 0, 0, time.UTC)

func TestExtractEntities(t *testing.T) {
	ent := ExtractEntities("Is the tomato soup vegetarian and gluten free for 2 people on Friday?", entityMenu, entityNow)

	if want := []MenuMention{{ID: 1, Name: "Tomato Soup"}}; !reflect.DeepEqual(ent.MenuItems, want) {
		t.Errorf("menu items = %v, want %v", ent.MenuItems, want)
	}
	if want := []string{models.DietVegetarian, models.DietGlutenFree}; !reflect.DeepEqual(ent.Dietary, want) {
		t.Errorf("dietary = %v, want %v", ent.Dietary, want)
	}
	if ent.Number == nil || *ent.Number != 2 {
		t.Errorf("number = %v, want 2", ent.Number)
	}
	wantDate := time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC)
	if ent.Date == nil || !ent.Date.Equal(wantDate) {
		t.Errorf("date = %v, want %v", ent.Date, wantDate)
	}
	if ent.DateText != "friday" {
		t.Errorf("date text = %q", ent.DateText)
	}
}

func TestExtractEntities_WholeWordsOnly(t *testing.T) {
	ent := ExtractEntities("something fishy about the vegetables", entityMenu, entityNow)
	if len(ent.Dietary) != 0 {
		t.Errorf("dietary = %v, want none for embedded keywords", ent.Dietary)
	}

	ent = ExtractEntities("any fish dishes?", nil, entityNow)
	if want := []string{models.DietSeafood}; !reflect.DeepEqual(ent.Dietary, want) {
		t.Errorf("dietary = %v, want %v", ent.Dietary, want)
	}
}

func TestExtractEntities_Empty(t *testing.T) {
	ent := ExtractEntities("hello", nil, entityNow)
	if ent.MenuItems != nil || ent.Dietary != nil || ent.Date != nil || ent.Number != nil {
		t.Errorf("expected no entities, got %+v", ent)
	}
}

func TestRelativeDate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC) }
	tests := []struct {
		text string
		want time.Time
	}{
		{"today", day(10)},
		{"tonight at 8", day(10)},
		{"tomorrow", day(11)},
		{"the day after tomorrow", day(12)},
		{"this weekend", day(14)},
		{"next week", day(17)},
		{"on tuesday", day(10)},
		{"monday lunch", day(16)},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, _, ok := relativeDate(tt.text, entityNow)
			if !ok || !got.Equal(tt.want) {
				t.Errorf("relativeDate(%q) = %v, %v; want %v", tt.text, got, ok, tt.want)
			}
		})
	}
	if _, _, ok := relativeDate("no date here", entityNow); ok {
		t.Error("unexpected date")
	}
}

func TestKeywordMatcher(t *testing.T) {
	m := newKeywordMatcher(map[string]int{"he": 1, "she": 2, "hers": 3})

	got := m.find("She said hers")
	texts := make([]string, len(got))
	for i, mt := range got {
		texts[i] = mt.Text
	}
	if want := []string{"she", "hers"}; !reflect.DeepEqual(texts, want) {
		t.Errorf("matches = %v, want %v", texts, want)
	}
	if got[1].Start != 9 || got[1].End != 13 {
		t.Errorf("hers offsets = %d..%d, want 9..13", got[1].Start, got[1].End)
	}

	overlap := newKeywordMatcher(map[string]string{"salmon": "short", "grilled salmon": "long"})
	if n := len(overlap.find("I'd like the grilled salmon")); n != 2 {
		t.Errorf("overlapping matches = %d, want 2", n)
	}

	if newKeywordMatcher(map[string]int{}).find("anything") != nil {
		t.Error("empty matcher should return nil")
	}
}
