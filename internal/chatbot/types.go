// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package chatbot

import (
	"time"

	"github.com/tomtom215/tablesense/internal/models"
)

// Intent is the classified purpose of a message.
type Intent string

// Intents in classification priority order. IntentGeneral is the fallback
// when no pattern matches.
const (
	IntentMenuRecommendation Intent = "menu_recommendation"
	IntentOrderInquiry       Intent = "order_inquiry"
	IntentRestaurantInfo     Intent = "restaurant_info"
	IntentReservation        Intent = "reservation"
	IntentPricingQuestion    Intent = "pricing_question"
	IntentAnalyticsRequest   Intent = "analytics_request"
	IntentComplaintFeedback  Intent = "complaint_feedback"
	IntentGreeting           Intent = "greeting"
	IntentHelp               Intent = "help"
	IntentGeneral            Intent = "general"
)

// Message is one inbound chat message. Role is supplied by the caller's
// authentication layer and gates staff-only answers.
type Message struct {
	Text         string      `json:"message" validate:"required,max=1000"`
	UserID       int         `json:"user_id" validate:"min=0"`
	RestaurantID int         `json:"restaurant_id" validate:"required,min=1"`
	Role         models.Role `json:"role" validate:"omitempty,oneof=customer owner admin"`
}

// MenuMention is a menu item named in a message.
type MenuMention struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Entities are the values extracted from a message.
type Entities struct {
	MenuItems []MenuMention `json:"menu_items,omitempty"`
	Dietary   []string      `json:"dietary,omitempty"`

	// Date is the start of the referenced day; DateText is the phrase that set it.
	Date     *time.Time `json:"date,omitempty"`
	DateText string     `json:"date_text,omitempty"`

	// Number is the first integer in the message.
	Number *int `json:"number,omitempty"`
}

// Classification is the intent decision with its pattern vote.
type Classification struct {
	Intent Intent  `json:"intent"`
	Score  float64 `json:"score"`
}

// Reply is the chatbot answer.
type Reply struct {
	Intent      Intent   `json:"intent"`
	Text        string   `json:"text"`
	Confidence  int      `json:"confidence"`
	Suggestions []string `json:"suggestions"`
	Entities    Entities `json:"entities"`

	// Data carries the engine result the text was formatted from, if any.
	Data any `json:"data,omitempty"`
}

// Stats reports chatbot counters.
type Stats struct {
	Messages  int64 `json:"messages"`
	Fallbacks int64 `json:"fallbacks"`
}
