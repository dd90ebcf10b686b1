// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package api

import (
	"context"
	"errors"
	"time"

	"github.com/tomtom215/tablesense/internal/chatbot"
	"github.com/tomtom215/tablesense/internal/middleware"
	"github.com/tomtom215/tablesense/internal/models"
	"github.com/tomtom215/tablesense/internal/orchestrator"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
)

// Recommender is satisfied by *recommend.Engine.
type Recommender interface {
	GetPersonalizedRecommendations(ctx context.Context, userID, restaurantID int, opts recommend.Options) (*recommend.Result, error)
	SimilarItems(ctx context.Context, itemID, limit int) ([]recommend.ScoredItem, error)
	TrendingItems(ctx context.Context, restaurantID, limit int, window time.Duration) ([]recommend.ScoredItem, error)
	TrackInteraction(ctx context.Context, in models.UserItemInteraction) (*models.UserItemInteraction, error)
}

// Pricer is satisfied by *pricing.Engine.
type Pricer interface {
	GetDynamicPrice(ctx context.Context, menuItemID, restaurantID int, opts pricing.Options) (*pricing.Quote, error)
	QuoteMenu(ctx context.Context, restaurantID int, opts pricing.Options) ([]pricing.Quote, error)
}

// Responder is satisfied by *chatbot.Bot.
type Responder interface {
	Respond(ctx context.Context, msg chatbot.Message) (*chatbot.Reply, error)
}

// Dependencies are the engines served by the API.
type Dependencies struct {
	Orchestrator *orchestrator.Service
	Recommend    Recommender
	Pricing      Pricer
	Analytics    orchestrator.Analyst
	Chatbot      Responder

	// Performance is optional; without it /health/performance is empty.
	Performance *middleware.PerformanceMonitor
}

// Handler holds the HTTP handlers.
type Handler struct {
	deps           Dependencies
	requestTimeout time.Duration
	trendingWindow time.Duration
	now            func() time.Time
}

// HandlerOption configures a Handler.
type HandlerOption func(*Handler)

// WithRequestTimeout bounds every engine call. Default: 10s.
func WithRequestTimeout(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.requestTimeout = d
		}
	}
}

// WithTrendingWindow sets the default trending window. Default: 7 days.
func WithTrendingWindow(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.trendingWindow = d
		}
	}
}

// WithHandlerClock replaces time.Now for date defaults.
func WithHandlerClock(now func() time.Time) HandlerOption {
	return func(h *Handler) { h.now = now }
}

// NewHandler checks that every engine is present.
func NewHandler(deps Dependencies, opts ...HandlerOption) (*Handler, error) {
	switch {
	case deps.Orchestrator == nil:
		return nil, errors.New("api: orchestrator is required")
	case deps.Recommend == nil:
		return nil, errors.New("api: recommendation engine is required")
	case deps.Pricing == nil:
		return nil, errors.New("api: pricing engine is required")
	case deps.Analytics == nil:
		return nil, errors.New("api: analytics engine is required")
	case deps.Chatbot == nil:
		return nil, errors.New("api: chatbot is required")
	}
	h := &Handler{
		deps:           deps,
		requestTimeout: 10 * time.Second,
		trendingWindow: 7 * 24 * time.Hour,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h, nil
}

func (h *Handler) engineContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, h.requestTimeout)
}

// tomorrow is the default forecast date.
func (h *Handler) tomorrow() time.Time {
	now := h.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
