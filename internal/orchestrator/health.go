// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package orchestrator

import (
	"context"
	"time"

	"github.com/tomtom215/tablesense/internal/cache"
)

// Health status values.
const (
	StatusHealthy  = "healthy"
	StatusDegraded = "degraded"
)

// EngineHealth holds the call counters of one engine.
type EngineHealth struct {
	Requests int64 `json:"requests"`
	Errors   int64 `json:"errors"`
}

// DatabaseHealth is the result of the accessor ping.
type DatabaseHealth struct {
	Connected bool          `json:"connected"`
	Latency   time.Duration `json:"latency_ns"`
	Error     string        `json:"error,omitempty"`
}

// Health is the system health view.
type Health struct {
	Status    string                  `json:"status"`
	CheckedAt time.Time               `json:"checked_at"`
	Database  DatabaseHealth          `json:"database"`
	Engines   map[string]EngineHealth `json:"engines"`
	Cache     cache.Stats             `json:"cache"`
	Features  Features                `json:"features"`
}

// SystemHealth pings the accessor and collects engine and cache counters.
// A failed ping marks the system degraded; it is not returned as an error.
func (s *Service) SystemHealth(ctx context.Context) *Health {
	h := &Health{
		Status:    StatusHealthy,
		CheckedAt: s.now(),
		Engines:   make(map[string]EngineHealth, 4),
		Cache:     s.dashboards.Stats(),
		Features:  s.Config().Features,
	}

	start := time.Now()
	err := s.deps.Accessor.Ping(ctx)
	h.Database.Latency = time.Since(start)
	if err != nil {
		h.Status = StatusDegraded
		h.Database.Error = err.Error()
		s.logger.Warn().Err(err).Msg("data store ping failed")
	} else {
		h.Database.Connected = true
	}

	as := s.deps.Analytics.Stats()
	h.Engines["analytics"] = EngineHealth{Requests: as.Requests, Errors: as.Errors}
	if s.deps.Recommend != nil {
		rs := s.deps.Recommend.Stats()
		h.Engines["recommend"] = EngineHealth{Requests: rs.Requests, Errors: rs.Errors}
	}
	if s.deps.Pricing != nil {
		ps := s.deps.Pricing.Stats()
		h.Engines["pricing"] = EngineHealth{Requests: ps.Requests, Errors: ps.Errors}
	}
	if s.deps.Chatbot != nil {
		cs := s.deps.Chatbot.Stats()
		h.Engines["chatbot"] = EngineHealth{Requests: cs.Messages, Errors: cs.Fallbacks}
	}
	return h
}
