// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package orchestrator

import (
	"fmt"
	"time"
)

// Feature names a switchable engine surface.
type Feature string

// Switchable features.
const (
	FeatureRecommendations Feature = "recommendations"
	FeatureDynamicPricing  Feature = "dynamic_pricing"
	FeatureAnalytics       Feature = "analytics"
	FeatureChatbot         Feature = "chatbot"
)

// Features toggles the engine surfaces at runtime.
type Features struct {
	Recommendations bool `json:"recommendations" koanf:"recommendations"`
	DynamicPricing  bool `json:"dynamic_pricing" koanf:"dynamic_pricing"`
	Analytics       bool `json:"analytics" koanf:"analytics"`
	Chatbot         bool `json:"chatbot" koanf:"chatbot"`
}

// Enabled reports whether f is switched on. Unknown features are off.
func (f Features) Enabled(feature Feature) bool {
	switch feature {
	case FeatureRecommendations:
		return f.Recommendations
	case FeatureDynamicPricing:
		return f.DynamicPricing
	case FeatureAnalytics:
		return f.Analytics
	case FeatureChatbot:
		return f.Chatbot
	default:
		return false
	}
}

// Config is the runtime-updatable orchestration policy.
type Config struct {
	// CacheTTL is how long an assembled dashboard is served from memory.
	// Default: 5 minutes.
	CacheTTL time.Duration `json:"cache_ttl" koanf:"cache_ttl" validate:"min=0"`

	// RevenueHorizon is the revenue forecast period. Default: week.
	RevenueHorizon string `json:"revenue_horizon" koanf:"revenue_horizon" validate:"omitempty,oneof=hour shift day week"`

	Features Features `json:"features" koanf:"features"`
}

// DefaultConfig returns every feature enabled and a 5-minute cache.
func DefaultConfig() *Config {
	return &Config{
		CacheTTL:       5 * time.Minute,
		RevenueHorizon: "week",
		Features: Features{
			Recommendations: true,
			DynamicPricing:  true,
			Analytics:       true,
			Chatbot:         true,
		},
	}
}

// Validate checks the policy.
func (c *Config) Validate() error {
	if c.CacheTTL <= 0 {
		return fmt.Errorf("cache_ttl must be positive, got %v", c.CacheTTL)
	}
	switch c.RevenueHorizon {
	case "hour", "shift", "day", "week":
	default:
		return fmt.Errorf("revenue_horizon must be one of hour, shift, day, week; got %q", c.RevenueHorizon)
	}
	return nil
}

// Clone returns a copy of the config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
