// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package config

import (
	"errors"
	"fmt"

	"github.com/tomtom215/tablesense/internal/validation"
)

// Validate checks struct tags, then each engine policy, then the rules
// that span sections.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return err
	}

	policies := []struct {
		name     string
		validate func() error
	}{
		{"recommend", c.Recommend.Validate},
		{"pricing", c.Pricing.Validate},
		{"analytics", c.Analytics.Validate},
		{"chatbot", c.Chatbot.Validate},
		{"orchestrator", c.Orchestrator.Validate},
	}
	for _, p := range policies {
		if err := p.validate(); err != nil {
			return fmt.Errorf("%s: %w", p.name, err)
		}
	}

	if c.Database.Driver == "postgres" && c.Database.URL == "" {
		return errors.New("database.url is required when database.driver is postgres")
	}
	if c.Signals.Mode == "http" && c.Signals.WeatherURL == "" {
		return errors.New("signals.weather_url is required when signals.mode is http")
	}
	if c.Warmer.Enabled && len(c.Warmer.RestaurantIDs) == 0 {
		return errors.New("warmer.restaurant_ids must list at least one restaurant when the warmer is enabled")
	}
	if c.Warmer.Enabled && c.Warmer.Interval >= c.Orchestrator.CacheTTL {
		return fmt.Errorf("warmer.interval (%v) must be shorter than orchestrator.cache_ttl (%v)",
			c.Warmer.Interval, c.Orchestrator.CacheTTL)
	}
	if c.Server.Environment == "production" {
		for _, origin := range c.Security.CORSOrigins {
			if origin == "*" {
				return errors.New("security.cors_origins must not contain * in production")
			}
		}
	}
	return nil
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// Addr returns the HTTP listen address.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
