// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package config loads the server configuration.
//
// Values are layered with koanf v2, later layers winning:
//
//  1. built-in defaults (the engines' DefaultConfig policies)
//  2. an optional YAML file (CONFIG_PATH or config.yaml in the working directory)
//  3. environment variables
//
// Environment variables come in two forms. Short names such as HTTP_PORT,
// LOG_LEVEL or DATABASE_URL map to fixed keys. Any key can also be set as
// TABLESENSE_<SECTION>__<KEY>, where a double underscore separates levels:
// TABLESENSE_PRICING__MAX_MULTIPLIER=1.2 sets pricing.max_multiplier.
//
// The loaded config is checked with struct tags (go-playground/validator)
// and then with each engine policy's own Validate.
package config

import (
	"time"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/chatbot"
	"github.com/tomtom215/tablesense/internal/logging"
	"github.com/tomtom215/tablesense/internal/orchestrator"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
	"github.com/tomtom215/tablesense/internal/store"
	"github.com/tomtom215/tablesense/internal/store/postgres"
)

// Config is the complete server configuration.
type Config struct {
	Server       ServerConfig        `koanf:"server"`
	Logging      LoggingConfig       `koanf:"logging"`
	Database     DatabaseConfig      `koanf:"database"`
	Signals      SignalsConfig       `koanf:"signals"`
	Recommend    recommend.Config    `koanf:"recommend"`
	Pricing      pricing.Config      `koanf:"pricing"`
	Analytics    analytics.Config    `koanf:"analytics"`
	Chatbot      chatbot.Config      `koanf:"chatbot"`
	Orchestrator orchestrator.Config `koanf:"orchestrator"`
	Warmer       WarmerConfig        `koanf:"warmer"`
	Security     SecurityConfig      `koanf:"security"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// RequestTimeout bounds each engine call made by a handler.
	RequestTimeout time.Duration `koanf:"request_timeout" validate:"gt=0"`

	Environment string `koanf:"environment" validate:"oneof=development production"`
}

// LoggingConfig mirrors logging.Config without the output writer.
type LoggingConfig struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn error fatal panic disabled"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// ToLogging converts to the logging package config.
func (c LoggingConfig) ToLogging() logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = c.Level
	cfg.Format = c.Format
	cfg.Caller = c.Caller
	return cfg
}

// DatabaseConfig selects and tunes the data accessor.
type DatabaseConfig struct {
	// Driver is memory (seeded demo data) or postgres.
	Driver string `koanf:"driver" validate:"oneof=memory postgres"`

	URL             string        `koanf:"url"`
	MaxConnections  int32         `koanf:"max_connections" validate:"min=1"`
	MaxConnLifetime time.Duration `koanf:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `koanf:"max_conn_idle_time"`

	// EnsureSchema creates missing tables on startup (postgres only).
	EnsureSchema bool `koanf:"ensure_schema"`

	// SeedCustomers and SeedDays size the memory driver's demo data.
	SeedCustomers int   `koanf:"seed_customers" validate:"min=0"`
	SeedDays      int   `koanf:"seed_days" validate:"min=1"`
	SeedValue     int64 `koanf:"seed_value"`

	Resilience ResilienceConfig `koanf:"resilience"`
}

// Postgres returns the pgx pool settings.
func (c DatabaseConfig) Postgres() *postgres.Config {
	return &postgres.Config{
		URL:             c.URL,
		MaxConnections:  c.MaxConnections,
		MaxConnLifetime: c.MaxConnLifetime,
		MaxConnIdleTime: c.MaxConnIdleTime,
	}
}

// ResilienceConfig tunes the breaker and retry around the accessor.
type ResilienceConfig struct {
	RetryDelay   time.Duration `koanf:"retry_delay"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio" validate:"gt=0,lte=1"`
	OpenTimeout  time.Duration `koanf:"open_timeout" validate:"gt=0"`
}

// ToStore converts to store.ResilientConfig.
func (c ResilienceConfig) ToStore() store.ResilientConfig {
	cfg := store.DefaultResilientConfig()
	cfg.RetryDelay = c.RetryDelay
	cfg.MinRequests = c.MinRequests
	cfg.FailureRatio = c.FailureRatio
	cfg.OpenTimeout = c.OpenTimeout
	return cfg
}

// SignalsConfig selects the external signal providers.
type SignalsConfig struct {
	// Mode: static (neutral signals), simulated (seeded random) or http
	// (HTTP weather endpoint, simulated for the rest).
	Mode string `koanf:"mode" validate:"oneof=static simulated http"`

	Seed           int64         `koanf:"seed"`
	WeatherURL     string        `koanf:"weather_url" validate:"omitempty,url"`
	WeatherTimeout time.Duration `koanf:"weather_timeout" validate:"gt=0"`

	// Holidays are MM-DD dates added to the fixed federal holidays.
	Holidays []string `koanf:"holidays" validate:"dive,datetime=01-02"`
}

// WarmerConfig controls the background dashboard warmer.
type WarmerConfig struct {
	Enabled            bool          `koanf:"enabled"`
	RestaurantIDs      []int         `koanf:"restaurant_ids" validate:"dive,min=1"`
	Interval           time.Duration `koanf:"interval" validate:"gt=0"`
	RefreshesPerSecond float64       `koanf:"refreshes_per_second" validate:"gt=0"`
}

// SecurityConfig holds CORS and rate limiting.
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitRequests int           `koanf:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`

	// ChatRateLimitRequests is a tighter per-IP limit on the chat endpoint.
	ChatRateLimitRequests int `koanf:"chat_rate_limit_requests" validate:"min=1"`
}

// defaultConfig returns the built-in defaults, the first koanf layer.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			RequestTimeout:  10 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{Level: "info", Format: "json"},
		Database: DatabaseConfig{
			Driver:          "memory",
			MaxConnections:  10,
			MaxConnLifetime: time.Hour,
			MaxConnIdleTime: 30 * time.Minute,
			SeedCustomers:   40,
			SeedDays:        90,
			SeedValue:       42,
			Resilience: ResilienceConfig{
				RetryDelay:   50 * time.Millisecond,
				MinRequests:  10,
				FailureRatio: 0.6,
				OpenTimeout:  30 * time.Second,
			},
		},
		Signals: SignalsConfig{
			Mode:           "static",
			Seed:           1,
			WeatherTimeout: 2 * time.Second,
		},
		Recommend:    *recommend.DefaultConfig(),
		Pricing:      *pricing.DefaultConfig(),
		Analytics:    *analytics.DefaultConfig(),
		Chatbot:      *chatbot.DefaultConfig(),
		Orchestrator: *orchestrator.DefaultConfig(),
		Warmer: WarmerConfig{
			Interval:           4 * time.Minute,
			RefreshesPerSecond: 2,
		},
		Security: SecurityConfig{
			CORSOrigins:           []string{"*"},
			RateLimitRequests:     100,
			RateLimitWindow:       time.Minute,
			ChatRateLimitRequests: 20,
		},
	}
}
