// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order when CONFIG_PATH is unset.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tablesense/config.yaml",
	"/etc/tablesense/config.yml",
}

// ConfigPathEnvVar overrides the config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// envPrefix marks the generic TABLESENSE_SECTION__KEY form.
const envPrefix = "tablesense_"

// Load builds the configuration: defaults, then the config file, then env.
func Load() (*Config, error) {
	return load(findConfigFile())
}

// LoadFile is Load with an explicit config file path.
func LoadFile(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	return load(path)
}

func load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile returns the first existing config file, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// FindConfigFile reports which file Load would read, or "" for none.
func FindConfigFile() string {
	return findConfigFile()
}

// sliceConfigPaths are split on commas when they arrive as strings.
var sliceConfigPaths = []string{
	"security.cors_origins",
	"signals.holidays",
	"warmer.restaurant_ids",
}

// processSliceFields turns comma-separated env values into slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings are the short environment variable names.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"port":             "server.port",
	"read_timeout":     "server.read_timeout",
	"write_timeout":    "server.write_timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"request_timeout":  "server.request_timeout",
	"app_environment":  "server.environment",

	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	"database_driver":          "database.driver",
	"database_url":             "database.url",
	"database_max_connections": "database.max_connections",
	"database_ensure_schema":   "database.ensure_schema",
	"seed_customers":           "database.seed_customers",
	"seed_days":                "database.seed_days",

	"signals_mode":    "signals.mode",
	"weather_url":     "signals.weather_url",
	"weather_timeout": "signals.weather_timeout",
	"holidays":        "signals.holidays",

	"dashboard_cache_ttl":    "orchestrator.cache_ttl",
	"revenue_horizon":        "orchestrator.revenue_horizon",
	"enable_recommendations": "orchestrator.features.recommendations",
	"enable_dynamic_pricing": "orchestrator.features.dynamic_pricing",
	"enable_analytics":       "orchestrator.features.analytics",
	"enable_chatbot":         "orchestrator.features.chatbot",

	"enable_dashboard_warmer": "warmer.enabled",
	"warmer_restaurant_ids":   "warmer.restaurant_ids",
	"warmer_interval":         "warmer.interval",

	"cors_origins":             "security.cors_origins",
	"rate_limit_requests":      "security.rate_limit_requests",
	"rate_limit_window":        "security.rate_limit_window",
	"disable_rate_limit":       "security.rate_limit_disabled",
	"chat_rate_limit_requests": "security.chat_rate_limit_requests",
}

// envTransformFunc maps an environment variable name to a koanf path.
// Unknown names return "" and are skipped.
//
//   - HTTP_PORT -> server.port
//   - TABLESENSE_PRICING__MAX_MULTIPLIER -> pricing.max_multiplier
//   - TABLESENSE_RECOMMEND__WEIGHTS__CONTENT -> recommend.weights.content
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	if rest, ok := strings.CutPrefix(key, envPrefix); ok && strings.Contains(rest, "__") {
		return strings.ReplaceAll(rest, "__", ".")
	}
	return ""
}

// WatchConfigFile calls callback whenever the file changes. The callback
// is responsible for reloading and for any locking.
func WatchConfigFile(path string, callback func()) error {
	return file.Provider(path).Watch(func(_ interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	})
}
