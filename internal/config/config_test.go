// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package config

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/validation"
)

// isolate runs the test from an empty directory with no config file.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Database.Driver != "memory" || cfg.Signals.Mode != "static" {
		t.Errorf("unexpected defaults: port=%d driver=%s signals=%s", cfg.Server.Port, cfg.Database.Driver, cfg.Signals.Mode)
	}
	if cfg.Pricing.MaxMultiplier != pricing.DefaultConfig().MaxMultiplier {
		t.Errorf("pricing.max_multiplier = %v", cfg.Pricing.MaxMultiplier)
	}
	if cfg.Orchestrator.CacheTTL != 5*time.Minute {
		t.Errorf("orchestrator.cache_ttl = %v", cfg.Orchestrator.CacheTTL)
	}
	if !cfg.Orchestrator.Features.Chatbot {
		t.Error("chatbot feature disabled by default")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	isolate(t)
	path := writeConfig(t, `
server:
  port: 9090
pricing:
  max_multiplier: 1.3
orchestrator:
  cache_ttl: 10m
  features:
    dynamic_pricing: false
warmer:
  enabled: true
  restaurant_ids: [1, 2]
signals:
  holidays: ["03-17"]
`)
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Pricing.MaxMultiplier != 1.3 {
		t.Errorf("max_multiplier = %v, want 1.3", cfg.Pricing.MaxMultiplier)
	}
	if cfg.Pricing.MinMultiplier != 0.80 {
		t.Errorf("min_multiplier = %v, want untouched default", cfg.Pricing.MinMultiplier)
	}
	if cfg.Orchestrator.CacheTTL != 10*time.Minute {
		t.Errorf("cache_ttl = %v, want 10m", cfg.Orchestrator.CacheTTL)
	}
	if cfg.Orchestrator.Features.DynamicPricing || !cfg.Orchestrator.Features.Analytics {
		t.Errorf("features = %+v", cfg.Orchestrator.Features)
	}
	if !reflect.DeepEqual(cfg.Warmer.RestaurantIDs, []int{1, 2}) {
		t.Errorf("restaurant_ids = %v", cfg.Warmer.RestaurantIDs)
	}
	if !reflect.DeepEqual(cfg.Signals.Holidays, []string{"03-17"}) {
		t.Errorf("holidays = %v", cfg.Signals.Holidays)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	isolate(t)
	t.Setenv(ConfigPathEnvVar, writeConfig(t, "server:\n  port: 9090\n"))
	t.Setenv("HTTP_PORT", "7070")
	t.Setenv("TABLESENSE_PRICING__MAX_MULTIPLIER", "1.15")
	t.Setenv("TABLESENSE_RECOMMEND__WEIGHTS__CONTENT", "0.5")
	t.Setenv("DASHBOARD_CACHE_TTL", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Pricing.MaxMultiplier != 1.15 {
		t.Errorf("max_multiplier = %v, want 1.15", cfg.Pricing.MaxMultiplier)
	}
	if cfg.Recommend.Weights.Content != 0.5 {
		t.Errorf("weights.content = %v, want 0.5", cfg.Recommend.Weights.Content)
	}
	if cfg.Orchestrator.CacheTTL != 2*time.Minute {
		t.Errorf("cache_ttl = %v, want 2m", cfg.Orchestrator.CacheTTL)
	}
}

func TestLoad_CommaSeparatedSlices(t *testing.T) {
	isolate(t)
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("ENABLE_DASHBOARD_WARMER", "true")
	t.Setenv("WARMER_RESTAURANT_IDS", "3,4")
	t.Setenv("HOLIDAYS", "03-17, 10-31")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(cfg.Security.CORSOrigins, []string{"https://a.example", "https://b.example"}) {
		t.Errorf("cors_origins = %v", cfg.Security.CORSOrigins)
	}
	if !reflect.DeepEqual(cfg.Warmer.RestaurantIDs, []int{3, 4}) {
		t.Errorf("restaurant_ids = %v", cfg.Warmer.RestaurantIDs)
	}
	if !reflect.DeepEqual(cfg.Signals.Holidays, []string{"03-17", "10-31"}) {
		t.Errorf("holidays = %v", cfg.Signals.Holidays)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"bad log level", map[string]string{"LOG_LEVEL": "loud"}, "level"},
		{"port out of range", map[string]string{"HTTP_PORT": "70000"}, "port"},
		{"postgres without url", map[string]string{"DATABASE_DRIVER": "postgres"}, "database.url"},
		{"http signals without url", map[string]string{"SIGNALS_MODE": "http"}, "weather_url"},
		{"warmer without restaurants", map[string]string{"ENABLE_DASHBOARD_WARMER": "true"}, "restaurant_ids"},
		{"warmer slower than ttl", map[string]string{
			"ENABLE_DASHBOARD_WARMER": "true",
			"WARMER_RESTAURANT_IDS":   "1",
			"WARMER_INTERVAL":         "10m",
		}, "warmer.interval"},
		{"engine policy", map[string]string{"TABLESENSE_PRICING__MIN_MULTIPLIER": "1.5"}, "pricing"},
		{"wildcard cors in production", map[string]string{"APP_ENVIRONMENT": "production"}, "cors_origins"},
		{"bad holiday", map[string]string{"HOLIDAYS": "17/03"}, "holidays"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoad_TagErrorsAreValidationErrors(t *testing.T) {
	isolate(t)
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	if !validation.IsValidationError(err) {
		t.Errorf("err = %v, want a validation error", err)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestFindConfigFile(t *testing.T) {
	isolate(t)
	if got := FindConfigFile(); got != "" {
		t.Errorf("FindConfigFile() = %q, want none", got)
	}
	if err := os.WriteFile("config.yml", []byte("server:\n  port: 8081\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(); got != "config.yml" {
		t.Errorf("FindConfigFile() = %q, want config.yml", got)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	tests := map[string]string{
		"HTTP_PORT":                                    "server.port",
		"LOG_LEVEL":                                    "logging.level",
		"DATABASE_URL":                                 "database.url",
		"ENABLE_CHATBOT":                               "orchestrator.features.chatbot",
		"TABLESENSE_PRICING__MAX_MULTIPLIER":           "pricing.max_multiplier",
		"TABLESENSE_DATABASE__RESILIENCE__RETRY_DELAY": "database.resilience.retry_delay",
		"TABLESENSE_NOSECTION":                         "",
		"HOME":                                         "",
	}
	for in, want := range tests {
		if got := envTransformFunc(in); got != want {
			t.Errorf("envTransformFunc(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestConversions(t *testing.T) {
	cfg := defaultConfig()

	lc := cfg.Logging.ToLogging()
	if lc.Level != "info" || lc.Format != "json" {
		t.Errorf("ToLogging() = %+v", lc)
	}

	rc := cfg.Database.Resilience.ToStore()
	if rc.MinRequests != 10 || rc.FailureRatio != 0.6 || rc.Name == "" {
		t.Errorf("ToStore() = %+v", rc)
	}

	pg := cfg.Database.Postgres()
	if pg.MaxConnections != 10 || pg.MaxConnLifetime != time.Hour {
		t.Errorf("Postgres() = %+v", pg)
	}
}
