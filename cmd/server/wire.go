// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/chatbot"
	"github.com/tomtom215/tablesense/internal/config"
	"github.com/tomtom215/tablesense/internal/logging"
	"github.com/tomtom215/tablesense/internal/orchestrator"
	"github.com/tomtom215/tablesense/internal/pricing"
	"github.com/tomtom215/tablesense/internal/recommend"
	"github.com/tomtom215/tablesense/internal/signals"
	"github.com/tomtom215/tablesense/internal/store"
	"github.com/tomtom215/tablesense/internal/store/postgres"
)

// app is the fully wired set of engines behind one store.
type app struct {
	store        *store.Resilient
	signals      signals.Set
	recommend    *recommend.Engine
	pricing      *pricing.Engine
	analytics    *analytics.Engine
	chatbot      *chatbot.Bot
	orchestrator *orchestrator.Service

	closers []func()
}

// Close releases the orchestrator cache and the database pool.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// buildApp wires every engine from cfg. now seeds the demo data and is the
// engines' clock; pass time.Now outside tests.
func buildApp(ctx context.Context, cfg *config.Config, now func() time.Time) (*app, error) {
	a := &app{}

	accessor, closeStore, err := buildStore(ctx, cfg.Database, now())
	if err != nil {
		return nil, err
	}
	if closeStore != nil {
		a.closers = append(a.closers, closeStore)
	}
	a.store = store.NewResilient(accessor, cfg.Database.Resilience.ToStore(), logging.Component("store"))

	a.signals, err = buildSignals(cfg.Signals)
	if err != nil {
		a.Close()
		return nil, err
	}

	if err := a.buildEngines(cfg, now); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) buildEngines(cfg *config.Config, now func() time.Time) error {
	var err error

	a.recommend, err = recommend.NewEngine(cfg.Recommend.Clone(), a.store, a.signals.Weather,
		logging.Component("recommend"), recommend.WithClock(now))
	if err != nil {
		return fmt.Errorf("recommendation engine: %w", err)
	}

	a.pricing, err = pricing.NewEngine(cfg.Pricing.Clone(), a.store, a.signals,
		logging.Component("pricing"), pricing.WithClock(now))
	if err != nil {
		return fmt.Errorf("pricing engine: %w", err)
	}

	a.analytics, err = analytics.NewEngine(cfg.Analytics.Clone(), a.store, a.signals,
		logging.Component("analytics"), analytics.WithClock(now))
	if err != nil {
		return fmt.Errorf("analytics engine: %w", err)
	}

	a.chatbot, err = chatbot.New(&cfg.Chatbot, a.store, a.recommend, a.pricing, a.analytics,
		logging.Component("chatbot"), chatbot.WithClock(now))
	if err != nil {
		return fmt.Errorf("chatbot: %w", err)
	}

	a.orchestrator, err = orchestrator.New(cfg.Orchestrator.Clone(), orchestrator.Dependencies{
		Accessor:  a.store,
		Analytics: a.analytics,
		Recommend: a.recommend,
		Pricing:   a.pricing,
		Chatbot:   a.chatbot,
	}, logging.Component("orchestrator"), orchestrator.WithClock(now))
	if err != nil {
		return fmt.Errorf("orchestrator: %w", err)
	}
	a.closers = append(a.closers, a.orchestrator.Close)
	return nil
}

// buildStore opens the configured backend. The memory driver is seeded with
// demo data ending at now. The returned func closes the backend, if needed.
func buildStore(ctx context.Context, cfg config.DatabaseConfig, now time.Time) (store.Accessor, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pg, err := postgres.Open(ctx, cfg.Postgres())
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres: %w", err)
		}
		if cfg.EnsureSchema {
			version, err := pg.EnsureSchema(ctx)
			if err != nil {
				pg.Close()
				return nil, nil, fmt.Errorf("ensure schema: %w", err)
			}
			logging.Info().Uint("schema_version", version).Msg("Database migrations applied")
		}
		logging.Info().Int32("max_connections", cfg.MaxConnections).Msg("PostgreSQL store ready")
		return pg, pg.Close, nil
	default:
		mem := store.NewMemory()
		store.Seed(mem, store.SeedOptions{
			Seed:      cfg.SeedValue,
			Customers: cfg.SeedCustomers,
			Days:      cfg.SeedDays,
			Now:       now,
		})
		logging.Info().
			Int("customers", cfg.SeedCustomers).
			Int("days", cfg.SeedDays).
			Msg("In-memory store seeded with demo data")
		return mem, nil, nil
	}
}

// buildSignals picks the external signal providers for the configured mode.
// Providers the mode leaves unset fall back to neutral values.
func buildSignals(cfg config.SignalsConfig) (signals.Set, error) {
	var set signals.Set
	switch cfg.Mode {
	case "simulated", "http":
		sim := signals.NewSimulated(cfg.Seed)
		set = signals.Set{Weather: sim, Inventory: sim, Events: sim, Engagement: sim}
		if cfg.Mode == "http" {
			set.Weather = signals.NewHTTPWeather(cfg.WeatherURL, cfg.WeatherTimeout, logging.Component("weather"))
		}
	}

	dates := make([]string, 0, len(signals.DefaultHolidays)+len(cfg.Holidays))
	dates = append(dates, signals.DefaultHolidays...)
	dates = append(dates, cfg.Holidays...)
	holidays, err := signals.NewFixedHolidays(dates)
	if err != nil {
		return signals.Set{}, fmt.Errorf("holiday calendar: %w", err)
	}
	set.Holidays = holidays
	return set.WithDefaults(), nil
}
