// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tomtom215/tablesense/internal/api"
	"github.com/tomtom215/tablesense/internal/config"
	"github.com/tomtom215/tablesense/internal/logging"
	"github.com/tomtom215/tablesense/internal/metrics"
	"github.com/tomtom215/tablesense/internal/middleware"
	"github.com/tomtom215/tablesense/internal/supervisor"
	"github.com/tomtom215/tablesense/internal/supervisor/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("database", cfg.Database.Driver).
		Str("signals", cfg.Signals.Mode).
		Msg("Starting tablesense with supervisor tree")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := buildApp(ctx, cfg, time.Now)
	if err != nil {
		return err
	}
	defer a.Close()

	handler, err := api.NewHandler(api.Dependencies{
		Orchestrator: a.orchestrator,
		Recommend:    a.recommend,
		Pricing:      a.pricing,
		Analytics:    a.analytics,
		Chatbot:      a.chatbot,
		Performance:  middleware.NewPerformanceMonitor(1000, time.Second),
	},
		api.WithRequestTimeout(cfg.Server.RequestTimeout),
		api.WithTrendingWindow(cfg.Chatbot.TrendingWindow),
	)
	if err != nil {
		return err
	}
	router := api.NewRouter(handler, middlewareConfig(cfg.Security))

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (security.rate_limit_disabled=true)")
	}
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			logging.Warn().Msg("CORS allows any origin (security.cors_origins=*); restrict it before exposing the API")
			break
		}
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Component("http")))
	logging.Info().Str("addr", server.Addr).Msg("HTTP server service added")

	if cfg.Warmer.Enabled {
		tree.AddEngineService(services.NewDashboardWarmerService(a.orchestrator, services.WarmerConfig{
			RestaurantIDs:      cfg.Warmer.RestaurantIDs,
			Interval:           cfg.Warmer.Interval,
			RefreshesPerSecond: cfg.Warmer.RefreshesPerSecond,
			RefreshTimeout:     cfg.Server.RequestTimeout,
		}, logging.Component("warmer")))
		logging.Info().Ints("restaurant_ids", cfg.Warmer.RestaurantIDs).Msg("Dashboard warmer added to supervisor tree")
	}

	if path := configPath(); path != "" {
		watchConfig(path, a)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree...")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish...")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Err(err).Msg("Supervisor tree error")
		}
	}

	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
	return nil
}

// middlewareConfig maps the security section onto the router middleware.
func middlewareConfig(sec config.SecurityConfig) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = sec.CORSOrigins
	mw.RateLimitRequests = sec.RateLimitRequests
	mw.RateLimitWindow = sec.RateLimitWindow
	mw.RateLimitDisabled = sec.RateLimitDisabled
	mw.ChatRateLimitRequests = sec.ChatRateLimitRequests
	return mw
}

// watchConfig applies orchestrator changes from the config file. Other
// sections need a restart; an invalid file is logged and ignored.
func watchConfig(path string, a *app) {
	err := config.WatchConfigFile(path, func() {
		cfg, err := config.LoadFile(path)
		if err != nil {
			logging.Warn().Err(err).Str("path", path).Msg("Ignoring invalid config change")
			return
		}
		if err := a.orchestrator.UpdateConfig(cfg.Orchestrator.Clone()); err != nil {
			logging.Warn().Err(err).Msg("Orchestrator rejected reloaded config")
			return
		}
		logging.Info().Str("path", path).Msg("Orchestrator config reloaded")
	})
	if err != nil {
		logging.Warn().Err(err).Str("path", path).Msg("Config file watch unavailable")
		return
	}
	logging.Debug().Str("path", path).Msg("Watching config file for orchestrator changes")
}
