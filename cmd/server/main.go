// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package main is the tablesense command.
//
// With no subcommand (or with serve) it starts the HTTP API under a supervisor
// tree. The quote and forecast subcommands run a single engine call against
// the configured store and print JSON, which is handy for checking a config
// before deploying it.
//
// # Startup Order
//
//  1. Configuration: defaults, config file, then environment (koanf v2)
//  2. Logging: zerolog, bridged to slog for the supervisor
//  3. Store: seeded in-memory data or PostgreSQL, behind a circuit breaker
//  4. Signals: static, simulated or HTTP weather plus the holiday calendar
//  5. Engines: recommendation, pricing, analytics, chatbot
//  6. Orchestrator: feature toggles, dashboard cache, health
//  7. Supervisor tree: HTTP server and the optional dashboard warmer
//
// # Configuration
//
// The config file is found through --config, CONFIG_PATH, or the default
// search paths (config.yaml in the working directory, /etc/tablesense).
// Any key can be set from the environment as TABLESENSE_SECTION__KEY, for
// example TABLESENSE_PRICING__MAX_MULTIPLIER=1.3.
//
// The orchestrator section is reloaded when the config file changes, so
// feature toggles and cache settings apply without a restart.
package main

func main() {
	Execute()
}
