// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package services adapts server components to suture.Service.
//
// HTTPServerService turns the blocking ListenAndServe of an *http.Server
// into a context-aware Serve with graceful shutdown. DashboardWarmerService
// periodically rebuilds the dashboards of configured restaurants so the
// first owner request of a cache period is served from memory.
package services
