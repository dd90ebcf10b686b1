// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

/*
Package cache provides a thread-safe, generic in-memory TTL cache.

The orchestrator keeps aggregated restaurant dashboards here for a short
time so repeated dashboard views do not re-run six engine calls.

# Expiration

Entries expire TTL after they were written. Expiry is checked lazily on Get
and by a background sweep every DefaultCleanupInterval (configurable with
WithCleanupInterval). Call Close to stop the sweep.

# Invalidation

Clear drops every entry at once and is used for wholesale invalidation
after a configuration change. Delete removes a single key.

# Metrics

Hits, misses, size and invalidations are exported through
internal/metrics, labelled with the cache name passed to New.

# Thread Safety

All methods are safe for concurrent use. Concurrent writers to the same key
are last-writer-wins.
*/
package cache
