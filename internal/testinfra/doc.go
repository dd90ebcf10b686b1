// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package testinfra provides container helpers for integration tests.
//
// Everything in this package is behind the integration build tag:
//
//	go test -tags integration ./internal/store/postgres/...
//
// Tests skip when Docker is unavailable or -short is set. First runs may need
// to pull the postgres image.
package testinfra
