// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

// Package analytics forecasts demand and revenue, sizes staffing, segments
// customers, scores churn risk and suggests menu price changes.
//
// Forecasts split the HistoryPeriods periods before the target into a
// series, take its mean as the baseline, its least-squares slope as the
// trend and a calendar-bucket fraction of the baseline as seasonality. The
// sum is scaled by one plus the weather, event and holiday factors. Signal
// provider failures drop the factor and never fail the forecast.
//
// Customer analyses only consider customers with at least one
// non-cancelled order at the restaurant.
package analytics
