// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/tablesense/internal/analytics"
	"github.com/tomtom215/tablesense/internal/pricing"
)

var quoteFlags struct {
	restaurant int
	item       int
	factors    []string
}

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Print dynamic prices for one item or a whole menu",
	Example: `  tablesense quote --restaurant 1
  tablesense quote --restaurant 1 --item 3 --factors demand,weather`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) (any, error) {
			var names []string
			if cmd.Flags().Changed("factors") {
				names = quoteFlags.factors
			}
			opts, err := pricing.ParseOptions(names)
			if err != nil {
				return nil, err
			}
			if quoteFlags.item > 0 {
				return a.pricing.GetDynamicPrice(ctx, quoteFlags.item, quoteFlags.restaurant, opts)
			}
			return a.pricing.QuoteMenu(ctx, quoteFlags.restaurant, opts)
		})
	},
}

var forecastFlags struct {
	restaurant int
	timeframe  string
	date       string
}

// forecastReport is the output of the forecast command.
type forecastReport struct {
	Demand   *analytics.DemandPrediction  `json:"demand"`
	Revenue  *analytics.RevenuePrediction `json:"revenue"`
	Staffing *analytics.StaffingPlan      `json:"staffing"`
}

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Print demand, revenue and staffing forecasts for a restaurant",
	Example: `  tablesense forecast --restaurant 1
  tablesense forecast --restaurant 1 --timeframe week --date 2026-11-02`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withApp(cmd, func(ctx context.Context, a *app) (any, error) {
			tf, err := analytics.ParseTimeframe(forecastFlags.timeframe)
			if err != nil {
				return nil, err
			}
			target, err := forecastDate(forecastFlags.date, time.Now())
			if err != nil {
				return nil, err
			}

			var report forecastReport
			if report.Demand, err = a.analytics.PredictDemand(ctx, forecastFlags.restaurant, tf, target); err != nil {
				return nil, err
			}
			if report.Revenue, err = a.analytics.PredictRevenue(ctx, forecastFlags.restaurant, tf, target); err != nil {
				return nil, err
			}
			if report.Staffing, err = a.analytics.PredictStaffingNeeds(ctx, forecastFlags.restaurant, target, nil); err != nil {
				return nil, err
			}
			return report, nil
		})
	},
}

func init() {
	quoteCmd.Flags().IntVar(&quoteFlags.restaurant, "restaurant", 1, "restaurant id")
	quoteCmd.Flags().IntVar(&quoteFlags.item, "item", 0, "menu item id (default: every item on the menu)")
	quoteCmd.Flags().StringSliceVar(&quoteFlags.factors, "factors", nil, "pricing factors to apply (default: all)")

	forecastCmd.Flags().IntVar(&forecastFlags.restaurant, "restaurant", 1, "restaurant id")
	forecastCmd.Flags().StringVar(&forecastFlags.timeframe, "timeframe", string(analytics.TimeframeDay), "hour, shift, day or week")
	forecastCmd.Flags().StringVar(&forecastFlags.date, "date", "", "target date as YYYY-MM-DD (default: tomorrow)")
}

// withApp loads config, wires the engines, runs fn and prints its result
// as indented JSON.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) (any, error)) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Server.RequestTimeout)
	defer cancel()

	a, err := buildApp(ctx, cfg, time.Now)
	if err != nil {
		return err
	}
	defer a.Close()

	result, err := fn(ctx, a)
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), result)
}

func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// forecastDate parses raw as a UTC date. Empty means the day after now.
func forecastDate(raw string, now time.Time) (time.Time, error) {
	if raw == "" {
		y, m, d := now.UTC().AddDate(0, 0, 1).Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}
	t, err := time.Parse(time.DateOnly, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", raw)
	}
	return t, nil
}
