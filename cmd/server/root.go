// Tablesense - Restaurant Decision Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/tablesense

package main

import (
	"fmt"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tomtom215/tablesense/internal/config"
	"github.com/tomtom215/tablesense/internal/logging"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tablesense",
	Short: "Restaurant decision engine",
	Long: `tablesense serves personalized menu recommendations, dynamic prices,
demand and revenue forecasts, and an owner dashboard for restaurants.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "tablesense %s (%s)\n", version, runtime.Version())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $CONFIG_PATH, ./config.yaml or /etc/tablesense/config.yaml)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(quoteCmd)
	rootCmd.AddCommand(forecastCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the --config file when given, otherwise searches the
// default locations, and initializes logging from the result.
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	logging.Init(cfg.Logging.ToLogging())
	return cfg, nil
}

// configPath is the file the loaded config came from, if any.
func configPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.FindConfigFile()
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
