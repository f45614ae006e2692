// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"github.com/spf13/cobra"

	"github.com/ghiculescu/rails-route-checker/pkg/logging"
	"github.com/ghiculescu/rails-route-checker/pkg/ux"
)

// --- Global Command Variables ---
var (
	appRoot      string
	configPath   string
	manifestPath string
	debug        bool
	quiet        bool
	logJSON      bool
	logDir       string
	noColor      bool
	noDialects   []string

	logger *logging.Logger

	rootCmd = &cobra.Command{
		Use:   "rails-route-checker",
		Short: "Find dead routes and dangling path helpers in a Rails-style app",
		Long: `rails-route-checker statically audits a Ruby on Rails application for
two classes of dead references: routes whose controller action no longer
exists, and calls to _path/_url helpers that no route or helper defines.

It reads an exported route manifest plus the app/ tree and never loads
the application itself, so it is safe to run anywhere, including CI.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				ux.SetPlain(true)
			}

			level := logging.LevelInfo
			if debug {
				level = logging.LevelDebug
			}
			logger = logging.New(logging.Config{
				Level:     level,
				LogDir:    logDir,
				Component: cmd.Name(),
				JSON:      logJSON,
				Quiet:     quiet && !debug,
			})
			logger.Install()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				logger.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&appRoot, "app", ".",
		"Path to the application root (the directory containing app/)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "",
		"Path to the checker config file (default: <app>/.rails-route-checker.yml)")
	rootCmd.PersistentFlags().StringVar(&manifestPath, "routes-manifest", "",
		"Path to the exported route manifest (default: <app>/routes.yml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false,
		"Suppress diagnostic logging (report output is unaffected)")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false,
		"Emit diagnostic logs as JSON")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "",
		"Also write diagnostic logs to files in this directory")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false,
		"Disable colored output")
	rootCmd.PersistentFlags().StringSliceVar(&noDialects, "disable-dialect", nil,
		"Skip template dialects (e.g. 'haml'); matching files are ignored with a warning")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(watchCmd)
}
