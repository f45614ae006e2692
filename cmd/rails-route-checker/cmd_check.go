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
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ghiculescu/rails-route-checker/services/routecheck/appmodel"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/config"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/engine"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/parsers"
)

// =============================================================================
// CONSTANTS AND TYPES
// =============================================================================

// Exit codes for check.
const (
	ExitSuccess   = 0
	ExitViolation = 1
	ExitError     = 2
)

// Default filenames, relative to the app root.
const (
	DefaultConfigFile   = ".rails-route-checker.yml"
	DefaultManifestFile = "routes.yml"
)

// checkTimeout bounds a single run. Large monoliths finish in seconds;
// anything past this is a hang.
const checkTimeout = 5 * time.Minute

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var checkJSON bool

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run both analyses and report dead routes and dangling helpers",
	Long: `Check cross-references the exported route manifest against the app/
tree and reports:

  - routes whose controller action (or implicit view template) is gone
  - _path/_url helper calls with no matching route, helper, or method

Examples:
  rails-route-checker check
  rails-route-checker check --app ../shop --routes-manifest tmp/routes.yml
  rails-route-checker check --json > report.json

Exit Codes:
  0 = No violations
  1 = Violations found
  2 = Error (bad manifest, unreadable config, scan failure)`,
	Args: cobra.NoArgs,
	Run:  runCheck,
}

func init() {
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output the report as JSON")
}

// =============================================================================
// COMMAND IMPLEMENTATION
// =============================================================================

func runCheck(cmd *cobra.Command, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), checkTimeout)
	defer cancel()

	report, err := runOnce(ctx)
	if err != nil {
		outputCheckError(err)
		os.Exit(ExitError)
	}

	if checkJSON {
		if err := report.RenderJSON(os.Stdout); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode JSON: %v\n", err)
			os.Exit(ExitError)
		}
	} else {
		report.RenderText(os.Stdout)
	}

	if report.Clean() {
		os.Exit(ExitSuccess)
	}
	os.Exit(ExitViolation)
}

// runOnce builds a fresh application model and runs both analyses.
// Shared with the watch command, which calls it per change batch.
func runOnce(ctx context.Context) (*Report, error) {
	start := time.Now()
	runID := uuid.NewString()

	root, err := filepath.Abs(appRoot)
	if err != nil {
		return nil, fmt.Errorf("resolving app root %s: %w", appRoot, err)
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("app root %s is not a directory", root)
	}

	log := logger.With("run_id", runID, "app", root)
	log.Debug("check starting")

	cfg, err := config.Load(resolveConfigPath(root))
	if err != nil {
		return nil, err
	}

	builder := &appmodel.ManifestBuilder{
		Root:         root,
		ManifestPath: resolveManifestPath(root),
	}
	model, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	var registryOpts []parsers.RegistryOption
	for _, dialect := range noDialects {
		registryOpts = append(registryOpts, parsers.WithDialectDisabled(dialect))
	}

	eng := engine.New(model, cfg,
		engine.WithRoot(root),
		engine.WithRegistry(parsers.NewRegistry(registryOpts...)),
	)

	routes := eng.RoutesWithoutActions(ctx)
	calls, err := eng.UndefinedPathMethodCalls(ctx)
	if err != nil {
		return nil, err
	}

	report := &Report{
		RunID:                    runID,
		App:                      root,
		RoutesWithoutActions:     routes,
		UndefinedPathMethodCalls: calls,
		DurationMs:               time.Since(start).Milliseconds(),
	}

	log.Info("check finished",
		"dead_routes", len(routes),
		"undefined_calls", len(calls),
		"duration_ms", report.DurationMs)

	return report, nil
}

// resolveConfigPath returns the --config value, or the conventional
// file under the app root.
func resolveConfigPath(root string) string {
	if configPath != "" {
		return configPath
	}
	return filepath.Join(root, DefaultConfigFile)
}

// resolveManifestPath returns the --routes-manifest value, or the
// conventional file under the app root.
func resolveManifestPath(root string) string {
	if manifestPath != "" {
		return manifestPath
	}
	return filepath.Join(root, DefaultManifestFile)
}

func outputCheckError(err error) {
	if checkJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		encoder.Encode(map[string]any{
			"success": false,
			"error":   err.Error(),
		})
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
