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
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ghiculescu/rails-route-checker/pkg/ux"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/watch"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the check whenever application sources change",
	Long: `Watch runs an initial check, then observes the app/ and config/ trees
plus the checker config and route manifest, re-running the check after
each settled batch of changes. Every run rebuilds the application model
from scratch, so results always reflect the files on disk.

Stop with Ctrl-C. Watch never exits non-zero for violations; it is an
interactive tool, use 'check' in CI.`,
	Args: cobra.NoArgs,
	Run:  runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 250*time.Millisecond,
		"How long to wait for further changes before re-checking")
}

func runWatch(cmd *cobra.Command, args []string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root, err := filepath.Abs(appRoot)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: resolving app root: %v\n", err)
		os.Exit(ExitError)
	}

	// First run up front so a clean start is visible immediately.
	watchCheck(ctx)

	watcher, err := watch.New(root, func(changes []watch.Change) {
		logger.Debug("sources changed", "files", len(changes))
		fmt.Printf("\n%s\n", ux.Render(ux.Styles.Muted,
			fmt.Sprintf("%d file(s) changed, re-checking...", len(changes))))
		watchCheck(ctx)
	}, &watch.Options{
		Debounce: watchDebounce,
		ExtraPaths: []string{
			resolveConfigPath(root),
			resolveManifestPath(root),
		},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: starting watcher: %v\n", err)
		os.Exit(ExitError)
	}
	defer watcher.Stop()

	if err := watcher.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: watching %s: %v\n", root, err)
		os.Exit(ExitError)
	}

	logger.Info("watching for changes", "app", root)
	fmt.Println(ux.Render(ux.Styles.Muted, "Watching for changes. Ctrl-C to stop."))

	<-ctx.Done()
	fmt.Println()
	os.Exit(ExitSuccess)
}

// watchCheck runs one check and renders the report. Errors are shown
// but not fatal; a broken manifest mid-edit should not kill the
// watcher.
func watchCheck(ctx context.Context) {
	runCtx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report, err := runOnce(runCtx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	report.RenderText(os.Stdout)
}
