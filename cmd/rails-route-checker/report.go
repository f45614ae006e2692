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
	"encoding/json"
	"fmt"
	"io"

	"github.com/ghiculescu/rails-route-checker/pkg/ux"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/engine"
)

// Report holds the results of one check run.
type Report struct {
	RunID                    string                  `json:"run_id"`
	App                      string                  `json:"app"`
	RoutesWithoutActions     []engine.RouteViolation `json:"routes_without_actions"`
	UndefinedPathMethodCalls []string                `json:"undefined_path_method_calls"`
	DurationMs               int64                   `json:"duration_ms"`
}

// Clean returns true when neither analysis found a violation.
func (r *Report) Clean() bool {
	return len(r.RoutesWithoutActions) == 0 && len(r.UndefinedPathMethodCalls) == 0
}

// RenderJSON writes the report as indented JSON.
func (r *Report) RenderJSON(w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r)
}

// RenderText writes the human-readable report. Styling degrades to
// plain text when stdout is not a terminal.
func (r *Report) RenderText(w io.Writer) {
	if r.Clean() {
		fmt.Fprintf(w, "%s %s\n",
			ux.IconSuccess.Render(),
			ux.Render(ux.Styles.Success, "No route or helper problems found."))
		return
	}

	if len(r.RoutesWithoutActions) > 0 {
		fmt.Fprintln(w, ux.Render(ux.Styles.Title,
			fmt.Sprintf("Routes without a matching action (%d)", len(r.RoutesWithoutActions))))
		for _, v := range r.RoutesWithoutActions {
			fmt.Fprintf(w, "  %s %s\n",
				ux.IconError.Render(),
				ux.Render(ux.Styles.Highlight, v.String()))
		}
		fmt.Fprintln(w)
	}

	if len(r.UndefinedPathMethodCalls) > 0 {
		fmt.Fprintln(w, ux.Render(ux.Styles.Title,
			fmt.Sprintf("Undefined path/url helper calls (%d)", len(r.UndefinedPathMethodCalls))))
		for _, name := range r.UndefinedPathMethodCalls {
			fmt.Fprintf(w, "  %s %s\n",
				ux.IconError.Render(),
				ux.Render(ux.Styles.Highlight, name))
		}
		fmt.Fprintln(w)
	}

	total := len(r.RoutesWithoutActions) + len(r.UndefinedPathMethodCalls)
	fmt.Fprintf(w, "%s\n", ux.Render(ux.Styles.Muted,
		fmt.Sprintf("%d problem(s) in %dms", total, r.DurationMs)))
}
