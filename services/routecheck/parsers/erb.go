// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parsers

import (
	"context"
	"log/slog"
	"os"
	"regexp"
	"strings"
)

// erbTag matches one embedded code tag, output or scriptlet, with
// optional whitespace-trim markers.
var erbTag = regexp.MustCompile(`(?s)<%[-=#]?(.*?)[-=]?%>`)

// ERBAdapter extracts helper invocations from ERB templates.
//
// Description:
//
//	Pulls the embedded Ruby out of every <% %> / <%= %> tag, joins the
//	fragments, and hands them to the shared Ruby invocation scanner.
//	Comment tags (<%# %>) are dropped.
//
// Thread Safety: Safe for concurrent use; Run holds no adapter state.
type ERBAdapter struct{}

var _ Adapter = (*ERBAdapter)(nil)

// NewERBAdapter creates the ERB adapter.
func NewERBAdapter() *ERBAdapter {
	return &ERBAdapter{}
}

// Dialect returns "erb".
func (a *ERBAdapter) Dialect() string { return "erb" }

// Extensions returns the extensions handled by this adapter.
func (a *ERBAdapter) Extensions() []string { return []string{".erb"} }

// Run extracts, scans, and filters invocations from one template.
//
// A missing or unreadable file yields an empty result, not an error.
func (a *ERBAdapter) Run(ctx context.Context, filename string, filter Filter) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		slog.Warn("Skipping unreadable template",
			slog.String("dialect", a.Dialect()),
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	names, err := scanRubyFragment(ctx, []byte(extractERB(string(content))), filename)
	if err != nil {
		return nil, err
	}
	return applyFilter(names, filter), nil
}

// extractERB returns the embedded Ruby of all non-comment tags, one
// fragment per line.
func extractERB(content string) string {
	var fragments []string
	for _, m := range erbTag.FindAllStringSubmatch(content, -1) {
		if strings.HasPrefix(m[0], "<%#") {
			continue
		}
		if code := strings.TrimSpace(m[1]); code != "" {
			fragments = append(fragments, code)
		}
	}
	return strings.Join(fragments, "\n")
}
