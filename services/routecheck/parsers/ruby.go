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
)

// RubyAdapter extracts helper invocations from Ruby source files.
//
// The whole file goes straight through the shared tree-sitter scanner;
// there is no extraction step.
//
// Thread Safety: Safe for concurrent use; Run holds no adapter state.
type RubyAdapter struct{}

var _ Adapter = (*RubyAdapter)(nil)

// NewRubyAdapter creates the Ruby adapter.
func NewRubyAdapter() *RubyAdapter {
	return &RubyAdapter{}
}

// Dialect returns "ruby".
func (a *RubyAdapter) Dialect() string { return "ruby" }

// Extensions returns the extensions handled by this adapter.
func (a *RubyAdapter) Extensions() []string { return []string{".rb"} }

// Run scans and filters invocations from one Ruby source file.
//
// A missing or unreadable file yields an empty result, not an error.
func (a *RubyAdapter) Run(ctx context.Context, filename string, filter Filter) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		slog.Warn("Skipping unreadable source",
			slog.String("dialect", a.Dialect()),
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	names, err := scanRubyFragment(ctx, content, filename)
	if err != nil {
		return nil, err
	}
	return applyFilter(names, filter), nil
}
