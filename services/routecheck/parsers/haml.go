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

// hamlInterpolation matches #{...} interpolations in text and attributes.
var hamlInterpolation = regexp.MustCompile(`#\{([^}]*)\}`)

// HAMLAdapter extracts helper invocations from HAML templates.
//
// Description:
//
//	Line-oriented extraction: silent script lines (-), output lines (=),
//	tag lines with inline output (%a= / .cls= / #id=), and #{} string
//	interpolations all contribute Ruby fragments. The fragments go
//	through the shared Ruby invocation scanner.
//
//	HAML is the optional dialect. Whether its pass runs at all is
//	decided by the registry's availability state, not here.
//
// Thread Safety: Safe for concurrent use; Run holds no adapter state.
type HAMLAdapter struct{}

var _ Adapter = (*HAMLAdapter)(nil)

// NewHAMLAdapter creates the HAML adapter.
func NewHAMLAdapter() *HAMLAdapter {
	return &HAMLAdapter{}
}

// Dialect returns "haml".
func (a *HAMLAdapter) Dialect() string { return "haml" }

// Extensions returns the extensions handled by this adapter.
func (a *HAMLAdapter) Extensions() []string { return []string{".haml"} }

// Run extracts, scans, and filters invocations from one template.
//
// A missing or unreadable file yields an empty result, not an error.
func (a *HAMLAdapter) Run(ctx context.Context, filename string, filter Filter) ([]string, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		slog.Warn("Skipping unreadable template",
			slog.String("dialect", a.Dialect()),
			slog.String("file", filename),
			slog.String("error", err.Error()),
		)
		return nil, nil
	}

	names, err := scanRubyFragment(ctx, []byte(extractHAML(string(content))), filename)
	if err != nil {
		return nil, err
	}
	return applyFilter(names, filter), nil
}

// extractHAML returns the embedded Ruby of a HAML document, one fragment
// per line.
func extractHAML(content string) string {
	var fragments []string

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		// plain is the part still subject to #{} interpolation scanning
		// after any full Ruby fragment has been captured. Fragments are
		// parsed as Ruby, so their own interpolations are covered there.
		plain := trimmed

		switch {
		case strings.HasPrefix(trimmed, "-#"):
			// HAML comment; no code.
			plain = ""
		case strings.HasPrefix(trimmed, "-"), strings.HasPrefix(trimmed, "="):
			if code := strings.TrimSpace(trimmed[1:]); code != "" {
				fragments = append(fragments, code)
			}
			plain = ""
		case strings.HasPrefix(trimmed, "%"), strings.HasPrefix(trimmed, "."), strings.HasPrefix(trimmed, "#"):
			// Tag line. Inline output starts at the first = after the
			// tag name and attributes.
			if idx := strings.Index(trimmed, "="); idx >= 0 {
				if code := strings.TrimSpace(trimmed[idx+1:]); code != "" {
					fragments = append(fragments, code)
				}
				plain = trimmed[:idx]
			}
		}

		for _, m := range hamlInterpolation.FindAllStringSubmatch(plain, -1) {
			if code := strings.TrimSpace(m[1]); code != "" {
				fragments = append(fragments, code)
			}
		}
	}

	return strings.Join(fragments, "\n")
}
