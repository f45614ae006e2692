// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package engine

import (
	"errors"
	"strings"
)

// =============================================================================
// RESULTS
// =============================================================================

// RouteViolation is a route whose target cannot be satisfied by any real
// action or implicit template.
type RouteViolation struct {
	Controller string `json:"controller"`
	Action     string `json:"action"`
}

// String renders the violation in controller#action form.
func (v RouteViolation) String() string {
	return v.Controller + "#" + v.Action
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrInvalidInput indicates a nil or otherwise unusable argument.
var ErrInvalidInput = errors.New("invalid input")

// =============================================================================
// NAME NORMALIZATION
// =============================================================================

// NormalizeHelperName strips a trailing _path or _url suffix, converting
// an invocation name into a possible route name.
//
// The normalized name is what gets matched against route names, the
// ignored-paths list, and per-file whitelists. The raw name is matched
// against controller helpers and instance methods, since those are
// typically defined with the suffix intact.
func NormalizeHelperName(name string) string {
	if strings.HasSuffix(name, "_path") {
		return strings.TrimSuffix(name, "_path")
	}
	if strings.HasSuffix(name, "_url") {
		return strings.TrimSuffix(name, "_url")
	}
	return name
}
