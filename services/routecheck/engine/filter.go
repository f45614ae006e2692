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
	"github.com/ghiculescu/rails-route-checker/services/routecheck/appmodel"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/config"
)

// invocationFilter is the per-file predicate handed to parser adapters.
//
// It captures the originating filename, the resolved controller, the
// suppression configuration, and the global route-name set. Adapters call
// Accept for every extracted invocation; a true result marks the
// invocation as a genuine violation to include in the report.
type invocationFilter struct {
	// filename is the slash-separated path relative to the application
	// root, the exact key the per-file whitelist uses.
	filename string

	// controller is the file's resolved owning controller.
	controller *controllerMatch

	// owned checks controller ownership of the raw name: view helpers
	// for template dialects, instance methods for Ruby sources.
	owned func(info *appmodel.ControllerInfo, name string) bool

	cfg        *config.Config
	routeNames map[string]struct{}
}

// Accept returns true when the invocation is a violation.
//
// The normalized name (suffix stripped) is matched against the global
// ignored-paths list, this file's whitelist, and the route-name set; the
// raw name is matched against what the controller itself defines.
func (f *invocationFilter) Accept(name string) bool {
	normalized := NormalizeHelperName(name)

	if f.cfg.PathIgnored(normalized) {
		return false
	}
	if f.cfg.Whitelisted(f.filename, normalized) {
		return false
	}
	if _, isRoute := f.routeNames[normalized]; isRoute {
		return false
	}
	if f.owned(f.controller.info, name) {
		return false
	}
	return true
}
