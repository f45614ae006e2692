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
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/ghiculescu/rails-route-checker/services/routecheck/appmodel"
)

// fallbackController is the conventional base controller every
// unresolvable file falls back to.
const fallbackController = "application"

// rubyControllerSuffix extracts a controller name from the conventional
// controllers/<name>_controller.rb path shape.
var rubyControllerSuffix = regexp.MustCompile(`controllers/(.+)_controller\.rb$`)

// resolveController maps a discovered file (slash-separated, relative to
// the root) to its owning controller's info.
//
// Resolution is deterministic and a pure function of the file's path and
// the controller files present on disk, never of file content. A false
// result means the file is out of scope for this run and must be skipped;
// that happens only when the resolved controller was dropped by the
// ignored-controllers configuration (see the note on controllerInfoFor).
func (e *Engine) resolveController(dialect, rel string) (*controllerMatch, bool) {
	if dialect == "ruby" {
		return e.controllerFromRubyFile(rel)
	}
	return e.controllerFromViewFile(rel)
}

// controllerMatch pairs a resolved controller name with its info.
type controllerMatch struct {
	name string
	info *appmodel.ControllerInfo
}

// controllerFromViewFile resolves a view template path to a controller.
//
// Description:
//
//	Drops the leading app/views segments and the file name, then walks
//	the remaining directory path from most specific to least: for each
//	candidate, if app/controllers/{candidate}_controller.rb exists on
//	disk the walk stops there. With no match left, the conventional
//	"application" controller is the fallback. This mirrors nested
//	resource directories: app/views/admin/users/index.html.erb tries
//	"admin/users", then "admin", then "application".
func (e *Engine) controllerFromViewFile(rel string) (*controllerMatch, bool) {
	segs := strings.Split(rel, "/")
	if len(segs) < 3 {
		return e.fallback()
	}

	// Drop the app root marker, its immediate child, and the file name.
	candidates := segs[2 : len(segs)-1]

	for len(candidates) > 0 {
		name := strings.Join(candidates, "/")
		if e.controllerFileExists(name) {
			return e.controllerInfoFor(name)
		}
		candidates = candidates[:len(candidates)-1]
	}

	return e.fallback()
}

// controllerFromRubyFile resolves a Ruby source path to a controller.
//
// The name is derived purely from the controllers/<name>_controller.rb
// path suffix, never from content. Paths that do not match the suffix,
// or whose derived controller file is not on disk, fall back to the
// "application" controller.
func (e *Engine) controllerFromRubyFile(rel string) (*controllerMatch, bool) {
	m := rubyControllerSuffix.FindStringSubmatch(rel)
	if m != nil && e.controllerFileExists(m[1]) {
		return e.controllerInfoFor(m[1])
	}
	return e.fallback()
}

// controllerInfoFor looks up the ignore-filtered info for a controller
// known to exist on disk.
//
// A controller can exist on disk yet be absent from the filtered map when
// ignored_controllers drops it. That resolves to nothing: the file is
// skipped rather than treated as owned by an empty or fallback
// controller. TestResolveIgnoredControllerSkipsFile pins this.
func (e *Engine) controllerInfoFor(name string) (*controllerMatch, bool) {
	info, ok := e.controllerInformation()[name]
	if !ok {
		return nil, false
	}
	return &controllerMatch{name: name, info: info}, true
}

// fallback resolves to the "application" controller's info, or to
// nothing when that too is unknown or ignored.
func (e *Engine) fallback() (*controllerMatch, bool) {
	info, ok := e.controllerInformation()[fallbackController]
	if !ok {
		return nil, false
	}
	return &controllerMatch{name: fallbackController, info: info}, true
}

// controllerFileExists reports whether the controller's conventional
// source file is present on disk. Existence is never inferred from the
// in-memory info map, which would resolve against stale or cached
// entries; a missing or unreadable file simply does not exist.
func (e *Engine) controllerFileExists(name string) bool {
	path := filepath.Join(e.root, "app", "controllers", filepath.FromSlash(name)+"_controller.rb")
	stat, err := os.Stat(path)
	return err == nil && stat.Mode().IsRegular()
}
