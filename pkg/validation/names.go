// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides validators for user-provided names in the
// checker configuration.
//
// Config entries that never match anything are a silent foot-gun: a typo
// in ignored_controllers leaves the controller checked and the user
// wondering why. These validators catch entries that cannot possibly
// match a Rails identifier so the config loader can warn about them.
package validation

import (
	"fmt"
	"regexp"
	"strings"
)

// controllerSegment matches one snake_case path segment, as Rails
// derives them from controller class names.
var controllerSegment = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// helperName matches a Ruby method name as used for route helpers and
// helper_method declarations.
var helperName = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_]*[?!]?$`)

// ValidateControllerPath validates a controller path like
// "admin/users". Segments are slash-separated snake_case identifiers.
//
// Example:
//
//	if err := validation.ValidateControllerPath(entry); err != nil {
//	    slog.Warn("ignored_controllers entry will never match", "entry", entry)
//	}
func ValidateControllerPath(path string) error {
	if path == "" {
		return fmt.Errorf("controller path is empty")
	}
	if strings.Contains(path, "\\") {
		return fmt.Errorf("controller path %q must use forward slashes", path)
	}
	for _, segment := range strings.Split(path, "/") {
		if !controllerSegment.MatchString(segment) {
			return fmt.Errorf("controller path %q has invalid segment %q", path, segment)
		}
	}
	return nil
}

// ValidateHelperName validates an invocation name from ignored_paths or
// a whitelist. Both bare names ("beta_signup") and suffixed forms
// ("beta_signup_path") are accepted.
func ValidateHelperName(name string) error {
	if name == "" {
		return fmt.Errorf("helper name is empty")
	}
	if !helperName.MatchString(name) {
		return fmt.Errorf("helper name %q is not a valid Ruby method name", name)
	}
	return nil
}
