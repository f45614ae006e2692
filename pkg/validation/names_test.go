// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package validation

import (
	"testing"
)

func TestValidateControllerPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"simple", "users", false},
		{"namespaced", "admin/users", false},
		{"deeply namespaced", "api/v2/users", false},
		{"with digits", "oauth2/callbacks", false},
		{"empty", "", true},
		{"camel case", "Admin/Users", true},
		{"backslash", "admin\\users", true},
		{"empty segment", "admin//users", true},
		{"trailing slash", "admin/", true},
		{"leading digit", "2fa/settings", true},
		{"spaces", "admin users", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateControllerPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateControllerPath(%q) = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateHelperName(t *testing.T) {
	tests := []struct {
		name    string
		helper  string
		wantErr bool
	}{
		{"bare name", "beta_signup", false},
		{"path suffix", "beta_signup_path", false},
		{"url suffix", "avatar_url", false},
		{"underscore prefix", "_internal_path", false},
		{"predicate", "admin_path?", false},
		{"empty", "", true},
		{"constant", "BetaSignup", true},
		{"symbol literal", ":beta_signup_path", true},
		{"call syntax", "beta_signup_path()", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHelperName(tt.helper)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateHelperName(%q) = %v, wantErr %v", tt.helper, err, tt.wantErr)
			}
		})
	}
}
