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
	"testing"

	"github.com/ghiculescu/rails-route-checker/services/routecheck/appmodel"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/config"
)

func TestNormalizeHelperName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"user_path", "user"},
		{"user_url", "user"},
		{"edit_admin_user_path", "edit_admin_user"},
		{"pathology", "pathology"},
		{"url", "url"},
		{"settings", "settings"},
	}
	for _, tc := range cases {
		if got := NormalizeHelperName(tc.in); got != tc.want {
			t.Errorf("NormalizeHelperName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func helperOwned(info *appmodel.ControllerInfo, name string) bool {
	return info.HasHelper(name)
}

func methodOwned(info *appmodel.ControllerInfo, name string) bool {
	return info.HasInstanceMethod(name)
}

func TestInvocationFilterAccept(t *testing.T) {
	controller := &controllerMatch{
		name: "home",
		info: &appmodel.ControllerInfo{
			Actions:         appmodel.NewSet("index"),
			InstanceMethods: appmodel.NewSet("current_cart_path"),
			Helpers:         appmodel.NewSet("avatar_url"),
		},
	}

	newFilter := func(filename string, owned func(*appmodel.ControllerInfo, string) bool, cfg *config.Config) *invocationFilter {
		if cfg == nil {
			cfg = config.Default()
		}
		return &invocationFilter{
			filename:   filename,
			controller: controller,
			owned:      owned,
			cfg:        cfg,
			routeNames: map[string]struct{}{"user": {}},
		}
	}

	t.Run("route helper call is fine", func(t *testing.T) {
		f := newFilter("app/views/home/index.html.erb", helperOwned, nil)
		if f.Accept("user_path") || f.Accept("user_url") {
			t.Error("Known route helpers must not be violations")
		}
	})

	t.Run("controller helper matched by raw name", func(t *testing.T) {
		f := newFilter("app/views/home/index.html.erb", helperOwned, nil)
		if f.Accept("avatar_url") {
			t.Error("avatar_url is a controller helper, not a violation")
		}
		// avatar_path is a different raw name; no helper owns it.
		if !f.Accept("avatar_path") {
			t.Error("avatar_path should be a violation")
		}
	})

	t.Run("instance method matched in ruby pass only", func(t *testing.T) {
		ruby := newFilter("app/controllers/home_controller.rb", methodOwned, nil)
		if ruby.Accept("current_cart_path") {
			t.Error("current_cart_path is an instance method, not a violation")
		}
		erb := newFilter("app/views/home/index.html.erb", helperOwned, nil)
		if !erb.Accept("current_cart_path") {
			t.Error("instance methods are not visible to template passes")
		}
	})

	t.Run("globally ignored normalized name", func(t *testing.T) {
		cfg := config.New(nil, []string{"legacy_report"}, nil)
		f := newFilter("app/views/home/index.html.erb", helperOwned, cfg)
		if f.Accept("legacy_report_path") || f.Accept("legacy_report_url") {
			t.Error("Ignored paths must be suppressed in every file")
		}
	})

	t.Run("whitelist keyed by exact filename", func(t *testing.T) {
		cfg := config.New(nil, nil, map[string][]string{
			"app/views/home/index.html.erb": {"beta_signup"},
		})

		listed := newFilter("app/views/home/index.html.erb", helperOwned, cfg)
		if listed.Accept("beta_signup_path") {
			t.Error("Whitelisted invocation must not be reported from its file")
		}

		other := newFilter("app/views/home/show.html.erb", helperOwned, cfg)
		if !other.Accept("beta_signup_path") {
			t.Error("Whitelist must not leak to other files")
		}
	})

	t.Run("unmatched invocation is a violation", func(t *testing.T) {
		f := newFilter("app/views/home/index.html.erb", helperOwned, nil)
		if !f.Accept("fake_thing_path") {
			t.Error("fake_thing_path should be a violation")
		}
	})
}
