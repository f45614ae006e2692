// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package appmodel

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestLoadManifest(t *testing.T) {
	t.Run("valid manifest", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "routes.yml", `
routes:
  - controller: home
    action: about
    name: about
    verb: GET
    path: /about
  - controller: admin/users
    action: index
    name: admin_users
`)
		m, err := LoadManifest(filepath.Join(root, "routes.yml"))
		if err != nil {
			t.Fatalf("LoadManifest: %v", err)
		}
		if len(m.Routes) != 2 {
			t.Fatalf("Expected 2 routes, got %d", len(m.Routes))
		}
		if m.Routes[1].Controller != "admin/users" {
			t.Errorf("Routes[1].Controller = %q, want admin/users", m.Routes[1].Controller)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadManifest(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrInvalidManifest) {
			t.Fatalf("Expected ErrInvalidManifest, got %v", err)
		}
	})

	t.Run("malformed yaml", func(t *testing.T) {
		root := t.TempDir()
		writeFile(t, root, "routes.yml", "routes: [\n")
		_, err := LoadManifest(filepath.Join(root, "routes.yml"))
		if !errors.Is(err, ErrInvalidManifest) {
			t.Fatalf("Expected ErrInvalidManifest, got %v", err)
		}
	})
}

func TestManifestBuilderBuild(t *testing.T) {
	root := t.TempDir()

	writeFile(t, root, "routes.yml", `
routes:
  - controller: home
    action: index
    name: root
  - controller: home
    action: about
  - controller: ""
    action: ""
    name: engine_mount
`)
	writeFile(t, root, "app/controllers/home_controller.rb", `
class HomeController < ApplicationController
  helper_method :current_theme, :logged_in?

  def index
  end

  private

  def current_theme
  end
end
`)
	writeFile(t, root, "app/helpers/application_helper.rb", `
module ApplicationHelper
  def format_date(d)
  end

  def settings_path
  end
end
`)
	writeFile(t, root, "app/views/home/about.html.erb", "<p>about</p>")

	builder := &ManifestBuilder{Root: root, ManifestPath: "routes.yml"}
	model, err := builder.Build(context.Background())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	t.Run("routes drop rows without controller", func(t *testing.T) {
		if len(model.Routes()) != 2 {
			t.Fatalf("Expected 2 routes, got %d", len(model.Routes()))
		}
	})

	t.Run("route names are collected", func(t *testing.T) {
		names := model.AllRouteNames()
		if _, ok := names["root"]; !ok {
			t.Error("Expected route name root")
		}
		if _, ok := names[""]; ok {
			t.Error("Unnamed routes must not contribute a name")
		}
	})

	t.Run("controller info", func(t *testing.T) {
		info, ok := model.ControllerInformation()["home"]
		if !ok {
			t.Fatal("Expected controller info for home")
		}
		if !info.HasAction("index") {
			t.Error("index should be an action")
		}
		if info.HasAction("current_theme") {
			t.Error("private method must not be an action")
		}
		if !info.HasInstanceMethod("current_theme") {
			t.Error("private method should still be an instance method")
		}
		if !info.HasHelper("current_theme") || !info.HasHelper("logged_in?") {
			t.Error("helper_method declarations should be helpers")
		}
		if !info.HasHelper("format_date") || !info.HasHelper("settings_path") {
			t.Error("app/helpers methods should be helpers")
		}
	})

	t.Run("template lookup", func(t *testing.T) {
		info := model.ControllerInformation()["home"]
		if info.Lookup == nil {
			t.Fatal("Expected a lookup context")
		}
		if !info.Lookup.TemplateExists("home/about") {
			t.Error("home/about template should exist")
		}
		if info.Lookup.TemplateExists("home/missing") {
			t.Error("home/missing template should not exist")
		}
	})
}

func TestControllerNameFromRel(t *testing.T) {
	cases := []struct {
		rel  string
		want string
	}{
		{"home_controller.rb", "home"},
		{"admin/users_controller.rb", "admin/users"},
		{"concerns/auditable.rb", ""},
		{"application_controller.rb", "application"},
	}
	for _, tc := range cases {
		if got := controllerNameFromRel(tc.rel); got != tc.want {
			t.Errorf("controllerNameFromRel(%q) = %q, want %q", tc.rel, got, tc.want)
		}
	}
}

func TestScanControllerSourceNesting(t *testing.T) {
	src := []byte(`
module Admin
  class UsersController < ApplicationController
    def index
    end

    protected

    def scope
    end

    public

    def show
    end
  end
end
`)
	scan, err := scanControllerSource(context.Background(), src, "users_controller.rb")
	if err != nil {
		t.Fatalf("scanControllerSource: %v", err)
	}

	wantActions := map[string]bool{"index": true, "show": true}
	for _, a := range scan.actions {
		if !wantActions[a] {
			t.Errorf("Unexpected action %q", a)
		}
		delete(wantActions, a)
	}
	for a := range wantActions {
		t.Errorf("Missing action %q", a)
	}

	if len(scan.instanceMethods) != 3 {
		t.Errorf("Expected 3 instance methods, got %d (%v)", len(scan.instanceMethods), scan.instanceMethods)
	}
}
