// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("full config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".rails-route-checker.yml")
		content := `
ignored_controllers:
  - api/internal
ignored_paths:
  - legacy_report
ignored_path_whitelist:
  app/views/home/index.html.erb:
    - beta_signup
`
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}

		cfg, err := Load(path)
		if err != nil {
			t.Fatalf("Load: %v", err)
		}

		if !cfg.ControllerIgnored("api/internal") {
			t.Error("api/internal should be ignored")
		}
		if cfg.ControllerIgnored("api") {
			t.Error("api should not be ignored")
		}
		if !cfg.PathIgnored("legacy_report") {
			t.Error("legacy_report should be ignored")
		}
		if !cfg.Whitelisted("app/views/home/index.html.erb", "beta_signup") {
			t.Error("beta_signup should be whitelisted for its file")
		}
		if cfg.Whitelisted("app/views/home/show.html.erb", "beta_signup") {
			t.Error("whitelist must be keyed by exact filename")
		}
	})

	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.ControllerIgnored("anything") || cfg.PathIgnored("anything") {
			t.Error("default config must not ignore anything")
		}
	})

	t.Run("malformed file is fatal", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yml")
		if err := os.WriteFile(path, []byte("ignored_paths: {\n"), 0644); err != nil {
			t.Fatalf("write config: %v", err)
		}
		if _, err := Load(path); err == nil {
			t.Fatal("Expected parse error")
		}
	})
}
