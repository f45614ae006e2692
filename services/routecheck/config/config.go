// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config loads the checker's suppression configuration.
//
// Configuration entries silently suppress otherwise-valid findings; they
// are skips, not errors. The checker reads .rails-route-checker.yml from
// the audited application's root:
//
//	ignored_controllers:
//	  - api/internal
//	ignored_paths:
//	  - legacy_report
//	ignored_path_whitelist:
//	  app/views/home/index.html.erb:
//	    - beta_signup_path
//
// ignored_paths and whitelist entries match the invocation's normalized
// name, i.e. with any trailing _path/_url stripped: write "beta_signup"
// to suppress both beta_signup_path and beta_signup_url.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ghiculescu/rails-route-checker/pkg/validation"
)

// Config is the static options object consumed by the engine.
//
// Thread Safety: Treat as immutable after Load/New.
type Config struct {
	// IgnoredControllers are controller paths excluded from both
	// analyses, e.g. "admin/users".
	IgnoredControllers []string `yaml:"ignored_controllers"`

	// IgnoredPaths are invocation names suppressed in every file.
	IgnoredPaths []string `yaml:"ignored_paths"`

	// IgnoredPathWhitelist maps an exact filename (slash-separated,
	// relative to the application root) to invocation names suppressed
	// in that file only.
	IgnoredPathWhitelist map[string][]string `yaml:"ignored_path_whitelist"`

	ignoredControllerSet map[string]struct{}
	ignoredPathSet       map[string]struct{}
	whitelistSets        map[string]map[string]struct{}
}

// New builds a Config from already-parsed fields. Used by tests and by
// callers that assemble options programmatically.
func New(ignoredControllers, ignoredPaths []string, whitelist map[string][]string) *Config {
	c := &Config{
		IgnoredControllers:   ignoredControllers,
		IgnoredPaths:         ignoredPaths,
		IgnoredPathWhitelist: whitelist,
	}
	c.finalize()
	return c
}

// Default returns an empty configuration: nothing ignored, nothing
// whitelisted.
func Default() *Config {
	return New(nil, nil, nil)
}

// Load reads a YAML config file.
//
// A missing file is not an error; it yields Default(). A present but
// malformed file is fatal.
//
// Inputs:
//
//	path - Path to the YAML config file
//
// Outputs:
//
//	*Config - The loaded configuration
//	error - Non-nil on read (other than not-exist) or parse failure
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.warnDeadEntries(path)
	c.finalize()
	return &c, nil
}

// warnDeadEntries flags entries that cannot match any Rails identifier,
// usually typos. They are warnings, not errors: the run proceeds with
// the entry in place.
func (c *Config) warnDeadEntries(path string) {
	for _, entry := range c.IgnoredControllers {
		if err := validation.ValidateControllerPath(entry); err != nil {
			slog.Warn("config: ignored_controllers entry will never match",
				"config", path, "error", err)
		}
	}
	for _, entry := range c.IgnoredPaths {
		if err := validation.ValidateHelperName(entry); err != nil {
			slog.Warn("config: ignored_paths entry will never match",
				"config", path, "error", err)
		}
	}
	for file, names := range c.IgnoredPathWhitelist {
		for _, entry := range names {
			if err := validation.ValidateHelperName(entry); err != nil {
				slog.Warn("config: whitelist entry will never match",
					"config", path, "file", file, "error", err)
			}
		}
	}
}

// finalize builds the lookup sets from the list fields.
func (c *Config) finalize() {
	c.ignoredControllerSet = toSet(c.IgnoredControllers)
	c.ignoredPathSet = toSet(c.IgnoredPaths)

	c.whitelistSets = make(map[string]map[string]struct{}, len(c.IgnoredPathWhitelist))
	for file, names := range c.IgnoredPathWhitelist {
		c.whitelistSets[file] = toSet(names)
	}
}

// ControllerIgnored returns true if the controller path is configured
// as ignored.
func (c *Config) ControllerIgnored(name string) bool {
	_, ok := c.ignoredControllerSet[name]
	return ok
}

// PathIgnored returns true if the invocation name is globally ignored.
func (c *Config) PathIgnored(name string) bool {
	_, ok := c.ignoredPathSet[name]
	return ok
}

// Whitelisted returns true if the invocation name is whitelisted for
// exactly this filename.
func (c *Config) Whitelisted(filename, name string) bool {
	set, ok := c.whitelistSets[filename]
	if !ok {
		return false
	}
	_, ok = set[name]
	return ok
}

func toSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
