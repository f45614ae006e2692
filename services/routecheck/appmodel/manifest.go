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
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// =============================================================================
// ROUTE MANIFEST
// =============================================================================

// Manifest is the YAML document exported from the audited application.
//
// The host application produces it with a one-liner, e.g.:
//
//	bin/rails runner 'puts({"routes" => Rails.application.routes.routes.map { |r|
//	  {"controller" => r.defaults[:controller], "action" => r.defaults[:action],
//	   "name" => r.name, "verb" => r.verb.to_s, "path" => r.path.spec.to_s}
//	}}.to_yaml)' > routes.yml
//
// Rows without a controller or action (mounted engines, redirects) are
// dropped at load time.
type Manifest struct {
	Routes []ManifestRoute `yaml:"routes"`
}

// ManifestRoute is one route row in the manifest.
type ManifestRoute struct {
	Controller string `yaml:"controller"`
	Action     string `yaml:"action"`
	Name       string `yaml:"name"`
	Verb       string `yaml:"verb"`
	Path       string `yaml:"path"`
}

// LoadManifest reads and parses a route manifest file.
//
// Inputs:
//
//	path - Path to the YAML manifest
//
// Outputs:
//
//	*Manifest - The parsed manifest
//	error - ErrInvalidManifest (wrapped) on read or parse failure
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrInvalidManifest, path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: parsing %s: %v", ErrInvalidManifest, path, err)
	}

	return &m, nil
}

// =============================================================================
// MANIFEST-BACKED MODEL
// =============================================================================

// ManifestModel is the concrete Model built from a route manifest plus a
// scan of the application's controller and helper sources.
//
// All fields are populated once by ManifestBuilder.Build and read-only
// afterwards.
type ManifestModel struct {
	routes      []Route
	controllers map[string]*ControllerInfo
	routeNames  map[string]struct{}
}

// Routes returns the route table in manifest order.
func (m *ManifestModel) Routes() []Route {
	return m.routes
}

// ControllerInformation returns the unfiltered controller-info map.
func (m *ManifestModel) ControllerInformation() map[string]*ControllerInfo {
	return m.controllers
}

// AllRouteNames returns the set of named routes, suffix-free.
func (m *ManifestModel) AllRouteNames() map[string]struct{} {
	return m.routeNames
}

// ManifestBuilder builds a ManifestModel snapshot for one run.
//
// Description:
//
//	Build loads the route manifest, scans app/controllers/**/*_controller.rb
//	with the Ruby parser for actions, instance methods, and helper_method
//	declarations, scans app/helpers/**/*.rb for view helper methods, and
//	attaches a filesystem-backed template lookup per controller.
//
// Thread Safety: Build is not safe for concurrent use on the same builder;
// the returned model is read-only and safe to share.
type ManifestBuilder struct {
	// Root is the audited application's root directory.
	Root string

	// ManifestPath is the route manifest location. Relative paths are
	// resolved against Root.
	ManifestPath string
}

var _ Builder = (*ManifestBuilder)(nil)

// Build constructs the model snapshot.
//
// Outputs:
//
//	Model - The immutable snapshot
//	error - ErrInvalidManifest or ErrScanFailed (wrapped) on failure
func (b *ManifestBuilder) Build(ctx context.Context) (Model, error) {
	manifestPath := b.ManifestPath
	if !filepath.IsAbs(manifestPath) {
		manifestPath = filepath.Join(b.Root, manifestPath)
	}

	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return nil, err
	}

	model := &ManifestModel{
		routes:      make([]Route, 0, len(manifest.Routes)),
		controllers: make(map[string]*ControllerInfo),
		routeNames:  make(map[string]struct{}),
	}

	for _, row := range manifest.Routes {
		if row.Controller == "" || row.Action == "" {
			continue
		}
		model.routes = append(model.routes, Route{
			Controller: row.Controller,
			Action:     row.Action,
			Name:       row.Name,
			Verb:       row.Verb,
			Path:       row.Path,
		})
		if row.Name != "" {
			model.routeNames[row.Name] = struct{}{}
		}
	}

	globalHelpers, err := scanHelperMethods(ctx, b.Root)
	if err != nil {
		return nil, err
	}

	if err := b.buildControllers(ctx, model, globalHelpers); err != nil {
		return nil, err
	}

	slog.Debug("Application model built",
		slog.Int("routes", len(model.routes)),
		slog.Int("controllers", len(model.controllers)),
		slog.Int("route_names", len(model.routeNames)),
	)

	return model, nil
}

// buildControllers scans every controller source file under
// app/controllers and fills the controller-info map.
func (b *ManifestBuilder) buildControllers(ctx context.Context, model *ManifestModel, globalHelpers map[string]struct{}) error {
	controllersDir := filepath.Join(b.Root, "app", "controllers")

	return walkSources(controllersDir, ".rb", func(path string) error {
		rel, err := filepath.Rel(controllersDir, path)
		if err != nil {
			return err
		}
		name := controllerNameFromRel(filepath.ToSlash(rel))
		if name == "" {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			// Unreadable files are treated as nonexistent, not fatal.
			slog.Warn("Skipping unreadable controller source",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}

		scan, err := scanControllerSource(ctx, content, path)
		if err != nil {
			return err
		}

		// helper_method declarations join the globally mixed-in helper
		// modules in the view-visible helper set.
		helpers := make(map[string]struct{}, len(globalHelpers)+len(scan.helperMethods))
		for h := range globalHelpers {
			helpers[h] = struct{}{}
		}
		for _, h := range scan.helperMethods {
			helpers[h] = struct{}{}
		}

		model.controllers[name] = &ControllerInfo{
			Actions:         NewSet(scan.actions...),
			InstanceMethods: NewSet(scan.instanceMethods...),
			Helpers:         helpers,
			Lookup: &viewsLookup{
				viewsDir: filepath.Join(b.Root, "app", "views"),
			},
		}
		return nil
	})
}

// controllerNameFromRel converts a path relative to app/controllers into a
// controller name, e.g. "admin/users_controller.rb" -> "admin/users".
// Returns "" for files that do not follow the naming convention.
func controllerNameFromRel(rel string) string {
	if !strings.HasSuffix(rel, "_controller.rb") {
		return ""
	}
	return strings.TrimSuffix(rel, "_controller.rb")
}

// walkSources visits every regular file with the given extension under
// dir, in lexical order. A missing dir yields no visits and no error.
func walkSources(dir, ext string, fn func(path string) error) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}

	return filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ext {
			return nil
		}
		return fn(path)
	})
}

// scanHelperMethods collects every method defined in app/helpers modules.
// Rails mixes all helper modules into all views by default, so the set is
// global rather than per controller.
func scanHelperMethods(ctx context.Context, root string) (map[string]struct{}, error) {
	helpers := make(map[string]struct{})
	helpersDir := filepath.Join(root, "app", "helpers")

	err := walkSources(helpersDir, ".rb", func(path string) error {
		content, err := os.ReadFile(path)
		if err != nil {
			slog.Warn("Skipping unreadable helper source",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}
		names, err := scanMethodNames(ctx, content, path)
		if err != nil {
			return err
		}
		for _, n := range names {
			helpers[n] = struct{}{}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return helpers, nil
}
