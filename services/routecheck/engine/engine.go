// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package engine is the reconciliation core: it cross-references the
// declared route table, the controller/action/template universe, and the
// helper invocations found in view and controller sources, and reports
// the mismatches in both directions.
//
// One Engine value is one run. The route snapshot and the ignore-filtered
// controller-info map are memoized on the engine, so a fresh engine
// against an unchanged tree and model always yields identical results.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/ghiculescu/rails-route-checker/services/routecheck/appmodel"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/config"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/parsers"
)

// =============================================================================
// ENGINE
// =============================================================================

// Engine reconciles routes, controllers, and helper invocations.
//
// Description:
//
//	The engine drives file discovery, resolves each file to an owning
//	controller, builds the per-file filter predicates from whitelist and
//	application-model lookups, invokes parser adapters, and assembles
//	the violation lists for both analysis directions.
//
// Thread Safety: Safe for concurrent use; the memoized snapshots are
// guarded by sync.Once and read-only afterwards.
type Engine struct {
	model    appmodel.Model
	cfg      *config.Config
	root     string
	registry *parsers.Registry

	routesOnce sync.Once
	routes     []appmodel.Route

	infoOnce sync.Once
	info     map[string]*appmodel.ControllerInfo

	warnMu sync.Mutex
	warned map[string]bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithRoot sets the audited application's root directory.
// Default: ".".
func WithRoot(root string) Option {
	return func(e *Engine) {
		e.root = root
	}
}

// WithRegistry sets a custom parser adapter registry.
func WithRegistry(registry *parsers.Registry) Option {
	return func(e *Engine) {
		e.registry = registry
	}
}

// New creates an engine for one run.
//
// Inputs:
//
//	model - The application model snapshot
//	cfg - The suppression configuration; nil means nothing suppressed
//	opts - Optional configuration
//
// Outputs:
//
//	*Engine - The configured engine
func New(model appmodel.Model, cfg *config.Config, opts ...Option) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	e := &Engine{
		model:    model,
		cfg:      cfg,
		root:     ".",
		registry: parsers.NewRegistry(),
		warned:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// modelRoutes returns the per-run route snapshot.
func (e *Engine) modelRoutes() []appmodel.Route {
	e.routesOnce.Do(func() {
		e.routes = e.model.Routes()
	})
	return e.routes
}

// controllerInformation returns the per-run controller-info map with
// ignored controllers dropped.
func (e *Engine) controllerInformation() map[string]*appmodel.ControllerInfo {
	e.infoOnce.Do(func() {
		raw := e.model.ControllerInformation()
		e.info = make(map[string]*appmodel.ControllerInfo, len(raw))
		for name, info := range raw {
			if e.cfg.ControllerIgnored(name) {
				continue
			}
			e.info[name] = info
		}
	})
	return e.info
}

// =============================================================================
// ROUTE -> ACTION RECONCILIATION
// =============================================================================

// RoutesWithoutActions returns every route whose target cannot be
// satisfied by an explicit action or an implicit template.
//
// Description:
//
//	Walks the route table in model order. A route is skipped when its
//	controller is ignored, when the controller is unknown to the
//	ignore-filtered info map (unresolvable controllers are out of scope,
//	not violations), when the action is explicitly defined, or when a
//	template exists at "{controller}/{action}". Duplicate routes yield
//	duplicate violations; nothing is deduplicated.
func (e *Engine) RoutesWithoutActions(ctx context.Context) []RouteViolation {
	ctx, span := startCheckSpan(ctx, "routes_without_actions")
	defer span.End()
	start := time.Now()

	info := e.controllerInformation()
	violations := make([]RouteViolation, 0)

	for _, route := range e.modelRoutes() {
		if e.cfg.ControllerIgnored(route.Controller) {
			continue
		}
		ctrl, known := info[route.Controller]
		if !known {
			continue
		}
		if ctrl.HasAction(route.Action) {
			continue
		}
		if ctrl.Lookup != nil && ctrl.Lookup.TemplateExists(route.Controller+"/"+route.Action) {
			continue
		}
		violations = append(violations, RouteViolation{
			Controller: route.Controller,
			Action:     route.Action,
		})
	}

	setCheckSpanResult(span, len(violations))
	recordCheckMetrics(ctx, "routes_without_actions", time.Since(start), len(e.modelRoutes()), len(violations))

	slog.Debug("Route reconciliation completed",
		slog.Int("routes", len(e.modelRoutes())),
		slog.Int("violations", len(violations)),
		slog.Duration("duration", time.Since(start)),
	)

	return violations
}

// =============================================================================
// HELPER INVOCATION RECONCILIATION
// =============================================================================

// pass describes one dialect pass of the invocation reconciliation.
type pass struct {
	dialect string
	// ownedByController checks whether the resolved controller itself
	// defines the raw invocation name: view helpers for template
	// dialects, instance methods for Ruby sources.
	ownedByController func(info *appmodel.ControllerInfo, name string) bool
}

var passOrder = []pass{
	{"erb", func(info *appmodel.ControllerInfo, name string) bool { return info.HasHelper(name) }},
	{"haml", func(info *appmodel.ControllerInfo, name string) bool { return info.HasHelper(name) }},
	{"ruby", func(info *appmodel.ControllerInfo, name string) bool { return info.HasInstanceMethod(name) }},
}

// UndefinedPathMethodCalls returns every helper invocation that matches
// no route helper, no whitelist entry, and nothing owned by the file's
// resolved controller.
//
// Description:
//
//	Runs three independent passes (erb, haml, ruby) and concatenates
//	results. A pass with no discovered files is skipped without touching
//	the adapter. The haml pass degrades to a single warning plus an
//	empty result when its support is unavailable. Files that resolve to
//	no controller are skipped entirely. Adapter failures are fatal.
//
// Outputs:
//
//	[]string - Accepted invocation names, in pass then file order
//	error - Non-nil if an adapter failed on a file
func (e *Engine) UndefinedPathMethodCalls(ctx context.Context) ([]string, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}

	ctx, span := startCheckSpan(ctx, "undefined_path_method_calls")
	defer span.End()
	start := time.Now()

	results := make([]string, 0)
	filesScanned := 0

	for _, p := range passOrder {
		files := e.discoverFiles(p.dialect)
		if len(files) == 0 {
			continue
		}

		adapter, avail := e.registry.Get(p.dialect)
		switch avail {
		case parsers.NotApplicable:
			slog.Debug("No adapter for dialect", slog.String("dialect", p.dialect))
			continue
		case parsers.UnavailableWarn:
			e.warnOnce(p.dialect)
			continue
		}

		for _, rel := range files {
			ctrl, ok := e.resolveController(p.dialect, rel)
			if !ok {
				continue
			}

			filter := &invocationFilter{
				filename:   rel,
				controller: ctrl,
				owned:      p.ownedByController,
				cfg:        e.cfg,
				routeNames: e.model.AllRouteNames(),
			}

			names, err := adapter.Run(ctx, filepath.Join(e.root, filepath.FromSlash(rel)), filter.Accept)
			if err != nil {
				return nil, fmt.Errorf("scanning %s: %w", rel, err)
			}
			filesScanned++
			results = append(results, names...)
		}
	}

	setCheckSpanResult(span, len(results))
	recordCheckMetrics(ctx, "undefined_path_method_calls", time.Since(start), filesScanned, len(results))

	slog.Debug("Invocation reconciliation completed",
		slog.Int("files", filesScanned),
		slog.Int("violations", len(results)),
		slog.Duration("duration", time.Since(start)),
	)

	return results, nil
}

// warnOnce logs the unavailable-dialect warning once per run.
func (e *Engine) warnOnce(dialect string) {
	e.warnMu.Lock()
	defer e.warnMu.Unlock()
	if e.warned[dialect] {
		return
	}
	e.warned[dialect] = true
	slog.Warn("Dialect support unavailable, skipping pass",
		slog.String("dialect", dialect),
	)
}
