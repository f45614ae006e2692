// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package appmodel answers the three questions the reconciliation engine
// asks about the audited Rails application: what routes exist, what
// controllers exist (and what actions, instance methods, and view helpers
// each one carries), and what route helper names are defined globally.
//
// The Model interface is the boundary; ManifestModel is the concrete
// provider that loads a route manifest exported from the host application
// and scans app/controllers and app/helpers for the rest.
package appmodel

import "context"

// Route is one row of the application's route table.
//
// Only Controller and Action participate in reconciliation; the remaining
// fields are carried for reporting.
type Route struct {
	// Controller is the controller path, e.g. "admin/users".
	Controller string

	// Action is the action name, e.g. "index".
	Action string

	// Name is the route's helper name without the _path/_url suffix,
	// e.g. "admin_users". Empty for unnamed routes.
	Name string

	// Verb is the HTTP verb, e.g. "GET". Informational only.
	Verb string

	// Path is the URL pattern, e.g. "/admin/users/:id". Informational only.
	Path string
}

// LookupContext reports whether a view template exists for implicit
// rendering of an action without an explicit method.
type LookupContext interface {
	// TemplateExists returns true if a template exists at the given
	// prefix path, e.g. "admin/users/index".
	TemplateExists(path string) bool
}

// ControllerInfo describes everything the engine needs to know about one
// controller: its explicit actions, its full instance method set, the view
// helper names visible to its templates, and an optional template lookup.
//
// Thread Safety: Treat as immutable after construction.
type ControllerInfo struct {
	// Actions are the explicitly defined public action methods.
	Actions map[string]struct{}

	// InstanceMethods are all methods defined on the controller,
	// including private and protected ones.
	InstanceMethods map[string]struct{}

	// Helpers are view-helper method names visible to this controller's
	// views. Helper names keep their _path/_url suffix if they have one.
	Helpers map[string]struct{}

	// Lookup is the optional template-existence capability.
	// Nil when no view directory information is available.
	Lookup LookupContext
}

// HasAction returns true if the controller explicitly defines the action.
func (c *ControllerInfo) HasAction(action string) bool {
	_, ok := c.Actions[action]
	return ok
}

// HasInstanceMethod returns true if the controller defines the method,
// at any visibility.
func (c *ControllerInfo) HasInstanceMethod(name string) bool {
	_, ok := c.InstanceMethods[name]
	return ok
}

// HasHelper returns true if the helper name is visible to this
// controller's views.
func (c *ControllerInfo) HasHelper(name string) bool {
	_, ok := c.Helpers[name]
	return ok
}

// Model is the application-model capability consumed by the engine.
//
// Implementations build an immutable snapshot per run; the engine memoizes
// the answers for the duration of one reconciliation and never mutates them.
type Model interface {
	// Routes returns the route table in the application's native order.
	Routes() []Route

	// ControllerInformation returns controller info keyed by controller
	// path (e.g. "admin/users"). The returned map is unfiltered; the
	// engine applies the ignored-controllers configuration itself.
	ControllerInformation() map[string]*ControllerInfo

	// AllRouteNames returns the set of globally defined route helper
	// names, without the _path/_url suffix.
	AllRouteNames() map[string]struct{}
}

// Builder constructs a Model snapshot for one run.
//
// Separating construction lets callers surface load and scan failures
// before the engine starts, since Model accessors themselves cannot fail.
type Builder interface {
	Build(ctx context.Context) (Model, error)
}

// NewSet builds a string set from its arguments. Convenience for tests
// and manifest construction.
func NewSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}
