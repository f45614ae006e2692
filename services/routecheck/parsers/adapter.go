// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package parsers extracts path/URL helper invocations from ERB, HAML,
// and Ruby sources.
//
// Adapters are callbacks for the reconciliation engine, not authorities:
// each one surfaces every syntactic occurrence of a *_path / *_url call
// shape and applies the engine-supplied filter to decide inclusion. All
// matching rules live in the engine's filter, not here.
package parsers

import (
	"context"
	"sync"
)

// Filter decides whether an extracted invocation name is a finding.
// Returning true accepts the name into the adapter's result.
type Filter func(name string) bool

// Adapter extracts helper invocations for one source dialect.
type Adapter interface {
	// Run parses the file, extracts every *_path / *_url invocation
	// name, applies filter, and returns the accepted subset in source
	// order. Duplicate occurrences are kept.
	Run(ctx context.Context, filename string, filter Filter) ([]string, error)

	// Dialect returns the dialect identifier: "erb", "haml", or "ruby".
	Dialect() string

	// Extensions returns the file extensions this adapter handles,
	// with the leading dot.
	Extensions() []string
}

// Availability is the tri-state result of the dialect capability check,
// resolved once when the registry is built rather than probed per call.
type Availability int

const (
	// NotApplicable means no adapter is registered for the dialect.
	NotApplicable Availability = iota

	// Available means the dialect can be scanned.
	Available

	// UnavailableWarn means the dialect's support is switched off for
	// this run; the engine warns once and skips the pass without
	// failing the whole run.
	UnavailableWarn
)

// String returns the availability name for logs.
func (a Availability) String() string {
	switch a {
	case Available:
		return "available"
	case UnavailableWarn:
		return "unavailable"
	default:
		return "not-applicable"
	}
}

// Registry holds the adapters for all dialects along with their
// availability, resolved at construction.
//
// Thread Safety: Safe for concurrent use.
type Registry struct {
	mu           sync.RWMutex
	adapters     map[string]Adapter
	availability map[string]Availability
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDialectDisabled marks a dialect as present but unavailable for
// this run. The engine degrades that dialect's pass to a warning plus an
// empty result.
func WithDialectDisabled(dialect string) RegistryOption {
	return func(r *Registry) {
		if _, ok := r.adapters[dialect]; ok {
			r.availability[dialect] = UnavailableWarn
		}
	}
}

// NewRegistry builds a registry with the three stock adapters (erb,
// haml, ruby) registered and available, then applies options.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{
		adapters:     make(map[string]Adapter),
		availability: make(map[string]Availability),
	}

	r.Register(NewERBAdapter())
	r.Register(NewHAMLAdapter())
	r.Register(NewRubyAdapter())

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewEmptyRegistry builds a registry with no adapters. Useful for tests
// that stub dialects individually.
func NewEmptyRegistry() *Registry {
	return &Registry{
		adapters:     make(map[string]Adapter),
		availability: make(map[string]Availability),
	}
}

// Register adds an adapter under its dialect name, marking it available.
// An existing adapter for the same dialect is overwritten.
func (r *Registry) Register(adapter Adapter) {
	if adapter == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[adapter.Dialect()] = adapter
	r.availability[adapter.Dialect()] = Available
}

// Get returns the adapter and availability for a dialect.
// The adapter is nil when availability is NotApplicable.
func (r *Registry) Get(dialect string) (Adapter, Availability) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	adapter, ok := r.adapters[dialect]
	if !ok {
		return nil, NotApplicable
	}
	return adapter, r.availability[dialect]
}

// Extensions returns the file extensions for a dialect, or nil when the
// dialect has no adapter.
func (r *Registry) Extensions(dialect string) []string {
	adapter, _ := r.Get(dialect)
	if adapter == nil {
		return nil
	}
	return adapter.Extensions()
}
