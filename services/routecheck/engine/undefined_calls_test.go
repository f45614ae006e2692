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
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/ghiculescu/rails-route-checker/services/routecheck/appmodel"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/config"
	"github.com/ghiculescu/rails-route-checker/services/routecheck/parsers"
)

// stubAdapter feeds fixed invocation names through the engine's filter.
type stubAdapter struct {
	dialect string
	exts    []string
	names   map[string][]string // keyed by file base name
	err     error
	calls   int
}

func (s *stubAdapter) Dialect() string      { return s.dialect }
func (s *stubAdapter) Extensions() []string { return s.exts }

func (s *stubAdapter) Run(_ context.Context, filename string, filter parsers.Filter) ([]string, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	var accepted []string
	for _, name := range s.names[filepath.Base(filename)] {
		if filter(name) {
			accepted = append(accepted, name)
		}
	}
	return accepted, nil
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir %s: %v", rel, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
}

func TestUndefinedPathMethodCalls(t *testing.T) {
	ctx := context.Background()

	t.Run("nil context rejected", func(t *testing.T) {
		e := New(&fakeModel{}, nil)
		//nolint:staticcheck // deliberately nil
		if _, err := e.UndefinedPathMethodCalls(nil); !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("Expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("pass with no files never touches the adapter", func(t *testing.T) {
		root := t.TempDir()
		stub := &stubAdapter{dialect: "erb", exts: []string{".erb"}}
		registry := parsers.NewEmptyRegistry()
		registry.Register(stub)

		model := &fakeModel{info: map[string]*appmodel.ControllerInfo{"application": controllerInfo()}}
		e := New(model, nil, WithRoot(root), WithRegistry(registry))

		got, err := e.UndefinedPathMethodCalls(ctx)
		if err != nil {
			t.Fatalf("UndefinedPathMethodCalls: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Expected no results, got %v", got)
		}
		if stub.calls != 0 {
			t.Fatalf("Adapter was invoked %d times for an empty dialect", stub.calls)
		}
	})

	t.Run("unavailable dialect degrades to empty pass", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "app/views/home/index.haml", "= fake_thing_path")

		model := &fakeModel{info: map[string]*appmodel.ControllerInfo{
			"application": controllerInfo(),
		}}
		e := New(model, nil,
			WithRoot(root),
			WithRegistry(parsers.NewRegistry(parsers.WithDialectDisabled("haml"))),
		)

		got, err := e.UndefinedPathMethodCalls(ctx)
		if err != nil {
			t.Fatalf("UndefinedPathMethodCalls: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("Expected the haml pass to be skipped, got %v", got)
		}
	})

	t.Run("unresolved file skipped entirely", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "app/views/home/index.html.erb", "<%= fake_thing_path %>")

		stub := &stubAdapter{dialect: "erb", exts: []string{".erb"}}
		registry := parsers.NewEmptyRegistry()
		registry.Register(stub)

		// No application controller info, nothing resolvable.
		e := New(&fakeModel{}, nil, WithRoot(root), WithRegistry(registry))

		got, err := e.UndefinedPathMethodCalls(ctx)
		if err != nil {
			t.Fatalf("UndefinedPathMethodCalls: %v", err)
		}
		if len(got) != 0 || stub.calls != 0 {
			t.Fatalf("Expected unresolved file to be skipped, got %v (%d calls)", got, stub.calls)
		}
	})

	t.Run("adapter failure is fatal", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "app/views/home/index.html.erb", "<%= fake_thing_path %>")

		stub := &stubAdapter{dialect: "erb", exts: []string{".erb"}, err: errors.New("boom")}
		registry := parsers.NewEmptyRegistry()
		registry.Register(stub)

		model := &fakeModel{info: map[string]*appmodel.ControllerInfo{"application": controllerInfo()}}
		e := New(model, nil, WithRoot(root), WithRegistry(registry))

		if _, err := e.UndefinedPathMethodCalls(ctx); err == nil {
			t.Fatal("Expected the adapter failure to propagate")
		}
	})

	t.Run("whitelist suppresses only the exact file", func(t *testing.T) {
		root := t.TempDir()
		write(t, root, "app/views/home/index.html.erb", "ignored")
		write(t, root, "app/views/home/show.html.erb", "ignored")

		stub := &stubAdapter{
			dialect: "erb",
			exts:    []string{".erb"},
			names: map[string][]string{
				"index.html.erb": {"beta_signup_path"},
				"show.html.erb":  {"beta_signup_path"},
			},
		}
		registry := parsers.NewEmptyRegistry()
		registry.Register(stub)

		cfg := config.New(nil, nil, map[string][]string{
			"app/views/home/index.html.erb": {"beta_signup"},
		})
		model := &fakeModel{info: map[string]*appmodel.ControllerInfo{"application": controllerInfo()}}
		e := New(model, cfg, WithRoot(root), WithRegistry(registry))

		got, err := e.UndefinedPathMethodCalls(ctx)
		if err != nil {
			t.Fatalf("UndefinedPathMethodCalls: %v", err)
		}
		if !reflect.DeepEqual(got, []string{"beta_signup_path"}) {
			t.Fatalf("Expected one finding from the unwhitelisted file, got %v", got)
		}
	})
}

// End-to-end over a real file tree with the stock adapters.
func TestUndefinedPathMethodCallsEndToEnd(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	write(t, root, "app/controllers/home_controller.rb", `
class HomeController < ApplicationController
  def index
  end
end
`)
	write(t, root, "app/views/home/index.html.erb",
		`<p><%= link_to "You", user_path %></p><p><%= fake_thing_path %></p>`)

	model := &fakeModel{
		info: map[string]*appmodel.ControllerInfo{
			"home":        controllerInfo("index"),
			"application": controllerInfo(),
		},
		names: map[string]struct{}{"user": {}},
	}

	e := New(model, nil, WithRoot(root))

	got, err := e.UndefinedPathMethodCalls(ctx)
	if err != nil {
		t.Fatalf("UndefinedPathMethodCalls: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"fake_thing_path"}) {
		t.Fatalf("Got %v, want [fake_thing_path]", got)
	}
}
