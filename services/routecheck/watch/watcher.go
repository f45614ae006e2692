// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch re-runs route checks when application sources change.
//
// The watcher observes the app/ and config/ trees of a Rails-style
// application and debounces bursts of file events (editor saves, git
// checkouts) into a single re-check. Only files that can affect a check
// result trigger one: Ruby sources, templates, the routes manifest, and
// the checker's own config file.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change records a single relevant file event.
type Change struct {
	// Path is the absolute path of the changed file.
	Path string

	// Op describes what happened to the file.
	Op Op

	// Time is when the event was observed.
	Time time.Time
}

// Op is the kind of file operation behind a Change.
type Op int

const (
	// OpCreate indicates a file was created.
	OpCreate Op = iota

	// OpWrite indicates a file was modified.
	OpWrite

	// OpRemove indicates a file was deleted.
	OpRemove

	// OpRename indicates a file was renamed.
	OpRename
)

// String returns the operation name.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	default:
		return "unknown"
	}
}

// Handler receives a debounced batch of changes. Each re-check builds a
// fresh application model, so handlers do not need the change detail to
// produce a correct result; it is provided for logging.
type Handler func(changes []Change)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long to wait for further events before invoking
	// the handler. Default: 250ms.
	Debounce time.Duration

	// ExtraPaths are additional files to watch besides the app/ and
	// config/ trees, such as a config file outside the app root.
	ExtraPaths []string

	// BufferSize is the capacity of the internal event channel.
	// Default: 256.
	BufferSize int
}

// watchedDirs are the subtrees under the app root that can affect a
// check result.
var watchedDirs = []string{"app", "config"}

// relevantExtensions are the file types whose changes trigger a
// re-check.
var relevantExtensions = map[string]struct{}{
	".rb":   {},
	".erb":  {},
	".haml": {},
	".yml":  {},
	".yaml": {},
}

// ignoredDirs are directory names skipped while registering watches.
var ignoredDirs = map[string]struct{}{
	".git":         {},
	"node_modules": {},
	"tmp":          {},
	"log":          {},
	"vendor":       {},
}

// Watcher debounces filesystem events under an application root and
// invokes a handler once per settled batch.
//
// Thread Safety: Safe for concurrent use. The handler runs on a single
// goroutine, so a slow handler delays subsequent batches rather than
// overlapping with them.
type Watcher struct {
	root     string
	notifier *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	extra    []string

	changes  chan Change
	done     chan struct{}
	stopOnce sync.Once

	mu      sync.RWMutex
	running bool
}

// New creates a Watcher rooted at the application directory. Call Start
// to begin watching and Stop to release the underlying notifier.
func New(root string, handler Handler, opts *Options) (*Watcher, error) {
	options := Options{}
	if opts != nil {
		options = *opts
	}
	if options.Debounce <= 0 {
		options.Debounce = 250 * time.Millisecond
	}
	if options.BufferSize <= 0 {
		options.BufferSize = 256
	}

	notifier, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		root:     root,
		notifier: notifier,
		handler:  handler,
		debounce: options.Debounce,
		extra:    options.ExtraPaths,
		changes:  make(chan Change, options.BufferSize),
		done:     make(chan struct{}),
	}, nil
}

// Start registers watches on app/ and config/ (recursively) plus any
// extra paths, then begins delivering debounced batches to the handler.
// Returns immediately; watching continues until Stop or context
// cancellation.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	for _, dir := range watchedDirs {
		path := filepath.Join(w.root, dir)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := w.addRecursive(path); err != nil {
			return err
		}
	}
	for _, path := range w.extra {
		// Watch the containing directory so editors that replace the
		// file on save (rename + create) are still observed.
		if err := w.notifier.Add(filepath.Dir(path)); err != nil {
			slog.Debug("watch: cannot watch extra path", "path", path, "error", err)
		}
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)

	return nil
}

// Stop ends watching and closes the underlying notifier. Safe to call
// multiple times.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.notifier.Close()

		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
	})
}

// Running reports whether the watcher is active.
func (w *Watcher) Running() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.running
}

// addRecursive registers a watch on every non-ignored directory under
// root.
func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		name := d.Name()
		if _, skip := ignoredDirs[name]; skip || (strings.HasPrefix(name, ".") && path != root) {
			return filepath.SkipDir
		}
		return w.notifier.Add(path)
	})
}

// relevant reports whether a changed path can affect a check result.
func (w *Watcher) relevant(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	for _, extra := range w.extra {
		if path == extra {
			return true
		}
	}
	_, ok := relevantExtensions[filepath.Ext(path)]
	return ok
}

// processEvents converts notifier events into Changes and feeds the
// debouncer. New subdirectories of watched trees are added on create.
func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.notifier.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if _, skip := ignoredDirs[filepath.Base(event.Name)]; !skip {
						w.notifier.Add(event.Name)
					}
					continue
				}
			}

			if !w.relevant(event.Name) {
				continue
			}

			change := Change{
				Path: event.Name,
				Op:   convertOp(event.Op),
				Time: time.Now(),
			}

			select {
			case w.changes <- change:
			default:
				// The debouncer is behind; the next batch rebuilds the
				// whole model anyway, so a dropped event is harmless.
			}

		case err, ok := <-w.notifier.Errors:
			if !ok {
				return
			}
			slog.Warn("watch: notifier error", "error", err)
		}
	}
}

// convertOp maps fsnotify flags to an Op.
func convertOp(op fsnotify.Op) Op {
	switch {
	case op.Has(fsnotify.Create):
		return OpCreate
	case op.Has(fsnotify.Remove):
		return OpRemove
	case op.Has(fsnotify.Rename):
		return OpRename
	default:
		return OpWrite
	}
}

// debounceLoop batches changes and invokes the handler once the
// debounce window passes without new events.
func (w *Watcher) debounceLoop(ctx context.Context) {
	var batch []Change
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if len(batch) > 0 {
			deduped := dedupe(batch)
			if w.handler != nil {
				w.handler(deduped)
			}
			batch = batch[:0]
		}
		if timer != nil {
			timer.Stop()
			timer = nil
			timerC = nil
		}
	}

	for {
		select {
		case <-ctx.Done():
			flush()
			return
		case <-w.done:
			flush()
			return
		case change := <-w.changes:
			batch = append(batch, change)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			flush()
		}
	}
}

// dedupe keeps the most recent change per path, preserving first-seen
// order.
func dedupe(changes []Change) []Change {
	seen := make(map[string]int, len(changes))
	result := make([]Change, 0, len(changes))

	for _, change := range changes {
		if idx, ok := seen[change.Path]; ok {
			result[idx] = change
		} else {
			seen[change.Path] = len(result)
			result = append(result, change)
		}
	}
	return result
}
