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
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// discoverFiles returns the slash-separated paths, relative to the root,
// of every file belonging to a dialect under its conventional directory:
// app/views for templates, app for Ruby sources.
//
// A missing directory yields an empty list, which short-circuits the
// dialect's pass before any adapter is touched.
func (e *Engine) discoverFiles(dialect string) []string {
	var base string
	var exts []string

	switch dialect {
	case "erb":
		base, exts = "app/views", []string{".erb"}
	case "haml":
		base, exts = "app/views", []string{".haml"}
	case "ruby":
		base, exts = "app", []string{".rb"}
	default:
		return nil
	}

	dir := filepath.Join(e.root, filepath.FromSlash(base))
	if _, err := os.Stat(dir); err != nil {
		return nil
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries do not exist for discovery purposes.
			slog.Debug("Skipping unreadable entry",
				slog.String("path", path),
				slog.String("error", err.Error()),
			)
			return nil
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || name == "vendor" || name == "node_modules" {
				return filepath.SkipDir
			}
			return nil
		}
		for _, ext := range exts {
			if strings.HasSuffix(d.Name(), ext) {
				rel, relErr := filepath.Rel(e.root, path)
				if relErr != nil {
					return relErr
				}
				files = append(files, filepath.ToSlash(rel))
				break
			}
		}
		return nil
	})
	if err != nil {
		slog.Warn("File discovery incomplete",
			slog.String("dialect", dialect),
			slog.String("error", err.Error()),
		)
	}

	return files
}
