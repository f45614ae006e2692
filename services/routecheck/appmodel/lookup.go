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
	"os"
	"path/filepath"
	"strings"
)

// viewsLookup answers template existence against app/views on disk.
//
// A template "exists" for prefix "admin/users/index" when any file named
// "index.<something>" sits in app/views/admin/users. Format and handler
// extensions (.html.erb, .json.jbuilder, .haml, ...) all count; implicit
// rendering only needs the action-named template to be present.
type viewsLookup struct {
	viewsDir string
}

var _ LookupContext = (*viewsLookup)(nil)

// TemplateExists reports whether a template exists at the given prefix.
//
// A missing or unreadable directory means "does not exist"; filesystem
// trouble is never fatal at resolution time.
func (l *viewsLookup) TemplateExists(path string) bool {
	dir, base := filepath.Split(filepath.FromSlash(path))
	if base == "" {
		return false
	}

	entries, err := os.ReadDir(filepath.Join(l.viewsDir, dir))
	if err != nil {
		return false
	}

	prefix := base + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			return true
		}
	}
	return false
}

// NewViewsLookup returns a LookupContext backed by the given views
// directory. Exposed for tests and custom model implementations.
func NewViewsLookup(viewsDir string) LookupContext {
	return &viewsLookup{viewsDir: viewsDir}
}
