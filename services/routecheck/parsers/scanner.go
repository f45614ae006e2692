// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package parsers

import (
	"context"
	"fmt"
	"regexp"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// helperCallName matches identifiers shaped like generated route helpers.
var helperCallName = regexp.MustCompile(`^[a-z_][a-zA-Z0-9_]*(_path|_url)$`)

// scanRubyFragment extracts every *_path / *_url invocation name from a
// Ruby fragment, in source order.
//
// Description:
//
//	Parses the fragment with tree-sitter and collects identifier nodes
//	matching the helper call shape. Identifiers that are themselves
//	method definition names (def user_path) are excluded; defining a
//	helper is not invoking one. Tree-sitter tolerates incomplete
//	fragments, which is what makes it usable on code extracted from
//	templates.
//
// Inputs:
//
//	ctx - Context for parse cancellation
//	src - Ruby source, possibly a concatenation of template fragments
//	origin - The originating filename, for error reporting only
//
// Outputs:
//
//	[]string - Raw invocation names, duplicates preserved
//	error - ErrScanFailed (wrapped) if tree-sitter fails completely
func scanRubyFragment(ctx context.Context, src []byte, origin string) ([]string, error) {
	if len(src) == 0 {
		return nil, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: canceled before parse: %v", ErrScanFailed, origin, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrScanFailed, origin, err)
	}
	defer tree.Close()

	var names []string
	defNames := make(map[uint32]struct{})

	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		switch n.Type() {
		case "method", "singleton_method":
			if name := n.ChildByFieldName("name"); name != nil {
				defNames[name.StartByte()] = struct{}{}
			}
		case "identifier":
			text := n.Content(src)
			if helperCallName.MatchString(text) {
				if _, isDef := defNames[n.StartByte()]; !isDef {
					names = append(names, text)
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(tree.RootNode())

	return names, nil
}

// applyFilter keeps the names the filter accepts, preserving order.
// A nil filter accepts everything.
func applyFilter(names []string, filter Filter) []string {
	if filter == nil {
		return names
	}
	accepted := make([]string, 0, len(names))
	for _, name := range names {
		if filter(name) {
			accepted = append(accepted, name)
		}
	}
	return accepted
}
