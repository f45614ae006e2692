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
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/ruby"
)

// controllerScan is the result of scanning one controller source file.
type controllerScan struct {
	// actions are public instance methods, in definition order.
	actions []string

	// instanceMethods are all instance methods at any visibility.
	instanceMethods []string

	// helperMethods are names declared via helper_method :sym.
	helperMethods []string
}

// scanControllerSource extracts actions, instance methods, and
// helper_method declarations from controller source.
//
// Description:
//
//	Parses the source with tree-sitter and walks class/module bodies
//	statement by statement, tracking Ruby visibility modifiers. Public
//	instance methods count as actions; every instance method counts in
//	the instance-method set regardless of visibility.
//
//	This is deliberately syntactic. Dynamically defined methods
//	(define_method, method_missing) and metaprogrammed visibility are
//	out of scope.
//
// Inputs:
//
//	ctx - Context for parse cancellation
//	content - Raw Ruby source bytes
//	path - File path, for error reporting only
//
// Outputs:
//
//	*controllerScan - The extracted names
//	error - ErrScanFailed (wrapped) if tree-sitter fails completely
func scanControllerSource(ctx context.Context, content []byte, path string) (*controllerScan, error) {
	root, done, err := parseRuby(ctx, content, path)
	if err != nil {
		return nil, err
	}
	defer done()

	scan := &controllerScan{
		actions:         make([]string, 0, 8),
		instanceMethods: make([]string, 0, 8),
		helperMethods:   make([]string, 0, 2),
	}
	walkBody(root, content, scan)
	return scan, nil
}

// scanMethodNames extracts every instance method name defined anywhere in
// the source. Used for helper modules, where visibility does not matter.
func scanMethodNames(ctx context.Context, content []byte, path string) ([]string, error) {
	root, done, err := parseRuby(ctx, content, path)
	if err != nil {
		return nil, err
	}
	defer done()

	var names []string
	var visit func(n *sitter.Node)
	visit = func(n *sitter.Node) {
		if n.Type() == "method" {
			if name := n.ChildByFieldName("name"); name != nil {
				names = append(names, name.Content(content))
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			visit(n.NamedChild(i))
		}
	}
	visit(root)
	return names, nil
}

// parseRuby parses content and returns the root node plus a closer for
// the underlying tree.
func parseRuby(ctx context.Context, content []byte, path string) (*sitter.Node, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: canceled before parse: %v", ErrScanFailed, path, err)
	}

	parser := sitter.NewParser()
	parser.SetLanguage(ruby.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", ErrScanFailed, path, err)
	}
	return tree.RootNode(), func() { tree.Close() }, nil
}

// walkBody walks a program, class, or module body statement by statement,
// tracking the visibility in effect for method definitions.
//
// Methods nested inside control flow are ignored; the matching is bounded
// to the conventional controller shape.
func walkBody(body *sitter.Node, content []byte, scan *controllerScan) {
	visibility := "public"

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)

		switch child.Type() {
		case "method":
			name := child.ChildByFieldName("name")
			if name == nil {
				continue
			}
			text := name.Content(content)
			scan.instanceMethods = append(scan.instanceMethods, text)
			if visibility == "public" {
				scan.actions = append(scan.actions, text)
			}

		case "identifier":
			switch child.Content(content) {
			case "private", "protected", "public":
				visibility = child.Content(content)
			}

		case "call":
			handleBodyCall(child, content, scan)

		case "class", "module":
			if inner := child.ChildByFieldName("body"); inner != nil {
				walkBody(inner, content, scan)
			}
		}
	}
}

// handleBodyCall inspects a bare call statement in a class body for
// helper_method declarations.
func handleBodyCall(call *sitter.Node, content []byte, scan *controllerScan) {
	method := call.ChildByFieldName("method")
	if method == nil || method.Content(content) != "helper_method" {
		return
	}

	args := call.ChildByFieldName("arguments")
	if args == nil {
		return
	}
	for i := 0; i < int(args.NamedChildCount()); i++ {
		arg := args.NamedChild(i)
		if arg.Type() != "simple_symbol" {
			continue
		}
		scan.helperMethods = append(scan.helperMethods, strings.TrimPrefix(arg.Content(content), ":"))
	}
}
