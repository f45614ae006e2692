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

import "errors"

// Sentinel errors for model construction failures.
//
// These can be checked with errors.Is() to determine the failure category
// without inspecting messages.
var (
	// ErrInvalidManifest indicates the route manifest could not be read
	// or parsed. A corrupt manifest is fatal; the tool does not attempt
	// partial-result recovery from a broken route table.
	ErrInvalidManifest = errors.New("invalid route manifest")

	// ErrScanFailed indicates the Ruby parser failed completely on a
	// controller or helper source file.
	ErrScanFailed = errors.New("source scan failed")
)
