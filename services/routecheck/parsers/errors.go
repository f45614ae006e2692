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

import "errors"

// Sentinel errors for adapter failures.
var (
	// ErrScanFailed indicates the underlying parser failed completely
	// on a file. Adapter-internal failures propagate as fatal; the tool
	// does not attempt partial-result recovery from a parser crash.
	ErrScanFailed = errors.New("invocation scan failed")

	// ErrUnsupportedDialect indicates a pass was requested for a
	// dialect with no registered adapter.
	ErrUnsupportedDialect = errors.New("unsupported dialect")
)
