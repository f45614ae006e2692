// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package ux

import (
	"testing"
)

func TestSetPlainOverridesDetection(t *testing.T) {
	SetPlain(true)
	t.Cleanup(func() {
		plainMu.Lock()
		plainOverride = nil
		plainMu.Unlock()
	})

	if !Plain() {
		t.Fatal("Plain() = false after SetPlain(true)")
	}

	SetPlain(false)
	if Plain() {
		t.Fatal("Plain() = true after SetPlain(false)")
	}
}

func TestPlainRespectsNoColorEnv(t *testing.T) {
	plainMu.Lock()
	plainOverride = nil
	plainMu.Unlock()

	t.Setenv("NO_COLOR", "1")
	if !Plain() {
		t.Error("Plain() = false with NO_COLOR set")
	}
}

func TestIconRenderPlain(t *testing.T) {
	SetPlain(true)
	t.Cleanup(func() {
		plainMu.Lock()
		plainOverride = nil
		plainMu.Unlock()
	})

	if got := IconError.Render(); got != "✗" {
		t.Errorf("IconError.Render() = %q in plain mode, want bare icon", got)
	}
	if got := IconSuccess.Render(); got != "✓" {
		t.Errorf("IconSuccess.Render() = %q in plain mode, want bare icon", got)
	}
}

func TestStyledPlainPassthrough(t *testing.T) {
	SetPlain(true)
	t.Cleanup(func() {
		plainMu.Lock()
		plainOverride = nil
		plainMu.Unlock()
	})

	if got := styled(Styles.Error, "users#show"); got != "users#show" {
		t.Errorf("styled() = %q in plain mode, want unmodified text", got)
	}
}
