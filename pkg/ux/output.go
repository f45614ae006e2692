// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package ux provides terminal output styling for the route checker CLI.
//
// Styling is automatic: when stdout is not a terminal (CI, pipes) or
// NO_COLOR is set, output degrades to plain text so reports stay
// grep-friendly.
package ux

import (
	"fmt"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// Semantic colors.
var (
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#6C7A80")
	ColorTitle   = lipgloss.Color("#20B9B4")
)

// Styles provides pre-configured lipgloss styles.
var Styles = struct {
	Title     lipgloss.Style
	Bold      lipgloss.Style
	Muted     lipgloss.Style
	Success   lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Highlight lipgloss.Style
}{
	Title:     lipgloss.NewStyle().Bold(true).Foreground(ColorTitle),
	Bold:      lipgloss.NewStyle().Bold(true),
	Muted:     lipgloss.NewStyle().Foreground(ColorMuted),
	Success:   lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning:   lipgloss.NewStyle().Foreground(ColorWarning),
	Error:     lipgloss.NewStyle().Foreground(ColorError),
	Highlight: lipgloss.NewStyle().Bold(true).Foreground(ColorError),
}

// Icon provides status icons.
type Icon string

const (
	IconSuccess Icon = "✓"
	IconWarning Icon = "⚠"
	IconError   Icon = "✗"
	IconBullet  Icon = "•"
)

// Render returns the icon with its semantic styling, or the bare icon
// in plain mode.
func (i Icon) Render() string {
	if Plain() {
		return string(i)
	}
	switch i {
	case IconSuccess:
		return Styles.Success.Render(string(i))
	case IconWarning:
		return Styles.Warning.Render(string(i))
	case IconError:
		return Styles.Error.Render(string(i))
	default:
		return string(i)
	}
}

var (
	plainMu       sync.RWMutex
	plainOverride *bool
)

// SetPlain forces plain output on or off, overriding terminal
// detection. Used by the --no-color flag.
func SetPlain(plain bool) {
	plainMu.Lock()
	defer plainMu.Unlock()
	plainOverride = &plain
}

// Plain reports whether output should skip styling.
func Plain() bool {
	plainMu.RLock()
	override := plainOverride
	plainMu.RUnlock()
	if override != nil {
		return *override
	}
	if os.Getenv("NO_COLOR") != "" {
		return true
	}
	return !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd())
}

// styled applies a style unless plain mode is active.
func styled(style lipgloss.Style, text string) string {
	if Plain() {
		return text
	}
	return style.Render(text)
}

// Render applies a style unless plain mode is active. It is the
// building block for callers that write to their own io.Writer.
func Render(style lipgloss.Style, text string) string {
	return styled(style, text)
}

// Title prints a styled section title.
func Title(text string) {
	fmt.Println(styled(Styles.Title, text))
}

// Success prints a success message with a checkmark.
func Success(text string) {
	fmt.Printf("%s %s\n", IconSuccess.Render(), styled(Styles.Success, text))
}

// Warning prints a warning message to stderr.
func Warning(text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconWarning.Render(), styled(Styles.Warning, text))
}

// Error prints an error message to stderr.
func Error(text string) {
	fmt.Fprintf(os.Stderr, "%s %s\n", IconError.Render(), styled(Styles.Error, text))
}

// Item prints a bulleted list item.
func Item(text string) {
	fmt.Printf("  %s %s\n", IconBullet.Render(), text)
}

// Muted prints secondary text.
func Muted(text string) {
	fmt.Println(styled(Styles.Muted, text))
}
