// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the relay TUI.
package components

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// =============================================================================
// SHARED HELPER FUNCTIONS
// =============================================================================

// toStr converts an integer to a string without using fmt package.
func toStr(n int) string {
	if n == 0 {
		return "0"
	}

	negative := n < 0
	if negative {
		n = -n
	}

	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}

	if negative {
		return "-" + string(digits)
	}
	return string(digits)
}

// wordWrap wraps text at word boundaries to fit within maxWidth columns.
// Words wider than maxWidth are broken mid-word.
func wordWrap(text string, maxWidth int) string {
	if maxWidth < 1 {
		return text
	}

	var out []string
	for _, line := range strings.Split(text, "\n") {
		if runewidth.StringWidth(line) <= maxWidth {
			out = append(out, line)
			continue
		}

		var current string
		for _, word := range strings.Fields(line) {
			switch {
			case current == "":
				current = word
			case runewidth.StringWidth(current)+1+runewidth.StringWidth(word) <= maxWidth:
				current += " " + word
			default:
				out = append(out, current)
				current = word
			}
			for runewidth.StringWidth(current) > maxWidth {
				head := runewidth.Truncate(current, maxWidth, "")
				out = append(out, head)
				current = strings.TrimPrefix(current, head)
			}
		}
		if current != "" {
			out = append(out, current)
		}
	}
	return strings.Join(out, "\n")
}

// maxLineWidth returns the display width of the widest line.
func maxLineWidth(text string) int {
	widest := 0
	for _, line := range strings.Split(text, "\n") {
		if w := runewidth.StringWidth(line); w > widest {
			widest = w
		}
	}
	return widest
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
