// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat timeline view for the relay TUI.
//
// This file implements the grouping rules: whether a message merges into the
// previous author block, and where date separators are inserted. Both are
// pure functions over the (current, previous) pair, recomputed per render
// pass and never persisted.
package chat

import (
	"time"

	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// GROUPING RULES
// =============================================================================

// DefaultGroupWindow is the maximum gap between two same-author messages
// that still renders as one visual group.
const DefaultGroupWindow = 60 * time.Second

// ShouldGroup reports whether current should render grouped under previous,
// omitting the repeated header and avatar.
//
// Grouping requires: a previous message, the same author, neither message
// pinned, both timestamps present, and a gap of at most window. A missing
// timestamp on either side breaks the group rather than guessing.
func ShouldGroup(current, previous *model.Message, window time.Duration) bool {
	if previous == nil {
		return false
	}
	if current.Author.ID != previous.Author.ID {
		return false
	}
	if current.Pinned || previous.Pinned {
		return false
	}
	if current.CreatedAt.IsZero() || previous.CreatedAt.IsZero() {
		return false
	}

	gap := current.CreatedAt.Sub(previous.CreatedAt)
	return gap >= 0 && gap <= window
}

// NeedsDateSeparator reports whether a date separator belongs above current:
// both messages carry timestamps and their local calendar dates differ.
func NeedsDateSeparator(current, previous *model.Message) bool {
	if previous == nil {
		return false
	}
	if current.CreatedAt.IsZero() || previous.CreatedAt.IsZero() {
		return false
	}

	cy, cm, cd := current.CreatedAt.Local().Date()
	py, pm, pd := previous.CreatedAt.Local().Date()
	return cy != py || cm != pm || cd != pd
}

// =============================================================================
// SEPARATOR LABELS
// =============================================================================

// FormatSeparatorLabel formats a date separator label for the given time:
// "Today", "Yesterday", or a full date string.
func FormatSeparatorLabel(ts time.Time) string {
	return formatSeparatorLabelAt(ts, time.Now())
}

// formatSeparatorLabelAt is the testable core of FormatSeparatorLabel.
func formatSeparatorLabelAt(ts, now time.Time) string {
	ty, tm, td := ts.Local().Date()
	ny, nm, nd := now.Local().Date()
	if ty == ny && tm == nm && td == nd {
		return "Today"
	}

	yesterday := now.AddDate(0, 0, -1)
	yy, ym, yd := yesterday.Local().Date()
	if ty == yy && tm == ym && td == yd {
		return "Yesterday"
	}

	return ts.Local().Format("Monday, January 2, 2006")
}
