// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat timeline view for the relay TUI.
package chat

import "github.com/morganforge/relay-tui/internal/model"

// =============================================================================
// REACTION AGGREGATION
// =============================================================================

// GroupReactions folds raw (user, emoji) reaction rows into display groups,
// one per emoji in first-seen order. Users keep their reaction order within
// a group, and HasReacted is set when viewerID appears among them.
//
// The result is derived display state: it is recomputed whenever the raw
// list changes and never stored on the message.
func GroupReactions(reactions []model.Reaction, viewerID string) []model.GroupedReaction {
	if len(reactions) == 0 {
		return nil
	}

	index := make(map[string]int, len(reactions))
	groups := make([]model.GroupedReaction, 0, len(reactions))

	for _, r := range reactions {
		i, seen := index[r.Emoji]
		if !seen {
			index[r.Emoji] = len(groups)
			groups = append(groups, model.GroupedReaction{Emoji: r.Emoji})
			i = len(groups) - 1
		}
		groups[i].Count++
		groups[i].Users = append(groups[i].Users, r.UserID)
		if r.UserID == viewerID {
			groups[i].HasReacted = true
		}
	}
	return groups
}
