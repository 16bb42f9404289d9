// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the relay chat surface.
package model

// =============================================================================
// REACTION TYPES
// =============================================================================

// Reaction is one raw (user, emoji) row as delivered by the feed.
// A user reacts with a given emoji at most once per message.
type Reaction struct {
	UserID string `json:"user_id"`
	Emoji  string `json:"emoji"`
}

// GroupedReaction is the derived display group for one emoji on one message:
// its count, the reacting users in reaction order, and whether the viewer is
// among them. Grouped reactions are recomputed whenever the raw list changes
// and are never stored.
type GroupedReaction struct {
	Emoji      string   `json:"emoji"`
	Count      int      `json:"count"`
	Users      []string `json:"users"`
	HasReacted bool     `json:"has_reacted"`
}
