// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"

	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// REACTION GROUPING TESTS
// =============================================================================

func TestGroupReactionsFirstSeenOrder(t *testing.T) {
	reactions := []model.Reaction{
		{UserID: "u1", Emoji: "\U0001F44D"},
		{UserID: "u2", Emoji: "\U0001F389"},
		{UserID: "u3", Emoji: "\U0001F44D"},
		{UserID: "u4", Emoji: "❤️"},
		{UserID: "u5", Emoji: "\U0001F389"},
	}

	groups := GroupReactions(reactions, "u3")
	if len(groups) != 3 {
		t.Fatalf("group count = %d, want 3", len(groups))
	}

	wantOrder := []string{"\U0001F44D", "\U0001F389", "❤️"}
	wantCounts := []int{2, 2, 1}
	for i, g := range groups {
		if g.Emoji != wantOrder[i] {
			t.Errorf("group %d emoji = %q, want %q", i, g.Emoji, wantOrder[i])
		}
		if g.Count != wantCounts[i] {
			t.Errorf("group %d count = %d, want %d", i, g.Count, wantCounts[i])
		}
	}
}

func TestGroupReactionsViewerFlag(t *testing.T) {
	reactions := []model.Reaction{
		{UserID: "u1", Emoji: "\U0001F44D"},
		{UserID: "me", Emoji: "\U0001F389"},
	}

	groups := GroupReactions(reactions, "me")
	if groups[0].HasReacted {
		t.Error("viewer did not react with the first emoji")
	}
	if !groups[1].HasReacted {
		t.Error("viewer reacted with the second emoji")
	}
}

func TestGroupReactionsUserLists(t *testing.T) {
	reactions := []model.Reaction{
		{UserID: "u1", Emoji: "\U0001F44D"},
		{UserID: "u2", Emoji: "\U0001F44D"},
	}

	groups := GroupReactions(reactions, "")
	if len(groups) != 1 {
		t.Fatalf("group count = %d, want 1", len(groups))
	}
	if len(groups[0].Users) != 2 || groups[0].Users[0] != "u1" || groups[0].Users[1] != "u2" {
		t.Errorf("user list = %v, want [u1 u2]", groups[0].Users)
	}
}

func TestGroupReactionsEmpty(t *testing.T) {
	if got := GroupReactions(nil, "me"); len(got) != 0 {
		t.Errorf("empty input produced %d groups", len(got))
	}
}
