// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"testing"
	"time"

	"github.com/morganforge/relay-tui/internal/model"
)

func snapshotFixture(id string) (*model.Message, SnapshotInputs) {
	msg := &model.Message{
		ID:        id,
		Author:    model.Author{ID: "u1", DisplayName: "Ann", Initials: "A"},
		Content:   "hello",
		CreatedAt: time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
		Reactions: []model.Reaction{{UserID: "u2", Emoji: "\U0001F44D"}},
	}
	in := SnapshotInputs{
		Grouped: false,
		Layout:  "compact",
	}
	return msg, in
}

// =============================================================================
// SNAPSHOT EQUALITY TESTS
// =============================================================================

func TestRowSnapshotEqualForUnchangedRow(t *testing.T) {
	msg, in := snapshotFixture("m1")
	a := SnapshotRow(msg, in)
	b := SnapshotRow(msg, in)
	if !a.Equal(b) {
		t.Error("identical inputs must produce equal snapshots")
	}
}

func TestRowSnapshotDetectsChanges(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(msg *model.Message, in *SnapshotInputs)
	}{
		{"content edit", func(m *model.Message, _ *SnapshotInputs) {
			m.ApplyEdit("hello again", time.Now())
		}},
		{"author rename", func(m *model.Message, _ *SnapshotInputs) {
			m.Author.DisplayName = "Ann Smith"
		}},
		{"reaction added", func(m *model.Message, _ *SnapshotInputs) {
			m.Reactions = append(m.Reactions, model.Reaction{UserID: "u3", Emoji: "\U0001F389"})
		}},
		{"reaction user swapped", func(m *model.Message, _ *SnapshotInputs) {
			m.Reactions[0].UserID = "u9"
		}},
		{"pinned", func(m *model.Message, _ *SnapshotInputs) {
			m.Pinned = true
		}},
		{"pending flag", func(m *model.Message, _ *SnapshotInputs) {
			m.Pending = true
		}},
		{"grouping changed", func(_ *model.Message, in *SnapshotInputs) {
			in.Grouped = true
		}},
		{"highlight changed", func(_ *model.Message, in *SnapshotInputs) {
			in.Highlighted = true
		}},
		{"search query changed", func(_ *model.Message, in *SnapshotInputs) {
			in.SearchQuery = "hel"
		}},
		{"saved toggled", func(_ *model.Message, in *SnapshotInputs) {
			in.Saved = true
		}},
		{"layout switched", func(_ *model.Message, in *SnapshotInputs) {
			in.Layout = "bubble"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, in := snapshotFixture("m1")
			before := SnapshotRow(msg, in)
			tt.mutate(msg, &in)
			after := SnapshotRow(msg, in)
			if before.Equal(after) {
				t.Error("mutation must make snapshots unequal")
			}
		})
	}
}

func TestRowSnapshotAttachmentResolution(t *testing.T) {
	msg, in := snapshotFixture("m1")
	msg.Attachments = []model.Attachment{{StorageID: "s1", Name: "pic.png", MimeType: "image/png"}}

	in.ResolveAttachment = func(string) (string, bool) { return "", false }
	unresolved := SnapshotRow(msg, in)

	in.ResolveAttachment = func(string) (string, bool) { return "https://cdn.example/s1", true }
	resolved := SnapshotRow(msg, in)

	// A URL arriving for a pending attachment must dirty the row even though
	// the message record is unchanged.
	if unresolved.Equal(resolved) {
		t.Error("attachment URL resolution must change the snapshot")
	}
	if !resolved.Equal(SnapshotRow(msg, in)) {
		t.Error("stable resolution must keep snapshots equal")
	}
}

// =============================================================================
// ROW CACHE TESTS
// =============================================================================

func TestRowCacheDirtyLocality(t *testing.T) {
	cache := NewRowCache()

	m1, in := snapshotFixture("m1")
	m2, _ := snapshotFixture("m2")

	s1 := SnapshotRow(m1, in)
	s2 := SnapshotRow(m2, in)
	cache.Store(s1, "render-m1")
	cache.Store(s2, "render-m2")

	// Toggle a reaction on m2 only.
	m2.Reactions = append(m2.Reactions, model.Reaction{UserID: "me", Emoji: "\U0001F389"})

	if _, dirty := cache.Lookup(SnapshotRow(m1, in)); dirty {
		t.Error("untouched sibling row must stay clean")
	}
	if cached, dirty := cache.Lookup(SnapshotRow(m2, in)); !dirty {
		t.Errorf("mutated row must be dirty, got cached %q", cached)
	}
}

func TestRowCacheLookupReturnsRendered(t *testing.T) {
	cache := NewRowCache()
	msg, in := snapshotFixture("m1")

	snap := SnapshotRow(msg, in)
	cache.Store(snap, "rendered output")

	cached, dirty := cache.Lookup(snap)
	if dirty || cached != "rendered output" {
		t.Errorf("Lookup = (%q, %v), want cached render", cached, dirty)
	}
}

func TestRowCachePruneAndInvalidate(t *testing.T) {
	cache := NewRowCache()
	m1, in := snapshotFixture("m1")
	m2, _ := snapshotFixture("m2")
	cache.Store(SnapshotRow(m1, in), "r1")
	cache.Store(SnapshotRow(m2, in), "r2")

	cache.Prune(map[string]bool{"m1": true})
	if cache.Len() != 1 {
		t.Errorf("Len after prune = %d, want 1", cache.Len())
	}
	if _, dirty := cache.Lookup(SnapshotRow(m2, in)); !dirty {
		t.Error("pruned row must be dirty")
	}

	cache.Invalidate()
	if cache.Len() != 0 {
		t.Errorf("Len after invalidate = %d, want 0", cache.Len())
	}
}
