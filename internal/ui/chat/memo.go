// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Memoization gate for timeline rows. Before each pass, every row is reduced
// to a normalized snapshot; a row re-renders only when its snapshot differs
// from the previous pass. A feed update that touches one message therefore
// re-renders one row, not the list.

package chat

import (
	"time"

	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// ROW SNAPSHOT
// =============================================================================

// attachmentState is one attachment's identity plus its current URL
// resolution. A URL arriving for a previously-unresolved attachment makes
// the row dirty even though the message record itself never changed.
type attachmentState struct {
	StorageID string
	URL       string
	Resolved  bool
}

// RowSnapshot is the normalized per-row render descriptor. Two equal
// snapshots are guaranteed to produce identical render output, so an equal
// snapshot skips the row entirely.
type RowSnapshot struct {
	ID      string
	Content string
	Edited  time.Time

	AuthorName     string
	AuthorAvatar   string
	AuthorInitials string

	Grouped     bool
	Highlighted bool
	SearchQuery string
	Saved       bool
	Layout      string

	Pinned         bool
	AcceptedAnswer bool
	Pending        bool

	reactions   []model.Reaction
	attachments []attachmentState
}

// SnapshotInputs carries the per-pass context a snapshot depends on beyond
// the message record itself.
type SnapshotInputs struct {
	Grouped     bool
	Highlighted bool
	SearchQuery string
	Saved       bool
	Layout      string

	// ResolveAttachment is consulted per attachment so that late URL
	// resolution invalidates exactly the owning row.
	ResolveAttachment func(storageID string) (string, bool)
}

// SnapshotRow builds the normalized snapshot for one message.
func SnapshotRow(msg *model.Message, in SnapshotInputs) RowSnapshot {
	snap := RowSnapshot{
		ID:             msg.ID,
		Content:        msg.Content,
		Edited:         msg.EditedAt,
		AuthorName:     msg.Author.DisplayName,
		AuthorAvatar:   msg.Author.AvatarURL,
		AuthorInitials: msg.Author.Initials,
		Grouped:        in.Grouped,
		Highlighted:    in.Highlighted,
		SearchQuery:    in.SearchQuery,
		Saved:          in.Saved,
		Layout:         in.Layout,
		Pinned:         msg.Pinned,
		AcceptedAnswer: msg.AcceptedAnswer,
		Pending:        msg.Pending,
	}

	if len(msg.Reactions) > 0 {
		snap.reactions = append([]model.Reaction(nil), msg.Reactions...)
	}
	for _, a := range msg.Attachments {
		state := attachmentState{StorageID: a.StorageID}
		if in.ResolveAttachment != nil {
			state.URL, state.Resolved = in.ResolveAttachment(a.StorageID)
		}
		snap.attachments = append(snap.attachments, state)
	}
	return snap
}

// Equal reports whether two snapshots describe identical render output.
func (s RowSnapshot) Equal(o RowSnapshot) bool {
	if s.ID != o.ID ||
		s.Content != o.Content ||
		!s.Edited.Equal(o.Edited) ||
		s.AuthorName != o.AuthorName ||
		s.AuthorAvatar != o.AuthorAvatar ||
		s.AuthorInitials != o.AuthorInitials ||
		s.Grouped != o.Grouped ||
		s.Highlighted != o.Highlighted ||
		s.SearchQuery != o.SearchQuery ||
		s.Saved != o.Saved ||
		s.Layout != o.Layout ||
		s.Pinned != o.Pinned ||
		s.AcceptedAnswer != o.AcceptedAnswer ||
		s.Pending != o.Pending {
		return false
	}

	if len(s.reactions) != len(o.reactions) {
		return false
	}
	for i := range s.reactions {
		if s.reactions[i] != o.reactions[i] {
			return false
		}
	}

	if len(s.attachments) != len(o.attachments) {
		return false
	}
	for i := range s.attachments {
		if s.attachments[i] != o.attachments[i] {
			return false
		}
	}
	return true
}

// =============================================================================
// ROW CACHE
// =============================================================================

// RowCache pairs the previous pass's snapshots with their rendered output.
// Lookup answers "is this row dirty" and hands back the cached rendering
// when it is not.
type RowCache struct {
	snapshots map[string]RowSnapshot
	rendered  map[string]string
}

// NewRowCache creates an empty cache.
func NewRowCache() *RowCache {
	return &RowCache{
		snapshots: make(map[string]RowSnapshot),
		rendered:  make(map[string]string),
	}
}

// Lookup compares snap against the cached snapshot for its row. It returns
// the cached rendering and dirty=false when the row is unchanged, or
// dirty=true when the row must re-render.
func (c *RowCache) Lookup(snap RowSnapshot) (cached string, dirty bool) {
	prev, ok := c.snapshots[snap.ID]
	if !ok || !prev.Equal(snap) {
		return "", true
	}
	return c.rendered[snap.ID], false
}

// Store records the snapshot and rendered output for a row.
func (c *RowCache) Store(snap RowSnapshot, rendered string) {
	c.snapshots[snap.ID] = snap
	c.rendered[snap.ID] = rendered
}

// Prune drops cached rows that are no longer in the window, so deleted
// messages do not pin memory.
func (c *RowCache) Prune(liveIDs map[string]bool) {
	for id := range c.snapshots {
		if !liveIDs[id] {
			delete(c.snapshots, id)
			delete(c.rendered, id)
		}
	}
}

// Invalidate clears the whole cache. Used on resize or theme change, when
// every row's output is stale regardless of its data.
func (c *RowCache) Invalidate() {
	c.snapshots = make(map[string]RowSnapshot)
	c.rendered = make(map[string]string)
}

// Len returns the number of cached rows.
func (c *RowCache) Len() int {
	return len(c.snapshots)
}
