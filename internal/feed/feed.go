// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed defines the boundary contracts the chat surface consumes.
package feed

import (
	"context"

	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// MESSAGE FEED
// =============================================================================

// Feed delivers the loaded message window reactively.
//
// Messages returns the window in CreatedAt-ascending order together with a
// loaded flag: (nil, false) means the window has not arrived yet, which is
// distinct from (empty, true) meaning the channel is confirmed empty.
//
// Subscribe registers a callback invoked after every window change. The
// returned function unsubscribes; it is safe to call more than once.
type Feed interface {
	Messages() ([]model.Message, bool)
	Subscribe(fn func()) (unsubscribe func())
}

// Searcher is the optional remote-search capability of a feed backend.
// Search returns matches outside the loaded window; the engine merges them
// with local matches, deduplicated by message id with remote winning.
type Searcher interface {
	Search(ctx context.Context, query string) ([]model.Message, error)
}

// =============================================================================
// ACTION DISPATCHER
// =============================================================================

// ForwardTarget names where a message is forwarded to.
type ForwardTarget struct {
	ChannelID string
	UserID    string
}

// Dispatcher exposes the async channel actions. Every method may fail;
// the engine treats failures as non-fatal (logged, and for user-initiated
// cross-entity actions surfaced as a transient notice).
type Dispatcher interface {
	Send(ctx context.Context, content string, parentID string) error
	Edit(ctx context.Context, messageID, content string) error
	Delete(ctx context.Context, messageID string) error
	ToggleReaction(ctx context.Context, messageID, emoji string) error
	TogglePin(ctx context.Context, messageID string) error
	Save(ctx context.Context, messageID string) error
	Unsave(ctx context.Context, messageID string) error
	Forward(ctx context.Context, messageID string, target ForwardTarget) error
	MarkSolution(ctx context.Context, messageID string) error
	SetTyping(ctx context.Context, typing bool) error
}

// SavedQuerier is implemented by dispatchers that track the viewer's saved
// list, so the view can badge saved rows.
type SavedQuerier interface {
	IsSaved(messageID string) bool
}

// =============================================================================
// LOOKUP COLLABORATORS
// =============================================================================

// AttachmentResolver resolves an opaque storage handle to a fetchable URL.
// ok=false means the URL is still resolving; renderers show a placeholder
// and must not treat this as an error.
type AttachmentResolver interface {
	Resolve(storageID string) (url string, ok bool)
}

// UserDisplay is the cached display data for a user.
type UserDisplay struct {
	Name   string
	Avatar string
}

// UserCache looks up display data for a user id. The cache is populated
// lazily by a collaborator the engine does not own; a miss is normal and
// renders as a graceful fallback.
type UserCache interface {
	Lookup(userID string) (UserDisplay, bool)
}
