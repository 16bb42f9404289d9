// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for the relay chat surface.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// AUTHOR TYPE
// =============================================================================

// Author holds the denormalized display data for a message sender.
// AvatarURL may be empty; renderers fall back to Initials.
type Author struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	AvatarURL   string `json:"avatar_url,omitempty"`
	Initials    string `json:"initials"`
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// MentionEveryone is the mention id that addresses the whole channel.
const MentionEveryone = "everyone"

// ParentSnapshot is the denormalized view of a replied-to message, captured
// at read time so the reply indicator can render even if the parent has
// scrolled out of the loaded window.
type ParentSnapshot struct {
	Content    string `json:"content"`
	AuthorName string `json:"author_name"`
}

// ForwardSource records where a forwarded message originally came from.
// Either field may be empty.
type ForwardSource struct {
	ChannelName string `json:"channel_name,omitempty"`
	UserName    string `json:"user_name,omitempty"`
}

// Message represents a single message row in the channel timeline.
//
// The feed delivers messages in CreatedAt-ascending order; CreatedAt is the
// authoritative ordering key. A zero CreatedAt means the timestamp is absent
// (grouping and date separators treat it as unknown, never as 1970).
type Message struct {
	// Identity
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	EditedAt  time.Time `json:"edited_at,omitempty"`

	// Content. May contain raw @id mention tokens; the content pipeline
	// substitutes display names at render time.
	Content  string   `json:"content"`
	Mentions []string `json:"mentions,omitempty"`

	// Sender
	Author Author `json:"author"`

	// Sub-collections
	Attachments []Attachment `json:"attachments,omitempty"`
	Reactions   []Reaction   `json:"reactions,omitempty"`

	// Reply linkage
	ParentID       string          `json:"parent_id,omitempty"`
	ParentSnapshot *ParentSnapshot `json:"parent_snapshot,omitempty"`

	// Forwarding
	ForwardedFrom *ForwardSource `json:"forwarded_from,omitempty"`

	// Row flags
	Pinned         bool `json:"pinned"`
	Pending        bool `json:"pending"`         // Optimistic, not yet confirmed by the feed
	OriginalPoster bool `json:"original_poster"` // Author started this thread
	AcceptedAnswer bool `json:"accepted_answer"`
}

// NewMessage creates a confirmed message with a generated ID.
func NewMessage(author Author, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// NewPendingMessage creates an optimistic message for a local send.
// It carries a locally-minted ID until the feed echoes the confirmed record;
// Confirm swaps the confirmed identity into the same visual slot.
func NewPendingMessage(author Author, content string, parent *Message) Message {
	m := Message{
		ID:        uuid.NewString(),
		Author:    author,
		Content:   content,
		CreatedAt: time.Now(),
		Pending:   true,
	}
	if parent != nil {
		m.ParentID = parent.ID
		m.ParentSnapshot = &ParentSnapshot{
			Content:    parent.Content,
			AuthorName: parent.Author.DisplayName,
		}
	}
	return m
}

// =============================================================================
// MESSAGE METHODS
// =============================================================================

// Confirm replaces the optimistic identity with the confirmed record from
// the feed. The confirmed message keeps its own ID, timestamps, and
// sub-collections; only the visual slot is reused.
func (m *Message) Confirm(confirmed Message) {
	*m = confirmed
	m.Pending = false
}

// ApplyEdit updates the content in place and stamps the edit time.
func (m *Message) ApplyEdit(content string, at time.Time) {
	m.Content = content
	m.EditedAt = at
}

// Edited reports whether the message has been edited after sending.
func (m *Message) Edited() bool {
	return !m.EditedAt.IsZero()
}

// HasParent reports whether the message is a reply.
func (m *Message) HasParent() bool {
	return m.ParentID != ""
}

// Forwarded reports whether the message was forwarded from elsewhere.
func (m *Message) Forwarded() bool {
	return m.ForwardedFrom != nil
}

// MentionsUser reports whether the message mentions the given user id,
// either directly or via the everyone mention.
func (m *Message) MentionsUser(userID string) bool {
	for _, id := range m.Mentions {
		if id == userID || id == MentionEveryone {
			return true
		}
	}
	return false
}

// Preview returns a truncated preview of the message content.
// Uses rune-based truncation to handle Unicode correctly.
func (m *Message) Preview(maxLen int) string {
	runes := []rune(m.Content)
	if len(runes) <= maxLen {
		return m.Content
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// IsEmpty returns true if the message has no content and no attachments.
func (m *Message) IsEmpty() bool {
	return len(m.Content) == 0 && len(m.Attachments) == 0
}
