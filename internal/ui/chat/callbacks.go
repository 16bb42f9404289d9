// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat timeline view for the relay TUI.
//
// This file implements the callback registry: a fixed table of
// identity-stable action handles created once when the timeline mounts.
// Each handle forwards to whatever handler is currently installed in a
// mutable holder refreshed every update pass. Memoized rows hold the
// handles, whose identities never change, so refreshing handlers does not
// invalidate a single row.
package chat

// =============================================================================
// ACTION HANDLERS
// =============================================================================

// ActionHandlers is the mutable "latest handler" set behind the registry.
// Any field may be nil; the corresponding handle becomes a no-op.
type ActionHandlers struct {
	Reply        func(messageID string)
	Forward      func(messageID string)
	React        func(messageID, emoji string)
	Pin          func(messageID string)
	Save         func(messageID string)
	Unsave       func(messageID string)
	Delete       func(messageID string)
	Edit         func(messageID string)
	AvatarClick  func(userID string)
	NameClick    func(userID string)
	ScrollTo     func(messageID string)
	MarkSolution func(messageID string)
	CopyText     func(messageID string)

	// Read-only accessors follow the same indirection shape.
	IsSaved           func(messageID string) bool
	ResolveAttachment func(storageID string) (url string, ok bool)
}

// =============================================================================
// CALLBACK REGISTRY
// =============================================================================

// Handles is the fixed table of stable action handles. Every field is
// non-nil for the registry's whole lifetime and safe to call at any time.
type Handles struct {
	Reply        func(messageID string)
	Forward      func(messageID string)
	React        func(messageID, emoji string)
	Pin          func(messageID string)
	Save         func(messageID string)
	Unsave       func(messageID string)
	Delete       func(messageID string)
	Edit         func(messageID string)
	AvatarClick  func(userID string)
	NameClick    func(userID string)
	ScrollTo     func(messageID string)
	MarkSolution func(messageID string)
	CopyText     func(messageID string)

	IsSaved           func(messageID string) bool
	ResolveAttachment func(storageID string) (url string, ok bool)
}

// CallbackRegistry owns the stable handle table and the mutable holder it
// forwards to. Created once per timeline mount; lives for the mount.
type CallbackRegistry struct {
	latest  ActionHandlers
	handles *Handles
}

// NewCallbackRegistry creates the registry and builds the handle table.
// The handles close over the registry, not over any particular handler
// set, which is what keeps their identities stable across refreshes.
func NewCallbackRegistry() *CallbackRegistry {
	r := &CallbackRegistry{}
	r.handles = &Handles{
		Reply:        func(id string) { r.call(r.latest.Reply, id) },
		Forward:      func(id string) { r.call(r.latest.Forward, id) },
		React:        func(id, emoji string) { r.callReact(id, emoji) },
		Pin:          func(id string) { r.call(r.latest.Pin, id) },
		Save:         func(id string) { r.call(r.latest.Save, id) },
		Unsave:       func(id string) { r.call(r.latest.Unsave, id) },
		Delete:       func(id string) { r.call(r.latest.Delete, id) },
		Edit:         func(id string) { r.call(r.latest.Edit, id) },
		AvatarClick:  func(id string) { r.call(r.latest.AvatarClick, id) },
		NameClick:    func(id string) { r.call(r.latest.NameClick, id) },
		ScrollTo:     func(id string) { r.call(r.latest.ScrollTo, id) },
		MarkSolution: func(id string) { r.call(r.latest.MarkSolution, id) },
		CopyText:     func(id string) { r.call(r.latest.CopyText, id) },

		IsSaved: func(id string) bool {
			if r.latest.IsSaved == nil {
				return false
			}
			return r.latest.IsSaved(id)
		},
		ResolveAttachment: func(storageID string) (string, bool) {
			if r.latest.ResolveAttachment == nil {
				return "", false
			}
			return r.latest.ResolveAttachment(storageID)
		},
	}
	return r
}

// Refresh installs the latest handler set. Handle identities are untouched;
// only the holder they forward to changes.
func (r *CallbackRegistry) Refresh(handlers ActionHandlers) {
	r.latest = handlers
}

// Handles returns the stable handle table. The same pointer is returned
// for the registry's whole lifetime.
func (r *CallbackRegistry) Handles() *Handles {
	return r.handles
}

func (r *CallbackRegistry) call(fn func(string), id string) {
	if fn != nil {
		fn(id)
	}
}

func (r *CallbackRegistry) callReact(id, emoji string) {
	if r.latest.React != nil {
		r.latest.React(id, emoji)
	}
}
