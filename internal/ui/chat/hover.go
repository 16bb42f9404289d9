// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat timeline view for the relay TUI.
//
// This file implements the hover coordinator: one mutable cell per mounted
// chat view holding the id of the currently focused message row. The store
// exists so that moving focus across a long list touches a constant number
// of listeners instead of re-rendering every row.
package chat

// =============================================================================
// HOVER COORDINATOR
// =============================================================================

// HoverCoordinator tracks the single focused message row for one chat view.
// It is constructed per view and passed by reference; it is not a process
// global. All access happens on the UI loop, so no locking is needed.
//
// Two subscription forms exist:
//   - Subscribe: notified with the new id on every change
//   - SubscribeRow: notified only when one specific row's focused-membership
//     flips, which is the O(1)-listeners-per-move contract
type HoverCoordinator struct {
	current string // Focused message id, "" when nothing is focused

	nextID       int
	allListeners map[int]func(hoveredID string)
	rowListeners map[string]map[int]func(hovered bool)
}

// NewHoverCoordinator creates an empty coordinator for one chat view.
func NewHoverCoordinator() *HoverCoordinator {
	return &HoverCoordinator{
		allListeners: make(map[int]func(string)),
		rowListeners: make(map[string]map[int]func(bool)),
	}
}

// Hovered returns the currently focused message id, or "" if none.
func (h *HoverCoordinator) Hovered() string {
	return h.current
}

// IsHovered reports whether the given row is the focused one.
func (h *HoverCoordinator) IsHovered(messageID string) bool {
	return messageID != "" && h.current == messageID
}

// SetHovered moves focus to the given message id. Setting the id that is
// already focused is a no-op: no listener fires.
func (h *HoverCoordinator) SetHovered(messageID string) {
	if h.current == messageID {
		return
	}
	prev := h.current
	h.current = messageID
	h.notify(prev, messageID)
}

// ClearHovered clears focus, but only if callerID still owns it. This
// guards against a stale "leave" from row A clobbering a fresher "enter"
// on row B when focus crosses directly between rows.
func (h *HoverCoordinator) ClearHovered(callerID string) {
	if h.current != callerID || h.current == "" {
		return
	}
	prev := h.current
	h.current = ""
	h.notify(prev, "")
}

// Subscribe registers a listener for every focus change. The returned
// function unsubscribes.
func (h *HoverCoordinator) Subscribe(fn func(hoveredID string)) (unsubscribe func()) {
	id := h.nextID
	h.nextID++
	h.allListeners[id] = fn
	return func() {
		delete(h.allListeners, id)
	}
}

// SubscribeRow registers a listener that fires only when messageID's
// focused-membership flips. A focus move from row A to row B therefore
// notifies at most two row listeners, however long the list is.
func (h *HoverCoordinator) SubscribeRow(messageID string, fn func(hovered bool)) (unsubscribe func()) {
	id := h.nextID
	h.nextID++
	if h.rowListeners[messageID] == nil {
		h.rowListeners[messageID] = make(map[int]func(bool))
	}
	h.rowListeners[messageID][id] = fn
	return func() {
		delete(h.rowListeners[messageID], id)
		if len(h.rowListeners[messageID]) == 0 {
			delete(h.rowListeners, messageID)
		}
	}
}

// notify fires the global listeners plus the row listeners of exactly the
// two rows whose membership flipped.
func (h *HoverCoordinator) notify(prev, next string) {
	for _, fn := range h.allListeners {
		fn(next)
	}
	if prev != "" {
		for _, fn := range h.rowListeners[prev] {
			fn(false)
		}
	}
	if next != "" {
		for _, fn := range h.rowListeners[next] {
			fn(true)
		}
	}
}
