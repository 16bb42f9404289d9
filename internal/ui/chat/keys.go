// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Keyboard bindings for the timeline. Navigation keys move the row focus,
// action keys operate on the focused row, and the rest drive the composer
// and search prompt.

package chat

import (
	"github.com/charmbracelet/bubbles/key"
)

// =============================================================================
// KEY MAP DEFINITION
// =============================================================================

// KeyMap defines all keyboard bindings for the timeline view.
type KeyMap struct {
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	JumpBottom key.Binding
	Submit     key.Binding
	Cancel     key.Binding
	Help       key.Binding
	Quit       key.Binding
	Search     key.Binding

	// Focused-row actions
	Reply    key.Binding
	React    key.Binding
	Pin      key.Binding
	Save     key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Copy     key.Binding
	Solution key.Binding
	Parent   key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+k"),
			key.WithHelp("up", "focus previous message"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+j"),
			key.WithHelp("down", "focus next message"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("PgUp/C-u", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("PgDn/C-d", "page down"),
		),
		JumpBottom: key.NewBinding(
			key.WithKeys("end", "ctrl+g"),
			key.WithHelp("End/C-g", "jump to newest"),
		),
		Submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("Enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("Esc", "cancel"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+_"),
			key.WithHelp("C-/", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("C-c/C-q", "quit"),
		),
		Search: key.NewBinding(
			key.WithKeys("ctrl+f"),
			key.WithHelp("C-f", "search"),
		),
		Reply: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reply"),
		),
		React: key.NewBinding(
			key.WithKeys("+"),
			key.WithHelp("+", "react"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save/unsave"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy text"),
		),
		Solution: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "mark as solution"),
		),
		Parent: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "jump to replied message"),
		),
	}
}

// =============================================================================
// HELP TEXT
// =============================================================================

// ShortHelp returns the bindings for the one-line help view.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Search, k.Help, k.Quit}
}

// FullHelp returns the bindings for the expanded help view, grouped.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.JumpBottom},
		{k.Reply, k.React, k.Pin, k.Save, k.Parent},
		{k.Edit, k.Delete, k.Copy, k.Solution},
		{k.Submit, k.Cancel, k.Search, k.Quit},
	}
}
