// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the relay TUI.
package components

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/relay-tui/internal/ui/styles"
)

// =============================================================================
// COMPOSER - Message input with reply/edit banners
// =============================================================================

// Composer is the message input area. When a reply or edit is in progress a
// banner above the input names what the send will do.
type Composer struct {
	input textinput.Model
	theme *styles.Theme
	width int

	replyToAuthor string
	editing       bool
}

// NewComposer creates a focused composer.
func NewComposer(theme *styles.Theme) *Composer {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "Message..."
	ti.CharLimit = 4096
	ti.Focus()

	return &Composer{
		input: ti,
		theme: theme,
		width: 80,
	}
}

// SetWidth resizes the composer.
func (c *Composer) SetWidth(width int) {
	c.width = width
	c.input.Width = maxInt(width-6, 10)
}

// Focus gives the composer keyboard focus.
func (c *Composer) Focus() tea.Cmd {
	return c.input.Focus()
}

// Blur removes keyboard focus.
func (c *Composer) Blur() {
	c.input.Blur()
}

// Focused reports whether the composer has keyboard focus.
func (c *Composer) Focused() bool {
	return c.input.Focused()
}

// Value returns the current draft.
func (c *Composer) Value() string {
	return c.input.Value()
}

// Reset clears the draft and any reply or edit banner.
func (c *Composer) Reset() {
	c.input.SetValue("")
	c.replyToAuthor = ""
	c.editing = false
}

// StartReply arms the composer to send a reply to authorName's message.
func (c *Composer) StartReply(authorName string) {
	c.replyToAuthor = authorName
	c.editing = false
}

// StartEdit loads an existing message body for editing.
func (c *Composer) StartEdit(content string) {
	c.input.SetValue(content)
	c.input.CursorEnd()
	c.editing = true
	c.replyToAuthor = ""
}

// Replying returns the replied-to author name, empty when not replying.
func (c *Composer) Replying() string {
	return c.replyToAuthor
}

// Editing reports whether an edit is in progress.
func (c *Composer) Editing() bool {
	return c.editing
}

// Update forwards input events to the text field.
func (c *Composer) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	return cmd
}

// View renders the banner, if any, and the input container.
func (c *Composer) View() string {
	field := c.theme.InputContainer.Width(c.width - 2).Render(c.input.View())

	switch {
	case c.editing:
		banner := c.theme.StatusNotice.Render(styles.StatusIndicators.Edited + " editing message (Esc to cancel)")
		return banner + "\n" + field
	case c.replyToAuthor != "":
		banner := c.theme.StatusNotice.Render(styles.StatusIndicators.Reply + " replying to " + c.replyToAuthor + " (Esc to cancel)")
		return banner + "\n" + field
	default:
		return field
	}
}
