// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the relay TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/relay-tui/internal/model"
	"github.com/morganforge/relay-tui/internal/ui/styles"
	"github.com/morganforge/relay-tui/internal/util"
)

// =============================================================================
// MESSAGE RENDERER
// =============================================================================

// Layout names accepted by the renderer.
const (
	LayoutCompact = "compact"
	LayoutBubble  = "bubble"
)

// MessageView carries one row's message plus its render context. Body is the
// already-processed content (markdown, emoji, or search highlighting applied
// upstream); the renderer owns layout, chrome, and sub-rows only.
type MessageView struct {
	Msg     *model.Message
	Body    string
	Width   int
	Grouped bool
	Focused bool
	Saved   bool
	Own     bool

	// Reactions is the pre-grouped chip list, first-seen emoji order, with
	// the viewer's own reactions already flagged.
	Reactions []model.GroupedReaction

	TimeFormat string

	// ResolveAttachment maps a storage id to a fetchable URL. Unresolved
	// attachments render a loading placeholder.
	ResolveAttachment func(storageID string) (url string, ok bool)
}

// MessageRenderer renders timeline message rows in the configured layout.
type MessageRenderer struct {
	theme  *styles.Theme
	layout string
}

// NewMessageRenderer creates a renderer for the given layout.
func NewMessageRenderer(theme *styles.Theme, layout string) *MessageRenderer {
	if layout != LayoutBubble {
		layout = LayoutCompact
	}
	return &MessageRenderer{theme: theme, layout: layout}
}

// SetLayout switches the layout variant.
func (r *MessageRenderer) SetLayout(layout string) {
	if layout != LayoutBubble {
		layout = LayoutCompact
	}
	r.layout = layout
}

// Layout returns the active layout name.
func (r *MessageRenderer) Layout() string {
	return r.layout
}

// Render renders one message row.
func (r *MessageRenderer) Render(v MessageView) string {
	if v.Msg == nil {
		return ""
	}
	if v.Width < 20 {
		v.Width = 20
	}

	var row string
	if r.layout == LayoutBubble {
		row = r.renderBubble(v)
	} else {
		row = r.renderCompact(v)
	}

	if v.Msg.Pending {
		row = r.theme.PendingRow.Render(row)
	}
	if v.Focused {
		row = r.theme.FocusedRow.Render(row)
	}
	return row
}

// ==========================================================================
// COMPACT LAYOUT - header line, indented body, dense sub-rows
// ==========================================================================

func (r *MessageRenderer) renderCompact(v MessageView) string {
	var parts []string

	if label := r.renderForwardLabel(v.Msg); label != "" {
		parts = append(parts, label)
	}
	if reply := r.renderReplyIndicator(v.Msg, v.Width); reply != "" {
		parts = append(parts, reply)
	}

	// Consecutive messages from the same author collapse the header.
	if !v.Grouped {
		parts = append(parts, r.renderHeader(v))
	}

	body := strings.TrimRight(v.Body, "\n")
	if body != "" {
		parts = append(parts, body)
	}

	if attachments := r.renderAttachments(v); attachments != "" {
		parts = append(parts, attachments)
	}
	if chips := r.renderReactions(v); chips != "" {
		parts = append(parts, chips)
	}

	return strings.Join(parts, "\n")
}

// renderHeader builds the author line with timestamp and badges.
func (r *MessageRenderer) renderHeader(v MessageView) string {
	msg := v.Msg
	segments := []string{
		r.theme.AuthorInitials.Render(util.Initials(msg.Author.DisplayName)),
		r.theme.AuthorName.Render(msg.Author.DisplayName),
		r.theme.Timestamp.Render(msg.CreatedAt.Local().Format(v.TimeFormat)),
	}

	if msg.OriginalPoster {
		segments = append(segments, r.theme.OPBadge.Render("OP"))
	}
	if msg.Pinned {
		segments = append(segments, r.theme.PinnedBadge.Render(styles.StatusIndicators.Pinned))
	}
	if msg.AcceptedAnswer {
		segments = append(segments, r.theme.SolutionBadge.Render(styles.StatusIndicators.Solution))
	}
	if v.Saved {
		segments = append(segments, r.theme.PinnedBadge.Render(styles.StatusIndicators.Saved))
	}
	if msg.Edited() {
		segments = append(segments, r.theme.EditedMark.Render(styles.StatusIndicators.Edited))
	}
	if msg.Pending {
		segments = append(segments, r.theme.Timestamp.Render(styles.StatusIndicators.Pending))
	}

	return strings.Join(segments, " ")
}

// ==========================================================================
// BUBBLE LAYOUT - bordered bubbles, own messages visually distinct
// ==========================================================================

func (r *MessageRenderer) renderBubble(v MessageView) string {
	var parts []string

	if label := r.renderForwardLabel(v.Msg); label != "" {
		parts = append(parts, label)
	}
	if reply := r.renderReplyIndicator(v.Msg, v.Width); reply != "" {
		parts = append(parts, reply)
	}
	if !v.Grouped {
		parts = append(parts, r.renderHeader(v))
	}

	body := strings.TrimRight(v.Body, "\n")
	if body == "" {
		body = "..."
	}

	maxContent := maxInt(v.Width-12, 20)
	wrapped := wordWrap(body, maxContent)
	bubbleWidth := minInt(maxLineWidth(wrapped)+4, v.Width-4)

	bubbleStyle := r.theme.OtherBubble
	if v.Own {
		bubbleStyle = r.theme.OwnBubble
	}
	bubble := bubbleStyle.Width(bubbleWidth).Render(wrapped)
	if v.Own {
		bubble = lipgloss.NewStyle().Width(v.Width).Align(lipgloss.Right).Render(bubble)
	}
	parts = append(parts, bubble)

	if attachments := r.renderAttachments(v); attachments != "" {
		parts = append(parts, attachments)
	}
	if chips := r.renderReactions(v); chips != "" {
		parts = append(parts, chips)
	}

	return strings.Join(parts, "\n")
}

// ==========================================================================
// SUB-ROWS - reply indicator, forward label, attachments, reaction chips
// ==========================================================================

// renderReplyIndicator shows the replied-to message's author and a one-line
// preview above the row.
func (r *MessageRenderer) renderReplyIndicator(msg *model.Message, width int) string {
	if !msg.HasParent() {
		return ""
	}

	author := "unknown"
	preview := ""
	if msg.ParentSnapshot != nil {
		author = msg.ParentSnapshot.AuthorName
		preview = msg.ParentSnapshot.Content
	}
	if preview == "" {
		preview = "message unavailable"
	}
	preview = util.FirstLine(preview)
	line := styles.StatusIndicators.Reply + " " + author + ": " + preview
	return r.theme.ReplyIndicator.Render(util.TruncateWidth(line, maxInt(width-2, 10)))
}

// renderForwardLabel shows the origin of a forwarded message.
func (r *MessageRenderer) renderForwardLabel(msg *model.Message) string {
	if !msg.Forwarded() {
		return ""
	}
	origin := msg.ForwardedFrom.ChannelName
	if origin == "" {
		origin = msg.ForwardedFrom.UserName
	}
	if origin == "" {
		origin = "another channel"
	}
	return r.theme.ForwardLabel.Render(styles.StatusIndicators.Forward + " forwarded from " + origin)
}

// renderAttachments lists each attachment with its size, or a loading
// placeholder while the URL is still resolving.
func (r *MessageRenderer) renderAttachments(v MessageView) string {
	if len(v.Msg.Attachments) == 0 {
		return ""
	}

	var lines []string
	for _, a := range v.Msg.Attachments {
		resolved := false
		if v.ResolveAttachment != nil {
			_, resolved = v.ResolveAttachment(a.StorageID)
		}
		if resolved {
			lines = append(lines, r.theme.Attachment.Render("[file] "+a.Name+" ("+a.FormatSize()+")"))
		} else {
			lines = append(lines, r.theme.AttachmentLoad.Render(styles.StatusIndicators.Pending+" "+a.Name+" (loading)"))
		}
	}
	return strings.Join(lines, "\n")
}

// renderReactions draws the grouped reaction chips under the row.
func (r *MessageRenderer) renderReactions(v MessageView) string {
	if len(v.Reactions) == 0 {
		return ""
	}

	chips := make([]string, 0, len(v.Reactions))
	for _, g := range v.Reactions {
		chip := g.Emoji + " " + toStr(g.Count)
		if g.HasReacted {
			chips = append(chips, r.theme.ReactionMine.Render(chip))
		} else {
			chips = append(chips, r.theme.ReactionChip.Render(chip))
		}
	}
	return strings.Join(chips, " ")
}
