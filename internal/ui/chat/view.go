// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the channel timeline view for the relay TUI.
//
// This file assembles the timeline: grouping, date separators, the per-row
// memoization gate, and the surrounding chrome (composer, search prompt,
// status line, jump-to-bottom affordance).
package chat

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/relay-tui/internal/model"
	"github.com/morganforge/relay-tui/internal/ui/components"
)

// =============================================================================
// TIMELINE ASSEMBLY
// =============================================================================

// rebuildTimeline re-renders the visible rows into the viewport. Rows whose
// snapshot is unchanged come straight from the cache.
func (m *Model) rebuildTimeline() {
	msgs := m.visibleMessages()
	h := m.registry.Handles()

	query := ""
	if m.searchMode {
		query = m.searchQuery
	}

	rows := make([]components.TimelineRow, 0, len(msgs)*2)
	live := make(map[string]bool, len(msgs))

	for i := range msgs {
		msg := &msgs[i]
		var prev *model.Message
		if i > 0 {
			prev = &msgs[i-1]
		}

		if NeedsDateSeparator(msg, prev) || (i == 0 && !msg.CreatedAt.IsZero()) {
			rows = append(rows, components.TimelineRow{
				Content: m.renderDateSeparator(msg),
			})
		}

		// Search results are a flat hit list; grouping only applies to the
		// live timeline.
		grouped := !m.searchMode && ShouldGroup(msg, prev, m.groupWindow())

		snap := SnapshotRow(msg, SnapshotInputs{
			Grouped:           grouped,
			Highlighted:       m.hover.IsHovered(msg.ID),
			SearchQuery:       query,
			Saved:             h.IsSaved(msg.ID),
			Layout:            m.rowRenderer.Layout(),
			ResolveAttachment: h.ResolveAttachment,
		})

		rendered, dirty := m.rowCache.Lookup(snap)
		if dirty {
			rendered = m.renderRow(msg, grouped, query, h.IsSaved(msg.ID), h.ResolveAttachment)
			m.rowCache.Store(snap, rendered)
		}

		rows = append(rows, components.TimelineRow{ID: msg.ID, Content: rendered})
		live[msg.ID] = true
	}

	m.rowCache.Prune(live)
	m.viewport.SetRows(rows)
}

// renderRow renders one message row through the layout renderer.
func (m *Model) renderRow(msg *model.Message, grouped bool, query string, saved bool, resolve func(string) (string, bool)) string {
	return m.rowRenderer.Render(components.MessageView{
		Msg:               msg,
		Body:              m.renderBody(msg, query),
		Width:             m.viewport.Width(),
		Grouped:           grouped,
		Focused:           m.hover.IsHovered(msg.ID),
		Saved:             saved,
		Own:               msg.Author.ID == m.viewer.ID,
		Reactions:         GroupReactions(msg.Reactions, m.viewer.ID),
		TimeFormat:        m.cfg.UI.TimeFormat,
		ResolveAttachment: resolve,
	})
}

// renderBody runs the content pipeline for one message: sanitize, pick the
// render mode, substitute mentions, then render.
func (m *Model) renderBody(msg *model.Message, query string) string {
	content := SanitizeContent(msg.Content)

	switch SelectRenderMode(content, query) {
	case ModeEmoji:
		return m.theme.EmojiLarge.Render(content)

	case ModeSearch:
		return m.renderSearchBody(content, msg.Mentions, query)

	default:
		processed := ProcessMentionsMarkdown(content, msg.Mentions, m.lookupName)
		if m.renderer == nil {
			return ProcessMentions(content, msg.Mentions, m.lookupName)
		}
		return m.renderer.RenderMarkdown(processed, msg.Author.ID == m.viewer.ID)
	}
}

// renderSearchBody renders the plain highlighted variant. Markdown is
// bypassed so the highlight spans cannot collide with markup, but fenced
// code blocks keep their syntax colors via the standalone highlighter.
func (m *Model) renderSearchBody(content string, mentions []string, query string) string {
	plain := ProcessMentions(content, mentions, m.lookupName)

	var out []string
	for _, section := range components.SplitFencedBlocks(plain) {
		if section.Code {
			cb := components.NewCodeBlock(section.Language, section.Text)
			cb.SetMaxWidth(m.viewport.Width() - 4)
			out = append(out, cb.Render())
			continue
		}

		var b strings.Builder
		for _, seg := range SplitBySearchQuery(section.Text, query) {
			if seg.Match {
				b.WriteString(m.theme.SearchMatch.Render(seg.Text))
			} else {
				b.WriteString(m.theme.BodyText.Render(seg.Text))
			}
		}
		out = append(out, b.String())
	}
	return strings.Join(out, "\n")
}

// renderDateSeparator renders the centered date label above a row.
func (m *Model) renderDateSeparator(msg *model.Message) string {
	label := m.theme.DateSeparator.Render(FormatSeparatorLabel(msg.CreatedAt))
	return lipgloss.PlaceHorizontal(m.viewport.Width(), lipgloss.Center, label)
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the full timeline screen.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}

	var sections []string

	switch {
	case !m.loaded:
		sections = append(sections, m.viewport.RenderEmptyState(m.theme, "Connecting..."))
	case m.searchMode && len(m.searchResults) == 0:
		text := "No messages match"
		if m.searchLoading {
			text = "Searching..."
		} else if strings.TrimSpace(m.searchQuery) == "" {
			text = "Type to search"
		}
		sections = append(sections, m.viewport.RenderEmptyState(m.theme, text))
	case len(m.visibleMessages()) == 0:
		sections = append(sections, m.viewport.RenderEmptyState(m.theme, "No messages yet. Say hello."))
	default:
		sections = append(sections, m.viewport.View())
	}

	sections = append(sections, m.renderStatusLine())

	if m.searchMode {
		sections = append(sections, m.theme.SearchPrompt.Render(m.searchInput.View()))
	} else {
		sections = append(sections, m.composer.View())
	}

	return strings.Join(sections, "\n")
}

// renderStatusLine shows the transient notice or, when the user is reading
// history, the jump-to-bottom affordance.
func (m Model) renderStatusLine() string {
	switch {
	case m.statusNotice != "" && m.statusIsErr:
		return m.theme.StatusError.Render(m.statusNotice)
	case m.statusNotice != "":
		return m.theme.StatusNotice.Render(m.statusNotice)
	case m.scroll.State() == ScrollAway:
		return m.theme.JumpToBottom.Render("v newer messages (End)")
	default:
		return ""
	}
}

// renderHelp renders the key binding overlay.
func (m Model) renderHelp() string {
	var b strings.Builder
	b.WriteString(m.theme.StatusNotice.Render("Key bindings"))
	b.WriteString("\n\n")

	for _, group := range m.keyMap.FullHelp() {
		for _, binding := range group {
			help := binding.Help()
			b.WriteString("  ")
			b.WriteString(m.theme.AuthorName.Render(help.Key))
			b.WriteString("  ")
			b.WriteString(m.theme.BodyText.Render(help.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(m.theme.Timestamp.Render("press any key to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
