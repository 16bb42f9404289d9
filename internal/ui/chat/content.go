// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat timeline view for the relay TUI.
//
// This file implements the content pipeline: render-mode selection per
// message, @id mention substitution, search-match segmentation, and the
// sanitizing markdown rendering path. Raw HTML is stripped before any
// content reaches the terminal.
package chat

import (
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/microcosm-cc/bluemonday"

	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// RENDER MODE SELECTION
// =============================================================================

// RenderMode selects how a message body is rendered.
type RenderMode int

const (
	// ModeMarkdown renders through the sanitizing markdown renderer.
	ModeMarkdown RenderMode = iota
	// ModeEmoji renders 1-3 emoji clusters as large glyphs, skipping
	// mention and markdown processing entirely.
	ModeEmoji
	// ModeSearch renders plain highlighted spans, explicitly bypassing
	// markdown so highlights cannot collide with markup.
	ModeSearch
)

// SelectRenderMode picks the render mode for a message body, in priority
// order: emoji-only, then active search, then markdown.
func SelectRenderMode(content, searchQuery string) RenderMode {
	if IsEmojiOnly(content) {
		return ModeEmoji
	}
	if strings.TrimSpace(searchQuery) != "" {
		return ModeSearch
	}
	return ModeMarkdown
}

// =============================================================================
// MENTION SUBSTITUTION
// =============================================================================

// NameLookup resolves a mention id to a display name.
// ok=false leaves the raw token untouched.
type NameLookup func(userID string) (string, bool)

// ProcessMentions replaces each @id token in content with @DisplayName.
// Tokens are word-boundary-anchored so "@u1x" does not match mention "u1".
// Ids with no resolvable name are left untouched. The literal id
// "everyone" resolves to "@everyone" without a lookup.
//
// When several display names could overlap as substrings the longer ids are
// substituted first, so a name sharing a prefix with another cannot corrupt
// the longer substitution.
func ProcessMentions(content string, mentionIDs []string, lookup NameLookup) string {
	return substituteMentions(content, mentionIDs, lookup, func(name string, everyone bool) string {
		return "@" + name
	})
}

// ProcessMentionsMarkdown is the markdown-path variant: resolved names are
// wrapped in emphasis markup and the everyone-mention in strong markup (its
// distinct highlight marker), which the terminal renderer styles.
func ProcessMentionsMarkdown(content string, mentionIDs []string, lookup NameLookup) string {
	return substituteMentions(content, mentionIDs, lookup, func(name string, everyone bool) string {
		if everyone {
			return "**@" + name + "**"
		}
		return "*@" + name + "*"
	})
}

// substituteMentions is the shared substitution core. wrap renders one
// resolved mention given its display name and whether it is the
// everyone-mention.
func substituteMentions(content string, mentionIDs []string, lookup NameLookup, wrap func(name string, everyone bool) string) string {
	if len(mentionIDs) == 0 || content == "" {
		return content
	}

	type resolved struct {
		id       string
		name     string
		everyone bool
	}

	var mentions []resolved
	for _, id := range mentionIDs {
		if id == "" {
			continue
		}
		if id == model.MentionEveryone {
			mentions = append(mentions, resolved{id: id, name: model.MentionEveryone, everyone: true})
			continue
		}
		if lookup == nil {
			continue
		}
		name, ok := lookup(id)
		if !ok || name == "" {
			// Unresolvable ids stay as raw @id tokens
			continue
		}
		mentions = append(mentions, resolved{id: id, name: name})
	}

	// Longest id first: the \b after a shorter id still matches inside a
	// longer one across a non-word byte ("@u1" inside "@u1-a"), so the
	// longer token must be substituted before its prefix. Name length
	// breaks ties for names that prefix each other.
	sort.SliceStable(mentions, func(i, j int) bool {
		if len(mentions[i].id) != len(mentions[j].id) {
			return len(mentions[i].id) > len(mentions[j].id)
		}
		return len(mentions[i].name) > len(mentions[j].name)
	})

	for _, m := range mentions {
		re, err := regexp.Compile(`@` + regexp.QuoteMeta(m.id) + `\b`)
		if err != nil {
			continue
		}
		content = re.ReplaceAllLiteralString(content, wrap(m.name, m.everyone))
	}
	return content
}

// =============================================================================
// SEARCH SEGMENTATION
// =============================================================================

// Segment is one span of a search-highlighted body: literal text or a
// case-insensitive match of the active query.
type Segment struct {
	Text  string
	Match bool
}

// SplitBySearchQuery splits text into literal and match segments for the
// query, case-insensitively. The query is treated as a literal string, not
// a pattern. An empty query yields one literal segment.
func SplitBySearchQuery(text, query string) []Segment {
	if query == "" || text == "" {
		if text == "" {
			return nil
		}
		return []Segment{{Text: text}}
	}

	re, err := regexp.Compile(`(?i)` + regexp.QuoteMeta(query))
	if err != nil {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// =============================================================================
// SANITIZATION
// =============================================================================

// htmlStripper removes every HTML element from message content. The feed is
// not trusted to be markup-free, and the terminal renderer must never see
// raw tags.
var htmlStripper = bluemonday.StrictPolicy()

// SanitizeContent strips raw HTML from message content. The entity
// unescape restores literal text ("<3", "a & b") the policy escaped.
func SanitizeContent(content string) string {
	if !strings.ContainsAny(content, "<>&") {
		return content
	}
	return html.UnescapeString(htmlStripper.Sanitize(content))
}

// =============================================================================
// MARKDOWN RENDERER
// =============================================================================

// ContentRenderer renders message bodies. It precomputes one glamour
// renderer per style variant (own message vs other) at a given wrap width;
// the variant is chosen per render, never rebuilt.
type ContentRenderer struct {
	width int
	own   *glamour.TermRenderer
	other *glamour.TermRenderer
}

// NewContentRenderer builds the two style variants for the given wrap
// width. Renderer construction is the expensive part, so it happens here
// and on resize, not per row.
func NewContentRenderer(width int) (*ContentRenderer, error) {
	if width < 10 {
		width = 10
	}

	own, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}

	other, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		return nil, err
	}

	return &ContentRenderer{width: width, own: own, other: other}, nil
}

// Width returns the wrap width the renderers were built for.
func (cr *ContentRenderer) Width() int {
	return cr.width
}

// RenderMarkdown renders sanitized, mention-substituted content through the
// style variant for the message's authorship. A render failure falls back
// to the plain sanitized text; a broken markdown engine must not take a
// row down with it.
func (cr *ContentRenderer) RenderMarkdown(content string, own bool) string {
	r := cr.other
	if own {
		r = cr.own
	}
	if r == nil {
		return content
	}

	out, err := r.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n")
}
