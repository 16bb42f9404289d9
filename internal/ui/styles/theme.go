// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package styles provides the visual styling system for the relay TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
// Styles are built once; render passes only call Render on them.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// MESSAGE ROW STYLES
	// ==========================================================================

	AuthorName     lipgloss.Style
	AuthorInitials lipgloss.Style
	Timestamp      lipgloss.Style
	EditedMark     lipgloss.Style
	PendingRow     lipgloss.Style
	FocusedRow     lipgloss.Style
	OPBadge        lipgloss.Style
	SolutionBadge  lipgloss.Style
	PinnedBadge    lipgloss.Style

	// ==========================================================================
	// MESSAGE BUBBLE STYLES (bubble layout)
	// ==========================================================================

	OwnBubble   lipgloss.Style
	OtherBubble lipgloss.Style

	// ==========================================================================
	// CONTENT STYLES
	// ==========================================================================

	BodyText        lipgloss.Style
	EmojiLarge      lipgloss.Style
	Mention         lipgloss.Style
	MentionEveryone lipgloss.Style
	SearchMatch     lipgloss.Style

	// ==========================================================================
	// SUB-ROW STYLES
	// ==========================================================================

	ReplyIndicator lipgloss.Style
	ForwardLabel   lipgloss.Style
	ReactionChip   lipgloss.Style
	ReactionMine   lipgloss.Style
	Attachment     lipgloss.Style
	AttachmentLoad lipgloss.Style

	// ==========================================================================
	// LIST CHROME STYLES
	// ==========================================================================

	DateSeparator lipgloss.Style
	JumpToBottom  lipgloss.Style
	EmptyState    lipgloss.Style
	StatusNotice  lipgloss.Style
	StatusError   lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer lipgloss.Style
	SearchPrompt   lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()

	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
	}

	// Message row
	t.AuthorName = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.AuthorInitials = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1).
		Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)
	t.EditedMark = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.PendingRow = lipgloss.NewStyle().Foreground(TextMuted).Faint(true)
	t.FocusedRow = lipgloss.NewStyle().Background(SelectionBg)
	t.OPBadge = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.SolutionBadge = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.PinnedBadge = lipgloss.NewStyle().Foreground(Amber).Bold(true)

	// Bubble layout
	t.OwnBubble = lipgloss.NewStyle().
		Foreground(OwnBubbleFg).
		Background(OwnBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OwnBubbleBorder).
		Padding(0, 2)
	t.OtherBubble = lipgloss.NewStyle().
		Foreground(OtherBubbleFg).
		Background(OtherBubbleBg).
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(OtherBubbleBorder).
		Padding(0, 2)

	// Content
	t.BodyText = lipgloss.NewStyle().Foreground(TextPrimary)
	t.EmojiLarge = lipgloss.NewStyle().Padding(0, 1)
	t.Mention = lipgloss.NewStyle().Foreground(Cyan).Bold(true)
	t.MentionEveryone = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Amber).
		Bold(true)
	t.SearchMatch = lipgloss.NewStyle().
		Foreground(TextPrimary).
		Background(SearchMatchBg).
		Bold(true)

	// Sub-rows
	t.ReplyIndicator = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.ForwardLabel = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)
	t.ReactionChip = lipgloss.NewStyle().
		Foreground(TextSecondary).
		Background(SurfaceBright).
		Padding(0, 1)
	t.ReactionMine = lipgloss.NewStyle().
		Foreground(Cyan).
		Background(SurfaceBright).
		Padding(0, 1).
		Bold(true)
	t.Attachment = lipgloss.NewStyle().Foreground(Cyan).Underline(true)
	t.AttachmentLoad = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	// List chrome
	t.DateSeparator = lipgloss.NewStyle().
		Foreground(TextMuted).
		Bold(true).
		Align(lipgloss.Center)
	t.JumpToBottom = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Purple).
		Padding(0, 1).
		Bold(true)
	t.EmptyState = lipgloss.NewStyle().
		Foreground(TextMuted).
		Italic(true).
		Align(lipgloss.Center).
		Padding(2, 0)
	t.StatusNotice = lipgloss.NewStyle().Foreground(Amber)
	t.StatusError = lipgloss.NewStyle().Foreground(Rose).Bold(true)

	// Input
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SearchPrompt = lipgloss.NewStyle().Foreground(Cyan).Bold(true)

	return t
}
