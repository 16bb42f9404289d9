// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides the visual UI components for the relay TUI.
package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/relay-tui/internal/ui/styles"
)

// =============================================================================
// TIMELINE VIEWPORT - Scrollable message area with per-row offsets
// =============================================================================

// TimelineRow is one rendered row plus the message it belongs to. Chrome
// rows such as date separators carry an empty ID.
type TimelineRow struct {
	ID      string
	Content string
}

// TimelineViewport wraps the bubbles viewport with line-offset tracking, so
// the view can jump to a message by id and report how far the user sits
// from the newest content.
type TimelineViewport struct {
	viewport viewport.Model
	width    int
	height   int
	ready    bool

	// offsets maps message id to the first line of its row in the content.
	offsets    map[string]int
	totalLines int
}

// NewTimelineViewport creates a timeline viewport.
func NewTimelineViewport() *TimelineViewport {
	vp := viewport.New(80, 20)
	vp.Style = lipgloss.NewStyle()
	return &TimelineViewport{
		viewport: vp,
		width:    80,
		height:   20,
		offsets:  map[string]int{},
	}
}

// SetSize updates the viewport dimensions.
func (tv *TimelineViewport) SetSize(width, height int) {
	tv.width = width
	tv.height = height
	tv.viewport.Width = width
	tv.viewport.Height = height
	tv.ready = true
}

// Ready reports whether the viewport has received its real size.
func (tv *TimelineViewport) Ready() bool {
	return tv.ready
}

// Width returns the content width.
func (tv *TimelineViewport) Width() int {
	return tv.width
}

// Height returns the visible height in lines.
func (tv *TimelineViewport) Height() int {
	return tv.height
}

// SetRows replaces the timeline content, preserving the scroll position,
// and rebuilds the per-message line offsets.
func (tv *TimelineViewport) SetRows(rows []TimelineRow) {
	var b strings.Builder
	offsets := make(map[string]int, len(rows))

	line := 0
	for i, row := range rows {
		if i > 0 {
			b.WriteByte('\n')
		}
		if row.ID != "" {
			if _, seen := offsets[row.ID]; !seen {
				offsets[row.ID] = line
			}
		}
		b.WriteString(row.Content)
		line += strings.Count(row.Content, "\n") + 1
	}

	tv.offsets = offsets
	tv.totalLines = line
	tv.viewport.SetContent(b.String())
}

// TotalLines returns the number of content lines.
func (tv *TimelineViewport) TotalLines() int {
	return tv.totalLines
}

// LinesFromBottom returns how many lines of content sit below the visible
// window. Zero means the newest content is on screen.
func (tv *TimelineViewport) LinesFromBottom() int {
	past := tv.totalLines - tv.viewport.Height - tv.viewport.YOffset
	if past < 0 {
		return 0
	}
	return past
}

// AtBottom reports whether the viewport shows the newest content.
func (tv *TimelineViewport) AtBottom() bool {
	return tv.viewport.AtBottom()
}

// GotoBottom scrolls to the newest content.
func (tv *TimelineViewport) GotoBottom() {
	tv.viewport.GotoBottom()
}

// ScrollToMessage positions the row for the given message id near the top
// of the window. It reports whether the id was found and whether the
// target landed inside the bottom window.
func (tv *TimelineViewport) ScrollToMessage(id string) (found, atBottom bool) {
	offset, ok := tv.offsets[id]
	if !ok {
		return false, false
	}

	max := tv.totalLines - tv.viewport.Height
	if max < 0 {
		max = 0
	}
	if offset > max {
		offset = max
	}
	tv.viewport.SetYOffset(offset)
	return true, offset >= max
}

// ScrollUp scrolls up n lines.
func (tv *TimelineViewport) ScrollUp(n int) {
	tv.viewport.LineUp(n)
}

// ScrollDown scrolls down n lines.
func (tv *TimelineViewport) ScrollDown(n int) {
	tv.viewport.LineDown(n)
}

// PageUp scrolls up one page.
func (tv *TimelineViewport) PageUp() {
	tv.viewport.ViewUp()
}

// PageDown scrolls down one page.
func (tv *TimelineViewport) PageDown() {
	tv.viewport.ViewDown()
}

// Update forwards mouse wheel events to the underlying viewport. Keyboard
// navigation is routed explicitly by the chat model, so key messages are
// not forwarded here.
func (tv *TimelineViewport) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.MouseMsg); !ok {
		return nil
	}
	var cmd tea.Cmd
	tv.viewport, cmd = tv.viewport.Update(msg)
	return cmd
}

// View renders the visible window.
func (tv *TimelineViewport) View() string {
	return tv.viewport.View()
}

// RenderEmptyState renders the centered placeholder for a channel with no
// messages yet.
func (tv *TimelineViewport) RenderEmptyState(theme *styles.Theme, text string) string {
	return lipgloss.Place(
		tv.width, tv.height,
		lipgloss.Center, lipgloss.Center,
		theme.EmptyState.Render(text),
	)
}
