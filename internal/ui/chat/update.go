// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the channel timeline view for the relay TUI.
package chat

import (
	"context"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/relay-tui/internal/config"
	"github.com/morganforge/relay-tui/internal/feed"
	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// MESSAGES
// =============================================================================

// feedUpdatedMsg signals that the feed's message window changed.
type feedUpdatedMsg struct{}

// configReloadedMsg carries a hot-reloaded config.
type configReloadedMsg struct {
	cfg *config.Config
}

// statusExpireMsg clears a transient status notice.
type statusExpireMsg struct {
	seq int
}

// dispatchDoneMsg reports a finished dispatcher call. ref carries the
// optimistic row id for sends, so a failed send can retract its row.
type dispatchDoneMsg struct {
	op  string
	ref string
	err error
}

// writeClipboard is swappable for tests; real sessions write the system
// clipboard.
var writeClipboard = clipboard.WriteAll

// intentKind enumerates UI-local actions routed through the callback
// registry.
type intentKind int

const (
	intentReply intentKind = iota
	intentEdit
	intentScrollTo
	intentCopy
	intentNotice
)

// uiIntent is a UI-local action raised by a registry handle.
type uiIntent struct {
	kind      intentKind
	messageID string
	notice    string
}

// intentMsg delivers a uiIntent onto the update loop.
type intentMsg struct {
	intent uiIntent
}

// dispatchTimeout bounds every dispatcher round trip.
const dispatchTimeout = 10 * time.Second

// statusNoticeTTL is how long a transient notice stays on screen.
const statusNoticeTTL = 4 * time.Second

// =============================================================================
// ACTION HANDLERS
// =============================================================================

// actionHandlers wires the callback registry to the dispatcher and the UI
// intent channel. Refresh swaps these wholesale; the handles the rows keep
// never change identity.
func (m *Model) actionHandlers() ActionHandlers {
	d := m.dispatcher
	resolver := m.resolver
	intents := m.intents

	sendIntent := func(in uiIntent) {
		go func() { intents <- in }()
	}

	h := ActionHandlers{
		Reply:    func(id string) { sendIntent(uiIntent{kind: intentReply, messageID: id}) },
		Edit:     func(id string) { sendIntent(uiIntent{kind: intentEdit, messageID: id}) },
		ScrollTo: func(id string) { sendIntent(uiIntent{kind: intentScrollTo, messageID: id}) },

		React: func(id, emoji string) {
			m.dispatch("react", func(ctx context.Context) error { return d.ToggleReaction(ctx, id, emoji) })
		},
		Pin: func(id string) {
			m.dispatch("pin", func(ctx context.Context) error { return d.TogglePin(ctx, id) })
		},
		Save: func(id string) {
			m.dispatch("save", func(ctx context.Context) error { return d.Save(ctx, id) })
		},
		Unsave: func(id string) {
			m.dispatch("unsave", func(ctx context.Context) error { return d.Unsave(ctx, id) })
		},
		Delete: func(id string) {
			m.dispatch("delete", func(ctx context.Context) error { return d.Delete(ctx, id) })
		},
		Forward: func(id string) {
			// Forward target selection is a channel picker concern; until a
			// target is chosen the action forwards to the current channel.
			m.dispatch("forward", func(ctx context.Context) error {
				return d.Forward(ctx, id, feed.ForwardTarget{})
			})
		},
		MarkSolution: func(id string) {
			m.dispatch("mark solution", func(ctx context.Context) error { return d.MarkSolution(ctx, id) })
		},
		// Copy needs the current message window, so it runs on the update
		// loop as an intent instead of reading state from this closure.
		CopyText: func(id string) { sendIntent(uiIntent{kind: intentCopy, messageID: id}) },
	}

	if sq, ok := d.(feed.SavedQuerier); ok {
		h.IsSaved = sq.IsSaved
	}
	if resolver != nil {
		h.ResolveAttachment = resolver.Resolve
	}
	return h
}

// dispatch runs one dispatcher call off the update loop and reports the
// outcome through the results channel.
func (m *Model) dispatch(op string, fn func(ctx context.Context) error) {
	m.dispatchTracked(op, "", fn)
}

// dispatchTracked is dispatch with an outcome reference: the send path
// passes its optimistic row id so a failure can retract that exact row.
func (m *Model) dispatchTracked(op, ref string, fn func(ctx context.Context) error) {
	results := m.results
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), dispatchTimeout)
		defer cancel()
		results <- dispatchDoneMsg{op: op, ref: ref, err: fn(ctx)}
	}()
}

// listenResults blocks on the next dispatcher outcome.
func (m Model) listenResults() tea.Cmd {
	ch := m.results
	return func() tea.Msg { return <-ch }
}

// listenIntents blocks on the next UI intent.
func (m Model) listenIntents() tea.Cmd {
	ch := m.intents
	return func() tea.Msg { return intentMsg{intent: <-ch} }
}

// =============================================================================
// UPDATE
// =============================================================================

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Reinstall the handler set behind the registry every pass. The handle
	// identities the rows hold never change; only the holder they forward
	// to does, so handlers never act through a stale model copy.
	m.registry.Refresh((&m).actionHandlers())

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		m.rebuildTimeline()

	case settleFrameMsg:
		jump, cmd := m.scroll.HandleSettleFrame(msg)
		if jump {
			m.viewport.GotoBottom()
		}
		cmds = append(cmds, cmd)

	case growthFlushMsg:
		if m.scroll.HandleGrowthFlush(msg) {
			m.viewport.GotoBottom()
		}

	case feedUpdatedMsg:
		cmds = append(cmds, m.refreshFromFeed(), m.listenFeed())

	case remoteSearchMsg:
		merged, stale, err := m.searchEngine.HandleRemote(msg, m.searchResults)
		m.searchLoading = false
		if err != nil {
			m.log.Warn().Err(err).Str("query", msg.query).Msg("remote search failed")
			cmds = append(cmds, m.notice("search unavailable", true))
		}
		if !stale {
			m.searchResults = merged
			m.rebuildTimeline()
		}

	case dispatchDoneMsg:
		if msg.err != nil {
			m.log.Error().Err(msg.err).Str("op", msg.op).Msg("dispatch failed")
			cmds = append(cmds, m.notice(msg.op+" failed", true))
			if msg.op == "send" && msg.ref != "" {
				m.dropPending(msg.ref)
				m.rebuildTimeline()
			}
		}
		cmds = append(cmds, m.listenResults())

	case intentMsg:
		cmds = append(cmds, m.applyIntent(msg.intent), m.listenIntents())

	case statusExpireMsg:
		if msg.seq == m.noticeSeq {
			m.statusNotice = ""
			m.statusIsErr = false
		}

	case configReloadedMsg:
		m.applyConfig(msg.cfg)
		cmds = append(cmds, m.notice("config reloaded", false), m.listenReloads())

	case tea.KeyMsg:
		var cmd tea.Cmd
		m, cmd = m.handleKey(msg)
		cmds = append(cmds, cmd)

	case tea.MouseMsg:
		// Wheel scrolling must reach the scroll state machine: reading
		// history un-anchors the view so a growth flush cannot yank the
		// reader back to the newest message.
		cmds = append(cmds, m.viewport.Update(msg))
		m.scroll.OnUserScroll(m.viewport.LinesFromBottom())

	default:
		cmds = append(cmds, m.viewport.Update(msg), m.composer.Update(msg))
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// resize propagates a terminal size change. Every row's output depends on
// the width, so the memo cache is flushed wholesale.
func (m *Model) resize(width, height int) {
	m.width = width
	m.height = height

	chrome := 4 // composer, status line, affordance row
	m.viewport.SetSize(width, maxInt(height-chrome, 3))
	m.composer.SetWidth(width)
	m.searchInput.Width = maxInt(width-12, 10)

	if r, err := NewContentRenderer(maxInt(width-6, 20)); err == nil {
		m.renderer = r
	}
	m.rowCache.Invalidate()
}

// refreshFromFeed reloads the window and re-anchors if content grew while
// the view tracks the bottom. Optimistic rows whose confirmed record
// arrived with the window are retired here.
func (m *Model) refreshFromFeed() tea.Cmd {
	m.messages, m.loaded = m.feed.Messages()
	m.prunePending()

	prev := m.viewport.TotalLines()
	m.rebuildTimeline()

	if m.viewport.TotalLines() > prev {
		return m.scroll.ObserveGrowth()
	}
	return nil
}

// applyIntent performs a UI-local action raised through the registry.
func (m *Model) applyIntent(in uiIntent) tea.Cmd {
	switch in.kind {
	case intentReply:
		msg, ok := m.messageByID(in.messageID)
		if !ok {
			return nil
		}
		m.replyToID = in.messageID
		m.editingID = ""
		m.composer.StartReply(msg.Author.DisplayName)
		return m.focusComposer()

	case intentEdit:
		msg, ok := m.messageByID(in.messageID)
		if !ok || msg.Author.ID != m.viewer.ID {
			return nil
		}
		m.editingID = in.messageID
		m.replyToID = ""
		m.composer.StartEdit(msg.Content)
		return m.focusComposer()

	case intentScrollTo:
		found, atBottom := m.viewport.ScrollToMessage(in.messageID)
		if found {
			m.scroll.OnScrollToMessage(atBottom)
			m.setFocus(in.messageID)
			m.rebuildTimeline()
		}
		return nil

	case intentCopy:
		msg, ok := m.messageByID(in.messageID)
		if !ok {
			return nil
		}
		text := ProcessMentions(SanitizeContent(msg.Content), msg.Mentions, m.lookupName)
		if err := writeClipboard(text); err != nil {
			m.log.Warn().Err(err).Msg("clipboard write failed")
			return m.notice("copy failed", true)
		}
		return m.notice("copied to clipboard", false)

	case intentNotice:
		return m.notice(in.notice, false)
	}
	return nil
}

// applyConfig swaps in a hot-reloaded config.
func (m *Model) applyConfig(cfg *config.Config) {
	m.cfg = cfg
	m.rowRenderer.SetLayout(cfg.UI.Layout)
	m.rowCache.Invalidate()
	m.rebuildTimeline()
}

// notice shows a transient status line and schedules its expiry.
func (m *Model) notice(text string, isErr bool) tea.Cmd {
	m.statusNotice = text
	m.statusIsErr = isErr
	m.noticeSeq++
	seq := m.noticeSeq
	return tea.Tick(statusNoticeTTL, func(t time.Time) tea.Msg {
		return statusExpireMsg{seq: seq}
	})
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, m.keyMap.Quit) {
		(&m).Close()
		return m, tea.Quit
	}

	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	if key.Matches(msg, m.keyMap.Help) {
		m.showHelp = true
		return m, nil
	}

	if m.searchMode {
		return m.handleSearchKey(msg)
	}
	if m.composer.Focused() {
		return m.handleComposerKey(msg)
	}
	return m.handleBrowseKey(msg)
}

// handleComposerKey handles keys while the composer owns focus.
func (m Model) handleComposerKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Search):
		return m.enterSearchMode()

	case key.Matches(msg, m.keyMap.Submit):
		return m.submitComposer()

	case key.Matches(msg, m.keyMap.Cancel):
		if m.replyToID != "" || m.editingID != "" {
			m.replyToID = ""
			m.editingID = ""
			m.composer.Reset()
			return m, nil
		}
		return m, nil

	case key.Matches(msg, m.keyMap.Up):
		// Move focus out of the composer into the newest row.
		if len(m.messages) == 0 {
			return m, nil
		}
		m.composer.Blur()
		(&m).setFocus(m.messages[len(m.messages)-1].ID)
		(&m).rebuildTimeline()
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.PageUp()
		m.scroll.OnUserScroll(m.viewport.LinesFromBottom())
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.PageDown()
		m.scroll.OnUserScroll(m.viewport.LinesFromBottom())
		return m, nil

	case key.Matches(msg, m.keyMap.JumpBottom):
		m.viewport.GotoBottom()
		m.scroll.OnJumpToBottom()
		return m, nil
	}

	cmd := m.composer.Update(msg)

	// Throttled typing signal; peers only render one event every few
	// seconds anyway.
	var cmds []tea.Cmd
	cmds = append(cmds, cmd)
	if msg.Type == tea.KeyRunes && m.typingLimiter.Allow() {
		d := m.dispatcher
		(&m).dispatch("typing", func(ctx context.Context) error { return d.SetTyping(ctx, true) })
	}
	return m, tea.Batch(cmds...)
}

// submitComposer sends, edits, or ignores an empty draft. A send shows an
// optimistic pending row immediately; the row is retired when the feed
// echoes the confirmed record, or retracted if the send fails.
func (m Model) submitComposer() (Model, tea.Cmd) {
	content := strings.TrimSpace(m.composer.Value())
	if content == "" {
		return m, nil
	}

	var cmd tea.Cmd
	d := m.dispatcher
	switch {
	case m.editingID != "":
		id := m.editingID
		(&m).dispatch("edit", func(ctx context.Context) error { return d.Edit(ctx, id, content) })
	default:
		var parent *model.Message
		if m.replyToID != "" {
			if p, ok := m.messageByID(m.replyToID); ok {
				parent = p
			}
		}
		pending := model.NewPendingMessage(m.viewer, content, parent)
		m.pending = append(m.pending, pending)

		parentID := m.replyToID
		(&m).dispatchTracked("send", pending.ID, func(ctx context.Context) error {
			return d.Send(ctx, content, parentID)
		})

		prev := m.viewport.TotalLines()
		(&m).rebuildTimeline()
		if m.viewport.TotalLines() > prev {
			cmd = m.scroll.ObserveGrowth()
		}
	}

	m.replyToID = ""
	m.editingID = ""
	m.composer.Reset()
	return m, cmd
}

// prunePending retires optimistic rows whose confirmed record now sits in
// the window. The transport carries no client id, so the echo is matched
// by author and content.
func (m *Model) prunePending() {
	if len(m.pending) == 0 {
		return
	}
	kept := m.pending[:0]
	for _, p := range m.pending {
		if !m.echoed(p) {
			kept = append(kept, p)
		}
	}
	m.pending = kept
}

func (m *Model) echoed(p model.Message) bool {
	for i := range m.messages {
		msg := &m.messages[i]
		if !msg.Pending && msg.Author.ID == p.Author.ID && msg.Content == p.Content {
			return true
		}
	}
	return false
}

// dropPending retracts one optimistic row after its send failed.
func (m *Model) dropPending(id string) {
	for i := range m.pending {
		if m.pending[i].ID == id {
			m.pending = append(m.pending[:i], m.pending[i+1:]...)
			return
		}
	}
}

// handleBrowseKey handles keys while a timeline row owns focus.
func (m Model) handleBrowseKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	h := m.registry.Handles()

	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		return m.focusComposerModel()

	case key.Matches(msg, m.keyMap.Up):
		(&m).moveFocus(-1)
		return m, nil

	case key.Matches(msg, m.keyMap.Down):
		if !(&m).moveFocus(1) {
			return m.focusComposerModel()
		}
		return m, nil

	case key.Matches(msg, m.keyMap.PageUp):
		m.viewport.PageUp()
		m.scroll.OnUserScroll(m.viewport.LinesFromBottom())
		return m, nil

	case key.Matches(msg, m.keyMap.PageDown):
		m.viewport.PageDown()
		m.scroll.OnUserScroll(m.viewport.LinesFromBottom())
		return m, nil

	case key.Matches(msg, m.keyMap.JumpBottom):
		m.viewport.GotoBottom()
		m.scroll.OnJumpToBottom()
		return m.focusComposerModel()

	case key.Matches(msg, m.keyMap.Search):
		return m.enterSearchMode()
	}

	id := m.focusedID
	if id == "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keyMap.Reply):
		h.Reply(id)
	case key.Matches(msg, m.keyMap.React):
		// A full emoji picker is out of scope for the keyboard flow; the
		// default reaction toggles.
		h.React(id, "\U0001F44D")
	case key.Matches(msg, m.keyMap.Pin):
		h.Pin(id)
	case key.Matches(msg, m.keyMap.Save):
		if h.IsSaved(id) {
			h.Unsave(id)
		} else {
			h.Save(id)
		}
	case key.Matches(msg, m.keyMap.Edit):
		h.Edit(id)
	case key.Matches(msg, m.keyMap.Delete):
		h.Delete(id)
	case key.Matches(msg, m.keyMap.Copy):
		h.CopyText(id)
	case key.Matches(msg, m.keyMap.Solution):
		h.MarkSolution(id)
	case key.Matches(msg, m.keyMap.Parent):
		if parent, ok := m.messageByID(id); ok && parent.HasParent() {
			h.ScrollTo(parent.ParentID)
		}
	}
	return m, nil
}

// handleSearchKey handles keys while the search prompt owns focus.
func (m Model) handleSearchKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keyMap.Cancel):
		return m.exitSearchMode()

	case key.Matches(msg, m.keyMap.Submit):
		// Jump to the newest hit and leave the prompt up for navigation.
		if len(m.searchResults) > 0 {
			h := m.registry.Handles()
			h.ScrollTo(m.searchResults[len(m.searchResults)-1].ID)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	query := m.searchInput.Value()
	if query == m.searchQuery {
		return m, cmd
	}
	m.searchQuery = query

	local, remote := m.searchEngine.Run(m.messages, query)
	m.searchResults = local
	m.searchLoading = remote != nil
	(&m).rebuildTimeline()
	return m, tea.Batch(cmd, remote)
}

// =============================================================================
// FOCUS AND MODE HELPERS
// =============================================================================

// setFocus moves the keyboard focus, driving the hover coordinator so row
// subscribers see enter/leave transitions.
func (m *Model) setFocus(id string) {
	m.focusedID = id
	if id == "" {
		m.hover.ClearHovered(m.hover.Hovered())
		return
	}
	m.hover.SetHovered(id)
}

// moveFocus shifts the focused row by delta within the visible list. The
// return value is false when focus walked off the newest end.
func (m *Model) moveFocus(delta int) bool {
	msgs := m.visibleMessages()
	if len(msgs) == 0 {
		return false
	}

	idx := -1
	for i := range msgs {
		if msgs[i].ID == m.focusedID {
			idx = i
			break
		}
	}
	if idx == -1 {
		idx = len(msgs) - 1
	} else {
		idx += delta
	}

	if idx >= len(msgs) {
		return false
	}
	if idx < 0 {
		idx = 0
	}

	m.setFocus(msgs[idx].ID)
	if found, atBottom := m.viewport.ScrollToMessage(msgs[idx].ID); found {
		m.scroll.OnScrollToMessage(atBottom)
	}
	m.rebuildTimeline()
	return true
}

// focusComposer returns focus to the composer, clearing row focus.
func (m *Model) focusComposer() tea.Cmd {
	m.setFocus("")
	m.rebuildTimeline()
	return m.composer.Focus()
}

func (m Model) focusComposerModel() (Model, tea.Cmd) {
	cmd := (&m).focusComposer()
	return m, cmd
}

func (m Model) enterSearchMode() (Model, tea.Cmd) {
	m.searchMode = true
	m.searchQuery = ""
	m.searchResults = nil
	m.searchLoading = false
	m.searchInput.SetValue("")
	m.composer.Blur()
	(&m).setFocus("")
	(&m).rebuildTimeline()
	return m, m.searchInput.Focus()
}

func (m Model) exitSearchMode() (Model, tea.Cmd) {
	m.searchMode = false
	m.searchQuery = ""
	m.searchResults = nil
	m.searchLoading = false
	m.searchEngine.Cancel()
	m.searchInput.Blur()
	(&m).rebuildTimeline()
	return m, m.composer.Focus()
}

// visibleMessages returns the list the timeline currently shows. Pending
// sends are newest by construction and render after the confirmed window.
func (m Model) visibleMessages() []model.Message {
	if m.searchMode {
		return m.searchResults
	}
	if len(m.pending) == 0 {
		return m.messages
	}
	merged := make([]model.Message, 0, len(m.messages)+len(m.pending))
	merged = append(merged, m.messages...)
	merged = append(merged, m.pending...)
	return merged
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
