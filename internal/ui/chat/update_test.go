// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"strconv"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/morganforge/relay-tui/internal/feed"
	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// TEST FIXTURES
// =============================================================================

var (
	testViewer = model.Author{ID: "viewer", DisplayName: "You", Initials: "Y"}
	testAnn    = model.Author{ID: "ann", DisplayName: "Ann Chen", Initials: "AC"}
	testBob    = model.Author{ID: "bob", DisplayName: "Bob Osei", Initials: "BO"}
)

// stubDispatcher lets tests control the outcome and timing of Send.
type stubDispatcher struct {
	sendStarted chan struct{}
	sendRelease chan struct{}
	sendErr     error
}

func (d *stubDispatcher) Send(_ context.Context, _ string, _ string) error {
	if d.sendStarted != nil {
		d.sendStarted <- struct{}{}
	}
	if d.sendRelease != nil {
		<-d.sendRelease
	}
	return d.sendErr
}

func (d *stubDispatcher) Edit(_ context.Context, _, _ string) error        { return nil }
func (d *stubDispatcher) Delete(_ context.Context, _ string) error         { return nil }
func (d *stubDispatcher) ToggleReaction(_ context.Context, _, _ string) error { return nil }
func (d *stubDispatcher) TogglePin(_ context.Context, _ string) error      { return nil }
func (d *stubDispatcher) Save(_ context.Context, _ string) error           { return nil }
func (d *stubDispatcher) Unsave(_ context.Context, _ string) error         { return nil }
func (d *stubDispatcher) Forward(_ context.Context, _ string, _ feed.ForwardTarget) error {
	return nil
}
func (d *stubDispatcher) MarkSolution(_ context.Context, _ string) error { return nil }
func (d *stubDispatcher) SetTyping(_ context.Context, _ bool) error      { return nil }

// seedWindow builds n alternating-author messages a minute apart, so no
// two consecutive rows group.
func seedWindow(n int) []model.Message {
	authors := []model.Author{testAnn, testBob}
	base := time.Now().Add(-time.Duration(n+1) * time.Minute)

	msgs := make([]model.Message, 0, n)
	for i := 0; i < n; i++ {
		msg := model.NewMessage(authors[i%2], "message "+strconv.Itoa(i))
		msg.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		msgs = append(msgs, msg)
	}
	return msgs
}

// newTimelineModel mounts a sized model over an in-memory feed. A nil
// dispatcher gets the loopback memory dispatcher.
func newTimelineModel(t *testing.T, msgs []model.Message, d feed.Dispatcher) (Model, *feed.MemoryFeed) {
	t.Helper()

	mf := feed.NewMemoryFeed()
	mf.Load(msgs)
	if d == nil {
		d = feed.NewMemoryDispatcher(mf, testViewer)
	}

	m := New(Deps{
		Feed:       mf,
		Dispatcher: d,
		Users:      feed.NewMemoryUserCache(),
		Viewer:     testViewer,
		Log:        zerolog.Nop(),
	})

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	return next.(Model), mf
}

func typeRunes(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(Model)
	}
	return m
}

func recvIntent(t *testing.T, m Model) uiIntent {
	t.Helper()
	select {
	case in := <-m.intents:
		return in
	case <-time.After(time.Second):
		t.Fatal("no intent arrived")
		return uiIntent{}
	}
}

// recvSendResult waits for the send outcome, skipping unrelated results
// such as the throttled typing signal.
func recvSendResult(t *testing.T, m Model) dispatchDoneMsg {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case res := <-m.results:
			if res.op == "send" {
				return res
			}
		case <-deadline:
			t.Fatal("no send result arrived")
			return dispatchDoneMsg{}
		}
	}
}

// =============================================================================
// MOUSE SCROLL WIRING TESTS
// =============================================================================

func TestMouseWheelUnanchorsScroll(t *testing.T) {
	m, _ := newTimelineModel(t, seedWindow(40), nil)

	m.viewport.GotoBottom()
	m.scroll.OnJumpToBottom()

	wheel := tea.MouseMsg{
		Type:   tea.MouseWheelUp,
		Action: tea.MouseActionPress,
		Button: tea.MouseButtonWheelUp,
	}
	for i := 0; i < 10; i++ {
		next, _ := m.Update(wheel)
		m = next.(Model)
	}

	if lines := m.viewport.LinesFromBottom(); lines <= m.cfg.Timeline.BottomThresholdLines {
		t.Fatalf("wheel scrolling moved only %d lines from bottom", lines)
	}
	if m.scroll.State() != ScrollAway {
		t.Errorf("state after wheel scrolling = %v, want ScrollAway", m.scroll.State())
	}

	// A growth flush while the reader sits in history must not yank the
	// viewport back to the newest message.
	before := m.viewport.LinesFromBottom()
	next, _ := m.Update(growthFlushMsg{seq: m.scroll.seq})
	m = next.(Model)
	if after := m.viewport.LinesFromBottom(); after != before {
		t.Errorf("growth flush moved a scrolled-away reader: %d -> %d lines from bottom", before, after)
	}
}

func TestMouseWheelBackToBottomReanchors(t *testing.T) {
	m, _ := newTimelineModel(t, seedWindow(40), nil)

	m.viewport.GotoBottom()
	m.scroll.OnJumpToBottom()

	up := tea.MouseMsg{Type: tea.MouseWheelUp, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelUp}
	down := tea.MouseMsg{Type: tea.MouseWheelDown, Action: tea.MouseActionPress, Button: tea.MouseButtonWheelDown}

	for i := 0; i < 10; i++ {
		next, _ := m.Update(up)
		m = next.(Model)
	}
	for i := 0; i < 10; i++ {
		next, _ := m.Update(down)
		m = next.(Model)
	}

	if m.scroll.State() != ScrollAnchored {
		t.Errorf("state after wheeling back down = %v, want ScrollAnchored", m.scroll.State())
	}
}

// =============================================================================
// REGISTRY FRESHNESS TESTS
// =============================================================================

func TestCopyReachesPostMountMessages(t *testing.T) {
	m, mf := newTimelineModel(t, seedWindow(1), nil)

	late := model.NewMessage(testBob, "late arrival")
	mf.Append(late)
	next, _ := m.Update(feedUpdatedMsg{})
	m = next.(Model)

	var copied string
	orig := writeClipboard
	writeClipboard = func(s string) error { copied = s; return nil }
	defer func() { writeClipboard = orig }()

	// The handle was minted at mount time; it must still act on the
	// current window, not the one New saw.
	m.registry.Handles().CopyText(late.ID)

	in := recvIntent(t, m)
	next, _ = m.Update(intentMsg{intent: in})
	m = next.(Model)

	if copied != "late arrival" {
		t.Errorf("copied %q, want the post-mount message content", copied)
	}
	if m.statusNotice != "copied to clipboard" {
		t.Errorf("status notice = %q", m.statusNotice)
	}
}

// =============================================================================
// OPTIMISTIC SEND TESTS
// =============================================================================

func TestSubmitInsertsPendingRow(t *testing.T) {
	d := &stubDispatcher{
		sendStarted: make(chan struct{}, 1),
		sendRelease: make(chan struct{}),
	}
	defer close(d.sendRelease)

	m, _ := newTimelineModel(t, seedWindow(1), d)

	m = typeRunes(t, m, "ship it")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	select {
	case <-d.sendStarted:
	case <-time.After(time.Second):
		t.Fatal("Send was never dispatched")
	}

	// The dispatcher has not returned, but the draft must already be on
	// screen as a pending row.
	visible := m.visibleMessages()
	if len(visible) != 2 {
		t.Fatalf("visible rows = %d, want 2 (window + pending)", len(visible))
	}
	last := visible[len(visible)-1]
	if !last.Pending {
		t.Error("submitted draft must render as a pending row")
	}
	if last.Content != "ship it" || last.Author.ID != testViewer.ID {
		t.Errorf("pending row = %q by %q", last.Content, last.Author.ID)
	}
}

func TestPendingRowRetiredByFeedEcho(t *testing.T) {
	m, _ := newTimelineModel(t, seedWindow(1), nil)

	m = typeRunes(t, m, "ship it")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	// The loopback dispatcher confirms synchronously; its result means the
	// echo already sits in the feed.
	res := recvSendResult(t, m)
	if res.err != nil {
		t.Fatalf("send failed: %v", res.err)
	}
	next, _ = m.Update(res)
	m = next.(Model)
	next, _ = m.Update(feedUpdatedMsg{})
	m = next.(Model)

	visible := m.visibleMessages()
	if len(visible) != 2 {
		t.Fatalf("visible rows = %d, want 2 (pending replaced, not duplicated)", len(visible))
	}
	for _, msg := range visible {
		if msg.Pending {
			t.Error("confirmed echo must retire the pending row")
		}
	}
}

func TestFailedSendRetractsPendingRow(t *testing.T) {
	d := &stubDispatcher{sendErr: errors.New("channel archived")}
	m, _ := newTimelineModel(t, seedWindow(1), d)

	m = typeRunes(t, m, "ship it")
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)

	res := recvSendResult(t, m)
	if res.op != "send" || res.err == nil || res.ref == "" {
		t.Fatalf("send outcome = %+v", res)
	}
	next, _ = m.Update(res)
	m = next.(Model)

	if n := len(m.visibleMessages()); n != 1 {
		t.Errorf("visible rows after failed send = %d, want 1", n)
	}
	if m.statusNotice != "send failed" || !m.statusIsErr {
		t.Errorf("status = (%q, err=%v), want a send failure notice", m.statusNotice, m.statusIsErr)
	}
}

// =============================================================================
// HOVER-DRIVEN HIGHLIGHT TESTS
// =============================================================================

func TestRowHighlightTracksHoverCoordinator(t *testing.T) {
	m, _ := newTimelineModel(t, seedWindow(2), nil)

	// Drive the coordinator directly: the view must read it rather than
	// shadowing it with its own focus bookkeeping.
	m.hover.SetHovered(m.messages[1].ID)
	(&m).rebuildTimeline()

	layout := m.rowRenderer.Layout()

	hot := SnapshotRow(&m.messages[1], SnapshotInputs{Highlighted: true, Layout: layout})
	if _, dirty := m.rowCache.Lookup(hot); dirty {
		t.Error("focused row was not rendered with the coordinator's focus")
	}

	cold := SnapshotRow(&m.messages[0], SnapshotInputs{Highlighted: false, Layout: layout})
	if _, dirty := m.rowCache.Lookup(cold); dirty {
		t.Error("unfocused row must render unhighlighted")
	}
}

// =============================================================================
// SEARCH SUBMIT TESTS
// =============================================================================

func TestSearchSubmitJumpsToNewestHit(t *testing.T) {
	msgs := seedWindow(3)
	msgs[0].Content = "deploy window opens"
	msgs[2].Content = "deploy is done"

	m, _ := newTimelineModel(t, msgs, nil)
	m, _ = m.enterSearchMode()
	m.searchQuery = "deploy"
	m.searchResults = FilterLocal(m.messages, "deploy")

	m, _ = m.handleSearchKey(tea.KeyMsg{Type: tea.KeyEnter})

	in := recvIntent(t, m)
	if in.kind != intentScrollTo {
		t.Fatalf("intent kind = %v, want scroll-to", in.kind)
	}
	if in.messageID != msgs[2].ID {
		t.Errorf("submit scrolled to %q, want the newest hit %q", in.messageID, msgs[2].ID)
	}
}
