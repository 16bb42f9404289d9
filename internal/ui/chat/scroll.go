// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Scroll controller for the timeline viewport. Tracks whether the user is
// anchored to the newest message or reading history, performs the initial
// jump to bottom after layout settles, and coalesces bursts of content
// growth into a single re-anchor.

package chat

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// =============================================================================
// STATES AND MESSAGES
// =============================================================================

// ScrollState is the controller's position relative to the newest message.
type ScrollState int

const (
	// ScrollSettling is the pre-layout state. The viewport has not had a
	// stable height yet, so no anchoring decision has been made.
	ScrollSettling ScrollState = iota
	// ScrollAnchored means the view tracks the newest message and follows
	// content growth.
	ScrollAnchored
	// ScrollAway means the user scrolled up to read history. Growth must
	// not move their position.
	ScrollAway
)

// settleFrameMsg drives the initial jump. Two frames are waited out so the
// terminal has reported its real size and the first render has laid out
// before the viewport is moved.
type settleFrameMsg struct {
	seq    int
	remain int
}

// growthFlushMsg fires when the growth debounce window closes.
type growthFlushMsg struct {
	seq int
}

// settleFrames is how many frames to defer the initial bottom jump.
const settleFrames = 2

// =============================================================================
// SCROLL CONTROLLER
// =============================================================================

// ScrollController owns anchoring state for one timeline. It is plain state
// plus tea.Cmd factories; the model applies the returned decisions to the
// actual viewport.
type ScrollController struct {
	state     ScrollState
	threshold int
	debounce  time.Duration

	// seq invalidates in-flight ticks across Reset and Close, so a stale
	// timer from a torn-down timeline cannot move a new one.
	seq           int
	growthPending bool
	closed        bool
}

// NewScrollController creates a controller. threshold is how many lines from
// the bottom still count as anchored; debounce is the growth coalescing
// window.
func NewScrollController(threshold int, debounce time.Duration) *ScrollController {
	if threshold < 0 {
		threshold = 0
	}
	return &ScrollController{
		state:     ScrollSettling,
		threshold: threshold,
		debounce:  debounce,
	}
}

// State returns the current anchoring state.
func (sc *ScrollController) State() ScrollState {
	return sc.state
}

// Anchored reports whether the view should follow new content.
func (sc *ScrollController) Anchored() bool {
	return sc.state == ScrollAnchored
}

// Start schedules the deferred initial jump. Call once after the timeline
// mounts.
func (sc *ScrollController) Start() tea.Cmd {
	if sc.closed {
		return nil
	}
	sc.seq++
	return settleFrame(sc.seq, settleFrames)
}

func settleFrame(seq, remain int) tea.Cmd {
	return tea.Tick(time.Millisecond, func(t time.Time) tea.Msg {
		return settleFrameMsg{seq: seq, remain: remain}
	})
}

// HandleSettleFrame advances the deferred-jump countdown. jump is true when
// the countdown finishes and the viewport should move to the bottom; cmd
// schedules the next frame when the countdown is still running.
func (sc *ScrollController) HandleSettleFrame(msg settleFrameMsg) (jump bool, cmd tea.Cmd) {
	if sc.closed || msg.seq != sc.seq || sc.state != ScrollSettling {
		return false, nil
	}
	if msg.remain > 1 {
		return false, settleFrame(sc.seq, msg.remain-1)
	}
	sc.state = ScrollAnchored
	return true, nil
}

// ObserveGrowth notes that timeline content grew and returns a debounce
// timer. Repeated calls inside the window collapse into one flush.
func (sc *ScrollController) ObserveGrowth() tea.Cmd {
	if sc.closed || sc.state == ScrollSettling {
		return nil
	}
	if sc.growthPending {
		return nil
	}
	sc.growthPending = true
	seq := sc.seq
	return tea.Tick(sc.debounce, func(t time.Time) tea.Msg {
		return growthFlushMsg{seq: seq}
	})
}

// HandleGrowthFlush closes a debounce window. jump is true when the view is
// anchored and should re-stick to the bottom; when the user is away the
// growth is absorbed without moving them.
func (sc *ScrollController) HandleGrowthFlush(msg growthFlushMsg) (jump bool) {
	if sc.closed || msg.seq != sc.seq {
		return false
	}
	sc.growthPending = false
	return sc.state == ScrollAnchored
}

// OnUserScroll records a manual scroll. linesFromBottom is the distance
// between the viewport's bottom edge and the end of content; within the
// threshold the user is treated as anchored again.
func (sc *ScrollController) OnUserScroll(linesFromBottom int) {
	if sc.closed || sc.state == ScrollSettling {
		return
	}
	if linesFromBottom <= sc.threshold {
		sc.state = ScrollAnchored
	} else {
		sc.state = ScrollAway
	}
}

// OnJumpToBottom records an explicit return to the newest message.
func (sc *ScrollController) OnJumpToBottom() {
	if sc.closed {
		return
	}
	sc.state = ScrollAnchored
}

// OnScrollToMessage records a programmatic jump to a specific row, such as
// following a reply reference. atBottom tells whether the target row sits
// inside the bottom threshold.
func (sc *ScrollController) OnScrollToMessage(atBottom bool) {
	if sc.closed || sc.state == ScrollSettling {
		return
	}
	if atBottom {
		sc.state = ScrollAnchored
	} else {
		sc.state = ScrollAway
	}
}

// Reset returns the controller to the settling state, invalidating any
// in-flight ticks. Used when the timeline switches channels.
func (sc *ScrollController) Reset() {
	if sc.closed {
		return
	}
	sc.seq++
	sc.growthPending = false
	sc.state = ScrollSettling
}

// Close tears the controller down. Every subsequent call is a no-op and
// every in-flight tick is ignored.
func (sc *ScrollController) Close() {
	sc.closed = true
	sc.seq++
	sc.growthPending = false
}
