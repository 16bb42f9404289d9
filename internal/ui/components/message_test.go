// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/morganforge/relay-tui/internal/model"
	"github.com/morganforge/relay-tui/internal/ui/styles"
)

func renderFixture() (*MessageRenderer, MessageView) {
	theme := styles.NewTheme()
	msg := &model.Message{
		ID:        "m1",
		Author:    model.Author{ID: "ann", DisplayName: "Ann Chen"},
		Content:   "hello there",
		CreatedAt: time.Date(2025, 3, 10, 14, 32, 0, 0, time.UTC),
	}
	return NewMessageRenderer(theme, LayoutCompact), MessageView{
		Msg:        msg,
		Body:       "hello there",
		Width:      80,
		TimeFormat: "15:04",
	}
}

// =============================================================================
// MESSAGE RENDERER TESTS
// =============================================================================

func TestRenderCompactHeader(t *testing.T) {
	r, v := renderFixture()

	out := r.Render(v)
	if !strings.Contains(out, "Ann Chen") {
		t.Error("header must carry the author name")
	}
	if !strings.Contains(out, "hello there") {
		t.Error("body text missing")
	}
}

func TestRenderGroupedCollapsesHeader(t *testing.T) {
	r, v := renderFixture()
	v.Grouped = true

	out := r.Render(v)
	if strings.Contains(out, "Ann Chen") {
		t.Error("grouped row must not repeat the author header")
	}
	if !strings.Contains(out, "hello there") {
		t.Error("body text missing")
	}
}

func TestRenderReplyIndicator(t *testing.T) {
	r, v := renderFixture()
	v.Msg.ParentID = "m0"
	v.Msg.ParentSnapshot = &model.ParentSnapshot{
		Content:    "original question\nsecond line",
		AuthorName: "Bob Osei",
	}

	out := r.Render(v)
	if !strings.Contains(out, "Bob Osei") {
		t.Error("reply indicator must name the replied-to author")
	}
	if !strings.Contains(out, "original question") {
		t.Error("reply indicator must preview the parent")
	}
	if strings.Contains(out, "second line") {
		t.Error("reply preview must stay a single line")
	}
}

func TestRenderReplyWithMissingSnapshot(t *testing.T) {
	r, v := renderFixture()
	v.Msg.ParentID = "m0"

	out := r.Render(v)
	if !strings.Contains(out, "message unavailable") {
		t.Error("a reply without a snapshot must show the fallback preview")
	}
}

func TestRenderForwardLabel(t *testing.T) {
	r, v := renderFixture()
	v.Msg.ForwardedFrom = &model.ForwardSource{ChannelName: "ops"}

	out := r.Render(v)
	if !strings.Contains(out, "forwarded from ops") {
		t.Error("forwarded message must carry its origin label")
	}
}

func TestRenderBadges(t *testing.T) {
	r, v := renderFixture()
	v.Msg.Pinned = true
	v.Msg.AcceptedAnswer = true
	v.Msg.OriginalPoster = true
	v.Msg.EditedAt = v.Msg.CreatedAt.Add(time.Minute)
	v.Saved = true

	out := r.Render(v)
	for _, badge := range []string{
		styles.StatusIndicators.Pinned,
		styles.StatusIndicators.Solution,
		styles.StatusIndicators.Saved,
		styles.StatusIndicators.Edited,
		"OP",
	} {
		if !strings.Contains(out, badge) {
			t.Errorf("header missing badge %q", badge)
		}
	}
}

func TestRenderReactionChips(t *testing.T) {
	r, v := renderFixture()
	v.Reactions = []model.GroupedReaction{
		{Emoji: "\U0001F44D", Count: 2, HasReacted: true},
		{Emoji: "\U0001F389", Count: 1},
	}

	out := r.Render(v)
	if !strings.Contains(out, "\U0001F44D 2") {
		t.Error("reaction chip must show emoji and count")
	}
	if !strings.Contains(out, "\U0001F389 1") {
		t.Error("second chip missing")
	}
}

func TestRenderAttachments(t *testing.T) {
	r, v := renderFixture()
	v.Msg.Attachments = []model.Attachment{
		{StorageID: "s1", Name: "pic.png", Size: 1024, MimeType: "image/png"},
		{StorageID: "s2", Name: "notes.txt", Size: 10, MimeType: "text/plain"},
	}
	v.ResolveAttachment = func(id string) (string, bool) {
		if id == "s1" {
			return "https://cdn.example/s1", true
		}
		return "", false
	}

	out := r.Render(v)
	if !strings.Contains(out, "pic.png") || !strings.Contains(out, "1.0 KB") {
		t.Error("resolved attachment must show name and size")
	}
	if !strings.Contains(out, "notes.txt") || !strings.Contains(out, "loading") {
		t.Error("unresolved attachment must show the loading placeholder")
	}
}

func TestRenderBubbleLayout(t *testing.T) {
	r, v := renderFixture()
	r.SetLayout(LayoutBubble)
	v.Own = true

	out := r.Render(v)
	if !strings.Contains(out, "hello there") {
		t.Error("bubble body missing")
	}

	// The bubble border must be present.
	if !strings.Contains(out, "╭") && !strings.Contains(out, "-") {
		t.Error("bubble layout must draw a border")
	}
}

func TestRenderNilMessage(t *testing.T) {
	r, _ := renderFixture()
	if out := r.Render(MessageView{}); out != "" {
		t.Errorf("nil message rendered %q", out)
	}
}

func TestLayoutFallback(t *testing.T) {
	theme := styles.NewTheme()
	r := NewMessageRenderer(theme, "sidebar")
	if r.Layout() != LayoutCompact {
		t.Errorf("unknown layout = %q, want compact fallback", r.Layout())
	}
}
