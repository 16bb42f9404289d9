// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "testing"

// =============================================================================
// CALLBACK REGISTRY TESTS
// =============================================================================

func TestCallbackRegistryNilHandlersAreNoOps(t *testing.T) {
	r := NewCallbackRegistry()
	h := r.Handles()

	// Nothing registered yet; none of these may panic.
	h.Reply("m1")
	h.React("m1", "\U0001F44D")
	h.Delete("m1")
	h.ScrollTo("m1")
	h.CopyText("m1")

	if h.IsSaved("m1") {
		t.Error("IsSaved must default to false")
	}
	if url, ok := h.ResolveAttachment("s1"); ok || url != "" {
		t.Errorf("ResolveAttachment must default to (\"\", false), got (%q, %v)", url, ok)
	}
}

func TestCallbackRegistryDispatchesToLatest(t *testing.T) {
	r := NewCallbackRegistry()
	h := r.Handles()

	var got []string
	r.Refresh(ActionHandlers{
		Reply: func(id string) { got = append(got, "first:"+id) },
	})
	h.Reply("m1")

	// A stale handle captured before Refresh must still reach the newest
	// handler set.
	r.Refresh(ActionHandlers{
		Reply: func(id string) { got = append(got, "second:"+id) },
	})
	h.Reply("m2")

	if len(got) != 2 || got[0] != "first:m1" || got[1] != "second:m2" {
		t.Errorf("dispatch order = %v", got)
	}
}

func TestCallbackRegistryHandleIdentityStable(t *testing.T) {
	r := NewCallbackRegistry()

	before := r.Handles()
	r.Refresh(ActionHandlers{Reply: func(string) {}})
	after := r.Handles()

	if before != after {
		t.Error("Refresh must not replace the handle table")
	}
}

func TestCallbackRegistryReact(t *testing.T) {
	r := NewCallbackRegistry()

	var gotID, gotEmoji string
	r.Refresh(ActionHandlers{
		React: func(id, emoji string) { gotID, gotEmoji = id, emoji },
	})

	r.Handles().React("m1", "\U0001F389")
	if gotID != "m1" || gotEmoji != "\U0001F389" {
		t.Errorf("React relayed (%q, %q)", gotID, gotEmoji)
	}
}

func TestCallbackRegistryQueries(t *testing.T) {
	r := NewCallbackRegistry()
	r.Refresh(ActionHandlers{
		IsSaved: func(id string) bool { return id == "m1" },
		ResolveAttachment: func(storageID string) (string, bool) {
			if storageID == "s1" {
				return "https://cdn.example/s1", true
			}
			return "", false
		},
	})

	h := r.Handles()
	if !h.IsSaved("m1") || h.IsSaved("m2") {
		t.Error("IsSaved not relayed")
	}
	if url, ok := h.ResolveAttachment("s1"); !ok || url != "https://cdn.example/s1" {
		t.Errorf("ResolveAttachment = (%q, %v)", url, ok)
	}
}
