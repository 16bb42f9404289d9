// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/morganforge/relay-tui/internal/model"
)

type fakeSearcher struct {
	hits    []model.Message
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) ([]model.Message, error) {
	f.queries = append(f.queries, query)
	return f.hits, f.err
}

func searchMsg(id, content string, at time.Time) model.Message {
	return model.Message{
		ID:        id,
		Author:    model.Author{ID: "u1", DisplayName: "Ann"},
		Content:   content,
		CreatedAt: at,
	}
}

// =============================================================================
// LOCAL FILTER TESTS
// =============================================================================

func TestFilterLocal(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	window := []model.Message{
		searchMsg("m1", "Deploy finished", base),
		searchMsg("m2", "lunch plans", base.Add(time.Minute)),
		searchMsg("m3", "redeploy tonight", base.Add(2*time.Minute)),
	}

	got := FilterLocal(window, "DEPLOY")
	if len(got) != 2 || got[0].ID != "m1" || got[1].ID != "m3" {
		t.Errorf("case-insensitive filter = %v", ids(got))
	}

	if got := FilterLocal(window, ""); got != nil {
		t.Errorf("empty query matched %v", ids(got))
	}
	if got := FilterLocal(window, "   "); got != nil {
		t.Errorf("blank query matched %v", ids(got))
	}
}

func ids(msgs []model.Message) []string {
	out := make([]string, len(msgs))
	for i, m := range msgs {
		out[i] = m.ID
	}
	return out
}

// =============================================================================
// MERGE TESTS
// =============================================================================

func TestMergeResultsDedupRemoteWins(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	local := []model.Message{
		searchMsg("m1", "local copy", base),
		searchMsg("m2", "only local", base.Add(time.Minute)),
	}
	remote := []model.Message{
		searchMsg("m1", "remote copy", base),
		searchMsg("m0", "older remote hit", base.Add(-time.Hour)),
	}

	merged := MergeResults(local, remote)
	if len(merged) != 3 {
		t.Fatalf("merged count = %d, want 3", len(merged))
	}
	if merged[0].ID != "m0" || merged[1].ID != "m1" || merged[2].ID != "m2" {
		t.Errorf("merge order = %v, want chronological", ids(merged))
	}
	if merged[1].Content != "remote copy" {
		t.Errorf("duplicate resolution kept %q, want the remote copy", merged[1].Content)
	}
}

// =============================================================================
// HYBRID ENGINE TESTS
// =============================================================================

func TestSearchEngineLocalHitSkipsRemote(t *testing.T) {
	searcher := &fakeSearcher{}
	e := NewSearchEngine(searcher, 3)
	window := []model.Message{searchMsg("m1", "deploy done", time.Now())}

	local, cmd := e.Run(window, "deploy")
	if len(local) != 1 {
		t.Fatalf("local hits = %d, want 1", len(local))
	}
	if cmd != nil {
		t.Error("local hits must not trigger a remote query")
	}
}

func TestSearchEngineShortQuerySkipsRemote(t *testing.T) {
	searcher := &fakeSearcher{}
	e := NewSearchEngine(searcher, 3)

	local, cmd := e.Run(nil, "ab")
	if len(local) != 0 || cmd != nil {
		t.Error("a two-rune query must stay local-only")
	}

	if _, cmd := e.Run(nil, "abc"); cmd == nil {
		t.Error("a three-rune query with no local hits must go remote")
	}
}

func TestSearchEngineRemoteRoundTrip(t *testing.T) {
	base := time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC)
	searcher := &fakeSearcher{hits: []model.Message{searchMsg("r1", "archived deploy log", base)}}
	e := NewSearchEngine(searcher, 3)

	local, cmd := e.Run(nil, "deploy")
	if cmd == nil {
		t.Fatal("expected a remote command")
	}

	msg, ok := cmd().(remoteSearchMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want remoteSearchMsg", cmd())
	}
	if len(searcher.queries) == 0 || searcher.queries[0] != "deploy" {
		t.Errorf("remote queries = %v", searcher.queries)
	}

	merged, stale, err := e.HandleRemote(msg, local)
	if err != nil || stale {
		t.Fatalf("HandleRemote stale=%v err=%v", stale, err)
	}
	if len(merged) != 1 || merged[0].ID != "r1" {
		t.Errorf("merged = %v", ids(merged))
	}
}

func TestSearchEngineStaleResultDropped(t *testing.T) {
	searcher := &fakeSearcher{hits: []model.Message{searchMsg("r1", "deploy", time.Now())}}
	e := NewSearchEngine(searcher, 3)

	_, cmd := e.Run(nil, "deploy")
	first := cmd().(remoteSearchMsg)

	// The user retyped before the first result landed.
	e.Run(nil, "deployment")

	if _, stale, _ := e.HandleRemote(first, nil); !stale {
		t.Error("result from a superseded query must be dropped")
	}
}

func TestSearchEngineCancelInvalidates(t *testing.T) {
	searcher := &fakeSearcher{}
	e := NewSearchEngine(searcher, 3)

	_, cmd := e.Run(nil, "deploy")
	msg := cmd().(remoteSearchMsg)
	e.Cancel()

	if _, stale, _ := e.HandleRemote(msg, nil); !stale {
		t.Error("Cancel must invalidate in-flight queries")
	}
}

func TestSearchEngineRemoteError(t *testing.T) {
	searcher := &fakeSearcher{err: errors.New("index offline")}
	e := NewSearchEngine(searcher, 3)

	local, cmd := e.Run(nil, "deploy")
	msg := cmd().(remoteSearchMsg)

	merged, stale, err := e.HandleRemote(msg, local)
	if stale || err == nil {
		t.Error("remote failure must surface its error")
	}
	if len(merged) != 0 {
		t.Errorf("failed remote must leave local results alone, got %v", ids(merged))
	}
}

func TestSearchEngineNilSearcher(t *testing.T) {
	e := NewSearchEngine(nil, 3)
	if _, cmd := e.Run(nil, "deploy"); cmd != nil {
		t.Error("a feed without a remote index must stay local")
	}
}
