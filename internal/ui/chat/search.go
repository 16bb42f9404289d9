// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Hybrid timeline search. Queries run against the loaded window first; when
// that turns up nothing and the query is long enough, the feed's remote
// searcher is consulted asynchronously and the result sets are merged.

package chat

import (
	"context"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/relay-tui/internal/feed"
	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// LOCAL FILTER
// =============================================================================

// FilterLocal returns the messages whose content contains query,
// case-insensitively. An empty query matches nothing.
func FilterLocal(msgs []model.Message, query string) []model.Message {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	needle := strings.ToLower(query)
	var out []model.Message
	for _, m := range msgs {
		if strings.Contains(strings.ToLower(m.Content), needle) {
			out = append(out, m)
		}
	}
	return out
}

// MergeResults combines local and remote hits, deduplicated by message ID
// with the remote copy winning, ordered by creation time ascending.
func MergeResults(local, remote []model.Message) []model.Message {
	seen := make(map[string]int, len(local)+len(remote))
	var out []model.Message
	for _, m := range local {
		seen[m.ID] = len(out)
		out = append(out, m)
	}
	for _, m := range remote {
		if i, ok := seen[m.ID]; ok {
			out[i] = m
			continue
		}
		seen[m.ID] = len(out)
		out = append(out, m)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// =============================================================================
// SEARCH ENGINE
// =============================================================================

// remoteSearchTimeout bounds how long a remote query may run before the
// local results stand alone.
const remoteSearchTimeout = 5 * time.Second

// remoteSearchMsg delivers an asynchronous remote search result.
type remoteSearchMsg struct {
	seq   int
	query string
	hits  []model.Message
	err   error
}

// SearchEngine runs hybrid queries for one timeline. It is not safe for
// concurrent use; like the rest of the chat model it lives on the Bubble Tea
// update loop.
type SearchEngine struct {
	searcher feed.Searcher
	minChars int
	seq      int
}

// NewSearchEngine creates an engine. searcher may be nil for feeds with no
// remote index, in which case only local filtering runs. minChars is the
// minimum query length before a remote round trip is worth it.
func NewSearchEngine(searcher feed.Searcher, minChars int) *SearchEngine {
	if minChars < 1 {
		minChars = 1
	}
	return &SearchEngine{searcher: searcher, minChars: minChars}
}

// Run filters the loaded window and, when nothing matched a long-enough
// query, kicks off the remote search. cmd is nil when no remote trip is
// needed.
func (e *SearchEngine) Run(window []model.Message, query string) (local []model.Message, cmd tea.Cmd) {
	query = strings.TrimSpace(query)
	local = FilterLocal(window, query)
	if len(local) > 0 || e.searcher == nil || len([]rune(query)) < e.minChars {
		return local, nil
	}

	e.seq++
	seq := e.seq
	searcher := e.searcher
	return local, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), remoteSearchTimeout)
		defer cancel()
		hits, err := searcher.Search(ctx, query)
		return remoteSearchMsg{seq: seq, query: query, hits: hits, err: err}
	}
}

// HandleRemote folds a remote result into the current local hits. stale is
// true when the user has since retyped and the result must be dropped.
func (e *SearchEngine) HandleRemote(msg remoteSearchMsg, local []model.Message) (merged []model.Message, stale bool, err error) {
	if msg.seq != e.seq {
		return local, true, nil
	}
	if msg.err != nil {
		return local, false, msg.err
	}
	return MergeResults(local, msg.hits), false, nil
}

// Cancel invalidates any in-flight remote query.
func (e *SearchEngine) Cancel() {
	e.seq++
}
