// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed defines the boundary contracts the chat surface consumes.
package feed

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/morganforge/relay-tui/internal/model"
)

// =============================================================================
// IN-MEMORY FEED
// =============================================================================

// MemoryFeed is an in-memory Feed used by the demo wiring and tests.
// It keeps the window sorted by CreatedAt and notifies subscribers
// synchronously after every mutation.
type MemoryFeed struct {
	mu       sync.Mutex
	messages []model.Message
	loaded   bool

	nextSub     int
	subscribers map[int]func()
}

// NewMemoryFeed creates an unloaded feed. Call Load (possibly with zero
// messages) to move it to the loaded state.
func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		subscribers: make(map[int]func()),
	}
}

// Messages returns a copy of the current window and the loaded flag.
func (f *MemoryFeed) Messages() ([]model.Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.loaded {
		return nil, false
	}
	out := make([]model.Message, len(f.messages))
	copy(out, f.messages)
	return out, true
}

// Subscribe registers a change callback and returns its unsubscribe func.
func (f *MemoryFeed) Subscribe(fn func()) func() {
	f.mu.Lock()
	id := f.nextSub
	f.nextSub++
	f.subscribers[id] = fn
	f.mu.Unlock()

	return func() {
		f.mu.Lock()
		delete(f.subscribers, id)
		f.mu.Unlock()
	}
}

// Load replaces the whole window and marks the feed loaded.
func (f *MemoryFeed) Load(messages []model.Message) {
	f.mu.Lock()
	f.messages = append([]model.Message(nil), messages...)
	f.sortLocked()
	f.loaded = true
	f.mu.Unlock()
	f.notify()
}

// Append adds one message to the window.
func (f *MemoryFeed) Append(msg model.Message) {
	f.mu.Lock()
	f.messages = append(f.messages, msg)
	f.sortLocked()
	f.loaded = true
	f.mu.Unlock()
	f.notify()
}

// Update replaces the message with the same id, if present.
func (f *MemoryFeed) Update(msg model.Message) {
	f.mu.Lock()
	for i := range f.messages {
		if f.messages[i].ID == msg.ID {
			f.messages[i] = msg
			break
		}
	}
	f.mu.Unlock()
	f.notify()
}

// Remove deletes the message with the given id, if present.
func (f *MemoryFeed) Remove(messageID string) {
	f.mu.Lock()
	for i := range f.messages {
		if f.messages[i].ID == messageID {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			break
		}
	}
	f.mu.Unlock()
	f.notify()
}

// Get returns the message with the given id.
func (f *MemoryFeed) Get(messageID string) (model.Message, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.messages {
		if f.messages[i].ID == messageID {
			return f.messages[i], true
		}
	}
	return model.Message{}, false
}

// sortLocked keeps the window in CreatedAt-ascending order.
// Caller must hold the mutex.
func (f *MemoryFeed) sortLocked() {
	sort.SliceStable(f.messages, func(i, j int) bool {
		return f.messages[i].CreatedAt.Before(f.messages[j].CreatedAt)
	})
}

func (f *MemoryFeed) notify() {
	f.mu.Lock()
	fns := make([]func(), 0, len(f.subscribers))
	for _, fn := range f.subscribers {
		fns = append(fns, fn)
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Search implements Searcher with a case-insensitive substring scan.
// A real backend would hit a search service; the demo scans the window.
func (f *MemoryFeed) Search(_ context.Context, query string) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	q := strings.ToLower(query)
	var out []model.Message
	for _, m := range f.messages {
		if strings.Contains(strings.ToLower(m.Content), q) {
			out = append(out, m)
		}
	}
	return out, nil
}

// =============================================================================
// IN-MEMORY DISPATCHER
// =============================================================================

// MemoryDispatcher applies actions directly to a MemoryFeed. The demo uses
// it as the loopback backend: a Send echoes the confirmed message into the
// feed immediately, exercising the optimistic-swap path.
type MemoryDispatcher struct {
	feed   *MemoryFeed
	viewer model.Author

	mu    sync.Mutex
	saved map[string]bool
}

// NewMemoryDispatcher creates a dispatcher that mutates the given feed on
// behalf of the given viewer.
func NewMemoryDispatcher(feed *MemoryFeed, viewer model.Author) *MemoryDispatcher {
	return &MemoryDispatcher{
		feed:   feed,
		viewer: viewer,
		saved:  make(map[string]bool),
	}
}

// Send appends a confirmed message authored by the viewer.
func (d *MemoryDispatcher) Send(_ context.Context, content string, parentID string) error {
	msg := model.NewMessage(d.viewer, content)
	if parentID != "" {
		if parent, ok := d.feed.Get(parentID); ok {
			msg.ParentID = parent.ID
			msg.ParentSnapshot = &model.ParentSnapshot{
				Content:    parent.Content,
				AuthorName: parent.Author.DisplayName,
			}
		}
	}
	d.feed.Append(msg)
	return nil
}

// Edit updates a message's content in place.
func (d *MemoryDispatcher) Edit(_ context.Context, messageID, content string) error {
	msg, ok := d.feed.Get(messageID)
	if !ok {
		return nil
	}
	msg.ApplyEdit(content, time.Now())
	d.feed.Update(msg)
	return nil
}

// Delete removes the message row entirely.
func (d *MemoryDispatcher) Delete(_ context.Context, messageID string) error {
	d.feed.Remove(messageID)
	return nil
}

// ToggleReaction adds or removes the viewer's reaction for the emoji.
func (d *MemoryDispatcher) ToggleReaction(_ context.Context, messageID, emoji string) error {
	msg, ok := d.feed.Get(messageID)
	if !ok {
		return nil
	}
	for i, r := range msg.Reactions {
		if r.UserID == d.viewer.ID && r.Emoji == emoji {
			msg.Reactions = append(msg.Reactions[:i], msg.Reactions[i+1:]...)
			d.feed.Update(msg)
			return nil
		}
	}
	msg.Reactions = append(msg.Reactions, model.Reaction{UserID: d.viewer.ID, Emoji: emoji})
	d.feed.Update(msg)
	return nil
}

// TogglePin flips the pinned flag.
func (d *MemoryDispatcher) TogglePin(_ context.Context, messageID string) error {
	msg, ok := d.feed.Get(messageID)
	if !ok {
		return nil
	}
	msg.Pinned = !msg.Pinned
	d.feed.Update(msg)
	return nil
}

// Save marks a message saved for the viewer.
func (d *MemoryDispatcher) Save(_ context.Context, messageID string) error {
	d.mu.Lock()
	d.saved[messageID] = true
	d.mu.Unlock()
	return nil
}

// Unsave removes the saved mark.
func (d *MemoryDispatcher) Unsave(_ context.Context, messageID string) error {
	d.mu.Lock()
	delete(d.saved, messageID)
	d.mu.Unlock()
	return nil
}

// IsSaved reports whether a message is saved for the viewer.
func (d *MemoryDispatcher) IsSaved(messageID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.saved[messageID]
}

// Forward is a no-op in the loopback backend.
func (d *MemoryDispatcher) Forward(_ context.Context, _ string, _ ForwardTarget) error {
	return nil
}

// MarkSolution flags a message as the accepted answer.
func (d *MemoryDispatcher) MarkSolution(_ context.Context, messageID string) error {
	msg, ok := d.feed.Get(messageID)
	if !ok {
		return nil
	}
	msg.AcceptedAnswer = true
	d.feed.Update(msg)
	return nil
}

// SetTyping is a no-op in the loopback backend.
func (d *MemoryDispatcher) SetTyping(_ context.Context, _ bool) error {
	return nil
}

// =============================================================================
// IN-MEMORY LOOKUPS
// =============================================================================

// MemoryResolver resolves storage handles from a static map.
type MemoryResolver struct {
	mu   sync.Mutex
	urls map[string]string
}

// NewMemoryResolver creates an empty resolver.
func NewMemoryResolver() *MemoryResolver {
	return &MemoryResolver{urls: make(map[string]string)}
}

// Put installs a resolved URL for a storage handle.
func (r *MemoryResolver) Put(storageID, url string) {
	r.mu.Lock()
	r.urls[storageID] = url
	r.mu.Unlock()
}

// Resolve returns the URL for a handle, or ok=false while unresolved.
func (r *MemoryResolver) Resolve(storageID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	url, ok := r.urls[storageID]
	return url, ok
}

// MemoryUserCache is a map-backed UserCache.
type MemoryUserCache struct {
	mu    sync.Mutex
	users map[string]UserDisplay
}

// NewMemoryUserCache creates an empty user cache.
func NewMemoryUserCache() *MemoryUserCache {
	return &MemoryUserCache{users: make(map[string]UserDisplay)}
}

// Put installs display data for a user id.
func (c *MemoryUserCache) Put(userID string, display UserDisplay) {
	c.mu.Lock()
	c.users[userID] = display
	c.mu.Unlock()
}

// Lookup returns display data for a user id, or ok=false on a miss.
func (c *MemoryUserCache) Lookup(userID string) (UserDisplay, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.users[userID]
	return d, ok
}
