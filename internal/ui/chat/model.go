// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the channel timeline view for the relay TUI.
package chat

import (
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/morganforge/relay-tui/internal/config"
	"github.com/morganforge/relay-tui/internal/feed"
	"github.com/morganforge/relay-tui/internal/model"
	"github.com/morganforge/relay-tui/internal/ui/components"
	"github.com/morganforge/relay-tui/internal/ui/styles"
)

// =============================================================================
// DEPENDENCIES
// =============================================================================

// Deps bundles the timeline's collaborators. Feed, Dispatcher, and Users are
// required; Searcher, Resolver, and Watcher are optional.
type Deps struct {
	Feed       feed.Feed
	Dispatcher feed.Dispatcher
	Searcher   feed.Searcher
	Resolver   feed.AttachmentResolver
	Users      feed.UserCache

	Viewer  model.Author
	Config  *config.Config
	Watcher *config.Watcher
	Theme   *styles.Theme
	Log     zerolog.Logger
}

// =============================================================================
// CHAT MODEL
// =============================================================================

// typingEventsPerSec throttles typing notifications to the dispatcher. One
// event per two seconds matches what channel peers actually display.
const typingEventsPerSec = 0.5

// Model is the Bubble Tea model for the channel timeline.
type Model struct {
	theme  *styles.Theme
	cfg    *config.Config
	log    zerolog.Logger
	keyMap KeyMap

	width  int
	height int

	// Data plane
	feed       feed.Feed
	dispatcher feed.Dispatcher
	resolver   feed.AttachmentResolver
	users      feed.UserCache
	viewer     model.Author

	messages []model.Message
	loaded   bool

	// pending holds optimistic rows for local sends awaiting their feed
	// echo; they render after the confirmed window.
	pending []model.Message

	// Render engine
	scroll       *ScrollController
	hover        *HoverCoordinator
	registry     *CallbackRegistry
	rowCache     *RowCache
	renderer     *ContentRenderer
	rowRenderer  *components.MessageRenderer
	searchEngine *SearchEngine

	// UI components
	viewport    *components.TimelineViewport
	composer    *components.Composer
	searchInput textinput.Model

	// Interaction state
	focusedID string // keyboard-focused message id, empty for none
	replyToID string // message being replied to
	editingID string // message being edited
	showHelp  bool

	searchMode    bool
	searchQuery   string
	searchResults []model.Message
	searchLoading bool

	statusNotice string
	statusIsErr  bool
	noticeSeq    int

	typingLimiter *rate.Limiter

	// feedUpdates carries feed change notifications onto the update loop;
	// results and intents do the same for dispatcher outcomes and UI
	// actions raised through the callback registry.
	feedUpdates chan struct{}
	results     chan dispatchDoneMsg
	intents     chan uiIntent
	unsubscribe func()
	watcher     *config.Watcher
}

// New creates the timeline model.
func New(deps Deps) Model {
	cfg := deps.Config
	if cfg == nil {
		cfg = config.Default()
	}
	theme := deps.Theme
	if theme == nil {
		theme = styles.NewTheme()
	}

	searchInput := textinput.New()
	searchInput.Prompt = "Search: "
	searchInput.Placeholder = "Type to search..."
	searchInput.CharLimit = 256

	m := Model{
		theme:  theme,
		cfg:    cfg,
		log:    deps.Log,
		keyMap: DefaultKeyMap(),

		feed:       deps.Feed,
		dispatcher: deps.Dispatcher,
		resolver:   deps.Resolver,
		users:      deps.Users,
		viewer:     deps.Viewer,

		scroll: NewScrollController(
			cfg.Timeline.BottomThresholdLines,
			time.Duration(cfg.Timeline.GrowthDebounceMs)*time.Millisecond,
		),
		hover:        NewHoverCoordinator(),
		registry:     NewCallbackRegistry(),
		rowCache:     NewRowCache(),
		rowRenderer:  components.NewMessageRenderer(theme, cfg.UI.Layout),
		searchEngine: NewSearchEngine(deps.Searcher, cfg.Timeline.RemoteSearchMinChars),

		viewport:    components.NewTimelineViewport(),
		composer:    components.NewComposer(theme),
		searchInput: searchInput,

		typingLimiter: rate.NewLimiter(rate.Limit(typingEventsPerSec), 1),
		feedUpdates:   make(chan struct{}, 1),
		results:       make(chan dispatchDoneMsg, 8),
		intents:       make(chan uiIntent, 8),
		watcher:       deps.Watcher,
	}

	if r, err := NewContentRenderer(76); err == nil {
		m.renderer = r
	} else {
		m.log.Warn().Err(err).Msg("markdown renderer unavailable, rendering plain text")
	}

	if m.feed != nil {
		updates := m.feedUpdates
		m.unsubscribe = m.feed.Subscribe(func() {
			select {
			case updates <- struct{}{}:
			default:
			}
		})
		m.messages, m.loaded = m.feed.Messages()
	}

	m.registry.Refresh(m.actionHandlers())
	return m
}

// groupWindow returns the configured same-author grouping window.
func (m Model) groupWindow() time.Duration {
	return time.Duration(m.cfg.Timeline.GroupWindowMs) * time.Millisecond
}

// lookupName resolves a mention id through the user cache.
func (m Model) lookupName(userID string) (string, bool) {
	if m.users == nil {
		return "", false
	}
	u, ok := m.users.Lookup(userID)
	if !ok {
		return "", false
	}
	return u.Name, true
}

// messageByID finds a message in the loaded window or among the
// not-yet-confirmed optimistic rows.
func (m Model) messageByID(id string) (*model.Message, bool) {
	for i := range m.messages {
		if m.messages[i].ID == id {
			return &m.messages[i], true
		}
	}
	for i := range m.pending {
		if m.pending[i].ID == id {
			return &m.pending[i], true
		}
	}
	return nil, false
}

// Close tears the timeline down: the feed subscription, the scroll
// controller, and the config watcher all stop.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.scroll.Close()
	if m.watcher != nil {
		if err := m.watcher.Close(); err != nil {
			m.log.Warn().Err(err).Msg("closing config watcher")
		}
	}
}

// =============================================================================
// BUBBLE TEA INTERFACE
// =============================================================================

// Init starts the deferred bottom jump and the feed listener.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.scroll.Start(),
		m.listenFeed(),
		m.listenResults(),
		m.listenIntents(),
		textinput.Blink,
	}
	if m.watcher != nil {
		cmds = append(cmds, m.listenReloads())
	}
	return tea.Batch(cmds...)
}

// listenFeed blocks on the next feed change notification.
func (m Model) listenFeed() tea.Cmd {
	ch := m.feedUpdates
	return func() tea.Msg {
		<-ch
		return feedUpdatedMsg{}
	}
}

// listenReloads blocks on the next config hot reload.
func (m Model) listenReloads() tea.Cmd {
	ch := m.watcher.Reloads()
	return func() tea.Msg {
		cfg, ok := <-ch
		if !ok {
			return nil
		}
		return configReloadedMsg{cfg: cfg}
	}
}
