// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Command relay-tui is a terminal client for relay team chat.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/morganforge/relay-tui/internal/config"
	"github.com/morganforge/relay-tui/internal/feed"
	"github.com/morganforge/relay-tui/internal/logging"
	"github.com/morganforge/relay-tui/internal/model"
	"github.com/morganforge/relay-tui/internal/ui/chat"
	"github.com/morganforge/relay-tui/internal/ui/styles"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to config file (default ~/.relay/config.toml)")
		layout     = flag.String("layout", "", "message layout override: compact or bubble")
		demo       = flag.Bool("demo", true, "run against the built-in demo channel")
	)
	flag.Parse()

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
	if *layout != "" {
		cfg.UI.Layout = *layout
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "relay: %v\n", err)
			os.Exit(1)
		}
	}

	log := logging.New(config.Dir(), cfg.Log.Level)
	log.Info().Str("layout", cfg.UI.Layout).Msg("starting relay-tui")

	// Config hot reload is best effort; the session just keeps the boot
	// config when the watcher cannot start.
	watcher, err := config.NewWatcher(configPathOrDefault(*configPath), 250*time.Millisecond)
	if err != nil {
		log.Warn().Err(err).Msg("config watcher unavailable")
		watcher = nil
	} else if err := watcher.Watch(); err != nil {
		log.Warn().Err(err).Msg("config watcher failed to start")
		watcher = nil
	}

	if !*demo {
		fmt.Fprintln(os.Stderr, "relay: no server transport configured; run with -demo")
		os.Exit(1)
	}

	viewer := model.Author{
		ID:          "viewer",
		DisplayName: "You",
		Initials:    "Y",
	}

	memFeed, dispatcher, resolver, users := buildDemoChannel(viewer)

	m := chat.New(chat.Deps{
		Feed:       memFeed,
		Dispatcher: dispatcher,
		Searcher:   memFeed,
		Resolver:   resolver,
		Users:      users,
		Viewer:     viewer,
		Config:     cfg,
		Watcher:    watcher,
		Theme:      styles.NewTheme(),
		Log:        log,
	})

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		log.Error().Err(err).Msg("program exited with error")
		fmt.Fprintf(os.Stderr, "relay: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFrom(path)
	}
	return config.Load()
}

func configPathOrDefault(path string) string {
	if path != "" {
		return path
	}
	return config.Path()
}

// buildDemoChannel seeds an in-memory channel so the timeline has something
// to show without a server.
func buildDemoChannel(viewer model.Author) (*feed.MemoryFeed, *feed.MemoryDispatcher, *feed.MemoryResolver, *feed.MemoryUserCache) {
	ann := model.Author{ID: "ann", DisplayName: "Ann Chen", Initials: "AC"}
	bob := model.Author{ID: "bob", DisplayName: "Bob Osei", Initials: "BO"}

	now := time.Now()
	at := func(minsAgo int) time.Time { return now.Add(-time.Duration(minsAgo) * time.Minute) }

	seed := func(author model.Author, content string, minsAgo int) model.Message {
		msg := model.NewMessage(author, content)
		msg.CreatedAt = at(minsAgo)
		return msg
	}

	welcome := seed(ann, "Deploy window opens at 14:00. Ping @"+viewer.ID+" when staging is green.", 90)
	welcome.Mentions = []string{viewer.ID}
	welcome.Pinned = true
	welcome.OriginalPoster = true

	snippet := seed(bob, "Here is the rollback script:\n```bash\nkubectl rollout undo deploy/api\n```", 60)
	snippet.Reactions = []model.Reaction{
		{UserID: "ann", Emoji: "\U0001F44D"},
		{UserID: viewer.ID, Emoji: "\U0001F44D"},
	}

	reply := seed(ann, "Ran it on staging, looks clean.", 45)
	reply.ParentID = snippet.ID
	reply.ParentSnapshot = &model.ParentSnapshot{
		Content:    snippet.Content,
		AuthorName: bob.DisplayName,
	}
	reply.AcceptedAnswer = true

	cheer := seed(bob, "\U0001F389\U0001F389", 30)

	shot := seed(ann, "Attached the dashboard screenshot.", 10)
	shot.Attachments = []model.Attachment{{
		StorageID: "st-dash-1",
		Name:      "dashboard.png",
		Size:      482_133,
		MimeType:  "image/png",
	}}

	memFeed := feed.NewMemoryFeed()
	memFeed.Load([]model.Message{welcome, snippet, reply, cheer, shot})

	resolver := feed.NewMemoryResolver()
	resolver.Put("st-dash-1", "https://cdn.relay.example/st-dash-1")

	users := feed.NewMemoryUserCache()
	users.Put(viewer.ID, feed.UserDisplay{Name: viewer.DisplayName})
	users.Put(ann.ID, feed.UserDisplay{Name: ann.DisplayName})
	users.Put(bob.ID, feed.UserDisplay{Name: bob.DisplayName})

	return memFeed, feed.NewMemoryDispatcher(memFeed, viewer), resolver, users
}
