// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for relay.
//
// This file implements hot reload of the configuration file. The watcher
// debounces filesystem events (editors often write a file several times per
// save) and delivers freshly-loaded configs on a channel the UI drains.
package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// =============================================================================
// CONFIG WATCHER
// =============================================================================

// Watcher watches the configuration file and reloads it on change.
type Watcher struct {
	path     string
	debounce time.Duration

	watcher *fsnotify.Watcher
	reloads chan *Config

	ctx    context.Context
	cancel context.CancelFunc
}

// NewWatcher creates a watcher for the given config path. Reloaded configs
// are delivered on Reloads; parse or validation failures keep the previous
// config and are silently skipped (a half-saved file is normal).
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if debounce <= 0 {
		debounce = 250 * time.Millisecond
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		path:     path,
		debounce: debounce,
		watcher:  fsw,
		reloads:  make(chan *Config, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Reloads returns the channel of reloaded configurations.
func (w *Watcher) Reloads() <-chan *Config {
	return w.reloads
}

// Watch starts watching. The parent directory is watched rather than the
// file itself so rename-and-replace saves are still observed.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	go w.processEvents()
	return nil
}

// Close stops watching and releases resources.
func (w *Watcher) Close() error {
	w.cancel()
	return w.watcher.Close()
}

// processEvents debounces change events and pushes reloaded configs.
func (w *Watcher) processEvents() {
	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-w.ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are non-fatal; the stale config stays active.

		case <-fire:
			cfg, err := LoadFrom(w.path)
			if err != nil {
				continue
			}
			// Replace any undrained reload with the newest one.
			select {
			case w.reloads <- cfg:
			default:
				select {
				case <-w.reloads:
				default:
				}
				w.reloads <- cfg
			}
		}
	}
}
