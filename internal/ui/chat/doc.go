// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package chat provides the chat timeline view for the relay TUI.

The package implements the message rendering and synchronization engine: it
reconciles a live, externally-pushed message feed with strict per-row
rendering cost and precise visual rules, inside a fixed-height scrolling
viewport.

# Key Components

## Grouping (grouping.go)

Pure functions deciding how consecutive messages merge into visual groups
and where date separators fall. Grouping state is derived per render pass
from each (current, previous) pair and never stored.

## Content Pipeline (content.go, emoji.go)

Selects each message's render mode (emoji-only, search-highlighted, or
markdown), substitutes @id mention tokens with display names, and strips
raw HTML before anything reaches the terminal.

## Reaction Aggregation (reactions.go)

Folds raw (user, emoji) reaction rows into per-emoji display groups in
first-seen order.

## Hover Coordination (hover.go)

A per-view store tracking the single focused message row, with surgical
subscriber notification: a focus move touches O(1) listeners regardless of
list length.

## Callback Registry (callbacks.go)

Identity-stable action handles backed by mutable latest-handler storage, so
memoized rows can hold action references that never change identity.

## Memoization (memo.go)

Per-row snapshots compared field-by-field to localize re-render cost to the
rows whose data actually changed.

## Scroll Control (scroll.go)

The anchoring state machine: initial positioning after layout settles,
bottom-anchoring with a debounced content-growth observer, manual scroll
detection, and the independent scroll-to-message operation.

## Hybrid Search (search.go)

Local substring filtering with a remote fallback, merged and deduplicated
by message id.

## Bubble Tea Glue (model.go, update.go, view.go, keys.go)

The Model composes all of the above into the interactive timeline view.
*/
package chat
