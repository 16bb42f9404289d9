// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package model contains the data structures for the relay chat surface.

The central type is Message: a single row in the channel timeline, carrying
its author, attachments, reactions, reply linkage, and the flags that drive
rendering (pinned, pending, accepted answer). Messages are delivered by an
external feed in CreatedAt-ascending order; everything derived from that
order (visual grouping, date separators, reaction groups) is computed per
render pass and never stored here.

# Key Types

  - Message: one timeline row, identified by a stable unique ID
  - Author: denormalized display data for the message sender
  - Attachment: an uploaded file reference whose URL resolves asynchronously
  - Reaction: one (user, emoji) row as delivered by the feed
  - GroupedReaction: the derived per-emoji display group, never persisted
*/
package model
