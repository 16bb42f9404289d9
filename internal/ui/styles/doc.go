// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the relay TUI.

All colors use Lip Gloss AdaptiveColor for automatic light/dark detection.
The Theme struct precomputes every style the message renderer touches, so a
render pass composes prebuilt styles instead of rebuilding them per row.
*/
package styles
