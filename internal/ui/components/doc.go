// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package components provides reusable UI components for the relay TUI.

This package contains styled components built on top of the Bubble Tea and
Lip Gloss libraries, consistent with the relay design language.

# Core Components

MessageRenderer (message.go) - Renders one timeline message row in either the
compact or the bubble layout, including reply and forward indicators, badges,
attachments, and reaction chips.

TimelineViewport (viewport.go) - Scrollable timeline area. Tracks per-message
line offsets so the view can jump to a referenced message, and exposes the
distance from the bottom edge for anchor decisions.

CodeBlock (codeblock.go) - Syntax-highlighted code blocks using Chroma. The
highlighter backend is initialized lazily on first use.

Composer (input.go) - The message input area with reply and edit banners.

# Theme Integration

All components accept a *styles.Theme for consistent styling:

	theme := styles.NewTheme()
	renderer := components.NewMessageRenderer(theme, "compact")
	row := renderer.Render(view)
*/
package components
