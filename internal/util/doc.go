// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package util provides small shared helpers for the relay TUI.

The string helpers are rune- and cell-width-aware: terminal rendering breaks
if a truncation lands mid-rune or miscounts a double-width CJK character, so
everything here goes through go-runewidth rather than len().
*/
package util
