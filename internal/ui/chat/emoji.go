// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat provides the chat timeline view for the relay TUI.
//
// This file implements emoji-only detection. A message consisting of one to
// three emoji grapheme clusters renders as a large glyph row and skips the
// mention and markdown pipeline entirely. Segmentation uses uniseg so that
// multi-codepoint emoji (skin tones, ZWJ families, variation selectors)
// count as single user-perceived characters.
package chat

import (
	"strings"
	"unicode"

	"github.com/rivo/uniseg"
)

// =============================================================================
// EMOJI-ONLY DETECTION
// =============================================================================

// maxEmojiOnlyClusters is the largest emoji-only message, in grapheme
// clusters, that still renders as large glyphs.
const maxEmojiOnlyClusters = 3

const (
	runeZWJ  = 0x200D // Zero-width joiner
	runeVS16 = 0xFE0F // Emoji variation selector
)

// emojiRanges covers the codepoint blocks rendered as emoji presentation.
var emojiRanges = &unicode.RangeTable{
	R16: []unicode.Range16{
		{Lo: 0x231A, Hi: 0x231B, Stride: 1}, // Watch, hourglass
		{Lo: 0x23E9, Hi: 0x23FA, Stride: 1}, // Media control symbols
		{Lo: 0x25AA, Hi: 0x25FE, Stride: 1}, // Geometric shapes subset
		{Lo: 0x2600, Hi: 0x27BF, Stride: 1}, // Misc symbols, dingbats
		{Lo: 0x2B00, Hi: 0x2BFF, Stride: 1}, // Arrows, stars
	},
	R32: []unicode.Range32{
		{Lo: 0x1F1E6, Hi: 0x1F1FF, Stride: 1}, // Regional indicators
		{Lo: 0x1F300, Hi: 0x1F5FF, Stride: 1}, // Misc symbols and pictographs
		{Lo: 0x1F600, Hi: 0x1F64F, Stride: 1}, // Emoticons
		{Lo: 0x1F680, Hi: 0x1F6FF, Stride: 1}, // Transport and map
		{Lo: 0x1F900, Hi: 0x1F9FF, Stride: 1}, // Supplemental symbols
		{Lo: 0x1FA70, Hi: 0x1FAFF, Stride: 1}, // Symbols extended-A
	},
}

// IsEmojiOnly reports whether content consists solely of 1-3 emoji grapheme
// clusters after stripping whitespace. Empty content is not emoji-only.
func IsEmojiOnly(content string) bool {
	stripped := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, content)
	if stripped == "" {
		return false
	}

	clusters := 0
	state := -1
	rest := stripped
	for len(rest) > 0 {
		var cluster string
		cluster, rest, _, state = uniseg.StepString(rest, state)
		clusters++
		if clusters > maxEmojiOnlyClusters {
			return false
		}
		if !isEmojiCluster(cluster) {
			return false
		}
	}
	return clusters >= 1
}

// isEmojiCluster reports whether one grapheme cluster matches the emoji
// grammar: a single emoji-presentation codepoint, emoji plus variation
// selector, emoji-modifier-base plus modifier, a regional-indicator pair,
// or a ZWJ-joined sequence of those.
func isEmojiCluster(cluster string) bool {
	runes := []rune(cluster)
	if len(runes) == 0 {
		return false
	}

	// Split on ZWJ; every element must independently be an emoji element.
	start := 0
	for i := 0; i <= len(runes); i++ {
		if i == len(runes) || runes[i] == runeZWJ {
			if !isEmojiElement(runes[start:i]) {
				return false
			}
			start = i + 1
		}
	}
	return true
}

// isEmojiElement checks one ZWJ-free element of a cluster.
func isEmojiElement(runes []rune) bool {
	switch len(runes) {
	case 1:
		return unicode.Is(emojiRanges, runes[0])
	case 2:
		if !unicode.Is(emojiRanges, runes[0]) {
			return false
		}
		if runes[1] == runeVS16 || isEmojiModifier(runes[1]) {
			return true
		}
		// Flag: a regional-indicator pair
		return isRegionalIndicator(runes[0]) && isRegionalIndicator(runes[1])
	default:
		return false
	}
}

// isEmojiModifier reports whether r is a skin-tone modifier.
func isEmojiModifier(r rune) bool {
	return r >= 0x1F3FB && r <= 0x1F3FF
}

// isRegionalIndicator reports whether r is a regional indicator symbol.
func isRegionalIndicator(r rune) bool {
	return r >= 0x1F1E6 && r <= 0x1F1FF
}
