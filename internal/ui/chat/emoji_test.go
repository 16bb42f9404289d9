// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import "testing"

// =============================================================================
// EMOJI-ONLY DETECTION TESTS
// =============================================================================

func TestIsEmojiOnly(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    bool
	}{
		{"single emoji", "\U0001F389", true},                                     // 🎉
		{"two emoji", "\U0001F389\U0001F60A", true},                              // 🎉😊
		{"three emoji", "\U0001F389\U0001F60A\U0001F680", true},                  // 🎉😊🚀
		{"four emoji", "\U0001F389\U0001F60A\U0001F680\U0001F525", false},        // over the cap
		{"emoji with spaces", " \U0001F389  \U0001F60A ", true},                  // whitespace ignored
		{"emoji with newline", "\U0001F389\n\U0001F60A", true},                   //
		{"skin tone modifier", "\U0001F44D\U0001F3FD", true},                     // 👍🏽
		{"variation selector", "❤️", true},                             // ❤️
		{"zwj family", "\U0001F468‍\U0001F469‍\U0001F467", true},       // 👨‍👩‍👧
		{"flag pair", "\U0001F1FA\U0001F1F8", true},                              // 🇺🇸
		{"plain text", "hello", false},                                           //
		{"emoji plus text", "\U0001F389 party", false},                           //
		{"text plus emoji", "gg \U0001F3C6", false},                              //
		{"empty", "", false},                                                     //
		{"only whitespace", "   \n ", false},                                     //
		{"digit", "7", false},                                                    // ascii never counts
		{"punctuation", "!!", false},                                             //
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsEmojiOnly(tt.content)
			if got != tt.want {
				t.Errorf("IsEmojiOnly(%q) = %v, want %v", tt.content, got, tt.want)
			}
		})
	}
}
