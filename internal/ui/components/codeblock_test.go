// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
)

// =============================================================================
// FENCED BLOCK SPLITTING TESTS
// =============================================================================

func TestSplitFencedBlocks(t *testing.T) {
	body := "look at this:\n```go\nfmt.Println(1)\n```\nneat, right?"

	sections := SplitFencedBlocks(body)
	if len(sections) != 3 {
		t.Fatalf("got %d sections, want 3", len(sections))
	}
	if sections[0].Code || sections[0].Text != "look at this:" {
		t.Errorf("leading prose = %+v", sections[0])
	}
	if !sections[1].Code || sections[1].Language != "go" || sections[1].Text != "fmt.Println(1)" {
		t.Errorf("code section = %+v", sections[1])
	}
	if sections[2].Code || sections[2].Text != "neat, right?" {
		t.Errorf("trailing prose = %+v", sections[2])
	}
}

func TestSplitFencedBlocksUnclosedFence(t *testing.T) {
	sections := SplitFencedBlocks("before\n```bash\necho hi")
	if len(sections) != 2 {
		t.Fatalf("got %d sections, want 2", len(sections))
	}
	if !sections[1].Code || sections[1].Language != "bash" || sections[1].Text != "echo hi" {
		t.Errorf("unclosed fence must run to the end, got %+v", sections[1])
	}
}

func TestSplitFencedBlocksNoFence(t *testing.T) {
	sections := SplitFencedBlocks("plain text only")
	if len(sections) != 1 || sections[0].Code {
		t.Fatalf("got %+v, want one prose section", sections)
	}
}

func TestSplitFencedBlocksBareFence(t *testing.T) {
	sections := SplitFencedBlocks("```\nx := 1\n```")
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	if !sections[0].Code || sections[0].Language != "" {
		t.Errorf("bare fence = %+v, want code with no language", sections[0])
	}
}

// =============================================================================
// CODE BLOCK RENDERING TESTS
// =============================================================================

func TestCodeBlockRender(t *testing.T) {
	block := NewCodeBlock("go", "fmt.Println(\"hi\")\n")

	out := block.Render()
	if !strings.Contains(out, "go") {
		t.Error("language badge missing")
	}
	if !strings.Contains(out, "Println") {
		t.Error("code text missing from rendered block")
	}
}

func TestCodeBlockRenderUnknownLanguage(t *testing.T) {
	block := NewCodeBlock("nosuchlang", "just some words")

	// An unknown language must fall back to plain output, never panic.
	out := block.Render()
	if !strings.Contains(out, "just some words") {
		t.Error("fallback render must keep the code text")
	}
}

func TestHighlightCodeKeepsContent(t *testing.T) {
	out := highlightCode("SELECT * FROM messages", "sql")
	if !strings.Contains(out, "SELECT") {
		t.Error("highlighted output must keep the source text")
	}
}
