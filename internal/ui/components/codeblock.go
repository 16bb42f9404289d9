// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the relay TUI.
package components

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	chromaStyles "github.com/alecthomas/chroma/v2/styles"
	"github.com/charmbracelet/lipgloss"

	"github.com/morganforge/relay-tui/internal/ui/styles"
)

// =============================================================================
// CODE BLOCK RENDERER
// =============================================================================

// CodeBlock renders a fenced code block with syntax highlighting.
type CodeBlock struct {
	Language string
	Code     string
	MaxWidth int
}

// NewCodeBlock creates a new code block.
func NewCodeBlock(language, code string) CodeBlock {
	return CodeBlock{
		Language: language,
		Code:     code,
		MaxWidth: 80,
	}
}

// SetMaxWidth sets the maximum width for the code block.
func (c *CodeBlock) SetMaxWidth(width int) {
	c.MaxWidth = width
}

// Render renders the code block with a language badge and highlighting.
func (c CodeBlock) Render() string {
	code := strings.TrimRight(c.Code, "\n")

	language := c.Language
	if language == "" {
		language = detectLanguage(code)
	}

	highlighted := highlightCode(code, language)

	blockStyle := lipgloss.NewStyle().
		Background(styles.Surface).
		Padding(0, 1).
		MaxWidth(c.MaxWidth)

	if c.Language == "" {
		return blockStyle.Render(highlighted)
	}

	badge := lipgloss.NewStyle().
		Foreground(styles.TextMuted).
		Italic(true).
		Render(c.Language)
	return badge + "\n" + blockStyle.Render(highlighted)
}

// =============================================================================
// SYNTAX HIGHLIGHTING (Chroma-based)
// =============================================================================

// The chroma style and formatter are resolved once, on the first code block
// rendered. Most sessions never hit a code block, so the tables stay unloaded.
var (
	highlighterOnce  sync.Once
	highlighterStyle *chroma.Style
	highlighterFmt   chroma.Formatter
)

func initHighlighter() {
	highlighterStyle = chromaStyles.Get("monokai")
	if highlighterStyle == nil {
		highlighterStyle = chromaStyles.Fallback
	}
	highlighterFmt = formatters.Get("terminal256")
	if highlighterFmt == nil {
		highlighterFmt = formatters.Fallback
	}
}

// highlightCode applies syntax highlighting using the chroma library,
// falling back to the plain text on any failure.
func highlightCode(code, language string) string {
	highlighterOnce.Do(initHighlighter)

	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	iterator, err := lexer.Tokenise(nil, code)
	if err != nil {
		return code
	}

	var buf strings.Builder
	if err := highlighterFmt.Format(&buf, highlighterStyle, iterator); err != nil {
		return code
	}
	return buf.String()
}

// detectLanguage attempts to detect the language of the given code.
func detectLanguage(code string) string {
	lexer := lexers.Analyse(code)
	if lexer != nil {
		return lexer.Config().Name
	}
	return ""
}

// =============================================================================
// FENCED BLOCK SPLITTING
// =============================================================================

// FencedSection is one section of a message body split on code fences.
type FencedSection struct {
	Text     string
	Code     bool
	Language string
}

// SplitFencedBlocks separates a message body into prose and fenced code
// sections. An unclosed fence runs to the end of the body.
func SplitFencedBlocks(body string) []FencedSection {
	var sections []FencedSection
	var prose []string
	var code []string
	var language string
	inCode := false

	flushProse := func() {
		if len(prose) > 0 {
			sections = append(sections, FencedSection{Text: strings.Join(prose, "\n")})
			prose = nil
		}
	}

	for _, line := range strings.Split(body, "\n") {
		switch {
		case strings.HasPrefix(line, "```") && !inCode:
			flushProse()
			language = strings.TrimSpace(strings.TrimPrefix(line, "```"))
			inCode = true
		case strings.HasPrefix(line, "```") && inCode:
			sections = append(sections, FencedSection{
				Text:     strings.Join(code, "\n"),
				Code:     true,
				Language: language,
			})
			code = nil
			language = ""
			inCode = false
		case inCode:
			code = append(code, line)
		default:
			prose = append(prose, line)
		}
	}

	if inCode {
		sections = append(sections, FencedSection{
			Text:     strings.Join(code, "\n"),
			Code:     true,
			Language: language,
		})
	} else {
		flushProse()
	}
	return sections
}
