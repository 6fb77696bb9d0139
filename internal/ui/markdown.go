package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

// MarkdownRenderMargin is the left margin of rendered markdown.
const MarkdownRenderMargin = 2

// RenderMarkdown renders a markdown document (a migration record body) for
// the terminal, wrapped at width. The result ends in exactly one newline.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(recordStyle()),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	rendered, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(rendered, "\n") + "\n", nil
}

// recordStyle is a plain style for migration records: headings in the
// accent color without "#" markers, bullets for lists, code left as text.
func recordStyle() ansi.StyleConfig {
	muted := ptr("8")
	var accent *string
	if color, ok := AccentColor(); ok {
		accent = ptr(color)
	}
	heading := func(prefix string) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: prefix}}
	}

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
			Margin:         ptr(uint(MarkdownRenderMargin)),
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{BlockSuffix: "\n", Color: accent, Bold: ptr(true)},
		},
		H1: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Underline: ptr(true)},
		},
		H2:        heading(""),
		H3:        heading("› "),
		H4:        heading("› "),
		H5:        heading("› "),
		H6:        heading("› "),
		Paragraph: ansi.StyleBlock{},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted},
			Indent:         ptr(uint(1)),
			IndentToken:    ptr("│ "),
		},
		List: ansi.StyleList{LevelIndent: 2},
		Item: ansi.StylePrimitive{BlockPrefix: "• "},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Task:   ansi.StyleTask{Ticked: "[x] ", Unticked: "[ ] "},
		Strong: ansi.StylePrimitive{Bold: ptr(true)},
		Emph:   ansi.StylePrimitive{Italic: ptr(true)},
		Strikethrough: ansi.StylePrimitive{
			CrossedOut: ptr(true),
		},
		Code: ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: muted}},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{Margin: ptr(uint(2))},
		},
		HorizontalRule: ansi.StylePrimitive{Color: muted, Format: "\n────────\n"},
		Link:           ansi.StylePrimitive{Color: muted, Underline: ptr(true)},
		LinkText:       ansi.StylePrimitive{Bold: ptr(true)},
		Table: ansi.StyleTable{
			CenterSeparator: ptr("┼"),
			ColumnSeparator: ptr("│"),
			RowSeparator:    ptr("─"),
		},
	}
}

func ptr[T any](v T) *T { return &v }
