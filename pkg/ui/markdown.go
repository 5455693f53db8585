package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps a glamour renderer and falls back to plain text
// when rendering fails, so a malformed artifact never blanks the pane.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
}

// NewMarkdownRenderer creates a renderer wrapping at width. style is a
// glamour style name ("dark", "light", "dracula", ...); empty selects the
// terminal-adaptive auto style.
func NewMarkdownRenderer(width int, style string) *MarkdownRenderer {
	if width < 20 {
		width = 20
	}

	opts := []glamour.TermRendererOption{
		glamour.WithWordWrap(width),
	}
	if style != "" {
		opts = append(opts, glamour.WithStylePath(style))
	} else {
		opts = append(opts, glamour.WithAutoStyle())
	}

	// On failure renderer stays nil and Render falls back to raw text.
	renderer, _ := glamour.NewTermRenderer(opts...)

	return &MarkdownRenderer{renderer: renderer, width: width}
}

// Width returns the wrap width the renderer was built with.
func (r *MarkdownRenderer) Width() int {
	return r.width
}

// Render renders markdown to styled terminal output.
func (r *MarkdownRenderer) Render(markdown string) string {
	if r.renderer == nil {
		return markdown
	}
	out, err := r.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}
