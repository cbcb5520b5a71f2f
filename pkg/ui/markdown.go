package ui

import (
	"strings"

	"github.com/charmbracelet/colorprofile"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps a glamour renderer and rebuilds it when the wrap
// width changes.
type MarkdownRenderer struct {
	width   int
	noColor bool
	tr      *glamour.TermRenderer
}

// NewMarkdownRenderer returns a renderer wrapping at width cells. Plain
// output is used when noColor is set or the terminal has no color.
func NewMarkdownRenderer(width int, noColor bool) *MarkdownRenderer {
	mr := &MarkdownRenderer{noColor: noColor || TermProfile <= colorprofile.ASCII}
	mr.SetWidth(width)
	return mr
}

// Width returns the wrap width.
func (mr *MarkdownRenderer) Width() int { return mr.width }

// SetWidth changes the wrap width. Widths below 20 are raised to 20.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width < 20 {
		width = 20
	}
	if mr.tr != nil && width == mr.width {
		return
	}
	mr.width = width

	style := glamour.WithAutoStyle()
	if mr.noColor {
		style = glamour.WithStandardStyle("notty")
	}
	tr, err := glamour.NewTermRenderer(style, glamour.WithWordWrap(width))
	if err != nil {
		mr.tr = nil
		return
	}
	mr.tr = tr
}

// Render renders md. When glamour is unavailable the input is returned as is.
func (mr *MarkdownRenderer) Render(md string) (string, error) {
	if mr == nil || mr.tr == nil {
		return md, nil
	}
	out, err := mr.tr.Render(md)
	if err != nil {
		return md, err
	}
	return compressBlankLines(strings.Trim(out, "\n")), nil
}

// RenderOrRaw renders md and falls back to the raw text on error.
func (mr *MarkdownRenderer) RenderOrRaw(md string) string {
	out, err := mr.Render(md)
	if err != nil {
		return md
	}
	return out
}
