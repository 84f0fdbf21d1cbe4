// Package goldmark renders assistant replies, which arrive as GitHub
// flavored markdown, to ANSI-styled terminal text. Parsing is done by
// goldmark with the GFM extension; styling by lipgloss.
package goldmark

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fwojciec/xanadium"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// DefaultWidth is used when Render is called with a non-positive width.
const DefaultWidth = 80

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

// Render parses markdown source and returns styled terminal output.
// Paragraphs, list items and quotes are word-wrapped to width. Code blocks
// and tables keep their layout.
func Render(source string, width int, theme xanadium.Theme) string {
	if strings.TrimSpace(source) == "" {
		return ""
	}
	if width <= 0 {
		width = DefaultWidth
	}
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	w := &writer{source: src, styles: newStyles(theme)}
	w.blocks(doc, width)
	return strings.TrimRight(w.out.String(), "\n")
}

type styles struct {
	bold    lipgloss.Style
	italic  lipgloss.Style
	strike  lipgloss.Style
	code    lipgloss.Style
	block   lipgloss.Style
	heading lipgloss.Style
	title   lipgloss.Style
	link    lipgloss.Style
	muted   lipgloss.Style
}

func newStyles(theme xanadium.Theme) styles {
	accent := color(theme.Accent)
	return styles{
		bold:    lipgloss.NewStyle().Bold(true),
		italic:  lipgloss.NewStyle().Italic(true),
		strike:  lipgloss.NewStyle().Strikethrough(true),
		code:    lipgloss.NewStyle().Foreground(accent),
		block:   lipgloss.NewStyle().Background(color(theme.CodeBg)),
		heading: lipgloss.NewStyle().Foreground(accent).Bold(true),
		title:   lipgloss.NewStyle().Foreground(accent).Bold(true).Underline(true),
		link:    lipgloss.NewStyle().Underline(true),
		muted:   lipgloss.NewStyle().Foreground(color(theme.Muted)).Faint(true),
	}
}

func color(index int) lipgloss.TerminalColor {
	if index < 0 {
		return lipgloss.NoColor{}
	}
	return lipgloss.Color(strconv.Itoa(index))
}
