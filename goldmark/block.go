package goldmark

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"
)

const quoteBar = "│ "

type writer struct {
	source []byte
	styles styles
	out    strings.Builder
}

// sub returns an empty writer sharing source and styles, used to render
// nested blocks before they are indented.
func (w *writer) sub() *writer {
	return &writer{source: w.source, styles: w.styles}
}

func (w *writer) blocks(parent ast.Node, width int) {
	for n := parent.FirstChild(); n != nil; n = n.NextSibling() {
		w.block(n, width)
		if n.NextSibling() != nil {
			w.out.WriteString("\n")
		}
	}
}

func (w *writer) block(n ast.Node, width int) {
	switch n := n.(type) {
	case *ast.Paragraph, *ast.TextBlock:
		w.wrapped(w.inline(n), width)
	case *ast.Heading:
		style := w.styles.heading
		if n.Level == 1 {
			style = w.styles.title
		}
		w.wrapped(style.Render(w.inline(n)), width)
	case *ast.FencedCodeBlock:
		if lang := string(n.Language(w.source)); lang != "" {
			w.out.WriteString(w.styles.muted.Render(lang) + "\n")
		}
		w.code(n.Lines())
	case *ast.CodeBlock:
		w.code(n.Lines())
	case *ast.Blockquote:
		inner := w.sub()
		inner.blocks(n, max(width-len(quoteBar), 10))
		bar := w.styles.muted.Render(quoteBar)
		for _, line := range strings.Split(strings.TrimRight(inner.out.String(), "\n"), "\n") {
			w.out.WriteString(bar + line + "\n")
		}
	case *ast.List:
		w.list(n, width, "")
	case *ast.ThematicBreak:
		w.out.WriteString(w.styles.muted.Render(strings.Repeat("─", min(width, 40))) + "\n")
	case *ast.HTMLBlock:
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			w.out.Write(seg.Value(w.source))
		}
	case *extast.Table:
		w.table(n)
	default:
		w.blocks(n, width)
	}
}

func (w *writer) wrapped(s string, width int) {
	w.out.WriteString(lipgloss.NewStyle().Width(width).Render(s))
	w.out.WriteString("\n")
}

// code writes verbatim lines on the code background, padded to the longest
// line so the block reads as a rectangle.
func (w *writer) code(lines *text.Segments) {
	rows := make([]string, lines.Len())
	longest := 0
	for i := range rows {
		seg := lines.At(i)
		rows[i] = strings.ReplaceAll(strings.TrimRight(string(seg.Value(w.source)), "\n"), "\t", "    ")
		longest = max(longest, lipgloss.Width(rows[i]))
	}
	for _, row := range rows {
		pad := strings.Repeat(" ", longest-lipgloss.Width(row))
		w.out.WriteString(w.styles.block.Render(" "+row+pad+" ") + "\n")
	}
}

// list writes items with their markers and indents continuation lines
// under the item text. Nested lists are indented by the parent marker.
func (w *writer) list(n *ast.List, width int, indent string) {
	num := n.Start
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		item, ok := c.(*ast.ListItem)
		if !ok {
			continue
		}
		marker := "• "
		if n.IsOrdered() {
			marker = fmt.Sprintf("%d. ", num)
			num++
		}
		prefix := indent + marker
		hang := strings.Repeat(" ", lipgloss.Width(prefix))
		itemWidth := max(width-lipgloss.Width(prefix), 10)

		first := true
		for ic := item.FirstChild(); ic != nil; ic = ic.NextSibling() {
			if nested, ok := ic.(*ast.List); ok {
				w.list(nested, width, hang)
				continue
			}
			inner := w.sub()
			inner.block(ic, itemWidth)
			for _, line := range strings.Split(strings.TrimRight(inner.out.String(), "\n"), "\n") {
				if first {
					w.out.WriteString(prefix + line + "\n")
					first = false
					continue
				}
				w.out.WriteString(hang + line + "\n")
			}
		}
		if first {
			w.out.WriteString(prefix + "\n")
		}
	}
}
