package goldmark

import (
	"strings"

	"github.com/yuin/goldmark/ast"
	extast "github.com/yuin/goldmark/extension/ast"
)

// inline renders the inline children of n into a single styled string.
func (w *writer) inline(n ast.Node) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		w.span(c, &b)
	}
	return b.String()
}

func (w *writer) span(n ast.Node, b *strings.Builder) {
	switch n := n.(type) {
	case *ast.Text:
		b.Write(n.Segment.Value(w.source))
		switch {
		case n.HardLineBreak():
			b.WriteByte('\n')
		case n.SoftLineBreak():
			b.WriteByte(' ')
		}
	case *ast.String:
		b.Write(n.Value)
	case *ast.Emphasis:
		// ***x*** parses as nested emphasis, so levels above 2 never occur.
		if n.Level >= 2 {
			b.WriteString(w.styles.bold.Render(w.inline(n)))
		} else {
			b.WriteString(w.styles.italic.Render(w.inline(n)))
		}
	case *ast.CodeSpan:
		b.WriteString(w.styles.code.Render(w.inline(n)))
	case *extast.Strikethrough:
		b.WriteString(w.styles.strike.Render(w.inline(n)))
	case *extast.TaskCheckBox:
		if n.IsChecked {
			b.WriteString("[x] ")
		} else {
			b.WriteString("[ ] ")
		}
	case *ast.Link:
		label := w.inline(n)
		dest := string(n.Destination)
		b.WriteString(w.styles.link.Render(label))
		if dest != "" && dest != label {
			b.WriteString(" " + w.styles.muted.Render("("+dest+")"))
		}
	case *ast.AutoLink:
		b.WriteString(w.styles.link.Render(string(n.URL(w.source))))
	case *ast.Image:
		b.WriteString(w.styles.muted.Render("[image: "+w.inline(n)+"]"))
		b.WriteString(" " + w.styles.muted.Render("("+string(n.Destination)+")"))
	case *ast.RawHTML:
		for i := 0; i < n.Segments.Len(); i++ {
			seg := n.Segments.At(i)
			b.Write(seg.Value(w.source))
		}
	default:
		for c := n.FirstChild(); c != nil; c = c.NextSibling() {
			w.span(c, b)
		}
	}
}
