package goldmark

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	extast "github.com/yuin/goldmark/extension/ast"
)

const (
	cellSep  = " │ "
	crossSep = "─┼─"
)

// table writes a GFM table with columns padded to their widest cell. The
// header row is bold and underlined by a rule.
func (w *writer) table(t *extast.Table) {
	cols := len(t.Alignments)
	var rows [][]string
	for r := t.FirstChild(); r != nil; r = r.NextSibling() {
		cells := make([]string, cols)
		i := 0
		for c := r.FirstChild(); c != nil && i < cols; c = c.NextSibling() {
			cells[i] = w.inline(c)
			i++
		}
		if _, ok := r.(*extast.TableHeader); ok {
			for i := range cells {
				cells[i] = w.styles.bold.Render(cells[i])
			}
		}
		rows = append(rows, cells)
	}

	widths := make([]int, cols)
	for _, cells := range rows {
		for i, c := range cells {
			widths[i] = max(widths[i], lipgloss.Width(c))
		}
	}

	for ri, cells := range rows {
		padded := make([]string, cols)
		for i, c := range cells {
			padded[i] = align(c, widths[i], t.Alignments[i])
		}
		w.out.WriteString(strings.TrimRight(strings.Join(padded, cellSep), " ") + "\n")
		if ri == 0 {
			rules := make([]string, cols)
			for i, n := range widths {
				rules[i] = strings.Repeat("─", n)
			}
			w.out.WriteString(w.styles.muted.Render(strings.Join(rules, crossSep)) + "\n")
		}
	}
}

func align(s string, width int, a extast.Alignment) string {
	gap := width - lipgloss.Width(s)
	if gap <= 0 {
		return s
	}
	switch a {
	case extast.AlignRight:
		return strings.Repeat(" ", gap) + s
	case extast.AlignCenter:
		left := gap / 2
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
	default:
		return s + strings.Repeat(" ", gap)
	}
}
