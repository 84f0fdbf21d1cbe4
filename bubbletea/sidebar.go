package bubbletea

import (
	"strings"

	"github.com/fwojciec/xanadium"
	"github.com/mattn/go-runewidth"
)

// SidebarWidth is the width of the history sidebar, border included.
const SidebarWidth = 30

// sidebar lists persisted sessions, newest first, with a cursor and a
// pending delete confirmation.
type sidebar struct {
	open       bool
	entries    xanadium.History
	cursor     int
	confirming bool
}

func (s sidebar) show(h xanadium.History) sidebar {
	s.open = true
	s.confirming = false
	return s.refresh(h)
}

// refresh replaces the entries and keeps the cursor in range.
func (s sidebar) refresh(h xanadium.History) sidebar {
	s.entries = h
	if s.cursor >= len(h) {
		s.cursor = len(h) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	return s
}

func (s sidebar) move(delta int) sidebar {
	if len(s.entries) == 0 {
		return s
	}
	s.cursor = (s.cursor + delta + len(s.entries)) % len(s.entries)
	return s
}

func (s sidebar) selected() (xanadium.Session, bool) {
	if s.cursor < 0 || s.cursor >= len(s.entries) {
		return xanadium.Session{}, false
	}
	return s.entries[s.cursor], true
}

// view renders the list at the given inner width and height. activeID
// marks the session currently shown.
func (s sidebar) view(width, height int, activeID int64, styles Styles) string {
	width = max(width, 8)
	var lines []string
	lines = append(lines, styles.Accent.Render("History"), "")
	if len(s.entries) == 0 {
		lines = append(lines, styles.Muted.Render("No saved chats."))
	}
	for i, e := range s.entries {
		marker := "  "
		if e.ID == activeID {
			marker = "• "
		}
		title := marker + runewidth.Truncate(e.Title, width-runewidth.StringWidth(marker), "…")
		title = runewidth.FillRight(title, width)
		if i == s.cursor {
			title = styles.Selected.Render(title)
		}
		lines = append(lines, title, styles.Muted.Render("  "+runewidth.Truncate(e.Timestamp, width-2, "…")))
	}

	footer := styles.Muted.Render("d delete, esc close")
	if s.confirming {
		if e, ok := s.selected(); ok {
			footer = styles.Error.Render(runewidth.Truncate("Delete \""+e.Title+"\"?", width-6, "…") + " y/n")
		}
	}

	// Keep the cursor visible when the list is taller than the pane.
	body := height - 1
	if body > 0 && len(lines) > body {
		row := 2 + s.cursor*2
		start := min(max(row+2-body, 0), len(lines)-body)
		lines = lines[start : start+body]
	}
	for len(lines) < body {
		lines = append(lines, "")
	}
	lines = append(lines, footer)
	return strings.Join(lines, "\n")
}
