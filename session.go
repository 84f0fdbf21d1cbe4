package xanadium

import (
	"strings"
	"time"

	"github.com/rivo/uniseg"
)

// Title derivation settings.
const (
	DefaultTitle  = "New conversation"
	TitleLimit    = 30
	TitleEllipsis = "..."
)

// TimestampLayout is the human readable layout of Session.Timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// Session is one persisted conversation. ID is the creation time in Unix
// milliseconds and is the session's identity; Title and Timestamp are
// recomputed every time the session is persisted.
type Session struct {
	ID        int64
	Title     string
	Timestamp string
	Messages  []Message
}

// NewSession snapshots messages into a Session with a derived title and a
// timestamp taken from now.
func NewSession(id int64, messages []Message, now time.Time) Session {
	return Session{
		ID:        id,
		Title:     DeriveTitle(messages),
		Timestamp: FormatTimestamp(now),
		Messages:  append([]Message(nil), messages...),
	}
}

// DeriveTitle returns the first user message text cut to TitleLimit
// characters and followed by TitleEllipsis. Characters are counted as
// grapheme clusters. Without a user message, or when its text is blank,
// DefaultTitle is returned.
func DeriveTitle(messages []Message) string {
	for _, m := range messages {
		if m.Role != RoleUser {
			continue
		}
		text := strings.TrimSpace(m.Text)
		if text == "" {
			return DefaultTitle
		}
		return truncateGraphemes(text, TitleLimit) + TitleEllipsis
	}
	return DefaultTitle
}

func truncateGraphemes(s string, limit int) string {
	g := uniseg.NewGraphemes(s)
	n := 0
	for g.Next() {
		if n == limit {
			start, _ := g.Positions()
			return s[:start]
		}
		n++
	}
	return s
}

// FormatTimestamp renders t in local time using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}
