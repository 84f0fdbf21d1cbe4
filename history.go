package xanadium

// History is the ordered list of persisted sessions, newest first. It holds
// at most one Session per ID.
type History []Session

// Upsert replaces the session with the same ID in place, or prepends s when
// the ID is new. The receiver is not modified.
func (h History) Upsert(s Session) History {
	out := make(History, 0, len(h)+1)
	for i, existing := range h {
		if existing.ID == s.ID {
			out = append(out, h[:i]...)
			out = append(out, s)
			return append(out, h[i+1:]...)
		}
	}
	out = append(out, s)
	return append(out, h...)
}

// Remove returns the history without the session with the given ID.
func (h History) Remove(id int64) History {
	out := make(History, 0, len(h))
	for _, s := range h {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the session with the given ID.
func (h History) Find(id int64) (Session, bool) {
	for _, s := range h {
		if s.ID == id {
			return s, true
		}
	}
	return Session{}, false
}
