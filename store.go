package xanadium

// Slot is a single persistent key holding one document. Read returns
// ErrSlotEmpty when nothing has been written yet. Writes replace the whole
// document.
type Slot interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

// SessionStore persists the History. It is the only owner of the persisted
// list; callers go through Load, Save and Delete.
//
// Load never fails: a missing or unreadable document is an empty History.
// Save inserts or replaces s by ID and rewrites the whole document. There
// is no merge with concurrent writers; the last write wins.
type SessionStore interface {
	Load() History
	Save(s Session) error
	Delete(id int64) (History, error)
}
