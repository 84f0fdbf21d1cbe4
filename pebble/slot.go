// Package pebble stores the chat history document under a single key of a
// Pebble database.
package pebble

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble/v2"
	"github.com/fwojciec/xanadium"
)

// DefaultKey is the key holding the history document.
const DefaultKey = "xanadium_chat_history"

var _ xanadium.Slot = (*Slot)(nil)

// Slot is a xanadium.Slot backed by one key in a Pebble database.
type Slot struct {
	db  *pebble.DB
	key []byte
}

// Option configures a Slot.
type Option func(*Slot)

// WithKey overrides DefaultKey.
func WithKey(key string) Option {
	return func(s *Slot) { s.key = []byte(key) }
}

// Open opens (or creates) the Pebble database in dir.
func Open(dir string, opts ...Option) (*Slot, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create directories: %w", err)
	}
	db, err := pebble.Open(filepath.Clean(dir), &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open pebble: %w", err)
	}
	s := &Slot{db: db, key: []byte(DefaultKey)}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Read returns a copy of the stored document, or xanadium.ErrSlotEmpty.
func (s *Slot) Read() ([]byte, error) {
	value, closer, err := s.db.Get(s.key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, xanadium.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("pebble get: %w", err)
	}
	defer closer.Close()
	// The value is only valid until closer is closed.
	return append([]byte(nil), value...), nil
}

// Write replaces the stored document and syncs it to disk.
func (s *Slot) Write(data []byte) error {
	if err := s.db.Set(s.key, data, pebble.Sync); err != nil {
		return fmt.Errorf("pebble set: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Slot) Close() error {
	return s.db.Close()
}
