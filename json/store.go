package json

import (
	"errors"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/xanadium"
)

// Interface compliance check.
var _ xanadium.SessionStore = (*Store)(nil)

// Store implements xanadium.SessionStore on top of a xanadium.Slot. Every
// Save and Delete rewrites the whole document.
type Store struct {
	slot   xanadium.Slot
	logger *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report unreadable documents.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// NewStore creates a Store backed by slot.
func NewStore(slot xanadium.Slot, opts ...Option) *Store {
	s := &Store{slot: slot, logger: log.New(io.Discard)}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Load returns the persisted history. A missing or unreadable document
// yields an empty history.
func (s *Store) Load() xanadium.History {
	data, err := s.slot.Read()
	if errors.Is(err, xanadium.ErrSlotEmpty) {
		return xanadium.History{}
	}
	if err != nil {
		s.logger.Warn("read history", "err", err)
		return xanadium.History{}
	}
	h, err := UnmarshalHistory(data)
	if err != nil {
		s.logger.Warn("discarding unreadable history", "err", err)
		return xanadium.History{}
	}
	for _, session := range h {
		for _, m := range session.Messages {
			if !m.Role.Known() {
				s.logger.Warn("keeping message with unknown role", "session", session.ID, "role", m.Role)
			}
		}
	}
	return h
}

// Save inserts or replaces session by id and writes the history back.
func (s *Store) Save(session xanadium.Session) error {
	return s.write(s.Load().Upsert(session))
}

// Delete removes the session with id, writes the remainder back and
// returns it.
func (s *Store) Delete(id int64) (xanadium.History, error) {
	h := s.Load().Remove(id)
	if err := s.write(h); err != nil {
		return nil, err
	}
	return h, nil
}

func (s *Store) write(h xanadium.History) error {
	data, err := MarshalHistory(h)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := s.slot.Write(data); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	s.logger.Debug("history written", "sessions", len(h), "bytes", len(data))
	return nil
}
