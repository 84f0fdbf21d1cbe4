package mock

import (
	"sync"

	"github.com/fwojciec/xanadium"
)

var (
	_ xanadium.Slot = (*Slot)(nil)
	_ xanadium.Slot = (*MemSlot)(nil)
)

// Slot is a test double for xanadium.Slot.
type Slot struct {
	ReadFn  func() ([]byte, error)
	WriteFn func(data []byte) error
}

// Read delegates to ReadFn.
func (s *Slot) Read() ([]byte, error) {
	return s.ReadFn()
}

// Write delegates to WriteFn.
func (s *Slot) Write(data []byte) error {
	return s.WriteFn(data)
}

// MemSlot is an in-memory xanadium.Slot. The zero value is empty. Writes
// counts successful writes.
type MemSlot struct {
	mu     sync.Mutex
	data   []byte
	set    bool
	Writes int
}

// NewMemSlot returns a MemSlot pre-filled with data.
func NewMemSlot(data []byte) *MemSlot {
	return &MemSlot{data: append([]byte(nil), data...), set: true}
}

// Read returns a copy of the stored document or xanadium.ErrSlotEmpty.
func (s *MemSlot) Read() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.set {
		return nil, xanadium.ErrSlotEmpty
	}
	return append([]byte(nil), s.data...), nil
}

// Write replaces the stored document.
func (s *MemSlot) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = append([]byte(nil), data...)
	s.set = true
	s.Writes++
	return nil
}
