package json

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fwojciec/xanadium"
)

var _ xanadium.Slot = (*FileSlot)(nil)

// FileSlot is a xanadium.Slot stored in a single file.
type FileSlot struct {
	path string
}

// NewFileSlot returns a slot backed by the file at path. The file is
// created on first write.
func NewFileSlot(path string) *FileSlot {
	return &FileSlot{path: path}
}

// Path returns the file location.
func (f *FileSlot) Path() string { return f.path }

// Read returns the file contents, or xanadium.ErrSlotEmpty if the file does
// not exist.
func (f *FileSlot) Read() ([]byte, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, xanadium.ErrSlotEmpty
	}
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return data, nil
}

// Write replaces the file contents atomically, creating parent directories
// as needed.
func (f *FileSlot) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create directories: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp) // best-effort cleanup
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
