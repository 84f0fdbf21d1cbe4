package main

import (
	"fmt"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/fwojciec/xanadium"
	xjson "github.com/fwojciec/xanadium/json"
	"github.com/fwojciec/xanadium/pebble"
)

// Store backends.
const (
	storeFile   = "file"
	storePebble = "pebble"
)

// openStore opens the session store under dataDir. The returned func
// releases the backend.
func openStore(kind, dataDir string, logger *log.Logger) (xanadium.SessionStore, func() error, error) {
	switch kind {
	case storeFile, "":
		slot := xjson.NewFileSlot(filepath.Join(dataDir, "history.json"))
		logger.Debug("history store", "kind", storeFile, "path", slot.Path())
		return xjson.NewStore(slot, xjson.WithLogger(logger)), func() error { return nil }, nil
	case storePebble:
		dir := filepath.Join(dataDir, "pebble")
		slot, err := pebble.Open(dir)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("history store", "kind", storePebble, "path", dir)
		return xjson.NewStore(slot, xjson.WithLogger(logger)), slot.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store %q: must be %q or %q", kind, storeFile, storePebble)
	}
}
