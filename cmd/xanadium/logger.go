package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// newLogger builds the process logger. With a log file set, output goes
// there; otherwise to fallback.
func newLogger(level, file string, fallback io.Writer) (*log.Logger, io.Closer, error) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		return nil, nil, fmt.Errorf("log level: %w", err)
	}
	var (
		out    = fallback
		closer io.Closer
	)
	if file != "" {
		f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		out, closer = f, f
	}
	logger := log.NewWithOptions(out, log.Options{
		Level:           lvl,
		ReportTimestamp: file != "",
		Prefix:          "xanadium",
	})
	return logger, closer, nil
}
