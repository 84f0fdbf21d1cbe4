package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/fwojciec/xanadium"
)

const defaultPersonaPath = "persona.txt"

// loadPersona reads the persona prompt. A missing default file falls back
// to the built-in persona; any other failure is an error.
func loadPersona(path string) (string, error) {
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if p := strings.TrimSpace(string(data)); p != "" {
			return p, nil
		}
		return xanadium.DefaultPersona, nil
	case errors.Is(err, os.ErrNotExist) && path == defaultPersonaPath:
		return xanadium.DefaultPersona, nil
	default:
		return "", fmt.Errorf("read persona: %w", err)
	}
}
