package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// config holds settings read from the environment. Flags override them.
type config struct {
	Endpoint string `env:"XANADIUM_ENDPOINT" envDefault:"http://localhost:8080"`
	Token    string `env:"XANADIUM_TOKEN"`
	DataDir  string `env:"XANADIUM_DATA_DIR"`
	Store    string `env:"XANADIUM_STORE" envDefault:"file"`
	LogLevel string `env:"XANADIUM_LOG_LEVEL" envDefault:"info"`
	LogFile  string `env:"XANADIUM_LOG_FILE"`

	// Backend.
	Addr         string `env:"XANADIUM_ADDR" envDefault:":8080"`
	Persona      string `env:"XANADIUM_PERSONA" envDefault:"persona.txt"`
	Provider     string `env:"XANADIUM_PROVIDER"`
	Model        string `env:"XANADIUM_MODEL"`
	GeminiKey    string `env:"GEMINI_API_KEY"`
	AnthropicKey string `env:"ANTHROPIC_API_KEY"`
}

// parseConfig reads config from the given environment. A missing data
// directory defaults to a xanadium folder under the user config dir.
func parseConfig(environ map[string]string) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return config{}, fmt.Errorf("parse config: %w", err)
	}
	if cfg.DataDir == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return config{}, fmt.Errorf("locate data dir: %w", err)
		}
		cfg.DataDir = filepath.Join(dir, "xanadium")
	}
	return cfg, nil
}

func environ() map[string]string {
	return env.ToMap(os.Environ())
}

// loadDotenv adds variables from path to the process environment without
// overriding ones already set. A missing file is not an error.
func loadDotenv(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}
