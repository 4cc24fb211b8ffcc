// Package conf builds the effective zmodhost configuration from
// defaults, an optional TOML file, and ZMODHOST_* environment
// overrides, in that order.
package conf

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"github.com/pelletier/go-toml/v2"
)

// Config controls a zmodhost run.
type Config struct {
	// Module selects the bundled module to host.
	Module string `toml:"module" env:"ZMODHOST_MODULE"`

	// Script is a Lua session to run instead of the interactive prompt.
	Script string `toml:"script" env:"ZMODHOST_SCRIPT"`

	// Watch re-runs the script whenever it changes.
	Watch bool `toml:"watch" env:"ZMODHOST_WATCH"`

	// LogEcho mirrors captured module diagnostics to stderr.
	LogEcho bool `toml:"log_echo" env:"ZMODHOST_LOG_ECHO"`

	// DataDir is where stateful modules keep their files.
	DataDir string `toml:"data_dir" env:"ZMODHOST_DATA_DIR"`

	// DebounceMS is the watch-mode quiet period in milliseconds.
	DebounceMS int `toml:"debounce_ms" env:"ZMODHOST_DEBOUNCE_MS"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Module:     "greet",
		LogEcho:    true,
		DataDir:    defaultDataDir(),
		DebounceMS: 250,
	}
}

// Load builds the effective configuration. A missing config file is not
// an error; a malformed one is.
func Load(path string) (Config, error) {
	cfg := Default()
	if err := loadFile(&cfg, path); err != nil {
		return Config{}, err
	}
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DebounceMS <= 0 {
		cfg.DebounceMS = Default().DebounceMS
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return &ParseError{Path: path, Message: err.Error(), Err: err}
	}
	return nil
}

// DefaultPath returns the conventional config file location.
func DefaultPath() string {
	base, err := os.UserConfigDir()
	if err != nil {
		return "zmodhost.toml"
	}
	return filepath.Join(base, "zmodhost", "zmodhost.toml")
}

func defaultDataDir() string {
	base, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(base, ".local", "share", "zmodhost")
}

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	Path    string
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
