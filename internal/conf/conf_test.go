package conf

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "zmodhost.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Module != "greet" {
		t.Errorf("Module = %q, want greet", cfg.Module)
	}
	if !cfg.LogEcho {
		t.Error("LogEcho = false, want true")
	}
	if cfg.DebounceMS != 250 {
		t.Errorf("DebounceMS = %d, want 250", cfg.DebounceMS)
	}
	if cfg.DataDir == "" {
		t.Error("DataDir is empty")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load() = %+v, want the defaults", cfg)
	}
}

func TestLoadEmptyPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Module != "greet" {
		t.Errorf("Module = %q, want greet", cfg.Module)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
module = "zkv"
script = "demo.lua"
log_echo = false
data_dir = "/tmp/zmod"
debounce_ms = 100
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Module != "zkv" {
		t.Errorf("Module = %q, want zkv", cfg.Module)
	}
	if cfg.Script != "demo.lua" {
		t.Errorf("Script = %q, want demo.lua", cfg.Script)
	}
	if cfg.LogEcho {
		t.Error("LogEcho = true, want false from the file")
	}
	if cfg.DataDir != "/tmp/zmod" {
		t.Errorf("DataDir = %q, want /tmp/zmod", cfg.DataDir)
	}
	if cfg.DebounceMS != 100 {
		t.Errorf("DebounceMS = %d, want 100", cfg.DebounceMS)
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `module = "zkv"`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Module != "zkv" {
		t.Errorf("Module = %q, want zkv", cfg.Module)
	}
	if !cfg.LogEcho || cfg.DebounceMS != 250 {
		t.Errorf("unset keys changed: LogEcho = %v, DebounceMS = %d", cfg.LogEcho, cfg.DebounceMS)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
module = "zkv"
debounce_ms = 100
`)
	t.Setenv("ZMODHOST_MODULE", "greet")
	t.Setenv("ZMODHOST_DEBOUNCE_MS", "50")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Module != "greet" {
		t.Errorf("Module = %q, want the env override", cfg.Module)
	}
	if cfg.DebounceMS != 50 {
		t.Errorf("DebounceMS = %d, want the env override", cfg.DebounceMS)
	}
}

func TestLoadInvalidTOML(t *testing.T) {
	path := writeConfig(t, "[module\n")

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() succeeded on malformed TOML")
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("Load() error = %T, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
	if pe.Message == "" {
		t.Error("ParseError.Message is empty")
	}
}

func TestDebounceFloor(t *testing.T) {
	path := writeConfig(t, `debounce_ms = -5`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DebounceMS != 250 {
		t.Errorf("DebounceMS = %d, want the default floor", cfg.DebounceMS)
	}
}

func TestDefaultPath(t *testing.T) {
	if got := DefaultPath(); got == "" {
		t.Error("DefaultPath() is empty")
	}
}
