package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	debugterm "github.com/danielgatis/go-debugterm"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.TextSize != debugterm.DefaultTextSize {
		t.Errorf("expected text size %d, got %d", debugterm.DefaultTextSize, cfg.TextSize)
	}
	if cfg.Prefix() != "`" {
		t.Errorf("expected backtick prefix, got %q", cfg.Prefix())
	}
	if cfg.Interval != debugterm.DefaultInterval {
		t.Errorf("expected interval %s, got %s", debugterm.DefaultInterval, cfg.Interval)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
typeface: Basic
text_size: 12
main_cols: 80
main_rows: 30
interval: 50ms
command_prefix: ""
log_level: debug
headless: true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Typeface != "Basic" || cfg.TextSize != 12 {
		t.Errorf("expected Basic 12, got %s %d", cfg.Typeface, cfg.TextSize)
	}
	if cfg.MainCols != 80 || cfg.MainRows != 30 {
		t.Errorf("expected 80x30, got %dx%d", cfg.MainCols, cfg.MainRows)
	}
	if cfg.Interval != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %s", cfg.Interval)
	}
	if cfg.Prefix() != "" {
		t.Errorf("expected empty prefix, got %q", cfg.Prefix())
	}
	if !cfg.Headless {
		t.Error("expected headless")
	}
	level, err := cfg.Level()
	if err != nil || level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v (%v)", level, err)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"bad yaml", "text_size: [1"},
		{"zero text size", "text_size: 0"},
		{"bad level", "log_level: loud"},
		{"negative size", "main_cols: -1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0o644); err != nil {
				t.Fatal(err)
			}
			if _, err := LoadConfig(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestConfigFontLoader(t *testing.T) {
	cfg := DefaultConfig()
	if _, ok := cfg.FontLoader().(debugterm.BuiltinLoader); !ok {
		t.Errorf("expected builtin loader, got %T", cfg.FontLoader())
	}

	cfg.FontDir = t.TempDir()
	chain, ok := cfg.FontLoader().(debugterm.ChainLoader)
	if !ok || len(chain) != 2 {
		t.Fatalf("expected two-element chain, got %#v", cfg.FontLoader())
	}

	// Missing files fall back to the built-in fonts.
	if _, err := chain.LoadFont(cfg.Font()); err != nil {
		t.Errorf("expected fallback to builtin, got %v", err)
	}
}

func TestSanitizeName(t *testing.T) {
	if got := sanitizeName("a/b:c"); got != "a_b_c" {
		t.Errorf("expected a_b_c, got %q", got)
	}
}

func TestRunHeadless(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Headless = true
	cfg.Typeface = debugterm.BasicTypeface
	cfg.Interval = time.Millisecond
	cfg.SnapshotDir = dir
	cfg.Record = filepath.Join(dir, "input.rec")

	input := "hello\n`TERM log SIZE 10 2\n`log 'hi'\n"
	if err := run(t.Context(), cfg, strings.NewReader(input)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range []string{"main.json", "main.png", "log.json", "log.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}

	rec, err := os.ReadFile(cfg.Record)
	if err != nil {
		t.Fatal(err)
	}
	if string(rec) != input {
		t.Errorf("expected recording %q, got %q", input, rec)
	}
}
