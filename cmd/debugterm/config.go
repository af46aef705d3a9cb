package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	debugterm "github.com/danielgatis/go-debugterm"
)

// Config holds the visualizer settings read from the YAML config file.
type Config struct {
	FontDir       string        `yaml:"font_dir"`
	Typeface      string        `yaml:"typeface"`
	TextSize      int           `yaml:"text_size"`
	MainCols      int           `yaml:"main_cols"`
	MainRows      int           `yaml:"main_rows"`
	Interval      time.Duration `yaml:"interval"`
	CommandPrefix *string       `yaml:"command_prefix"`
	LogLevel      string        `yaml:"log_level"`
	Headless      bool          `yaml:"headless"`
	SnapshotDir   string        `yaml:"snapshot_dir"`
	Record        string        `yaml:"record"`
	Listen        string        `yaml:"listen"`
	Command       []string      `yaml:"command"`
}

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() *Config {
	prefix := debugterm.DefaultCommandPrefix
	return &Config{
		Typeface:      debugterm.DefaultTypeface,
		TextSize:      debugterm.DefaultTextSize,
		MainCols:      40,
		MainRows:      25,
		Interval:      debugterm.DefaultInterval,
		CommandPrefix: &prefix,
		LogLevel:      "info",
	}
}

// LoadConfig reads path over the defaults. A missing file or an empty path
// returns the defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	path = strings.TrimSpace(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the visualizer cannot start with.
func (c *Config) Validate() error {
	if c.TextSize <= 0 {
		return fmt.Errorf("text_size must be positive, got %d", c.TextSize)
	}
	if c.MainCols <= 0 || c.MainRows <= 0 {
		return fmt.Errorf("main window size must be positive, got %dx%d", c.MainCols, c.MainRows)
	}
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("log_level: %w", err)
	}
	return level, nil
}

// Prefix returns the command prefix.
func (c *Config) Prefix() string {
	if c.CommandPrefix == nil {
		return debugterm.DefaultCommandPrefix
	}
	return *c.CommandPrefix
}

// Font returns the descriptor for new windows.
func (c *Config) Font() debugterm.FontDescriptor {
	return debugterm.FontDescriptor{Typeface: c.Typeface, Size: c.TextSize}
}

// FontLoader returns a loader that tries FontDir before the built-in fonts.
func (c *Config) FontLoader() debugterm.FontLoader {
	if c.FontDir == "" {
		return debugterm.BuiltinLoader{}
	}
	return debugterm.ChainLoader{
		debugterm.FileLoader{Dir: c.FontDir},
		debugterm.BuiltinLoader{},
	}
}
