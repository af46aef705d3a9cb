package main

import (
	"encoding/json"
	"fmt"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	debugterm "github.com/danielgatis/go-debugterm"
)

// mainSnapshotName names the main window's files.
const mainSnapshotName = "main"

// writeSnapshot writes <dir>/<name>.json with a styled snapshot and
// <dir>/<name>.png with a rendering of the window.
func writeSnapshot(dir, name string, w debugterm.Window) error {
	if name == "" {
		name = mainSnapshotName
	}
	base := filepath.Join(dir, sanitizeName(name))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(w.Terminal().Snapshot(debugterm.SnapshotDetailStyled), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.WriteFile(base+".json", data, 0o644); err != nil {
		return err
	}

	f, err := os.Create(base + ".png")
	if err != nil {
		return err
	}
	defer f.Close()
	if err := png.Encode(f, debugterm.Screenshot(w.Terminal(), w.Font().Face())); err != nil {
		return fmt.Errorf("encode screenshot: %w", err)
	}
	return nil
}

// sanitizeName keeps window names usable as file names.
func sanitizeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', 0:
			return '_'
		}
		return r
	}, name)
}
