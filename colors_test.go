package debugterm

import (
	"image/color"
	"testing"
)

func TestLookupColor(t *testing.T) {
	names := []string{"WHITE", "BLACK", "GREY", "YELLOW", "MAGENTA", "RED", "CYAN", "GREEN", "BLUE", "ORANGE"}
	for i, name := range names {
		nc, ok := LookupColor(name)
		if !ok {
			t.Errorf("expected %s to be known", name)
			continue
		}
		if nc != NamedColor(i) {
			t.Errorf("expected %s to be %d, got %d", name, i, nc)
		}
		if nc.String() != name {
			t.Errorf("expected String() %s, got %s", name, nc.String())
		}
	}

	if nc, ok := LookupColor("cyan"); !ok || nc != ColorCyan {
		t.Error("expected case-insensitive lookup")
	}
	if _, ok := LookupColor("PINK"); ok {
		t.Error("expected PINK to be unknown")
	}
}

func TestIntensity(t *testing.T) {
	tests := []struct {
		base     color.RGBA
		level    int
		expected color.RGBA
	}{
		{RGB(255, 0, 0), 8, RGB(255, 0, 0)},
		{RGB(255, 0, 0), 15, RGB(255, 224, 224)},
		{RGB(255, 0, 0), 0, RGB(0, 0, 0)},
		{RGB(255, 127, 0), 10, RGB(255, 191, 64)},
		{RGB(255, 127, 0), 2, RGB(63, 31, 0)},
		{RGB(255, 255, 255), 4, RGB(127, 127, 127)},
		{RGB(255, 0, 0), 99, RGB(255, 224, 224)}, // clamped to 15
		{RGB(255, 0, 0), -3, RGB(0, 0, 0)},       // clamped to 0
	}

	for _, tt := range tests {
		if got := Intensity(tt.base, tt.level); got != tt.expected {
			t.Errorf("Intensity(%v, %d) = %v, want %v", tt.base, tt.level, got, tt.expected)
		}
	}
}

func TestWithIntensityIgnoresWhiteAndBlack(t *testing.T) {
	for _, level := range []int{0, 4, 15} {
		if got := ColorWhite.WithIntensity(level); got != RGB(255, 255, 255) {
			t.Errorf("WHITE at %d: expected white, got %v", level, got)
		}
		if got := ColorBlack.WithIntensity(level); got != RGB(0, 0, 0) {
			t.Errorf("BLACK at %d: expected black, got %v", level, got)
		}
	}
	if got := ColorGrey.WithIntensity(4); got != RGB(127, 127, 127) {
		t.Errorf("GREY at 4: expected mid grey, got %v", got)
	}
}

func TestPackedColor(t *testing.T) {
	tests := []struct {
		v        int
		expected color.RGBA
	}{
		{0x000000, RGB(0, 0, 0)},
		{0x0000ff, RGB(255, 0, 0)},
		{0x00ff00, RGB(0, 255, 0)},
		{0xff0000, RGB(0, 0, 255)},
		{0x203040, RGB(0x40, 0x30, 0x20)},
	}

	for _, tt := range tests {
		if got := PackedColor(tt.v); got != tt.expected {
			t.Errorf("PackedColor(%#x) = %v, want %v", tt.v, got, tt.expected)
		}
	}
}

func TestPalettePair(t *testing.T) {
	p := DefaultPalette

	fg, bg := p.Pair(0)
	if fg != RGB(255, 127, 0) || bg != RGB(0, 0, 0) {
		t.Errorf("expected orange on black, got %v/%v", fg, bg)
	}
	fg, bg = p.Pair(3)
	if fg != RGB(0, 0, 0) || bg != RGB(0, 255, 0) {
		t.Errorf("expected black on green, got %v/%v", fg, bg)
	}

	// Out of range indexes are clamped.
	if fg, _ := p.Pair(9); fg != RGB(0, 0, 0) {
		t.Errorf("expected pair 3 for index 9, got %v", fg)
	}
	if fg, _ := p.Pair(-1); fg != RGB(255, 127, 0) {
		t.Errorf("expected pair 0 for index -1, got %v", fg)
	}
}

func TestColorToHex(t *testing.T) {
	if got := colorToHex(RGB(255, 127, 0)); got != "#ff7f00" {
		t.Errorf("expected #ff7f00, got %s", got)
	}
}
