package debugterm

import (
	"testing"
)

func TestNewCell(t *testing.T) {
	fg, bg := RGB(1, 2, 3), RGB(4, 5, 6)
	c := NewCell(fg, bg)

	if c.Char != ' ' {
		t.Errorf("expected space, got %q", c.Char)
	}
	if c.Fg != fg || c.Bg != bg {
		t.Errorf("expected colors %v/%v, got %v/%v", fg, bg, c.Fg, c.Bg)
	}
}

func TestCellIsBlank(t *testing.T) {
	tests := []struct {
		char     rune
		expected bool
	}{
		{' ', true},
		{0, true},
		{'A', false},
		{'!', false},
	}

	for _, tt := range tests {
		c := Cell{Char: tt.char}
		if got := c.IsBlank(); got != tt.expected {
			t.Errorf("Cell{%q}.IsBlank() = %v, want %v", tt.char, got, tt.expected)
		}
	}
}

func TestPlaceholderCell(t *testing.T) {
	c := placeholderCell(DefaultForeground, DefaultBackground)
	if c.Char != '!' {
		t.Errorf("expected '!', got %q", c.Char)
	}
}
