package debugterm

import (
	"errors"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	fill := NewCell(DefaultForeground, DefaultBackground)
	b := NewBuffer(10, 4, fill)

	if b.Cols() != 10 {
		t.Errorf("expected 10 cols, got %d", b.Cols())
	}
	if b.Rows() != 4 {
		t.Errorf("expected 4 rows, got %d", b.Rows())
	}

	c, err := b.Cell(9, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c != fill {
		t.Errorf("expected fill cell, got %+v", c)
	}

	want := Rect{XMin: 0, YMin: 0, XMax: 9, YMax: 3}
	if b.Dirty() != want {
		t.Errorf("expected new buffer fully dirty %v, got %v", want, b.Dirty())
	}
}

func TestBufferCellOutOfBounds(t *testing.T) {
	b := NewBuffer(10, 4, Cell{})

	coords := [][2]int{{-1, 0}, {0, -1}, {10, 0}, {0, 4}}
	for _, xy := range coords {
		if _, err := b.Cell(xy[0], xy[1]); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Cell(%d, %d): expected ErrOutOfRange, got %v", xy[0], xy[1], err)
		}
		if err := b.SetCell(xy[0], xy[1], Cell{Char: 'x'}); !errors.Is(err, ErrOutOfRange) {
			t.Errorf("SetCell(%d, %d): expected ErrOutOfRange, got %v", xy[0], xy[1], err)
		}
	}
}

func TestBufferSetCellGrowsDirty(t *testing.T) {
	b := NewBuffer(10, 4, Cell{})
	b.MarkClean()

	if b.IsDirty() {
		t.Fatal("expected clean buffer")
	}

	b.SetCell(2, 1, Cell{Char: 'a'})
	b.SetCell(5, 3, Cell{Char: 'b'})

	want := Rect{XMin: 2, YMin: 1, XMax: 5, YMax: 3}
	if b.Dirty() != want {
		t.Errorf("expected dirty %v, got %v", want, b.Dirty())
	}

	// Rejected writes leave the rect alone.
	b.SetCell(20, 20, Cell{Char: 'c'})
	if b.Dirty() != want {
		t.Errorf("expected dirty %v after rejected write, got %v", want, b.Dirty())
	}
}

func TestBufferScrollUp(t *testing.T) {
	b := NewBuffer(3, 3, Cell{Char: ' '})
	for y, ch := range []rune{'a', 'b', 'c'} {
		b.SetCell(0, y, Cell{Char: ch})
	}
	b.MarkClean()

	b.ScrollUp(Cell{Char: ' '})

	for y, want := range []string{"b", "c", ""} {
		if got := b.LineContent(y); got != want {
			t.Errorf("row %d: expected %q, got %q", y, want, got)
		}
	}
	if b.Dirty() != (Rect{XMax: 2, YMax: 2}) {
		t.Errorf("expected full dirty after scroll, got %v", b.Dirty())
	}
}

func TestBufferResize(t *testing.T) {
	b := NewBuffer(4, 2, Cell{Char: ' '})
	b.SetCell(0, 0, Cell{Char: 'a'})
	b.SetCell(3, 1, Cell{Char: 'z'})
	b.MarkClean()

	fill := Cell{Char: '.'}
	b.Resize(2, 3, fill)

	if b.Cols() != 2 || b.Rows() != 3 {
		t.Fatalf("expected 2x3, got %dx%d", b.Cols(), b.Rows())
	}
	if c, _ := b.Cell(0, 0); c.Char != 'a' {
		t.Errorf("expected kept 'a', got %q", c.Char)
	}
	if c, _ := b.Cell(1, 2); c != fill {
		t.Errorf("expected fill in new row, got %+v", c)
	}
	if !b.IsDirty() || b.Dirty() != (Rect{XMax: 1, YMax: 2}) {
		t.Errorf("expected full dirty after resize, got %v", b.Dirty())
	}
}

func TestBufferFill(t *testing.T) {
	b := NewBuffer(3, 2, Cell{Char: 'x'})
	b.MarkClean()
	b.Fill(Cell{Char: ' '})

	if b.LineContent(0) != "" || b.LineContent(1) != "" {
		t.Error("expected blank buffer after fill")
	}
	if !b.IsDirty() {
		t.Error("expected dirty after fill")
	}
}

func TestBufferLineContent(t *testing.T) {
	b := NewBuffer(6, 1, Cell{Char: ' '})
	b.SetCell(0, 0, Cell{Char: 'h'})
	b.SetCell(2, 0, Cell{Char: 'i'})
	b.SetCell(3, 0, Cell{Char: '\u0301'}) // combining acute accent

	if got := b.LineContent(0); got != "h i?" {
		t.Errorf("expected 'h i?', got %q", got)
	}
	if got := b.LineContent(5); got != "" {
		t.Errorf("expected empty string for missing row, got %q", got)
	}
}

func TestRect(t *testing.T) {
	r := EmptyRect()
	if !r.Empty() {
		t.Error("expected EmptyRect to be empty")
	}
	if r.String() != "{empty}" {
		t.Errorf("expected {empty}, got %s", r)
	}

	r = r.Include(3, 4)
	if r != (Rect{XMin: 3, YMin: 4, XMax: 3, YMax: 4}) {
		t.Errorf("expected single-cell rect, got %v", r)
	}
	r = r.Include(1, 6)
	if !r.Contains(2, 5) || r.Contains(0, 5) {
		t.Errorf("unexpected containment for %v", r)
	}

	clamped := Rect{XMin: -2, YMin: 1, XMax: 50, YMax: 50}.Clamp(10, 5)
	if clamped != (Rect{XMin: 0, YMin: 1, XMax: 9, YMax: 4}) {
		t.Errorf("expected clamped rect, got %v", clamped)
	}
	if !EmptyRect().Clamp(10, 5).Empty() {
		t.Error("expected empty rect to stay empty after clamp")
	}
}
