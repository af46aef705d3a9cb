package debugterm

import (
	"encoding/json"
	"image/color"
	"testing"
)

func TestSnapshot_Text(t *testing.T) {
	term := New(WithSize(10, 3))
	term.PutString("Hello\nWorld")

	snap := term.Snapshot(SnapshotDetailText)

	if snap.Size.Rows != 3 {
		t.Errorf("Size.Rows = %d, want 3", snap.Size.Rows)
	}
	if snap.Size.Cols != 10 {
		t.Errorf("Size.Cols = %d, want 10", snap.Size.Cols)
	}
	if len(snap.Lines) != 3 {
		t.Fatalf("len(Lines) = %d, want 3", len(snap.Lines))
	}
	if snap.Lines[0].Text != "Hello" {
		t.Errorf("Lines[0].Text = %q, want %q", snap.Lines[0].Text, "Hello")
	}
	if snap.Lines[1].Text != "World" {
		t.Errorf("Lines[1].Text = %q, want %q", snap.Lines[1].Text, "World")
	}

	// Text mode should not have segments or cells
	if snap.Lines[0].Segments != nil {
		t.Error("Text mode should not have segments")
	}
	if snap.Lines[0].Cells != nil {
		t.Error("Text mode should not have cells")
	}
}

func TestSnapshot_Cursor(t *testing.T) {
	term := New(WithSize(10, 5))
	term.PutString("ABC")

	snap := term.Snapshot(SnapshotDetailText)

	if snap.Cursor.X != 3 {
		t.Errorf("Cursor.X = %d, want 3", snap.Cursor.X)
	}
	if snap.Cursor.Y != 0 {
		t.Errorf("Cursor.Y = %d, want 0", snap.Cursor.Y)
	}
	if snap.Fg != "#00ff00" || snap.Bg != "#000040" {
		t.Errorf("expected default colors, got %s/%s", snap.Fg, snap.Bg)
	}
}

func TestSnapshot_Styled(t *testing.T) {
	p := DefaultPalette
	term := New(WithSize(12, 2), WithColorSelector(paletteColors{&p}))

	term.PutChar(CodePair0)
	term.PutString("ab")
	term.PutChar(CodePair0 + 1)
	term.PutString("cd")

	snap := term.Snapshot(SnapshotDetailStyled)
	segs := snap.Lines[0].Segments
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d: %+v", len(segs), segs)
	}
	if segs[0].Text != "ab" || segs[0].Fg != "#ff7f00" || segs[0].Bg != "#000000" {
		t.Errorf("unexpected first segment %+v", segs[0])
	}
	if segs[1].Text != "cd" || segs[1].Fg != "#000000" || segs[1].Bg != "#ff7f00" {
		t.Errorf("unexpected second segment %+v", segs[1])
	}
	if segs[2].Text != "        " || segs[2].Bg != "#000040" {
		t.Errorf("expected blank tail in the initial colors, got %+v", segs[2])
	}
}

func TestSnapshot_Full(t *testing.T) {
	term := New(WithSize(4, 1))
	term.PutString("ok")

	snap := term.Snapshot(SnapshotDetailFull)
	cells := snap.Lines[0].Cells
	if len(cells) != 4 {
		t.Fatalf("expected 4 cells, got %d", len(cells))
	}
	if cells[0].Char != "o" || cells[1].Char != "k" || cells[2].Char != " " {
		t.Errorf("unexpected cells %+v", cells)
	}
	if cells[0].Fg != "#00ff00" {
		t.Errorf("expected green fg, got %s", cells[0].Fg)
	}
}

func TestSnapshot_WideChar(t *testing.T) {
	term := New(WithSize(10, 1))
	term.PutString("中a")

	snap := term.Snapshot(SnapshotDetailText)
	if snap.Lines[0].Text != "中a" {
		t.Errorf("expected '中a', got %q", snap.Lines[0].Text)
	}
	if snap.Lines[0].Width != 3 {
		t.Errorf("expected width 3, got %d", snap.Lines[0].Width)
	}
}

func TestSnapshot_EmptyTerminal(t *testing.T) {
	term := &Terminal{cols: 3, rows: 2}

	snap := term.Snapshot(SnapshotDetailFull)
	if snap.Lines != nil {
		t.Errorf("expected no lines for an unallocated grid, got %d", len(snap.Lines))
	}
	if snap.Size.Cols != 3 || snap.Size.Rows != 2 {
		t.Errorf("expected size 3x2, got %+v", snap.Size)
	}
}

func TestSnapshot_JSON(t *testing.T) {
	term := New(WithSize(5, 1))
	term.PutString("hi")

	data, err := json.Marshal(term.Snapshot(SnapshotDetailText))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for _, key := range []string{"size", "cursor", "fg", "bg", "lines"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("expected key %q in %s", key, data)
		}
	}
}

// paletteColors adapts a Palette to ColorSelector for tests.
type paletteColors struct {
	p *Palette
}

func (c paletteColors) SelectColors(i int) (fg, bg color.RGBA, ok bool) {
	fg, bg = c.p.Pair(i)
	return fg, bg, true
}
