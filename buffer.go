package debugterm

import (
	"fmt"
	"math"
)

// Rect is an inclusive rectangle in grid coordinates.
// A rect with XMin > XMax or YMin > YMax is empty.
type Rect struct {
	XMin, YMin int
	XMax, YMax int
}

// EmptyRect returns the inverted sentinel meaning "nothing to repaint".
func EmptyRect() Rect {
	return Rect{XMin: math.MaxInt, YMin: math.MaxInt, XMax: math.MinInt, YMax: math.MinInt}
}

// Empty returns true if the rect covers no cells.
func (r Rect) Empty() bool {
	return r.XMin > r.XMax || r.YMin > r.YMax
}

// Include grows the rect to cover (x, y).
func (r Rect) Include(x, y int) Rect {
	r.XMin = min(r.XMin, x)
	r.YMin = min(r.YMin, y)
	r.XMax = max(r.XMax, x)
	r.YMax = max(r.YMax, y)
	return r
}

// Contains returns true if (x, y) lies inside the rect.
func (r Rect) Contains(x, y int) bool {
	return x >= r.XMin && x <= r.XMax && y >= r.YMin && y <= r.YMax
}

// Clamp limits the rect to a cols x rows grid. An empty rect stays empty.
func (r Rect) Clamp(cols, rows int) Rect {
	if r.Empty() || cols <= 0 || rows <= 0 {
		return EmptyRect()
	}
	return Rect{
		XMin: clamp(r.XMin, 0, cols-1),
		YMin: clamp(r.YMin, 0, rows-1),
		XMax: clamp(r.XMax, 0, cols-1),
		YMax: clamp(r.YMax, 0, rows-1),
	}
}

func (r Rect) String() string {
	if r.Empty() {
		return "{empty}"
	}
	return fmt.Sprintf("{%d,%d,%d,%d}", r.XMin, r.YMin, r.XMax, r.YMax)
}

// Buffer stores a cols x rows grid of cells in row-major order and
// accumulates a single dirty rectangle over every mutation.
type Buffer struct {
	cols  int
	rows  int
	cells []Cell
	dirty Rect
}

// NewBuffer creates a buffer filled with fill. The whole buffer starts dirty.
func NewBuffer(cols, rows int, fill Cell) *Buffer {
	b := &Buffer{
		cols:  cols,
		rows:  rows,
		cells: make([]Cell, cols*rows),
	}
	for i := range b.cells {
		b.cells[i] = fill
	}
	b.MarkAllDirty()
	return b
}

// Cols returns the buffer width in character columns.
func (b *Buffer) Cols() int {
	return b.cols
}

// Rows returns the buffer height in character rows.
func (b *Buffer) Rows() int {
	return b.rows
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.cols && y >= 0 && y < b.rows
}

func outOfRange(x, y, cols, rows int) error {
	return fmt.Errorf("%w: (%d,%d) outside %dx%d", ErrOutOfRange, x, y, cols, rows)
}

// Cell returns the cell at (x, y).
func (b *Buffer) Cell(x, y int) (Cell, error) {
	if !b.inBounds(x, y) {
		return Cell{}, outOfRange(x, y, b.cols, b.rows)
	}
	return b.cells[x+y*b.cols], nil
}

// SetCell replaces the cell at (x, y) and grows the dirty rectangle to include it.
func (b *Buffer) SetCell(x, y int, c Cell) error {
	if !b.inBounds(x, y) {
		return outOfRange(x, y, b.cols, b.rows)
	}
	b.cells[x+y*b.cols] = c
	b.dirty = b.dirty.Include(x, y)
	return nil
}

// Fill sets every cell to c and marks the whole buffer dirty.
func (b *Buffer) Fill(c Cell) {
	for i := range b.cells {
		b.cells[i] = c
	}
	b.MarkAllDirty()
}

// ScrollUp discards row 0, shifts every other row up by one and fills the
// new last row with fill. Every row moved, so the whole buffer becomes dirty.
func (b *Buffer) ScrollUp(fill Cell) {
	if b.rows == 0 {
		return
	}
	copy(b.cells, b.cells[b.cols:])
	last := b.cells[(b.rows-1)*b.cols:]
	for i := range last {
		last[i] = fill
	}
	b.MarkAllDirty()
}

// Resize reallocates the buffer. Cells inside both the old and new bounds are
// kept; newly exposed cells are set to fill. The whole buffer becomes dirty.
func (b *Buffer) Resize(cols, rows int, fill Cell) {
	cells := make([]Cell, cols*rows)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if x < b.cols && y < b.rows {
				cells[x+y*cols] = b.cells[x+y*b.cols]
			} else {
				cells[x+y*cols] = fill
			}
		}
	}
	b.cells = cells
	b.cols = cols
	b.rows = rows
	b.MarkAllDirty()
}

// Dirty returns the accumulated dirty rectangle.
func (b *Buffer) Dirty() Rect {
	return b.dirty
}

// IsDirty returns true if any cell changed since the last MarkClean.
func (b *Buffer) IsDirty() bool {
	return !b.dirty.Empty()
}

// MarkAllDirty sets the dirty rectangle to the full extent of the buffer.
func (b *Buffer) MarkAllDirty() {
	if b.cols == 0 || b.rows == 0 {
		b.dirty = EmptyRect()
		return
	}
	b.dirty = Rect{XMin: 0, YMin: 0, XMax: b.cols - 1, YMax: b.rows - 1}
}

// MarkClean resets the dirty rectangle to empty.
func (b *Buffer) MarkClean() {
	b.dirty = EmptyRect()
}

// LineContent returns the text of a row with trailing blanks trimmed.
// Characters with no display width are shown as '?' so the columns line up.
// Returns an empty string if the row is out of bounds.
func (b *Buffer) LineContent(row int) string {
	if row < 0 || row >= b.rows {
		return ""
	}
	line := b.cells[row*b.cols : (row+1)*b.cols]

	last := -1
	for x := len(line) - 1; x >= 0; x-- {
		if !line[x].IsBlank() {
			last = x
			break
		}
	}
	if last < 0 {
		return ""
	}

	runes := make([]rune, 0, last+1)
	for _, c := range line[:last+1] {
		switch {
		case c.Char == 0:
			runes = append(runes, ' ')
		case runeWidth(c.Char) == 0:
			runes = append(runes, '?')
		default:
			runes = append(runes, c.Char)
		}
	}
	return string(runes)
}
