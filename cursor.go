package debugterm

// Dimension is a grid size in character cells.
type Dimension struct {
	Cols int
	Rows int
}

// Cursor is the write position (0-based). X may equal the column count
// right after the last column was written; the next printable character
// wraps to a new line first.
type Cursor struct {
	X int
	Y int
}

// PixelSize is a size in pixels.
type PixelSize struct {
	Width  int
	Height int
}

// PixelSize returns the pixel size of a grid whose cells are glyph sized.
func (d Dimension) PixelSize(glyph PixelSize) PixelSize {
	return PixelSize{Width: d.Cols * glyph.Width, Height: d.Rows * glyph.Height}
}

// FromPixels returns how many whole glyph cells fit in px.
func FromPixels(px, glyph PixelSize) Dimension {
	if glyph.Width <= 0 || glyph.Height <= 0 {
		return Dimension{}
	}
	return Dimension{Cols: px.Width / glyph.Width, Rows: px.Height / glyph.Height}
}
