package debugterm

import "image/color"

// Cell stores the character and colors of one grid position.
// Cells are plain values and are copied freely.
type Cell struct {
	Char rune
	Fg   color.RGBA
	Bg   color.RGBA
}

// NewCell creates a space cell with the given colors.
func NewCell(fg, bg color.RGBA) Cell {
	return Cell{Char: ' ', Fg: fg, Bg: bg}
}

// IsBlank returns true if the cell shows nothing but its background.
func (c Cell) IsBlank() bool {
	return c.Char == ' ' || c.Char == 0
}

// placeholderCell is returned by reads on a grid that has not been allocated.
func placeholderCell(fg, bg color.RGBA) Cell {
	return Cell{Char: '!', Fg: fg, Bg: bg}
}
