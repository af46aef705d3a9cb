package debugterm

import (
	"image"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// MaxImagePixels bounds the pixel area of a painted grid.
const MaxImagePixels = 1 << 24

// fitsImage reports whether a grid of dim cells in glyph-sized cells stays
// within MaxImagePixels.
func fitsImage(dim Dimension, glyph PixelSize) bool {
	px := dim.PixelSize(glyph)
	return px.Width > 0 && px.Height > 0 && int64(px.Width)*int64(px.Height) <= MaxImagePixels
}

// ImagePainter rasterizes grid cells into an RGBA image, one glyph cell per
// grid cell. It keeps the image between paints so only dirty cells are redrawn.
type ImagePainter struct {
	face    font.Face
	glyph   PixelSize
	img     *image.RGBA
	changed image.Rectangle
}

// NewImagePainter creates a painter drawing with face.
func NewImagePainter(face font.Face) *ImagePainter {
	p := &ImagePainter{}
	p.SetFace(face)
	return p
}

// SetFace switches the face. The next Paint must cover the whole grid,
// which the caller arranges by marking the terminal dirty.
func (p *ImagePainter) SetFace(face font.Face) {
	p.face = face
	p.glyph = glyphDims(face)
}

// GlyphSize returns the pixel size of one cell.
func (p *ImagePainter) GlyphSize() PixelSize {
	return p.glyph
}

// Image returns the painted image, nil before the first Paint.
func (p *ImagePainter) Image() *image.RGBA {
	return p.img
}

// Changed returns the pixel area touched by the last Paint.
func (p *ImagePainter) Changed() image.Rectangle {
	return p.changed
}

// Paint draws the cells of region. A grid size change reallocates the image
// and repaints everything.
func (p *ImagePainter) Paint(buf *Buffer, region Rect) {
	size := Dimension{Cols: buf.Cols(), Rows: buf.Rows()}.PixelSize(p.glyph)
	if p.img == nil || p.img.Rect.Dx() != size.Width || p.img.Rect.Dy() != size.Height {
		p.img = image.NewRGBA(image.Rect(0, 0, size.Width, size.Height))
		region = Rect{XMax: buf.Cols() - 1, YMax: buf.Rows() - 1}
	}

	for y := region.YMin; y <= region.YMax; y++ {
		for x := region.XMin; x <= region.XMax; x++ {
			cell, err := buf.Cell(x, y)
			if err != nil {
				continue
			}
			p.drawCell(x, y, cell)
		}
	}

	p.changed = image.Rect(
		region.XMin*p.glyph.Width,
		region.YMin*p.glyph.Height,
		(region.XMax+1)*p.glyph.Width,
		(region.YMax+1)*p.glyph.Height,
	)
}

func (p *ImagePainter) drawCell(x, y int, cell Cell) {
	target := image.Rect(
		x*p.glyph.Width,
		y*p.glyph.Height,
		(x+1)*p.glyph.Width,
		(y+1)*p.glyph.Height,
	)
	draw.Draw(p.img, target, image.NewUniform(cell.Bg), image.Point{}, draw.Src)
	if cell.IsBlank() {
		return
	}

	// Glyphs are clipped to their cell.
	d := &font.Drawer{
		Dst:  p.img.SubImage(target).(*image.RGBA),
		Src:  image.NewUniform(cell.Fg),
		Face: p.face,
		Dot:  fixed.P(target.Min.X, target.Min.Y+p.face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(string(cell.Char))
}

// PaintAll draws the whole grid with p without touching the dirty state.
func (t *Terminal) PaintAll(p Painter) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf == nil || t.cols == 0 || t.rows == 0 {
		return
	}
	p.Paint(t.buf, Rect{XMax: t.cols - 1, YMax: t.rows - 1})
}

// Screenshot renders the whole terminal to an RGBA image using face.
func Screenshot(t *Terminal, face font.Face) *image.RGBA {
	p := NewImagePainter(face)
	t.PaintAll(p)
	return p.Image()
}
