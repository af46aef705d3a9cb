package main

import (
	"image"
	"slices"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	debugterm "github.com/danielgatis/go-debugterm"
)

// fyneDisplay opens one fyne window per terminal. Sizes are mapped one pixel
// to one device independent unit.
type fyneDisplay struct {
	app fyne.App
}

func newFyneDisplay(a fyne.App) *fyneDisplay {
	return &fyneDisplay{app: a}
}

func (d *fyneDisplay) Open(name string, opts debugterm.SurfaceOptions) (debugterm.Surface, error) {
	s := &fyneSurface{resizable: opts.Resizable}
	fyne.DoAndWait(func() {
		s.img = canvas.NewImageFromImage(image.NewRGBA(image.Rect(0, 0, 1, 1)))
		s.img.FillMode = canvas.ImageFillStretch
		s.img.ScaleMode = canvas.ImageScalePixels

		s.layout = &gridLayout{onResize: opts.OnResize, min: toFyneSize(opts.Size)}
		if opts.Resizable {
			s.layout.min = fyne.NewSize(1, 1)
		}

		s.win = d.app.NewWindow(opts.Title)
		s.win.SetContent(container.New(s.layout, s.img))
		s.win.SetPadded(false)
		s.win.SetFixedSize(!opts.Resizable)
		s.win.Resize(toFyneSize(opts.Size))
		s.win.SetOnClosed(func() {
			s.mu.Lock()
			s.closed = true
			s.mu.Unlock()
			if opts.OnClose != nil {
				opts.OnClose()
			}
		})
		s.win.Show()
	})
	return s, nil
}

type fyneSurface struct {
	win       fyne.Window
	img       *canvas.Image
	layout    *gridLayout
	resizable bool

	mu     sync.Mutex
	closed bool
}

func (s *fyneSurface) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func (s *fyneSurface) SetTitle(title string) {
	fyne.Do(func() {
		s.win.SetTitle(title)
	})
}

func (s *fyneSurface) SetSize(size debugterm.PixelSize) {
	fyne.Do(func() {
		if !s.resizable {
			s.layout.min = toFyneSize(size)
		}
		s.win.Resize(toFyneSize(size))
	})
}

// SetPosition is ignored: fyne does not expose window placement.
func (s *fyneSurface) SetPosition(int, int) {}

func (s *fyneSurface) Present(img *image.RGBA, _ image.Rectangle) {
	frame := &image.RGBA{
		Pix:    slices.Clone(img.Pix),
		Stride: img.Stride,
		Rect:   img.Rect,
	}
	fyne.Do(func() {
		s.img.Image = frame
		s.img.Refresh()
	})
}

func (s *fyneSurface) Close() {
	if s.isClosed() {
		return
	}
	fyne.Do(func() {
		s.win.Close()
	})
}

// gridLayout stretches the terminal image over the window and reports size
// changes.
type gridLayout struct {
	onResize func(debugterm.PixelSize)
	min      fyne.Size
	last     fyne.Size
}

func (l *gridLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for _, o := range objects {
		o.Move(fyne.NewPos(0, 0))
		o.Resize(size)
	}
	if size != l.last {
		l.last = size
		if l.onResize != nil {
			l.onResize(debugterm.PixelSize{Width: int(size.Width), Height: int(size.Height)})
		}
	}
}

func (l *gridLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return l.min
}

func toFyneSize(size debugterm.PixelSize) fyne.Size {
	return fyne.NewSize(float32(size.Width), float32(size.Height))
}
