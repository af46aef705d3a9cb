package debugterm

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"
	"golang.org/x/image/font/opentype"
)

const (
	// DefaultTypeface is the typeface of new terminal windows.
	DefaultTypeface = "GoMono"
	// DefaultTextSize is the point size of new terminal windows.
	DefaultTextSize = 16
	// MaxTextSize is the largest point size accepted by TEXTSIZE.
	MaxTextSize = 512
	// BasicTypeface names the fixed 7x13 bitmap font. Its size is ignored.
	BasicTypeface = "Basic"
)

// FontDescriptor identifies a font. It is comparable and used as the cache key.
type FontDescriptor struct {
	Typeface string
	Size     int
	Bold     bool
	Italic   bool
}

func (d FontDescriptor) String() string {
	s := fmt.Sprintf("%s %dpt", d.Typeface, d.Size)
	if d.Bold {
		s += " bold"
	}
	if d.Italic {
		s += " italic"
	}
	return s
}

// FontLoader opens the font resource for a descriptor.
type FontLoader interface {
	LoadFont(d FontDescriptor) (font.Face, error)
}

// FontLoaderFunc adapts a function to FontLoader.
type FontLoaderFunc func(d FontDescriptor) (font.Face, error)

func (f FontLoaderFunc) LoadFont(d FontDescriptor) (font.Face, error) {
	return f(d)
}

// NewFace parses TrueType or OpenType data into a face at size points.
// Hinting is fixed to full so that every glyph snaps to whole pixels and the
// fixed-width cell math stays valid.
func NewFace(data []byte, size int) (font.Face, error) {
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, err
	}

	return opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// FileLoader loads <Dir>/<Typeface>.ttf.
type FileLoader struct {
	Dir string
}

// Path returns the file the descriptor is loaded from.
func (l FileLoader) Path(d FontDescriptor) string {
	return filepath.Join(l.Dir, d.Typeface+".ttf")
}

func (l FileLoader) LoadFont(d FontDescriptor) (font.Face, error) {
	path := l.Path(d)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrResourceLoad, err)
	}
	face, err := NewFace(data, d.Size)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, path, err)
	}
	return face, nil
}

// BuiltinLoader serves fonts compiled into the binary: GoMono (with bold and
// italic variants) and Basic.
type BuiltinLoader struct{}

func (BuiltinLoader) LoadFont(d FontDescriptor) (font.Face, error) {
	switch strings.ToLower(d.Typeface) {
	case strings.ToLower(BasicTypeface):
		return basicfont.Face7x13, nil
	case strings.ToLower(DefaultTypeface):
		data := gomono.TTF
		switch {
		case d.Bold && d.Italic:
			data = gomonobolditalic.TTF
		case d.Bold:
			data = gomonobold.TTF
		case d.Italic:
			data = gomonoitalic.TTF
		}
		face, err := NewFace(data, d.Size)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrResourceLoad, d, err)
		}
		return face, nil
	default:
		return nil, fmt.Errorf("%w: no builtin font %q", ErrResourceLoad, d.Typeface)
	}
}

// ChainLoader tries each loader in order and returns the first face found.
type ChainLoader []FontLoader

func (c ChainLoader) LoadFont(d FontDescriptor) (font.Face, error) {
	var errs []error
	for _, l := range c {
		face, err := l.LoadFont(d)
		if err == nil {
			return face, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return nil, fmt.Errorf("%w: no font loaders", ErrResourceLoad)
	}
	return nil, errors.Join(errs...)
}

type fontEntry struct {
	desc  FontDescriptor
	face  font.Face
	users int
}

// FontCache maps descriptors to loaded faces and hands out reference-counted
// handles. Entries are never evicted: the set of descriptors a process uses
// is small, so faces live for the lifetime of the cache.
type FontCache struct {
	mu      sync.Mutex
	loader  FontLoader
	entries map[FontDescriptor]*fontEntry
	logger  *slog.Logger
}

// FontCacheOption configures a FontCache.
type FontCacheOption func(*FontCache)

// WithFontLoader sets the loader used on cache misses. Defaults to BuiltinLoader.
func WithFontLoader(l FontLoader) FontCacheOption {
	return func(c *FontCache) {
		c.loader = l
	}
}

// WithFontLogger sets the logger. Defaults to slog.Default().
func WithFontLogger(l *slog.Logger) FontCacheOption {
	return func(c *FontCache) {
		c.logger = l
	}
}

// NewFontCache creates an empty cache.
func NewFontCache(opts ...FontCacheOption) *FontCache {
	c := &FontCache{
		loader:  BuiltinLoader{},
		entries: make(map[FontDescriptor]*fontEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Get returns a handle to the face for d, loading it on first request.
// Load failures wrap ErrResourceLoad and leave the cache unchanged.
func (c *FontCache) Get(d FontDescriptor) (*FontHandle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[d]
	if !ok {
		face, err := c.loader.LoadFont(d)
		if err != nil {
			return nil, err
		}
		e = &fontEntry{desc: d, face: face}
		c.entries[d] = e
		c.logger.Debug("font loaded", "font", d.String())
	}
	e.users++
	return &FontHandle{cache: c, entry: e}, nil
}

// Users returns the number of live handles for d.
func (c *FontCache) Users(d FontDescriptor) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if e, ok := c.entries[d]; ok {
		return e.users
	}
	return 0
}

// Len returns the number of loaded fonts.
func (c *FontCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// FontHandle is a checkout of a cached face. The face stays valid while any
// handle to it is live. Release each handle exactly once; Clone for another owner.
type FontHandle struct {
	cache    *FontCache
	entry    *fontEntry
	released bool
}

// Clone returns a new handle to the same face.
func (h *FontHandle) Clone() *FontHandle {
	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	h.entry.users++
	return &FontHandle{cache: h.cache, entry: h.entry}
}

// Release drops this handle's reference. Extra calls are ignored.
func (h *FontHandle) Release() {
	if h == nil {
		return
	}
	h.cache.mu.Lock()
	defer h.cache.mu.Unlock()
	if h.released {
		return
	}
	h.released = true
	h.entry.users--
}

// Face returns the font face for the rasterizer.
func (h *FontHandle) Face() font.Face {
	return h.entry.face
}

// Descriptor returns the descriptor the handle was checked out for.
func (h *FontHandle) Descriptor() FontDescriptor {
	return h.entry.desc
}

// GlyphDims returns the pixel size of one grid cell: the advance of a wide
// glyph and the line height. Only meaningful for monospaced fonts.
func (h *FontHandle) GlyphDims() PixelSize {
	return glyphDims(h.entry.face)
}

func glyphDims(face font.Face) PixelSize {
	adv, _ := face.GlyphAdvance('W')
	return PixelSize{
		Width:  adv.Ceil(),
		Height: face.Metrics().Height.Ceil(),
	}
}
