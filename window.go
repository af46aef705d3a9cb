package debugterm

import (
	"fmt"
	"image"
	"image/color"
	"log/slog"
	"strings"
)

// WindowKind tags a window with its type. The dispatcher compares tags,
// never concrete Go types, to decide whether a window can be reused.
type WindowKind int

const (
	// KindMain is the echo terminal that shows every raw input character.
	KindMain WindowKind = iota
	// KindTerminal is a terminal created with the TERM setup command.
	KindTerminal
)

func (k WindowKind) String() string {
	switch k {
	case KindMain:
		return "MAIN"
	case KindTerminal:
		return "TERM"
	default:
		return fmt.Sprintf("WindowKind(%d)", int(k))
	}
}

// MainTitle is the title of the main echo window.
const MainTitle = "DEBUG Output"

const (
	mainCols = 40
	mainRows = 25
)

// Window is a named, terminal-backed window driven by setup and data commands.
type Window interface {
	// Kind returns the type tag set at construction.
	Kind() WindowKind
	// Title returns the current window title.
	Title() string
	// Position returns the placement hint from POS, if one was given.
	Position() (p image.Point, ok bool)
	// Terminal returns the grid shown by the window.
	Terminal() *Terminal
	// Font returns the font the grid is drawn with.
	Font() *FontHandle
	// ParseSetup applies a setup command.
	ParseSetup(src string) error
	// ParseData feeds a data command to the grid.
	ParseData(src string) error
	// Close releases the window's font.
	Close()
}

// TermWindow is a window that contains one Terminal and one font checkout.
// It owns a palette of four color pairs selected by control codes 4-7.
type TermWindow struct {
	kind   WindowKind
	title  string
	pos    image.Point
	hasPos bool

	term *Terminal

	fonts *FontCache
	desc  FontDescriptor
	font  *FontHandle

	palette  Palette
	selected int

	logger *slog.Logger
}

// WindowOption configures a TermWindow during construction.
type WindowOption func(*windowConfig)

type windowConfig struct {
	font     FontDescriptor
	cols     int
	rows     int
	palette  Palette
	logger   *slog.Logger
	termOpts []Option
}

// WithWindowFont sets the initial font. Defaults to GoMono 16pt.
func WithWindowFont(d FontDescriptor) WindowOption {
	return func(c *windowConfig) {
		c.font = d
	}
}

// WithWindowSize sets the initial grid size.
func WithWindowSize(cols, rows int) WindowOption {
	return func(c *windowConfig) {
		c.cols = cols
		c.rows = rows
	}
}

// WithWindowPalette sets the initial color pairs. Defaults to DefaultPalette.
func WithWindowPalette(p Palette) WindowOption {
	return func(c *windowConfig) {
		c.palette = p
	}
}

// WithWindowLogger sets the logger. Defaults to slog.Default().
func WithWindowLogger(l *slog.Logger) WindowOption {
	return func(c *windowConfig) {
		c.logger = l
	}
}

// WithTerminalOptions passes extra options to the window's Terminal.
func WithTerminalOptions(opts ...Option) WindowOption {
	return func(c *windowConfig) {
		c.termOpts = append(c.termOpts, opts...)
	}
}

// NewTermWindow creates a TERM window. It fails if the font cannot be loaded.
func NewTermWindow(title string, fonts *FontCache, opts ...WindowOption) (*TermWindow, error) {
	return newTermWindow(KindTerminal, title, fonts, DEFAULT_COLS, DEFAULT_ROWS, opts)
}

// NewMainWindow creates the resizable echo window. Color pair selection is a
// no-op for it.
func NewMainWindow(fonts *FontCache, opts ...WindowOption) (*TermWindow, error) {
	return newTermWindow(KindMain, MainTitle, fonts, mainCols, mainRows, opts)
}

func newTermWindow(kind WindowKind, title string, fonts *FontCache, cols, rows int, opts []WindowOption) (*TermWindow, error) {
	cfg := windowConfig{
		font:    FontDescriptor{Typeface: DefaultTypeface, Size: DefaultTextSize},
		cols:    cols,
		rows:    rows,
		palette: DefaultPalette,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	handle, err := fonts.Get(cfg.font)
	if err != nil {
		return nil, fmt.Errorf("window %q: %w", title, err)
	}

	w := &TermWindow{
		kind:    kind,
		title:   title,
		fonts:   fonts,
		desc:    cfg.font,
		font:    handle,
		palette: cfg.palette,
		logger:  cfg.logger.With("window", title),
	}

	termOpts := []Option{
		WithSize(cfg.cols, cfg.rows),
		WithColorSelector(w),
		WithLogger(w.logger),
	}
	if kind == KindTerminal {
		termOpts = append(termOpts, WithMiddleware(&Middleware{
			PutChar: func(r rune, next func(rune)) {
				w.logger.Debug("got char", "code", int(r))
				next(r)
			},
		}))
	}
	w.term = New(append(termOpts, cfg.termOpts...)...)

	if kind == KindTerminal {
		w.term.SelectColors(0)
	}
	return w, nil
}

func (w *TermWindow) Kind() WindowKind {
	return w.kind
}

func (w *TermWindow) Title() string {
	return w.title
}

func (w *TermWindow) Position() (image.Point, bool) {
	return w.pos, w.hasPos
}

func (w *TermWindow) Terminal() *Terminal {
	return w.term
}

func (w *TermWindow) Font() *FontHandle {
	return w.font
}

// Palette returns the window's color pairs.
func (w *TermWindow) Palette() Palette {
	return w.palette
}

// SelectColors implements ColorSelector. It is called with the terminal
// locked. Only TERM windows have selectable pairs.
func (w *TermWindow) SelectColors(i int) (fg, bg color.RGBA, ok bool) {
	if w.kind != KindTerminal {
		return fg, bg, false
	}
	w.selected = clamp(i, 0, PaletteSize/2-1)
	fg, bg = w.palette.Pair(w.selected)
	return fg, bg, true
}

// Close releases the font checkout.
func (w *TermWindow) Close() {
	w.font.Release()
}

// HandleResize fits the grid to a new window size in pixels. Sizes that hold
// no whole cell, or that do not change the grid size, are ignored.
func (w *TermWindow) HandleResize(px PixelSize) {
	dim := FromPixels(px, w.font.GlyphDims())
	if dim.Cols <= 0 || dim.Rows <= 0 || dim == w.term.Size() {
		return
	}
	w.logger.Info("window resized", "width", px.Width, "height", px.Height, "cols", dim.Cols, "rows", dim.Rows)
	if err := w.term.Resize(dim.Cols, dim.Rows); err != nil {
		w.logger.Warn("resize failed", "err", err)
	}
}

// resize changes the grid size unless the grid or its image would be too large.
func (w *TermWindow) resize(cols, rows int) error {
	if err := ValidSize(cols, rows); err != nil {
		return err
	}
	dim := Dimension{Cols: cols, Rows: rows}
	if !fitsImage(dim, w.font.GlyphDims()) {
		return fmt.Errorf("%w: %dx%d cells of %s exceed %d pixels", ErrOutOfRange, cols, rows, w.desc, MaxImagePixels)
	}
	return w.term.Resize(cols, rows)
}

// setFont swaps the font checkout. On failure the old font stays.
func (w *TermWindow) setFont(d FontDescriptor) error {
	handle, err := w.fonts.Get(d)
	if err != nil {
		return err
	}
	if dim := w.term.Size(); !fitsImage(dim, handle.GlyphDims()) {
		handle.Release()
		return fmt.Errorf("%w: %dx%d cells of %s exceed %d pixels", ErrOutOfRange, dim.Cols, dim.Rows, d, MaxImagePixels)
	}
	w.font.Release()
	w.font = handle
	w.desc = d
	w.term.MarkAllDirty()
	return nil
}

// ParseSetup applies clauses: POS x y, TITLE 'text', SIZE cols rows,
// TEXTSIZE points and COLOR c0 [c1 ... c7]. Unknown clauses are logged and
// skipped up to the next symbol.
func (w *TermWindow) ParseSetup(src string) error {
	lx := NewLexer(src)
	for !lx.Done() {
		sym, err := lx.Symbol("Getting next setup symbol")
		if err != nil {
			return err
		}

		handled, err := w.parseCommonSetup(sym, lx)
		if err != nil {
			return err
		}
		if handled {
			continue
		}

		switch strings.ToUpper(sym) {
		case "SIZE":
			cols, err := lx.Int("Getting column count")
			if err != nil {
				return err
			}
			rows, err := lx.Int("Getting row count")
			if err != nil {
				return err
			}
			if err := w.resize(cols, rows); err != nil {
				return err
			}

		case "TEXTSIZE":
			size, err := lx.IntRange("Getting TEXTSIZE", 1, MaxTextSize)
			if err != nil {
				return err
			}
			d := w.desc
			d.Size = size
			if err := w.setFont(d); err != nil {
				return err
			}

		case "COLOR":
			if err := w.parseColors(lx); err != nil {
				return err
			}

		default:
			w.logger.Warn("unhandled setup symbol", "symbol", sym)
			lx.SkipToSymbol()
		}
	}
	return nil
}

// parseCommonSetup handles clauses every window kind understands.
func (w *TermWindow) parseCommonSetup(sym string, lx *Lexer) (bool, error) {
	switch strings.ToUpper(sym) {
	case "POS":
		x, err := lx.Int("Getting POS X")
		if err != nil {
			return true, err
		}
		y, err := lx.Int("Getting POS Y")
		if err != nil {
			return true, err
		}
		w.pos = image.Pt(x, y)
		w.hasPos = true
	case "TITLE":
		title, err := lx.Quoted("Getting TITLE")
		if err != nil {
			return true, err
		}
		w.title = title
	default:
		return false, nil
	}
	return true, nil
}

// parseColors reads one to eight colors into the palette and re-applies the
// selected pair. The palette is only replaced if every color parses.
func (w *TermWindow) parseColors(lx *Lexer) error {
	palette := w.palette
	for i := 0; ; i++ {
		isColor := lx.IsColor()
		if i == 0 && !isColor {
			return lx.expected("color", "Getting COLOR")
		}
		if !isColor {
			break
		}
		if i >= PaletteSize {
			return lx.parseError("COLOR", "too many colors")
		}
		c, err := lx.Color("Getting COLOR")
		if err != nil {
			return err
		}
		palette[i] = c
	}
	w.palette = palette
	w.term.SelectColors(w.selected)
	return nil
}

// ParseData feeds tokens to the grid: a NUMBER is one code, a STRING is a
// run of characters and a SYMBOL is a named data command.
func (w *TermWindow) ParseData(src string) error {
	lx := NewLexer(src)
	for !lx.Done() {
		switch lx.Kind() {
		case TokenNumber:
			code, err := lx.Int("Getting character code")
			if err != nil {
				return err
			}
			w.term.PutChar(rune(code))

		case TokenString:
			s, err := lx.Quoted("Getting text")
			if err != nil {
				return err
			}
			w.term.PutString(s)

		case TokenSymbol:
			sym, err := lx.Symbol("Getting data symbol")
			if err != nil {
				return err
			}
			handled, err := w.parseCommonData(sym, lx)
			if err != nil {
				return err
			}
			if !handled {
				return fmt.Errorf("%w %q in terminal data", ErrUnhandledSymbol, sym)
			}

		default:
			return lx.parseError("Erroneous terminal data token", "unexpected token")
		}
	}
	return nil
}

// parseCommonData handles the named data commands CLEAR, HOME and PAIR n.
func (w *TermWindow) parseCommonData(sym string, lx *Lexer) (bool, error) {
	switch strings.ToUpper(sym) {
	case "CLEAR":
		w.term.Clear()
	case "HOME":
		w.term.Home()
	case "PAIR":
		i, err := lx.Int("Getting PAIR index")
		if err != nil {
			return true, err
		}
		w.term.SelectColors(i)
	default:
		return false, nil
	}
	return true, nil
}

// Ensure TermWindow satisfies its interfaces
var _ Window = (*TermWindow)(nil)
var _ ColorSelector = (*TermWindow)(nil)
