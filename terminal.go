package debugterm

import (
	"fmt"
	"image/color"
	"log/slog"
	"strings"
	"sync"
)

const (
	// DEFAULT_COLS is the default number of terminal columns.
	DEFAULT_COLS = 40
	// DEFAULT_ROWS is the default number of terminal rows.
	DEFAULT_ROWS = 20

	// MaxCols and MaxRows bound each grid dimension.
	MaxCols = 1024
	MaxRows = 1024
	// MaxCells bounds cols*rows.
	MaxCells = 256 * 1024
)

// ColorSelector resolves color pair i for control codes 4-7.
// ok is false when the owner has no palette and the current colors stay.
type ColorSelector interface {
	SelectColors(i int) (fg, bg color.RGBA, ok bool)
}

// NoopColors ignores color pair selection.
type NoopColors struct{}

func (NoopColors) SelectColors(int) (fg, bg color.RGBA, ok bool) {
	return fg, bg, false
}

// Terminal is one virtual terminal surface: a cell grid, a cursor, the
// current colors and the newline memory used to collapse CR/LF pairs.
// Every exported method takes the terminal's lock, so a reader goroutine can
// echo into a terminal that another goroutine repaints.
type Terminal struct {
	mu sync.Mutex

	// Dimensions
	cols int
	rows int

	buf    *Buffer
	cursor Cursor

	// lastNewLine is 10 or 13 right after a newline control code, 0 otherwise.
	lastNewLine rune

	// Colors
	globalBg color.RGBA
	fg       color.RGBA
	bg       color.RGBA
	colors   ColorSelector

	middleware *Middleware
	logger     *slog.Logger
}

// Option configures a Terminal during construction.
type Option func(*Terminal)

// WithSize sets the terminal dimensions.
// Values <= 0 are replaced with defaults (40x20); oversized grids are
// clamped to MaxCols, MaxRows and MaxCells.
func WithSize(cols, rows int) Option {
	if cols <= 0 {
		cols = DEFAULT_COLS
	}
	if rows <= 0 {
		rows = DEFAULT_ROWS
	}
	cols = min(cols, MaxCols)
	rows = min(rows, MaxRows, MaxCells/cols)

	return func(t *Terminal) {
		t.cols = cols
		t.rows = rows
	}
}

// WithColors sets the initial foreground and background.
func WithColors(fg, bg color.RGBA) Option {
	return func(t *Terminal) {
		t.fg = fg
		t.bg = bg
	}
}

// WithGlobalBackground sets the background used when the grid is cleared.
func WithGlobalBackground(bg color.RGBA) Option {
	return func(t *Terminal) {
		t.globalBg = bg
	}
}

// WithColorSelector sets the palette consulted by control codes 4-7.
// Defaults to NoopColors.
func WithColorSelector(s ColorSelector) Option {
	return func(t *Terminal) {
		t.colors = s
	}
}

// WithMiddleware sets functions to intercept PutChar, NewLine and Resize.
func WithMiddleware(mw *Middleware) Option {
	return func(t *Terminal) {
		if t.middleware == nil {
			t.middleware = &Middleware{}
		}
		t.middleware.Merge(mw)
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(t *Terminal) {
		t.logger = l
	}
}

// New creates a terminal with the given options.
// Defaults to 40x20, green on dark blue, cursor at (0, 0).
func New(opts ...Option) *Terminal {
	t := &Terminal{
		cols:     DEFAULT_COLS,
		rows:     DEFAULT_ROWS,
		globalBg: DefaultGlobalBackground,
		fg:       DefaultForeground,
		bg:       DefaultBackground,
		colors:   NoopColors{},
	}

	for _, opt := range opts {
		opt(t)
	}
	if t.logger == nil {
		t.logger = slog.Default()
	}

	t.buf = NewBuffer(t.cols, t.rows, t.blank())
	return t
}

// blank is a space cell in the current colors.
func (t *Terminal) blank() Cell {
	return NewCell(t.fg, t.bg)
}

// Cols returns the terminal width in character columns.
func (t *Terminal) Cols() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cols
}

// Rows returns the terminal height in character rows.
func (t *Terminal) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.rows
}

// Size returns the terminal dimensions.
func (t *Terminal) Size() Dimension {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Dimension{Cols: t.cols, Rows: t.rows}
}

// CursorPos returns the current cursor position (0-based).
func (t *Terminal) CursorPos() (x, y int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cursor.X, t.cursor.Y
}

// Colors returns the current foreground and background.
func (t *Terminal) Colors() (fg, bg color.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fg, t.bg
}

// SetColors changes the colors used for subsequent writes.
func (t *Terminal) SetColors(fg, bg color.RGBA) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fg, t.bg = fg, bg
}

// GlobalBackground returns the background used by a full clear.
func (t *Terminal) GlobalBackground() color.RGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.globalBg
}

// CharAt returns the cell at (x, y). A terminal whose grid was never
// allocated answers with a '!' placeholder instead of failing.
func (t *Terminal) CharAt(x, y int) (Cell, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.charAtInternal(x, y)
}

func (t *Terminal) charAtInternal(x, y int) (Cell, error) {
	if x < 0 || y < 0 || x >= t.cols || y >= t.rows {
		return Cell{}, outOfRange(x, y, t.cols, t.rows)
	}
	if t.buf == nil {
		return placeholderCell(t.fg, t.bg), nil
	}
	return t.buf.Cell(x, y)
}

// SetCharAt writes a cell and grows the dirty rectangle to include it.
func (t *Terminal) SetCharAt(x, y int, c Cell) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.setCharAtInternal(x, y, c)
}

func (t *Terminal) setCharAtInternal(x, y int, c Cell) error {
	if x < 0 || y < 0 || x >= t.cols || y >= t.rows {
		return outOfRange(x, y, t.cols, t.rows)
	}
	if t.buf == nil {
		return fmt.Errorf("%w: grid not allocated", ErrOutOfRange)
	}
	return t.buf.SetCell(x, y, c)
}

// ValidSize fails with ErrOutOfRange unless a cols x rows grid can be allocated.
func ValidSize(cols, rows int) error {
	if cols <= 0 || rows <= 0 {
		return fmt.Errorf("%w: invalid size %dx%d", ErrOutOfRange, cols, rows)
	}
	if cols > MaxCols || rows > MaxRows || cols*rows > MaxCells {
		return fmt.Errorf("%w: size %dx%d exceeds %dx%d or %d cells", ErrOutOfRange, cols, rows, MaxCols, MaxRows, MaxCells)
	}
	return nil
}

// Resize reallocates the grid. Content in the overlapping region is kept,
// new cells are spaces in the current colors, the cursor is clamped into the
// new bounds and the whole grid becomes dirty. Sizes rejected by ValidSize
// leave the grid untouched.
func (t *Terminal) Resize(cols, rows int) error {
	if err := ValidSize(cols, rows); err != nil {
		return err
	}
	if t.middleware != nil && t.middleware.Resize != nil {
		t.middleware.Resize(cols, rows, t.resizeInternal)
		return nil
	}
	t.resizeInternal(cols, rows)
	return nil
}

func (t *Terminal) resizeInternal(cols, rows int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.buf == nil {
		t.buf = NewBuffer(cols, rows, t.blank())
	} else {
		t.buf.Resize(cols, rows, t.blank())
	}
	t.cols = cols
	t.rows = rows

	// The row is clamped against the row count. Clamping it with the column
	// value would move the cursor to an unrelated line.
	t.cursor.X = clamp(t.cursor.X, 0, cols-1)
	t.cursor.Y = clamp(t.cursor.Y, 0, rows-1)
}

// Dirty returns the accumulated dirty rectangle.
func (t *Terminal) Dirty() Rect {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf == nil {
		return EmptyRect()
	}
	return t.buf.Dirty()
}

// IsDirty returns true if anything changed since the last repaint.
func (t *Terminal) IsDirty() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.buf != nil && t.buf.IsDirty()
}

// MarkAllDirty forces the next repaint to cover the whole grid.
func (t *Terminal) MarkAllDirty() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf != nil {
		t.buf.MarkAllDirty()
	}
}

// MarkClean empties the dirty rectangle.
func (t *Terminal) MarkClean() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf != nil {
		t.buf.MarkClean()
	}
}

// Painter draws the given region of a grid.
// The buffer must not be retained after Paint returns.
type Painter interface {
	Paint(buf *Buffer, region Rect)
}

// Repaint hands the dirty region, clamped to the grid, to p and marks the
// grid clean. It returns false without calling p when nothing is dirty.
// The terminal stays locked while p runs.
func (t *Terminal) Repaint(p Painter) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.buf == nil {
		return false
	}
	region := t.buf.Dirty().Clamp(t.cols, t.rows)
	if region.Empty() {
		return false
	}
	p.Paint(t.buf, region)
	t.buf.MarkClean()
	return true
}

// LineContent returns the text of a row with trailing blanks trimmed.
func (t *Terminal) LineContent(row int) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf == nil {
		return ""
	}
	return t.buf.LineContent(row)
}

// String returns the visible text, one line per row, trailing empty lines trimmed.
func (t *Terminal) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.buf == nil {
		return ""
	}

	lines := make([]string, t.rows)
	for row := range lines {
		lines[row] = t.buf.LineContent(row)
	}
	return strings.TrimRight(strings.Join(lines, "\n"), "\n")
}

// clamp ensures the value is within the given range.
func clamp(val, min, max int) int {
	if val < min {
		return min
	}
	if val > max {
		return max
	}
	return val
}
