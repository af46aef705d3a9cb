package debugterm

// Control codes understood by PutChar. Codes below 32 that are not listed
// here are reserved and have no effect.
const (
	CodeClear     = 0 // clear the grid and home the cursor
	CodeHome      = 1
	CodeSetX      = 2 // reserved for setting the cursor column
	CodeSetY      = 3 // reserved for setting the cursor row
	CodePair0     = 4 // 4-7 select color pairs 0-3
	CodePair3     = 7
	CodeBackspace = 8
	CodeTab       = 9
	CodeLineFeed  = 10
	CodeReturn    = 13
	CodePrintable = 32 // first printable code
)

const tabWidth = 8

// PutChar interprets one code: a control code below 32 or a printable
// character written at the cursor.
func (t *Terminal) PutChar(r rune) {
	if t.middleware != nil && t.middleware.PutChar != nil {
		t.middleware.PutChar(r, t.putCharInternal)
		return
	}
	t.putCharInternal(r)
}

// PutString feeds every rune of s to PutChar.
func (t *Terminal) PutString(s string) {
	for _, r := range s {
		t.PutChar(r)
	}
}

func (t *Terminal) putCharInternal(r rune) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if r == CodeLineFeed || r == CodeReturn {
		t.newLinePair(r)
		return
	}
	t.lastNewLine = 0

	switch {
	case r == CodeClear:
		t.clearInternal()
		t.cursor = Cursor{}
	case r == CodeHome:
		t.cursor = Cursor{}
	case r == CodeSetX, r == CodeSetY:
		// Reserved.
	case r >= CodePair0 && r <= CodePair3:
		t.selectColorsInternal(int(r - CodePair0))
	case r == CodeBackspace:
		t.backspaceInternal()
	case r == CodeTab:
		t.cursor.X = clamp((t.cursor.X+tabWidth)&^(tabWidth-1), 0, t.cols-1)
	case r < CodePrintable:
		// Reserved.
	default:
		t.inputInternal(r)
	}
}

// newLinePair advances one line for LF or CR, except when the code directly
// follows the other one of the pair: CR LF and LF CR both advance once.
func (t *Terminal) newLinePair(r rune) {
	if t.lastNewLine != 0 && t.lastNewLine != r {
		t.lastNewLine = 0
		return
	}
	t.newLineInternal()
	t.lastNewLine = r
}

// clearInternal fills the grid with spaces in the current foreground on the
// global background.
func (t *Terminal) clearInternal() {
	if t.buf == nil {
		return
	}
	t.buf.Fill(NewCell(t.fg, t.globalBg))
}

// selectColorsInternal applies color pair i from the color selector.
func (t *Terminal) selectColorsInternal(i int) {
	if fg, bg, ok := t.colors.SelectColors(i); ok {
		t.fg, t.bg = fg, bg
	}
}

// backspaceInternal moves one column left. At column 0 it moves up a row but
// stays at column 0.
func (t *Terminal) backspaceInternal() {
	t.cursor.X--
	if t.cursor.X < 0 {
		t.cursor.X = 0
		if t.cursor.Y > 0 {
			t.cursor.Y--
		}
	}
}

// inputInternal writes a printable character at the cursor, wrapping first
// if the cursor is past the last column.
func (t *Terminal) inputInternal(r rune) {
	if t.cursor.X >= t.cols {
		t.newLineInternal()
	}
	if err := t.setCharAtInternal(t.cursor.X, t.cursor.Y, Cell{Char: r, Fg: t.fg, Bg: t.bg}); err != nil {
		t.logger.Debug("dropped character", "char", r, "err", err)
		return
	}
	t.cursor.X++
}

// NewLine moves the cursor to column 0 of the next row, scrolling the grid
// up when the cursor is on the last row.
func (t *Terminal) NewLine() {
	if t.middleware != nil && t.middleware.NewLine != nil {
		t.middleware.NewLine(t.lockedNewLine)
		return
	}
	t.lockedNewLine()
}

func (t *Terminal) lockedNewLine() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.newLineInternal()
}

func (t *Terminal) newLineInternal() {
	if t.cursor.Y >= t.rows-1 {
		if t.buf != nil {
			t.buf.ScrollUp(t.blank())
		}
	} else {
		t.cursor.Y++
	}
	t.cursor.X = 0
}

// Clear is code 0: blank the grid and home the cursor.
func (t *Terminal) Clear() {
	t.PutChar(CodeClear)
}

// Home is code 1: move the cursor to (0, 0).
func (t *Terminal) Home() {
	t.PutChar(CodeHome)
}

// SelectColors applies color pair i (clamped to 0-3) through the color selector.
func (t *Terminal) SelectColors(i int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.selectColorsInternal(i)
}
