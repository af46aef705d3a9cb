package debugterm

// SnapshotDetail selects what a Snapshot carries per row.
type SnapshotDetail string

const (
	// SnapshotDetailText: row text only.
	SnapshotDetailText SnapshotDetail = "text"
	// SnapshotDetailStyled: row text plus same-color runs.
	SnapshotDetailStyled SnapshotDetail = "styled"
	// SnapshotDetailFull: row text plus every cell.
	SnapshotDetailFull SnapshotDetail = "full"
)

// Snapshot is a JSON-friendly copy of a grid. Colors are "#rrggbb".
type Snapshot struct {
	Size   SnapshotSize   `json:"size"`
	Cursor SnapshotCursor `json:"cursor"`
	Fg     string         `json:"fg"`
	Bg     string         `json:"bg"`
	Lines  []SnapshotLine `json:"lines"`
}

type SnapshotSize struct {
	Cols int `json:"cols"`
	Rows int `json:"rows"`
}

type SnapshotCursor struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// SnapshotLine is one grid row. Width is the display width of Text.
type SnapshotLine struct {
	Text     string            `json:"text"`
	Width    int               `json:"width"`
	Segments []SnapshotSegment `json:"segments,omitempty"`
	Cells    []SnapshotCell    `json:"cells,omitempty"`
}

// SnapshotSegment is a run of cells sharing the same colors.
type SnapshotSegment struct {
	Text string `json:"text"`
	Fg   string `json:"fg"`
	Bg   string `json:"bg"`
}

type SnapshotCell struct {
	Char string `json:"char"`
	Fg   string `json:"fg"`
	Bg   string `json:"bg"`
}

// Snapshot copies the grid, cursor and current colors under the lock.
func (t *Terminal) Snapshot(detail SnapshotDetail) *Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	snap := &Snapshot{
		Size:   SnapshotSize{Cols: t.cols, Rows: t.rows},
		Cursor: SnapshotCursor{X: t.cursor.X, Y: t.cursor.Y},
		Fg:     colorToHex(t.fg),
		Bg:     colorToHex(t.bg),
	}
	if t.buf == nil {
		return snap
	}

	snap.Lines = make([]SnapshotLine, t.rows)
	for row := range snap.Lines {
		snap.Lines[row] = t.snapshotRow(row, detail)
	}
	return snap
}

func (t *Terminal) snapshotRow(row int, detail SnapshotDetail) SnapshotLine {
	text := t.buf.LineContent(row)
	out := SnapshotLine{Text: text, Width: StringWidth(text)}
	switch detail {
	case SnapshotDetailStyled:
		out.Segments = t.rowSegments(row)
	case SnapshotDetailFull:
		out.Cells = t.rowCells(row)
	}
	return out
}

func (t *Terminal) rowSegments(row int) []SnapshotSegment {
	var segments []SnapshotSegment
	var current *SnapshotSegment
	var chars []rune

	flush := func() {
		if current != nil && len(chars) > 0 {
			current.Text = string(chars)
			segments = append(segments, *current)
		}
	}

	for col := 0; col < t.cols; col++ {
		cell, err := t.buf.Cell(col, row)
		if err != nil {
			continue
		}
		fg, bg := colorToHex(cell.Fg), colorToHex(cell.Bg)
		if current == nil || current.Fg != fg || current.Bg != bg {
			flush()
			current = &SnapshotSegment{Fg: fg, Bg: bg}
			chars = nil
		}
		chars = append(chars, cellRune(cell))
	}
	flush()

	return segments
}

func (t *Terminal) rowCells(row int) []SnapshotCell {
	cells := make([]SnapshotCell, 0, t.cols)
	for col := 0; col < t.cols; col++ {
		cell, err := t.buf.Cell(col, row)
		if err != nil {
			continue
		}
		cells = append(cells, SnapshotCell{
			Char: string(cellRune(cell)),
			Fg:   colorToHex(cell.Fg),
			Bg:   colorToHex(cell.Bg),
		})
	}
	return cells
}

func cellRune(c Cell) rune {
	if c.Char == 0 {
		return ' '
	}
	return c.Char
}
