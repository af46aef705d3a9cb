package debugterm

import (
	"testing"
)

func TestMiddlewarePutChar(t *testing.T) {
	var seen []rune
	term := New(WithSize(10, 2), WithMiddleware(&Middleware{
		PutChar: func(r rune, next func(rune)) {
			seen = append(seen, r)
			if r == 'x' {
				return // swallow
			}
			next(r)
		},
	}))

	term.PutString("axb")

	if string(seen) != "axb" {
		t.Errorf("expected middleware to see 'axb', got %q", string(seen))
	}
	if term.LineContent(0) != "ab" {
		t.Errorf("expected 'ab', got %q", term.LineContent(0))
	}
}

func TestMiddlewareResize(t *testing.T) {
	term := New(WithSize(10, 5), WithMiddleware(&Middleware{
		Resize: func(cols, rows int, next func(int, int)) {
			next(cols*2, rows)
		},
	}))

	if err := term.Resize(4, 3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if term.Cols() != 8 || term.Rows() != 3 {
		t.Errorf("expected 8x3, got %dx%d", term.Cols(), term.Rows())
	}
}

func TestMiddlewareNewLine(t *testing.T) {
	calls := 0
	term := New(WithSize(10, 5), WithMiddleware(&Middleware{
		NewLine: func(next func()) {
			calls++
			next()
		},
	}))

	term.NewLine()
	if calls != 1 {
		t.Errorf("expected 1 call, got %d", calls)
	}
	if _, y := term.CursorPos(); y != 1 {
		t.Errorf("expected row 1, got %d", y)
	}
}

func TestMiddlewareMerge(t *testing.T) {
	first := 0
	second := 0
	m := &Middleware{
		PutChar: func(r rune, next func(rune)) { first++; next(r) },
		NewLine: func(next func()) { next() },
	}
	m.Merge(&Middleware{
		PutChar: func(r rune, next func(rune)) { second++; next(r) },
	})
	m.Merge(nil)

	if m.NewLine == nil {
		t.Error("expected NewLine to survive a merge without one")
	}
	m.PutChar('a', func(rune) {})
	if first != 0 || second != 1 {
		t.Errorf("expected the merged handler to replace the first, got first=%d second=%d", first, second)
	}
}
