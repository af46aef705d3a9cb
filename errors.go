package debugterm

import (
	"errors"
	"fmt"
)

var (
	// ErrTokenExpected is returned when the current token is not of the required kind.
	ErrTokenExpected = errors.New("token expected")
	// ErrTokenParse is returned for malformed number or color literals.
	ErrTokenParse = errors.New("token parse")
	// ErrOutOfRange is returned for grid coordinates outside the current bounds.
	ErrOutOfRange = errors.New("coordinates out of range")
	// ErrResourceLoad is returned when a font file is missing or corrupt.
	ErrResourceLoad = errors.New("resource load")
	// ErrUnhandledSymbol is returned when a command symbol is not recognized.
	ErrUnhandledSymbol = errors.New("unhandled symbol")
)

// LexError describes a lexer failure. It unwraps to ErrTokenExpected or ErrTokenParse.
type LexError struct {
	Context  string
	Expected string
	Got      TokenKind
	Text     string
	Detail   string
	Err      error
}

func (e *LexError) Error() string {
	msg := ""
	if e.Context != "" {
		msg = e.Context + ". "
	}
	if e.Expected != "" {
		msg += fmt.Sprintf("Expected %s, got %s", e.Expected, e.Got)
	} else if e.Detail != "" {
		msg += e.Detail
	} else {
		msg += e.Err.Error()
	}
	if e.Text != "" {
		msg += fmt.Sprintf(" (%s)", e.Text)
	}
	return msg
}

func (e *LexError) Unwrap() error {
	return e.Err
}
