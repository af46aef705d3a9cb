package debugterm

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

// TokenKind classifies a token by the first character of its text.
type TokenKind uint8

const (
	TokenEnd TokenKind = iota
	TokenError
	TokenSymbol
	TokenString
	TokenNumber
)

var tokenKindNames = [...]string{
	TokenEnd:    "END",
	TokenError:  "ERROR",
	TokenSymbol: "SYMBOL",
	TokenString: "STRING",
	TokenNumber: "NUMBER",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", k)
}

const quote = '\''

// Token is one lexical unit. Text is a substring of the scanned command;
// Offset is its byte position there.
type Token struct {
	Kind   TokenKind
	Text   string
	Offset int
}

// Lexer scans a command string one token at a time. The current token is
// classified lazily; the Expect-style methods consume it on success.
// A Lexer is restartable with Reset but tokens are not reusable across passes.
type Lexer struct {
	src   string
	start int
	end   int
	kind  TokenKind
}

// NewLexer creates a lexer positioned on the first token of src.
func NewLexer(src string) *Lexer {
	l := &Lexer{src: src}
	l.Reset()
	return l
}

// Reset rewinds to the first token.
func (l *Lexer) Reset() {
	l.start, l.end = 0, 0
	l.Next()
}

// Next advances to the following token. Only plain spaces separate tokens.
func (l *Lexer) Next() {
	pos := l.end
	for pos < len(l.src) && l.src[pos] == ' ' {
		pos++
	}
	l.start = pos
	if pos == len(l.src) {
		l.end = pos
		l.kind = TokenEnd
		return
	}

	if l.src[pos] == quote {
		l.end, l.kind = scanString(l.src, pos)
		return
	}

	end := pos
	for end < len(l.src) && l.src[end] != ' ' {
		end++
	}
	l.end = end
	l.kind = classify(l.src[pos])
}

// scanString scans a quoted token starting at pos. A backslash escapes the next byte.
// An unterminated string runs to the end of the input and is an error token.
func scanString(src string, pos int) (int, TokenKind) {
	for i := pos + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			i++
		case quote:
			return i + 1, TokenString
		}
	}
	return len(src), TokenError
}

func classify(c byte) TokenKind {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return TokenSymbol
	case c >= '0' && c <= '9', c == '-', c == '+':
		return TokenNumber
	default:
		return TokenError
	}
}

// Kind returns the kind of the current token.
func (l *Lexer) Kind() TokenKind {
	return l.kind
}

// Text returns the raw text of the current token.
func (l *Lexer) Text() string {
	return l.src[l.start:l.end]
}

// Token returns the current token.
func (l *Lexer) Token() Token {
	return Token{Kind: l.kind, Text: l.Text(), Offset: l.start}
}

// Done returns true once the lexer reached the end of the input.
func (l *Lexer) Done() bool {
	return l.kind == TokenEnd
}

// Expect fails with ErrTokenExpected unless the current token is of kind.
func (l *Lexer) Expect(kind TokenKind, context string) error {
	if l.kind != kind {
		return l.expected(kind.String(), context)
	}
	return nil
}

func (l *Lexer) expected(what, context string) error {
	e := &LexError{
		Context:  context,
		Expected: what,
		Got:      l.kind,
		Err:      ErrTokenExpected,
	}
	if l.kind > TokenError {
		e.Text = l.Text()
	}
	return e
}

func (l *Lexer) parseError(context, detail string) error {
	e := &LexError{
		Context: context,
		Got:     l.kind,
		Detail:  detail,
		Err:     ErrTokenParse,
	}
	if l.kind > TokenError {
		e.Text = l.Text()
	}
	return e
}

// Symbol consumes a SYMBOL token and returns its text.
func (l *Lexer) Symbol(context string) (string, error) {
	if err := l.Expect(TokenSymbol, context); err != nil {
		return "", err
	}
	s := l.Text()
	l.Next()
	return s, nil
}

// Quoted consumes a STRING token and returns its text without the quotes,
// with \' and \\ escapes resolved.
func (l *Lexer) Quoted(context string) (string, error) {
	if err := l.Expect(TokenString, context); err != nil {
		return "", err
	}
	s := l.Text()
	s = s[1 : len(s)-1]
	l.Next()
	if strings.IndexByte(s, '\\') < 0 {
		return s, nil
	}

	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String(), nil
}

// Int consumes a NUMBER token. A leading + or - is allowed and _ may separate
// digit groups. Values outside the int32 range are rejected.
func (l *Lexer) Int(context string) (int, error) {
	val, err := l.intValue(context)
	if err != nil {
		return 0, err
	}
	l.Next()
	return val, nil
}

// IntRange is Int restricted to [min, max]. Out-of-range values fail with
// ErrTokenParse and are not consumed.
func (l *Lexer) IntRange(context string, min, max int) (int, error) {
	val, err := l.intValue(context)
	if err != nil {
		return 0, err
	}
	if val < min || val > max {
		return 0, l.parseError(context, fmt.Sprintf("value must be between %d and %d", min, max))
	}
	l.Next()
	return val, nil
}

func (l *Lexer) intValue(context string) (int, error) {
	if err := l.Expect(TokenNumber, context); err != nil {
		return 0, err
	}
	text := l.Text()
	negative := false
	switch text[0] {
	case '-':
		negative = true
		text = text[1:]
	case '+':
		text = text[1:]
	}

	val := 0
	digits := 0
	for _, c := range text {
		if c == '_' {
			continue
		}
		if c < '0' || c > '9' {
			return 0, l.parseError(context, fmt.Sprintf("bad char %q in integer", c))
		}
		val = val*10 + int(c-'0')
		if val > math.MaxInt32+1 {
			return 0, l.parseError(context, "integer out of range")
		}
		digits++
	}
	if digits == 0 {
		return 0, l.parseError(context, "integer has no digits")
	}
	if negative {
		val = -val
	}
	if val > math.MaxInt32 {
		return 0, l.parseError(context, "integer out of range")
	}
	return val, nil
}

// IsColor reports, without consuming, whether the current token starts a color
// expression: any NUMBER, or a SYMBOL naming a known color.
func (l *Lexer) IsColor() bool {
	switch l.kind {
	case TokenNumber:
		return true
	case TokenSymbol:
		_, ok := LookupColor(l.Text())
		return ok
	default:
		return false
	}
}

// Color consumes one color expression. A NUMBER is a packed little-endian RGB
// value. A SYMBOL names a base color, optionally followed by a NUMBER intensity
// 0-15 (default 8); WHITE and BLACK take no intensity.
func (l *Lexer) Color(context string) (color.RGBA, error) {
	switch l.kind {
	case TokenNumber:
		v, err := l.Int(context)
		if err != nil {
			return color.RGBA{}, err
		}
		return PackedColor(v), nil

	case TokenSymbol:
		name := l.Text()
		nc, ok := LookupColor(name)
		if !ok {
			return color.RGBA{}, l.parseError(context, "unknown color")
		}
		l.Next()
		if !nc.Scaled() {
			return nc.Base(), nil
		}
		level := DefaultIntensity
		if l.kind == TokenNumber {
			i, err := l.Int(context)
			if err != nil {
				return color.RGBA{}, err
			}
			level = i
		}
		return nc.WithIntensity(level), nil

	default:
		return color.RGBA{}, l.expected("NUMBER or SYMBOL", context)
	}
}

// SkipToSymbol advances until the current token is a SYMBOL or the input ends.
func (l *Lexer) SkipToSymbol() {
	for l.kind != TokenEnd && l.kind != TokenSymbol {
		l.Next()
	}
}

// Tokens scans src and returns every token, including the final END.
func Tokens(src string) []Token {
	var out []Token
	for l := NewLexer(src); ; l.Next() {
		out = append(out, l.Token())
		if l.Done() {
			return out
		}
	}
}
