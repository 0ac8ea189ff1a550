package compiler

import (
	"fmt"
	"strconv"
	"unicode"
)

// Lexer holds all mutable state for a single scanning pass over src.
type Lexer struct {
	g      *Grammar
	file   string
	src    []rune
	pos    int // index of the next rune to consume
	line   int // current 1-based source line
	col    int // current 1-based column
	tokens []Token
}

func newLexer(src, file string, g *Grammar) *Lexer {
	return &Lexer{g: g, file: file, src: []rune(src), line: 1, col: 1}
}

func (l *Lexer) atEnd() bool { return l.pos >= len(l.src) }

// peek returns the rune at the current position without advancing.
func (l *Lexer) peek() rune { return l.peekAt(0) }

// peekAt returns the rune offset positions ahead of the current one.
func (l *Lexer) peekAt(offset int) rune {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

// advance consumes one rune and returns it.
func (l *Lexer) advance() rune {
	if l.atEnd() {
		return 0
	}
	r := l.src[l.pos]
	l.pos++
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *Lexer) emit(tt TokenType, lexeme string, line, col int) {
	l.tokens = append(l.tokens, Token{Type: tt, Lexeme: lexeme, Line: line, Col: col})
}

func (l *Lexer) errorf(line, col int, ch rune, format string, args ...any) error {
	return &LexError{File: l.file, Line: line, Col: col, Char: ch, Msg: fmt.Sprintf(format, args...)}
}

func (l *Lexer) isLetter(r rune) bool { return r != 0 && unicode.IsLetter(r) }

func (l *Lexer) isIdentPart(r rune) bool {
	return l.isLetter(r) || l.g.IsDigit(r) || l.g.IsSpecial(r)
}

// isNumberStart accepts a digit, or a '-' immediately followed by a digit.
func (l *Lexer) isNumberStart() bool {
	if l.peek() == '-' {
		return l.g.IsDigit(l.peekAt(1))
	}
	return l.g.IsDigit(l.peek())
}

// matchOperator returns the longest operator starting at the current
// position, or "" when none matches. The candidate grows while it is still a
// prefix of some operator, so "===" wins over "==" and "=".
func (l *Lexer) matchOperator() string {
	best := ""
	for n := 1; n <= l.g.MaxOperatorLen() && l.pos+n <= len(l.src); n++ {
		cand := string(l.src[l.pos : l.pos+n])
		if !l.g.IsOperatorPrefix(cand) {
			break
		}
		if l.g.IsOperator(cand) {
			best = cand
		}
	}
	return best
}

func (l *Lexer) scanOperator(op string) {
	line, col := l.line, l.col
	for range []rune(op) {
		l.advance()
	}
	l.emit(OPERATOR, op, line, col)
}

// scanNumber collects [-]digits[.digits]. isNumberStart must hold.
func (l *Lexer) scanNumber() error {
	line, col := l.line, l.col
	start := l.pos
	l.advance() // first digit or '-'
	for l.g.IsDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		for l.g.IsDigit(l.peek()) {
			l.advance()
		}
	}
	lexeme := string(l.src[start:l.pos])
	val, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		return l.errorf(line, col, l.src[start], "malformed number %q", lexeme)
	}
	l.tokens = append(l.tokens, Token{Type: NUMBER, Lexeme: lexeme, Number: val, Line: line, Col: col})
	return nil
}

// scanString collects the raw contents between a quote and its matching
// closing quote. No escape sequences are processed.
func (l *Lexer) scanString() error {
	line, col := l.line, l.col
	quote := l.advance()
	start := l.pos
	for !l.atEnd() && l.peek() != quote {
		l.advance()
	}
	if l.atEnd() {
		return l.errorf(line, col, quote, "unterminated string literal")
	}
	value := string(l.src[start:l.pos])
	l.advance() // closing quote
	l.emit(STRING, value, line, col)
	return nil
}

// scanIdent collects an identifier and classifies it as keyword, datatype or
// plain identifier.
func (l *Lexer) scanIdent() {
	line, col := l.line, l.col
	start := l.pos
	for !l.atEnd() && l.isIdentPart(l.peek()) {
		l.advance()
	}
	lexeme := string(l.src[start:l.pos])
	tt := IDENTIFIER
	switch {
	case l.g.IsKeyword(lexeme):
		tt = KEYWORD
	case l.g.IsDatatype(lexeme):
		tt = DATATYPE
	}
	l.emit(tt, lexeme, line, col)
}

// Lex tokenises src and returns all tokens including the final EOF token.
// It returns a *LexError on the first character that starts no token.
//
// Every character class is tested on each iteration rather than in an
// exclusive chain, so one iteration may emit several tokens (for example
// "+=" followed by a number).
func Lex(src, filename string, g *Grammar) ([]Token, error) {
	l := newLexer(src, filename, g)
	for !l.atEnd() {
		start := l.pos

		if g.IsWhitespace(l.peek()) {
			l.advance()
		}

		if l.peek() == '\n' {
			l.emit(LINEBREAK, "\n", l.line, l.col)
			l.advance()
		}

		if op := l.matchOperator(); op != "" {
			l.scanOperator(op)
		} else if !l.isNumberStart() && g.IsBinOperator(string(l.peek())) {
			l.emit(BINOPERATOR, string(l.peek()), l.line, l.col)
			l.advance()
		}

		if l.isNumberStart() {
			if err := l.scanNumber(); err != nil {
				return nil, err
			}
		}

		if g.IsQuote(l.peek()) {
			if err := l.scanString(); err != nil {
				return nil, err
			}
		}

		if g.IsDelimiter(l.peek()) {
			l.emit(DELIMITER, string(l.peek()), l.line, l.col)
			l.advance()
		}

		if l.isLetter(l.peek()) {
			l.scanIdent()
		}

		if l.pos == start {
			ch := l.peek()
			return nil, l.errorf(l.line, l.col, ch, "unknown character '%c'", ch)
		}
	}
	l.emit(EOF, "EOF", l.line, l.col)
	return l.tokens, nil
}
