package compiler

import (
	"errors"
	"fmt"
	"strings"
)

// LexError is returned by Lex when a character starts no token.
type LexError struct {
	File string
	Line int
	Col  int
	Char rune
	Msg  string
}

func (e *LexError) Error() string {
	return fmt.Sprintf("%s: InvalidToken: %s", position(e.File, e.Line, e.Col), e.Msg)
}

// SyntaxError is returned by Parse when the token stream does not fit the
// grammar. Tok is the offending token.
type SyntaxError struct {
	File     string
	Tok      Token
	Expected []string
	Msg      string
}

func (e *SyntaxError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: SyntaxError: ", position(e.File, e.Tok.Line, e.Tok.Col))
	if e.Msg != "" {
		b.WriteString(e.Msg)
	} else {
		fmt.Fprintf(&b, "invalid token '%s'", tokenText(e.Tok))
	}
	if len(e.Expected) > 0 {
		quoted := make([]string, len(e.Expected))
		for i, x := range e.Expected {
			quoted[i] = "'" + printable(x) + "'"
		}
		fmt.Fprintf(&b, " expected %s", strings.Join(quoted, " or "))
	}
	return b.String()
}

// TranspileError reports an AST the generator cannot emit.
type TranspileError struct {
	Node Node
	Msg  string
}

func (e *TranspileError) Error() string {
	return "TranspileError: " + e.Msg
}

// IsIncomplete reports whether err is a syntax error caused by running out
// of input, i.e. more source might still make the program valid.
func IsIncomplete(err error) bool {
	var se *SyntaxError
	return errors.As(err, &se) && se.Tok.Type == EOF
}

// Annotate appends the offending source line and a caret under the error
// column to err's message. Errors without a position are returned unchanged.
//
//	main.ts:2:7: SyntaxError: invalid token '5' expected ':'
//	  |> let x 5
//	  |>       ^
func Annotate(err error, src string) error {
	line, col, ok := errorPosition(err)
	if !ok {
		return err
	}
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return err
	}
	text := strings.TrimRight(lines[line-1], "\r")
	runes := []rune(text)
	lead := runes[:min(max(col-1, 0), len(runes))]
	pad := strings.Map(func(r rune) rune {
		if r == '\t' {
			return '\t'
		}
		return ' '
	}, string(lead))
	return &annotatedError{err: err, snippet: fmt.Sprintf("  |> %s\n  |> %s^", text, pad)}
}

type annotatedError struct {
	err     error
	snippet string
}

func (e *annotatedError) Error() string { return e.err.Error() + "\n" + e.snippet }
func (e *annotatedError) Unwrap() error { return e.err }

func errorPosition(err error) (line, col int, ok bool) {
	var le *LexError
	if errors.As(err, &le) {
		return le.Line, le.Col, true
	}
	var se *SyntaxError
	if errors.As(err, &se) {
		return se.Tok.Line, se.Tok.Col, true
	}
	return 0, 0, false
}

func position(file string, line, col int) string {
	if file == "" {
		file = "<input>"
	}
	return fmt.Sprintf("%s:%d:%d", file, line, col)
}

func tokenText(tok Token) string {
	if tok.Type == EOF {
		return "EOF"
	}
	return printable(tok.Lexeme)
}

func printable(s string) string {
	if s == "\n" {
		return `\n`
	}
	return s
}
