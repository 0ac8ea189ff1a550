package compiler

import "fmt"

// TokenType identifies the category of a lexed token.
type TokenType int

const (
	EOF TokenType = iota // sentinel: end of input

	IDENTIFIER  // variable / function / interface name
	KEYWORD     // let, function, if, true, ...
	DATATYPE    // number, string, boolean, ...
	NUMBER      // 42, -3.5
	STRING      // "..." '...' `...`
	OPERATOR    // = == === != < <= && || += ++ ...
	BINOPERATOR // + - * / %
	DELIMITER   // ; : . , { } ( )
	LINEBREAK   // \n, doubles as a statement separator
)

var tokenNames = [...]string{
	EOF:         "EOF",
	IDENTIFIER:  "IDENTIFIER",
	KEYWORD:     "KEYWORD",
	DATATYPE:    "DATATYPE",
	NUMBER:      "NUMBER",
	STRING:      "STRING",
	OPERATOR:    "OPERATOR",
	BINOPERATOR: "BINOPERATOR",
	DELIMITER:   "DELIMITER",
	LINEBREAK:   "LINEBREAK",
}

func (tt TokenType) String() string {
	if int(tt) >= 0 && int(tt) < len(tokenNames) {
		return tokenNames[tt]
	}
	return fmt.Sprintf("TokenType(%d)", int(tt))
}

// Token is a single lexical unit produced by the Lexer.
type Token struct {
	Type   TokenType
	Lexeme string  // source text; raw contents for strings
	Number float64 // parsed value, NUMBER only
	Line   int     // 1-based source line
	Col    int     // 1-based column
}

func (t Token) String() string {
	return fmt.Sprintf("%-11s %-14q  %d:%d", t.Type, t.Lexeme, t.Line, t.Col)
}

// Is reports whether t has type tt and, when lexeme is non-empty, that lexeme.
func (t Token) Is(tt TokenType, lexeme string) bool {
	return t.Type == tt && (lexeme == "" || t.Lexeme == lexeme)
}
