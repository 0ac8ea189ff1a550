package compiler

import (
	"slices"
	"strings"
)

// GrammarConfig is the raw vocabulary a Grammar is built from.
// NewGrammar copies everything, so a config may be reused or modified later.
type GrammarConfig struct {
	Ignore       []string // statement separators
	Whitespace   []rune
	Keywords     []string
	Datatypes    []string
	Operators    []string // multi-character and comparison/assignment operators
	BinOperators []string // single-character arithmetic operators
	Digits       string
	Quotes       []rune
	Delimiters   []rune
	Special      []rune // extra identifier characters

	// DataToTok maps a declared datatype to the literal token kinds it accepts.
	DataToTok map[string][]TokenType
	// TokToData maps a literal token kind back to its datatype.
	TokToData map[TokenType]string
	// CTypes maps a declared datatype to its C++ spelling.
	CTypes map[string]string
}

// DefaultConfig returns the vocabulary of the supported TypeScript subset.
func DefaultConfig() GrammarConfig {
	return GrammarConfig{
		Ignore:     []string{";", "\n"},
		Whitespace: []rune{' ', '\t', '\r'},
		Keywords: []string{
			"const", "let", "var", "if", "else", "return", "typeof", "try", "catch",
			"finally", "function", "of", "in", "for", "while", "interface",
			"true", "false", "null",
		},
		Datatypes: []string{"number", "string", "boolean", "object", "any", "void"},
		Operators: []string{
			"=", "==", "===", "!=", "!==", "<", "<=", ">", ">=", "&&", "||",
			"+=", "-=", "*=", "/=", "%=", "++", "--",
		},
		BinOperators: []string{"+", "-", "*", "/", "%"},
		Digits:       "0123456789",
		Quotes:       []rune{'"', '`', '\''},
		Delimiters:   []rune{';', ':', '.', ',', '{', '}', '(', ')'},
		Special:      []rune{'_', '$', '@', '#'},
		DataToTok: map[string][]TokenType{
			"number":  {NUMBER},
			"string":  {STRING},
			"boolean": {KEYWORD},
			"object":  {},
			"any":     {NUMBER, STRING, KEYWORD},
		},
		TokToData: map[TokenType]string{
			NUMBER: "number",
			STRING: "string",
		},
		CTypes: map[string]string{
			"number":  "TSNumber",
			"string":  "std::string",
			"boolean": "bool",
			"void":    "void",
		},
	}
}

// Grammar is the immutable token vocabulary shared by the Lexer, Parser and
// Generator. All lookups are read-only, so one Grammar may serve any number
// of concurrent compilations.
type Grammar struct {
	ignore     map[string]bool
	whitespace map[rune]bool
	keywords   map[string]bool
	datatypes  map[string]bool
	operators  map[string]bool
	binOps     map[string]bool
	digits     string
	quotes     map[rune]bool
	delimiters map[rune]bool
	special    map[rune]bool
	dataToTok  map[string][]TokenType
	tokToData  map[TokenType]string
	ctypes     map[string]string

	opPrefixes     map[string]bool
	maxOperatorLen int
}

// NewGrammar builds a Grammar from cfg.
func NewGrammar(cfg GrammarConfig) *Grammar {
	g := &Grammar{
		ignore:     stringSet(cfg.Ignore),
		whitespace: runeSet(cfg.Whitespace),
		keywords:   stringSet(cfg.Keywords),
		datatypes:  stringSet(cfg.Datatypes),
		operators:  stringSet(cfg.Operators),
		binOps:     stringSet(cfg.BinOperators),
		digits:     cfg.Digits,
		quotes:     runeSet(cfg.Quotes),
		delimiters: runeSet(cfg.Delimiters),
		special:    runeSet(cfg.Special),
		dataToTok:  make(map[string][]TokenType, len(cfg.DataToTok)),
		tokToData:  make(map[TokenType]string, len(cfg.TokToData)),
		ctypes:     make(map[string]string, len(cfg.CTypes)),
		opPrefixes: make(map[string]bool),
	}
	for k, v := range cfg.DataToTok {
		g.dataToTok[k] = slices.Clone(v)
	}
	for k, v := range cfg.TokToData {
		g.tokToData[k] = v
	}
	for k, v := range cfg.CTypes {
		g.ctypes[k] = v
	}
	for _, op := range cfg.Operators {
		rs := []rune(op)
		for i := 1; i <= len(rs); i++ {
			g.opPrefixes[string(rs[:i])] = true
		}
		if len(rs) > g.maxOperatorLen {
			g.maxOperatorLen = len(rs)
		}
	}
	return g
}

// DefaultGrammar returns a Grammar built from DefaultConfig.
func DefaultGrammar() *Grammar {
	return NewGrammar(DefaultConfig())
}

func stringSet(xs []string) map[string]bool {
	m := make(map[string]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func runeSet(xs []rune) map[rune]bool {
	m := make(map[rune]bool, len(xs))
	for _, x := range xs {
		m[x] = true
	}
	return m
}

func (g *Grammar) IsIgnore(s string) bool { return g.ignore[s] }
func (g *Grammar) IsWhitespace(r rune) bool { return g.whitespace[r] }
func (g *Grammar) IsKeyword(s string) bool { return g.keywords[s] }
func (g *Grammar) IsDatatype(s string) bool { return g.datatypes[s] }
func (g *Grammar) IsOperator(s string) bool { return g.operators[s] }
func (g *Grammar) IsBinOperator(s string) bool { return g.binOps[s] }

// IsOperatorPrefix reports whether s is an operator or the start of one.
func (g *Grammar) IsOperatorPrefix(s string) bool { return g.opPrefixes[s] }

func (g *Grammar) IsQuote(r rune) bool { return g.quotes[r] }
func (g *Grammar) IsDelimiter(r rune) bool { return g.delimiters[r] }
func (g *Grammar) IsSpecial(r rune) bool { return g.special[r] }

// IsDigit reports whether r is one of the grammar's digits.
func (g *Grammar) IsDigit(r rune) bool {
	return r != 0 && strings.ContainsRune(g.digits, r)
}

// IgnoreSet returns the statement separators in a stable order.
func (g *Grammar) IgnoreSet() []string {
	out := make([]string, 0, len(g.ignore))
	for s := range g.ignore {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// MaxOperatorLen is the length in runes of the longest operator.
func (g *Grammar) MaxOperatorLen() int { return g.maxOperatorLen }

// CType maps a declared datatype name to its C++ spelling. Unknown names,
// such as user interfaces, pass through unchanged.
func (g *Grammar) CType(name string) string {
	if c, ok := g.ctypes[name]; ok {
		return c
	}
	return name
}

// DatatypeKinds returns the literal token kinds a datatype accepts.
func (g *Grammar) DatatypeKinds(datatype string) []TokenType {
	return slices.Clone(g.dataToTok[datatype])
}

// LiteralDatatype returns the datatype of a literal token, or "" when tok is
// not a literal.
func (g *Grammar) LiteralDatatype(tok Token) string {
	if tok.Type == KEYWORD && (tok.Lexeme == "true" || tok.Lexeme == "false") {
		return "boolean"
	}
	return g.tokToData[tok.Type]
}
