package compiler

import (
	"slices"
)

// Parser consumes the flat token slice produced by Lex and builds an AST.
//
// Grammar:
//
//	program    = statement (sep* statement)* EOF
//	statement  = expression
//	expression = postfix (binop expression)*          precedence climbing
//	postfix    = primary ("(" args ")" | "." IDENT)*
//	primary    = "(" expression ")"
//	           | ("let" | "var" | "const") IDENT ":" type
//	           | "return" expression?
//	           | "true" | "false" | "null"
//	           | "function" IDENT "(" params ")" ":" type block
//	           | "if" expression block ("else" (if | block))?
//	           | "for" "(" expression? ";" expression? ";" expression? ")" block
//	           | "interface" IDENT "{" fields "}"
//	           | NUMBER | STRING
//	           | IDENT (":" type | "++" | "--")?
type Parser struct {
	g      *Grammar
	file   string
	tokens []Token
	pos    int

	// negSplit is set when a negative NUMBER token following an operand is
	// being read as binary '-' plus a positive literal.
	negSplit bool

	blockList delimitedList
	topList   delimitedList
}

// delimitedList describes one bracketed, separated list shape.
type delimitedList struct {
	start, end  string // "" means no bracket (start) or EOF (end)
	seps        []string
	sepOptional bool // a separator may be omitted between complete elements
}

var (
	paramList = delimitedList{start: "(", end: ")", seps: []string{","}}
	argList   = delimitedList{start: "(", end: ")", seps: []string{","}}
	fieldList = delimitedList{start: "{", end: "}", seps: []string{",", ";", "\n"}}
)

// precedence is the binding power of every binary and assignment operator.
var precedence = map[string]int{
	"=":   1,
	"+=":  2,
	"-=":  2,
	"*=":  3,
	"/=":  3,
	"%=":  3,
	"||":  4,
	"&&":  5,
	"<":   7,
	">":   7,
	"<=":  7,
	">=":  7,
	"==":  7,
	"===": 7,
	"!=":  7,
	"!==": 7,
	"+":   10,
	"-":   10,
	"*":   20,
	"/":   20,
	"%":   20,
}

var assignOps = map[string]bool{"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true}

func newParser(tokens []Token, file string, g *Grammar) *Parser {
	seps := g.IgnoreSet()
	return &Parser{
		g:         g,
		file:      file,
		tokens:    tokens,
		blockList: delimitedList{start: "{", end: "}", seps: seps, sepOptional: true},
		topList:   delimitedList{seps: seps, sepOptional: true},
	}
}

// Parse builds the program AST from tokens. The result is a single Scope
// named "main". Failures are returned as *SyntaxError.
func Parse(tokens []Token, g *Grammar) (*Scope, error) {
	return parseFile(tokens, "", g)
}

func parseFile(tokens []Token, file string, g *Grammar) (*Scope, error) {
	p := newParser(tokens, file, g)
	stmts, err := p.parseSequence(p.topList, p.parseStatement)
	if err != nil {
		return nil, err
	}
	return &Scope{Name: "main", Stmts: stmts}, nil
}

// peek returns the current token without consuming it.
func (p *Parser) peek() Token {
	if p.pos >= len(p.tokens) {
		return Token{Type: EOF, Lexeme: "EOF"}
	}
	return p.tokens[p.pos]
}

// advance consumes and returns the current token.
func (p *Parser) advance() Token {
	tok := p.peek()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return tok
}

// matches compares by lexeme against any token class except EOF. String
// contents never match punctuation.
func matches(tok Token, lexemes ...string) bool {
	if tok.Type == EOF || tok.Type == STRING {
		return false
	}
	return slices.Contains(lexemes, tok.Lexeme)
}

func (p *Parser) errorf(tok Token, expected ...string) error {
	exp := slices.DeleteFunc(slices.Clone(expected), func(s string) bool { return s == "" })
	return &SyntaxError{File: p.file, Tok: tok, Expected: exp}
}

func (p *Parser) failf(tok Token, msg string) error {
	return &SyntaxError{File: p.file, Tok: tok, Msg: msg}
}

// skip consumes the current token if its lexeme is one of expected.
func (p *Parser) skip(expected ...string) (Token, error) {
	tok := p.peek()
	if !matches(tok, expected...) {
		return tok, p.errorf(tok, expected...)
	}
	return p.advance(), nil
}

func (p *Parser) skipLinebreaks() {
	for p.peek().Type == LINEBREAK {
		p.advance()
	}
}

//  Lists

// parseDelimited reads start, elements separated by list.seps, then end.
func (p *Parser) parseDelimited(list delimitedList, elem func() (Node, error)) ([]Node, error) {
	if _, err := p.skip(list.start); err != nil {
		return nil, err
	}
	nodes, err := p.parseSequence(list, elem)
	if err != nil {
		return nil, err
	}
	if list.end != "" {
		if _, err := p.skip(list.end); err != nil {
			return nil, err
		}
	}
	return nodes, nil
}

func (p *Parser) atListEnd(list delimitedList) bool {
	if list.end == "" {
		return p.peek().Type == EOF
	}
	return matches(p.peek(), list.end)
}

// parseSequence reads elements up to, not including, list.end. Lists whose
// separators include a line break treat any run of separators as one;
// other lists ignore line breaks entirely.
func (p *Parser) parseSequence(list delimitedList, elem func() (Node, error)) ([]Node, error) {
	lineSig := slices.Contains(list.seps, "\n")
	var out []Node
	for first := true; ; first = false {
		sawSep := false
		if lineSig {
			for matches(p.peek(), list.seps...) {
				p.advance()
				sawSep = true
			}
		} else {
			p.skipLinebreaks()
			if !first && matches(p.peek(), list.seps...) {
				p.advance()
				sawSep = true
				p.skipLinebreaks()
			}
		}

		if p.atListEnd(list) {
			return out, nil
		}
		if !first && !sawSep && !list.sepOptional {
			return nil, p.errorf(p.peek(), append(slices.Clone(list.seps), list.end)...)
		}

		start := p.pos
		n, err := elem()
		if err != nil {
			return nil, err
		}
		if p.pos == start {
			return nil, p.errorf(p.peek(), list.end)
		}
		if n != nil {
			out = append(out, n)
		}
	}
}

func (p *Parser) parseBlock(name string) (*Scope, error) {
	p.skipLinebreaks()
	stmts, err := p.parseDelimited(p.blockList, p.parseStatement)
	if err != nil {
		return nil, err
	}
	return &Scope{Name: name, Stmts: stmts}, nil
}

//  Expressions

func (p *Parser) parseStatement() (Node, error) { return p.parseExpression() }

// parseExpression returns nil, nil when the current token starts no
// expression.
func (p *Parser) parseExpression() (Node, error) { return p.parseBinary(0) }

// requireExpression is parseExpression for positions where an expression
// must be present.
func (p *Parser) requireExpression() (Node, error) {
	tok := p.peek()
	n, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if n == nil {
		return nil, p.failf(tok, "invalid token '"+tokenText(tok)+"' expected expression")
	}
	return n, nil
}

// binaryOp reports the operator at tok and its precedence. A negative
// number directly after an operand is read as subtraction.
func (p *Parser) binaryOp(tok Token) (op string, prec int, split bool) {
	switch tok.Type {
	case OPERATOR, BINOPERATOR:
		if pr, ok := precedence[tok.Lexeme]; ok {
			return tok.Lexeme, pr, false
		}
	case NUMBER:
		if len(tok.Lexeme) > 1 && tok.Lexeme[0] == '-' {
			return "-", precedence["-"], true
		}
	}
	return "", 0, false
}

// parseBinary absorbs operators whose precedence strictly exceeds
// threshold. Assignment right-hand sides restart at threshold 0 so that
// a = b = 1 nests to the right.
func (p *Parser) parseBinary(threshold int) (Node, error) {
	left, err := p.parsePostfix()
	if err != nil || left == nil {
		return left, err
	}
	for {
		tok := p.peek()
		op, prec, split := p.binaryOp(tok)
		if op == "" || prec <= threshold {
			return left, nil
		}
		if split {
			p.negSplit = true
		} else {
			p.advance()
		}

		rhsThreshold := prec
		if assignOps[op] {
			rhsThreshold = 0
		}
		operandTok := p.peek()
		right, err := p.parseBinary(rhsThreshold)
		if err != nil {
			return nil, err
		}
		if right == nil {
			return nil, p.failf(operandTok, "invalid token '"+tokenText(operandTok)+"' expected expression after '"+op+"'")
		}
		left = &Expression{Left: left, Op: op, Right: right, Assign: assignOps[op]}
	}
}

func isCallable(n Node) bool {
	switch n.(type) {
	case *Identifier, *AccessProp, *CallStmt:
		return true
	}
	return false
}

func isPropTarget(n Node) bool {
	switch n.(type) {
	case *Identifier, *AccessProp, *CallStmt, *Expression, *StringLit:
		return true
	}
	return false
}

// parsePostfix wraps a primary in calls and property accesses.
func (p *Parser) parsePostfix() (Node, error) {
	n, err := p.parsePrimary()
	if err != nil || n == nil {
		return n, err
	}
	for {
		tok := p.peek()
		switch {
		case matches(tok, "(") && isCallable(n):
			args, err := p.parseDelimited(argList, p.parseExpression)
			if err != nil {
				return nil, err
			}
			n = &CallStmt{Callee: n, Args: args}
		case matches(tok, ".") && isPropTarget(n):
			p.advance()
			prop := p.peek()
			switch prop.Type {
			case IDENTIFIER, KEYWORD, DATATYPE:
				p.advance()
			default:
				return nil, p.failf(prop, "invalid token '"+tokenText(prop)+"' expected property name")
			}
			n = &AccessProp{Left: n, Prop: prop}
		default:
			return n, nil
		}
	}
}

func (p *Parser) parsePrimary() (Node, error) {
	tok := p.peek()
	switch tok.Type {
	case DELIMITER:
		if tok.Lexeme == "(" {
			return p.parseParenthesised()
		}
	case KEYWORD:
		switch tok.Lexeme {
		case "let", "var", "const":
			return p.parseDeclaration()
		case "return":
			return p.parseReturn()
		case "true", "false":
			p.advance()
			return &BooleanLit{Tok: tok, Value: tok.Lexeme == "true"}, nil
		case "null":
			p.advance()
			return &NullLit{Tok: tok}, nil
		case "function":
			return p.parseFunction()
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "interface":
			return p.parseInterface()
		}
	case NUMBER:
		p.advance()
		if p.negSplit {
			p.negSplit = false
			tok.Lexeme = tok.Lexeme[1:]
			tok.Number = -tok.Number
			tok.Col++
		}
		return &NumberLit{Tok: tok}, nil
	case STRING:
		p.advance()
		return &StringLit{Tok: tok}, nil
	case IDENTIFIER:
		return p.parseIdentifier()
	}
	return nil, nil
}

func (p *Parser) parseParenthesised() (Node, error) {
	p.advance() // (
	p.skipLinebreaks()
	inner, err := p.requireExpression()
	if err != nil {
		return nil, err
	}
	p.skipLinebreaks()
	if _, err := p.skip(")"); err != nil {
		return nil, err
	}
	return inner, nil
}

func (p *Parser) parseIdentifier() (Node, error) {
	name := p.advance()
	next := p.peek()
	switch {
	case matches(next, ":"):
		return p.parseTyped(name, false)
	case next.Is(OPERATOR, "++"):
		p.advance()
		return &IncrementStmt{Target: name}, nil
	case next.Is(OPERATOR, "--"):
		p.advance()
		return &DecrementStmt{Target: name}, nil
	}
	return &Identifier{Tok: name}, nil
}

// expectName consumes an IDENTIFIER token.
func (p *Parser) expectName(what string) (Token, error) {
	tok := p.peek()
	if tok.Type != IDENTIFIER {
		return tok, p.failf(tok, "invalid token '"+tokenText(tok)+"' expected "+what)
	}
	return p.advance(), nil
}

// expectType consumes a datatype or an interface name.
func (p *Parser) expectType() (Token, error) {
	tok := p.peek()
	if tok.Type != DATATYPE && tok.Type != IDENTIFIER {
		return tok, p.failf(tok, "invalid token '"+tokenText(tok)+"' expected datatype")
	}
	return p.advance(), nil
}

// parseTyped reads ": type" after an already consumed name.
func (p *Parser) parseTyped(name Token, isConst bool) (*VariableStmt, error) {
	if _, err := p.skip(":"); err != nil {
		return nil, err
	}
	typ, err := p.expectType()
	if err != nil {
		return nil, err
	}
	return &VariableStmt{Name: name, Datatype: typ, IsConst: isConst}, nil
}

func (p *Parser) parseDeclaration() (Node, error) {
	kw := p.advance()
	name, err := p.expectName("identifier")
	if err != nil {
		return nil, err
	}
	return p.parseTyped(name, kw.Lexeme == "const")
}

func (p *Parser) parseReturn() (Node, error) {
	kw := p.advance()
	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if value == nil {
		value = &NullLit{Tok: kw}
	}
	return &ReturnStmt{Value: value}, nil
}

// typedElement parses one list element that must be a typed declaration.
func (p *Parser) typedElement(what string) func() (Node, error) {
	return func() (Node, error) {
		tok := p.peek()
		n, err := p.parseExpression()
		if err != nil || n == nil {
			return n, err
		}
		if _, ok := n.(*VariableStmt); !ok {
			return nil, p.failf(tok, what+" '"+tokenText(tok)+"' requires a type annotation")
		}
		return n, nil
	}
}

func variables(nodes []Node) []*VariableStmt {
	out := make([]*VariableStmt, len(nodes))
	for i, n := range nodes {
		out[i] = n.(*VariableStmt)
	}
	return out
}

func (p *Parser) parseFunction() (Node, error) {
	p.advance() // function
	name, err := p.expectName("function name")
	if err != nil {
		return nil, err
	}
	params, err := p.parseDelimited(paramList, p.typedElement("parameter"))
	if err != nil {
		return nil, err
	}
	if _, err := p.skip(":"); err != nil {
		return nil, err
	}
	ret, err := p.expectType()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock(name.Lexeme)
	if err != nil {
		return nil, err
	}
	return &FunctionStmt{Name: name, ReturnType: ret, Params: variables(params), Body: body}, nil
}

func (p *Parser) parseIf() (Node, error) {
	p.advance() // if
	cond, err := p.requireExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock("Scope")
	if err != nil {
		return nil, err
	}
	stmt := &IfStmt{Cond: cond, Then: then}

	// else may sit on a following line
	save := p.pos
	p.skipLinebreaks()
	if !p.peek().Is(KEYWORD, "else") {
		p.pos = save
		return stmt, nil
	}
	p.advance()
	if p.peek().Is(KEYWORD, "if") {
		stmt.Else, err = p.parseIf()
	} else {
		stmt.Else, err = p.parseBlock("Scope")
	}
	if err != nil {
		return nil, err
	}
	return stmt, nil
}

func (p *Parser) parseFor() (Node, error) {
	kw := p.advance()
	if _, err := p.skip("("); err != nil {
		return nil, err
	}
	var header [3]Node
	for i := range header {
		n, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		header[i] = n
		end := ";"
		if i == 2 {
			end = ")"
		}
		if _, err := p.skip(end); err != nil {
			return nil, err
		}
	}
	body, err := p.parseBlock("ForLoop")
	if err != nil {
		return nil, err
	}
	return &ForStmt{Tok: kw, Init: header[0], Cond: header[1], Step: header[2], Body: body}, nil
}

func (p *Parser) parseInterface() (Node, error) {
	p.advance() // interface
	name, err := p.expectName("interface name")
	if err != nil {
		return nil, err
	}
	p.skipLinebreaks()
	fields, err := p.parseDelimited(fieldList, p.typedElement("field"))
	if err != nil {
		return nil, err
	}
	return &InterfaceStmt{Name: name, Fields: variables(fields)}, nil
}
