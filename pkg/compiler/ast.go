package compiler

import (
	"fmt"
	"strings"
)

// NodeKind identifies the concrete type of a Node.
type NodeKind int

const (
	ScopeNode NodeKind = iota
	BinaryNode
	AssignNode
	VariableNode
	FunctionNode
	CallNode
	ReturnNode
	IfNode
	ForNode
	InterfaceNode
	IncrementNode
	DecrementNode
	BooleanNode
	AccessPropNode
	NumberNode
	StringNode
	IdentifierNode
	NullNode
)

var nodeKindNames = [...]string{
	ScopeNode:      "Scope",
	BinaryNode:     "Binary",
	AssignNode:     "Assign",
	VariableNode:   "Variable",
	FunctionNode:   "Function",
	CallNode:       "Call",
	ReturnNode:     "Return",
	IfNode:         "If",
	ForNode:        "ForLoop",
	InterfaceNode:  "Interface",
	IncrementNode:  "Increment",
	DecrementNode:  "Decrement",
	BooleanNode:    "Boolean",
	AccessPropNode: "AccessProp",
	NumberNode:     "Number",
	StringNode:     "String",
	IdentifierNode: "Identifier",
	NullNode:       "Null",
}

func (k NodeKind) String() string {
	if int(k) < len(nodeKindNames) {
		return nodeKindNames[k]
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Node is the closed set of AST node types produced by Parse.
type Node interface {
	Kind() NodeKind
	String() string
	node()
}

//  Blocks

// Scope is an ordered block of statements. The program root is a Scope named
// "main"; function bodies carry the function name, loop bodies "ForLoop" and
// if/else blocks "Scope".
type Scope struct {
	Name  string
	Stmts []Node
}

func (*Scope) node()            {}
func (*Scope) Kind() NodeKind   { return ScopeNode }
func (s *Scope) String() string { return fmt.Sprintf("Scope(%s, %d stmts)", s.Name, len(s.Stmts)) }

//  Expressions

// Expression is a binary operation or an assignment.
//
//	a = b + 1
//	^ ^ ^^^^^
//	| | Right: Expression{Op: "+"}
//	| Op, Assign: true
//	Left
type Expression struct {
	Left   Node
	Op     string
	Right  Node
	Assign bool // one of = += -= *= /= %=
}

func (*Expression) node() {}
func (e *Expression) Kind() NodeKind {
	if e.Assign {
		return AssignNode
	}
	return BinaryNode
}
func (e *Expression) String() string {
	return fmt.Sprintf("(%s %s %s)", e.Left, e.Op, e.Right)
}

// CallStmt is callee(args...). The callee is an Identifier, AccessProp or
// another CallStmt.
type CallStmt struct {
	Callee Node
	Args   []Node
}

func (*CallStmt) node()          {}
func (*CallStmt) Kind() NodeKind { return CallNode }
func (c *CallStmt) String() string {
	args := make([]string, len(c.Args))
	for i, a := range c.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee, strings.Join(args, ", "))
}

// AccessProp is left.prop. The property is not resolved.
type AccessProp struct {
	Left Node
	Prop Token
}

func (*AccessProp) node()            {}
func (*AccessProp) Kind() NodeKind   { return AccessPropNode }
func (a *AccessProp) String() string { return fmt.Sprintf("%s.%s", a.Left, a.Prop.Lexeme) }

//  Declarations

// VariableStmt is a typed declaration: `let x: number`, `const s: string`,
// or a bare `x: number` (parameters, interface fields).
type VariableStmt struct {
	Name     Token
	Datatype Token
	IsConst  bool
}

func (*VariableStmt) node()          {}
func (*VariableStmt) Kind() NodeKind { return VariableNode }
func (v *VariableStmt) String() string {
	s := fmt.Sprintf("Variable(%s: %s)", v.Name.Lexeme, v.Datatype.Lexeme)
	if v.IsConst {
		s = "const " + s
	}
	return s
}

// FunctionStmt is `function name(params): type { body }`.
type FunctionStmt struct {
	Name       Token
	ReturnType Token
	Params     []*VariableStmt
	Body       *Scope
}

func (*FunctionStmt) node()          {}
func (*FunctionStmt) Kind() NodeKind { return FunctionNode }
func (f *FunctionStmt) String() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name.Lexeme + ": " + p.Datatype.Lexeme
	}
	return fmt.Sprintf("Function(%s(%s): %s)", f.Name.Lexeme, strings.Join(params, ", "), f.ReturnType.Lexeme)
}

// InterfaceStmt is `interface Name { field: type, ... }`.
type InterfaceStmt struct {
	Name   Token
	Fields []*VariableStmt
}

func (*InterfaceStmt) node()          {}
func (*InterfaceStmt) Kind() NodeKind { return InterfaceNode }
func (i *InterfaceStmt) String() string {
	return fmt.Sprintf("Interface(%s, %d fields)", i.Name.Lexeme, len(i.Fields))
}

//  Statements

// ReturnStmt is `return expr`. A bare return carries a NullLit whose token
// is the return keyword itself.
type ReturnStmt struct {
	Value Node
}

func (*ReturnStmt) node()            {}
func (*ReturnStmt) Kind() NodeKind   { return ReturnNode }
func (r *ReturnStmt) String() string { return fmt.Sprintf("Return(%s)", r.Value) }

// IfStmt is `if cond { ... }` with an optional else branch, which is nil, a
// *Scope or a chained *IfStmt.
type IfStmt struct {
	Cond Node
	Then *Scope
	Else Node
}

func (*IfStmt) node()          {}
func (*IfStmt) Kind() NodeKind { return IfNode }
func (i *IfStmt) String() string {
	if i.Else == nil {
		return fmt.Sprintf("If(%s)", i.Cond)
	}
	return fmt.Sprintf("If(%s, else %s)", i.Cond, i.Else.Kind())
}

// ForStmt is `for (init; cond; step) { body }`. Any header part may be nil.
type ForStmt struct {
	Tok  Token // the for keyword
	Init Node
	Cond Node
	Step Node
	Body *Scope
}

func (*ForStmt) node()          {}
func (*ForStmt) Kind() NodeKind { return ForNode }
func (f *ForStmt) String() string {
	return fmt.Sprintf("ForLoop(%s; %s; %s)", nodeString(f.Init), nodeString(f.Cond), nodeString(f.Step))
}

func nodeString(n Node) string {
	if n == nil {
		return "<nil>"
	}
	return n.String()
}

// IncrementStmt is x++.
type IncrementStmt struct {
	Target Token
}

func (*IncrementStmt) node()            {}
func (*IncrementStmt) Kind() NodeKind   { return IncrementNode }
func (i *IncrementStmt) String() string { return i.Target.Lexeme + "++" }

// DecrementStmt is x--.
type DecrementStmt struct {
	Target Token
}

func (*DecrementStmt) node()            {}
func (*DecrementStmt) Kind() NodeKind   { return DecrementNode }
func (d *DecrementStmt) String() string { return d.Target.Lexeme + "--" }

//  Literals

type BooleanLit struct {
	Tok   Token
	Value bool
}

func (*BooleanLit) node()            {}
func (*BooleanLit) Kind() NodeKind   { return BooleanNode }
func (b *BooleanLit) String() string { return b.Tok.Lexeme }

type NumberLit struct {
	Tok Token
}

func (*NumberLit) node()            {}
func (*NumberLit) Kind() NodeKind   { return NumberNode }
func (n *NumberLit) String() string { return n.Tok.Lexeme }

type StringLit struct {
	Tok Token
}

func (*StringLit) node()            {}
func (*StringLit) Kind() NodeKind   { return StringNode }
func (s *StringLit) String() string { return fmt.Sprintf("%q", s.Tok.Lexeme) }

type Identifier struct {
	Tok Token
}

func (*Identifier) node()            {}
func (*Identifier) Kind() NodeKind   { return IdentifierNode }
func (i *Identifier) String() string { return i.Tok.Lexeme }

type NullLit struct {
	Tok Token
}

func (*NullLit) node()          {}
func (*NullLit) Kind() NodeKind { return NullNode }
func (*NullLit) String() string { return "null" }

// bare reports whether the literal stands for an omitted return value.
func (n *NullLit) bare() bool { return n.Tok.Lexeme != "null" }

// Dump renders n and everything below it as an indented tree, one node per
// line.
func Dump(n Node) string {
	var b strings.Builder
	dump(&b, n, 0)
	return b.String()
}

func dump(b *strings.Builder, n Node, depth int) {
	pad := strings.Repeat("  ", depth)
	if n == nil {
		fmt.Fprintf(b, "%s<nil>\n", pad)
		return
	}
	switch n := n.(type) {
	case *Scope:
		fmt.Fprintf(b, "%sScope %s\n", pad, n.Name)
		for _, s := range n.Stmts {
			dump(b, s, depth+1)
		}
	case *Expression:
		fmt.Fprintf(b, "%s%s %s\n", pad, n.Kind(), n.Op)
		dump(b, n.Left, depth+1)
		dump(b, n.Right, depth+1)
	case *CallStmt:
		fmt.Fprintf(b, "%sCall\n", pad)
		dump(b, n.Callee, depth+1)
		for _, a := range n.Args {
			dump(b, a, depth+2)
		}
	case *FunctionStmt:
		fmt.Fprintf(b, "%s%s\n", pad, n)
		dump(b, n.Body, depth+1)
	case *InterfaceStmt:
		fmt.Fprintf(b, "%sInterface %s\n", pad, n.Name.Lexeme)
		for _, f := range n.Fields {
			dump(b, f, depth+1)
		}
	case *IfStmt:
		fmt.Fprintf(b, "%sIf\n", pad)
		dump(b, n.Cond, depth+1)
		dump(b, n.Then, depth+1)
		if n.Else != nil {
			fmt.Fprintf(b, "%sElse\n", pad)
			dump(b, n.Else, depth+1)
		}
	case *ForStmt:
		fmt.Fprintf(b, "%s%s\n", pad, n)
		dump(b, n.Body, depth+1)
	case *ReturnStmt:
		fmt.Fprintf(b, "%sReturn\n", pad)
		dump(b, n.Value, depth+1)
	default:
		fmt.Fprintf(b, "%s%s %s\n", pad, n.Kind(), n)
	}
}
