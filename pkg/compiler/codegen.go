package compiler

import (
	"fmt"
	"strconv"
	"strings"
)

// RenderContext says where a rendered node ends up, which decides its
// terminator and whether it needs surrounding parentheses.
type RenderContext int

const (
	StatementContext RenderContext = iota
	SubExpressionContext
	CallArgumentContext
	PostfixTargetContext
)

var terminators = map[RenderContext]string{
	StatementContext:     ";\n",
	SubExpressionContext: "",
	CallArgumentContext:  "",
	PostfixTargetContext: "",
}

const mainHeader = "int main(int argc, char** argv) {\n"

// cppOperators spells source operators that C++ lacks.
var cppOperators = map[string]string{
	"===": "==",
	"!==": "!=",
}

// cppPrecedence is C++'s own binding order for the operators the parser
// accepts, used to decide where parentheses are required.
var cppPrecedence = map[string]int{
	"=": 1, "+=": 1, "-=": 1, "*=": 1, "/=": 1, "%=": 1,
	"||": 2,
	"&&": 3,
	"==": 4, "===": 4, "!=": 4, "!==": 4,
	"<": 5, ">": 5, "<=": 5, ">=": 5,
	"+": 6, "-": 6,
	"*": 7, "/": 7, "%": 7,
}

// Generator turns an AST into C++ source text.
//
// Output layout:
//
//	<library fragments>
//	<hoisted structs and functions>   ← inserted at cursor
//	int main(int argc, char** argv) {
//	  <top-level statements>
//	  return 0;
//	}
type Generator struct {
	g        *Grammar
	libs     []string
	out      []byte
	cursor   int  // byte offset where hoisted declarations are spliced
	entered  bool // the entry point has been opened
	warnings []string
}

// NewGenerator returns a Generator that prepends libs verbatim to its output.
func NewGenerator(g *Grammar, libs ...string) *Generator {
	return &Generator{g: g, libs: libs}
}

// Warnings returns the non-fatal diagnostics of the last Generate call.
func (gen *Generator) Warnings() []string { return gen.warnings }

// Generate renders root. It does not modify the AST.
func (gen *Generator) Generate(root *Scope) (string, error) {
	gen.out = gen.out[:0]
	gen.cursor = 0
	gen.entered = false
	gen.warnings = nil

	for _, lib := range gen.libs {
		gen.out = append(gen.out, lib...)
		gen.out = append(gen.out, "\n\n\n"...)
	}
	if err := gen.emitEntry(root); err != nil {
		return "", err
	}
	return string(gen.out), nil
}

// emitEntry opens main for the first scope visited and writes its
// statements inside it.
func (gen *Generator) emitEntry(root *Scope) error {
	if gen.entered {
		return &TranspileError{Node: root, Msg: "entry point already emitted"}
	}
	gen.entered = true
	gen.cursor = len(gen.out)
	gen.out = append(gen.out, mainHeader...)
	for _, stmt := range root.Stmts {
		text, err := gen.renderStatement(stmt, 1)
		if err != nil {
			return err
		}
		gen.out = append(gen.out, text...)
	}
	gen.out = append(gen.out, indent(1)+"return 0;\n}\n"...)
	return nil
}

// splice inserts text at the cursor and moves the cursor past it.
func (gen *Generator) splice(text string) {
	gen.out = append(gen.out[:gen.cursor], append([]byte(text), gen.out[gen.cursor:]...)...)
	gen.cursor += len(text)
}

func (gen *Generator) hoist(n Node) error {
	var (
		text string
		err  error
	)
	if fn, ok := n.(*FunctionStmt); ok {
		text, err = gen.renderFunction(fn)
	} else {
		text, err = gen.renderStruct(n)
	}
	if err != nil {
		return err
	}
	gen.splice(text + "\n")
	return nil
}

func indent(level int) string { return strings.Repeat("  ", level) }

// renderStatement returns the full lines for one statement. Declarations
// are hoisted and produce nothing in place.
func (gen *Generator) renderStatement(n Node, level int) (string, error) {
	switch n := n.(type) {
	case *FunctionStmt, *InterfaceStmt:
		return "", gen.hoist(n)
	case *ForStmt:
		gen.warnings = append(gen.warnings, fmt.Sprintf("for-loop at line %d is not translated", n.Tok.Line))
		return "", nil
	case *IfStmt:
		text, err := gen.renderIf(n, level)
		if err != nil {
			return "", err
		}
		return indent(level) + text + "\n", nil
	case *Scope:
		text, err := gen.renderBlock(n, level)
		if err != nil {
			return "", err
		}
		return indent(level) + text + "\n", nil
	}
	text, err := gen.render(n, StatementContext)
	if err != nil {
		return "", err
	}
	return indent(level) + text + terminators[StatementContext], nil
}

// renderBlock returns "{\n...}" with the closing brace at level.
func (gen *Generator) renderBlock(s *Scope, level int) (string, error) {
	var b strings.Builder
	b.WriteString("{\n")
	for _, stmt := range s.Stmts {
		text, err := gen.renderStatement(stmt, level+1)
		if err != nil {
			return "", err
		}
		b.WriteString(text)
	}
	b.WriteString(indent(level) + "}")
	return b.String(), nil
}

func (gen *Generator) renderIf(n *IfStmt, level int) (string, error) {
	cond, err := gen.render(n.Cond, SubExpressionContext)
	if err != nil {
		return "", err
	}
	then, err := gen.renderBlock(n.Then, level)
	if err != nil {
		return "", err
	}
	text := "if (" + cond + ") " + then
	switch e := n.Else.(type) {
	case nil:
	case *IfStmt:
		rest, err := gen.renderIf(e, level)
		if err != nil {
			return "", err
		}
		text += " else " + rest
	case *Scope:
		rest, err := gen.renderBlock(e, level)
		if err != nil {
			return "", err
		}
		text += " else " + rest
	default:
		return "", &TranspileError{Node: e, Msg: fmt.Sprintf("unexpected %s in else branch", e.Kind())}
	}
	return text, nil
}

func (gen *Generator) renderFunction(fn *FunctionStmt) (string, error) {
	params := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		params[i] = gen.renderVariable(p)
	}
	body, err := gen.renderBlock(fn.Body, 0)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s(%s) %s\n", gen.g.CType(fn.ReturnType.Lexeme), fn.Name.Lexeme, strings.Join(params, ", "), body), nil
}

// renderStruct emits an interface as a C++ struct. Any other node is an
// internal error.
func (gen *Generator) renderStruct(n Node) (string, error) {
	iface, ok := n.(*InterfaceStmt)
	if !ok {
		return "", &TranspileError{Node: n, Msg: fmt.Sprintf("cannot emit %s as a struct", n.Kind())}
	}
	var b strings.Builder
	fmt.Fprintf(&b, "struct %s {\n", iface.Name.Lexeme)
	for _, f := range iface.Fields {
		b.WriteString(indent(1) + gen.renderVariable(f) + ";\n")
	}
	b.WriteString("};\n")
	return b.String(), nil
}

func (gen *Generator) renderVariable(v *VariableStmt) string {
	decl := gen.g.CType(v.Datatype.Lexeme) + " " + v.Name.Lexeme
	if v.IsConst {
		decl = "const " + decl
	}
	return decl
}

// render returns the inline text of an expression-like node.
func (gen *Generator) render(n Node, ctx RenderContext) (string, error) {
	switch n := n.(type) {
	case *Expression:
		return gen.renderExpression(n, ctx)
	case *VariableStmt:
		return gen.renderVariable(n), nil
	case *CallStmt:
		callee, err := gen.render(n.Callee, PostfixTargetContext)
		if err != nil {
			return "", err
		}
		args := make([]string, len(n.Args))
		for i, a := range n.Args {
			if args[i], err = gen.render(a, CallArgumentContext); err != nil {
				return "", err
			}
		}
		return callee + "(" + strings.Join(args, ", ") + ")", nil
	case *AccessProp:
		left, err := gen.render(n.Left, PostfixTargetContext)
		if err != nil {
			return "", err
		}
		return left + "." + n.Prop.Lexeme, nil
	case *ReturnStmt:
		if null, ok := n.Value.(*NullLit); ok && null.bare() {
			return "return", nil
		}
		value, err := gen.render(n.Value, SubExpressionContext)
		if err != nil {
			return "", err
		}
		return "return " + value, nil
	case *IncrementStmt:
		return n.Target.Lexeme + "++", nil
	case *DecrementStmt:
		return n.Target.Lexeme + "--", nil
	case *NumberLit:
		return "TSNumber(" + strconv.FormatFloat(n.Tok.Number, 'f', -1, 64) + ")", nil
	case *StringLit:
		return `"` + n.Tok.Lexeme + `"`, nil
	case *BooleanLit:
		return strconv.FormatBool(n.Value), nil
	case *NullLit:
		return "nullptr", nil
	case *Identifier:
		return n.Tok.Lexeme, nil
	}
	return "", &TranspileError{Node: n, Msg: fmt.Sprintf("cannot emit %s inside an expression", n.Kind())}
}

func (gen *Generator) renderExpression(e *Expression, ctx RenderContext) (string, error) {
	left, err := gen.renderOperand(e.Left, e.Op, false)
	if err != nil {
		return "", err
	}
	right, err := gen.renderOperand(e.Right, e.Op, true)
	if err != nil {
		return "", err
	}
	op := e.Op
	if c, ok := cppOperators[op]; ok {
		op = c
	}
	text := left + " " + op + " " + right
	if ctx == PostfixTargetContext {
		text = "(" + text + ")"
	}
	return text, nil
}

// renderOperand parenthesises child when C++ would otherwise group it
// differently from the AST.
func (gen *Generator) renderOperand(child Node, parentOp string, right bool) (string, error) {
	text, err := gen.render(child, SubExpressionContext)
	if err != nil {
		return "", err
	}
	inner, ok := child.(*Expression)
	if !ok {
		return text, nil
	}
	parent, own := cppPrecedence[parentOp], cppPrecedence[inner.Op]
	rightAssoc := assignOps[parentOp]
	if own < parent || (own == parent && right != rightAssoc) {
		text = "(" + text + ")"
	}
	return text, nil
}
