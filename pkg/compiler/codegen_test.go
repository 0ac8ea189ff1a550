package compiler

import (
	"errors"
	"strings"
	"testing"
)

// assertContains checks if the generated code contains the expected substring.
func assertContains(t *testing.T, code, expected string) {
	t.Helper()
	if !strings.Contains(code, expected) {
		t.Errorf("Expected code to contain %q, but it didn't.\nCode:\n%s", expected, code)
	}
}

func assertNotContains(t *testing.T, code, unexpected string) {
	t.Helper()
	if strings.Contains(code, unexpected) {
		t.Errorf("Expected code not to contain %q.\nCode:\n%s", unexpected, code)
	}
}

func generate(t *testing.T, src string, libs ...string) (string, *Generator) {
	t.Helper()
	root := parseSource(t, src)
	gen := NewGenerator(DefaultGrammar(), libs...)
	code, err := gen.Generate(root)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	return code, gen
}

func TestGenerate_Main(t *testing.T) {
	code, _ := generate(t, "let x: number = 5\nconsole.log(x)")
	want := "int main(int argc, char** argv) {\n" +
		"  TSNumber x = TSNumber(5);\n" +
		"  console.log(x);\n" +
		"  return 0;\n" +
		"}\n"
	if code != want {
		t.Errorf("Generate() mismatch.\nGot:\n%s\nWant:\n%s", code, want)
	}
}

func TestGenerate_HoistsFunctions(t *testing.T) {
	src := "function add(a: number, b: number): number {\n  return a + b\n}\nlet r: number r = add(1, 2);"
	code, _ := generate(t, src)
	want := "TSNumber add(TSNumber a, TSNumber b) {\n" +
		"  return a + b;\n" +
		"}\n" +
		"\n" +
		"int main(int argc, char** argv) {\n" +
		"  TSNumber r;\n" +
		"  r = add(TSNumber(1), TSNumber(2));\n" +
		"  return 0;\n" +
		"}\n"
	if code != want {
		t.Errorf("Generate() mismatch.\nGot:\n%s\nWant:\n%s", code, want)
	}
}

func TestGenerate_HoistOrder(t *testing.T) {
	src := "console.log(1)\n" +
		"function first(): void {\n}\n" +
		"interface Point {\n  x: number\n}\n" +
		"function second(): void {\n}\n"
	code, _ := generate(t, src, "// prelude")

	if !strings.HasPrefix(code, "// prelude\n\n\n") {
		t.Errorf("library fragment not written first:\n%s", code)
	}
	order := []string{"// prelude", "void first()", "struct Point {", "void second()", "int main(", "console.log(TSNumber(1));", "return 0;"}
	last := -1
	for _, s := range order {
		i := strings.Index(code, s)
		if i < 0 {
			t.Fatalf("missing %q in:\n%s", s, code)
		}
		if i < last {
			t.Errorf("%q appears out of order in:\n%s", s, code)
		}
		last = i
	}
}

func TestGenerate_NestedFunctionHoisted(t *testing.T) {
	src := "function outer(): number {\n  function inner(): number {\n    return 1\n  }\n  return inner()\n}"
	code, _ := generate(t, src)
	inner := strings.Index(code, "TSNumber inner()")
	outer := strings.Index(code, "TSNumber outer()")
	mainAt := strings.Index(code, "int main(")
	if inner < 0 || outer < 0 || !(inner < outer && outer < mainAt) {
		t.Errorf("expected inner, outer, main in order:\n%s", code)
	}
	assertContains(t, code, "TSNumber outer() {\n  return inner();\n}\n")
}

func TestGenerate_Expressions(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"Precedence Kept", "x = 1 + 2 * 3", "x = TSNumber(1) + TSNumber(2) * TSNumber(3);"},
		{"Grouping Parens", "x = (1 + 2) * 3", "x = (TSNumber(1) + TSNumber(2)) * TSNumber(3);"},
		{"Right Operand Parens", "x = 1 - (2 - 3)", "x = TSNumber(1) - (TSNumber(2) - TSNumber(3));"},
		{"Left Chain", "x = 1 - 2 - 3", "x = TSNumber(1) - TSNumber(2) - TSNumber(3);"},
		{"Chained Assignment", "a = b = 1", "a = b = TSNumber(1);"},
		{"Compound", "a += 2", "a += TSNumber(2);"},
		{"Strict Equality", "ok = a === b", "ok = a == b;"},
		{"Strict Inequality", "ok = a !== b", "ok = a != b;"},
		{"Equal Precedence Comparisons", "ok = a == b < c", "ok = (a == b) < c;"},
		{"Comparison Parens Dropped", "ok = a == (b < c)", "ok = a == b < c;"},
		{"Logical", "ok = a || b && c", "ok = a || b && c;"},
		{"Negative Split", "x = y -1", "x = y - TSNumber(1);"},
		{"Negative Literal", "x = -2.5", "x = TSNumber(-2.5);"},
		{"Float", "x = 0.125", "x = TSNumber(0.125);"},
		{"String", `let s: string = "hi there"`, `std::string s = "hi there";`},
		{"Boolean", "const b: boolean = true", "const bool b = true;"},
		{"Null", "let p: any = null", "any p = nullptr;"},
		{"Interface Type", "let p: Point", "Point p;"},
		{"Call Args", "f(1, a, \"s\")", `f(TSNumber(1), a, "s");`},
		{"Property Call", "console.log(a.b)", "console.log(a.b);"},
		{"Increment", "i++", "i++;"},
		{"Decrement", "i--", "i--;"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := generate(t, tt.input)
			assertContains(t, code, "  "+tt.expected+"\n")
		})
	}
}

func TestGenerate_IfElse(t *testing.T) {
	src := "if x > 1 {\n  console.log(x)\n} else if x < 0 {\n  x = 0\n} else {\n  x = 1\n}"
	code, _ := generate(t, src)
	want := "  if (x > TSNumber(1)) {\n" +
		"    console.log(x);\n" +
		"  } else if (x < TSNumber(0)) {\n" +
		"    x = TSNumber(0);\n" +
		"  } else {\n" +
		"    x = TSNumber(1);\n" +
		"  }\n"
	assertContains(t, code, want)
}

func TestGenerate_Interface(t *testing.T) {
	code, _ := generate(t, "interface Point {\n  x: number,\n  label: string\n}\nlet p: Point")
	assertContains(t, code, "struct Point {\n  TSNumber x;\n  std::string label;\n};\n\nint main(")
	assertContains(t, code, "  Point p;\n")
	assertNotContains(t, code, "_INTERFACE")
}

func TestGenerate_Returns(t *testing.T) {
	code, _ := generate(t, "function f(): void {\n  return\n}\nfunction g(): any {\n  return null\n}")
	assertContains(t, code, "void f() {\n  return;\n}\n")
	assertContains(t, code, "any g() {\n  return nullptr;\n}\n")
}

func TestGenerate_ForLoopWarning(t *testing.T) {
	code, gen := generate(t, "let i: number\n\nfor (i = 0; i < 3; i++) {\n  console.log(i)\n}")
	assertNotContains(t, code, "for")
	assertNotContains(t, code, "console.log")
	warnings := gen.Warnings()
	if len(warnings) != 1 || warnings[0] != "for-loop at line 3 is not translated" {
		t.Errorf("Warnings() = %q", warnings)
	}
}

func TestGenerate_Reuse(t *testing.T) {
	gen := NewGenerator(DefaultGrammar())
	first, err := gen.Generate(parseSource(t, "function f(): void {\n}\nf()"))
	if err != nil {
		t.Fatal(err)
	}
	second, err := gen.Generate(parseSource(t, "function f(): void {\n}\nf()"))
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("second run differs:\n%s\n---\n%s", first, second)
	}
}

func TestGenerate_DoesNotMutateAST(t *testing.T) {
	root := parseSource(t, "function f(a: number): number {\n  return a\n}\nx = f(1) + 2")
	before := Dump(root)
	if _, err := NewGenerator(DefaultGrammar()).Generate(root); err != nil {
		t.Fatal(err)
	}
	if after := Dump(root); after != before {
		t.Errorf("AST changed.\nBefore:\n%s\nAfter:\n%s", before, after)
	}
}

func TestGenerate_CustomTypeTable(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CTypes["number"] = "double"
	gen := NewGenerator(NewGrammar(cfg))
	code, err := gen.Generate(parseSource(t, "let x: number"))
	if err != nil {
		t.Fatal(err)
	}
	assertContains(t, code, "  double x;\n")
}

func TestRenderStructRejectsOtherNodes(t *testing.T) {
	gen := NewGenerator(DefaultGrammar())
	_, err := gen.renderStruct(&Identifier{Tok: Token{Type: IDENTIFIER, Lexeme: "x"}})
	var te *TranspileError
	if !errors.As(err, &te) {
		t.Fatalf("expected *TranspileError, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "TranspileError: ") {
		t.Errorf("Error() = %q", err.Error())
	}
}
