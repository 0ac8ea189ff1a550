package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tscpp/pkg/toolchain"
)

func requireCompiler(t *testing.T) {
	t.Helper()
	c := toolchain.DefaultCompiler()
	if !c.Available() {
		t.Skipf("C++ compiler %q not found", c.Path)
	}
}

func TestRunPrograms(t *testing.T) {
	requireCompiler(t)

	tests := []struct {
		name   string
		source string
		output string
	}{
		{
			name: "Factorial",
			source: `
function factorial(n: number): number {
  if n <= 1 {
    return 1
  }
  return n * factorial(n - 1)
}

let x: number = 5
console.log(factorial(x))
`,
			output: "120\n",
		},
		{
			name: "Strings And Booleans",
			source: `
const greeting: string = "hello"
let ok: boolean = 2 > 1
console.log(greeting, ok)
`,
			output: "hello true\n",
		},
		{
			name: "Interface Fields",
			source: `
interface Point {
  x: number
  y: number
}
let p: Point
p.x = 3
p.y = 4
console.log(p.x * p.y)
`,
			output: "12\n",
		},
		{
			name: "Fractions And Branches",
			source: `
let half: number = 7 / 2
if half > 3 {
  console.log(half)
} else {
  console.log("small")
}
`,
			output: "3.5\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := writeSource(t, dir, "prog.ts", tt.source)

			code, stdout, stderr := runCLI("run", path)
			if code != 0 {
				t.Fatalf("exit %d: %s", code, stderr)
			}
			if stdout != tt.output {
				t.Errorf("output = %q, want %q", stdout, tt.output)
			}
			if _, err := os.Stat(filepath.Join(dir, "prog.cpp")); err != nil {
				t.Errorf("generated C++ not kept: %v", err)
			}
		})
	}
}

func TestRunDiscardsCpp(t *testing.T) {
	requireCompiler(t)

	dir := t.TempDir()
	path := writeSource(t, dir, "tmp.ts", "console.log(1)\n")
	if code, _, stderr := runCLI("run", "-keep=false", path); code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(dir, "tmp.cpp")); !os.IsNotExist(err) {
		t.Errorf("expected tmp.cpp to be removed, stat err = %v", err)
	}
}

func TestBuildBinaries(t *testing.T) {
	requireCompiler(t)

	dir := t.TempDir()
	a := writeSource(t, dir, "a.ts", "console.log(\"a\")\n")
	b := writeSource(t, dir, "b.ts", "console.log(\"b\")\n")

	code, stdout, stderr := runCLI("build", "-j", "2", a, b)
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	want := toolchain.BinaryPath(filepath.Join(dir, "a")) + "\n" +
		toolchain.BinaryPath(filepath.Join(dir, "b")) + "\n"
	if stdout != want {
		t.Errorf("stdout = %q, want %q", stdout, want)
	}
	for _, base := range []string{"a", "b"} {
		if _, err := os.Stat(toolchain.BinaryPath(filepath.Join(dir, base))); err != nil {
			t.Errorf("binary %s missing: %v", base, err)
		}
	}
}

func TestRunCompilerFailure(t *testing.T) {
	dir := t.TempDir()
	path := writeSource(t, dir, "p.ts", "console.log(1)\n")

	code, _, stderr := runCLI("run", "-cxx", filepath.Join(dir, "no-such-compiler"), path)
	if code != 1 {
		t.Errorf("exit %d, want 1", code)
	}
	if !strings.Contains(stderr, "compilation failed") {
		t.Errorf("stderr = %q", stderr)
	}
}
