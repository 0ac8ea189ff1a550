package toolchain

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func TestDefaultCompiler(t *testing.T) {
	t.Setenv(EnvCompiler, "")
	c := DefaultCompiler()
	if c.Path != "clang++" {
		t.Errorf("Path = %q, want clang++", c.Path)
	}
	want := []string{"-pthread", "-std=c++17", "-o", "out", "in.cpp"}
	if got := c.Args("in.cpp", "out"); !reflect.DeepEqual(got, want) {
		t.Errorf("Args() = %q, want %q", got, want)
	}

	t.Setenv(EnvCompiler, "g++-13")
	if got := DefaultCompiler().Path; got != "g++-13" {
		t.Errorf("Path with %s set = %q", EnvCompiler, got)
	}
}

func TestBinaryPath(t *testing.T) {
	got := BinaryPath(filepath.Join("out", "prog"))
	want := filepath.Join("out", "prog")
	if runtime.GOOS == "windows" {
		want += ".exe"
	}
	if got != want {
		t.Errorf("BinaryPath() = %q, want %q", got, want)
	}
}

func TestBuildMissingCompiler(t *testing.T) {
	c := Compiler{Path: "tscpp-no-such-compiler"}
	if c.Available() {
		t.Skip("a compiler with the probe name exists")
	}
	_, err := c.Build(context.Background(), "in.cpp", "out")
	var be *BuildError
	if !errors.As(err, &be) {
		t.Fatalf("expected *BuildError, got %v", err)
	}
	if !strings.Contains(be.Cmd, "tscpp-no-such-compiler") {
		t.Errorf("Cmd = %q", be.Cmd)
	}
}

func requireCompiler(t *testing.T) Compiler {
	t.Helper()
	c := DefaultCompiler()
	if !c.Available() {
		t.Skipf("%s not found on PATH", c.Path)
	}
	return c
}

func TestBuildAndRun(t *testing.T) {
	c := requireCompiler(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "hello.cpp")
	prog := "#include <iostream>\nint main(int argc, char** argv) {\n  std::cout << \"hello \" << argc << std::endl;\n  return argc > 2 ? 3 : 0;\n}\n"
	if err := os.WriteFile(src, []byte(prog), 0o644); err != nil {
		t.Fatal(err)
	}
	bin := BinaryPath(filepath.Join(dir, "hello"))
	if out, err := c.Build(context.Background(), src, bin); err != nil {
		t.Fatalf("Build() error = %v\n%s", err, out)
	}

	var stdout, stderr bytes.Buffer
	if err := Run(context.Background(), bin, []string{"x"}, &stdout, &stderr); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := stdout.String(); got != "hello 2\n" {
		t.Errorf("stdout = %q", got)
	}

	err := Run(context.Background(), bin, []string{"a", "b"}, &stdout, &stderr)
	var ee *ExitError
	if !errors.As(err, &ee) || ee.Code != 3 {
		t.Errorf("expected exit status 3, got %v", err)
	}
}

func TestBuildReportsCompilerOutput(t *testing.T) {
	c := requireCompiler(t)
	dir := t.TempDir()
	src := filepath.Join(dir, "broken.cpp")
	if err := os.WriteFile(src, []byte("int main( {"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := c.Build(context.Background(), src, filepath.Join(dir, "broken"))
	if err == nil {
		t.Fatal("expected build failure")
	}
	if len(out) == 0 {
		t.Error("expected compiler diagnostics")
	}
	if !strings.Contains(err.Error(), "broken.cpp") {
		t.Errorf("error does not mention the source file: %v", err)
	}
}
