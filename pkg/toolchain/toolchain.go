// Package toolchain drives the external C++ compiler and runs the binaries
// it produces.
package toolchain

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// EnvCompiler overrides the compiler path of DefaultCompiler.
const EnvCompiler = "TSCPP_CXX"

// Compiler is one C++ compiler invocation: Path Flags -o bin src.
type Compiler struct {
	Path  string
	Flags []string
}

// DefaultCompiler returns clang++ with the flags generated code needs, or
// the compiler named by $TSCPP_CXX.
func DefaultCompiler() Compiler {
	path := "clang++"
	if env := strings.TrimSpace(os.Getenv(EnvCompiler)); env != "" {
		path = env
	}
	return Compiler{Path: path, Flags: []string{"-pthread", "-std=c++17"}}
}

// Args returns the full argument list for building cppPath into binPath.
func (c Compiler) Args(cppPath, binPath string) []string {
	args := make([]string, 0, len(c.Flags)+3)
	args = append(args, c.Flags...)
	return append(args, "-o", binPath, cppPath)
}

// Available reports whether the compiler can be found.
func (c Compiler) Available() bool {
	_, err := exec.LookPath(c.Path)
	return err == nil
}

// BuildError is a failed compiler run. Output is the compiler's combined
// stdout and stderr.
type BuildError struct {
	Cmd    string
	Output []byte
	Err    error
}

func (e *BuildError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Cmd, e.Err)
	if out := strings.TrimSpace(string(e.Output)); out != "" {
		msg += "\n" + out
	}
	return msg
}

func (e *BuildError) Unwrap() error { return e.Err }

// Build compiles cppPath into binPath and returns the compiler output.
func (c Compiler) Build(ctx context.Context, cppPath, binPath string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, c.Path, c.Args(cppPath, binPath)...)
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return out, &BuildError{Cmd: cmd.String(), Output: out, Err: err}
	}
	return out, nil
}

// Run executes binPath with args, attached to stdout and stderr. A non-zero
// exit status is returned as an *ExitError.
func Run(ctx context.Context, binPath string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.CommandContext(ctx, binPath, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if errors.As(err, &ee) {
			return &ExitError{Path: binPath, Code: ee.ExitCode()}
		}
		return fmt.Errorf("run %s: %w", binPath, err)
	}
	return nil
}

// ExitError reports a program that ran but exited unsuccessfully.
type ExitError struct {
	Path string
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("%s exited with status %d", e.Path, e.Code)
}

// BinaryPath returns the executable name for base on this platform.
func BinaryPath(base string) string {
	if runtime.GOOS == "windows" && !strings.HasSuffix(strings.ToLower(base), ".exe") {
		return base + ".exe"
	}
	return base
}
