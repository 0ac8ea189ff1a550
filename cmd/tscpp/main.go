// Command tscpp translates TypeScript-subset programs to C++ and builds
// and runs them with an external C++ compiler.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tscpp/pkg/compiler"
	"tscpp/pkg/stdlib"
	"tscpp/pkg/utils"
)

const (
	appName = "tscpp"
	version = "0.3.0"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run dispatches one subcommand and returns the process exit code:
// 0 ok, 1 failure, 2 usage error.
func run(args []string, stdout, stderr io.Writer) int {
	logger := log.New(stderr, appName+": ", 0)
	if len(args) < 1 {
		usage(stderr)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch cmd := args[0]; cmd {
	case "run":
		return cmdRun(ctx, logger, args[1:], stdout, stderr)
	case "build":
		return cmdBuild(ctx, logger, args[1:], stdout)
	case "emit":
		return cmdEmit(logger, args[1:], stdout)
	case "tokens":
		return cmdTokens(logger, args[1:], stdout)
	case "repl":
		return cmdRepl(logger, stdout)
	case "version":
		fmt.Fprintln(stdout, appName, version)
		return 0
	case "-h", "--help", "help":
		usage(stdout)
		return 0
	default:
		logger.Printf("unknown command %q", cmd)
		usage(stderr)
		return 2
	}
}

func usage(w io.Writer) {
	fmt.Fprintf(w, `%s %s

Usage:
  %s run   [-cxx path] [-stdlib dir] [-nostdlib] [-keep] <file.ts> [--] [args...]
  %s build [-cxx path] [-stdlib dir] [-nostdlib] [-j N] [-emit-only] <file.ts>...
  %s emit  [-stdlib dir] [-nostdlib] [-o out.cpp] <file.ts>
  %s tokens <file.ts>
  %s repl
  %s version

The C++ compiler defaults to clang++ and can be overridden with -cxx or $TSCPP_CXX.
`, appName, version, appName, appName, appName, appName, appName, appName)
}

// libFlags are the standard library options shared by translating commands.
type libFlags struct {
	dir   string
	noStd bool
}

func (lf *libFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&lf.dir, "stdlib", "", "directory of C++ fragments to use instead of the built-in library")
	fs.BoolVar(&lf.noStd, "nostdlib", false, "do not prepend any C++ library fragments")
}

// libraries returns the fragment texts for an input file living in baseDir.
func (lf *libFlags) libraries(baseDir string) ([]string, error) {
	if lf.noStd {
		return nil, nil
	}
	var (
		frags []stdlib.Fragment
		err   error
	)
	if lf.dir != "" {
		frags, err = stdlib.LoadDir(lf.dir, baseDir)
	} else {
		frags, err = stdlib.Default()
	}
	if err != nil {
		return nil, err
	}
	return stdlib.Sources(frags), nil
}

// flagExit maps a flag parsing error to an exit code; -h is not a failure.
func flagExit(err error) int {
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	return 2
}

func newFlagSet(name string, w io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(appName+" "+name, flag.ContinueOnError)
	fs.SetOutput(w)
	return fs
}

// translation is one translated input file.
type translation struct {
	input  string
	cpp    string // path of the generated C++ file
	binary string // path of the executable
	result *compiler.Result
}

// translate compiles path to C++ source. Syntax errors carry the offending
// source line.
func translate(path string, lf *libFlags) (*translation, error) {
	full, dir, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(full)
	if err != nil {
		return nil, fmt.Errorf("failed to read source file: %w", err)
	}
	libs, err := lf.libraries(dir)
	if err != nil {
		return nil, err
	}
	src := string(data)
	res, err := compiler.Compile(src, path, compiler.Options{Libraries: libs})
	if err != nil {
		return nil, compiler.Annotate(err, src)
	}
	cpp, bin, err := utils.OutputPaths(full)
	if err != nil {
		return nil, err
	}
	return &translation{input: path, cpp: cpp, binary: bin, result: res}, nil
}

func logWarnings(logger *log.Logger, tr *translation) {
	for _, w := range tr.result.Warnings {
		logger.Printf("%s: warning: %s", tr.input, w)
	}
}
