package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"tscpp/pkg/compiler"
	"tscpp/pkg/toolchain"
	"tscpp/pkg/utils"
)

func compilerFor(path string) toolchain.Compiler {
	c := toolchain.DefaultCompiler()
	if path != "" {
		c.Path = path
	}
	return c
}

// splitProgramArgs separates the input file from the arguments passed to the
// translated program. A leading "--" is dropped.
func splitProgramArgs(rest []string) (file string, progArgs []string) {
	file = rest[0]
	progArgs = rest[1:]
	if len(progArgs) > 0 && progArgs[0] == "--" {
		progArgs = progArgs[1:]
	}
	return file, progArgs
}

func cmdRun(ctx context.Context, logger *log.Logger, args []string, stdout, stderr io.Writer) int {
	fs := newFlagSet("run", stderr)
	var lf libFlags
	lf.register(fs)
	cxx := fs.String("cxx", "", "C++ compiler to use")
	keep := fs.Bool("keep", true, "keep the generated .cpp file")
	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(stderr, "usage: %s run [flags] <file.ts> [--] [args...]\n", appName)
		return 2
	}
	file, progArgs := splitProgramArgs(fs.Args())

	tr, err := translate(file, &lf)
	if err != nil {
		logger.Print(err)
		return 1
	}
	logWarnings(logger, tr)
	if err := utils.WriteText(tr.cpp, tr.result.Code); err != nil {
		logger.Printf("write %s: %v", tr.cpp, err)
		return 1
	}
	if !*keep {
		defer os.Remove(tr.cpp)
	}

	fmt.Fprintln(stderr, "Compiling...")
	bin := toolchain.BinaryPath(tr.binary)
	if _, err := compilerFor(*cxx).Build(ctx, tr.cpp, bin); err != nil {
		logger.Printf("compilation failed: %v", err)
		return 1
	}

	fmt.Fprintln(stderr, "Running...")
	if err := toolchain.Run(ctx, bin, progArgs, stdout, stderr); err != nil {
		var ee *toolchain.ExitError
		if errors.As(err, &ee) {
			logger.Print(ee)
		} else {
			logger.Printf("run failed: %v", err)
		}
		return 1
	}
	return 0
}

func cmdBuild(ctx context.Context, logger *log.Logger, args []string, stdout io.Writer) int {
	fs := newFlagSet("build", logger.Writer())
	var lf libFlags
	lf.register(fs)
	cxx := fs.String("cxx", "", "C++ compiler to use")
	jobs := fs.Int("j", runtime.NumCPU(), "number of files translated and built at once")
	emitOnly := fs.Bool("emit-only", false, "stop after writing the .cpp files")
	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}
	if fs.NArg() < 1 {
		fmt.Fprintf(logger.Writer(), "usage: %s build [flags] <file.ts>...\n", appName)
		return 2
	}
	if *jobs < 1 {
		*jobs = 1
	}

	files := fs.Args()
	built := make([]string, len(files))
	c := compilerFor(*cxx)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(*jobs)
	for i, file := range files {
		i, file := i, file
		g.Go(func() error {
			out, err := buildOne(gctx, logger, c, file, &lf, *emitOnly)
			if err != nil {
				return fmt.Errorf("%s: %w", file, err)
			}
			built[i] = out
			return nil
		})
	}
	err := g.Wait()

	for _, out := range built {
		if out != "" {
			fmt.Fprintln(stdout, out)
		}
	}
	if err != nil {
		logger.Print(err)
		return 1
	}
	return 0
}

// buildOne translates one file and, unless emitOnly, compiles it. It
// returns the path of the final artefact.
func buildOne(ctx context.Context, logger *log.Logger, c toolchain.Compiler, file string, lf *libFlags, emitOnly bool) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	tr, err := translate(file, lf)
	if err != nil {
		return "", err
	}
	logWarnings(logger, tr)
	if err := utils.WriteText(tr.cpp, tr.result.Code); err != nil {
		return "", err
	}
	if emitOnly {
		return tr.cpp, nil
	}
	bin := toolchain.BinaryPath(tr.binary)
	if _, err := c.Build(ctx, tr.cpp, bin); err != nil {
		return "", err
	}
	return bin, nil
}

func cmdEmit(logger *log.Logger, args []string, stdout io.Writer) int {
	fs := newFlagSet("emit", logger.Writer())
	var lf libFlags
	lf.register(fs)
	outPath := fs.String("o", "", "write the C++ to this file instead of stdout")
	if err := fs.Parse(args); err != nil {
		return flagExit(err)
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(logger.Writer(), "usage: %s emit [flags] <file.ts>\n", appName)
		return 2
	}

	tr, err := translate(fs.Arg(0), &lf)
	if err != nil {
		logger.Print(err)
		return 1
	}
	logWarnings(logger, tr)
	if *outPath == "" {
		fmt.Fprint(stdout, tr.result.Code)
		return 0
	}
	if err := utils.WriteText(*outPath, tr.result.Code); err != nil {
		logger.Printf("write %s: %v", *outPath, err)
		return 1
	}
	return 0
}

func cmdTokens(logger *log.Logger, args []string, stdout io.Writer) int {
	if len(args) != 1 {
		fmt.Fprintf(logger.Writer(), "usage: %s tokens <file.ts>\n", appName)
		return 2
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		logger.Printf("failed to read source file: %v", err)
		return 1
	}
	g := compiler.DefaultGrammar()
	tokens, err := compiler.Lex(string(data), args[0], g)
	if err != nil {
		logger.Print(compiler.Annotate(err, string(data)))
		return 1
	}
	for _, tok := range tokens {
		if dt := g.LiteralDatatype(tok); dt != "" {
			fmt.Fprintf(stdout, "%s  %s\n", tok, dt)
		} else {
			fmt.Fprintln(stdout, tok)
		}
	}
	return 0
}
