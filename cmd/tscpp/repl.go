package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"tscpp/pkg/compiler"
)

const (
	historyFile = ".tscpp_history"
	promptMain  = "ts> "
	promptCont  = "... "
)

var banner = fmt.Sprintf("%s %s REPL\nEach input is added to the program and the C++ for the whole program is printed.\nCtrl+C cancels input, Ctrl+D exits. Commands: :program :reset :quit\n", appName, version)

// session is the program the REPL has accumulated so far.
type session struct {
	g       *compiler.Grammar
	program string
}

// eval appends code to the program and returns the C++ for the whole
// program. Code that does not translate leaves the session unchanged.
func (s *session) eval(code string) (string, []string, error) {
	candidate := code
	if s.program != "" {
		candidate = s.program + "\n" + code
	}
	res, err := compiler.Compile(candidate, "<repl>", compiler.Options{Grammar: s.g})
	if err != nil {
		return "", nil, compiler.Annotate(err, candidate)
	}
	s.program = candidate
	return res.Code, res.Warnings, nil
}

func cmdRepl(logger *log.Logger, stdout io.Writer) int {
	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	// Load history (best-effort)
	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	fmt.Fprint(stdout, banner)
	s := &session{g: compiler.DefaultGrammar()}
	for {
		code, ok := readByParseProbe(ln, s.g, promptMain, promptCont)
		if !ok {
			fmt.Fprintln(stdout)
			return 0
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":reset":
				s.program = ""
				fmt.Fprintln(stdout, "program cleared")
			case ":program":
				fmt.Fprintln(stdout, s.program)
			default:
				fmt.Fprintln(stdout, "unknown command. Type :quit to exit.")
			}
			continue
		}

		out, warnings, err := s.eval(code)
		if err != nil {
			logger.Print(err)
			continue
		}
		fmt.Fprint(stdout, out)
		for _, w := range warnings {
			logger.Printf("warning: %s", w)
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
	}
}

// readByParseProbe keeps prompting while the input so far parses as an
// unfinished program.
func readByParseProbe(ln *liner.State, g *compiler.Grammar, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = cont
		}
		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			// Ctrl+C drops the pending input
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		if !incomplete(src, g) {
			return src, true
		}
	}
}

func incomplete(src string, g *compiler.Grammar) bool {
	if strings.HasPrefix(strings.TrimSpace(src), ":") {
		return false
	}
	tokens, err := compiler.Lex(src, "", g)
	if err != nil {
		return false
	}
	_, err = compiler.Parse(tokens, g)
	return compiler.IsIncomplete(err)
}
