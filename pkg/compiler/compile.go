package compiler

// Options configures one Compile run. A nil Grammar means DefaultGrammar.
type Options struct {
	Grammar   *Grammar
	Libraries []string // C++ fragments written ahead of the program
}

// Result holds the artefacts of every pipeline stage.
type Result struct {
	Tokens   []Token
	AST      *Scope
	Code     string
	Warnings []string
}

// Compile runs Lex, Parse and Generate over src. The first failing stage
// aborts the run and no partial result is returned.
func Compile(src, filename string, opts Options) (*Result, error) {
	g := opts.Grammar
	if g == nil {
		g = DefaultGrammar()
	}

	tokens, err := Lex(src, filename, g)
	if err != nil {
		return nil, err
	}

	root, err := parseFile(tokens, filename, g)
	if err != nil {
		return nil, err
	}

	gen := NewGenerator(g, opts.Libraries...)
	code, err := gen.Generate(root)
	if err != nil {
		return nil, err
	}

	return &Result{Tokens: tokens, AST: root, Code: code, Warnings: gen.Warnings()}, nil
}
