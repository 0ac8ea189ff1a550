package main

import (
	"fmt"
	"os"

	"tscpp/pkg/compiler"
)

const testSource = `interface Point {
  x: number
  y: number
}

function add(a: number, b: number): number {
  return a + b
}

let r: number = add(1, 2)
if r > 2 {
  console.log("big", r)
} else {
  console.log("small")
}
`

func main() {
	src := testSource
	filename := "sample.ts"
	if len(os.Args) > 1 {
		filename = os.Args[1]
		data, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read error:", err)
			os.Exit(1)
		}
		src = string(data)
	}

	fmt.Printf("Source:\n%s\n", src)

	g := compiler.DefaultGrammar()

	// Lex
	tokens, err := compiler.Lex(src, filename, g)
	if err != nil {
		fmt.Fprintln(os.Stderr, "lex error:", compiler.Annotate(err, src))
		os.Exit(1)
	}

	fmt.Printf("Tokens (%d)\n", len(tokens))
	for _, tok := range tokens {
		fmt.Println(" ", tok)
	}
	fmt.Println()

	// Parse
	root, err := compiler.Parse(tokens, g)
	if err != nil {
		fmt.Fprintln(os.Stderr, "parse error:", compiler.Annotate(err, src))
		os.Exit(1)
	}

	fmt.Println("AST")
	fmt.Print(compiler.Dump(root))
	fmt.Println()

	// code Generation
	gen := compiler.NewGenerator(g)
	code, err := gen.Generate(root)
	if err != nil {
		fmt.Fprintln(os.Stderr, "codegen error:", err)
		os.Exit(1)
	}

	fmt.Println("Generated C++")
	fmt.Print(code)
	for _, w := range gen.Warnings() {
		fmt.Println("warning:", w)
	}
}
