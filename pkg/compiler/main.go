// Package compiler provides a TypeScript-subset lexer, parser, and code
// generator that targets C++17 source text.
//
// Pipeline: TS source → Lex → Parse → Generate → C++ source text
package compiler
