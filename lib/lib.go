// Package lib carries the C++ fragments every translated program is built
// against.
package lib

import "embed"

// Dir is the directory inside CppFiles that holds the fragments.
const Dir = "cpp"

// CppFiles holds the default standard library.
//
//go:embed cpp/*.hpp
var CppFiles embed.FS
