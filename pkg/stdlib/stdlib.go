// Package stdlib loads the C++ fragments that are written ahead of every
// translated program.
package stdlib

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"

	"tscpp/lib"
)

// Fragment is one standard-library source file.
type Fragment struct {
	Name   string
	Source string
}

var extensions = []string{".hpp", ".h", ".cpp"}

// Load reads every C++ file directly inside dir of fsys, sorted by name.
// Subdirectories and other files are ignored.
func Load(fsys fs.FS, dir string) ([]Fragment, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read stdlib dir %s: %w", dir, err)
	}

	var frags []Fragment
	for _, e := range entries {
		if e.IsDir() || !slices.Contains(extensions, path.Ext(e.Name())) {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read stdlib file %s: %w", e.Name(), err)
		}
		frags = append(frags, Fragment{Name: e.Name(), Source: string(data)})
	}
	if len(frags) == 0 {
		return nil, fmt.Errorf("no C++ files in stdlib dir %s", dir)
	}
	return frags, nil
}

// Default returns the embedded standard library.
func Default() ([]Fragment, error) {
	return Load(lib.CppFiles, lib.Dir)
}

// LoadDir loads a standard library from disk. A relative dir is looked up
// next to the input file (baseDir) first, then in the working directory.
func LoadDir(dir, baseDir string) ([]Fragment, error) {
	resolved, err := Resolve(dir, baseDir)
	if err != nil {
		return nil, err
	}
	return Load(os.DirFS(resolved), ".")
}

// Resolve returns the absolute directory LoadDir would read.
func Resolve(dir, baseDir string) (string, error) {
	var candidates []string
	if filepath.IsAbs(dir) {
		candidates = []string{dir}
	} else {
		// Priority 1: relative to the input file
		if baseDir != "" {
			candidates = append(candidates, filepath.Join(baseDir, dir))
		}
		// Priority 2: relative to the working directory
		candidates = append(candidates, dir)
	}

	for _, c := range candidates {
		info, err := os.Stat(c)
		if err != nil || !info.IsDir() {
			continue
		}
		return filepath.Abs(c)
	}
	return "", fmt.Errorf("stdlib directory %q not found", dir)
}

// Sources returns the fragment texts in order, ready for the generator.
func Sources(frags []Fragment) []string {
	out := make([]string, len(frags))
	for i, f := range frags {
		out[i] = f.Source
	}
	return out
}
