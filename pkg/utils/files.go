package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// GetPathInfo returns the absolute path of relPath and the directory that
// contains it.
func GetPathInfo(relPath string) (fullPath string, parentDir string, err error) {
	// Convert to absolute path (resolves ../../ and cleans the path)
	fullPath, err = filepath.Abs(relPath)
	if err != nil {
		return "", "", err
	}

	// Get the directory containing the file
	parentDir = filepath.Dir(fullPath)

	return fullPath, parentDir, nil
}

// ReplaceExt swaps the extension of path for ext ("" strips it).
//
//	ReplaceExt("dir/main.ts", ".cpp") == "dir/main.cpp"
func ReplaceExt(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}

// OutputPaths returns where the generated C++ and the binary for the input
// file inPath are written: next to the input, named after it.
func OutputPaths(inPath string) (cppPath, binBase string, err error) {
	full, _, err := GetPathInfo(inPath)
	if err != nil {
		return "", "", err
	}
	return ReplaceExt(full, ".cpp"), ReplaceExt(full, ""), nil
}

// WriteText writes data to path, replacing any existing file.
func WriteText(path, data string) error {
	return os.WriteFile(path, []byte(data), 0o644)
}
