package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetPathInfo(t *testing.T) {
	full, dir, err := GetPathInfo(filepath.Join("a", "..", "b", "main.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if !filepath.IsAbs(full) {
		t.Errorf("fullPath %q is not absolute", full)
	}
	if filepath.Base(full) != "main.ts" || filepath.Base(dir) != "b" {
		t.Errorf("got %q, %q", full, dir)
	}
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		in, ext, want string
	}{
		{"main.ts", ".cpp", "main.cpp"},
		{filepath.Join("dir", "prog.ts"), "", filepath.Join("dir", "prog")},
		{"noext", ".cpp", "noext.cpp"},
		{"archive.tar.ts", ".cpp", "archive.tar.cpp"},
	}
	for _, tt := range tests {
		if got := ReplaceExt(tt.in, tt.ext); got != tt.want {
			t.Errorf("ReplaceExt(%q, %q) = %q, want %q", tt.in, tt.ext, got, tt.want)
		}
	}
}

func TestOutputPaths(t *testing.T) {
	dir := t.TempDir()
	cpp, bin, err := OutputPaths(filepath.Join(dir, "hello.ts"))
	if err != nil {
		t.Fatal(err)
	}
	if cpp != filepath.Join(dir, "hello.cpp") || bin != filepath.Join(dir, "hello") {
		t.Errorf("OutputPaths() = %q, %q", cpp, bin)
	}

	if err := WriteText(cpp, "int main() {}\n"); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(cpp)
	if err != nil || string(data) != "int main() {}\n" {
		t.Errorf("read back %q, %v", data, err)
	}
}
