package stdlib

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func TestLoad(t *testing.T) {
	fsys := fstest.MapFS{
		"std/b.hpp":        {Data: []byte("// b")},
		"std/a.h":          {Data: []byte("// a")},
		"std/c.cpp":        {Data: []byte("// c")},
		"std/README.md":    {Data: []byte("docs")},
		"std/nested/d.hpp": {Data: []byte("// d")},
	}

	frags, err := Load(fsys, "std")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []Fragment{
		{Name: "a.h", Source: "// a"},
		{Name: "b.hpp", Source: "// b"},
		{Name: "c.cpp", Source: "// c"},
	}
	if !reflect.DeepEqual(frags, want) {
		t.Errorf("Load() = %v, want %v", frags, want)
	}
	if got := Sources(frags); !reflect.DeepEqual(got, []string{"// a", "// b", "// c"}) {
		t.Errorf("Sources() = %q", got)
	}
}

func TestLoadErrors(t *testing.T) {
	fsys := fstest.MapFS{"docs/README.md": {Data: []byte("x")}}
	if _, err := Load(fsys, "missing"); err == nil {
		t.Error("expected error for a missing directory")
	}
	if _, err := Load(fsys, "docs"); err == nil {
		t.Error("expected error for a directory without C++ files")
	}
}

func TestDefault(t *testing.T) {
	frags, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	var names []string
	for _, f := range frags {
		names = append(names, f.Name)
	}
	if !reflect.DeepEqual(names, []string{"console.hpp", "number.hpp"}) {
		t.Fatalf("Default() names = %q", names)
	}
	if !strings.Contains(frags[0].Source, "Console console;") {
		t.Error("console.hpp does not define the console object")
	}
	if !strings.Contains(frags[1].Source, "struct TSNumber") {
		t.Error("number.hpp does not define TSNumber")
	}
}

func TestLoadDir(t *testing.T) {
	base := t.TempDir()
	libDir := filepath.Join(base, "mylib")
	if err := os.Mkdir(libDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(libDir, "extra.hpp"), []byte("// extra"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Run("Relative To Input", func(t *testing.T) {
		frags, err := LoadDir("mylib", base)
		if err != nil {
			t.Fatalf("LoadDir() error = %v", err)
		}
		if len(frags) != 1 || frags[0].Source != "// extra" {
			t.Errorf("LoadDir() = %v", frags)
		}
	})

	t.Run("Absolute", func(t *testing.T) {
		frags, err := LoadDir(libDir, "/nonexistent")
		if err != nil {
			t.Fatalf("LoadDir() error = %v", err)
		}
		if len(frags) != 1 {
			t.Errorf("LoadDir() = %v", frags)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		if _, err := LoadDir("does-not-exist", base); err == nil {
			t.Error("expected error")
		}
	})
}
