package source

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestOSFS_ReadFile(t *testing.T) {
	fsys := NewOS()
	dir := t.TempDir()
	p := filepath.Join(dir, "main.rs")
	if err := os.WriteFile(p, []byte("fn main() {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := fsys.ReadFile(p)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "fn main() {}\n" {
		t.Fatalf("got %q", string(data))
	}

	info, err := fsys.Stat(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatal("expected a directory")
	}
}

func TestMemFS_ReadStat(t *testing.T) {
	m := NewMem()
	if err := m.WriteFile("/fixtures/math/mod.rs", []byte("pub fn sin() {}")); err != nil {
		t.Fatal(err)
	}

	data, err := m.ReadFile("fixtures/math/mod.rs")
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "pub fn sin() {}" {
		t.Fatalf("got %q", string(data))
	}

	info, err := m.Stat("fixtures/math")
	if err != nil {
		t.Fatal(err)
	}
	if !info.IsDir() {
		t.Fatal("expected fixtures/math to be a directory")
	}

	if _, err := m.ReadFile("fixtures/math.rs"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}

	if err := m.Remove("fixtures/math/mod.rs"); err != nil {
		t.Fatal(err)
	}
	if _, err := m.ReadFile("fixtures/math/mod.rs"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist after Remove, got %v", err)
	}
	if err := m.Remove("fixtures/math/mod.rs"); err != nil {
		t.Fatalf("removing a missing file: %v", err)
	}
}

func TestOSFS_RelativeAndMissing(t *testing.T) {
	fsys := NewOS()
	if _, err := fsys.ReadFile("source.go"); err != nil {
		t.Fatalf("relative read: %v", err)
	}
	if _, err := fsys.ReadFile(filepath.Join("..", "source", "source.go")); err != nil {
		t.Fatalf("read above the working directory: %v", err)
	}
	if _, err := fsys.ReadFile(filepath.Join(t.TempDir(), "gone.rs")); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestRel(t *testing.T) {
	tests := []struct {
		base, name, want string
	}{
		{"", "a/b.rs", "a/b.rs"},
		{".", "a/b.rs", "a/b.rs"},
		{"a", "a/b.rs", "b.rs"},
		{"a/", "a/c/d.rs", "c/d.rs"},
		{"x", "a/b.rs", "a/b.rs"},
	}
	for _, tt := range tests {
		if got := Rel(tt.base, tt.name); got != tt.want {
			t.Errorf("Rel(%q, %q) = %q, want %q", tt.base, tt.name, got, tt.want)
		}
	}
}
