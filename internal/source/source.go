// Package source abstracts where fixture text comes from. The driver reads
// fixtures and out-of-line module files through a FileSystem so tests can
// run against memory instead of disk.
package source

import (
	"io/fs"
	"path"
	"path/filepath"
	"strings"
)

// FileSystem is the read side of a file tree.
type FileSystem interface {
	ReadFile(name string) ([]byte, error)
	Stat(name string) (fs.FileInfo, error)
}

// Join joins path elements using forward slashes.
func Join(elem ...string) string { return path.Join(elem...) }

// Clean returns the shortest lexical equivalent of p with forward slashes.
func Clean(p string) string { return path.Clean(filepath.ToSlash(p)) }

// Rel returns name relative to base when name lies under base, and name
// unchanged otherwise.
func Rel(base, name string) string {
	base, name = Clean(base), Clean(name)
	if base == "." || base == "" {
		return name
	}
	if rest, ok := strings.CutPrefix(name, base+"/"); ok {
		return rest
	}
	return name
}
