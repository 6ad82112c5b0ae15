package source

import (
	"errors"
	"io/fs"
	"strings"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
)

// MemFS is an in-memory FileSystem. Writing a file creates its parent
// directories. It is safe for concurrent use.
type MemFS struct {
	mu sync.RWMutex
	fs billy.Filesystem
}

func NewMem() *MemFS { return &MemFS{fs: memfs.New()} }

func norm(p string) string {
	return strings.TrimPrefix(Clean(p), "/")
}

// WriteFile stores data under name, replacing any previous content.
func (m *MemFS) WriteFile(name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return util.WriteFile(m.fs, norm(name), data, 0o644)
}

// Remove deletes name. Removing a missing file is not an error.
func (m *MemFS) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.fs.Remove(norm(name)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (m *MemFS) ReadFile(name string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, err := util.ReadFile(m.fs, norm(name))
	if err != nil {
		return nil, &fs.PathError{Op: "read", Path: name, Err: err}
	}
	return data, nil
}

func (m *MemFS) Stat(name string) (fs.FileInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	info, err := m.fs.Stat(norm(name))
	if err != nil {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: err}
	}
	return info, nil
}
