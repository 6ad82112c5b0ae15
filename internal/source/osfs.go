package source

import (
	"io/fs"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// OSFS reads from the host file system. Names are resolved against the
// working directory, so both relative and absolute paths work.
type OSFS struct {
	fs billy.Filesystem
}

func NewOS() *OSFS { return &OSFS{fs: osfs.New(string(filepath.Separator))} }

func (fsys *OSFS) ReadFile(name string) ([]byte, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	return util.ReadFile(fsys.fs, abs)
}

func (fsys *OSFS) Stat(name string) (fs.FileInfo, error) {
	abs, err := filepath.Abs(name)
	if err != nil {
		return nil, err
	}
	return fsys.fs.Stat(abs)
}
