// Package storage abstracts where rendered settings documents live. The
// store layer only ever deals in named byte blobs; everything about
// directories, permissions, and atomicity lives here.
package storage

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-billy/v5/util"
)

// Storage reads and writes named documents. Read reports ok=false when the
// document does not exist, which is not an error: a missing file just means
// everything is still at its default.
type Storage interface {
	Read(name string) (data []byte, ok bool, err error)
	Write(name string, data []byte) error
	Remove(name string) error
}

// Dir is a Storage rooted at a directory of a billy filesystem. Writes go
// through a temporary file and a rename so a crash mid-write never leaves a
// truncated document behind.
type Dir struct {
	fs billy.Filesystem
}

// NewDir returns a Dir backed by the OS filesystem at root. The directory
// is created on first write, not here.
func NewDir(root string) *Dir {
	return &Dir{fs: osfs.New(root)}
}

// NewDirFS returns a Dir over an arbitrary billy filesystem.
func NewDirFS(fs billy.Filesystem) *Dir {
	return &Dir{fs: fs}
}

// NewMemDir returns a Dir over an in-memory filesystem.
func NewMemDir() *Dir {
	return &Dir{fs: memfs.New()}
}

func (d *Dir) Read(name string) ([]byte, bool, error) {
	data, err := util.ReadFile(d.fs, name)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (d *Dir) Write(name string, data []byte) error {
	if dir := filepath.Dir(name); dir != "." {
		if err := d.fs.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmp := name + ".tmp"
	if err := util.WriteFile(d.fs, tmp, data, 0o644); err != nil {
		return err
	}
	return d.fs.Rename(tmp, name)
}

func (d *Dir) Remove(name string) error {
	err := d.fs.Remove(name)
	if err != nil && errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
