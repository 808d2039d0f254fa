package fs

import (
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/fx"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// SharpFS will wrap the filesystem operations used by sharpd.
type SharpFS interface {
	MkdirAll(path string) error
	FileExists(path string) (bool, error)
	Abs(path string) (string, error)
	ReadDir(name string) ([]fs.DirEntry, error)
	ReadFile(name string) ([]byte, error)
	Create(name string) (*os.File, error)
}

type fsImpl struct{}

// New creates a new SharpFS.
func New() SharpFS {
	return fsImpl{}
}

// MkdirAll creates a directory and all its parents.
func (fsImpl) MkdirAll(path string) error { return os.MkdirAll(path, os.ModePerm) }

// Abs returns an absolute representation of path.
func (fsImpl) Abs(path string) (string, error) { return filepath.Abs(path) }

// ReadDir reads all the items in a directory (non-recursive)
func (fsImpl) ReadDir(name string) ([]fs.DirEntry, error) {
	return os.ReadDir(name)
}

func (fsImpl) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

func (fsImpl) Create(name string) (*os.File, error) {
	return os.Create(name)
}

func (fsImpl) FileExists(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return !info.IsDir(), nil
}
