package types

import (
	"io"
	"io/fs"
)

// File is an open file handle as returned by FS.Open and FS.CreateTemp.
// *os.File and afero.File both satisfy it.
type File interface {
	io.Reader
	io.ReaderAt
	io.Writer
	io.Closer
	Name() string
	Stat() (fs.FileInfo, error)
	Sync() error
}

// FS is the filesystem interface required for dopatch operations
type FS interface {
	// File operations
	Stat(name string) (fs.FileInfo, error)
	Open(name string) (File, error)
	ReadFile(name string) ([]byte, error)
	WriteFile(name string, data []byte, perm fs.FileMode) error

	// CreateTemp creates a new uniquely named file in dir, open for writing.
	// pattern follows os.CreateTemp: a "*" is replaced by a random string.
	CreateTemp(dir, pattern string) (File, error)

	// Rename moves oldpath to newpath, replacing newpath if it exists.
	// On the OS filesystem this is atomic within one directory.
	Rename(oldpath, newpath string) error

	// Directory operations
	MkdirAll(path string, perm fs.FileMode) error
	ReadDir(name string) ([]fs.DirEntry, error)

	// Other operations
	Remove(name string) error
	RemoveAll(path string) error
}
