package server

import (
	"io/fs"
	"os"
)

// FileSystem is the file access the resolver needs: an existence probe
// and a whole-file read.
type FileSystem interface {
	Stat(name string) (fs.FileInfo, error)
	ReadFile(name string) ([]byte, error)
}

type osFileSystem struct{}

// OSFileSystem returns a FileSystem backed by the host operating system
func OSFileSystem() FileSystem {
	return osFileSystem{}
}

func (osFileSystem) Stat(name string) (fs.FileInfo, error) {
	return os.Stat(name)
}

func (osFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}
