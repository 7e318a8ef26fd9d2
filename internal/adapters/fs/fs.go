// Package fs is the filesystem port shared by the pipeline services.
package fs

import (
	iofs "io/fs"
)

type FileSystem interface {
	ReadFile(path string) ([]byte, error)
	ReadDir(path string) ([]iofs.DirEntry, error)
	FileExists(path string) bool
	IsDir(path string) bool
	// WriteFile replaces path atomically, creating parent directories.
	WriteFile(path string, data []byte, perm iofs.FileMode) error
	MkdirAll(path string, perm iofs.FileMode) error
	CopyFile(src, dst string) error
	WalkDir(root string, fn iofs.WalkDirFunc) error
}
