// Package fsops provides filesystem operations with safety guarantees.
//
// All filesystem access in edmv goes through the FS interface. The production
// implementation is backed by the OS filesystem through afero; tests swap in an
// in-memory filesystem.
//
// Key features:
//   - Symlink-aware existence checks (a dangling link still occupies its name)
//   - Plain renames only, never copy-and-delete
//   - Collision-free temporary names next to the file being staged
//   - Testable via the FS interface
package fsops

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/afero"
)

// TempPrefix starts the name of every staged file.
const TempPrefix = ".edmv-"

const (
	tempIDLength = 8
	tempAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"
)

// FS provides an abstraction for filesystem operations.
// All filesystem mutations in edmv must go through this interface.
type FS interface {
	// Lstat returns file info without following symlinks.
	Lstat(path string) (os.FileInfo, error)

	// Exists checks if a path exists. Symlinks are not followed.
	Exists(path string) (bool, error)

	// Rename moves oldpath to newpath. It never copies.
	Rename(oldpath, newpath string) error

	// ReadFile reads the entire contents of a file.
	ReadFile(path string) ([]byte, error)

	// WriteFile writes data to a file, creating it if necessary.
	WriteFile(path string, data []byte, perm os.FileMode) error

	// Remove removes a file or empty directory.
	Remove(path string) error

	// Walk walks the file tree rooted at root in lexical order.
	Walk(root string, fn filepath.WalkFunc) error
}

// AferoFS implements FS on top of an afero filesystem.
type AferoFS struct {
	backend afero.Fs
}

// NewRealFS creates an FS backed by the OS filesystem.
func NewRealFS() *AferoFS {
	return NewAferoFS(afero.NewOsFs())
}

// NewMemFS creates an FS backed by memory, for tests and dry runs.
func NewMemFS() *AferoFS {
	return NewAferoFS(afero.NewMemMapFs())
}

// NewAferoFS wraps the given afero filesystem.
func NewAferoFS(backend afero.Fs) *AferoFS {
	return &AferoFS{backend: backend}
}

// Backend returns the underlying afero filesystem.
func (a *AferoFS) Backend() afero.Fs {
	return a.backend
}

// Lstat returns file info without following symlinks when the backend supports it.
func (a *AferoFS) Lstat(path string) (os.FileInfo, error) {
	if lstater, ok := a.backend.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return a.backend.Stat(path)
}

// Exists checks if a path exists.
func (a *AferoFS) Exists(path string) (bool, error) {
	_, err := a.Lstat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Rename moves oldpath to newpath.
func (a *AferoFS) Rename(oldpath, newpath string) error {
	return a.backend.Rename(oldpath, newpath)
}

// ReadFile reads the entire contents of a file.
func (a *AferoFS) ReadFile(path string) ([]byte, error) {
	return afero.ReadFile(a.backend, path)
}

// WriteFile writes data to a file, creating it if necessary.
func (a *AferoFS) WriteFile(path string, data []byte, perm os.FileMode) error {
	return afero.WriteFile(a.backend, path, data, perm)
}

// Remove removes a file or empty directory.
func (a *AferoFS) Remove(path string) error {
	return a.backend.Remove(path)
}

// Walk walks the file tree rooted at root.
func (a *AferoFS) Walk(root string, fn filepath.WalkFunc) error {
	return afero.Walk(a.backend, root, fn)
}

// TempName returns a candidate staging path in the same directory as path.
// Keeping the staged file next to its source keeps both moves on one filesystem.
func TempName(path string) (string, error) {
	id, err := gonanoid.Generate(tempAlphabet, tempIDLength)
	if err != nil {
		return "", fmt.Errorf("failed to generate temporary name: %w", err)
	}
	return filepath.Join(filepath.Dir(path), TempPrefix+id+"-"+filepath.Base(path)), nil
}

// IsTempName reports whether the base name of path looks like a staging path.
func IsTempName(path string) bool {
	base := filepath.Base(path)
	return len(base) > len(TempPrefix)+tempIDLength && base[:len(TempPrefix)] == TempPrefix
}
