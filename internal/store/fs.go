package store

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	kerrors "github.com/PolarWolf314/keysmith/internal/errors"
)

// FS is the set of file primitives the store needs.
type FS interface {
	Exists(path string) (bool, error)
	ReadFile(path string) ([]byte, error)
	WriteFile(path string, data []byte) error
	Remove(path string) error
	MkdirAll(path string) error
}

// OSFS implements FS on the local disk. Files are written 0600 and
// directories 0700 since they hold key material.
type OSFS struct{}

// Exists reports whether path exists.
func (OSFS) Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// ReadFile returns the content of path. A missing file is ErrNotFound.
func (OSFS) ReadFile(path string) ([]byte, error) {
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", path, kerrors.ErrNotFound)
	}
	return b, err
}

// WriteFile creates or truncates path.
func (OSFS) WriteFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0600)
}

// Remove deletes path. Removing a missing file is not an error.
func (OSFS) Remove(path string) error {
	err := os.Remove(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MkdirAll creates path and any missing parents.
func (OSFS) MkdirAll(path string) error {
	return os.MkdirAll(path, 0700)
}
