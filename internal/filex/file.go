// Package filex contains small filesystem helpers for the client.
package filex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotRegularFile is returned by Describe for directories, devices and the like.
var ErrNotRegularFile = errors.New("not a regular file")

// Info is the part of a local file the upload flow cares about.
type Info struct {
	Path string
	Name string
	Size int64
}

// EnsureDir creates dir (and parents) with owner-only permissions and
// returns its absolute path.
func EnsureDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("abs %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o700); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", abs, err)
	}
	return abs, nil
}

// Describe stats path and returns its base name and size.
func Describe(path string) (Info, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return Info{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if !fi.Mode().IsRegular() {
		return Info{}, fmt.Errorf("%s: %w", path, ErrNotRegularFile)
	}
	return Info{Path: path, Name: fi.Name(), Size: fi.Size()}, nil
}
