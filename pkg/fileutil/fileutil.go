// Package fileutil provides small file-system helpers shared by the CLI,
// sinks and sources.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/eunmann/content-filter/pkg/logging"
)

// ErrNotRegular indicates a path exists but is not a regular file.
var ErrNotRegular = errors.New("not a regular file")

// Exists returns true if the file exists.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsNonEmpty returns true if the file exists and has non-zero size.
func IsNonEmpty(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Size() > 0
}

// CheckRegular returns nil if path is an existing regular file.
// Symlinks are followed.
func CheckRegular(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%s: %w", path, ErrNotRegular)
	}
	return nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	return nil
}

// RemoveIfExists deletes path. A missing file is not an error.
// Returns whether a file was removed.
func RemoveIfExists(path string) (bool, error) {
	err := os.Remove(path)
	if err == nil {
		logging.L().Debug().Str("path", path).Msg("removed file")
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("remove %s: %w", path, err)
}
