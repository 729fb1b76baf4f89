// Package cache manages the on-disk whisper model cache.
package cache

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrCacheDelete matches every *DeleteError.
var ErrCacheDelete = errors.New("cache delete failed")

// DeleteError reports a cache directory that could not be removed.
type DeleteError struct {
	Dir string
	Err error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete %s: %v", e.Dir, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

func (e *DeleteError) Is(target error) bool { return target == ErrCacheDelete }

// DefaultDir returns the directory whisper downloads model weights into.
func DefaultDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "whisper")
}

// PurgeModelCache recursively removes dir. A missing directory is not an
// error. Removing it only forces models to be downloaded again.
func PurgeModelCache(dir string) error {
	if dir == "" {
		return &DeleteError{Dir: dir, Err: errors.New("empty path")}
	}
	if _, err := os.Lstat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return &DeleteError{Dir: dir, Err: err}
	}
	if err := os.RemoveAll(dir); err != nil {
		return &DeleteError{Dir: dir, Err: err}
	}
	return nil
}
