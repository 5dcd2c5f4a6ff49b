// Package errs defines the error taxonomy shared across the storage core.
//
// Single-item operations return one of the sentinel errors below (wrapped
// with context), so callers can branch with errors.Is. Batch operations
// aggregate per-item failures as ItemError slices and still return their
// partial result.
package errs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

var (
	// ErrAccessDenied indicates the permission gate refused the operation
	// or the OS reported a permission failure.
	ErrAccessDenied = errors.New("access denied")

	// ErrNotFound indicates the path vanished between enumeration and use.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a destination collision on create/copy/move.
	ErrAlreadyExists = errors.New("already exists")

	// ErrIsDirectory indicates an operation that only supports files was
	// given a directory.
	ErrIsDirectory = errors.New("is a directory")

	// ErrInconsistent indicates a recycle-bin metadata/file mismatch.
	ErrInconsistent = errors.New("recycle metadata inconsistent")

	// ErrIO is the generic wrapper for unexpected OS-level failures.
	ErrIO = errors.New("i/o failure")
)

// ItemError records a failure against one path during a batch operation.
type ItemError struct {
	Path string
	Err  error
}

func (e ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e ItemError) Unwrap() error {
	return e.Err
}

// Classify maps an OS error to the taxonomy, preserving the original via %w.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %w", ErrAccessDenied, err)
	case errors.Is(err, fs.ErrExist):
		return fmt.Errorf("%w: %w", ErrAlreadyExists, err)
	default:
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
}

// ClassifyPath is Classify with the offending path prepended.
func ClassifyPath(path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", path, Classify(err))
}

// IsNotExist reports whether err means the path does not exist, whether it
// came from the OS or from this taxonomy.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, os.ErrNotExist)
}
