// Package reader enumerates one directory level into normalized entries.
//
// Listing is tolerant of per-child failures: a child whose stat fails (race
// with a concurrent delete, dangling symlink, permission) is included with
// zero metadata and a recorded warning rather than aborting the listing.
// The reader returns filesystem order; callers wanting the conventional
// directories-first presentation apply entry.SortDefault downstream.
package reader

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Reader lists single directory levels.
type Reader struct {
	gate *permissions.Gate
	log  *logging.Logger
}

// New creates a directory reader.
func New(gate *permissions.Gate, log *logging.Logger) *Reader {
	if log == nil {
		log = logging.NewNop()
	}
	return &Reader{gate: gate, log: log.Component("reader")}
}

// List enumerates the immediate children of dir. Warnings carry per-child
// failures; the error is non-nil only when the listing itself is impossible
// (denied, missing, not a directory).
func (r *Reader) List(ctx context.Context, dir string) ([]entry.Entry, []errs.ItemError, error) {
	if err := r.gate.EnsureAccess(dir); err != nil {
		return nil, nil, err
	}

	children, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, errs.ClassifyPath(dir, err)
	}

	entries := make([]entry.Entry, 0, len(children))
	var warnings []errs.ItemError

	for _, child := range children {
		select {
		case <-ctx.Done():
			return entries, warnings, ctx.Err()
		default:
		}

		if child.IsDir() && paths.IsHoldingDirName(child.Name()) {
			continue
		}

		path := dir + string(os.PathSeparator) + child.Name()

		info, err := child.Info()
		if err != nil {
			// Stat raced with an external mutation; keep a partial entry.
			warnings = append(warnings, errs.ItemError{Path: path, Err: errs.Classify(err)})
			r.log.Warn("stat failed, partial entry", zap.String("path", path), zap.Error(err))
			entries = append(entries, entry.Partial(path, child.IsDir()))
			continue
		}

		e := entry.FromInfo(path, info)
		if e.IsDir() {
			e.ChildCount = r.childCount(path, &warnings)
		}
		entries = append(entries, e)
	}

	return entries, warnings, nil
}

// childCount lists a subdirectory to count its immediate children,
// defaulting to 0 on failure instead of propagating the error upward.
func (r *Reader) childCount(dir string, warnings *[]errs.ItemError) int {
	children, err := os.ReadDir(dir)
	if err != nil {
		*warnings = append(*warnings, errs.ItemError{Path: dir, Err: errs.Classify(err)})
		return 0
	}
	return len(children)
}
