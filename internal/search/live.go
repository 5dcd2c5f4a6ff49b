package search

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
	"golang.org/x/sync/errgroup"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// errLimitReached stops a walk early once enough matches are collected.
var errLimitReached = errors.New("result limit reached")

// searchLive walks the scope roots concurrently, one walker per root, and
// joins before returning (no fire-and-forget). Results are deduplicated by
// path; unreadable subtrees become warnings and the walk continues.
func (e *Engine) searchLive(ctx context.Context, query string, scope Scope) ([]entry.Entry, []errs.ItemError, error) {
	q := strings.ToLower(query)

	var mu sync.Mutex
	seen := make(map[string]bool)
	var results []entry.Entry
	var warnings []errs.ItemError

	warn := func(path string, err error) {
		mu.Lock()
		warnings = append(warnings, errs.ItemError{Path: path, Err: err})
		mu.Unlock()
	}

	// Collect a few multiples of the cap so ranking still has exact
	// matches to promote even when partial matches fill up first.
	collectCap := e.opts.Limit * 4

	g, ctx := errgroup.WithContext(ctx)
	for _, root := range scope.Roots {
		g.Go(func() error {
			if err := e.gate.EnsureAccess(root); err != nil {
				warn(root, err)
				return nil
			}

			conf := fastwalk.Config{Follow: false}
			err := fastwalk.Walk(&conf, root, func(p string, d os.DirEntry, err error) error {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}

				if err != nil {
					warn(p, errs.Classify(err))
					return nil
				}
				if p == root {
					return nil
				}
				if d.IsDir() && paths.IsHoldingDirName(d.Name()) {
					return filepath.SkipDir
				}

				if scope.MaxDepth > 0 {
					rel, relErr := filepath.Rel(root, p)
					if relErr == nil && len(strings.Split(rel, string(os.PathSeparator))) > scope.MaxDepth {
						if d.IsDir() {
							return filepath.SkipDir
						}
						return nil
					}
				}

				info, err := d.Info()
				if err != nil {
					warn(p, errs.Classify(err))
					return nil
				}

				ent := entry.FromInfo(p, info)
				if !matches(ent, q) || !globOK(scope.Glob, ent.Name) {
					return nil
				}

				mu.Lock()
				defer mu.Unlock()
				if seen[ent.Path] {
					return nil
				}
				seen[ent.Path] = true
				results = append(results, ent)
				if len(results) >= collectCap {
					return errLimitReached
				}
				return nil
			})
			if err != nil && !errors.Is(err, errLimitReached) {
				return err
			}
			return nil
		})
	}

	err := g.Wait()
	e.logWarnings(warnings)
	ranked := e.rankAndCap(results, query)

	if err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
		// Cancellation yields the partial result set, not nothing.
		return ranked, warnings, err
	}
	if err != nil {
		return ranked, warnings, errs.Classify(err)
	}
	return ranked, warnings, nil
}
