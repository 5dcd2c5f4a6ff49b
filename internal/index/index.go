// Package index builds and serves the in-memory catalog of filesystem
// entries the search engine queries.
//
// The walk covers a bounded set of roots, optionally depth-capped, and
// tolerates unreadable subtrees: they are skipped with a warning while the
// walk continues over siblings. Entries reachable through multiple roots
// are deduplicated by (lowercased name, size) keeping the later modified
// time — an approximation, not a content hash, documented as such.
package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charlievieth/fastwalk"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/id"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Options configures walk depth, snapshot TTL and persistence.
type Options struct {
	// MaxDepth bounds the walk below each root; 0 means unlimited.
	MaxDepth int
	// TTL is the snapshot freshness window; consumers needing fresher data
	// trigger a refresh. There is no background auto-refresh.
	TTL time.Duration
	// Persist serializes snapshots to the key-value store when set.
	Persist bool
}

// Index owns the current snapshot.
type Index struct {
	gate    *permissions.Gate
	store   *kvstore.Store
	metrics *monitoring.Metrics
	log     *logging.Logger
	opts    Options

	mu      sync.RWMutex
	current *Snapshot
}

// New creates a file index. store and metrics may be nil.
func New(gate *permissions.Gate, store *kvstore.Store, metrics *monitoring.Metrics, log *logging.Logger, opts Options) *Index {
	if log == nil {
		log = logging.NewNop()
	}
	if opts.TTL == 0 {
		opts.TTL = 5 * time.Minute
	}
	return &Index{
		gate:    gate,
		store:   store,
		metrics: metrics,
		log:     log.Component("index"),
		opts:    opts,
	}
}

type dedupKey struct {
	name string
	size int64
}

// Build walks roots and publishes a new snapshot. Unreachable roots and
// unreadable subtrees are reported as warnings, never as a failed build.
// On cancellation the partial snapshot is returned with ctx.Err() and NOT
// published, so a half-built catalog never serves searches.
func (ix *Index) Build(ctx context.Context, roots []string) (*Snapshot, []errs.ItemError, error) {
	start := time.Now()

	var mu sync.Mutex
	files := make(map[dedupKey]entry.Entry)
	dirs := make(map[string]entry.Entry)
	var warnings []errs.ItemError

	warn := func(path string, err error) {
		mu.Lock()
		warnings = append(warnings, errs.ItemError{Path: path, Err: err})
		mu.Unlock()
	}

	for _, root := range roots {
		if err := ctx.Err(); err != nil {
			break
		}
		if err := ix.gate.EnsureAccess(root); err != nil {
			warn(root, err)
			continue
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

			rel, relErr := filepath.Rel(root, p)
			if relErr != nil {
				return nil
			}
			depth := len(strings.Split(rel, string(os.PathSeparator)))
			if ix.opts.MaxDepth > 0 && depth > ix.opts.MaxDepth {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}

			info, err := d.Info()
			if err != nil {
				warn(p, errs.Classify(err))
				return nil
			}

			e := entry.FromInfo(p, info)
			mu.Lock()
			if e.IsDir() {
				dirs[e.Path] = e
			} else {
				key := dedupKey{name: strings.ToLower(e.Name), size: e.Size}
				if prev, ok := files[key]; !ok || e.Modified.After(prev.Modified) {
					files[key] = e
				}
			}
			mu.Unlock()
			return nil
		})
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			warn(root, errs.Classify(err))
		}
	}

	entries := make(map[string]entry.Entry, len(files)+len(dirs))
	for _, e := range files {
		entries[e.Path] = e
	}
	for p, e := range dirs {
		entries[p] = e
	}

	snap := &Snapshot{
		id:      id.NewSnapshotID(),
		builtAt: time.Now(),
		entries: entries,
	}

	if err := ctx.Err(); err != nil {
		ix.log.Info("index build cancelled",
			zap.Int("entries", snap.Len()), zap.Duration("elapsed", time.Since(start)))
		return snap, warnings, err
	}

	ix.mu.Lock()
	ix.current = snap
	ix.mu.Unlock()

	ix.metrics.RecordBuild(snap.Len(), time.Since(start), len(warnings))
	ix.log.Info("index built",
		zap.String("snapshot", snap.ID()),
		zap.Int("entries", snap.Len()),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", time.Since(start)))

	if ix.opts.Persist && ix.store != nil {
		if err := ix.persist(snap); err != nil {
			ix.log.Warn("snapshot persistence failed", zap.Error(err))
		}
	}

	return snap, warnings, nil
}

// Refresh rebuilds over the same roots, replacing the published snapshot
// wholesale. The previous snapshot remains valid for readers holding it.
func (ix *Index) Refresh(ctx context.Context, roots []string) (*Snapshot, []errs.ItemError, error) {
	return ix.Build(ctx, roots)
}

// Current returns the published snapshot, or nil before the first build.
func (ix *Index) Current() *Snapshot {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	return ix.current
}

// Fresh reports whether the current snapshot exists and is within TTL.
func (ix *Index) Fresh() bool {
	snap := ix.Current()
	return snap != nil && !snap.Expired(ix.opts.TTL)
}

// Get looks up a path in the current snapshot.
func (ix *Index) Get(path string) (entry.Entry, bool) {
	snap := ix.Current()
	if snap == nil {
		return entry.Entry{}, false
	}
	return snap.Get(path)
}

// TTL returns the configured freshness window.
func (ix *Index) TTL() time.Duration {
	return ix.opts.TTL
}
