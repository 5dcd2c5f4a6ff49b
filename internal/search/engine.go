// Package search implements query execution over the file index, with a
// live filesystem fallback when no fresh snapshot exists.
//
// Matching is case-insensitive substring against the entry name, falling
// back to the full path. Ranking is exact-name-match first, then
// lexicographic; no fuzzy matching. Results are capped to bound UI and
// memory cost on large matches.
package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/index"
	"github.com/GriffinCanCode/FileManager/core/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
)

// Options configures result and recent-query caps.
type Options struct {
	// Limit caps returned results. Default 100.
	Limit int
	// RecentLimit caps the persisted recent-queries list. Default 5.
	RecentLimit int
}

// Scope bounds one search invocation.
type Scope struct {
	// Roots are walked in live mode; ignored in indexed mode.
	Roots []string
	// Glob optionally filters matches by name, doublestar syntax.
	Glob string
	// MaxDepth bounds the live walk; 0 means unlimited.
	MaxDepth int
}

// Engine executes searches.
type Engine struct {
	idx     *index.Index
	gate    *permissions.Gate
	store   *kvstore.Store
	metrics *monitoring.Metrics
	log     *logging.Logger
	opts    Options
}

// New creates a search engine. store and metrics may be nil; idx may be nil
// to force live mode.
func New(idx *index.Index, gate *permissions.Gate, store *kvstore.Store, metrics *monitoring.Metrics, log *logging.Logger, opts Options) *Engine {
	if log == nil {
		log = logging.NewNop()
	}
	if opts.Limit <= 0 {
		opts.Limit = 100
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = 5
	}
	return &Engine{
		idx:     idx,
		gate:    gate,
		store:   store,
		metrics: metrics,
		log:     log.Component("search"),
		opts:    opts,
	}
}

// Search runs query within scope. A fresh index snapshot is scanned without
// touching disk; otherwise the engine falls back to a bounded concurrent
// walk of the scope roots. A 1-character query is valid and simply returns
// capped results.
func (e *Engine) Search(ctx context.Context, query string, scope Scope) ([]entry.Entry, []errs.ItemError, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil, nil
	}
	if scope.Glob != "" && !doublestar.ValidatePattern(scope.Glob) {
		return nil, nil, errs.ItemError{Path: scope.Glob, Err: errs.ErrIO}
	}

	e.recordRecent(query)
	start := time.Now()

	if e.idx != nil && e.idx.Fresh() {
		results := e.searchSnapshot(e.idx.Current(), query, scope.Glob)
		e.metrics.RecordSearch("indexed", time.Since(start))
		return results, nil, nil
	}

	results, warnings, err := e.searchLive(ctx, query, scope)
	e.metrics.RecordSearch("live", time.Since(start))
	return results, warnings, err
}

// searchSnapshot is an O(n) scan over the snapshot; acceptable given the
// result cap and typical index sizes.
func (e *Engine) searchSnapshot(snap *index.Snapshot, query, glob string) []entry.Entry {
	q := strings.ToLower(query)
	var results []entry.Entry
	for _, ent := range snap.Entries() {
		if matches(ent, q) && globOK(glob, ent.Name) {
			results = append(results, ent)
		}
	}
	return e.rankAndCap(results, query)
}

// rankAndCap orders results exact-name-first then lexicographically and
// truncates to the configured cap.
func (e *Engine) rankAndCap(results []entry.Entry, query string) []entry.Entry {
	sort.SliceStable(results, func(i, j int) bool {
		ei := strings.EqualFold(results[i].Name, query)
		ej := strings.EqualFold(results[j].Name, query)
		if ei != ej {
			return ei
		}
		ni, nj := strings.ToLower(results[i].Name), strings.ToLower(results[j].Name)
		if ni != nj {
			return ni < nj
		}
		return results[i].Path < results[j].Path
	})
	if len(results) > e.opts.Limit {
		results = results[:e.opts.Limit]
	}
	return results
}

func matches(ent entry.Entry, loweredQuery string) bool {
	if strings.Contains(strings.ToLower(ent.Name), loweredQuery) {
		return true
	}
	return strings.Contains(strings.ToLower(ent.Path), loweredQuery)
}

func globOK(pattern, name string) bool {
	if pattern == "" {
		return true
	}
	ok, err := doublestar.Match(pattern, name)
	return err == nil && ok
}

func (e *Engine) logWarnings(warnings []errs.ItemError) {
	for _, w := range warnings {
		e.log.Warn("search subtree skipped", zap.String("path", w.Path), zap.Error(w.Err))
	}
}
