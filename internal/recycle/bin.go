// Package recycle implements soft deletion through a hidden holding
// directory plus persisted metadata records.
//
// The physical move happens before the metadata write, so every possible
// crash point leaves either a fully recycled item or an orphan file in the
// holding directory; reconciliation at Init repairs the latter. A restore
// removes its record only after the file is back in place, so a crashed
// restore degrades to a still-listed recycle item, never a lost file.
package recycle

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/id"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Bin manages the recycle holding area for one storage root.
type Bin struct {
	root    string
	holding string
	gate    *permissions.Gate
	store   *kvstore.Store
	gen     *id.Generator
	metrics *monitoring.Metrics
	log     *logging.Logger

	// mu serializes metadata read-modify-write cycles so concurrent
	// deletes and restores never clobber each other's records.
	mu sync.Mutex
}

// New creates a recycle bin rooted at root. holdingDirName overrides the
// default holding directory name when non-empty. metrics may be nil.
func New(root, holdingDirName string, gate *permissions.Gate, store *kvstore.Store, metrics *monitoring.Metrics, log *logging.Logger) *Bin {
	if log == nil {
		log = logging.NewNop()
	}
	if holdingDirName == "" {
		holdingDirName = paths.HoldingDirName
	}
	return &Bin{
		root:    root,
		holding: filepath.Join(root, holdingDirName),
		gate:    gate,
		store:   store,
		gen:     id.Default(),
		metrics: metrics,
		log:     log.Component("recycle"),
	}
}

// Root returns the storage root this bin serves.
func (b *Bin) Root() string { return b.root }

// HoldingDir returns the holding directory path.
func (b *Bin) HoldingDir() string { return b.holding }

// Init ensures the holding directory exists and reconciles metadata with
// the files actually present. Safe to call repeatedly; later calls only
// re-run reconciliation. Returned ItemErrors describe repaired
// inconsistencies, not failures.
func (b *Bin) Init(ctx context.Context) ([]errs.ItemError, error) {
	if err := b.gate.EnsureAccess(b.root); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(b.holding, 0o700); err != nil {
		return nil, errs.ClassifyPath(b.holding, err)
	}
	return b.reconcile(ctx)
}

// MoveToRecycleBin soft-deletes the file at path. Directories are rejected
// with ErrIsDirectory; recursive directory recycling is a mutation-layer
// concern, not a holding-area one.
func (b *Bin) MoveToRecycleBin(ctx context.Context, path string) (Item, error) {
	item, err := b.moveToRecycleBin(ctx, path)
	b.metrics.RecordRecycleOp("delete", err)
	return item, err
}

func (b *Bin) moveToRecycleBin(ctx context.Context, path string) (Item, error) {
	if err := ctx.Err(); err != nil {
		return Item{}, err
	}
	if err := b.gate.EnsureAccess(path); err != nil {
		return Item{}, err
	}

	info, err := os.Lstat(path)
	if err != nil {
		return Item{}, errs.ClassifyPath(path, err)
	}
	if info.IsDir() {
		return Item{}, fmt.Errorf("%s: %w", path, errs.ErrIsDirectory)
	}
	if paths.InHoldingDir(b.root, path) {
		return Item{}, fmt.Errorf("%s: already recycled: %w", path, errs.ErrAlreadyExists)
	}

	if err := os.MkdirAll(b.holding, 0o700); err != nil {
		return Item{}, errs.ClassifyPath(b.holding, err)
	}

	token := b.gen.GenerateWithPrefix(id.RecyclePrefix)
	base := filepath.Base(path)
	dest := filepath.Join(b.holding, recycleName(token, base))

	if err := os.Rename(path, dest); err != nil {
		return Item{}, errs.ClassifyPath(path, err)
	}

	item := Item{
		ID:           token,
		OriginalPath: path,
		OriginalName: base,
		RecyclePath:  dest,
		DeletedAt:    time.Now().UTC(),
		Size:         info.Size(),
		Type:         classifyType(dest),
	}

	if err := b.appendRecord(item); err != nil {
		// The file is already staged; losing the record here is exactly
		// what reconciliation repairs on the next Init.
		b.log.Error("recycled file but failed to persist record",
			zap.String("path", path), zap.String("token", token), zap.Error(err))
		return item, err
	}

	b.log.Info("recycled file",
		zap.String("path", path), zap.String("token", token), zap.Int64("size", item.Size))
	return item, nil
}

// List returns all recycled items, newest deletion first.
func (b *Bin) List() ([]Item, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	items, err := b.loadItemsLocked()
	if err != nil {
		return nil, err
	}
	sort.SliceStable(items, func(i, j int) bool {
		if !items[i].DeletedAt.Equal(items[j].DeletedAt) {
			return items[i].DeletedAt.After(items[j].DeletedAt)
		}
		return items[i].ID > items[j].ID
	})
	return items, nil
}

// Restore moves the item identified by itemID back to its original path.
// An existing node at the original path aborts with ErrAlreadyExists and
// the item stays recycled. Missing parent directories are recreated.
func (b *Bin) Restore(ctx context.Context, itemID string) error {
	err := b.restore(ctx, itemID)
	b.metrics.RecordRecycleOp("restore", err)
	return err
}

func (b *Bin) restore(ctx context.Context, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.gate.EnsureAccess(b.root); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.loadItemsLocked()
	if err != nil {
		return err
	}
	idx := indexOf(items, itemID)
	if idx < 0 {
		return fmt.Errorf("recycle item %s: %w", itemID, errs.ErrNotFound)
	}
	rec := items[idx]

	if _, err := os.Lstat(rec.OriginalPath); err == nil {
		return fmt.Errorf("%s: %w", rec.OriginalPath, errs.ErrAlreadyExists)
	} else if !os.IsNotExist(err) {
		return errs.ClassifyPath(rec.OriginalPath, err)
	}

	if err := os.MkdirAll(filepath.Dir(rec.OriginalPath), 0o755); err != nil {
		return errs.ClassifyPath(rec.OriginalPath, err)
	}
	if err := os.Rename(rec.RecyclePath, rec.OriginalPath); err != nil {
		return errs.ClassifyPath(rec.RecyclePath, err)
	}

	// Record removal comes after the move: a crash in between leaves a
	// stale record that reconciliation drops, never a lost file.
	if err := b.saveItemsLocked(append(items[:idx:idx], items[idx+1:]...)); err != nil {
		return err
	}

	b.log.Info("restored file",
		zap.String("token", itemID), zap.String("path", rec.OriginalPath))
	return nil
}

// Purge permanently deletes the item identified by itemID. Purging an
// unknown or already-purged item returns ErrNotFound.
func (b *Bin) Purge(ctx context.Context, itemID string) error {
	err := b.purge(ctx, itemID)
	b.metrics.RecordRecycleOp("purge", err)
	return err
}

func (b *Bin) purge(ctx context.Context, itemID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.gate.EnsureAccess(b.root); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.loadItemsLocked()
	if err != nil {
		return err
	}
	idx := indexOf(items, itemID)
	if idx < 0 {
		return fmt.Errorf("recycle item %s: %w", itemID, errs.ErrNotFound)
	}
	rec := items[idx]

	if err := os.Remove(rec.RecyclePath); err != nil && !os.IsNotExist(err) {
		return errs.ClassifyPath(rec.RecyclePath, err)
	}
	if err := b.saveItemsLocked(append(items[:idx:idx], items[idx+1:]...)); err != nil {
		return err
	}

	b.log.Info("purged file", zap.String("token", itemID))
	return nil
}

// EmptyAll purges every recycled item. Items whose physical delete fails
// keep their records; the failures come back as ItemErrors alongside the
// count of successful purges.
func (b *Bin) EmptyAll(ctx context.Context) (int, []errs.ItemError, error) {
	if err := b.gate.EnsureAccess(b.root); err != nil {
		b.metrics.RecordRecycleOp("empty", err)
		return 0, nil, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.loadItemsLocked()
	if err != nil {
		b.metrics.RecordRecycleOp("empty", err)
		return 0, nil, err
	}

	var kept []Item
	var failures []errs.ItemError
	purged := 0

	for _, rec := range items {
		if err := ctx.Err(); err != nil {
			kept = append(kept, rec)
			continue
		}
		if err := os.Remove(rec.RecyclePath); err != nil && !os.IsNotExist(err) {
			kept = append(kept, rec)
			failures = append(failures, errs.ItemError{Path: rec.RecyclePath, Err: errs.Classify(err)})
			continue
		}
		purged++
	}

	if err := b.saveItemsLocked(kept); err != nil {
		b.metrics.RecordRecycleOp("empty", err)
		return purged, failures, err
	}

	b.metrics.RecordRecycleOp("empty", nil)
	b.log.Info("emptied recycle bin",
		zap.Int("purged", purged), zap.Int("failed", len(failures)))

	if err := ctx.Err(); err != nil {
		return purged, failures, err
	}
	return purged, failures, nil
}

func indexOf(items []Item, itemID string) int {
	for i, it := range items {
		if it.ID == itemID {
			return i
		}
	}
	return -1
}

func (b *Bin) appendRecord(item Item) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.store.Update(paths.KeyRecycleItems, func(raw json.RawMessage) (interface{}, error) {
		var items []Item
		if raw != nil {
			if err := json.Unmarshal(raw, &items); err != nil {
				return nil, fmt.Errorf("decode recycle records: %w", err)
			}
		}
		return append(items, item), nil
	})
}

func (b *Bin) loadItemsLocked() ([]Item, error) {
	var items []Item
	if _, err := b.store.Get(paths.KeyRecycleItems, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (b *Bin) saveItemsLocked(items []Item) error {
	if items == nil {
		items = []Item{}
	}
	return b.store.Set(paths.KeyRecycleItems, items)
}
