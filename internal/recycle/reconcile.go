package recycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/id"
)

// reconcile aligns metadata records with the holding directory contents.
// Records without a physical file are dropped; files without a record get
// a reconstructed one, recovering the original name from the filename and
// the deletion time from the token's embedded timestamp. The original
// parent directory is unrecoverable for orphans, so restores land them
// directly under the storage root.
func (b *Bin) reconcile(ctx context.Context) ([]errs.ItemError, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	items, err := b.loadItemsLocked()
	if err != nil {
		return nil, err
	}

	physical, err := os.ReadDir(b.holding)
	if err != nil {
		return nil, errs.ClassifyPath(b.holding, err)
	}

	var repairs []errs.ItemError
	changed := false

	recorded := make(map[string]bool, len(items))
	var kept []Item
	for _, rec := range items {
		if _, err := os.Lstat(rec.RecyclePath); err != nil {
			if !os.IsNotExist(err) {
				return repairs, errs.ClassifyPath(rec.RecyclePath, err)
			}
			repairs = append(repairs, errs.ItemError{
				Path: rec.RecyclePath,
				Err:  fmt.Errorf("record without file, dropped: %w", errs.ErrInconsistent),
			})
			changed = true
			continue
		}
		recorded[filepath.Base(rec.RecyclePath)] = true
		kept = append(kept, rec)
	}

	for _, d := range physical {
		if err := ctx.Err(); err != nil {
			return repairs, err
		}
		if d.IsDir() || recorded[d.Name()] {
			continue
		}

		item, ok := b.reconstruct(d)
		if !ok {
			repairs = append(repairs, errs.ItemError{
				Path: filepath.Join(b.holding, d.Name()),
				Err:  fmt.Errorf("unrecognized holding file, skipped: %w", errs.ErrInconsistent),
			})
			continue
		}
		repairs = append(repairs, errs.ItemError{
			Path: item.RecyclePath,
			Err:  fmt.Errorf("file without record, reconstructed: %w", errs.ErrInconsistent),
		})
		kept = append(kept, item)
		changed = true
	}

	if changed {
		if err := b.saveItemsLocked(kept); err != nil {
			return repairs, err
		}
	}
	if len(repairs) > 0 {
		b.log.Warn("reconciled recycle metadata", zap.Int("repairs", len(repairs)))
	}
	return repairs, nil
}

// reconstruct builds a minimal record for an orphaned holding file.
func (b *Bin) reconstruct(d os.DirEntry) (Item, bool) {
	token, originalName, ok := parseRecycleName(d.Name())
	if !ok || !id.IsValid(token) {
		return Item{}, false
	}

	recyclePath := filepath.Join(b.holding, d.Name())
	var size int64
	deletedAt, tsErr := id.Timestamp(token)
	if info, err := d.Info(); err == nil {
		size = info.Size()
		if tsErr != nil {
			deletedAt = info.ModTime()
		}
	} else if tsErr != nil {
		deletedAt = time.Now().UTC()
	}

	return Item{
		ID:           token,
		OriginalPath: filepath.Join(b.root, originalName),
		OriginalName: originalName,
		RecyclePath:  recyclePath,
		DeletedAt:    deletedAt,
		Size:         size,
		Type:         classifyType(recyclePath),
	}, true
}
