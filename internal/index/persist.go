package index

import (
	"fmt"
	"time"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// persistedSnapshot is the serialized snapshot form: gzip-compressed JSON
// under one key-value store key.
type persistedSnapshot struct {
	ID      string        `json:"id"`
	BuiltAt time.Time     `json:"built_at"`
	Entries []entry.Entry `json:"entries"`
}

func (ix *Index) persist(snap *Snapshot) error {
	ps := persistedSnapshot{
		ID:      snap.ID(),
		BuiltAt: snap.BuiltAt(),
		Entries: snap.Entries(),
	}
	return ix.store.SetCompressed(paths.KeyIndexSnapshot, ps)
}

// Load restores the last persisted snapshot and publishes it. Entries are
// NOT revalidated against disk: stale entries may be served until the next
// refresh, and TTL expiry is computed from the original build time, so a
// restart cannot extend the staleness window.
func (ix *Index) Load() (*Snapshot, error) {
	if ix.store == nil {
		return nil, nil
	}

	var ps persistedSnapshot
	ok, err := ix.store.GetCompressed(paths.KeyIndexSnapshot, &ps)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if !ok {
		return nil, nil
	}

	entries := make(map[string]entry.Entry, len(ps.Entries))
	for _, e := range ps.Entries {
		entries[e.Path] = e
	}
	snap := &Snapshot{id: ps.ID, builtAt: ps.BuiltAt, entries: entries}

	ix.mu.Lock()
	ix.current = snap
	ix.mu.Unlock()
	return snap, nil
}
