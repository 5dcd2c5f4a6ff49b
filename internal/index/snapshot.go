package index

import (
	"time"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
)

// Snapshot is an immutable point-in-time view of the catalog. A refresh
// produces a new Snapshot; a reader holding a reference never observes a
// half-updated index.
type Snapshot struct {
	id      string
	builtAt time.Time
	entries map[string]entry.Entry
}

// ID returns the snapshot identity token.
func (s *Snapshot) ID() string {
	return s.id
}

// BuiltAt returns when the walk that produced this snapshot finished.
func (s *Snapshot) BuiltAt() time.Time {
	return s.builtAt
}

// Len returns the number of cataloged entries.
func (s *Snapshot) Len() int {
	return len(s.entries)
}

// Get looks up an entry by path.
func (s *Snapshot) Get(path string) (entry.Entry, bool) {
	e, ok := s.entries[path]
	return e, ok
}

// Entries returns a copy of all entries, in unspecified order.
func (s *Snapshot) Entries() []entry.Entry {
	out := make([]entry.Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	return out
}

// Age returns the time elapsed since the snapshot was built.
func (s *Snapshot) Age() time.Duration {
	return time.Since(s.builtAt)
}

// Expired reports whether the snapshot has outlived ttl.
func (s *Snapshot) Expired(ttl time.Duration) bool {
	return ttl > 0 && s.Age() > ttl
}
