// Package id provides centralized ID generation for the storage core.
//
// Recycle tokens, snapshot IDs and query IDs are prefixed ULIDs:
// lexicographically sortable, so holding-directory listings and metadata
// records order by creation time without extra bookkeeping, and the deletion
// timestamp of an orphaned recycle file can be recovered from its token.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Prefixes identify the token's domain in logs and filenames.
const (
	RecyclePrefix  = "rcy"
	SnapshotPrefix = "snap"
	QueryPrefix    = "qry"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex // Protects entropy reader
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a generator with cryptographically secure entropy.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateString creates a new ULID as a string.
func (g *Generator) GenerateString() string {
	return g.Generate().String()
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.GenerateString())
}

// NewRecycleToken generates a token for a recycled item.
func NewRecycleToken() string {
	return Default().GenerateWithPrefix(RecyclePrefix)
}

// NewSnapshotID generates an ID for an index snapshot.
func NewSnapshotID() string {
	return Default().GenerateWithPrefix(SnapshotPrefix)
}

// Strip removes a known prefix from a token, returning the bare ULID.
func Strip(token string) string {
	if i := strings.IndexByte(token, '_'); i >= 0 {
		return token[i+1:]
	}
	return token
}

// IsValid checks if a token carries a parseable ULID.
func IsValid(token string) bool {
	_, err := ulid.Parse(Strip(token))
	return err == nil
}

// Timestamp extracts the embedded creation time from a token.
func Timestamp(token string) (time.Time, error) {
	parsed, err := ulid.Parse(Strip(token))
	if err != nil {
		return time.Time{}, err
	}
	return ulid.Time(parsed.Time()), nil
}
