// Package permissions implements the gate every storage operation passes
// before touching a path outside the app's private sandbox.
//
// Platform dialogs and settings screens stay external: the gate only
// consumes an Oracle that answers granted/denied per permission kind. The
// resulting capability tier is cached process-wide as an explicit State
// value with an explicit Refresh, not an ambient singleton, so tests can
// construct gates deterministically.
package permissions

import (
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

// Kind enumerates the platform permission kinds the gate consults.
type Kind string

const (
	ReadImages         Kind = "read-images"
	ReadVideo          Kind = "read-video"
	ReadAudio          Kind = "read-audio"
	ReadLegacyStorage  Kind = "read-legacy-storage"
	WriteLegacyStorage Kind = "write-legacy-storage"
	ManageAllFiles     Kind = "manage-all-files"
)

// Status is the oracle's answer for one kind.
type Status string

const (
	StatusGranted Status = "granted"
	StatusDenied  Status = "denied"
)

// Oracle is the opaque boolean oracle the platform exposes.
type Oracle interface {
	Check(kind Kind) Status
	Request(kind Kind) Status
}

// Tier is the logical capability level derived from the oracle answers.
type Tier int

const (
	TierNone Tier = iota
	TierScopedMedia
	TierFullFilesystem
)

func (t Tier) String() string {
	switch t {
	case TierScopedMedia:
		return "scoped-media"
	case TierFullFilesystem:
		return "full-filesystem"
	default:
		return "none"
	}
}

// State is the cached, process-wide permission state.
type State struct {
	Tier       Tier      `json:"tier"`
	Granted    bool      `json:"granted"`
	FullAccess bool      `json:"full_access"`
	CheckedAt  time.Time `json:"checked_at"`
}

// Gate probes and caches storage access capability.
type Gate struct {
	oracle  Oracle
	store   *kvstore.Store
	sandbox string
	log     *logging.Logger

	mu    sync.RWMutex
	state *State
}

// NewGate creates a permission gate. Paths under sandbox bypass the gate
// entirely; store persists the one-time instruction flag (may be nil).
func NewGate(oracle Oracle, store *kvstore.Store, sandbox string, log *logging.Logger) *Gate {
	if log == nil {
		log = logging.NewNop()
	}
	return &Gate{
		oracle:  oracle,
		store:   store,
		sandbox: sandbox,
		log:     log.Component("permissions"),
	}
}

// EnsureAccess verifies the process may touch path. It returns nil on
// grant and ErrAccessDenied otherwise; it never retries on its own.
func (g *Gate) EnsureAccess(path string) error {
	if g.sandbox != "" && paths.Within(g.sandbox, path) {
		return nil
	}

	st := g.stateFor(path)
	if st.Granted {
		return nil
	}

	g.showInstructionsOnce()
	return fmt.Errorf("%w: storage permission not granted (open system settings to allow file access)", errs.ErrAccessDenied)
}

// State returns the cached state, computing it against root if absent.
func (g *Gate) State(root string) State {
	return g.stateFor(root)
}

// Refresh recomputes the state against root and replaces the cache.
func (g *Gate) Refresh(root string) State {
	st := g.compute(root)

	g.mu.Lock()
	g.state = &st
	g.mu.Unlock()

	g.log.Debug("permission state refreshed",
		zap.String("tier", st.Tier.String()),
		zap.Bool("full_access", st.FullAccess))
	return st
}

// RequestAccess asks the oracle to prompt for kind and invalidates the
// cached state so the next check observes the outcome.
func (g *Gate) RequestAccess(kind Kind) Status {
	if g.oracle == nil {
		return StatusDenied
	}
	status := g.oracle.Request(kind)

	g.mu.Lock()
	g.state = nil
	g.mu.Unlock()
	return status
}

func (g *Gate) stateFor(root string) State {
	g.mu.RLock()
	cached := g.state
	g.mu.RUnlock()
	if cached != nil {
		return *cached
	}
	return g.Refresh(root)
}

// compute derives the capability tier. Any failure to resolve status is
// treated as denied (fail closed).
func (g *Gate) compute(root string) State {
	st := State{CheckedAt: time.Now()}
	if g.oracle == nil {
		return st
	}

	check := func(k Kind) bool { return g.oracle.Check(k) == StatusGranted }

	switch {
	case check(ManageAllFiles) || g.probeFullAccess(root):
		st.Tier = TierFullFilesystem
		st.FullAccess = true
	case check(ReadImages) || check(ReadVideo) || check(ReadAudio) || check(ReadLegacyStorage):
		st.Tier = TierScopedMedia
	}
	st.Granted = st.Tier != TierNone
	return st
}

// probeFullAccess empirically lists known-restricted directories under
// root; success on any implies full access. Best-effort heuristic.
func (g *Gate) probeFullAccess(root string) bool {
	if root == "" {
		return false
	}
	for _, dir := range paths.RestrictedProbeDirs(root) {
		if _, err := os.ReadDir(dir); err == nil {
			return true
		}
	}
	return false
}

// showInstructionsOnce surfaces remediation guidance the first time access
// is denied; the flag persists so users are not prompted every session.
func (g *Gate) showInstructionsOnce() {
	if g.store == nil {
		return
	}
	var shown bool
	if ok, err := g.store.Get(paths.KeyPermissionInstructed, &shown); err == nil && ok && shown {
		return
	}

	g.log.Info("storage access denied: grant file access in system settings to continue")
	if err := g.store.Set(paths.KeyPermissionInstructed, true); err != nil {
		g.log.Warn("failed to persist instruction flag", zap.Error(err))
	}
}
