package permissions

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

func testStore(t *testing.T) *kvstore.Store {
	t.Helper()
	s, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"), logging.NewNop())
	require.NoError(t, err)
	return s
}

func TestDeniedWithoutGrants(t *testing.T) {
	gate := NewGate(NewStaticOracle(), testStore(t), "", logging.NewNop())

	err := gate.EnsureAccess("/some/external/path")
	assert.True(t, errors.Is(err, errs.ErrAccessDenied))

	st := gate.State("/some/external/path")
	assert.Equal(t, TierNone, st.Tier)
	assert.False(t, st.Granted)
}

func TestNilOracleFailsClosed(t *testing.T) {
	gate := NewGate(nil, testStore(t), "", logging.NewNop())
	err := gate.EnsureAccess("/anywhere")
	assert.True(t, errors.Is(err, errs.ErrAccessDenied))
}

func TestScopedMediaGrant(t *testing.T) {
	gate := NewGate(NewStaticOracle(ReadImages), testStore(t), "", logging.NewNop())

	require.NoError(t, gate.EnsureAccess("/pictures"))

	st := gate.State("/pictures")
	assert.Equal(t, TierScopedMedia, st.Tier)
	assert.True(t, st.Granted)
	assert.False(t, st.FullAccess)
}

func TestManageAllGrantsFullTier(t *testing.T) {
	gate := NewGate(NewStaticOracle(ManageAllFiles), testStore(t), "", logging.NewNop())

	st := gate.State("/storage")
	assert.Equal(t, TierFullFilesystem, st.Tier)
	assert.True(t, st.FullAccess)
}

func TestEmpiricalProbePromotesToFull(t *testing.T) {
	root := t.TempDir()
	// A readable restricted dir implies full access even without the grant.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Android", "data"), 0o755))

	gate := NewGate(NewStaticOracle(ReadImages), testStore(t), "", logging.NewNop())
	st := gate.State(root)
	assert.Equal(t, TierFullFilesystem, st.Tier)
}

func TestSandboxBypass(t *testing.T) {
	sandbox := t.TempDir()
	gate := NewGate(NewStaticOracle(), testStore(t), sandbox, logging.NewNop())

	assert.NoError(t, gate.EnsureAccess(filepath.Join(sandbox, "state.json")))
	assert.Error(t, gate.EnsureAccess("/outside"))
}

func TestInstructionFlagPersistedOnce(t *testing.T) {
	store := testStore(t)
	gate := NewGate(NewStaticOracle(), store, "", logging.NewNop())

	_ = gate.EnsureAccess("/external")
	_ = gate.EnsureAccess("/external")

	var shown bool
	ok, err := store.Get(paths.KeyPermissionInstructed, &shown)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, shown)
}

func TestRefreshObservesNewGrants(t *testing.T) {
	oracle := NewStaticOracle()
	gate := NewGate(oracle, testStore(t), "", logging.NewNop())
	assert.False(t, gate.State("/r").Granted)

	oracle.granted[ReadImages] = true
	// Cached state still denied until an explicit refresh.
	assert.False(t, gate.State("/r").Granted)
	assert.True(t, gate.Refresh("/r").Granted)
}
