package index

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

func grantedGate() *permissions.Gate {
	return permissions.NewGate(permissions.GrantAll(), nil, "", logging.NewNop())
}

func newTestIndex(t *testing.T, opts Options) *Index {
	t.Helper()
	return New(grantedGate(), nil, nil, logging.NewNop(), opts)
}

func writeFile(t *testing.T, path, content string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	if !mtime.IsZero() {
		require.NoError(t, os.Chtimes(path, mtime, mtime))
	}
}

func TestBuildCatalogsFilesAndDirs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "aaa", time.Time{})
	writeFile(t, filepath.Join(root, "sub", "b.txt"), "bb", time.Time{})

	ix := newTestIndex(t, Options{})
	snap, warnings, err := ix.Build(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Empty(t, warnings)

	e, ok := snap.Get(filepath.Join(root, "a.txt"))
	require.True(t, ok)
	assert.Equal(t, int64(3), e.Size)

	d, ok := snap.Get(filepath.Join(root, "sub"))
	require.True(t, ok)
	assert.True(t, d.IsDir())

	_, ok = snap.Get(filepath.Join(root, "sub", "b.txt"))
	assert.True(t, ok)
}

func TestDedupAcrossRootsKeepsLaterMtime(t *testing.T) {
	pictures := t.TempDir()
	download := t.TempDir()

	older := time.Unix(100, 0)
	newer := time.Unix(150, 0)
	writeFile(t, filepath.Join(pictures, "img1.jpg"), "12345", older)
	writeFile(t, filepath.Join(download, "img1.jpg"), "12345", newer)

	ix := newTestIndex(t, Options{})
	snap, _, err := ix.Build(context.Background(), []string{pictures, download})
	require.NoError(t, err)

	var matches []entry.Entry
	for _, e := range snap.Entries() {
		if e.Name == "img1.jpg" {
			matches = append(matches, e)
		}
	}
	require.Len(t, matches, 1, "same (name, size) in two roots must collapse to one entry")
	assert.Equal(t, filepath.Join(download, "img1.jpg"), matches[0].Path)
	assert.True(t, matches[0].Modified.Equal(newer))
}

func TestDifferentSizesAreNotDeduped(t *testing.T) {
	rootA := t.TempDir()
	rootB := t.TempDir()
	writeFile(t, filepath.Join(rootA, "photo.jpg"), "small", time.Time{})
	writeFile(t, filepath.Join(rootB, "photo.jpg"), "much larger body", time.Time{})

	ix := newTestIndex(t, Options{})
	snap, _, err := ix.Build(context.Background(), []string{rootA, rootB})
	require.NoError(t, err)

	count := 0
	for _, e := range snap.Entries() {
		if e.Name == "photo.jpg" {
			count++
		}
	}
	assert.Equal(t, 2, count)
}

func TestMaxDepthBoundsWalk(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "top.txt"), "x", time.Time{})
	writeFile(t, filepath.Join(root, "l1", "mid.txt"), "x", time.Time{})
	writeFile(t, filepath.Join(root, "l1", "l2", "deep.txt"), "x", time.Time{})

	ix := newTestIndex(t, Options{MaxDepth: 2})
	snap, _, err := ix.Build(context.Background(), []string{root})
	require.NoError(t, err)

	_, ok := snap.Get(filepath.Join(root, "top.txt"))
	assert.True(t, ok)
	_, ok = snap.Get(filepath.Join(root, "l1", "mid.txt"))
	assert.True(t, ok)
	_, ok = snap.Get(filepath.Join(root, "l1", "l2", "deep.txt"))
	assert.False(t, ok, "entries beyond max depth must be excluded")
}

func TestInaccessibleRootIsWarningNotFailure(t *testing.T) {
	good := t.TempDir()
	writeFile(t, filepath.Join(good, "ok.txt"), "x", time.Time{})
	missing := filepath.Join(t.TempDir(), "does-not-exist")

	ix := newTestIndex(t, Options{})
	snap, warnings, err := ix.Build(context.Background(), []string{missing, good})
	require.NoError(t, err)

	assert.NotEmpty(t, warnings)
	_, ok := snap.Get(filepath.Join(good, "ok.txt"))
	assert.True(t, ok, "siblings of a failed root must still be indexed")
}

func TestFreshAndRefresh(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x", time.Time{})

	ix := newTestIndex(t, Options{TTL: 50 * time.Millisecond})
	assert.False(t, ix.Fresh(), "no snapshot yet")

	first, _, err := ix.Build(context.Background(), []string{root})
	require.NoError(t, err)
	assert.True(t, ix.Fresh())

	time.Sleep(60 * time.Millisecond)
	assert.False(t, ix.Fresh(), "snapshot must expire after TTL")

	second, _, err := ix.Refresh(context.Background(), []string{root})
	require.NoError(t, err)
	assert.NotEqual(t, first.ID(), second.ID())
	assert.True(t, ix.Fresh())

	// The old snapshot reference is still intact (immutability).
	assert.Equal(t, 1, first.Len())
}

func TestCancelledBuildIsNotPublished(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"), "x", time.Time{})

	ix := newTestIndex(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ix.Build(ctx, []string{root})
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Nil(t, ix.Current())
}

func TestPersistAndLoad(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep.txt"), "data", time.Time{})

	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"), logging.NewNop())
	require.NoError(t, err)

	ix := New(grantedGate(), store, nil, logging.NewNop(), Options{Persist: true})
	built, _, err := ix.Build(context.Background(), []string{root})
	require.NoError(t, err)

	// A second index sharing the store restores the snapshot without
	// touching disk contents.
	restored := New(grantedGate(), store, nil, logging.NewNop(), Options{Persist: true})
	snap, err := restored.Load()
	require.NoError(t, err)
	require.NotNil(t, snap)

	assert.Equal(t, built.ID(), snap.ID())
	assert.Equal(t, built.Len(), snap.Len())
	e, ok := snap.Get(filepath.Join(root, "keep.txt"))
	require.True(t, ok)
	assert.Equal(t, int64(4), e.Size)
	assert.True(t, snap.BuiltAt().Equal(built.BuiltAt()), "TTL must be anchored to the original build time")
}

func TestLoadWithoutPersistedSnapshot(t *testing.T) {
	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"), logging.NewNop())
	require.NoError(t, err)

	ix := New(grantedGate(), store, nil, logging.NewNop(), Options{})
	snap, err := ix.Load()
	require.NoError(t, err)
	assert.Nil(t, snap)
}

func TestBuildSkipsHoldingDirectory(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, paths.HoldingDirName), 0o700))
	writeFile(t, filepath.Join(root, paths.HoldingDirName, "rcy_x_gone.txt"), "x", time.Now())
	writeFile(t, filepath.Join(root, "kept.txt"), "x", time.Now())

	snap, warnings, err := newTestIndex(t, Options{}).Build(context.Background(), []string{root})
	require.NoError(t, err)
	assert.Empty(t, warnings)
	assert.Equal(t, 1, snap.Len())
	_, ok := snap.Get(filepath.Join(root, "kept.txt"))
	assert.True(t, ok)
}
