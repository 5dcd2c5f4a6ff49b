package reader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/paths"
)

func grantedReader() *Reader {
	gate := permissions.NewGate(permissions.GrantAll(), nil, "", logging.NewNop())
	return New(gate, logging.NewNop())
}

func TestListBasic(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("hello"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub", "inner"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "b.txt"), []byte("x"), 0o644))

	entries, warnings, err := grantedReader().List(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 2)

	byName := map[string]entry.Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	file := byName["a.txt"]
	assert.Equal(t, entry.KindFile, file.Kind)
	assert.Equal(t, int64(5), file.Size)
	assert.Equal(t, ".txt", file.Extension)
	assert.False(t, file.Modified.IsZero())

	sub := byName["sub"]
	assert.Equal(t, entry.KindDirectory, sub.Kind)
	assert.Equal(t, 2, sub.ChildCount)
}

func TestListDenied(t *testing.T) {
	gate := permissions.NewGate(permissions.NewStaticOracle(), nil, "", logging.NewNop())
	r := New(gate, logging.NewNop())

	_, _, err := r.List(context.Background(), t.TempDir())
	assert.True(t, errors.Is(err, errs.ErrAccessDenied))
}

func TestListMissingDir(t *testing.T) {
	_, _, err := grantedReader().List(context.Background(), filepath.Join(t.TempDir(), "gone"))
	assert.True(t, errors.Is(err, errs.ErrNotFound))
}

func TestDanglingSymlinkYieldsPartialEntry(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Symlink(filepath.Join(dir, "nonexistent"), filepath.Join(dir, "broken")))

	entries, warnings, err := grantedReader().List(context.Background(), dir)
	require.NoError(t, err)

	// The broken link must not abort the listing.
	require.Len(t, entries, 2)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].Path, "broken")

	for _, e := range entries {
		if e.Name == "broken" {
			assert.Zero(t, e.Size)
			assert.True(t, e.Modified.IsZero())
		}
	}
}

func TestUnreadableSubdirDefaultsChildCount(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are ignored when running as root")
	}
	dir := t.TempDir()
	locked := filepath.Join(dir, "locked")
	require.NoError(t, os.Mkdir(locked, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(locked, "hidden.txt"), []byte("x"), 0o644))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	entries, warnings, err := grantedReader().List(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 0, entries[0].ChildCount)
	require.Len(t, warnings, 1)
	assert.True(t, errors.Is(warnings[0].Err, errs.ErrAccessDenied))
}

func TestListCancellation(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < 10; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(dir, string(rune('a'+i))+".txt"), []byte("x"), 0o644))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := grantedReader().List(ctx, dir)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestListHidesHoldingDirectory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, paths.HoldingDirName), 0o700))
	require.NoError(t, os.WriteFile(filepath.Join(dir, paths.HoldingDirName, "rcy_x_gone.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "visible.txt"), []byte("x"), 0o644))

	entries, warnings, err := grantedReader().List(context.Background(), dir)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 1)
	assert.Equal(t, "visible.txt", entries[0].Name)
}
