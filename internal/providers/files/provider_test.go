package files

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GriffinCanCode/FileManager/core/internal/index"
	"github.com/GriffinCanCode/FileManager/core/internal/kvstore"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/mutate"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/reader"
	"github.com/GriffinCanCode/FileManager/core/internal/recycle"
	"github.com/GriffinCanCode/FileManager/core/internal/search"
)

func newTestProvider(t *testing.T) (*Provider, string) {
	t.Helper()
	root := t.TempDir()
	log := logging.NewNop()

	store, err := kvstore.Open(filepath.Join(t.TempDir(), "state.json"), log)
	require.NoError(t, err)

	gate := permissions.NewGate(permissions.GrantAll(), store, "", log)
	rd := reader.New(gate, log)
	ix := index.New(gate, store, nil, log, index.Options{TTL: time.Hour})
	eng := search.New(ix, gate, store, nil, log, search.Options{})
	bin := recycle.New(root, "", gate, store, nil, log)
	_, err = bin.Init(context.Background())
	require.NoError(t, err)
	ops := mutate.New(gate, bin, log)

	return New(gate, rd, ix, eng, bin, ops, []string{root}, log), root
}

func exec(t *testing.T, p *Provider, toolID string, params map[string]interface{}) map[string]interface{} {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.True(t, result.Success, "tool %s failed: %v", toolID, result.Error)
	return result.Data
}

func execFail(t *testing.T, p *Provider, toolID string, params map[string]interface{}) string {
	t.Helper()
	result, err := p.Execute(context.Background(), toolID, params, nil)
	require.NoError(t, err)
	require.NotNil(t, result)
	require.False(t, result.Success, "tool %s unexpectedly succeeded", toolID)
	require.NotNil(t, result.Error)
	return *result.Error
}

func TestDefinitionToolIDsAreUnique(t *testing.T) {
	p, _ := newTestProvider(t)
	def := p.Definition()

	assert.Equal(t, "files", def.ID)
	assert.NotEmpty(t, def.Tools)

	seen := make(map[string]bool)
	for _, tool := range def.Tools {
		assert.False(t, seen[tool.ID], "duplicate tool id %s", tool.ID)
		seen[tool.ID] = true
	}
}

func TestUnknownTool(t *testing.T) {
	p, _ := newTestProvider(t)
	msg := execFail(t, p, "files.bogus", nil)
	assert.Contains(t, msg, "unknown tool")
}

func TestMissingParamsFailCleanly(t *testing.T) {
	p, _ := newTestProvider(t)

	// Malformed params become failed results, never Go errors or panics.
	for _, toolID := range []string{
		"files.dir.list", "files.stat", "files.create", "files.mkdir",
		"files.rename", "files.copy", "files.move", "files.delete",
		"files.search", "files.recycle.restore", "files.recycle.purge",
	} {
		execFail(t, p, toolID, map[string]interface{}{})
		execFail(t, p, toolID, map[string]interface{}{"path": 42, "query": false})
	}
}

func TestDirListTool(t *testing.T) {
	p, root := newTestProvider(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "b.txt"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a-dir"), 0o755))

	data := exec(t, p, "files.dir.list", map[string]interface{}{"path": root})
	assert.Equal(t, 2, data["count"])

	entries := data["entries"].([]interface{})
	first := entries[0].(map[string]interface{})
	assert.Equal(t, "a-dir", first["name"], "directories sort first")
}

func TestStatTool(t *testing.T) {
	p, root := newTestProvider(t)
	path := filepath.Join(root, "big.bin")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0o644))

	data := exec(t, p, "files.stat", map[string]interface{}{"path": path})
	assert.Equal(t, "big.bin", data["name"])
	assert.Equal(t, int64(2048), data["size"])
	assert.Equal(t, "2.0 KiB", data["human_size"])
	assert.NotEmpty(t, data["mode"])
}

func TestMutationTools(t *testing.T) {
	p, root := newTestProvider(t)

	exec(t, p, "files.mkdir", map[string]interface{}{"dir": root, "name": "docs"})
	exec(t, p, "files.create", map[string]interface{}{"dir": filepath.Join(root, "docs"), "name": "a.txt"})

	data := exec(t, p, "files.rename", map[string]interface{}{
		"path":     filepath.Join(root, "docs", "a.txt"),
		"new_name": "b.txt",
	})
	ent := data["entry"].(map[string]interface{})
	assert.Equal(t, "b.txt", ent["name"])

	exec(t, p, "files.copy", map[string]interface{}{
		"source":      filepath.Join(root, "docs", "b.txt"),
		"destination": filepath.Join(root, "docs", "c.txt"),
	})
	exec(t, p, "files.move", map[string]interface{}{
		"source":      filepath.Join(root, "docs", "c.txt"),
		"destination": filepath.Join(root, "c.txt"),
	})

	_, err := os.Lstat(filepath.Join(root, "c.txt"))
	assert.NoError(t, err)

	// Collision without overwrite surfaces as a failed result.
	msg := execFail(t, p, "files.copy", map[string]interface{}{
		"source":      filepath.Join(root, "docs", "b.txt"),
		"destination": filepath.Join(root, "c.txt"),
	})
	assert.Contains(t, msg, "already exists")
}

func TestDeleteRestoreFlow(t *testing.T) {
	p, root := newTestProvider(t)
	path := filepath.Join(root, "victim.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	data := exec(t, p, "files.delete", map[string]interface{}{"path": path})
	item := data["item"].(map[string]interface{})
	itemID := item["id"].(string)

	listData := exec(t, p, "files.recycle.list", nil)
	assert.Equal(t, 1, listData["count"])

	exec(t, p, "files.recycle.restore", map[string]interface{}{"id": itemID})
	_, err := os.Lstat(path)
	assert.NoError(t, err)

	// Restored items are no longer purgeable.
	execFail(t, p, "files.recycle.purge", map[string]interface{}{"id": itemID})
}

func TestRecycleEmptyTool(t *testing.T) {
	p, root := newTestProvider(t)
	for _, name := range []string{"a.txt", "b.txt"} {
		path := filepath.Join(root, name)
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
		exec(t, p, "files.delete", map[string]interface{}{"path": path})
	}

	data := exec(t, p, "files.recycle.empty", nil)
	assert.Equal(t, 2, data["purged"])

	listData := exec(t, p, "files.recycle.list", nil)
	assert.Equal(t, 0, listData["count"])
}

func TestSearchToolIndexedAndLive(t *testing.T) {
	p, root := newTestProvider(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "findme.txt"), []byte("x"), 0o644))

	// No snapshot yet: live mode.
	data := exec(t, p, "files.search", map[string]interface{}{"query": "findme"})
	assert.Equal(t, 1, data["count"])

	exec(t, p, "files.index.build", nil)

	data = exec(t, p, "files.search", map[string]interface{}{"query": "findme"})
	assert.Equal(t, 1, data["count"])
	assert.Contains(t, data["recent"], "findme")
}

func TestIndexBuildTool(t *testing.T) {
	p, root := newTestProvider(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "one.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "two.txt"), []byte("xx"), 0o644))

	data := exec(t, p, "files.index.build", nil)
	assert.Equal(t, 2, data["entries"])
	assert.NotEmpty(t, data["snapshot"])
}

func TestPermissionStatusTool(t *testing.T) {
	p, _ := newTestProvider(t)
	data := exec(t, p, "files.permissions.status", nil)
	assert.Equal(t, true, data["granted"])
	assert.Equal(t, "full-filesystem", data["tier"])
}
