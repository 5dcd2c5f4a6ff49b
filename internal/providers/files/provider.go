// Package files exposes the storage core as a service definition with
// tools executed by ID. The UI layer consumes this boundary; it never
// imports the component packages directly.
package files

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/FileManager/core/internal/index"
	"github.com/GriffinCanCode/FileManager/core/internal/logging"
	"github.com/GriffinCanCode/FileManager/core/internal/mutate"
	"github.com/GriffinCanCode/FileManager/core/internal/permissions"
	"github.com/GriffinCanCode/FileManager/core/internal/reader"
	"github.com/GriffinCanCode/FileManager/core/internal/recycle"
	"github.com/GriffinCanCode/FileManager/core/internal/search"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/types"
)

// Provider wires the storage components behind the tool surface.
type Provider struct {
	gate   *permissions.Gate
	reader *reader.Reader
	index  *index.Index
	engine *search.Engine
	bin    *recycle.Bin
	ops    *mutate.Ops
	roots  []string
	log    *logging.Logger
}

// New creates the files provider. roots are the storage roots used when a
// tool call does not name its own.
func New(gate *permissions.Gate, rd *reader.Reader, ix *index.Index, eng *search.Engine, bin *recycle.Bin, ops *mutate.Ops, roots []string, log *logging.Logger) *Provider {
	if log == nil {
		log = logging.NewNop()
	}
	return &Provider{
		gate:   gate,
		reader: rd,
		index:  ix,
		engine: eng,
		bin:    bin,
		ops:    ops,
		roots:  roots,
		log:    log.Component("files"),
	}
}

// Definition returns service metadata
func (p *Provider) Definition() types.Service {
	return types.Service{
		ID:          "files",
		Name:        "Files Service",
		Description: "Storage access: listing, search, indexing, recycle bin and mutations",
		Category:    types.CategoryFilesystem,
		Capabilities: []string{
			"list",
			"stat",
			"create",
			"rename",
			"copy",
			"move",
			"delete",
			"search",
			"index",
			"recycle",
			"permissions",
		},
		Tools: []types.Tool{
			{
				ID:          "files.dir.list",
				Name:        "List Directory",
				Description: "List one directory level with partial-failure tolerance",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Directory path", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.stat",
				Name:        "File Info",
				Description: "Get file or directory metadata",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File or directory path", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.create",
				Name:        "Create File",
				Description: "Create an empty file inside a directory",
				Parameters: []types.Parameter{
					{Name: "dir", Type: "string", Description: "Parent directory", Required: true},
					{Name: "name", Type: "string", Description: "File name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.mkdir",
				Name:        "Create Directory",
				Description: "Create a directory inside a directory",
				Parameters: []types.Parameter{
					{Name: "dir", Type: "string", Description: "Parent directory", Required: true},
					{Name: "name", Type: "string", Description: "Directory name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.rename",
				Name:        "Rename",
				Description: "Rename a node within its directory",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "Current path", Required: true},
					{Name: "new_name", Type: "string", Description: "New name", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.copy",
				Name:        "Copy",
				Description: "Copy a file or directory",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination path", Required: true},
					{Name: "overwrite", Type: "boolean", Description: "Replace an existing destination", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "files.move",
				Name:        "Move",
				Description: "Move a file or directory",
				Parameters: []types.Parameter{
					{Name: "source", Type: "string", Description: "Source path", Required: true},
					{Name: "destination", Type: "string", Description: "Destination path", Required: true},
					{Name: "overwrite", Type: "boolean", Description: "Replace an existing destination", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "files.delete",
				Name:        "Delete",
				Description: "Soft-delete a file into the recycle bin",
				Parameters: []types.Parameter{
					{Name: "path", Type: "string", Description: "File path", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.search",
				Name:        "Search",
				Description: "Search by name, indexed when a fresh snapshot exists",
				Parameters: []types.Parameter{
					{Name: "query", Type: "string", Description: "Search query", Required: true},
					{Name: "glob", Type: "string", Description: "Optional name glob filter", Required: false},
					{Name: "max_depth", Type: "number", Description: "Live walk depth cap", Required: false},
				},
				Returns: "object",
			},
			{
				ID:          "files.index.build",
				Name:        "Build Index",
				Description: "Walk the storage roots and publish a fresh snapshot",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "files.index.refresh",
				Name:        "Refresh Index",
				Description: "Rebuild the index over the same roots",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "files.recycle.list",
				Name:        "List Recycle Bin",
				Description: "List recycled items, newest first",
				Parameters:  []types.Parameter{},
				Returns:     "array",
			},
			{
				ID:          "files.recycle.restore",
				Name:        "Restore",
				Description: "Restore a recycled item to its original path",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Recycle item ID", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.recycle.purge",
				Name:        "Purge",
				Description: "Permanently delete one recycled item",
				Parameters: []types.Parameter{
					{Name: "id", Type: "string", Description: "Recycle item ID", Required: true},
				},
				Returns: "object",
			},
			{
				ID:          "files.recycle.empty",
				Name:        "Empty Recycle Bin",
				Description: "Permanently delete all recycled items",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
			{
				ID:          "files.permissions.status",
				Name:        "Permission Status",
				Description: "Report the current storage capability tier",
				Parameters:  []types.Parameter{},
				Returns:     "object",
			},
		},
	}
}

// Execute runs a storage operation
func (p *Provider) Execute(ctx context.Context, toolID string, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	execID := uuid.New().String()
	p.log.Debug("executing tool", zap.String("tool", toolID), zap.String("exec_id", execID))

	switch toolID {
	case "files.dir.list":
		return p.dirList(ctx, params)
	case "files.stat":
		return p.stat(ctx, params)
	case "files.create":
		return p.create(ctx, params)
	case "files.mkdir":
		return p.mkdir(ctx, params)
	case "files.rename":
		return p.rename(ctx, params)
	case "files.copy":
		return p.copy(ctx, params)
	case "files.move":
		return p.move(ctx, params)
	case "files.delete":
		return p.delete(ctx, params)
	case "files.search":
		return p.search(ctx, params)
	case "files.index.build", "files.index.refresh":
		return p.indexBuild(ctx)
	case "files.recycle.list":
		return p.recycleList()
	case "files.recycle.restore":
		return p.recycleRestore(ctx, params)
	case "files.recycle.purge":
		return p.recyclePurge(ctx, params)
	case "files.recycle.empty":
		return p.recycleEmpty(ctx)
	case "files.permissions.status":
		return p.permissionStatus()
	default:
		return failure(fmt.Sprintf("unknown tool: %s", toolID))
	}
}
