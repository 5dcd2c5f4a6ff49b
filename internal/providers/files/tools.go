package files

import (
	"context"
	"os"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/search"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/types"
)

func (p *Provider) dirList(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	entries, warnings, err := p.reader.List(ctx, path)
	if err != nil {
		return failureErr(err)
	}
	entry.SortDefault(entries)

	data := map[string]interface{}{
		"path":    path,
		"entries": entriesData(entries),
		"count":   len(entries),
	}
	if w := warningsData(warnings); w != nil {
		data["warnings"] = w
	}
	return success(data)
}

func (p *Provider) stat(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	if err := ctx.Err(); err != nil {
		return failureErr(err)
	}
	if err := p.gate.EnsureAccess(path); err != nil {
		return failureErr(err)
	}

	info, err := os.Lstat(path)
	if err != nil {
		return failureErr(errs.ClassifyPath(path, err))
	}

	data := entryData(entry.FromInfo(path, info))
	data["mode"] = info.Mode().String()
	return success(data)
}

func (p *Provider) create(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	dir, ok := stringParam(params, "dir")
	if !ok {
		return failure("dir parameter required")
	}
	name, ok := stringParam(params, "name")
	if !ok {
		return failure("name parameter required")
	}

	ent, err := p.ops.CreateFile(ctx, dir, name)
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"created": true, "entry": entryData(ent)})
}

func (p *Provider) mkdir(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	dir, ok := stringParam(params, "dir")
	if !ok {
		return failure("dir parameter required")
	}
	name, ok := stringParam(params, "name")
	if !ok {
		return failure("name parameter required")
	}

	ent, err := p.ops.CreateDirectory(ctx, dir, name)
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"created": true, "entry": entryData(ent)})
}

func (p *Provider) rename(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}
	newName, ok := stringParam(params, "new_name")
	if !ok {
		return failure("new_name parameter required")
	}

	ent, err := p.ops.Rename(ctx, path, newName)
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"renamed": true, "entry": entryData(ent)})
}

func (p *Provider) copy(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	source, ok := stringParam(params, "source")
	if !ok {
		return failure("source parameter required")
	}
	destination, ok := stringParam(params, "destination")
	if !ok {
		return failure("destination parameter required")
	}

	ent, err := p.ops.Copy(ctx, source, destination, boolParam(params, "overwrite"))
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"copied": true, "entry": entryData(ent)})
}

func (p *Provider) move(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	source, ok := stringParam(params, "source")
	if !ok {
		return failure("source parameter required")
	}
	destination, ok := stringParam(params, "destination")
	if !ok {
		return failure("destination parameter required")
	}

	ent, err := p.ops.Move(ctx, source, destination, boolParam(params, "overwrite"))
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"moved": true, "entry": entryData(ent)})
}

func (p *Provider) delete(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	path, ok := stringParam(params, "path")
	if !ok {
		return failure("path parameter required")
	}

	item, err := p.ops.Delete(ctx, path)
	if err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"deleted": true, "item": itemData(item)})
}

func (p *Provider) search(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	query, ok := stringParam(params, "query")
	if !ok {
		return failure("query parameter required")
	}

	glob, _ := params["glob"].(string)
	scope := search.Scope{
		Roots:    p.roots,
		Glob:     glob,
		MaxDepth: intParam(params, "max_depth"),
	}

	results, warnings, err := p.engine.Search(ctx, query, scope)
	if err != nil {
		return failureErr(err)
	}

	data := map[string]interface{}{
		"query":   query,
		"results": entriesData(results),
		"count":   len(results),
		"recent":  p.engine.Recent(),
	}
	if w := warningsData(warnings); w != nil {
		data["warnings"] = w
	}
	return success(data)
}

func (p *Provider) indexBuild(ctx context.Context) (*types.Result, error) {
	snap, warnings, err := p.index.Build(ctx, p.roots)
	if err != nil {
		return failureErr(err)
	}

	data := map[string]interface{}{
		"snapshot": snap.ID(),
		"entries":  snap.Len(),
		"built_at": snap.BuiltAt().Unix(),
	}
	if w := warningsData(warnings); w != nil {
		data["warnings"] = w
	}
	return success(data)
}

func (p *Provider) recycleList() (*types.Result, error) {
	items, err := p.bin.List()
	if err != nil {
		return failureErr(err)
	}

	out := make([]interface{}, len(items))
	for i, it := range items {
		out[i] = itemData(it)
	}
	return success(map[string]interface{}{"items": out, "count": len(items)})
}

func (p *Provider) recycleRestore(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	itemID, ok := stringParam(params, "id")
	if !ok {
		return failure("id parameter required")
	}

	if err := p.bin.Restore(ctx, itemID); err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"restored": true, "id": itemID})
}

func (p *Provider) recyclePurge(ctx context.Context, params map[string]interface{}) (*types.Result, error) {
	itemID, ok := stringParam(params, "id")
	if !ok {
		return failure("id parameter required")
	}

	if err := p.bin.Purge(ctx, itemID); err != nil {
		return failureErr(err)
	}
	return success(map[string]interface{}{"purged": true, "id": itemID})
}

func (p *Provider) recycleEmpty(ctx context.Context) (*types.Result, error) {
	purged, failures, err := p.bin.EmptyAll(ctx)
	if err != nil {
		return failureErr(err)
	}

	data := map[string]interface{}{"purged": purged}
	if w := warningsData(failures); w != nil {
		data["failures"] = w
	}
	return success(data)
}

func (p *Provider) permissionStatus() (*types.Result, error) {
	root := ""
	if len(p.roots) > 0 {
		root = p.roots[0]
	}
	st := p.gate.Refresh(root)

	return success(map[string]interface{}{
		"tier":        st.Tier.String(),
		"granted":     st.Granted,
		"full_access": st.FullAccess,
		"checked_at":  st.CheckedAt.Unix(),
	})
}
