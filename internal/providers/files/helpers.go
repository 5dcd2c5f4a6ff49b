package files

import (
	"fmt"

	"github.com/GriffinCanCode/FileManager/core/internal/entry"
	"github.com/GriffinCanCode/FileManager/core/internal/recycle"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/errs"
	"github.com/GriffinCanCode/FileManager/core/internal/shared/types"
)

// Success helper
func success(data map[string]interface{}) (*types.Result, error) {
	return &types.Result{Success: true, Data: data}, nil
}

// Failure helper
func failure(message string) (*types.Result, error) {
	msg := message
	return &types.Result{Success: false, Error: &msg}, nil
}

// failureErr maps an operation error into a failed result.
func failureErr(err error) (*types.Result, error) {
	return failure(err.Error())
}

// stringParam extracts a required non-empty string parameter.
func stringParam(params map[string]interface{}, name string) (string, bool) {
	v, ok := params[name].(string)
	return v, ok && v != ""
}

// boolParam extracts an optional boolean parameter, false when absent.
func boolParam(params map[string]interface{}, name string) bool {
	v, _ := params[name].(bool)
	return v
}

// intParam extracts an optional numeric parameter, 0 when absent. JSON
// decoding delivers numbers as float64.
func intParam(params map[string]interface{}, name string) int {
	switch v := params[name].(type) {
	case float64:
		return int(v)
	case int:
		return v
	default:
		return 0
	}
}

func entryData(e entry.Entry) map[string]interface{} {
	data := map[string]interface{}{
		"name":     e.Name,
		"path":     e.Path,
		"kind":     string(e.Kind),
		"size":     e.Size,
		"modified": e.Modified.Unix(),
	}
	if e.IsDir() {
		data["child_count"] = e.ChildCount
	} else {
		data["extension"] = e.Extension
		data["human_size"] = formatBytes(e.Size)
	}
	return data
}

func entriesData(entries []entry.Entry) []interface{} {
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = entryData(e)
	}
	return out
}

func itemData(it recycle.Item) map[string]interface{} {
	return map[string]interface{}{
		"id":            it.ID,
		"original_path": it.OriginalPath,
		"original_name": it.OriginalName,
		"deleted_at":    it.DeletedAt.Unix(),
		"size":          it.Size,
		"human_size":    formatBytes(it.Size),
		"type":          it.Type,
	}
}

func warningsData(warnings []errs.ItemError) []interface{} {
	if len(warnings) == 0 {
		return nil
	}
	out := make([]interface{}, len(warnings))
	for i, w := range warnings {
		out[i] = map[string]interface{}{"path": w.Path, "error": w.Err.Error()}
	}
	return out
}

// formatBytes formats bytes to human-readable size
func formatBytes(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}

	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(bytes)/float64(div), "KMGTPE"[exp])
}
