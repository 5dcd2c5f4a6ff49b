// Package paths provides the standardized on-disk layout for the storage core.
//
// The holding directory, state file and key-value keys defined here are the
// persisted contract of the core: changing any of them orphans state written
// by earlier versions.
package paths

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Well-known names under the accessible storage root.
const (
	// HoldingDirName is the hidden directory that stages soft-deleted files.
	HoldingDirName = ".trashed"

	// StateFileName is the single key-value store file under the state dir.
	StateFileName = "state.json"
)

// Key-value store keys.
const (
	KeyRecycleItems         = "recycle.items"
	KeyRecentSearches       = "search.recent"
	KeyPermissionInstructed = "permissions.instructed"
	KeyIndexSnapshot        = "index.snapshot"
)

// restrictedProbeDirs are directories, relative to a storage root, that only
// a full-filesystem grant can list. Being able to read any of them is taken
// as evidence of full access. Best-effort heuristic, not an API guarantee.
var restrictedProbeDirs = []string{
	"Android/data",
	"Android/obb",
}

// RestrictedProbeDirs returns probe paths for a given storage root.
func RestrictedProbeDirs(root string) []string {
	out := make([]string, len(restrictedProbeDirs))
	for i, d := range restrictedProbeDirs {
		out[i] = filepath.Join(root, d)
	}
	return out
}

// HoldingDir returns the recycle holding directory for a storage root.
func HoldingDir(root string) string {
	return filepath.Join(root, HoldingDirName)
}

// StateFile returns the key-value store path for a state directory.
func StateFile(stateDir string) string {
	return filepath.Join(stateDir, StateFileName)
}

// IsHoldingDirName reports whether name is the recycle holding directory
// name. Listings and index walks skip such directories; staged files only
// surface through the recycle bin API.
func IsHoldingDirName(name string) bool {
	return name == HoldingDirName
}

// InHoldingDir reports whether path sits inside the holding directory of root.
func InHoldingDir(root, path string) bool {
	rel, err := filepath.Rel(HoldingDir(root), path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// ValidateName checks that name is a plain path segment suitable for
// create/rename targets.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("name cannot be empty")
	}
	if name == "." || name == ".." {
		return fmt.Errorf("name cannot be a relative path component")
	}
	if strings.ContainsAny(name, "/\x00") || strings.ContainsRune(name, filepath.Separator) {
		return fmt.Errorf("name cannot contain path separators")
	}
	return nil
}

// Within reports whether path is inside dir (or equals it) after cleaning.
func Within(dir, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(dir), filepath.Clean(path))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
