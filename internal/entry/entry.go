// Package entry defines the normalized filesystem node model shared by the
// directory reader, the file index and the search engine. Every platform
// quirk is absorbed at the point an Entry is produced; downstream components
// consume one consistent shape.
package entry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Kind tags an entry as a file or a directory.
type Kind string

const (
	KindFile      Kind = "file"
	KindDirectory Kind = "directory"
)

// Entry represents one filesystem node.
type Entry struct {
	Name       string    `json:"name"`
	Path       string    `json:"path"`
	Kind       Kind      `json:"kind"`
	Size       int64     `json:"size"`
	Modified   time.Time `json:"modified"`
	ChildCount int       `json:"child_count,omitempty"`
	Extension  string    `json:"extension,omitempty"`
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind == KindDirectory
}

// FromInfo builds an Entry from a stat result. Size is zeroed for
// directories; ChildCount is left for the caller to populate.
func FromInfo(path string, info os.FileInfo) Entry {
	e := Entry{
		Name:     filepath.Base(path),
		Path:     path,
		Kind:     KindFile,
		Modified: info.ModTime(),
	}
	if info.IsDir() {
		e.Kind = KindDirectory
	} else {
		e.Size = info.Size()
		e.Extension = strings.ToLower(filepath.Ext(path))
	}
	return e
}

// Partial builds an Entry for a child whose stat failed: kind from the
// directory listing, zero size and mtime. Callers pair it with a warning.
func Partial(path string, isDir bool) Entry {
	e := Entry{
		Name: filepath.Base(path),
		Path: path,
		Kind: KindFile,
	}
	if isDir {
		e.Kind = KindDirectory
	} else {
		e.Extension = strings.ToLower(filepath.Ext(path))
	}
	return e
}

// SortDefault applies the established presentation order: directories first,
// then case-insensitive alphabetical within each group. This is the boundary
// default; the reader itself returns filesystem order.
func SortDefault(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return strings.ToLower(entries[i].Name) < strings.ToLower(entries[j].Name)
	})
}
