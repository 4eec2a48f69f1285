// Package filetree maintains flattened, lazily expanded views of remote
// hierarchical file namespaces. Each independently cached namespace (a
// "root") is represented as a FileMap: a path-keyed, order-stable record of
// the subset of the remote tree fetched so far.
package filetree

import (
	"sort"
	"time"
)

// TreeNode is a hierarchically fetched subtree as returned by the remote
// file service: a path with optional nested children.
type TreeNode struct {
	Path     string      `json:"path"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Entry records what is known about one path in a root's namespace.
type Entry struct {
	// ParentPath names the entry's immediate parent directory. The root
	// entry of a fetched subtree points at its own path.
	ParentPath string

	// FetchedAt is the timestamp of the fetch that last confirmed this
	// entry's existence. Entries produced by one fetch share a timestamp.
	FetchedAt time.Time
}

// FileMap is the flattened view of one root: a mapping from normalized
// path to Entry with a deterministic listing order. Maps installed in the
// cache manager are treated as immutable; mutations operate on a Clone.
type FileMap struct {
	entries map[string]Entry
	order   []string
}

// NewFileMap returns an empty FileMap.
func NewFileMap() *FileMap {
	return &FileMap{entries: make(map[string]Entry)}
}

// Len returns the number of entries.
func (m *FileMap) Len() int {
	return len(m.entries)
}

// Has reports whether a path is present.
func (m *FileMap) Has(path string) bool {
	_, ok := m.entries[path]
	return ok
}

// Get returns the entry for a path.
func (m *FileMap) Get(path string) (Entry, bool) {
	e, ok := m.entries[path]
	return e, ok
}

// Paths returns all paths in the deterministic listing order: directories
// grouped with their descendants, directories before files among siblings,
// lexicographic ties. The returned slice is shared; callers must not
// modify it.
func (m *FileMap) Paths() []string {
	return m.order
}

// Clone returns an independent copy suitable for mutation.
func (m *FileMap) Clone() *FileMap {
	entries := make(map[string]Entry, len(m.entries))
	for p, e := range m.entries {
		entries[p] = e
	}
	order := make([]string, len(m.order))
	copy(order, m.order)
	return &FileMap{entries: entries, order: order}
}

// Depth returns the number of directory levels materialized below the
// root's top level: the deepest nesting level observed among entries, plus
// one. An empty map has depth zero.
func (m *FileMap) Depth() int {
	depth := 0
	for p := range m.entries {
		if p == "/" {
			continue
		}
		if lv := Levels(p) + 1; lv > depth {
			depth = lv
		}
	}
	return depth
}

// resort rebuilds the listing order after a mutation.
func (m *FileMap) resort() {
	m.order = m.order[:0]
	for p := range m.entries {
		m.order = append(m.order, p)
	}
	sort.Slice(m.order, func(i, j int) bool {
		return pathLess(m.order[i], m.order[j])
	})
}
