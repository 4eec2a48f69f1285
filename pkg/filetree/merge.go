package filetree

import "strings"

// Add inserts or overwrites a single entry.
func (m *FileMap) Add(path string, e Entry) {
	m.entries[Normalize(path)] = e
	m.resort()
}

// Remove deletes a path. Removing a directory takes its entire descendant
// subtree with it.
func (m *FileMap) Remove(path string) {
	path = Normalize(path)
	delete(m.entries, path)
	if IsDirectory(path) {
		for p := range m.entries {
			if strings.HasPrefix(p, path) {
				delete(m.entries, p)
			}
		}
	}
	m.resort()
}

// RemoveEntry deletes a single entry, leaving any descendants in place.
// Used to drop a fetched directory's self-parented marker from a listing
// before merging.
func (m *FileMap) RemoveEntry(path string) {
	delete(m.entries, Normalize(path))
	m.resort()
}

// Replace reconciles a freshly fetched flat listing of one directory into
// the map. Direct children of dir that the new listing no longer contains
// are pruned (directories together with their stale descendants); every
// entry from the listing is added. Entries outside dir are untouched.
func (m *FileMap) Replace(dir string, listing *FileMap) {
	dir = Normalize(dir)

	// Staleness is keyed on the path-derived parent, not the recorded
	// ParentPath: a directory materialized before its parent still carries
	// its self-parented marker, and must be pruned all the same when the
	// parent's fresh listing drops it.
	var stale []string
	for p := range m.entries {
		if p == dir {
			continue
		}
		if Dirname(p) == dir && !listing.Has(p) {
			stale = append(stale, p)
		}
	}
	for _, p := range stale {
		delete(m.entries, p)
		if IsDirectory(p) {
			for q := range m.entries {
				if strings.HasPrefix(q, p) {
					delete(m.entries, q)
				}
			}
		}
	}

	for p, e := range listing.entries {
		m.entries[p] = e
	}
	m.resort()
}

// Move relocates the subtree rooted at srcPath from src into dst, rooted
// at dstPath instead. Paths and parent paths of every moved entry are
// rewritten. A missing source path is a silent no-op. src and dst may be
// the same map.
func Move(src, dst *FileMap, srcPath, dstPath string) {
	srcPath = Normalize(srcPath)
	dstPath = Normalize(dstPath)
	// A directory keeps its kind under a new name.
	if IsDirectory(srcPath) && !IsDirectory(dstPath) {
		dstPath += "/"
	}

	root, ok := src.entries[srcPath]
	if !ok {
		return
	}

	moved := map[string]Entry{dstPath: {ParentPath: Dirname(dstPath), FetchedAt: root.FetchedAt}}
	if IsDirectory(srcPath) {
		for p, e := range src.entries {
			if p == srcPath || !strings.HasPrefix(p, srcPath) {
				continue
			}
			moved[dstPath+strings.TrimPrefix(p, srcPath)] = Entry{
				ParentPath: dstPath + strings.TrimPrefix(e.ParentPath, srcPath),
				FetchedAt:  e.FetchedAt,
			}
		}
	}

	delete(src.entries, srcPath)
	if IsDirectory(srcPath) {
		for p := range src.entries {
			if strings.HasPrefix(p, srcPath) {
				delete(src.entries, p)
			}
		}
	}
	for p, e := range moved {
		dst.entries[p] = e
	}

	src.resort()
	if dst != src {
		dst.resort()
	}
}
