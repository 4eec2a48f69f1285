package filetree

import "strings"

// IsDirectory reports whether a path denotes a directory.
// Directory paths carry a trailing separator; every other path is a file.
func IsDirectory(path string) bool {
	return strings.HasSuffix(path, "/")
}

// Normalize ensures a path has a leading separator. The namespace root is
// "/". Empty input normalizes to the root.
func Normalize(path string) string {
	if path == "" {
		return "/"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return path
}

// Dirname returns the directory containing the given path, with its
// trailing separator. The parent of the root is the root itself.
func Dirname(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	if idx <= 0 {
		return "/"
	}
	return trimmed[:idx+1]
}

// Basename returns the last segment of a path, without any separators.
func Basename(path string) string {
	trimmed := strings.TrimSuffix(path, "/")
	idx := strings.LastIndexByte(trimmed, '/')
	return trimmed[idx+1:]
}

// ContainingDirectory resolves a path to the directory it belongs to:
// directory paths resolve to themselves, file paths to their parent.
func ContainingDirectory(path string) string {
	path = Normalize(path)
	if IsDirectory(path) {
		return path
	}
	return Dirname(path)
}

// Levels returns the directory-nesting level of a path: the number of
// directories between it and the namespace root. Top-level entries are at
// level zero.
func Levels(path string) int {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return 0
	}
	return strings.Count(trimmed, "/")
}

// segments splits a path into its non-empty components.
func segments(path string) []string {
	trimmed := strings.Trim(path, "/")
	if trimmed == "" {
		return nil
	}
	return strings.Split(trimmed, "/")
}

// pathLess is the deterministic sort order for flattened listings:
// descendants stay grouped under their directory, directories sort before
// files among siblings, and names break ties lexicographically.
func pathLess(a, b string) bool {
	as, bs := segments(a), segments(b)

	for i := 0; i < len(as) && i < len(bs); i++ {
		if as[i] == bs[i] {
			continue
		}
		// A non-final segment is always a directory component.
		aDir := i < len(as)-1 || IsDirectory(a)
		bDir := i < len(bs)-1 || IsDirectory(b)
		if aDir != bDir {
			return aDir
		}
		return as[i] < bs[i]
	}

	if len(as) != len(bs) {
		return len(as) < len(bs)
	}
	return a < b
}
