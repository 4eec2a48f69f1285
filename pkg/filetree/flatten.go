package filetree

import "time"

// Flatten converts a fetched subtree into a FileMap. Every produced entry
// shares the single fetchedAt timestamp. The subtree's own root is included
// as a self-parented entry, so a fetched directory keeps a stable key even
// before its parent is known.
func Flatten(node *TreeNode, fetchedAt time.Time) *FileMap {
	m := NewFileMap()
	m.AddSubtree(node, fetchedAt)
	return m
}

// AddSubtree flattens a fetched subtree into the map. The walk is
// iterative with an explicit work stack; remote namespaces can nest deeper
// than is comfortable for recursion.
func (m *FileMap) AddSubtree(node *TreeNode, fetchedAt time.Time) {
	if node == nil {
		return
	}

	root := Normalize(node.Path)
	m.entries[root] = Entry{ParentPath: root, FetchedAt: fetchedAt}

	stack := make([]*TreeNode, 0, len(node.Children))
	stack = append(stack, node.Children...)
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n == nil {
			continue
		}

		path := Normalize(n.Path)
		m.entries[path] = Entry{ParentPath: Dirname(path), FetchedAt: fetchedAt}
		stack = append(stack, n.Children...)
	}

	m.resort()
}
