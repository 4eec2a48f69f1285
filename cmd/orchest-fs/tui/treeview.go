// Package tui provides the interactive terminal file browser over the
// cached file trees.
package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/allansene/orchest/pkg/filetree"
)

// Tree view icons.
const (
	iconExpanded  = "▼" // Black down-pointing triangle
	iconCollapsed = "▶" // Black right-pointing triangle
	iconFile      = " "
)

// TreeView renders one root's flattened map as an indented tree with
// expand/collapse, cursor and scrolling support. Which map it renders is
// swapped wholesale on every state update; the view keeps only UI state
// (cursor, collapse set, scroll offset).
type TreeView struct {
	fm       *filetree.FileMap
	rows     []string // Visible paths, in listing order
	cursor   int
	offset   int
	expanded map[string]bool // Directory paths currently expanded
}

// NewTreeView creates a TreeView over the given map.
func NewTreeView(fm *filetree.FileMap) *TreeView {
	tv := &TreeView{
		fm:       fm,
		expanded: map[string]bool{"/": true},
	}
	tv.refresh()
	return tv
}

// SetMap swaps in a freshly installed map, keeping UI state.
func (tv *TreeView) SetMap(fm *filetree.FileMap) {
	tv.fm = fm
	tv.refresh()
}

// refresh rebuilds the visible rows from the map and the collapse state.
func (tv *TreeView) refresh() {
	tv.rows = tv.rows[:0]
	if tv.fm == nil {
		return
	}
	for _, path := range tv.fm.Paths() {
		if path == "/" {
			continue
		}
		if tv.visible(path) {
			tv.rows = append(tv.rows, path)
		}
	}
	if tv.cursor >= len(tv.rows) {
		tv.cursor = len(tv.rows) - 1
	}
	if tv.cursor < 0 {
		tv.cursor = 0
	}
}

// visible reports whether every ancestor directory of path is expanded.
func (tv *TreeView) visible(path string) bool {
	for dir := filetree.Dirname(path); ; dir = filetree.Dirname(dir) {
		if !tv.expanded[dir] {
			return false
		}
		if dir == "/" {
			return true
		}
	}
}

// Selected returns the path under the cursor, or "".
func (tv *TreeView) Selected() string {
	if tv.cursor < 0 || tv.cursor >= len(tv.rows) {
		return ""
	}
	return tv.rows[tv.cursor]
}

// MoveUp moves the cursor up one row.
func (tv *TreeView) MoveUp() {
	if tv.cursor > 0 {
		tv.cursor--
		tv.ensureVisible()
	}
}

// MoveDown moves the cursor down one row.
func (tv *TreeView) MoveDown() {
	if tv.cursor < len(tv.rows)-1 {
		tv.cursor++
		tv.ensureVisible()
	}
}

// ensureVisible adjusts the scroll offset to keep the cursor on screen.
func (tv *TreeView) ensureVisible() {
	visible := 20
	if tv.cursor < tv.offset {
		tv.offset = tv.cursor
	} else if tv.cursor >= tv.offset+visible {
		tv.offset = tv.cursor - visible + 1
	}
	if tv.offset < 0 {
		tv.offset = 0
	}
}

// Toggle flips the collapse state of the directory under the cursor.
// Returns the directory path and true when it was just expanded, so the
// caller can trigger a lazy fetch of its contents.
func (tv *TreeView) Toggle() (string, bool) {
	path := tv.Selected()
	if path == "" || !filetree.IsDirectory(path) {
		return "", false
	}
	tv.expanded[path] = !tv.expanded[path]
	tv.refresh()
	return path, tv.expanded[path]
}

// IsExpanded reports the collapse state of a directory.
func (tv *TreeView) IsExpanded(dir string) bool {
	return tv.expanded[dir]
}

// Render draws the visible rows into a string, height rows tall.
func (tv *TreeView) Render(height int) string {
	if len(tv.rows) == 0 {
		return mutedStyle.Render("  (empty)")
	}

	end := tv.offset + height
	if end > len(tv.rows) {
		end = len(tv.rows)
	}

	var b strings.Builder
	for i := tv.offset; i < end; i++ {
		path := tv.rows[i]
		indent := strings.Repeat("  ", filetree.Levels(path))

		var icon string
		style := fileStyle
		switch {
		case filetree.IsDirectory(path) && tv.expanded[path]:
			icon, style = iconExpanded, dirStyle
		case filetree.IsDirectory(path):
			icon, style = iconCollapsed, dirStyle
		default:
			icon = iconFile
		}

		line := fmt.Sprintf("%s%s %s", indent, icon, filetree.Basename(path))
		if i == tv.cursor {
			line = cursorStyle.Render("> " + line)
		} else {
			line = "  " + style.Render(line)
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// Freshness describes when the selected entry was last confirmed by a
// fetch, for the status line.
func (tv *TreeView) Freshness() string {
	path := tv.Selected()
	if path == "" || tv.fm == nil {
		return ""
	}
	entry, ok := tv.fm.Get(path)
	if !ok {
		return ""
	}
	return "fetched " + humanize.Time(entry.FetchedAt)
}
