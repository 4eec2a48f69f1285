package filetree_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allansene/orchest/pkg/filetree"
)

func sampleTree() *filetree.TreeNode {
	return &filetree.TreeNode{
		Path: "/",
		Children: []*filetree.TreeNode{
			{Path: "/lib/", Children: []*filetree.TreeNode{
				{Path: "/lib/utils.py"},
				{Path: "/lib/models/", Children: []*filetree.TreeNode{
					{Path: "/lib/models/net.py"},
				}},
			}},
			{Path: "/main.py"},
			{Path: "/data.csv"},
		},
	}
}

func TestFlatten(t *testing.T) {
	at := time.Now()
	fm := filetree.Flatten(sampleTree(), at)

	t.Run("contains one entry per node", func(t *testing.T) {
		assert.Equal(t, 7, fm.Len())
		for _, p := range []string{"/", "/lib/", "/lib/utils.py", "/lib/models/", "/lib/models/net.py", "/main.py", "/data.csv"} {
			assert.True(t, fm.Has(p), "missing %s", p)
		}
	})

	t.Run("subtree root is self-parented", func(t *testing.T) {
		root, ok := fm.Get("/")
		require.True(t, ok)
		assert.Equal(t, "/", root.ParentPath)
	})

	t.Run("entries carry their parent directory", func(t *testing.T) {
		e, ok := fm.Get("/lib/models/net.py")
		require.True(t, ok)
		assert.Equal(t, "/lib/models/", e.ParentPath)
	})

	t.Run("all entries share one timestamp", func(t *testing.T) {
		for _, p := range fm.Paths() {
			e, _ := fm.Get(p)
			assert.Equal(t, at, e.FetchedAt, "entry %s", p)
		}
	})

	t.Run("re-flattening an identical tree yields identical paths", func(t *testing.T) {
		again := filetree.Flatten(sampleTree(), time.Now())
		assert.Equal(t, fm.Paths(), again.Paths())
	})
}

func TestFileMapOrdering(t *testing.T) {
	fm := filetree.Flatten(sampleTree(), time.Now())

	t.Run("directories group their descendants", func(t *testing.T) {
		assert.Equal(t, []string{
			"/",
			"/lib/",
			"/lib/models/",
			"/lib/models/net.py",
			"/lib/utils.py",
			"/data.csv",
			"/main.py",
		}, fm.Paths())
	})

	t.Run("order is stable across mutations", func(t *testing.T) {
		clone := fm.Clone()
		clone.Add("/a.txt", filetree.Entry{ParentPath: "/", FetchedAt: time.Now()})
		clone.Remove("/a.txt")
		assert.Equal(t, fm.Paths(), clone.Paths())
	})
}

func TestFileMapDepth(t *testing.T) {
	t.Run("empty map is depth zero", func(t *testing.T) {
		assert.Equal(t, 0, filetree.NewFileMap().Depth())
	})

	t.Run("nesting level plus one", func(t *testing.T) {
		fm := filetree.Flatten(sampleTree(), time.Now())
		// Deepest entry is /lib/models/net.py at nesting level 2.
		assert.Equal(t, 3, fm.Depth())
	})

	t.Run("top-level-only map is depth one", func(t *testing.T) {
		fm := filetree.Flatten(&filetree.TreeNode{
			Path:     "/",
			Children: []*filetree.TreeNode{{Path: "/a.txt"}, {Path: "/b/"}},
		}, time.Now())
		assert.Equal(t, 1, fm.Depth())
	})
}

func TestFileMapClone(t *testing.T) {
	fm := filetree.Flatten(sampleTree(), time.Now())
	clone := fm.Clone()
	clone.Remove("/lib/")

	assert.True(t, fm.Has("/lib/"), "clone mutation must not touch the original")
	assert.False(t, clone.Has("/lib/"))
}
