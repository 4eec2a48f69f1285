package filetree_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/allansene/orchest/pkg/filetree"
)

func TestIsDirectory(t *testing.T) {
	assert.True(t, filetree.IsDirectory("/a/b/"))
	assert.True(t, filetree.IsDirectory("/"))
	assert.False(t, filetree.IsDirectory("/a/b"))
	assert.False(t, filetree.IsDirectory("/a/b.txt"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "/", filetree.Normalize(""))
	assert.Equal(t, "/a/b", filetree.Normalize("a/b"))
	assert.Equal(t, "/a/b/", filetree.Normalize("/a/b/"))
}

func TestDirname(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/a/b", "/a/"},
		{"/a/b/", "/a/"},
		{"/a", "/"},
		{"/a/", "/"},
		{"/", "/"},
		{"/a/b/c.txt", "/a/b/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filetree.Dirname(tt.path), "Dirname(%q)", tt.path)
	}
}

func TestBasename(t *testing.T) {
	assert.Equal(t, "b", filetree.Basename("/a/b"))
	assert.Equal(t, "b", filetree.Basename("/a/b/"))
	assert.Equal(t, "c.txt", filetree.Basename("/a/b/c.txt"))
}

func TestContainingDirectory(t *testing.T) {
	assert.Equal(t, "/a/b/", filetree.ContainingDirectory("/a/b/"))
	assert.Equal(t, "/a/", filetree.ContainingDirectory("/a/b"))
	assert.Equal(t, "/", filetree.ContainingDirectory(""))
}

func TestLevels(t *testing.T) {
	tests := []struct {
		path string
		want int
	}{
		{"/", 0},
		{"/a", 0},
		{"/a/", 0},
		{"/a/b", 1},
		{"/a/b/", 1},
		{"/a/b/c.txt", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, filetree.Levels(tt.path), "Levels(%q)", tt.path)
	}
}
