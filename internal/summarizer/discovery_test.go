package summarizer

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test Plan for FileDiscovery:
// - Every regular file is returned, rooted at rootDir, in walk order
// - Exclusions match the relative path, trailing sub-paths and segments
// - Excluded directories are pruned
// - Invalid patterns fail at construction
// - Cancelled context stops the walk

func TestFileDiscovery_DiscoverFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"main.go":                   "package main",
		"pkg/util.go":               "package pkg",
		"node_modules/test.js":      "x",
		"web/node_modules/lib/a.js": "x",
		".git/config":               "x",
		"app/__pycache__/m.pyc":     "x",
		"app/m.py":                  "x",
		"app/m.pyc":                 "x",
	})

	fd, err := NewFileDiscovery(root, []string{"node_modules/*", ".git/*", "__pycache__", "*.pyc"})
	require.NoError(t, err)

	files, err := fd.DiscoverFiles(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "app", "m.py"),
		filepath.Join(root, "main.go"),
		filepath.Join(root, "pkg", "util.go"),
	}, files)
}

func TestFileDiscovery_NoExclusions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"a.txt":   "x",
		"b/c.txt": "x",
	})

	fd, err := NewFileDiscovery(root, nil)
	require.NoError(t, err)

	files, err := fd.DiscoverFiles(context.Background())
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestFileDiscovery_ShouldExclude(t *testing.T) {
	t.Parallel()

	fd, err := NewFileDiscovery("/unused", []string{"node_modules/*", "vendor/**", "build", "docs/*.md", "  "})
	require.NoError(t, err)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"node_modules", true, true},
		{"node_modules/x.js", false, true},
		{"a/b/node_modules/x.js", false, true},
		{"vendor", true, true},
		{"vendor/github.com/x/y.go", false, true},
		{"build", true, true},
		{"src/build", true, true},
		{"build.go", false, false},
		{"docs/readme.md", false, true},
		{"docs/guide/readme.md", false, false},
		{"src/main.go", false, false},
		{"node_modules_extra/x.js", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, fd.ShouldExclude(tt.path, tt.isDir))
		})
	}
}

func TestNewFileDiscovery_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := NewFileDiscovery(t.TempDir(), []string{"[unclosed"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "[unclosed")
}

func TestFileDiscovery_Cancelled(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.go": "package a"})

	fd, err := NewFileDiscovery(root, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = fd.DiscoverFiles(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
