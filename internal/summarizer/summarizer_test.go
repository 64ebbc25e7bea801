package summarizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
	"github.com/mvp-joe/project-summarizer/internal/parsers"
)

// Test Plan for Summarizer:
// - Sample project yields exactly the Go and Python entries
// - Excluded node_modules/.git files never appear and do not change results
// - Empty project yields an empty map without error
// - Missing or non-directory roots fail with ErrInvalidRoot
// - Files without a parser are omitted
// - Worker count does not change the results
// - Progress reporter sees discovery and completion
// - Custom registries restrict what is parsed

func TestSummarizeProject_SampleProject(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	results, err := New().SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	require.Len(t, results, 2)
	mainGo := results[filepath.Join(root, "src", "main.go")]
	corePy := results[filepath.Join(root, "python_pkg", "core.py")]
	require.NotNil(t, mainGo)
	require.NotNil(t, corePy)

	assert.Equal(t, extraction.LangGo, mainGo.Language)
	assert.Equal(t, "main", mainGo.Package)
	assert.Equal(t, []string{"fmt", "strings"}, mainGo.Imports)

	service, ok := mainGo.Find("UserService")
	require.True(t, ok)
	assert.Equal(t, extraction.KindInterface, service.Kind)
	assert.Contains(t, service.Docstring, "handles user-related operations")

	user, ok := mainGo.Find("User")
	require.True(t, ok)
	assert.Equal(t, extraction.KindType, user.Kind)

	fn, ok := mainGo.Find("main")
	require.True(t, ok)
	assert.Equal(t, extraction.KindFunction, fn.Kind)
	assert.False(t, fn.HasDocstring())

	assert.Equal(t, extraction.LangPython, corePy.Language)
	require.Len(t, corePy.Symbols, 1)
	assert.Equal(t, "main", corePy.Symbols[0].Name)
}

func TestSummarizeProject_Exclusions(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	s := New()

	before, err := s.SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	writeTree(t, root, map[string]string{
		"node_modules/test.js": "console.log('test');",
		"node_modules/dep.py":  "def hidden():\n    pass\n",
		".git/config":          "git config",
	})

	after, err := s.SummarizeProject(context.Background(), root, []string{"node_modules/*", ".git/*"})
	require.NoError(t, err)

	assert.Equal(t, before.Paths(), after.Paths())
	for _, path := range after.Paths() {
		assert.NotContains(t, path, "node_modules")
		assert.NotContains(t, path, ".git")
	}
}

func TestSummarizeProject_EmptyProject(t *testing.T) {
	t.Parallel()

	results, err := New().SummarizeProject(context.Background(), t.TempDir(), nil)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSummarizeProject_FullyExcluded(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	results, err := New().SummarizeProject(context.Background(), root, []string{"src", "python_pkg"})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSummarizeProject_InvalidRoot(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	file := filepath.Join(dir, "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0644))

	for _, root := range []string{filepath.Join(dir, "missing"), file} {
		_, err := New().SummarizeProject(context.Background(), root, nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRoot)
		assert.Contains(t, err.Error(), root)
	}
}

func TestSummarizeProject_InvalidPattern(t *testing.T) {
	t.Parallel()

	_, err := New().SummarizeProject(context.Background(), sampleProject(t), []string{"[bad"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidRoot)
}

func TestSummarizeProject_UnhandledFilesOmitted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"README.md":  "# readme",
		"Makefile":   "all:",
		"main.GO":    "package main",
		"ok.go":      "package ok",
		"binary.py":  "\x00\x01\x02",
		"scripts.py": "import os\n",
	})

	results, err := New().SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "binary.py"),
		filepath.Join(root, "ok.go"),
		filepath.Join(root, "scripts.py"),
	}, results.Paths())
	assert.True(t, results[filepath.Join(root, "binary.py")].IsEmpty())
}

func TestSummarizeProject_WorkersAreDeterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	files := make(map[string]string)
	for i := 0; i < 40; i++ {
		name := string(rune('a'+i%26)) + strings.Repeat("x", i/26)
		files["pkg"+name+"/"+name+".go"] = "package pkg" + name + "\n\n// F" + name + " is documented.\nfunc F" + name + "() {}\n"
	}
	writeTree(t, root, files)

	sequential, err := New(WithWorkers(1)).SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)
	parallel, err := New(WithWorkers(8)).SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	require.Len(t, sequential, 40)
	assert.Equal(t, sequential, parallel)
}

func TestSummarizeProject_Progress(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	writeTree(t, root, map[string]string{"notes.txt": "x"})

	progress := &recordingProgress{}
	_, err := New(WithProgress(progress)).SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	assert.Equal(t, 3, progress.discovered)
	assert.Equal(t, 2, progress.parseable)
	assert.Equal(t, 2, progress.started)
	require.NotNil(t, progress.stats)
	assert.Equal(t, 2, progress.stats.FilesParsed)
	assert.Equal(t, 1, progress.stats.Packages)
	assert.Equal(t, 4, progress.stats.Symbols)
}

func TestSummarizeProject_CustomRegistry(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	s := New(WithRegistry(parsers.NewRegistry(parsers.NewPythonParser())))

	results, err := s.SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "python_pkg", "core.py")}, results.Paths())
}

func TestSummarizeProject_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New().SummarizeProject(ctx, sampleProject(t), nil)
	assert.ErrorIs(t, err, context.Canceled)
}
