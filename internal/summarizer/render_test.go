package summarizer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
)

// Test Plan for Render / WriteSummary / WriteSymbols:
// - Sample project summary has every required heading and a graph LR; fence
// - Package structure lists named packages then the ungrouped bucket
// - Dependencies are distinct and sorted
// - Package docs and symbol docs are rendered
// - Headings inside docs are quoted and never become document headings
// - Edges appear in the embedded diagram
// - WriteSummary creates parent directories and overwrites
// - Empty results still render a well-formed document
// - WriteSymbols emits YAML that decodes back to the tables

func TestWriteSummary_SampleProject(t *testing.T) {
	t.Parallel()

	root := sampleProject(t)
	s := New()
	results, err := s.SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	output := filepath.Join(t.TempDir(), "nested", "summary.md")
	require.NoError(t, s.WriteSummary(root, results, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	content := string(data)

	assert.True(t, strings.HasPrefix(content, "# Project Summary\n"))
	assert.Contains(t, content, "## Project Architecture")
	assert.Contains(t, content, "### Package Structure")
	assert.Contains(t, content, "### Dependencies")
	assert.Contains(t, content, "## Files")
	assert.Contains(t, content, "```mermaid\ngraph LR;\n  %% Nodes\n  main[\"main\"];\n```")
	assert.NotContains(t, content, "%% Dependencies")

	assert.Contains(t, content, "#### `main`\n\n- `src/main.go`\n")
	assert.Contains(t, content, "#### (ungrouped)\n\n- `python_pkg/core.py`\n")
	assert.Less(t, strings.Index(content, "#### `main`"), strings.Index(content, "#### (ungrouped)"))

	assert.Contains(t, content, "- `fmt`\n- `strings`\n")
	assert.Contains(t, content, "- `UserService` (interface): UserService handles user-related operations")
	assert.Contains(t, content, "- `main` (function)\n")
	assert.Contains(t, content, "- Files: 2\n- Packages: 1\n- Symbols: 4\n")
}

func TestRender_PackagesDocsAndEdges(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/__init__.py": `"""Application package.

Longer description.
"""
from app.models import User
`,
		"app/models/__init__.py": "",
		"app/models/user.py": `class User:
    """A user.

    Details here.
    """

    def save(self):
        pass
`,
		"tool.py": "import os\nimport os\n",
	})

	s := New()
	results, err := s.SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	content, err := s.Render(root, results)
	require.NoError(t, err)

	assert.Contains(t, content, "#### `app`\n\n> Application package.\n>\n> Longer description.\n\n- `app/__init__.py`\n")
	assert.Contains(t, content, "#### `app.models`\n\n- `app/models/__init__.py`\n- `app/models/user.py`\n")
	assert.Contains(t, content, "#### (ungrouped)\n\n- `tool.py`\n")

	assert.Contains(t, content, "  %% Dependencies\n  app --> app_models;\n")
	assert.Contains(t, content, `  app_models["app.models"];`)

	assert.Equal(t, 1, strings.Count(content, "- `os`\n"))
	assert.Contains(t, content, "- `User` (class): A user.\n")
	assert.Contains(t, content, "- `save` (function on `User`)\n")
	assert.Contains(t, content, "### `app/models/__init__.py`\n\n- Language: python\n- Package: `app.models`\n\n_No symbols found._\n")
}

func TestRender_DocHeadingsStayQuoted(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"app/doc.go": `// Package app does x.
//
// # Usage
//
// Run it.
package app
`,
	})

	s := New()
	results, err := s.SummarizeProject(context.Background(), root, nil)
	require.NoError(t, err)

	content, err := s.Render(root, results)
	require.NoError(t, err)

	quoted := "> Package app does x.\n>\n> \\# Usage\n>\n> Run it.\n"
	assert.Contains(t, content, "#### `app`\n\n"+quoted)
	assert.Equal(t, 2, strings.Count(content, quoted))

	var headings []string
	for _, line := range strings.Split(content, "\n") {
		if strings.HasPrefix(line, "#") {
			headings = append(headings, line)
		}
	}
	assert.Equal(t, []string{
		"# Project Summary",
		"## Project Architecture",
		"### Package Structure",
		"#### `app`",
		"### Dependencies",
		"### Dependency Graph",
		"## Files",
		"### `app/doc.go`",
	}, headings)
}

func TestQuoteDoc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"single line", "Runs things.", "> Runs things."},
		{"blank lines", "A.\n\nB.", "> A.\n>\n> B."},
		{"heading", "## Notes\n  # indented", "> \\## Notes\n> \\# indented"},
		{"trailing space", "A.  \n", "> A."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, quoteDoc(tt.doc))
		})
	}
}

func TestRender_Empty(t *testing.T) {
	t.Parallel()

	content, err := New().Render("/project", Results{})
	require.NoError(t, err)

	assert.Contains(t, content, "# Project Summary")
	assert.Contains(t, content, "_No packages found._")
	assert.Contains(t, content, "_No imports found._")
	assert.Contains(t, content, "```mermaid\ngraph LR;\n  %% Nodes\n```")
	assert.Contains(t, content, "_No source files found._")
	assert.True(t, strings.HasSuffix(content, "\n"))
	assert.False(t, strings.HasSuffix(content, "\n\n"))
}

func TestWriteSummary_Overwrites(t *testing.T) {
	t.Parallel()

	output := filepath.Join(t.TempDir(), "summary.md")
	require.NoError(t, os.WriteFile(output, []byte("stale content"), 0644))

	require.NoError(t, New().WriteSummary("/project", Results{}, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale content")
}

func TestWriteSymbols(t *testing.T) {
	t.Parallel()

	results := Results{
		"b.go": fileSymbols("b.go", extraction.LangGo, "b", "fmt"),
		"a.py": fileSymbols("a.py", extraction.LangPython, ""),
	}
	results["b.go"].Symbols = append(results["b.go"].Symbols, extraction.CodeSymbol{
		Name:      "Run",
		Kind:      extraction.KindFunction,
		Docstring: "Run starts it.",
		Parent:    "Server",
		Line:      7,
	})

	output := filepath.Join(t.TempDir(), "out", "symbols.yaml")
	require.NoError(t, WriteSymbols(results, output))

	data, err := os.ReadFile(output)
	require.NoError(t, err)

	var decoded struct {
		Files []*extraction.FileSymbols `yaml:"files"`
	}
	require.NoError(t, yaml.Unmarshal(data, &decoded))
	require.Len(t, decoded.Files, 2)
	assert.Equal(t, "a.py", decoded.Files[0].Path)
	assert.Equal(t, results["b.go"], decoded.Files[1])
}

func TestSymbolLine(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "`F` (function)", symbolLine(extraction.CodeSymbol{Name: "F", Kind: extraction.KindFunction}))
	assert.Equal(t, "`Run` (function on `Server`): Run starts it.", symbolLine(extraction.CodeSymbol{
		Name:      "Run",
		Kind:      extraction.KindFunction,
		Parent:    "Server",
		Docstring: "Run starts it.\nMore detail.",
	}))
}
