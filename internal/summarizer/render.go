package summarizer

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
	"github.com/mvp-joe/project-summarizer/internal/mermaid"
)

//go:embed templates/summary.md.tmpl
var summaryTemplate string

var summaryTmpl = template.Must(template.New("summary").Funcs(template.FuncMap{
	"quote": quoteDoc,
}).Parse(summaryTemplate))

type summaryData struct {
	Root         string
	FileCount    int
	PackageCount int
	SymbolCount  int
	Packages     []PackageGroup
	Dependencies []string
	Diagram      string
	Files        []fileView
}

type fileView struct {
	Path     string
	Language string
	Package  string
	Doc      string
	Symbols  []string
}

// Render produces the markdown summary document for results. File paths are
// shown relative to root.
func (s *Summarizer) Render(root string, results Results) (string, error) {
	g, err := BuildDependencyGraph(root, results)
	if err != nil {
		return "", fmt.Errorf("building dependency graph: %w", err)
	}
	diagram, err := mermaid.Render(g)
	if err != nil {
		return "", fmt.Errorf("rendering diagram: %w", err)
	}

	packages := results.Packages()
	data := summaryData{
		Root:         root,
		FileCount:    len(results),
		PackageCount: countPackages(results),
		SymbolCount:  results.SymbolCount(),
		Dependencies: results.Imports(),
		Diagram:      diagram,
	}

	for _, group := range packages {
		files := make([]string, len(group.Files))
		for i, path := range group.Files {
			files[i] = relativePath(root, path)
		}
		group.Files = files
		data.Packages = append(data.Packages, group)
	}

	for _, path := range results.Paths() {
		fs := results[path]
		if fs == nil {
			continue
		}
		view := fileView{
			Path:     relativePath(root, path),
			Language: fs.Language,
			Package:  fs.Package,
			Doc:      fs.Doc,
		}
		for _, sym := range fs.Symbols {
			view.Symbols = append(view.Symbols, symbolLine(sym))
		}
		data.Files = append(data.Files, view)
	}

	var buf bytes.Buffer
	if err := summaryTmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("executing template: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n") + "\n", nil
}

// WriteSummary renders the summary and writes it to outputPath, creating
// parent directories and overwriting any existing file.
func (s *Summarizer) WriteSummary(root string, results Results, outputPath string) error {
	doc, err := s.Render(root, results)
	if err != nil {
		return err
	}
	return writeFile(outputPath, []byte(doc))
}

// WriteSymbols writes the raw symbol tables as YAML, one entry per file in
// sorted path order.
func WriteSymbols(results Results, outputPath string) error {
	files := make([]*extraction.FileSymbols, 0, len(results))
	for _, path := range results.Paths() {
		if fs := results[path]; fs != nil {
			files = append(files, fs)
		}
	}

	data, err := yaml.Marshal(struct {
		Files []*extraction.FileSymbols `yaml:"files"`
	}{Files: files})
	if err != nil {
		return fmt.Errorf("encoding symbols: %w", err)
	}
	return writeFile(outputPath, data)
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// symbolLine formats one symbol as a markdown list item body.
func symbolLine(sym extraction.CodeSymbol) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "`%s` (%s", sym.Name, sym.Kind)
	if sym.IsMethod() {
		fmt.Fprintf(&sb, " on `%s`", sym.Parent)
	}
	sb.WriteString(")")
	if doc := firstLine(sym.Docstring); doc != "" {
		sb.WriteString(": " + doc)
	}
	return sb.String()
}

// quoteDoc renders doc text as a blockquote with leading # escaped, so it
// stays inside the section it is listed under.
func quoteDoc(doc string) string {
	lines := strings.Split(strings.TrimSpace(doc), "\n")
	for i, line := range lines {
		line = strings.TrimRight(line, " \t")
		switch {
		case line == "":
			lines[i] = ">"
		case strings.HasPrefix(strings.TrimLeft(line, " \t"), "#"):
			lines[i] = "> \\" + strings.TrimLeft(line, " \t")
		default:
			lines[i] = "> " + line
		}
	}
	return strings.Join(lines, "\n")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = strings.TrimSpace(s[:i])
	}
	return s
}

func relativePath(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
