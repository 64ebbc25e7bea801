package summarizer

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dominikbraun/graph"
	"golang.org/x/mod/modfile"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
)

// BuildDependencyGraph derives the internal package dependency graph. Every
// named package becomes a vertex; an edge a -> b exists when a file of
// package a imports something that resolves to package b. Imports that do
// not resolve to a project package are left out, as are self-edges.
func BuildDependencyGraph(root string, results Results) (graph.Graph[string, string], error) {
	g := graph.New(graph.StringHash, graph.Directed())

	resolver := newImportResolver(modulePath(root))
	for _, path := range results.Paths() {
		fs := results[path]
		if fs == nil || fs.Package == "" {
			continue
		}
		resolver.add(fs.Language, fs.Package)
	}

	for _, name := range resolver.names() {
		if err := g.AddVertex(name); err != nil && !errors.Is(err, graph.ErrVertexAlreadyExists) {
			return nil, fmt.Errorf("failed to add package %s: %w", name, err)
		}
	}

	for _, path := range results.Paths() {
		fs := results[path]
		if fs == nil || fs.Package == "" {
			continue
		}
		for _, imp := range fs.Imports {
			target, ok := resolver.resolve(fs, imp)
			if !ok || target == fs.Package {
				continue
			}
			err := g.AddEdge(fs.Package, target)
			if err != nil && !errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil, fmt.Errorf("failed to add dependency %s -> %s: %w", fs.Package, target, err)
			}
		}
	}

	return g, nil
}

// modulePath returns the module path declared in root/go.mod, or "" when
// there is no readable go.mod.
func modulePath(root string) string {
	modPath := filepath.Join(root, "go.mod")
	data, err := os.ReadFile(modPath)
	if err != nil {
		return ""
	}

	modFile, err := modfile.Parse(modPath, data, nil)
	if err != nil {
		log.Printf("Warning: failed to parse %s: %v", modPath, err)
		return ""
	}
	if modFile.Module == nil {
		return ""
	}
	return modFile.Module.Mod.Path
}

// importResolver maps import strings onto project packages, per language.
type importResolver struct {
	module   string
	packages map[string]map[string]bool // language -> package set
}

func newImportResolver(module string) *importResolver {
	return &importResolver{
		module:   module,
		packages: make(map[string]map[string]bool),
	}
}

func (r *importResolver) add(language, pkg string) {
	set, ok := r.packages[language]
	if !ok {
		set = make(map[string]bool)
		r.packages[language] = set
	}
	set[pkg] = true
}

// names returns every known package, sorted and deduplicated across languages.
func (r *importResolver) names() []string {
	seen := make(map[string]bool)
	var out []string
	for _, set := range r.packages {
		for pkg := range set {
			if !seen[pkg] {
				seen[pkg] = true
				out = append(out, pkg)
			}
		}
	}
	sort.Strings(out)
	return out
}

// resolve returns the package an import of fs refers to. The longest
// matching package name wins.
func (r *importResolver) resolve(fs *extraction.FileSymbols, imp string) (string, bool) {
	var best string
	for pkg := range r.packages[fs.Language] {
		if !r.matches(fs, imp, pkg) {
			continue
		}
		if len(pkg) > len(best) || (len(pkg) == len(best) && pkg < best) {
			best = pkg
		}
	}
	return best, best != ""
}

func (r *importResolver) matches(fs *extraction.FileSymbols, imp, pkg string) bool {
	switch fs.Language {
	case extraction.LangPython:
		if strings.HasPrefix(imp, ".") {
			// Relative imports stay inside the importing package.
			return pkg == fs.Package
		}
		return imp == pkg || strings.HasPrefix(imp, pkg+".")

	case extraction.LangGo:
		// With a go.mod only paths inside the module are project imports.
		if r.module != "" && imp != r.module && !strings.HasPrefix(imp, r.module+"/") {
			return false
		}
		return imp == pkg || imp[strings.LastIndexByte(imp, '/')+1:] == pkg
	}
	return false
}
