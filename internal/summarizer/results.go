package summarizer

import (
	"sort"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
)

// UngroupedPackage names the bucket for files without a package identifier.
const UngroupedPackage = "(ungrouped)"

// Results maps each parsed file path, as discovered, to its symbol table.
type Results map[string]*extraction.FileSymbols

// Paths returns the file paths in sorted order.
func (r Results) Paths() []string {
	paths := make([]string, 0, len(r))
	for path := range r {
		paths = append(paths, path)
	}
	sort.Strings(paths)
	return paths
}

// PackageGroup is one package and the files that declared it.
type PackageGroup struct {
	Name  string
	Doc   string   // first non-empty doc among the files
	Files []string // sorted
}

// Ungrouped reports whether this is the bucket of files without a package.
func (g PackageGroup) Ungrouped() bool {
	return g.Name == UngroupedPackage
}

// Packages groups files by package identifier. Named packages come first in
// sorted order, followed by the ungrouped bucket when it is non-empty.
func (r Results) Packages() []PackageGroup {
	byName := make(map[string]*PackageGroup)
	var ungrouped *PackageGroup

	for _, path := range r.Paths() {
		fs := r[path]
		if fs == nil {
			continue
		}
		if fs.Package == "" {
			if ungrouped == nil {
				ungrouped = &PackageGroup{Name: UngroupedPackage}
			}
			ungrouped.Files = append(ungrouped.Files, path)
			continue
		}

		group, ok := byName[fs.Package]
		if !ok {
			group = &PackageGroup{Name: fs.Package}
			byName[fs.Package] = group
		}
		group.Files = append(group.Files, path)
		if group.Doc == "" {
			group.Doc = fs.Doc
		}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Strings(names)

	groups := make([]PackageGroup, 0, len(names)+1)
	for _, name := range names {
		groups = append(groups, *byName[name])
	}
	if ungrouped != nil {
		groups = append(groups, *ungrouped)
	}
	return groups
}

// Imports returns every distinct import across all files, sorted.
func (r Results) Imports() []string {
	seen := make(map[string]bool)
	var imports []string
	for _, fs := range r {
		if fs == nil {
			continue
		}
		for _, imp := range fs.Imports {
			if !seen[imp] {
				seen[imp] = true
				imports = append(imports, imp)
			}
		}
	}
	sort.Strings(imports)
	return imports
}

// SymbolCount returns the total number of symbols across all files.
func (r Results) SymbolCount() int {
	n := 0
	for _, fs := range r {
		if fs != nil {
			n += len(fs.Symbols)
		}
	}
	return n
}
