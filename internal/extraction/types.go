package extraction

// SymbolKind classifies an extracted declaration.
type SymbolKind string

const (
	KindFunction  SymbolKind = "function"
	KindType      SymbolKind = "type"
	KindInterface SymbolKind = "interface"
	KindClass     SymbolKind = "class"
	KindMethod    SymbolKind = "method" // reserved, methods are reported as functions with a Parent
)

// Language names used in FileSymbols.Language.
const (
	LangGo     = "go"
	LangPython = "python"
)

// CodeSymbol represents a single declaration found in a source file.
type CodeSymbol struct {
	Name      string     `json:"name" yaml:"name"`
	Kind      SymbolKind `json:"kind" yaml:"kind"`
	Docstring string     `json:"docstring,omitempty" yaml:"docstring,omitempty"` // empty when no doc is attached
	Parent    string     `json:"parent,omitempty" yaml:"parent,omitempty"`       // receiver type (Go) or enclosing class (Python)
	Line      int        `json:"line" yaml:"line"`
}

// HasDocstring reports whether documentation was attached to the symbol.
func (s CodeSymbol) HasDocstring() bool {
	return s.Docstring != ""
}

// IsMethod reports whether the symbol was declared on a type or inside a class.
func (s CodeSymbol) IsMethod() bool {
	return s.Parent != ""
}

// FileSymbols is the complete extraction result for one source file.
type FileSymbols struct {
	Path     string       `json:"path" yaml:"path"`
	Language string       `json:"language" yaml:"language"`
	Package  string       `json:"package,omitempty" yaml:"package,omitempty"`
	Doc      string       `json:"doc,omitempty" yaml:"doc,omitempty"` // package doc comment or module docstring
	Imports  []string     `json:"imports" yaml:"imports"`
	Symbols  []CodeSymbol `json:"symbols" yaml:"symbols"`
}

// Empty returns the result used for files that could not be read or contain
// nothing recognisable.
func Empty(path, language string) *FileSymbols {
	return &FileSymbols{
		Path:     path,
		Language: language,
		Imports:  []string{},
		Symbols:  []CodeSymbol{},
	}
}

// IsEmpty reports whether nothing was extracted from the file.
func (f *FileSymbols) IsEmpty() bool {
	return f == nil || (f.Package == "" && f.Doc == "" && len(f.Imports) == 0 && len(f.Symbols) == 0)
}

// Find returns the first symbol with the given name.
func (f *FileSymbols) Find(name string) (CodeSymbol, bool) {
	if f == nil {
		return CodeSymbol{}, false
	}
	for _, sym := range f.Symbols {
		if sym.Name == name {
			return sym, true
		}
	}
	return CodeSymbol{}, false
}
