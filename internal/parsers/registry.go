package parsers

// Registry dispatches files to parsers. Parsers are consulted in
// registration order and the first one that accepts a path wins.
type Registry struct {
	parsers []Parser
}

// NewRegistry creates a registry with the given parsers in priority order.
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{}
	for _, p := range parsers {
		r.Register(p)
	}
	return r
}

// DefaultRegistry returns a registry with the Go and Python parsers.
func DefaultRegistry() *Registry {
	return NewRegistry(NewGoParser(), NewPythonParser())
}

// Register appends a parser after the existing ones.
func (r *Registry) Register(p Parser) {
	if p == nil {
		return
	}
	r.parsers = append(r.parsers, p)
}

// Select returns the first parser that can parse path, or nil when the file
// is not handled by any parser.
func (r *Registry) Select(path string) Parser {
	for _, p := range r.parsers {
		if p.CanParse(path) {
			return p
		}
	}
	return nil
}

// Parsers returns the registered parsers in order.
func (r *Registry) Parsers() []Parser {
	out := make([]Parser, len(r.parsers))
	copy(out, r.parsers)
	return out
}

// Extensions returns every handled extension, in registration order and
// without duplicates.
func (r *Registry) Extensions() []string {
	seen := make(map[string]bool)
	var exts []string
	for _, p := range r.parsers {
		for _, ext := range p.Extensions() {
			if !seen[ext] {
				seen[ext] = true
				exts = append(exts, ext)
			}
		}
	}
	return exts
}
