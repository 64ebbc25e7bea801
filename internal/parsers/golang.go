package parsers

import (
	"context"
	"strings"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
)

// goParser scans Go files line by line. It recognises the package clause,
// imports, top-level functions and methods, and type declarations, and pairs
// each with the // or /* */ comment block directly above it.
type goParser struct {
	*lineParser
}

// NewGoParser creates a parser for .go files.
func NewGoParser() Parser {
	return &goParser{
		lineParser: newLineParser(extraction.LangGo, ".go"),
	}
}

// ParseFile reads and scans a Go source file.
func (p *goParser) ParseFile(ctx context.Context, path string) *extraction.FileSymbols {
	source, ok := p.load(ctx, path)
	if !ok {
		return extraction.Empty(path, p.lang)
	}
	return p.Parse(path, source)
}

// Parse scans Go source text.
func (p *goParser) Parse(path string, source []byte) *extraction.FileSymbols {
	s := &goScanner{
		state:  goSeekingPackage,
		result: extraction.Empty(path, p.lang),
	}
	for i, line := range splitLines(source) {
		s.scan(i+1, line)
	}
	return s.result
}

// goState is the structural state of the scanner.
type goState int

const (
	goSeekingPackage goState = iota
	goSeekingDeclaration
	goInImportBlock
	goInTypeBlock
)

// goLexMode is the lexical state carried from one line to the next.
type goLexMode int

const (
	goCode goLexMode = iota
	goInBlockComment
	goInRawString
)

type goScanner struct {
	state  goState
	mode   goLexMode
	depth  int // brace depth at the start of the current line
	doc    docBuffer
	result *extraction.FileSymbols
}

func (s *goScanner) scan(lineNo int, line string) {
	next, delta := lexGoLine(line, s.mode)

	switch {
	case s.mode == goInBlockComment:
		s.blockCommentLine(lineNo, line, next)
	case s.mode == goInRawString:
		s.doc.reset()
	case s.depth > 0:
		// Inside a function body or composite literal.
		s.doc.reset()
	default:
		s.step(lineNo, line, next)
	}

	s.mode = next
	s.depth += delta
	if s.depth < 0 {
		s.depth = 0
	}
}

// blockCommentLine collects the text of a multi-line /* */ comment. Code
// after the closing */ is scanned with the comment as its doc.
func (s *goScanner) blockCommentLine(lineNo int, line string, next goLexMode) {
	if s.depth > 0 {
		return
	}
	text, rest := line, ""
	if next != goInBlockComment {
		end := strings.Index(line, "*/")
		if end < 0 {
			end = len(line)
		}
		text = line[:end]
		rest = strings.TrimSpace(line[min(end+2, len(line)):])
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSpace(strings.TrimPrefix(text, "*"))
	s.doc.add(text)
	if rest != "" {
		s.step(lineNo, rest, next)
	}
}

// step handles one line that starts at top level outside any comment or
// string literal.
func (s *goScanner) step(lineNo int, line string, next goLexMode) {
	trimmed := strings.TrimSpace(line)

	switch {
	case trimmed == "":
		s.doc.reset()
		return
	case strings.HasPrefix(trimmed, "//"):
		s.lineComment(trimmed)
		return
	case strings.HasPrefix(trimmed, "/*"):
		s.blockCommentStart(lineNo, trimmed, next)
		return
	}

	switch s.state {
	case goInImportBlock:
		s.importBlockLine(trimmed)
		s.doc.reset()
	case goInTypeBlock:
		s.typeBlockLine(lineNo, trimmed)
	default:
		s.topLevelLine(lineNo, trimmed)
	}
}

func (s *goScanner) lineComment(trimmed string) {
	text := strings.TrimPrefix(trimmed, "//")
	// Directives such as //go:build or //nolint:foo are not documentation.
	if isGoDirective(text) {
		return
	}
	s.doc.add(strings.TrimPrefix(text, " "))
}

func (s *goScanner) blockCommentStart(lineNo int, trimmed string, next goLexMode) {
	inner := trimmed[2:]
	end := strings.Index(inner, "*/")
	if end < 0 {
		if next == goInBlockComment {
			s.doc.add(strings.TrimSpace(inner))
		}
		return
	}
	// One-line comment, possibly followed by code: /* Foo does x */ func Foo() {}
	s.doc.add(strings.TrimSpace(inner[:end]))
	if rest := strings.TrimSpace(inner[end+2:]); rest != "" {
		s.step(lineNo, rest, next)
	}
}

func (s *goScanner) topLevelLine(lineNo int, trimmed string) {
	if rest, ok := hasKeyword(trimmed, "package", ""); ok {
		name, _ := readIdent(rest)
		if s.state == goSeekingPackage && name != "" {
			s.result.Package = name
			s.result.Doc = s.doc.take()
			s.state = goSeekingDeclaration
		}
		s.doc.reset()
		return
	}

	if rest, ok := hasKeyword(trimmed, "import", "(\"`"); ok {
		s.importDecl(rest)
		s.doc.reset()
		return
	}

	if rest, ok := hasKeyword(trimmed, "func", "("); ok {
		if name, parent, ok := parseGoFunc(rest); ok {
			s.addSymbol(lineNo, name, extraction.KindFunction, parent)
		}
		s.doc.reset()
		return
	}

	if rest, ok := hasKeyword(trimmed, "type", "("); ok {
		if strings.HasPrefix(rest, "(") {
			s.doc.reset()
			if end := matchBracket(rest, '(', ')'); end >= 0 {
				for _, spec := range strings.Split(rest[1:end], ";") {
					if name, kind, ok := parseGoTypeSpec(strings.TrimSpace(spec)); ok {
						s.addSymbol(lineNo, name, kind, "")
					}
				}
				return
			}
			s.state = goInTypeBlock
			if inner := strings.TrimSpace(rest[1:]); inner != "" {
				s.typeBlockLine(lineNo, inner)
			}
			return
		}
		if name, kind, ok := parseGoTypeSpec(rest); ok {
			s.addSymbol(lineNo, name, kind, "")
		}
		s.doc.reset()
		return
	}

	s.doc.reset()
}

func (s *goScanner) importDecl(rest string) {
	if !strings.HasPrefix(rest, "(") {
		if path, ok := parseGoImportSpec(rest); ok {
			s.result.Imports = append(s.result.Imports, path)
		}
		return
	}

	inner := rest[1:]
	if closing := closingParen(inner); closing >= 0 {
		s.importSpecs(inner[:closing])
		return
	}
	s.importSpecs(inner)
	s.state = goInImportBlock
}

func (s *goScanner) importBlockLine(trimmed string) {
	if strings.HasPrefix(trimmed, ")") {
		s.state = goSeekingDeclaration
		return
	}
	if closing := closingParen(trimmed); closing >= 0 {
		s.importSpecs(trimmed[:closing])
		s.state = goSeekingDeclaration
		return
	}
	s.importSpecs(trimmed)
}

// importSpecs parses one or more ;-separated import specs.
func (s *goScanner) importSpecs(text string) {
	for _, spec := range strings.Split(text, ";") {
		if path, ok := parseGoImportSpec(spec); ok {
			s.result.Imports = append(s.result.Imports, path)
		}
	}
}

func (s *goScanner) typeBlockLine(lineNo int, trimmed string) {
	if strings.HasPrefix(trimmed, ")") {
		s.state = goSeekingDeclaration
		s.doc.reset()
		return
	}
	if name, kind, ok := parseGoTypeSpec(trimmed); ok {
		s.addSymbol(lineNo, name, kind, "")
	}
	s.doc.reset()
}

func (s *goScanner) addSymbol(lineNo int, name string, kind extraction.SymbolKind, parent string) {
	s.result.Symbols = append(s.result.Symbols, extraction.CodeSymbol{
		Name:      name,
		Kind:      kind,
		Docstring: s.doc.take(),
		Parent:    parent,
		Line:      lineNo,
	})
}

// parseGoFunc parses the text after the func keyword. Methods return the
// receiver's base type as parent.
func parseGoFunc(rest string) (name, parent string, ok bool) {
	if strings.HasPrefix(rest, "(") {
		end := matchBracket(rest, '(', ')')
		if end < 0 {
			return "", "", false
		}
		parent = receiverType(rest[1:end])
		if parent == "" {
			return "", "", false
		}
		rest = strings.TrimSpace(rest[end+1:])
	}

	name, after := readIdent(rest)
	if name == "" {
		return "", "", false
	}
	after = strings.TrimLeft(after, " \t")
	if !strings.HasPrefix(after, "(") && !strings.HasPrefix(after, "[") {
		return "", "", false
	}
	return name, parent, true
}

// receiverType extracts T from receivers like "s *T", "T", "r *T[K, V]".
func receiverType(recv string) string {
	if i := strings.IndexByte(recv, '['); i >= 0 {
		recv = recv[:i]
	}
	fields := strings.Fields(recv)
	if len(fields) == 0 {
		return ""
	}
	name, _ := readIdent(strings.TrimLeft(fields[len(fields)-1], "*"))
	return name
}

// parseGoTypeSpec parses "Name [params] Type" or "Name = Type".
func parseGoTypeSpec(spec string) (string, extraction.SymbolKind, bool) {
	name, rest := readIdent(spec)
	if name == "" {
		return "", "", false
	}

	// Type parameters directly follow the name; array types are separated
	// by a space and never contain one inside the brackets.
	if strings.HasPrefix(rest, "[") {
		end := matchBracket(rest, '[', ']')
		if end > 0 && strings.ContainsAny(rest[1:end], " \t") {
			rest = rest[end+1:]
		}
	}
	rest = strings.TrimSpace(rest)
	if rest == "" {
		return "", "", false
	}
	if strings.HasPrefix(rest, "=") {
		rest = strings.TrimSpace(rest[1:])
	}
	if _, ok := hasKeyword(rest, "interface", "{"); ok {
		return name, extraction.KindInterface, true
	}
	return name, extraction.KindType, true
}

// parseGoImportSpec parses `[name] "path"` with an optional trailing comment.
func parseGoImportSpec(spec string) (string, bool) {
	spec = strings.TrimSpace(spec)
	if i := strings.Index(spec, "//"); i >= 0 && !insideQuotes(spec, i) {
		spec = strings.TrimSpace(spec[:i])
	}
	if spec == "" {
		return "", false
	}

	if spec[0] != '"' && spec[0] != '`' {
		var name string
		if spec[0] == '.' || spec[0] == '_' && (len(spec) == 1 || spec[1] == ' ' || spec[1] == '\t') {
			name, spec = spec[:1], spec[1:]
		} else {
			name, spec = readIdent(spec)
		}
		if name == "" {
			return "", false
		}
		spec = strings.TrimSpace(spec)
	}
	if spec == "" {
		return "", false
	}

	quote := spec[0]
	if quote != '"' && quote != '`' {
		return "", false
	}
	end := strings.IndexByte(spec[1:], quote)
	if end <= 0 {
		return "", false
	}
	return spec[1 : end+1], true
}

// closingParen returns the index of the first ) outside string literals.
func closingParen(s string) int {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '"', '`':
			end := strings.IndexByte(s[i+1:], s[i])
			if end < 0 {
				return -1
			}
			i += end + 1
		case ')':
			return i
		}
	}
	return -1
}

func insideQuotes(s string, pos int) bool {
	inside := false
	var quote byte
	for i := 0; i < pos; i++ {
		c := s[i]
		switch {
		case inside && c == quote:
			inside = false
		case !inside && (c == '"' || c == '`'):
			inside, quote = true, c
		}
	}
	return inside
}

// matchBracket returns the index of the bracket closing s[0], or -1.
func matchBracket(s string, open, close byte) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isGoDirective(text string) bool {
	if strings.HasPrefix(text, " +build") || strings.HasPrefix(text, "line ") {
		return true
	}
	word, rest := readIdent(text)
	return word != "" && strings.HasPrefix(rest, ":") && word == strings.ToLower(word)
}

// lexGoLine advances the lexical mode over one line and returns the mode at
// its end together with the net change in brace depth. Braces inside
// strings, runes and comments are ignored.
func lexGoLine(line string, mode goLexMode) (goLexMode, int) {
	delta := 0
	for i := 0; i < len(line); {
		switch mode {
		case goInRawString:
			end := strings.IndexByte(line[i:], '`')
			if end < 0 {
				return mode, delta
			}
			i += end + 1
			mode = goCode

		case goInBlockComment:
			end := strings.Index(line[i:], "*/")
			if end < 0 {
				return mode, delta
			}
			i += end + 2
			mode = goCode

		default:
			c := line[i]
			switch {
			case c == '/' && i+1 < len(line) && line[i+1] == '/':
				return mode, delta
			case c == '/' && i+1 < len(line) && line[i+1] == '*':
				mode = goInBlockComment
				i += 2
			case c == '`':
				mode = goInRawString
				i++
			case c == '"' || c == '\'':
				i = skipQuoted(line, i)
			case c == '{':
				delta++
				i++
			case c == '}':
				delta--
				i++
			default:
				i++
			}
		}
	}
	return mode, delta
}

// skipQuoted returns the index just past the interpreted string or rune
// literal starting at i. Unterminated literals end at the end of the line.
func skipQuoted(line string, i int) int {
	quote := line[i]
	for j := i + 1; j < len(line); j++ {
		switch line[j] {
		case '\\':
			j++
		case quote:
			return j + 1
		}
	}
	return len(line)
}
