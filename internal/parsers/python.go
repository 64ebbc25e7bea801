package parsers

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
)

// pythonParser scans Python files line by line. Classes and functions are
// documented by a string literal leading their body, never by preceding
// comments.
type pythonParser struct {
	*lineParser
}

// NewPythonParser creates a parser for .py files.
func NewPythonParser() Parser {
	return &pythonParser{
		lineParser: newLineParser(extraction.LangPython, ".py"),
	}
}

// ParseFile reads and scans a Python source file.
func (p *pythonParser) ParseFile(ctx context.Context, path string) *extraction.FileSymbols {
	source, ok := p.load(ctx, path)
	if !ok {
		return extraction.Empty(path, p.lang)
	}
	return p.Parse(path, source)
}

// Parse scans Python source text. The package is taken from the chain of
// enclosing directories that contain an __init__.py.
func (p *pythonParser) Parse(path string, source []byte) *extraction.FileSymbols {
	s := &pyScanner{
		state:   pySeekingDeclaration,
		result:  extraction.Empty(path, p.lang),
		pending: noPending,
	}
	s.result.Package = pythonPackage(path)
	for i, line := range splitLines(source) {
		s.scan(i+1, line)
	}
	s.finishDocstring()
	return s.result
}

// pyState is the structural state of the scanner.
type pyState int

const (
	pySeekingDeclaration pyState = iota
	pyInHeader                   // def/class signature continues on following lines
	pyAwaitingDocstring          // header complete, first body statement not seen yet
	pyInDocstring                // inside a multi-line docstring
	pyInString                   // inside some other multi-line string
	pyInImportContinuation       // parenthesised or backslash-continued import
)

const (
	noPending     = -2 // docstring has no target
	pendingModule = -1 // docstring documents the module
)

// pyScope is one open class or function body.
type pyScope struct {
	indent int
	kind   extraction.SymbolKind
	name   string
}

type pyScanner struct {
	state         pyState
	lex           pyLex
	scopes        []pyScope
	pending       int // symbol index awaiting a docstring, or pendingModule
	headerIndent  int
	docDelim      string
	docRaw        bool
	docLines      []string
	seenStatement bool
	result        *extraction.FileSymbols
}

func (s *pyScanner) scan(lineNo int, line string) {
	start := s.lex
	info := lexPyLine(line, start)
	s.lex = info.next

	// Lines that begin inside a string or a bracketed/continued expression
	// never start a statement.
	if start.delim != "" {
		s.stringLine(line, info)
		return
	}
	if start.depth > 0 || start.continued {
		s.continuationLine(info)
		return
	}

	trimmed := strings.TrimSpace(line)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return
	}
	indent := indentWidth(line)

	if s.state == pyAwaitingDocstring {
		s.state = pySeekingDeclaration
		if indent > s.headerIndent && isDocstringStart(trimmed) {
			s.startDocstring(trimmed, info)
			return
		}
		s.pending = noPending
	}

	if !s.seenStatement {
		s.seenStatement = true
		if isDocstringStart(trimmed) {
			s.pending = pendingModule
			s.startDocstring(trimmed, info)
			return
		}
	}

	for len(s.scopes) > 0 && indent <= s.scopes[len(s.scopes)-1].indent {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}

	s.statement(lineNo, indent, trimmed, info)
}

// stringLine handles a line that starts inside a triple-quoted string.
func (s *pyScanner) stringLine(line string, info pyLineInfo) {
	closed := info.next.delim == ""
	if s.state == pyInDocstring {
		text := line
		if closed {
			if end := indexClosingQuote(line, s.docDelim); end >= 0 {
				text = line[:end]
			}
		}
		s.docLines = append(s.docLines, text)
		if closed {
			s.finishDocstring()
		}
	}
	if closed {
		s.state = pySeekingDeclaration
	}
}

// continuationLine handles lines inside brackets or after a backslash.
func (s *pyScanner) continuationLine(info pyLineInfo) {
	ended := info.next.depth == 0 && !info.next.continued
	switch s.state {
	case pyInHeader:
		if ended {
			s.headerDone(info)
		}
	case pyInImportContinuation:
		if ended {
			s.state = pySeekingDeclaration
		}
	}
	if info.next.delim != "" && s.state != pyInDocstring {
		s.state = pyInString
	}
}

func (s *pyScanner) statement(lineNo, indent int, trimmed string, info pyLineInfo) {
	switch {
	case strings.HasPrefix(trimmed, "@"):
		// Decorators do not affect what follows.

	case startsWithWord(trimmed, "import"):
		for _, name := range strings.Split(strings.TrimSpace(trimmed[len("import"):]), ",") {
			if module := importedName(name); module != "" {
				s.result.Imports = append(s.result.Imports, module)
			}
		}
		s.continueImport(info)
		return

	case startsWithWord(trimmed, "from"):
		if module := fromModule(trimmed); module != "" {
			s.result.Imports = append(s.result.Imports, module)
		}
		s.continueImport(info)
		return

	case startsWithWord(trimmed, "class"):
		s.definition(lineNo, indent, strings.TrimSpace(trimmed[len("class"):]), extraction.KindClass, info)
		return

	case startsWithWord(trimmed, "def"):
		s.definition(lineNo, indent, strings.TrimSpace(trimmed[len("def"):]), extraction.KindFunction, info)
		return

	case startsWithWord(trimmed, "async"):
		rest := strings.TrimSpace(trimmed[len("async"):])
		if startsWithWord(rest, "def") {
			s.definition(lineNo, indent, strings.TrimSpace(rest[len("def"):]), extraction.KindFunction, info)
			return
		}
	}

	if info.next.delim != "" {
		s.state = pyInString
	}
}

func (s *pyScanner) continueImport(info pyLineInfo) {
	if info.next.depth > 0 || info.next.continued {
		s.state = pyInImportContinuation
	}
}

// definition records a class or function whose enclosing scope is the module
// or a class, and opens its scope.
func (s *pyScanner) definition(lineNo, indent int, rest string, kind extraction.SymbolKind, info pyLineInfo) {
	name, after := readIdent(rest)
	after = strings.TrimLeft(after, " \t")
	if name == "" || after == "" || (after[0] != '(' && after[0] != ':' && after[0] != '[') {
		if info.next.delim != "" {
			s.state = pyInString
		}
		return
	}

	var parent *pyScope
	if len(s.scopes) > 0 {
		parent = &s.scopes[len(s.scopes)-1]
	}

	s.pending = noPending
	if parent == nil || parent.kind == extraction.KindClass {
		sym := extraction.CodeSymbol{
			Name: name,
			Kind: kind,
			Line: lineNo,
		}
		if parent != nil {
			sym.Parent = parent.name
		}
		s.result.Symbols = append(s.result.Symbols, sym)
		s.pending = len(s.result.Symbols) - 1
	}

	s.scopes = append(s.scopes, pyScope{indent: indent, kind: kind, name: name})
	s.headerIndent = indent

	if info.next.depth > 0 || info.next.continued {
		s.state = pyInHeader
		return
	}
	s.headerDone(info)
}

// headerDone runs once the signature is complete. A body on the same line as
// the colon has no docstring.
func (s *pyScanner) headerDone(info pyLineInfo) {
	if info.last == ':' {
		s.state = pyAwaitingDocstring
		return
	}
	s.pending = noPending
	s.state = pySeekingDeclaration
	if info.next.delim != "" {
		s.state = pyInString
	}
}

// startDocstring begins collecting the string literal on trimmed.
func (s *pyScanner) startDocstring(trimmed string, info pyLineInfo) {
	body := trimmed
	s.docRaw = body[0] == 'r' || body[0] == 'R'
	if strings.IndexByte("rRuU", body[0]) >= 0 {
		body = body[1:]
	}

	delim := body[:1]
	if strings.HasPrefix(body, `"""`) || strings.HasPrefix(body, `'''`) {
		delim = body[:3]
	}
	body = body[len(delim):]

	if info.next.delim != "" {
		// Multi-line docstring continues on the following lines.
		s.docDelim = delim
		s.docLines = []string{body}
		s.state = pyInDocstring
		return
	}

	if end := indexClosingQuote(body, delim); end >= 0 {
		body = body[:end]
	}
	s.docLines = []string{body}
	s.finishDocstring()
	s.state = pySeekingDeclaration
}

// finishDocstring attaches the collected docstring to its target.
func (s *pyScanner) finishDocstring() {
	if s.docLines == nil {
		return
	}
	if !s.docRaw {
		for i, line := range s.docLines {
			s.docLines[i] = unescapeQuotes(line)
		}
	}
	doc := cleanDocstring(s.docLines)
	s.docLines = nil

	switch {
	case s.pending == pendingModule:
		s.result.Doc = doc
	case s.pending >= 0 && s.pending < len(s.result.Symbols):
		s.result.Symbols[s.pending].Docstring = doc
	}
	s.pending = noPending
}

// cleanDocstring trims the first line, removes the common indentation of
// the remaining lines and drops surrounding blank lines.
func cleanDocstring(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	out := make([]string, len(lines))
	out[0] = strings.TrimSpace(lines[0])

	common := -1
	for _, line := range lines[1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}
		w := len(line) - len(strings.TrimLeft(line, " \t"))
		if common < 0 || w < common {
			common = w
		}
	}
	for i, line := range lines[1:] {
		if common > 0 && len(line) >= common {
			line = line[common:]
		}
		out[i+1] = strings.TrimRight(line, " \t")
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// importedName returns the module of one "a.b as c" clause.
func importedName(clause string) string {
	clause = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(clause), "\\"))
	clause = strings.Trim(clause, "()")
	if i := strings.IndexByte(clause, '#'); i >= 0 {
		clause = clause[:i]
	}
	fields := strings.Fields(clause)
	if len(fields) == 0 || !isDottedName(fields[0]) {
		return ""
	}
	return fields[0]
}

// fromModule returns the module of "from x.y import z", keeping leading
// dots of relative imports.
func fromModule(line string) string {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return ""
	}
	module := fields[1]
	if len(fields) >= 3 && fields[2] != "import" {
		return ""
	}
	rel := strings.TrimLeft(module, ".")
	if rel == "" || isDottedName(rel) {
		return module
	}
	return ""
}

func isDottedName(s string) bool {
	if s == "" {
		return false
	}
	for _, part := range strings.Split(s, ".") {
		name, rest := readIdent(part)
		if name == "" || rest != "" {
			return false
		}
	}
	return true
}

func startsWithWord(line, word string) bool {
	_, ok := hasKeyword(line, word, "")
	return ok && len(line) > len(word)
}

// isDocstringStart reports whether a statement begins with a string literal
// that can be a docstring: plain, r or u prefixed. f-strings and bytes are
// ordinary expressions.
func isDocstringStart(trimmed string) bool {
	i := 0
	if i < len(trimmed) && strings.IndexByte("rRuU", trimmed[i]) >= 0 {
		i++
	}
	return i < len(trimmed) && (trimmed[i] == '"' || trimmed[i] == '\'')
}

// indexClosingQuote returns the index of the first delim in s that is not
// escaped by a backslash, or -1.
func indexClosingQuote(s, delim string) int {
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '\\':
			i++
		case strings.HasPrefix(s[i:], delim):
			return i
		}
	}
	return -1
}

// unescapeQuotes resolves the \\, \' and \" escapes; other escapes are kept
// as written.
func unescapeQuotes(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(`\'"`, s[i+1]) >= 0 {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

// indentWidth measures leading whitespace with tabs advancing to the next
// multiple of eight.
func indentWidth(line string) int {
	width := 0
	for _, c := range line {
		switch c {
		case ' ':
			width++
		case '\t':
			width += 8 - width%8
		default:
			return width
		}
	}
	return width
}

// pythonPackage returns the dotted package of path, built from the
// enclosing directories that contain __init__.py.
func pythonPackage(path string) string {
	var parts []string
	dir := filepath.Dir(path)
	for {
		if _, err := os.Stat(filepath.Join(dir, "__init__.py")); err != nil {
			break
		}
		base := filepath.Base(dir)
		if base == "." || base == string(filepath.Separator) {
			break
		}
		parts = append([]string{base}, parts...)
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return strings.Join(parts, ".")
}

// pyLex is the lexical state carried between lines.
type pyLex struct {
	delim     string // open triple-quote delimiter
	depth     int    // open bracket depth
	continued bool   // previous line ended with a backslash
}

type pyLineInfo struct {
	next pyLex
	last byte // last significant character outside strings and comments
}

// lexPyLine advances the lexical state over one line.
func lexPyLine(line string, lex pyLex) pyLineInfo {
	info := pyLineInfo{next: pyLex{delim: lex.delim, depth: lex.depth}}
	st := &info.next

	for i := 0; i < len(line); {
		if st.delim != "" {
			end := strings.Index(line[i:], st.delim)
			if end < 0 {
				return info
			}
			if end > 0 && line[i+end-1] == '\\' {
				i += end + 1
				continue
			}
			i += end + len(st.delim)
			st.delim = ""
			info.last = line[i-1]
			continue
		}

		c := line[i]
		switch {
		case c == '#':
			return info
		case c == '"' || c == '\'':
			if strings.HasPrefix(line[i:], `"""`) || strings.HasPrefix(line[i:], `'''`) {
				st.delim = line[i : i+3]
				i += 3
				continue
			}
			i = skipQuoted(line, i)
			info.last = c
			continue
		case c == '(' || c == '[' || c == '{':
			st.depth++
		case c == ')' || c == ']' || c == '}':
			if st.depth > 0 {
				st.depth--
			}
		case c == '\\' && i == len(strings.TrimRight(line, " \t"))-1:
			st.continued = true
			return info
		}
		if c != ' ' && c != '\t' {
			info.last = c
		}
		i++
	}
	return info
}
