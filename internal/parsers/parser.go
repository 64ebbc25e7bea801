package parsers

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
)

// Parser extracts a FileSymbols table from source files of one language.
type Parser interface {
	// Language returns the language name reported in FileSymbols.Language.
	Language() string

	// Extensions returns the file suffixes owned by this parser.
	Extensions() []string

	// CanParse reports whether the path has one of the owned suffixes.
	// It never inspects file contents.
	CanParse(path string) bool

	// ParseFile reads and scans a file. Unreadable files yield an empty result.
	ParseFile(ctx context.Context, path string) *extraction.FileSymbols

	// Parse scans already loaded source text.
	Parse(path string, source []byte) *extraction.FileSymbols
}

// lineParser holds what the line scanners share: language name, owned
// extensions and file loading.
type lineParser struct {
	lang       string
	extensions []string
}

func newLineParser(lang string, extensions ...string) *lineParser {
	return &lineParser{
		lang:       lang,
		extensions: extensions,
	}
}

func (p *lineParser) Language() string {
	return p.lang
}

func (p *lineParser) Extensions() []string {
	out := make([]string, len(p.extensions))
	copy(out, p.extensions)
	return out
}

// CanParse matches suffixes case-sensitively, so main.GO is not a Go file.
func (p *lineParser) CanParse(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}
	for _, owned := range p.extensions {
		if ext == owned {
			return true
		}
	}
	return false
}

// load reads a file and rejects content that is not text. The boolean is
// false when the caller should fall back to an empty result.
func (p *lineParser) load(ctx context.Context, path string) ([]byte, bool) {
	if ctx.Err() != nil {
		return nil, false
	}

	source, err := os.ReadFile(path)
	if err != nil {
		log.Printf("Warning: failed to read %s: %v", path, err)
		return nil, false
	}

	if !utf8.Valid(source) || bytes.IndexByte(source, 0) >= 0 {
		log.Printf("Warning: skipping %s: not valid UTF-8 text", path)
		return nil, false
	}

	return source, true
}

// splitLines splits source into lines without their terminators. A leading
// byte order mark is dropped and CRLF endings are normalised.
func splitLines(source []byte) []string {
	text := string(source)
	text = strings.TrimPrefix(text, "\ufeff")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// docBuffer accumulates a contiguous run of comment lines until a
// declaration takes it or something else interrupts it.
type docBuffer struct {
	lines []string
}

func (d *docBuffer) add(line string) {
	d.lines = append(d.lines, line)
}

func (d *docBuffer) reset() {
	d.lines = d.lines[:0]
}

func (d *docBuffer) empty() bool {
	return len(d.lines) == 0
}

// take returns the joined, trimmed text and clears the buffer so a comment
// is never attached to two declarations.
func (d *docBuffer) take() string {
	if len(d.lines) == 0 {
		return ""
	}
	text := strings.TrimSpace(strings.Join(d.lines, "\n"))
	d.reset()
	return text
}

// isIdentStart reports whether r may begin an identifier in either language.
func isIdentStart(r byte) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r >= utf8.RuneSelf
}

func isIdentPart(r byte) bool {
	return isIdentStart(r) || (r >= '0' && r <= '9')
}

// readIdent returns the identifier at the start of s and the remainder.
func readIdent(s string) (string, string) {
	if s == "" || !isIdentStart(s[0]) {
		return "", s
	}
	i := 1
	for i < len(s) && isIdentPart(s[i]) {
		i++
	}
	return s[:i], s[i:]
}

// hasKeyword reports whether line starts with kw followed by whitespace or
// one of the allowed delimiters, returning the text after the keyword.
func hasKeyword(line, kw string, delims string) (string, bool) {
	if !strings.HasPrefix(line, kw) {
		return "", false
	}
	rest := line[len(kw):]
	if rest == "" {
		return "", true
	}
	if rest[0] == ' ' || rest[0] == '\t' || strings.IndexByte(delims, rest[0]) >= 0 {
		return strings.TrimLeft(rest, " \t"), true
	}
	return "", false
}
