package summarizer

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// compilePatterns compiles exclusion globs with '/' as the separator.
func compilePatterns(patterns []string) ([]glob.Glob, error) {
	var compiled []glob.Glob
	for _, pattern := range patterns {
		pattern = strings.TrimSpace(pattern)
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclusion pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// FileDiscovery walks a project tree and applies exclusion patterns.
type FileDiscovery struct {
	rootDir         string
	excludePatterns []glob.Glob
}

// NewFileDiscovery creates a new file discovery instance.
func NewFileDiscovery(rootDir string, exclusions []string) (*FileDiscovery, error) {
	patterns, err := compilePatterns(exclusions)
	if err != nil {
		return nil, err
	}
	return &FileDiscovery{
		rootDir:         rootDir,
		excludePatterns: patterns,
	}, nil
}

// DiscoverFiles walks the directory tree and returns every regular file that
// is not excluded, as rootDir joined with its relative path, in lexical walk
// order. Excluded directories are not descended into.
func (fd *FileDiscovery) DiscoverFiles(ctx context.Context) ([]string, error) {
	files := []string{}

	err := filepath.WalkDir(fd.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		// Get relative path for pattern matching
		relPath, err := filepath.Rel(fd.rootDir, path)
		if err != nil {
			return err
		}
		if relPath == "." {
			return nil
		}

		// Normalize path separators for glob matching
		relPath = filepath.ToSlash(relPath)

		if d.IsDir() {
			if fd.ShouldExclude(relPath, true) {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() || fd.ShouldExclude(relPath, false) {
			return nil
		}

		files = append(files, filepath.Join(fd.rootDir, filepath.FromSlash(relPath)))
		return nil
	})
	if err != nil {
		return nil, err
	}

	return files, nil
}

// ShouldExclude checks a slash-separated relative path against the
// exclusion patterns. The path itself, every trailing sub-path and every
// single segment are tried, so "node_modules/*" also excludes
// "web/node_modules/x.js" and "__pycache__" excludes the whole directory.
// Directories are additionally tried with a trailing slash so that
// "vendor/*" prunes "vendor" before it is walked.
func (fd *FileDiscovery) ShouldExclude(relPath string, isDir bool) bool {
	if len(fd.excludePatterns) == 0 {
		return false
	}

	segments := strings.Split(relPath, "/")
	for i := range segments {
		suffix := strings.Join(segments[i:], "/")
		if fd.matchesAnyPattern(suffix) || fd.matchesAnyPattern(segments[i]) {
			return true
		}
		if isDir && fd.matchesAnyPattern(suffix+"/") {
			return true
		}
	}
	return false
}

// matchesAnyPattern checks if a path matches any of the exclusion patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string) bool {
	for _, g := range fd.excludePatterns {
		if g.Match(path) {
			return true
		}
	}
	return false
}
