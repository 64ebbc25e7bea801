// Package summarizer walks a project, parses every supported source file and
// aggregates the per-file symbol tables into a markdown summary with a
// package dependency diagram.
package summarizer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/project-summarizer/internal/extraction"
	"github.com/mvp-joe/project-summarizer/internal/parsers"
)

// ErrInvalidRoot is returned when the project root is missing or is not a
// directory.
var ErrInvalidRoot = errors.New("invalid project root")

// Summarizer coordinates discovery, parsing and report generation.
type Summarizer struct {
	registry *parsers.Registry
	workers  int
	progress ProgressReporter
}

// Option configures a Summarizer.
type Option func(*Summarizer)

// WithRegistry replaces the default Go + Python parser registry.
func WithRegistry(r *parsers.Registry) Option {
	return func(s *Summarizer) {
		if r != nil {
			s.registry = r
		}
	}
}

// WithWorkers bounds the number of files parsed concurrently. Values below
// one select runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(s *Summarizer) {
		s.workers = n
	}
}

// WithProgress installs a progress reporter.
func WithProgress(p ProgressReporter) Option {
	return func(s *Summarizer) {
		if p != nil {
			s.progress = p
		}
	}
}

// New creates a Summarizer.
func New(opts ...Option) *Summarizer {
	s := &Summarizer{
		registry: parsers.DefaultRegistry(),
		progress: &NoOpProgressReporter{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.workers < 1 {
		s.workers = runtime.NumCPU()
	}
	return s
}

// Registry returns the parser registry in use.
func (s *Summarizer) Registry() *parsers.Registry {
	return s.registry
}

type parseJob struct {
	path   string
	parser parsers.Parser
}

// SummarizeProject discovers every non-excluded file under root, parses the
// ones a registered parser accepts and returns their symbol tables keyed by
// path. Files no parser accepts are omitted. A missing or non-directory root
// is the only fatal input condition; unreadable files produce empty entries.
func (s *Summarizer) SummarizeProject(ctx context.Context, root string, exclusions []string) (Results, error) {
	start := time.Now()

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidRoot, root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidRoot, root)
	}

	discovery, err := NewFileDiscovery(root, exclusions)
	if err != nil {
		return nil, err
	}

	s.progress.OnDiscoveryStart()
	paths, err := discovery.DiscoverFiles(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	var jobs []parseJob
	for _, path := range paths {
		if p := s.registry.Select(path); p != nil {
			jobs = append(jobs, parseJob{path: path, parser: p})
		}
	}
	s.progress.OnDiscoveryComplete(len(paths), len(jobs))

	symbols, err := s.parseAll(ctx, jobs)
	if err != nil {
		return nil, err
	}

	results := make(Results, len(jobs))
	for i, job := range jobs {
		results[job.path] = symbols[i]
	}

	s.progress.OnComplete(&Stats{
		FilesDiscovered: len(paths),
		FilesParsed:     len(jobs),
		Packages:        countPackages(results),
		Symbols:         results.SymbolCount(),
		Duration:        time.Since(start),
	})

	return results, nil
}

// parseAll fans the jobs out over a bounded worker pool. Each worker writes
// only its own slot so the output order matches the job order.
func (s *Summarizer) parseAll(ctx context.Context, jobs []parseJob) ([]*extraction.FileSymbols, error) {
	s.progress.OnParseStart(len(jobs))

	symbols := make([]*extraction.FileSymbols, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fs := job.parser.ParseFile(gctx, job.path)
			if fs == nil {
				fs = extraction.Empty(job.path, job.parser.Language())
			}
			symbols[i] = fs
			s.progress.OnFileParsed(job.path, len(fs.Symbols))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Parsers absorb cancellation into empty results.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return symbols, nil
}

func countPackages(results Results) int {
	n := 0
	for _, group := range results.Packages() {
		if !group.Ungrouped() {
			n++
		}
	}
	return n
}
