package summarizer

import "time"

// ProgressReporter provides callbacks for reporting summarization progress.
// Implementations can display progress bars, log messages, or remain silent.
// OnFileParsed is called from worker goroutines and must be safe for
// concurrent use.
type ProgressReporter interface {
	// OnDiscoveryStart is called when the directory walk begins.
	OnDiscoveryStart()

	// OnDiscoveryComplete is called with the number of files that survived
	// exclusion and the number of those a parser accepted.
	OnDiscoveryComplete(discovered, parseable int)

	// OnParseStart is called before the worker pool starts.
	OnParseStart(totalFiles int)

	// OnFileParsed is called after each file has been scanned.
	OnFileParsed(path string, symbols int)

	// OnComplete is called when summarization finishes successfully.
	OnComplete(stats *Stats)
}

// Stats describes one summarization run.
type Stats struct {
	FilesDiscovered int
	FilesParsed     int
	Packages        int
	Symbols         int
	Duration        time.Duration
}

// NoOpProgressReporter is a progress reporter that does nothing.
// Used when progress reporting is disabled (e.g., --quiet flag).
type NoOpProgressReporter struct{}

func (n *NoOpProgressReporter) OnDiscoveryStart()                             {}
func (n *NoOpProgressReporter) OnDiscoveryComplete(discovered, parseable int) {}
func (n *NoOpProgressReporter) OnParseStart(totalFiles int)                   {}
func (n *NoOpProgressReporter) OnFileParsed(path string, symbols int)         {}
func (n *NoOpProgressReporter) OnComplete(stats *Stats)                       {}
