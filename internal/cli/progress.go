package cli

import (
	"fmt"
	"io"
	"log"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/mvp-joe/project-summarizer/internal/summarizer"
)

// CLIProgressReporter implements summarizer.ProgressReporter with a progress
// bar on w. In verbose mode every parsed file is logged instead.
type CLIProgressReporter struct {
	w       io.Writer
	quiet   bool
	verbose bool
	fileBar *progressbar.ProgressBar
}

// NewCLIProgressReporter creates a new CLI progress reporter.
func NewCLIProgressReporter(w io.Writer, quiet, verbose bool) *CLIProgressReporter {
	return &CLIProgressReporter{
		w:       w,
		quiet:   quiet,
		verbose: verbose,
	}
}

var _ summarizer.ProgressReporter = (*CLIProgressReporter)(nil)

func (c *CLIProgressReporter) OnDiscoveryStart() {
	if c.quiet {
		return
	}
	log.Println("Discovering files...")
}

func (c *CLIProgressReporter) OnDiscoveryComplete(discovered, parseable int) {
	if c.quiet {
		return
	}
	log.Printf("Found %d files, %d with a supported language\n", discovered, parseable)
}

func (c *CLIProgressReporter) OnParseStart(totalFiles int) {
	c.fileBar = nil
	if c.quiet || c.verbose || totalFiles == 0 {
		return
	}

	c.fileBar = progressbar.NewOptions(totalFiles,
		progressbar.OptionSetWriter(c.w),
		progressbar.OptionSetDescription("Parsing files"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("files/s"),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(c.w)
		}),
	)
}

// OnFileParsed is called from parser workers; progressbar serializes Add.
func (c *CLIProgressReporter) OnFileParsed(path string, symbols int) {
	if c.quiet {
		return
	}
	if c.verbose {
		log.Printf("Parsed %s (%d symbols)", path, symbols)
		return
	}
	if c.fileBar != nil {
		c.fileBar.Add(1)
	}
}

func (c *CLIProgressReporter) OnComplete(stats *summarizer.Stats) {
	if c.quiet {
		return
	}
	// The bar completes itself once every file has been added.
	c.fileBar = nil

	fmt.Fprintf(c.w, "Parsed %d files in %.1fs\n", stats.FilesParsed, stats.Duration.Seconds())
	fmt.Fprintf(c.w, "  Packages: %d\n", stats.Packages)
	fmt.Fprintf(c.w, "  Symbols:  %d\n", stats.Symbols)
}
