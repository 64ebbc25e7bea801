package cli

import (
	"context"
	"fmt"
	"log"

	"github.com/mvp-joe/project-summarizer/internal/config"
	"github.com/mvp-joe/project-summarizer/internal/summarizer"
	"github.com/mvp-joe/project-summarizer/internal/watcher"
)

// watchProject regenerates the summary after every debounced batch of source
// changes and blocks until ctx is cancelled.
func watchProject(ctx context.Context, s *summarizer.Summarizer, root string, cfg *config.Config, out *printer, quiet bool) error {
	discovery, err := summarizer.NewFileDiscovery(root, cfg.Exclude)
	if err != nil {
		return err
	}

	fw, err := watcher.NewFileWatcher(root, watcher.Options{
		Extensions: s.Registry().Extensions(),
		Exclude:    discovery.ShouldExclude,
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	defer fw.Stop()

	// Batches arrive one at a time, so runs never overlap.
	err = fw.Start(ctx, func(files []string) {
		if !quiet {
			log.Printf("Detected %d changed file(s), regenerating summary...", len(files))
		}
		if err := generate(ctx, s, root, cfg); err != nil {
			if ctx.Err() == nil {
				log.Printf("Warning: failed to regenerate summary: %v", err)
			}
			return
		}
		if !quiet {
			out.Success(fmt.Sprintf("Project summary written to %s", cfg.Output))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	if !quiet {
		log.Printf("Watching %s for changes (Ctrl+C to stop)...", absPath(root))
	}

	<-ctx.Done()

	if !quiet {
		log.Println("Watch mode stopped")
	}
	return nil
}
