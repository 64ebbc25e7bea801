// Package watcher reports debounced batches of changed source files under a
// project root.
package watcher

import "context"

// FileWatcher monitors source files for changes with debouncing.
type FileWatcher interface {
	// Start begins watching, calling callback with each debounced batch of
	// changed files. Batches are delivered one at a time from a single
	// goroutine, so callbacks never overlap.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the file watcher and cleans up resources.
	Stop() error
}

// ExcludeFunc reports whether a slash-separated path relative to the
// watched root should be ignored.
type ExcludeFunc func(relPath string, isDir bool) bool
