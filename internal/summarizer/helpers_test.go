package summarizer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleMainGo = `package main

import (
	"fmt"
	"strings"
)

// UserService handles user-related operations
type UserService interface {
	GetUser(id string) (*User, error)
}

// User represents a system user
type User struct {
	Name string
}

func main() {
	fmt.Println(strings.ToUpper("hello"))
}
`

const sampleCorePy = `
def main():
    print("Hello")
`

// writeTree creates files under root from a relative-path -> content map.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}
}

// sampleProject creates the two-file project used by the end-to-end tests.
func sampleProject(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "sample_project")
	writeTree(t, root, map[string]string{
		"src/main.go":        sampleMainGo,
		"python_pkg/core.py": sampleCorePy,
	})
	return root
}

type recordingProgress struct {
	NoOpProgressReporter
	discovered, parseable int
	started               int
	stats                 *Stats
}

func (r *recordingProgress) OnDiscoveryComplete(discovered, parseable int) {
	r.discovered, r.parseable = discovered, parseable
}

func (r *recordingProgress) OnParseStart(totalFiles int) {
	r.started = totalFiles
}

func (r *recordingProgress) OnComplete(stats *Stats) {
	r.stats = stats
}
