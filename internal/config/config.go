// Package config loads project-summarizer settings from an optional YAML
// file and SUMMARIZER_* environment variables.
package config

// DefaultOutput is the summary file written when nothing else is configured.
const DefaultOutput = "project_summary.md"

// Config represents the complete summarizer configuration.
// It can be loaded from .project-summarizer.yml with environment variable overrides.
type Config struct {
	Exclude []string `yaml:"exclude" mapstructure:"exclude"` // glob patterns to skip during discovery
	Output  string   `yaml:"output" mapstructure:"output"`   // markdown summary path
	Workers int      `yaml:"workers" mapstructure:"workers"` // parse workers, 0 means one per CPU
	Symbols string   `yaml:"symbols" mapstructure:"symbols"` // optional YAML dump of the symbol tables
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Exclude: []string{
			".git/*",
			"node_modules/*",
			"__pycache__/*",
			"vendor/*",
		},
		Output:  DefaultOutput,
		Workers: 0,
	}
}

// MergeExclude appends extra patterns that are not already configured.
func (c *Config) MergeExclude(extra []string) {
	seen := make(map[string]bool, len(c.Exclude))
	for _, p := range c.Exclude {
		seen[p] = true
	}
	for _, p := range extra {
		if !seen[p] {
			seen[p] = true
			c.Exclude = append(c.Exclude, p)
		}
	}
}
