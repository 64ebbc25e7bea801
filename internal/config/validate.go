package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gobwas/glob"
)

var (
	// ErrEmptyOutput indicates a missing output path
	ErrEmptyOutput = errors.New("empty output path")

	// ErrInvalidWorkers indicates a negative worker count
	ErrInvalidWorkers = errors.New("invalid worker count")

	// ErrInvalidPattern indicates an exclusion glob that does not compile
	ErrInvalidPattern = errors.New("invalid exclusion pattern")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: output is required", ErrEmptyOutput))
	}

	if cfg.Workers < 0 {
		errs = append(errs, fmt.Errorf("%w: workers must be zero or positive, got %d", ErrInvalidWorkers, cfg.Workers))
	}

	if err := validateExclude(cfg.Exclude); err != nil {
		errs = append(errs, err)
	}

	return joinErrors(errs)
}

func validateExclude(patterns []string) error {
	var errs []error
	for _, pattern := range patterns {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: '%s': %v", ErrInvalidPattern, pattern, err))
		}
	}
	return joinErrors(errs)
}

// joinErrors combines multiple errors into one that still matches each
// sentinel with errors.Is.
func joinErrors(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return errors.Join(errs...)
}
