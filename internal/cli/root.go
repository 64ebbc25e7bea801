package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mvp-joe/project-summarizer/internal/config"
	"github.com/mvp-joe/project-summarizer/internal/summarizer"
)

// rootOptions holds the flag values of one command invocation.
type rootOptions struct {
	output  string
	exclude []string
	config  string
	workers int
	quiet   bool
	verbose bool
	watch   bool
	symbols string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "project-summarizer [PROJECT_PATH]",
		Short: "Generate a markdown summary of a Go and Python project",
		Long: `project-summarizer walks a project, extracts packages, imports, types,
functions and their doc comments from Go and Python sources, and writes a
markdown summary with a package dependency diagram.

Examples:
  # Summarize the current directory into project_summary.md
  project-summarizer

  # Summarize another project into a custom file
  project-summarizer ./myapp --output docs/summary.md

  # Skip generated code and keep the summary fresh while editing
  project-summarizer --exclude "gen/*" --exclude "*_pb2.py" --watch
`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runSummarize(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.output, "output", "o", config.DefaultOutput, "Output markdown file")
	flags.StringArrayVarP(&opts.exclude, "exclude", "e", nil, "Glob pattern to exclude (repeatable)")
	flags.StringVarP(&opts.config, "config", "c", "", "YAML config file (default is <PROJECT_PATH>/.project-summarizer.yml)")
	flags.IntVarP(&opts.workers, "workers", "w", 0, "Number of files parsed concurrently (0 = one per CPU)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Disable progress bars and non-error output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log every parsed file")
	flags.BoolVar(&opts.watch, "watch", false, "Regenerate the summary when source files change")
	flags.StringVar(&opts.symbols, "symbols", "", "Also write the raw symbol tables as YAML to this path")

	cmd.AddCommand(newVersionCmd())
	return cmd
}

// Execute runs the root command with the process arguments and exits with
// its status code. This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.ExecuteContext(ctx); err != nil {
		newPrinter(stderr).Error(err)
		return 1
	}
	return 0
}

func runSummarize(cmd *cobra.Command, root string, opts *rootOptions) error {
	ctx := cmd.Context()
	out := newPrinter(cmd.OutOrStdout())

	if opts.quiet {
		prev := log.Writer()
		log.SetOutput(io.Discard)
		defer log.SetOutput(prev)
	}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", summarizer.ErrInvalidRoot, root)
	}

	cfg, err := loadConfig(cmd, root, opts)
	if err != nil {
		return err
	}

	progress := NewCLIProgressReporter(cmd.ErrOrStderr(), opts.quiet, opts.verbose)
	s := summarizer.New(
		summarizer.WithWorkers(cfg.Workers),
		summarizer.WithProgress(progress),
	)

	if err := generate(ctx, s, root, cfg); err != nil {
		return err
	}
	if !opts.quiet {
		out.Success(fmt.Sprintf("Project summary written to %s", cfg.Output))
		if cfg.Symbols != "" {
			out.Step(fmt.Sprintf("Symbol tables written to %s", cfg.Symbols))
		}
	}

	if !opts.watch {
		return nil
	}
	return watchProject(ctx, s, root, cfg, out, opts.quiet)
}

// loadConfig resolves the effective configuration: defaults, then the config
// file, then SUMMARIZER_* variables, then explicitly set flags.
func loadConfig(cmd *cobra.Command, root string, opts *rootOptions) (*config.Config, error) {
	var loader config.Loader
	if opts.config != "" {
		loader = config.NewFileLoader(opts.config)
	} else {
		loader = config.NewLoader(root)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = opts.output
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.workers
	}
	if flags.Changed("symbols") {
		cfg.Symbols = opts.symbols
	}
	cfg.MergeExclude(opts.exclude)

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// generate runs one full summarization and writes every configured output.
func generate(ctx context.Context, s *summarizer.Summarizer, root string, cfg *config.Config) error {
	results, err := s.SummarizeProject(ctx, root, cfg.Exclude)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("summarization cancelled")
		}
		return err
	}

	if err := s.WriteSummary(root, results, cfg.Output); err != nil {
		return fmt.Errorf("failed to write summary: %w", err)
	}
	if cfg.Symbols != "" {
		if err := summarizer.WriteSymbols(results, cfg.Symbols); err != nil {
			return fmt.Errorf("failed to write symbols: %w", err)
		}
	}
	return nil
}

// absPath is used for log messages only; it falls back to the input.
func absPath(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
