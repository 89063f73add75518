// Package cmd provides the CLI commands for plox-version.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// ConfigLoader loads application configuration for the given project
	// directory. An empty directory means use the configured default.
	ConfigLoader func(projectDir string) (*AppConfig, error)

	// LoggerFactory creates a logger instance from the loaded configuration.
	LoggerFactory func(cfg *AppConfig) (Logger, error)

	// ProbeFactory creates the StatusProbe for the configured backend.
	ProbeFactory func(cfg *AppConfig, log Logger) (domain.StatusProbe, error)

	// ResolverFactory creates a Resolver with the given dependencies.
	ResolverFactory func(probe domain.StatusProbe, log Logger) domain.Resolver

	// OutputWriterFactory creates an OutputWriter writing to out in format.
	OutputWriterFactory func(out io.Writer, format string) (domain.OutputWriter, error)

	// Stdout is the writer for standard output (for the version).
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/errors).
	Stderr io.Writer
}

// AppConfig holds application configuration loaded by ConfigLoader.
type AppConfig struct {
	// ProjectDir is the validated root of the working tree.
	ProjectDir string

	// LogLevel is the log level setting.
	LogLevel string

	// LogFormat is the log encoding (console, json).
	LogFormat string

	// LogAppName is the application name for logging.
	LogAppName string

	// Backend is the repository backend name.
	Backend string

	// GitExecutable is an explicit git path; empty means PATH lookup.
	GitExecutable string

	// VersionFile is the default version file from the project file.
	VersionFile string

	// Output is the default output format from the project file.
	Output string
}

// options holds the parsed command-line flags of one command instance.
type options struct {
	version     string
	versionFile string
	output      string
	verbose     bool
}

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for plox-version.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "plox-version [path]",
		Short: "Compute a deterministic version string for a Git working tree",
		Long: `plox-version prints the version of the project checked out at path.

The version comes from --version, from --version-file, or from the
version_file entry of the project's .plox-version.yaml. If the working tree
has uncommitted changes, "+<short commit id>" is appended so builds from a
dirty tree are distinguishable from clean releases.

A version file holds exactly one version line. Lines starting with '#' are
comments; every other line, blank lines included, is content.

The project directory defaults to $PROJECT_DIR, then the current directory.

Examples:
  # Version from the command line
  plox-version --version 2.6.0

  # Version from a file, for a project elsewhere
  plox-version --version-file VERSION /path/to/project

  # Machine-readable output
  plox-version --version 2.6.0 --output json

  # Enable verbose logging
  plox-version --version 2.6.0 -v`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResolve(cmd, args, opts, deps)
		},
	}

	rootCmd.Flags().StringVar(&opts.version, "version", "",
		"Version string to use")
	rootCmd.Flags().StringVar(&opts.versionFile, "version-file", "",
		"File holding the version on its only non-comment line")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "",
		"Output format: text or json (default text)")
	rootCmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false,
		"Enable verbose/debug logging")
	rootCmd.MarkFlagsMutuallyExclusive("version", "version-file")

	if deps != nil && deps.Stderr != nil {
		rootCmd.SetErr(deps.Stderr)
	}

	return rootCmd
}

// runResolve executes the version resolution logic with injected dependencies.
func runResolve(cmd *cobra.Command, args []string, opts *options, deps *Dependencies) error {
	if deps == nil {
		return errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	projectDir := ""
	if len(args) > 0 {
		projectDir = args[0]
	}

	stdout := deps.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	cfg, err := deps.ConfigLoader(projectDir)
	if err != nil {
		if errors.Is(err, domain.ErrRepositoryNotFound) {
			return fmt.Errorf("not a git working tree: %w", err)
		}
		return fmt.Errorf("configuration error: %w", err)
	}

	if opts.verbose {
		cfg.LogLevel = "debug"
	}

	log, err := deps.LoggerFactory(cfg)
	if err != nil {
		return fmt.Errorf("logger error: %w", err)
	}

	log.Debug(ctx, "starting plox-version", map[string]interface{}{
		"path":    cfg.ProjectDir,
		"backend": cfg.Backend,
		"verbose": opts.verbose,
	})

	source, err := versionSource(cmd, opts, cfg)
	if err != nil {
		log.Error(ctx, "no version source", err, nil)
		return err
	}

	probe, err := deps.ProbeFactory(cfg, log)
	if err != nil {
		log.Error(ctx, "failed to initialize repository probe", err, map[string]interface{}{
			"backend": cfg.Backend,
		})
		return fmt.Errorf("repository error: %w", err)
	}

	resolver := deps.ResolverFactory(probe, log)
	result, err := resolver.Resolve(ctx, domain.ResolveInput{
		Source:     source,
		WorkingDir: cfg.ProjectDir,
	})
	if err != nil {
		log.Error(ctx, "failed to resolve version", err, nil)
		return err
	}

	format := cfg.Output
	if cmd.Flags().Changed("output") {
		format = opts.output
	}

	writer, err := deps.OutputWriterFactory(stdout, format)
	if err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	if err := writer.WriteResult(result); err != nil {
		log.Error(ctx, "failed to write output", err, nil)
		return fmt.Errorf("output error: %w", err)
	}

	log.Info(ctx, "version resolved", map[string]interface{}{
		"version": result.Version,
		"dirty":   result.State.Dirty,
	})

	return nil
}

// versionSource picks the version source: --version, then --version-file,
// then the project file's version_file.
func versionSource(cmd *cobra.Command, opts *options, cfg *AppConfig) (domain.VersionSource, error) {
	switch {
	case cmd.Flags().Changed("version"):
		return domain.ExplicitVersion(opts.version), nil
	case cmd.Flags().Changed("version-file"):
		return domain.VersionFile(opts.versionFile), nil
	case cfg.VersionFile != "":
		return domain.VersionFile(cfg.VersionFile), nil
	default:
		return domain.VersionSource{}, fmt.Errorf(
			"%w: one of --version or --version-file is required", domain.ErrNoVersionSource)
	}
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
