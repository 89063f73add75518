// Package main is the entry point for the plox-version CLI application.
// plox-version prints a deterministic version string for a Git working tree,
// suffixed with the short commit id when the tree has uncommitted changes.
package main

import (
	"io"
	"os"

	"github.com/MyCarrier-DevOps/plox-version/cmd"
	"github.com/MyCarrier-DevOps/plox-version/internal/adapters/git"
	logadapter "github.com/MyCarrier-DevOps/plox-version/internal/adapters/logger"
	"github.com/MyCarrier-DevOps/plox-version/internal/adapters/output"
	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
	"github.com/MyCarrier-DevOps/plox-version/internal/infrastructure/config"
	"github.com/MyCarrier-DevOps/plox-version/internal/usecases"
)

func main() {
	cmd.SetDefaultDependencies(newDependencies())
	cmd.Execute()
}

// newDependencies wires up the production dependencies.
func newDependencies() *cmd.Dependencies {
	return &cmd.Dependencies{
		ConfigLoader: loadConfig,

		LoggerFactory: func(cfg *cmd.AppConfig) (cmd.Logger, error) {
			return logadapter.New(logadapter.Options{
				Level:  cfg.LogLevel,
				Format: cfg.LogFormat,
				Name:   cfg.LogAppName,
			})
		},

		ProbeFactory: newProbe,

		ResolverFactory: func(probe domain.StatusProbe, log cmd.Logger) domain.Resolver {
			return usecases.NewVersionResolver(probe, log)
		},

		OutputWriterFactory: func(out io.Writer, format string) (domain.OutputWriter, error) {
			return output.NewWriterWithOutput(out, format)
		},

		Stdout: os.Stdout,
		Stderr: os.Stderr,
	}
}

// loadConfig loads configuration and maps it onto the command's AppConfig.
func loadConfig(projectDir string) (*cmd.AppConfig, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, err
	}
	return &cmd.AppConfig{
		ProjectDir:    cfg.ProjectDir,
		LogLevel:      cfg.LogLevel,
		LogFormat:     cfg.LogFormat,
		LogAppName:    cfg.LogAppName,
		Backend:       cfg.Backend,
		GitExecutable: cfg.GitExecutable,
		VersionFile:   cfg.VersionFile,
		Output:        cfg.Output,
	}, nil
}

// newProbe creates the StatusProbe for cfg.Backend.
func newProbe(cfg *cmd.AppConfig, log cmd.Logger) (domain.StatusProbe, error) {
	switch cfg.Backend {
	case config.BackendGoGit:
		return git.NewGoGitProbe(log), nil
	case config.BackendExec, "":
		var opts []git.ExecOption
		if cfg.GitExecutable != "" {
			opts = append(opts, git.WithExecutable(cfg.GitExecutable))
		}
		query, err := git.NewExecQuery(log, opts...)
		if err != nil {
			return nil, err
		}
		return git.NewCommandProbe(query, log, git.WithVerboseOutput(cfg.LogLevel == "debug")), nil
	default:
		return nil, newBackendError(cfg.Backend)
	}
}

func newBackendError(backend string) error {
	return &backendError{backend: backend}
}

// backendError is returned when the configured repository backend is unknown.
type backendError struct {
	backend string
}

func (e *backendError) Error() string {
	return "unsupported repository backend: " + e.backend
}
