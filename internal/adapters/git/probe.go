package git

import (
	"context"
	"fmt"
	"strings"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// Git arguments for the two repository questions.
var (
	statusArgs   = []string{"status", "--short"}
	commitIDArgs = []string{"rev-parse", "--short", "HEAD"}
)

// CommandProbe implements domain.StatusProbe over a domain.RepositoryQuery.
type CommandProbe struct {
	query        domain.RepositoryQuery
	expectedCode int
	verbose      bool
	logger       Logger
}

// ProbeOption configures a CommandProbe.
type ProbeOption func(*CommandProbe)

// WithExpectedCode sets the exit code a query must return to succeed. Defaults to 0.
func WithExpectedCode(code int) ProbeOption {
	return func(p *CommandProbe) {
		p.expectedCode = code
	}
}

// WithVerboseOutput logs the output of every query, not only failed ones.
func WithVerboseOutput(enabled bool) ProbeOption {
	return func(p *CommandProbe) {
		p.verbose = enabled
	}
}

// NewCommandProbe creates a CommandProbe that asks query about working trees.
func NewCommandProbe(query domain.RepositoryQuery, log Logger, opts ...ProbeOption) *CommandProbe {
	p := &CommandProbe{
		query:  query,
		logger: log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// IsDirty reports whether workingDir has uncommitted changes, i.e. whether
// `git status --short` prints any non-empty line.
func (p *CommandProbe) IsDirty(ctx context.Context, workingDir string) (bool, error) {
	lines, err := p.run(ctx, workingDir, statusArgs...)
	if err != nil {
		return false, err
	}

	dirty := len(lines) > 0
	p.logger.Debug(ctx, "checked working tree status", map[string]interface{}{
		"path":          workingDir,
		"dirty":         dirty,
		"changed_paths": len(lines),
	})
	return dirty, nil
}

// ShortCommitID returns the abbreviated id of HEAD in workingDir.
// Returns domain.ErrUnexpectedOutput unless git prints exactly one line.
func (p *CommandProbe) ShortCommitID(ctx context.Context, workingDir string) (string, error) {
	lines, err := p.run(ctx, workingDir, commitIDArgs...)
	if err != nil {
		return "", err
	}

	if len(lines) != 1 {
		return "", fmt.Errorf(
			"%w: git %s returned %d lines, expected 1",
			domain.ErrUnexpectedOutput,
			strings.Join(commitIDArgs, " "),
			len(lines),
		)
	}

	return lines[0], nil
}

// run executes a query and returns its non-empty stdout lines.
// Any exit code other than the expected one is a domain.ErrRepositoryQuery.
func (p *CommandProbe) run(ctx context.Context, workingDir string, args ...string) ([]string, error) {
	result, err := p.query.Query(ctx, workingDir, args...)
	if err != nil {
		return nil, err
	}

	failed := result.ExitCode != p.expectedCode
	if failed || p.verbose {
		p.logOutput(ctx, result)
	}

	if failed {
		return nil, fmt.Errorf(
			"%w: git %s failed with code %d",
			domain.ErrRepositoryQuery,
			strings.Join(args, " "),
			result.ExitCode,
		)
	}

	return result.Stdout, nil
}

// logOutput logs stdout lines at info and stderr lines at error.
func (p *CommandProbe) logOutput(ctx context.Context, result *domain.QueryResult) {
	for _, line := range result.Stdout {
		p.logger.Info(ctx, line, map[string]interface{}{"stream": "stdout"})
	}
	for _, line := range result.Stderr {
		p.logger.Error(ctx, line, nil, map[string]interface{}{"stream": "stderr"})
	}
}
