// Package git provides adapters for interacting with local Git repositories.
// This package implements domain.RepositoryQuery with the git executable and
// domain.StatusProbe with either that query or go-git/v5.
package git

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// Logger defines the logging interface for the git adapters.
// This interface enables dependency injection and testability.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// ExecQuery implements domain.RepositoryQuery by running the git executable.
type ExecQuery struct {
	exe    string
	logger Logger
}

// ExecOption configures an ExecQuery.
type ExecOption func(*ExecQuery)

// WithExecutable sets an explicit path to the git executable.
func WithExecutable(path string) ExecOption {
	return func(q *ExecQuery) {
		q.exe = path
	}
}

// NewExecQuery creates an ExecQuery, locating git on PATH unless
// WithExecutable is given. Returns domain.ErrRepositoryQuery if no git
// executable can be found.
func NewExecQuery(log Logger, opts ...ExecOption) (*ExecQuery, error) {
	q := &ExecQuery{logger: log}
	for _, opt := range opts {
		opt(q)
	}

	if q.exe == "" {
		exe, err := exec.LookPath("git")
		if err != nil {
			return nil, fmt.Errorf("%w: missing required git executable: %w", domain.ErrRepositoryQuery, err)
		}
		q.exe = exe
	}

	return q, nil
}

// Query runs git with args inside workingDir.
// A non-zero exit is not an error here; it is reported via QueryResult.ExitCode.
func (q *ExecQuery) Query(ctx context.Context, workingDir string, args ...string) (*domain.QueryResult, error) {
	q.logger.Debug(ctx, "running git", map[string]interface{}{
		"exe":  q.exe,
		"cwd":  workingDir,
		"args": args,
	})

	cmd := exec.CommandContext(ctx, q.exe, args...)
	cmd.Dir = workingDir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	exitCode := 0
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: git %s: %w", domain.ErrRepositoryQuery, strings.Join(args, " "), err)
		}
		exitCode = exitErr.ExitCode()
	}

	return &domain.QueryResult{
		ExitCode: exitCode,
		Stdout:   decodeLines(stdout.Bytes()),
		Stderr:   decodeLines(stderr.Bytes()),
	}, nil
}

// decodeLines splits raw process output into lines, dropping empty ones.
// Invalid UTF-8 sequences are replaced rather than rejected.
func decodeLines(raw []byte) []string {
	text := strings.ToValidUTF8(string(raw), "�")

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
