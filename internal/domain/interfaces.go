// Package domain defines the core business entities and interfaces for plox-version.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for repository queries and version resolution.
var (
	// ErrRepositoryNotFound indicates the project directory is missing or is not a Git root.
	ErrRepositoryNotFound = errors.New("unusable project directory")

	// ErrRepositoryQuery indicates a repository query could not be run or exited unexpectedly.
	ErrRepositoryQuery = errors.New("repository query failed")

	// ErrUnexpectedOutput indicates a query expected to yield one line yielded zero or several.
	ErrUnexpectedOutput = errors.New("unexpected repository query output")

	// ErrMalformedVersionFile indicates the version file is missing or does not hold exactly one version line.
	ErrMalformedVersionFile = errors.New("ill-formed version file")

	// ErrEmptyVersion indicates the raw version is empty or whitespace-only.
	ErrEmptyVersion = errors.New("version must not be empty")

	// ErrNoVersionSource indicates neither an explicit version nor a version file was given.
	ErrNoVersionSource = errors.New("no version source provided")
)

// RepositoryQuery runs a read-only query against the version-control system.
type RepositoryQuery interface {
	// Query runs the VCS with args inside workingDir.
	// A returned error means the query could not be started at all; a query
	// that ran and exited non-zero is reported through QueryResult.ExitCode.
	Query(ctx context.Context, workingDir string, args ...string) (*QueryResult, error)
}

// StatusProbe answers the two questions version resolution asks of a working tree.
type StatusProbe interface {
	// IsDirty reports whether the working tree has uncommitted changes.
	// Returns ErrRepositoryQuery if the status query fails.
	IsDirty(ctx context.Context, workingDir string) (bool, error)

	// ShortCommitID returns the abbreviated id of the current commit.
	// Returns ErrUnexpectedOutput unless the query yields exactly one line.
	ShortCommitID(ctx context.Context, workingDir string) (string, error)
}

// OutputWriter writes a resolution result to an output destination.
type OutputWriter interface {
	// WriteResult writes the resolved version, and in structured formats the
	// repository state, to the output.
	WriteResult(output *ResolveOutput) error
}

// Resolver resolves the final version string for a working tree.
type Resolver interface {
	// Resolve combines the raw version with the repository state.
	Resolve(ctx context.Context, input ResolveInput) (*ResolveOutput, error)
}
