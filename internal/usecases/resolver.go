// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// Logger defines the logging interface required by the resolver.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// VersionResolver produces the final version string from a version source and
// the state of a working tree. A dirty tree gets "+<short commit id>" appended.
type VersionResolver struct {
	probe  domain.StatusProbe
	logger Logger
}

// NewVersionResolver creates a new VersionResolver with the given dependencies.
func NewVersionResolver(probe domain.StatusProbe, log Logger) *VersionResolver {
	return &VersionResolver{
		probe:  probe,
		logger: log,
	}
}

// Resolve reads the raw version from input.Source, asks the probe whether
// input.WorkingDir is dirty and, if so, appends the short commit id.
//
// Every failure aborts the resolution; probe errors are returned unchanged
// so callers can match them with errors.Is.
func (r *VersionResolver) Resolve(ctx context.Context, input domain.ResolveInput) (*domain.ResolveOutput, error) {
	raw, err := r.rawVersion(input.Source)
	if err != nil {
		return nil, err
	}

	r.logger.Debug(ctx, "raw version", map[string]interface{}{
		"version": raw,
		"source":  input.Source.Kind.String(),
	})

	dirty, err := r.probe.IsDirty(ctx, input.WorkingDir)
	if err != nil {
		return nil, err
	}

	out := &domain.ResolveOutput{
		Version:    raw,
		RawVersion: raw,
		State:      domain.RepositoryState{Dirty: dirty},
	}

	if dirty {
		commitID, err := r.probe.ShortCommitID(ctx, input.WorkingDir)
		if err != nil {
			return nil, err
		}
		out.State.CommitID = commitID
		out.Version = raw + domain.VersionSuffixSeparator + commitID
	}

	r.logger.Debug(ctx, "version string", map[string]interface{}{
		"version":   out.Version,
		"dirty":     dirty,
		"commit_id": out.State.CommitID,
	})

	return out, nil
}

// rawVersion extracts the raw version from source and rejects empty values.
func (r *VersionResolver) rawVersion(source domain.VersionSource) (string, error) {
	var raw string

	switch source.Kind {
	case domain.SourceExplicit:
		raw = source.Value
	case domain.SourceFile:
		v, err := ReadVersionFile(source.Path)
		if err != nil {
			return "", err
		}
		raw = v
	default:
		return "", fmt.Errorf("%w: %w", domain.ErrEmptyVersion, domain.ErrNoVersionSource)
	}

	if strings.TrimSpace(raw) == "" {
		return "", fmt.Errorf("%w: got %q from %s source", domain.ErrEmptyVersion, raw, source.Kind)
	}

	return raw, nil
}
