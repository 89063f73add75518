package git

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/MyCarrier-DevOps/plox-version/internal/domain"
)

// ShortCommitIDLength is the number of hex characters GoGitProbe keeps of a commit hash.
const ShortCommitIDLength = 7

// GoGitProbe implements domain.StatusProbe using go-git/v5.
// It answers the same questions as CommandProbe without a git executable.
type GoGitProbe struct {
	logger Logger
}

// NewGoGitProbe creates a new GoGitProbe.
func NewGoGitProbe(log Logger) *GoGitProbe {
	return &GoGitProbe{logger: log}
}

// Open opens the repository rooted at path.
// Returns domain.ErrRepositoryNotFound if the path is not a valid Git repository.
func Open(path string) (*git.Repository, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrRepositoryNotFound, path, err)
	}
	return repo, nil
}

// IsDirty reports whether the worktree at workingDir has staged, unstaged or
// untracked changes. Files ignored through the user's core.excludesFile or the
// system gitconfig do not count, matching git status.
func (p *GoGitProbe) IsDirty(ctx context.Context, workingDir string) (bool, error) {
	repo, err := p.open(workingDir)
	if err != nil {
		return false, err
	}

	wt, err := repo.Worktree()
	if err != nil {
		return false, fmt.Errorf("%w: failed to get worktree: %w", domain.ErrRepositoryQuery, err)
	}

	excludes, err := configExcludes()
	if err != nil {
		return false, fmt.Errorf("%w: failed to load excludes: %w", domain.ErrRepositoryQuery, err)
	}
	wt.Excludes = append(wt.Excludes, excludes...)

	status, err := wt.Status()
	if err != nil {
		return false, fmt.Errorf("%w: failed to get worktree status: %w", domain.ErrRepositoryQuery, err)
	}

	dirty := !status.IsClean()
	p.logger.Debug(ctx, "checked working tree status", map[string]interface{}{
		"path":  workingDir,
		"dirty": dirty,
	})
	return dirty, nil
}

// ShortCommitID returns the first ShortCommitIDLength characters of the HEAD hash.
// A repository without commits yields domain.ErrUnexpectedOutput.
func (p *GoGitProbe) ShortCommitID(ctx context.Context, workingDir string) (string, error) {
	repo, err := p.open(workingDir)
	if err != nil {
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return "", fmt.Errorf("%w: HEAD does not point at a commit", domain.ErrUnexpectedOutput)
		}
		return "", fmt.Errorf("%w: failed to get HEAD: %w", domain.ErrRepositoryQuery, err)
	}

	id := head.Hash().String()[:ShortCommitIDLength]

	p.logger.Debug(ctx, "resolved HEAD", map[string]interface{}{
		"path":     workingDir,
		"head_sha": head.Hash().String(),
		"short_id": id,
	})
	return id, nil
}

// open wraps Open so an unreadable repository surfaces as a query failure.
func (p *GoGitProbe) open(workingDir string) (*git.Repository, error) {
	repo, err := Open(workingDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrRepositoryQuery, err)
	}
	return repo, nil
}

// configExcludes loads the ignore patterns go-git does not read on its own:
// core.excludesFile from the global and the system gitconfig.
func configExcludes() ([]gitignore.Pattern, error) {
	root := osfs.New("/")

	global, err := gitignore.LoadGlobalPatterns(root)
	if err != nil {
		return nil, err
	}
	system, err := gitignore.LoadSystemPatterns(root)
	if err != nil {
		return nil, err
	}
	return append(global, system...), nil
}
