package ports

import (
	"context"

	"revu/internal/domain"
)

// RepoProber checks that a path is a git repository before any other
// command runs, so callers can distinguish "not a repo" from a generic
// command failure.
type RepoProber interface {
	// Probe returns the repository root, or domain.ErrNotARepository.
	Probe(ctx context.Context) (string, error)
}

// StatusReader fetches raw porcelain status text.
type StatusReader interface {
	Status(ctx context.Context) (string, error)
}

// DiffReader fetches raw unified-diff text. An empty path means the whole
// tree; staged selects the index-vs-HEAD comparison instead of
// worktree-vs-index.
type DiffReader interface {
	Diff(ctx context.Context, path string, staged bool) (string, error)
}

// Stager moves whole paths in and out of the index.
type Stager interface {
	Stage(ctx context.Context, paths ...string) error
	Unstage(ctx context.Context, paths ...string) error
}

// Committer records the staged changes.
type Committer interface {
	Commit(ctx context.Context, message string) error
}

// Syncer exchanges commits with the remote. Long-running; retryable on
// failure.
type Syncer interface {
	Push(ctx context.Context) error
	Pull(ctx context.Context) error
}

// StatsProvider fetches working tree statistics.
type StatsProvider interface {
	FetchStats(ctx context.Context) (*domain.RepoStats, error)
}

// GitRepository is the composite interface for one repository root.
// Implementations serialize mutating commands against the repository and
// surface domain.ErrOperationInProgress on contention.
type GitRepository interface {
	Committer
	DiffReader
	RepoProber
	Stager
	StatsProvider
	StatusReader
	Syncer
}
