// Package git implements the repository ports by shelling out to the
// git binary. One CLIRepository serves one repository root; operations on
// different roots are fully independent.
package git

import (
	"context"
	"errors"
	"strings"
	"sync"

	"revu/internal/domain"
	"revu/internal/logging"
	"revu/internal/ports"
)

// CLIRepository implements ports.GitRepository using local git commands.
//
// Mutating commands (stage, unstage, commit, push, pull) are serialized
// against the repository: a second mutating call while one is in flight
// fails immediately with domain.ErrOperationInProgress instead of
// queueing. Read-only commands run concurrently with each other but wait
// for any in-flight mutation, so they never observe a half-mutated index.
type CLIRepository struct {
	root string
	run  *runner

	writeMu sync.Mutex   // held for the duration of one mutating command
	stateMu sync.RWMutex // excludes readers while the index/tree mutates
}

// Verify interface compliance at compile time
var _ ports.GitRepository = (*CLIRepository)(nil)

// NewCLIRepository creates a repository bound to the given root.
func NewCLIRepository(root, gitBin string) *CLIRepository {
	return &CLIRepository{
		root: root,
		run:  newRunner(root, gitBin),
	}
}

// Root returns the configured repository root.
func (r *CLIRepository) Root() string {
	return r.root
}

// Probe implements RepoProber.Probe. It runs before any status or diff
// command so callers can offer "initialize" instead of a generic failure.
func (r *CLIRepository) Probe(ctx context.Context) (string, error) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()

	out, err := r.run.run(ctx, "rev-parse", "rev-parse", "--show-toplevel")
	if err != nil {
		logging.Logger.Debug("Not a git repository", "path", r.root, "error", err)
		return "", domain.ErrNotARepository
	}
	return strings.TrimSpace(out), nil
}

// Status implements StatusReader.Status.
func (r *CLIRepository) Status(ctx context.Context) (string, error) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()

	return r.run.run(ctx, "status", "status", "--porcelain")
}

// Diff implements DiffReader.Diff. An empty path diffs the whole tree;
// staged selects index-vs-HEAD. Untracked paths produce no output from a
// plain diff, so those fall back to a --no-index comparison against
// /dev/null, which exits 1 when a diff exists. The fallback only fires
// for paths absent from the index: a tracked file with an empty diff is
// simply unchanged, not new.
func (r *CLIRepository) Diff(ctx context.Context, path string, staged bool) (string, error) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()

	args := []string{"diff"}
	if staged {
		args = append(args, "--cached")
	}
	if path != "" {
		args = append(args, "--", path)
	}

	out, err := r.run.run(ctx, "diff", args...)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(out) != "" || staged || path == "" {
		return out, nil
	}
	if !r.isUntracked(ctx, path) {
		return out, nil
	}

	return r.untrackedDiff(ctx, path)
}

// isUntracked reports whether path is absent from the index.
func (r *CLIRepository) isUntracked(ctx context.Context, path string) bool {
	_, err := r.run.run(ctx, "ls-files", "ls-files", "--error-unmatch", "--", path)
	return err != nil
}

func (r *CLIRepository) untrackedDiff(ctx context.Context, path string) (string, error) {
	out, err := r.run.run(ctx, "diff", "diff", "--no-index", "--", "/dev/null", path)
	if err == nil {
		return out, nil
	}

	var cmdErr *domain.CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		// --no-index exits 1 when a diff exists; the diff text is the
		// command output captured on the error.
		return cmdErr.Stderr, nil
	}

	// Not an untracked file (or not diffable this way): no diff.
	return "", nil
}

// Stage implements Stager.Stage.
func (r *CLIRepository) Stage(ctx context.Context, paths ...string) error {
	return r.mutate(ctx, "add", append([]string{"add", "--"}, paths...)...)
}

// Unstage implements Stager.Unstage.
func (r *CLIRepository) Unstage(ctx context.Context, paths ...string) error {
	return r.mutate(ctx, "restore", append([]string{"restore", "--staged", "--"}, paths...)...)
}

// Commit implements Committer.Commit.
func (r *CLIRepository) Commit(ctx context.Context, message string) error {
	return r.mutate(ctx, "commit", "commit", "-m", message)
}

// Push implements Syncer.Push. Safe to retry after a failure: push is
// atomic at the command level.
func (r *CLIRepository) Push(ctx context.Context) error {
	return r.mutate(ctx, "push", "push")
}

// Pull implements Syncer.Pull.
func (r *CLIRepository) Pull(ctx context.Context) error {
	return r.mutate(ctx, "pull", "pull")
}

// mutate runs one mutating command under the write gate.
func (r *CLIRepository) mutate(ctx context.Context, op string, args ...string) error {
	if !r.writeMu.TryLock() {
		logging.Logger.Info("Rejecting concurrent mutation", "op", op, "root", r.root)
		return domain.ErrOperationInProgress
	}
	defer r.writeMu.Unlock()

	// Wait for in-flight reads to drain before touching the index.
	r.stateMu.Lock()
	defer r.stateMu.Unlock()

	_, err := r.run.run(ctx, op, args...)
	return err
}
