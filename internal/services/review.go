// Package services wires the pure review core to the repository, content
// and generator collaborators for consumption by the shell and the CLI.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"revu/internal/changeset"
	"revu/internal/domain"
	"revu/internal/logging"
	"revu/internal/ports"
	"revu/internal/review"
)

// ErrNoReviewOpen is returned by hunk operations when no diff is under
// review.
var ErrNoReviewOpen = errors.New("no review open")

// session is the review state for the one diff currently open. It is
// discarded when another diff is opened or the change list refreshes.
type session struct {
	path   string
	staged bool
	store  *review.Store
}

// ReviewService is the working model over one repository: change list,
// lazily fetched diffs, hunk decisions, materialization, and the
// commit/push/pull operations around them. Construct one per repository
// root; instances never share state.
type ReviewService struct {
	repoRoot  string
	repo      ports.GitRepository
	content   ports.ContentStore
	generator ports.MessageGenerator
	reviews   ports.ReviewStore
	agg       *changeset.Aggregator

	mu      sync.Mutex
	current *session
}

// NewReviewService creates the service. generator and reviews may be nil
// when message generation or decision persistence is not configured.
func NewReviewService(repoRoot string, repo ports.GitRepository, content ports.ContentStore, generator ports.MessageGenerator, reviews ports.ReviewStore) (*ReviewService, error) {
	agg, err := changeset.New(repo, repo)
	if err != nil {
		return nil, err
	}
	return &ReviewService{
		repoRoot:  repoRoot,
		repo:      repo,
		content:   content,
		generator: generator,
		reviews:   reviews,
		agg:       agg,
	}, nil
}

// Probe verifies the root is a repository before anything else runs.
func (s *ReviewService) Probe(ctx context.Context) (string, error) {
	return s.repo.Probe(ctx)
}

// Refresh re-reads the change list. Any open review is closed: its diff
// may no longer describe the file.
func (s *ReviewService) Refresh(ctx context.Context) ([]domain.FileChange, error) {
	changes, err := s.agg.Refresh(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	return changes, nil
}

// Changes returns the current change list.
func (s *ReviewService) Changes() []domain.FileChange {
	return s.agg.Changes()
}

// Diff returns the parsed diff for one path without opening a review.
func (s *ReviewService) Diff(ctx context.Context, path string, staged bool) (*domain.FileDiff, error) {
	return s.agg.RequestDiff(ctx, path, staged)
}

// OpenReview fetches the diff for one path and starts tracking decisions
// for its hunks, restoring any persisted ones. An already open review
// for a different diff is discarded.
func (s *ReviewService) OpenReview(ctx context.Context, path string, staged bool) (*domain.FileDiff, review.Decisions, error) {
	diff, err := s.agg.RequestDiff(ctx, path, staged)
	if err != nil {
		return nil, nil, err
	}

	store := review.NewStore(diff)
	if s.reviews != nil {
		saved, err := s.reviews.LoadDecisions(ctx, s.repoRoot, path, staged)
		if err != nil {
			logging.Logger.Warn("Failed to load persisted decisions", "path", path, "error", err)
		} else if len(saved) > 0 {
			store.Restore(saved)
		}
	}

	s.mu.Lock()
	s.current = &session{path: path, staged: staged, store: store}
	s.mu.Unlock()

	logging.Logger.Info("Review opened", "path", path, "staged", staged, "hunks", len(diff.Hunks))
	return diff, store.Decisions(), nil
}

// AcceptHunk marks one hunk of the open review accepted.
func (s *ReviewService) AcceptHunk(ctx context.Context, id string) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.Accept(id) })
}

// RejectHunk marks one hunk of the open review rejected.
func (s *ReviewService) RejectHunk(ctx context.Context, id string) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.Reject(id) })
}

// ResetHunk returns one hunk of the open review to pending.
func (s *ReviewService) ResetHunk(ctx context.Context, id string) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.Reset(id) })
}

// AcceptPending accepts the open review's still-pending hunks.
func (s *ReviewService) AcceptPending(ctx context.Context) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.AcceptPending(), nil })
}

// RejectPending rejects the open review's still-pending hunks.
func (s *ReviewService) RejectPending(ctx context.Context) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.RejectPending(), nil })
}

// AcceptAll forces every hunk of the open review to accepted.
func (s *ReviewService) AcceptAll(ctx context.Context) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.AcceptAll(), nil })
}

// RejectAll forces every hunk of the open review to rejected.
func (s *ReviewService) RejectAll(ctx context.Context) (review.Decisions, error) {
	return s.decide(ctx, func(st *review.Store) (review.Decisions, error) { return st.RejectAll(), nil })
}

func (s *ReviewService) decide(ctx context.Context, op func(*review.Store) (review.Decisions, error)) (review.Decisions, error) {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return nil, ErrNoReviewOpen
	}

	decisions, err := op(sess.store)
	if err != nil {
		return nil, err
	}

	if s.reviews != nil {
		if err := s.reviews.SaveDecisions(ctx, s.repoRoot, sess.path, sess.staged, decisions); err != nil {
			logging.Logger.Warn("Failed to persist decisions", "path", sess.path, "error", err)
		}
	}
	return decisions, nil
}

// Materialize computes the reviewed content for the open review and
// writes it back. The review is closed and its cached diff invalidated:
// the file no longer matches it.
func (s *ReviewService) Materialize(ctx context.Context, opts review.ApplyOptions) error {
	s.mu.Lock()
	sess := s.current
	s.mu.Unlock()
	if sess == nil {
		return ErrNoReviewOpen
	}

	diff := sess.store.Diff()

	original, exists, err := s.content.Read(ctx, sess.path)
	if err != nil {
		return err
	}
	if !exists && !diff.IsNewFile {
		return &domain.ApplyConflictError{
			Path:   sess.path,
			Reason: "file no longer exists",
		}
	}
	if diff.IsNewFile {
		// A new-file diff's old side is empty; an untracked file already
		// holds the new side on disk, so its current content must not be
		// treated as the base.
		original = nil
	}

	result, err := review.Apply(original, diff, sess.store.Decisions(), opts)
	if err != nil {
		return err
	}

	if result.Deleted {
		err = s.content.Remove(ctx, sess.path)
	} else {
		err = s.content.Write(ctx, sess.path, result.Lines)
	}
	if err != nil {
		return err
	}

	s.agg.Invalidate(sess.path, sess.staged)
	if s.reviews != nil {
		if err := s.reviews.ClearDecisions(ctx, s.repoRoot, sess.path, sess.staged); err != nil {
			logging.Logger.Warn("Failed to clear persisted decisions", "path", sess.path, "error", err)
		}
	}

	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	logging.Logger.Info("Review materialized", "path", sess.path, "deleted", result.Deleted)
	return nil
}

// Stage adds whole paths to the index.
func (s *ReviewService) Stage(ctx context.Context, paths ...string) error {
	return s.repo.Stage(ctx, paths...)
}

// Unstage removes whole paths from the index.
func (s *ReviewService) Unstage(ctx context.Context, paths ...string) error {
	return s.repo.Unstage(ctx, paths...)
}

// Commit records the staged changes.
func (s *ReviewService) Commit(ctx context.Context, message string) error {
	if strings.TrimSpace(message) == "" {
		return fmt.Errorf("commit message is empty")
	}
	return s.repo.Commit(ctx, message)
}

// Push sends local commits to the remote.
func (s *ReviewService) Push(ctx context.Context) error {
	return s.repo.Push(ctx)
}

// Pull fetches and integrates remote commits.
func (s *ReviewService) Pull(ctx context.Context) error {
	return s.repo.Pull(ctx)
}

// Stats fetches working tree statistics.
func (s *ReviewService) Stats(ctx context.Context) (*domain.RepoStats, error) {
	return s.repo.FetchStats(ctx)
}

// GenerateCommitMessage summarizes the relevant diff: the staged diff
// when staged changes exist, the full working diff otherwise. With no
// diff text at all it short-circuits before calling the generator.
func (s *ReviewService) GenerateCommitMessage(ctx context.Context) (string, error) {
	if s.generator == nil {
		return "", fmt.Errorf("no commit message generator configured")
	}

	diff, err := s.repo.Diff(ctx, "", true)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(diff) == "" {
		diff, err = s.repo.Diff(ctx, "", false)
		if err != nil {
			return "", err
		}
	}
	if strings.TrimSpace(diff) == "" {
		return "", domain.ErrNothingToSummarize
	}

	return s.generator.Generate(ctx, diff)
}
