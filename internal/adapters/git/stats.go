package git

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"revu/internal/domain"
	"revu/internal/logging"
)

// FetchStats implements StatsProvider.FetchStats. The individual numbers
// are fetched concurrently; a missing tracking branch or an empty tree is
// not fatal, the affected numbers just stay zero.
func (r *CLIRepository) FetchStats(ctx context.Context) (*domain.RepoStats, error) {
	r.stateMu.RLock()
	defer r.stateMu.RUnlock()

	stats := &domain.RepoStats{
		FetchedAt: time.Now(),
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ahead, behind, err := r.aheadBehind(ctx)
		if err != nil {
			logging.Logger.Debug("Failed to get ahead/behind", "error", err)
			return nil
		}
		stats.Ahead = ahead
		stats.Behind = behind
		return nil
	})

	g.Go(func() error {
		additions, deletions, files, err := r.fileStats(ctx)
		if err != nil {
			logging.Logger.Debug("Failed to get file stats", "error", err)
			return nil
		}
		stats.Additions = additions
		stats.Deletions = deletions
		stats.ChangedFiles = files
		return nil
	})

	if err := g.Wait(); err != nil {
		return stats, err
	}

	logging.Logger.Debug("Repo stats fetched",
		"ahead", stats.Ahead,
		"behind", stats.Behind,
		"changed_files", stats.ChangedFiles,
		"additions", stats.Additions,
		"deletions", stats.Deletions)

	return stats, nil
}

// aheadBehind returns how many commits the branch is ahead of and behind
// its tracking branch.
func (r *CLIRepository) aheadBehind(ctx context.Context) (ahead, behind int, err error) {
	out, err := r.run.run(ctx, "rev-list", "rev-list", "--left-right", "--count", "HEAD...@{upstream}")
	if err != nil {
		return 0, 0, fmt.Errorf("git rev-list failed: %w", err)
	}

	// Output: "AHEAD\tBEHIND"
	parts := strings.Fields(strings.TrimSpace(out))
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("unexpected rev-list output: %s", out)
	}

	ahead, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse ahead count: %w", err)
	}
	behind, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("failed to parse behind count: %w", err)
	}
	return ahead, behind, nil
}

// fileStats returns lines added, deleted, and the number of changed
// files in the working directory.
func (r *CLIRepository) fileStats(ctx context.Context) (additions, deletions, files int, err error) {
	out, err := r.run.run(ctx, "diff", "diff", "--numstat", "HEAD")
	if err != nil {
		return 0, 0, 0, fmt.Errorf("git diff failed: %w", err)
	}

	// Each line: "ADDED\tDELETED\tfilename"
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if line == "" {
			continue
		}
		parts := strings.Fields(line)
		if len(parts) < 3 {
			continue
		}

		files++
		// Binary files report "-" for both counts.
		if a, err := strconv.Atoi(parts[0]); err == nil {
			additions += a
		}
		if d, err := strconv.Atoi(parts[1]); err == nil {
			deletions += d
		}
	}

	return additions, deletions, files, nil
}
