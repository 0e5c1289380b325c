package cmd

import (
	"context"
	"fmt"

	"revu/internal/domain"
	"revu/internal/review"
)

// ReviewCmd groups the hunk review operations
type ReviewCmd struct {
	Accept ReviewAcceptCmd `cmd:"accept" help:"Accept hunks of a file"`
	Reject ReviewRejectCmd `cmd:"reject" help:"Reject hunks of a file"`
	Reset  ReviewResetCmd  `cmd:"reset" help:"Reset hunks of a file back to pending"`
	Apply  ReviewApplyCmd  `cmd:"apply" help:"Rewrite the file with the accepted hunks"`
}

// ReviewAcceptCmd marks hunks accepted
type ReviewAcceptCmd struct {
	Path    string `arg:"" help:"File path relative to the repository root"`
	Hunk    string `help:"Hunk ID to accept (see 'revu diff')" xor:"target"`
	All     bool   `help:"Accept every hunk, overriding earlier decisions" xor:"target"`
	Pending bool   `help:"Accept the hunks still pending, keeping earlier decisions" xor:"target"`
	Staged  bool   `help:"Operate on the staged diff" short:"s"`
}

// Run executes the accept command
func (r *ReviewAcceptCmd) Run(cli *CLI) error {
	return runDecision(cli, r.Path, r.Staged, func(ctx context.Context) (review.Decisions, error) {
		svc := cli.Container.ReviewService
		switch {
		case r.All:
			return svc.AcceptAll(ctx)
		case r.Pending:
			return svc.AcceptPending(ctx)
		case r.Hunk != "":
			return svc.AcceptHunk(ctx, r.Hunk)
		default:
			return nil, fmt.Errorf("specify --hunk, --all or --pending")
		}
	})
}

// ReviewRejectCmd marks hunks rejected
type ReviewRejectCmd struct {
	Path    string `arg:"" help:"File path relative to the repository root"`
	Hunk    string `help:"Hunk ID to reject (see 'revu diff')" xor:"target"`
	All     bool   `help:"Reject every hunk, overriding earlier decisions" xor:"target"`
	Pending bool   `help:"Reject the hunks still pending, keeping earlier decisions" xor:"target"`
	Staged  bool   `help:"Operate on the staged diff" short:"s"`
}

// Run executes the reject command
func (r *ReviewRejectCmd) Run(cli *CLI) error {
	return runDecision(cli, r.Path, r.Staged, func(ctx context.Context) (review.Decisions, error) {
		svc := cli.Container.ReviewService
		switch {
		case r.All:
			return svc.RejectAll(ctx)
		case r.Pending:
			return svc.RejectPending(ctx)
		case r.Hunk != "":
			return svc.RejectHunk(ctx, r.Hunk)
		default:
			return nil, fmt.Errorf("specify --hunk, --all or --pending")
		}
	})
}

// ReviewResetCmd puts a hunk back to pending
type ReviewResetCmd struct {
	Path   string `arg:"" help:"File path relative to the repository root"`
	Hunk   string `help:"Hunk ID to reset (see 'revu diff')" required:""`
	Staged bool   `help:"Operate on the staged diff" short:"s"`
}

// Run executes the reset command
func (r *ReviewResetCmd) Run(cli *CLI) error {
	return runDecision(cli, r.Path, r.Staged, func(ctx context.Context) (review.Decisions, error) {
		return cli.Container.ReviewService.ResetHunk(ctx, r.Hunk)
	})
}

// ReviewApplyCmd rewrites the working file with the accepted hunks
type ReviewApplyCmd struct {
	Path        string `arg:"" help:"File path relative to the repository root"`
	Staged      bool   `help:"Operate on the staged diff" short:"s"`
	KeepPending bool   `help:"Treat pending hunks as rejected instead of refusing to apply"`
}

// Run executes the apply command
func (r *ReviewApplyCmd) Run(cli *CLI) error {
	ctx := context.Background()
	svc := cli.Container.ReviewService

	if _, err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if _, _, err := svc.OpenReview(ctx, r.Path, r.Staged); err != nil {
		return fmt.Errorf("failed to open review: %w", err)
	}

	opts := review.ApplyOptions{PendingKeepsOriginal: r.KeepPending}
	if err := svc.Materialize(ctx, opts); err != nil {
		return fmt.Errorf("failed to apply review: %w", err)
	}

	fmt.Printf("Applied review to %s.\n", r.Path)
	return nil
}

// runDecision opens the review on one file, runs a decision operation
// and prints the resulting decision counts.
func runDecision(cli *CLI, path string, staged bool, op func(context.Context) (review.Decisions, error)) error {
	ctx := context.Background()
	svc := cli.Container.ReviewService

	if _, err := svc.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to read status: %w", err)
	}
	if _, _, err := svc.OpenReview(ctx, path, staged); err != nil {
		return fmt.Errorf("failed to open review: %w", err)
	}

	decisions, err := op(ctx)
	if err != nil {
		return err
	}

	var accepted, rejected, pending int
	for _, status := range decisions {
		switch status {
		case domain.HunkAccepted:
			accepted++
		case domain.HunkRejected:
			rejected++
		default:
			pending++
		}
	}
	fmt.Printf("%s: %d accepted, %d rejected, %d pending\n", path, accepted, rejected, pending)
	return nil
}
